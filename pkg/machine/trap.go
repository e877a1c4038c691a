// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package machine

import (
	"fmt"
)

func (mc *Machine) print(s string) error {
	for i := 0; i < len(s); i++ {
		if err := mc.Console.WriteByte(s[i]); err != nil {
			return err
		}
	}

	return nil
}

// trap performs one of the six I/O system calls named by the low eight bits
// of a TRAP instruction. Vectors outside the known set are a no-op.
func (mc *Machine) trap(vector uint16) error {
	if mc.Console == nil {
		return ErrNoConsole
	}

	switch vector {
	// Read a single character into R0, no echo
	case TRAP_GETC:
		key, err := mc.Console.ReadByte()

		if err != nil {
			return err
		}

		mc.State.Registers[0] = uint16(key)
		mc.setFlags(mc.State.Registers[0])

	// Write the low byte of R0
	case TRAP_OUT:
		if err := mc.Console.WriteByte(byte(mc.State.Registers[0])); err != nil {
			return err
		}

		return mc.Console.Flush()

	// Write the string of one-character words starting at the address in R0,
	// up to but not including the zero terminator
	case TRAP_PUTS:
		for addr := mc.State.Registers[0]; ; addr++ {
			word := mc.read(addr)

			if word == 0 {
				break
			}

			if err := mc.Console.WriteByte(byte(word)); err != nil {
				return err
			}
		}

		return mc.Console.Flush()

	// Prompt for a character, echo it, and store it into R0
	case TRAP_IN:
		if err := mc.print("Enter a character: "); err != nil {
			return err
		}

		if err := mc.Console.Flush(); err != nil {
			return err
		}

		key, err := mc.Console.ReadByte()

		if err != nil {
			return err
		}

		if mc.Verbose {
			if err := mc.print(
				fmt.Sprintf("\nRead character: %c\n", key),
			); err != nil {
				return err
			}
		}

		if err := mc.Console.WriteByte(key); err != nil {
			return err
		}

		if err := mc.Console.Flush(); err != nil {
			return err
		}

		mc.State.Registers[0] = uint16(key)
		mc.setFlags(mc.State.Registers[0])

	// Like PUTS, but each word packs two characters, low byte first; the high
	// byte of an odd-length string is zero and is not written
	case TRAP_PUTSP:
		for addr := mc.State.Registers[0]; ; addr++ {
			word := mc.read(addr)

			if word == 0 {
				break
			}

			if err := mc.Console.WriteByte(byte(word)); err != nil {
				return err
			}

			if high := byte(word >> 8); high != 0 {
				if err := mc.Console.WriteByte(high); err != nil {
					return err
				}
			}
		}

		return mc.Console.Flush()

	// Stop the run loop after this instruction
	case TRAP_HALT:
		mc.Running = false

		return mc.Console.Flush()
	}

	return nil
}
