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
	"io"

	"github.com/lassandro/golc3vm/pkg/encoding"
)

func (mc *MachineState) Reset() {
	for i := range mc.Registers {
		mc.Registers[i] = 0x0000
	}

	for i := range mc.Memory {
		mc.Memory[i] = 0x0000
	}

	mc.Program = PC_START
	mc.Condition = FLAG_ZERO
}

// LoadImage places a binary image into memory. The image's first big-endian
// word is the origin address; the remaining words fill memory from there in
// file order. The origin does not affect the start address, which is always
// PC_START. An image with more words than the space above its origin is an
// error rather than a silent truncation.
func (mc *Machine) LoadImage(reader io.Reader) error {
	var scratch [2]byte

	if _, err := io.ReadFull(reader, scratch[:]); err != nil {
		return fmt.Errorf("reading image origin: %w", err)
	}

	origin := encoding.SwapEndian(uint16(scratch[0]) | uint16(scratch[1])<<8)
	addr := uint32(origin)

	for {
		_, err := io.ReadFull(reader, scratch[:])

		if err == io.EOF {
			return nil
		} else if err == io.ErrUnexpectedEOF {
			return ErrImageTruncated
		} else if err != nil {
			return err
		}

		if addr >= uint32(len(mc.State.Memory)) {
			return ErrImageTooLarge
		}

		mc.State.Memory[addr] = encoding.SwapEndian(
			uint16(scratch[0]) | uint16(scratch[1])<<8,
		)
		addr++
	}
}

// read returns the word at addr. Reading the keyboard status register polls
// the console without blocking and refreshes both device registers first.
func (mc *Machine) read(addr uint16) uint16 {
	if addr == DEV_KBSR {
		if mc.Console != nil && mc.Console.Poll() {
			if key, err := mc.Console.ReadByte(); err == nil {
				mc.State.Memory[DEV_KBSR] = 1 << 15
				mc.State.Memory[DEV_KBDR] = uint16(key)
			} else {
				mc.State.Memory[DEV_KBSR] = 0
			}
		} else {
			mc.State.Memory[DEV_KBSR] = 0
		}
	}

	if mc.Debugger != nil {
		mc.Debugger.Read(addr, mc)
	}

	return mc.State.Memory[addr]
}

// write stores a word at addr. The device registers are not special-cased;
// stores there simply overwrite the register value.
func (mc *Machine) write(addr uint16, value uint16) {
	mc.State.Memory[addr] = value

	if mc.Debugger != nil {
		mc.Debugger.Write(addr, mc)
	}
}

// setFlags classifies value and sets exactly one condition flag.
func (mc *Machine) setFlags(value uint16) {
	if value == 0 {
		mc.State.Condition = FLAG_ZERO
	} else if value>>15 == 1 {
		mc.State.Condition = FLAG_NEG
	} else {
		mc.State.Condition = FLAG_POS
	}
}

// Step fetches, decodes, and executes a single instruction.
func (mc *Machine) Step() error {
	addr := mc.State.Program
	word := mc.read(addr)

	mc.State.Program++

	inst, err := Decode(word)

	if err != nil {
		return fmt.Errorf("at %#04x: %w", addr, err)
	}

	if err := inst.execute(mc); err != nil {
		return fmt.Errorf("at %#04x: %w", addr, err)
	}

	if mc.Debugger != nil {
		mc.Debugger.Step(mc)
	}

	return nil
}

// Run executes instructions in program order until the HALT trap, a fatal
// decode or I/O error, or an Interrupt request. The interrupt flag is checked
// once per cycle so a pending instruction always completes.
func (mc *Machine) Run() error {
	mc.Running = true

	for mc.Running {
		if mc.stop.Load() {
			mc.Running = false
			break
		}

		if err := mc.Step(); err != nil {
			mc.Running = false
			return err
		}
	}

	return nil
}

// Interrupt asks the run loop to stop after the current instruction. It is
// safe to call from another goroutine, typically a signal handler.
func (mc *Machine) Interrupt() {
	mc.stop.Store(true)
}
