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
	"errors"
	"fmt"
	"sync/atomic"
)

// Console is the I/O capability the machine requires from its environment.
// ReadByte blocks until a character arrives; Poll reports availability
// without waiting.
type Console interface {
	ReadByte() (byte, error)
	WriteByte(byte) error
	Flush() error
	Poll() bool
}

type MachineState struct {
	Registers [8]uint16
	Program   uint16
	Condition uint16
	Memory    [1 << 16]uint16
}

type MachineDebugger interface {
	Step(mc *Machine)
	Read(addr uint16, mc *Machine)
	Write(addr uint16, mc *Machine)
}

type Machine struct {
	Console  Console
	State    MachineState
	Debugger MachineDebugger

	// Verbose enables diagnostic output from the IN trap
	Verbose bool

	// Running is owned by the run loop; the HALT trap clears it
	Running bool

	stop atomic.Bool
}

var (
	ErrNoConsole      = errors.New("machine has no console attached")
	ErrImageTooLarge  = errors.New("image exceeds available memory")
	ErrImageTruncated = errors.New("image ends in the middle of a word")
)

// IllegalOpcodeError reports a word from the reserved or unimplemented opcode
// family. The machine has no semantics for it and must not continue.
type IllegalOpcodeError struct {
	Word uint16
}

func (err *IllegalOpcodeError) Error() string {
	return fmt.Sprintf(
		"illegal opcode %#04b in instruction word %#04x", err.Word>>12, err.Word,
	)
}
