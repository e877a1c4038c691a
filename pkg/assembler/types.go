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

package assembler

import (
	"errors"
	"fmt"
)

var (
	ErrMissingOrigin    = errors.New("no .ORIG directive found")
	ErrCodeBeforeOrigin = errors.New("statement before .ORIG")
	ErrDuplicateOrigin  = errors.New(".ORIG declared twice")
	ErrUnknownOp        = errors.New("unknown instruction or directive")
	ErrBadOperandCount  = errors.New("wrong number of operands")
	ErrBadRegister      = errors.New("invalid register identifier")
	ErrBadLiteral       = errors.New("invalid numeric literal")
	ErrBadString        = errors.New("invalid string literal")
	ErrUnknownLabel     = errors.New("unknown label")
	ErrRedeclaredLabel  = errors.New("label declared twice")
	ErrOffsetRange      = errors.New("label out of offset range")
	ErrLiteralRange     = errors.New("literal out of range")
	ErrImageOverflow    = errors.New("program exceeds memory")
)

// LineError ties an assembly error to its source line.
type LineError struct {
	Line int
	Err  error
}

func (err *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", err.Line, err.Err)
}

func (err *LineError) Unwrap() error {
	return err.Err
}

// statement is one assembled line: an optional label plus a mnemonic or
// directive with its operands, located at addr.
type statement struct {
	line int
	addr uint16
	op   string
	args []string
}
