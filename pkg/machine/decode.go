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
	"github.com/lassandro/golc3vm/pkg/encoding"
)

// Instruction is one member of the closed set of decoded instruction forms.
// Offsets and immediates are sign-extended to 16 bits during decoding, so a
// variant's fields hold final values rather than raw instruction bits.
type Instruction interface {
	execute(mc *Machine) error
}

type Add struct {
	Dest, Src uint16
	Src2      uint16
	Imm       uint16
	Immediate bool
}

type And struct {
	Dest, Src uint16
	Src2      uint16
	Imm       uint16
	Immediate bool
}

type Not struct {
	Dest, Src uint16
}

type Branch struct {
	Cond   uint16 // N, Z, P request bits
	Offset uint16
}

type Jump struct {
	Base uint16
}

type JumpSub struct {
	Long   bool // true: PC-relative JSR, false: register JSRR
	Offset uint16
	Base   uint16
}

type Load struct {
	Dest, Offset uint16
}

type LoadIndirect struct {
	Dest, Offset uint16
}

type LoadRegister struct {
	Dest, Base, Offset uint16
}

type LoadAddress struct {
	Dest, Offset uint16
}

type Store struct {
	Src, Offset uint16
}

type StoreIndirect struct {
	Src, Offset uint16
}

type StoreRegister struct {
	Src, Base, Offset uint16
}

type Trap struct {
	Vector uint16
}

// Decode splits an instruction word into its opcode and operand fields. Words
// from the reserved or unimplemented opcode family decode to an
// IllegalOpcodeError.
func Decode(word uint16) (Instruction, error) {
	switch word >> 12 {
	case OP_ADD:
		inst := Add{
			Dest:      (word >> 9) & 0x7,
			Src:       (word >> 6) & 0x7,
			Immediate: (word>>5)&0x1 == 1,
		}

		if inst.Immediate {
			inst.Imm = encoding.SignExtend(word&0x1F, 5)
		} else {
			inst.Src2 = word & 0x7
		}

		return inst, nil

	case OP_AND:
		inst := And{
			Dest:      (word >> 9) & 0x7,
			Src:       (word >> 6) & 0x7,
			Immediate: (word>>5)&0x1 == 1,
		}

		if inst.Immediate {
			inst.Imm = encoding.SignExtend(word&0x1F, 5)
		} else {
			inst.Src2 = word & 0x7
		}

		return inst, nil

	case OP_NOT:
		return Not{
			Dest: (word >> 9) & 0x7,
			Src:  (word >> 6) & 0x7,
		}, nil

	case OP_BR:
		return Branch{
			Cond:   (word >> 9) & 0x7,
			Offset: encoding.SignExtend(word&0x1FF, 9),
		}, nil

	case OP_JMP:
		return Jump{
			Base: (word >> 6) & 0x7,
		}, nil

	case OP_JSR:
		inst := JumpSub{
			Long: (word>>11)&0x1 == 1,
		}

		if inst.Long {
			inst.Offset = encoding.SignExtend(word&0x7FF, 11)
		} else {
			inst.Base = (word >> 6) & 0x7
		}

		return inst, nil

	case OP_LD:
		return Load{
			Dest:   (word >> 9) & 0x7,
			Offset: encoding.SignExtend(word&0x1FF, 9),
		}, nil

	case OP_LDI:
		return LoadIndirect{
			Dest:   (word >> 9) & 0x7,
			Offset: encoding.SignExtend(word&0x1FF, 9),
		}, nil

	case OP_LDR:
		return LoadRegister{
			Dest:   (word >> 9) & 0x7,
			Base:   (word >> 6) & 0x7,
			Offset: encoding.SignExtend(word&0x3F, 6),
		}, nil

	case OP_LEA:
		return LoadAddress{
			Dest:   (word >> 9) & 0x7,
			Offset: encoding.SignExtend(word&0x1FF, 9),
		}, nil

	case OP_ST:
		return Store{
			Src:    (word >> 9) & 0x7,
			Offset: encoding.SignExtend(word&0x1FF, 9),
		}, nil

	case OP_STI:
		return StoreIndirect{
			Src:    (word >> 9) & 0x7,
			Offset: encoding.SignExtend(word&0x1FF, 9),
		}, nil

	case OP_STR:
		return StoreRegister{
			Src:    (word >> 9) & 0x7,
			Base:   (word >> 6) & 0x7,
			Offset: encoding.SignExtend(word&0x3F, 6),
		}, nil

	case OP_TRAP:
		return Trap{
			Vector: word & 0xFF,
		}, nil

	// OP_RTI, OP_RES
	default:
		return nil, &IllegalOpcodeError{Word: word}
	}
}
