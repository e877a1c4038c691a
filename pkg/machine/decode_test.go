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

package machine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/golc3vm/pkg/machine"
)

func TestDecode(t *testing.T) {
	for _, test := range []struct {
		Name string
		Word uint16
		Want machine.Instruction
	}{
		{
			"ADD Register",
			0b0001_000_001_000_010,
			machine.Add{Dest: 0, Src: 1, Src2: 2},
		},
		{
			"ADD Immediate",
			0b0001_000_001_1_11111,
			machine.Add{Dest: 0, Src: 1, Immediate: true, Imm: 0xFFFF},
		},
		{
			"AND Register",
			0b0101_000_001_000_010,
			machine.And{Dest: 0, Src: 1, Src2: 2},
		},
		{
			"AND Immediate",
			0b0101_000_001_1_01111,
			machine.And{Dest: 0, Src: 1, Immediate: true, Imm: 0x000F},
		},
		{
			"NOT",
			0b1001_000_001_111111,
			machine.Not{Dest: 0, Src: 1},
		},
		{
			"BR",
			0b0000_101_000000101,
			machine.Branch{Cond: 0b101, Offset: 5},
		},
		{
			"BR Negative Offset",
			0b0000_011_111111111,
			machine.Branch{Cond: 0b011, Offset: 0xFFFF},
		},
		{
			"JMP",
			0b1100_000_010_000000,
			machine.Jump{Base: 2},
		},
		{
			"JSR",
			0b0100_1_00000000010,
			machine.JumpSub{Long: true, Offset: 2},
		},
		{
			"JSR Negative Offset",
			0b0100_1_11111111111,
			machine.JumpSub{Long: true, Offset: 0xFFFF},
		},
		{
			"JSRR",
			0b0100_0_00_010_000000,
			machine.JumpSub{Base: 2},
		},
		{
			"LD",
			0b0010_000_000000001,
			machine.Load{Dest: 0, Offset: 1},
		},
		{
			"LDI",
			0b1010_001_000000001,
			machine.LoadIndirect{Dest: 1, Offset: 1},
		},
		{
			"LDR",
			0b0110_000_001_111111,
			machine.LoadRegister{Dest: 0, Base: 1, Offset: 0xFFFF},
		},
		{
			"LEA",
			0b1110_000_111111101,
			machine.LoadAddress{Dest: 0, Offset: 0xFFFD},
		},
		{
			"ST",
			0b0011_000_000000010,
			machine.Store{Src: 0, Offset: 2},
		},
		{
			"STI",
			0b1011_000_000000001,
			machine.StoreIndirect{Src: 0, Offset: 1},
		},
		{
			"STR",
			0b0111_000_001_000001,
			machine.StoreRegister{Src: 0, Base: 1, Offset: 1},
		},
		{
			"TRAP",
			0xF025,
			machine.Trap{Vector: 0x25},
		},
	} {
		t.Run(test.Name, func(t *testing.T) {
			inst, err := machine.Decode(test.Word)

			require.NoError(t, err)
			assert.Equal(t, test.Want, inst)
		})
	}
}

func TestDecodeIllegal(t *testing.T) {
	for _, word := range []uint16{0x8000, 0x8FFF, 0xD000, 0xD123} {
		inst, err := machine.Decode(word)

		require.Error(t, err)
		assert.Nil(t, inst)

		var illegal *machine.IllegalOpcodeError

		require.True(t, errors.As(err, &illegal))
		assert.Equal(t, word, illegal.Word)
	}
}
