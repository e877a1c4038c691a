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

// All 16-bit arithmetic below wraps modulo 2^16; Go's uint16 gives that for
// free. PC-relative offsets are applied to the already-incremented PC.

// ADD  |0001    |DR   |SR1  |0|00 |SR2   | Register  addition
// ADD  |0001    |DR   |SR1  |1|imm5      | Immediate addition
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func (in Add) execute(mc *Machine) error {
	operand := in.Imm

	if !in.Immediate {
		operand = mc.State.Registers[in.Src2]
	}

	mc.State.Registers[in.Dest] = mc.State.Registers[in.Src] + operand
	mc.setFlags(mc.State.Registers[in.Dest])

	return nil
}

// AND  |0101    |DR   |SR1  |0|00 |SR2   | Register  bitwise
// AND  |0101    |DR   |SR1  |1|imm5      | Immediate bitwise
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func (in And) execute(mc *Machine) error {
	operand := in.Imm

	if !in.Immediate {
		operand = mc.State.Registers[in.Src2]
	}

	mc.State.Registers[in.Dest] = mc.State.Registers[in.Src] & operand
	mc.setFlags(mc.State.Registers[in.Dest])

	return nil
}

// NOT  |1001    |DR   |SR   |1|11111     | Bitwise complement
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func (in Not) execute(mc *Machine) error {
	mc.State.Registers[in.Dest] = ^mc.State.Registers[in.Src]
	mc.setFlags(mc.State.Registers[in.Dest])

	return nil
}

// BR   |0000    |N|Z|P|PCoffset9         | Conditional branch
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func (in Branch) execute(mc *Machine) error {
	if in.Cond&mc.State.Condition != 0 {
		mc.State.Program += in.Offset
	}

	return nil
}

// JMP  |1100    |000  |BaseR|000000      | Jump
// RET  |1100    |000  |111  |000000      | Return
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func (in Jump) execute(mc *Machine) error {
	mc.State.Program = mc.State.Registers[in.Base]

	return nil
}

// JSR  |0100    |1|PCoffset11            | Jump to subroutine
// JSRR |0100    |0|00 |BaseR|000000      | Jump to subroutine register
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func (in JumpSub) execute(mc *Machine) error {
	// Read the base register before R7 is overwritten, in case it is R7
	target := mc.State.Program + in.Offset

	if !in.Long {
		target = mc.State.Registers[in.Base]
	}

	mc.State.Registers[7] = mc.State.Program
	mc.State.Program = target

	return nil
}

// LD   |0010    |DR   |PCoffset9         | Load
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func (in Load) execute(mc *Machine) error {
	mc.State.Registers[in.Dest] = mc.read(mc.State.Program + in.Offset)
	mc.setFlags(mc.State.Registers[in.Dest])

	return nil
}

// LDI  |1010    |DR   |PCoffset9         | Load indirect
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func (in LoadIndirect) execute(mc *Machine) error {
	addr := mc.read(mc.State.Program + in.Offset)

	mc.State.Registers[in.Dest] = mc.read(addr)
	mc.setFlags(mc.State.Registers[in.Dest])

	return nil
}

// LDR  |0110    |DR   |BaseR|offset6     | Load base+offset
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func (in LoadRegister) execute(mc *Machine) error {
	addr := mc.State.Registers[in.Base] + in.Offset

	mc.State.Registers[in.Dest] = mc.read(addr)
	mc.setFlags(mc.State.Registers[in.Dest])

	return nil
}

// LEA  |1110    |DR   |PCoffset9         | Load effective address
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func (in LoadAddress) execute(mc *Machine) error {
	mc.State.Registers[in.Dest] = mc.State.Program + in.Offset
	mc.setFlags(mc.State.Registers[in.Dest])

	return nil
}

// ST   |0011    |SR   |PCoffset9         | Store
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func (in Store) execute(mc *Machine) error {
	mc.write(mc.State.Program+in.Offset, mc.State.Registers[in.Src])

	return nil
}

// STI  |1011    |SR   |PCoffset9         | Store indirect
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func (in StoreIndirect) execute(mc *Machine) error {
	addr := mc.read(mc.State.Program + in.Offset)

	mc.write(addr, mc.State.Registers[in.Src])

	return nil
}

// STR  |0111    |SR   |BaseR|offset6     | Store base+offset
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func (in StoreRegister) execute(mc *Machine) error {
	addr := mc.State.Registers[in.Base] + in.Offset

	mc.write(addr, mc.State.Registers[in.Src])

	return nil
}

// TRAP |1111    |0000   |trapvect8       | System call
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func (in Trap) execute(mc *Machine) error {
	mc.State.Registers[7] = mc.State.Program

	return mc.trap(in.Vector)
}
