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

package debugger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/golc3vm/pkg/debugger"
	"github.com/lassandro/golc3vm/pkg/machine"
)

func newDebugMachine(dbg *debugger.Debugger) *machine.Machine {
	mc := new(machine.Machine)
	mc.State.Reset()
	mc.Debugger = dbg

	// ADD R0, R0, #1 at each of the first few addresses
	for addr := uint16(0x3000); addr < 0x3008; addr++ {
		mc.State.Memory[addr] = 0b0001_000_000_1_00001
	}

	return mc
}

func TestBreakpoint(t *testing.T) {
	var dbg debugger.Debugger

	hits := 0
	hitAddr := uint16(0)

	dbg.Breakpoints = []debugger.Breakpoint{{Addr: 0x3002}}
	dbg.HandleBreak = func(d *debugger.Debugger, mc *machine.Machine) {
		hits++
		hitAddr = mc.State.Program
	}

	mc := newDebugMachine(&dbg)

	for i := 0; i < 3; i++ {
		require.NoError(t, mc.Step())
	}

	assert.Equal(t, 1, hits)
	assert.Equal(t, uint16(0x3002), hitAddr)
}

func TestBreakFlag(t *testing.T) {
	var dbg debugger.Debugger

	hits := 0

	dbg.Break = true
	dbg.HandleBreak = func(d *debugger.Debugger, mc *machine.Machine) {
		hits++
	}

	mc := newDebugMachine(&dbg)

	require.NoError(t, mc.Step())
	require.NoError(t, mc.Step())

	assert.Equal(t, 2, hits)
}

func TestReadWatchpoint(t *testing.T) {
	var dbg debugger.Debugger

	var reads []uint16

	dbg.Watchpoints = []debugger.Watchpoint{
		{Addr: 0x3002, Type: debugger.ReadWatch},
	}
	dbg.HandleRead = func(addr uint16, d *debugger.Debugger, mc *machine.Machine) {
		reads = append(reads, addr)
	}

	mc := newDebugMachine(&dbg)
	mc.State.Memory[0x3000] = 0b0010_000_000000001 // LD R0, +1 reads 0x3002

	require.NoError(t, mc.Step())

	assert.Equal(t, []uint16{0x3002}, reads)
}

func TestWriteWatchpoint(t *testing.T) {
	var dbg debugger.Debugger

	var writes []uint16

	dbg.Watchpoints = []debugger.Watchpoint{
		{Addr: 0x4000, Type: debugger.WriteWatch},
	}
	dbg.HandleWrite = func(addr uint16, d *debugger.Debugger, mc *machine.Machine) {
		writes = append(writes, addr)
	}

	mc := newDebugMachine(&dbg)
	mc.State.Registers[1] = 0x4000
	mc.State.Memory[0x3000] = 0b0111_000_001_000000 // STR R0, R1, #0

	require.NoError(t, mc.Step())

	assert.Equal(t, []uint16{0x4000}, writes)
}

// A read-only watchpoint must not fire on writes and vice versa
func TestWatchpointTypeFilter(t *testing.T) {
	var dbg debugger.Debugger

	readHits := 0
	writeHits := 0

	dbg.Watchpoints = []debugger.Watchpoint{
		{Addr: 0x4000, Type: debugger.ReadWatch},
	}
	dbg.HandleRead = func(addr uint16, d *debugger.Debugger, mc *machine.Machine) {
		readHits++
	}
	dbg.HandleWrite = func(addr uint16, d *debugger.Debugger, mc *machine.Machine) {
		writeHits++
	}

	mc := newDebugMachine(&dbg)
	mc.State.Registers[1] = 0x4000
	mc.State.Memory[0x3000] = 0b0111_000_001_000000 // STR R0, R1, #0

	require.NoError(t, mc.Step())

	assert.Zero(t, readHits)
	assert.Zero(t, writeHits)
}

func TestReadWriteWatchpoint(t *testing.T) {
	var dbg debugger.Debugger

	readHits := 0
	writeHits := 0

	dbg.Watchpoints = []debugger.Watchpoint{
		{Addr: 0x4000, Type: debugger.ReadWriteWatch},
	}
	dbg.HandleRead = func(addr uint16, d *debugger.Debugger, mc *machine.Machine) {
		readHits++
	}
	dbg.HandleWrite = func(addr uint16, d *debugger.Debugger, mc *machine.Machine) {
		writeHits++
	}

	mc := newDebugMachine(&dbg)
	mc.State.Registers[1] = 0x4000
	mc.State.Memory[0x3000] = 0b0111_000_001_000000 // STR R0, R1, #0
	mc.State.Memory[0x3001] = 0b0110_010_001_000000 // LDR R2, R1, #0

	require.NoError(t, mc.Step())
	require.NoError(t, mc.Step())

	assert.Equal(t, 1, writeHits)
	assert.Equal(t, 1, readHits)
}

// A debugger with no handlers attached must be inert
func TestNilHandlers(t *testing.T) {
	var dbg debugger.Debugger

	dbg.Break = true
	dbg.Breakpoints = []debugger.Breakpoint{{Addr: 0x3001}}
	dbg.Watchpoints = []debugger.Watchpoint{
		{Addr: 0x3000, Type: debugger.ReadWriteWatch},
	}

	mc := newDebugMachine(&dbg)

	require.NoError(t, mc.Step())
}
