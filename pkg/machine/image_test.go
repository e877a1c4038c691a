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
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/golc3vm/pkg/machine"
)

func TestLoadImage(t *testing.T) {
	var mc machine.Machine
	mc.State.Reset()

	image := []byte{0x30, 0x00, 0x12, 0x34, 0x56, 0x78}

	require.NoError(t, mc.LoadImage(bytes.NewReader(image)))

	assert.Equal(t, uint16(0x1234), mc.State.Memory[0x3000])
	assert.Equal(t, uint16(0x5678), mc.State.Memory[0x3001])
	assert.Equal(t, uint16(0x0000), mc.State.Memory[0x3002])

	// The origin positions the image but never the program counter
	assert.Equal(t, uint16(machine.PC_START), mc.State.Program)
}

func TestLoadImageOriginOnly(t *testing.T) {
	var mc machine.Machine
	mc.State.Reset()

	require.NoError(t, mc.LoadImage(bytes.NewReader([]byte{0x40, 0x00})))

	assert.Equal(t, uint16(0x0000), mc.State.Memory[0x4000])
}

func TestLoadImageMultiple(t *testing.T) {
	var mc machine.Machine
	mc.State.Reset()

	first := []byte{0x30, 0x00, 0xBE, 0xEF}
	second := []byte{0x40, 0x00, 0xCA, 0xFE}

	require.NoError(t, mc.LoadImage(bytes.NewReader(first)))
	require.NoError(t, mc.LoadImage(bytes.NewReader(second)))

	assert.Equal(t, uint16(0xBEEF), mc.State.Memory[0x3000])
	assert.Equal(t, uint16(0xCAFE), mc.State.Memory[0x4000])
}

func TestLoadImageEmpty(t *testing.T) {
	var mc machine.Machine
	mc.State.Reset()

	assert.Error(t, mc.LoadImage(bytes.NewReader(nil)))
}

func TestLoadImageTruncated(t *testing.T) {
	var mc machine.Machine
	mc.State.Reset()

	image := []byte{0x30, 0x00, 0x12, 0x34, 0x56}

	err := mc.LoadImage(bytes.NewReader(image))

	assert.ErrorIs(t, err, machine.ErrImageTruncated)
}

func TestLoadImageTooLarge(t *testing.T) {
	var mc machine.Machine
	mc.State.Reset()

	image := []byte{0xFF, 0xFF, 0x12, 0x34, 0x56, 0x78}

	err := mc.LoadImage(bytes.NewReader(image))

	assert.ErrorIs(t, err, machine.ErrImageTooLarge)
	assert.Equal(t, uint16(0x1234), mc.State.Memory[0xFFFF])
}
