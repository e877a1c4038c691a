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

package console_test

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lassandro/golc3vm/pkg/console"
)

func TestPollAndRead(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)

	defer r.Close()
	defer w.Close()

	var out bytes.Buffer
	term := console.New(r, &out)

	assert.False(t, term.Poll())

	_, err = w.Write([]byte("ab"))
	require.NoError(t, err)

	assert.True(t, term.Poll())

	b, err := term.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('a'), b)

	b, err = term.ReadByte()
	require.NoError(t, err)
	assert.Equal(t, byte('b'), b)

	assert.False(t, term.Poll())
}

func TestReadByteEOF(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)

	defer r.Close()

	w.Close()

	var out bytes.Buffer
	term := console.New(r, &out)

	_, err = term.ReadByte()
	assert.Error(t, err)
}

func TestWriteAndFlush(t *testing.T) {
	var out bytes.Buffer
	term := console.New(os.Stdin, &out)

	require.NoError(t, term.WriteByte('h'))
	require.NoError(t, term.WriteByte('i'))

	// Output is buffered until flushed
	assert.Empty(t, out.String())

	require.NoError(t, term.Flush())
	assert.Equal(t, "hi", out.String())
}

// Raw and Restore are no-ops when the input is not a terminal
func TestRawOnPipe(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)

	defer r.Close()
	defer w.Close()

	var out bytes.Buffer
	term := console.New(r, &out)

	require.NoError(t, term.Raw())
	require.NoError(t, term.Restore())
	require.NoError(t, term.Restore())
}
