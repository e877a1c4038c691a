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

// Package console provides the terminal-backed I/O capability consumed by the
// machine: blocking single-character reads, a zero-wait availability check,
// and flushed character output.
package console

import (
	"bufio"
	"io"
	"os"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

type Terminal struct {
	in    *os.File
	out   *bufio.Writer
	saved unix.Termios
	raw   bool
}

func New(in *os.File, out io.Writer) *Terminal {
	return &Terminal{
		in:  in,
		out: bufio.NewWriter(out),
	}
}

// NewTerminal returns a Terminal over the process's stdin and stdout.
func NewTerminal() *Terminal {
	return New(os.Stdin, os.Stdout)
}

// Raw disables canonical input and echo so the machine sees keystrokes as
// they happen. It is a no-op when stdin is not a terminal, which lets the
// machine run against pipes and files. Restore must be called before the
// process exits.
func (t *Terminal) Raw() error {
	if !term.IsTerminal(int(t.in.Fd())) {
		return nil
	}

	if err := termios.Tcgetattr(t.in.Fd(), &t.saved); err != nil {
		return err
	}

	state := t.saved
	state.Lflag &^= unix.ICANON | unix.ECHO
	state.Cc[unix.VMIN] = 1
	state.Cc[unix.VTIME] = 0

	if err := termios.Tcsetattr(t.in.Fd(), termios.TCSANOW, &state); err != nil {
		return err
	}

	t.raw = true

	return nil
}

// Restore puts the terminal back into the configuration saved by Raw. It is
// safe to call more than once and when Raw never took effect.
func (t *Terminal) Restore() error {
	if !t.raw {
		return nil
	}

	t.raw = false

	return termios.Tcsetattr(t.in.Fd(), termios.TCSANOW, &t.saved)
}

// ReadByte blocks until a single byte is available.
func (t *Terminal) ReadByte() (byte, error) {
	var buf [1]byte

	for {
		n, err := t.in.Read(buf[:])

		if n == 1 {
			return buf[0], nil
		}

		if err != nil {
			return 0, err
		}
	}
}

// Poll reports whether a byte can be read without blocking. The check uses a
// zero select timeout, modeling device polling without stalling execution.
func (t *Terminal) Poll() bool {
	fd := int(t.in.Fd())

	var fds unix.FdSet
	fds.Zero()
	fds.Set(fd)

	timeout := unix.Timeval{}

	n, err := unix.Select(fd+1, &fds, nil, nil, &timeout)

	return err == nil && n > 0
}

func (t *Terminal) WriteByte(b byte) error {
	return t.out.WriteByte(b)
}

func (t *Terminal) Flush() error {
	return t.out.Flush()
}
