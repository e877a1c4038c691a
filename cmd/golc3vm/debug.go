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

package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/k0kubun/pp/v3"

	"github.com/lassandro/golc3vm/pkg/debugger"
	"github.com/lassandro/golc3vm/pkg/encoding"
	"github.com/lassandro/golc3vm/pkg/machine"
)

var stdin = bufio.NewScanner(os.Stdin)

type registerDump struct {
	R         [8]uint16
	PC        uint16
	Condition string
}

func condString(cond uint16) string {
	switch cond {
	case machine.FLAG_NEG:
		return "NEGATIVE"
	case machine.FLAG_ZERO:
		return "ZERO"
	case machine.FLAG_POS:
		return "POSITIVE"
	}

	return fmt.Sprintf("invalid (%#03b)", cond)
}

func handleBreak(dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Printf("\nbreak at %#04x\n", mc.State.Program)
	debugREPL(dbg, mc)
}

func handleRead(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Printf("\nread watchpoint [%#04x]\n", addr)
	debugREPL(dbg, mc)
}

func handleWrite(addr uint16, dbg *debugger.Debugger, mc *machine.Machine) {
	fmt.Printf(
		"\nwrite watchpoint [%#04x] = %#04x\n", addr, mc.State.Memory[addr],
	)
	debugREPL(dbg, mc)
}

func debugREPL(dbg *debugger.Debugger, mc *machine.Machine) {
	const usage = "[c]ontinue [s]tep [r]egs [m]em [b]reak [w]atch [q]uit"

	for {
		fmt.Print("golc3vm> ")

		if !stdin.Scan() {
			dbg.Break = false
			mc.Interrupt()
			return
		}

		fields := strings.Fields(stdin.Text())

		if len(fields) == 0 {
			continue
		}

		cmd := fields[0]
		args := fields[1:]

		switch cmd {
		case "h", "help":
			fmt.Println(usage)

		case "c", "continue":
			dbg.Break = false
			return

		case "s", "step":
			count := 1

			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])

				if err != nil || n < 1 {
					log.Println("step [count]")
					continue
				}

				count = n
			} else if len(args) > 1 {
				log.Println("step [count]")
				continue
			}

			// Manual steps must not re-trigger the break handler
			held := dbg.Break
			dbg.Break = false

			for i := 0; i < count && mc.Running; i++ {
				if err := mc.Step(); err != nil {
					log.Println(err)
					break
				}
			}

			dbg.Break = held
			fmt.Printf("stopped at %#04x\n", mc.State.Program)

		case "r", "regs":
			pp.Println(registerDump{
				R:         mc.State.Registers,
				PC:        mc.State.Program,
				Condition: condString(mc.State.Condition),
			})

		case "m", "mem":
			const usage = "mem [0x####] [count]"

			if len(args) == 0 || len(args) > 2 {
				log.Println(usage)
				continue
			}

			addr, err := encoding.DecodeHex(args[0])

			if err != nil {
				log.Println(err)
				continue
			}

			count := uint16(8)

			if len(args) == 2 {
				n, err := encoding.DecodeInt(args[1])

				if err != nil || n < 1 {
					log.Println(usage)
					continue
				}

				count = uint16(n)
			}

			dbg.PrintMem(&mc.State, addr, count)

		case "b", "break":
			debugBreak(dbg, args)

		case "w", "watch":
			debugWatch(dbg, args)

		case "q", "quit":
			dbg.Break = false
			mc.Interrupt()
			return

		default:
			log.Printf("'%s' is not a valid command", cmd)
			fmt.Println(usage)
		}
	}
}

func debugBreak(dbg *debugger.Debugger, args []string) {
	const usage = "break [add|list|remove|clear]"

	if len(args) == 0 {
		args = []string{"list"}
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "break add [0x####]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		addr, err := encoding.DecodeHex(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		for _, breakpoint := range dbg.Breakpoints {
			if breakpoint.Addr == addr {
				return
			}
		}

		dbg.Breakpoints = append(
			dbg.Breakpoints, debugger.Breakpoint{Addr: addr},
		)

		fmt.Printf("Breakpoint added [%#04x]\n", addr)

	case "l", "ls", "list":
		for i, breakpoint := range dbg.Breakpoints {
			fmt.Printf("#%d: %#04x\n", i, breakpoint.Addr)
		}

	case "r", "rm", "remove":
		const usage = "break remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.Atoi(args[0])

		if err != nil || i < 0 || i >= len(dbg.Breakpoints) {
			log.Println("Invalid breakpoint number")
			return
		}

		dbg.Breakpoints[i] = dbg.Breakpoints[len(dbg.Breakpoints)-1]
		dbg.Breakpoints = dbg.Breakpoints[:len(dbg.Breakpoints)-1]
		fmt.Printf("Breakpoint removed [%d]\n", i)

	case "clear":
		dbg.Breakpoints = nil
		fmt.Println("Breakpoints reset")

	default:
		log.Printf("break: '%s' is not a valid command", cmd)
		log.Println(usage)
	}
}

func debugWatch(dbg *debugger.Debugger, args []string) {
	const usage = "watch [add|list|remove|clear]"

	if len(args) == 0 {
		args = []string{"list"}
	}

	cmd := args[0]
	args = args[1:]

	switch cmd {
	case "a", "add":
		const usage = "watch add [0x####] [read|write|readwrite]"

		if len(args) != 2 {
			log.Println(usage)
			return
		}

		addr, err := encoding.DecodeHex(args[0])

		if err != nil {
			log.Println(err)
			return
		}

		var wtype debugger.WatchpointType

		switch args[1] {
		case "r", "read":
			wtype = debugger.ReadWatch
		case "w", "write":
			wtype = debugger.WriteWatch
		case "rw", "readwrite":
			wtype = debugger.ReadWriteWatch
		default:
			log.Println(usage)
			return
		}

		for _, watchpoint := range dbg.Watchpoints {
			if watchpoint.Addr == addr && watchpoint.Type == wtype {
				return
			}
		}

		dbg.Watchpoints = append(
			dbg.Watchpoints, debugger.Watchpoint{Addr: addr, Type: wtype},
		)

		fmt.Printf("Watchpoint added [%#04x]\n", addr)

	case "l", "ls", "list":
		for i, watchpoint := range dbg.Watchpoints {
			var wtype string

			switch watchpoint.Type {
			case debugger.ReadWatch:
				wtype = "read"
			case debugger.WriteWatch:
				wtype = "write"
			case debugger.ReadWriteWatch:
				wtype = "readwrite"
			}

			fmt.Printf("#%d: %#04x (%s)\n", i, watchpoint.Addr, wtype)
		}

	case "r", "rm", "remove":
		const usage = "watch remove [#]"

		if len(args) != 1 {
			log.Println(usage)
			return
		}

		i, err := strconv.Atoi(args[0])

		if err != nil || i < 0 || i >= len(dbg.Watchpoints) {
			log.Println("Invalid watchpoint number")
			return
		}

		dbg.Watchpoints[i] = dbg.Watchpoints[len(dbg.Watchpoints)-1]
		dbg.Watchpoints = dbg.Watchpoints[:len(dbg.Watchpoints)-1]
		fmt.Printf("Watchpoint removed [%d]\n", i)

	case "clear":
		dbg.Watchpoints = nil
		fmt.Println("Watchpoints reset")

	default:
		log.Printf("watch: '%s' is not a valid command", cmd)
		log.Println(usage)
	}
}
