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
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/lassandro/golc3vm/pkg/console"
	"github.com/lassandro/golc3vm/pkg/debugger"
	"github.com/lassandro/golc3vm/pkg/machine"
)

var helpvar bool
var debugvar bool
var verbosevar bool

const usage = "golc3vm [-debug] [-verbose] image [image ...]"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.BoolVar(&debugvar, "debug", false, "Runs the machine in a debug CLI")
	flag.BoolVar(
		&verbosevar, "verbose", false,
		"Enables diagnostic output from trap routines",
	)
	flag.Parse()
}

func loadImage(mc *machine.Machine, path string) error {
	file, err := os.Open(path)

	if err != nil {
		return err
	}

	defer file.Close()

	return mc.LoadImage(file)
}

func golc3vm() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	if len(args) == 0 {
		log.Println(usage)
		return 2
	}

	var mc machine.Machine
	mc.Verbose = verbosevar
	mc.State.Reset()

	// Each image loads independently; the first failure aborts but earlier
	// images remain loaded and untouched
	for _, path := range args {
		if err := loadImage(&mc, path); err != nil {
			log.Printf("failed to load image: %s", path)
			log.Println(err)
			return 1
		}
	}

	term := console.NewTerminal()
	mc.Console = term

	var dbg debugger.Debugger

	if debugvar {
		dbg.Break = true
		dbg.HandleBreak = handleBreak
		dbg.HandleRead = handleRead
		dbg.HandleWrite = handleWrite
		mc.Debugger = &dbg
	}

	sigs := make(chan os.Signal, 1)
	defer close(sigs)

	signal.Notify(sigs, os.Interrupt)
	go func() {
		for range sigs {
			if debugvar {
				fmt.Println()
				dbg.Break = true
			} else {
				mc.Interrupt()
			}
		}
	}()

	if err := term.Raw(); err != nil {
		log.Println(err)
		return 1
	}

	defer term.Restore()

	if debugvar {
		debugREPL(&dbg, &mc)
	}

	if err := mc.Run(); err != nil {
		term.Restore()
		log.Println(err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(golc3vm())
}
