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
	"bytes"
	"encoding/binary"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/lassandro/golc3vm/pkg/assembler"
)

var helpvar bool
var outvar string

const usage = "golc3vm-asm [-out outfile] filename"

func init() {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.StringVar(
		&outvar, "out", "",
		"Specifies a precise name for the output file, "+
			"overriding the default means of determining it",
	)
	flag.Parse()
}

func golc3vmAsm() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	if len(args) != 1 {
		log.Println(usage)
		return 1
	}

	file, err := os.Open(args[0])

	if err != nil {
		log.Println(err)
		return 1
	}

	defer file.Close()

	filename := filepath.Base(file.Name())
	log.SetPrefix(fmt.Sprintf("%s: ", filename))

	if outvar == "" {
		outvar = strings.ReplaceAll(
			filename, filepath.Ext(filename), ".obj",
		)
	}

	result, errs := assembler.Assemble(file)

	if len(errs) > 0 {
		for _, err := range errs {
			log.Println(err)
		}

		return 1
	}

	buffer := new(bytes.Buffer)

	if err := binary.Write(buffer, binary.BigEndian, result); err != nil {
		log.Println("Error writing output file")
		log.Println(err)
		return 1
	}

	if err := os.WriteFile(outvar, buffer.Bytes(), 0666); err != nil {
		log.Println("Error writing output file")
		log.Println(err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(golc3vmAsm())
}
