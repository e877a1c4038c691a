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

// Package assembler translates LC-3 assembly source into the binary image
// format the machine loads: an origin word followed by the program words. Two
// passes over the source resolve labels declared after their use.
package assembler

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/lassandro/golc3vm/pkg/encoding"
)

const memoryMax = 1 << 16

// Assemble reads LC-3 assembly source and produces the image words, origin
// first. All errors found across both passes are returned together.
func Assemble(reader io.Reader) ([]uint16, []error) {
	var errs []error
	var stmts []statement

	symbols := make(map[string]uint16)

	scanner := bufio.NewScanner(reader)

	var origin uint16
	haveOrigin := false
	lc := uint32(0)
	lineno := 0

scan:
	for scanner.Scan() {
		lineno++

		text := strings.TrimSpace(stripComment(scanner.Text()))

		if text == "" {
			continue
		}

		tok, rest := splitFirst(text)
		op := strings.ToUpper(tok)
		label := ""

		if !known(op) {
			label = op

			if !haveOrigin {
				errs = append(errs, &LineError{lineno, ErrCodeBeforeOrigin})
				continue
			}

			if _, exists := symbols[label]; exists {
				errs = append(errs, &LineError{lineno, ErrRedeclaredLabel})
			} else {
				symbols[label] = uint16(lc)
			}

			if rest == "" {
				continue
			}

			tok, rest = splitFirst(rest)
			op = strings.ToUpper(tok)

			if !known(op) {
				errs = append(errs, &LineError{lineno, ErrUnknownOp})
				continue
			}
		}

		args := splitArgs(op, rest)

		switch op {
		case ".ORIG":
			if haveOrigin {
				errs = append(errs, &LineError{lineno, ErrDuplicateOrigin})
				continue
			}

			if len(args) != 1 {
				errs = append(errs, &LineError{lineno, ErrBadOperandCount})
				continue
			}

			value, err := parseLiteral(args[0])

			if err != nil {
				errs = append(errs, &LineError{lineno, err})
				continue
			}

			origin = value
			lc = uint32(origin)
			haveOrigin = true

			continue

		case ".END":
			break scan
		}

		if !haveOrigin {
			errs = append(errs, &LineError{lineno, ErrCodeBeforeOrigin})
			continue
		}

		size := uint32(1)

		switch op {
		case ".BLKW":
			if len(args) != 1 {
				errs = append(errs, &LineError{lineno, ErrBadOperandCount})
				continue
			}

			count, err := parseLiteral(args[0])

			if err != nil || count == 0 {
				errs = append(errs, &LineError{lineno, ErrBadLiteral})
				continue
			}

			size = uint32(count)

		case ".STRINGZ":
			if len(args) != 1 {
				errs = append(errs, &LineError{lineno, ErrBadOperandCount})
				continue
			}

			value, err := strconv.Unquote(args[0])

			if err != nil {
				errs = append(errs, &LineError{lineno, ErrBadString})
				continue
			}

			size = uint32(len(value)) + 1
		}

		stmts = append(stmts, statement{
			line: lineno,
			addr: uint16(lc),
			op:   op,
			args: args,
		})

		lc += size

		if lc > memoryMax {
			errs = append(errs, &LineError{lineno, ErrImageOverflow})
			break
		}
	}

	if err := scanner.Err(); err != nil {
		errs = append(errs, err)
	}

	if !haveOrigin {
		errs = append(errs, ErrMissingOrigin)
		return nil, errs
	}

	words := make([]uint16, 0, lc-uint32(origin)+1)
	words = append(words, origin)

	for i := range stmts {
		encoded, err := encode(&stmts[i], symbols)

		if err != nil {
			errs = append(errs, &LineError{stmts[i].line, err})
			continue
		}

		words = append(words, encoded...)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return words, nil
}

// encode translates one statement into its instruction or data words.
func encode(st *statement, symbols map[string]uint16) ([]uint16, error) {
	one := func(word uint16, err error) ([]uint16, error) {
		if err != nil {
			return nil, err
		}
		return []uint16{word}, nil
	}

	switch st.op {
	case ".FILL":
		if len(st.args) != 1 {
			return nil, ErrBadOperandCount
		}

		if addr, ok := symbols[strings.ToUpper(st.args[0])]; ok {
			return []uint16{addr}, nil
		}

		return one(parseLiteral(st.args[0]))

	case ".BLKW":
		count, err := parseLiteral(st.args[0])

		if err != nil {
			return nil, ErrBadLiteral
		}

		return make([]uint16, count), nil

	case ".STRINGZ":
		value, err := strconv.Unquote(st.args[0])

		if err != nil {
			return nil, ErrBadString
		}

		words := make([]uint16, 0, len(value)+1)

		for i := 0; i < len(value); i++ {
			words = append(words, uint16(value[i]))
		}

		return append(words, 0), nil

	case "ADD", "AND":
		if len(st.args) != 3 {
			return nil, ErrBadOperandCount
		}

		word := uint16(0x1000)

		if st.op == "AND" {
			word = 0x5000
		}

		dest, err := parseRegister(st.args[0])

		if err != nil {
			return nil, err
		}

		src, err := parseRegister(st.args[1])

		if err != nil {
			return nil, err
		}

		word |= dest<<9 | src<<6

		if src2, err := parseRegister(st.args[2]); err == nil {
			return []uint16{word | src2}, nil
		}

		imm, err := parseSigned(st.args[2], 5)

		if err != nil {
			return nil, err
		}

		return []uint16{word | 1<<5 | imm}, nil

	case "NOT":
		if len(st.args) != 2 {
			return nil, ErrBadOperandCount
		}

		dest, err := parseRegister(st.args[0])

		if err != nil {
			return nil, err
		}

		src, err := parseRegister(st.args[1])

		if err != nil {
			return nil, err
		}

		return []uint16{0x9000 | dest<<9 | src<<6 | 0x3F}, nil

	case "JMP":
		if len(st.args) != 1 {
			return nil, ErrBadOperandCount
		}

		base, err := parseRegister(st.args[0])

		if err != nil {
			return nil, err
		}

		return []uint16{0xC000 | base<<6}, nil

	case "RET":
		if len(st.args) != 0 {
			return nil, ErrBadOperandCount
		}

		return []uint16{0xC1C0}, nil

	case "JSR":
		if len(st.args) != 1 {
			return nil, ErrBadOperandCount
		}

		return one(withOffset(0x4800, st, symbols, st.args[0], 11))

	case "JSRR":
		if len(st.args) != 1 {
			return nil, ErrBadOperandCount
		}

		base, err := parseRegister(st.args[0])

		if err != nil {
			return nil, err
		}

		return []uint16{0x4000 | base<<6}, nil

	case "LD", "LDI", "LEA", "ST", "STI":
		if len(st.args) != 2 {
			return nil, ErrBadOperandCount
		}

		var word uint16

		switch st.op {
		case "LD":
			word = 0x2000
		case "LDI":
			word = 0xA000
		case "LEA":
			word = 0xE000
		case "ST":
			word = 0x3000
		case "STI":
			word = 0xB000
		}

		reg, err := parseRegister(st.args[0])

		if err != nil {
			return nil, err
		}

		return one(withOffset(word|reg<<9, st, symbols, st.args[1], 9))

	case "LDR", "STR":
		if len(st.args) != 3 {
			return nil, ErrBadOperandCount
		}

		word := uint16(0x6000)

		if st.op == "STR" {
			word = 0x7000
		}

		reg, err := parseRegister(st.args[0])

		if err != nil {
			return nil, err
		}

		base, err := parseRegister(st.args[1])

		if err != nil {
			return nil, err
		}

		return one(withOffset(word|reg<<9|base<<6, st, symbols, st.args[2], 6))

	case "TRAP":
		if len(st.args) != 1 {
			return nil, ErrBadOperandCount
		}

		vector, err := parseLiteral(st.args[0])

		if err != nil {
			return nil, err
		}

		if vector > 0xFF {
			return nil, ErrLiteralRange
		}

		return []uint16{0xF000 | vector}, nil

	case "GETC", "OUT", "PUTS", "IN", "PUTSP", "HALT":
		if len(st.args) != 0 {
			return nil, ErrBadOperandCount
		}

		vectors := map[string]uint16{
			"GETC":  0x20,
			"OUT":   0x21,
			"PUTS":  0x22,
			"IN":    0x23,
			"PUTSP": 0x24,
			"HALT":  0x25,
		}

		return []uint16{0xF000 | vectors[st.op]}, nil

	default:
		cond, ok := branchCond(st.op)

		if !ok {
			return nil, ErrUnknownOp
		}

		if len(st.args) != 1 {
			return nil, ErrBadOperandCount
		}

		return one(withOffset(cond<<9, st, symbols, st.args[0], 9))
	}
}

// withOffset resolves a label or signed literal into a PC-relative offset of
// the given width, relative to the incremented PC, and ors it into word.
func withOffset(
	word uint16,
	st *statement,
	symbols map[string]uint16,
	arg string,
	width uint,
) (uint16, error) {
	mask := uint16(1)<<width - 1

	if addr, ok := symbols[strings.ToUpper(arg)]; ok {
		diff := int32(addr) - int32(st.addr) - 1

		if diff < -(1<<(width-1)) || diff >= 1<<(width-1) {
			return 0, ErrOffsetRange
		}

		return word | uint16(diff)&mask, nil
	}

	offset, err := parseSigned(arg, width)

	if err == ErrBadLiteral && isIdent(arg) {
		return 0, ErrUnknownLabel
	} else if err != nil {
		return 0, err
	}

	return word | offset, nil
}

// parseLiteral decodes an unsigned-style literal: xFFFF hex or #n decimal.
// Negative decimals wrap to their two's-complement word value.
func parseLiteral(s string) (uint16, error) {
	if strings.IndexAny(s, "xX") == 0 || strings.HasPrefix(s, "0x") {
		value, err := encoding.DecodeHex(s)

		if err != nil {
			return 0, ErrBadLiteral
		}

		return value, nil
	}

	value, err := encoding.DecodeInt(s)

	if err != nil {
		return 0, ErrBadLiteral
	}

	return uint16(value), nil
}

// parseSigned decodes a literal and range-checks it as a signed field of the
// given bit width, returning the masked field bits.
func parseSigned(s string, width uint) (uint16, error) {
	value, err := parseLiteral(s)

	if err != nil {
		return 0, err
	}

	signed := int32(int16(value))

	if signed < -(1<<(width-1)) || signed >= 1<<(width-1) {
		return 0, ErrLiteralRange
	}

	return value & (uint16(1)<<width - 1), nil
}

func parseRegister(s string) (uint16, error) {
	if len(s) == 2 && (s[0] == 'R' || s[0] == 'r') && s[1] >= '0' && s[1] <= '7' {
		return uint16(s[1] - '0'), nil
	}

	return 0, ErrBadRegister
}

// branchCond maps a BR mnemonic with optional n/z/p suffix letters to its
// condition bits. A bare BR branches unconditionally.
func branchCond(op string) (uint16, bool) {
	if !strings.HasPrefix(op, "BR") {
		return 0, false
	}

	rest := op[2:]

	if rest == "" {
		return 0x7, true
	}

	var cond uint16

	for _, r := range rest {
		switch r {
		case 'N':
			cond |= 0x4
		case 'Z':
			cond |= 0x2
		case 'P':
			cond |= 0x1
		default:
			return 0, false
		}
	}

	return cond, true
}

func known(op string) bool {
	switch op {
	case "ADD", "AND", "NOT", "JMP", "RET", "JSR", "JSRR",
		"LD", "LDI", "LDR", "LEA", "ST", "STI", "STR", "TRAP",
		"GETC", "OUT", "PUTS", "IN", "PUTSP", "HALT",
		".ORIG", ".FILL", ".BLKW", ".STRINGZ", ".END":
		return true
	}

	_, ok := branchCond(op)

	return ok
}

func isIdent(s string) bool {
	for i, r := range s {
		alpha := r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')

		if !alpha && (i == 0 || r < '0' || r > '9') {
			return false
		}
	}

	return len(s) > 0
}

// stripComment removes a trailing ; comment, ignoring semicolons inside
// string literals.
func stripComment(s string) string {
	quoted := false

	for i, r := range s {
		switch r {
		case '"':
			quoted = !quoted
		case ';':
			if !quoted {
				return s[:i]
			}
		}
	}

	return s
}

func splitFirst(s string) (string, string) {
	s = strings.TrimSpace(s)

	if i := strings.IndexAny(s, " \t"); i != -1 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}

	return s, ""
}

// splitArgs breaks an operand list on commas. String directives keep their
// operand whole since quoted text may contain commas.
func splitArgs(op string, rest string) []string {
	if rest == "" {
		return nil
	}

	if op == ".STRINGZ" {
		return []string{rest}
	}

	parts := strings.Split(rest, ",")

	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	return parts
}
