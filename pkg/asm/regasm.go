package asm

import (
	"errors"
	"strconv"
	"strings"

	"github.com/dcpu16/toytoolkit/pkg/reg"
)

// ParseRegister assembles register-dialect source into a reg.Program.
// Labels appear as `:name` at the start of a line; numeric literals are
// `0x…` hex or decimal.
func ParseRegister(src string) (reg.Program, error) {
	var prog reg.Program
	for lineNo, line := range splitLines(src) {
		words := splitWords(line)
		if len(words) == 0 {
			continue
		}

		var label string
		if strings.HasPrefix(words[0], ":") {
			label = words[0][1:]
			words = words[1:]
			if len(words) == 0 {
				return nil, &LexicalError{lineNo + 1, "label with no instruction"}
			}
		}

		op, ok := reg.LookupMnemonic(strings.ToUpper(words[0]))
		if !ok {
			return nil, &LexicalError{lineNo + 1, "unknown opcode: " + words[0]}
		}
		operands := words[1:]

		ins := reg.Instruction{Op: op, Label: label}
		if reg.IsBinary(op) {
			if len(operands) != 2 {
				return nil, &LexicalError{lineNo + 1, "expected two operands for " + reg.Mnemonic(op)}
			}
			b, err := parseRegOperand(operands[0])
			if err != nil {
				return nil, &LexicalError{lineNo + 1, err.Error()}
			}
			a, err := parseRegOperand(operands[1])
			if err != nil {
				return nil, &LexicalError{lineNo + 1, err.Error()}
			}
			ins.B, ins.A = b, a
		} else {
			if len(operands) != 1 {
				return nil, &LexicalError{lineNo + 1, "expected one operand for " + reg.Mnemonic(op)}
			}
			b, err := parseRegOperand(operands[0])
			if err != nil {
				return nil, &LexicalError{lineNo + 1, err.Error()}
			}
			ins.B = b
		}
		prog = append(prog, ins)
	}
	return prog, nil
}

// parseRegOperand parses one register-dialect operand token, recognising
// array form `[inner]`, sum form `left+right`, hex (`0x…`)/decimal
// literals, register names, and otherwise treating the token as a label.
func parseRegOperand(tok string) (reg.Operand, error) {
	if strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]") {
		inner, err := parseRegOperandAtom(tok[1 : len(tok)-1])
		if err != nil {
			return reg.Operand{}, err
		}
		return reg.Array(inner), nil
	}
	return parseRegOperandAtom(tok)
}

func parseRegOperandAtom(tok string) (reg.Operand, error) {
	if idx := strings.IndexByte(tok, '+'); idx > 0 && idx < len(tok)-1 {
		left, err := parseRegOperandAtom(tok[:idx])
		if err != nil {
			return reg.Operand{}, err
		}
		right, err := parseRegOperandAtom(tok[idx+1:])
		if err != nil {
			return reg.Operand{}, err
		}
		return reg.Sum(left, right), nil
	}
	if strings.HasPrefix(tok, "0x") || strings.HasPrefix(tok, "0X") {
		hexDigits := tok[2:]
		if !isHexDigits(hexDigits) {
			return reg.Operand{}, errors.New("invalid hex literal: " + tok)
		}
		n, err := strconv.ParseUint(hexDigits, 16, 16)
		if err != nil {
			return reg.Operand{}, errors.New("invalid hex literal: " + tok)
		}
		return reg.Literal(uint16(n)), nil
	}
	if isDecimalDigits(tok) {
		n, err := strconv.ParseUint(tok, 10, 16)
		if err != nil {
			return reg.Operand{}, errors.New("invalid decimal literal: " + tok)
		}
		return reg.Literal(uint16(n)), nil
	}
	if r, ok := reg.LookupReg(tok); ok {
		return reg.RegOperand(r), nil
	}
	return reg.Label(tok), nil
}
