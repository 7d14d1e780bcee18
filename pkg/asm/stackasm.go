package asm

import (
	"errors"
	"strconv"
	"strings"

	"github.com/dcpu16/toytoolkit/pkg/stack"
)

// ParseStack assembles stack-dialect source into a stack.Program. Labels
// appear as `name:` at the start of a line; numeric literals are decimal or
// a trailing-`H` hex form (`2A0H`). Only SET, BRANCH, BRZERO carry an
// operand.
func ParseStack(src string) (stack.Program, error) {
	var prog stack.Program
	for lineNo, line := range splitLines(src) {
		words := splitWords(line)
		if len(words) == 0 {
			continue
		}

		var label string
		if strings.HasSuffix(words[0], ":") {
			label = strings.TrimSuffix(words[0], ":")
			words = words[1:]
			if len(words) == 0 {
				return nil, &LexicalError{lineNo + 1, "label with no instruction"}
			}
		}

		op, ok := stack.LookupMnemonic(strings.ToUpper(words[0]))
		if !ok {
			return nil, &LexicalError{lineNo + 1, "unknown op code: " + words[0]}
		}
		operands := words[1:]

		ins := stack.Instruction{Op: op, Label: label, Operand: stack.None()}
		if stack.TakesOperand(op) {
			if len(operands) != 1 {
				return nil, &LexicalError{lineNo + 1, "expected one operand for " + stack.Mnemonic(op)}
			}
			operand, err := parseStackOperand(operands[0])
			if err != nil {
				return nil, &LexicalError{lineNo + 1, err.Error()}
			}
			ins.Operand = operand
		} else if len(operands) != 0 {
			return nil, &LexicalError{lineNo + 1, "incorrect number of operands for " + stack.Mnemonic(op)}
		}
		prog = append(prog, ins)
	}
	return prog, nil
}

// parseStackOperand recognises a trailing-H hex literal, a decimal literal,
// or otherwise treats the token as a label reference.
func parseStackOperand(tok string) (stack.Operand, error) {
	if len(tok) > 1 && (tok[len(tok)-1] == 'h' || tok[len(tok)-1] == 'H') && isHexDigits(tok[:len(tok)-1]) {
		n, err := strconv.ParseUint(tok[:len(tok)-1], 16, 16)
		if err != nil {
			return stack.Operand{}, errors.New("invalid hex literal: " + tok)
		}
		return stack.Literal(uint16(n)), nil
	}
	if isDecimalDigits(tok) {
		n, err := strconv.ParseUint(tok, 10, 16)
		if err != nil {
			return stack.Operand{}, errors.New("invalid decimal literal: " + tok)
		}
		return stack.Literal(uint16(n)), nil
	}
	return stack.Label(tok), nil
}
