package asm

import "fmt"

// LexicalError covers a malformed line, unknown opcode, bad operand arity,
// or invalid numeric literal (§7).
type LexicalError struct {
	Line int
	Msg  string
}

func (e *LexicalError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// ResolutionError is the error type for an undefined label or invalid
// register name (§7). Neither parser returns it: a token that is not a
// literal or a known register name is parsed as a label, and labels are
// resolved later by the executors and the driver.
type ResolutionError struct {
	Msg string
}

func (e *ResolutionError) Error() string { return e.Msg }
