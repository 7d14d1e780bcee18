package stackvm

import (
	"fmt"
	"strings"
)

// String renders a fixed-width hex dump of PC and the live data stack,
// supplementing the original dcpu16/J5 implementation's register_dump
// (_examples/original_source/stack_machine.cpp) for use at debug
// verbosity.
func (m *Machine) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "PC %04x\t(", m.PC)
	for i := len(m.Stack) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%04x,", m.Stack[i])
	}
	b.WriteByte(')')
	return b.String()
}
