// Package stackvm implements the stack-machine executor: the data stack,
// 64 Ki-word memory, flag byte, and the fetch/execute loop over stack IR.
//
// Grounded on _examples/oisee-z80-optimizer/pkg/cpu/{state,exec}.go for the
// state-struct-plus-switch-dispatch shape, and on
// _examples/original_source/stack_machine.cpp for J5 opcode semantics.
package stackvm

import (
	"io"
)

const memSize = 1 << 16

// Tracer receives per-instruction diagnostics during Run: Debug2f before an
// instruction executes, Debugf for the state dump after it. Satisfied by
// *internal/xlog.Logger; kept as a minimal interface here so this package
// doesn't depend on the logging package directly.
type Tracer interface {
	Debugf(format string, args ...any)
	Debug2f(format string, args ...any)
}

// Machine is the stack-machine execution state.
type Machine struct {
	PC        uint16
	Stack     []uint16
	Mem       [memSize]uint16
	Flags     uint8
	LBR       uint8
	GBR       uint8
	VBA       uint8
	terminate bool
	out       io.Writer
	tracer    Tracer
}

// New returns a freshly reset stack machine: empty data stack, zeroed
// memory, PC at 0.
func New(opts ...Option) *Machine {
	m := &Machine{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Machine) push(v uint16) { m.Stack = append(m.Stack, v) }

func (m *Machine) pop() (uint16, error) {
	if len(m.Stack) == 0 {
		return 0, &RuntimeError{"stack underflow"}
	}
	v := m.Stack[len(m.Stack)-1]
	m.Stack = m.Stack[:len(m.Stack)-1]
	return v, nil
}

func (m *Machine) top() (uint16, error) {
	if len(m.Stack) == 0 {
		return 0, &RuntimeError{"stack underflow"}
	}
	return m.Stack[len(m.Stack)-1], nil
}

func (m *Machine) peekAt(depthFromTop int) (uint16, error) {
	idx := len(m.Stack) - 1 - depthFromTop
	if idx < 0 {
		return 0, &RuntimeError{"stack underflow"}
	}
	return m.Stack[idx], nil
}

func (m *Machine) load(addr uint16) uint16 {
	return m.Mem[addr]
}

func (m *Machine) store(addr, val uint16) {
	m.Mem[addr] = val
}

// Terminated reports whether the machine has executed STOP.
func (m *Machine) Terminated() bool { return m.terminate }
