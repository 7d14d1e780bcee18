// Package regvm implements the register-machine direct executor: runs
// register IR without translation, maintaining the twelve-register file and
// 64 Ki-word memory.
//
// Grounded on _examples/oisee-z80-optimizer/pkg/cpu/{state,exec}.go for the
// state-struct-plus-switch shape, and
// _examples/original_source/register_machine.cpp for DCPU-16 semantics —
// this executor implements the full numeric semantics of §4.8 rather than
// the source's partially-stubbed ("Unimplemented instruction") version.
package regvm

import (
	"fmt"
	"io"
	"os"

	"github.com/dcpu16/toytoolkit/pkg/reg"
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

// Machine is the register-machine execution state.
type Machine struct {
	Regs      [reg.RegCount]uint16
	Mem       [memSize]uint16
	terminate bool
	skipNext  bool
	out       io.Writer
	tracer    Tracer
}

// Option configures a Machine at construction.
type Option func(*Machine)

// WithOutput redirects OUT's target stream (defaults to os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(m *Machine) { m.out = w }
}

// WithTracer attaches a Tracer: Run logs a trace line before each
// instruction (Debug2, -v 3) and a register dump after it (Debug, -v 2).
func WithTracer(t Tracer) Option {
	return func(m *Machine) { m.tracer = t }
}

// New returns a register machine with SP initialised to 0xFFFF, as
// specified in §4.8.
func New(opts ...Option) *Machine {
	m := &Machine{}
	m.Regs[reg.SP] = 0xFFFF
	for _, opt := range opts {
		opt(m)
	}
	if m.out == nil {
		m.out = os.Stdout
	}
	return m
}

// Terminated reports whether the machine has executed DAT 0.
func (m *Machine) Terminated() bool { return m.terminate }

func (m *Machine) String() string {
	return fmt.Sprintf(
		"PC %04x\tSP %04x\tEX %04x\tA %04x B %04x C %04x X %04x Y %04x Z %04x I %04x J %04x IA %04x",
		m.Regs[reg.PC], m.Regs[reg.SP], m.Regs[reg.EX],
		m.Regs[reg.A], m.Regs[reg.B], m.Regs[reg.C], m.Regs[reg.X], m.Regs[reg.Y], m.Regs[reg.Z],
		m.Regs[reg.I], m.Regs[reg.J], m.Regs[reg.IA],
	)
}
