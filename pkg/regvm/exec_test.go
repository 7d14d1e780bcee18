package regvm

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dcpu16/toytoolkit/pkg/reg"
)

func run(t *testing.T, prog reg.Program) (*Machine, string) {
	t.Helper()
	var buf bytes.Buffer
	m := New(WithOutput(&buf))
	if err := m.Run(prog); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return m, strings.TrimSpace(buf.String())
}

func TestAddSetsExOnOverflow(t *testing.T) {
	m, _ := run(t, reg.Program{
		{Op: reg.SET, B: reg.RegOperand(reg.A), A: reg.Literal(0xFFFF)},
		{Op: reg.ADD, B: reg.RegOperand(reg.A), A: reg.Literal(2)},
	})
	if m.Regs[reg.A] != 1 {
		t.Errorf("A = %#x, want 1", m.Regs[reg.A])
	}
	if m.Regs[reg.EX] != 1 {
		t.Errorf("EX = %#x, want 1 on overflow", m.Regs[reg.EX])
	}
}

func TestSubSetsExOnUnderflow(t *testing.T) {
	m, _ := run(t, reg.Program{
		{Op: reg.SET, B: reg.RegOperand(reg.A), A: reg.Literal(1)},
		{Op: reg.SUB, B: reg.RegOperand(reg.A), A: reg.Literal(2)},
	})
	if m.Regs[reg.EX] != 1 {
		t.Errorf("EX = %#x, want 1 on underflow", m.Regs[reg.EX])
	}
}

func TestDivByZeroYieldsZeroAndClearsEx(t *testing.T) {
	m, _ := run(t, reg.Program{
		{Op: reg.SET, B: reg.RegOperand(reg.A), A: reg.Literal(10)},
		{Op: reg.DIV, B: reg.RegOperand(reg.A), A: reg.Literal(0)},
	})
	if m.Regs[reg.A] != 0 || m.Regs[reg.EX] != 0 {
		t.Errorf("A=%d EX=%d, want 0,0 on divide by zero", m.Regs[reg.A], m.Regs[reg.EX])
	}
}

func TestModPreservesExistingEx(t *testing.T) {
	m := New()
	m.Regs[reg.EX] = 0x4242
	m.Regs[reg.A] = 7
	if err := m.execBinop(reg.Instruction{Op: reg.MOD, B: reg.RegOperand(reg.A), A: reg.Literal(3)}, nil); err != nil {
		t.Fatalf("execBinop: %v", err)
	}
	if m.Regs[reg.A] != 1 {
		t.Errorf("7 mod 3 = %d, want 1", m.Regs[reg.A])
	}
	if m.Regs[reg.EX] != 0x4242 {
		t.Errorf("MOD must leave EX untouched, got %#x", m.Regs[reg.EX])
	}
}

func TestIfnSkipsNextOnEquality(t *testing.T) {
	m, out := run(t, reg.Program{
		{Op: reg.SET, B: reg.RegOperand(reg.A), A: reg.Literal(3)},
		{Op: reg.IFN, B: reg.RegOperand(reg.A), A: reg.Literal(3)},
		{Op: reg.SET, B: reg.RegOperand(reg.B), A: reg.Literal(99)},
		{Op: reg.OUT, B: reg.RegOperand(reg.B)},
	})
	if m.Regs[reg.B] != 0 {
		t.Errorf("IFN false should skip the following SET, B = %d", m.Regs[reg.B])
	}
	if out != "0" {
		t.Errorf("out = %q, want %q", out, "0")
	}
}

func TestLoopToThree(t *testing.T) {
	// SET A,0 / :loop SET B,1 / ADD A,B / IFN A,3 / SET PC,loop / OUT A
	prog := reg.Program{
		{Op: reg.SET, B: reg.RegOperand(reg.A), A: reg.Literal(0)},
		{Op: reg.SET, B: reg.RegOperand(reg.B), A: reg.Literal(1), Label: "loop"},
		{Op: reg.ADD, B: reg.RegOperand(reg.A), A: reg.RegOperand(reg.B)},
		{Op: reg.IFN, B: reg.RegOperand(reg.A), A: reg.Literal(3)},
		{Op: reg.SET, B: reg.RegOperand(reg.PC), A: reg.Label("loop")},
		{Op: reg.OUT, B: reg.RegOperand(reg.A)},
	}
	_, out := run(t, prog)
	if out != "3" {
		t.Errorf("out = %q, want %q", out, "3")
	}
}

func TestDatZeroTerminates(t *testing.T) {
	m, _ := run(t, reg.Program{
		{Op: reg.DAT, B: reg.Literal(0)},
		{Op: reg.SET, B: reg.RegOperand(reg.A), A: reg.Literal(1)},
	})
	if !m.Terminated() {
		t.Error("expected DAT 0 to terminate the machine")
	}
	if m.Regs[reg.A] != 0 {
		t.Error("instruction after DAT 0 must not execute")
	}
}
