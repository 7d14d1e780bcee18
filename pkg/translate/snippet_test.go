package translate

import (
	"testing"

	"github.com/dcpu16/toytoolkit/pkg/reg"
	"github.com/dcpu16/toytoolkit/pkg/stack"
)

func TestSetLiteralDestIsNoOp(t *testing.T) {
	ins := reg.Instruction{Op: reg.SET, B: reg.Literal(3), A: reg.Literal(1)}
	out, err := Snippet(ins)
	if err != nil {
		t.Fatalf("Snippet: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("SET with a literal destination should translate to nothing, got %v", out)
	}
}

func TestSetRegisterStoresValue(t *testing.T) {
	ins := reg.Instruction{Op: reg.SET, B: reg.RegOperand(reg.A), A: reg.Literal(7)}
	out, err := Snippet(ins)
	if err != nil {
		t.Fatalf("Snippet: %v", err)
	}
	last := out[len(out)-1]
	if last.Op != stack.STORE {
		t.Errorf("expected snippet to end in STORE, got %s", stack.Mnemonic(last.Op))
	}
}

func TestSetPCLabelEmitsBranch(t *testing.T) {
	ins := reg.Instruction{Op: reg.SET, B: reg.RegOperand(reg.PC), A: reg.Label("loop")}
	out, err := Snippet(ins)
	if err != nil {
		t.Fatalf("Snippet: %v", err)
	}
	if len(out) != 1 || out[0].Op != stack.BRANCH || !out[0].Operand.IsLabel() || out[0].Operand.AsLabel() != "loop" {
		t.Errorf("expected single BRANCH loop, got %v", out)
	}
}

func TestOutSnippetShape(t *testing.T) {
	ins := reg.Instruction{Op: reg.OUT, B: reg.RegOperand(reg.A)}
	out, err := Snippet(ins)
	if err != nil {
		t.Fatalf("Snippet: %v", err)
	}
	if len(out) < 2 || out[len(out)-2].Op != stack.OUT || out[len(out)-1].Op != stack.DROP {
		t.Errorf("OUT snippet should end in OUT, DROP, got %v", out)
	}
}

func TestIfnUsesSinglePlaceholderBrzero(t *testing.T) {
	ins := reg.Instruction{Op: reg.IFN, B: reg.RegOperand(reg.A), A: reg.Literal(3)}
	out, err := Snippet(ins)
	if err != nil {
		t.Fatalf("Snippet: %v", err)
	}
	last := out[len(out)-1]
	if last.Op != stack.BRZERO || !last.Operand.IsPlaceholder() {
		t.Errorf("IFN should end in a placeholder BRZERO, got %v", last)
	}
}

func TestIfeUsesBrzero2ThenPlaceholderBranch(t *testing.T) {
	ins := reg.Instruction{Op: reg.IFE, B: reg.RegOperand(reg.A), A: reg.Literal(3)}
	out, err := Snippet(ins)
	if err != nil {
		t.Fatalf("Snippet: %v", err)
	}
	if len(out) < 2 {
		t.Fatalf("snippet too short: %v", out)
	}
	brz := out[len(out)-2]
	br := out[len(out)-1]
	if brz.Op != stack.BRZERO || brz.Operand.AsLiteral() != 2 {
		t.Errorf("expected BRZERO 2, got %v", brz)
	}
	if br.Op != stack.BRANCH || !br.Operand.IsPlaceholder() {
		t.Errorf("expected placeholder BRANCH, got %v", br)
	}
}

func TestLabelPropagatesToFirstInstruction(t *testing.T) {
	ins := reg.Instruction{Op: reg.SET, B: reg.RegOperand(reg.A), A: reg.Literal(1), Label: "start"}
	out, err := Snippet(ins)
	if err != nil {
		t.Fatalf("Snippet: %v", err)
	}
	if out[0].Label != "start" {
		t.Errorf("expected label to propagate to first instruction, got %q", out[0].Label)
	}
}

func TestUnimplementedOpcodeErrors(t *testing.T) {
	ins := reg.Instruction{Op: reg.MUL, B: reg.RegOperand(reg.A), A: reg.Literal(1)}
	if _, err := Snippet(ins); err == nil {
		t.Error("expected an error translating an unimplemented opcode")
	}
}

func TestIndexOnStackSumOperand(t *testing.T) {
	operand := reg.Array(reg.Sum(reg.RegOperand(reg.A), reg.Literal(4)))
	out, err := AddressOnStack(operand)
	if err != nil {
		t.Fatalf("AddressOnStack: %v", err)
	}
	last := out[len(out)-1]
	if last.Op != stack.ADD {
		t.Errorf("sum-addressed array should end with ADD, got %v", out)
	}
}
