package optimize

import (
	"testing"

	"github.com/dcpu16/toytoolkit/pkg/stack"
)

func instsEqual(a, b stack.Instruction) bool {
	if a.Op != b.Op || a.Label != b.Label {
		return false
	}
	return operandEqual(a.Operand, b.Operand)
}

func TestRewriteIncDec(t *testing.T) {
	in := stack.Program{
		stack.MakeOperand(stack.SET, stack.Literal(1)),
		stack.Make(stack.ADD),
	}
	out := Peephole(in)
	if len(out) != 1 || out[0].Op != stack.INC {
		t.Errorf("SET 1; ADD should fold to INC, got %v", out)
	}

	in = stack.Program{
		stack.MakeOperand(stack.SET, stack.Literal(1)),
		stack.Make(stack.SUB),
	}
	out = Peephole(in)
	if len(out) != 1 || out[0].Op != stack.DEC {
		t.Errorf("SET 1; SUB should fold to DEC, got %v", out)
	}
}

func TestRewriteIncDecPreservesLabel(t *testing.T) {
	set := stack.MakeOperand(stack.SET, stack.Literal(1))
	set.Label = "loop"
	out := Peephole(stack.Program{set, stack.Make(stack.ADD)})
	if out[0].Label != "loop" {
		t.Errorf("expected label to survive the INC fold, got %q", out[0].Label)
	}
}

func TestRewriteTestZero(t *testing.T) {
	in := stack.Program{
		stack.MakeOperand(stack.SET, stack.Literal(0)),
		stack.Make(stack.TEQ),
	}
	out := Peephole(in)
	if len(out) != 1 || out[0].Op != stack.TSZ {
		t.Errorf("SET 0; TEQ should fold to TSZ, got %v", out)
	}
}

func TestRewriteTestZeroDoesNotFireOnNonzero(t *testing.T) {
	in := stack.Program{
		stack.MakeOperand(stack.SET, stack.Literal(1)),
		stack.Make(stack.TEQ),
	}
	out := Peephole(in)
	if len(out) != 2 {
		t.Errorf("SET 1; TEQ must not fold, got %v", out)
	}
}

func TestRewriteDupSwap(t *testing.T) {
	in := stack.Program{stack.Make(stack.DUP), stack.Make(stack.SWAP)}
	out := Peephole(in)
	if len(out) != 1 || out[0].Op != stack.DUP {
		t.Errorf("DUP; SWAP should collapse to DUP, got %v", out)
	}
}

func TestRewriteStoreLoadFold(t *testing.T) {
	addr := stack.Literal(0x2001)
	in := stack.Program{
		stack.MakeOperand(stack.SET, addr),
		stack.Make(stack.STORE),
		stack.MakeOperand(stack.SET, addr),
		stack.Make(stack.LOAD),
	}
	out := Peephole(in)
	if len(out) != 3 {
		t.Fatalf("expected 3 instructions after fold, got %v", out)
	}
	if out[0].Op != stack.DUP || out[1].Op != stack.SET || out[2].Op != stack.STORE {
		t.Errorf("expected DUP; SET; STORE, got %v", out)
	}
}

func TestRewriteStoreLoadFoldRequiresMatchingAddress(t *testing.T) {
	in := stack.Program{
		stack.MakeOperand(stack.SET, stack.Literal(1)),
		stack.Make(stack.STORE),
		stack.MakeOperand(stack.SET, stack.Literal(2)),
		stack.Make(stack.LOAD),
	}
	out := Peephole(in)
	if len(out) != 4 {
		t.Errorf("mismatched addresses must not fold, got %v", out)
	}
}

// TestPeepholeLeavesNoFoldableSubsequence covers testable property 2 (§8):
// after one Peephole pass, none of the SET 1;ADD, SET 0;TEQ and DUP;SWAP
// subsequences in the input remain.
func TestPeepholeLeavesNoFoldableSubsequence(t *testing.T) {
	in := stack.Program{
		stack.MakeOperand(stack.SET, stack.Literal(1)),
		stack.Make(stack.ADD),
		stack.MakeOperand(stack.SET, stack.Literal(0)),
		stack.Make(stack.TEQ),
		stack.Make(stack.DUP),
		stack.Make(stack.SWAP),
	}
	out := Peephole(in)
	for i := 0; i+1 < len(out); i++ {
		if out[i].Op == stack.DUP && out[i+1].Op == stack.SWAP {
			t.Errorf("DUP; SWAP subsequence survived peephole: %v", out)
		}
		if out[i].Op == stack.SET && out[i].Operand.IsLiteral() && out[i].Operand.AsLiteral() == 1 &&
			(out[i+1].Op == stack.ADD || out[i+1].Op == stack.SUB) {
			t.Errorf("SET 1;ADD/SUB subsequence survived peephole: %v", out)
		}
		if out[i].Op == stack.SET && out[i].Operand.IsLiteral() && out[i].Operand.AsLiteral() == 0 &&
			out[i+1].Op == stack.TEQ {
			t.Errorf("SET 0;TEQ subsequence survived peephole: %v", out)
		}
	}
}
