package optimize

import (
	"testing"

	"github.com/dcpu16/toytoolkit/pkg/stack"
)

// TestScheduleCollapsesAdjacentStoreLoad covers round-trip scenario 6 (§8):
// at depth 0 the scheduler must replace a SET;STORE ... SET;LOAD pair with
// DUP ahead of the store, leaving no SET addr;LOAD immediately following
// the producing STORE.
func TestScheduleCollapsesAdjacentStoreLoad(t *testing.T) {
	addr := stack.Literal(0x2001)
	in := stack.Program{
		stack.MakeOperand(stack.SET, addr),
		stack.Make(stack.STORE),
		stack.MakeOperand(stack.SET, addr),
		stack.Make(stack.LOAD),
	}
	out, err := Schedule(in)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(out) != 3 {
		t.Fatalf("expected 3 instructions after collapse, got %v", out)
	}
	if out[0].Op != stack.DUP || out[1].Op != stack.SET || out[2].Op != stack.STORE {
		t.Errorf("expected DUP; SET; STORE, got %v", out)
	}
	for i := 0; i+1 < len(out); i++ {
		if out[i].Op == stack.STORE && out[i+1].Op == stack.SET {
			t.Errorf("a SET;LOAD must not immediately follow the producing STORE: %v", out)
		}
	}
}

func TestScheduleLeavesUnmatchedPairsAlone(t *testing.T) {
	in := stack.Program{
		stack.MakeOperand(stack.SET, stack.Literal(5)),
		stack.Make(stack.STORE),
	}
	out, err := Schedule(in)
	if err != nil {
		t.Fatalf("Schedule: %v", err)
	}
	if len(out) != 2 {
		t.Errorf("program with no consumer should be untouched, got %v", out)
	}
}

// TestScheduleRejectsExcessiveStackDelta exercises the scheduler's error
// path: three intervening PUSH instructions push the rebalance delta past
// what TUCK2/TUCK3/SWAP/RSD3 can absorb.
func TestScheduleRejectsExcessiveStackDelta(t *testing.T) {
	addr := stack.Literal(0x2001)
	in := stack.Program{
		stack.MakeOperand(stack.SET, addr),
		stack.Make(stack.STORE),
		stack.Make(stack.PUSH),
		stack.Make(stack.PUSH),
		stack.Make(stack.PUSH),
		stack.MakeOperand(stack.SET, addr),
		stack.Make(stack.LOAD),
	}
	if _, err := Schedule(in); err == nil {
		t.Error("expected a translation error for an unreschedulable stack delta")
	}
}
