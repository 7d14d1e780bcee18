// Package optimize implements the fixed peephole rewrite battery (§4.3) and
// the Koopman-style stack scheduler (§4.4) that run over already-stitched
// stack programs.
//
// Grounded on _examples/original_source/optimise.cpp: peephole_optimise's
// sliding-window lambdas and stack_schedule's pair-discovery/rewrite loop,
// reworked as named, independently testable Go functions (design note §9:
// "prefer exhaustive match... the tables in the source are an ergonomic
// choice, not a contract").
package optimize

import "github.com/dcpu16/toytoolkit/pkg/stack"

// Peephole runs the five fixed rewrites over p in order, each a single
// forward sweep; no fixed-point re-scan. Returns a new program; p is left
// untouched.
func Peephole(p stack.Program) stack.Program {
	p = patch2(p, rewriteIncDec)
	p = patch2(p, rewriteTestZero)
	p = patch4(p, rewriteStoreLoadFold)
	p = patch2(p, rewriteDupSwap)
	return p
}

// patch2 applies f to every adjacent pair in v, building the result as it
// goes; f may consume 0, 1, or 2 input instructions and append any number
// of output instructions.
func patch2(v stack.Program, f func(a, b stack.Instruction) (out []stack.Instruction, consumed int)) stack.Program {
	out := make(stack.Program, 0, len(v))
	i := 0
	for i < len(v) {
		if i+1 < len(v) {
			if rewritten, consumed := f(v[i], v[i+1]); consumed > 0 {
				out = append(out, rewritten...)
				i += consumed
				continue
			}
		}
		out = append(out, v[i])
		i++
	}
	return out
}

func patch4(v stack.Program, f func(a, b, c, d stack.Instruction) (out []stack.Instruction, consumed int)) stack.Program {
	out := make(stack.Program, 0, len(v))
	i := 0
	for i < len(v) {
		if i+3 < len(v) {
			if rewritten, consumed := f(v[i], v[i+1], v[i+2], v[i+3]); consumed > 0 {
				out = append(out, rewritten...)
				i += consumed
				continue
			}
		}
		out = append(out, v[i])
		i++
	}
	return out
}

// rewriteIncDec folds `SET 1; ADD` into `INC` (rewrite 1, §4.3).
func rewriteIncDec(a, b stack.Instruction) ([]stack.Instruction, int) {
	if a.Op == stack.SET && a.Operand.IsLiteral() && a.Operand.AsLiteral() == 1 && b.Op == stack.ADD {
		ins := stack.Make(stack.INC)
		ins.Label = a.Label
		return []stack.Instruction{ins}, 2
	}
	if a.Op == stack.SET && a.Operand.IsLiteral() && a.Operand.AsLiteral() == 1 && b.Op == stack.SUB {
		ins := stack.Make(stack.DEC)
		ins.Label = a.Label
		return []stack.Instruction{ins}, 2
	}
	return nil, 0
}

// rewriteTestZero folds `SET 0; TEQ` into `TSZ` (rewrite 3, §4.3).
//
// The guard requires the SET operand to be the literal 0, the value that
// makes the fold preserve behaviour (TSZ tests top-of-stack against zero),
// rather than the literal 1 that one copy of the original source checked.
// It is exposed as this one named rewrite so the choice is reviewable
// rather than buried in a shared lambda.
func rewriteTestZero(a, b stack.Instruction) ([]stack.Instruction, int) {
	if a.Op == stack.SET && a.Operand.IsLiteral() && a.Operand.AsLiteral() == 0 && b.Op == stack.TEQ {
		ins := stack.Make(stack.TSZ)
		ins.Label = a.Label
		return []stack.Instruction{ins}, 2
	}
	return nil, 0
}

// rewriteDupSwap erases a redundant SWAP right after a DUP: the top two
// values are already equal, so swapping them is a no-op (rewrite 5, §4.3).
func rewriteDupSwap(a, b stack.Instruction) ([]stack.Instruction, int) {
	if a.Op == stack.DUP && b.Op == stack.SWAP {
		return []stack.Instruction{a}, 2
	}
	return nil, 0
}

// rewriteStoreLoadFold folds `SET X; STORE; SET X; LOAD` into
// `DUP; SET X; STORE` (rewrite 4, §4.3): the value being stored is also
// what the immediately following load would read back, so duplicate it
// instead of round-tripping through memory.
func rewriteStoreLoadFold(a, b, c, d stack.Instruction) ([]stack.Instruction, int) {
	if a.Op == stack.SET && b.Op == stack.STORE && c.Op == stack.SET && d.Op == stack.LOAD &&
		operandEqual(a.Operand, c.Operand) {
		dup := stack.Make(stack.DUP)
		dup.Label = a.Label
		setX := a
		setX.Label = ""
		return []stack.Instruction{dup, setX, stack.Make(stack.STORE)}, 4
	}
	return nil, 0
}

func operandEqual(x, y stack.Operand) bool {
	if x.IsLiteral() && y.IsLiteral() {
		return x.AsLiteral() == y.AsLiteral()
	}
	if x.IsLabel() && y.IsLabel() {
		return x.AsLabel() == y.AsLabel()
	}
	return x.IsNone() && y.IsNone()
}
