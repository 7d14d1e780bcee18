package optimize

import (
	"sort"

	"github.com/dcpu16/toytoolkit/pkg/stack"
	"github.com/dcpu16/toytoolkit/pkg/translate"
)

type pair struct {
	first, second int
}

// Schedule runs the Koopman-style stack-scheduling pass (§4.4): it finds
// `SET A; STORE … SET A; LOAD` producer/consumer pairs and, where the
// intermediate stack depth permits, rewrites them to keep the value on the
// stack instead of round-tripping it through memory.
//
// Grounded on _examples/original_source/optimise.cpp's stack_schedule.
func Schedule(p stack.Program) (stack.Program, error) {
	prog := append(stack.Program{}, p...)
	pairs := discoverPairs(prog)
	sort.SliceStable(pairs, func(i, j int) bool {
		return (pairs[i].second - pairs[i].first) < (pairs[j].second - pairs[j].first)
	})

	for pi := 0; pi < len(pairs); pi++ {
		i, j := pairs[pi].first, pairs[pi].second

		depthStart := 0
		depthEnd := 0
		for _, p2 := range pairs {
			if p2.first < i && i < p2.second {
				depthStart++
			}
			if p2.first < j && j < p2.second {
				depthEnd++
			}
		}
		if depthStart > 2 || depthEnd > 2 {
			continue
		}

		var producer stack.Instruction
		switch depthStart {
		case 0:
			producer = stack.Make(stack.DUP)
		case 1:
			producer = stack.Make(stack.TUCK2)
		case 2:
			producer = stack.Make(stack.TUCK3)
		}

		// Erase consumer at j, j+1, then insert the producer rewrite before i.
		prog = eraseRange(prog, j, j+2)
		prog = insertAt(prog, i, producer)

		stackDiff := 0
		for k := i + 3; k < j+1; k++ {
			stackDiff += stack.StackDelta(prog[k].Op)
		}
		unfinished := 0
		for _, p2 := range pairs {
			if i < p2.first && p2.first < j && j < p2.second {
				unfinished++
			}
		}
		if stackDiff+unfinished < 0 {
			return nil, translate.NewTranslationError("", "scheduler: impossible stack delta (negative)")
		}
		if stackDiff > 2 {
			return nil, translate.NewTranslationError("", "scheduler stack-delta exceeds 2: not attempted")
		}
		switch stackDiff {
		case 1:
			prog = insertAt(prog, j+1, stack.Make(stack.SWAP))
		case 2:
			prog = insertAt(prog, j+1, stack.Make(stack.RSD3))
		}

		for k := pi + 1; k < len(pairs); k++ {
			if pairs[k].first >= i {
				pairs[k].first++
			}
			if pairs[k].second >= i {
				pairs[k].second++
			}
			if pairs[k].first >= j {
				pairs[k].first -= 2
			}
			if pairs[k].second >= j {
				pairs[k].second -= 2
			}
			if stackDiff > 0 && pairs[k].first > j {
				pairs[k].first++
			}
			if stackDiff > 0 && pairs[k].second > j {
				pairs[k].second++
			}
		}
	}
	return prog, nil
}

// discoverPairs scans left-to-right for SET A;STORE ... SET A;LOAD
// producer/consumer pairs, taking only the first matching consumer to the
// right of each producer.
func discoverPairs(prog stack.Program) []pair {
	var pairs []pair
	for i := 0; i+1 < len(prog); i++ {
		if prog[i].Op != stack.SET || prog[i+1].Op != stack.STORE {
			continue
		}
		for j := i + 2; j+1 < len(prog); j++ {
			if prog[j].Op != stack.SET || prog[j+1].Op != stack.LOAD {
				continue
			}
			if !sameOperand(prog[i].Operand, prog[j].Operand) {
				continue
			}
			pairs = append(pairs, pair{i, j})
			break
		}
	}
	return pairs
}

func sameOperand(x, y stack.Operand) bool {
	if x.IsLiteral() && y.IsLiteral() {
		return x.AsLiteral() == y.AsLiteral()
	}
	if x.IsLabel() && y.IsLabel() {
		return x.AsLabel() == y.AsLabel()
	}
	return false
}

func eraseRange(prog stack.Program, from, to int) stack.Program {
	out := make(stack.Program, 0, len(prog)-(to-from))
	out = append(out, prog[:from]...)
	out = append(out, prog[to:]...)
	return out
}

func insertAt(prog stack.Program, at int, ins stack.Instruction) stack.Program {
	out := make(stack.Program, 0, len(prog)+1)
	out = append(out, prog[:at]...)
	out = append(out, ins)
	out = append(out, prog[at:]...)
	return out
}
