package translate

import "github.com/dcpu16/toytoolkit/pkg/stack"

// Stitch concatenates per-instruction snippets into one stack program,
// back-patching each snippet's trailing placeholder BRZERO/BRANCH (if any)
// with the length of the following snippet plus one — the distance, in
// stack instructions, needed to skip the then-branch that follows it.
//
// Grounded on _examples/original_source/register_convert.cpp's reg2stack
// loop, generalised to resolve Operand's Placeholder kind (see
// stack.Placeholder) instead of the sentinel literal 42 the source used.
func Stitch(snippets []stack.Program) stack.Program {
	for i := 0; i < len(snippets)-1; i++ {
		snippet := snippets[i]
		if len(snippet) == 0 {
			continue
		}
		last := &snippet[len(snippet)-1]
		if (last.Op == stack.BRZERO || last.Op == stack.BRANCH) && last.Operand.IsPlaceholder() {
			last.Operand = stack.Literal(uint16(len(snippets[i+1]) + 1))
		}
	}
	var out stack.Program
	for _, snippet := range snippets {
		out = append(out, snippet...)
	}
	return out
}
