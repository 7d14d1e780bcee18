package stack

import "strings"

// String renders ins in the stack dialect's surface syntax.
func (ins Instruction) String() string {
	var b strings.Builder
	if ins.Label != "" {
		b.WriteString(ins.Label)
		b.WriteString(": ")
	}
	b.WriteString(Mnemonic(ins.Op))
	if !ins.Operand.IsNone() {
		b.WriteByte(' ')
		b.WriteString(ins.Operand.String())
	}
	return b.String()
}

// String renders the whole program, one instruction per line.
func (p Program) String() string {
	var b strings.Builder
	for i, ins := range p {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(ins.String())
	}
	return b.String()
}
