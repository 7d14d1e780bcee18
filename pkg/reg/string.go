package reg

import "strings"

// String renders ins in the register dialect's surface syntax, used for
// verbose program listings (-v 1) and error messages.
func (ins Instruction) String() string {
	var b strings.Builder
	if ins.Label != "" {
		b.WriteByte(':')
		b.WriteString(ins.Label)
		b.WriteByte(' ')
	}
	b.WriteString(Mnemonic(ins.Op))
	if IsBinary(ins.Op) {
		b.WriteByte(' ')
		b.WriteString(ins.B.String())
		b.WriteString(", ")
		b.WriteString(ins.A.String())
	} else {
		b.WriteByte(' ')
		b.WriteString(ins.B.String())
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
