package regvm

import "github.com/dcpu16/toytoolkit/pkg/reg"

// execCond evaluates one of the eight IF-family conditionals comparing b
// against a, setting skipNext to the negation of the predicate: when the
// condition is false, the following instruction is skipped.
func (m *Machine) execCond(ins reg.Instruction, labels map[string]uint16) error {
	bVal, err := m.resolveValue(ins.B, labels)
	if err != nil {
		return err
	}
	aVal, err := m.resolveValue(ins.A, labels)
	if err != nil {
		return err
	}

	var pred bool
	switch ins.Op {
	case reg.IFB:
		pred = bVal&aVal != 0
	case reg.IFC:
		pred = bVal&aVal == 0
	case reg.IFE:
		pred = bVal == aVal
	case reg.IFN:
		pred = bVal != aVal
	case reg.IFG:
		pred = bVal > aVal
	case reg.IFA:
		pred = int16(bVal) > int16(aVal)
	case reg.IFL:
		pred = bVal < aVal
	case reg.IFU:
		pred = int16(bVal) < int16(aVal)
	}
	m.skipNext = !pred
	return nil
}
