package regvm

import (
	"fmt"

	"github.com/dcpu16/toytoolkit/pkg/reg"
)

// Run executes prog directly, one instruction at a time, until DAT 0 or the
// program is exhausted. PC is register reg.PC, used as an instruction
// index (not a memory address) throughout this executor.
func (m *Machine) Run(prog reg.Program) error {
	labels := indexLabels(prog)
	m.Regs[reg.PC] = 0
	for !m.terminate && int(m.Regs[reg.PC]) < len(prog) {
		pc := m.Regs[reg.PC]
		ins := prog[pc]
		if m.skipNext {
			m.skipNext = false
			m.Regs[reg.PC] = pc + 1
			continue
		}
		if m.tracer != nil {
			m.tracer.Debug2f("%s", ins)
		}
		if err := m.exec(ins, prog, labels); err != nil {
			return err
		}
		if m.tracer != nil {
			m.tracer.Debugf("%s", m)
		}
		// Only advance if the instruction didn't already set PC itself
		// (a SET PC,... branch): detect by comparing PC to the value it
		// held at instruction start for non-branch instructions.
		if m.Regs[reg.PC] == pc {
			m.Regs[reg.PC] = pc + 1
		}
	}
	return nil
}

func indexLabels(prog reg.Program) map[string]uint16 {
	labels := make(map[string]uint16)
	for i, ins := range prog {
		if ins.Label != "" {
			labels[ins.Label] = uint16(i)
		}
	}
	return labels
}

func (m *Machine) exec(ins reg.Instruction, prog reg.Program, labels map[string]uint16) error {
	switch ins.Op {
	case reg.SET:
		return m.execSet(ins, labels)
	case reg.ADD, reg.SUB, reg.MUL, reg.MLI, reg.DIV, reg.DVI, reg.MOD, reg.MDI,
		reg.AND, reg.BOR, reg.XOR, reg.SHR, reg.ASR, reg.SHL, reg.ADX, reg.SBX:
		return m.execBinop(ins, labels)
	case reg.IFB, reg.IFC, reg.IFE, reg.IFN, reg.IFG, reg.IFA, reg.IFL, reg.IFU:
		return m.execCond(ins, labels)
	case reg.STI:
		return m.execSetIncDec(ins, labels, 1)
	case reg.STD:
		return m.execSetIncDec(ins, labels, -1)
	case reg.JSR:
		return m.execJSR(ins, labels)
	case reg.DAT:
		return m.execDat(ins, labels)
	case reg.OUT:
		return m.execOut(ins, prog, labels)
	default:
		return &RuntimeError{fmt.Sprintf("unrecognised register opcode %s", reg.Mnemonic(ins.Op))}
	}
}

func (m *Machine) execSet(ins reg.Instruction, labels map[string]uint16) error {
	if ins.B.IsRegister() && ins.B.AsRegister() == reg.PC {
		target, err := m.resolveValue(ins.A, labels)
		if err != nil {
			return err
		}
		m.Regs[reg.PC] = target
		return nil
	}
	val, err := m.resolveValue(ins.A, labels)
	if err != nil {
		return err
	}
	return m.assign(ins.B, val, labels)
}

func (m *Machine) execSetIncDec(ins reg.Instruction, labels map[string]uint16, delta int16) error {
	val, err := m.resolveValue(ins.A, labels)
	if err != nil {
		return err
	}
	if err := m.assign(ins.B, val, labels); err != nil {
		return err
	}
	m.Regs[reg.I] += uint16(delta)
	m.Regs[reg.J] += uint16(delta)
	return nil
}

func (m *Machine) execJSR(ins reg.Instruction, labels map[string]uint16) error {
	target, err := m.resolveValue(ins.B, labels)
	if err != nil {
		return err
	}
	m.Regs[reg.SP]--
	m.Mem[m.Regs[reg.SP]] = m.Regs[reg.PC] + 1
	m.Regs[reg.PC] = target
	return nil
}

func (m *Machine) execDat(ins reg.Instruction, labels map[string]uint16) error {
	if ins.B.IsLiteral() && ins.B.AsLiteral() == 0 {
		m.terminate = true
	}
	return nil
}

func (m *Machine) execOut(ins reg.Instruction, prog reg.Program, labels map[string]uint16) error {
	if ins.B.IsLabel() {
		idx, ok := labels[ins.B.AsLabel()]
		if !ok {
			return &RuntimeError{"undefined label: " + ins.B.AsLabel()}
		}
		val, err := m.resolveValue(prog[idx].B, labels)
		if err != nil {
			return err
		}
		fmt.Fprintf(m.out, "%d\n", val)
		return nil
	}
	val, err := m.resolveValue(ins.B, labels)
	if err != nil {
		return err
	}
	fmt.Fprintf(m.out, "%d\n", val)
	return nil
}

// resolveValue resolves operand to its numeric value: literals are
// themselves, registers are read directly, array forms dereference memory
// at the inner operand's resolved value, sum forms add their two sides'
// resolved values, and bare labels resolve to the label's instruction
// index (used by branch targets and, indirectly, by OUT's label case).
func (m *Machine) resolveValue(o reg.Operand, labels map[string]uint16) (uint16, error) {
	switch {
	case o.IsLiteral():
		return o.AsLiteral(), nil
	case o.IsRegister():
		return m.Regs[o.AsRegister()], nil
	case o.IsArray():
		addr, err := m.resolveValue(o.Inner(), labels)
		if err != nil {
			return 0, err
		}
		return m.Mem[addr], nil
	case o.IsSum():
		left, right := o.SumParts()
		lv, err := m.resolveValue(left, labels)
		if err != nil {
			return 0, err
		}
		rv, err := m.resolveValue(right, labels)
		if err != nil {
			return 0, err
		}
		return lv + rv, nil
	case o.IsLabel():
		idx, ok := labels[o.AsLabel()]
		if !ok {
			return 0, &RuntimeError{"undefined label: " + o.AsLabel()}
		}
		return idx, nil
	default:
		return 0, &RuntimeError{"unresolvable operand"}
	}
}

// assign writes val to the destination operand: a register write, or a
// memory write through an array-form dereference.
func (m *Machine) assign(o reg.Operand, val uint16, labels map[string]uint16) error {
	switch {
	case o.IsRegister():
		m.Regs[o.AsRegister()] = val
		return nil
	case o.IsArray():
		addr, err := m.resolveValue(o.Inner(), labels)
		if err != nil {
			return err
		}
		m.Mem[addr] = val
		return nil
	default:
		return &RuntimeError{"invalid assignment target"}
	}
}
