package regvm

import "github.com/dcpu16/toytoolkit/pkg/reg"

// execBinop runs one of the arithmetic/logic opcodes against b (read-modify-
// write destination) and a (source), setting EX per the numeric semantics
// of §4.8.
func (m *Machine) execBinop(ins reg.Instruction, labels map[string]uint16) error {
	bVal, err := m.resolveValue(ins.B, labels)
	if err != nil {
		return err
	}
	aVal, err := m.resolveValue(ins.A, labels)
	if err != nil {
		return err
	}

	var result, ex uint16
	switch ins.Op {
	case reg.ADD:
		sum := uint32(bVal) + uint32(aVal)
		result = uint16(sum)
		if sum > 0xFFFF {
			ex = 1
		}
	case reg.SUB:
		diff := int32(bVal) - int32(aVal)
		result = uint16(diff)
		if diff < 0 {
			ex = 1
		}
	case reg.MUL:
		prod := uint32(bVal) * uint32(aVal)
		result = uint16(prod)
		ex = uint16(prod >> 16)
	case reg.MLI:
		prod := int32(int16(bVal)) * int32(int16(aVal))
		result = uint16(prod)
		ex = uint16(uint32(prod) >> 16)
	case reg.DIV:
		if aVal == 0 {
			result, ex = 0, 0
		} else {
			result = bVal / aVal
			ex = uint16((uint32(bVal) << 16) / uint32(aVal))
		}
	case reg.DVI:
		if aVal == 0 {
			result, ex = 0, 0
		} else {
			result = uint16(int16(bVal) / int16(aVal))
			ex = uint16((uint32(bVal) << 16) / uint32(aVal))
		}
	case reg.MOD:
		if aVal == 0 {
			result = 0
		} else {
			result = bVal % aVal
		}
		ex = m.Regs[reg.EX]
	case reg.MDI:
		if aVal == 0 {
			result = 0
		} else {
			result = uint16(int16(bVal) % int16(aVal))
		}
		ex = m.Regs[reg.EX]
	case reg.AND:
		result = bVal & aVal
		ex = m.Regs[reg.EX]
	case reg.BOR:
		result = bVal | aVal
		ex = m.Regs[reg.EX]
	case reg.XOR:
		result = bVal ^ aVal
		ex = m.Regs[reg.EX]
	case reg.SHR:
		result = bVal >> aVal
		ex = uint16((uint32(bVal) << 16) >> aVal)
	case reg.ASR:
		result = uint16(int16(bVal) >> aVal)
		ex = uint16((uint32(uint16(int16(bVal))) << 16) >> aVal)
	case reg.SHL:
		wide := uint32(bVal) << aVal
		result = uint16(wide)
		ex = uint16(wide >> 16)
	case reg.ADX:
		sum := uint32(bVal) + uint32(aVal) + uint32(m.Regs[reg.EX])
		result = uint16(sum)
		if sum > 0xFFFF {
			ex = 1
		}
	case reg.SBX:
		diff := int64(bVal) - int64(aVal) + int64(int16(m.Regs[reg.EX]))
		result = uint16(diff)
		if diff < 0 {
			ex = 0xFFFF
		}
	}

	if err := m.assign(ins.B, result, labels); err != nil {
		return err
	}
	m.Regs[reg.EX] = ex
	return nil
}
