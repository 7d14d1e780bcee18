// Package translate implements the core of the system: the per-instruction
// snippet translator (register IR → stack IR) and the stitcher that
// back-patches the placeholder branch offsets the translator emits.
//
// Grounded on _examples/original_source/register_convert.cpp
// (address_on_stack/value_on_stack/index_on_stack and the per-opcode
// snippet functions), generalised to the Go Operand sum type in pkg/reg
// and pkg/stack instead of boost::variant dispatch.
package translate

import (
	"github.com/dcpu16/toytoolkit/pkg/reg"
	"github.com/dcpu16/toytoolkit/pkg/stack"
)

// AddressOnStack emits the stack instructions that leave the address to
// read or write for operand on top of the data stack.
func AddressOnStack(operand reg.Operand) (stack.Program, error) {
	switch {
	case operand.IsRegister():
		return stack.Program{stack.MakeOperand(stack.SET, stack.Literal(reg.RegAddr(operand.AsRegister())))}, nil
	case operand.IsLiteral():
		return stack.Program{stack.MakeOperand(stack.SET, stack.Literal(operand.AsLiteral()))}, nil
	case operand.IsArray():
		return indexOnStack(operand.Inner())
	default:
		return nil, errf("", "attempted to load a label onto the stack: %s", operand)
	}
}

// indexOnStack emits the stack instructions that leave the effective
// address of an array-dereference operand `[inner]` on top of the stack.
func indexOnStack(inner reg.Operand) (stack.Program, error) {
	switch {
	case inner.IsRegister():
		return stack.Program{
			stack.MakeOperand(stack.SET, stack.Literal(reg.RegAddr(inner.AsRegister()))),
			stack.Make(stack.LOAD),
		}, nil
	case inner.IsLiteral():
		return stack.Program{stack.MakeOperand(stack.SET, stack.Literal(inner.AsLiteral()))}, nil
	case inner.IsSum():
		left, right := inner.SumParts()
		lp, err := ValueOnStack(left)
		if err != nil {
			return nil, err
		}
		rp, err := ValueOnStack(right)
		if err != nil {
			return nil, err
		}
		out := append(stack.Program{}, lp...)
		out = append(out, rp...)
		out = append(out, stack.Make(stack.ADD))
		return out, nil
	default:
		return nil, errf("", "unsupported array operand shape: [%s]", inner)
	}
}

// ValueOnStack emits the stack instructions that leave operand's resolved
// value (not its address) on top of the stack: AddressOnStack, followed by
// a LOAD unless the operand was a bare literal (whose address is already
// its value).
func ValueOnStack(operand reg.Operand) (stack.Program, error) {
	addr, err := AddressOnStack(operand)
	if err != nil {
		return nil, err
	}
	if operand.IsLiteral() {
		return addr, nil
	}
	return append(addr, stack.Make(stack.LOAD)), nil
}

// Snippet translates one register instruction into a stack snippet. A
// label carried by ins is propagated onto the first instruction of the
// result.
func Snippet(ins reg.Instruction) (stack.Program, error) {
	var (
		out stack.Program
		err error
	)
	switch ins.Op {
	case reg.SET:
		out, err = setSnippet(ins)
	case reg.ADD:
		out, err = addSubSnippet(ins, stack.ADD)
	case reg.SUB:
		out, err = addSubSnippet(ins, stack.SUB)
	case reg.OUT:
		out, err = outSnippet(ins)
	case reg.IFN:
		out, err = ifSnippet(ins, stack.TEQ, true)
	case reg.IFE:
		out, err = ifSnippet(ins, stack.TEQ, false)
	case reg.IFG:
		out, err = ifSnippet(ins, stack.TGT, false)
	case reg.IFL:
		out, err = ifSnippet(ins, stack.TLT, false)
	default:
		return nil, errf(reg.Mnemonic(ins.Op), "unimplemented conversion of register opcode")
	}
	if err != nil {
		return nil, err
	}
	if ins.Label != "" && len(out) > 0 {
		out[0].Label = ins.Label
	}
	return out, nil
}

func setSnippet(ins reg.Instruction) (stack.Program, error) {
	if ins.B.IsRegister() && ins.B.AsRegister() == reg.PC {
		if ins.A.IsLabel() {
			return stack.Program{stack.MakeOperand(stack.BRANCH, stack.Label(ins.A.AsLabel()))}, nil
		}
		if ins.A.IsRegister() && ins.A.AsRegister() == reg.PC {
			return stack.Program{stack.Make(stack.STOP)}, nil
		}
	}
	if ins.B.IsLiteral() {
		return stack.Program{}, nil
	}
	val, err := ValueOnStack(ins.A)
	if err != nil {
		return nil, err
	}
	addr, err := AddressOnStack(ins.B)
	if err != nil {
		return nil, err
	}
	out := append(stack.Program{}, val...)
	out = append(out, addr...)
	out = append(out, stack.Make(stack.STORE))
	return out, nil
}

func addSubSnippet(ins reg.Instruction, op stack.Op) (stack.Program, error) {
	if ins.B.IsLiteral() {
		return stack.Program{}, nil
	}
	vb, err := ValueOnStack(ins.B)
	if err != nil {
		return nil, err
	}
	va, err := ValueOnStack(ins.A)
	if err != nil {
		return nil, err
	}
	addr, err := AddressOnStack(ins.B)
	if err != nil {
		return nil, err
	}
	out := append(stack.Program{}, vb...)
	out = append(out, va...)
	out = append(out, stack.Make(op))
	out = append(out, addr...)
	out = append(out, stack.Make(stack.STORE))
	return out, nil
}

func outSnippet(ins reg.Instruction) (stack.Program, error) {
	val, err := ValueOnStack(ins.B)
	if err != nil {
		return nil, err
	}
	out := append(stack.Program{}, val...)
	out = append(out, stack.Make(stack.OUT), stack.Make(stack.DROP))
	return out, nil
}

// ifSnippet builds the snippet for an IF-family opcode: compare a then b
// (TGT/TLT compare top vs next, so operand order is a then b per §4.1),
// drop both operands, then branch past the following register instruction
// when the predicate is false.
//
// invert selects between two equivalent branch shapes the translator uses:
// IFN emits a single placeholder BRZERO (the predicate already being the
// negation the executor wants); IFE/IFG/IFL emit BRZERO 2 followed by a
// placeholder BRANCH, skipping the BRANCH when the test held.
func ifSnippet(ins reg.Instruction, test stack.Op, invert bool) (stack.Program, error) {
	va, err := ValueOnStack(ins.A)
	if err != nil {
		return nil, err
	}
	vb, err := ValueOnStack(ins.B)
	if err != nil {
		return nil, err
	}
	out := append(stack.Program{}, va...)
	out = append(out, vb...)
	out = append(out, stack.Make(test), stack.Make(stack.DROP), stack.Make(stack.DROP))
	if invert {
		out = append(out, stack.MakeOperand(stack.BRZERO, stack.Placeholder()))
		return out, nil
	}
	out = append(out, stack.MakeOperand(stack.BRZERO, stack.Literal(2)))
	out = append(out, stack.MakeOperand(stack.BRANCH, stack.Placeholder()))
	return out, nil
}
