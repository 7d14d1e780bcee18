package stackvm

import (
	"fmt"
	"io"
	"os"

	"github.com/dcpu16/toytoolkit/pkg/stack"
)

// Option configures a Machine at construction.
type Option func(*Machine)

// WithOutput redirects OUT's target stream (defaults to os.Stdout).
func WithOutput(w io.Writer) Option {
	return func(m *Machine) { m.out = w }
}

// WithTracer attaches a Tracer: Run logs a trace line before each
// instruction (Debug2, -v 3) and a state dump after it (Debug, -v 2).
func WithTracer(t Tracer) Option {
	return func(m *Machine) { m.tracer = t }
}

// Run executes prog from PC 0 until STOP or the program is exhausted.
// Labels in prog (if any survive into this standalone-execution path) are
// resolved once up front.
func (m *Machine) Run(prog stack.Program) error {
	if m.out == nil {
		m.out = os.Stdout
	}
	labels := indexLabels(prog)
	for !m.terminate && m.PC < uint16(len(prog)) {
		ins := prog[m.PC]
		if m.tracer != nil {
			m.tracer.Debug2f("%s", ins)
		}
		newPC, err := m.execOne(ins, m.PC, prog, labels)
		if err != nil {
			return err
		}
		m.PC = newPC
		if m.tracer != nil {
			m.tracer.Debugf("%s", m)
		}
	}
	return nil
}

func indexLabels(prog stack.Program) map[string]uint16 {
	labels := make(map[string]uint16)
	for i, ins := range prog {
		if ins.Label != "" {
			labels[ins.Label] = uint16(i)
		}
	}
	return labels
}

// ExecOne executes exactly one instruction at pc against prog (used by the
// mixed-mode driver, which applies its own skip/loop post-processing on top
// of the returned next-PC rather than letting Run own control flow).
func (m *Machine) ExecOne(ins stack.Instruction, pc uint16, prog stack.Program, labels map[string]uint16) (uint16, error) {
	if m.out == nil {
		m.out = os.Stdout
	}
	return m.execOne(ins, pc, prog, labels)
}

func (m *Machine) execOne(ins stack.Instruction, pc uint16, prog stack.Program, labels map[string]uint16) (uint16, error) {
	next := pc + 1
	switch ins.Op {
	case stack.SET:
		lit, err := operandValue(ins.Operand, labels)
		if err != nil {
			return 0, err
		}
		m.push(lit)
	case stack.LOAD:
		addr, err := m.pop()
		if err != nil {
			return 0, err
		}
		m.push(m.load(addr))
	case stack.STORE:
		addr, err := m.pop()
		if err != nil {
			return 0, err
		}
		val, err := m.pop()
		if err != nil {
			return 0, err
		}
		m.store(addr, val)
	case stack.DROP:
		if _, err := m.pop(); err != nil {
			return 0, err
		}
	case stack.DUP:
		v, err := m.top()
		if err != nil {
			return 0, err
		}
		m.push(v)
	case stack.SWAP:
		a, err := m.pop()
		if err != nil {
			return 0, err
		}
		b, err := m.pop()
		if err != nil {
			return 0, err
		}
		m.push(a)
		m.push(b)
	case stack.TUCK2: // a b -> b a b
		a, err := m.pop()
		if err != nil {
			return 0, err
		}
		b, err := m.pop()
		if err != nil {
			return 0, err
		}
		m.push(a)
		m.push(b)
		m.push(a)
	case stack.TUCK3: // a b c -> c a b c
		c, err := m.pop()
		if err != nil {
			return 0, err
		}
		b, err := m.pop()
		if err != nil {
			return 0, err
		}
		a, err := m.pop()
		if err != nil {
			return 0, err
		}
		m.push(c)
		m.push(a)
		m.push(b)
		m.push(c)
	case stack.RSD3: // a b c -> b c a  (rotate-down)
		c, err := m.pop()
		if err != nil {
			return 0, err
		}
		b, err := m.pop()
		if err != nil {
			return 0, err
		}
		a, err := m.pop()
		if err != nil {
			return 0, err
		}
		m.push(b)
		m.push(c)
		m.push(a)
	case stack.RSU3: // a b c -> c a b  (rotate-up)
		c, err := m.pop()
		if err != nil {
			return 0, err
		}
		b, err := m.pop()
		if err != nil {
			return 0, err
		}
		a, err := m.pop()
		if err != nil {
			return 0, err
		}
		m.push(c)
		m.push(a)
		m.push(b)
	case stack.COPY3: // a b c -> a b c a
		c, err := m.pop()
		if err != nil {
			return 0, err
		}
		b, err := m.pop()
		if err != nil {
			return 0, err
		}
		a, err := m.pop()
		if err != nil {
			return 0, err
		}
		m.push(a)
		m.push(b)
		m.push(c)
		m.push(a)
	case stack.ADD, stack.SUB, stack.AND, stack.OR, stack.XOR, stack.SHR, stack.SHL:
		a, err := m.pop()
		if err != nil {
			return 0, err
		}
		b, err := m.pop()
		if err != nil {
			return 0, err
		}
		m.push(binop(ins.Op, b, a))
	case stack.NOT:
		v, err := m.pop()
		if err != nil {
			return 0, err
		}
		m.push(^v)
	case stack.INC:
		idx := len(m.Stack) - 1
		if idx < 0 {
			return 0, &RuntimeError{"stack underflow"}
		}
		m.Stack[idx]++
	case stack.DEC:
		idx := len(m.Stack) - 1
		if idx < 0 {
			return 0, &RuntimeError{"stack underflow"}
		}
		m.Stack[idx]--
	case stack.TGT, stack.TLT, stack.TEQ:
		top, err := m.peekAt(0)
		if err != nil {
			return 0, err
		}
		nextVal, err := m.peekAt(1)
		if err != nil {
			return 0, err
		}
		m.SetZero(testPredicate(ins.Op, top, nextVal))
	case stack.TSZ:
		top, err := m.top()
		if err != nil {
			return 0, err
		}
		m.SetZero(top == 0)
	case stack.BRANCH:
		target, err := branchTarget(ins.Operand, pc, labels)
		if err != nil {
			return 0, err
		}
		return target, nil
	case stack.BRZERO:
		if m.Zero() {
			m.SetZero(false)
			target, err := branchTarget(ins.Operand, pc, labels)
			if err != nil {
				return 0, err
			}
			return target, nil
		}
	case stack.STOP:
		m.terminate = true
	case stack.OUT:
		v, err := m.top()
		if err != nil {
			return 0, err
		}
		fmt.Fprintf(m.out, "%d\n", v)
	case stack.SSET:
		lit, err := operandValue(ins.Operand, labels)
		if err != nil {
			return 0, err
		}
		m.push(lit)
	case stack.IBRANCH:
		target, err := branchTarget(ins.Operand, pc, labels)
		if err != nil {
			return 0, err
		}
		return target, nil
	case stack.CALL:
		m.push(pc + 1)
		target, err := branchTarget(ins.Operand, pc, labels)
		if err != nil {
			return 0, err
		}
		return target, nil
	case stack.RETURN:
		target, err := m.pop()
		if err != nil {
			return 0, err
		}
		return target, nil
	case stack.PUSH:
		v, err := m.top()
		if err != nil {
			return 0, err
		}
		m.push(v)
	case stack.POP:
		if _, err := m.pop(); err != nil {
			return 0, err
		}
	default:
		return 0, &RuntimeError{"unrecognised stack opcode"}
	}
	return next, nil
}

func binop(op stack.Op, b, a uint16) uint16 {
	switch op {
	case stack.ADD:
		return b + a
	case stack.SUB:
		return b - a
	case stack.AND:
		return b & a
	case stack.OR:
		return b | a
	case stack.XOR:
		return b ^ a
	case stack.SHR:
		return b >> a
	case stack.SHL:
		return b << a
	}
	return 0
}

func testPredicate(op stack.Op, top, next uint16) bool {
	switch op {
	case stack.TGT:
		return top > next
	case stack.TLT:
		return top < next
	case stack.TEQ:
		return top == next
	}
	return false
}

func operandValue(o stack.Operand, labels map[string]uint16) (uint16, error) {
	switch {
	case o.IsLiteral():
		return o.AsLiteral(), nil
	case o.IsLabel():
		addr, ok := labels[o.AsLabel()]
		if !ok {
			return 0, &RuntimeError{"undefined label: " + o.AsLabel()}
		}
		return addr, nil
	default:
		return 0, &RuntimeError{"missing operand"}
	}
}

func branchTarget(o stack.Operand, pc uint16, labels map[string]uint16) (uint16, error) {
	switch {
	case o.IsLiteral():
		return pc + o.AsLiteral(), nil
	case o.IsLabel():
		addr, ok := labels[o.AsLabel()]
		if !ok {
			return 0, &RuntimeError{"undefined label: " + o.AsLabel()}
		}
		return addr, nil
	default:
		return 0, &RuntimeError{"missing operand for branch"}
	}
}
