// Package driver implements the mixed-mode driver (§4.6): it runs a
// register program by lazily translating and caching sections (maximal
// label-free runs), executing their stack snippets on pkg/stackvm, and
// bridging register-level branches back into the next section.
//
// Grounded on _examples/original_source/convert_machine.cpp's get_snippet
// and run_reg — the more complete of the two driver iterations in the
// source (stackconvert_machine.cpp lacks the optimisation level, cache, and
// label-loop-detection this one has).
package driver

import (
	"io"
	"os"
	"time"

	"github.com/dcpu16/toytoolkit/pkg/optimize"
	"github.com/dcpu16/toytoolkit/pkg/reg"
	"github.com/dcpu16/toytoolkit/pkg/stack"
	"github.com/dcpu16/toytoolkit/pkg/stackvm"
	"github.com/dcpu16/toytoolkit/pkg/translate"
)

// Options configures a Driver.
type Options struct {
	SpeedLimit   bool
	CacheEnabled bool
	Optimize     int // 0, 1, or 2
	Output       io.Writer
	Tracer       stackvm.Tracer // optional: per-instruction trace/dump, -v 2/3
}

// Driver runs a register program in mixed mode.
type Driver struct {
	prog   reg.Program
	opts   Options
	labels map[string]uint16
	vm     *stackvm.Machine
	cache  *sectionCache
	Cost   int
}

// New builds a Driver for prog with the given options.
func New(prog reg.Program, opts Options) *Driver {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	vmOpts := []stackvm.Option{stackvm.WithOutput(opts.Output)}
	if opts.Tracer != nil {
		vmOpts = append(vmOpts, stackvm.WithTracer(opts.Tracer))
	}
	return &Driver{
		prog:   prog,
		opts:   opts,
		labels: indexRegLabels(prog),
		vm:     stackvm.New(vmOpts...),
		cache:  newSectionCache(),
	}
}

func indexRegLabels(prog reg.Program) map[string]uint16 {
	labels := make(map[string]uint16)
	for i, ins := range prog {
		if ins.Label != "" {
			labels[ins.Label] = uint16(i)
		}
	}
	return labels
}

// nextLabelAfter returns the index of the first instruction strictly after
// regPC whose label is non-empty, or len(prog) if none.
func (d *Driver) nextLabelAfter(regPC uint16) uint16 {
	for i := int(regPC) + 1; i < len(d.prog); i++ {
		if d.prog[i].Label != "" {
			return uint16(i)
		}
	}
	return uint16(len(d.prog))
}

// getSnippet returns the translated, (optionally) optimised stack program
// for the section starting at regPC, along with its length measured in
// register instructions, translating and caching on miss.
func (d *Driver) getSnippet(regPC uint16) (stack.Program, uint16, error) {
	if d.opts.CacheEnabled {
		if entry, ok := d.cache.get(regPC); ok {
			d.Cost++
			return entry.snippet, entry.length, nil
		}
	}

	nextLabel := d.nextLabelAfter(regPC)
	length := nextLabel - regPC
	d.Cost += int(length) * 10

	snippets := make([]stack.Program, 0, length)
	for i := regPC; i < nextLabel; i++ {
		snippet, err := translate.Snippet(d.prog[i])
		if err != nil {
			return nil, 0, err
		}
		snippets = append(snippets, snippet)
	}
	section := translate.Stitch(snippets)

	if d.opts.Optimize >= 1 {
		section = optimize.Peephole(section)
	}
	if d.opts.Optimize >= 2 {
		var err error
		section, err = optimize.Schedule(section)
		if err != nil {
			return nil, 0, err
		}
		section = optimize.Peephole(section)
	}

	if d.opts.CacheEnabled {
		d.cache.put(regPC, section, length)
	}
	return section, length, nil
}

// Run executes the whole register program in mixed mode.
func (d *Driver) Run() error {
	regPC := uint16(0)
	for int(regPC) < len(d.prog) {
		snippet, length, err := d.getSnippet(regPC)
		if err != nil {
			return err
		}

		start := time.Now()
		sectionLabel := ""
		if len(snippet) > 0 {
			sectionLabel = snippet[0].Label
		}

		var (
			pc        uint16
			skip      int
			breakOut  bool
			nextRegPC uint16
		)
		for pc < uint16(len(snippet)) {
			ins := snippet[pc]
			if skip > 0 {
				skip--
				pc++
				continue
			}

			// BRANCH carrying a Label operand names a register-program
			// label, never a stack-snippet-local one (§4.6: "register-level
			// labels are resolved via the register program"). Intercept it
			// here instead of delegating label resolution to the stack
			// executor, which only knows about labels local to one snippet.
			if ins.Op == stack.BRANCH && ins.Operand.IsLabel() {
				label := ins.Operand.AsLabel()
				if label == sectionLabel {
					pc = 0
					d.Cost += perInstructionCost(ins.Op)
					continue
				}
				targetRegPC, ok := d.labels[label]
				if !ok {
					return &Error{"undefined label: " + label}
				}
				nextRegPC = targetRegPC
				breakOut = true
				d.Cost += perInstructionCost(ins.Op)
				break
			}

			if d.opts.Tracer != nil {
				d.opts.Tracer.Debug2f("%s", ins)
			}
			newPC, err := d.vm.ExecOne(ins, pc, snippet, nil)
			if err != nil {
				return err
			}
			if d.opts.Tracer != nil {
				d.opts.Tracer.Debugf("%s", d.vm)
			}
			switch ins.Op {
			case stack.BRZERO:
				skip = int(newPC) - int(pc) - 1
				pc++
			case stack.BRANCH: // literal operand: skip forward like BRZERO
				skip = int(newPC) - int(pc) - 1
				pc++
			default:
				pc = newPC
			}
			d.Cost += perInstructionCost(ins.Op)
			if d.vm.Terminated() {
				break
			}
		}

		if d.opts.SpeedLimit {
			elapsed := time.Since(start)
			want := 100 * time.Millisecond * time.Duration(length)
			if elapsed < want {
				time.Sleep(want - elapsed)
			}
		}

		if d.vm.Terminated() {
			return nil
		}
		if breakOut {
			regPC = nextRegPC
		} else {
			regPC += length
		}
	}
	return nil
}

func perInstructionCost(op stack.Op) int {
	switch op {
	case stack.BRANCH, stack.BRZERO:
		return 2
	case stack.LOAD, stack.STORE:
		return 3
	default:
		return 1
	}
}

// Error is the driver's wrapper for an undefined register-level label
// lookup (§4.6: "the driver owns this lookup and may raise UndefinedLabel").
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }
