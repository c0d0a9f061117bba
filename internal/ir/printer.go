package ir

import (
	"fmt"
	"sort"
	"strings"
)

// Printer renders the IR's data model as text, in the same indent-and-
// builder style used throughout this codebase's other pretty-printers.
type Printer struct {
	indent int
	output strings.Builder
}

func NewPrinter() *Printer { return &Printer{} }

func (p *Printer) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.output.WriteString("  ")
	}
}

func (p *Printer) writeLine(format string, args ...interface{}) {
	p.writeIndent()
	p.output.WriteString(fmt.Sprintf(format, args...))
	p.output.WriteString("\n")
}

// PrintProgram renders every function in program as text.
func PrintProgram(program *Program) string {
	p := NewPrinter()
	for i, fn := range program.Functions {
		if i > 0 {
			p.output.WriteString("\n")
		}
		p.printFunction(&fn)
	}
	return p.output.String()
}

func (p *Printer) printFunction(fn *Function) {
	args := make([]string, len(fn.Args))
	for i, a := range fn.Args {
		args[i] = fmt.Sprintf("%s: %s", a.Name, a.Type.String())
	}
	ret := ""
	if fn.RetType != nil {
		ret = ": " + fn.RetType.String()
	}
	p.writeLine("@%s(%s)%s {", fn.Name, strings.Join(args, ", "), ret)
	p.indent++
	for _, item := range fn.Code {
		if item.IsLabel {
			p.writeLine(".%s:", item.Label)
			continue
		}
		p.printInstruction(&item.Instr)
	}
	p.indent--
	p.writeLine("}")
}

// PrintBlocks renders a function already split into basic blocks — the
// form the block-printer CLI tool prints.
func PrintBlocks(name string, blocks []Block) string {
	p := NewPrinter()
	p.writeLine("@%s {", name)
	p.indent++
	for _, b := range blocks {
		p.writeLine(".%s:", b.Label)
		p.indent++
		for i := range b.Instrs {
			p.printInstruction(&b.Instrs[i])
		}
		p.indent--
	}
	p.indent--
	p.writeLine("}")
	return p.output.String()
}

func (p *Printer) printInstruction(instr *Instruction) {
	switch instr.Kind {
	case IKConstant:
		p.writeLine("%s: %s = const %s;", instr.Dest, instr.Type.String(), instr.Literal.String())
	case IKValue:
		p.writeLine("%s: %s = %s;", instr.Dest, instr.Type.String(), operationText(instr))
	case IKEffect:
		p.writeLine("%s;", operationText(instr))
	}
}

func operationText(instr *Instruction) string {
	var parts []string
	parts = append(parts, string(instr.Op))
	parts = append(parts, instr.Args...)
	for _, f := range instr.Funcs {
		parts = append(parts, "@"+f)
	}
	for _, l := range instr.Labels {
		parts = append(parts, "."+l)
	}
	return strings.Join(parts, " ")
}

// PrintDataFlow renders a RunWorklist result in the in/out-per-block form
// the data-flow CLI tool prints, per §6.
func PrintDataFlow[T DataFlowDisplay](cfg *CFG, res DataFlowResult[T]) string {
	var sb strings.Builder
	for i := range cfg.Blocks {
		n := BlockNode(i)
		fmt.Fprintf(&sb, "[%s]\n", cfg.LabelOf(n))
		fmt.Fprintf(&sb, "   in:  %s\n", res.InMap[n].DisplayString(cfg))
		fmt.Fprintf(&sb, "   out: %s\n", res.OutMap[n].DisplayString(cfg))
	}
	return sb.String()
}

// PrintDominance renders the dominators, dominance frontier, immediate
// dominator, and dominator tree of a function, per the dominator tool's
// contract in §6.
func PrintDominance(cfg *CFG, dom *DominanceResult) string {
	var sb strings.Builder
	nodes := cfg.Nodes()

	fmt.Fprintf(&sb, "Dominators:\n")
	for _, n := range nodes {
		fmt.Fprintf(&sb, "  %s: %s\n", cfg.LabelOf(n), nodeSetString(cfg, dom.Dominators[n]))
	}

	fmt.Fprintf(&sb, "Dominance Frontier:\n")
	for _, n := range nodes {
		fmt.Fprintf(&sb, "  %s: %s\n", cfg.LabelOf(n), nodeSetString(cfg, dom.DominanceFrontier[n]))
	}

	fmt.Fprintf(&sb, "Immediate Dominator:\n")
	for _, n := range nodes {
		if id, ok := dom.ImmediateDom[n]; ok && dom.HasImmediateDominator(n) {
			fmt.Fprintf(&sb, "  %s: %s\n", cfg.LabelOf(n), cfg.LabelOf(id))
		} else {
			fmt.Fprintf(&sb, "  %s: (entry)\n", cfg.LabelOf(n))
		}
	}

	fmt.Fprintf(&sb, "Dominator Tree:\n")
	for _, n := range nodes {
		children := dom.DominatorTree[n]
		names := make([]string, len(children))
		for i, c := range children {
			names[i] = cfg.LabelOf(c)
		}
		fmt.Fprintf(&sb, "  %s -> [%s]\n", cfg.LabelOf(n), strings.Join(names, ", "))
	}

	return sb.String()
}

func nodeSetString(cfg *CFG, set map[CFGNode]bool) string {
	names := make([]string, 0, len(set))
	for n := range set {
		names = append(names, cfg.LabelOf(n))
	}
	sort.Strings(names)
	return "{" + strings.Join(names, ", ") + "}"
}
