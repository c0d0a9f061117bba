package ir

import (
	"sort"
)

// Phi records a not-yet-materialized φ node during SSA construction: the
// variable it joins, its type, and one incoming slot per predecessor label.
// Undefined is a dedicated flag slice (rather than the literal
// string "undefined" the source data uses) flagging slots with no reaching
// definition yet, per the Design Notes' recommendation against a magic
// string value the source language could itself produce.
type Phi struct {
	Canonical string
	Dest      string
	Type      Type
	// Labels is the sorted list of predecessor labels; LabelArgs holds the
	// incoming variable name for each, or "" with the matching entry in
	// Undefined set to true when no reaching definition exists yet.
	Labels    []string
	LabelArgs []string
	Undefined []bool
}

type variableStack struct {
	stack map[string][]string
}

func newVariableStack() *variableStack {
	return &variableStack{stack: map[string][]string{}}
}

func (s *variableStack) top(v string) (string, bool) {
	st := s.stack[v]
	if len(st) == 0 {
		return "", false
	}
	return st[len(st)-1], true
}

func (s *variableStack) push(v, name string) {
	s.stack[v] = append(s.stack[v], name)
}

func (s *variableStack) pop(v string, n int) {
	st := s.stack[v]
	if n > len(st) {
		n = len(st)
	}
	s.stack[v] = st[:len(st)-n]
}

// ssaBlockState holds, per block, the φs placed there (in recorded order)
// prior to materialization as instructions.
type ssaBlockState struct {
	phis []*Phi
}

// ConvertToSSA rewrites cfg in place into SSA form: every variable is
// defined exactly once, φ nodes join definitions at dominance frontiers, per
// §4.6. The CFG's Block(0) must be the entry and cfg.Args its formal
// parameters.
func ConvertToSSA(cfg *CFG) {
	dom := FindDominators(cfg)
	states := make([]ssaBlockState, len(cfg.Blocks))

	placePhiNodes(cfg, dom, states)

	stack := newVariableStack()
	counters := map[string]int{}
	rename(cfg, dom, states, BlockNode(0), stack, counters)

	materializePhis(cfg, states)
}

func variableType(cfg *CFG, v string) Type {
	for _, p := range cfg.Args {
		if p.Name == v {
			return p.Type
		}
	}
	for i := range cfg.Blocks {
		for j := range cfg.Blocks[i].Instrs {
			if d, ok := cfg.Blocks[i].Instrs[j].GetDest(); ok && d == v {
				if t, ok := cfg.Blocks[i].Instrs[j].GetType(); ok {
					return t
				}
			}
		}
	}
	return Type{Kind: TInt}
}

// placePhiNodes implements §4.6's φ-placement: starting from each
// variable's def set (function arguments count as defined at the entry),
// iteratively add a φ at every dominance-frontier node of a defining block
// that doesn't already have one, treating the newly-φ'd block as an
// additional def until fixed point. Variables are processed in reverse
// sort order for determinism; the final placement does not depend on it.
func placePhiNodes(cfg *CFG, dom *DominanceResult, states []ssaBlockState) {
	defs := cfg.Defs()

	vars := make([]string, 0, len(defs))
	for v := range defs {
		vars = append(vars, v)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(vars)))

	hasPhiAt := map[string]map[int]bool{}

	for _, v := range vars {
		defBlocks := defs[v]
		worklist := make([]int, 0, len(defBlocks))
		for b := range defBlocks {
			worklist = append(worklist, b)
		}
		hasPhiAt[v] = map[int]bool{}

		for len(worklist) > 0 {
			b := worklist[0]
			worklist = worklist[1:]
			for front := range dom.DominanceFrontier[BlockNode(b)] {
				if front.Kind != NodeBlock {
					continue
				}
				if hasPhiAt[v][front.Index] {
					continue
				}
				hasPhiAt[v][front.Index] = true

				preds := predecessorLabels(cfg, BlockNode(front.Index))
				phi := &Phi{
					Canonical: v,
					Type:      variableType(cfg, v),
					Labels:    preds,
					LabelArgs: make([]string, len(preds)),
					Undefined: make([]bool, len(preds)),
				}
				for i := range phi.Undefined {
					phi.Undefined[i] = true
				}
				states[front.Index].phis = append(states[front.Index].phis, phi)

				if !defBlocks[front.Index] {
					worklist = append(worklist, front.Index)
					defBlocks[front.Index] = true
				}
			}
		}
	}
}

func predecessorLabels(cfg *CFG, n CFGNode) []string {
	var labels []string
	for _, p := range cfg.Predecessors(n) {
		labels = append(labels, cfg.LabelOf(p))
	}
	sort.Strings(labels)
	return labels
}

// rename performs the dominator-tree-driven renaming pass of §4.6.
func rename(cfg *CFG, dom *DominanceResult, states []ssaBlockState, node CFGNode, stack *variableStack, counters map[string]int) {
	if node.Kind != NodeBlock {
		return
	}
	pushed := map[string]int{}
	fresh := func(v string) string {
		n := counters[v]
		counters[v] = n + 1
		name := v + "." + itoa(n)
		stack.push(v, name)
		pushed[v]++
		return name
	}

	state := &states[node.Index]
	for _, phi := range state.phis {
		phi.Dest = fresh(phi.Canonical)
	}

	block := &cfg.Blocks[node.Index]
	for i := range block.Instrs {
		instr := &block.Instrs[i]
		if args := instr.GetArgs(); args != nil {
			newArgs := make([]string, len(args))
			for j, a := range args {
				if top, ok := stack.top(a); ok {
					newArgs[j] = top
				} else {
					newArgs[j] = a
				}
			}
			instr.SetArgs(newArgs)
		}
		if d, ok := instr.GetDest(); ok {
			instr.SetDest(fresh(d))
		}
	}

	label := block.Label
	for _, succ := range cfg.Successors(node) {
		if succ.Kind != NodeBlock {
			continue
		}
		for _, phi := range states[succ.Index].phis {
			for i, l := range phi.Labels {
				if l == label {
					if top, ok := stack.top(phi.Canonical); ok {
						phi.LabelArgs[i] = top
						phi.Undefined[i] = false
					}
				}
			}
		}
	}

	for _, child := range dom.DominatorTree[node] {
		rename(cfg, dom, states, child, stack, counters)
	}

	for v, n := range pushed {
		stack.pop(v, n)
	}
}

// materializePhis inserts each block's φs as its first instructions, in the
// order they were recorded, using the IKValue/phi shape so printers and
// later passes treat them like any other value instruction.
func materializePhis(cfg *CFG, states []ssaBlockState) {
	for i := range cfg.Blocks {
		phis := states[i].phis
		if len(phis) == 0 {
			continue
		}
		materialized := make([]Instruction, 0, len(phis))
		for _, phi := range phis {
			args := make([]string, len(phi.LabelArgs))
			for j, a := range phi.LabelArgs {
				if phi.Undefined[j] {
					args[j] = undefinedSentinel
				} else {
					args[j] = a
				}
			}
			in := NewValue(phi.Dest, phi.Type, OpPhi, args)
			in.Labels = append([]string(nil), phi.Labels...)
			materialized = append(materialized, in)
		}
		cfg.Blocks[i].Instrs = append(materialized, cfg.Blocks[i].Instrs...)
	}
}

// undefinedSentinel is the textual form destruction recognizes as "no
// reaching definition" when a φ is printed to/parsed from the IR's textual
// form; internally the Undefined flag on Phi is authoritative.
const undefinedSentinel = "undefined"

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
