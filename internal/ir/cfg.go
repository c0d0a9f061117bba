package ir

import "fmt"

// CFGNodeKind distinguishes an ordinary block node from the synthetic
// Return sink every function's control flow eventually drains into.
type CFGNodeKind int

const (
	NodeBlock CFGNodeKind = iota
	NodeReturn
)

// CFGNode identifies a node in the control-flow graph: either Block(index)
// or the single synthetic Return sink.
type CFGNode struct {
	Kind  CFGNodeKind
	Index int // meaningful only when Kind == NodeBlock
}

func BlockNode(i int) CFGNode { return CFGNode{Kind: NodeBlock, Index: i} }

var ReturnNode = CFGNode{Kind: NodeReturn}

func (n CFGNode) String() string {
	if n.Kind == NodeReturn {
		return "return"
	}
	return fmt.Sprintf("block(%d)", n.Index)
}

// EdgeKind distinguishes an unconditional edge from the two halves of a
// branch.
type EdgeKind int

const (
	EdgeAlways EdgeKind = iota
	EdgeBoolTrue
	EdgeBoolFalse
)

type edgeEntry struct {
	to   CFGNode
	kind EdgeKind
}

// CFG is a directed graph over a function's blocks, built per §4.2: fall
// through is normalized into explicit jump/return instructions so that every
// edge in the graph corresponds to an explicit terminator in the block list.
type CFG struct {
	Blocks []Block
	Args   []Param

	succ map[CFGNode][]edgeEntry
	pred map[CFGNode][]CFGNode
}

// Successors returns the nodes reachable by one edge from n, in edge order
// (for a branch block: true-target then false-target).
func (c *CFG) Successors(n CFGNode) []CFGNode {
	var out []CFGNode
	for _, e := range c.succ[n] {
		out = append(out, e.to)
	}
	return out
}

// SuccessorEdges exposes the typed edges leaving n.
func (c *CFG) SuccessorEdges(n CFGNode) []edgeEntry { return c.succ[n] }

// Predecessors returns the nodes with an edge into n.
func (c *CFG) Predecessors(n CFGNode) []CFGNode {
	return c.pred[n]
}

// Nodes enumerates every block node followed by the Return sink.
func (c *CFG) Nodes() []CFGNode {
	nodes := make([]CFGNode, 0, len(c.Blocks)+1)
	for i := range c.Blocks {
		nodes = append(nodes, BlockNode(i))
	}
	nodes = append(nodes, ReturnNode)
	return nodes
}

func (c *CFG) addEdge(from, to CFGNode, kind EdgeKind) {
	c.succ[from] = append(c.succ[from], edgeEntry{to: to, kind: kind})
	c.pred[to] = append(c.pred[to], from)
}

// BuildCFG constructs the control-flow graph for a function's blocks,
// normalizing terminator-less trailing blocks per §4.2 and resolving every
// jump/branch label to a block index. An unresolved label is a fatal
// construction error (§7.2).
func BuildCFG(blocks []Block, args []Param) (*CFG, error) {
	labelIndex := map[string]int{}
	for i := range blocks {
		labelIndex[blocks[i].Label] = i
	}
	resolve := func(label string) (int, error) {
		idx, ok := labelIndex[label]
		if !ok {
			return 0, fmt.Errorf("unresolved label %q", label)
		}
		return idx, nil
	}

	cfg := &CFG{
		Blocks: blocks,
		Args:   args,
		succ:   map[CFGNode][]edgeEntry{},
		pred:   map[CFGNode][]CFGNode{},
	}

	for i := range cfg.Blocks {
		b := &cfg.Blocks[i]
		var last *Instruction
		if len(b.Instrs) > 0 {
			last = &b.Instrs[len(b.Instrs)-1]
		}

		switch {
		case last != nil && last.Kind == IKEffect && last.Op == OpReturn:
			cfg.addEdge(BlockNode(i), ReturnNode, EdgeAlways)

		case last != nil && last.Kind == IKEffect && last.Op == OpJump:
			target, err := resolve(last.Labels[0])
			if err != nil {
				return nil, fmt.Errorf("block %q: %w", b.Label, err)
			}
			cfg.addEdge(BlockNode(i), BlockNode(target), EdgeAlways)

		case last != nil && last.Kind == IKEffect && last.Op == OpBranch:
			if len(last.Labels) != 2 {
				return nil, fmt.Errorf("block %q: branch requires two labels", b.Label)
			}
			tTrue, err := resolve(last.Labels[0])
			if err != nil {
				return nil, fmt.Errorf("block %q: %w", b.Label, err)
			}
			tFalse, err := resolve(last.Labels[1])
			if err != nil {
				return nil, fmt.Errorf("block %q: %w", b.Label, err)
			}
			cfg.addEdge(BlockNode(i), BlockNode(tTrue), EdgeBoolTrue)
			cfg.addEdge(BlockNode(i), BlockNode(tFalse), EdgeBoolFalse)

		default:
			if i+1 < len(cfg.Blocks) {
				next := cfg.Blocks[i+1].Label
				b.Instrs = append(b.Instrs, NewEffect(OpJump, nil))
				b.Instrs[len(b.Instrs)-1].Labels = []string{next}
				cfg.addEdge(BlockNode(i), BlockNode(i+1), EdgeAlways)
			} else {
				b.Instrs = append(b.Instrs, NewEffect(OpReturn, nil))
				cfg.addEdge(BlockNode(i), ReturnNode, EdgeAlways)
			}
		}
	}

	return cfg, nil
}

// LabelOf returns the textual label identifying node n: a block's label, or
// "return" for the synthetic sink.
func (c *CFG) LabelOf(n CFGNode) string {
	if n.Kind == NodeReturn {
		return "return"
	}
	return c.Blocks[n.Index].Label
}

// Defs returns, for each variable defined anywhere in the function, the set
// of block indices that define it. Function arguments are treated as
// defined at the entry block (index 0), per §4.6.
func (c *CFG) Defs() map[string]map[int]bool {
	defs := map[string]map[int]bool{}
	add := func(v string, b int) {
		if defs[v] == nil {
			defs[v] = map[int]bool{}
		}
		defs[v][b] = true
	}
	for _, p := range c.Args {
		add(p.Name, 0)
	}
	for i := range c.Blocks {
		for _, v := range c.Blocks[i].Defs() {
			add(v, i)
		}
	}
	return defs
}
