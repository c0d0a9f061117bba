package ir

// Direction selects whether a data-flow analysis propagates facts along
// edges (Forward) or against them (Backward).
type Direction int

const (
	Forward Direction = iota
	Backward
)

// Fact is the semilattice element a data-flow analysis computes over.
// Implementations must make Meet associative/commutative/idempotent and
// Transfer monotone with respect to it, so that RunWorklist terminates.
type Fact[T any] interface {
	Meet(other T) T
	Transfer(block int, cfg *CFG) T
	Equal(other T) bool
}

// DataFlowResult holds the fixed point of a worklist run: for every node,
// the facts entering it (InMap) and the facts leaving it (OutMap). Callers
// always read the two maps with this meaning regardless of direction — a
// backward analysis has InMap/OutMap swapped internally before returning.
type DataFlowResult[T any] struct {
	InMap  map[CFGNode]T
	OutMap map[CFGNode]T
}

// RunWorklist computes the data-flow fixed point described in §4.3: the
// worklist starts with every node; a popped node's input is the meet of its
// upstream neighbors' outputs (predecessors when Forward, successors when
// Backward); if applying Transfer changes its output, downstream neighbors
// are re-queued.
func RunWorklist[T Fact[T]](cfg *CFG, direction Direction, bottom func() T) DataFlowResult[T] {
	nodes := cfg.Nodes()

	upstream := cfg.Predecessors
	downstream := cfg.Successors
	if direction == Backward {
		upstream = cfg.Successors
		downstream = cfg.Predecessors
	}

	in := map[CFGNode]T{}
	out := map[CFGNode]T{}
	for _, n := range nodes {
		in[n] = bottom()
		out[n] = bottom()
	}

	worklist := append([]CFGNode(nil), nodes...)
	queued := map[CFGNode]bool{}
	for _, n := range nodes {
		queued[n] = true
	}

	for len(worklist) > 0 {
		n := worklist[0]
		worklist = worklist[1:]
		queued[n] = false

		merged := bottom()
		for _, p := range upstream(n) {
			merged = merged.Meet(out[p])
		}
		in[n] = merged

		if n.Kind != NodeBlock {
			continue
		}
		newOut := merged.Transfer(n.Index, cfg)
		if !newOut.Equal(out[n]) {
			out[n] = newOut
			for _, d := range downstream(n) {
				if !queued[d] {
					queued[d] = true
					worklist = append(worklist, d)
				}
			}
		}
	}

	if direction == Backward {
		return DataFlowResult[T]{InMap: out, OutMap: in}
	}
	return DataFlowResult[T]{InMap: in, OutMap: out}
}

// DataFlowDisplay lets a fact type render itself for the CLI printers
// without the data-flow engine itself depending on any presentation layer.
type DataFlowDisplay interface {
	DisplayString(cfg *CFG) string
}
