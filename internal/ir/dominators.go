package ir

import (
	"fmt"
	"sort"
)

// DominanceResult bundles the five maps described in §3: dominators,
// the inverse dominated-by relation, dominance frontiers, immediate
// dominators, and the dominator tree (as child lists keyed by parent).
type DominanceResult struct {
	Dominators        map[CFGNode]map[CFGNode]bool
	DominatedBy       map[CFGNode]map[CFGNode]bool
	DominanceFrontier map[CFGNode]map[CFGNode]bool
	ImmediateDom      map[CFGNode]CFGNode // absent (zero value unused) for the entry; check HasImmediateDominator
	hasImmDom         map[CFGNode]bool
	DominatorTree      map[CFGNode][]CFGNode
}

func (d *DominanceResult) HasImmediateDominator(n CFGNode) bool { return d.hasImmDom[n] }

// reachableOrder returns the nodes reachable from entry via a DFS
// post-order, reversed, which FindDominators uses as its iteration order
// (a valid reverse-postorder for a reducible CFG traversal).
func reachableOrder(cfg *CFG, entry CFGNode) []CFGNode {
	visited := map[CFGNode]bool{}
	var post []CFGNode
	var visit func(n CFGNode)
	visit = func(n CFGNode) {
		if visited[n] {
			return
		}
		visited[n] = true
		for _, s := range cfg.Successors(n) {
			visit(s)
		}
		post = append(post, n)
	}
	visit(entry)

	order := make([]CFGNode, len(post))
	for i, n := range post {
		order[len(post)-1-i] = n
	}
	return order
}

// FindDominators computes the dominance result for cfg rooted at Block(0),
// per the iterative fixed-point algorithm of §4.4.
func FindDominators(cfg *CFG) *DominanceResult {
	entry := BlockNode(0)
	all := cfg.Nodes()
	allSet := map[CFGNode]bool{}
	for _, n := range all {
		allSet[n] = true
	}

	order := reachableOrder(cfg, entry)
	reachable := map[CFGNode]bool{}
	for _, n := range order {
		reachable[n] = true
	}

	dom := map[CFGNode]map[CFGNode]bool{}
	for _, n := range all {
		if n == entry {
			dom[n] = map[CFGNode]bool{entry: true}
		} else {
			dom[n] = cloneSet(allSet)
		}
	}

	changed := true
	for changed {
		changed = false
		for _, n := range order {
			if n == entry {
				continue
			}
			preds := cfg.Predecessors(n)
			var merged map[CFGNode]bool
			for _, p := range preds {
				if !reachable[p] && p != entry {
					continue
				}
				if merged == nil {
					merged = cloneSet(dom[p])
				} else {
					merged = intersectSet(merged, dom[p])
				}
			}
			if merged == nil {
				merged = map[CFGNode]bool{}
			}
			merged[n] = true
			if !setsEqual(merged, dom[n]) {
				dom[n] = merged
				changed = true
			}
		}
	}

	dominatedBy := map[CFGNode]map[CFGNode]bool{}
	for _, n := range all {
		dominatedBy[n] = map[CFGNode]bool{}
	}
	for n, ds := range dom {
		for d := range ds {
			dominatedBy[d][n] = true
		}
	}

	result := &DominanceResult{
		Dominators:   dom,
		DominatedBy:  dominatedBy,
		ImmediateDom: map[CFGNode]CFGNode{},
		hasImmDom:    map[CFGNode]bool{},
		DominatorTree: map[CFGNode][]CFGNode{},
	}

	// Immediate dominator: the strict dominator d of n such that
	// dom(n) ∩ dominated_by[d] = {n, d}. Equivalently, since the strict
	// dominators of n form a chain under the subset order, it is the
	// strict dominator with the largest dominator set.
	for _, n := range order {
		if n == entry {
			continue
		}
		var best CFGNode
		found := false
		bestSize := -1
		for d := range dom[n] {
			if d == n {
				continue
			}
			if len(dom[d]) > bestSize {
				best = d
				bestSize = len(dom[d])
				found = true
			}
		}
		if found {
			result.ImmediateDom[n] = best
			result.hasImmDom[n] = true
			result.DominatorTree[best] = append(result.DominatorTree[best], n)
		}
	}
	for p := range result.DominatorTree {
		sort.Slice(result.DominatorTree[p], func(i, j int) bool {
			return nodeLess(result.DominatorTree[p][i], result.DominatorTree[p][j])
		})
	}

	// Dominance frontier: successors reachable from n's dominated subtree
	// that leave the strict subtree.
	frontier := map[CFGNode]map[CFGNode]bool{}
	for _, n := range all {
		frontier[n] = map[CFGNode]bool{}
	}
	for _, n := range all {
		for d := range dominatedBy[n] {
			for _, s := range cfg.Successors(d) {
				if !(dominatedBy[n][s] && s != n) {
					frontier[n][s] = true
				}
			}
		}
	}
	result.DominanceFrontier = frontier

	return result
}

func cloneSet(s map[CFGNode]bool) map[CFGNode]bool {
	out := make(map[CFGNode]bool, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

func intersectSet(a, b map[CFGNode]bool) map[CFGNode]bool {
	out := map[CFGNode]bool{}
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}

func setsEqual(a, b map[CFGNode]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}

func nodeLess(a, b CFGNode) bool {
	if a.Kind != b.Kind {
		return a.Kind < b.Kind
	}
	return a.Index < b.Index
}

// allSimplePaths enumerates every simple path from entry to target, used
// only by the optional self-check below. Exponential in the worst case —
// intentionally so; see §5, this is meant to be disabled in production.
func allSimplePaths(cfg *CFG, entry, target CFGNode) [][]CFGNode {
	var paths [][]CFGNode
	var walk func(cur CFGNode, visited map[CFGNode]bool, path []CFGNode)
	walk = func(cur CFGNode, visited map[CFGNode]bool, path []CFGNode) {
		path = append(path, cur)
		if cur == target {
			cp := make([]CFGNode, len(path))
			copy(cp, path)
			paths = append(paths, cp)
			return
		}
		for _, s := range cfg.Successors(cur) {
			if !visited[s] {
				visited2 := cloneSet(visited)
				visited2[s] = true
				walk(s, visited2, path)
			}
		}
	}
	walk(entry, map[CFGNode]bool{entry: true}, nil)
	return paths
}

// VerifyDominators re-derives dominance by brute-force path intersection
// and panics on any mismatch with result. This is the self-check of §4.4;
// it is quadratic-to-exponential. No cmd tool calls it; it runs only from
// the tests.
func VerifyDominators(cfg *CFG, result *DominanceResult) {
	entry := BlockNode(0)
	for _, n := range reachableOrder(cfg, entry) {
		paths := allSimplePaths(cfg, entry, n)
		if len(paths) == 0 {
			continue
		}
		var acc map[CFGNode]bool
		for _, p := range paths {
			set := map[CFGNode]bool{}
			for _, node := range p {
				set[node] = true
			}
			if acc == nil {
				acc = set
			} else {
				acc = intersectSet(acc, set)
			}
		}
		if !setsEqual(acc, result.Dominators[n]) {
			panic(fmt.Sprintf("dominator self-check failed at %s: got %v want %v", n, result.Dominators[n], acc))
		}
	}
}
