package ir

import (
	"fmt"
	"sort"
	"strings"
)

// ReachingDef is a (variable, defining-block-index) pair: a definition that
// may reach a program point without an intervening redefinition.
type ReachingDef struct {
	Variable string
	Block    int
}

// ReachingDefs is the forward data-flow element of §4.3.1: a set of
// reaching definitions, joined by union, with a kill/gen transfer function.
type ReachingDefs map[ReachingDef]bool

func (r ReachingDefs) Meet(other ReachingDefs) ReachingDefs {
	out := ReachingDefs{}
	for d := range r {
		out[d] = true
	}
	for d := range other {
		out[d] = true
	}
	return out
}

// Transfer computes (in \ {d : d.Variable redefined in b}) ∪ {(v,b) : v
// defined in b}. The kill step must use the "not redefined" form — an
// earlier variant of this analysis inverted that condition and silently
// kept every incoming definition regardless of whether the block redefined
// its variable, which defeats reaching-definitions entirely.
func (r ReachingDefs) Transfer(block int, cfg *CFG) ReachingDefs {
	newDefs := map[string]bool{}
	for _, v := range cfg.Blocks[block].Defs() {
		newDefs[v] = true
	}

	out := ReachingDefs{}
	for d := range r {
		if !newDefs[d.Variable] {
			out[d] = true
		}
	}
	for v := range newDefs {
		out[ReachingDef{Variable: v, Block: block}] = true
	}
	return out
}

func (r ReachingDefs) Equal(other ReachingDefs) bool {
	if len(r) != len(other) {
		return false
	}
	for d := range r {
		if !other[d] {
			return false
		}
	}
	return true
}

func (r ReachingDefs) DisplayString(cfg *CFG) string {
	items := make([]string, 0, len(r))
	for d := range r {
		items = append(items, fmt.Sprintf("%s@%s", d.Variable, cfg.LabelOf(BlockNode(d.Block))))
	}
	sort.Strings(items)
	return "{" + strings.Join(items, ", ") + "}"
}

func ReachingDefsBottom() ReachingDefs { return ReachingDefs{} }

// LiveVars is the backward data-flow element of §4.3.2: the set of variable
// names that may be read before being redefined along some path forward
// from a program point.
type LiveVars map[string]bool

func (l LiveVars) Meet(other LiveVars) LiveVars {
	out := LiveVars{}
	for v := range l {
		out[v] = true
	}
	for v := range other {
		out[v] = true
	}
	return out
}

// Transfer computes (in \ defs(b)) ∪ uses(b), where uses(b) are the
// variables read before any local definition within the block.
func (l LiveVars) Transfer(block int, cfg *CFG) LiveVars {
	b := &cfg.Blocks[block]
	defs := map[string]bool{}
	for _, v := range b.Defs() {
		defs[v] = true
	}

	out := LiveVars{}
	for v := range l {
		if !defs[v] {
			out[v] = true
		}
	}
	for _, v := range b.Uses() {
		out[v] = true
	}
	return out
}

func (l LiveVars) Equal(other LiveVars) bool {
	if len(l) != len(other) {
		return false
	}
	for v := range l {
		if !other[v] {
			return false
		}
	}
	return true
}

func (l LiveVars) DisplayString(cfg *CFG) string {
	items := make([]string, 0, len(l))
	for v := range l {
		items = append(items, v)
	}
	sort.Strings(items)
	return "{" + strings.Join(items, ", ") + "}"
}

func LiveVarsBottom() LiveVars { return LiveVars{} }
