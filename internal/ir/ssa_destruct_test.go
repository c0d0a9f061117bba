package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestSSARoundTrip exercises the §8 round-trip property: converting to SSA
// and back removes every phi and leaves the program's control-flow edges
// untouched.
func TestSSARoundTrip(t *testing.T) {
	cfg := buildLoopCFG(t)
	edgesBefore := map[CFGNode][]CFGNode{}
	for _, n := range cfg.Nodes() {
		edgesBefore[n] = cfg.Successors(n)
	}

	ConvertToSSA(cfg)
	hadAnyPhi := false
	for i := range cfg.Blocks {
		if _, ok := findPhi(&cfg.Blocks[i]); ok {
			hadAnyPhi = true
		}
	}
	assert.True(t, hadAnyPhi, "loop header should have gained a phi")

	ConvertFromSSA(cfg)
	for i := range cfg.Blocks {
		_, ok := findPhi(&cfg.Blocks[i])
		assert.False(t, ok, "block %q still has a phi after destruction", cfg.Blocks[i].Label)
	}

	for _, n := range cfg.Nodes() {
		assert.Equal(t, edgesBefore[n], cfg.Successors(n), "destruction must not change control-flow edges at %v", n)
	}
}

// TestConvertFromSSAInsertsCopyInEachPredecessor checks that each
// predecessor named in a phi's label list gets exactly one inserted copy
// feeding that phi's destination, placed before the predecessor's
// terminator.
func TestConvertFromSSAInsertsCopyInEachPredecessor(t *testing.T) {
	cfg := buildLoopCFG(t)
	ConvertToSSA(cfg)

	header := labelIndex(cfg, "header")
	phi, ok := findPhi(&cfg.Blocks[header])
	assert.True(t, ok)
	dest := phi.Dest

	ConvertFromSSA(cfg)

	for _, label := range phi.Labels {
		pred := &cfg.Blocks[findBlockByLabel(cfg, label)]
		copies := 0
		for i, instr := range pred.Instrs {
			if d, ok := instr.GetDest(); ok && d == dest {
				copies++
				assert.False(t, instr.IsTerminator())
				assert.True(t, i < len(pred.Instrs)-1, "copy must land before the predecessor's terminator")
			}
		}
		assert.Equal(t, 1, copies, "predecessor %q should have exactly one copy into %q", label, dest)
	}
}

// TestConvertFromSSAUndefinedSlotGetsDefaultConstant checks that an
// incoming phi slot with no reaching definition is destructed into a
// type-defaulted constant rather than a dangling reference.
func TestConvertFromSSAUndefinedSlotGetsDefaultConstant(t *testing.T) {
	phi := NewValue("x.1", intT(), OpPhi, []string{undefinedSentinel, "y.0"})
	phi.Labels = []string{"entry", "body"}
	cfg := &CFG{
		Blocks: []Block{
			{Label: "entry", Instrs: []Instruction{NewEffect(OpJump, []string{})}},
			{Label: "body", Instrs: []Instruction{
				NewConstant("y.0", intT(), IntLiteral(3)),
				phi,
				NewEffect(OpReturn, nil),
			}},
		},
	}
	cfg.Blocks[0].Instrs[0].Labels = []string{"body"}

	ConvertFromSSA(cfg)

	entryInstrs := cfg.Blocks[0].Instrs
	found := false
	for _, instr := range entryInstrs {
		if instr.Kind == IKConstant && instr.Dest == "x.1" {
			found = true
			assert.Equal(t, int64(0), instr.Literal.Int)
		}
	}
	assert.True(t, found, "undefined phi slot should destruct to a default constant in its predecessor")
}
