package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// buildLoopCFG builds a one-variable loop: entry defines x, the loop header
// branches on a condition to body (which redefines x and jumps back to
// header) or to exit. This matches scenario 6 of §8: a phi at the loop
// header with one incoming edge from entry and one from body.
func buildLoopCFG(t *testing.T) *CFG {
	t.Helper()
	branchHeader := NewEffect(OpBranch, []string{"cond"})
	branchHeader.Labels = []string{"body", "exit"}
	jumpBody := NewEffect(OpJump, nil)
	jumpBody.Labels = []string{"header"}

	code := []CodeItem{
		Lbl("entry"),
		Instr(NewConstant("x", intT(), IntLiteral(0))),
		Instr(NewEffect(OpJump, []string{})),
	}
	code[2].Instr.Labels = []string{"header"}
	code = append(code,
		Lbl("header"),
		Instr(NewConstant("cond", Type{Kind: TBool}, BoolLiteral(true))),
		Instr(branchHeader),
		Lbl("body"),
		Instr(NewValue("x", intT(), OpAdd, []string{"x", "x"})),
		Instr(jumpBody),
		Lbl("exit"),
		Instr(NewEffect(OpReturn, nil)),
	)

	blocks := FormBlocks(code)
	cfg, err := BuildCFG(blocks, nil)
	assert.NoError(t, err)
	return cfg
}

func findPhi(block *Block) (*Instruction, bool) {
	for i := range block.Instrs {
		if block.Instrs[i].Kind == IKValue && block.Instrs[i].Op == OpPhi {
			return &block.Instrs[i], true
		}
	}
	return nil, false
}

func TestConvertToSSAPlacesPhiAtLoopHeader(t *testing.T) {
	cfg := buildLoopCFG(t)
	ConvertToSSA(cfg)

	header := labelIndex(cfg, "header")
	phi, ok := findPhi(&cfg.Blocks[header])
	if assert.True(t, ok, "expected a phi at the loop header") {
		assert.Len(t, phi.Labels, 2)
		assert.Len(t, phi.Args, 2)
		for _, a := range phi.Args {
			assert.NotEqual(t, "", a)
		}
	}
}

func TestConvertToSSAGivesEveryVariableExactlyOneStaticDef(t *testing.T) {
	cfg := buildLoopCFG(t)
	ConvertToSSA(cfg)

	defCount := map[string]int{}
	for i := range cfg.Blocks {
		for j := range cfg.Blocks[i].Instrs {
			if d, ok := cfg.Blocks[i].Instrs[j].GetDest(); ok {
				defCount[d]++
			}
		}
	}
	for name, count := range defCount {
		assert.Equal(t, 1, count, "variable %q defined %d times, expected exactly once under SSA", name, count)
	}
}

func TestConvertToSSAEntryArgHasNoPhi(t *testing.T) {
	cfg := buildLoopCFG(t)
	cfg.Args = []Param{{Name: "p", Type: intT()}}
	ConvertToSSA(cfg)

	entry := labelIndex(cfg, "entry")
	_, hasPhi := findPhi(&cfg.Blocks[entry])
	assert.False(t, hasPhi, "the entry block should never need a phi for a parameter")
}

func TestConvertToSSADiamondMergesBothBranches(t *testing.T) {
	cfg := buildDiamondCFG(t)
	code := FlattenBlocks(cfg.Blocks)

	// Extend the diamond so both "b" and "c" define the same variable,
	// forcing a phi at the merge point "d".
	var rebuilt []CodeItem
	for _, item := range code {
		rebuilt = append(rebuilt, item)
		if item.IsLabel && item.Label == "b" {
			rebuilt = append(rebuilt, Instr(NewConstant("v", intT(), IntLiteral(1))))
		}
		if item.IsLabel && item.Label == "c" {
			rebuilt = append(rebuilt, Instr(NewConstant("v", intT(), IntLiteral(2))))
		}
	}
	blocks := FormBlocks(rebuilt)
	rebuiltCFG, err := BuildCFG(blocks, nil)
	assert.NoError(t, err)

	ConvertToSSA(rebuiltCFG)
	d := labelIndex(rebuiltCFG, "d")
	phi, ok := findPhi(&rebuiltCFG.Blocks[d])
	if assert.True(t, ok) {
		assert.ElementsMatch(t, []string{"b", "c"}, phi.Labels)
	}
}
