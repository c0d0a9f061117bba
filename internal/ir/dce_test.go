package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrivialDCERemovesUnusedDef(t *testing.T) {
	blocks := []Block{{Instrs: []Instruction{
		NewConstant("a", intT(), IntLiteral(1)),
		NewConstant("unused", intT(), IntLiteral(2)),
		NewEffect(OpPrint, []string{"a"}),
	}}}
	out := RunDCE(blocks)
	assert.Len(t, out[0].Instrs, 2)
	for _, instr := range out[0].Instrs {
		assert.NotEqual(t, "unused", instr.Dest)
	}
}

func TestTrivialDCEPreservesEffectInstructions(t *testing.T) {
	blocks := []Block{{Instrs: []Instruction{
		NewConstant("a", intT(), IntLiteral(1)),
		NewEffect(OpPrint, []string{"a"}),
	}}}
	out := RunDCE(blocks)
	assert.Len(t, out[0].Instrs, 2)
}

// TestLocalReassignmentDCEDropsDeadOverwrite exercises a write to a name
// that is overwritten again before any intervening read.
func TestLocalReassignmentDCEDropsDeadOverwrite(t *testing.T) {
	blocks := []Block{{Instrs: []Instruction{
		NewConstant("a", intT(), IntLiteral(1)),
		NewConstant("a", intT(), IntLiteral(2)),
		NewEffect(OpPrint, []string{"a"}),
	}}}
	out := RunDCE(blocks)
	assert.Len(t, out[0].Instrs, 2)
	assert.Equal(t, int64(2), out[0].Instrs[0].Literal.Int)
}

// TestRunDCEFixedPointChainsAcrossPasses exercises the two passes
// interacting: removing a's unused intermediate use exposes b as unused in
// turn, requiring a second trivialDCE iteration.
func TestRunDCEFixedPointChainsAcrossPasses(t *testing.T) {
	blocks := []Block{{Instrs: []Instruction{
		NewConstant("a", intT(), IntLiteral(1)),
		NewValue("b", intT(), OpAdd, []string{"a", "a"}),
		NewConstant("c", intT(), IntLiteral(5)),
		NewEffect(OpPrint, []string{"c"}),
	}}}
	out := RunDCE(blocks)
	assert.Len(t, out[0].Instrs, 2)
	assert.Equal(t, "c", out[0].Instrs[0].Dest)
}

func TestRunDCEIsIdempotentOnceConverged(t *testing.T) {
	blocks := []Block{{Instrs: []Instruction{
		NewConstant("c", intT(), IntLiteral(5)),
		NewEffect(OpPrint, []string{"c"}),
	}}}
	first := RunDCE(blocks)
	second := RunDCE(first)
	assert.Equal(t, first, second)
}
