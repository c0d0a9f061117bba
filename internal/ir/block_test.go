package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormBlocksSealsOnLabelAndTerminator(t *testing.T) {
	code := []CodeItem{
		Instr(NewConstant("x", Type{Kind: TInt}, IntLiteral(1))),
		Instr(NewValue("y", Type{Kind: TInt}, OpAdd, []string{"x", "x"})),
		Lbl("done"),
		Instr(NewEffect(OpReturn, nil)),
	}

	blocks := FormBlocks(code)

	if assert.Len(t, blocks, 2) {
		assert.Equal(t, "anon_block_0", blocks[0].Label)
		assert.Len(t, blocks[0].Instrs, 2)
		assert.Equal(t, "done", blocks[1].Label)
		assert.Len(t, blocks[1].Instrs, 1)
	}
}

func TestFormBlocksFreshLabelAvoidsCollision(t *testing.T) {
	code := []CodeItem{
		Instr(NewConstant("x", Type{Kind: TInt}, IntLiteral(1))),
		Instr(NewEffect(OpJump, []string{})),
		Lbl("anon_block_0"),
		Instr(NewEffect(OpReturn, nil)),
	}
	code[1].Instr.Labels = []string{"anon_block_0"}

	blocks := FormBlocks(code)

	if assert.Len(t, blocks, 2) {
		assert.Equal(t, "anon_block_1", blocks[0].Label)
		assert.Equal(t, "anon_block_0", blocks[1].Label)
	}
}

func TestFormBlocksDiscardsEmptyTrailingBlock(t *testing.T) {
	code := []CodeItem{
		Lbl("entry"),
		Instr(NewEffect(OpReturn, nil)),
		Lbl("dangling"),
	}

	blocks := FormBlocks(code)

	assert.Len(t, blocks, 1)
	assert.Equal(t, "entry", blocks[0].Label)
}

func TestBlockDefsAndUses(t *testing.T) {
	b := Block{
		Label: "b",
		Instrs: []Instruction{
			NewValue("y", Type{Kind: TInt}, OpAdd, []string{"x", "x"}),
			NewConstant("x", Type{Kind: TInt}, IntLiteral(5)),
			NewValue("z", Type{Kind: TInt}, OpAdd, []string{"x", "y"}),
		},
	}

	assert.Equal(t, []string{"x"}, b.Uses())
	assert.Equal(t, []string{"y", "x", "z"}, b.Defs())
}

func TestFlattenBlocksRoundTripsThroughFormBlocks(t *testing.T) {
	code := []CodeItem{
		Lbl("entry"),
		Instr(NewConstant("x", Type{Kind: TInt}, IntLiteral(1))),
		Instr(NewEffect(OpJump, []string{})),
	}
	code[2].Instr.Labels = []string{"next"}
	code = append(code, Lbl("next"), Instr(NewEffect(OpReturn, nil)))

	blocks := FormBlocks(code)
	flat := FlattenBlocks(blocks)
	again := FormBlocks(flat)

	assert.Equal(t, blocks, again)
}
