package ir

import "fmt"

// Block is a maximal straight-line instruction sequence entered only at its
// label and exited only by its terminator (if any — the last block of a
// function may be sealed without one before CFG construction normalizes it).
type Block struct {
	Label  string
	Instrs []Instruction
}

// FormBlocks slices a function's flat instruction list into basic blocks,
// assigning fresh labels to any block that did not start with one.
//
// A label starts a new block, sealing the current one first if it has any
// content. A terminator ends the current block after being appended to it.
// Trailing empty blocks are discarded.
func FormBlocks(code []CodeItem) []Block {
	var blocks []Block
	var cur *Block
	userLabels := map[string]bool{}
	for _, item := range code {
		if item.IsLabel {
			userLabels[item.Label] = true
		}
	}

	seal := func() {
		if cur != nil {
			blocks = append(blocks, *cur)
			cur = nil
		}
	}

	for _, item := range code {
		if item.IsLabel {
			seal()
			cur = &Block{Label: item.Label}
			continue
		}
		if cur == nil {
			cur = &Block{}
		}
		cur.Instrs = append(cur.Instrs, item.Instr)
		if item.Instr.IsTerminator() {
			seal()
		}
	}
	if cur != nil && len(cur.Instrs) > 0 {
		blocks = append(blocks, *cur)
	}

	used := map[string]bool{}
	for k := range userLabels {
		used[k] = true
	}
	next := 0
	freshLabel := func() string {
		for {
			name := fmt.Sprintf("anon_block_%d", next)
			next++
			if !used[name] {
				used[name] = true
				return name
			}
		}
	}
	for i := range blocks {
		if blocks[i].Label == "" {
			blocks[i].Label = freshLabel()
		}
	}
	return blocks
}

// Defs returns the set of variables this block assigns to, in order of first
// definition.
func (b *Block) Defs() []string {
	seen := map[string]bool{}
	var out []string
	for i := range b.Instrs {
		if d, ok := b.Instrs[i].GetDest(); ok {
			if !seen[d] {
				seen[d] = true
				out = append(out, d)
			}
		}
	}
	return out
}

// Uses returns the variables read before any local definition within the
// block — the set live variables analysis needs for its transfer function.
func (b *Block) Uses() []string {
	defined := map[string]bool{}
	seen := map[string]bool{}
	var out []string
	for i := range b.Instrs {
		for _, a := range b.Instrs[i].GetArgs() {
			if !defined[a] && !seen[a] {
				seen[a] = true
				out = append(out, a)
			}
		}
		if d, ok := b.Instrs[i].GetDest(); ok {
			defined[d] = true
		}
	}
	return out
}

// FlattenBlocks is FormBlocks' dual: it lowers an ordered block sequence
// back into the flat Label/Instruction stream a Function carries, so a
// pass's output (a []Block) can be re-attached to a Function and printed or
// re-serialized. Every block contributes exactly one Label followed by its
// instructions, in order.
func FlattenBlocks(blocks []Block) []CodeItem {
	var out []CodeItem
	for i := range blocks {
		out = append(out, Lbl(blocks[i].Label))
		for _, instr := range blocks[i].Instrs {
			out = append(out, Instr(instr))
		}
	}
	return out
}
