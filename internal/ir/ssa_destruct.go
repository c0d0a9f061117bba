package ir

// ConvertFromSSA replaces every φ instruction with copies inserted into its
// predecessor blocks, per §4.7. For an incoming slot holding the
// "undefined" sentinel, the predecessor instead receives a type-defaulted
// constant. φ instructions are removed from every block afterward.
func ConvertFromSSA(cfg *CFG) {
	for i := range cfg.Blocks {
		block := &cfg.Blocks[i]
		for _, instr := range block.Instrs {
			if instr.Kind != IKValue || instr.Op != OpPhi {
				continue
			}
			dest := instr.Dest
			t := instr.Type
			for slot, label := range instr.Labels {
				predIdx := findBlockByLabel(cfg, label)
				if predIdx < 0 {
					continue
				}
				arg := instr.Args[slot]
				var copyInstr Instruction
				if arg == undefinedSentinel {
					copyInstr = NewConstant(dest, t, DefaultLiteral(t))
				} else {
					copyInstr = NewValue(dest, t, OpID, []string{arg})
				}
				insertBeforeTerminator(&cfg.Blocks[predIdx], copyInstr)
			}
		}
	}

	for i := range cfg.Blocks {
		cfg.Blocks[i].Instrs = removePhis(cfg.Blocks[i].Instrs)
	}
}

func findBlockByLabel(cfg *CFG, label string) int {
	for i := range cfg.Blocks {
		if cfg.Blocks[i].Label == label {
			return i
		}
	}
	return -1
}

func insertBeforeTerminator(b *Block, instr Instruction) {
	n := len(b.Instrs)
	if n > 0 && b.Instrs[n-1].IsTerminator() {
		b.Instrs = append(b.Instrs[:n-1], append([]Instruction{instr}, b.Instrs[n-1])...)
		return
	}
	b.Instrs = append(b.Instrs, instr)
}

func removePhis(instrs []Instruction) []Instruction {
	out := instrs[:0:0]
	for _, instr := range instrs {
		if instr.Kind == IKValue && instr.Op == OpPhi {
			continue
		}
		out = append(out, instr)
	}
	return out
}
