package ir

// RunDCE iterates the two complementary passes of §4.8 — global trivial DCE
// and block-local reassignment DCE — over one function's blocks until
// neither removes anything.
func RunDCE(blocks []Block) []Block {
	for {
		dirty := false
		if trivialDCE(blocks) {
			dirty = true
		}
		if localReassignmentDCE(blocks) {
			dirty = true
		}
		if !dirty {
			return blocks
		}
	}
}

// trivialDCE deletes instructions whose destination is never read anywhere
// in the function. Effect-only instructions (no destination) are always
// preserved.
func trivialDCE(blocks []Block) bool {
	used := map[string]bool{}
	for i := range blocks {
		for _, instr := range blocks[i].Instrs {
			for _, a := range instr.GetArgs() {
				used[a] = true
			}
		}
	}

	dirty := false
	for i := range blocks {
		out := blocks[i].Instrs[:0:0]
		for _, instr := range blocks[i].Instrs {
			if d, ok := instr.GetDest(); ok && !used[d] {
				dirty = true
				continue
			}
			out = append(out, instr)
		}
		blocks[i].Instrs = out
	}
	return dirty
}

// localReassignmentDCE scans each block in reverse, tracking destinations
// known dead (no intervening use scanning backward). A write to a currently
// dead name is dropped; any read clears deadness for its operand.
func localReassignmentDCE(blocks []Block) bool {
	dirty := false
	for bi := range blocks {
		instrs := blocks[bi].Instrs
		dead := map[string]bool{}
		out := make([]Instruction, len(instrs))
		keep := make([]bool, len(instrs))

		for i := len(instrs) - 1; i >= 0; i-- {
			instr := instrs[i]
			out[i] = instr
			if d, ok := instr.GetDest(); ok {
				if dead[d] {
					keep[i] = false
					dirty = true
					continue
				}
				dead[d] = true
			}
			keep[i] = true
			for _, a := range instr.GetArgs() {
				delete(dead, a)
			}
		}

		filtered := instrs[:0:0]
		for i, instr := range out {
			if keep[i] {
				filtered = append(filtered, instr)
			}
		}
		blocks[bi].Instrs = filtered
	}
	return dirty
}
