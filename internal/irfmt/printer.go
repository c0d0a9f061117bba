package irfmt

import "github.com/Enochen/bril-optimizations/internal/ir"

// Print renders program back to the textual surface syntax Parse consumes.
func Print(program *ir.Program) string {
	return ir.PrintProgram(program)
}
