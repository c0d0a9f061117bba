// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"

	"github.com/Enochen/bril-optimizations/internal/clihelpers"
	"github.com/Enochen/bril-optimizations/internal/ir"
)

// irlvn reads a program on stdin, runs local value numbering over every
// block of every function, and writes the optimized program to stdout,
// per §6's LVN-tool contract.
func main() {
	source := clihelpers.ReadStdin()
	program := clihelpers.ParseOrDie(source)

	for fi := range program.Functions {
		fn := &program.Functions[fi]
		cfg := clihelpers.BuildCFGOrDie(source, fn)
		for bi := range cfg.Blocks {
			ir.ApplyLVN(&cfg.Blocks[bi])
		}
		fn.Code = ir.FlattenBlocks(cfg.Blocks)
	}

	fmt.Print(ir.PrintProgram(program))
}
