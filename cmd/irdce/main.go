// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"

	"github.com/Enochen/bril-optimizations/internal/clihelpers"
	"github.com/Enochen/bril-optimizations/internal/ir"
)

// irdce reads a program on stdin, runs the dead-code-elimination driver to
// a fixed point over every function, and writes the result to stdout, per
// §6's DCE-tool contract.
func main() {
	source := clihelpers.ReadStdin()
	program := clihelpers.ParseOrDie(source)

	for fi := range program.Functions {
		fn := &program.Functions[fi]
		cfg := clihelpers.BuildCFGOrDie(source, fn)
		blocks := ir.RunDCE(cfg.Blocks)
		fn.Code = ir.FlattenBlocks(blocks)
	}

	fmt.Print(ir.PrintProgram(program))
}
