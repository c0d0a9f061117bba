// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/Enochen/bril-optimizations/internal/clihelpers"
	"github.com/Enochen/bril-optimizations/internal/ir"
)

// irssa reads a program on stdin and converts every function to SSA form.
// Its optional mode argument is "into" (emit SSA-form IR) or "full" (emit
// IR round-tripped through SSA and back out); the default is "full", per
// §6's SSA-tool contract.
func main() {
	mode := "full"
	if len(os.Args) >= 2 {
		mode = os.Args[1]
		if mode != "into" && mode != "full" {
			fmt.Fprintf(os.Stderr, "unknown subcommand %q: expected into or full\n", mode)
			os.Exit(1)
		}
	}

	source := clihelpers.ReadStdin()
	program := clihelpers.ParseOrDie(source)

	for fi := range program.Functions {
		fn := &program.Functions[fi]
		cfg := clihelpers.BuildCFGOrDie(source, fn)
		ir.ConvertToSSA(cfg)
		if mode == "full" {
			ir.ConvertFromSSA(cfg)
		}
		fn.Code = ir.FlattenBlocks(cfg.Blocks)
	}

	fmt.Print(ir.PrintProgram(program))
}
