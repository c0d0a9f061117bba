// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/Enochen/bril-optimizations/internal/clihelpers"
	"github.com/Enochen/bril-optimizations/internal/ir"
)

// irdf runs a data-flow analysis named by its single positional argument
// (reaching_defs | live_vars) over a program read from stdin and prints
// in/out sets per block, per §6's data-flow-runner contract. An unrecognized
// subcommand is an error to stderr with exit code 1.
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: irdf <reaching_defs|live_vars>")
		os.Exit(1)
	}
	mode := os.Args[1]
	if mode != "reaching_defs" && mode != "live_vars" {
		fmt.Fprintf(os.Stderr, "unknown subcommand %q: expected reaching_defs or live_vars\n", mode)
		os.Exit(1)
	}

	source := clihelpers.ReadStdin()
	program := clihelpers.ParseOrDie(source)

	for _, fn := range program.Functions {
		cfg := clihelpers.BuildCFGOrDie(source, &fn)
		fmt.Printf("@%s\n", fn.Name)
		switch mode {
		case "reaching_defs":
			res := ir.RunWorklist[ir.ReachingDefs](cfg, ir.Forward, ir.ReachingDefsBottom)
			fmt.Print(ir.PrintDataFlow(cfg, res))
		case "live_vars":
			res := ir.RunWorklist[ir.LiveVars](cfg, ir.Backward, ir.LiveVarsBottom)
			fmt.Print(ir.PrintDataFlow(cfg, res))
		}
	}
}
