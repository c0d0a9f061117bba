// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"

	"github.com/Enochen/bril-optimizations/internal/clihelpers"
	"github.com/Enochen/bril-optimizations/internal/ir"
)

// irdom prints dominators, dominance frontier, immediate dominator, and the
// dominator tree for every function in a program read from stdin, per §6's
// dominator-tool contract.
func main() {
	source := clihelpers.ReadStdin()
	program := clihelpers.ParseOrDie(source)

	for _, fn := range program.Functions {
		cfg := clihelpers.BuildCFGOrDie(source, &fn)
		dom := ir.FindDominators(cfg)
		fmt.Printf("@%s\n", fn.Name)
		fmt.Print(ir.PrintDominance(cfg, dom))
	}
}
