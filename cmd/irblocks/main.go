// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"

	"github.com/Enochen/bril-optimizations/internal/clihelpers"
	"github.com/Enochen/bril-optimizations/internal/ir"
)

// irblocks reads a program on stdin and prints each function's block
// listing, per §6's block-printer contract.
func main() {
	source := clihelpers.ReadStdin()
	program := clihelpers.ParseOrDie(source)

	for _, fn := range program.Functions {
		blocks := ir.FormBlocks(fn.Code)
		fmt.Print(ir.PrintBlocks(fn.Name, blocks))
	}
}
