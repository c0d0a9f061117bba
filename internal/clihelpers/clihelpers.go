// Package clihelpers is the small shared plumbing every cmd/ir* tool uses:
// reading all of stdin, parsing it, and rendering a fatal error through the
// shared reporter before exiting 1. Each tool otherwise stays a single
// small main package, per the reference's cmd/kanso-cli shape.
package clihelpers

import (
	"fmt"
	"io"
	"os"

	"github.com/Enochen/bril-optimizations/internal/errors"
	"github.com/Enochen/bril-optimizations/internal/ir"
	"github.com/Enochen/bril-optimizations/internal/irfmt"
)

// ReadStdin slurps the program text a CLI tool is piped.
func ReadStdin() string {
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read stdin: %s\n", err)
		os.Exit(1)
	}
	return string(data)
}

// ParseOrDie parses source into a Program, reporting a malformed-IR error
// (E0100, §7.1) and exiting 1 on failure. A *irfmt.ParseError carries the
// real line/column the grammar stopped at, so the reported box points at
// the actual offending text instead of the top of the buffer.
func ParseOrDie(source string) *ir.Program {
	program, err := irfmt.Parse(source)
	if err != nil {
		Fatal(source, errors.ErrorMalformedIR, "malformed IR", err, nil)
	}
	return program
}

// BuildCFGOrDie forms blocks and builds the CFG for fn, reporting an
// unresolved-label error (E0200, §7.2) and exiting 1 on failure.
func BuildCFGOrDie(source string, fn *ir.Function) *ir.CFG {
	blocks := ir.FormBlocks(fn.Code)
	cfg, err := ir.BuildCFG(blocks, fn.Args)
	if err != nil {
		Fatal(source, errors.ErrorUnresolvedLabel, "CFG construction failed",
			err, []string{fmt.Sprintf("in function @%s", fn.Name)})
	}
	return cfg
}

// Fatal renders cause as a boxed, colorized error through the shared
// reporter and exits 1. When cause is an *irfmt.ParseError it carries a
// real source position, which Fatal uses for the box's line/column; any
// other error (e.g. CFG-level failures, which have no per-instruction
// position past the parser) anchors at the top of the buffer and relies on
// Notes to identify the offending function, per §7's "identifying the
// offending function and block" policy.
func Fatal(source, code, message string, cause error, notes []string) {
	reporter := errors.NewErrorReporter("<stdin>", source)
	allNotes := append([]string{cause.Error()}, notes...)
	fmt.Fprint(os.Stderr, reporter.FormatError(errors.CompilerError{
		Level:    errors.Error,
		Code:     code,
		Message:  message,
		Position: positionOf(cause),
		Length:   1,
		Notes:    allNotes,
	}))
	os.Exit(1)
}

// positionOf extracts a reporter Position from cause, defaulting to the top
// of the buffer when cause carries no span of its own.
func positionOf(cause error) errors.Position {
	if pe, ok := cause.(*irfmt.ParseError); ok {
		return errors.Position{Line: pe.Line, Column: pe.Column}
	}
	return errors.Position{Line: 1, Column: 1}
}
