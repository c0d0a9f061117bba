package errors

// Error codes for the IR toolkit.
//
// Error code ranges:
// E0100-E0199: malformed input IR (parse/decode failures)
// E0200-E0299: CFG construction errors
// E0300-E0399: SSA invariant violations
// E0400-E0499: internal inconsistencies (self-check failures)

const (
	// E0100: the IR parser/decoder rejected the input.
	ErrorMalformedIR = "E0100"

	// E0200: a jump/branch referenced a label with no matching block.
	ErrorUnresolvedLabel = "E0200"

	// E0300: a variable was used with no reaching definition and no
	// matching function argument. Recoverable: SSA renaming falls back to
	// the raw name without reporting anything, so no caller emits this
	// code.
	ErrorUseBeforeDef = "E0300"

	// E0400: the dominator self-check found a mismatch against the
	// brute-force path-intersection computation. VerifyDominators panics
	// on a mismatch; no caller emits this code.
	ErrorDominatorMismatch = "E0400"
)
