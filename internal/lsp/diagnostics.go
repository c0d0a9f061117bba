package lsp

import (
	protocol "github.com/tliron/glsp/protocol_3_16"
)

// diagnosticFromError converts a fatal condition surfaced while parsing or
// building the CFG for a buffer into a single full-document LSP diagnostic.
// The textual IR format carries no per-instruction source positions once
// past the parser, so diagnostics for CFG-level problems (unresolved
// labels) are anchored at the top of the document rather than at a precise
// span — an editor still gets the message next to the buffer it concerns.
func diagnosticFromError(message string) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: 0, Character: 0},
			End:   protocol.Position{Line: 0, Character: 1},
		},
		Severity: ptrSeverity(protocol.DiagnosticSeverityError),
		Source:   ptrString("ir"),
		Message:  message,
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
