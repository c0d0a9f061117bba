package lsp

import (
	"fmt"
	"log"
	"sync"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/Enochen/bril-optimizations/internal/ir"
	"github.com/Enochen/bril-optimizations/internal/irfmt"
)

// Handler implements a diagnostics-only LSP server over the IR's textual
// surface syntax: on open/change it parses the buffer, forms blocks and
// builds the CFG for each function, and reports malformed IR or unresolved
// labels (§7.1, §7.2) as diagnostics. There is no completion and no
// semantic-token support — the reference LSP's Kanso-specific features have
// no analogue over a three-address IR and are dropped, see DESIGN.md.
type Handler struct {
	mu      sync.RWMutex
	content map[string]string
}

// NewHandler creates an empty Handler with no open buffers.
func NewHandler() *Handler {
	return &Handler{content: make(map[string]string)}
}

func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Println("IR LSP Initialize called")
	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindFull),
			},
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Println("IR LSP Initialized")
	return nil
}

func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Println("IR LSP Shutdown")
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	h.setContent(uri, params.TextDocument.Text)
	sendDiagnosticNotification(ctx, uri, h.diagnose(uri))
	return nil
}

func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI
	if text, ok := lastWholeDocumentText(params.ContentChanges); ok {
		h.setContent(uri, text)
	}
	sendDiagnosticNotification(ctx, uri, h.diagnose(uri))
	return nil
}

func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	h.mu.Lock()
	delete(h.content, params.TextDocument.URI)
	h.mu.Unlock()
	return nil
}

func (h *Handler) setContent(uri string, text string) {
	h.mu.Lock()
	h.content[uri] = text
	h.mu.Unlock()
}

// diagnose parses and builds the CFG for every function in the buffer
// identified by uri, returning one diagnostic per fatal condition
// encountered. An empty, non-nil slice clears previously published
// diagnostics once a buffer becomes clean again.
func (h *Handler) diagnose(uri string) []protocol.Diagnostic {
	h.mu.RLock()
	text := h.content[uri]
	h.mu.RUnlock()

	diagnostics := []protocol.Diagnostic{}

	program, err := irfmt.Parse(text)
	if err != nil {
		return append(diagnostics, diagnosticFromError(err.Error()))
	}

	for _, fn := range program.Functions {
		blocks := ir.FormBlocks(fn.Code)
		if _, err := ir.BuildCFG(blocks, fn.Args); err != nil {
			diagnostics = append(diagnostics, diagnosticFromError(
				fmt.Sprintf("@%s: %s", fn.Name, err.Error())))
		}
	}
	return diagnostics
}

// lastWholeDocumentText extracts the replacement text from a full-sync
// TextDocumentDidChange notification. Full sync (the only mode this server
// advertises) always sends the entire new document as a single change
// event with no Range set.
func lastWholeDocumentText(changes []any) (string, bool) {
	if len(changes) == 0 {
		return "", false
	}
	switch c := changes[len(changes)-1].(type) {
	case protocol.TextDocumentContentChangeEventWhole:
		return c.Text, true
	case protocol.TextDocumentContentChangeEvent:
		return c.Text, true
	default:
		return "", false
	}
}

func sendDiagnosticNotification(ctx *glsp.Context, uri string, diagnostics []protocol.Diagnostic) {
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

func ptrBool(b bool) *bool { return &b }

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind { return &k }
