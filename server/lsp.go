package server

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	glspserver "github.com/tliron/glsp/server"

	"github.com/chazu/lox/compiler"
	"github.com/chazu/lox/pkg/bytecode"

	_ "github.com/tliron/commonlog/simple"
)

const lspName = "lox-lsp"

// LspServer provides editor features for Lox documents. Every request
// compiles the document text against a fresh heap, so no state is shared
// between documents.
type LspServer struct {
	mu   sync.Mutex
	docs map[string]string // URI → full document content

	handler protocol.Handler
	server  *glspserver.Server
	version string
	log     commonlog.Logger
}

// NewLSP creates a new LSP server.
func NewLSP() *LspServer {
	s := &LspServer{
		docs:    make(map[string]string),
		version: "0.1.0",
		log:     commonlog.GetLogger("lox.lsp"),
	}

	s.handler = protocol.Handler{
		Initialize:  s.initialize,
		Initialized: s.initialized,
		Shutdown:    s.shutdown,
		SetTrace:    s.setTrace,

		TextDocumentDidOpen:   s.textDocumentDidOpen,
		TextDocumentDidChange: s.textDocumentDidChange,
		TextDocumentDidClose:  s.textDocumentDidClose,

		TextDocumentCompletion: s.textDocumentCompletion,
		TextDocumentHover:      s.textDocumentHover,
	}

	s.server = glspserver.NewServer(&s.handler, lspName, false)

	return s
}

// Run starts the LSP server on stdio. Blocks until the client disconnects.
func (s *LspServer) Run() error {
	return s.server.RunStdio()
}

// --- LSP lifecycle handlers ---

func (s *LspServer) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	s.log.Info("Lox LSP initializing")

	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindFull
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    &syncKind,
	}

	capabilities.CompletionProvider = &protocol.CompletionOptions{}
	capabilities.HoverProvider = true

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lspName,
			Version: &s.version,
		},
	}, nil
}

func (s *LspServer) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

func (s *LspServer) shutdown(ctx *glsp.Context) error {
	return nil
}

func (s *LspServer) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	return nil
}

// --- Document synchronization ---

func (s *LspServer) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	uri := params.TextDocument.URI
	text := params.TextDocument.Text

	s.setDocument(uri, text)
	s.publishDiagnostics(ctx, uri, text)
	return nil
}

func (s *LspServer) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	// With Full sync, the last change event contains the full text
	if len(params.ContentChanges) > 0 {
		last := params.ContentChanges[len(params.ContentChanges)-1]
		if whole, ok := last.(protocol.TextDocumentContentChangeEventWhole); ok {
			s.setDocument(uri, whole.Text)
			s.publishDiagnostics(ctx, uri, whole.Text)
		}
	}
	return nil
}

func (s *LspServer) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	delete(s.docs, string(uri))
	s.mu.Unlock()

	// Clear diagnostics for the closed document
	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (s *LspServer) setDocument(uri protocol.DocumentUri, text string) {
	s.mu.Lock()
	s.docs[string(uri)] = text
	s.mu.Unlock()
}

func (s *LspServer) document(uri protocol.DocumentUri) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	text, ok := s.docs[string(uri)]
	return text, ok
}

// --- Language features ---

func (s *LspServer) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	text, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	prefix := extractPrefix(text, params.Position)
	if prefix == "" {
		return nil, nil
	}
	return complete(text, prefix), nil
}

func (s *LspServer) textDocumentHover(ctx *glsp.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	text, ok := s.document(params.TextDocument.URI)
	if !ok {
		return nil, nil
	}

	word := extractWord(text, params.Position)
	if word == "" {
		return nil, nil
	}
	return hover(text, word), nil
}

// complete returns keywords and document declarations starting with prefix.
func complete(text, prefix string) []protocol.CompletionItem {
	var items []protocol.CompletionItem
	seen := make(map[string]bool)

	add := func(label string, kind protocol.CompletionItemKind, detail string) {
		if seen[label] || !strings.HasPrefix(label, prefix) {
			return
		}
		seen[label] = true
		items = append(items, protocol.CompletionItem{
			Label:      label,
			Kind:       &kind,
			Detail:     &detail,
			InsertText: &label,
		})
	}

	for _, d := range declarations(text) {
		switch d.Kind {
		case declFunction:
			add(d.Name, protocol.CompletionItemKindFunction, d.signature())
		case declParameter:
			add(d.Name, protocol.CompletionItemKindVariable, "parameter")
		default:
			add(d.Name, protocol.CompletionItemKindVariable, "variable")
		}
	}
	for _, kw := range compiler.Keywords() {
		add(kw, protocol.CompletionItemKindKeyword, "keyword")
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Label < items[j].Label
	})

	// Limit results
	const maxItems = 100
	if len(items) > maxItems {
		items = items[:maxItems]
	}
	return items
}

// hover describes a function declared in the document: its signature and
// the listing of its compiled body. Returns nil for anything else.
func hover(text, word string) *protocol.Hover {
	var decl *declaration
	for _, d := range declarations(text) {
		if d.Kind == declFunction && d.Name == word {
			decl = &d
			break
		}
	}
	if decl == nil {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "```lox\n%s\n```\n", decl.signature())

	heap := bytecode.NewHeap()
	script, err := compiler.Compile(text, heap)
	if err == nil {
		if fn := findFunction(script, heap, word); fn != nil {
			b.WriteString("\n```\n")
			bytecode.DisassembleChunk(&b, fn.Chunk, fn.Name, heap)
			b.WriteString("```\n")
		}
	}

	return &protocol.Hover{
		Contents: protocol.MarkupContent{
			Kind:  protocol.MarkupKindMarkdown,
			Value: b.String(),
		},
	}
}

// findFunction searches fn's constant pool, depth first, for a function
// named name.
func findFunction(fn *bytecode.Function, heap *bytecode.Heap, name string) *bytecode.Function {
	for _, v := range fn.Chunk.Constants {
		if !v.IsObject() {
			continue
		}
		nested, ok := heap.Function(v.Object())
		if !ok {
			continue
		}
		if nested.Name == name {
			return nested
		}
		if found := findFunction(nested, heap, name); found != nil {
			return found
		}
	}
	return nil
}

// --- Diagnostics ---

func (s *LspServer) publishDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	diagnostics := diagnose(text)
	s.log.Debugf("%s: %d diagnostic(s)", uri, len(diagnostics))

	go ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diagnostics,
	})
}

// diagnose compiles text and converts every compile error to a diagnostic.
func diagnose(text string) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}

	_, err := compiler.Compile(text, bytecode.NewHeap())
	var list compiler.ErrorList
	if !errors.As(err, &list) {
		return diagnostics
	}

	severity := protocol.DiagnosticSeverityError
	source := "lox"
	for _, e := range list {
		line := protocol.UInteger(max(e.Line-1, 0))
		start := protocol.UInteger(max(e.Column-1, 0))
		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: start},
				End:   protocol.Position{Line: line, Character: start + protocol.UInteger(e.Length)},
			},
			Severity: &severity,
			Source:   &source,
			Message:  strings.TrimPrefix(e.Error(), fmt.Sprintf("[line %d] ", e.Line)),
		})
	}
	return diagnostics
}

// --- Text extraction helpers ---

// extractPrefix returns the word fragment before the cursor for completion.
func extractPrefix(text string, pos protocol.Position) string {
	line, col, ok := lineAt(text, pos)
	if !ok {
		return ""
	}

	// Walk backwards from cursor to find the start of the identifier
	start := col
	for start > 0 && isIdentByte(line[start-1]) {
		start--
	}
	return line[start:col]
}

// extractWord returns the full identifier under the cursor.
func extractWord(text string, pos protocol.Position) string {
	line, col, ok := lineAt(text, pos)
	if !ok {
		return ""
	}

	start := col
	for start > 0 && isIdentByte(line[start-1]) {
		start--
	}
	end := col
	for end < len(line) && isIdentByte(line[end]) {
		end++
	}
	return line[start:end]
}

func lineAt(text string, pos protocol.Position) (string, int, bool) {
	lines := strings.Split(text, "\n")
	if int(pos.Line) >= len(lines) {
		return "", 0, false
	}
	line := strings.TrimSuffix(lines[pos.Line], "\r")
	col := min(int(pos.Character), len(line))
	return line, col, true
}

func isIdentByte(b byte) bool {
	ch := rune(b)
	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}

func boolPtr(b bool) *bool {
	return &b
}
