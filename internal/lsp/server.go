// Package lsp implements a diagnostics-only language server for duk.
//
// Documents are synchronised in full on every change. Each update is run
// through the lexer and the parser, and the resulting errors are published
// with textDocument/publishDiagnostics.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/textproto"
	"strconv"
	"strings"
	"sync"

	"github.com/DucktectiveCZ/duklang/internal/diag"
	"github.com/DucktectiveCZ/duklang/internal/lexer"
	"github.com/DucktectiveCZ/duklang/internal/parser"
)

// Server represents the LSP server.
type Server struct {
	// Documents tracks open files by URI
	Documents map[string]*Document
	mu        sync.RWMutex

	out    io.Writer
	outMu  sync.Mutex
	logger *slog.Logger

	version  string
	shutdown bool
}

// Document represents an open document.
type Document struct {
	URI     string
	Content string
	Version int
	Errors  []diag.Diagnostic
}

// NewServer creates a server writing messages to out.
func NewServer(out io.Writer, logger *slog.Logger, version string) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		Documents: make(map[string]*Document),
		out:       out,
		logger:    logger,
		version:   version,
	}
}

// Run reads framed JSON-RPC messages from in until the client sends
// "exit", the input ends or ctx is cancelled.
func (s *Server) Run(ctx context.Context, in io.Reader) error {
	reader := bufio.NewReader(in)

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		body, err := readMessage(reader)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		var msg jsonrpcMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			s.logger.Warn("failed to parse JSON-RPC message", "error", err)
			continue
		}

		if msg.Method == "exit" {
			return nil
		}

		if response := s.handleMessage(&msg); response != nil {
			if err := s.send(response); err != nil {
				s.logger.Error("failed to send response", "method", msg.Method, "error", err)
			}
		}
	}
}

// readMessage reads one message. Headers other than Content-Length are
// ignored.
func readMessage(r *bufio.Reader) ([]byte, error) {
	header, err := textproto.NewReader(r).ReadMIMEHeader()
	if err != nil {
		if errors.Is(err, io.EOF) && len(header) == 0 {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	length, err := strconv.Atoi(strings.TrimSpace(header.Get("Content-Length")))
	if err != nil || length < 0 {
		return nil, fmt.Errorf("invalid Content-Length header %q", header.Get("Content-Length"))
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("failed to read message body: %w", err)
	}
	return body, nil
}

// jsonrpcMessage represents a JSON-RPC 2.0 message.
type jsonrpcMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      any             `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *jsonrpcError   `json:"error,omitempty"`
}

type jsonrpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

const (
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// handleMessage processes a JSON-RPC message and returns a response.
func (s *Server) handleMessage(msg *jsonrpcMessage) *jsonrpcMessage {
	if s.shutdown && msg.ID != nil {
		return errorResponse(msg, codeInvalidRequest, "server is shutting down")
	}

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return nil
	case "textDocument/didOpen":
		s.handleDidOpen(msg)
		return nil
	case "textDocument/didChange":
		s.handleDidChange(msg)
		return nil
	case "textDocument/didClose":
		s.handleDidClose(msg)
		return nil
	case "shutdown":
		s.shutdown = true
		return &jsonrpcMessage{JSONRPC: "2.0", ID: msg.ID, Result: json.RawMessage("null")}
	default:
		if msg.ID != nil {
			return errorResponse(msg, codeMethodNotFound, fmt.Sprintf("Method not found: %s", msg.Method))
		}
		return nil
	}
}

func errorResponse(msg *jsonrpcMessage, code int, message string) *jsonrpcMessage {
	return &jsonrpcMessage{
		JSONRPC: "2.0",
		ID:      msg.ID,
		Error:   &jsonrpcError{Code: code, Message: message},
	}
}

// send writes a framed JSON-RPC message.
func (s *Server) send(msg *jsonrpcMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal response: %w", err)
	}

	s.outMu.Lock()
	defer s.outMu.Unlock()

	if _, err := fmt.Fprintf(s.out, "Content-Length: %d\r\n\r\n", len(data)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if _, err := s.out.Write(data); err != nil {
		return fmt.Errorf("failed to write body: %w", err)
	}
	return nil
}

// InitializeParams represents the initialize request parameters.
type InitializeParams struct {
	ProcessID    int            `json:"processId,omitempty"`
	RootURI      string         `json:"rootUri,omitempty"`
	Capabilities map[string]any `json:"capabilities,omitempty"`
}

// InitializeResult represents the initialize response.
type InitializeResult struct {
	Capabilities ServerCapabilities `json:"capabilities"`
	ServerInfo   ServerInfo         `json:"serverInfo"`
}

type ServerCapabilities struct {
	TextDocumentSync int `json:"textDocumentSync"`
}

type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

func (s *Server) handleInitialize(msg *jsonrpcMessage) *jsonrpcMessage {
	var params InitializeParams
	if len(msg.Params) > 0 {
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return errorResponse(msg, codeInvalidParams, fmt.Sprintf("Invalid params: %v", err))
		}
	}
	s.logger.Info("client initialized", "root", params.RootURI, "pid", params.ProcessID)

	return &jsonrpcMessage{
		JSONRPC: "2.0",
		ID:      msg.ID,
		Result: InitializeResult{
			Capabilities: ServerCapabilities{
				TextDocumentSync: 1, // full document sync
			},
			ServerInfo: ServerInfo{Name: "duk-lsp", Version: s.version},
		},
	}
}

// DidOpenTextDocumentParams represents didOpen notification parameters.
type DidOpenTextDocumentParams struct {
	TextDocument TextDocumentItem `json:"textDocument"`
}

type TextDocumentItem struct {
	URI        string `json:"uri"`
	LanguageID string `json:"languageId"`
	Version    int    `json:"version"`
	Text       string `json:"text"`
}

func (s *Server) handleDidOpen(msg *jsonrpcMessage) {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.logger.Warn("failed to parse didOpen params", "error", err)
		return
	}

	doc := &Document{
		URI:     params.TextDocument.URI,
		Content: params.TextDocument.Text,
		Version: params.TextDocument.Version,
	}
	updateDocument(doc)

	s.mu.Lock()
	s.Documents[doc.URI] = doc
	s.mu.Unlock()

	s.publishDiagnostics(doc.URI, doc.Errors)
}

// DidChangeTextDocumentParams represents didChange notification parameters.
type DidChangeTextDocumentParams struct {
	TextDocument   VersionedTextDocumentIdentifier  `json:"textDocument"`
	ContentChanges []TextDocumentContentChangeEvent `json:"contentChanges"`
}

type VersionedTextDocumentIdentifier struct {
	URI     string `json:"uri"`
	Version int    `json:"version"`
}

type TextDocumentContentChangeEvent struct {
	Text string `json:"text"`
}

func (s *Server) handleDidChange(msg *jsonrpcMessage) {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.logger.Warn("failed to parse didChange params", "error", err)
		return
	}
	if len(params.ContentChanges) == 0 {
		return
	}

	s.mu.Lock()
	doc, ok := s.Documents[params.TextDocument.URI]
	if ok {
		// Full sync: the last change holds the whole document.
		doc.Content = params.ContentChanges[len(params.ContentChanges)-1].Text
		doc.Version = params.TextDocument.Version
		updateDocument(doc)
	}
	s.mu.Unlock()

	if ok {
		s.publishDiagnostics(doc.URI, doc.Errors)
	}
}

type TextDocumentIdentifier struct {
	URI string `json:"uri"`
}

func (s *Server) handleDidClose(msg *jsonrpcMessage) {
	var params struct {
		TextDocument TextDocumentIdentifier `json:"textDocument"`
	}
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.logger.Warn("failed to parse didClose params", "error", err)
		return
	}

	s.mu.Lock()
	delete(s.Documents, params.TextDocument.URI)
	s.mu.Unlock()

	// Clear what the client still shows for the closed file.
	s.publishDiagnostics(params.TextDocument.URI, nil)
}

// updateDocument lexes and parses a document. Every lexical error is kept;
// a syntax error is added only when the input lexes cleanly, since the
// parser stops at the first lexical error anyway.
func updateDocument(doc *Document) {
	filename := uriToPath(doc.URI)

	lx := lexer.New(doc.Content)
	lx.SetFilename(filename)
	for {
		tok, _ := lx.Next()
		if tok.Type == lexer.EOF {
			break
		}
	}

	var diagnostics []diag.Diagnostic
	for _, err := range lx.Errors() {
		diagnostics = append(diagnostics, err.ToDiagnostic())
	}

	if len(diagnostics) == 0 {
		_, err := parser.ParseModule(doc.Content, parser.WithFilename(filename))
		var pe *parser.ParseError
		if errors.As(err, &pe) {
			diagnostics = append(diagnostics, pe.ToDiagnostic())
		}
	}

	doc.Errors = diagnostics
}

// publishDiagnostics sends diagnostics to the client.
func (s *Server) publishDiagnostics(uri string, diagnostics []diag.Diagnostic) {
	params, err := json.Marshal(PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: toLSP(diagnostics),
	})
	if err != nil {
		s.logger.Error("failed to marshal diagnostics", "uri", uri, "error", err)
		return
	}

	notification := &jsonrpcMessage{
		JSONRPC: "2.0",
		Method:  "textDocument/publishDiagnostics",
		Params:  params,
	}
	if err := s.send(notification); err != nil {
		s.logger.Error("failed to publish diagnostics", "uri", uri, "error", err)
	}
}

// PublishDiagnosticsParams is the payload of textDocument/publishDiagnostics.
type PublishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Diagnostic represents an LSP diagnostic.
type Diagnostic struct {
	Range    Range  `json:"range"`
	Severity int    `json:"severity"`
	Source   string `json:"source"`
	Message  string `json:"message"`
	Code     string `json:"code,omitempty"`
}

type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

func toLSP(diagnostics []diag.Diagnostic) []Diagnostic {
	out := make([]Diagnostic, 0, len(diagnostics))
	for _, d := range diagnostics {
		out = append(out, Diagnostic{
			Range:    spanRange(d.Span),
			Severity: diagnosticSeverity(d.Severity),
			Source:   "duk",
			Message:  d.Message,
			Code:     string(d.Code),
		})
	}
	return out
}

// spanRange converts a 1-based span into a 0-based LSP range. Spans that
// cross a line break are cut at the end of their first line by clients.
func spanRange(span diag.Span) Range {
	if !span.IsValid() {
		return Range{}
	}
	start := Position{Line: span.Line - 1, Character: span.Column - 1}
	end := start
	end.Character += max(0, span.End-span.Start)
	return Range{Start: start, End: end}
}

func diagnosticSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SeverityWarning:
		return 2
	case diag.SeverityNote:
		return 3
	default:
		return 1
	}
}

// uriToPath converts a file:// URI to a file path.
func uriToPath(uri string) string {
	path, ok := strings.CutPrefix(uri, "file://")
	if !ok {
		return uri
	}
	// Windows drive letters arrive as /C:/...
	if len(path) > 2 && path[0] == '/' && path[2] == ':' {
		path = path[1:]
	}
	return path
}
