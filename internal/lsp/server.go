// Package lsp implements a stdio JSON-RPC language server that revalidates
// open charts on edit and publishes the resulting diagnostics. It is a thin
// shell around internal/driver: all validation logic lives below it.
package lsp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"afflint/internal/diag"
	"afflint/internal/driver"
	"afflint/internal/project"
	"afflint/internal/source"
)

var (
	// ErrExit signals a graceful shutdown after receiving "exit".
	ErrExit = errors.New("lsp exit")
	// ErrExitWithoutShutdown signals an "exit" without a preceding "shutdown".
	ErrExitWithoutShutdown = errors.New("lsp exit without shutdown")
)

// ServerOptions configure LSP server behavior.
type ServerOptions struct {
	Debounce       time.Duration
	Config         *project.Config
	MaxDiagnostics int
	// Logf, when set, receives server logs; defaults to stderr.
	Logf func(format string, args ...any)
}

// Server handles stdio JSON-RPC for the afflint language server.
type Server struct {
	in     *bufio.Reader
	out    *bufio.Writer
	sendMu sync.Mutex

	mu            sync.Mutex
	openDocs      map[string]string
	versions      map[string]int
	seq           map[string]uint64
	debounceTimer map[string]*time.Timer

	config            *project.Config
	debounce          time.Duration
	maxDiagnostics    int
	shutdownRequested bool
	logf              func(format string, args ...any)
}

// NewServer constructs a new LSP server.
func NewServer(in io.Reader, out io.Writer, opts ServerOptions) *Server {
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = project.Default()
	}
	maxDiagnostics := opts.MaxDiagnostics
	if maxDiagnostics <= 0 {
		maxDiagnostics = 100
	}
	logf := opts.Logf
	if logf == nil {
		logf = func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "afflint-lsp: "+format+"\n", args...)
		}
	}
	return &Server{
		in:             bufio.NewReader(in),
		out:            bufio.NewWriter(out),
		openDocs:       make(map[string]string),
		versions:       make(map[string]int),
		seq:            make(map[string]uint64),
		debounceTimer:  make(map[string]*time.Timer),
		config:         cfg,
		debounce:       debounce,
		maxDiagnostics: maxDiagnostics,
		logf:           logf,
	}
}

// Run serves LSP requests until shutdown.
func (s *Server) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		payload, err := readMessage(s.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		var msg rpcMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			s.logf("failed to parse message: %v", err)
			continue
		}
		if msg.Method == "" {
			continue
		}
		if err := s.handleMessage(&msg); err != nil {
			if errors.Is(err, ErrExit) || errors.Is(err, ErrExitWithoutShutdown) {
				return err
			}
			s.logf("handler %s: %v", msg.Method, err)
		}
	}
}

func (s *Server) handleMessage(msg *rpcMessage) error {
	switch msg.Method {
	case "initialize":
		var params initializeParams
		_ = json.Unmarshal(msg.Params, &params)
		return s.respond(msg.ID, initializeResult{
			Capabilities: serverCapabilities{TextDocumentSync: 1}, // full sync
			ServerInfo:   serverInfo{Name: "afflint", Version: "0.1.0"},
		})
	case "initialized":
		return nil
	case "shutdown":
		s.mu.Lock()
		s.shutdownRequested = true
		s.mu.Unlock()
		return s.respond(msg.ID, nil)
	case "exit":
		s.mu.Lock()
		requested := s.shutdownRequested
		s.mu.Unlock()
		if requested {
			return ErrExit
		}
		return ErrExitWithoutShutdown
	case "textDocument/didOpen":
		var params didOpenTextDocumentParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return err
		}
		s.setDocument(params.TextDocument.URI, params.TextDocument.Text, params.TextDocument.Version)
		s.scheduleValidate(params.TextDocument.URI)
		return nil
	case "textDocument/didChange":
		var params didChangeTextDocumentParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return err
		}
		if len(params.ContentChanges) == 0 {
			return nil
		}
		// full sync: the last change carries the whole document
		text := params.ContentChanges[len(params.ContentChanges)-1].Text
		s.setDocument(params.TextDocument.URI, text, params.TextDocument.Version)
		s.scheduleValidate(params.TextDocument.URI)
		return nil
	case "textDocument/didSave":
		var params didSaveTextDocumentParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return err
		}
		s.scheduleValidate(params.TextDocument.URI)
		return nil
	case "textDocument/didClose":
		var params didCloseTextDocumentParams
		if err := json.Unmarshal(msg.Params, &params); err != nil {
			return err
		}
		s.closeDocument(params.TextDocument.URI)
		return nil
	default:
		if len(msg.ID) > 0 {
			return s.respondError(msg.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", msg.Method))
		}
		return nil
	}
}

func (s *Server) setDocument(uri, text string, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.openDocs[uri] = text
	s.versions[uri] = version
}

func (s *Server) closeDocument(uri string) {
	s.mu.Lock()
	if t, ok := s.debounceTimer[uri]; ok {
		t.Stop()
		delete(s.debounceTimer, uri)
	}
	delete(s.openDocs, uri)
	delete(s.versions, uri)
	s.seq[uri]++
	s.mu.Unlock()

	// clear stale squiggles for the closed document
	if err := s.publish(uri, 0, nil); err != nil {
		s.logf("publish on close: %v", err)
	}
}

// scheduleValidate debounces revalidation per document. A newer edit bumps
// the sequence number so a slower, older run discards its result.
func (s *Server) scheduleValidate(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq[uri]++
	seq := s.seq[uri]

	if t, ok := s.debounceTimer[uri]; ok {
		t.Stop()
	}
	s.debounceTimer[uri] = time.AfterFunc(s.debounce, func() {
		s.validate(uri, seq)
	})
}

func (s *Server) validate(uri string, seq uint64) {
	s.mu.Lock()
	text, open := s.openDocs[uri]
	version := s.versions[uri]
	stale := s.seq[uri] != seq
	s.mu.Unlock()
	if !open || stale {
		return
	}

	fs := source.NewFileSet()
	id := fs.AddVirtual(uriToPath(uri), []byte(text))
	res := driver.CheckFile(fs, id, s.config)

	s.mu.Lock()
	stale = s.seq[uri] != seq
	s.mu.Unlock()
	if stale {
		return
	}

	diags := diagnosticsForLSP(res.Bag, fs, uri, s.maxDiagnostics)
	if err := s.publish(uri, version, diags); err != nil {
		s.logf("publish: %v", err)
	}
}

func diagnosticsForLSP(bag *diag.Bag, fs *source.FileSet, uri string, maxDiags int) []lspDiagnostic {
	items := bag.Items()
	if maxDiags > 0 && len(items) > maxDiags {
		items = items[:maxDiags]
	}

	out := make([]lspDiagnostic, 0, len(items))
	for _, d := range items {
		file := fs.Get(d.Primary.File)
		ld := lspDiagnostic{
			Range:    rangeForSpan(file, d.Primary),
			Severity: lspSeverity(d.Severity),
			Code:     d.Code.ID(),
			Source:   "afflint",
			Message:  d.Message,
		}
		for _, n := range d.Notes {
			nfile := fs.Get(n.Span.File)
			ld.RelatedInformation = append(ld.RelatedInformation, diagnosticRelatedInformation{
				Location: location{URI: uri, Range: rangeForSpan(nfile, n.Span)},
				Message:  n.Msg,
			})
		}
		out = append(out, ld)
	}
	return out
}

func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return 1
	case diag.SevWarning:
		return 2
	case diag.SevInfo:
		return 3
	default:
		return 4
	}
}

func (s *Server) publish(uri string, version int, diags []lspDiagnostic) error {
	if diags == nil {
		diags = []lspDiagnostic{}
	}
	return s.notify("textDocument/publishDiagnostics", publishDiagnosticsParams{
		URI:         uri,
		Version:     version,
		Diagnostics: diags,
	})
}

func (s *Server) respond(id json.RawMessage, result any) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return s.send(rpcMessage{JSONRPC: "2.0", ID: id, Result: raw})
}

func (s *Server) respondError(id json.RawMessage, code int, message string) error {
	return s.send(rpcMessage{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}})
}

func (s *Server) notify(method string, params any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return s.send(rpcMessage{JSONRPC: "2.0", Method: method, Params: raw})
}

func (s *Server) send(msg rpcMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	s.sendMu.Lock()
	defer s.sendMu.Unlock()
	if err := writeMessage(s.out, payload); err != nil {
		return err
	}
	return s.out.Flush()
}

// uriToPath converts a file:// URI to a local path, best effort: an opaque
// or foreign URI is used verbatim so the FileSet still gets a stable name.
func uriToPath(uri string) string {
	if !strings.HasPrefix(uri, "file://") {
		return uri
	}
	rest := strings.TrimPrefix(uri, "file://")
	if unescaped, err := url.PathUnescape(rest); err == nil {
		return unescaped
	}
	return rest
}
