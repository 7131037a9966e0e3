// Package lsp serves linked editing ranges for tag names over the Language Server
// Protocol, so editors that support linked editing rename both halves of a pair.
package lsp

import (
	"log/slog"
	"sync"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"github.com/bethropolis/tagsync/internal/config"
	"github.com/bethropolis/tagsync/internal/document"
	"github.com/bethropolis/tagsync/internal/event"
	"github.com/bethropolis/tagsync/internal/logger"
	"github.com/bethropolis/tagsync/internal/markup"
)

// Server keeps the open markup documents of one client.
type Server struct {
	cfg     *config.Config
	handler protocol.Handler

	mu   sync.Mutex
	docs map[protocol.DocumentUri]*openDocument
}

// openDocument is a client document and the matcher parsing it.
type openDocument struct {
	doc     *document.Document
	matcher *markup.Matcher
	sub     event.SubscriptionID
	version protocol.Integer
}

// NewServer creates a server. A nil cfg means the defaults.
func NewServer(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	markup.Configure(cfg.TagSync.Extensions)

	s := &Server{
		cfg:  cfg,
		docs: make(map[protocol.DocumentUri]*openDocument),
	}
	s.handler = protocol.Handler{
		Initialize:                     s.initialize,
		Initialized:                    s.initialized,
		Shutdown:                       s.shutdown,
		SetTrace:                       s.setTrace,
		TextDocumentDidOpen:            s.textDocumentDidOpen,
		TextDocumentDidChange:          s.textDocumentDidChange,
		TextDocumentDidClose:           s.textDocumentDidClose,
		TextDocumentLinkedEditingRange: s.textDocumentLinkedEditingRange,
	}
	return s
}

// RunStdio serves one client on stdin/stdout until it exits.
func (s *Server) RunStdio() error {
	verbosity := 1
	if logger.ParseLevel(s.cfg.Logger.LogLevel) <= slog.LevelDebug {
		verbosity = 2
	}
	var path *string
	if p := s.cfg.Logger.LogFilePath; p != "" && p != "-" {
		path = &p
	}
	commonlog.Configure(verbosity, path) // glsp logs through commonlog

	logger.Infof("LSP: serving on stdio")
	return server.NewServer(&s.handler, config.AppName, false).RunStdio()
}

// Documents returns how many documents are open.
func (s *Server) Documents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func (s *Server) initialize(context *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := s.handler.CreateServerCapabilities()

	syncKind := protocol.TextDocumentSyncKindIncremental
	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: &protocol.True,
		Change:    &syncKind,
	}

	if params.ClientInfo != nil {
		logger.Infof("LSP: client %s", params.ClientInfo.Name)
	}
	version := config.Version
	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    config.AppName,
			Version: &version,
		},
	}, nil
}

func (s *Server) initialized(context *glsp.Context, params *protocol.InitializedParams) error {
	logger.Debugf("LSP: client initialized")
	return nil
}

func (s *Server) shutdown(context *glsp.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for uri, od := range s.docs {
		od.close()
		delete(s.docs, uri)
	}
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (s *Server) setTrace(context *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (od *openDocument) close() {
	od.doc.Off(od.sub)
	od.matcher.Close()
	od.doc.ReleaseRef()
}
