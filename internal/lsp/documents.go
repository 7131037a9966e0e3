package lsp

import (
	"fmt"
	"net/url"

	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"github.com/bethropolis/tagsync/internal/buffer"
	"github.com/bethropolis/tagsync/internal/document"
	"github.com/bethropolis/tagsync/internal/event"
	"github.com/bethropolis/tagsync/internal/logger"
	"github.com/bethropolis/tagsync/internal/markup"
)

// languageFor returns the markup language of a document URI, or nil.
func languageFor(uri protocol.DocumentUri) *markup.Language {
	u, err := url.Parse(uri)
	if err != nil {
		return nil
	}
	return markup.ForFile(u.Path)
}

func (s *Server) textDocumentDidOpen(context *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	item := params.TextDocument
	lang := languageFor(item.URI)
	if lang == nil {
		logger.DebugTagf("lsp", "ignoring %s", item.URI)
		return nil
	}

	doc := document.New(buffer.NewSliceBufferFromText(item.Text))
	matcher, err := markup.NewMatcher(doc, lang, s.cfg.TagSync.TagNamePattern)
	if err != nil {
		return err
	}
	od := &openDocument{doc: doc, matcher: matcher, version: item.Version}
	od.sub = doc.On(event.TypeDocumentChanged, func(e event.Event) bool {
		if change, ok := e.Data.(event.DocumentChangedData); ok {
			matcher.Invalidate(change.Edit)
		}
		return false
	})
	doc.AddRef()

	s.mu.Lock()
	defer s.mu.Unlock()
	if old, ok := s.docs[item.URI]; ok {
		old.close()
	}
	s.docs[item.URI] = od
	logger.Debugf("LSP: opened %s (%s)", item.URI, lang.Name)
	return nil
}

func (s *Server) textDocumentDidChange(context *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	uri := params.TextDocument.URI

	s.mu.Lock()
	defer s.mu.Unlock()
	od, ok := s.docs[uri]
	if !ok {
		return nil
	}
	for _, raw := range params.ContentChanges {
		var err error
		switch change := raw.(type) {
		case protocol.TextDocumentContentChangeEvent:
			if change.Range == nil {
				err = od.doc.SetText(change.Text)
				break
			}
			from := toPosition(od.doc.Buffer(), change.Range.Start)
			to := toPosition(od.doc.Buffer(), change.Range.End)
			err = od.doc.ReplaceRange(change.Text, from, to)
		case protocol.TextDocumentContentChangeEventWhole:
			err = od.doc.SetText(change.Text)
		default:
			err = fmt.Errorf("unexpected change event type %T", raw)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", uri, err)
		}
	}
	od.version = params.TextDocument.Version
	return nil
}

func (s *Server) textDocumentDidClose(context *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if od, ok := s.docs[params.TextDocument.URI]; ok {
		od.close()
		delete(s.docs, params.TextDocument.URI)
		logger.Debugf("LSP: closed %s", params.TextDocument.URI)
	}
	return nil
}

// text returns the current content of an open document, for tests and logging.
func (s *Server) text(uri protocol.DocumentUri) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	od, ok := s.docs[uri]
	if !ok {
		return "", false
	}
	return od.doc.Text(), true
}
