// Package markup finds tag names and open/close tag pairs in markup documents.
package markup

import (
	"path/filepath"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/html"

	"github.com/bethropolis/tagsync/internal/logger"
)

// Language describes a markup language the matcher can parse.
type Language struct {
	Name           string
	TreeSitterLang *sitter.Language
	Extensions     []string
}

// DefaultExtensions are the static HTML file types.
var DefaultExtensions = []string{".html", ".htm", ".xhtml"}

var registry struct {
	sync.RWMutex
	extToLanguage map[string]*Language
}

func init() {
	Configure(DefaultExtensions)
}

// Configure resets the registry so that exts map to the HTML grammar.
// An empty list restores DefaultExtensions.
func Configure(exts []string) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	lang := &Language{
		Name:           "HTML",
		TreeSitterLang: html.GetLanguage(),
		Extensions:     normalizeExtensions(exts),
	}

	registry.Lock()
	defer registry.Unlock()
	registry.extToLanguage = make(map[string]*Language, len(lang.Extensions))
	for _, ext := range lang.Extensions {
		registry.extToLanguage[ext] = lang
	}
	logger.Debugf("markup: %s registered for %v", lang.Name, lang.Extensions)
}

// ForFile returns the language for a path, or nil.
func ForFile(path string) *Language {
	registry.RLock()
	defer registry.RUnlock()
	return registry.extToLanguage[strings.ToLower(filepath.Ext(path))]
}

// IsStaticMarkupFile reports whether path has a static markup extension.
func IsStaticMarkupFile(path string) bool {
	return ForFile(path) != nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		out = append(out, ext)
	}
	return out
}
