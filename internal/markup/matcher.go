package markup

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bethropolis/tagsync/internal/logger"
	"github.com/bethropolis/tagsync/internal/tagsync"
	"github.com/bethropolis/tagsync/internal/types"
	"github.com/bethropolis/tagsync/internal/utils"
)

// DefaultTagNamePattern accepts the tag names that can be kept in sync.
const DefaultTagNamePattern = `^[A-Za-z0-9]+$`

// Source is the text a Matcher reads. Version must change whenever the text does.
type Source interface {
	Bytes() []byte
	Version() uint64
}

// token is one start, end or self-closing tag.
type token struct {
	kind     tagsync.Side
	single   bool // self-closing or void
	name     string
	from, to types.Position
	nameFrom types.Position
	nameTo   types.Position
	partner  int // index of the paired token, -1 if none
}

// Matcher answers tag queries over a Source, re-parsing lazily when the version moves.
type Matcher struct {
	mu      sync.Mutex
	src     Source
	lang    *Language
	parser  *sitter.Parser
	pattern *regexp.Regexp

	tree    *sitter.Tree
	version uint64
	parsed  bool
	pending []types.EditInfo
	tokens  []token
}

// NewMatcher creates a matcher for src. An empty pattern means DefaultTagNamePattern.
func NewMatcher(src Source, lang *Language, pattern string) (*Matcher, error) {
	if lang == nil {
		return nil, fmt.Errorf("markup: no language")
	}
	if pattern == "" {
		pattern = DefaultTagNamePattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("markup: tag name pattern %q: %w", pattern, err)
	}
	parser := sitter.NewParser()
	parser.SetLanguage(lang.TreeSitterLang)
	return &Matcher{
		src:     src,
		lang:    lang,
		parser:  parser,
		pattern: re,
	}, nil
}

// Invalidate records an edit so the next query can re-parse incrementally.
func (m *Matcher) Invalidate(edit types.EditInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending = append(m.pending, edit)
}

// Close releases the syntax tree.
func (m *Matcher) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tree != nil {
		m.tree.Close()
		m.tree = nil
	}
	m.parsed = false
}

// TagInfo returns the tag name at pos. Both ends of the name count as on it, so a
// cursor just after '<' or just before '>' still reports the name.
func (m *Matcher) TagInfo(pos types.Position) tagsync.TagInfo {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureParsed(); err != nil {
		logger.Warnf("markup: %v", err)
		return tagsync.TagInfo{}
	}
	i := m.tokenAt(pos)
	if i < 0 {
		return tagsync.TagInfo{}
	}
	t := m.tokens[i]
	return tagsync.TagInfo{TagName: t.name, Side: t.kind, NameFrom: t.nameFrom, NameTo: t.nameTo}
}

// FindMatchingTag returns the pair whose name contains pos, or nil when pos is not on
// a tag name. Void, self-closing and unmatched tags come back single.
func (m *Matcher) FindMatchingTag(pos types.Position) *tagsync.TagPair {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureParsed(); err != nil {
		logger.Warnf("markup: %v", err)
		return nil
	}
	i := m.tokenAt(pos)
	if i < 0 {
		return nil
	}
	return m.pairFor(i)
}

// Pairs returns every matched open/close pair in document order of the open tag.
func (m *Matcher) Pairs() []tagsync.TagPair {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.ensureParsed(); err != nil {
		logger.Warnf("markup: %v", err)
		return nil
	}
	var pairs []tagsync.TagPair
	for i, t := range m.tokens {
		if t.kind == tagsync.SideOpen && t.partner >= 0 {
			pairs = append(pairs, *m.pairFor(i))
		}
	}
	return pairs
}

func (m *Matcher) pairFor(i int) *tagsync.TagPair {
	t := m.tokens[i]
	self := t.ref()
	pair := &tagsync.TagPair{At: t.kind}
	if t.kind == tagsync.SideOpen {
		pair.Open = &self
	} else {
		pair.Close = &self
	}
	if t.partner >= 0 {
		other := m.tokens[t.partner].ref()
		if t.kind == tagsync.SideOpen {
			pair.Close = &other
		} else {
			pair.Open = &other
		}
	}
	return pair
}

func (t token) ref() tagsync.TagRef {
	return tagsync.TagRef{From: t.from, To: t.to, Tag: t.name}
}

// tokenAt finds the tag whose accepted name spans pos.
func (m *Matcher) tokenAt(pos types.Position) int {
	for i, t := range m.tokens {
		if pos.Before(t.nameFrom) {
			break
		}
		if t.nameTo.Before(pos) {
			continue
		}
		if m.pattern.MatchString(t.name) {
			return i
		}
	}
	return -1
}

func (m *Matcher) ensureParsed() error {
	version := m.src.Version()
	if m.parsed && version == m.version {
		m.pending = m.pending[:0]
		return nil
	}

	content := m.src.Bytes()
	old := m.tree
	if old != nil && uint64(len(m.pending)) == version-m.version {
		for _, edit := range m.pending {
			old.Edit(edit.ToInput())
		}
	} else {
		old = nil
	}
	m.pending = m.pending[:0]

	tree, err := m.parser.ParseCtx(context.Background(), old, content)
	if err != nil {
		return fmt.Errorf("parse %s: %w", m.lang.Name, err)
	}
	if m.tree != nil {
		m.tree.Close()
	}
	m.tree = tree
	m.version = version
	m.parsed = true
	m.tokens = collectTokens(tree.RootNode(), content)
	logger.DebugTagf("markup", "parsed v%d, %d tags, incremental=%t", version, len(m.tokens), old != nil)
	return nil
}

func collectTokens(root *sitter.Node, content []byte) []token {
	lines := bytes.Split(content, []byte("\n"))
	starts := make([]int, len(lines))
	for i, off := 1, 0; i < len(lines); i++ {
		off += len(lines[i-1]) + 1
		starts[i] = off
	}
	at := func(p sitter.Point) types.Position {
		row := int(p.Row)
		if row >= len(lines) {
			return types.Position{Line: row}
		}
		return types.Position{Line: row, Col: utils.ByteToRuneCol(lines[row], int(p.Column))}
	}
	offsetAt := func(off int) types.Position {
		row := sort.SearchInts(starts, off+1) - 1
		return at(sitter.Point{Row: uint32(row), Column: uint32(off - starts[row])})
	}

	var tokens []token
	var covered []span
	var broken []*sitter.Node
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if tok, ok := tagToken(n, content, at); ok {
			tokens = append(tokens, tok)
			covered = append(covered, span{int(n.StartByte()), int(n.EndByte())})
			return
		}
		switch n.Type() {
		case "comment", "raw_text":
			covered = append(covered, span{int(n.StartByte()), int(n.EndByte())})
			return
		case "ERROR":
			broken = append(broken, n)
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(root)

	// The scanner gives up on some end tags mid-rename, e.g. "</sdiv>" after
	// "<sediv>", and leaves an ERROR node. Read those end tags back from the text.
	for _, n := range broken {
		from, to := int(n.StartByte()), int(n.EndByte())
		for k := 0; k < 2 && from > 0 && (content[from-1] == '<' || content[from-1] == '/'); k++ {
			from--
		}
		for i := from; i < to && i+1 < len(content); i++ {
			if content[i] != '<' || content[i+1] != '/' || isCovered(covered, i) {
				continue
			}
			tok, end, ok := lexEndTag(content, i, offsetAt)
			if !ok {
				continue
			}
			tokens = append(tokens, tok)
			covered = append(covered, span{i, end})
		}
	}

	sort.SliceStable(tokens, func(i, j int) bool { return tokens[i].from.Before(tokens[j].from) })
	pairTokens(tokens)
	return tokens
}

// span is a half-open byte range of the source.
type span struct{ from, to int }

func isCovered(spans []span, off int) bool {
	for _, s := range spans {
		if off >= s.from && off < s.to {
			return true
		}
	}
	return false
}

// lexEndTag reads the end tag whose "</" starts at off and returns it with the
// byte offset just past it.
func lexEndTag(content []byte, off int, pos func(int) types.Position) (token, int, bool) {
	nameFrom := off + 2
	nameTo := nameFrom
	for nameTo < len(content) {
		r, size := utf8.DecodeRune(content[nameTo:])
		if !isTagNameRune(r) {
			break
		}
		nameTo += size
	}
	if nameTo == nameFrom {
		return token{}, 0, false
	}

	end := nameTo
	for i := nameTo; i < len(content) && content[i] != '<'; i++ {
		if content[i] == '>' {
			end = i + 1
			break
		}
	}
	return token{
		kind:     tagsync.SideClose,
		name:     string(content[nameFrom:nameTo]),
		from:     pos(off),
		to:       pos(end),
		nameFrom: pos(nameFrom),
		nameTo:   pos(nameTo),
		partner:  -1,
	}, end, true
}

func isTagNameRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == ':'
}

func tagToken(n *sitter.Node, content []byte, at func(sitter.Point) types.Position) (token, bool) {
	var kind tagsync.Side
	single := false
	nameType := "tag_name"
	switch n.Type() {
	case "start_tag":
		kind = tagsync.SideOpen
	case "self_closing_tag":
		kind = tagsync.SideOpen
		single = true
	case "end_tag":
		kind = tagsync.SideClose
	case "erroneous_end_tag":
		kind = tagsync.SideClose
		nameType = "erroneous_end_tag_name"
	default:
		return token{}, false
	}

	var nameNode *sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		if c := n.NamedChild(i); c.Type() == nameType {
			nameNode = c
			break
		}
	}
	if nameNode == nil || nameNode.EndByte() == nameNode.StartByte() {
		return token{}, false
	}

	name := nameNode.Content(content)
	if kind == tagsync.SideOpen && IsVoidElement(name) {
		single = true
	}
	return token{
		kind:     kind,
		single:   single,
		name:     name,
		from:     at(n.StartPoint()),
		to:       at(n.EndPoint()),
		nameFrom: at(nameNode.StartPoint()),
		nameTo:   at(nameNode.EndPoint()),
		partner:  -1,
	}, true
}

// pairTokens links open and close tags by nesting. A close tag takes the innermost
// open tag unless that one can be closed implicitly and a same-named open tag lies
// further out, so a renamed tag keeps its partner while it is being edited.
func pairTokens(tokens []token) {
	var stack []int
	for i := range tokens {
		t := &tokens[i]
		if t.kind == tagsync.SideOpen {
			if t.single {
				continue
			}
			if n := len(stack); n > 0 {
				top := tokens[stack[n-1]].name
				if strings.EqualFold(top, t.name) && closesImplicitly(top) {
					stack = stack[:n-1]
				}
			}
			stack = append(stack, i)
			continue
		}

		if len(stack) == 0 {
			continue
		}
		match := len(stack) - 1
		if !strings.EqualFold(tokens[stack[match]].name, t.name) {
			for j := len(stack) - 1; j >= 0; j-- {
				if strings.EqualFold(tokens[stack[j]].name, t.name) {
					match = j
					break
				}
				if !closesImplicitly(tokens[stack[j]].name) {
					break
				}
			}
		}
		open := stack[match]
		tokens[open].partner = i
		t.partner = open
		stack = stack[:match]
	}
}

var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "param": true,
	"source": true, "track": true, "wbr": true,
}

// IsVoidElement reports whether name never has a closing tag.
func IsVoidElement(name string) bool {
	return voidElements[strings.ToLower(name)]
}

// elements whose end tag may be omitted
var optionalEnd = map[string]bool{
	"p": true, "li": true, "dt": true, "dd": true, "option": true, "optgroup": true,
	"tr": true, "td": true, "th": true, "thead": true, "tbody": true, "tfoot": true,
	"colgroup": true, "caption": true, "rb": true, "rt": true, "rtc": true, "rp": true,
	"html": true, "head": true, "body": true,
}

func closesImplicitly(name string) bool {
	return optionalEnd[strings.ToLower(name)]
}
