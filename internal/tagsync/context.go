package tagsync

import (
	"unicode/utf8"

	"github.com/bethropolis/tagsync/internal/logger"
	"github.com/bethropolis/tagsync/internal/types"
)

// Context holds the tracking state for one editor over one document.
// It is not safe for concurrent use; the host delivers events one at a time.
type Context struct {
	cfg     Config
	editor  Editor
	doc     Document
	info    TagInfoProvider
	matcher TagMatcher
	marker  Marker

	state   State
	syncing bool
	renames int
}

// NewContext binds a fresh, idle Context to its collaborators. If ed also implements
// Marker and cfg.HighlightPair is set, the counterpart tag is highlighted while tracked.
func NewContext(cfg Config, ed Editor, doc Document, info TagInfoProvider, matcher TagMatcher) *Context {
	if cfg.HighlightStyle == "" {
		cfg.HighlightStyle = DefaultHighlightStyle
	}
	c := &Context{
		cfg:     cfg,
		editor:  ed,
		doc:     doc,
		info:    info,
		matcher: matcher,
	}
	if m, ok := ed.(Marker); ok && cfg.HighlightPair {
		c.marker = m
	}
	return c
}

// OnCursorOrKey re-tracks the pair under the cursor. Bind it to cursor movement and
// key presses, before the key is applied.
func (c *Context) OnCursorOrKey() {
	if c.syncing {
		return
	}
	pos, ok := c.cursor()
	if !ok {
		c.Reset()
		return
	}

	tag := c.tagInfo(pos)
	if tag.TagName == "" {
		c.Reset()
		return
	}

	pair := c.findMatchingTag(pos)
	if pair.IsSingle() {
		c.Reset()
		return
	}

	name := tag.TagName
	c.state = State{MatchingTag: pair, PreviousTagName: &name}
	c.highlight(pair)
	logger.DebugTagf("tagsync", "tracking <%s> at %s side", name, pair.At)
}

// OnDocumentChanged renames the counterpart of the tracked pair when the name under the
// cursor no longer equals the tracked name. It issues at most one replacement per call
// and ignores the change notification caused by that replacement.
func (c *Context) OnDocumentChanged() {
	if c.syncing || c.state.MatchingTag == nil {
		return
	}
	pos, ok := c.cursor()
	if !ok {
		return
	}

	current := c.tagInfo(pos)
	if current.TagName == "" || current.TagName == *c.state.PreviousTagName {
		return
	}

	live := c.findMatchingTag(pos)
	if live.IsSingle() {
		logger.DebugTagf("tagsync", "<%s> no longer paired, dropping", current.TagName)
		c.Reset()
		return
	}

	from, to := ReplaceRange(*c.state.MatchingTag, *c.state.PreviousTagName, current.TagName)
	if c.doc == nil {
		return
	}

	c.syncing = true
	err := c.doc.ReplaceRange(current.TagName, from, to)
	c.syncing = false
	if err != nil {
		logger.Warnf("tagsync: replace %v-%v with %q: %v", from, to, current.TagName, err)
		return
	}
	c.renames++
	logger.DebugTagf("tagsync", "renamed %v-%v to <%s>", from, to, current.TagName)
}

// Reset returns the Context to idle and clears any highlight.
func (c *Context) Reset() {
	if c.state.MatchingTag != nil && c.marker != nil {
		c.marker.ClearMarks()
	}
	c.state = State{}
}

// State returns a copy of the tracking state.
func (c *Context) State() State {
	return c.state
}

// Tracking reports whether a pair is tracked.
func (c *Context) Tracking() bool {
	return c.state.MatchingTag != nil
}

// Renames counts the replacements issued so far.
func (c *Context) Renames() int {
	return c.renames
}

// ReplaceRange returns the span of the counterpart's name that must be overwritten
// when the name at pair.At changes from previous to current.
//
// Editing the open tag moves the close tag only when both sit on one line; the
// recorded close position predates the edit and is shifted by the length difference.
// A newline typed inside the open tag is not accounted for.
func ReplaceRange(pair TagPair, previous, current string) (from, to types.Position) {
	if pair.At == SideOpen {
		delta := 0
		if pair.Open.From.Line == pair.Close.From.Line {
			delta = utf8.RuneCountInString(current) - utf8.RuneCountInString(previous)
		}
		from = types.Position{Line: pair.Close.From.Line, Col: pair.Close.From.Col + 2 + delta}
		to = types.Position{Line: from.Line, Col: from.Col + utf8.RuneCountInString(pair.Close.Tag)}
		return from, to
	}

	from = types.Position{Line: pair.Open.From.Line, Col: pair.Open.From.Col + 1}
	to = types.Position{Line: from.Line, Col: from.Col + utf8.RuneCountInString(pair.Open.Tag)}
	return from, to
}

func (c *Context) cursor() (types.Position, bool) {
	if c.editor == nil {
		return types.Position{}, false
	}
	return c.editor.GetCursor(), true
}

func (c *Context) tagInfo(pos types.Position) TagInfo {
	if c.info == nil {
		return TagInfo{}
	}
	return c.info.TagInfo(pos)
}

func (c *Context) findMatchingTag(pos types.Position) *TagPair {
	if c.matcher == nil {
		return nil
	}
	return c.matcher.FindMatchingTag(pos)
}

func (c *Context) highlight(pair *TagPair) {
	if c.marker == nil {
		return
	}
	c.marker.ClearMarks()
	if other := pair.Other(); other != nil {
		c.marker.MarkRange(other.From, other.To, c.cfg.HighlightStyle)
	}
}
