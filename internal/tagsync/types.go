// Package tagsync keeps the name of a matched open/close tag pair in sync while one
// side is being edited.
//
// A Context tracks the pair under the cursor on cursor movement and key presses, and
// rewrites the other side's name after each document change. Everything it knows about
// the text comes through the collaborator interfaces below.
package tagsync

import "github.com/bethropolis/tagsync/internal/types"

// Side names one half of a tag pair.
type Side string

const (
	SideOpen  Side = "open"
	SideClose Side = "close"
)

// TagRef locates one tag. From is the '<', To is just past the '>'.
type TagRef struct {
	From types.Position
	To   types.Position
	Tag  string
}

// TagPair is a matcher result. At is the side the cursor is on.
type TagPair struct {
	Open  *TagRef
	Close *TagRef
	At    Side
}

// IsSingle reports whether the pair lacks a side: a self-closing, void or unmatched tag.
// A nil pair is single.
func (p *TagPair) IsSingle() bool {
	return p == nil || p.Open == nil || p.Close == nil
}

// Other returns the side opposite to At.
func (p *TagPair) Other() *TagRef {
	if p == nil {
		return nil
	}
	if p.At == SideOpen {
		return p.Close
	}
	return p.Open
}

// TagInfo describes the tag name under a position. An empty TagName means the
// position is not on a tag name.
type TagInfo struct {
	TagName  string
	Side     Side
	NameFrom types.Position
	NameTo   types.Position
}

// State is the tracked pair and the name it had when tracking began.
// Both fields are nil together.
type State struct {
	MatchingTag     *TagPair
	PreviousTagName *string
}

// Editor reports the cursor.
type Editor interface {
	GetCursor() types.Position
}

// Document accepts the replacement that keeps a pair in sync.
type Document interface {
	ReplaceRange(text string, from, to types.Position) error
}

// TagInfoProvider returns the tag name at a position.
type TagInfoProvider interface {
	TagInfo(pos types.Position) TagInfo
}

// TagMatcher returns the pair containing a position, or nil.
type TagMatcher interface {
	FindMatchingTag(pos types.Position) *TagPair
}

// Marker highlights text ranges. Editors that implement it get the counterpart tag
// highlighted while a pair is tracked.
type Marker interface {
	MarkRange(from, to types.Position, style string)
	ClearMarks()
}

// Config tunes a Context.
type Config struct {
	HighlightPair  bool
	HighlightStyle string
}

// DefaultHighlightStyle is the theme style used for the counterpart tag.
const DefaultHighlightStyle = "MatchingTag"

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		HighlightPair:  true,
		HighlightStyle: DefaultHighlightStyle,
	}
}
