package core

import "github.com/bethropolis/tagsync/internal/types"

// MarkRange highlights [from, to) with a theme style.
func (e *Editor) MarkRange(from, to types.Position, style string) {
	if !from.Before(to) {
		return
	}
	e.marks = append(e.marks, types.HighlightRegion{Start: from, End: to, StyleName: style})
}

// ClearMarks removes every mark.
func (e *Editor) ClearMarks() {
	e.marks = nil
}

// Marks returns the current marks for drawing.
func (e *Editor) Marks() []types.HighlightRegion {
	return e.marks
}

// MarkAt returns the style of the mark covering pos, if any.
func (e *Editor) MarkAt(pos types.Position) (string, bool) {
	for _, m := range e.marks {
		if (types.Range{Start: m.Start, End: m.End}).Contains(pos) {
			return m.StyleName, true
		}
	}
	return "", false
}
