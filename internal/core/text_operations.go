package core

import (
	"fmt"
	"unicode/utf8"

	"github.com/bethropolis/tagsync/internal/types"
)

// InsertRune types r at the cursor. The cursor follows the inserted text through the
// document change.
func (e *Editor) InsertRune(r rune) error {
	return e.InsertText(string(r))
}

// InsertText inserts text at the cursor as one change.
func (e *Editor) InsertText(text string) error {
	if text == "" {
		return nil
	}
	e.begin()
	defer e.end()

	if err := e.doc.Insert(e.Cursor, text); err != nil {
		return fmt.Errorf("insert at %v: %w", e.Cursor, err)
	}
	e.ScrollToCursor()
	return nil
}

// InsertNewLine splits the line at the cursor.
func (e *Editor) InsertNewLine() error {
	return e.InsertText("\n")
}

// InsertTab inserts tabWidth spaces, or a tab when tabWidth is not positive.
func (e *Editor) InsertTab(tabWidth int) error {
	if tabWidth <= 0 {
		return e.InsertText("\t")
	}
	spaces := make([]byte, tabWidth)
	for i := range spaces {
		spaces[i] = ' '
	}
	return e.InsertText(string(spaces))
}

// DeleteBackward removes the rune before the cursor, joining lines at column 0.
func (e *Editor) DeleteBackward() error {
	start := e.Cursor
	if start.Col > 0 {
		start.Col--
	} else if start.Line > 0 {
		start.Line--
		prev, err := e.GetBuffer().Line(start.Line)
		if err != nil {
			return fmt.Errorf("cannot get previous line %d: %w", start.Line, err)
		}
		start.Col = utf8.RuneCount(prev)
	} else {
		return nil
	}
	return e.deleteRange(start, e.Cursor)
}

// DeleteForward removes the rune under the cursor, joining lines at the line end.
func (e *Editor) DeleteForward() error {
	end := e.Cursor
	buf := e.GetBuffer()
	lineBytes, err := buf.Line(e.Cursor.Line)
	if err != nil {
		return fmt.Errorf("cannot get current line %d: %w", e.Cursor.Line, err)
	}
	if end.Col < utf8.RuneCount(lineBytes) {
		end.Col++
	} else if end.Line < buf.LineCount()-1 {
		end.Line++
		end.Col = 0
	} else {
		return nil
	}
	return e.deleteRange(e.Cursor, end)
}

func (e *Editor) deleteRange(from, to types.Position) error {
	e.begin()
	defer e.end()

	if err := e.doc.Delete(from, to); err != nil {
		return fmt.Errorf("delete %v-%v: %w", from, to, err)
	}
	e.ScrollToCursor()
	return nil
}
