package core

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"github.com/bethropolis/tagsync/internal/logger"
)

// MoveCursor moves the cursor, wrapping across line ends, and adjusts the viewport.
func (e *Editor) MoveCursor(deltaLine, deltaCol int) {
	e.begin()
	defer e.end()

	buf := e.GetBuffer()
	lineCount := buf.LineCount()

	if deltaLine == 0 && lineCount > 0 {
		if deltaCol > 0 {
			if lineBytes, err := buf.Line(e.Cursor.Line); err == nil {
				if e.Cursor.Col >= utf8.RuneCount(lineBytes) && e.Cursor.Line < lineCount-1 {
					e.Cursor.Line++
					e.Cursor.Col = 0
					e.ScrollToCursor()
					return
				}
			}
		} else if deltaCol < 0 && e.Cursor.Col <= 0 && e.Cursor.Line > 0 {
			e.Cursor.Line--
			if prev, err := buf.Line(e.Cursor.Line); err == nil {
				e.Cursor.Col = utf8.RuneCount(prev)
			} else {
				e.Cursor.Col = 0
			}
			e.ScrollToCursor()
			return
		}
	}

	target := e.Cursor
	target.Line += deltaLine
	target.Col += deltaCol
	e.Cursor = buf.Clamp(target)
	e.ScrollToCursor()
}

// VisualColumn computes the screen width of the first runeIndex runes of line.
func VisualColumn(line []byte, runeIndex int) int {
	if runeIndex <= 0 {
		return 0
	}
	visualWidth := 0
	currentRuneIndex := 0
	gr := uniseg.NewGraphemes(string(line))
	for gr.Next() {
		if currentRuneIndex >= runeIndex {
			break
		}
		visualWidth += gr.Width()
		currentRuneIndex += len(gr.Runes())
	}
	return visualWidth
}

// ScrollToCursor adjusts the viewport incorporating ScrollOff and visual width.
func (e *Editor) ScrollToCursor() {
	if e.viewHeight <= 0 || e.viewWidth <= 0 {
		return
	}

	scrollOff := e.ScrollOff
	if scrollOff*2 >= e.viewHeight {
		scrollOff = (e.viewHeight - 1) / 2
	}

	if e.Cursor.Line < e.ViewportY+scrollOff {
		e.ViewportY = e.Cursor.Line - scrollOff
	} else if e.Cursor.Line >= e.ViewportY+e.viewHeight-scrollOff {
		e.ViewportY = e.Cursor.Line - e.viewHeight + 1 + scrollOff
	}

	cursorVisualCol := 0
	if lineBytes, err := e.GetBuffer().Line(e.Cursor.Line); err == nil {
		cursorVisualCol = VisualColumn(lineBytes, e.Cursor.Col)
	} else {
		logger.Debugf("ScrollToCursor: Error getting line %d: %v", e.Cursor.Line, err)
	}

	if cursorVisualCol < e.ViewportX {
		e.ViewportX = cursorVisualCol
	} else if cursorVisualCol >= e.ViewportX+e.viewWidth {
		e.ViewportX = cursorVisualCol - e.viewWidth + 1
	}

	if e.ViewportY < 0 {
		e.ViewportY = 0
	}
	if e.ViewportX < 0 {
		e.ViewportX = 0
	}
}

// PageMove moves the cursor and viewport by whole pages; deltaPages is usually +1 or -1.
func (e *Editor) PageMove(deltaPages int) {
	if e.viewHeight <= 0 {
		return
	}
	e.begin()
	defer e.end()

	lineCount := e.GetBuffer().LineCount()
	target := e.Cursor
	target.Line += e.viewHeight * deltaPages
	e.Cursor = e.GetBuffer().Clamp(target)

	e.ViewportY += e.viewHeight * deltaPages
	maxViewportY := lineCount - e.viewHeight
	if maxViewportY < 0 {
		maxViewportY = 0
	}
	if e.ViewportY > maxViewportY {
		e.ViewportY = maxViewportY
	}
	if e.ViewportY < 0 {
		e.ViewportY = 0
	}
	e.ScrollToCursor()
}

// Home moves the cursor to column 0.
func (e *Editor) Home() {
	e.begin()
	defer e.end()
	e.Cursor.Col = 0
	e.ScrollToCursor()
}

// End moves the cursor past the last rune of the line.
func (e *Editor) End() {
	e.begin()
	defer e.end()
	lineBytes, err := e.GetBuffer().Line(e.Cursor.Line)
	if err != nil {
		logger.Debugf("Error getting line %d for End key: %v", e.Cursor.Line, err)
		e.Cursor.Col = 0
	} else {
		e.Cursor.Col = utf8.RuneCount(lineBytes)
	}
	e.ScrollToCursor()
}
