// internal/tui/drawing.go
package tui

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/tagsync/internal/core"
	"github.com/bethropolis/tagsync/internal/logger"
	"github.com/bethropolis/tagsync/internal/theme"
	"github.com/bethropolis/tagsync/internal/types"
)

const lineNumberPadding = 1

// Layout is the split of the screen between gutter, text and status bar.
type Layout struct {
	Width, Height   int
	GutterWidth     int
	TextWidth       int
	ViewHeight      int
	StatusBarHeight int
	TabWidth        int
}

// NewLayout computes the layout for a screen of width x height showing lineCount lines.
func NewLayout(width, height, lineCount, statusBarHeight, tabWidth int) Layout {
	if lineCount <= 0 {
		lineCount = 1
	}
	if tabWidth <= 0 {
		tabWidth = 4
	}
	gutter := int(math.Log10(float64(lineCount))) + 1 + lineNumberPadding
	if gutter >= width { // Not enough space for gutter and text
		gutter = 0
	}
	viewHeight := height - statusBarHeight
	if viewHeight < 0 {
		viewHeight = 0
	}
	return Layout{
		Width:           width,
		Height:          height,
		GutterWidth:     gutter,
		TextWidth:       width - gutter,
		ViewHeight:      viewHeight,
		StatusBarHeight: statusBarHeight,
		TabWidth:        tabWidth,
	}
}

// isPositionWithin checks if pos is within [start, end).
func isPositionWithin(pos, start, end types.Position) bool {
	if pos.Line < start.Line || pos.Line > end.Line {
		return false
	}
	if pos.Line == start.Line && pos.Col < start.Col {
		return false
	}
	if pos.Line == end.Line && pos.Col >= end.Col {
		return false
	}
	return true
}

// DrawBuffer draws the visible part of the editor's document. Marks are drawn with
// the theme style they name.
func DrawBuffer(t *TUI, editor *core.Editor, activeTheme *theme.Theme, layout Layout) {
	if activeTheme == nil {
		logger.Warnf("DrawBuffer called with nil theme, using tcell default.")
		activeTheme = &theme.Theme{Styles: map[string]tcell.Style{theme.StyleDefault: tcell.StyleDefault}}
	}
	if layout.ViewHeight <= 0 || layout.Width <= 0 {
		return
	}

	defaultStyle := activeTheme.GetStyle(theme.StyleDefault)
	lineNumberStyle := activeTheme.GetStyle(theme.StyleLineNumber)
	viewY, viewX := editor.GetViewport()
	lines := editor.GetBuffer().Lines()
	digits := layout.GutterWidth - lineNumberPadding

	visibleMarks := make(map[int][]types.HighlightRegion)
	for _, m := range editor.Marks() {
		for lineIdx := m.Start.Line; lineIdx <= m.End.Line; lineIdx++ {
			if lineIdx >= viewY && lineIdx < viewY+layout.ViewHeight {
				visibleMarks[lineIdx] = append(visibleMarks[lineIdx], m)
			}
		}
	}

	for screenY := 0; screenY < layout.ViewHeight; screenY++ {
		bufferLineIdx := screenY + viewY

		for fillX := 0; fillX < layout.Width; fillX++ {
			t.screen.SetContent(fillX, screenY, ' ', nil, defaultStyle)
		}

		if bufferLineIdx >= len(lines) {
			continue
		}

		if layout.GutterWidth > 0 {
			style := lineNumberStyle
			if editor.GetCursor().Line == bufferLineIdx {
				style = lineNumberStyle.Bold(true)
			}
			for i, r := range fmt.Sprintf("%*d", digits, bufferLineIdx+1) {
				if i < digits {
					t.screen.SetContent(i, screenY, r, nil, style)
				}
			}
		}

		gr := uniseg.NewGraphemes(string(lines[bufferLineIdx]))
		lineMarks := visibleMarks[bufferLineIdx]
		visualX := 0
		runeIndex := 0

		for gr.Next() {
			clusterRunes := gr.Runes()
			clusterWidth := gr.Width()
			if clusterRunes[0] == '\t' {
				clusterWidth = layout.TabWidth - (visualX % layout.TabWidth)
			}
			screenX := visualX - viewX + layout.GutterWidth

			if visualX+clusterWidth > viewX && screenX < layout.Width && screenX >= layout.GutterWidth {
				style := defaultStyle
				pos := types.Position{Line: bufferLineIdx, Col: runeIndex}
				for _, m := range lineMarks {
					if isPositionWithin(pos, m.Start, m.End) {
						style = activeTheme.GetStyle(m.StyleName)
						break
					}
				}

				if clusterRunes[0] == '\t' {
					for i := 0; i < clusterWidth && screenX+i < layout.Width; i++ {
						t.screen.SetContent(screenX+i, screenY, ' ', nil, style)
					}
				} else {
					t.screen.SetContent(screenX, screenY, clusterRunes[0], clusterRunes[1:], style)
					for cw := 1; cw < clusterWidth && screenX+cw < layout.Width; cw++ {
						t.screen.SetContent(screenX+cw, screenY, ' ', nil, style)
					}
				}
			}

			visualX += clusterWidth
			runeIndex += len(clusterRunes)
			if visualX >= viewX+layout.TextWidth {
				break
			}
		}
	}
}

// DrawCursor positions the terminal cursor, hiding it when it is off screen.
func DrawCursor(t *TUI, editor *core.Editor, layout Layout) {
	cursor := editor.GetCursor()
	viewY, viewX := editor.GetViewport()

	visualCol := 0
	if lineBytes, err := editor.GetBuffer().Line(cursor.Line); err == nil {
		visualCol = core.VisualColumn(lineBytes, cursor.Col)
	} else {
		logger.Debugf("DrawCursor: Error getting line %d: %v", cursor.Line, err)
	}

	screenX := visualCol - viewX + layout.GutterWidth
	screenY := cursor.Line - viewY
	if screenX < layout.GutterWidth || screenX >= layout.Width || screenY < 0 || screenY >= layout.ViewHeight {
		t.screen.HideCursor()
		return
	}
	t.screen.ShowCursor(screenX, screenY)
}
