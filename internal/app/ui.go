package app

import (
	"github.com/bethropolis/tagsync/internal/logger"
	"github.com/bethropolis/tagsync/internal/tui"
)

// drawEditor clears the screen and redraws the current editor and the status bar.
func (a *App) drawEditor() {
	ed := a.host.ActiveEditor()
	activeTheme := a.themes.Current()
	width, height := a.tuiManager.Size()

	a.tuiManager.Clear()
	if ed != nil {
		layout := tui.NewLayout(width, height, ed.GetBuffer().LineCount(), a.cfg.Editor.StatusBarHeight, a.cfg.Editor.TabWidth)
		ed.SetViewSize(layout.TextWidth, height)
		logger.DebugTagf("draw", "screen %dx%d, gutter %d, view height %d", width, height, layout.GutterWidth, layout.ViewHeight)
		a.updateStatusBarContent()
		tui.DrawBuffer(a.tuiManager, ed, activeTheme, layout)
		a.statusBar.Draw(a.tuiManager.GetScreen(), width, height, activeTheme)
		tui.DrawCursor(a.tuiManager, ed, layout)
	} else {
		a.statusBar.Draw(a.tuiManager.GetScreen(), width, height, activeTheme)
		a.tuiManager.GetScreen().HideCursor()
	}
	a.tuiManager.Show()
}

// updateStatusBarContent pushes the current editor state to the status bar.
func (a *App) updateStatusBarContent() {
	ed := a.host.ActiveEditor()
	if ed == nil {
		return
	}
	buf := ed.GetBuffer()
	a.statusBar.SetFileInfo(buf.FilePath(), buf.IsModified())
	a.statusBar.SetCursorInfo(ed.GetCursor())
	a.statusBar.SetEditorMode(a.modeHandler.GetCurrentModeString())
	a.statusBar.SetSegments(a.host.Plugins().StatusTexts())
}
