package app

import (
	"path/filepath"

	"github.com/bethropolis/tagsync/internal/event"
	"github.com/bethropolis/tagsync/internal/logger"
)

// handleBufferSaved confirms a save on the status bar.
func (a *App) handleBufferSaved(e event.Event) bool {
	if data, ok := e.Data.(event.BufferSavedData); ok {
		a.statusBar.SetTemporaryMessage("Buffer saved to %s", data.FilePath)
	}
	return false
}

// handleCurrentFileChanged names the new current file.
func (a *App) handleCurrentFileChanged(e event.Event) bool {
	data, ok := e.Data.(event.CurrentFileChangedData)
	if !ok {
		logger.Warnf("App: unexpected %v payload %T", e.Type, e.Data)
		return false
	}
	if data.NewFile != nil && data.NewFile.FullPath != "" {
		logger.Debugf("App: editing %s", data.NewFile.FullPath)
		a.statusBar.SetTemporaryMessage("\"%s\"", filepath.Base(data.NewFile.FullPath))
	}
	return false
}
