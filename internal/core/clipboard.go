package core

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/bethropolis/tagsync/internal/logger"
)

// YankLine copies the cursor's line into the register, and into the system
// clipboard when enabled.
func (e *Editor) YankLine() (bool, error) {
	line, err := e.GetBuffer().Line(e.Cursor.Line)
	if err != nil {
		return false, fmt.Errorf("error getting line %d for yank: %w", e.Cursor.Line, err)
	}
	e.clipboard = append(append([]byte(nil), line...), '\n')

	if e.systemClipboard {
		if err := clipboard.WriteAll(string(e.clipboard)); err != nil {
			logger.Warnf("Editor: system clipboard write failed, kept internal copy: %v", err)
		}
	}
	logger.Debugf("Editor: Yanked %d bytes", len(e.clipboard))
	return true, nil
}

// Paste inserts the clipboard at the cursor as one change.
// Returns false when there is nothing to paste.
func (e *Editor) Paste() (bool, error) {
	content := e.clipboard
	if e.systemClipboard {
		text, err := clipboard.ReadAll()
		if err != nil {
			logger.Warnf("Editor: system clipboard read failed, using internal register: %v", err)
		} else {
			content = []byte(text)
		}
	}
	if len(content) == 0 {
		return false, nil
	}

	if err := e.InsertText(string(content)); err != nil {
		return false, fmt.Errorf("paste failed: %w", err)
	}
	logger.Debugf("Editor: Pasted %d bytes", len(content))
	return true, nil
}

// SetRegister replaces the internal register.
func (e *Editor) SetRegister(text string) {
	e.clipboard = []byte(text)
}
