package modehandler

import (
	"strings"

	"github.com/bethropolis/tagsync/internal/input"
	"github.com/bethropolis/tagsync/internal/logger"
)

// handleActionCommand edits the ':' line. Enter runs it, Esc or Backspace on an
// empty line cancels.
func (mh *ModeHandler) handleActionCommand(actionEvent input.ActionEvent) bool {
	switch actionEvent.Action {
	case input.ActionInsertRune, input.ActionEnterCommandMode:
		mh.cmdBuffer = append(mh.cmdBuffer, actionEvent.Rune)

	case input.ActionDeleteCharBackward:
		if len(mh.cmdBuffer) == 0 {
			mh.exitCommandMode()
			logger.Debugf("ModeHandler: Exiting Command Mode via Backspace")
			return true
		}
		mh.cmdBuffer = mh.cmdBuffer[:len(mh.cmdBuffer)-1]

	case input.ActionInsertNewLine:
		line := strings.TrimSpace(string(mh.cmdBuffer))
		mh.exitCommandMode()
		if line != "" {
			mh.run(line)
		}
		return true

	case input.ActionQuit:
		mh.exitCommandMode()
		logger.Debugf("ModeHandler: Canceled Command Mode via Escape")
		return true

	default:
		return false
	}

	mh.statusBar.SetCommandLine(string(mh.cmdBuffer), true)
	return true
}

func (mh *ModeHandler) exitCommandMode() {
	mh.currentMode = ModeNormal
	mh.cmdBuffer = mh.cmdBuffer[:0]
	mh.statusBar.SetCommandLine("", false)
}
