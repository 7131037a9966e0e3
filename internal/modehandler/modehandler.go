// internal/modehandler/modehandler.go
package modehandler

import (
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/tagsync/internal/core"
	"github.com/bethropolis/tagsync/internal/input"
	"github.com/bethropolis/tagsync/internal/logger"
	"github.com/bethropolis/tagsync/internal/statusbar"
)

// InputMode defines the different states for user input.
type InputMode int

const (
	ModeNormal InputMode = iota
	ModeCommand
)

func (m InputMode) String() string {
	if m == ModeCommand {
		return "COMMAND"
	}
	return "NORMAL"
}

// Host is what the mode handler drives: the active editor and the ':' commands.
type Host interface {
	ActiveEditor() *core.Editor
	Execute(line string) error
}

// ModeHandler turns key events into editor operations and ':' commands.
type ModeHandler struct {
	host           Host
	inputProcessor *input.InputProcessor
	statusBar      *statusbar.StatusBar
	tabWidth       int

	currentMode InputMode
	cmdBuffer   []rune
}

// Config holds dependencies for the ModeHandler.
type Config struct {
	Host           Host
	InputProcessor *input.InputProcessor
	StatusBar      *statusbar.StatusBar
	TabWidth       int
}

// New creates a new ModeHandler.
func New(cfg Config) *ModeHandler {
	if cfg.Host == nil || cfg.StatusBar == nil {
		panic("modehandler.New: Missing required dependencies in Config")
	}
	if cfg.InputProcessor == nil {
		cfg.InputProcessor = input.NewInputProcessor()
	}
	return &ModeHandler{
		host:           cfg.Host,
		inputProcessor: cfg.InputProcessor,
		statusBar:      cfg.StatusBar,
		tabWidth:       cfg.TabWidth,
		currentMode:    ModeNormal,
	}
}

// HandleKeyEvent decides what to do based on current mode and key event.
// Returns true if the screen needs a redraw.
func (mh *ModeHandler) HandleKeyEvent(ev *tcell.EventKey) bool {
	actionEvent := mh.inputProcessor.ProcessEvent(ev)
	switch mh.currentMode {
	case ModeCommand:
		return mh.handleActionCommand(actionEvent)
	default:
		return mh.handleActionNormal(actionEvent, ev)
	}
}

// handleActionNormal announces the key to the active editor, then applies it.
func (mh *ModeHandler) handleActionNormal(actionEvent input.ActionEvent, ev *tcell.EventKey) bool {
	switch actionEvent.Action {
	case input.ActionEnterCommandMode:
		mh.currentMode = ModeCommand
		mh.cmdBuffer = mh.cmdBuffer[:0]
		mh.statusBar.SetCommandLine("", true)
		logger.Debugf("ModeHandler: Entering Command Mode")
		return true
	case input.ActionQuit:
		return mh.run("q")
	case input.ActionForceQuit:
		return mh.run("q!")
	case input.ActionSave:
		return mh.run("w")
	case input.ActionNextBuffer:
		return mh.run("bn")
	case input.ActionPrevBuffer:
		return mh.run("bp")
	case input.ActionUnknown:
		return false
	}

	ed := mh.host.ActiveEditor()
	if ed == nil {
		return false
	}
	ed.KeyDown(ev)

	var err error
	switch actionEvent.Action {
	case input.ActionMoveUp:
		ed.MoveCursor(-1, 0)
	case input.ActionMoveDown:
		ed.MoveCursor(1, 0)
	case input.ActionMoveLeft:
		ed.MoveCursor(0, -1)
	case input.ActionMoveRight:
		ed.MoveCursor(0, 1)
	case input.ActionMovePageUp:
		ed.PageMove(-1)
	case input.ActionMovePageDown:
		ed.PageMove(1)
	case input.ActionMoveHome:
		ed.Home()
	case input.ActionMoveEnd:
		ed.End()
	case input.ActionInsertRune:
		err = ed.InsertRune(actionEvent.Rune)
	case input.ActionInsertNewLine:
		err = ed.InsertNewLine()
	case input.ActionInsertTab:
		err = ed.InsertTab(mh.tabWidth)
	case input.ActionDeleteCharBackward:
		err = ed.DeleteBackward()
	case input.ActionDeleteCharForward:
		err = ed.DeleteForward()
	case input.ActionYankLine:
		if _, err = ed.YankLine(); err == nil {
			mh.statusBar.SetTemporaryMessage("Line yanked")
		}
	case input.ActionPaste:
		var pasted bool
		if pasted, err = ed.Paste(); err == nil && !pasted {
			mh.statusBar.SetTemporaryMessage("Clipboard empty")
		}
	default:
		return false
	}
	if err != nil {
		logger.Debugf("ModeHandler: %v failed: %v", actionEvent.Action, err)
		mh.statusBar.SetTemporaryMessage("%v failed: %v", actionEvent.Action, err)
	}
	return true
}

// run executes a command line, reporting errors on the status bar.
func (mh *ModeHandler) run(line string) bool {
	if err := mh.host.Execute(line); err != nil {
		mh.statusBar.SetTemporaryMessage("Error: %v", err)
	}
	return true
}

// GetCurrentMode returns the current input mode.
func (mh *ModeHandler) GetCurrentMode() InputMode {
	return mh.currentMode
}

// GetCurrentModeString returns the mode name for the status bar.
func (mh *ModeHandler) GetCurrentModeString() string {
	return mh.currentMode.String()
}

// GetCommandBuffer returns the command being typed, or "" outside command mode.
func (mh *ModeHandler) GetCommandBuffer() string {
	if mh.currentMode == ModeCommand {
		return string(mh.cmdBuffer)
	}
	return ""
}
