// internal/input/action.go
package input

// Action represents an operation decoded from a key.
type Action int

const (
	// --- Meta Actions ---
	ActionUnknown   Action = iota
	ActionQuit             // Esc / Ctrl+C: quit unless there are unsaved changes
	ActionForceQuit        // Ctrl+Q
	ActionSave             // Ctrl+S

	// --- Cursor Movement ---
	ActionMoveUp
	ActionMoveDown
	ActionMoveLeft
	ActionMoveRight
	ActionMovePageUp
	ActionMovePageDown
	ActionMoveHome
	ActionMoveEnd

	// --- Text Manipulation ---
	ActionInsertRune // Requires Rune argument
	ActionInsertNewLine
	ActionInsertTab
	ActionDeleteCharForward
	ActionDeleteCharBackward
	ActionYankLine // Ctrl+K
	ActionPaste    // Ctrl+V

	// --- Working set ---
	ActionNextBuffer // Ctrl+N
	ActionPrevBuffer // Ctrl+P

	// --- Command line ---
	ActionEnterCommandMode // ':'
)

var actionNames = map[Action]string{
	ActionUnknown:            "unknown",
	ActionQuit:               "quit",
	ActionForceQuit:          "force-quit",
	ActionSave:               "save",
	ActionMoveUp:             "up",
	ActionMoveDown:           "down",
	ActionMoveLeft:           "left",
	ActionMoveRight:          "right",
	ActionMovePageUp:         "page-up",
	ActionMovePageDown:       "page-down",
	ActionMoveHome:           "home",
	ActionMoveEnd:            "end",
	ActionInsertRune:         "insert",
	ActionInsertNewLine:      "newline",
	ActionInsertTab:          "tab",
	ActionDeleteCharForward:  "delete",
	ActionDeleteCharBackward: "backspace",
	ActionYankLine:           "yank-line",
	ActionPaste:              "paste",
	ActionNextBuffer:         "next-buffer",
	ActionPrevBuffer:         "prev-buffer",
	ActionEnterCommandMode:   "command",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown"
}

// IsEdit reports whether the action changes the document.
func (a Action) IsEdit() bool {
	switch a {
	case ActionInsertRune, ActionInsertNewLine, ActionInsertTab,
		ActionDeleteCharForward, ActionDeleteCharBackward, ActionPaste:
		return true
	}
	return false
}

// ActionEvent is a decoded key with its payload.
type ActionEvent struct {
	Action Action
	Rune   rune // Used for ActionInsertRune
}
