// internal/event/events.go
package event

import (
	"github.com/bethropolis/tagsync/internal/types"
	"github.com/gdamore/tcell/v2"
)

// Type identifies the kind of event.
type Type int

const (
	TypeUnknown Type = iota

	// Document events, dispatched on a document's own manager.
	TypeDocumentChanged // Text was inserted, deleted or replaced

	// Editor events, dispatched on an editor's own manager.
	TypeKeyPressed  // keydown: fired before the key is applied
	TypeCursorMoved // cursorActivity: fired after an edit settles or the cursor moves

	// Working set events, dispatched on the application manager.
	TypeWorkingSetAdd
	TypeWorkingSetRemove
	TypeCurrentFileChanged

	// Buffer lifecycle, application manager.
	TypeBufferLoaded
	TypeBufferSaved

	// Application lifecycle.
	TypeAppReady
	TypeAppQuit
)

var typeNames = map[Type]string{
	TypeUnknown:            "unknown",
	TypeDocumentChanged:    "documentChanged",
	TypeKeyPressed:         "keydown",
	TypeCursorMoved:        "cursorActivity",
	TypeWorkingSetAdd:      "workingSetAdd",
	TypeWorkingSetRemove:   "workingSetRemove",
	TypeCurrentFileChanged: "currentFileChange",
	TypeBufferLoaded:       "bufferLoaded",
	TypeBufferSaved:        "bufferSaved",
	TypeAppReady:           "appReady",
	TypeAppQuit:            "appQuit",
}

func (t Type) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "unknown"
}

// Event is the structure passed through the event bus.
type Event struct {
	Type Type
	Data interface{}
}

// DocumentChangedData describes one change to a document.
type DocumentChangedData struct {
	Edit  types.EditInfo // For incremental re-parsing
	From  types.Position // Start of the change
	OldTo types.Position // End of the replaced text, before the change
	NewTo types.Position // End of the inserted text, after the change
}

// KeyPressedData carries the raw key.
type KeyPressedData struct {
	KeyEvent *tcell.EventKey
}

// CursorMovedData contains the new cursor position.
type CursorMovedData struct {
	NewPosition types.Position
}

// FileData names a file in the working set.
type FileData struct {
	FullPath string
}

// CurrentFileChangedData describes a switch of the active file. Either side may be nil.
type CurrentFileChangedData struct {
	NewFile *FileData
	OldFile *FileData
}

// BufferLoadedData contains info about the loaded buffer.
type BufferLoadedData struct {
	FilePath string
}

// BufferSavedData contains info about the saved buffer.
type BufferSavedData struct {
	FilePath string
}

// AppReadyData and AppQuitData carry nothing yet.
type AppReadyData struct{}
type AppQuitData struct{}
