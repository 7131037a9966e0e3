// internal/core/editor.go
package core

import (
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/tagsync/internal/buffer"
	"github.com/bethropolis/tagsync/internal/document"
	"github.com/bethropolis/tagsync/internal/event"
	"github.com/bethropolis/tagsync/internal/logger"
	"github.com/bethropolis/tagsync/internal/types"
)

const (
	defaultScrollOff       = 3
	defaultStatusBarHeight = 1
)

// Editor is a view onto a document: cursor, viewport and marks.
// Key presses and cursor activity are announced on the editor's own event manager.
type Editor struct {
	doc        *document.Document
	Cursor     types.Position
	ViewportY  int // Top visible line index (0-based)
	ViewportX  int // Leftmost visible visual column
	viewWidth  int
	viewHeight int
	ScrollOff  int

	statusBarHeight int

	events *event.Manager
	docSub event.SubscriptionID

	marks []types.HighlightRegion

	clipboard       []byte // Internal register
	systemClipboard bool

	opDepth     int            // >0 while a user edit is in progress
	lastCursor  types.Position // Position reported by the last cursorActivity
	cursorDirty bool
}

// Options configures a new Editor.
type Options struct {
	ScrollOff       int
	StatusBarHeight int
	SystemClipboard bool
}

// NewEditor creates an editor over doc. The editor subscribes to the document first,
// so its cursor is already mapped when later subscribers see a change.
func NewEditor(doc *document.Document, opts Options) *Editor {
	if opts.ScrollOff < 0 {
		opts.ScrollOff = defaultScrollOff
	}
	if opts.StatusBarHeight <= 0 {
		opts.StatusBarHeight = defaultStatusBarHeight
	}
	name := doc.FilePath()
	if name == "" {
		name = "untitled"
	}
	e := &Editor{
		doc:             doc,
		ScrollOff:       opts.ScrollOff,
		statusBarHeight: opts.StatusBarHeight,
		systemClipboard: opts.SystemClipboard,
		events:          event.NewManager("editor:" + name),
	}
	e.docSub = doc.On(event.TypeDocumentChanged, e.onDocumentChanged)
	return e
}

// Close detaches the editor from its document.
func (e *Editor) Close() {
	e.doc.Off(e.docSub)
}

// Document returns the document being edited.
func (e *Editor) Document() *document.Document {
	return e.doc
}

// GetBuffer returns the document's buffer.
func (e *Editor) GetBuffer() buffer.Buffer {
	return e.doc.Buffer()
}

// On subscribes to editor events: TypeKeyPressed and TypeCursorMoved.
func (e *Editor) On(eventType event.Type, handler event.Handler) event.SubscriptionID {
	return e.events.Subscribe(eventType, handler)
}

// Off removes a subscription made with On.
func (e *Editor) Off(id event.SubscriptionID) {
	e.events.Unsubscribe(id)
}

// KeyDown announces a key before it is applied.
func (e *Editor) KeyDown(ev *tcell.EventKey) {
	e.events.Dispatch(event.TypeKeyPressed, event.KeyPressedData{KeyEvent: ev})
}

// SetViewSize updates the cached view dimensions. Called on resize or before drawing.
func (e *Editor) SetViewSize(width, height int) {
	e.viewWidth = width
	if height > e.statusBarHeight {
		e.viewHeight = height - e.statusBarHeight
	} else {
		e.viewHeight = 0
	}
	e.ScrollToCursor()
}

// GetCursor returns the current cursor position.
func (e *Editor) GetCursor() types.Position {
	return e.Cursor
}

// SetCursor moves the cursor to pos, clamped to the document.
func (e *Editor) SetCursor(pos types.Position) {
	e.begin()
	defer e.end()
	e.Cursor = e.GetBuffer().Clamp(pos)
	e.ScrollToCursor()
}

func (e *Editor) GetViewport() (int, int) {
	return e.ViewportY, e.ViewportX
}

// SaveBuffer saves the document to the path it was loaded from.
func (e *Editor) SaveBuffer() error {
	return e.doc.Save("")
}

// onDocumentChanged keeps the cursor and marks on the same text across any change,
// ours or another subscriber's.
func (e *Editor) onDocumentChanged(ev event.Event) bool {
	change, ok := ev.Data.(event.DocumentChangedData)
	if !ok {
		return false
	}
	e.Cursor = document.MapPosition(e.Cursor, change)
	e.cursorDirty = true
	for i := range e.marks {
		e.marks[i].Start = document.MapPosition(e.marks[i].Start, change)
		e.marks[i].End = document.MapPosition(e.marks[i].End, change)
	}
	if e.opDepth == 0 {
		e.notifyCursor()
	}
	return false
}

// begin and end bracket a user operation. cursorActivity fires once, after the
// operation and every change it triggered have settled.
func (e *Editor) begin() {
	e.opDepth++
}

func (e *Editor) end() {
	e.opDepth--
	if e.opDepth == 0 {
		e.notifyCursor()
	}
}

func (e *Editor) notifyCursor() {
	if e.Cursor == e.lastCursor && !e.cursorDirty {
		return
	}
	e.lastCursor = e.Cursor
	e.cursorDirty = false
	logger.DebugTagf("editor", "cursorActivity %v", e.Cursor)
	e.events.Dispatch(event.TypeCursorMoved, event.CursorMovedData{NewPosition: e.Cursor})
}
