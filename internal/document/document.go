// Package document provides the shared, reference-counted text model that editors,
// plugins and the LSP server mutate. Every mutation is announced as TypeDocumentChanged.
package document

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/bethropolis/tagsync/internal/buffer"
	"github.com/bethropolis/tagsync/internal/event"
	"github.com/bethropolis/tagsync/internal/logger"
	"github.com/bethropolis/tagsync/internal/types"
)

// Document is a buffer plus change notifications and a reference count.
type Document struct {
	mu      sync.Mutex
	buf     buffer.Buffer
	events  *event.Manager
	refs    int
	version uint64
}

// New wraps buf.
func New(buf buffer.Buffer) *Document {
	name := buf.FilePath()
	if name == "" {
		name = "untitled"
	}
	return &Document{
		buf:    buf,
		events: event.NewManager("document:" + name),
	}
}

// Buffer exposes the underlying buffer for read access.
func (d *Document) Buffer() buffer.Buffer {
	return d.buf
}

// FilePath returns the path the buffer was loaded from.
func (d *Document) FilePath() string {
	return d.buf.FilePath()
}

// Bytes returns the full text.
func (d *Document) Bytes() []byte {
	return d.buf.Bytes()
}

// Text returns the full text as a string.
func (d *Document) Text() string {
	return string(d.buf.Bytes())
}

// Version increments on every change, starting at zero.
func (d *Document) Version() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// On subscribes to document events, typically event.TypeDocumentChanged.
func (d *Document) On(eventType event.Type, handler event.Handler) event.SubscriptionID {
	return d.events.Subscribe(eventType, handler)
}

// Off removes a subscription made with On.
func (d *Document) Off(id event.SubscriptionID) {
	d.events.Unsubscribe(id)
}

// AddRef records one more holder of the document.
func (d *Document) AddRef() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.refs++
	logger.DebugTagf("document", "AddRef %s -> %d", d.buf.FilePath(), d.refs)
}

// ReleaseRef drops one holder. Releasing an unreferenced document is logged and ignored.
func (d *Document) ReleaseRef() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.refs == 0 {
		logger.Warnf("Document: ReleaseRef on unreferenced document %s", d.buf.FilePath())
		return
	}
	d.refs--
	logger.DebugTagf("document", "ReleaseRef %s -> %d", d.buf.FilePath(), d.refs)
}

// RefCount returns the number of holders.
func (d *Document) RefCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.refs
}

// Insert inserts text at pos.
func (d *Document) Insert(pos types.Position, text string) error {
	return d.ReplaceRange(text, pos, pos)
}

// Delete removes [from, to).
func (d *Document) Delete(from, to types.Position) error {
	return d.ReplaceRange("", from, to)
}

// ReplaceRange replaces [from, to) with text and notifies subscribers.
// The argument order follows the host editor API: text first.
func (d *Document) ReplaceRange(text string, from, to types.Position) error {
	if to.Before(from) {
		from, to = to, from
	}
	from, to = d.buf.Clamp(from), d.buf.Clamp(to)
	if from == to && text == "" {
		return nil
	}

	edit, err := d.buf.Replace(from, to, []byte(text))
	if err != nil {
		return fmt.Errorf("replace %v-%v: %w", from, to, err)
	}

	d.mu.Lock()
	d.version++
	d.mu.Unlock()

	d.events.Dispatch(event.TypeDocumentChanged, event.DocumentChangedData{
		Edit:  edit,
		From:  from,
		OldTo: to,
		NewTo: EndOfInsert(from, text),
	})
	return nil
}

// SetText replaces the whole content, announced as one change.
func (d *Document) SetText(text string) error {
	last := d.buf.LineCount() - 1
	line, _ := d.buf.Line(last)
	end := types.Position{Line: last, Col: utf8.RuneCount(line)}
	return d.ReplaceRange(text, types.Position{}, end)
}

// Save writes the document to disk.
func (d *Document) Save(path string) error {
	return d.buf.Save(path)
}

// EndOfInsert returns where text ends when inserted at from.
func EndOfInsert(from types.Position, text string) types.Position {
	lines := 0
	lastStart := 0
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			lines++
			lastStart = i + 1
		}
	}
	tailCols := utf8.RuneCountInString(text[lastStart:])
	if lines == 0 {
		return types.Position{Line: from.Line, Col: from.Col + tailCols}
	}
	return types.Position{Line: from.Line + lines, Col: tailCols}
}

// MapPosition moves pos through a change the way editors move cursors and marks:
// positions before the change stay, positions inside the replaced text collapse to its
// end, positions after it shift by the change's size.
func MapPosition(pos types.Position, change event.DocumentChangedData) types.Position {
	if pos.Before(change.From) {
		return pos
	}
	if pos.Before(change.OldTo) {
		return change.NewTo
	}
	if pos.Line == change.OldTo.Line {
		return types.Position{Line: change.NewTo.Line, Col: change.NewTo.Col + (pos.Col - change.OldTo.Col)}
	}
	return types.Position{Line: pos.Line + (change.NewTo.Line - change.OldTo.Line), Col: pos.Col}
}
