// Package workspace keeps the working set: the open files, each with its document
// and editor, and which one is current.
package workspace

import (
	"fmt"
	"path/filepath"

	"github.com/bethropolis/tagsync/internal/buffer"
	"github.com/bethropolis/tagsync/internal/core"
	"github.com/bethropolis/tagsync/internal/document"
	"github.com/bethropolis/tagsync/internal/event"
	"github.com/bethropolis/tagsync/internal/logger"
)

// File is one entry of the working set.
type File struct {
	Path     string
	Document *document.Document
	Editor   *core.Editor
}

// Workspace owns the working set and announces changes to it on the app event manager.
type Workspace struct {
	events  *event.Manager
	opts    core.Options
	files   []*File
	current int
}

// New creates an empty workspace.
func New(events *event.Manager, opts core.Options) *Workspace {
	return &Workspace{events: events, opts: opts, current: -1}
}

func normalize(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Find returns the open file for path, or nil.
func (w *Workspace) Find(path string) *File {
	if i := w.indexOf(normalize(path)); i >= 0 {
		return w.files[i]
	}
	return nil
}

func (w *Workspace) indexOf(path string) int {
	for i, f := range w.files {
		if f.Path == path {
			return i
		}
	}
	return -1
}

// Files returns the working set in the order files were added.
func (w *Workspace) Files() []*File {
	out := make([]*File, len(w.files))
	copy(out, w.files)
	return out
}

// Current returns the active file, or nil.
func (w *Workspace) Current() *File {
	if w.current < 0 || w.current >= len(w.files) {
		return nil
	}
	return w.files[w.current]
}

// Add loads path into the working set. Adding an open file returns the existing entry.
// A missing file opens as an empty document bound to path.
func (w *Workspace) Add(path string) (*File, error) {
	full := normalize(path)
	if f := w.Find(full); f != nil {
		return f, nil
	}

	buf := buffer.NewSliceBuffer()
	if full != "" {
		if err := buf.Load(full); err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}
	doc := document.New(buf)
	doc.AddRef()
	f := &File{Path: full, Document: doc, Editor: core.NewEditor(doc, w.opts)}
	w.files = append(w.files, f)

	logger.Infof("Workspace: added %s", displayName(full))
	w.dispatch(event.TypeBufferLoaded, event.BufferLoadedData{FilePath: full})
	w.dispatch(event.TypeWorkingSetAdd, event.FileData{FullPath: full})
	return f, nil
}

// Open adds path if needed and makes it current.
func (w *Workspace) Open(path string) (*File, error) {
	f, err := w.Add(path)
	if err != nil {
		return nil, err
	}
	if err := w.SwitchTo(f.Path); err != nil {
		return nil, err
	}
	return f, nil
}

// SwitchTo makes an open file current.
func (w *Workspace) SwitchTo(path string) error {
	i := w.indexOf(normalize(path))
	if i < 0 {
		return fmt.Errorf("%s is not in the working set", path)
	}
	w.setCurrent(i)
	return nil
}

// Next and Prev cycle through the working set.
func (w *Workspace) Next() {
	if len(w.files) > 1 {
		w.setCurrent((w.current + 1) % len(w.files))
	}
}

func (w *Workspace) Prev() {
	if len(w.files) > 1 {
		w.setCurrent((w.current - 1 + len(w.files)) % len(w.files))
	}
}

// Remove drops path from the working set. When it was current, its neighbour becomes
// current.
func (w *Workspace) Remove(path string) error {
	full := normalize(path)
	i := w.indexOf(full)
	if i < 0 {
		return fmt.Errorf("%s is not in the working set", path)
	}
	f := w.files[i]
	wasCurrent := i == w.current

	w.dispatch(event.TypeWorkingSetRemove, event.FileData{FullPath: full})

	w.files = append(w.files[:i], w.files[i+1:]...)
	switch {
	case wasCurrent:
		w.current = -1
		next := i
		if next >= len(w.files) {
			next = len(w.files) - 1
		}
		if next >= 0 {
			w.setCurrentFrom(next, f)
		} else {
			w.dispatch(event.TypeCurrentFileChanged, event.CurrentFileChangedData{OldFile: &event.FileData{FullPath: f.Path}})
		}
	case i < w.current:
		w.current--
	}

	f.Editor.Close()
	f.Document.ReleaseRef()
	logger.Infof("Workspace: removed %s", displayName(full))
	return nil
}

// Close removes every file.
func (w *Workspace) Close() {
	for len(w.files) > 0 {
		last := w.files[len(w.files)-1]
		if err := w.Remove(last.Path); err != nil {
			logger.Warnf("Workspace: %v", err)
			return
		}
	}
}

func (w *Workspace) setCurrent(i int) {
	w.setCurrentFrom(i, w.Current())
}

func (w *Workspace) setCurrentFrom(i int, old *File) {
	if i == w.current && old != nil && w.files[i] == old {
		return
	}
	w.current = i
	data := event.CurrentFileChangedData{NewFile: &event.FileData{FullPath: w.files[i].Path}}
	if old != nil {
		data.OldFile = &event.FileData{FullPath: old.Path}
	}
	logger.DebugTagf("workspace", "current file %s", displayName(w.files[i].Path))
	w.dispatch(event.TypeCurrentFileChanged, data)
}

func (w *Workspace) dispatch(t event.Type, data interface{}) {
	if w.events != nil {
		w.events.Dispatch(t, data)
	}
}

func displayName(path string) string {
	if path == "" {
		return "[untitled]"
	}
	return path
}
