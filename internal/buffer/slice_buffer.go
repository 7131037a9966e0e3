package buffer

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bethropolis/tagsync/internal/types"
	"github.com/bethropolis/tagsync/internal/utils"
)

// SliceBuffer stores the document as one byte slice per line, without newlines.
type SliceBuffer struct {
	lines    [][]byte
	filePath string
	modified bool
}

// NewSliceBuffer creates an empty buffer holding a single empty line.
func NewSliceBuffer() *SliceBuffer {
	return &SliceBuffer{lines: [][]byte{{}}}
}

// NewSliceBufferFromText creates a buffer holding text. Useful for tests and the LSP store.
func NewSliceBufferFromText(text string) *SliceBuffer {
	sb := NewSliceBuffer()
	sb.SetText([]byte(text))
	return sb
}

// Load reads a file into the buffer, replacing its content.
// A missing file yields an empty buffer bound to that path.
func (sb *SliceBuffer) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			sb.lines = [][]byte{{}}
			sb.filePath = filePath
			sb.modified = false
			return nil
		}
		return fmt.Errorf("failed to read file '%s': %w", filePath, err)
	}
	sb.SetText(data)
	sb.filePath = filePath
	sb.modified = false
	return nil
}

// SetText replaces the whole content. CRLF line endings are normalised to LF.
func (sb *SliceBuffer) SetText(text []byte) {
	text = bytes.ReplaceAll(text, []byte("\r\n"), []byte("\n"))
	parts := bytes.Split(text, []byte("\n"))
	lines := make([][]byte, len(parts))
	for i, p := range parts {
		lines[i] = append([]byte(nil), p...)
	}
	sb.lines = lines
	sb.modified = true
}

func (sb *SliceBuffer) Lines() [][]byte {
	return sb.lines
}

func (sb *SliceBuffer) LineCount() int {
	return len(sb.lines)
}

func (sb *SliceBuffer) Line(index int) ([]byte, error) {
	if index < 0 || index >= len(sb.lines) {
		return nil, fmt.Errorf("line index %d out of bounds (0-%d)", index, len(sb.lines)-1)
	}
	return sb.lines[index], nil
}

// Bytes joins the lines with LF.
func (sb *SliceBuffer) Bytes() []byte {
	return bytes.Join(sb.lines, []byte("\n"))
}

// Save writes the buffer to filePath, or to the loaded path when filePath is empty.
func (sb *SliceBuffer) Save(filePath string) error {
	path := sb.filePath
	if filePath != "" {
		path = filePath
	}
	if path == "" {
		return errors.New("no file path specified for saving")
	}
	if err := os.WriteFile(path, sb.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write file '%s': %w", path, err)
	}
	sb.filePath = path
	sb.modified = false
	return nil
}

func (sb *SliceBuffer) IsModified() bool {
	return sb.modified
}

func (sb *SliceBuffer) FilePath() string {
	return sb.filePath
}

// Clamp moves pos onto the nearest valid position in the buffer.
func (sb *SliceBuffer) Clamp(pos types.Position) types.Position {
	if pos.Line < 0 {
		return types.Position{}
	}
	if pos.Line >= len(sb.lines) {
		last := len(sb.lines) - 1
		return types.Position{Line: last, Col: utils.ByteToRuneCol(sb.lines[last], len(sb.lines[last]))}
	}
	if pos.Col < 0 {
		pos.Col = 0
	}
	line := sb.lines[pos.Line]
	if end := utils.ByteToRuneCol(line, len(line)); pos.Col > end {
		pos.Col = end
	}
	return pos
}

// Insert inserts text at pos.
func (sb *SliceBuffer) Insert(pos types.Position, text []byte) (types.EditInfo, error) {
	return sb.Replace(pos, pos, text)
}

// Delete removes the text in [start, end).
func (sb *SliceBuffer) Delete(start, end types.Position) (types.EditInfo, error) {
	return sb.Replace(start, end, nil)
}

// Replace swaps the text in [start, end) for text and reports the edit in byte terms.
func (sb *SliceBuffer) Replace(start, end types.Position, text []byte) (types.EditInfo, error) {
	if end.Before(start) {
		start, end = end, start
	}
	start, end = sb.Clamp(start), sb.Clamp(end)

	startLine, endLine := sb.lines[start.Line], sb.lines[end.Line]
	startByte := utils.RuneColToByte(startLine, start.Col)
	endByte := utils.RuneColToByte(endLine, end.Col)
	startIndex := sb.offsetOf(start.Line, startByte)
	oldEndIndex := sb.offsetOf(end.Line, endByte)

	pieces := bytes.Split(text, []byte("\n"))
	head := startLine[:startByte]
	tail := endLine[endByte:]

	replacement := make([][]byte, len(pieces))
	for i, p := range pieces {
		var line []byte
		if i == 0 {
			line = append(line, head...)
		}
		line = append(line, p...)
		if i == len(pieces)-1 {
			line = append(line, tail...)
		}
		replacement[i] = line
	}

	newLines := make([][]byte, 0, len(sb.lines)-(end.Line-start.Line)+len(replacement)-1)
	newLines = append(newLines, sb.lines[:start.Line]...)
	newLines = append(newLines, replacement...)
	newLines = append(newLines, sb.lines[end.Line+1:]...)
	sb.lines = newLines

	if start != end || len(text) > 0 {
		sb.modified = true
	}

	newEnd := sitter.Point{Row: uint32(start.Line), Column: uint32(startByte + len(text))}
	if len(pieces) > 1 {
		newEnd = sitter.Point{
			Row:    uint32(start.Line + len(pieces) - 1),
			Column: uint32(len(pieces[len(pieces)-1])),
		}
	}

	return types.EditInfo{
		StartIndex:     uint32(startIndex),
		OldEndIndex:    uint32(oldEndIndex),
		NewEndIndex:    uint32(startIndex + len(text)),
		StartPosition:  sitter.Point{Row: uint32(start.Line), Column: uint32(startByte)},
		OldEndPosition: sitter.Point{Row: uint32(end.Line), Column: uint32(endByte)},
		NewEndPosition: newEnd,
	}, nil
}

// offsetOf returns the absolute byte offset of byteCol on line.
func (sb *SliceBuffer) offsetOf(line, byteCol int) int {
	offset := 0
	for i := 0; i < line; i++ {
		offset += len(sb.lines[i]) + 1
	}
	return offset + byteCol
}

var _ Buffer = (*SliceBuffer)(nil)
