package buffer

import "github.com/bethropolis/tagsync/internal/types"

// Buffer defines the interface for text buffer operations.
// Positions use rune columns; out-of-range positions are clamped, not rejected.
type Buffer interface {
	Load(filePath string) error
	SetText(text []byte)
	Lines() [][]byte
	Line(index int) ([]byte, error)
	LineCount() int
	Clamp(pos types.Position) types.Position
	Insert(pos types.Position, text []byte) (types.EditInfo, error)
	Delete(start, end types.Position) (types.EditInfo, error)
	Replace(start, end types.Position, text []byte) (types.EditInfo, error)
	Save(filePath string) error
	Bytes() []byte
	FilePath() string
	IsModified() bool
}
