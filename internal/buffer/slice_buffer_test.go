package buffer

import (
	"os"
	"path/filepath"
	"testing"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tagsync/internal/types"
)

func pos(line, col int) types.Position { return types.Position{Line: line, Col: col} }

func TestReplaceSingleLine(t *testing.T) {
	sb := NewSliceBufferFromText("<div>text</div>")

	edit, err := sb.Replace(pos(0, 11), pos(0, 14), []byte("section"))
	require.NoError(t, err)
	require.Equal(t, "<div>text</section>", string(sb.Bytes()))

	require.Equal(t, uint32(11), edit.StartIndex)
	require.Equal(t, uint32(14), edit.OldEndIndex)
	require.Equal(t, uint32(18), edit.NewEndIndex)
	require.Equal(t, sitter.Point{Row: 0, Column: 18}, edit.NewEndPosition)
}

func TestInsertMultiLine(t *testing.T) {
	sb := NewSliceBufferFromText("<a></a>\n<b></b>")

	edit, err := sb.Insert(pos(1, 3), []byte("x\ny"))
	require.NoError(t, err)
	require.Equal(t, "<a></a>\n<b>x\ny</b>", string(sb.Bytes()))
	require.Equal(t, 3, sb.LineCount())

	require.Equal(t, uint32(11), edit.StartIndex)
	require.Equal(t, uint32(14), edit.NewEndIndex)
	require.Equal(t, sitter.Point{Row: 2, Column: 1}, edit.NewEndPosition)
	require.True(t, sb.IsModified())
}

func TestDeleteAcrossLines(t *testing.T) {
	sb := NewSliceBufferFromText("<div>\n  x\n</div>")

	edit, err := sb.Delete(pos(0, 5), pos(2, 0))
	require.NoError(t, err)
	require.Equal(t, "<div></div>", string(sb.Bytes()))
	require.Equal(t, uint32(5), edit.StartIndex)
	require.Equal(t, uint32(10), edit.OldEndIndex)
	require.Equal(t, sitter.Point{Row: 2, Column: 0}, edit.OldEndPosition)
}

func TestReplaceUsesRuneColumns(t *testing.T) {
	sb := NewSliceBufferFromText("<p>é</p>")

	_, err := sb.Replace(pos(0, 6), pos(0, 7), []byte("q"))
	require.NoError(t, err)
	require.Equal(t, "<p>é</q>", string(sb.Bytes()))
}

func TestClamp(t *testing.T) {
	sb := NewSliceBufferFromText("ab\ncde")
	require.Equal(t, pos(0, 0), sb.Clamp(pos(-1, 4)))
	require.Equal(t, pos(0, 2), sb.Clamp(pos(0, 9)))
	require.Equal(t, pos(1, 3), sb.Clamp(pos(7, 0)))
	require.Equal(t, pos(1, 0), sb.Clamp(pos(1, -2)))
}

func TestLoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	require.NoError(t, os.WriteFile(path, []byte("<p>x</p>\r\n"), 0o644))

	sb := NewSliceBuffer()
	require.NoError(t, sb.Load(path))
	require.False(t, sb.IsModified())
	require.Equal(t, "<p>x</p>\n", string(sb.Bytes()))

	_, err := sb.Insert(pos(0, 0), []byte("<!-- -->"))
	require.NoError(t, err)
	require.NoError(t, sb.Save(""))
	require.False(t, sb.IsModified())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "<!-- --><p>x</p>\n", string(data))
}

func TestLoadMissingFile(t *testing.T) {
	sb := NewSliceBuffer()
	path := filepath.Join(t.TempDir(), "new.html")
	require.NoError(t, sb.Load(path))
	require.Equal(t, path, sb.FilePath())
	require.Equal(t, 1, sb.LineCount())
}
