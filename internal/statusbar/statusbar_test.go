package statusbar

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tagsync/internal/theme"
	"github.com/bethropolis/tagsync/internal/types"
)

func TestDefaultText(t *testing.T) {
	sb := New(0)
	sb.SetFileInfo("/tmp/site/index.html", true)
	sb.SetCursorInfo(types.Position{Line: 2, Col: 4})
	sb.SetEditorMode("INSERT")
	sb.SetSegments([]string{"tags <div>"})

	text, style := sb.Text()
	require.Equal(t, "index.html [+]  3:5  -- INSERT --  tags <div>", text)
	require.Equal(t, theme.StyleStatusBarModified, style)
}

func TestTemporaryMessageExpires(t *testing.T) {
	now := time.Unix(1000, 0)
	sb := New(time.Second)
	sb.now = func() time.Time { return now }

	sb.SetTemporaryMessage("saved %d bytes", 12)
	text, style := sb.Text()
	require.Equal(t, "saved 12 bytes", text)
	require.Equal(t, theme.StyleStatusBarMessage, style)

	now = now.Add(2 * time.Second)
	text, _ = sb.Text()
	require.Equal(t, "[No Name]  1:1", text)
}

func TestCommandLineWins(t *testing.T) {
	sb := New(0)
	sb.SetTemporaryMessage("hello")
	sb.SetCommandLine("tagsync st", true)
	text, style := sb.Text()
	require.Equal(t, ":tagsync st", text)
	require.Equal(t, theme.StyleCommandLine, style)

	sb.SetCommandLine("", false)
	text, _ = sb.Text()
	require.Equal(t, "hello", text)
}

func TestDraw(t *testing.T) {
	sim := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, sim.Init())
	defer sim.Fini()
	sim.SetSize(12, 2)

	sb := New(0)
	sb.SetFileInfo("a.html", false)
	sb.Draw(sim, 12, 2, theme.NewManager("", "").Current())

	var row []rune
	for x := 0; x < 12; x++ {
		r, _, _, _ := sim.GetContent(x, 1)
		row = append(row, r)
	}
	require.Equal(t, "a.html  1:1 ", string(row))
}
