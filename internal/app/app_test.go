package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tagsync/internal/config"
	"github.com/bethropolis/tagsync/internal/tui"
)

type session struct {
	t   *testing.T
	app *App
	sim tcell.SimulationScreen
	err chan error
}

func startSession(t *testing.T, files ...string) *session {
	t.Helper()
	cfg := config.NewDefaultConfig()
	a, err := New(cfg, files)
	require.NoError(t, err)

	s := &session{t: t, app: a, sim: tcell.NewSimulationScreen("UTF-8"), err: make(chan error, 1)}
	go func() { s.err <- a.RunWithScreen(s.sim) }()
	select {
	case <-a.Ready():
	case err := <-s.err:
		t.Fatalf("app exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("app did not start")
	}
	return s
}

func (s *session) keys(text string) {
	for _, r := range text {
		s.sim.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
}

func (s *session) key(k tcell.Key) {
	s.sim.InjectKey(k, 0, tcell.ModNone)
}

func (s *session) command(line string) {
	s.keys(":" + line)
	s.key(tcell.KeyEnter)
}

// wait blocks until the app returns.
func (s *session) wait() {
	s.t.Helper()
	select {
	case err := <-s.err:
		require.NoError(s.t, err)
	case <-time.After(5 * time.Second):
		s.t.Fatal("app did not quit")
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRenameAndSave(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "index.html", "<div>text</div>\n")

	s := startSession(t, path)
	doc := s.app.Host().Workspace().Current().Document

	s.key(tcell.KeyRight)
	s.keys("main")
	for i := 0; i < 3; i++ {
		s.key(tcell.KeyDelete)
	}
	s.command("w")
	s.command("q")
	s.wait()

	require.Equal(t, "<main>text</main>\n", doc.Text())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "<main>text</main>\n", string(data))
}

func TestQuitWarnsAboutUnsavedChanges(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.html", "<p>x</p>")

	s := startSession(t, path)
	s.keys("z")
	s.key(tcell.KeyEscape) // warns
	s.key(tcell.KeyEscape) // quits
	s.wait()

	require.Contains(t, s.app.statusBar.TempMessage, "Unsaved changes")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "<p>x</p>", string(data))
}

func TestBufferCommands(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.html", "<b>a</b>")
	b := writeFile(t, dir, "b.txt", "<b>b</b>")

	s := startSession(t, a)
	s.command("e " + b)
	s.command("bp")
	s.command("bd") // closes a.html, b.txt becomes current
	s.keys("x")
	s.command("w")
	s.command("q")
	s.wait()

	data, err := os.ReadFile(b)
	require.NoError(t, err)
	require.Equal(t, "x<b>b</b>", string(data))
	data, err = os.ReadFile(a)
	require.NoError(t, err)
	require.Equal(t, "<b>a</b>", string(data))
}

func TestStatusBarShowsTrackedTag(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.html", "<section>x</section>")

	s := startSession(t, path)
	s.key(tcell.KeyRight)
	s.key(tcell.KeyRight)
	s.command("tagsync")
	s.command("q")
	s.wait()

	text, _ := s.app.statusBar.Text()
	require.Contains(t, text, "tracking <section>")
}

func TestDrawShowsDocument(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.html", "<i>hi</i>")

	a, err := New(config.NewDefaultConfig(), []string{path})
	require.NoError(t, err)
	defer a.Host().Shutdown()

	sim := tcell.NewSimulationScreen("UTF-8")
	ui, err := tui.NewWithScreen(sim, tcell.StyleDefault)
	require.NoError(t, err)
	defer ui.Close()
	sim.SetSize(20, 3)
	a.tuiManager = ui

	a.drawEditor()

	cells, w, h := sim.GetContents()
	require.Equal(t, 20, w)
	require.Equal(t, 3, h)
	row := func(y, n int) string {
		var out []rune
		for x := 0; x < n; x++ {
			out = append(out, cells[y*w+x].Runes[0])
		}
		return string(out)
	}
	require.Equal(t, "1 <i>hi</i>", row(0, 11))
	require.Equal(t, `"a.html"`, row(2, 8))

	a.statusBar.ResetTemporaryMessage()
	a.drawEditor()
	cells, _, _ = sim.GetContents()
	require.Equal(t, "a.html  1:1", row(2, 11))
}

func TestThemeCommands(t *testing.T) {
	a, err := New(config.NewDefaultConfig(), nil)
	require.NoError(t, err)
	defer a.Host().Shutdown()

	require.NoError(t, a.Host().Execute("theme light"))
	require.Equal(t, "light", a.themes.Current().Name)
	require.Equal(t, "Theme set to: light", a.Host().StatusMessage())

	require.ErrorContains(t, a.Host().Execute("theme nope"), "theme 'nope' not found")
	require.NoError(t, a.Host().Execute("themes"))
	require.Contains(t, a.Host().StatusMessage(), "default")
}
