package tagsync

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/tagsync/internal/config"
	"github.com/bethropolis/tagsync/internal/core"
	"github.com/bethropolis/tagsync/internal/event"
	"github.com/bethropolis/tagsync/internal/host"
	"github.com/bethropolis/tagsync/internal/logger"
	"github.com/bethropolis/tagsync/internal/markup"
	"github.com/bethropolis/tagsync/internal/theme"
	"github.com/bethropolis/tagsync/internal/types"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func startHost(t *testing.T, cfg *config.Config) (*host.Host, *Plugin) {
	t.Helper()
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	h := host.New(cfg, nil)
	p := New()
	require.NoError(t, h.Start(p))
	t.Cleanup(h.Shutdown)
	return h, p
}

// typeText feeds each rune the way the mode handler does: keydown, then the edit.
func typeText(ed *core.Editor, text string) {
	for _, r := range text {
		ed.KeyDown(tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
		_ = ed.InsertRune(r)
	}
}

func deleteForward(ed *core.Editor, n int) {
	for i := 0; i < n; i++ {
		ed.KeyDown(tcell.NewEventKey(tcell.KeyDelete, 0, tcell.ModNone))
		_ = ed.DeleteForward()
	}
}

func TestRenameOpenTagInCurrentFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "index.html", "<div>text</div>")
	h, p := startHost(t, nil)

	f, err := h.Workspace().Open(path)
	require.NoError(t, err)
	require.Equal(t, f.Path, p.Attached())
	require.Equal(t, 2, f.Document.RefCount())

	f.Editor.SetCursor(types.Position{Line: 0, Col: 1})
	typeText(f.Editor, "section")
	deleteForward(f.Editor, 3)

	require.Equal(t, "<section>text</section>", f.Document.Text())
	require.Equal(t, 10, p.Context().Renames())
}

func TestRenameCloseTagAcrossLines(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "page.htm", "<ul>\n  <li>one</li>\n</ul>\n")
	h, _ := startHost(t, nil)

	f, err := h.Workspace().Open(path)
	require.NoError(t, err)

	f.Editor.SetCursor(types.Position{Line: 2, Col: 2})
	typeText(f.Editor, "ol")
	deleteForward(f.Editor, 2)

	require.Equal(t, "<ol>\n  <li>one</li>\n</ol>\n", f.Document.Text())
}

func TestInitializeAttachesToOpenFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.html", "<p>x</p>")

	h := host.New(config.NewDefaultConfig(), nil)
	f, err := h.Workspace().Open(path)
	require.NoError(t, err)

	p := New()
	require.NoError(t, h.Start(p))
	defer h.Shutdown()
	require.Equal(t, f.Path, p.Attached())
}

func TestNonMarkupFileIsIgnored(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "notes.txt", "<div>text</div>")
	h, p := startHost(t, nil)

	f, err := h.Workspace().Open(path)
	require.NoError(t, err)
	require.Empty(t, p.Attached())
	require.Equal(t, 1, f.Document.RefCount())

	f.Editor.SetCursor(types.Position{Line: 0, Col: 1})
	typeText(f.Editor, "x")
	require.Equal(t, "<xdiv>text</div>", f.Document.Text())
}

func TestSwitchingFilesMovesAttachment(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.html", "<b>a</b>")
	b := writeFile(t, dir, "b.html", "<i>b</i>")
	h, p := startHost(t, nil)

	fa, err := h.Workspace().Open(a)
	require.NoError(t, err)
	fb, err := h.Workspace().Open(b)
	require.NoError(t, err)

	require.Equal(t, fb.Path, p.Attached())
	require.Equal(t, 1, fa.Document.RefCount())
	require.Equal(t, 2, fb.Document.RefCount())

	// The old document is no longer watched.
	fa.Editor.SetCursor(types.Position{Line: 0, Col: 1})
	typeText(fa.Editor, "x")
	require.Equal(t, "<xb>a</b>", fa.Document.Text())

	require.NoError(t, h.Workspace().SwitchTo(a))
	require.Equal(t, fa.Path, p.Attached())
	require.Equal(t, 1, fb.Document.RefCount())
}

func TestRemoveDetaches(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.html", "<b>a</b>")
	b := writeFile(t, dir, "b.txt", "plain")
	h, p := startHost(t, nil)

	_, err := h.Workspace().Open(b)
	require.NoError(t, err)
	fa, err := h.Workspace().Open(a)
	require.NoError(t, err)
	require.Equal(t, fa.Path, p.Attached())

	require.NoError(t, h.Workspace().Remove(a))
	require.Empty(t, p.Attached())
	require.Equal(t, 0, fa.Document.RefCount())
	require.Nil(t, p.Context())
}

func TestToggleCommand(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.html", "<em>x</em>")
	h, p := startHost(t, nil)

	f, err := h.Workspace().Open(path)
	require.NoError(t, err)

	require.NoError(t, h.Execute("tagsync off"))
	require.False(t, p.Enabled())
	require.Empty(t, p.Attached())
	require.Equal(t, "tags:off", p.StatusText())
	require.Equal(t, 1, f.Document.RefCount())

	f.Editor.SetCursor(types.Position{Line: 0, Col: 3})
	typeText(f.Editor, "m")
	require.Equal(t, "<emm>x</em>", f.Document.Text())

	require.NoError(t, h.Execute("tagsync on"))
	require.Equal(t, f.Path, p.Attached())
	typeText(f.Editor, "a")
	require.Equal(t, "<emma>x</emma>", f.Document.Text())

	require.NoError(t, h.Execute("tagsync"))
	require.Contains(t, h.StatusMessage(), "1 renames")
	require.Contains(t, h.StatusMessage(), "tracking <emma>")

	require.Error(t, h.Execute("tagsync sideways"))
}

func TestDisabledByTagSyncConfig(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.TagSync.Enabled = false
	dir := t.TempDir()
	path := writeFile(t, dir, "a.html", "<p>x</p>")
	h, p := startHost(t, cfg)

	_, err := h.Workspace().Open(path)
	require.NoError(t, err)
	require.Empty(t, p.Attached())

	require.NoError(t, h.Execute("tagsync on"))
	require.NotEmpty(t, p.Attached())
}

func TestPluginTableDisablesPlugin(t *testing.T) {
	cfg := config.NewDefaultConfig()
	off := false
	cfg.Plugins[Name] = config.PluginConfig{Enabled: &off}
	h, _ := startHost(t, cfg)

	require.False(t, h.Plugins().IsInitialized(Name))
	require.False(t, h.HasCommand("tagsync"))
}

func TestCustomExtensions(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.TagSync.Extensions = []string{"vue"}
	t.Cleanup(func() { markup.Configure(nil) })
	dir := t.TempDir()
	vue := writeFile(t, dir, "c.vue", "<span>x</span>")
	html := writeFile(t, dir, "c.html", "<span>x</span>")
	h, p := startHost(t, cfg)

	_, err := h.Workspace().Open(html)
	require.NoError(t, err)
	require.Empty(t, p.Attached())

	f, err := h.Workspace().Open(vue)
	require.NoError(t, err)
	require.Equal(t, f.Path, p.Attached())
}

func TestHighlightAndShutdown(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.html", "<div>text</div>")
	h, p := startHost(t, nil)

	f, err := h.Workspace().Open(path)
	require.NoError(t, err)

	f.Editor.SetCursor(types.Position{Line: 0, Col: 2})
	require.Equal(t, "tags <div>", p.StatusText())
	marks := f.Editor.Marks()
	require.Len(t, marks, 1)
	require.Equal(t, theme.StyleMatchingTag, marks[0].StyleName)
	require.Equal(t, 0, marks[0].Start.Line)
	require.Equal(t, 9, marks[0].Start.Col)

	f.Editor.SetCursor(types.Position{Line: 0, Col: 6})
	require.Equal(t, "tags", p.StatusText())
	require.Empty(t, f.Editor.Marks())

	require.NoError(t, p.Shutdown())
	require.Empty(t, p.Attached())
	require.Equal(t, 1, f.Document.RefCount())
}

func TestUnexpectedRemovePayloadIsLogged(t *testing.T) {
	var out bytes.Buffer
	logger.Init(logger.Config{LogLevel: "warn"}, &out)
	t.Cleanup(func() { logger.Init(logger.NewConfig(), nil) })

	dir := t.TempDir()
	path := writeFile(t, dir, "a.html", "<b>a</b>")
	h, p := startHost(t, nil)
	f, err := h.Workspace().Open(path)
	require.NoError(t, err)

	h.DispatchEvent(event.TypeWorkingSetRemove, path)
	require.Contains(t, out.String(), "unexpected workingSetRemove payload string")
	require.Equal(t, f.Path, p.Attached())
}
