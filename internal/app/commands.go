package app

import (
	"fmt"
	"strings"

	"github.com/bethropolis/tagsync/internal/event"
	"github.com/bethropolis/tagsync/internal/plugin"
	"github.com/bethropolis/tagsync/internal/theme"
)

// registerCommands registers the built-in ':' commands.
func (a *App) registerCommands() error {
	builtins := []struct {
		name string
		fn   plugin.CommandFunc
	}{
		{"w", a.cmdWrite},
		{"q", a.cmdQuit},
		{"q!", a.cmdForceQuit},
		{"wq", a.cmdWriteQuit},
		{"e", a.cmdEdit},
		{"bn", a.cmdNext},
		{"bp", a.cmdPrev},
		{"bd", a.cmdDelete(false)},
		{"bd!", a.cmdDelete(true)},
		{"theme", a.cmdTheme},
		{"themes", a.cmdThemes},
	}
	for _, b := range builtins {
		if err := a.host.RegisterCommand(b.name, b.fn); err != nil {
			return fmt.Errorf("failed to register ':%s' command: %w", b.name, err)
		}
	}
	return nil
}

func (a *App) modified() []string {
	var names []string
	for _, f := range a.host.Workspace().Files() {
		if f.Document.Buffer().IsModified() {
			name := f.Path
			if name == "" {
				name = "[No Name]"
			}
			names = append(names, name)
		}
	}
	return names
}

// cmdWrite implements :w [path].
func (a *App) cmdWrite(args []string) error {
	ed := a.host.ActiveEditor()
	if ed == nil {
		return fmt.Errorf("no file open")
	}
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	if err := ed.Document().Save(path); err != nil {
		return fmt.Errorf("save failed: %w", err)
	}
	a.host.DispatchEvent(event.TypeBufferSaved, event.BufferSavedData{FilePath: ed.Document().FilePath()})
	return nil
}

// cmdQuit quits, or warns once when there are unsaved changes.
func (a *App) cmdQuit([]string) error {
	if dirty := a.modified(); len(dirty) > 0 && !a.quitPending {
		a.quitPending = true
		a.host.SetStatusMessage("Unsaved changes in %s! Quit again or :q! to discard.", strings.Join(dirty, ", "))
		return nil
	}
	a.requestQuit()
	return nil
}

func (a *App) cmdForceQuit([]string) error {
	a.requestQuit()
	return nil
}

func (a *App) cmdWriteQuit(args []string) error {
	if err := a.cmdWrite(args); err != nil {
		return err
	}
	a.requestQuit()
	return nil
}

// cmdEdit implements :e <file>; the file joins the working set and becomes current.
func (a *App) cmdEdit(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: e <file>")
	}
	_, err := a.host.Workspace().Open(args[0])
	return err
}

func (a *App) cmdNext([]string) error {
	a.host.Workspace().Next()
	return nil
}

func (a *App) cmdPrev([]string) error {
	a.host.Workspace().Prev()
	return nil
}

// cmdDelete implements :bd and :bd!. Closing the last file leaves an empty buffer.
func (a *App) cmdDelete(force bool) plugin.CommandFunc {
	return func([]string) error {
		ws := a.host.Workspace()
		cur := ws.Current()
		if cur == nil {
			return fmt.Errorf("no file open")
		}
		if !force && cur.Document.Buffer().IsModified() {
			return fmt.Errorf("no write since last change (add ! to override)")
		}
		if err := ws.Remove(cur.Path); err != nil {
			return err
		}
		if ws.Current() == nil {
			_, err := ws.Open("")
			return err
		}
		return nil
	}
}

// cmdTheme shows or sets the theme.
func (a *App) cmdTheme(args []string) error {
	if len(args) == 0 {
		a.host.SetStatusMessage("Current theme: %s", a.themes.Current().Name)
		return nil
	}
	name := strings.Join(args, " ")
	if err := a.themes.SetTheme(name); err != nil {
		return fmt.Errorf("theme '%s' not found. Available: %s", name, strings.Join(a.themes.ListThemes(), ", "))
	}
	if a.tuiManager != nil {
		a.tuiManager.SetStyle(a.themes.Current().GetStyle(theme.StyleDefault))
	}
	a.host.SetStatusMessage("Theme set to: %s", a.themes.Current().Name)
	return nil
}

func (a *App) cmdThemes([]string) error {
	a.host.SetStatusMessage("Available themes: %s", strings.Join(a.themes.ListThemes(), ", "))
	return nil
}
