// internal/app/app.go
package app

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/tagsync/internal/config"
	"github.com/bethropolis/tagsync/internal/event"
	"github.com/bethropolis/tagsync/internal/host"
	"github.com/bethropolis/tagsync/internal/input"
	"github.com/bethropolis/tagsync/internal/logger"
	"github.com/bethropolis/tagsync/internal/modehandler"
	"github.com/bethropolis/tagsync/internal/statusbar"
	"github.com/bethropolis/tagsync/internal/theme"
	"github.com/bethropolis/tagsync/internal/tui"
)

// App is the interactive editor: a host driven by a terminal.
type App struct {
	cfg         *config.Config
	host        *host.Host
	themes      *theme.Manager
	statusBar   *statusbar.StatusBar
	modeHandler *modehandler.ModeHandler
	tuiManager  *tui.TUI

	quit        chan struct{}
	quitOnce    sync.Once
	quitPending bool // First :q with unsaved changes only warns
	ready       chan struct{}
}

// New builds the editor, opens files (the first one becomes current) and starts the
// plugins. Files that fail to open are reported on the status bar.
func New(cfg *config.Config, files []string) (*App, error) {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	themes := theme.NewManager(config.ThemesDir(), cfg.Editor.Theme)
	a := &App{
		cfg:       cfg,
		host:      host.New(cfg, themes),
		themes:    themes,
		statusBar: statusbar.New(config.MessageTimeout),
		quit:      make(chan struct{}),
		ready:     make(chan struct{}),
	}
	a.host.OnStatus(func(msg string) {
		a.statusBar.SetTemporaryMessage("%s", msg)
	})
	a.modeHandler = modehandler.New(modehandler.Config{
		Host:           a.host,
		InputProcessor: input.NewInputProcessor(),
		StatusBar:      a.statusBar,
		TabWidth:       cfg.Editor.TabWidth,
	})

	a.host.SubscribeEvent(event.TypeBufferSaved, a.handleBufferSaved)
	a.host.SubscribeEvent(event.TypeCurrentFileChanged, a.handleCurrentFileChanged)

	if err := a.registerCommands(); err != nil {
		return nil, err
	}
	if err := a.host.Start(builtinPlugins()...); err != nil {
		logger.Warnf("App: %v", err)
	}

	if len(files) == 0 {
		files = []string{""}
	}
	for _, path := range files {
		if _, err := a.host.Workspace().Add(path); err != nil {
			logger.Errorf("App: %v", err)
			a.host.SetStatusMessage("%v", err)
		}
	}
	if all := a.host.Workspace().Files(); len(all) > 0 {
		if err := a.host.Workspace().SwitchTo(all[0].Path); err != nil {
			return nil, err
		}
	} else if _, err := a.host.Workspace().Open(""); err != nil {
		return nil, err
	}
	return a, nil
}

// Host exposes the plugin host, mainly for tests.
func (a *App) Host() *host.Host {
	return a.host
}

// Ready is closed once the screen is up and drawn.
func (a *App) Ready() <-chan struct{} {
	return a.ready
}

// Run runs the editor on the terminal until it quits.
func (a *App) Run() error {
	ui, err := tui.New(a.themes.Current().GetStyle(theme.StyleDefault))
	if err != nil {
		return fmt.Errorf("TUI initialization failed: %w", err)
	}
	return a.run(ui)
}

// RunWithScreen runs the editor on s until it quits. Tests pass a tcell.SimulationScreen.
func (a *App) RunWithScreen(s tcell.Screen) error {
	ui, err := tui.NewWithScreen(s, a.themes.Current().GetStyle(theme.StyleDefault))
	if err != nil {
		return fmt.Errorf("TUI initialization failed: %w", err)
	}
	return a.run(ui)
}

// run owns ui until quit. Key handling and drawing both happen on the calling
// goroutine; a helper goroutine only polls the screen.
func (a *App) run(ui *tui.TUI) error {
	a.tuiManager = ui
	defer ui.Close()
	defer a.host.Shutdown()

	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := ui.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	a.drawEditor()
	close(a.ready)
	logger.Infof("App: running")

	for {
		select {
		case <-a.quit:
			logger.Infof("Exiting application.")
			return nil
		case ev := <-events:
			if a.handleEvent(ev) {
				a.drawEditor()
			}
		}
	}
}

// handleEvent processes one terminal event and reports whether to redraw.
func (a *App) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		a.tuiManager.Sync()
		return true
	case *tcell.EventKey:
		wasPending := a.quitPending
		redraw := a.modeHandler.HandleKeyEvent(ev)
		if wasPending && a.quitPending {
			a.quitPending = false
		}
		return redraw
	}
	return false
}

// requestQuit makes the main loop return. Safe to call more than once.
func (a *App) requestQuit() {
	a.quitOnce.Do(func() { close(a.quit) })
}
