// Package host implements plugin.EditorAPI over a workspace. The interactive app and the
// headless replay runner both drive their plugins through a Host.
package host

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/tagsync/internal/config"
	"github.com/bethropolis/tagsync/internal/core"
	"github.com/bethropolis/tagsync/internal/event"
	"github.com/bethropolis/tagsync/internal/logger"
	"github.com/bethropolis/tagsync/internal/plugin"
	"github.com/bethropolis/tagsync/internal/theme"
	"github.com/bethropolis/tagsync/internal/workspace"
)

// Ensure Host implements the plugin.EditorAPI interface.
var _ plugin.EditorAPI = (*Host)(nil)

// Host owns the app event manager, the working set, the plugins and the ':' commands.
type Host struct {
	cfg       *config.Config
	events    *event.Manager
	workspace *workspace.Workspace
	plugins   *plugin.Manager
	themes    *theme.Manager
	commands  map[string]plugin.CommandFunc

	status   string
	onStatus func(msg string)
	started  bool
}

// New creates a host. themes may be nil for headless use.
func New(cfg *config.Config, themes *theme.Manager) *Host {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	events := event.NewManager("app")
	opts := core.Options{
		ScrollOff:       cfg.Editor.ScrollOff,
		StatusBarHeight: cfg.Editor.StatusBarHeight,
		SystemClipboard: cfg.Editor.SystemClipboard,
	}
	return &Host{
		cfg:       cfg,
		events:    events,
		workspace: workspace.New(events, opts),
		plugins:   plugin.NewManager(),
		themes:    themes,
		commands:  make(map[string]plugin.CommandFunc),
	}
}

func (h *Host) Events() *event.Manager          { return h.events }
func (h *Host) Workspace() *workspace.Workspace { return h.workspace }
func (h *Host) Plugins() *plugin.Manager        { return h.plugins }
func (h *Host) Themes() *theme.Manager          { return h.themes }

// Start registers and initializes plugins, then announces the app is ready.
// Registration errors are logged; the first one is returned after every plugin was tried.
func (h *Host) Start(plugins ...plugin.Plugin) error {
	if h.started {
		return fmt.Errorf("host already started")
	}
	var firstErr error
	for _, p := range plugins {
		if err := h.plugins.Register(p); err != nil {
			logger.Errorf("Host: %v", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	h.plugins.InitializePlugins(h)
	h.started = true
	h.events.Dispatch(event.TypeAppReady, event.AppReadyData{})
	return firstErr
}

// Shutdown announces quit, stops plugins and closes every open file.
func (h *Host) Shutdown() {
	if !h.started {
		h.workspace.Close()
		return
	}
	h.events.Dispatch(event.TypeAppQuit, event.AppQuitData{})
	h.plugins.ShutdownPlugins()
	h.workspace.Close()
	h.started = false
}

// OnStatus installs a callback receiving every status message.
func (h *Host) OnStatus(fn func(msg string)) {
	h.onStatus = fn
}

// StatusMessage returns the last status message.
func (h *Host) StatusMessage() string {
	return h.status
}

// --- plugin.EditorAPI ---

func (h *Host) EditorFor(path string) *core.Editor {
	if f := h.workspace.Find(path); f != nil {
		return f.Editor
	}
	return nil
}

func (h *Host) ActiveEditor() *core.Editor {
	if f := h.workspace.Current(); f != nil {
		return f.Editor
	}
	return nil
}

func (h *Host) DispatchEvent(eventType event.Type, data interface{}) {
	h.events.Dispatch(eventType, data)
}

func (h *Host) SubscribeEvent(eventType event.Type, handler event.Handler) event.SubscriptionID {
	return h.events.Subscribe(eventType, handler)
}

func (h *Host) UnsubscribeEvent(id event.SubscriptionID) {
	h.events.Unsubscribe(id)
}

// RegisterCommand registers a ':' command. Names are case-insensitive.
func (h *Host) RegisterCommand(name string, cmdFunc plugin.CommandFunc) error {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if cmdFunc == nil {
		return fmt.Errorf("command '%s' has no function", name)
	}
	if _, exists := h.commands[name]; exists {
		return fmt.Errorf("command '%s' already registered", name)
	}
	h.commands[name] = cmdFunc
	logger.Debugf("Host: registered command ':%s'", name)
	return nil
}

func (h *Host) SetStatusMessage(format string, args ...interface{}) {
	h.status = fmt.Sprintf(format, args...)
	if h.onStatus != nil {
		h.onStatus(h.status)
	}
}

func (h *Host) GetThemeStyle(styleName string) tcell.Style {
	if h.themes == nil {
		return tcell.StyleDefault
	}
	return h.themes.Current().GetStyle(styleName)
}

func (h *Host) Config() *config.Config {
	return h.cfg
}

// --- commands ---

// Execute runs a ':' command line such as "tagsync off".
func (h *Host) Execute(line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name := strings.ToLower(fields[0])
	cmd, ok := h.commands[name]
	if !ok {
		return fmt.Errorf("unknown command: %s", fields[0])
	}
	logger.DebugTagf("command", "executing ':%s' args=%v", name, fields[1:])
	return cmd(fields[1:])
}

// HasCommand reports whether name is registered.
func (h *Host) HasCommand(name string) bool {
	_, ok := h.commands[strings.ToLower(name)]
	return ok
}

// Commands lists the registered command names, sorted.
func (h *Host) Commands() []string {
	names := make([]string, 0, len(h.commands))
	for name := range h.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
