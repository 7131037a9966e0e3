// internal/plugin/plugin.go
package plugin

import (
	"github.com/gdamore/tcell/v2"

	"github.com/bethropolis/tagsync/internal/config"
	"github.com/bethropolis/tagsync/internal/core"
	"github.com/bethropolis/tagsync/internal/event"
)

// CommandFunc is a ':' command registered by a plugin.
type CommandFunc func(args []string) error

// EditorAPI is what plugins may touch. Hosts (the TUI app, the replay runner) implement it.
type EditorAPI interface {
	// EditorFor returns the editor of an open file, or nil.
	EditorFor(path string) *core.Editor
	// ActiveEditor returns the current editor, or nil when nothing is open.
	ActiveEditor() *core.Editor

	// Event bus: working set and app lifecycle events.
	DispatchEvent(eventType event.Type, data interface{})
	SubscribeEvent(eventType event.Type, handler event.Handler) event.SubscriptionID
	UnsubscribeEvent(id event.SubscriptionID)

	RegisterCommand(name string, cmdFunc CommandFunc) error

	SetStatusMessage(format string, args ...interface{})

	GetThemeStyle(styleName string) tcell.Style

	Config() *config.Config
}

// Plugin is the interface every plugin implements.
type Plugin interface {
	// Name is the unique plugin name, also the key of its [plugins.<name>] table.
	Name() string

	// Initialize is called once at startup to subscribe to events and register commands.
	Initialize(api EditorAPI) error

	// Shutdown is called once on exit and must release everything Initialize acquired.
	Shutdown() error
}

// StatusProvider is implemented by plugins that show a segment in the status bar.
type StatusProvider interface {
	StatusText() string
}
