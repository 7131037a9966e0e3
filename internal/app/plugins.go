package app

import (
	"github.com/bethropolis/tagsync/internal/plugin"
	"github.com/bethropolis/tagsync/plugins/tagsync"
)

// builtinPlugins lists the plugins the editor ships with, in initialization order.
// Adding a plugin means adding its constructor here.
func builtinPlugins() []plugin.Plugin {
	return []plugin.Plugin{
		tagsync.New(),
	}
}
