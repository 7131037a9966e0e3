// internal/plugin/manager.go
package plugin

import (
	"fmt"
	"sync"

	"github.com/bethropolis/tagsync/internal/logger"
)

// Manager handles the registration, initialization, and lifecycle of plugins.
// Plugins are initialized in registration order and shut down in reverse.
type Manager struct {
	mu          sync.RWMutex
	plugins     map[string]Plugin
	order       []string
	initialized map[string]bool
}

// NewManager creates a new plugin manager.
func NewManager() *Manager {
	return &Manager{
		plugins:     make(map[string]Plugin),
		initialized: make(map[string]bool),
	}
}

// Register adds a plugin. Call before InitializePlugins.
func (m *Manager) Register(p Plugin) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	name := p.Name()
	if name == "" {
		return fmt.Errorf("plugin registration failed: plugin name cannot be empty")
	}
	if _, exists := m.plugins[name]; exists {
		return fmt.Errorf("plugin registration failed: plugin named '%s' already registered", name)
	}
	m.plugins[name] = p
	m.order = append(m.order, name)
	logger.Debugf("Plugin Manager: Registered plugin '%s'", name)
	return nil
}

// InitializePlugins initializes every registered plugin that the config leaves enabled.
// A failing plugin is logged and skipped.
func (m *Manager) InitializePlugins(api EditorAPI) {
	for _, p := range m.ordered(false) {
		name := p.Name()
		if cfg := api.Config(); cfg != nil && !cfg.PluginEnabled(name) {
			logger.Infof("Plugin Manager: '%s' disabled by config", name)
			continue
		}
		if err := p.Initialize(api); err != nil {
			logger.Errorf("Plugin Manager: ERROR initializing plugin '%s': %v", name, err)
			continue
		}
		m.mu.Lock()
		m.initialized[name] = true
		m.mu.Unlock()
		logger.Infof("Plugin Manager: Initialized plugin '%s'", name)
	}
}

// ShutdownPlugins shuts down initialized plugins in reverse order.
func (m *Manager) ShutdownPlugins() {
	for _, p := range m.ordered(true) {
		name := p.Name()
		m.mu.Lock()
		active := m.initialized[name]
		delete(m.initialized, name)
		m.mu.Unlock()
		if !active {
			continue
		}
		if err := p.Shutdown(); err != nil {
			logger.Errorf("Plugin Manager: ERROR shutting down plugin '%s': %v", name, err)
		}
	}
}

// GetPlugin returns a registered plugin by name.
func (m *Manager) GetPlugin(name string) (Plugin, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, exists := m.plugins[name]
	return p, exists
}

// IsInitialized reports whether a plugin is running.
func (m *Manager) IsInitialized(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.initialized[name]
}

// StatusTexts collects the status segments of running plugins, in registration order.
func (m *Manager) StatusTexts() []string {
	var out []string
	for _, p := range m.ordered(false) {
		if !m.IsInitialized(p.Name()) {
			continue
		}
		if sp, ok := p.(StatusProvider); ok {
			if text := sp.StatusText(); text != "" {
				out = append(out, text)
			}
		}
	}
	return out
}

func (m *Manager) ordered(reverse bool) []Plugin {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Plugin, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, m.plugins[name])
	}
	if reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}
