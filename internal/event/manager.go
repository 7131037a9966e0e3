// internal/event/manager.go
package event

import (
	"sync"

	"github.com/bethropolis/tagsync/internal/logger"
)

// Handler is an event subscriber. Returning true marks the event consumed and
// stops delivery to later handlers.
type Handler func(e Event) bool

// SubscriptionID identifies a subscription for Unsubscribe.
type SubscriptionID uint64

type subscription struct {
	id      SubscriptionID
	handler Handler
}

// Manager handles event subscriptions and dispatching.
type Manager struct {
	mu       sync.RWMutex
	name     string
	nextID   SubscriptionID
	handlers map[Type][]subscription
}

// NewManager creates a new event manager. The name only shows up in logs.
func NewManager(name string) *Manager {
	return &Manager{
		name:     name,
		handlers: make(map[Type][]subscription),
	}
}

// Subscribe adds a handler for an event type. Handlers run in subscription order.
func (m *Manager) Subscribe(eventType Type, handler Handler) SubscriptionID {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	m.handlers[eventType] = append(m.handlers[eventType], subscription{id: m.nextID, handler: handler})
	logger.DebugTagf("event", "%s: subscribed #%d to %v", m.name, m.nextID, eventType)
	return m.nextID
}

// Unsubscribe removes a subscription. Unknown IDs are ignored.
func (m *Manager) Unsubscribe(id SubscriptionID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for t, subs := range m.handlers {
		for i, s := range subs {
			if s.id != id {
				continue
			}
			kept := make([]subscription, 0, len(subs)-1)
			kept = append(kept, subs[:i]...)
			kept = append(kept, subs[i+1:]...)
			m.handlers[t] = kept
			logger.DebugTagf("event", "%s: unsubscribed #%d from %v", m.name, id, t)
			return true
		}
	}
	return false
}

// HandlerCount returns the number of handlers subscribed to an event type.
func (m *Manager) HandlerCount(eventType Type) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handlers[eventType])
}

// Dispatch delivers an event synchronously. Handlers may subscribe, unsubscribe or
// dispatch again while running; they see the handler list as it was at dispatch time.
func (m *Manager) Dispatch(eventType Type, data interface{}) {
	m.mu.RLock()
	subs := m.handlers[eventType]
	snapshot := make([]subscription, len(subs))
	copy(snapshot, subs)
	m.mu.RUnlock()

	if len(snapshot) == 0 {
		return
	}

	e := Event{Type: eventType, Data: data}
	for _, s := range snapshot {
		if s.handler(e) {
			logger.DebugTagf("event", "%s: %v consumed by #%d", m.name, eventType, s.id)
			return
		}
	}
}
