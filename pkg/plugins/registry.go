// Package plugins keeps the registry of external tool hooks. A hook
// names a command to launch around studio events; this package stores,
// lists, and toggles hooks only. Firing them is the caller's concern.
package plugins

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("hook not found")
	ErrAlreadyExists = errors.New("hook already registered")
	ErrInvalidHook   = errors.New("invalid hook")
)

// Event names a point in the studio lifecycle a hook can attach to.
type Event string

const (
	EventExportPre     Event = "export.pre"
	EventExportPost    Event = "export.post"
	EventEffectApplied Event = "effect.applied"
)

// Valid reports whether ev is one of the known lifecycle events.
func (ev Event) Valid() bool {
	switch ev {
	case EventExportPre, EventExportPost, EventEffectApplied:
		return true
	}
	return false
}

// Hook is an external command bound to a lifecycle event. Command holds
// the argv to launch, binary first.
type Hook struct {
	ID      string
	Name    string
	Event   Event
	Command []string
	Enabled bool
}

func (h Hook) validate() error {
	if h.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidHook)
	}
	if len(h.Command) == 0 {
		return fmt.Errorf("%w: command is required", ErrInvalidHook)
	}
	if !h.Event.Valid() {
		return fmt.Errorf("%w: unknown event %q", ErrInvalidHook, h.Event)
	}
	return nil
}

// Registry is a concurrency-safe hook store. Listing preserves
// registration order.
type Registry struct {
	mu    sync.RWMutex
	hooks map[string]Hook
	order []string
}

// NewRegistry creates an empty hook registry.
func NewRegistry() *Registry {
	return &Registry{hooks: make(map[string]Hook)}
}

// Register validates and stores h, assigning a uuid when h.ID is empty.
// Fresh hooks are stored enabled. The stored hook is returned.
func (r *Registry) Register(h Hook) (Hook, error) {
	if err := h.validate(); err != nil {
		return Hook{}, err
	}
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	h.Enabled = true

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hooks[h.ID]; ok {
		return Hook{}, fmt.Errorf("%w: %q", ErrAlreadyExists, h.ID)
	}
	r.hooks[h.ID] = h
	r.order = append(r.order, h.ID)
	return h, nil
}

// Get returns the hook with the given id.
func (r *Registry) Get(id string) (Hook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.hooks[id]
	if !ok {
		return Hook{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return h, nil
}

// List returns all hooks in registration order.
func (r *Registry) List() []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Hook, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.hooks[id])
	}
	return out
}

// ByEvent returns the enabled hooks bound to ev, in registration order.
func (r *Registry) ByEvent(ev Event) []Hook {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Hook
	for _, id := range r.order {
		h := r.hooks[id]
		if h.Event == ev && h.Enabled {
			out = append(out, h)
		}
	}
	return out
}

// SetEnabled toggles the hook with the given id.
func (r *Registry) SetEnabled(id string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.hooks[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	h.Enabled = enabled
	r.hooks[id] = h
	return nil
}

// Remove deletes the hook with the given id.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.hooks[id]; !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	delete(r.hooks, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
