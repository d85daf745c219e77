package backend

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry holds the running monitors keyed by ID.
type Registry struct {
	mu       sync.RWMutex
	monitors map[string]Backend
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		monitors: make(map[string]Backend),
	}
}

// Register adds a monitor. Registering a nil monitor, an empty ID or an ID that
// is already present fails.
func (r *Registry) Register(b Backend) error {
	if b == nil {
		return fmt.Errorf("cannot register nil backend")
	}

	id := b.GetID()
	if id == "" {
		return fmt.Errorf("backend ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.monitors[id]; exists {
		return fmt.Errorf("backend with ID %s already registered", id)
	}

	r.monitors[id] = b
	return nil
}

// Unregister removes a monitor and stops it. The monitor is removed even if
// Stop fails.
func (r *Registry) Unregister(id string) error {
	r.mu.Lock()
	b, exists := r.monitors[id]
	if !exists {
		r.mu.Unlock()
		return fmt.Errorf("backend with ID %s not found", id)
	}
	delete(r.monitors, id)
	r.mu.Unlock()

	// Stop outside the lock so API readers are not blocked by a slow shutdown.
	if err := b.Stop(); err != nil {
		return fmt.Errorf("failed to stop backend %s: %w", id, err)
	}

	return nil
}

// Get returns the monitor with the given ID, or nil.
func (r *Registry) Get(id string) Backend {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.monitors[id]
}

// List returns all registered monitors ordered by name, then ID.
func (r *Registry) List() []Backend {
	r.mu.RLock()
	list := make([]Backend, 0, len(r.monitors))
	for _, b := range r.monitors {
		list = append(list, b)
	}
	r.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool {
		if list[i].GetName() != list[j].GetName() {
			return list[i].GetName() < list[j].GetName()
		}
		return list[i].GetID() < list[j].GetID()
	})

	return list
}

// UnregisterAll stops and removes every monitor. All stop errors are joined.
func (r *Registry) UnregisterAll() error {
	r.mu.Lock()
	monitors := make([]Backend, 0, len(r.monitors))
	for id, b := range r.monitors {
		monitors = append(monitors, b)
		delete(r.monitors, id)
	}
	r.mu.Unlock()

	var errs []error
	for _, b := range monitors {
		if err := b.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop backend %s: %w", b.GetID(), err))
		}
	}

	return errors.Join(errs...)
}

// Count returns the number of registered monitors.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.monitors)
}
