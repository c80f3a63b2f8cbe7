package ama

import (
	"maps"
	"sync"
)

// Variables stages attributes that are merged into the request's Transition event.
type Variables struct {
	values map[string]any
	mu     sync.RWMutex
}

// NewVariables creates an empty staging map.
func NewVariables() *Variables {
	return &Variables{
		values: make(map[string]any),
	}
}

// Set sets a variable
func (v *Variables) Set(key string, value any) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values[key] = value
}

// Get gets a variable
func (v *Variables) Get(key string) any {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.values[key]
}

// Delete removes a variable
func (v *Variables) Delete(key string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	delete(v.values, key)
}

// GetAll returns a copy of every variable, or nil when none are set.
func (v *Variables) GetAll() map[string]any {
	v.mu.RLock()
	defer v.mu.RUnlock()

	if len(v.values) == 0 {
		return nil
	}
	return maps.Clone(v.values)
}

// IsEmpty returns true if no variable is set
func (v *Variables) IsEmpty() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.values) == 0
}

// Clear removes all variables
func (v *Variables) Clear() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.values = make(map[string]any)
}
