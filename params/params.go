// Package params implements the versioned key/value stores that back an
// experiment: a Store for operator-adjustable hyperparameters and a
// StatusStore for observation-only status values with bounded history.
//
// Both stores track per-parameter dirty flags so that callers (the menu
// layer, the checkpoint step) can cheaply discover what changed since they
// last looked. Stores are not safe for concurrent use; the control loop
// guarantees a single mutating goroutine.
package params

import (
	"fmt"
	"reflect"
)

// DuplicateNameError is returned by Add when the name is already registered.
type DuplicateNameError struct {
	Name string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("parameter %q already exists", e.Name)
}

// UnknownNameError is returned when an operation references a name that was
// never added.
type UnknownNameError struct {
	Name string
}

func (e *UnknownNameError) Error() string {
	return fmt.Sprintf("unknown parameter %q", e.Name)
}

// Store holds named parameter values with per-name dirty tracking.
// The zero value is not usable; create one with NewStore.
type Store struct {
	values map[string]any
	dirty  map[string]bool
}

// NewStore creates an empty Store.
func NewStore() *Store {
	return &Store{
		values: make(map[string]any),
		dirty:  make(map[string]bool),
	}
}

// Add registers a new parameter and marks it dirty.
// It returns a DuplicateNameError if the name is already registered; the
// store is unchanged in that case.
func (s *Store) Add(name string, value any) error {
	if _, ok := s.values[name]; ok {
		return &DuplicateNameError{Name: name}
	}
	s.values[name] = value
	s.dirty[name] = true
	return nil
}

// AddIfAbsent registers a new parameter exactly like Add, but does nothing
// at all if the name is already registered: the existing value is kept and
// the dirty flag is untouched. This makes initialization idempotent across
// restarts.
func (s *Store) AddIfAbsent(name string, value any) {
	if _, ok := s.values[name]; ok {
		return
	}
	s.values[name] = value
	s.dirty[name] = true
}

// Update overwrites the current value of an existing parameter.
// The parameter is marked dirty only if the new value differs from the
// current one. It returns an UnknownNameError if the name was never added.
func (s *Store) Update(name string, value any) error {
	current, ok := s.values[name]
	if !ok {
		return &UnknownNameError{Name: name}
	}
	if !reflect.DeepEqual(current, value) {
		s.dirty[name] = true
	}
	s.values[name] = value
	return nil
}

// Value returns the current value of a parameter.
// It returns an UnknownNameError if the name was never added.
func (s *Store) Value(name string) (any, error) {
	value, ok := s.values[name]
	if !ok {
		return nil, &UnknownNameError{Name: name}
	}
	return value, nil
}

// Names returns the names of all registered parameters, in no particular
// order.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.values))
	for name := range s.values {
		names = append(names, name)
	}
	return names
}

// Changed returns the names of all parameters modified since the previous
// call, and clears the dirty flag on every name it returns. A second call
// with no intervening mutation returns an empty slice.
func (s *Store) Changed() []string {
	changed := make([]string, 0, len(s.dirty))
	for name := range s.dirty {
		changed = append(changed, name)
		delete(s.dirty, name)
	}
	return changed
}

// has reports whether a name is registered. Used by StatusStore to keep its
// history map in step with the value map.
func (s *Store) has(name string) bool {
	_, ok := s.values[name]
	return ok
}
