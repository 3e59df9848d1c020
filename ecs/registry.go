package ecs

import "reflect"

// ComponentRegistry maps component types to the column constructors used by
// archetypes. Each Storage owns one, so independent worlds never share
// registrations.
type ComponentRegistry struct {
	columns map[reflect.Type]func() iComponentStorage
}

func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		columns: make(map[reflect.Type]func() iComponentStorage),
	}
}

// RegisterComponent makes T usable in storages built from r. Registering
// the same type twice is harmless.
func RegisterComponent[T any](r *ComponentRegistry) {
	r.columns[reflect.TypeFor[T]()] = func() iComponentStorage {
		return &column[T]{}
	}
}

// getFactory returns nil for unregistered types.
func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.columns[t]
}
