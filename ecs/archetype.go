package ecs

import (
	"reflect"
	"slices"

	"github.com/kamstrup/intmap"
)

type byTypeName []reflect.Type

func (a byTypeName) Len() int           { return len(a) }
func (a byTypeName) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a byTypeName) Less(i, j int) bool { return a[i].String() < a[j].String() }

// Archetype represents a unique combination of component types
type Archetype struct {
	id       uint32
	types    []reflect.Type
	storages []iComponentStorage
	owners   *intmap.Map[uint32, EntityId]
}

// NewArchetype creates a new archetype with the given ID and sorted component types
func NewArchetype(id uint32, types []reflect.Type, registry *ComponentRegistry) *Archetype {
	a := &Archetype{
		id:       id,
		types:    types,
		storages: make([]iComponentStorage, len(types)),
		owners:   intmap.New[uint32, EntityId](64),
	}

	// Initialize storage for each component type
	for idx, typ := range types {
		factory := registry.getFactory(typ)
		if factory == nil {
			panic("component type " + typ.String() + " not registered")
		}
		a.storages[idx] = factory()
	}

	return a
}

// spawn appends one component per storage and returns the shared row.
// Every storage frees and reuses slots in the same order, so rows stay aligned.
func (a *Archetype) spawn(owner EntityId, components []any) uint32 {
	var row int
	for _, comp := range components {
		compType := reflect.TypeOf(comp)
		if compType.Kind() == reflect.Ptr {
			compType = compType.Elem()
		}

		for idx, typ := range a.types {
			if typ == compType {
				row = a.storages[idx].Append(comp)
			}
		}
	}

	a.owners.Put(uint32(row), owner)
	return uint32(row)
}

// GetComponent returns the component of the given type stored at row
func (a *Archetype) GetComponent(row uint32, compType reflect.Type) any {
	idx := a.storageIndex(compType)
	if idx == -1 {
		return nil
	}
	return a.storages[idx].Get(int(row))
}

func (a *Archetype) storageIndex(compType reflect.Type) int {
	for i, typ := range a.types {
		if typ == compType {
			return i
		}
	}
	return -1
}

// delete empties a row. Rows of other entities are unaffected.
func (a *Archetype) delete(row uint32) {
	a.owners.Del(row)
	for _, storage := range a.storages {
		storage.Delete(int(row))
	}
}

// HasComponent checks if this archetype has the given component type
func (a *Archetype) HasComponent(compType reflect.Type) bool {
	return slices.Contains(a.types, compType)
}

// ID returns the archetype's unique identifier
func (a *Archetype) ID() uint32 {
	return a.id
}

// Types returns the sorted component types for this archetype
func (a *Archetype) Types() []reflect.Type {
	return a.types
}

// Len returns the number of live entities in this archetype
func (a *Archetype) Len() int {
	return a.owners.Len()
}

// Iter returns an iterator over all live EntityIds in this archetype
func (a *Archetype) Iter() func(yield func(EntityId) bool) {
	return func(yield func(EntityId) bool) {
		if len(a.storages) == 0 {
			return
		}

		for row := range a.storages[0].Iter() {
			id, ok := a.owners.Get(uint32(row))
			if !ok {
				continue
			}
			if !yield(id) {
				return
			}
		}
	}
}
