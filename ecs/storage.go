package ecs

import (
	"iter"
	"reflect"
	"slices"
	"sort"
	"unsafe"
)

// Storage is the main ECS storage interface
type Storage struct {
	archetypes map[uint32]*Archetype
	registry   *ComponentRegistry
	slots      []entitySlot
	free       []uint32
	alive      int

	// epoch changes whenever the archetype set changes, so cached queries can
	// tell a cleared world from one that merely has the same archetype count.
	epoch uint64

	singletons map[reflect.Type]*singletonEntry
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		archetypes: make(map[uint32]*Archetype),
		registry:   registry,
		singletons: make(map[reflect.Type]*singletonEntry),
	}
}

// Registry returns the component registry backing this storage
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

func (s *Storage) allocate() EntityId {
	if n := len(s.free); n > 0 {
		index := s.free[n-1]
		s.free = s.free[:n-1]
		slot := &s.slots[index]
		slot.alive = true
		s.alive++
		return NewEntityId(index, slot.generation)
	}

	index := uint32(len(s.slots))
	s.slots = append(s.slots, entitySlot{generation: 1, alive: true})
	s.alive++
	return NewEntityId(index, 1)
}

func (s *Storage) release(index uint32) {
	slot := &s.slots[index]
	slot.alive = false
	slot.archetype = nil
	slot.row = 0
	slot.generation++
	if slot.generation == 0 {
		slot.generation = 1
	}
	s.free = append(s.free, index)
	s.alive--
}

// slot returns the live slot for id, or nil if the handle is stale.
func (s *Storage) slot(id EntityId) *entitySlot {
	index := id.Index()
	if int(index) >= len(s.slots) {
		return nil
	}
	slot := &s.slots[index]
	if !slot.alive || slot.generation != id.Generation() {
		return nil
	}
	return slot
}

// Alive reports whether id refers to a live entity
func (s *Storage) Alive(id EntityId) bool {
	return s.slot(id) != nil
}

// Len returns the number of live entities
func (s *Storage) Len() int {
	return s.alive
}

func (s *Storage) archetypeFor(types []reflect.Type) *Archetype {
	archetypeId := hashTypesToUint32(types)
	archetype, exists := s.archetypes[archetypeId]
	if !exists {
		archetype = NewArchetype(archetypeId, types, s.registry)
		s.archetypes[archetypeId] = archetype
		s.epoch++
	}
	return archetype
}

// GetArchetype returns an archetype storage (if one exists)
func (s *Storage) GetArchetype(components ...any) *Archetype {
	types := extractComponentTypes(components)
	return s.archetypes[hashTypesToUint32(types)]
}

// GetArchetypeByTypes returns an archetype storage (if one exists) based on reflect.Type
func (s *Storage) GetArchetypeByTypes(types []reflect.Type) *Archetype {
	sorted := slices.Clone(types)
	sort.Sort(byTypeName(sorted))
	return s.archetypes[hashTypesToUint32(sorted)]
}

// Archetypes iterates over every archetype currently held by the storage
func (s *Storage) Archetypes() iter.Seq[*Archetype] {
	return func(yield func(*Archetype) bool) {
		for _, archetype := range s.archetypes {
			if !yield(archetype) {
				return
			}
		}
	}
}

// Spawn creates a new entity with the provided components
func (s *Storage) Spawn(components ...any) EntityId {
	if len(components) == 0 {
		panic("cannot spawn entity without components")
	}

	types := extractComponentTypes(components)
	archetype := s.archetypeFor(types)

	id := s.allocate()
	row := archetype.spawn(id, components)

	slot := &s.slots[id.Index()]
	slot.archetype = archetype
	slot.row = row
	return id
}

// Delete removes all data related to the entity ID. Stale handles are ignored.
func (s *Storage) Delete(id EntityId) bool {
	slot := s.slot(id)
	if slot == nil {
		return false
	}

	slot.archetype.delete(slot.row)
	s.release(id.Index())
	return true
}

// Clear deletes every entity. All handles issued before the call become
// stale and are never handed out again. Singletons survive. Entities spawned
// afterwards reuse slots in ascending index order.
func (s *Storage) Clear() {
	for index := len(s.slots) - 1; index >= 0; index-- {
		if s.slots[index].alive {
			s.release(uint32(index))
		}
	}
	s.archetypes = make(map[uint32]*Archetype)
	s.epoch++
}

// AddComponent attaches component to the entity, replacing an existing
// component of the same type. The entity keeps its handle.
func (s *Storage) AddComponent(id EntityId, component any) bool {
	slot := s.slot(id)
	if slot == nil {
		return false
	}
	oldArchetype := slot.archetype

	compType := reflect.TypeOf(component)
	if compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
	}

	if idx := oldArchetype.storageIndex(compType); idx != -1 {
		existing := oldArchetype.storages[idx].Get(int(slot.row))
		reflect.ValueOf(existing).Elem().Set(reflect.Indirect(reflect.ValueOf(component)))
		return true
	}

	newTypes := make([]reflect.Type, 0, len(oldArchetype.types)+1)
	newTypes = append(newTypes, oldArchetype.types...)
	newTypes = append(newTypes, compType)
	sort.Sort(byTypeName(newTypes))

	components := make([]any, 0, len(newTypes))
	for _, typ := range newTypes {
		if typ == compType {
			components = append(components, component)
		} else {
			components = append(components, oldArchetype.GetComponent(slot.row, typ))
		}
	}

	s.move(id, slot, newTypes, components)
	return true
}

// RemoveComponent detaches the component of the given type. An entity left
// without components is deleted.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) bool {
	slot := s.slot(id)
	if slot == nil {
		return false
	}
	oldArchetype := slot.archetype
	if !oldArchetype.HasComponent(compType) {
		return false
	}

	newTypes := make([]reflect.Type, 0, len(oldArchetype.types)-1)
	for _, typ := range oldArchetype.types {
		if typ != compType {
			newTypes = append(newTypes, typ)
		}
	}

	if len(newTypes) == 0 {
		return s.Delete(id)
	}

	components := make([]any, 0, len(newTypes))
	for _, typ := range newTypes {
		components = append(components, oldArchetype.GetComponent(slot.row, typ))
	}

	s.move(id, slot, newTypes, components)
	return true
}

func (s *Storage) move(id EntityId, slot *entitySlot, types []reflect.Type, components []any) {
	newArchetype := s.archetypeFor(types)
	newRow := newArchetype.spawn(id, components)
	slot.archetype.delete(slot.row)
	slot.archetype = newArchetype
	slot.row = newRow
}

// GetComponent returns the component for the given entity ID and component type
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	slot := s.slot(id)
	if slot == nil {
		return nil
	}
	return slot.archetype.GetComponent(slot.row, compType)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	slot := s.slot(id)
	if slot == nil {
		return false
	}
	return slot.archetype.HasComponent(compType)
}

// ComponentTypes returns the component types attached to the entity
func (s *Storage) ComponentTypes(id EntityId) []reflect.Type {
	slot := s.slot(id)
	if slot == nil {
		return nil
	}
	return slot.archetype.types
}

// extractComponentTypes extracts and sorts component types from a slice of components
func extractComponentTypes(components []any) []reflect.Type {
	types := make([]reflect.Type, 0, len(components))
	for _, comp := range components {
		compType := reflect.TypeOf(comp)

		// If it's a pointer, get the underlying type
		if compType.Kind() == reflect.Ptr {
			compType = compType.Elem()
		}

		// Components can be structs or primitives (int, string, etc.)
		// But not pointers, maps, channels, or functions (those aren't value types)
		if compType.Kind() == reflect.Ptr || compType.Kind() == reflect.Map ||
			compType.Kind() == reflect.Chan || compType.Kind() == reflect.Func {
			panic("components cannot be pointers, maps, channels, or functions")
		}

		types = append(types, compType)
	}
	sort.Sort(byTypeName(types))
	return types
}

// hashTypesToUint32 generates a uint32 hash for a sorted slice of types
func hashTypesToUint32(types []reflect.Type) uint32 {
	var h uint32 = 2166136261     // FNV-1a 32-bit offset basis
	const prime uint32 = 16777619 // FNV-1a 32-bit prime

	for _, t := range types {
		// Use the type's pointer as a unique identifier
		ptr := (*iface)(unsafe.Pointer(&t)).data
		val := uint32(uintptr(ptr))

		// Mix in all 4 bytes if on 64-bit system
		if unsafe.Sizeof(uintptr(0)) == 8 {
			val ^= uint32(uintptr(ptr) >> 32)
		}

		h ^= val
		h *= prime
	}

	return h
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the entity's component of type T, or nil.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp, _ := reader.GetComponent(entityId, reflect.TypeFor[T]()).(*T)
	return comp
}
