package ecs

import "fmt"

// EntityId is a generational entity handle. The lower 32 bits hold the slot
// index and the upper 32 bits hold the slot generation. The zero value never
// refers to a live entity.
type EntityId uint64

// NewEntityId creates an EntityId from a slot index and generation
func NewEntityId(index uint32, generation uint32) EntityId {
	return EntityId(uint64(generation)<<32 | uint64(index))
}

// Index extracts the slot index from the entity ID
func (e EntityId) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Generation extracts the slot generation from the entity ID
func (e EntityId) Generation() uint32 {
	return uint32(e >> 32)
}

func (e EntityId) String() string {
	return fmt.Sprintf("%dv%d", e.Index(), e.Generation())
}

// entitySlot maps a handle slot to its current archetype row.
type entitySlot struct {
	archetype  *Archetype
	row        uint32
	generation uint32
	alive      bool
}
