package ecs_test

import (
	"testing"

	"github.com/plus3/redback/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type movingView struct {
	*Position
	*Velocity
}

type namedView struct {
	ecs.EntityId
	*Position
	Name *Name `ecs:"optional"`
}

func TestViewGet(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[movingView](storage)

	moving := storage.Spawn(Position{X: 1}, Velocity{DX: 2})
	still := storage.Spawn(Position{X: 5})

	item := view.Get(moving)
	require.NotNil(t, item)
	assert.Equal(t, float32(1), item.Position.X)
	assert.Equal(t, float32(2), item.Velocity.DX)

	item.Position.X = 9
	assert.Equal(t, float32(9), ecs.ReadComponent[Position](storage, moving).X)

	assert.Nil(t, view.Get(still))

	storage.Delete(moving)
	assert.Nil(t, view.Get(moving))
}

func TestViewOptionalAndEntityId(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[namedView](storage)

	named := storage.Spawn(Position{X: 1}, Name{Value: "hero"})
	anonymous := storage.Spawn(Position{X: 2})

	found := map[ecs.EntityId]namedView{}
	for id, item := range view.Iter() {
		assert.Equal(t, id, item.EntityId)
		found[id] = item
	}

	require.Len(t, found, 2)
	require.NotNil(t, found[named].Name)
	assert.Equal(t, "hero", found[named].Name.Value)
	assert.Nil(t, found[anonymous].Name)
}

func TestViewInvalidTagPanics(t *testing.T) {
	type badView struct {
		Position *Position `ecs:"sometimes"`
	}
	storage := ecs.NewStorage(newTestRegistry())
	assert.Panics(t, func() { ecs.NewView[badView](storage) })
}

func TestViewSpawn(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[namedView](storage)

	id := view.Spawn(namedView{Position: &Position{X: 4}})
	assert.True(t, storage.Alive(id))
	assert.Len(t, storage.ComponentTypes(id), 1)

	item := view.Get(id)
	require.NotNil(t, item)
	assert.Equal(t, float32(4), item.Position.X)
	assert.Nil(t, item.Name)
}

func TestViewValues(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	view := ecs.NewView[movingView](storage)

	for i := 0; i < 3; i++ {
		storage.Spawn(Position{}, Velocity{DX: 1})
	}
	storage.Spawn(Position{})

	total := float32(0)
	for item := range view.Values() {
		total += item.Velocity.DX
	}
	assert.Equal(t, float32(3), total)
}
