package ecs_test

import (
	"testing"

	"github.com/plus3/redback/ecs"
	"github.com/stretchr/testify/assert"
)

func TestQueryRequiresExecute(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[movingView](storage)

	assert.Panics(t, func() {
		for range query.Iter() {
		}
	})
	assert.Panics(t, func() {
		for range query.Values() {
		}
	})
}

func TestQuerySeesNewArchetypes(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[struct{ *Position }](storage)

	storage.Spawn(Position{X: 1})
	query.Execute()
	assert.Equal(t, 1, query.Len())

	storage.Spawn(Position{X: 2}, Velocity{})
	query.Execute()
	assert.Equal(t, 2, query.Len())
}

func TestQueryAfterClear(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	query := ecs.NewQuery[struct{ *Position }](storage)

	old := storage.Spawn(Position{X: 1})
	query.Execute()
	assert.Equal(t, 1, query.Len())

	storage.Clear()
	fresh := storage.Spawn(Position{X: 2})
	query.Execute()

	ids := []ecs.EntityId{}
	for id, item := range query.Iter() {
		ids = append(ids, id)
		assert.Equal(t, float32(2), item.Position.X)
	}
	assert.Equal(t, []ecs.EntityId{fresh}, ids)
	assert.NotContains(t, ids, old)
}
