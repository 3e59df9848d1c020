package ecs_test

import (
	"testing"

	"github.com/plus3/redback/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())

	for i := 0; i < 3; i++ {
		storage.Spawn(Position{}, Velocity{})
	}
	storage.Spawn(Name{Value: "solo"})
	ecs.NewSingleton[Health](storage)

	stats := storage.CollectStats()
	assert.Equal(t, 2, stats.ArchetypeCount)
	assert.Equal(t, 4, stats.TotalEntityCount)
	assert.Equal(t, 1, stats.SingletonCount)
	assert.Equal(t, []string{"ecs_test.Health"}, stats.SingletonTypes)

	counts := map[int]int{}
	for _, archetype := range stats.ArchetypeBreakdown {
		counts[len(archetype.ComponentTypes)] = archetype.EntityCount
	}
	assert.Equal(t, map[int]int{2: 3, 1: 1}, counts)

	storage.Clear()
	stats = storage.CollectStats()
	assert.Equal(t, 0, stats.ArchetypeCount)
	assert.Equal(t, 0, stats.TotalEntityCount)
	require.Equal(t, 1, stats.SingletonCount)
}
