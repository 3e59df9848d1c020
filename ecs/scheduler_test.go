package ecs_test

import (
	"testing"

	"github.com/plus3/redback/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type MovementSystem struct {
	Entities ecs.Query[struct {
		*Position
		*Velocity
	}]
	ExecuteCount int
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	for item := range s.Entities.Values() {
		item.Position.X += item.Velocity.DX * float32(frame.DeltaTime)
		item.Position.Y += item.Velocity.DY * float32(frame.DeltaTime)
	}
}

type HealthSystem struct {
	Entities ecs.Query[struct {
		*Health
	}]
	Score        ecs.Singleton[Score]
	ExecuteCount int
	TotalHealth  int
}

func (s *HealthSystem) Execute(frame *ecs.UpdateFrame) {
	s.ExecuteCount++
	s.TotalHealth = 0
	for item := range s.Entities.Values() {
		s.TotalHealth += item.Health.Current
	}
	if score := s.Score.Get(); score != nil {
		*score += Score(s.TotalHealth)
	}
}

type haltSystem struct{}

func (haltSystem) Execute(frame *ecs.UpdateFrame) {
	frame.Commands.Spawn(Name{Value: "queued"})
	frame.Halt()
}

func TestScheduler(t *testing.T) {
	t.Run("systems run in order with initialized queries", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)
		ecs.NewSingleton[Score](storage, Score(1))

		movement := &MovementSystem{}
		health := &HealthSystem{}
		scheduler.Register(movement)
		scheduler.Register(health)

		mover := storage.Spawn(Position{}, Velocity{DX: 1, DY: 2})
		storage.Spawn(Health{Current: 100, Max: 100})

		scheduler.Once(1.0)
		scheduler.Once(1.0)

		assert.Equal(t, 2, movement.ExecuteCount)
		assert.Equal(t, 2, health.ExecuteCount)
		assert.Equal(t, 100, health.TotalHealth)
		assert.Equal(t, Score(201), *ecs.NewSingleton[Score](storage).Get())

		pos := ecs.ReadComponent[Position](storage, mover)
		assert.Equal(t, float32(2), pos.X)
		assert.Equal(t, float32(4), pos.Y)
	})

	t.Run("queries pick up entities spawned by earlier frames", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)
		health := &HealthSystem{}
		scheduler.Register(health)

		scheduler.Once(0)
		assert.Equal(t, 0, health.TotalHealth)

		storage.Spawn(Health{Current: 5})
		scheduler.Once(0)
		assert.Equal(t, 5, health.TotalHealth)
	})

	t.Run("halt skips remaining systems and flushes commands", func(t *testing.T) {
		storage := ecs.NewStorage(newTestRegistry())
		scheduler := ecs.NewScheduler(storage)
		movement := &MovementSystem{}

		scheduler.Register(haltSystem{})
		scheduler.Register(movement)

		frame := scheduler.Once(0.5)
		assert.True(t, frame.Halted())
		assert.Equal(t, 0, movement.ExecuteCount)
		assert.Equal(t, 1, storage.Len())
	})
}

func TestSchedulerStats(t *testing.T) {
	storage := ecs.NewStorage(newTestRegistry())
	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&MovementSystem{})
	scheduler.Register(&HealthSystem{})

	for i := 0; i < 3; i++ {
		scheduler.Once(0.016)
	}

	stats := scheduler.GetStats()
	assert.Equal(t, 2, stats.SystemCount)
	assert.Equal(t, int64(6), stats.TotalExecutions)
	require.Len(t, stats.Systems, 2)
	assert.Equal(t, "MovementSystem", stats.Systems[0].Name)
	assert.Equal(t, "HealthSystem", stats.Systems[1].Name)
	assert.Equal(t, int64(3), stats.Systems[0].ExecutionCount)
	assert.LessOrEqual(t, stats.Systems[0].MinDuration, stats.Systems[0].MaxDuration)
}
