package ecs_test

import (
	"fmt"

	"github.com/plus3/redback/ecs"
)

type GameConfig struct {
	MaxPlayers int
	Difficulty string
}

// ExampleNewSingleton demonstrates creating and accessing singleton components.
// Singletons are global components not associated with any entity.
func ExampleNewSingleton() {
	storage := ecs.NewStorage(ecs.NewComponentRegistry())

	config := ecs.NewSingleton[GameConfig](storage, GameConfig{
		MaxPlayers: 4,
		Difficulty: "Normal",
	})
	fmt.Printf("Config: %d players, %s difficulty\n", config.Get().MaxPlayers, config.Get().Difficulty)

	config.Get().Difficulty = "Hard"

	// Another accessor sees the same data
	sameConfig := ecs.NewSingleton[GameConfig](storage)
	fmt.Printf("Same config: %s difficulty\n", sameConfig.Get().Difficulty)

	var direct *GameConfig
	if storage.ReadSingleton(&direct) {
		fmt.Printf("Direct read: %d players\n", direct.MaxPlayers)
	}

	// Output:
	// Config: 4 players, Normal difficulty
	// Same config: Hard difficulty
	// Direct read: 4 players
}
