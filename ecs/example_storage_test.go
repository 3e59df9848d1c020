package ecs_test

import (
	"fmt"
	"reflect"

	"github.com/plus3/redback/ecs"
)

// ExampleStorage demonstrates the basic API for managing entities and components.
// Components are organized by archetype: entities with the same component types
// share the same archetype for efficient memory layout and iteration.
func ExampleStorage() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	storage := ecs.NewStorage(registry)

	player := storage.Spawn(Position{X: 10, Y: 20})

	pos := ecs.ReadComponent[Position](storage, player)
	fmt.Printf("Player spawned at (%.0f, %.0f)\n", pos.X, pos.Y)

	storage.AddComponent(player, Velocity{DX: 1})
	fmt.Printf("Has velocity: %v\n", storage.HasComponent(player, reflect.TypeFor[Velocity]()))

	storage.Delete(player)
	fmt.Printf("Alive after delete: %v\n", storage.Alive(player))

	// Output:
	// Player spawned at (10, 20)
	// Has velocity: true
	// Alive after delete: false
}

// ExampleStorage_Clear shows that handles issued before a Clear never
// resolve again, even though the new entities reuse the same slots.
func ExampleStorage_Clear() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	storage := ecs.NewStorage(registry)

	first := storage.Spawn(Position{X: 1})
	storage.Spawn(Position{X: 2})
	fmt.Println("before:", first, storage.Len())

	storage.Clear()
	reused := storage.Spawn(Position{X: 3})
	fmt.Println("after:", reused, storage.Len())
	fmt.Println("old handle alive:", storage.Alive(first))
	fmt.Println("same slot:", first.Index() == reused.Index())

	// Output:
	// before: 0v1 2
	// after: 0v2 1
	// old handle alive: false
	// same slot: true
}
