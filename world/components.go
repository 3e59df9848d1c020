// Package world defines the components of a materialized scene.
package world

import (
	"github.com/plus3/redback/ecs"
	"github.com/plus3/redback/mathx"
	"github.com/plus3/redback/pack"
	"github.com/plus3/redback/render"
)

// Label is the entity's declared label. Labels need not be unique.
type Label string

type Transform struct {
	Position mathx.Vec3
	Rotation mathx.Quat
	Scale    mathx.Vec3
}

func TransformFrom(t pack.Transform) Transform {
	return Transform(t)
}

func (t Transform) Matrix() mathx.Mat4 {
	return mathx.Compose(t.Position, t.Rotation, t.Scale)
}

// Properties is the entity's key-value bag.
type Properties struct {
	Values map[string]any
}

// ScriptComponent names the script an entity declared.
type ScriptComponent struct {
	Name string
	Path string
}

// Visual holds the entity's model and its instance data, refreshed from
// Transform every frame.
type Visual struct {
	Model    *render.Model
	Instance render.Instance
}

// Light is a scene light. Lights carry their label here rather than as a
// Label component, so label lookups only find scene entities.
type Light struct {
	Label     string
	Kind      pack.LightKind
	Direction mathx.Vec3
	Color     mathx.Vec3
	Intensity float32
	Range     float32
	Enabled   bool
	Model     *render.Model
	Instance  render.Instance
}

// Uniform returns the light data for the given transform.
func (l *Light) Uniform(t *Transform) render.LightUniform {
	return render.LightUniform{
		Kind:      int(l.Kind),
		Position:  t.Position,
		Direction: t.Rotation.Rotate(l.Direction),
		Color:     l.Color,
		Intensity: l.Intensity,
		Range:     l.Range,
	}
}

func Register(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Label](registry)
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Properties](registry)
	ecs.RegisterComponent[ScriptComponent](registry)
	ecs.RegisterComponent[Visual](registry)
	ecs.RegisterComponent[Light](registry)
}

// FindByLabel returns the entity labelled label with the lowest slot index,
// which is the first one spawned into a freshly cleared world.
func FindByLabel(storage *ecs.Storage, label string) (ecs.EntityId, *Transform, bool) {
	view := ecs.NewView[struct {
		*Label
		*Transform
	}](storage)

	var (
		found     ecs.EntityId
		transform *Transform
	)
	for id, item := range view.Iter() {
		if string(*item.Label) != label {
			continue
		}
		if transform == nil || id.Index() < found.Index() {
			found, transform = id, item.Transform
		}
	}
	return found, transform, transform != nil
}
