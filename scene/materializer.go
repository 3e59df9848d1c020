package scene

import (
	"log"
	"maps"

	"github.com/plus3/redback/asset"
	"github.com/plus3/redback/camera"
	"github.com/plus3/redback/ecs"
	"github.com/plus3/redback/pack"
	"github.com/plus3/redback/render"
	"github.com/plus3/redback/world"
)

// NewWorld returns an empty storage with every scene component registered.
func NewWorld() *ecs.Storage {
	registry := ecs.NewComponentRegistry()
	world.Register(registry)
	camera.Register(registry)
	return ecs.NewStorage(registry)
}

// Materializer turns scene declarations into entities.
type Materializer struct {
	Assets asset.Constructor
	Logger *log.Logger
}

// Plan holds everything built for a scene before the world is touched.
type Plan struct {
	Scene    string
	entities []plannedEntity
	cameras  []plannedCamera
	lights   []plannedLight
	active   int
	fallback bool
}

type plannedEntity struct {
	config *pack.EntityConfig
	model  *render.Model
}

type plannedCamera struct {
	config pack.CameraConfig
	camera camera.Camera
}

type plannedLight struct {
	config *pack.LightConfig
	model  *render.Model
}

// ScriptedEntity is an entity that declared a script.
type ScriptedEntity struct {
	ID     ecs.EntityId
	Script world.ScriptComponent
}

// MaterializedWorld describes the entities spawned for a scene.
type MaterializedWorld struct {
	Scene          string
	Entities       []ecs.EntityId
	Scripted       []ScriptedEntity
	Cameras        []ecs.EntityId
	Lights         []ecs.EntityId
	ActiveCamera   ecs.EntityId
	FallbackCamera bool
}

func (m *Materializer) logger() *log.Logger {
	if m.Logger == nil {
		return log.Default()
	}
	return m.Logger
}

// Materialize replaces the contents of storage with the scene. On error the
// storage is untouched.
func (m *Materializer) Materialize(storage *ecs.Storage, cfg *pack.SceneConfig, r render.Renderer) (*MaterializedWorld, error) {
	plan, err := m.Prepare(cfg, r)
	if err != nil {
		return nil, err
	}
	return m.Commit(storage, plan), nil
}

// Prepare builds every model and camera of the scene. It does not touch any
// world, so a failure leaves the current scene intact.
func (m *Materializer) Prepare(cfg *pack.SceneConfig, r render.Renderer) (*Plan, error) {
	plan := &Plan{Scene: cfg.Name}

	for i := range cfg.Entities {
		entity := &cfg.Entities[i]
		model, err := m.Assets.ConstructEntity(r, entity.ModelPath, entity.Label)
		if err != nil {
			return nil, &LoadError{Kind: AssetFailure, Scene: cfg.Name, Err: err}
		}
		plan.entities = append(plan.entities, plannedEntity{config: entity, model: model})
	}

	for i := range cfg.Lights {
		light := &cfg.Lights[i]
		model, err := m.Assets.ConstructEntity(r, asset.LightModelPath, light.Label)
		if err != nil {
			return nil, &LoadError{Kind: AssetFailure, Scene: cfg.Name, Err: err}
		}
		plan.lights = append(plan.lights, plannedLight{config: light, model: model})
	}

	m.planCameras(plan, cfg)
	return plan, nil
}

// planCameras activates the player camera, else the debug camera, else the
// first declared one. Malformed declarations or none at all fall back to a
// default debug camera.
func (m *Materializer) planCameras(plan *Plan, cfg *pack.SceneConfig) {
	if err := camera.Validate(cfg.Cameras); err != nil || len(cfg.Cameras) == 0 {
		if err != nil {
			m.logger().Printf("WARN: scene %q: %v, using a default debug camera", cfg.Name, err)
		} else {
			m.logger().Printf("scene %q declares no camera, using a default debug camera", cfg.Name)
		}
		plan.cameras = []plannedCamera{{config: camera.DefaultConfig(), camera: camera.Default()}}
		plan.active = 0
		plan.fallback = true
		return
	}

	plan.active = 0
	rank := -1
	for i, spec := range cfg.Cameras {
		cam, _ := camera.New(spec)
		plan.cameras = append(plan.cameras, plannedCamera{config: spec, camera: cam})

		r := activationRank(spec.Type)
		if r > rank {
			rank = r
			plan.active = i
		}
	}
}

func activationRank(t pack.CameraType) int {
	switch t {
	case pack.CameraPlayer:
		return 2
	case pack.CameraDebug:
		return 1
	default:
		return 0
	}
}

// Commit clears storage and spawns the planned scene. Every handle issued
// before the call becomes stale.
func (m *Materializer) Commit(storage *ecs.Storage, plan *Plan) *MaterializedWorld {
	storage.Clear()

	out := &MaterializedWorld{Scene: plan.Scene, FallbackCamera: plan.fallback}

	for _, planned := range plan.entities {
		cfg := planned.config
		transform := world.TransformFrom(cfg.Transform)

		components := []any{
			world.Label(cfg.Label),
			transform,
			world.Properties{Values: maps.Clone(cfg.Properties)},
			world.Visual{Model: planned.model, Instance: render.Instance{Transform: transform.Matrix()}},
		}

		var script *world.ScriptComponent
		if cfg.Script != nil {
			script = &world.ScriptComponent{Name: cfg.Script.Name, Path: cfg.Script.Path}
			components = append(components, *script)
		}

		id := storage.Spawn(components...)
		out.Entities = append(out.Entities, id)
		if script != nil {
			out.Scripted = append(out.Scripted, ScriptedEntity{ID: id, Script: *script})
		}
	}

	for i, planned := range plan.cameras {
		components := []any{
			planned.camera,
			camera.Component{Type: planned.config.Type, Label: planned.config.Label},
		}
		if follow := planned.config.Follow; follow != nil {
			components = append(components, camera.FollowTarget{Label: follow.Label, Offset: follow.Offset})
		}

		id := storage.Spawn(components...)
		out.Cameras = append(out.Cameras, id)
		if i == plan.active {
			out.ActiveCamera = id
		}
	}

	for _, planned := range plan.lights {
		cfg := planned.config
		transform := world.TransformFrom(cfg.Transform)
		id := storage.Spawn(
			transform,
			world.Light{
				Label:     cfg.Label,
				Kind:      cfg.Kind,
				Direction: cfg.Direction,
				Color:     cfg.Color,
				Intensity: cfg.Intensity,
				Range:     cfg.Range,
				Enabled:   cfg.Enabled,
				Model:     planned.model,
				Instance:  render.Instance{Transform: transform.Matrix()},
			},
		)
		out.Lights = append(out.Lights, id)
	}

	m.logger().Printf("materialized scene %q: %d entities, %d cameras, %d lights",
		plan.Scene, len(out.Entities), len(out.Cameras), len(out.Lights))
	return out
}
