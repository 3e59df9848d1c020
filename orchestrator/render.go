package orchestrator

import (
	"github.com/plus3/redback/ecs"
	"github.com/plus3/redback/render"
	"github.com/plus3/redback/world"
)

type visualView struct {
	*world.Visual
}

type lightView struct {
	*world.Transform
	*world.Light
}

// Render draws the loaded scene: enabled lights with the light pipeline
// first, then every model. Nothing is drawn outside the Loaded state.
func (o *Orchestrator) Render() {
	if o.state != Loaded {
		return
	}
	o.state = Rendering
	defer func() { o.state = Loaded }()

	o.visuals.Execute()
	o.lights.Execute()

	cam := o.cameras.Bindings(o.storage)
	lights := o.lightBindings()

	pass := o.renderer.BeginFrame(render.ClearColor)
	defer pass.End()

	pass.SetPipeline(o.lightPipeline)
	for item := range o.lights.Values() {
		if !item.Light.Enabled || item.Light.Model == nil {
			continue
		}
		pass.SetVertexBuffer(1, item.Light.Instance)
		pass.Draw(item.Light.Model, cam, lights)
	}

	pass.SetPipeline(o.modelPipeline)
	for item := range o.visuals.Values() {
		if item.Visual.Model == nil {
			continue
		}
		pass.SetVertexBuffer(1, item.Visual.Instance)
		pass.Draw(item.Visual.Model, cam, lights)
	}
}

func (o *Orchestrator) lightBindings() render.LightBindings {
	var bindings render.LightBindings
	for item := range o.lights.Values() {
		if item.Light.Enabled {
			bindings.Lights = append(bindings.Lights, item.Light.Uniform(item.Transform))
		}
	}
	return bindings
}

// Stats reports the world and scheduler statistics for debug overlays.
func (o *Orchestrator) Stats() (ecs.StorageStats, *ecs.SchedulerStats) {
	return o.storage.CollectStats(), o.scheduler.GetStats()
}
