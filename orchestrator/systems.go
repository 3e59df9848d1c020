package orchestrator

import (
	"log"

	"github.com/plus3/redback/camera"
	"github.com/plus3/redback/ecs"
	"github.com/plus3/redback/input"
	"github.com/plus3/redback/render"
	"github.com/plus3/redback/script"
	"github.com/plus3/redback/world"
)

// ScriptSystem ticks every bound script. A failing script is logged and
// skipped for this frame. A quit request halts the rest of the frame.
type ScriptSystem struct {
	Input   ecs.Singleton[input.State]
	Scripts ecs.Query[struct {
		ecs.EntityId
		*world.ScriptComponent
	}]

	binder   *script.Binder
	commands *commandQueue
	logger   *log.Logger
}

func (s *ScriptSystem) Execute(frame *ecs.UpdateFrame) {
	if s.commands.quitRequested() {
		frame.Halt()
		return
	}

	ctx := script.Context{
		World:    frame.Storage,
		Input:    s.Input.Get(),
		Commands: s.commands,
		Logger:   s.logger,
	}
	for id, item := range s.Scripts.Iter() {
		if err := s.binder.Tick(id, item.ScriptComponent.Name, ctx, frame.DeltaTime); err != nil {
			s.logger.Printf("ERROR: %v", err)
		}
		if s.commands.quitRequested() {
			frame.Halt()
			return
		}
	}
}

// CameraFollowSystem moves follow cameras onto their targets.
type CameraFollowSystem struct {
	cameras *camera.Controller
}

func (s *CameraFollowSystem) Execute(frame *ecs.UpdateFrame) {
	s.cameras.UpdateFollowing(frame.Storage, frame.DeltaTime)
}

// CameraDriveSystem flies the debug camera from the keyboard.
type CameraDriveSystem struct {
	Input ecs.Singleton[input.State]

	cameras *camera.Controller
}

func (s *CameraDriveSystem) Execute(frame *ecs.UpdateFrame) {
	s.cameras.Drive(frame.Storage, s.Input.Get(), frame.DeltaTime)
}

// CameraUpdateSystem recomputes camera uniforms for the current viewport.
type CameraUpdateSystem struct {
	cameras  *camera.Controller
	renderer render.Renderer
}

func (s *CameraUpdateSystem) Execute(frame *ecs.UpdateFrame) {
	width, height := s.renderer.Viewport()
	s.cameras.UpdateAll(frame.Storage, width, height)
}

// TransformSyncSystem copies entity transforms into the instance data the
// renderer draws from.
type TransformSyncSystem struct {
	Visuals ecs.Query[struct {
		*world.Transform
		*world.Visual
	}]
	Lights ecs.Query[struct {
		*world.Transform
		*world.Light
	}]
}

func (s *TransformSyncSystem) Execute(frame *ecs.UpdateFrame) {
	for item := range s.Visuals.Values() {
		item.Visual.Instance.Transform = item.Transform.Matrix()
	}
	for item := range s.Lights.Values() {
		item.Light.Instance.Transform = item.Transform.Matrix()
	}
}

// InputResetSystem ends the input frame, dropping the mouse delta.
type InputResetSystem struct {
	Input ecs.Singleton[input.State]
}

func (s *InputResetSystem) Execute(frame *ecs.UpdateFrame) {
	s.Input.Get().EndFrame()
}
