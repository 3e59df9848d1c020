package camera

import (
	"log"

	"github.com/plus3/redback/ecs"
	"github.com/plus3/redback/input"
	"github.com/plus3/redback/mathx"
	"github.com/plus3/redback/pack"
	"github.com/plus3/redback/render"
	"github.com/plus3/redback/world"
)

type cameraView struct {
	ecs.EntityId
	*Camera
	*Component
	Following *FollowTarget `ecs:"optional"`
}

// Controller tracks which camera entity is active. It holds no reference
// to the world between calls.
type Controller struct {
	logger *log.Logger
	active ecs.EntityId
	last   render.CameraBindings
}

func NewController(logger *log.Logger) *Controller {
	return &Controller{logger: logger}
}

// Reset makes id the active camera, typically after a scene load.
func (c *Controller) Reset(id ecs.EntityId) {
	c.active = id
}

// SetActive activates the camera of the given type. When the world holds
// none the active camera is unchanged and false is returned.
func (c *Controller) SetActive(storage *ecs.Storage, cameraType pack.CameraType) bool {
	for id, item := range ecs.NewView[cameraView](storage).Iter() {
		if item.Component.Type == cameraType {
			c.active = id
			return true
		}
	}

	c.logger.Printf("WARN: no %s camera in scene, keeping the active camera", cameraType)
	return false
}

// Active returns the active camera.
func (c *Controller) Active(storage *ecs.Storage) (ecs.EntityId, *Camera, error) {
	cam := ecs.ReadComponent[Camera](storage, c.active)
	if cam == nil {
		return 0, nil, &CameraError{Err: ErrNoActiveCamera}
	}
	return c.active, cam, nil
}

// ActiveType returns the declared type of the active camera.
func (c *Controller) ActiveType(storage *ecs.Storage) (pack.CameraType, bool) {
	component := ecs.ReadComponent[Component](storage, c.active)
	if component == nil {
		return 0, false
	}
	return component.Type, true
}

// UpdateFollowing moves the active camera, if it has a follow target, to
// trail the first entity carrying the target label. A missing target keeps
// the camera where it was.
func (c *Controller) UpdateFollowing(storage *ecs.Storage, dt float64) {
	following := ecs.ReadComponent[FollowTarget](storage, c.active)
	cam := ecs.ReadComponent[Camera](storage, c.active)
	if following == nil || cam == nil {
		return
	}
	_, transform, ok := world.FindByLabel(storage, following.Label)
	if !ok {
		return
	}
	cam.Follow(transform.Position, following.Offset)
}

// UpdateAll recomputes every camera's uniform for the viewport size.
func (c *Controller) UpdateAll(storage *ecs.Storage, width, height int) {
	for id, item := range ecs.NewView[cameraView](storage).Iter() {
		item.Camera.Update(width, height)
		if id == c.active {
			c.last = item.Camera.Bindings()
		}
	}
}

// Bindings returns the active camera's bindings, or the last ones seen
// when there is no active camera.
func (c *Controller) Bindings(storage *ecs.Storage) render.CameraBindings {
	if _, cam, err := c.Active(storage); err == nil {
		return cam.Bindings()
	}
	return c.last
}

// TrackMouseDelta turns the active camera. Deltas are dropped unless the
// cursor is locked.
func (c *Controller) TrackMouseDelta(storage *ecs.Storage, in *input.State, dx, dy float64) {
	if in == nil || !in.CursorLocked {
		return
	}
	_, cam, err := c.Active(storage)
	if err != nil {
		return
	}
	cam.Look(float32(dx)*cam.Sensitivity, -float32(dy)*cam.Sensitivity)
}

// Drive flies an active debug camera with W/A/S/D, Space and ShiftLeft
// while the cursor is locked.
func (c *Controller) Drive(storage *ecs.Storage, in *input.State, dt float64) {
	if in == nil || !in.CursorLocked {
		return
	}
	if cameraType, ok := c.ActiveType(storage); !ok || cameraType != pack.CameraDebug {
		return
	}
	_, cam, err := c.Active(storage)
	if err != nil {
		return
	}

	forward := cam.Target.Sub(cam.Eye).Normalize()
	right := forward.Cross(cam.Up).Normalize()

	var move mathx.Vec3
	if in.IsKeyPressed(input.KeyW) {
		move = move.Add(forward)
	}
	if in.IsKeyPressed(input.KeyS) {
		move = move.Sub(forward)
	}
	if in.IsKeyPressed(input.KeyD) {
		move = move.Add(right)
	}
	if in.IsKeyPressed(input.KeyA) {
		move = move.Sub(right)
	}
	if in.IsKeyPressed(input.KeySpace) {
		move = move.Add(cam.Up)
	}
	if in.IsKeyPressed(input.KeyShiftLeft) {
		move = move.Sub(cam.Up)
	}
	if move.IsZero() {
		return
	}

	cam.Move(move.Normalize().Scale(cam.Speed * float32(dt)))
}
