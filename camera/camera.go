// Package camera holds the camera components and the controller that
// selects, follows and updates them.
package camera

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
	"github.com/plus3/redback/ecs"
	"github.com/plus3/redback/mathx"
	"github.com/plus3/redback/pack"
	"github.com/plus3/redback/render"
)

const maxPitch = 89 * math32.Pi / 180

// Camera is a perspective camera. FovY is in degrees.
type Camera struct {
	Eye         mathx.Vec3
	Target      mathx.Vec3
	Up          mathx.Vec3
	Aspect      float32
	FovY        float32
	ZNear       float32
	ZFar        float32
	Speed       float32
	Sensitivity float32
	Yaw         float32
	Pitch       float32
	Uniform     render.CameraUniform
}

// Component tags a Camera entity with its declared type.
type Component struct {
	Type  pack.CameraType
	Label string
}

// FollowTarget makes the camera trail the entity labelled Label.
type FollowTarget struct {
	Label  string
	Offset mathx.Vec3
}

func Register(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Camera](registry)
	ecs.RegisterComponent[Component](registry)
	ecs.RegisterComponent[FollowTarget](registry)
}

var errMalformed = errors.New("malformed camera")

// New builds a camera from its declaration.
func New(cfg pack.CameraConfig) (Camera, error) {
	switch {
	case cfg.Up.IsZero():
		return Camera{}, fmt.Errorf("%w %q: zero up vector", errMalformed, cfg.Label)
	case cfg.Eye == cfg.Target:
		return Camera{}, fmt.Errorf("%w %q: eye equals target", errMalformed, cfg.Label)
	case cfg.FovY <= 0 || cfg.FovY >= 180:
		return Camera{}, fmt.Errorf("%w %q: field of view %v", errMalformed, cfg.Label, cfg.FovY)
	case cfg.ZNear <= 0 || cfg.ZFar <= cfg.ZNear:
		return Camera{}, fmt.Errorf("%w %q: clip range %v..%v", errMalformed, cfg.Label, cfg.ZNear, cfg.ZFar)
	}

	c := Camera{
		Eye:         cfg.Eye,
		Target:      cfg.Target,
		Up:          cfg.Up.Normalize(),
		Aspect:      1,
		FovY:        cfg.FovY,
		ZNear:       cfg.ZNear,
		ZFar:        cfg.ZFar,
		Speed:       cfg.Speed,
		Sensitivity: cfg.Sensitivity,
	}
	c.syncAngles()
	return c, nil
}

// Default is the camera used when a scene declares no usable camera.
func Default() Camera {
	c, _ := New(DefaultConfig())
	return c
}

// DefaultConfig is the declaration of the fallback debug camera.
func DefaultConfig() pack.CameraConfig {
	return pack.CameraConfig{
		Label:       "default",
		Type:        pack.CameraDebug,
		Eye:         mathx.Vec3{Y: 1, Z: 2},
		Up:          mathx.UnitY,
		FovY:        45,
		ZNear:       0.1,
		ZFar:        100,
		Speed:       1,
		Sensitivity: 0.002,
	}
}

// Validate checks a scene's camera declarations as a set.
func Validate(cfgs []pack.CameraConfig) error {
	seen := make(map[pack.CameraType]string)
	for _, cfg := range cfgs {
		if prev, ok := seen[cfg.Type]; ok {
			return fmt.Errorf("%w: %q and %q are both %s cameras", errMalformed, prev, cfg.Label, cfg.Type)
		}
		seen[cfg.Type] = cfg.Label
		if _, err := New(cfg); err != nil {
			return err
		}
	}
	return nil
}

func (c *Camera) distance() float32 {
	return c.Target.Sub(c.Eye).Length()
}

// Forward is the unit view direction.
func (c *Camera) Forward() mathx.Vec3 {
	return mathx.Vec3{
		X: math32.Cos(c.Pitch) * math32.Cos(c.Yaw),
		Y: math32.Sin(c.Pitch),
		Z: math32.Cos(c.Pitch) * math32.Sin(c.Yaw),
	}
}

// syncAngles derives yaw and pitch from eye and target.
func (c *Camera) syncAngles() {
	dir := c.Target.Sub(c.Eye).Normalize()
	if dir.IsZero() {
		return
	}
	c.Pitch = mathx.Clamp(math32.Asin(mathx.Clamp(dir.Y, -1, 1)), -maxPitch, maxPitch)
	c.Yaw = math32.Atan2(dir.Z, dir.X)
}

// Look turns the camera by the given yaw and pitch deltas in radians,
// keeping the eye fixed and the target at the same distance.
func (c *Camera) Look(yaw, pitch float32) {
	dist := c.distance()
	if dist == 0 {
		dist = 1
	}
	c.Yaw += yaw
	c.Pitch = mathx.Clamp(c.Pitch+pitch, -maxPitch, maxPitch)
	c.Target = c.Eye.Add(c.Forward().Scale(dist))
}

// Move translates eye and target together.
func (c *Camera) Move(delta mathx.Vec3) {
	c.Eye = c.Eye.Add(delta)
	c.Target = c.Target.Add(delta)
}

// Follow places the target at position and the eye at position + offset.
func (c *Camera) Follow(position, offset mathx.Vec3) {
	c.Target = position
	c.Eye = position.Add(offset)
	c.syncAngles()
}

// Update recomputes the uniform for a viewport. A zero-height viewport
// keeps the previous aspect ratio.
func (c *Camera) Update(width, height int) {
	if width > 0 && height > 0 {
		c.Aspect = float32(width) / float32(height)
	}

	view := mathx.LookAt(c.Eye, c.Target, c.Up)
	projection := mathx.Perspective(mathx.Radians(c.FovY), c.Aspect, c.ZNear, c.ZFar)
	c.Uniform = render.CameraUniform{
		ViewPosition: c.Eye,
		View:         view,
		Projection:   projection,
		ViewProj:     projection.Mul(view),
	}
}

func (c *Camera) Bindings() render.CameraBindings {
	return render.CameraBindings{Uniform: c.Uniform}
}

// Layout is the bind group layout of the camera uniform.
func Layout() render.BindGroupLayout {
	return render.BindGroupLayout{Label: "camera", Entries: []render.BindingKind{render.BindingUniform}}
}
