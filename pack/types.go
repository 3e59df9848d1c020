// Package pack reads and writes the .eupak package that ships next to the
// runtime executable.
package pack

import (
	"encoding/gob"

	"github.com/plus3/redback/mathx"
)

func init() {
	gob.Register(mathx.Vec3{})
}

// RuntimeData is the decoded package: every scene plus the raw source of
// every script, keyed by script name.
type RuntimeData struct {
	Scenes  []SceneConfig
	Scripts map[string]string
}

type SceneConfig struct {
	Name     string
	Entities []EntityConfig
	Cameras  []CameraConfig
	Lights   []LightConfig
}

type Transform struct {
	Position mathx.Vec3
	Rotation mathx.Quat
	Scale    mathx.Vec3
}

// DefaultTransform is positioned at the origin with no rotation and unit scale.
func DefaultTransform() Transform {
	return Transform{Rotation: mathx.IdentityQuat(), Scale: mathx.One3}
}

// EntityConfig describes one entity. Property values are string, bool,
// float64, int64 or mathx.Vec3.
type EntityConfig struct {
	Label      string
	ModelPath  string
	Transform  Transform
	Properties map[string]any
	Script     *ScriptRef
}

// ScriptRef names the script attached to an entity. Path is the source file
// the script was packed from.
type ScriptRef struct {
	Name string
	Path string
}

type CameraType int

const (
	CameraNormal CameraType = iota
	CameraDebug
	CameraPlayer
)

func (t CameraType) String() string {
	switch t {
	case CameraNormal:
		return "Normal"
	case CameraDebug:
		return "Debug"
	case CameraPlayer:
		return "Player"
	default:
		return "Unknown"
	}
}

type CameraConfig struct {
	Label       string
	Type        CameraType
	Eye         mathx.Vec3
	Target      mathx.Vec3
	Up          mathx.Vec3
	FovY        float32
	ZNear       float32
	ZFar        float32
	Speed       float32
	Sensitivity float32
	Follow      *FollowTarget
}

// FollowTarget makes a camera trail the first entity labelled Label at a
// constant Offset.
type FollowTarget struct {
	Label  string
	Offset mathx.Vec3
}

type LightKind int

const (
	LightDirectional LightKind = iota
	LightPoint
	LightSpot
)

func (k LightKind) String() string {
	switch k {
	case LightDirectional:
		return "Directional"
	case LightPoint:
		return "Point"
	case LightSpot:
		return "Spot"
	default:
		return "Unknown"
	}
}

type LightConfig struct {
	Label     string
	Kind      LightKind
	Transform Transform
	Direction mathx.Vec3
	Color     mathx.Vec3
	Intensity float32
	Range     float32
	Enabled   bool
}
