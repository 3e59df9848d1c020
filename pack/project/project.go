// Package project builds package data from a YAML project manifest and the
// script files it references.
package project

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"

	"github.com/plus3/redback/mathx"
	"github.com/plus3/redback/pack"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed project.schema.json
var schemaJSON string

var schema = jsonschema.MustCompileString("project.schema.json", schemaJSON)

type Manifest struct {
	Scenes []SceneSpec `yaml:"scenes"`
}

type SceneSpec struct {
	Name     string       `yaml:"name"`
	Entities []EntitySpec `yaml:"entities"`
	Cameras  []CameraSpec `yaml:"cameras"`
	Lights   []LightSpec  `yaml:"lights"`
}

type EntitySpec struct {
	Label      string         `yaml:"label"`
	Model      string         `yaml:"model"`
	Position   []float32      `yaml:"position"`
	Rotation   []float32      `yaml:"rotation"`
	Scale      []float32      `yaml:"scale"`
	Script     string         `yaml:"script"`
	Properties map[string]any `yaml:"properties"`
}

type CameraSpec struct {
	Label       string      `yaml:"label"`
	Type        string      `yaml:"type"`
	Eye         []float32   `yaml:"eye"`
	Target      []float32   `yaml:"target"`
	Up          []float32   `yaml:"up"`
	Fov         float32     `yaml:"fov"`
	ZNear       float32     `yaml:"znear"`
	ZFar        float32     `yaml:"zfar"`
	Speed       float32     `yaml:"speed"`
	Sensitivity float32     `yaml:"sensitivity"`
	Follow      *FollowSpec `yaml:"follow"`
}

type FollowSpec struct {
	Label  string    `yaml:"label"`
	Offset []float32 `yaml:"offset"`
}

type LightSpec struct {
	Label     string    `yaml:"label"`
	Kind      string    `yaml:"kind"`
	Position  []float32 `yaml:"position"`
	Rotation  []float32 `yaml:"rotation"`
	Scale     []float32 `yaml:"scale"`
	Direction []float32 `yaml:"direction"`
	Color     []float32 `yaml:"color"`
	Intensity *float32  `yaml:"intensity"`
	Range     float32   `yaml:"range"`
	Enabled   *bool     `yaml:"enabled"`
}

// Parse validates a manifest document against the project schema and
// decodes it.
func Parse(b []byte) (*Manifest, error) {
	var doc any
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("project manifest: %w", err)
	}

	// The validator works on JSON values, so round trip through encoding/json.
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("project manifest: %w", err)
	}
	var value any
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, fmt.Errorf("project manifest: %w", err)
	}
	if err := schema.Validate(value); err != nil {
		return nil, fmt.Errorf("project manifest: %w", err)
	}

	var manifest Manifest
	if err := yaml.Unmarshal(b, &manifest); err != nil {
		return nil, fmt.Errorf("project manifest: %w", err)
	}
	return &manifest, nil
}

// Load reads the manifest at manifestPath from fsys and builds the package
// data. Script paths are relative to the manifest; each script is keyed by
// its file name.
func Load(fsys fs.FS, manifestPath string) (*pack.RuntimeData, error) {
	b, err := fs.ReadFile(fsys, manifestPath)
	if err != nil {
		return nil, err
	}

	manifest, err := Parse(b)
	if err != nil {
		return nil, err
	}

	return manifest.Build(fsys, path.Dir(manifestPath))
}

// Build converts the manifest into package data, reading script sources
// from fsys relative to root.
func (m *Manifest) Build(fsys fs.FS, root string) (*pack.RuntimeData, error) {
	data := &pack.RuntimeData{Scripts: make(map[string]string)}
	scriptPaths := make(map[string]string)
	seen := make(map[string]bool)

	for _, sceneSpec := range m.Scenes {
		if seen[sceneSpec.Name] {
			return nil, fmt.Errorf("duplicate scene %q", sceneSpec.Name)
		}
		seen[sceneSpec.Name] = true

		scene := pack.SceneConfig{Name: sceneSpec.Name}

		for _, spec := range sceneSpec.Entities {
			entity, err := buildEntity(spec)
			if err != nil {
				return nil, fmt.Errorf("scene %q: entity %q: %w", sceneSpec.Name, spec.Label, err)
			}

			if entity.Script != nil {
				name := entity.Script.Name
				if prev, ok := scriptPaths[name]; ok && prev != entity.Script.Path {
					return nil, fmt.Errorf("script name %q used by both %s and %s", name, prev, entity.Script.Path)
				}
				if _, ok := data.Scripts[name]; !ok {
					source, err := fs.ReadFile(fsys, path.Join(root, entity.Script.Path))
					if err != nil {
						return nil, fmt.Errorf("scene %q: entity %q: %w", sceneSpec.Name, spec.Label, err)
					}
					data.Scripts[name] = string(source)
					scriptPaths[name] = entity.Script.Path
				}
			}

			scene.Entities = append(scene.Entities, entity)
		}

		for _, spec := range sceneSpec.Cameras {
			scene.Cameras = append(scene.Cameras, buildCamera(spec))
		}
		for _, spec := range sceneSpec.Lights {
			scene.Lights = append(scene.Lights, buildLight(spec))
		}

		data.Scenes = append(data.Scenes, scene)
	}

	return data, nil
}

func buildEntity(spec EntitySpec) (pack.EntityConfig, error) {
	entity := pack.EntityConfig{
		Label:     spec.Label,
		ModelPath: spec.Model,
		Transform: transform(spec.Position, spec.Rotation, spec.Scale),
	}

	if spec.Script != "" {
		entity.Script = &pack.ScriptRef{Name: path.Base(spec.Script), Path: spec.Script}
	}

	if len(spec.Properties) > 0 {
		entity.Properties = make(map[string]any, len(spec.Properties))
		for key, value := range spec.Properties {
			converted, err := property(value)
			if err != nil {
				return entity, fmt.Errorf("property %q: %w", key, err)
			}
			entity.Properties[key] = converted
		}
	}

	return entity, nil
}

func property(value any) (any, error) {
	switch v := value.(type) {
	case string, bool, float64:
		return v, nil
	case int:
		return int64(v), nil
	case []any:
		var out [3]float32
		if len(v) != 3 {
			return nil, fmt.Errorf("vector needs 3 components, got %d", len(v))
		}
		for i, component := range v {
			switch n := component.(type) {
			case int:
				out[i] = float32(n)
			case float64:
				out[i] = float32(n)
			default:
				return nil, fmt.Errorf("vector component %v is not a number", component)
			}
		}
		return mathx.Vec3{X: out[0], Y: out[1], Z: out[2]}, nil
	default:
		return nil, fmt.Errorf("unsupported value %v (%T)", value, value)
	}
}

func buildCamera(spec CameraSpec) pack.CameraConfig {
	cam := pack.CameraConfig{
		Label:       spec.Label,
		Type:        cameraType(spec.Type),
		Eye:         vec3(spec.Eye, mathx.Vec3{Y: 1, Z: 2}),
		Target:      vec3(spec.Target, mathx.Vec3{}),
		Up:          vec3(spec.Up, mathx.UnitY),
		FovY:        orDefault(spec.Fov, 45),
		ZNear:       orDefault(spec.ZNear, 0.1),
		ZFar:        orDefault(spec.ZFar, 100),
		Speed:       orDefault(spec.Speed, 1),
		Sensitivity: orDefault(spec.Sensitivity, 0.002),
	}
	if spec.Follow != nil {
		cam.Follow = &pack.FollowTarget{Label: spec.Follow.Label, Offset: vec3(spec.Follow.Offset, mathx.Vec3{})}
	}
	return cam
}

func buildLight(spec LightSpec) pack.LightConfig {
	light := pack.LightConfig{
		Label:     spec.Label,
		Kind:      lightKind(spec.Kind),
		Transform: transform(spec.Position, spec.Rotation, spec.Scale),
		Direction: vec3(spec.Direction, mathx.Vec3{Y: -1}),
		Color:     vec3(spec.Color, mathx.One3),
		Intensity: 1,
		Range:     spec.Range,
		Enabled:   true,
	}
	if spec.Intensity != nil {
		light.Intensity = *spec.Intensity
	}
	if spec.Enabled != nil {
		light.Enabled = *spec.Enabled
	}
	return light
}

func cameraType(s string) pack.CameraType {
	switch s {
	case "player":
		return pack.CameraPlayer
	case "debug":
		return pack.CameraDebug
	default:
		return pack.CameraNormal
	}
}

func lightKind(s string) pack.LightKind {
	switch s {
	case "point":
		return pack.LightPoint
	case "spot":
		return pack.LightSpot
	default:
		return pack.LightDirectional
	}
}

func transform(position, rotation, scale []float32) pack.Transform {
	t := pack.DefaultTransform()
	t.Position = vec3(position, t.Position)
	t.Scale = vec3(scale, t.Scale)
	if len(rotation) == 4 {
		t.Rotation = mathx.Quat{X: rotation[0], Y: rotation[1], Z: rotation[2], W: rotation[3]}
	}
	return t
}

func vec3(v []float32, fallback mathx.Vec3) mathx.Vec3 {
	if len(v) != 3 {
		return fallback
	}
	return mathx.Vec3{X: v[0], Y: v[1], Z: v[2]}
}

func orDefault(v, fallback float32) float32 {
	if v == 0 {
		return fallback
	}
	return v
}
