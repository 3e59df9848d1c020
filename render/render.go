// Package render defines the renderer contract used by the runtime and the
// model and uniform types passed across it.
package render

import (
	"image/color"

	"github.com/plus3/redback/mathx"
)

// ClearColor is the background every frame starts from.
var ClearColor = color.RGBA{R: 100, G: 149, B: 237, A: 255}

// Shader identifies a shader program. Backends that cannot compile Source
// select their behavior by Name.
type Shader struct {
	Name   string
	Source string
}

var (
	ModelShader = Shader{Name: "redback_runtime_default"}
	LightShader = Shader{Name: "redback_runtime_light"}
)

type BindingKind int

const (
	BindingUniform BindingKind = iota
	BindingStorage
	BindingTexture
	BindingSampler
)

// BindGroupLayout describes the resources a pipeline expects in one group.
type BindGroupLayout struct {
	Label   string
	Entries []BindingKind
}

var (
	TextureLayout = BindGroupLayout{Label: "texture", Entries: []BindingKind{BindingTexture, BindingSampler}}
	LightLayout   = BindGroupLayout{Label: "lights", Entries: []BindingKind{BindingStorage}}
)

// Pipeline is a handle returned by Renderer.CreatePipeline.
type Pipeline struct {
	ID     int
	Label  string
	Shader string
}

func (p Pipeline) Valid() bool {
	return p.ID != 0
}

// Mesh is a triangle list. Edges holds the unique triangle edges for
// wireframe drawing.
type Mesh struct {
	Vertices []mathx.Vec3
	Indices  []uint32
	Edges    [][2]uint32
}

// BuildEdges fills Edges from Indices.
func (m *Mesh) BuildEdges() {
	seen := make(map[[2]uint32]bool, len(m.Indices))
	m.Edges = m.Edges[:0]
	for i := 0; i+2 < len(m.Indices); i += 3 {
		tri := [3]uint32{m.Indices[i], m.Indices[i+1], m.Indices[i+2]}
		for j := 0; j < 3; j++ {
			a, b := tri[j], tri[(j+1)%3]
			if a > b {
				a, b = b, a
			}
			edge := [2]uint32{a, b}
			if !seen[edge] {
				seen[edge] = true
				m.Edges = append(m.Edges, edge)
			}
		}
	}
}

// Model is the GPU-side resource built for an entity or light.
type Model struct {
	Label  string
	Path   string
	Meshes []Mesh
}

// Instance is the per-draw vertex buffer content.
type Instance struct {
	Transform mathx.Mat4
}

// CameraUniform is the camera data uploaded for the vertex stage.
type CameraUniform struct {
	ViewPosition mathx.Vec3
	View         mathx.Mat4
	Projection   mathx.Mat4
	ViewProj     mathx.Mat4
}

// CameraBindings is the camera bind group for one draw.
type CameraBindings struct {
	Uniform CameraUniform
}

type LightUniform struct {
	Kind      int
	Position  mathx.Vec3
	Direction mathx.Vec3
	Color     mathx.Vec3
	Intensity float32
	Range     float32
}

// LightBindings is the light bind group for one draw.
type LightBindings struct {
	Lights []LightUniform
}

// Renderer is the rendering backend.
type Renderer interface {
	CreatePipeline(shader Shader, layouts ...BindGroupLayout) (Pipeline, error)
	BeginFrame(clear color.RGBA) RenderPass
	Viewport() (width, height int)
}

// RenderPass records the draws of one frame. End must be called once.
type RenderPass interface {
	SetPipeline(pipeline Pipeline)
	SetVertexBuffer(slot int, instance Instance)
	Draw(model *Model, camera CameraBindings, lights LightBindings)
	End()
}
