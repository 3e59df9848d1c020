// Package ebitenrender draws models as wireframes onto an Ebiten image.
package ebitenrender

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/plus3/redback/mathx"
	"github.com/plus3/redback/render"
)

const (
	strokeWidth = 1
	ambient     = 0.25
	minClipW    = 1e-4
)

var lightColor = color.RGBA{R: 255, G: 220, B: 120, A: 255}

// Renderer implements render.Renderer on top of Ebiten's vector package.
// SetTarget must be called with the screen before each frame.
type Renderer struct {
	target    *ebiten.Image
	width     int
	height    int
	pipelines []render.Pipeline
}

func New(width, height int) *Renderer {
	return &Renderer{width: width, height: height}
}

// SetTarget selects the image the next frame draws into and adopts its size
// as the viewport.
func (r *Renderer) SetTarget(target *ebiten.Image) {
	r.target = target
	if target != nil {
		bounds := target.Bounds()
		r.width, r.height = bounds.Dx(), bounds.Dy()
	}
}

func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
}

func (r *Renderer) Viewport() (int, int) {
	return r.width, r.height
}

func (r *Renderer) CreatePipeline(shader render.Shader, layouts ...render.BindGroupLayout) (render.Pipeline, error) {
	switch shader.Name {
	case render.ModelShader.Name, render.LightShader.Name:
	default:
		return render.Pipeline{}, fmt.Errorf("unsupported shader %q", shader.Name)
	}

	pipeline := render.Pipeline{
		ID:     len(r.pipelines) + 1,
		Label:  shader.Name + " pipeline",
		Shader: shader.Name,
	}
	r.pipelines = append(r.pipelines, pipeline)
	return pipeline, nil
}

func (r *Renderer) BeginFrame(clear color.RGBA) render.RenderPass {
	if r.target != nil {
		r.target.Fill(clear)
	}
	return &pass{renderer: r}
}

type pass struct {
	renderer *Renderer
	pipeline render.Pipeline
	instance render.Instance
	ended    bool
}

func (p *pass) SetPipeline(pipeline render.Pipeline) {
	p.pipeline = pipeline
}

func (p *pass) SetVertexBuffer(slot int, instance render.Instance) {
	p.instance = instance
}

func (p *pass) Draw(model *render.Model, camera render.CameraBindings, lights render.LightBindings) {
	r := p.renderer
	if p.ended || r.target == nil || model == nil {
		return
	}

	clr := lightColor
	if p.pipeline.Shader != render.LightShader.Name {
		clr = Shade(lights)
	}

	mvp := camera.Uniform.ViewProj.Mul(p.instance.Transform)
	for _, mesh := range model.Meshes {
		for _, edge := range mesh.Edges {
			x0, y0, ok0 := Project(mvp, mesh.Vertices[edge[0]], r.width, r.height)
			x1, y1, ok1 := Project(mvp, mesh.Vertices[edge[1]], r.width, r.height)
			if !ok0 || !ok1 {
				continue
			}
			vector.StrokeLine(r.target, x0, y0, x1, y1, strokeWidth, clr, true)
		}
	}
}

func (p *pass) End() {
	p.ended = true
}

// Project maps a model-space point to screen coordinates. Points behind
// the camera are rejected.
func Project(mvp mathx.Mat4, v mathx.Vec3, width, height int) (float32, float32, bool) {
	x, y, _, w := mvp.TransformPoint(v)
	if w < minClipW {
		return 0, 0, false
	}
	ndcX, ndcY := x/w, y/w
	sx := (ndcX*0.5 + 0.5) * float32(width)
	sy := (0.5 - ndcY*0.5) * float32(height)
	return sx, sy, true
}

// Shade returns the wireframe color lit by the given lights.
func Shade(lights render.LightBindings) color.RGBA {
	total := mathx.Vec3{X: ambient, Y: ambient, Z: ambient}
	for _, light := range lights.Lights {
		total = total.Add(light.Color.Scale(light.Intensity))
	}
	return color.RGBA{
		R: channel(total.X),
		G: channel(total.Y),
		B: channel(total.Z),
		A: 255,
	}
}

func channel(v float32) uint8 {
	return uint8(mathx.Clamp(v, 0, 1) * 255)
}
