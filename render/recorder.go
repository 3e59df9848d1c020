package render

import (
	"image/color"
)

// Recorder is a headless Renderer that keeps every call for inspection.
type Recorder struct {
	Width, Height int
	Pipelines     []PipelineRecord
	Frames        []Frame

	// FailPipelines makes CreatePipeline return this error.
	FailPipelines error
}

type PipelineRecord struct {
	Pipeline Pipeline
	Layouts  []BindGroupLayout
}

type Frame struct {
	Clear color.RGBA
	Draws []DrawRecord
	Ended bool
}

type DrawRecord struct {
	Pipeline Pipeline
	Slot     int
	Instance Instance
	Model    *Model
	Camera   CameraBindings
	Lights   LightBindings
}

func NewRecorder(width, height int) *Recorder {
	return &Recorder{Width: width, Height: height}
}

func (r *Recorder) CreatePipeline(shader Shader, layouts ...BindGroupLayout) (Pipeline, error) {
	if r.FailPipelines != nil {
		return Pipeline{}, r.FailPipelines
	}
	p := Pipeline{ID: len(r.Pipelines) + 1, Label: shader.Name, Shader: shader.Name}
	r.Pipelines = append(r.Pipelines, PipelineRecord{Pipeline: p, Layouts: layouts})
	return p, nil
}

func (r *Recorder) BeginFrame(clear color.RGBA) RenderPass {
	r.Frames = append(r.Frames, Frame{Clear: clear})
	return &recordedPass{recorder: r, frame: len(r.Frames) - 1}
}

func (r *Recorder) Viewport() (int, int) {
	return r.Width, r.Height
}

// LastFrame returns the most recent frame, or nil before the first.
func (r *Recorder) LastFrame() *Frame {
	if len(r.Frames) == 0 {
		return nil
	}
	return &r.Frames[len(r.Frames)-1]
}

// DropFrames forgets the recorded frames, for long headless runs.
func (r *Recorder) DropFrames() {
	r.Frames = r.Frames[:0]
}

type recordedPass struct {
	recorder *Recorder
	frame    int
	pipeline Pipeline
	slot     int
	instance Instance
}

func (p *recordedPass) SetPipeline(pipeline Pipeline) {
	p.pipeline = pipeline
}

func (p *recordedPass) SetVertexBuffer(slot int, instance Instance) {
	p.slot = slot
	p.instance = instance
}

func (p *recordedPass) Draw(model *Model, camera CameraBindings, lights LightBindings) {
	frame := &p.recorder.Frames[p.frame]
	frame.Draws = append(frame.Draws, DrawRecord{
		Pipeline: p.pipeline,
		Slot:     p.slot,
		Instance: p.instance,
		Model:    model,
		Camera:   camera,
		Lights:   lights,
	})
}

func (p *recordedPass) End() {
	p.recorder.Frames[p.frame].Ended = true
}
