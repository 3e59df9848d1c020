// Package debugui draws Dear ImGui panels over a running scene.
//
// The panels live in their own ECS storage so that scene switches, which
// clear the scene world, never remove them.
package debugui

import (
	"github.com/AllenDang/cimgui-go/imgui"

	"github.com/plus3/redback/camera"
	"github.com/plus3/redback/ecs"
	"github.com/plus3/redback/input"
	"github.com/plus3/redback/orchestrator"
	"github.com/plus3/redback/script"
)

// Runtime is the part of the orchestrator the panels read.
type Runtime interface {
	State() orchestrator.State
	SceneName() string
	World() *ecs.Storage
	Input() *input.State
	Binder() *script.Binder
	Cameras() *camera.Controller
	Stats() (ecs.StorageStats, *ecs.SchedulerStats)
}

// ImguiItem holds a render function called once per frame.
type ImguiItem struct {
	Render func()
}

// ImguiInputState tracks whether Dear ImGui is consuming input.
type ImguiInputState struct {
	WantCaptureMouse    bool
	WantCaptureKeyboard bool
}

// ImguiSystem defers every ImguiItem render function to the end of the
// frame and refreshes ImguiInputState.
type ImguiSystem struct {
	Items      ecs.Query[struct{ *ImguiItem }]
	InputState ecs.Singleton[ImguiInputState]
}

func (i *ImguiSystem) Execute(frame *ecs.UpdateFrame) {
	state := i.InputState.Get()
	state.WantCaptureMouse = imgui.CurrentIO().WantCaptureMouse()
	state.WantCaptureKeyboard = imgui.CurrentIO().WantCaptureKeyboard()

	for item := range i.Items.Values() {
		frame.Commands.Defer(item.Render)
	}
}

// Overlay owns the debug panels. Update must be called between the ImGui
// backend's BeginFrame and EndFrame.
type Overlay struct {
	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	input     *ecs.Singleton[ImguiInputState]

	browser *EntityBrowser
	dt      float32
}

func NewOverlay(runtime Runtime) *Overlay {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[ImguiItem](registry)
	ecs.RegisterComponent[ImguiInputState](registry)
	storage := ecs.NewStorage(registry)

	o := &Overlay{
		storage:   storage,
		scheduler: ecs.NewScheduler(storage),
		input:     ecs.NewSingleton[ImguiInputState](storage),
		browser:   NewEntityBrowser(100),
	}

	inspector := &ComponentInspector{}
	perf := NewPerformanceStats(120)
	storage.Spawn(ImguiItem{Render: func() { RenderRuntime(runtime) }})
	storage.Spawn(ImguiItem{Render: func() { o.browser.Render(runtime.World()) }})
	storage.Spawn(ImguiItem{Render: func() { inspector.Render(runtime.World(), o.browser.Selected()) }})
	storage.Spawn(ImguiItem{Render: func() { perf.Render(runtime, o.dt) }})

	o.scheduler.Register(&ImguiSystem{})
	return o
}

func (o *Overlay) Update(dt float64) {
	o.dt = float32(dt)
	o.scheduler.Once(dt)
}

// WantsMouse reports whether the last frame's panels consumed the mouse.
func (o *Overlay) WantsMouse() bool {
	return o.input.Get().WantCaptureMouse
}

func (o *Overlay) WantsKeyboard() bool {
	return o.input.Get().WantCaptureKeyboard
}
