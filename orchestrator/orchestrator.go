// Package orchestrator sequences scene loading, per-frame updates and
// rendering of a packaged application.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/plus3/redback/asset"
	"github.com/plus3/redback/camera"
	"github.com/plus3/redback/ecs"
	"github.com/plus3/redback/input"
	"github.com/plus3/redback/render"
	"github.com/plus3/redback/scene"
	"github.com/plus3/redback/script"
)

const tracerName = "github.com/plus3/redback/orchestrator"

// ErrTerminated is returned by Update once the orchestrator has exited.
var ErrTerminated = errors.New("orchestrator terminated")

// Window is the host window. It only needs to control the cursor.
type Window interface {
	Size() (width, height int)
	SetCursorVisible(visible bool)
	SetCursorPosition(x, y int)
}

type Options struct {
	Catalogue *scene.Catalogue
	Renderer  render.Renderer
	Assets    asset.Constructor
	Engine    script.Engine

	// Window is optional. Without it cursor locking only affects input state.
	Window Window
	Logger *log.Logger
	Tracer trace.Tracer
}

// Orchestrator owns the live world and everything bound to it. It is not
// safe for concurrent use.
type Orchestrator struct {
	catalogue    *scene.Catalogue
	renderer     render.Renderer
	window       Window
	logger       *log.Logger
	tracer       trace.Tracer
	materializer *scene.Materializer

	storage   *ecs.Storage
	scheduler *ecs.Scheduler
	input     *ecs.Singleton[input.State]
	binder    *script.Binder
	cameras   *camera.Controller
	commands  *commandQueue

	visuals *ecs.Query[visualView]
	lights  *ecs.Query[lightView]

	modelPipeline render.Pipeline
	lightPipeline render.Pipeline

	state State
	scene string
}

func New(opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	tracer := opts.Tracer
	if tracer == nil {
		tracer = otel.Tracer(tracerName)
	}

	storage := scene.NewWorld()
	o := &Orchestrator{
		catalogue:    opts.Catalogue,
		renderer:     opts.Renderer,
		window:       opts.Window,
		logger:       logger,
		tracer:       tracer,
		materializer: &scene.Materializer{Assets: opts.Assets, Logger: logger},
		storage:      storage,
		scheduler:    ecs.NewScheduler(storage),
		input:        ecs.NewSingleton[input.State](storage, input.NewState()),
		binder:       script.NewBinder(opts.Engine, opts.Catalogue.Scripts(), logger),
		cameras:      camera.NewController(logger),
		commands:     &commandQueue{},
		visuals:      ecs.NewQuery[visualView](storage),
		lights:       ecs.NewQuery[lightView](storage),
	}

	o.scheduler.Register(&ScriptSystem{binder: o.binder, commands: o.commands, logger: logger})
	o.scheduler.Register(&CameraFollowSystem{cameras: o.cameras})
	o.scheduler.Register(&CameraDriveSystem{cameras: o.cameras})
	o.scheduler.Register(&CameraUpdateSystem{cameras: o.cameras, renderer: o.renderer})
	o.scheduler.Register(&TransformSyncSystem{})
	o.scheduler.Register(&InputResetSystem{})
	return o
}

func (o *Orchestrator) State() State {
	return o.state
}

// SceneName returns the name of the loaded scene.
func (o *Orchestrator) SceneName() string {
	return o.scene
}

// World returns the live world. Callers must not keep it across frames.
func (o *Orchestrator) World() *ecs.Storage {
	return o.storage
}

func (o *Orchestrator) Input() *input.State {
	return o.input.Get()
}

func (o *Orchestrator) Binder() *script.Binder {
	return o.binder
}

func (o *Orchestrator) Cameras() *camera.Controller {
	return o.cameras
}

func (o *Orchestrator) Scheduler() *ecs.Scheduler {
	return o.scheduler
}

// Start loads the default scene. Any error is fatal: there is nothing to
// show.
func (o *Orchestrator) Start(ctx context.Context) (err error) {
	if o.state != Unloaded {
		return fmt.Errorf("start in state %s", o.state)
	}

	name, ok := o.catalogue.DefaultSceneName()
	if !ok {
		return &scene.LoadError{Kind: scene.NoScenesAvailable}
	}

	ctx, span := o.tracer.Start(ctx, "orchestrator.start", trace.WithAttributes(attribute.String("scene", name)))
	defer func() { endSpan(span, err) }()

	o.state = Loading
	if err := o.loadScene(ctx, name); err != nil {
		o.state = Unloaded
		return err
	}
	return nil
}

// SwitchScene replaces the loaded scene. Unknown names and asset failures
// leave the current scene as it was.
func (o *Orchestrator) SwitchScene(ctx context.Context, name string) (err error) {
	if o.state != Loaded {
		return fmt.Errorf("switch scene in state %s", o.state)
	}

	ctx, span := o.tracer.Start(ctx, "orchestrator.switch", trace.WithAttributes(
		attribute.String("scene.from", o.scene),
		attribute.String("scene.to", name),
	))
	defer func() { endSpan(span, err) }()

	if _, ok := o.catalogue.Lookup(name); !ok {
		return &scene.LoadError{Kind: scene.SceneNotFound, Scene: name}
	}

	o.state = SwitchPending
	if err := o.loadScene(ctx, name); err != nil {
		if o.state == SwitchPending {
			o.state = Loaded
		}
		return err
	}
	return nil
}

// loadScene builds the scene off to the side, then swaps it in. Scripts of
// the current scene are unbound before its world is cleared.
func (o *Orchestrator) loadScene(ctx context.Context, name string) error {
	cfg, ok := o.catalogue.Lookup(name)
	if !ok {
		return &scene.LoadError{Kind: scene.SceneNotFound, Scene: name}
	}

	_, span := o.tracer.Start(ctx, "orchestrator.materialize")
	plan, err := o.materializer.Prepare(cfg, o.renderer)
	endSpan(span, err)
	if err != nil {
		return err
	}

	o.binder.UnbindAll()
	o.state = Loading

	materialized := o.materializer.Commit(o.storage, plan)
	o.cameras.Reset(materialized.ActiveCamera)
	if _, _, err := o.cameras.Active(o.storage); err != nil {
		o.storage.Clear()
		o.scene = ""
		o.state = Unloaded
		return &scene.LoadError{Kind: scene.NoActiveCamera, Scene: name, Err: err}
	}
	width, height := o.renderer.Viewport()
	o.cameras.UpdateAll(o.storage, width, height)

	bindCtx := o.scriptContext()
	for _, scripted := range materialized.Scripted {
		if err := o.binder.Bind(scripted.ID, scripted.Script, bindCtx); err != nil {
			o.logger.Printf("ERROR: %v", err)
		}
	}

	if err := o.setupPipelines(); err != nil {
		if !o.modelPipeline.Valid() {
			o.binder.UnbindAll()
			o.storage.Clear()
			o.scene = ""
			o.state = Unloaded
			return fmt.Errorf("set up pipelines for scene %q: %w", name, err)
		}
		o.logger.Printf("WARN: set up pipelines for scene %q: %v, keeping the previous ones", name, err)
	}

	o.scene = name
	o.state = Loaded
	o.logger.Printf("loaded scene %q with %d scripts bound", name, o.binder.Len())
	return nil
}

func (o *Orchestrator) setupPipelines() error {
	model, err := o.renderer.CreatePipeline(render.ModelShader, render.TextureLayout, camera.Layout(), render.LightLayout)
	if err != nil {
		return fmt.Errorf("model pipeline: %w", err)
	}
	light, err := o.renderer.CreatePipeline(render.LightShader, camera.Layout(), render.LightLayout)
	if err != nil {
		return fmt.Errorf("light pipeline: %w", err)
	}
	o.modelPipeline, o.lightPipeline = model, light
	return nil
}

func (o *Orchestrator) scriptContext() script.Context {
	return script.Context{
		World:    o.storage,
		Input:    o.input.Get(),
		Commands: o.commands,
		Logger:   o.logger,
	}
}

// Update runs one frame of the update phase, then carries out the command
// issued during it, if any. It returns ErrTerminated once a quit has been
// processed.
func (o *Orchestrator) Update(dt float64) error {
	switch o.state {
	case Loaded:
	case Exiting, Terminated:
		return ErrTerminated
	default:
		return fmt.Errorf("update in state %s", o.state)
	}

	if in := o.input.Get(); o.window != nil && !in.CursorLocked {
		o.window.SetCursorVisible(true)
	}

	o.state = Updating
	o.scheduler.Once(dt)
	o.state = Loaded

	return o.runCommand()
}

func (o *Orchestrator) runCommand() error {
	cmd := o.commands.take()
	switch cmd.Kind {
	case CommandQuit:
		o.exit()
		return ErrTerminated
	case CommandSwitch:
		if err := o.SwitchScene(context.Background(), cmd.Scene); err != nil {
			o.logger.Printf("ERROR: switch to scene %q: %v", cmd.Scene, err)
		}
	}
	return nil
}

// Quit asks the orchestrator to exit. The request is carried out by the
// next Update, which skips the rest of its frame.
func (o *Orchestrator) Quit() {
	o.commands.Quit()
}

// Shutdown exits right away, for hosts that are closing.
func (o *Orchestrator) Shutdown() {
	if o.state == Terminated {
		return
	}
	o.exit()
}

func (o *Orchestrator) exit() {
	o.state = Exiting
	o.binder.UnbindAll()
	o.storage.Clear()
	o.cameras.Reset(0)
	o.logger.Printf("exiting scene %q", o.scene)
	o.scene = ""
	o.state = Terminated
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
