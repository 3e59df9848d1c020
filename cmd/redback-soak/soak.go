package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"runtime"
	"time"

	"github.com/plus3/redback/asset"
	"github.com/plus3/redback/orchestrator"
	"github.com/plus3/redback/pack"
	"github.com/plus3/redback/render"
	"github.com/plus3/redback/scene"
	"github.com/plus3/redback/script"
)

type Options struct {
	Frames      int
	Duration    time.Duration
	DeltaTime   float64
	SwitchEvery int
	Width       int
	Height      int
}

// Soak drives the orchestrator headless over data, cycling through the
// catalogue's scenes every SwitchEvery frames. It stops after Frames
// frames, when Duration has elapsed, or when the application quits.
func Soak(ctx context.Context, data *pack.RuntimeData, models fs.FS, opts Options, logger *log.Logger) (*Report, error) {
	catalogue, err := scene.NewCatalogue(data)
	if err != nil {
		return nil, err
	}

	recorder := render.NewRecorder(opts.Width, opts.Height)
	orch := orchestrator.New(orchestrator.Options{
		Catalogue: catalogue,
		Renderer:  recorder,
		Assets:    asset.NewLoader(models),
		Engine:    script.NewLuaEngine(),
		Logger:    logger,
	})
	if err := orch.Start(ctx); err != nil {
		return nil, err
	}
	defer orch.Shutdown()

	report := &Report{
		Frames:      opts.Frames,
		Duration:    opts.Duration,
		Scenes:      catalogue.Len(),
		SwitchEvery: opts.SwitchEvery,
	}
	runtime.ReadMemStats(&report.MemStatsStart)

	if opts.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Duration)
		defer cancel()
	}

	names := catalogue.Names()
	next := 0
	startTime := time.Now()

Loop:
	for frame := 0; opts.Frames <= 0 || frame < opts.Frames; frame++ {
		select {
		case <-ctx.Done():
			break Loop
		default:
		}

		if opts.SwitchEvery > 0 && frame > 0 && frame%opts.SwitchEvery == 0 && len(names) > 1 {
			next = (next + 1) % len(names)
			if err := orch.SwitchScene(ctx, names[next]); err != nil {
				logger.Printf("ERROR: switch to %q: %v", names[next], err)
				report.FailedSwitches++
			} else {
				report.Switches++
			}
		}

		updateStart := time.Now()
		err := orch.Update(opts.DeltaTime)
		report.UpdateTime.Samples = append(report.UpdateTime.Samples, time.Since(updateStart))
		if errors.Is(err, orchestrator.ErrTerminated) {
			report.Quit = true
			report.TotalFrames++
			break
		}
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", frame, err)
		}

		renderStart := time.Now()
		orch.Render()
		report.RenderTime.Samples = append(report.RenderTime.Samples, time.Since(renderStart))
		if last := recorder.LastFrame(); last != nil {
			report.Draws += int64(len(last.Draws))
		}
		recorder.DropFrames()
		report.TotalFrames++
	}

	report.TotalTime = time.Since(startTime)
	report.FinalScene = orch.SceneName()
	report.Bindings = orch.Binder().Len()
	_, report.Systems = orch.Stats()
	report.UpdateTime.Finalize()
	report.RenderTime.Finalize()
	runtime.ReadMemStats(&report.MemStatsEnd)

	return report, nil
}
