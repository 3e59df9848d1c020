// Command redback runs the packaged application found next to the
// executable.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/plus3/redback/asset"
	"github.com/plus3/redback/config"
	"github.com/plus3/redback/debugui"
	"github.com/plus3/redback/orchestrator"
	"github.com/plus3/redback/pack"
	"github.com/plus3/redback/render/ebitenrender"
	"github.com/plus3/redback/scene"
	"github.com/plus3/redback/script"
	"github.com/plus3/redback/telemetry"
)

const windowTitle = "redback"

type decoded struct {
	data *pack.RuntimeData
	err  error
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, closeLog, err := setupLogging(cfg)
	if err != nil {
		log.Fatalf("Failed to open log file: %v", err)
	}
	defer closeLog()

	ctx := context.Background()
	shutdown, err := telemetry.Setup(ctx, "redback", cfg.OTelEndpoint)
	if err != nil {
		logger.Printf("WARN: tracing disabled: %v", err)
	}
	defer shutdown(ctx)

	path := cfg.Package
	if path == "" {
		if path, err = pack.Locate(); err != nil {
			fatal(logger, cfg, err)
		}
	}

	logger.Printf("Loading package %s", path)
	result := make(chan decoded, 1)
	go func() {
		data, err := pack.ReadFile(path)
		result <- decoded{data: data, err: err}
	}()
	loaded := <-result
	if loaded.err != nil {
		fatal(logger, cfg, loaded.err)
	}

	catalogue, err := scene.NewCatalogue(loaded.data)
	if err != nil {
		fatal(logger, cfg, err)
	}
	logger.Printf("Loaded %d scenes", catalogue.Len())
	if cfg.LogDebug {
		for _, name := range catalogue.Names() {
			sc, _ := catalogue.Lookup(name)
			logger.Printf("scene %q: %d entities, %d cameras, %d lights", name, len(sc.Entities), len(sc.Cameras), len(sc.Lights))
		}
	}

	var backend *debugui.ImguiBackend
	if cfg.DebugUI {
		backend = debugui.NewBackend(windowTitle, cfg.WindowWidth, cfg.WindowHeight)
	} else {
		ebiten.SetWindowSize(cfg.WindowWidth, cfg.WindowHeight)
		ebiten.SetWindowTitle(windowTitle)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.MaxFPS)

	renderer := ebitenrender.New(cfg.WindowWidth, cfg.WindowHeight)
	window := &hostWindow{width: cfg.WindowWidth, height: cfg.WindowHeight}
	engine := script.NewLuaEngine()

	orch := orchestrator.New(orchestrator.Options{
		Catalogue: catalogue,
		Renderer:  renderer,
		Assets:    asset.NewLoader(os.DirFS(filepath.Dir(path))),
		Engine:    engine,
		Window:    window,
		Logger:    logger,
	})
	if err := orch.Start(ctx); err != nil {
		fatal(logger, cfg, err)
	}

	game := &Game{
		orch:     orch,
		renderer: renderer,
		window:   window,
		backend:  backend,
	}
	if backend != nil {
		game.overlay = debugui.NewOverlay(orch)
	}

	if err := ebiten.RunGame(game); err != nil {
		logger.Printf("ERROR: %v", err)
	}
	orch.Shutdown()
}

func setupLogging(cfg config.Config) (*log.Logger, func(), error) {
	flags := log.LstdFlags
	if cfg.LogDebug {
		flags |= log.Lshortfile
	}

	if cfg.LogFile == "" {
		return log.New(os.Stderr, "", flags), func() {}, nil
	}

	f, err := os.Create(cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}
	logger := log.New(io.MultiWriter(os.Stderr, f), "", flags)
	return logger, func() { f.Close() }, nil
}

func fatal(logger *log.Logger, cfg config.Config, err error) {
	logger.Printf("FATAL: %v", err)
	fmt.Fprintln(os.Stderr, pack.UserMessage(err, cfg.LogFile))
	os.Exit(1)
}
