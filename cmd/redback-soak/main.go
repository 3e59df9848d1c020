// Command redback-soak runs a package headless for many frames and
// reports frame timings.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/plus3/redback/pack"
	"github.com/plus3/redback/pack/project"
)

func main() {
	pkgPath := flag.String("package", "", "The package to run.")
	manifest := flag.String("project", "", "A project manifest to run instead of a package.")
	frames := flag.Int("frames", 10000, "The number of frames to run. Zero runs until -duration.")
	duration := flag.Duration("duration", 0, "Stop after this long, if set.")
	switchEvery := flag.Int("switch-every", 600, "Switch to the next scene every this many frames. Zero disables switching.")
	dt := flag.Float64("dt", 1.0/60.0, "The delta time of each frame in seconds.")
	quiet := flag.Bool("quiet", false, "Discard runtime logs.")
	flag.Parse()

	data, dir, err := load(*pkgPath, *manifest)
	if err != nil {
		log.Fatalf("Failed to load: %v", err)
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if *quiet {
		logger.SetOutput(io.Discard)
	}

	log.Printf("Running %d scenes...", len(data.Scenes))
	report, err := Soak(context.Background(), data, os.DirFS(dir), Options{
		Frames:      *frames,
		Duration:    *duration,
		DeltaTime:   *dt,
		SwitchEvery: *switchEvery,
		Width:       1280,
		Height:      720,
	}, logger)
	if err != nil {
		log.Fatalf("Soak failed: %v", err)
	}

	fmt.Println("\n\n--- Soak Report ---")
	if err := report.Generate(os.Stdout); err != nil {
		log.Fatalf("Failed to generate report: %v", err)
	}
	fmt.Println("--- End of Report ---")
}

func load(pkgPath, manifest string) (*pack.RuntimeData, string, error) {
	switch {
	case manifest != "":
		data, err := project.Load(os.DirFS(filepath.Dir(manifest)), filepath.Base(manifest))
		return data, filepath.Dir(manifest), err
	case pkgPath != "":
		data, err := pack.ReadFile(pkgPath)
		return data, filepath.Dir(pkgPath), err
	default:
		pkgPath, err := pack.Locate()
		if err != nil {
			return nil, "", err
		}
		data, err := pack.ReadFile(pkgPath)
		return data, filepath.Dir(pkgPath), err
	}
}
