// Command eupak builds a package from a YAML project manifest.
//
// Model paths in the manifest are resolved at runtime relative to the
// package file, so the package is usually written next to the project.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/plus3/redback/pack"
	"github.com/plus3/redback/pack/project"
)

func main() {
	manifest := flag.String("project", "project.yaml", "The project manifest to build.")
	output := flag.String("o", "", "Where to write the package. Defaults to redback.eupak next to the manifest.")
	flag.Parse()

	out := *output
	if out == "" {
		out = filepath.Join(filepath.Dir(*manifest), "redback"+pack.Extension)
	}

	data, err := build(*manifest, out)
	if err != nil {
		log.Fatalf("Failed to build package: %v", err)
	}

	fmt.Printf("Wrote %s: %d scenes, %d scripts\n", out, len(data.Scenes), len(data.Scripts))
}

func build(manifestPath, output string) (*pack.RuntimeData, error) {
	fsys := os.DirFS(filepath.Dir(manifestPath))
	data, err := project.Load(fsys, filepath.Base(manifestPath))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", manifestPath, err)
	}

	b, err := pack.Encode(data)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}

	if err := os.WriteFile(output, b, 0o644); err != nil {
		return nil, err
	}
	return data, nil
}
