// Package asset builds render models for scene entities and lights.
package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/plus3/redback/render"
)

// BuiltinPrefix marks model paths served from the builtin primitives.
const BuiltinPrefix = "builtin:"

// LightModelPath is the gizmo drawn for lights.
const LightModelPath = BuiltinPrefix + "light"

var ErrUnknownModel = errors.New("unknown model")

// Constructor builds the model resource for an entity.
type Constructor interface {
	ConstructEntity(r render.Renderer, modelPath, label string) (*render.Model, error)
}

// Loader reads OBJ models from a file system and serves builtin primitives.
// Parsed meshes are cached by path; each call returns a fresh Model.
type Loader struct {
	fsys   fs.FS
	meshes map[string][]render.Mesh
}

func NewLoader(fsys fs.FS) *Loader {
	return &Loader{fsys: fsys, meshes: make(map[string][]render.Mesh)}
}

func (l *Loader) ConstructEntity(r render.Renderer, modelPath, label string) (*render.Model, error) {
	meshes, err := l.load(modelPath)
	if err != nil {
		return nil, fmt.Errorf("construct %q from %s: %w", label, modelPath, err)
	}
	return &render.Model{Label: label, Path: modelPath, Meshes: meshes}, nil
}

func (l *Loader) load(modelPath string) ([]render.Mesh, error) {
	if meshes, ok := l.meshes[modelPath]; ok {
		return meshes, nil
	}

	var meshes []render.Mesh
	if name, ok := strings.CutPrefix(modelPath, BuiltinPrefix); ok {
		mesh, err := Builtin(name)
		if err != nil {
			return nil, err
		}
		meshes = []render.Mesh{mesh}
	} else {
		if l.fsys == nil {
			return nil, fmt.Errorf("%w: no model directory", ErrUnknownModel)
		}
		f, err := l.fsys.Open(modelPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		meshes, err = ParseOBJ(f)
		if err != nil {
			return nil, err
		}
	}

	l.meshes[modelPath] = meshes
	return meshes, nil
}

// Static serves prebuilt models by path. Paths in Fail return their error.
type Static struct {
	Models map[string]*render.Model
	Fail   map[string]error
	Calls  []string
}

func (s *Static) ConstructEntity(r render.Renderer, modelPath, label string) (*render.Model, error) {
	s.Calls = append(s.Calls, modelPath)
	if err, ok := s.Fail[modelPath]; ok {
		return nil, err
	}
	if model, ok := s.Models[modelPath]; ok {
		copied := *model
		copied.Label = label
		return &copied, nil
	}
	if mesh, err := Builtin(strings.TrimPrefix(modelPath, BuiltinPrefix)); err == nil {
		return &render.Model{Label: label, Path: modelPath, Meshes: []render.Mesh{mesh}}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownModel, modelPath)
}
