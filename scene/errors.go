package scene

import (
	"errors"
	"fmt"
)

type LoadErrorKind int

const (
	SceneNotFound LoadErrorKind = iota
	AssetFailure
	NoScenesAvailable
	NoActiveCamera
)

func (k LoadErrorKind) String() string {
	switch k {
	case SceneNotFound:
		return "scene not found"
	case AssetFailure:
		return "asset failure"
	case NoScenesAvailable:
		return "no scenes available"
	case NoActiveCamera:
		return "no active camera"
	default:
		return "unknown"
	}
}

var (
	ErrSceneNotFound     = errors.New("scene not found")
	ErrAssetFailure      = errors.New("asset failure")
	ErrNoScenesAvailable = errors.New("no scenes available")
	ErrNoActiveCamera    = errors.New("no active camera")
)

type LoadError struct {
	Kind  LoadErrorKind
	Scene string
	Err   error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("load scene %q: %s", e.Scene, e.Kind)
	}
	return fmt.Sprintf("load scene %q: %s: %v", e.Scene, e.Kind, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

func (e *LoadError) Is(target error) bool {
	switch target {
	case ErrSceneNotFound:
		return e.Kind == SceneNotFound
	case ErrAssetFailure:
		return e.Kind == AssetFailure
	case ErrNoScenesAvailable:
		return e.Kind == NoScenesAvailable
	case ErrNoActiveCamera:
		return e.Kind == NoActiveCamera
	}
	return false
}
