package camera

import (
	"errors"
	"fmt"
)

var ErrNoActiveCamera = errors.New("no active camera")

type CameraError struct {
	Err error
}

func (e *CameraError) Error() string {
	return fmt.Sprintf("camera: %v", e.Err)
}

func (e *CameraError) Unwrap() error {
	return e.Err
}
