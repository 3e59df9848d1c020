package pack

import (
	"errors"
	"fmt"
)

type DecodeErrorKind int

const (
	// VersionMismatch means the package was written by an incompatible producer.
	VersionMismatch DecodeErrorKind = iota
	// Corrupt means the bytes are damaged, truncated or do not match the schema.
	Corrupt
)

func (k DecodeErrorKind) String() string {
	switch k {
	case VersionMismatch:
		return "version mismatch"
	case Corrupt:
		return "corrupt"
	default:
		return "unknown"
	}
}

var (
	ErrVersionMismatch = errors.New("package version mismatch")
	ErrCorrupt         = errors.New("package corrupt")
)

type DecodeError struct {
	Kind DecodeErrorKind
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode package (%s): %v", e.Kind, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind.
func (e *DecodeError) Is(target error) bool {
	switch target {
	case ErrVersionMismatch:
		return e.Kind == VersionMismatch
	case ErrCorrupt:
		return e.Kind == Corrupt
	}
	return false
}

func versionMismatch(format string, args ...any) error {
	return &DecodeError{Kind: VersionMismatch, Err: fmt.Errorf(format, args...)}
}

func corrupt(format string, args ...any) error {
	return &DecodeError{Kind: Corrupt, Err: fmt.Errorf(format, args...)}
}

// UserMessage returns the text shown to the player when the package cannot
// be loaded. logPath is where the full diagnostics were written.
func UserMessage(err error, logPath string) string {
	if logPath == "" {
		logPath = "the console output"
	}

	if errors.Is(err, ErrVersionMismatch) {
		return "Your game .eupak package is outdated and cannot be read by this runtime.\n\n" +
			"Please either update your game package, use a matching runtime version, " +
			"or report this issue to the developer.\n\n" +
			"Logs are in " + logPath + ", so send that to them too."
	}

	return fmt.Sprintf("Error loading package: %v\n\nPlease report this to the game developer. "+
		"Logs are in %s.", err, logPath)
}
