// Package script binds per-entity scripts to a scripting engine and runs
// them once per frame.
package script

import (
	"errors"
	"fmt"
	"log"

	"github.com/plus3/redback/ecs"
	"github.com/plus3/redback/input"
)

// ID identifies a compiled script inside an engine.
type ID int

// CommandSink receives the commands scripts issue during a call. Commands
// take effect after the update phase.
type CommandSink interface {
	SwitchScene(name string)
	Quit()
}

// Context is what an engine may touch during a single call. Engines must
// not keep any of it once the call returns.
type Context struct {
	World    *ecs.Storage
	Input    *input.State
	Commands CommandSink
	Logger   *log.Logger
}

// Engine runs scripts. Instances are keyed by entity handle.
type Engine interface {
	Load(name, source string) (ID, error)
	Init(entity ecs.EntityId, id ID, ctx Context) error
	Update(entity ecs.EntityId, id ID, ctx Context, dt float64) error
	Remove(entity ecs.EntityId)
}

type ErrorKind int

const (
	SourceMissing ErrorKind = iota
	LoadFailure
	InitFailure
	TickFailure
)

func (k ErrorKind) String() string {
	switch k {
	case SourceMissing:
		return "source missing"
	case LoadFailure:
		return "load failure"
	case InitFailure:
		return "init failure"
	case TickFailure:
		return "tick failure"
	default:
		return "unknown"
	}
}

var (
	ErrSourceMissing = errors.New("script source missing")
	ErrLoadFailure   = errors.New("script load failure")
	ErrInitFailure   = errors.New("script init failure")
	ErrTickFailure   = errors.New("script tick failure")

	ErrAlreadyBound = errors.New("entity already has a script bound")
)

// ScriptError reports a script failure along with the script and entity
// it happened on.
type ScriptError struct {
	Kind   ErrorKind
	Script string
	Entity ecs.EntityId
	Err    error
}

func (e *ScriptError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("script %q on entity %s: %s", e.Script, e.Entity, e.Kind)
	}
	return fmt.Sprintf("script %q on entity %s: %s: %v", e.Script, e.Entity, e.Kind, e.Err)
}

func (e *ScriptError) Unwrap() error {
	return e.Err
}

func (e *ScriptError) Is(target error) bool {
	switch target {
	case ErrSourceMissing:
		return e.Kind == SourceMissing
	case ErrLoadFailure:
		return e.Kind == LoadFailure
	case ErrInitFailure:
		return e.Kind == InitFailure
	case ErrTickFailure:
		return e.Kind == TickFailure
	}
	return false
}
