package script

import (
	"log"
	"path"
	"slices"
	"strings"

	"github.com/kamstrup/intmap"

	"github.com/plus3/redback/ecs"
	"github.com/plus3/redback/world"
)

// Binding ties an entity to the script instance created for it.
type Binding struct {
	Entity ecs.EntityId
	Script string
	ID     ID
}

// Binder owns the script instances of the live scene. Every binding must
// be released with UnbindAll before the world holding its entity is
// cleared.
type Binder struct {
	engine   Engine
	scripts  map[string]string
	logger   *log.Logger
	loaded   map[string]ID
	bindings *intmap.Map[ecs.EntityId, Binding]
}

// NewBinder returns a binder resolving script sources from scripts. The
// map is only read.
func NewBinder(engine Engine, scripts map[string]string, logger *log.Logger) *Binder {
	if logger == nil {
		logger = log.Default()
	}
	return &Binder{
		engine:   engine,
		scripts:  scripts,
		logger:   logger,
		loaded:   make(map[string]ID),
		bindings: intmap.New[ecs.EntityId, Binding](64),
	}
}

// Bind loads the script named by ref and creates its instance for entity.
// On error the entity stays unscripted.
func (b *Binder) Bind(entity ecs.EntityId, ref world.ScriptComponent, ctx Context) error {
	if b.bindings.Has(entity) {
		return &ScriptError{Kind: InitFailure, Script: ref.Name, Entity: entity, Err: ErrAlreadyBound}
	}

	key, source, ok := b.source(ref)
	if !ok {
		return &ScriptError{Kind: SourceMissing, Script: ref.Name, Entity: entity}
	}

	id, ok := b.loaded[key]
	if !ok {
		var err error
		id, err = b.engine.Load(key, source)
		if err != nil {
			return &ScriptError{Kind: LoadFailure, Script: key, Entity: entity, Err: err}
		}
		b.loaded[key] = id
	}

	if err := b.engine.Init(entity, id, ctx); err != nil {
		b.engine.Remove(entity)
		return &ScriptError{Kind: InitFailure, Script: key, Entity: entity, Err: err}
	}

	b.bindings.Put(entity, Binding{Entity: entity, Script: key, ID: id})
	b.logger.Printf("bound script %q to entity %s", key, entity)
	return nil
}

// source finds the script by name, then by the file name of its path.
func (b *Binder) source(ref world.ScriptComponent) (string, string, bool) {
	if source, ok := b.scripts[ref.Name]; ok && ref.Name != "" {
		return ref.Name, source, true
	}
	if ref.Path == "" {
		return "", "", false
	}
	base := path.Base(strings.ReplaceAll(ref.Path, `\`, "/"))
	if source, ok := b.scripts[base]; ok {
		return base, source, true
	}
	return "", "", false
}

// Tick runs one update of the entity's script. Entities without a binding
// are skipped.
func (b *Binder) Tick(entity ecs.EntityId, name string, ctx Context, dt float64) error {
	binding, ok := b.bindings.Get(entity)
	if !ok {
		return nil
	}
	if err := b.engine.Update(entity, binding.ID, ctx, dt); err != nil {
		if name == "" {
			name = binding.Script
		}
		return &ScriptError{Kind: TickFailure, Script: name, Entity: entity, Err: err}
	}
	return nil
}

// Unbind removes the entity's script instance, if any.
func (b *Binder) Unbind(entity ecs.EntityId) bool {
	if !b.bindings.Del(entity) {
		return false
	}
	b.engine.Remove(entity)
	return true
}

// UnbindAll removes every script instance. Calling it again is a no-op.
func (b *Binder) UnbindAll() {
	if b.bindings.Len() == 0 {
		return
	}
	for _, entity := range slices.Sorted(b.bindings.Keys()) {
		b.engine.Remove(entity)
	}
	b.bindings.Clear()
}

func (b *Binder) Bound(entity ecs.EntityId) bool {
	return b.bindings.Has(entity)
}

func (b *Binder) Len() int {
	return b.bindings.Len()
}

// Bindings returns every binding ordered by entity handle.
func (b *Binder) Bindings() []Binding {
	out := make([]Binding, 0, b.bindings.Len())
	for _, entity := range slices.Sorted(b.bindings.Keys()) {
		binding, _ := b.bindings.Get(entity)
		out = append(out, binding)
	}
	return out
}
