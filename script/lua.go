package script

import (
	"errors"
	"fmt"

	"github.com/Shopify/go-lua"

	"github.com/plus3/redback/ecs"
	"github.com/plus3/redback/input"
	"github.com/plus3/redback/mathx"
	"github.com/plus3/redback/world"
)

const (
	entityTypeName    = "redback.entity"
	moduleKeyPrefix   = "redback.module."
	instanceKeyPrefix = "redback.instance."
)

var errOutsideCall = errors.New("script API used outside of a script call")

type entityRef struct {
	id ecs.EntityId
}

// LuaEngine runs scripts written in Lua 5.2. A script returns a table with
// optional on_init(self, entity) and on_update(self, entity, dt) functions.
// Each bound entity gets its own self table that falls back to the module.
type LuaEngine struct {
	state *lua.State
	next  ID
	ctx   *Context
}

func NewLuaEngine() *LuaEngine {
	l := lua.NewState()
	lua.OpenLibraries(l)

	e := &LuaEngine{state: l}
	e.registerEntityType()
	e.registerGlobals()
	return e
}

func moduleKey(id ID) string {
	return fmt.Sprintf("%s%d", moduleKeyPrefix, id)
}

func instanceKey(entity ecs.EntityId) string {
	return fmt.Sprintf("%s%d", instanceKeyPrefix, uint64(entity))
}

// Load compiles and runs the chunk, keeping the table it returns.
func (e *LuaEngine) Load(name, source string) (ID, error) {
	l := e.state
	top := l.Top()
	defer l.SetTop(top)

	if err := lua.LoadBuffer(l, source, "@"+name, "t"); err != nil {
		return 0, fmt.Errorf("compile %s: %w", name, err)
	}
	if err := l.ProtectedCall(0, 1, 0); err != nil {
		return 0, fmt.Errorf("run %s: %w", name, err)
	}
	if l.TypeOf(-1) != lua.TypeTable {
		return 0, fmt.Errorf("%s must return a table, got %s", name, lua.TypeNameOf(l, -1))
	}

	e.next++
	id := e.next

	l.NewTable()
	l.PushValue(-2)
	l.SetField(-2, "__index")
	l.SetField(lua.RegistryIndex, moduleKey(id))
	return id, nil
}

// Init creates the entity's instance and calls on_init.
func (e *LuaEngine) Init(entity ecs.EntityId, id ID, ctx Context) error {
	return e.call(ctx, func(l *lua.State) error {
		l.NewTable()
		l.Field(lua.RegistryIndex, moduleKey(id))
		if l.TypeOf(-1) != lua.TypeTable {
			return fmt.Errorf("script %d is not loaded", id)
		}
		l.SetMetaTable(-2)

		l.PushValue(-1)
		l.SetField(lua.RegistryIndex, instanceKey(entity))
		return e.invoke(entity, "on_init")
	})
}

// Update calls on_update on the entity's instance.
func (e *LuaEngine) Update(entity ecs.EntityId, id ID, ctx Context, dt float64) error {
	return e.call(ctx, func(l *lua.State) error {
		l.Field(lua.RegistryIndex, instanceKey(entity))
		if l.TypeOf(-1) != lua.TypeTable {
			return fmt.Errorf("entity %s has no instance of script %d", entity, id)
		}
		return e.invoke(entity, "on_update", dt)
	})
}

// Remove drops the entity's instance.
func (e *LuaEngine) Remove(entity ecs.EntityId) {
	l := e.state
	l.PushNil()
	l.SetField(lua.RegistryIndex, instanceKey(entity))
}

func (e *LuaEngine) call(ctx Context, fn func(*lua.State) error) error {
	l := e.state
	top := l.Top()
	e.ctx = &ctx
	defer func() {
		e.ctx = nil
		l.SetTop(top)
	}()
	return fn(l)
}

// invoke calls the named method of the instance on top of the stack.
// Missing methods are skipped.
func (e *LuaEngine) invoke(entity ecs.EntityId, method string, args ...float64) error {
	l := e.state
	l.Field(-1, method)
	switch l.TypeOf(-1) {
	case lua.TypeNil:
		l.Pop(1)
		return nil
	case lua.TypeFunction:
	default:
		return fmt.Errorf("%s is a %s, not a function", method, lua.TypeNameOf(l, -1))
	}

	l.PushValue(-2)
	e.pushEntity(entity)
	for _, arg := range args {
		l.PushNumber(arg)
	}
	if err := l.ProtectedCall(2+len(args), 0, 0); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}
	return nil
}

func (e *LuaEngine) pushEntity(entity ecs.EntityId) {
	e.state.PushUserData(&entityRef{id: entity})
	lua.SetMetaTableNamed(e.state, entityTypeName)
}

func (e *LuaEngine) registerEntityType() {
	l := e.state
	lua.NewMetaTable(l, entityTypeName)
	l.NewTable()
	lua.SetFunctions(l, []lua.RegistryFunction{
		{Name: "label", Function: e.entityLabel},
		{Name: "id", Function: e.entityID},
		{Name: "position", Function: e.entityPosition},
		{Name: "set_position", Function: e.entitySetPosition},
		{Name: "translate", Function: e.entityTranslate},
		{Name: "scale", Function: e.entityScale},
		{Name: "set_scale", Function: e.entitySetScale},
		{Name: "property", Function: e.entityProperty},
		{Name: "set_property", Function: e.entitySetProperty},
	}, 0)
	l.SetField(-2, "__index")
	l.Pop(1)
}

func (e *LuaEngine) registerGlobals() {
	l := e.state
	globals := map[string][]lua.RegistryFunction{
		"input": {
			{Name: "is_key_pressed", Function: e.inputKeyPressed},
			{Name: "is_mouse_button_pressed", Function: e.inputMouseButtonPressed},
			{Name: "mouse_position", Function: e.inputMousePosition},
			{Name: "mouse_delta", Function: e.inputMouseDelta},
			{Name: "is_cursor_locked", Function: e.inputCursorLocked},
		},
		"scene": {
			{Name: "switch", Function: e.sceneSwitch},
			{Name: "quit", Function: e.sceneQuit},
		},
		"log": {
			{Name: "info", Function: e.logInfo},
		},
	}
	for name, functions := range globals {
		l.NewTable()
		lua.SetFunctions(l, functions, 0)
		l.SetGlobal(name)
	}
}

func (e *LuaEngine) context(l *lua.State) *Context {
	if e.ctx == nil {
		lua.Errorf(l, "%s", errOutsideCall.Error())
	}
	return e.ctx
}

func (e *LuaEngine) checkEntity(l *lua.State) ecs.EntityId {
	ref, ok := lua.CheckUserData(l, 1, entityTypeName).(*entityRef)
	if !ok {
		lua.ArgumentError(l, 1, "entity expected")
	}
	return ref.id
}

func (e *LuaEngine) transform(l *lua.State) *world.Transform {
	entity := e.checkEntity(l)
	ctx := e.context(l)
	transform := ecs.ReadComponent[world.Transform](ctx.World, entity)
	if transform == nil {
		lua.Errorf(l, "entity %s has no transform", entity.String())
	}
	return transform
}

func checkVec3(l *lua.State, first int) mathx.Vec3 {
	return mathx.Vec3{
		X: float32(lua.CheckNumber(l, first)),
		Y: float32(lua.CheckNumber(l, first+1)),
		Z: float32(lua.CheckNumber(l, first+2)),
	}
}

func pushVec3(l *lua.State, v mathx.Vec3) int {
	l.PushNumber(float64(v.X))
	l.PushNumber(float64(v.Y))
	l.PushNumber(float64(v.Z))
	return 3
}

func (e *LuaEngine) entityLabel(l *lua.State) int {
	entity := e.checkEntity(l)
	label := ecs.ReadComponent[world.Label](e.context(l).World, entity)
	if label == nil {
		l.PushNil()
		return 1
	}
	l.PushString(string(*label))
	return 1
}

func (e *LuaEngine) entityID(l *lua.State) int {
	l.PushString(e.checkEntity(l).String())
	return 1
}

func (e *LuaEngine) entityPosition(l *lua.State) int {
	return pushVec3(l, e.transform(l).Position)
}

func (e *LuaEngine) entitySetPosition(l *lua.State) int {
	transform := e.transform(l)
	transform.Position = checkVec3(l, 2)
	return 0
}

func (e *LuaEngine) entityTranslate(l *lua.State) int {
	transform := e.transform(l)
	transform.Position = transform.Position.Add(checkVec3(l, 2))
	return 0
}

func (e *LuaEngine) entityScale(l *lua.State) int {
	return pushVec3(l, e.transform(l).Scale)
}

func (e *LuaEngine) entitySetScale(l *lua.State) int {
	transform := e.transform(l)
	transform.Scale = checkVec3(l, 2)
	return 0
}

func (e *LuaEngine) entityProperty(l *lua.State) int {
	entity := e.checkEntity(l)
	key := lua.CheckString(l, 2)
	props := ecs.ReadComponent[world.Properties](e.context(l).World, entity)
	if props == nil {
		l.PushNil()
		return 1
	}

	switch value := props.Values[key].(type) {
	case string:
		l.PushString(value)
	case bool:
		l.PushBoolean(value)
	case float64:
		l.PushNumber(value)
	case float32:
		l.PushNumber(float64(value))
	case int64:
		l.PushNumber(float64(value))
	case int:
		l.PushNumber(float64(value))
	case mathx.Vec3:
		l.NewTable()
		l.PushNumber(float64(value.X))
		l.SetField(-2, "x")
		l.PushNumber(float64(value.Y))
		l.SetField(-2, "y")
		l.PushNumber(float64(value.Z))
		l.SetField(-2, "z")
	default:
		l.PushNil()
	}
	return 1
}

func (e *LuaEngine) entitySetProperty(l *lua.State) int {
	entity := e.checkEntity(l)
	key := lua.CheckString(l, 2)
	props := ecs.ReadComponent[world.Properties](e.context(l).World, entity)
	if props == nil {
		lua.Errorf(l, "entity %s has no properties", entity.String())
	}
	if props.Values == nil {
		props.Values = make(map[string]any)
	}

	switch l.TypeOf(3) {
	case lua.TypeNil, lua.TypeNone:
		delete(props.Values, key)
	case lua.TypeBoolean:
		props.Values[key] = l.ToBoolean(3)
	case lua.TypeNumber:
		value, _ := l.ToNumber(3)
		props.Values[key] = value
	case lua.TypeString:
		value, _ := l.ToString(3)
		props.Values[key] = value
	default:
		lua.ArgumentError(l, 3, "string, number, boolean or nil expected")
	}
	return 0
}

func (e *LuaEngine) inputState(l *lua.State) *input.State {
	in := e.context(l).Input
	if in == nil {
		empty := input.NewState()
		return &empty
	}
	return in
}

func (e *LuaEngine) inputKeyPressed(l *lua.State) int {
	key := lua.CheckString(l, 1)
	l.PushBoolean(e.inputState(l).IsKeyPressed(input.Key(key)))
	return 1
}

func (e *LuaEngine) inputMouseButtonPressed(l *lua.State) int {
	button, ok := input.ParseMouseButton(lua.CheckString(l, 1))
	l.PushBoolean(ok && e.inputState(l).IsMouseButtonPressed(button))
	return 1
}

func (e *LuaEngine) inputMousePosition(l *lua.State) int {
	position := e.inputState(l).MousePosition
	l.PushNumber(position.X)
	l.PushNumber(position.Y)
	return 2
}

func (e *LuaEngine) inputMouseDelta(l *lua.State) int {
	delta := e.inputState(l).MouseDelta
	l.PushNumber(delta.X)
	l.PushNumber(delta.Y)
	return 2
}

func (e *LuaEngine) inputCursorLocked(l *lua.State) int {
	l.PushBoolean(e.inputState(l).CursorLocked)
	return 1
}

func (e *LuaEngine) sceneSwitch(l *lua.State) int {
	name := lua.CheckString(l, 1)
	if commands := e.context(l).Commands; commands != nil {
		commands.SwitchScene(name)
	}
	return 0
}

func (e *LuaEngine) sceneQuit(l *lua.State) int {
	if commands := e.context(l).Commands; commands != nil {
		commands.Quit()
	}
	return 0
}

func (e *LuaEngine) logInfo(l *lua.State) int {
	message := lua.CheckString(l, 1)
	logger := e.context(l).Logger
	if logger == nil {
		return 0
	}
	logger.Printf("script: %s", message)
	return 0
}
