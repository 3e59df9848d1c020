// Package input aggregates keyboard, mouse and controller events into the
// state read by scripts and cameras during a frame.
package input

import "slices"

// Key names a keyboard key, spelled like "W", "Space", "ShiftLeft" or "F1".
type Key string

const (
	KeyW         Key = "W"
	KeyA         Key = "A"
	KeyS         Key = "S"
	KeyD         Key = "D"
	KeySpace     Key = "Space"
	KeyShiftLeft Key = "ShiftLeft"
	KeyEscape    Key = "Escape"
	KeyF1        Key = "F1"
)

type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "left"
	case MouseRight:
		return "right"
	case MouseMiddle:
		return "middle"
	default:
		return "unknown"
	}
}

// ParseMouseButton accepts the names returned by MouseButton.String.
func ParseMouseButton(name string) (MouseButton, bool) {
	switch name {
	case "left":
		return MouseLeft, true
	case "right":
		return MouseRight, true
	case "middle":
		return MouseMiddle, true
	}
	return 0, false
}

type Vec2 struct {
	X, Y float64
}

type ControllerID int

type Controller struct {
	Buttons    map[string]bool
	LeftStick  Vec2
	RightStick Vec2
}

// State is the input seen by one frame. Handlers mutate it between frames;
// scripts and cameras only read it.
type State struct {
	PressedKeys   map[Key]bool
	MouseButtons  map[MouseButton]bool
	MousePosition Vec2
	MouseDelta    Vec2
	HasMouseDelta bool
	CursorLocked  bool
	Controllers   map[ControllerID]*Controller
}

func NewState() State {
	return State{
		PressedKeys:  make(map[Key]bool),
		MouseButtons: make(map[MouseButton]bool),
		Controllers:  make(map[ControllerID]*Controller),
	}
}

func (s *State) KeyDown(key Key) {
	s.PressedKeys[key] = true
}

func (s *State) KeyUp(key Key) {
	delete(s.PressedKeys, key)
}

func (s *State) IsKeyPressed(key Key) bool {
	return s.PressedKeys[key]
}

func (s *State) MouseDown(button MouseButton) {
	s.MouseButtons[button] = true
}

func (s *State) MouseUp(button MouseButton) {
	delete(s.MouseButtons, button)
}

func (s *State) IsMouseButtonPressed(button MouseButton) bool {
	return s.MouseButtons[button]
}

// MoveMouse records the cursor position. While the cursor is locked the
// movement relative to center accumulates into the frame's delta, and the
// delta is returned; otherwise nothing is tracked.
func (s *State) MoveMouse(position, center Vec2) (Vec2, bool) {
	s.MousePosition = position
	if !s.CursorLocked {
		return Vec2{}, false
	}

	delta := Vec2{X: position.X - center.X, Y: position.Y - center.Y}
	s.MouseDelta.X += delta.X
	s.MouseDelta.Y += delta.Y
	s.HasMouseDelta = true
	return delta, true
}

// ToggleCursorLock flips the lock and returns the new state. Any pending
// delta is dropped.
func (s *State) ToggleCursorLock() bool {
	s.CursorLocked = !s.CursorLocked
	s.MouseDelta = Vec2{}
	s.HasMouseDelta = false
	return s.CursorLocked
}

// EndFrame clears the per-frame mouse delta.
func (s *State) EndFrame() {
	s.MouseDelta = Vec2{}
	s.HasMouseDelta = false
}

func (s *State) ConnectController(id ControllerID) {
	if _, ok := s.Controllers[id]; !ok {
		s.Controllers[id] = &Controller{Buttons: make(map[string]bool)}
	}
}

func (s *State) DisconnectController(id ControllerID) {
	delete(s.Controllers, id)
}

// MissingControllers returns the known controllers absent from connected,
// in ascending order.
func (s *State) MissingControllers(connected []ControllerID) []ControllerID {
	var missing []ControllerID
	for id := range s.Controllers {
		if !slices.Contains(connected, id) {
			missing = append(missing, id)
		}
	}
	slices.Sort(missing)
	return missing
}

func (s *State) ControllerButton(id ControllerID, button string, down bool) {
	s.ConnectController(id)
	if down {
		s.Controllers[id].Buttons[button] = true
	} else {
		delete(s.Controllers[id].Buttons, button)
	}
}

func (s *State) LeftStick(id ControllerID, x, y float64) {
	s.ConnectController(id)
	s.Controllers[id].LeftStick = Vec2{X: x, Y: y}
}

func (s *State) RightStick(id ControllerID, x, y float64) {
	s.ConnectController(id)
	s.Controllers[id].RightStick = Vec2{X: x, Y: y}
}
