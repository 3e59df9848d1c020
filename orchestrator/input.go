package orchestrator

import (
	"github.com/plus3/redback/input"
)

// Input handlers are called by the host between frames.

func (o *Orchestrator) KeyDown(key input.Key) {
	o.input.Get().KeyDown(key)

	switch key {
	case input.KeyEscape:
		o.commands.Quit()
	case input.KeyF1:
		o.toggleCursorLock()
	}
}

func (o *Orchestrator) KeyUp(key input.Key) {
	o.input.Get().KeyUp(key)
}

func (o *Orchestrator) MouseDown(button input.MouseButton) {
	o.input.Get().MouseDown(button)
}

func (o *Orchestrator) MouseUp(button input.MouseButton) {
	o.input.Get().MouseUp(button)
}

// MouseMove records the cursor position. While the cursor is locked the
// movement turns the active camera and the cursor is put back in the
// middle of the window.
func (o *Orchestrator) MouseMove(x, y float64) {
	in := o.input.Get()
	center := o.center()

	delta, tracked := in.MoveMouse(input.Vec2{X: x, Y: y}, center)
	if !tracked {
		return
	}

	o.cameras.TrackMouseDelta(o.storage, in, delta.X, delta.Y)
	if o.window != nil {
		o.window.SetCursorPosition(int(center.X), int(center.Y))
	}
}

func (o *Orchestrator) toggleCursorLock() {
	locked := o.input.Get().ToggleCursorLock()
	o.logger.Printf("cursor lock %t", locked)
	if o.window == nil {
		return
	}

	o.window.SetCursorVisible(!locked)
	if locked {
		center := o.center()
		o.window.SetCursorPosition(int(center.X), int(center.Y))
	}
}

func (o *Orchestrator) center() input.Vec2 {
	var width, height int
	if o.window != nil {
		width, height = o.window.Size()
	} else {
		width, height = o.renderer.Viewport()
	}
	return input.Vec2{X: float64(width / 2), Y: float64(height / 2)}
}

func (o *Orchestrator) ControllerConnected(id input.ControllerID) {
	o.input.Get().ConnectController(id)
	o.logger.Printf("controller %d connected", id)
}

func (o *Orchestrator) ControllerDisconnected(id input.ControllerID) {
	o.input.Get().DisconnectController(id)
	o.logger.Printf("controller %d disconnected", id)
}

func (o *Orchestrator) ControllerButtonDown(id input.ControllerID, button string) {
	o.input.Get().ControllerButton(id, button, true)
}

func (o *Orchestrator) ControllerButtonUp(id input.ControllerID, button string) {
	o.input.Get().ControllerButton(id, button, false)
}

func (o *Orchestrator) LeftStick(id input.ControllerID, x, y float64) {
	o.input.Get().LeftStick(id, x, y)
}

func (o *Orchestrator) RightStick(id input.ControllerID, x, y float64) {
	o.input.Get().RightStick(id, x, y)
}
