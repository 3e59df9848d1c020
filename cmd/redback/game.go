package main

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/plus3/redback/debugui"
	"github.com/plus3/redback/input"
	"github.com/plus3/redback/orchestrator"
	"github.com/plus3/redback/render/ebitenrender"
)

// Game adapts the orchestrator to ebiten's game loop.
type Game struct {
	orch     *orchestrator.Orchestrator
	renderer *ebitenrender.Renderer
	window   *hostWindow
	backend  *debugui.ImguiBackend
	overlay  *debugui.Overlay

	lastCursor input.Vec2
	gamepads   []ebiten.GamepadID
	connected  []input.ControllerID
}

func (g *Game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())

	if g.backend != nil {
		g.backend.BeginFrame()
		g.overlay.Update(dt)
		g.backend.EndFrame()
	}

	g.pollKeyboard()
	g.pollMouse()
	g.pollGamepads()

	if err := g.orch.Update(dt); err != nil {
		if errors.Is(err, orchestrator.ErrTerminated) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.SetTarget(screen)
	g.orch.Render()
	g.renderer.SetTarget(nil)

	if g.backend != nil {
		g.backend.Draw(screen)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.backend != nil {
		g.backend.Layout(outsideWidth, outsideHeight)
	}
	g.window.width, g.window.height = outsideWidth, outsideHeight
	g.renderer.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

func (g *Game) wantsKeyboard() bool {
	return g.overlay != nil && g.overlay.WantsKeyboard()
}

func (g *Game) wantsMouse() bool {
	return g.overlay != nil && g.overlay.WantsMouse()
}

func (g *Game) pollKeyboard() {
	if !g.wantsKeyboard() {
		for _, key := range inpututil.AppendJustPressedKeys(nil) {
			g.orch.KeyDown(input.Key(key.String()))
		}
	}
	for _, key := range inpututil.AppendJustReleasedKeys(nil) {
		g.orch.KeyUp(input.Key(key.String()))
	}
}

var mouseButtons = map[ebiten.MouseButton]input.MouseButton{
	ebiten.MouseButtonLeft:   input.MouseLeft,
	ebiten.MouseButtonRight:  input.MouseRight,
	ebiten.MouseButtonMiddle: input.MouseMiddle,
}

func (g *Game) pollMouse() {
	for eb, button := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(eb) && !g.wantsMouse() {
			g.orch.MouseDown(button)
		}
		if inpututil.IsMouseButtonJustReleased(eb) {
			g.orch.MouseUp(button)
		}
	}

	x, y := g.window.cursor()
	pos := input.Vec2{X: x, Y: y}
	if pos != g.lastCursor && !g.wantsMouse() {
		g.orch.MouseMove(x, y)
	}
	g.lastCursor = pos
}

var gamepadButtons = map[ebiten.StandardGamepadButton]string{
	ebiten.StandardGamepadButtonRightBottom:   "south",
	ebiten.StandardGamepadButtonRightRight:    "east",
	ebiten.StandardGamepadButtonRightLeft:     "west",
	ebiten.StandardGamepadButtonRightTop:      "north",
	ebiten.StandardGamepadButtonFrontTopLeft:  "left_shoulder",
	ebiten.StandardGamepadButtonFrontTopRight: "right_shoulder",
	ebiten.StandardGamepadButtonCenterLeft:    "back",
	ebiten.StandardGamepadButtonCenterRight:   "start",
	ebiten.StandardGamepadButtonLeftTop:       "dpad_up",
	ebiten.StandardGamepadButtonLeftBottom:    "dpad_down",
	ebiten.StandardGamepadButtonLeftLeft:      "dpad_left",
	ebiten.StandardGamepadButtonLeftRight:     "dpad_right",
}

func (g *Game) pollGamepads() {
	for _, id := range inpututil.AppendJustConnectedGamepadIDs(nil) {
		g.orch.ControllerConnected(input.ControllerID(id))
	}

	g.gamepads = ebiten.AppendGamepadIDs(g.gamepads[:0])
	g.connected = g.connected[:0]
	for _, id := range g.gamepads {
		g.connected = append(g.connected, input.ControllerID(id))
	}
	for _, cid := range g.orch.Input().MissingControllers(g.connected) {
		g.orch.ControllerDisconnected(cid)
	}

	for _, id := range g.gamepads {
		cid := input.ControllerID(id)
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}

		for _, b := range inpututil.AppendJustPressedStandardGamepadButtons(id, nil) {
			if name, ok := gamepadButtons[b]; ok {
				g.orch.ControllerButtonDown(cid, name)
			}
		}
		for _, b := range inpututil.AppendJustReleasedStandardGamepadButtons(id, nil) {
			if name, ok := gamepadButtons[b]; ok {
				g.orch.ControllerButtonUp(cid, name)
			}
		}

		g.orch.LeftStick(cid,
			ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal),
			ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical))
		g.orch.RightStick(cid,
			ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickHorizontal),
			ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisRightStickVertical))
	}
}
