package main

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// hostWindow implements orchestrator.Window. Ebiten cannot move the OS
// cursor, so SetCursorPosition shifts the origin of the reported position
// instead. A locked cursor is captured, which keeps reporting movement.
type hostWindow struct {
	width, height int
	originX       int
	originY       int
}

func (w *hostWindow) Size() (int, int) {
	return w.width, w.height
}

func (w *hostWindow) SetCursorVisible(visible bool) {
	mode := ebiten.CursorModeCaptured
	if visible {
		mode = ebiten.CursorModeVisible
	}
	if ebiten.CursorMode() != mode {
		ebiten.SetCursorMode(mode)
	}
	if visible {
		w.originX, w.originY = 0, 0
	}
}

func (w *hostWindow) SetCursorPosition(x, y int) {
	rawX, rawY := ebiten.CursorPosition()
	w.originX, w.originY = rawX-x, rawY-y
}

// cursor returns the cursor position relative to the current origin.
func (w *hostWindow) cursor() (float64, float64) {
	x, y := ebiten.CursorPosition()
	return float64(x - w.originX), float64(y - w.originY)
}
