package debugui

import (
	"fmt"
	"maps"
	"slices"

	"github.com/AllenDang/cimgui-go/imgui"
)

// RenderRuntime draws the scene, script and input state of the runtime.
func RenderRuntime(runtime Runtime) {
	if !imgui.BeginV("Runtime", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}

	imgui.Text(fmt.Sprintf("State: %s", runtime.State()))
	imgui.Text(fmt.Sprintf("Scene: %q", runtime.SceneName()))

	if cameraType, ok := runtime.Cameras().ActiveType(runtime.World()); ok {
		imgui.Text(fmt.Sprintf("Active camera: %s", cameraType))
	} else {
		imgui.Text("Active camera: none")
	}

	imgui.Separator()
	bindings := runtime.Binder().Bindings()
	if imgui.TreeNodeStr(fmt.Sprintf("Scripts (%d)", len(bindings))) {
		for _, b := range bindings {
			imgui.BulletText(fmt.Sprintf("%s -> %s", b.Entity, b.Script))
		}
		imgui.TreePop()
	}

	in := runtime.Input()
	if imgui.TreeNodeStr("Input") {
		imgui.Text(fmt.Sprintf("Mouse: (%.0f, %.0f)", in.MousePosition.X, in.MousePosition.Y))
		imgui.Text(fmt.Sprintf("Cursor locked: %t", in.CursorLocked))

		keys := make([]string, 0, len(in.PressedKeys))
		for key, down := range in.PressedKeys {
			if down {
				keys = append(keys, string(key))
			}
		}
		slices.Sort(keys)
		imgui.Text(fmt.Sprintf("Keys: %v", keys))

		for _, id := range slices.Sorted(maps.Keys(in.Controllers)) {
			c := in.Controllers[id]
			imgui.BulletText(fmt.Sprintf("controller %d: left (%.2f, %.2f) right (%.2f, %.2f)",
				id, c.LeftStick.X, c.LeftStick.Y, c.RightStick.X, c.RightStick.Y))
		}
		imgui.TreePop()
	}

	imgui.End()
}
