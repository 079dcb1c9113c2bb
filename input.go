package hertra

import "github.com/go-gl/glfw/v3.3/glfw"

// InputDevice answers keyboard and mouse queries for a window.
type InputDevice struct {
	window *glfw.Window
}

func NewInputDevice(display *CoreDisplay) *InputDevice {
	return &InputDevice{window: display.Handle()}
}

func (in *InputDevice) IsKeyPressed(key glfw.Key) bool {
	return in.window.GetKey(key) == glfw.Press
}

func (in *InputDevice) IsMouseButtonPressed(button glfw.MouseButton) bool {
	return in.window.GetMouseButton(button) == glfw.Press
}

func (in *InputDevice) MousePosition() (x, y float64) {
	return in.window.GetCursorPos()
}

// OnKeyPress calls fn whenever key goes down. It replaces any key callback
// registered before.
func (in *InputDevice) OnKeyPress(key glfw.Key, fn func()) {
	in.window.SetKeyCallback(func(_ *glfw.Window, k glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if k == key && action == glfw.Press {
			fn()
		}
	})
}
