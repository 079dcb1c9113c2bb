package hertra

import (
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slog"
)

// Window is what the renderer needs from the windowing system.
type Window interface {
	SurfaceSource
	RequiredInstanceExtensions() []string
	FramebufferSize() (int, int)
	WaitEvents()
	PollEvents()
	ShouldClose() bool
}

// CoreDisplay is a GLFW window without a client API, ready for a Vulkan
// surface. GLFW must be initialized and calls must come from the main
// thread.
type CoreDisplay struct {
	window *glfw.Window
	// onResize is called from the framebuffer size callback.
	onResize func(width, height int)
}

func NewCoreDisplay(cfg Config) (*CoreDisplay, error) {
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	if cfg.Resizable {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}
	window, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, setupError("window", errors.Wrap(err, "create window"))
	}
	d := &CoreDisplay{window: window}
	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		Logger().Info("window resized", slog.Int("width", width), slog.Int("height", height))
		if d.onResize != nil {
			d.onResize(width, height)
		}
	})
	Logger().Info("window created", slog.String("title", cfg.Title),
		slog.Int("width", cfg.Width), slog.Int("height", cfg.Height))
	return d, nil
}

// SetResizeHandler installs a hook for framebuffer size changes. The
// renderer does not need it; stale chains are reported by presentation.
func (d *CoreDisplay) SetResizeHandler(fn func(width, height int)) { d.onResize = fn }

func (d *CoreDisplay) CreateSurface(instance vk.Instance) (vk.Surface, error) {
	ptr, err := d.window.CreateWindowSurface(instance, nil)
	if err != nil {
		return vk.NullSurface, errors.Wrap(err, "create window surface")
	}
	return vk.SurfaceFromPointer(ptr), nil
}

func (d *CoreDisplay) RequiredInstanceExtensions() []string {
	return d.window.GetRequiredInstanceExtensions()
}

func (d *CoreDisplay) FramebufferSize() (int, int) { return d.window.GetFramebufferSize() }
func (d *CoreDisplay) ShouldClose() bool           { return d.window.ShouldClose() }
func (d *CoreDisplay) PollEvents()                 { glfw.PollEvents() }
func (d *CoreDisplay) WaitEvents()                 { glfw.WaitEvents() }
func (d *CoreDisplay) Handle() *glfw.Window        { return d.window }

func (d *CoreDisplay) Destroy() {
	if d.window != nil {
		d.window.Destroy()
		d.window = nil
	}
}
