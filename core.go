package hertra

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"golang.org/x/exp/slog"
)

// BaseCore is the application root: the window, the renderer driving it
// and the loop that keeps both going. GLFW must be initialized before
// NewBaseCore and every method must be called from the main thread.
type BaseCore struct {
	cfg Config

	display   *CoreDisplay
	input     *InputDevice
	timer     *Timer
	renderer  *CoreRenderInstance
	scheduler *FrameScheduler

	stop        atomic.Bool
	destroyOnce sync.Once
}

func NewBaseCore(cfg Config) (*BaseCore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, setupError("config", err)
	}
	display, err := NewCoreDisplay(cfg)
	if err != nil {
		return nil, err
	}
	core := &BaseCore{
		cfg:     cfg,
		display: display,
		input:   NewInputDevice(display),
		timer:   NewTimer(),
	}
	core.input.OnKeyPress(glfw.KeyEscape, core.Stop)

	core.renderer, err = NewCoreRenderInstance(cfg, display, core.timer)
	if err != nil {
		display.Destroy()
		return nil, err
	}
	core.scheduler = NewFrameScheduler(core.renderer)
	return core, nil
}

// Run draws frames until the window is closed, Stop is called or a frame
// fails. The close request and the stop flag are checked once per frame.
func (base *BaseCore) Run() error {
	var state LoopState
	base.timer.Start()
	defer base.timer.Stop()

	for !base.display.ShouldClose() && !base.stop.Load() {
		base.display.PollEvents()
		if err := base.scheduler.DrawFrame(&state); err != nil {
			return err
		}
		if state.ReportFPS(time.Now(), base.cfg.FPSInterval) {
			Logger().Info("FPS", slog.Float64("fps", state.FPS), slog.Uint64("frames", state.FrameCounter))
		}
	}
	Logger().Info("render loop finished", slog.Uint64("frames", state.FrameCounter),
		slog.Int("rebuilds", base.scheduler.Rebuilds()))
	return nil
}

// Stop asks the loop to exit after the current frame. It may be called from
// any goroutine.
func (base *BaseCore) Stop() {
	base.stop.Store(true)
}

func (base *BaseCore) Input() *InputDevice           { return base.input }
func (base *BaseCore) Renderer() *CoreRenderInstance { return base.renderer }

// Destroy tears down the renderer and then the window. Only the first call
// does anything.
func (base *BaseCore) Destroy() {
	base.destroyOnce.Do(func() {
		if base.renderer != nil {
			base.renderer.Destroy()
		}
		if base.display != nil {
			base.display.Destroy()
		}
	})
}
