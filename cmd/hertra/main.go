package main

import (
	"flag"
	"log"
	"os"
	"runtime"

	"github.com/andewx/hertra"
	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
	"github.com/xlab/closer"
	"golang.org/x/exp/slog"
)

func init() {
	// GLFW and the Vulkan surface must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	cfg := hertra.DefaultConfig()
	flag.IntVar(&cfg.Width, "width", cfg.Width, "initial window width")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "initial window height")
	flag.StringVar(&cfg.Title, "title", cfg.Title, "window title")
	flag.StringVar(&cfg.VertexShader, "vert", cfg.VertexShader, "vertex shader SPIR-V path")
	flag.StringVar(&cfg.FragmentShader, "frag", cfg.FragmentShader, "fragment shader SPIR-V path")
	flag.BoolVar(&cfg.Validation, "validation", cfg.Validation, "enable validation layers")
	flag.DurationVar(&cfg.FPSInterval, "fps-interval", cfg.FPSInterval, "how often to log FPS")
	debug := flag.Bool("debug", false, "log at debug level")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	hertra.SetLogger(hertra.NewLogger(os.Stderr, level))
	log.SetFlags(0)

	if session, ok := os.LookupEnv("XDG_SESSION_TYPE"); ok {
		hertra.Logger().Info("session type", slog.String("type", session))
	} else {
		hertra.Logger().Info("session type not set")
	}

	closer.Init(closer.Config{
		ExitCodeOK:  0,
		ExitCodeErr: 1,
		ExitSignals: closer.DefaultSignalSet,
	})

	done := make(chan struct{})
	err := run(cfg, done)
	close(done)
	if err != nil {
		closer.Fatalln("Error:", err)
	}
	closer.Close()
}

// run owns every GLFW and Vulkan call. Teardown happens here on the main
// thread before run returns, also when the loop was stopped by a signal.
func run(cfg hertra.Config, done <-chan struct{}) error {
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vk.Init(); err != nil {
		return err
	}

	core, err := hertra.NewBaseCore(cfg)
	if err != nil {
		return err
	}
	defer core.Destroy()
	closer.Bind(shutdownHook(core.Stop, done))

	return core.Run()
}

// shutdownHook is what closer runs on a signal, from its own goroutine.
// It only asks the loop to stop and then holds the exit until main has
// finished tearing down.
func shutdownHook(stop func(), done <-chan struct{}) func() {
	return func() {
		stop()
		<-done
	}
}
