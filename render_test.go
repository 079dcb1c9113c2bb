package hertra

import (
	"os"
	"runtime"
	"strings"
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	vk "github.com/vulkan-go/vulkan"
)

// TestRender opens a window and draws on a real GPU. It needs a display,
// a Vulkan driver and compiled shaders, so it only runs when
// HERTRA_GPU_TEST=1.
func TestRender(t *testing.T) {
	if os.Getenv("HERTRA_GPU_TEST") != "1" {
		t.Skip("set HERTRA_GPU_TEST=1 to render on a GPU")
	}
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 500, 500
	for _, path := range []string{cfg.VertexShader, cfg.FragmentShader} {
		if _, err := os.Stat(path); err != nil {
			t.Skipf("shader %s not built, run go generate ./shaders", path)
		}
	}

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if err := glfw.Init(); err != nil {
		t.Fatal(err)
	}
	defer glfw.Terminate()
	vk.SetGetInstanceProcAddr(glfw.GetVulkanGetInstanceProcAddress())
	if err := vk.Init(); err != nil {
		t.Fatalf("Unable to initialize Vulkan: %v", err)
	}

	core, err := NewBaseCore(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer core.Destroy()

	want := "pipeline,shaders,descriptors,mesh buffers,uniform buffers,framebuffers,depth,swapchain," +
		"command buffers,frame sync,command pool,render pass,device,surface,instance"
	if have := strings.Join(core.Renderer().Lifecycle().Names(), ","); have != want {
		t.Errorf("have teardown order %s, want %s", have, want)
	}

	var state LoopState
	for i := 0; i < 120 && !core.display.ShouldClose(); i++ {
		core.display.PollEvents()
		if err := core.scheduler.DrawFrame(&state); err != nil {
			t.Fatal(err)
		}
	}
	if state.FrameCounter == 0 {
		t.Error("no frame was presented")
	}

	// A forced rebuild keeps the chain consistent.
	if err := core.Renderer().Rebuild(); err != nil {
		t.Fatal(err)
	}
	core.scheduler.resetImages()
	if err := core.scheduler.DrawFrame(&state); err != nil {
		t.Fatal(err)
	}
}
