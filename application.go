package hertra

import (
	"time"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
	lin "github.com/xlab/linmath"
)

// MaxFramesInFlight is the number of frame slots cycled by the scheduler.
const MaxFramesInFlight = 2

var (
	DefaultAppVersion = vk.MakeVersion(1, 0, 0)
	DefaultAPIVersion = vk.MakeVersion(1, 0, 0)
)

// Config holds everything the application varies. Zero fields are not
// filled in; start from DefaultConfig.
type Config struct {
	AppName   string
	Title     string
	Width     int
	Height    int
	Resizable bool

	VertexShader   string
	FragmentShader string

	// Validation enables the wanted layers and the debug report callback.
	Validation       bool
	ValidationLayers []string
	DeviceExtensions []string

	ClearColor    [4]float32
	Eye           lin.Vec3
	LightPosition lin.Vec3
	LightColor    lin.Vec3
	// RotationSpeed is in degrees per second around +Z.
	RotationSpeed float32
	FPSInterval   time.Duration
}

func DefaultConfig() Config {
	return Config{
		AppName:          "Hertra",
		Title:            "Hertra Framework",
		Width:            800,
		Height:           600,
		Resizable:        true,
		VertexShader:     "shaders/vert.spv",
		FragmentShader:   "shaders/frag.spv",
		ValidationLayers: []string{"VK_LAYER_KHRONOS_validation"},
		DeviceExtensions: []string{"VK_KHR_swapchain"},
		ClearColor:       [4]float32{0, 0, 0, 1},
		Eye:              lin.Vec3{2, 2, 2},
		LightPosition:    lin.Vec3{2, 2, 2},
		LightColor:       lin.Vec3{1, 1, 1},
		RotationSpeed:    90,
		FPSInterval:      time.Second,
	}
}

func (c Config) Validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return errors.Errorf("config: invalid window size %dx%d", c.Width, c.Height)
	}
	if c.VertexShader == "" || c.FragmentShader == "" {
		return errors.New("config: shader paths are required")
	}
	if len(c.DeviceExtensions) == 0 {
		return errors.New("config: at least the swapchain device extension is required")
	}
	if c.FPSInterval <= 0 {
		return errors.Errorf("config: invalid FPS interval %v", c.FPSInterval)
	}
	return nil
}
