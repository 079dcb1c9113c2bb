package hertra

import (
	"testing"

	vk "github.com/vulkan-go/vulkan"
)

func TestChooseSurfaceFormat(t *testing.T) {
	srgb := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Srgb, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	unorm := vk.SurfaceFormat{Format: vk.FormatB8g8r8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}
	rgba := vk.SurfaceFormat{Format: vk.FormatR8g8b8a8Unorm, ColorSpace: vk.ColorSpaceSrgbNonlinear}

	tests := []struct {
		name    string
		formats []vk.SurfaceFormat
		want    vk.SurfaceFormat
	}{
		{"preferred later", []vk.SurfaceFormat{unorm, srgb}, srgb},
		{"fallback first", []vk.SurfaceFormat{rgba, unorm}, rgba},
		{"single", []vk.SurfaceFormat{unorm}, unorm},
	}
	for _, tt := range tests {
		have := chooseSurfaceFormat(tt.formats)
		if have.Format != tt.want.Format || have.ColorSpace != tt.want.ColorSpace {
			t.Errorf("%s: have %v, want %v", tt.name, have.Format, tt.want.Format)
		}
	}
}

func TestChoosePresentMode(t *testing.T) {
	tests := []struct {
		modes []vk.PresentMode
		want  vk.PresentMode
	}{
		{[]vk.PresentMode{vk.PresentModeFifo, vk.PresentModeMailbox}, vk.PresentModeMailbox},
		{[]vk.PresentMode{vk.PresentModeImmediate, vk.PresentModeFifo}, vk.PresentModeFifo},
		{nil, vk.PresentModeFifo},
	}
	for _, tt := range tests {
		if have := choosePresentMode(tt.modes); have != tt.want {
			t.Errorf("%v: have %v, want %v", tt.modes, have, tt.want)
		}
	}
}

func TestChooseExtentFixed(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: 1024, Height: 768},
		MinImageExtent: vk.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: vk.Extent2D{Width: 4096, Height: 4096},
	}
	have := chooseExtent(caps, 10, 10)
	if have.Width != 1024 || have.Height != 768 {
		t.Errorf("have %dx%d, want 1024x768", have.Width, have.Height)
	}
}

func TestChooseExtentClamped(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		CurrentExtent:  vk.Extent2D{Width: vk.MaxUint32, Height: vk.MaxUint32},
		MinImageExtent: vk.Extent2D{Width: 100, Height: 50},
		MaxImageExtent: vk.Extent2D{Width: 1920, Height: 1080},
	}
	tests := []struct {
		width, height int
		want          vk.Extent2D
	}{
		{800, 600, vk.Extent2D{Width: 800, Height: 600}},
		{10, 10, vk.Extent2D{Width: 100, Height: 50}},
		{4000, 3000, vk.Extent2D{Width: 1920, Height: 1080}},
	}
	for _, tt := range tests {
		have := chooseExtent(caps, tt.width, tt.height)
		if have.Width != tt.want.Width || have.Height != tt.want.Height {
			t.Errorf("%dx%d: have %dx%d, want %dx%d", tt.width, tt.height,
				have.Width, have.Height, tt.want.Width, tt.want.Height)
		}
		if have.Width < caps.MinImageExtent.Width || have.Width > caps.MaxImageExtent.Width ||
			have.Height < caps.MinImageExtent.Height || have.Height > caps.MaxImageExtent.Height {
			t.Errorf("%dx%d: extent %dx%d out of bounds", tt.width, tt.height, have.Width, have.Height)
		}
	}
}

func TestChooseImageCount(t *testing.T) {
	tests := []struct {
		min, max, want uint32
	}{
		{2, 8, 3},
		{2, 0, 3},
		{3, 3, 3},
		{1, 2, 2},
	}
	for _, tt := range tests {
		caps := vk.SurfaceCapabilities{MinImageCount: tt.min, MaxImageCount: tt.max}
		if have := chooseImageCount(caps); have != tt.want {
			t.Errorf("min %d max %d: have %d, want %d", tt.min, tt.max, have, tt.want)
		}
	}
}

func TestChooseSharing(t *testing.T) {
	mode, families := chooseSharing(QueueFamilyIndices{Graphics: 1, Present: 1})
	if mode != vk.SharingModeExclusive || families != nil {
		t.Errorf("shared family: have %v %v, want exclusive", mode, families)
	}
	mode, families = chooseSharing(QueueFamilyIndices{Graphics: 0, Present: 2})
	if mode != vk.SharingModeConcurrent || len(families) != 2 || families[0] != 0 || families[1] != 2 {
		t.Errorf("split families: have %v %v, want concurrent [0 2]", mode, families)
	}
}

func TestChooseCompositeAlpha(t *testing.T) {
	caps := vk.SurfaceCapabilities{
		SupportedCompositeAlpha: vk.CompositeAlphaFlags(vk.CompositeAlphaInheritBit),
	}
	if have, want := chooseCompositeAlpha(caps), vk.CompositeAlphaInheritBit; have != want {
		t.Errorf("have %v, want %v", have, want)
	}
}

// minimizedWindow reports a zero-sized framebuffer until it has been
// waited on a few times.
type minimizedWindow struct {
	waitsLeft int
	waits     int
}

func (w *minimizedWindow) FramebufferSize() (int, int) {
	if w.waitsLeft > 0 {
		return 0, 600
	}
	return 800, 600
}

func (w *minimizedWindow) WaitEvents() {
	w.waits++
	w.waitsLeft--
}

func TestWaitForFramebuffer(t *testing.T) {
	w := &minimizedWindow{waitsLeft: 3}
	width, height := waitForFramebuffer(w)
	if width != 800 || height != 600 {
		t.Errorf("have %dx%d, want 800x600", width, height)
	}
	if have, want := w.waits, 3; have != want {
		t.Errorf("have %d waits, want %d", have, want)
	}

	w = &minimizedWindow{}
	waitForFramebuffer(w)
	if w.waits != 0 {
		t.Errorf("visible window: have %d waits, want 0", w.waits)
	}
}
