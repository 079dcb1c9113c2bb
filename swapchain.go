package hertra

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slog"
)

// SwapchainSupport is what a surface offers on a given physical device.
type SwapchainSupport struct {
	Capabilities vk.SurfaceCapabilities
	Formats      []vk.SurfaceFormat
	PresentModes []vk.PresentMode
}

func QuerySwapchainSupport(gpu vk.PhysicalDevice, surface vk.Surface) (support SwapchainSupport, err error) {
	ret := vk.GetPhysicalDeviceSurfaceCapabilities(gpu, surface, &support.Capabilities)
	if isError(ret) {
		return support, NewError(ret)
	}
	support.Capabilities.Deref()
	support.Capabilities.CurrentExtent.Deref()
	support.Capabilities.MinImageExtent.Deref()
	support.Capabilities.MaxImageExtent.Deref()

	var formatCount uint32
	vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &formatCount, nil)
	if formatCount > 0 {
		support.Formats = make([]vk.SurfaceFormat, formatCount)
		vk.GetPhysicalDeviceSurfaceFormats(gpu, surface, &formatCount, support.Formats)
		for i := range support.Formats {
			support.Formats[i].Deref()
		}
	}

	var modeCount uint32
	vk.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &modeCount, nil)
	if modeCount > 0 {
		support.PresentModes = make([]vk.PresentMode, modeCount)
		vk.GetPhysicalDeviceSurfacePresentModes(gpu, surface, &modeCount, support.PresentModes)
	}
	return support, nil
}

// chooseSurfaceFormat prefers 8-bit BGRA sRGB with a non-linear color
// space and otherwise takes the first reported format.
func chooseSurfaceFormat(formats []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, f := range formats {
		if f.Format == vk.FormatB8g8r8a8Srgb && f.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return f
		}
	}
	return formats[0]
}

// choosePresentMode prefers mailbox; FIFO is always available.
func choosePresentMode(modes []vk.PresentMode) vk.PresentMode {
	for _, mode := range modes {
		if mode == vk.PresentModeMailbox {
			return mode
		}
	}
	return vk.PresentModeFifo
}

// chooseExtent uses the surface's current extent unless the surface leaves
// it to the application, in which case the framebuffer size is clamped.
func chooseExtent(caps vk.SurfaceCapabilities, width, height int) vk.Extent2D {
	if caps.CurrentExtent.Width != vk.MaxUint32 {
		return caps.CurrentExtent
	}
	return vk.Extent2D{
		Width:  clampUint32(uint32(width), caps.MinImageExtent.Width, caps.MaxImageExtent.Width),
		Height: clampUint32(uint32(height), caps.MinImageExtent.Height, caps.MaxImageExtent.Height),
	}
}

// chooseImageCount asks for one image above the minimum. A maximum of 0
// means no limit.
func chooseImageCount(caps vk.SurfaceCapabilities) uint32 {
	count := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && count > caps.MaxImageCount {
		count = caps.MaxImageCount
	}
	return count
}

// chooseSharing shares images concurrently when graphics and present live
// in different families.
func chooseSharing(indices QueueFamilyIndices) (vk.SharingMode, []uint32) {
	if indices.Graphics != indices.Present {
		return vk.SharingModeConcurrent, []uint32{indices.Graphics, indices.Present}
	}
	return vk.SharingModeExclusive, nil
}

func chooseCompositeAlpha(caps vk.SurfaceCapabilities) vk.CompositeAlphaFlagBits {
	for _, bit := range []vk.CompositeAlphaFlagBits{
		vk.CompositeAlphaOpaqueBit,
		vk.CompositeAlphaPreMultipliedBit,
		vk.CompositeAlphaPostMultipliedBit,
		vk.CompositeAlphaInheritBit,
	} {
		if caps.SupportedCompositeAlpha&vk.CompositeAlphaFlags(bit) != 0 {
			return bit
		}
	}
	return vk.CompositeAlphaOpaqueBit
}

// swapchainConfig names the fields that vary between builds.
type swapchainConfig struct {
	format      vk.SurfaceFormat
	presentMode vk.PresentMode
	extent      vk.Extent2D
	imageCount  uint32
	sharing     vk.SharingMode
	families    []uint32
	transform   vk.SurfaceTransformFlagBits
	alpha       vk.CompositeAlphaFlagBits
}

func newSwapchainConfig(support SwapchainSupport, indices QueueFamilyIndices, width, height int) swapchainConfig {
	cfg := swapchainConfig{
		format:      chooseSurfaceFormat(support.Formats),
		presentMode: choosePresentMode(support.PresentModes),
		extent:      chooseExtent(support.Capabilities, width, height),
		imageCount:  chooseImageCount(support.Capabilities),
		transform:   support.Capabilities.CurrentTransform,
		alpha:       chooseCompositeAlpha(support.Capabilities),
	}
	cfg.sharing, cfg.families = chooseSharing(indices)
	return cfg
}

// framebufferSource is the part of the window the chain needs while
// waiting out a minimized window.
type framebufferSource interface {
	FramebufferSize() (int, int)
	WaitEvents()
}

// waitForFramebuffer blocks on window events while the framebuffer has a
// zero dimension.
func waitForFramebuffer(w framebufferSource) (int, int) {
	width, height := w.FramebufferSize()
	for width == 0 || height == 0 {
		w.WaitEvents()
		width, height = w.FramebufferSize()
	}
	return width, height
}

// CoreSwapchain is the presentation chain: the swapchain, its images (owned
// by the platform) and one view per image.
type CoreSwapchain struct {
	device  *CoreDevice
	surface vk.Surface

	handle vk.Swapchain
	format vk.SurfaceFormat
	extent vk.Extent2D
	images []vk.Image
	views  []vk.ImageView
}

// NewCoreSwapchain builds a chain for the given framebuffer size.
func NewCoreSwapchain(device *CoreDevice, surface vk.Surface, width, height int) (*CoreSwapchain, error) {
	s := &CoreSwapchain{device: device, surface: surface}
	if err := s.build(width, height); err != nil {
		s.Destroy()
		return nil, err
	}
	return s, nil
}

func (s *CoreSwapchain) build(width, height int) error {
	support, err := QuerySwapchainSupport(s.device.gpu, s.surface)
	if err != nil {
		return setupError("swapchain support", err)
	}
	if len(support.Formats) == 0 || len(support.PresentModes) == 0 {
		return setupError("swapchain", errors.Wrap(ErrSwapchainCreationFailed, "surface reports no formats or present modes"))
	}
	cfg := newSwapchainConfig(support, s.device.queues.Indices(), width, height)

	var swapchain vk.Swapchain
	ret := vk.CreateSwapchain(s.device.handle, &vk.SwapchainCreateInfo{
		SType:                 vk.StructureTypeSwapchainCreateInfo,
		Surface:               s.surface,
		MinImageCount:         cfg.imageCount,
		ImageFormat:           cfg.format.Format,
		ImageColorSpace:       cfg.format.ColorSpace,
		ImageExtent:           cfg.extent,
		ImageArrayLayers:      1,
		ImageUsage:            vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode:      cfg.sharing,
		QueueFamilyIndexCount: uint32(len(cfg.families)),
		PQueueFamilyIndices:   cfg.families,
		PreTransform:          cfg.transform,
		CompositeAlpha:        cfg.alpha,
		PresentMode:           cfg.presentMode,
		Clipped:               vk.True,
		OldSwapchain:          vk.NullSwapchain,
	}, nil, &swapchain)
	if isError(ret) {
		return setupError("swapchain", errors.Wrap(ErrSwapchainCreationFailed, NewError(ret).Error()))
	}
	s.handle = swapchain
	s.format = cfg.format
	s.extent = cfg.extent

	var imageCount uint32
	ret = vk.GetSwapchainImages(s.device.handle, s.handle, &imageCount, nil)
	if isError(ret) {
		return setupError("swapchain images", NewError(ret))
	}
	s.images = make([]vk.Image, imageCount)
	ret = vk.GetSwapchainImages(s.device.handle, s.handle, &imageCount, s.images)
	if isError(ret) {
		return setupError("swapchain images", NewError(ret))
	}

	s.views = make([]vk.ImageView, 0, len(s.images))
	for _, image := range s.images {
		view, err := createImageView(s.device.handle, image, s.format.Format, vk.ImageAspectColorBit)
		if err != nil {
			return setupError("swapchain image view", err)
		}
		s.views = append(s.views, view)
	}

	Logger().Info("swapchain built",
		slog.Int("images", len(s.images)),
		slog.Int("width", int(s.extent.Width)),
		slog.Int("height", int(s.extent.Height)),
		slog.Int("presentMode", int(cfg.presentMode)))
	return nil
}

// Recreate destroys the views and the chain and builds them again. The
// caller must have drained the device first.
func (s *CoreSwapchain) Recreate(width, height int) error {
	s.Destroy()
	return s.build(width, height)
}

// Destroy releases the views, then the chain. Safe to call repeatedly.
func (s *CoreSwapchain) Destroy() {
	for i := range s.views {
		if s.views[i] != vk.NullImageView {
			vk.DestroyImageView(s.device.handle, s.views[i], nil)
		}
	}
	s.views = nil
	s.images = nil
	if s.handle != vk.NullSwapchain {
		vk.DestroySwapchain(s.device.handle, s.handle, nil)
		s.handle = vk.NullSwapchain
	}
}

func (s *CoreSwapchain) Handle() vk.Swapchain  { return s.handle }
func (s *CoreSwapchain) Format() vk.Format     { return s.format.Format }
func (s *CoreSwapchain) Extent() vk.Extent2D   { return s.extent }
func (s *CoreSwapchain) Views() []vk.ImageView { return s.views }
func (s *CoreSwapchain) ImageCount() int       { return len(s.images) }
