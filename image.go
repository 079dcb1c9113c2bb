package hertra

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// depthFormatCandidates are tried in order; the first usable one wins.
var depthFormatCandidates = []vk.Format{
	vk.FormatD32Sfloat,
	vk.FormatD32SfloatS8Uint,
	vk.FormatD24UnormS8Uint,
}

// findSupportedFormat returns the first candidate whose tiling features
// include every bit in features. query reports the platform's format
// properties.
func findSupportedFormat(candidates []vk.Format, tiling vk.ImageTiling, features vk.FormatFeatureFlags,
	query func(vk.Format) vk.FormatProperties) (vk.Format, error) {

	for _, format := range candidates {
		props := query(format)
		var supported vk.FormatFeatureFlags
		switch tiling {
		case vk.ImageTilingLinear:
			supported = props.LinearTilingFeatures
		case vk.ImageTilingOptimal:
			supported = props.OptimalTilingFeatures
		}
		if supported&features == features {
			return format, nil
		}
	}
	return vk.FormatUndefined, ErrNoSupportedDepthFormat
}

// FindDepthFormat picks a depth format usable as an optimally tiled
// depth/stencil attachment on gpu.
func FindDepthFormat(gpu vk.PhysicalDevice) (vk.Format, error) {
	return findSupportedFormat(depthFormatCandidates, vk.ImageTilingOptimal,
		vk.FormatFeatureFlags(vk.FormatFeatureDepthStencilAttachmentBit),
		func(format vk.Format) vk.FormatProperties {
			var props vk.FormatProperties
			vk.GetPhysicalDeviceFormatProperties(gpu, format, &props)
			props.Deref()
			return props
		})
}

func hasStencilComponent(format vk.Format) bool {
	return format == vk.FormatD32SfloatS8Uint || format == vk.FormatD24UnormS8Uint
}

// imageConfig names what varies between the images this renderer creates.
// Everything else is a single-sampled, single-mip, optimally tiled 2D image.
type imageConfig struct {
	format vk.Format
	usage  vk.ImageUsageFlagBits
	extent vk.Extent2D
	aspect vk.ImageAspectFlagBits
}

// CoreImage is a device-local image with its memory and one view.
type CoreImage struct {
	device vk.Device
	image  vk.Image
	memory vk.DeviceMemory
	view   vk.ImageView
	format vk.Format
	extent vk.Extent2D
}

// NewCoreImage creates, allocates, binds and views an image. On failure
// nothing is left allocated.
func NewCoreImage(device *CoreDevice, cfg imageConfig) (*CoreImage, error) {
	img := &CoreImage{device: device.handle, format: cfg.format, extent: cfg.extent}

	ret := vk.CreateImage(device.handle, &vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		ImageType: vk.ImageType2d,
		Format:    cfg.format,
		Extent: vk.Extent3D{
			Width:  cfg.extent.Width,
			Height: cfg.extent.Height,
			Depth:  1,
		},
		MipLevels:     1,
		ArrayLayers:   1,
		Samples:       vk.SampleCount1Bit,
		Tiling:        vk.ImageTilingOptimal,
		Usage:         vk.ImageUsageFlags(cfg.usage),
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}, nil, &img.image)
	if isError(ret) {
		return nil, errors.Wrap(NewError(ret), "create image")
	}

	var req vk.MemoryRequirements
	vk.GetImageMemoryRequirements(device.handle, img.image, &req)
	req.Deref()

	memType, err := FindRequiredMemoryType(device.memoryProperties, req.MemoryTypeBits,
		vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit))
	if err != nil {
		img.Destroy()
		return nil, err
	}
	ret = vk.AllocateMemory(device.handle, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: memType,
	}, nil, &img.memory)
	if isError(ret) {
		img.Destroy()
		return nil, errors.Wrap(NewError(ret), "allocate image memory")
	}
	if ret = vk.BindImageMemory(device.handle, img.image, img.memory, 0); isError(ret) {
		img.Destroy()
		return nil, errors.Wrap(NewError(ret), "bind image memory")
	}

	img.view, err = createImageView(device.handle, img.image, cfg.format, cfg.aspect)
	if err != nil {
		img.Destroy()
		return nil, err
	}
	return img, nil
}

// NewDepthResource creates the depth attachment for extent.
func NewDepthResource(device *CoreDevice, format vk.Format, extent vk.Extent2D) (*CoreImage, error) {
	img, err := NewCoreImage(device, imageConfig{
		format: format,
		usage:  vk.ImageUsageDepthStencilAttachmentBit,
		extent: extent,
		aspect: vk.ImageAspectDepthBit,
	})
	if err != nil {
		return nil, setupError("depth resource", err)
	}
	return img, nil
}

// Destroy releases view, image and memory in that order. Safe to call
// repeatedly and on a nil image.
func (img *CoreImage) Destroy() {
	if img == nil || img.device == nil {
		return
	}
	if img.view != vk.NullImageView {
		vk.DestroyImageView(img.device, img.view, nil)
		img.view = vk.NullImageView
	}
	if img.image != vk.NullImage {
		vk.DestroyImage(img.device, img.image, nil)
		img.image = vk.NullImage
	}
	if img.memory != vk.NullDeviceMemory {
		vk.FreeMemory(img.device, img.memory, nil)
		img.memory = vk.NullDeviceMemory
	}
}

func (img *CoreImage) View() vk.ImageView { return img.view }
func (img *CoreImage) Format() vk.Format  { return img.format }

func createImageView(device vk.Device, image vk.Image, format vk.Format, aspect vk.ImageAspectFlagBits) (vk.ImageView, error) {
	var view vk.ImageView
	ret := vk.CreateImageView(device, &vk.ImageViewCreateInfo{
		SType:    vk.StructureTypeImageViewCreateInfo,
		Image:    image,
		ViewType: vk.ImageViewType2d,
		Format:   format,
		Components: vk.ComponentMapping{
			R: vk.ComponentSwizzleIdentity,
			G: vk.ComponentSwizzleIdentity,
			B: vk.ComponentSwizzleIdentity,
			A: vk.ComponentSwizzleIdentity,
		},
		SubresourceRange: vk.ImageSubresourceRange{
			AspectMask: vk.ImageAspectFlags(aspect),
			LevelCount: 1,
			LayerCount: 1,
		},
	}, nil, &view)
	if isError(ret) {
		return vk.NullImageView, errors.Wrap(NewError(ret), "create image view")
	}
	return view, nil
}
