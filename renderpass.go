package hertra

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// CoreRenderPass is the single-subpass render pass together with the
// framebuffers bound to the current chain images.
type CoreRenderPass struct {
	device       vk.Device
	renderPass   vk.RenderPass
	colorFormat  vk.Format
	depthFormat  vk.Format
	framebuffers []vk.Framebuffer
}

// NewCoreRenderPass creates the render pass with a color attachment and,
// unless depthFormat is vk.FormatUndefined, a depth attachment.
func NewCoreRenderPass(device vk.Device, colorFormat, depthFormat vk.Format) (*CoreRenderPass, error) {
	c := &CoreRenderPass{device: device, colorFormat: colorFormat, depthFormat: depthFormat}

	attachmentDescriptions := []vk.AttachmentDescription{{
		Format:         colorFormat,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}}
	colorReferences := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}

	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: 1,
		PColorAttachments:    colorReferences,
	}
	stages := vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit)
	access := vk.AccessFlags(vk.AccessColorAttachmentWriteBit)

	if c.HasDepth() {
		attachmentDescriptions = append(attachmentDescriptions, vk.AttachmentDescription{
			Format:         depthFormat,
			Samples:        vk.SampleCount1Bit,
			LoadOp:         vk.AttachmentLoadOpClear,
			StoreOp:        vk.AttachmentStoreOpDontCare,
			StencilLoadOp:  vk.AttachmentLoadOpDontCare,
			StencilStoreOp: vk.AttachmentStoreOpDontCare,
			InitialLayout:  vk.ImageLayoutUndefined,
			FinalLayout:    vk.ImageLayoutDepthStencilAttachmentOptimal,
		})
		subpass.PDepthStencilAttachment = &vk.AttachmentReference{
			Attachment: 1,
			Layout:     vk.ImageLayoutDepthStencilAttachmentOptimal,
		}
		stages |= vk.PipelineStageFlags(vk.PipelineStageEarlyFragmentTestsBit)
		access |= vk.AccessFlags(vk.AccessDepthStencilAttachmentWriteBit)
	}

	// Color writes wait until the acquired image is no longer read by the
	// presentation engine.
	dependencies := []vk.SubpassDependency{{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  stages,
		DstStageMask:  stages,
		SrcAccessMask: 0,
		DstAccessMask: access,
	}}

	ret := vk.CreateRenderPass(device, &vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachmentDescriptions)),
		PAttachments:    attachmentDescriptions,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: uint32(len(dependencies)),
		PDependencies:   dependencies,
	}, nil, &c.renderPass)
	if isError(ret) {
		return nil, setupError("render pass", NewError(ret))
	}
	return c, nil
}

func (c *CoreRenderPass) HasDepth() bool { return c.depthFormat != vk.FormatUndefined }

// CreateFramebuffers builds one framebuffer per view, each also binding the
// shared depth view when the pass has a depth attachment.
func (c *CoreRenderPass) CreateFramebuffers(views []vk.ImageView, depthView vk.ImageView, extent vk.Extent2D) error {
	c.DestroyFramebuffers()
	for i, view := range views {
		attachments := []vk.ImageView{view}
		if c.HasDepth() {
			attachments = append(attachments, depthView)
		}
		var fb vk.Framebuffer
		ret := vk.CreateFramebuffer(c.device, &vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      c.renderPass,
			AttachmentCount: uint32(len(attachments)),
			PAttachments:    attachments,
			Width:           extent.Width,
			Height:          extent.Height,
			Layers:          1,
		}, nil, &fb)
		if isError(ret) {
			c.DestroyFramebuffers()
			return setupError("framebuffers", errors.Wrapf(NewError(ret), "framebuffer %d", i))
		}
		c.framebuffers = append(c.framebuffers, fb)
	}
	return nil
}

func (c *CoreRenderPass) DestroyFramebuffers() {
	for _, fb := range c.framebuffers {
		vk.DestroyFramebuffer(c.device, fb, nil)
	}
	c.framebuffers = nil
}

func (c *CoreRenderPass) Handle() vk.RenderPass            { return c.renderPass }
func (c *CoreRenderPass) Framebuffer(i int) vk.Framebuffer { return c.framebuffers[i] }
func (c *CoreRenderPass) FramebufferCount() int            { return len(c.framebuffers) }

// Destroy releases the framebuffers and then the pass.
func (c *CoreRenderPass) Destroy() {
	c.DestroyFramebuffers()
	if c.renderPass != vk.NullRenderPass {
		vk.DestroyRenderPass(c.device, c.renderPass, nil)
		c.renderPass = vk.NullRenderPass
	}
}
