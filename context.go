package hertra

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// The methods in this file are the Vulkan side of the frame protocol run by
// FrameScheduler.

func (r *CoreRenderInstance) imageCount() int { return r.swapchain.ImageCount() }

func (r *CoreRenderInstance) waitSlot(slot int) error { return r.sync.Wait(slot) }

func (r *CoreRenderInstance) resetSlot(slot int) error { return r.sync.Reset(slot) }

func (r *CoreRenderInstance) rebuild() error { return r.Rebuild() }

func (r *CoreRenderInstance) acquireImage(slot int) (uint32, vk.Result) {
	var image uint32
	ret := vk.AcquireNextImage(r.device.handle, r.swapchain.handle, vk.MaxUint64,
		r.sync.ImageAcquired(slot), vk.NullFence, &image)
	return image, ret
}

// writeUniforms stores this frame's transforms in the image's uniform
// buffer and makes sure its descriptor set references that buffer.
func (r *CoreRenderInstance) writeUniforms(image uint32) error {
	extent := r.swapchain.Extent()
	aspect := float32(extent.Width) / float32(extent.Height)
	ubo := ComputeTransforms(float32(r.timer.ElapsedSeconds()), aspect, r.cfg)
	if err := r.uniforms.Update(int(image), &ubo); err != nil {
		return errors.Wrapf(err, "uniform buffer %d", image)
	}
	r.descriptors.Refresh(int(image))
	return nil
}

// submit queues the image's command buffer. It waits for the acquired image
// at the color output stage, then signals the slot's render-finished
// semaphore and fence.
func (r *CoreRenderInstance) submit(slot int, image uint32) vk.Result {
	submitInfos := []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores: []vk.Semaphore{
			r.sync.ImageAcquired(slot),
		},
		// PWaitDstStageMask is a pointer to an array of pipeline
		// stages at which each corresponding semaphore wait will occur.
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount: 1,
		PCommandBuffers: []vk.CommandBuffer{
			r.commands.Buffer(int(image)),
		},
		SignalSemaphoreCount: 1,
		PSignalSemaphores: []vk.Semaphore{
			r.sync.RenderFinished(slot),
		},
	}}
	return vk.QueueSubmit(r.device.queues.Graphics(), 1, submitInfos, r.sync.Fence(slot))
}

func (r *CoreRenderInstance) present(slot int, image uint32) vk.Result {
	return vk.QueuePresent(r.device.queues.Present(), &vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{r.sync.RenderFinished(slot)},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{r.swapchain.handle},
		PImageIndices:      []uint32{image},
	})
}
