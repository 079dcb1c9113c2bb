package hertra

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// CorePool is the graphics command pool. Buffers allocated from it may be
// reset individually.
type CorePool struct {
	device vk.Device
	pool   vk.CommandPool
}

func NewCorePool(device vk.Device, familyIndex uint32) (*CorePool, error) {
	core := &CorePool{device: device}
	ret := vk.CreateCommandPool(device, &vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: familyIndex,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}, nil, &core.pool)
	if isError(ret) {
		return nil, setupError("command pool", NewError(ret))
	}
	return core, nil
}

// Allocate returns count primary command buffers.
func (c *CorePool) Allocate(count int) ([]vk.CommandBuffer, error) {
	if count == 0 {
		return nil, nil
	}
	buffers := make([]vk.CommandBuffer, count)
	ret := vk.AllocateCommandBuffers(c.device, &vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        c.pool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(count),
	}, buffers)
	if isError(ret) {
		return nil, errors.Wrap(NewError(ret), "allocate command buffers")
	}
	return buffers, nil
}

func (c *CorePool) Free(buffers []vk.CommandBuffer) {
	if len(buffers) == 0 || c.pool == vk.NullCommandPool {
		return
	}
	vk.FreeCommandBuffers(c.device, c.pool, uint32(len(buffers)), buffers)
}

// SubmitOnce records a throwaway command buffer with record, submits it to
// queue and waits for the queue to go idle.
func (c *CorePool) SubmitOnce(queue vk.Queue, record func(cmd vk.CommandBuffer)) error {
	buffers, err := c.Allocate(1)
	if err != nil {
		return err
	}
	defer c.Free(buffers)

	cmd := buffers[0]
	ret := vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	})
	if isError(ret) {
		return errors.Wrap(NewError(ret), "begin one-time command buffer")
	}
	record(cmd)
	if ret = vk.EndCommandBuffer(cmd); isError(ret) {
		return errors.Wrap(NewError(ret), "end one-time command buffer")
	}

	ret = vk.QueueSubmit(queue, 1, []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		CommandBufferCount: 1,
		PCommandBuffers:    buffers,
	}}, vk.NullFence)
	if isError(ret) {
		return errors.Wrap(NewError(ret), "submit one-time command buffer")
	}
	return NewError(vk.QueueWaitIdle(queue))
}

// Destroy also frees every buffer allocated from the pool.
func (c *CorePool) Destroy() {
	if c.pool != vk.NullCommandPool {
		vk.DestroyCommandPool(c.device, c.pool, nil)
		c.pool = vk.NullCommandPool
	}
}

func (c *CorePool) Handle() vk.CommandPool { return c.pool }
