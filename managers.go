package hertra

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// frameSync is the set of primitives one frame slot owns.
type frameSync struct {
	imageAcquired  vk.Semaphore
	renderFinished vk.Semaphore
	inFlight       vk.Fence
}

// FrameSyncManager owns the synchronization objects of every frame slot.
// Fences start signaled so the first wait on each slot returns at once.
// The manager is not thread-safe; the render loop is its only user.
type FrameSyncManager struct {
	device vk.Device
	slots  []frameSync
}

func NewFrameSyncManager(device vk.Device, count int) (*FrameSyncManager, error) {
	m := &FrameSyncManager{device: device}
	for i := 0; i < count; i++ {
		var slot frameSync
		ret := vk.CreateSemaphore(device, &vk.SemaphoreCreateInfo{
			SType: vk.StructureTypeSemaphoreCreateInfo,
		}, nil, &slot.imageAcquired)
		if isError(ret) {
			m.Destroy()
			return nil, setupError("frame sync", NewError(ret))
		}
		m.slots = append(m.slots, slot)

		ret = vk.CreateSemaphore(device, &vk.SemaphoreCreateInfo{
			SType: vk.StructureTypeSemaphoreCreateInfo,
		}, nil, &m.slots[i].renderFinished)
		if isError(ret) {
			m.Destroy()
			return nil, setupError("frame sync", NewError(ret))
		}
		ret = vk.CreateFence(device, &vk.FenceCreateInfo{
			SType: vk.StructureTypeFenceCreateInfo,
			Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
		}, nil, &m.slots[i].inFlight)
		if isError(ret) {
			m.Destroy()
			return nil, setupError("frame sync", NewError(ret))
		}
	}
	return m, nil
}

// Wait blocks without timeout until the slot's last submission is done.
func (m *FrameSyncManager) Wait(slot int) error {
	ret := vk.WaitForFences(m.device, 1, []vk.Fence{m.slots[slot].inFlight}, vk.True, vk.MaxUint64)
	if isError(ret) {
		return errors.Wrapf(NewError(ret), "wait for slot %d", slot)
	}
	return nil
}

// Reset returns the slot's fence to unsignaled. Only call it right before
// a submission that signals the fence again.
func (m *FrameSyncManager) Reset(slot int) error {
	ret := vk.ResetFences(m.device, 1, []vk.Fence{m.slots[slot].inFlight})
	if isError(ret) {
		return errors.Wrapf(NewError(ret), "reset slot %d", slot)
	}
	return nil
}

func (m *FrameSyncManager) ImageAcquired(slot int) vk.Semaphore  { return m.slots[slot].imageAcquired }
func (m *FrameSyncManager) RenderFinished(slot int) vk.Semaphore { return m.slots[slot].renderFinished }
func (m *FrameSyncManager) Fence(slot int) vk.Fence              { return m.slots[slot].inFlight }
func (m *FrameSyncManager) Count() int                           { return len(m.slots) }

// Destroy releases every slot. The device must be idle.
func (m *FrameSyncManager) Destroy() {
	for i := range m.slots {
		s := &m.slots[i]
		if s.imageAcquired != vk.NullSemaphore {
			vk.DestroySemaphore(m.device, s.imageAcquired, nil)
		}
		if s.renderFinished != vk.NullSemaphore {
			vk.DestroySemaphore(m.device, s.renderFinished, nil)
		}
		if s.inFlight != vk.NullFence {
			vk.DestroyFence(m.device, s.inFlight, nil)
		}
	}
	m.slots = nil
}

// CommandBufferManager holds one primary command buffer per presentable
// image. The buffers come from the shared pool and are freed with it.
type CommandBufferManager struct {
	pool    *CorePool
	buffers []vk.CommandBuffer
}

func NewCommandBufferManager(pool *CorePool) *CommandBufferManager {
	return &CommandBufferManager{pool: pool}
}

// Resize makes the manager hold exactly count buffers. Existing buffers
// are kept when the count is unchanged.
func (c *CommandBufferManager) Resize(count int) error {
	if len(c.buffers) == count {
		return nil
	}
	c.Free()
	buffers, err := c.pool.Allocate(count)
	if err != nil {
		return setupError("command buffers", err)
	}
	c.buffers = buffers
	return nil
}

func (c *CommandBufferManager) Buffer(i int) vk.CommandBuffer { return c.buffers[i] }
func (c *CommandBufferManager) Count() int                    { return len(c.buffers) }

// Free returns the buffers to the pool. Safe to call repeatedly.
func (c *CommandBufferManager) Free() {
	c.pool.Free(c.buffers)
	c.buffers = nil
}
