package hertra

import (
	"unsafe"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

// pickMemoryType returns the first memory type allowed by typeBits whose
// property flags contain all of required.
func pickMemoryType(types []vk.MemoryPropertyFlags, typeBits uint32, required vk.MemoryPropertyFlags) (uint32, error) {
	for i, flags := range types {
		if typeBits&(1<<uint(i)) == 0 {
			continue
		}
		if flags&required == required {
			return uint32(i), nil
		}
	}
	return 0, errors.Wrapf(ErrNoMemoryType, "type bits %#x, properties %#x", typeBits, required)
}

func FindRequiredMemoryType(props vk.PhysicalDeviceMemoryProperties, typeBits uint32, required vk.MemoryPropertyFlags) (uint32, error) {
	types := make([]vk.MemoryPropertyFlags, props.MemoryTypeCount)
	for i := range types {
		props.MemoryTypes[i].Deref()
		types[i] = props.MemoryTypes[i].PropertyFlags
	}
	return pickMemoryType(types, typeBits, required)
}

// bufferConfig names the fields that vary between buffers.
type bufferConfig struct {
	size       vk.DeviceSize
	usage      vk.BufferUsageFlagBits
	properties vk.MemoryPropertyFlagBits
}

// CoreBuffer is a buffer with its own memory allocation. Host-visible
// buffers may stay mapped for their whole life.
type CoreBuffer struct {
	device vk.Device
	buffer vk.Buffer
	memory vk.DeviceMemory
	size   vk.DeviceSize
	mapped unsafe.Pointer
}

// NewCoreBuffer creates and binds a buffer. On failure nothing is left
// allocated.
func NewCoreBuffer(device *CoreDevice, cfg bufferConfig) (*CoreBuffer, error) {
	b := &CoreBuffer{device: device.handle, size: cfg.size}
	ret := vk.CreateBuffer(device.handle, &vk.BufferCreateInfo{
		SType:       vk.StructureTypeBufferCreateInfo,
		Size:        cfg.size,
		Usage:       vk.BufferUsageFlags(cfg.usage),
		SharingMode: vk.SharingModeExclusive,
	}, nil, &b.buffer)
	if isError(ret) {
		return nil, errors.Wrap(NewError(ret), "create buffer")
	}

	var req vk.MemoryRequirements
	vk.GetBufferMemoryRequirements(device.handle, b.buffer, &req)
	req.Deref()

	memType, err := FindRequiredMemoryType(device.memoryProperties, req.MemoryTypeBits, vk.MemoryPropertyFlags(cfg.properties))
	if err != nil {
		b.Destroy()
		return nil, err
	}
	ret = vk.AllocateMemory(device.handle, &vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: memType,
	}, nil, &b.memory)
	if isError(ret) {
		b.Destroy()
		return nil, errors.Wrap(NewError(ret), "allocate buffer memory")
	}
	if ret = vk.BindBufferMemory(device.handle, b.buffer, b.memory, 0); isError(ret) {
		b.Destroy()
		return nil, errors.Wrap(NewError(ret), "bind buffer memory")
	}
	return b, nil
}

// Map maps the whole buffer and keeps it mapped until Destroy.
func (b *CoreBuffer) Map() error {
	if b.mapped != nil {
		return nil
	}
	var data unsafe.Pointer
	if ret := vk.MapMemory(b.device, b.memory, 0, b.size, 0, &data); isError(ret) {
		return errors.Wrap(NewError(ret), "map buffer memory")
	}
	b.mapped = data
	return nil
}

// Write copies data to the start of the buffer. A buffer that is not
// persistently mapped is mapped for the duration of the copy.
func (b *CoreBuffer) Write(data []byte) error {
	if vk.DeviceSize(len(data)) > b.size {
		return errors.Errorf("write of %d bytes exceeds buffer size %d", len(data), b.size)
	}
	if b.mapped != nil {
		vk.Memcopy(b.mapped, data)
		return nil
	}
	if err := b.Map(); err != nil {
		return err
	}
	vk.Memcopy(b.mapped, data)
	b.unmap()
	return nil
}

func (b *CoreBuffer) unmap() {
	if b.mapped != nil {
		vk.UnmapMemory(b.device, b.memory)
		b.mapped = nil
	}
}

// Destroy unmaps, destroys the buffer and frees its memory. Safe to call
// repeatedly and on a nil buffer.
func (b *CoreBuffer) Destroy() {
	if b == nil || b.device == nil {
		return
	}
	b.unmap()
	if b.buffer != vk.NullBuffer {
		vk.DestroyBuffer(b.device, b.buffer, nil)
		b.buffer = vk.NullBuffer
	}
	if b.memory != vk.NullDeviceMemory {
		vk.FreeMemory(b.device, b.memory, nil)
		b.memory = vk.NullDeviceMemory
	}
}

func (b *CoreBuffer) Handle() vk.Buffer   { return b.buffer }
func (b *CoreBuffer) Size() vk.DeviceSize { return b.size }

// NewDeviceLocalBuffer uploads data through a host-visible staging buffer
// into a device-local buffer of the given usage.
func NewDeviceLocalBuffer(device *CoreDevice, pool *CorePool, usage vk.BufferUsageFlagBits, data []byte) (*CoreBuffer, error) {
	size := vk.DeviceSize(len(data))
	staging, err := NewCoreBuffer(device, bufferConfig{
		size:       size,
		usage:      vk.BufferUsageTransferSrcBit,
		properties: vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit,
	})
	if err != nil {
		return nil, errors.Wrap(err, "staging buffer")
	}
	defer staging.Destroy()
	if err := staging.Write(data); err != nil {
		return nil, err
	}

	dst, err := NewCoreBuffer(device, bufferConfig{
		size:       size,
		usage:      usage | vk.BufferUsageTransferDstBit,
		properties: vk.MemoryPropertyDeviceLocalBit,
	})
	if err != nil {
		return nil, err
	}
	err = pool.SubmitOnce(device.queues.Graphics(), func(cmd vk.CommandBuffer) {
		vk.CmdCopyBuffer(cmd, staging.buffer, dst.buffer, 1, []vk.BufferCopy{{Size: size}})
	})
	if err != nil {
		dst.Destroy()
		return nil, errors.Wrap(err, "copy staging buffer")
	}
	return dst, nil
}
