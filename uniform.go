package hertra

import (
	"encoding/binary"
	"math"

	vk "github.com/vulkan-go/vulkan"
	lin "github.com/xlab/linmath"
)

// UniformBufferSize is the std140 size of the uniform block: three mat4
// followed by three vec3, each vec3 padded to 16 bytes.
const UniformBufferSize = 3*64 + 3*16

// UniformBufferObject is the per-frame transform and lighting block read by
// both shader stages.
type UniformBufferObject struct {
	Model lin.Mat4x4
	View  lin.Mat4x4
	Proj  lin.Mat4x4

	LightPos   lin.Vec3
	ViewPos    lin.Vec3
	LightColor lin.Vec3
}

// Bytes lays the block out as the shaders expect it.
func (u *UniformBufferObject) Bytes() []byte {
	out := make([]byte, 0, UniformBufferSize)
	put := func(f float32) {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
	}
	for _, m := range []*lin.Mat4x4{&u.Model, &u.View, &u.Proj} {
		for col := 0; col < 4; col++ {
			for row := 0; row < 4; row++ {
				put(m[col][row])
			}
		}
	}
	for _, v := range []lin.Vec3{u.LightPos, u.ViewPos, u.LightColor} {
		put(v[0])
		put(v[1])
		put(v[2])
		put(0)
	}
	return out
}

// UniformBuffers holds one persistently mapped host-coherent buffer per
// presentable image.
type UniformBuffers struct {
	buffers []*CoreBuffer
}

func NewUniformBuffers(device *CoreDevice, count int) (*UniformBuffers, error) {
	u := &UniformBuffers{}
	for i := 0; i < count; i++ {
		buf, err := NewCoreBuffer(device, bufferConfig{
			size:       UniformBufferSize,
			usage:      vk.BufferUsageUniformBufferBit,
			properties: vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit,
		})
		if err != nil {
			u.Destroy()
			return nil, setupError("uniform buffers", err)
		}
		u.buffers = append(u.buffers, buf)
		if err := buf.Map(); err != nil {
			u.Destroy()
			return nil, setupError("uniform buffers", err)
		}
	}
	return u, nil
}

// Update overwrites the block of image i. The caller guarantees no
// in-flight work reads it.
func (u *UniformBuffers) Update(i int, ubo *UniformBufferObject) error {
	return u.buffers[i].Write(ubo.Bytes())
}

func (u *UniformBuffers) Count() int { return len(u.buffers) }

func (u *UniformBuffers) DescriptorInfo(i int) vk.DescriptorBufferInfo {
	return vk.DescriptorBufferInfo{
		Buffer: u.buffers[i].Handle(),
		Offset: 0,
		Range:  vk.DeviceSize(UniformBufferSize),
	}
}

// Destroy unmaps and frees every buffer.
func (u *UniformBuffers) Destroy() {
	if u == nil {
		return
	}
	for _, buf := range u.buffers {
		buf.Destroy()
	}
	u.buffers = nil
}
