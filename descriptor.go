package hertra

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slog"
)

// CoreDescriptors binds each image's uniform buffer to binding 0 of the
// pipeline. It also owns the pipeline layout built from its set layout.
type CoreDescriptors struct {
	device         vk.Device
	setLayout      vk.DescriptorSetLayout
	pipelineLayout vk.PipelineLayout
	pool           vk.DescriptorPool
	sets           []vk.DescriptorSet
	uniforms       *UniformBuffers

	// bound is the uniform buffer each set currently references.
	bound []vk.Buffer
}

func NewCoreDescriptors(device vk.Device, uniforms *UniformBuffers) (*CoreDescriptors, error) {
	d := &CoreDescriptors{device: device, uniforms: uniforms}

	ret := vk.CreateDescriptorSetLayout(device, &vk.DescriptorSetLayoutCreateInfo{
		SType:        vk.StructureTypeDescriptorSetLayoutCreateInfo,
		BindingCount: 1,
		PBindings: []vk.DescriptorSetLayoutBinding{{
			Binding:         0,
			DescriptorType:  vk.DescriptorTypeUniformBuffer,
			DescriptorCount: 1,
			StageFlags:      vk.ShaderStageFlags(vk.ShaderStageVertexBit | vk.ShaderStageFragmentBit),
		}},
	}, nil, &d.setLayout)
	if isError(ret) {
		return nil, setupError("descriptor set layout", NewError(ret))
	}

	ret = vk.CreatePipelineLayout(device, &vk.PipelineLayoutCreateInfo{
		SType:          vk.StructureTypePipelineLayoutCreateInfo,
		SetLayoutCount: 1,
		PSetLayouts:    []vk.DescriptorSetLayout{d.setLayout},
	}, nil, &d.pipelineLayout)
	if isError(ret) {
		d.Destroy()
		return nil, setupError("pipeline layout", NewError(ret))
	}

	if err := d.allocate(uniforms.Count()); err != nil {
		d.Destroy()
		return nil, setupError("descriptor sets", err)
	}
	return d, nil
}

func (d *CoreDescriptors) allocate(count int) error {
	ret := vk.CreateDescriptorPool(d.device, &vk.DescriptorPoolCreateInfo{
		SType:         vk.StructureTypeDescriptorPoolCreateInfo,
		MaxSets:       uint32(count),
		PoolSizeCount: 1,
		PPoolSizes: []vk.DescriptorPoolSize{{
			Type:            vk.DescriptorTypeUniformBuffer,
			DescriptorCount: uint32(count),
		}},
	}, nil, &d.pool)
	if isError(ret) {
		return errors.Wrap(NewError(ret), "create descriptor pool")
	}

	layouts := make([]vk.DescriptorSetLayout, count)
	for i := range layouts {
		layouts[i] = d.setLayout
	}
	d.sets = make([]vk.DescriptorSet, count)
	d.bound = make([]vk.Buffer, count)
	ret = vk.AllocateDescriptorSets(d.device, &vk.DescriptorSetAllocateInfo{
		SType:              vk.StructureTypeDescriptorSetAllocateInfo,
		DescriptorPool:     d.pool,
		DescriptorSetCount: uint32(count),
		PSetLayouts:        layouts,
	}, &d.sets[0])
	if isError(ret) {
		return errors.Wrap(NewError(ret), "allocate descriptor sets")
	}
	for i := range d.sets {
		d.Update(i)
	}
	return nil
}

// Reallocate replaces the pool and sets after the uniform buffers changed
// count. The device must be idle.
func (d *CoreDescriptors) Reallocate(uniforms *UniformBuffers) error {
	d.destroyPool()
	d.uniforms = uniforms
	return d.allocate(uniforms.Count())
}

// Refresh makes sure set i references uniform buffer i. A set already
// pointing there is left alone, since writing a set invalidates the
// command buffers recorded with it.
func (d *CoreDescriptors) Refresh(i int) bool {
	if d.bound[i] == d.uniforms.DescriptorInfo(i).Buffer {
		return false
	}
	d.Update(i)
	return true
}

// Update points set i at uniform buffer i.
func (d *CoreDescriptors) Update(i int) {
	info := d.uniforms.DescriptorInfo(i)
	vk.UpdateDescriptorSets(d.device, 1, []vk.WriteDescriptorSet{{
		SType:           vk.StructureTypeWriteDescriptorSet,
		DstSet:          d.sets[i],
		DstBinding:      0,
		DstArrayElement: 0,
		DescriptorType:  vk.DescriptorTypeUniformBuffer,
		DescriptorCount: 1,
		PBufferInfo:     []vk.DescriptorBufferInfo{info},
	}}, 0, nil)
	d.bound[i] = info.Buffer
	Logger().Debug("descriptor set updated", slog.Int("image", i))
}

func (d *CoreDescriptors) Set(i int) vk.DescriptorSet        { return d.sets[i] }
func (d *CoreDescriptors) PipelineLayout() vk.PipelineLayout { return d.pipelineLayout }
func (d *CoreDescriptors) SetLayout() vk.DescriptorSetLayout { return d.setLayout }

// destroyPool frees the sets along with their pool.
func (d *CoreDescriptors) destroyPool() {
	if d.pool != vk.NullDescriptorPool {
		vk.DestroyDescriptorPool(d.device, d.pool, nil)
		d.pool = vk.NullDescriptorPool
	}
	d.sets = nil
	d.bound = nil
}

// Destroy releases the pool, the set layout and the pipeline layout in
// that order.
func (d *CoreDescriptors) Destroy() {
	d.destroyPool()
	if d.setLayout != vk.NullDescriptorSetLayout {
		vk.DestroyDescriptorSetLayout(d.device, d.setLayout, nil)
		d.setLayout = vk.NullDescriptorSetLayout
	}
	if d.pipelineLayout != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(d.device, d.pipelineLayout, nil)
		d.pipelineLayout = vk.NullPipelineLayout
	}
}
