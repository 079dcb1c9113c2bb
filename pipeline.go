package hertra

import (
	vk "github.com/vulkan-go/vulkan"
)

// CorePipeline is the single graphics pipeline. Its layout belongs to the
// descriptors.
type CorePipeline struct {
	device   vk.Device
	pipeline vk.Pipeline
}

func (c *CorePipeline) Handle() vk.Pipeline { return c.pipeline }

func (c *CorePipeline) Destroy() {
	if c.pipeline != vk.NullPipeline {
		vk.DestroyPipeline(c.device, c.pipeline, nil)
		c.pipeline = vk.NullPipeline
	}
}

// PipelineBuilder collects the fixed-function state of the pipeline.
// Viewport and scissor are dynamic so a resized chain only needs the
// command buffers re-recorded.
type PipelineBuilder struct {
	_shaderStages         []vk.PipelineShaderStageCreateInfo
	_vertexBindings       []vk.VertexInputBindingDescription
	_vertexAttributes     []vk.VertexInputAttributeDescription
	_inputAssembly        vk.PipelineInputAssemblyStateCreateInfo
	_rasterizer           vk.PipelineRasterizationStateCreateInfo
	_colorBlendAttachment vk.PipelineColorBlendAttachmentState
	_multisampling        vk.PipelineMultisampleStateCreateInfo
	_depthStencil         vk.PipelineDepthStencilStateCreateInfo
	_dynamicStates        []vk.DynamicState
	_pipelineLayout       vk.PipelineLayout
}

// NewPipelineBuilder sets up an opaque, depth-tested, back-face culled
// triangle list fed by interleaved Vertex records.
func NewPipelineBuilder(shader *CoreShader, layout vk.PipelineLayout) *PipelineBuilder {
	pb := PipelineBuilder{}

	pb._shaderStages = shader.Stages()
	pb._vertexBindings = []vk.VertexInputBindingDescription{VertexBindingDescription()}
	pb._vertexAttributes = VertexAttributeDescriptions()

	assembly := vk.PipelineInputAssemblyStateCreateInfo{}
	assembly.SType = vk.StructureTypePipelineInputAssemblyStateCreateInfo
	assembly.Topology = vk.PrimitiveTopologyTriangleList
	assembly.PrimitiveRestartEnable = vk.False
	pb._inputAssembly = assembly

	rasterizer := vk.PipelineRasterizationStateCreateInfo{}
	rasterizer.SType = vk.StructureTypePipelineRasterizationStateCreateInfo
	rasterizer.DepthClampEnable = vk.False
	rasterizer.RasterizerDiscardEnable = vk.False
	rasterizer.PolygonMode = vk.PolygonModeFill
	rasterizer.CullMode = vk.CullModeFlags(vk.CullModeBackBit)
	rasterizer.FrontFace = vk.FrontFaceCounterClockwise
	rasterizer.DepthBiasEnable = vk.False
	rasterizer.LineWidth = 1.0
	pb._rasterizer = rasterizer

	mss := vk.PipelineMultisampleStateCreateInfo{}
	mss.SType = vk.StructureTypePipelineMultisampleStateCreateInfo
	mss.SampleShadingEnable = vk.False
	mss.RasterizationSamples = vk.SampleCount1Bit
	mss.MinSampleShading = 1.0
	pb._multisampling = mss

	depth := vk.PipelineDepthStencilStateCreateInfo{}
	depth.SType = vk.StructureTypePipelineDepthStencilStateCreateInfo
	depth.DepthTestEnable = vk.True
	depth.DepthWriteEnable = vk.True
	depth.DepthCompareOp = vk.CompareOpLess
	depth.DepthBoundsTestEnable = vk.False
	depth.StencilTestEnable = vk.False
	depth.MinDepthBounds = 0.0
	depth.MaxDepthBounds = 1.0
	pb._depthStencil = depth

	cbb := vk.PipelineColorBlendAttachmentState{}
	cbb.ColorWriteMask = vk.ColorComponentFlags(vk.ColorComponentRBit | vk.ColorComponentGBit |
		vk.ColorComponentBBit | vk.ColorComponentABit)
	cbb.BlendEnable = vk.False
	pb._colorBlendAttachment = cbb

	pb._dynamicStates = []vk.DynamicState{vk.DynamicStateViewport, vk.DynamicStateScissor}
	pb._pipelineLayout = layout
	return &pb
}

// BuildPipeline creates the pipeline for subpass 0 of renderPass.
func (p *PipelineBuilder) BuildPipeline(device vk.Device, renderPass vk.RenderPass) (*CorePipeline, error) {
	vertexInput := vk.PipelineVertexInputStateCreateInfo{
		SType:                           vk.StructureTypePipelineVertexInputStateCreateInfo,
		VertexBindingDescriptionCount:   uint32(len(p._vertexBindings)),
		PVertexBindingDescriptions:      p._vertexBindings,
		VertexAttributeDescriptionCount: uint32(len(p._vertexAttributes)),
		PVertexAttributeDescriptions:    p._vertexAttributes,
	}

	viewState := vk.PipelineViewportStateCreateInfo{
		SType:         vk.StructureTypePipelineViewportStateCreateInfo,
		ViewportCount: 1,
		ScissorCount:  1,
	}

	blendState := vk.PipelineColorBlendStateCreateInfo{
		SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
		LogicOpEnable:   vk.False,
		LogicOp:         vk.LogicOpCopy,
		AttachmentCount: 1,
		PAttachments:    []vk.PipelineColorBlendAttachmentState{p._colorBlendAttachment},
	}

	dynamicState := vk.PipelineDynamicStateCreateInfo{
		SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
		DynamicStateCount: uint32(len(p._dynamicStates)),
		PDynamicStates:    p._dynamicStates,
	}

	pipelineInfo := vk.GraphicsPipelineCreateInfo{
		SType:               vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount:          uint32(len(p._shaderStages)),
		PStages:             p._shaderStages,
		PVertexInputState:   &vertexInput,
		PInputAssemblyState: &p._inputAssembly,
		PViewportState:      &viewState,
		PRasterizationState: &p._rasterizer,
		PMultisampleState:   &p._multisampling,
		PDepthStencilState:  &p._depthStencil,
		PColorBlendState:    &blendState,
		PDynamicState:       &dynamicState,
		Layout:              p._pipelineLayout,
		RenderPass:          renderPass,
		Subpass:             0,
	}

	pipelines := []vk.Pipeline{vk.NullPipeline}
	ret := vk.CreateGraphicsPipelines(device, vk.PipelineCache(vk.NullHandle), 1,
		[]vk.GraphicsPipelineCreateInfo{pipelineInfo}, nil, pipelines)
	if isError(ret) {
		return nil, setupError("graphics pipeline", NewError(ret))
	}
	return &CorePipeline{device: device, pipeline: pipelines[0]}, nil
}
