package hertra

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slog"
)

// checkChainCounts verifies that every presentable image has a view and a
// command buffer.
func checkChainCounts(images, views, commands int) error {
	if images != views || images != commands {
		return errors.Errorf("chain mismatch: %d images, %d views, %d command buffers", images, views, commands)
	}
	return nil
}

// recordAll re-records the command buffer of every presentable image.
func (r *CoreRenderInstance) recordAll() error {
	for i := 0; i < r.commands.Count(); i++ {
		if err := r.recordCommands(i); err != nil {
			return setupError("record commands", err)
		}
	}
	return nil
}

// recordCommands records the fixed draw of the mesh into framebuffer i.
func (r *CoreRenderInstance) recordCommands(i int) error {
	cmd := r.commands.Buffer(i)
	ret := vk.ResetCommandBuffer(cmd, 0)
	if isError(ret) {
		return errors.Wrapf(NewError(ret), "reset command buffer %d", i)
	}
	ret = vk.BeginCommandBuffer(cmd, &vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
	})
	if isError(ret) {
		return errors.Wrapf(NewError(ret), "begin command buffer %d", i)
	}

	extent := r.swapchain.Extent()
	clearValues := []vk.ClearValue{vk.NewClearValue(r.cfg.ClearColor[:])}
	if r.renderPass.HasDepth() {
		clearValues = append(clearValues, vk.NewClearDepthStencil(1.0, 0))
	}

	vk.CmdBeginRenderPass(cmd, &vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  r.renderPass.Handle(),
		Framebuffer: r.renderPass.Framebuffer(i),
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: extent,
		},
		ClearValueCount: uint32(len(clearValues)),
		PClearValues:    clearValues,
	}, vk.SubpassContentsInline)

	vk.CmdBindPipeline(cmd, vk.PipelineBindPointGraphics, r.pipeline.Handle())
	vk.CmdSetViewport(cmd, 0, 1, []vk.Viewport{{
		X:        0,
		Y:        0,
		Width:    float32(extent.Width),
		Height:   float32(extent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	}})
	vk.CmdSetScissor(cmd, 0, 1, []vk.Rect2D{{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: extent,
	}})

	vk.CmdBindVertexBuffers(cmd, 0, 1, []vk.Buffer{r.mesh.vertices.Handle()}, []vk.DeviceSize{0})
	vk.CmdBindIndexBuffer(cmd, r.mesh.indices.Handle(), 0, vk.IndexTypeUint32)
	vk.CmdBindDescriptorSets(cmd, vk.PipelineBindPointGraphics, r.descriptors.PipelineLayout(),
		0, 1, []vk.DescriptorSet{r.descriptors.Set(i)}, 0, nil)
	vk.CmdDrawIndexed(cmd, r.mesh.IndexCount(), 1, 0, 0, 0)

	vk.CmdEndRenderPass(cmd)
	if ret = vk.EndCommandBuffer(cmd); isError(ret) {
		return errors.Wrapf(NewError(ret), "end command buffer %d", i)
	}
	Logger().Debug("recorded command buffer", slog.Int("image", i))
	return nil
}
