package hertra

import (
	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slog"
)

// CoreRenderInstance owns every GPU object of the renderer. Components are
// built in dependency order and each registers its destroy step with the
// lifecycle as soon as it exists.
type CoreRenderInstance struct {
	cfg    Config
	window Window
	timer  *Timer

	lifecycle Lifecycle

	//Instance, surface and the single logical device
	platform *Platform
	device   *CoreDevice

	//Render pass and command recording
	renderPass  *CoreRenderPass
	depthFormat vk.Format
	pool        *CorePool
	sync        *FrameSyncManager
	commands    *CommandBufferManager

	//Size dependent, rebuilt with the chain
	swapchain *CoreSwapchain
	depth     *CoreImage

	//Built once from the collaborators
	uniforms    *UniformBuffers
	mesh        *MeshBuffers
	descriptors *CoreDescriptors
	shader      *CoreShader
	pipeline    *CorePipeline
}

// NewCoreRenderInstance builds the whole renderer for window. On failure
// everything already built is torn down before the error is returned.
func NewCoreRenderInstance(cfg Config, window Window, timer *Timer) (*CoreRenderInstance, error) {
	r := &CoreRenderInstance{cfg: cfg, window: window, timer: timer}
	if err := r.build(); err != nil {
		r.Destroy()
		return nil, err
	}
	return r, nil
}

func (r *CoreRenderInstance) build() error {
	platform, err := NewPlatform(r.cfg, r.window.RequiredInstanceExtensions())
	if err != nil {
		return err
	}
	r.platform = platform
	r.lifecycle.Push("instance", platform.DestroyInstance)

	if err := platform.CreateSurface(r.window); err != nil {
		return err
	}
	r.lifecycle.Push("surface", platform.DestroySurface)

	device, err := SelectDevice(platform.Instance(), platform.Surface(), r.cfg.DeviceExtensions, platform.Layers())
	if err != nil {
		return err
	}
	r.device = device
	r.lifecycle.Push("device", device.Destroy)

	support, err := QuerySwapchainSupport(device.gpu, platform.Surface())
	if err != nil {
		return setupError("swapchain support", err)
	}
	if len(support.Formats) == 0 {
		return setupError("swapchain support", errors.Wrap(ErrSwapchainCreationFailed, "no surface formats"))
	}
	colorFormat := chooseSurfaceFormat(support.Formats).Format
	if r.depthFormat, err = FindDepthFormat(device.gpu); err != nil {
		return setupError("depth format", err)
	}
	if r.renderPass, err = NewCoreRenderPass(device.handle, colorFormat, r.depthFormat); err != nil {
		return err
	}
	r.lifecycle.Push("render pass", r.renderPass.Destroy)

	if r.pool, err = NewCorePool(device.handle, device.queues.Indices().Graphics); err != nil {
		return err
	}
	r.lifecycle.Push("command pool", r.pool.Destroy)

	if r.sync, err = NewFrameSyncManager(device.handle, MaxFramesInFlight); err != nil {
		return err
	}
	r.lifecycle.Push("frame sync", r.sync.Destroy)

	r.commands = NewCommandBufferManager(r.pool)
	r.lifecycle.Push("command buffers", r.commands.Free)

	width, height := waitForFramebuffer(r.window)
	if r.swapchain, err = NewCoreSwapchain(device, platform.Surface(), width, height); err != nil {
		return err
	}
	r.lifecycle.Push("swapchain", r.swapchain.Destroy)
	if err := r.commands.Resize(r.swapchain.ImageCount()); err != nil {
		return err
	}

	if r.depth, err = NewDepthResource(device, r.depthFormat, r.swapchain.Extent()); err != nil {
		return err
	}
	r.lifecycle.Push("depth", func() { r.depth.Destroy() })

	if err := r.renderPass.CreateFramebuffers(r.swapchain.Views(), r.depth.View(), r.swapchain.Extent()); err != nil {
		return err
	}
	r.lifecycle.Push("framebuffers", r.renderPass.DestroyFramebuffers)

	if r.uniforms, err = NewUniformBuffers(device, r.swapchain.ImageCount()); err != nil {
		return err
	}
	r.lifecycle.Push("uniform buffers", func() { r.uniforms.Destroy() })

	if r.mesh, err = NewMeshBuffers(device, r.pool, CubeMesh()); err != nil {
		return err
	}
	r.lifecycle.Push("mesh buffers", r.mesh.Destroy)

	if r.descriptors, err = NewCoreDescriptors(device.handle, r.uniforms); err != nil {
		return err
	}
	r.lifecycle.Push("descriptors", r.descriptors.Destroy)

	if r.shader, err = NewCoreShader(device.handle, r.cfg.VertexShader, r.cfg.FragmentShader); err != nil {
		return err
	}
	r.lifecycle.Push("shaders", r.shader.Destroy)

	builder := NewPipelineBuilder(r.shader, r.descriptors.PipelineLayout())
	if r.pipeline, err = builder.BuildPipeline(device.handle, r.renderPass.Handle()); err != nil {
		return err
	}
	r.lifecycle.Push("pipeline", r.pipeline.Destroy)

	if err := r.recordAll(); err != nil {
		return err
	}
	return r.checkCounts()
}

func (r *CoreRenderInstance) checkCounts() error {
	return checkChainCounts(r.swapchain.ImageCount(), len(r.swapchain.Views()), r.commands.Count())
}

// Rebuild replaces the chain and everything sized by it: depth, framebuffers
// and the recorded command buffers. Per-image uniforms and descriptor sets
// are replaced as well if the image count changed. It waits for a non-zero
// framebuffer and an idle device before touching anything.
func (r *CoreRenderInstance) Rebuild() error {
	width, height := waitForFramebuffer(r.window)
	if err := r.device.WaitIdle(); err != nil {
		return errors.Wrap(err, "wait idle before rebuild")
	}

	r.renderPass.DestroyFramebuffers()
	r.depth.Destroy()
	oldCount := r.swapchain.ImageCount()
	if err := r.swapchain.Recreate(width, height); err != nil {
		return err
	}
	if r.swapchain.Format() != r.renderPass.colorFormat {
		return setupError("swapchain", errors.Wrapf(ErrSwapchainCreationFailed,
			"surface format changed from %d to %d", r.renderPass.colorFormat, r.swapchain.Format()))
	}

	depth, err := NewDepthResource(r.device, r.depthFormat, r.swapchain.Extent())
	if err != nil {
		return err
	}
	r.depth = depth
	if err := r.renderPass.CreateFramebuffers(r.swapchain.Views(), r.depth.View(), r.swapchain.Extent()); err != nil {
		return err
	}

	if count := r.swapchain.ImageCount(); count != oldCount {
		Logger().Info("image count changed", slog.Int("old", oldCount), slog.Int("new", count))
		if err := r.commands.Resize(count); err != nil {
			return err
		}
		r.uniforms.Destroy()
		uniforms, err := NewUniformBuffers(r.device, count)
		if err != nil {
			return err
		}
		r.uniforms = uniforms
		if err := r.descriptors.Reallocate(uniforms); err != nil {
			return setupError("descriptor sets", err)
		}
	}

	if err := r.recordAll(); err != nil {
		return err
	}
	if err := r.checkCounts(); err != nil {
		return err
	}
	extent := r.swapchain.Extent()
	Logger().Info("swapchain rebuilt", slog.Int("width", int(extent.Width)), slog.Int("height", int(extent.Height)))
	return nil
}

// Destroy waits for the device to go idle and tears everything down in
// reverse construction order. Safe to call more than once.
func (r *CoreRenderInstance) Destroy() {
	if r.device != nil {
		if err := r.device.WaitIdle(); err != nil {
			Logger().Warn("wait idle before teardown", slog.Any("error", err))
		}
	}
	r.lifecycle.Teardown()
}

func (r *CoreRenderInstance) Device() *CoreDevice       { return r.device }
func (r *CoreRenderInstance) Swapchain() *CoreSwapchain { return r.swapchain }
func (r *CoreRenderInstance) Lifecycle() *Lifecycle     { return &r.lifecycle }
