package hertra

import lin "github.com/xlab/linmath"

// vulkanClip maps GL clip space to Vulkan clip space: Y points down and
// depth runs over [0, 1] instead of [-1, 1]. Column-major.
var vulkanClip = lin.Mat4x4{
	{1, 0, 0, 0},
	{0, -1, 0, 0},
	{0, 0, 0.5, 0},
	{0, 0, 0.5, 1},
}

// VulkanProjectionMat converts an OpenGL style projection matrix to Vulkan
// style and stores the result in m.
func VulkanProjectionMat(m *lin.Mat4x4, proj *lin.Mat4x4) {
	clip := vulkanClip
	var p lin.Mat4x4
	p.Dup(proj)
	m.Mult(&clip, &p)
}

const (
	fieldOfView = 45.0
	nearPlane   = 0.1
	farPlane    = 10.0
)

// ComputeTransforms fills the uniform block for a frame elapsed seconds
// after start. The model spins around +Z and the camera looks at the
// origin from cfg.Eye with +Z up.
func ComputeTransforms(elapsed float32, aspect float32, cfg Config) UniformBufferObject {
	var ubo UniformBufferObject

	var identity lin.Mat4x4
	identity.Identity()
	ubo.Model.Rotate(&identity, 0, 0, 1, lin.DegreesToRadians(elapsed*cfg.RotationSpeed))

	eye := cfg.Eye
	ubo.View.LookAt(&eye, &lin.Vec3{0, 0, 0}, &lin.Vec3{0, 0, 1})

	var proj lin.Mat4x4
	proj.Perspective(lin.DegreesToRadians(fieldOfView), aspect, nearPlane, farPlane)
	VulkanProjectionMat(&ubo.Proj, &proj)

	ubo.LightPos = cfg.LightPosition
	ubo.ViewPos = cfg.Eye
	ubo.LightColor = cfg.LightColor
	return ubo
}
