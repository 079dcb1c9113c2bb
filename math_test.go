package hertra

import (
	"math"
	"testing"

	lin "github.com/xlab/linmath"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func transform(m *lin.Mat4x4, v lin.Vec4) lin.Vec4 {
	var out lin.Vec4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[row] += m[col][row] * v[col]
		}
	}
	return out
}

func TestVulkanProjectionMatIdentity(t *testing.T) {
	var identity, m lin.Mat4x4
	identity.Identity()
	VulkanProjectionMat(&m, &identity)
	if m != vulkanClip {
		t.Errorf("have %v, want %v", m, vulkanClip)
	}
}

func TestVulkanProjectionMatDepth(t *testing.T) {
	var proj, m lin.Mat4x4
	proj.Perspective(lin.DegreesToRadians(fieldOfView), 4.0/3.0, nearPlane, farPlane)
	VulkanProjectionMat(&m, &proj)

	depth := func(z float32) float32 {
		v := transform(&m, lin.Vec4{0, 0, -z, 1})
		return v[2] / v[3]
	}
	if have := depth(nearPlane); !near(have, 0) {
		t.Errorf("near plane: have depth %v, want 0", have)
	}
	if have := depth(farPlane); !near(have, 1) {
		t.Errorf("far plane: have depth %v, want 1", have)
	}

	up := transform(&m, lin.Vec4{0, 1, -1, 1})
	if up[1] >= 0 {
		t.Errorf("have clip y %v for a point above the axis, want negative", up[1])
	}
}

func TestComputeTransforms(t *testing.T) {
	cfg := DefaultConfig()

	ubo := ComputeTransforms(0, 4.0/3.0, cfg)
	var identity lin.Mat4x4
	identity.Identity()
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			if !near(ubo.Model[col][row], identity[col][row]) {
				t.Fatalf("model at 0s: have %v, want identity", ubo.Model)
			}
		}
	}
	if ubo.ViewPos != cfg.Eye || ubo.LightPos != cfg.LightPosition || ubo.LightColor != cfg.LightColor {
		t.Errorf("have positions %v %v %v", ubo.ViewPos, ubo.LightPos, ubo.LightColor)
	}

	// A quarter turn around +Z after one second at 90 degrees per second.
	ubo = ComputeTransforms(1, 4.0/3.0, cfg)
	x := transform(&ubo.Model, lin.Vec4{1, 0, 0, 0})
	if !near(x[0], 0) || !near(float32(math.Abs(float64(x[1]))), 1) || !near(x[2], 0) {
		t.Errorf("have rotated x axis %v, want (0, ±1, 0)", x)
	}
	z := transform(&ubo.Model, lin.Vec4{0, 0, 1, 0})
	if !near(z[2], 1) {
		t.Errorf("have rotated z axis %v, want unchanged", z)
	}

	// The eye sits at the view-space origin.
	eye := transform(&ubo.View, lin.Vec4{cfg.Eye[0], cfg.Eye[1], cfg.Eye[2], 1})
	if !near(eye[0], 0) || !near(eye[1], 0) || !near(eye[2], 0) {
		t.Errorf("have eye in view space %v, want origin", eye)
	}
}
