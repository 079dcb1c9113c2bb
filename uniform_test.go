package hertra

import (
	"encoding/binary"
	"math"
	"testing"

	lin "github.com/xlab/linmath"
)

func floatAt(data []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data[offset:]))
}

func TestUniformBytes(t *testing.T) {
	var ubo UniformBufferObject
	ubo.Model.Identity()
	ubo.View.Identity()
	ubo.Proj.Identity()
	ubo.Proj[3][1] = 7
	ubo.LightPos = lin.Vec3{1, 2, 3}
	ubo.ViewPos = lin.Vec3{4, 5, 6}
	ubo.LightColor = lin.Vec3{0.25, 0.5, 0.75}

	data := ubo.Bytes()
	if have, want := len(data), UniformBufferSize; have != want {
		t.Fatalf("have %d bytes, want %d", have, want)
	}
	if have, want := UniformBufferSize, 240; have != want {
		t.Errorf("have block size %d, want %d", have, want)
	}

	tests := []struct {
		name   string
		offset int
		want   float32
	}{
		{"model[0][0]", 0, 1},
		{"model[0][1]", 4, 0},
		{"proj column 3 row 1", 128 + 3*16 + 4, 7},
		{"light x", 192, 1},
		{"light z", 200, 3},
		{"light pad", 204, 0},
		{"view x", 208, 4},
		{"view pad", 220, 0},
		{"color z", 232, 0.75},
		{"color pad", 236, 0},
	}
	for _, tt := range tests {
		if have := floatAt(data, tt.offset); have != tt.want {
			t.Errorf("%s: have %v, want %v", tt.name, have, tt.want)
		}
	}
}
