package hertra

import (
	"testing"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

func TestPickMemoryType(t *testing.T) {
	deviceLocal := vk.MemoryPropertyFlags(vk.MemoryPropertyDeviceLocalBit)
	hostVisible := vk.MemoryPropertyFlags(vk.MemoryPropertyHostVisibleBit)
	hostCoherent := vk.MemoryPropertyFlags(vk.MemoryPropertyHostCoherentBit)
	types := []vk.MemoryPropertyFlags{
		deviceLocal,
		hostVisible,
		hostVisible | hostCoherent,
		deviceLocal | hostVisible | hostCoherent,
	}

	tests := []struct {
		name     string
		typeBits uint32
		required vk.MemoryPropertyFlags
		want     uint32
	}{
		{"device local", 0xf, deviceLocal, 0},
		{"needs every flag", 0xf, hostVisible | hostCoherent, 2},
		{"masked out", 0x8, hostVisible | hostCoherent, 3},
		{"skips disallowed", 0xe, deviceLocal, 3},
	}
	for _, tt := range tests {
		have, err := pickMemoryType(types, tt.typeBits, tt.required)
		if err != nil {
			t.Errorf("%s: %v", tt.name, err)
			continue
		}
		if have != tt.want {
			t.Errorf("%s: have type %d, want %d", tt.name, have, tt.want)
		}
	}

	_, err := pickMemoryType(types, 0x3, hostVisible|hostCoherent)
	if !errors.Is(err, ErrNoMemoryType) {
		t.Errorf("have error %v, want %v", err, ErrNoMemoryType)
	}
}
