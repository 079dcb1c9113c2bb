package hertra

import (
	"testing"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

func suitable() PhysicalDeviceCandidate {
	return PhysicalDeviceCandidate{
		Families:            QueueFamilyIndices{HasGraphics: true, HasPresent: true},
		ExtensionsSupported: true,
		HasFormats:          true,
		HasPresentModes:     true,
	}
}

func TestCandidateSuitable(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*PhysicalDeviceCandidate)
		want   bool
	}{
		{"complete", func(*PhysicalDeviceCandidate) {}, true},
		{"no graphics", func(c *PhysicalDeviceCandidate) { c.Families.HasGraphics = false }, false},
		{"no present", func(c *PhysicalDeviceCandidate) { c.Families.HasPresent = false }, false},
		{"no swapchain", func(c *PhysicalDeviceCandidate) { c.ExtensionsSupported = false }, false},
		{"no formats", func(c *PhysicalDeviceCandidate) { c.HasFormats = false }, false},
		{"no present modes", func(c *PhysicalDeviceCandidate) { c.HasPresentModes = false }, false},
	}
	for _, tt := range tests {
		c := suitable()
		tt.modify(&c)
		if have := c.Suitable(); have != tt.want {
			t.Errorf("%s: have %v, want %v", tt.name, have, tt.want)
		}
	}
}

func TestPickCandidateFirstSuitable(t *testing.T) {
	broken := suitable()
	broken.HasFormats = false
	first := suitable()
	first.Name = "first"
	second := suitable()
	second.Name = "second"

	index, err := pickCandidate([]PhysicalDeviceCandidate{broken, first, second})
	if err != nil {
		t.Fatal(err)
	}
	if have, want := index, 1; have != want {
		t.Errorf("have index %d, want %d", have, want)
	}
}

func TestPickCandidateNone(t *testing.T) {
	broken := suitable()
	broken.ExtensionsSupported = false

	for _, candidates := range [][]PhysicalDeviceCandidate{nil, {broken, broken}} {
		_, err := pickCandidate(candidates)
		if !errors.Is(err, ErrNoSuitableDevice) {
			t.Errorf("%d candidates: have error %v, want %v", len(candidates), err, ErrNoSuitableDevice)
		}
	}
}

func TestCollectCandidatesSkipsFailedProbe(t *testing.T) {
	gpus := make([]vk.PhysicalDevice, 3)
	calls := 0
	candidates := collectCandidates(gpus, func(vk.PhysicalDevice) (PhysicalDeviceCandidate, error) {
		calls++
		if calls == 1 {
			c := suitable()
			c.Name = "broken"
			return c, errors.New("extension enumeration failed")
		}
		c := suitable()
		c.Name = "working"
		return c, nil
	})

	if have, want := calls, 3; have != want {
		t.Fatalf("have %d probes, want %d", have, want)
	}
	if have, want := len(candidates), 3; have != want {
		t.Fatalf("have %d candidates, want %d", have, want)
	}
	if candidates[0].Suitable() {
		t.Error("device with a failed probe is suitable")
	}
	if candidates[0].Name != "broken" {
		t.Errorf("have name %q, want broken", candidates[0].Name)
	}
	index, err := pickCandidate(candidates)
	if err != nil {
		t.Fatal(err)
	}
	if have, want := index, 1; have != want {
		t.Errorf("have index %d, want %d", have, want)
	}
}
