package hertra

import (
	"strings"
	"testing"
)

func TestExtensionSet(t *testing.T) {
	actual := []string{"VK_KHR_surface\x00", "VK_KHR_xcb_surface\x00", "VK_EXT_debug_report\x00"}
	set := NewExtensionSet(
		[]string{"VK_EXT_debug_report", "VK_EXT_missing"},
		[]string{"VK_KHR_surface", "VK_KHR_xcb_surface", "VK_KHR_surface"},
		actual,
	)

	ok, missing := set.HasRequired()
	if !ok || len(missing) != 0 {
		t.Errorf("required: have %v %v, want all present", ok, missing)
	}
	ok, missing = set.HasWanted()
	if ok || len(missing) != 1 || missing[0] != "VK_EXT_missing" {
		t.Errorf("wanted: have %v %v, want VK_EXT_missing missing", ok, missing)
	}

	have := set.GetExtensions()
	want := []string{"VK_KHR_surface\x00", "VK_KHR_xcb_surface\x00", "VK_EXT_debug_report\x00"}
	if strings.Join(have, ",") != strings.Join(want, ",") {
		t.Errorf("have extensions %q, want %q", have, want)
	}
}

func TestExtensionSetMissingRequired(t *testing.T) {
	set := NewExtensionSet(nil, []string{"VK_KHR_swapchain"}, []string{"VK_KHR_maintenance1"})
	ok, missing := set.HasRequired()
	if ok || len(missing) != 1 || missing[0] != "VK_KHR_swapchain" {
		t.Errorf("have %v %v, want VK_KHR_swapchain missing", ok, missing)
	}
}

func TestCheckExisting(t *testing.T) {
	existing, missing := checkExisting(
		[]string{"VK_LAYER_KHRONOS_validation\x00"},
		[]string{"VK_LAYER_KHRONOS_validation", "VK_LAYER_LUNARG_monitor"},
	)
	if missing != 1 {
		t.Errorf("have %d missing, want 1", missing)
	}
	if len(existing) != 1 || existing[0] != "VK_LAYER_KHRONOS_validation\x00" {
		t.Errorf("have existing %q", existing)
	}
}

func TestSafeString(t *testing.T) {
	for _, s := range []string{"main", "main\x00"} {
		if have := safeString(s); have != "main\x00" {
			t.Errorf("%q: have %q, want %q", s, have, "main\x00")
		}
	}
	if have := clampUint32(5, 10, 20); have != 10 {
		t.Errorf("clamp low: have %d, want 10", have)
	}
	if have := clampUint32(25, 10, 20); have != 20 {
		t.Errorf("clamp high: have %d, want 20", have)
	}
}
