package hertra

import "strings"

// ExtensionSet tracks the names an object needs (required), would like
// (wanted) and what the platform actually offers. It serves instance
// extensions, device extensions and validation layers alike.
type ExtensionSet struct {
	wanted   []string
	required []string
	actual   []string
}

func NewExtensionSet(wanted, required, actual []string) *ExtensionSet {
	return &ExtensionSet{
		wanted:   wanted,
		required: required,
		actual:   actual,
	}
}

// HasRequired reports whether every required name is available, along
// with the missing ones.
func (e *ExtensionSet) HasRequired() (bool, []string) {
	missing := e.missing(e.required)
	return len(missing) == 0, missing
}

func (e *ExtensionSet) HasWanted() (bool, []string) {
	missing := e.missing(e.wanted)
	return len(missing) == 0, missing
}

// GetExtensions returns the required names followed by the wanted names
// that are available, without duplicates. The result is NUL terminated
// for handing to Vulkan.
func (e *ExtensionSet) GetExtensions() []string {
	implement := make([]string, 0, len(e.required)+len(e.wanted))
	seen := make(map[string]bool, cap(implement))
	for _, req := range e.required {
		key := trimNul(req)
		if !seen[key] {
			seen[key] = true
			implement = append(implement, safeString(req))
		}
	}
	available, _ := checkExisting(e.actual, e.wanted)
	for _, want := range available {
		key := trimNul(want)
		if !seen[key] {
			seen[key] = true
			implement = append(implement, want)
		}
	}
	return implement
}

func (e *ExtensionSet) missing(names []string) []string {
	var missing []string
	for _, name := range names {
		if !e.has(name) {
			missing = append(missing, trimNul(name))
		}
	}
	return missing
}

func (e *ExtensionSet) has(name string) bool {
	name = trimNul(name)
	for _, act := range e.actual {
		if trimNul(act) == name {
			return true
		}
	}
	return false
}

func trimNul(s string) string {
	return strings.TrimRight(s, "\x00")
}
