package hertra

import (
	"encoding/binary"
	"strings"
)

func safeString(s string) string {
	if strings.HasSuffix(s, "\x00") {
		return s
	}
	return s + "\x00"
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i := range list {
		out[i] = safeString(list[i])
	}
	return out
}

// sliceUint32 reinterprets little-endian SPIR-V bytes as 32-bit words.
// The length must already be a multiple of 4.
func sliceUint32(data []byte) []uint32 {
	words := make([]uint32, len(data)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return words
}

// checkExisting keeps the required names that are actually available and
// reports how many are missing. Both lists may be NUL terminated.
func checkExisting(actual, required []string) (existing []string, missing int) {
	existing = make([]string, 0, len(required))
	for _, name := range required {
		found := false
		for _, have := range actual {
			if strings.TrimRight(have, "\x00") == strings.TrimRight(name, "\x00") {
				found = true
				break
			}
		}
		if !found {
			missing++
			continue
		}
		existing = append(existing, safeString(name))
	}
	return existing, missing
}

func clampUint32(v, lo, hi uint32) uint32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
