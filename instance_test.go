package hertra

import (
	"strings"
	"testing"
)

func TestRenderInstanceDestroyTwice(t *testing.T) {
	// A renderer whose build stopped after the surface: no device yet, so
	// there is nothing to wait on before teardown.
	r := &CoreRenderInstance{cfg: DefaultConfig()}
	var destroyed []string
	for _, name := range []string{"instance", "surface"} {
		name := name
		r.lifecycle.Push(name, func() { destroyed = append(destroyed, name) })
	}

	r.Destroy()
	r.Destroy()

	if have, want := strings.Join(destroyed, ","), "surface,instance"; have != want {
		t.Errorf("have teardown %s, want %s", have, want)
	}
	if names := r.Lifecycle().Names(); len(names) != 0 {
		t.Errorf("have steps %v left after teardown", names)
	}
}

func TestRenderInstanceDestroyNilParts(t *testing.T) {
	// Destroy steps for parts that were never built are guarded.
	r := &CoreRenderInstance{}
	r.lifecycle.Push("depth", func() { r.depth.Destroy() })
	r.lifecycle.Push("uniform buffers", func() { r.uniforms.Destroy() })
	r.Destroy()
	r.Destroy()
}
