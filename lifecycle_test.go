package hertra

import (
	"strings"
	"testing"
)

func TestLifecycleTeardownOrder(t *testing.T) {
	var l Lifecycle
	var destroyed []string
	for _, name := range []string{"instance", "surface", "device", "swapchain", "pipeline"} {
		name := name
		l.Push(name, func() { destroyed = append(destroyed, name) })
	}

	if have, want := strings.Join(l.Names(), ","), "pipeline,swapchain,device,surface,instance"; have != want {
		t.Errorf("have names %s, want %s", have, want)
	}

	l.Teardown()
	if have, want := strings.Join(destroyed, ","), "pipeline,swapchain,device,surface,instance"; have != want {
		t.Errorf("have teardown order %s, want %s", have, want)
	}

	l.Teardown()
	if have, want := len(destroyed), 5; have != want {
		t.Errorf("second teardown: have %d destroys, want %d", have, want)
	}
	if len(l.Names()) != 0 {
		t.Errorf("have names %v after teardown, want none", l.Names())
	}
}

func TestLifecyclePushAfterTeardown(t *testing.T) {
	var l Lifecycle
	l.Teardown()

	destroyed := false
	l.Push("late", func() { destroyed = true })
	if !destroyed {
		t.Error("step pushed after teardown was not destroyed")
	}
}

func TestLifecyclePartialBuild(t *testing.T) {
	// A build that fails halfway only tears down what it pushed.
	var l Lifecycle
	var destroyed []string
	l.Push("instance", func() { destroyed = append(destroyed, "instance") })
	l.Push("surface", func() { destroyed = append(destroyed, "surface") })
	l.Teardown()

	if have, want := strings.Join(destroyed, ","), "surface,instance"; have != want {
		t.Errorf("have %s, want %s", have, want)
	}
}
