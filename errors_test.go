package hertra

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

func TestNewError(t *testing.T) {
	if err := NewError(vk.Success); err != nil {
		t.Errorf("have %v for success, want nil", err)
	}
	err := NewError(vk.ErrorDeviceLost)
	if err == nil {
		t.Fatal("have nil for a failed result")
	}
	if !strings.Contains(err.Error(), "vulkan error") {
		t.Errorf("have message %q", err.Error())
	}
}

func TestSetupError(t *testing.T) {
	if setupError("device", nil) != nil {
		t.Error("wrapping nil produced an error")
	}

	err := setupError("select device", ErrNoSuitableDevice)
	var se *SetupError
	if !errors.As(err, &se) || se.Stage != "select device" {
		t.Fatalf("have %v, want a SetupError for select device", err)
	}
	if !errors.Is(err, ErrNoSuitableDevice) {
		t.Error("setup error does not unwrap to its cause")
	}
	if errors.Cause(err) != ErrNoSuitableDevice {
		t.Errorf("have cause %v, want %v", errors.Cause(err), ErrNoSuitableDevice)
	}

	// An already staged error keeps its original stage.
	outer := setupError("render pass", errors.Wrap(err, "context"))
	if !errors.As(outer, &se) || se.Stage != "select device" {
		t.Errorf("have stage %q, want select device", se.Stage)
	}
	if strings.Count(outer.Error(), "setup") != 1 {
		t.Errorf("have %q, want a single setup prefix", outer.Error())
	}
}

func TestFrameError(t *testing.T) {
	err := error(&FrameError{Frame: 12, Op: "submit", Err: errOutOfDate})
	if have, want := err.Error(), "frame 12: submit: presentation chain out of date"; have != want {
		t.Errorf("have %q, want %q", have, want)
	}
	if !errors.Is(err, errOutOfDate) {
		t.Error("frame error does not unwrap to its cause")
	}
}

func TestCheckPresentable(t *testing.T) {
	tests := []struct {
		ret        vk.Result
		suboptimal bool
		outOfDate  bool
		fatal      bool
	}{
		{vk.Success, false, false, false},
		{vk.Suboptimal, true, false, false},
		{vk.ErrorOutOfDate, false, true, false},
		{vk.ErrorDeviceLost, false, false, true},
		{vk.ErrorSurfaceLost, false, false, true},
	}
	for _, tt := range tests {
		suboptimal, err := checkPresentable(tt.ret)
		if suboptimal != tt.suboptimal {
			t.Errorf("%v: have suboptimal %v, want %v", tt.ret, suboptimal, tt.suboptimal)
		}
		if have := errors.Is(err, errOutOfDate); have != tt.outOfDate {
			t.Errorf("%v: have out of date %v, want %v", tt.ret, have, tt.outOfDate)
		}
		if have := err != nil && !errors.Is(err, errOutOfDate); have != tt.fatal {
			t.Errorf("%v: have fatal %v, want %v", tt.ret, have, tt.fatal)
		}
	}
}

func TestCheckErr(t *testing.T) {
	run := func() (err error) {
		defer checkErr(&err)
		orPanic(ErrNoMemoryType)
		return nil
	}
	if have := run(); have != ErrNoMemoryType {
		t.Errorf("have %v, want %v", have, ErrNoMemoryType)
	}
}
