package hertra

import (
	"fmt"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
)

var (
	ErrNoSuitableDevice        = errors.New("no suitable GPU device found")
	ErrSwapchainCreationFailed = errors.New("swapchain creation failed")
	ErrNoSupportedDepthFormat  = errors.New("no supported depth format")
	ErrShaderLoad              = errors.New("shader load failed")
	ErrNoMemoryType            = errors.New("no suitable memory type")

	// errOutOfDate never leaves the frame loop.
	errOutOfDate = errors.New("presentation chain out of date")
)

// SetupError is returned for any failure while building GPU objects.
// It is always fatal.
type SetupError struct {
	Stage string
	Err   error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setup %s: %v", e.Stage, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }
func (e *SetupError) Cause() error  { return e.Err }

func setupError(stage string, err error) error {
	if err == nil {
		return nil
	}
	var se *SetupError
	if errors.As(err, &se) {
		return err
	}
	return &SetupError{Stage: stage, Err: err}
}

// FrameError is a non-recoverable failure inside the render loop.
type FrameError struct {
	Frame uint64
	Op    string
	Err   error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d: %s: %v", e.Frame, e.Op, e.Err)
}

func (e *FrameError) Unwrap() error { return e.Err }
func (e *FrameError) Cause() error  { return e.Err }

func isError(ret vk.Result) bool {
	return ret != vk.Success
}

// NewError converts a Vulkan result into an error carrying a stack trace.
// vk.Success yields nil.
func NewError(ret vk.Result) error {
	if ret == vk.Success {
		return nil
	}
	return errors.WithStack(fmt.Errorf("vulkan error: %w (%d)", vk.Error(ret), ret))
}

func orPanic(err error) {
	if err != nil {
		panic(err)
	}
}

func checkErr(err *error) {
	if v := recover(); v != nil {
		if e, ok := v.(error); ok {
			*err = e
			return
		}
		*err = fmt.Errorf("%+v", v)
	}
}
