package hertra

import (
	"time"

	"github.com/pkg/errors"
	vk "github.com/vulkan-go/vulkan"
	"golang.org/x/exp/slog"
)

// SlotState is where a frame slot is in the per-frame protocol.
type SlotState int

const (
	SlotIdle SlotState = iota
	SlotWaiting
	SlotAcquiring
	SlotRecording
	SlotSubmitted
	SlotPresenting
)

func (s SlotState) String() string {
	switch s {
	case SlotIdle:
		return "idle"
	case SlotWaiting:
		return "waiting"
	case SlotAcquiring:
		return "acquiring"
	case SlotRecording:
		return "recording"
	case SlotSubmitted:
		return "submitted"
	case SlotPresenting:
		return "presenting"
	}
	return "unknown"
}

// LoopState is owned by the caller of the render loop and carried from one
// iteration to the next.
type LoopState struct {
	// FrameCounter counts frames that were submitted and presented.
	FrameCounter uint64
	// FPS is the rate measured over the last completed report interval.
	FPS float64

	framesSinceReport int
	lastReport        time.Time
}

// ReportFPS updates FPS once interval has passed since the previous report
// and tells whether it did.
func (l *LoopState) ReportFPS(now time.Time, interval time.Duration) bool {
	if l.lastReport.IsZero() {
		l.lastReport = now
		return false
	}
	elapsed := now.Sub(l.lastReport)
	if elapsed < interval {
		return false
	}
	l.FPS = float64(l.framesSinceReport) / elapsed.Seconds()
	l.framesSinceReport = 0
	l.lastReport = now
	return true
}

// frameTarget is the GPU side of the frame protocol. Results from acquire,
// submit and present are passed through untouched so the scheduler alone
// decides what is stale and what is fatal.
type frameTarget interface {
	imageCount() int
	waitSlot(slot int) error
	acquireImage(slot int) (uint32, vk.Result)
	writeUniforms(image uint32) error
	resetSlot(slot int) error
	submit(slot int, image uint32) vk.Result
	present(slot int, image uint32) vk.Result
	rebuild() error
}

// checkPresentable sorts an acquire or present result into usable,
// usable-but-suboptimal, stale (errOutOfDate) or fatal.
func checkPresentable(ret vk.Result) (suboptimal bool, err error) {
	switch ret {
	case vk.Success:
		return false, nil
	case vk.Suboptimal:
		return true, nil
	case vk.ErrorOutOfDate:
		return false, errOutOfDate
	}
	return false, NewError(ret)
}

const noSlot = -1

// FrameScheduler drives the wait, acquire, record, submit, present cycle
// over a fixed ring of frame slots.
type FrameScheduler struct {
	target   frameTarget
	slots    []SlotState
	rebuilds int

	// imagesInFlight maps each presentable image to the slot whose
	// submission last used it, or noSlot.
	imagesInFlight []int

	// observe, when set, sees every slot transition.
	observe func(slot int, state SlotState)
}

func NewFrameScheduler(renderer *CoreRenderInstance) *FrameScheduler {
	return newFrameScheduler(renderer, MaxFramesInFlight)
}

func newFrameScheduler(target frameTarget, slots int) *FrameScheduler {
	s := &FrameScheduler{
		target: target,
		slots:  make([]SlotState, slots),
	}
	s.resetImages()
	return s
}

func (s *FrameScheduler) resetImages() {
	s.imagesInFlight = make([]int, s.target.imageCount())
	for i := range s.imagesInFlight {
		s.imagesInFlight[i] = noSlot
	}
}

func (s *FrameScheduler) setState(slot int, state SlotState) {
	s.slots[slot] = state
	if s.observe != nil {
		s.observe(slot, state)
	}
}

func (s *FrameScheduler) SlotState(slot int) SlotState { return s.slots[slot] }
func (s *FrameScheduler) Rebuilds() int                { return s.rebuilds }

func (s *FrameScheduler) fail(state *LoopState, op string, err error) error {
	return &FrameError{Frame: state.FrameCounter, Op: op, Err: err}
}

// DrawFrame runs one iteration of the protocol on slot
// FrameCounter mod slots. A stale chain at acquire rebuilds and returns nil
// without drawing or advancing the counter. Any error returned is fatal.
func (s *FrameScheduler) DrawFrame(state *LoopState) error {
	slot := int(state.FrameCounter % uint64(len(s.slots)))

	s.setState(slot, SlotWaiting)
	if err := s.target.waitSlot(slot); err != nil {
		return s.fail(state, "wait", err)
	}

	s.setState(slot, SlotAcquiring)
	image, ret := s.target.acquireImage(slot)
	needRebuild, err := checkPresentable(ret)
	if errors.Is(err, errOutOfDate) {
		s.setState(slot, SlotIdle)
		Logger().Info("swapchain out of date on acquire", slog.Uint64("frame", state.FrameCounter))
		if err := s.rebuild(); err != nil {
			return s.fail(state, "rebuild", err)
		}
		return nil
	}
	if err != nil {
		return s.fail(state, "acquire", err)
	}

	// A previous slot may still be rendering to this image.
	if prev := s.imagesInFlight[image]; prev != noSlot && prev != slot {
		if err := s.target.waitSlot(prev); err != nil {
			return s.fail(state, "wait image", err)
		}
	}
	s.imagesInFlight[image] = slot

	s.setState(slot, SlotRecording)
	if err := s.target.writeUniforms(image); err != nil {
		return s.fail(state, "uniforms", err)
	}
	if err := s.target.resetSlot(slot); err != nil {
		return s.fail(state, "reset", err)
	}
	if ret := s.target.submit(slot, image); isError(ret) {
		return s.fail(state, "submit", NewError(ret))
	}
	s.setState(slot, SlotSubmitted)

	s.setState(slot, SlotPresenting)
	stale, err := checkPresentable(s.target.present(slot, image))
	switch {
	case errors.Is(err, errOutOfDate):
		needRebuild = true
	case err != nil:
		return s.fail(state, "present", err)
	case stale:
		needRebuild = true
	}
	s.setState(slot, SlotIdle)

	if needRebuild {
		if err := s.rebuild(); err != nil {
			return s.fail(state, "rebuild", err)
		}
	}
	state.FrameCounter++
	state.framesSinceReport++
	return nil
}

func (s *FrameScheduler) rebuild() error {
	if err := s.target.rebuild(); err != nil {
		return err
	}
	s.rebuilds++
	s.resetImages()
	return nil
}
