package hertra

import (
	"sync"

	"golang.org/x/exp/slog"
)

type teardownStep struct {
	name    string
	destroy func()
}

// Lifecycle records destroy steps in construction order and runs them in
// reverse. Anything pushed is torn down exactly once.
type Lifecycle struct {
	mu    sync.Mutex
	steps []teardownStep
	done  bool
}

// Push registers the destroy step of a component that was just built.
// Pushing after Teardown runs the step immediately.
func (l *Lifecycle) Push(name string, destroy func()) {
	l.mu.Lock()
	if l.done {
		l.mu.Unlock()
		destroy()
		return
	}
	l.steps = append(l.steps, teardownStep{name: name, destroy: destroy})
	l.mu.Unlock()
}

// Names lists the registered steps in teardown order.
func (l *Lifecycle) Names() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	names := make([]string, 0, len(l.steps))
	for i := len(l.steps) - 1; i >= 0; i-- {
		names = append(names, l.steps[i].name)
	}
	return names
}

// Teardown runs every step, last pushed first. Calling it again is a no-op.
func (l *Lifecycle) Teardown() {
	l.mu.Lock()
	steps := l.steps
	l.steps = nil
	l.done = true
	l.mu.Unlock()

	for i := len(steps) - 1; i >= 0; i-- {
		Logger().Info("destroying", slog.String("component", steps[i].name))
		steps[i].destroy()
	}
}
