package viewer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/vanderheijden86/roadmap/pkg/debug"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"
)

// ErrTourRunning is returned by Start when the runner is already active.
var ErrTourRunning = errors.New("tour already running")

// Step is one stop of a headless tour.
type Step struct {
	// Count is the 1-based number of the step within this run.
	Count int
	Index int
	Node  roadmap.Node
	// Wrapped is set when the tour returned to the first node.
	Wrapped bool
}

// TourRunner drives a Session's tour on a real clock without a UI. It owns
// its ticker and cancel func; Stop releases both on every exit path.
//
// While running, the runner's goroutine is the only writer of the session.
type TourRunner struct {
	session *Session
	onStep  func(Step)
	limit   int

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewTourRunner creates a runner for s. onStep is called from the runner's
// goroutine for the first node and after every applied tick.
func NewTourRunner(s *Session, onStep func(Step)) *TourRunner {
	if onStep == nil {
		onStep = func(Step) {}
	}
	return &TourRunner{session: s, onStep: onStep}
}

// SetLimit stops the run after n steps. Zero means no limit.
func (r *TourRunner) SetLimit(n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.limit = n
}

// Start begins a tour and returns immediately. The run ends when ctx is
// cancelled, Stop is called, the step limit is reached, or the tour halts
// at the last node.
func (r *TourRunner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return ErrTourRunning
	}

	tok := r.session.StartTour()
	done := make(chan struct{})
	if tok == 0 {
		close(done)
		r.done = done
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.done = done
	r.running = true

	ticker := time.NewTicker(r.session.Policy().Interval)
	go r.loop(ctx, ticker, tok, r.limit, done)
	return nil
}

func (r *TourRunner) loop(ctx context.Context, ticker *time.Ticker, tok Token, limit int, done chan struct{}) {
	defer func() {
		ticker.Stop()
		r.session.StopTour()
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
		close(done)
	}()

	count := 0
	emit := func(wrapped bool) bool {
		count++
		n, _ := r.session.SelectedNode()
		r.onStep(Step{Count: count, Index: r.session.SelectedIndex(), Node: n, Wrapped: wrapped})
		return limit <= 0 || count < limit
	}

	if !emit(false) {
		return
	}
	for {
		select {
		case <-ctx.Done():
			debug.Log("viewer: tour runner cancelled after %d steps", count)
			return
		case <-ticker.C:
			prev := r.session.SelectedIndex()
			if !r.session.Tick(tok) || !r.session.Touring() {
				return
			}
			wrapped := r.session.SelectedIndex() < prev
			if !emit(wrapped) {
				return
			}
		}
	}
}

// Stop cancels the run and waits for the goroutine to exit. It is safe to
// call more than once and on a runner that never started.
func (r *TourRunner) Stop() {
	r.mu.Lock()
	cancel, done := r.cancel, r.done
	r.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Done is closed when the current run ends.
func (r *TourRunner) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return r.done
}

// Running reports whether a run is in progress.
func (r *TourRunner) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
