package viewer

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type stepLog struct {
	mu    sync.Mutex
	steps []Step
}

func (l *stepLog) add(s Step) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.steps = append(l.steps, s)
}

func (l *stepLog) ids() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.steps))
	for i, s := range l.steps {
		out[i] = s.Node.ID
	}
	return out
}

func fastPolicy(end EndPolicy) TourPolicy {
	return TourPolicy{Interval: 2 * time.Millisecond, End: end, StopOnSelect: true}
}

func waitDone(t *testing.T, r *TourRunner) {
	t.Helper()
	select {
	case <-r.Done():
	case <-time.After(5 * time.Second):
		r.Stop()
		t.Fatal("tour runner did not finish")
	}
}

func TestRunnerWrapsWithLimit(t *testing.T) {
	s := NewSession(roadmap.Builtin(), roadmap.RoleSDE, fastPolicy(EndWrap))
	log := &stepLog{}
	r := NewTourRunner(s, log.add)
	r.SetLimit(8)
	if err := r.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitDone(t, r)

	want := []string{"prog", "dsa", "oop", "db", "os", "sys", "prog", "dsa"}
	if diff := cmp.Diff(want, log.ids()); diff != "" {
		t.Errorf("steps mismatch (-want +got):\n%s", diff)
	}
	if !log.steps[6].Wrapped || log.steps[5].Wrapped {
		t.Error("only the return to the first node is marked wrapped")
	}
	if s.Touring() {
		t.Error("session tour must be stopped after the run")
	}
}

func TestRunnerHaltsAtEnd(t *testing.T) {
	s := NewSession(roadmap.Builtin(), roadmap.RoleSDE, fastPolicy(EndHalt))
	log := &stepLog{}
	r := NewTourRunner(s, log.add)
	if err := r.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitDone(t, r)

	if got := len(log.ids()); got != 6 {
		t.Errorf("expected 6 steps, got %d", got)
	}
	if s.Selected() != "sys" {
		t.Errorf("expected halt on sys, got %q", s.Selected())
	}
}

func TestRunnerStopAndCancel(t *testing.T) {
	s := NewSession(roadmap.Builtin(), roadmap.RoleSDE, TourPolicy{Interval: time.Hour})
	r := NewTourRunner(s, nil)
	if err := r.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !r.Running() {
		t.Fatal("runner should be running")
	}
	if err := r.Start(context.Background()); err != ErrTourRunning {
		t.Errorf("expected ErrTourRunning, got %v", err)
	}
	r.Stop()
	r.Stop()
	if r.Running() || s.Touring() {
		t.Error("stop must end the run")
	}
	if s.Selected() != "prog" {
		t.Errorf("stop keeps the selection, got %q", s.Selected())
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := r.Start(ctx); err != nil {
		t.Fatal(err)
	}
	cancel()
	waitDone(t, r)
}

func TestRunnerEmptyGraph(t *testing.T) {
	ds := &roadmap.Dataset{Graphs: map[roadmap.RoleID]roadmap.Graph{"empty": {}}, Default: "empty"}
	s := NewSession(ds, "empty", fastPolicy(EndWrap))
	called := false
	r := NewTourRunner(s, func(Step) { called = true })
	if err := r.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	waitDone(t, r)
	if called {
		t.Error("empty graph produces no steps")
	}
}

func TestRunnerStopBeforeStart(t *testing.T) {
	r := NewTourRunner(NewSession(nil, roadmap.RoleSDE, DefaultTourPolicy()), nil)
	r.Stop()
	<-r.Done()
}
