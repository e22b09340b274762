package metrics

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestRecordTracksMinMaxAvg(t *testing.T) {
	m := newTimingMetric("test")
	m.Record(4 * time.Millisecond)
	m.Record(2 * time.Millisecond)
	m.Record(6 * time.Millisecond)

	s := m.Stats()
	if s.Count != 3 {
		t.Fatalf("count = %d, want 3", s.Count)
	}
	if s.MinMs != 2 || s.MaxMs != 6 || s.AvgMs != 4 || s.TotalMs != 12 {
		t.Errorf("unexpected stats %+v", s)
	}

	m.Reset()
	if m.Count() != 0 || m.Stats().MinMs != 0 {
		t.Errorf("reset left data behind: %+v", m.Stats())
	}
}

func TestRecordConcurrent(t *testing.T) {
	m := newTimingMetric("concurrent")
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(1)
		go func(d time.Duration) {
			defer wg.Done()
			m.Record(d)
		}(time.Duration(i) * time.Microsecond)
	}
	wg.Wait()

	s := m.Stats()
	if s.Count != 50 {
		t.Fatalf("count = %d, want 50", s.Count)
	}
	if s.MinMs != 0.001 || s.MaxMs != 0.05 {
		t.Errorf("min/max = %v/%v", s.MinMs, s.MaxMs)
	}
}

func TestDisabledSkipsRecording(t *testing.T) {
	SetEnabled(false)
	defer SetEnabled(true)

	m := newTimingMetric("off")
	Timer(m)()
	m.Record(time.Millisecond)
	if m.Count() != 0 {
		t.Errorf("disabled metric recorded %d measurements", m.Count())
	}
}

func TestTimerAndReport(t *testing.T) {
	SetEnabled(true)
	ResetAll()
	defer ResetAll()

	var buf bytes.Buffer
	if err := WriteReport(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "no timings recorded") {
		t.Errorf("empty report = %q", buf.String())
	}

	stop := Timer(SceneBuild)
	time.Sleep(time.Millisecond)
	stop()
	if Timer(nil) == nil {
		t.Fatal("Timer(nil) must return a callable")
	}

	stats := AllTimingStats()
	if len(stats) != 1 || stats[0].Name != "scene_build" || stats[0].Count != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	buf.Reset()
	if err := WriteReport(&buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "OPERATION") || !strings.HasPrefix(lines[1], "scene_build") {
		t.Errorf("unexpected report:\n%s", buf.String())
	}
}
