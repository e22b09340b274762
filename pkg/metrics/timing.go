// Package metrics times the hot paths of the roadmap tools: dataset
// loading, validation, layout and the export writers.
//
// Measurements are kept in memory with atomic counters. Collection is on
// by default and is switched off with ROADMAP_METRICS=0.
//
//	func BuildScene(...) Scene {
//	    defer metrics.Timer(metrics.SceneBuild)()
//	    ...
//	}
package metrics

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
	"text/tabwriter"
	"time"
)

// EnvVar disables collection when set to "0".
const EnvVar = "ROADMAP_METRICS"

var enabled atomic.Bool

func init() {
	enabled.Store(os.Getenv(EnvVar) != "0")
}

// Enabled reports whether measurements are recorded.
func Enabled() bool {
	return enabled.Load()
}

// SetEnabled switches collection on or off.
func SetEnabled(e bool) {
	enabled.Store(e)
}

// TimingMetric accumulates durations of one named operation.
type TimingMetric struct {
	name    string
	count   atomic.Int64
	totalNs atomic.Int64
	maxNs   atomic.Int64
	minNs   atomic.Int64 // 0 until the first measurement
}

func newTimingMetric(name string) *TimingMetric {
	return &TimingMetric{name: name}
}

// Record adds one measurement.
func (m *TimingMetric) Record(d time.Duration) {
	if !Enabled() {
		return
	}
	ns := d.Nanoseconds()
	m.count.Add(1)
	m.totalNs.Add(ns)

	for {
		old := m.maxNs.Load()
		if ns <= old || m.maxNs.CompareAndSwap(old, ns) {
			break
		}
	}
	for {
		old := m.minNs.Load()
		if old != 0 && ns >= old {
			break
		}
		if m.minNs.CompareAndSwap(old, ns) {
			break
		}
	}
}

// Name returns the metric name.
func (m *TimingMetric) Name() string {
	return m.name
}

// Count returns the number of measurements.
func (m *TimingMetric) Count() int64 {
	return m.count.Load()
}

// Stats snapshots the metric.
func (m *TimingMetric) Stats() TimingStats {
	count := m.count.Load()
	total := m.totalNs.Load()
	var avg int64
	if count > 0 {
		avg = total / count
	}
	return TimingStats{
		Name:    m.name,
		Count:   count,
		TotalMs: float64(total) / 1e6,
		AvgMs:   float64(avg) / 1e6,
		MaxMs:   float64(m.maxNs.Load()) / 1e6,
		MinMs:   float64(m.minNs.Load()) / 1e6,
	}
}

// Reset clears all measurements.
func (m *TimingMetric) Reset() {
	m.count.Store(0)
	m.totalNs.Store(0)
	m.maxNs.Store(0)
	m.minNs.Store(0)
}

// TimingStats is a point-in-time view of a TimingMetric.
type TimingStats struct {
	Name    string  `json:"name"`
	Count   int64   `json:"count"`
	TotalMs float64 `json:"total_ms"`
	AvgMs   float64 `json:"avg_ms"`
	MaxMs   float64 `json:"max_ms"`
	MinMs   float64 `json:"min_ms,omitempty"`
}

// Timer starts timing m and returns the function that stops it. Use it
// with defer.
func Timer(m *TimingMetric) func() {
	if !Enabled() || m == nil {
		return func() {}
	}
	start := time.Now()
	return func() {
		m.Record(time.Since(start))
	}
}

// Operations timed across the module.
var (
	DatasetLoad   = newTimingMetric("dataset_load")
	Validation    = newTimingMetric("validation")
	LearningOrder = newTimingMetric("learning_order")
	SceneBuild    = newTimingMetric("scene_build")
	CanvasRender  = newTimingMetric("canvas_render")
	SnapshotSVG   = newTimingMetric("snapshot_svg")
	SnapshotPNG   = newTimingMetric("snapshot_png")
	SQLiteExport  = newTimingMetric("sqlite_export")
)

// AllTimingMetrics returns every registered metric.
func AllTimingMetrics() []*TimingMetric {
	return []*TimingMetric{
		DatasetLoad,
		Validation,
		LearningOrder,
		SceneBuild,
		CanvasRender,
		SnapshotSVG,
		SnapshotPNG,
		SQLiteExport,
	}
}

// ResetAll resets every registered metric.
func ResetAll() {
	for _, m := range AllTimingMetrics() {
		m.Reset()
	}
}

// AllTimingStats returns stats for the metrics that have measurements.
func AllTimingStats() []TimingStats {
	all := AllTimingMetrics()
	stats := make([]TimingStats, 0, len(all))
	for _, m := range all {
		if m.Count() > 0 {
			stats = append(stats, m.Stats())
		}
	}
	return stats
}

// WriteReport prints the non-empty metrics as a table.
func WriteReport(w io.Writer) error {
	stats := AllTimingStats()
	if len(stats) == 0 {
		_, err := fmt.Fprintln(w, "no timings recorded")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OPERATION\tCOUNT\tTOTAL\tAVG\tMAX")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%.2fms\t%.2fms\t%.2fms\n", s.Name, s.Count, s.TotalMs, s.AvgMs, s.MaxMs)
	}
	return tw.Flush()
}
