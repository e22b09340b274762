//go:build ignore

// generate_testdata.go writes synthetic roadmap datasets for benchmarking
// the layout and export paths.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//
//	testdata/benchmark/small.yaml   (25 stages)
//	testdata/benchmark/medium.yaml  (100 stages)
//	testdata/benchmark/large.json   (500 stages)
//	testdata/benchmark/huge.json    (2000 stages)
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/roadmap/pkg/loader"
	"github.com/vanderheijden86/roadmap/pkg/roadmap"
	"github.com/vanderheijden86/roadmap/pkg/testutil"
)

type datasetSpec struct {
	name   string
	size   int
	format loader.Format
}

var datasets = []datasetSpec{
	{"small", 25, loader.FormatYAML},
	{"medium", 100, loader.FormatYAML},
	{"large", 500, loader.FormatJSON},
	{"huge", 2000, loader.FormatJSON},
}

var skills = []string{
	"Version Control",
	"Testing",
	"Networking",
	"Databases",
	"Observability",
	"Security",
	"Distributed Systems",
	"Performance",
}

func main() {
	outputDir := filepath.Join("testdata", "benchmark")
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, d := range datasets {
		fmt.Printf("Generating %s dataset (%d stages)...\n", d.name, d.size)

		gen := testutil.New(testutil.GeneratorConfig{
			Seed:         int64(d.size),
			Role:         roadmap.RoleID("bench-" + d.name),
			StatusMix:    []roadmap.Status{roadmap.StatusCompleted, roadmap.StatusActive, roadmap.StatusPending, roadmap.StatusPending},
			WithTimeline: true,
		})
		fixture := gen.RandomDAG(d.size, density(d.size))
		g := gen.ToGraph(fixture)
		for i := range g.Nodes {
			g.Nodes[i].Label = fmt.Sprintf("%s %d", skills[i%len(skills)], i)
			g.Nodes[i].Details.Skills = []string{skills[i%len(skills)], skills[(i+3)%len(skills)]}
		}

		path := filepath.Join(outputDir, d.name+"."+string(d.format))
		f, err := os.Create(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create %s: %v\n", path, err)
			os.Exit(1)
		}
		if err := loader.Encode(f, testutil.Dataset(g), d.format); err != nil {
			f.Close()
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", path, err)
			os.Exit(1)
		}
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to close %s: %v\n", path, err)
			os.Exit(1)
		}

		fmt.Printf("  Written %s (%d edges)\n", path, len(fixture.Edges))
	}

	fmt.Println("\nDone! Benchmark datasets created in", outputDir)
}

// density keeps the edge count roughly linear in the stage count.
func density(size int) float64 {
	switch {
	case size <= 25:
		return 0.15
	case size <= 100:
		return 0.05
	case size <= 500:
		return 0.01
	default:
		return 0.003
	}
}
