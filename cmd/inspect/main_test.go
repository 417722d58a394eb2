package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Noofbiz/svmdata/datasets"
	"github.com/Noofbiz/svmdata/svmlight"
)

func writeSample(t *testing.T, path string) {
	t.Helper()
	ds := &datasets.Dataset{
		Dim: 4,
		Rows: []datasets.Vector{
			{Indices: []int{0, 2}, Values: []float64{1, 2}},
			{Indices: []int{1}, Values: []float64{3}},
			{Indices: []int{0, 1, 3}, Values: []float64{4, 5, 6}},
		},
		Labels: []float64{1, -1, 1},
	}
	if err := svmlight.WriteFile(path, ds, svmlight.Options{}); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}
}

func TestSummarize(t *testing.T) {
	ds := &datasets.Dataset{
		Dim:    2,
		Rows:   []datasets.Vector{{Indices: []int{0}, Values: []float64{1}}, {}},
		Labels: []float64{1, -1},
	}
	lines := summarize(ds)
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"samples: 2", "features: 2", "non-zeros: 1 (density 0.2500)", "labels: -1=1 1=1"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("summary missing %q:\n%s", want, joined)
		}
	}
}

// TestRun_WritesCharts runs the whole inspection on a small file and
// expects both charts on disk.
func TestRun_WritesCharts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	writeSample(t, path)

	out := filepath.Join(dir, "charts")
	if err := run(config{file: path, outDir: out, batch: 2}); err != nil {
		t.Fatalf("run error: %v", err)
	}
	for _, name := range []string{labelsChart, densityChart} {
		info, err := os.Stat(filepath.Join(out, name))
		if err != nil {
			t.Fatalf("expected %s: %v", name, err)
		}
		if info.Size() == 0 {
			t.Fatalf("%s is empty", name)
		}
	}
}

func TestRun_MissingFile(t *testing.T) {
	err := run(config{file: filepath.Join(t.TempDir(), "missing.txt")})
	if err == nil {
		t.Fatalf("expected error for missing file")
	}
}
