package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Noofbiz/svmdata/datasets"
	"github.com/Noofbiz/svmdata/svmlight"
)

// TestRun_WritesSignedLabels synthesizes 100x10 and checks the written file
// only contains -1/+1 labels and one-based indices.
func TestRun_WritesSignedLabels(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	cfg := config{samples: 100, features: 10, filename: path, seed: 1}
	if err := run(context.Background(), cfg); err != nil {
		t.Fatalf("run error: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(b), "\n"), "\n")
	if len(lines) != 100 {
		t.Fatalf("expected 100 lines, got %d", len(lines))
	}
	for i, line := range lines {
		label := strings.Fields(line)[0]
		if label != "1" && label != "-1" {
			t.Fatalf("line %d has label %q", i, label)
		}
		if strings.Contains(line, " 0:") {
			t.Fatalf("line %d uses index 0 in a one-based file", i)
		}
	}

	ds, err := svmlight.ReadFile(path, svmlight.Options{})
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if ds.Dim != 10 {
		t.Fatalf("expected 10 features, got %d", ds.Dim)
	}
}

func TestRun_InvalidParameters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.txt")
	err := run(context.Background(), config{samples: 0, features: 10, filename: path})
	if !errors.Is(err, datasets.ErrInvalidParameters) {
		t.Fatalf("expected ErrInvalidParameters, got %v", err)
	}
	if _, statErr := os.Stat(path); !os.IsNotExist(statErr) {
		t.Fatalf("no output expected on failure")
	}
}

func TestGenerate_RewritesOnce(t *testing.T) {
	src := datasets.SourceFunc(func(ctx context.Context) (*datasets.Dataset, error) {
		return &datasets.Dataset{Dim: 1, Rows: make([]datasets.Vector, 3), Labels: []float64{0, 1, 0}}, nil
	})
	ds, err := generate(context.Background(), src)
	if err != nil {
		t.Fatalf("generate error: %v", err)
	}
	want := []float64{-1, 1, -1}
	for i, y := range want {
		if ds.Labels[i] != y {
			t.Fatalf("label %d: got %v want %v", i, ds.Labels[i], y)
		}
	}
}
