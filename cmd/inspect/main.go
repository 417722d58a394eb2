package main

// inspect loads an svmlight file, logs a summary of its contents, renders
// the class balance and row density as PNG charts and checks that a batch
// converts to gomlx tensors.
//
// Usage:
//   go run ./cmd/inspect --file data.txt --out output

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/Noofbiz/svmdata/datasets"
	"github.com/Noofbiz/svmdata/svmlight"

	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"
)

type config struct {
	file      string
	outDir    string
	zeroBased bool
	features  int
	batch     int
}

func main() {
	klog.InitFlags(nil)
	cfg := config{}
	flag.StringVar(&cfg.file, "file", "data.txt", "svmlight file to inspect (.xz supported)")
	flag.StringVar(&cfg.outDir, "out", "output", "directory receiving the charts, empty to skip them")
	flag.BoolVar(&cfg.zeroBased, "zero-based", false, "the file uses zero-based feature indices")
	flag.IntVar(&cfg.features, "nfeatures", 0, "declared dimensionality, 0 infers it")
	flag.IntVar(&cfg.batch, "batch", 32, "number of samples converted to gomlx tensors")
	flag.Parse()
	defer klog.Flush()

	if err := run(cfg); err != nil {
		klog.Errorf("inspect: %v", err)
		klog.Flush()
		os.Exit(1)
	}
}

func run(cfg config) error {
	ds, err := svmlight.ReadFile(cfg.file, svmlight.Options{ZeroBased: cfg.zeroBased, Features: cfg.features})
	if err != nil {
		return err
	}
	for _, line := range summarize(ds) {
		klog.Info(line)
	}

	if cfg.outDir != "" {
		if err := plotLabels(cfg.outDir, datasets.LabelCounts(ds)); err != nil {
			return fmt.Errorf("failed to plot labels: %w", err)
		}
		if err := plotDensity(cfg.outDir, ds); err != nil {
			return fmt.Errorf("failed to plot density: %w", err)
		}
		klog.Infof("Charts written to %s", cfg.outDir)
	}

	n := min(cfg.batch, ds.Len())
	if n > 0 && ds.Dim > 0 {
		indices := make([]int, n)
		for i := range n {
			indices[i] = i
		}
		flat, err := datasets.MakeBatchFlat(ds, indices)
		if err != nil {
			return err
		}
		inT, labT, err := flat.ToGomlxTensors()
		if err != nil {
			return err
		}
		klog.Infof("Batch tensors: inputs %s, labels %s", inT.Shape(), labT.Shape())
	}
	return nil
}

// summarize describes ds in a few human readable lines.
func summarize(ds *datasets.Dataset) []string {
	nnz := datasets.NonZeros(ds)
	density := 0.0
	if ds.Len() > 0 && ds.Dim > 0 {
		density = float64(nnz) / (float64(ds.Len()) * float64(ds.Dim))
	}
	lines := []string{
		fmt.Sprintf("samples: %s", humanize.Comma(int64(ds.Len()))),
		fmt.Sprintf("features: %d", ds.Dim),
		fmt.Sprintf("non-zeros: %s (density %.4f)", humanize.Comma(int64(nnz)), density),
	}

	counts := datasets.LabelCounts(ds)
	labels := sortedLabels(counts)
	parts := make([]string, len(labels))
	for i, y := range labels {
		parts[i] = fmt.Sprintf("%s=%d", formatLabel(y), counts[y])
	}
	lines = append(lines, "labels: "+strings.Join(parts, " "))
	return lines
}

func sortedLabels(counts map[float64]int) []float64 {
	labels := make([]float64, 0, len(counts))
	for y := range counts {
		labels = append(labels, y)
	}
	sort.Float64s(labels)
	return labels
}

func formatLabel(y float64) string {
	return strconv.FormatFloat(y, 'g', -1, 64)
}
