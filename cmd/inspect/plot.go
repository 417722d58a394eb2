package main

import (
	"image/color"
	"os"
	"path/filepath"

	"github.com/Noofbiz/svmdata/datasets"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	labelsChart  = "labels.png"
	densityChart = "density.png"
)

// plotLabels writes a bar chart with one bar per label value.
func plotLabels(outDir string, counts map[float64]int) error {
	p := plot.New()
	p.Title.Text = "Samples per label"
	p.Y.Label.Text = "samples"

	labels := sortedLabels(counts)
	values := make(plotter.Values, len(labels))
	names := make([]string, len(labels))
	for i, y := range labels {
		values[i] = float64(counts[y])
		names[i] = formatLabel(y)
	}
	if len(values) > 0 {
		bars, err := plotter.NewBarChart(values, vg.Points(20))
		if err != nil {
			return err
		}
		bars.Color = color.RGBA{R: 20, G: 80, B: 200, A: 220}
		bars.LineStyle.Width = vg.Length(0)
		p.Add(bars)
		p.NominalX(names...)
	}
	p.Add(plotter.NewGrid())

	if err := ensureDir(outDir); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, filepath.Join(outDir, labelsChart))
}

// plotDensity writes a histogram of the number of non-zero features per
// sample.
func plotDensity(outDir string, ds *datasets.Dataset) error {
	p := plot.New()
	p.Title.Text = "Non-zero features per sample"
	p.X.Label.Text = "non-zeros"
	p.Y.Label.Text = "samples"

	if ds.Len() > 0 {
		values := make(plotter.Values, ds.Len())
		for i, row := range ds.Rows {
			values[i] = float64(row.Len())
		}
		hist, err := plotter.NewHist(values, 40)
		if err != nil {
			return err
		}
		hist.FillColor = color.RGBA{R: 120, G: 120, B: 120, A: 180}
		p.Add(hist)
	}
	p.Add(plotter.NewGrid())

	if err := ensureDir(outDir); err != nil {
		return err
	}
	return p.Save(6*vg.Inch, 4*vg.Inch, filepath.Join(outDir, densityChart))
}

func ensureDir(path string) error {
	if path == "" {
		return nil
	}
	return os.MkdirAll(path, 0755)
}
