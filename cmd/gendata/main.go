package main

// gendata writes a synthetic two-class dataset in svmlight format, ready for
// linear classifiers that expect -1/+1 labels.
//
// Usage:
//   go run ./cmd/gendata --nsamples 20000 --nfeatures 2000 --filename data.txt

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/Noofbiz/svmdata/datasets"
	"github.com/Noofbiz/svmdata/svmlight"

	"github.com/dustin/go-humanize"
	"k8s.io/klog/v2"
)

type config struct {
	samples   int
	features  int
	filename  string
	seed      int64
	zeroBased bool
}

func main() {
	klog.InitFlags(nil)
	cfg := config{}
	flag.IntVar(&cfg.samples, "nsamples", 20000, "the number of samples")
	flag.IntVar(&cfg.features, "nfeatures", 2000, "data dimension")
	flag.StringVar(&cfg.filename, "filename", "data.txt", "output filename (.xz to compress)")
	flag.Int64Var(&cfg.seed, "seed", 0, "random seed, 0 uses the current time")
	flag.BoolVar(&cfg.zeroBased, "zero-based", false, "write zero-based feature indices")
	flag.Parse()
	defer klog.Flush()

	if err := run(context.Background(), cfg); err != nil {
		klog.Errorf("gendata: %v", err)
		klog.Flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config) error {
	seed := cfg.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	start := time.Now()
	ds, err := generate(ctx, datasets.NewSynthetic(cfg.samples, cfg.features, rng))
	if err != nil {
		return err
	}
	klog.V(1).Infof("Synthesized %s samples in %s", humanize.Comma(int64(ds.Len())), time.Since(start))

	if err := svmlight.WriteFile(cfg.filename, ds, svmlight.Options{ZeroBased: cfg.zeroBased}); err != nil {
		return err
	}
	klog.Infof("Wrote %s samples x %d features to %s", humanize.Comma(int64(ds.Len())), ds.Dim, cfg.filename)
	return nil
}

// generate draws a dataset from src and turns its 0 labels into -1.
func generate(ctx context.Context, src datasets.Source) (*datasets.Dataset, error) {
	ds, err := src.Dataset(ctx)
	if err != nil {
		return nil, err
	}
	return datasets.RewriteZeroLabels(ds), nil
}
