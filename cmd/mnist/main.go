package main

// mnist downloads the MNIST digits, shuffles and splits them into training
// and test sets and writes four svmlight files into the output directory:
//
//   mnist, mnist.t                 all ten classes
//   mnist.binary, mnist.binary.t   digit 1 as +1 and digit 0 as -1
//
// Nothing is done when both binary files already exist, unless --force.
//
// Usage:
//   go run ./cmd/mnist --data-home . --out .

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/Noofbiz/svmdata/datasets"
	"github.com/Noofbiz/svmdata/svmlight"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

const (
	trainingFile       = "mnist"
	testFile           = "mnist.t"
	trainingFileBinary = "mnist.binary"
	testFileBinary     = "mnist.binary.t"
)

type config struct {
	dataHome  string
	outDir    string
	ratio     float64
	positive  float64
	negative  float64
	seed      int64
	force     bool
	zeroBased bool
	timeout   time.Duration
}

func main() {
	klog.InitFlags(nil)
	cfg := config{}
	flag.StringVar(&cfg.dataHome, "data-home", ".", "directory caching the raw MNIST files")
	flag.StringVar(&cfg.outDir, "out", ".", "directory receiving the svmlight files")
	flag.Float64Var(&cfg.ratio, "ratio", 0.8, "fraction of samples used for training")
	flag.Float64Var(&cfg.positive, "positive", 1, "digit labeled +1 in the binary files")
	flag.Float64Var(&cfg.negative, "negative", 0, "digit labeled -1 in the binary files")
	flag.Int64Var(&cfg.seed, "seed", 0, "random seed, 0 uses the current time")
	flag.BoolVar(&cfg.force, "force", false, "regenerate even if the binary files exist")
	flag.BoolVar(&cfg.zeroBased, "zero-based", true, "write zero-based feature indices")
	flag.DurationVar(&cfg.timeout, "timeout", 10*time.Minute, "download timeout, 0 disables it")
	flag.Parse()
	defer klog.Flush()

	ctx := context.Background()
	if cfg.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.timeout)
		defer cancel()
	}

	if err := run(ctx, cfg, datasets.NewCached(cfg.dataHome)); err != nil {
		klog.Errorf("mnist: %v", err)
		klog.Flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config, src datasets.Source) error {
	binTrain := filepath.Join(cfg.outDir, trainingFileBinary)
	binTest := filepath.Join(cfg.outDir, testFileBinary)
	if !cfg.force && datasets.AllExist(binTrain, binTest) {
		klog.Infof("%s and %s already exist, nothing to do", binTrain, binTest)
		return nil
	}

	seed := cfg.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	raw, err := src.Dataset(ctx)
	if err != nil {
		return err
	}
	shuffled, err := datasets.Shuffle(raw, rng)
	if err != nil {
		return err
	}
	training, test, err := datasets.Split(shuffled, cfg.ratio)
	if err != nil {
		return err
	}
	klog.Infof("Split %s samples into %s training and %s test",
		humanize.Comma(int64(shuffled.Len())), humanize.Comma(int64(training.Len())), humanize.Comma(int64(test.Len())))

	classes := datasets.Classes{Positive: cfg.positive, Negative: cfg.negative}
	binTraining, err := datasets.BinaryFilter(training, classes, rng)
	if err != nil {
		return err
	}
	binTesting, err := datasets.BinaryFilter(test, classes, rng)
	if err != nil {
		return err
	}

	opts := svmlight.Options{ZeroBased: cfg.zeroBased}
	outputs := []struct {
		name string
		ds   *datasets.Dataset
	}{
		{trainingFile, training},
		{testFile, test},
		{trainingFileBinary, binTraining},
		{testFileBinary, binTesting},
	}
	if err := os.MkdirAll(cfg.outDir, 0o755); err != nil {
		return &datasets.IOError{Op: "mkdir", Path: cfg.outDir, Err: err}
	}
	// The binary files go last so their presence marks a complete run.
	for _, out := range outputs {
		path := filepath.Join(cfg.outDir, out.name)
		if err := svmlight.WriteFile(path, out.ds, opts); err != nil {
			return errors.WithMessagef(err, "writing %s", out.name)
		}
		klog.Infof("Wrote %s (%s samples)", path, humanize.Comma(int64(out.ds.Len())))
	}
	return nil
}
