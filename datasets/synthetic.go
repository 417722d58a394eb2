package datasets

import (
	"context"
	"math/rand"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Synthetic generates a random two-class classification problem.
//
// The generator places Gaussian clusters on the vertices of a hypercube in
// the informative subspace (two clusters per class), stretches each cluster
// with a random linear map, derives Redundant features as random linear
// combinations of the informative ones and fills the remaining features with
// standard normal noise. A fraction FlipY of the labels is then replaced by
// a random class, and both columns and rows are shuffled.
//
// Labels are 0 or 1. Use RewriteZeroLabels when the consumer needs -1/+1.
type Synthetic struct {
	Samples  int
	Features int

	// Informative and Redundant default to 2 each and are reduced when
	// Features is too small to hold them. A negative Redundant disables
	// redundant features.
	Informative int
	Redundant   int

	// ClassSep is the half side of the hypercube. Default 1.0.
	ClassSep float64

	// FlipY is the fraction of labels assigned at random. Default 0.01,
	// negative disables flipping.
	FlipY float64

	// Rand drives every random draw. A time-seeded generator is used when nil.
	Rand *rand.Rand
}

const (
	defaultInformative = 2
	defaultRedundant   = 2
	defaultClassSep    = 1.0
	defaultFlipY       = 0.01
	numClasses         = 2
)

// NewSynthetic returns a generator for n samples of f features with the
// default problem shape.
func NewSynthetic(n, f int, rng *rand.Rand) *Synthetic {
	return &Synthetic{Samples: n, Features: f, Rand: rng}
}

// Dataset implements Source.
func (s *Synthetic) Dataset(ctx context.Context) (*Dataset, error) {
	if s.Samples <= 0 || s.Features <= 0 {
		return nil, errors.Wrapf(ErrInvalidParameters, "nsamples=%d nfeatures=%d must both be positive",
			s.Samples, s.Features)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rng := newRand(s.Rand)
	informative, redundant := s.shape()
	classSep := s.ClassSep
	if classSep == 0 {
		classSep = defaultClassSep
	}
	flipY := s.FlipY
	if flipY == 0 {
		flipY = defaultFlipY
	}

	// With a single informative feature there are only two vertices.
	clustersPerClass := 2
	if 1<<min(informative, 30) < numClasses*clustersPerClass {
		clustersPerClass = 1
	}
	nClusters := numClasses * clustersPerClass

	n, f := s.Samples, s.Features
	x := mat.NewDense(n, f, nil)
	for i := range n {
		for j := range f {
			x.Set(i, j, rng.NormFloat64())
		}
	}
	labels := make([]float64, n)

	centroids := hypercubeVertices(rng, informative, nClusters, classSep)
	start := 0
	for k := range nClusters {
		size := n / nClusters
		if k < n%nClusters {
			size++
		}
		stop := start + size
		for i := start; i < stop; i++ {
			labels[i] = float64(k % numClasses)
		}
		if size > 0 {
			cluster := x.Slice(start, stop, 0, informative).(*mat.Dense)
			var stretched mat.Dense
			stretched.Mul(cluster, uniformMatrix(rng, informative, informative))
			cluster.Copy(&stretched)
			for i := range size {
				for j := range informative {
					cluster.Set(i, j, cluster.At(i, j)+centroids[k][j])
				}
			}
		}
		start = stop
	}

	if redundant > 0 {
		var combos mat.Dense
		combos.Mul(x.Slice(0, n, 0, informative), uniformMatrix(rng, informative, redundant))
		x.Slice(0, n, informative, informative+redundant).(*mat.Dense).Copy(&combos)
	}

	if flipY > 0 {
		for i := range labels {
			if rng.Float64() < flipY {
				labels[i] = float64(rng.Intn(numClasses))
			}
		}
	}

	// Scatter the informative and redundant columns among the noise.
	perm := rng.Perm(f)
	shuffled := mat.NewDense(n, f, nil)
	col := make([]float64, n)
	for j, src := range perm {
		mat.Col(col, src, x)
		shuffled.SetCol(j, col)
	}

	ds, err := FromMatrix(shuffled, labels)
	if err != nil {
		return nil, err
	}
	return Shuffle(ds, rng)
}

func (s *Synthetic) shape() (informative, redundant int) {
	informative = s.Informative
	if informative <= 0 {
		informative = defaultInformative
	}
	redundant = s.Redundant
	if redundant < 0 {
		redundant = 0
	} else if redundant == 0 {
		redundant = defaultRedundant
	}
	informative = min(informative, s.Features)
	redundant = min(redundant, s.Features-informative)
	return informative, redundant
}

// uniformMatrix returns an r x c matrix with entries drawn from U(-1, 1).
func uniformMatrix(rng *rand.Rand, r, c int) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = 2*rng.Float64() - 1
	}
	return mat.NewDense(r, c, data)
}

// hypercubeVertices picks k distinct vertices of the dim-dimensional
// hypercube with half side sep.
func hypercubeVertices(rng *rand.Rand, dim, k int, sep float64) [][]float64 {
	seen := make(map[string]bool, k)
	out := make([][]float64, 0, k)
	var key strings.Builder
	for len(out) < k {
		key.Reset()
		v := make([]float64, dim)
		for j := range v {
			if rng.Intn(2) == 1 {
				v[j] = sep
				key.WriteByte('1')
			} else {
				v[j] = -sep
				key.WriteByte('0')
			}
		}
		if seen[key.String()] {
			continue
		}
		seen[key.String()] = true
		out = append(out, v)
	}
	return out
}
