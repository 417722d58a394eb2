package datasets

import (
	"math"
	"math/rand"
	"time"

	"github.com/pkg/errors"
)

// Classes selects the two labels kept by BinaryFilter.
type Classes struct {
	Positive float64
	Negative float64
}

// newRand returns rng, or a time-seeded generator when rng is nil.
func newRand(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Shuffle returns a new Dataset whose samples are a uniformly random
// permutation of ds. Rows and labels move together.
func Shuffle(ds *Dataset, rng *rand.Rand) (*Dataset, error) {
	if err := checkLengths(ds); err != nil {
		return nil, err
	}
	if ds == nil {
		return &Dataset{}, nil
	}
	perm := newRand(rng).Perm(ds.Len())
	return ds.Subset(perm), nil
}

// Split cuts an already shuffled dataset at floor(N*ratio). The first part
// is the training partition, the rest the test partition. Either part may
// be empty.
func Split(ds *Dataset, ratio float64) (train, test *Dataset, err error) {
	if math.IsNaN(ratio) || ratio <= 0 || ratio >= 1 {
		return nil, nil, errors.Wrapf(ErrInvalidRatio, "got %v", ratio)
	}
	if err := checkLengths(ds); err != nil {
		return nil, nil, err
	}
	if ds == nil {
		return &Dataset{}, &Dataset{}, nil
	}
	n := ds.Len()
	k := int(math.Floor(float64(n) * ratio))
	return ds.Slice(0, k), ds.Slice(k, n), nil
}

// BinaryFilter keeps the samples labeled classes.Positive or
// classes.Negative, relabels them +1 and -1, and shuffles the result so the
// two classes are interleaved.
func BinaryFilter(ds *Dataset, classes Classes, rng *rand.Rand) (*Dataset, error) {
	if classes.Positive == classes.Negative {
		return nil, errors.Wrapf(ErrInvalidParameters, "positive and negative class are both %v", classes.Positive)
	}
	if err := checkLengths(ds); err != nil {
		return nil, err
	}
	if ds == nil {
		return &Dataset{}, nil
	}

	var pos, neg []int
	for i, y := range ds.Labels {
		switch y {
		case classes.Positive:
			pos = append(pos, i)
		case classes.Negative:
			neg = append(neg, i)
		}
	}

	grouped := ds.Subset(append(pos, neg...))
	for i := range grouped.Labels {
		if i < len(pos) {
			grouped.Labels[i] = 1
		} else {
			grouped.Labels[i] = -1
		}
	}
	return Shuffle(grouped, rng)
}

// RewriteZeroLabels returns a copy of ds where every 0 label becomes -1.
// Some linear learners treat 0 as "unlabeled", so {0,1} outputs of the
// synthesizer are turned into {-1,1} before being written.
func RewriteZeroLabels(ds *Dataset) *Dataset {
	if ds == nil {
		return &Dataset{}
	}
	out := &Dataset{
		Dim:    ds.Dim,
		Rows:   ds.Rows,
		Labels: make([]float64, len(ds.Labels)),
	}
	for i, y := range ds.Labels {
		if y == 0 {
			y = -1
		}
		out.Labels[i] = y
	}
	return out
}
