package datasets

import (
	"fmt"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// This file holds the in-memory dataset model shared by every stage of the
// preparation pipeline:
//
//	Source (Synthetic or Cached) -> Shuffle -> Split -> BinaryFilter -> svmlight
//
// Rows are stored sparsely because the two datasets we produce are either
// mostly zeros (MNIST pixels) or written sparsely anyway (svmlight only keeps
// non-zero entries). Stages never modify the Dataset they receive; they
// return a new one that may share row slices with its input, so rows must be
// treated as read-only once a Dataset is built.

// Vector is a sparse feature row. Indices are zero-based and strictly
// ascending; Values holds the matching non-zero feature values.
type Vector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of stored (non-zero) entries.
func (v Vector) Len() int {
	return len(v.Indices)
}

// Dense expands the vector into a slice of length dim. Entries at or beyond
// dim are dropped.
func (v Vector) Dense(dim int) []float64 {
	out := make([]float64, dim)
	for i, idx := range v.Indices {
		if idx < dim {
			out[idx] = v.Values[i]
		}
	}
	return out
}

// SparseFromDense keeps only the non-zero entries of row.
func SparseFromDense(row []float64) Vector {
	var v Vector
	for j, x := range row {
		if x != 0 {
			v.Indices = append(v.Indices, j)
			v.Values = append(v.Values, x)
		}
	}
	return v
}

// Dataset is a labeled feature matrix. Rows[i] is labeled by Labels[i].
type Dataset struct {
	// Dim is the declared dimensionality of every row.
	Dim int

	Rows   []Vector
	Labels []float64
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Labels)
}

// Validate checks that rows and labels pair up and that every stored index
// fits the declared dimensionality.
func (d *Dataset) Validate() error {
	if d == nil {
		return nil
	}
	if err := checkLengths(d); err != nil {
		return err
	}
	for i, row := range d.Rows {
		if len(row.Indices) != len(row.Values) {
			return errors.Wrapf(ErrDimensionMismatch, "row %d has %d indices and %d values",
				i, len(row.Indices), len(row.Values))
		}
		prev := -1
		for _, idx := range row.Indices {
			if idx <= prev || idx >= d.Dim {
				return errors.Wrapf(ErrDimensionMismatch, "row %d has index %d outside [0, %d) or out of order",
					i, idx, d.Dim)
			}
			prev = idx
		}
	}
	return nil
}

// Row returns sample i as a dense slice of length Dim.
func (d *Dataset) Row(i int) ([]float64, error) {
	if i < 0 || i >= len(d.Rows) {
		return nil, fmt.Errorf("index %d out of range [0, %d)", i, len(d.Rows))
	}
	return d.Rows[i].Dense(d.Dim), nil
}

// Subset returns a new Dataset holding the samples at indices, in that order.
func (d *Dataset) Subset(indices []int) *Dataset {
	out := &Dataset{
		Dim:    d.Dim,
		Rows:   make([]Vector, len(indices)),
		Labels: make([]float64, len(indices)),
	}
	for i, idx := range indices {
		out.Rows[i] = d.Rows[idx]
		out.Labels[i] = d.Labels[idx]
	}
	return out
}

// Slice returns samples [from, to) as a new Dataset. The result does not
// alias the receiver's slices, so appending to it is safe.
func (d *Dataset) Slice(from, to int) *Dataset {
	out := &Dataset{
		Dim:    d.Dim,
		Rows:   make([]Vector, to-from),
		Labels: make([]float64, to-from),
	}
	copy(out.Rows, d.Rows[from:to])
	copy(out.Labels, d.Labels[from:to])
	return out
}

// FromDense builds a Dataset from a dense feature matrix. All rows must
// have the same length.
func FromDense(features [][]float64, labels []float64) (*Dataset, error) {
	if len(features) != len(labels) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d feature rows and %d labels", len(features), len(labels))
	}
	ds := &Dataset{
		Rows:   make([]Vector, len(features)),
		Labels: append([]float64(nil), labels...),
	}
	for i, row := range features {
		if i == 0 {
			ds.Dim = len(row)
		} else if len(row) != ds.Dim {
			return nil, errors.Wrapf(ErrDimensionMismatch, "row %d has %d features, expected %d", i, len(row), ds.Dim)
		}
		ds.Rows[i] = SparseFromDense(row)
	}
	return ds, nil
}

// FromMatrix builds a Dataset from a gonum matrix, one sample per row.
func FromMatrix(m mat.Matrix, labels []float64) (*Dataset, error) {
	r, c := m.Dims()
	if r != len(labels) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d matrix rows and %d labels", r, len(labels))
	}
	ds := &Dataset{
		Dim:    c,
		Rows:   make([]Vector, r),
		Labels: append([]float64(nil), labels...),
	}
	row := make([]float64, c)
	for i := range r {
		mat.Row(row, i, m)
		ds.Rows[i] = SparseFromDense(row)
	}
	return ds, nil
}

// LabelCounts returns how many samples carry each label value.
func LabelCounts(d *Dataset) map[float64]int {
	counts := make(map[float64]int)
	if d == nil {
		return counts
	}
	for _, y := range d.Labels {
		counts[y]++
	}
	return counts
}

// NonZeros returns the total number of stored feature entries.
func NonZeros(d *Dataset) int {
	n := 0
	for _, row := range d.Rows {
		n += row.Len()
	}
	return n
}

func checkLengths(d *Dataset) error {
	if d == nil {
		return nil
	}
	if len(d.Rows) != len(d.Labels) {
		return errors.Wrapf(ErrLengthMismatch, "%d feature rows and %d labels", len(d.Rows), len(d.Labels))
	}
	return nil
}
