// Package svmlight reads and writes the sparse svmlight / libsvm text
// format:
//
//	<label> <index>:<value> <index>:<value> ...
//
// one sample per line, indices ascending, only non-zero features stored.
// Lines starting with '#' are comments.
package svmlight

import (
	"bufio"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/Noofbiz/svmdata/datasets"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

// Options controls how indices are numbered and what header is written.
type Options struct {
	// ZeroBased numbers the first feature 0 instead of 1.
	ZeroBased bool

	// Comment, when set, is written as a '#' header before the samples.
	Comment string

	// Features fixes the dimensionality when reading. Zero infers it from
	// the largest index found.
	Features int
}

// Write writes ds to w in svmlight format.
func Write(w io.Writer, ds *datasets.Dataset, opts Options) error {
	if err := checkDataset(ds); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	if err := writeHeader(bw, opts); err != nil {
		return err
	}

	base := 1
	if opts.ZeroBased {
		base = 0
	}
	buf := make([]byte, 0, 256)
	for i, y := range ds.Labels {
		buf = strconv.AppendFloat(buf[:0], y, 'g', -1, 64)
		row := ds.Rows[i]
		if !sort.IntsAreSorted(row.Indices) {
			row = sortedRow(row)
		}
		for k, idx := range row.Indices {
			if row.Values[k] == 0 {
				continue
			}
			buf = append(buf, ' ')
			buf = strconv.AppendInt(buf, int64(idx+base), 10)
			buf = append(buf, ':')
			buf = strconv.AppendFloat(buf, row.Values[k], 'g', -1, 64)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile writes ds to path atomically: the file either appears complete
// or not at all. A ".xz" suffix compresses the output.
//
// Length mismatches and indices that are repeated or outside [0, Dim) fail
// with datasets.ErrDimensionMismatch before anything is created; I/O failures are *datasets.IOError values.
func WriteFile(path string, ds *datasets.Dataset, opts Options) error {
	if err := checkDataset(ds); err != nil {
		return err
	}
	return datasets.WriteFileAtomic(path, func(w io.Writer) error {
		if !isXZ(path) {
			return Write(w, ds, opts)
		}
		zw, err := xz.NewWriter(w)
		if err != nil {
			return err
		}
		if err := Write(zw, ds, opts); err != nil {
			zw.Close()
			return err
		}
		return zw.Close()
	})
}

func writeHeader(w io.Writer, opts Options) error {
	if opts.Comment == "" {
		return nil
	}
	based := "one"
	if opts.ZeroBased {
		based = "zero"
	}
	var sb strings.Builder
	sb.WriteString("# Generated by svmdata\n")
	sb.WriteString("# Column indices are " + based + "-based\n")
	sb.WriteString("#\n")
	for _, line := range strings.Split(strings.TrimRight(opts.Comment, "\n"), "\n") {
		sb.WriteString("# " + line + "\n")
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

func checkDataset(ds *datasets.Dataset) error {
	if ds == nil {
		return errors.Wrap(datasets.ErrInvalidParameters, "nil dataset")
	}
	if len(ds.Rows) != len(ds.Labels) {
		return errors.Wrapf(datasets.ErrDimensionMismatch, "%d feature rows and %d labels",
			len(ds.Rows), len(ds.Labels))
	}
	for i, row := range ds.Rows {
		if len(row.Indices) != len(row.Values) {
			return errors.Wrapf(datasets.ErrDimensionMismatch, "row %d has %d indices and %d values",
				i, len(row.Indices), len(row.Values))
		}
		indices := row.Indices
		if !sort.IntsAreSorted(indices) {
			indices = sortedRow(row).Indices
		}
		prev := -1
		for _, idx := range indices {
			if idx < 0 || idx >= ds.Dim {
				return errors.Wrapf(datasets.ErrDimensionMismatch, "row %d has index %d outside [0, %d)", i, idx, ds.Dim)
			}
			if idx == prev {
				return errors.Wrapf(datasets.ErrDimensionMismatch, "row %d repeats index %d", i, idx)
			}
			prev = idx
		}
	}
	return nil
}

// sortedRow returns a copy of v ordered by index.
func sortedRow(v datasets.Vector) datasets.Vector {
	order := make([]int, len(v.Indices))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return v.Indices[order[a]] < v.Indices[order[b]] })
	out := datasets.Vector{Indices: make([]int, len(order)), Values: make([]float64, len(order))}
	for i, o := range order {
		out.Indices[i] = v.Indices[o]
		out.Values[i] = v.Values[o]
	}
	return out
}

func isXZ(path string) bool {
	return strings.HasSuffix(path, ".xz")
}
