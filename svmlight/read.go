package svmlight

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Noofbiz/svmdata/datasets"
	"github.com/pkg/errors"
	"github.com/ulikunitz/xz"
)

// ErrMalformed is returned for lines that are not valid svmlight samples.
var ErrMalformed = errors.New("malformed svmlight data")

// Read parses svmlight data from r. Blank lines, '#' comments and qid
// tokens are skipped. Indices are shifted to zero-based according to
// opts.ZeroBased.
func Read(r io.Reader, opts Options) (*datasets.Dataset, error) {
	base := 1
	if opts.ZeroBased {
		base = 0
	}
	ds := &datasets.Dataset{}
	maxIdx := -1

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		y, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, errors.Wrapf(ErrMalformed, "line %d: bad label %q", lineNo, fields[0])
		}
		var v datasets.Vector
		prev := -1
		for _, tok := range fields[1:] {
			name, value, ok := strings.Cut(tok, ":")
			if !ok {
				return nil, errors.Wrapf(ErrMalformed, "line %d: token %q is not index:value", lineNo, tok)
			}
			if name == "qid" {
				continue
			}
			idx, err := strconv.Atoi(name)
			if err != nil {
				return nil, errors.Wrapf(ErrMalformed, "line %d: bad index %q", lineNo, name)
			}
			idx -= base
			if idx < 0 {
				return nil, errors.Wrapf(ErrMalformed, "line %d: index %s below %d", lineNo, name, base)
			}
			if idx <= prev {
				return nil, errors.Wrapf(ErrMalformed, "line %d: indices not strictly ascending at %s", lineNo, name)
			}
			prev = idx
			x, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, errors.Wrapf(ErrMalformed, "line %d: bad value %q", lineNo, value)
			}
			if x == 0 {
				continue
			}
			v.Indices = append(v.Indices, idx)
			v.Values = append(v.Values, x)
		}
		if prev > maxIdx {
			maxIdx = prev
		}
		ds.Rows = append(ds.Rows, v)
		ds.Labels = append(ds.Labels, y)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	ds.Dim = maxIdx + 1
	if opts.Features > 0 {
		if opts.Features < ds.Dim {
			return nil, errors.Wrapf(datasets.ErrDimensionMismatch, "found feature index %d but %d features requested",
				maxIdx+base, opts.Features)
		}
		ds.Dim = opts.Features
	}
	return ds, nil
}

// ReadFile reads an svmlight file, decompressing it when the name ends in
// ".xz".
func ReadFile(path string, opts Options) (*datasets.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &datasets.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	var r io.Reader = bufio.NewReader(f)
	if isXZ(path) {
		zr, err := xz.NewReader(r)
		if err != nil {
			return nil, &datasets.IOError{Op: "read", Path: path, Err: err}
		}
		r = zr
	}
	ds, err := Read(r, opts)
	if err != nil {
		if errors.Is(err, ErrMalformed) || errors.Is(err, datasets.ErrDimensionMismatch) {
			return nil, errors.WithMessage(err, path)
		}
		return nil, &datasets.IOError{Op: "read", Path: path, Err: err}
	}
	return ds, nil
}
