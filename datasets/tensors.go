package datasets

import (
	"fmt"

	"github.com/gomlx/gomlx/pkg/core/tensors"
	"github.com/pkg/errors"
)

// BatchFlat stores a batch of samples in flat contiguous float32 buffers,
// the layout gomlx tensors are built from.
type BatchFlat struct {
	Inputs    []float32
	Labels    []float32
	BatchSize int
	InputDim  int
}

// MakeBatchFlat densifies the samples at indices into a BatchFlat. A nil
// indices slice selects every sample.
func MakeBatchFlat(ds *Dataset, indices []int) (*BatchFlat, error) {
	if err := checkLengths(ds); err != nil {
		return nil, err
	}
	if ds == nil {
		return &BatchFlat{}, nil
	}
	if indices == nil {
		indices = make([]int, ds.Len())
		for i := range indices {
			indices[i] = i
		}
	}

	b := &BatchFlat{
		Inputs:    make([]float32, len(indices)*ds.Dim),
		Labels:    make([]float32, len(indices)),
		BatchSize: len(indices),
		InputDim:  ds.Dim,
	}
	for pos, idx := range indices {
		if idx < 0 || idx >= ds.Len() {
			return nil, fmt.Errorf("index %d out of range [0, %d)", idx, ds.Len())
		}
		row := b.Inputs[pos*ds.Dim : (pos+1)*ds.Dim]
		v := ds.Rows[idx]
		for k, j := range v.Indices {
			if j >= ds.Dim {
				return nil, fmt.Errorf("sample %d has feature index %d beyond dimension %d", idx, j, ds.Dim)
			}
			row[j] = float32(v.Values[k])
		}
		b.Labels[pos] = float32(ds.Labels[idx])
	}
	return b, nil
}

// ToGomlxTensors copies the batch into an inputs tensor shaped
// [BatchSize, InputDim] and a labels tensor shaped [BatchSize, 1]. gomlx
// has no zero-sized batch, so an empty batch is an error.
func (b *BatchFlat) ToGomlxTensors() (inputs, labels *tensors.Tensor, err error) {
	if b.BatchSize <= 0 || b.InputDim <= 0 {
		return nil, nil, errors.Wrapf(ErrInvalidParameters, "cannot build tensors from a %dx%d batch", b.BatchSize, b.InputDim)
	}
	if len(b.Inputs) != b.BatchSize*b.InputDim || len(b.Labels) != b.BatchSize {
		return nil, nil, errors.Wrapf(ErrLengthMismatch, "batch of %dx%d holds %d inputs and %d labels",
			b.BatchSize, b.InputDim, len(b.Inputs), len(b.Labels))
	}
	inputs = tensors.FromFlatDataAndDimensions(b.Inputs, b.BatchSize, b.InputDim)
	labels = tensors.FromFlatDataAndDimensions(b.Labels, b.BatchSize, 1)
	return inputs, labels, nil
}
