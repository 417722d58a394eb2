package datasets

import "context"

// Source produces a raw labeled Dataset. Two implementations exist:
// Synthetic generates a random binary classification problem and Cached
// loads MNIST from a local cache directory, downloading it on first use.
//
// The rest of the pipeline only sees this interface, so it can be tested
// with in-memory sources.
type Source interface {
	Dataset(ctx context.Context) (*Dataset, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(ctx context.Context) (*Dataset, error)

// Dataset calls f.
func (f SourceFunc) Dataset(ctx context.Context) (*Dataset, error) {
	return f(ctx)
}
