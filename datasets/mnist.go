package datasets

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Cached loads the MNIST handwritten digits (70,000 samples of 28x28
// pixels, training and t10k sets concatenated) from a local cache
// directory. Raw gzip IDX files are kept under <Dir>/mnist and downloaded
// from the first working mirror when missing.
//
// Features are pixel intensities 0-255, labels are the digits 0-9.
type Cached struct {
	// Dir is the cache root, "." when empty.
	Dir string

	// Mirrors are base URLs tried in order. DefaultMNISTMirrors when empty.
	Mirrors []string

	// Client performs the downloads. http.DefaultClient when nil.
	Client *http.Client
}

// DefaultMNISTMirrors hosts the original IDX files.
var DefaultMNISTMirrors = []string{
	"https://storage.googleapis.com/cvdf-datasets/mnist/",
	"https://ossci-datasets.s3.amazonaws.com/mnist/",
}

const (
	idxImagesMagic = 2051
	idxLabelsMagic = 2049
	mnistSubdir    = "mnist"

	// Upper bounds on IDX header fields. MNIST itself has 60,000 images
	// of 28x28 pixels per file.
	maxIDXItems  = 1 << 20
	maxIDXPixels = 1 << 16
)

// mnistParts lists the (images, labels) file pairs in load order.
var mnistParts = [][2]string{
	{"train-images-idx3-ubyte.gz", "train-labels-idx1-ubyte.gz"},
	{"t10k-images-idx3-ubyte.gz", "t10k-labels-idx1-ubyte.gz"},
}

// NewCached returns a MNIST source caching into dir.
func NewCached(dir string) *Cached {
	return &Cached{Dir: dir}
}

// CacheDir returns the directory holding the raw IDX files.
func (c *Cached) CacheDir() string {
	dir := c.Dir
	if dir == "" {
		dir = "."
	}
	return filepath.Join(dir, mnistSubdir)
}

// Dataset implements Source.
func (c *Cached) Dataset(ctx context.Context) (*Dataset, error) {
	all := &Dataset{}
	for _, part := range mnistParts {
		ds, err := c.loadPart(ctx, part)
		if err != nil {
			return nil, err
		}
		if all.Dim == 0 {
			all.Dim = ds.Dim
		} else if all.Dim != ds.Dim {
			return nil, errors.Wrapf(ErrSourceUnavailable, "%s has %d pixels per image, expected %d", part[0], ds.Dim, all.Dim)
		}
		all.Rows = append(all.Rows, ds.Rows...)
		all.Labels = append(all.Labels, ds.Labels...)
	}
	klog.V(1).Infof("Loaded MNIST: %s samples of %d features", humanize.Comma(int64(all.Len())), all.Dim)
	return all, nil
}

// loadPart decodes one (images, labels) pair. When a cached copy does not
// decode, the pair is evicted and downloaded again once.
func (c *Cached) loadPart(ctx context.Context, part [2]string) (*Dataset, error) {
	for attempt := 0; ; attempt++ {
		imagesPath, imagesCached, err := c.fetch(ctx, part[0])
		if err != nil {
			return nil, err
		}
		labelsPath, labelsCached, err := c.fetch(ctx, part[1])
		if err != nil {
			return nil, err
		}
		ds, err := readIDXPair(imagesPath, labelsPath)
		if err == nil {
			return ds, nil
		}
		if attempt > 0 || !(imagesCached || labelsCached) {
			return nil, fmt.Errorf("%w: %w", ErrSourceUnavailable, err)
		}
		klog.Warningf("Cached MNIST files are unreadable, downloading again: %v", err)
		os.Remove(imagesPath)
		os.Remove(labelsPath)
	}
}

// fetch returns the local path of name and whether it came from the cache,
// downloading it when missing.
func (c *Cached) fetch(ctx context.Context, name string) (string, bool, error) {
	dir := c.CacheDir()
	path := filepath.Join(dir, name)
	if fileExists(path) {
		klog.V(1).Infof("Using cached %s", path)
		return path, true, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", false, fmt.Errorf("%w: %w", ErrSourceUnavailable, &IOError{Op: "mkdir", Path: dir, Err: err})
	}

	mirrors := c.Mirrors
	if len(mirrors) == 0 {
		mirrors = DefaultMNISTMirrors
	}
	var lastErr error
	for _, base := range mirrors {
		url := base + name
		n, err := c.download(ctx, url, path)
		if err == nil {
			klog.Infof("Downloaded %s (%s)", url, humanize.Bytes(uint64(n)))
			return path, false, nil
		}
		klog.Warningf("Download of %s failed: %v", url, err)
		lastErr = err
		if ctx.Err() != nil {
			break
		}
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no mirrors configured")
	}
	return "", false, fmt.Errorf("%w: %s: %w", ErrSourceUnavailable, name, lastErr)
}

// download stores url at path through a temporary file in the same
// directory, so an interrupted transfer never looks like a cached file.
func (c *Cached) download(ctx context.Context, url, path string) (int64, error) {
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("unexpected status %s", resp.Status)
	}

	var n int64
	err = writeAtomic(path, func(w io.Writer) error {
		var err error
		n, err = io.Copy(w, resp.Body)
		return err
	})
	return n, err
}

// readIDXPair decodes a gzip'ed IDX image file and its label file.
func readIDXPair(imagesPath, labelsPath string) (*Dataset, error) {
	images, rows, cols, err := readIDXImages(imagesPath)
	if err != nil {
		return nil, err
	}
	labels, err := readIDXLabels(labelsPath)
	if err != nil {
		return nil, err
	}
	if len(images) != len(labels) {
		return nil, fmt.Errorf("%s has %d images but %s has %d labels",
			imagesPath, len(images), labelsPath, len(labels))
	}
	return &Dataset{Dim: rows * cols, Rows: images, Labels: labels}, nil
}

func openGzip(path string) (io.ReadCloser, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	zr, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		f.Close()
		return nil, nil, fmt.Errorf("failed to open gzip stream %s: %w", path, err)
	}
	closeAll := func() error {
		zr.Close()
		return f.Close()
	}
	return zr, closeAll, nil
}

func readIDXImages(path string) ([]Vector, int, int, error) {
	r, closeAll, err := openGzip(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer closeAll()

	var header [4]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, 0, 0, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	if header[0] != idxImagesMagic {
		return nil, 0, 0, fmt.Errorf("%s: bad magic %d, expected %d", path, header[0], idxImagesMagic)
	}
	count, rows, cols := int(header[1]), int(header[2]), int(header[3])
	if count > maxIDXItems {
		return nil, 0, 0, fmt.Errorf("%s: %d images exceeds the limit of %d", path, count, maxIDXItems)
	}
	if rows == 0 || cols == 0 || rows > maxIDXPixels || cols > maxIDXPixels || rows*cols > maxIDXPixels {
		return nil, 0, 0, fmt.Errorf("%s: image size %dx%d outside (0, %d] pixels", path, rows, cols, maxIDXPixels)
	}

	// count is read from the file, so images grows as records arrive.
	images := make([]Vector, 0, min(count, 1<<16))
	pixels := make([]byte, rows*cols)
	for i := range count {
		if _, err := io.ReadFull(r, pixels); err != nil {
			return nil, 0, 0, fmt.Errorf("failed to read image %d of %s: %w", i, path, err)
		}
		var v Vector
		for j, p := range pixels {
			if p != 0 {
				v.Indices = append(v.Indices, j)
				v.Values = append(v.Values, float64(p))
			}
		}
		images = append(images, v)
	}
	return images, rows, cols, nil
}

func readIDXLabels(path string) ([]float64, error) {
	r, closeAll, err := openGzip(path)
	if err != nil {
		return nil, err
	}
	defer closeAll()

	var header [2]uint32
	if err := binary.Read(r, binary.BigEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header of %s: %w", path, err)
	}
	if header[0] != idxLabelsMagic {
		return nil, fmt.Errorf("%s: bad magic %d, expected %d", path, header[0], idxLabelsMagic)
	}
	if header[1] > maxIDXItems {
		return nil, fmt.Errorf("%s: %d labels exceeds the limit of %d", path, header[1], maxIDXItems)
	}
	raw := make([]byte, header[1])
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("failed to read labels of %s: %w", path, err)
	}
	labels := make([]float64, len(raw))
	for i, b := range raw {
		labels[i] = float64(b)
	}
	return labels, nil
}
