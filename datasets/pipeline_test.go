package datasets

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"testing"
)

// makeDataset builds n samples where sample i has a single feature i+1 at
// index i%dim and label labels(i).
func makeDataset(n, dim int, label func(i int) float64) *Dataset {
	ds := &Dataset{Dim: dim}
	for i := range n {
		ds.Rows = append(ds.Rows, Vector{Indices: []int{i % dim}, Values: []float64{float64(i + 1)}})
		ds.Labels = append(ds.Labels, label(i))
	}
	return ds
}

// pairKeys renders every (row, label) pair so datasets can be compared as
// multisets.
func pairKeys(ds *Dataset) []string {
	keys := make([]string, ds.Len())
	for i := range keys {
		keys[i] = fmt.Sprintf("%v|%v|%v", ds.Rows[i].Indices, ds.Rows[i].Values, ds.Labels[i])
	}
	sort.Strings(keys)
	return keys
}

func TestShuffle_PreservesPairs(t *testing.T) {
	ds := makeDataset(50, 7, func(i int) float64 { return float64(i % 3) })
	out, err := Shuffle(ds, rand.New(rand.NewSource(1)))
	if err != nil {
		t.Fatalf("Shuffle error: %v", err)
	}
	if out.Len() != ds.Len() {
		t.Fatalf("expected len %d, got %d", ds.Len(), out.Len())
	}
	if out.Dim != ds.Dim {
		t.Fatalf("expected dim %d, got %d", ds.Dim, out.Dim)
	}
	want, got := pairKeys(ds), pairKeys(out)
	for i := range want {
		if want[i] != got[i] {
			t.Fatalf("pair multiset differs at %d: %s vs %s", i, want[i], got[i])
		}
	}

	moved := false
	for i := range out.Labels {
		if out.Rows[i].Values[0] != float64(i+1) {
			moved = true
			break
		}
	}
	if !moved {
		t.Fatalf("expected shuffle to reorder 50 samples")
	}
}

func TestShuffle_DoesNotMutateInput(t *testing.T) {
	ds := makeDataset(10, 3, func(i int) float64 { return float64(i) })
	if _, err := Shuffle(ds, rand.New(rand.NewSource(2))); err != nil {
		t.Fatalf("Shuffle error: %v", err)
	}
	for i, y := range ds.Labels {
		if y != float64(i) {
			t.Fatalf("input label %d changed to %v", i, y)
		}
	}
}

func TestShuffle_DeterministicWithSeed(t *testing.T) {
	ds := makeDataset(20, 4, func(i int) float64 { return float64(i) })
	a, _ := Shuffle(ds, rand.New(rand.NewSource(42)))
	b, _ := Shuffle(ds, rand.New(rand.NewSource(42)))
	for i := range a.Labels {
		if a.Labels[i] != b.Labels[i] {
			t.Fatalf("same seed produced different order at %d", i)
		}
	}
}

func TestShuffle_LengthMismatch(t *testing.T) {
	ds := &Dataset{Dim: 1, Rows: make([]Vector, 3), Labels: []float64{1, 2}}
	_, err := Shuffle(ds, nil)
	if !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestSplit_Partitions(t *testing.T) {
	ds := makeDataset(10, 2, func(i int) float64 { return float64(i) })
	train, test, err := Split(ds, 0.75)
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	// floor(10*0.75) = 7
	if train.Len() != 7 || test.Len() != 3 {
		t.Fatalf("expected 7/3, got %d/%d", train.Len(), test.Len())
	}
	for i := range train.Labels {
		if train.Labels[i] != ds.Labels[i] || train.Rows[i].Values[0] != ds.Rows[i].Values[0] {
			t.Fatalf("train sample %d does not match input", i)
		}
	}
	for i := range test.Labels {
		if test.Labels[i] != ds.Labels[7+i] || test.Rows[i].Values[0] != ds.Rows[7+i].Values[0] {
			t.Fatalf("test sample %d does not match input", i)
		}
	}
}

func TestSplit_EmptyPartitions(t *testing.T) {
	ds := makeDataset(10, 2, func(i int) float64 { return 1 })

	train, test, err := Split(ds, 0.05)
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	if train.Len() != 0 || test.Len() != 10 {
		t.Fatalf("expected empty training partition, got %d/%d", train.Len(), test.Len())
	}

	train, test, err = Split(ds, 0.999)
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	if train.Len() != 9 || test.Len() != 1 {
		t.Fatalf("expected 9/1, got %d/%d", train.Len(), test.Len())
	}

	small := makeDataset(3, 2, func(i int) float64 { return 1 })
	train, test, err = Split(small, 0.99)
	if err != nil {
		t.Fatalf("Split error: %v", err)
	}
	// floor(3*0.99) = 2
	if train.Len() != 2 || test.Len() != 1 {
		t.Fatalf("expected 2/1, got %d/%d", train.Len(), test.Len())
	}
}

func TestSplit_InvalidRatio(t *testing.T) {
	ds := makeDataset(4, 2, func(i int) float64 { return 1 })
	for _, r := range []float64{0, 1, -0.5, 1.5, math.NaN()} {
		if _, _, err := Split(ds, r); !errors.Is(err, ErrInvalidRatio) {
			t.Fatalf("ratio %v: expected ErrInvalidRatio, got %v", r, err)
		}
	}
}

func TestEmptyDataset_AllStages(t *testing.T) {
	empty := &Dataset{Dim: 5}
	out, err := Shuffle(empty, nil)
	if err != nil || out.Len() != 0 {
		t.Fatalf("Shuffle on empty: len=%d err=%v", out.Len(), err)
	}
	train, test, err := Split(empty, 0.5)
	if err != nil || train.Len() != 0 || test.Len() != 0 {
		t.Fatalf("Split on empty: err=%v", err)
	}
	bin, err := BinaryFilter(empty, Classes{Positive: 1, Negative: 0}, nil)
	if err != nil || bin.Len() != 0 {
		t.Fatalf("BinaryFilter on empty: err=%v", err)
	}
	if got := RewriteZeroLabels(empty); got.Len() != 0 {
		t.Fatalf("RewriteZeroLabels on empty returned %d samples", got.Len())
	}
}

// TestBinaryFilter_FourSamples checks the [0,1,1,0] scenario: every sample
// survives, two become +1 and two -1, and each row keeps its own label.
func TestBinaryFilter_FourSamples(t *testing.T) {
	labels := []float64{0, 1, 1, 0}
	ds := makeDataset(4, 4, func(i int) float64 { return labels[i] })

	out, err := BinaryFilter(ds, Classes{Positive: 1, Negative: 0}, rand.New(rand.NewSource(7)))
	if err != nil {
		t.Fatalf("BinaryFilter error: %v", err)
	}
	if out.Len() != 4 {
		t.Fatalf("expected 4 samples, got %d", out.Len())
	}
	pos, neg := 0, 0
	for i, y := range out.Labels {
		// the feature value identifies the original sample
		orig := int(out.Rows[i].Values[0]) - 1
		want := -1.0
		if labels[orig] == 1 {
			want = 1
		}
		if y != want {
			t.Fatalf("sample from original %d labeled %v, want %v", orig, y, want)
		}
		if y == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos != 2 || neg != 2 {
		t.Fatalf("expected 2/2 labels, got %d/%d", pos, neg)
	}
}

func TestBinaryFilter_DropsOtherClasses(t *testing.T) {
	ds := makeDataset(100, 10, func(i int) float64 { return float64(i % 10) })
	out, err := BinaryFilter(ds, Classes{Positive: 3, Negative: 7}, rand.New(rand.NewSource(3)))
	if err != nil {
		t.Fatalf("BinaryFilter error: %v", err)
	}
	counts := LabelCounts(out)
	if counts[1] != 10 || counts[-1] != 10 || len(counts) != 2 {
		t.Fatalf("unexpected label counts %v", counts)
	}

	// The result must not stay grouped by class.
	grouped := true
	for i := range 10 {
		if out.Labels[i] != 1 {
			grouped = false
		}
	}
	if grouped {
		t.Fatalf("expected positives to be interleaved after shuffling")
	}
}

func TestBinaryFilter_NoMatches(t *testing.T) {
	ds := makeDataset(5, 2, func(i int) float64 { return 5 })
	out, err := BinaryFilter(ds, Classes{Positive: 1, Negative: 0}, nil)
	if err != nil {
		t.Fatalf("BinaryFilter error: %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected empty dataset, got %d samples", out.Len())
	}
}

func TestBinaryFilter_SameClass(t *testing.T) {
	ds := makeDataset(2, 2, func(i int) float64 { return 1 })
	if _, err := BinaryFilter(ds, Classes{Positive: 1, Negative: 1}, nil); !errors.Is(err, ErrInvalidParameters) {
		t.Fatalf("expected ErrInvalidParameters, got %v", err)
	}
}

func TestRewriteZeroLabels(t *testing.T) {
	ds := makeDataset(6, 2, func(i int) float64 { return float64(i % 2) })
	out := RewriteZeroLabels(ds)
	for i, y := range out.Labels {
		want := 1.0
		if i%2 == 0 {
			want = -1
		}
		if y != want {
			t.Fatalf("label %d: got %v want %v", i, y, want)
		}
	}
	if ds.Labels[0] != 0 {
		t.Fatalf("input labels were modified")
	}
}
