package main

// Example command that walks a small synthetic dataset through the whole
// preparation pipeline (synthesize, shuffle, split, binary filter) and
// converts the training partition into gomlx tensors.
//
// Usage:
//   go run ./datasets/example

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/Noofbiz/svmdata/datasets"
)

func main() {
	rng := rand.New(rand.NewSource(42))

	src := datasets.NewSynthetic(200, 8, rng)
	raw, err := src.Dataset(context.Background())
	if err != nil {
		log.Fatalf("failed to synthesize dataset: %v", err)
	}
	fmt.Printf("Synthesized %d samples of %d features, labels %v\n", raw.Len(), raw.Dim, datasets.LabelCounts(raw))

	shuffled, err := datasets.Shuffle(raw, rng)
	if err != nil {
		log.Fatalf("failed to shuffle: %v", err)
	}
	train, test, err := datasets.Split(shuffled, 0.8)
	if err != nil {
		log.Fatalf("failed to split: %v", err)
	}
	fmt.Printf("Training: %d samples, test: %d samples\n", train.Len(), test.Len())

	// Synthetic labels are already 0/1, so the binary filter just relabels
	// them to +1/-1 and reshuffles.
	binary, err := datasets.BinaryFilter(train, datasets.Classes{Positive: 1, Negative: 0}, rng)
	if err != nil {
		log.Fatalf("failed to filter classes: %v", err)
	}
	fmt.Printf("Binary training labels: %v\n", datasets.LabelCounts(binary))

	n := min(8, binary.Len())
	indices := make([]int, n)
	for i := range n {
		indices[i] = i
	}
	flat, err := datasets.MakeBatchFlat(binary, indices)
	if err != nil {
		log.Fatalf("failed to build batch: %v", err)
	}
	inT, laT, err := flat.ToGomlxTensors()
	if err != nil {
		log.Fatalf("failed to convert batch to gomlx tensors: %v", err)
	}
	fmt.Printf("Created tensors: input=%T label=%T\n", inT, laT)
	fmt.Printf("  Input shape: [%d, %d]\n", flat.BatchSize, flat.InputDim)
	if n > 0 {
		fmt.Printf("  First example label: %v\n", flat.Labels[0])
	}
}
