package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
)

func seededIndex(n int) *RankIndex {
	idx := NewRankIndex(WithCapacityHint(n))
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < n; i++ {
		idx.Set(ctx, fmt.Sprintf("driver-%06d", i), 1500+rng.Float64()*400)
	}
	return idx
}

func BenchmarkRankIndexSet(b *testing.B) {
	idx := seededIndex(10_000)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(7))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := fmt.Sprintf("driver-%06d", rng.Intn(10_000))
		idx.Set(ctx, id, 1500+rng.Float64()*400)
	}
}

func BenchmarkRankIndexTopN(b *testing.B) {
	idx := seededIndex(10_000)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := idx.TopN(ctx, 100); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkRankIndexRank(b *testing.B) {
	idx := seededIndex(10_000)
	ctx := context.Background()
	rng := rand.New(rand.NewSource(11))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := fmt.Sprintf("driver-%06d", rng.Intn(10_000))
		if _, err := idx.Rank(ctx, id); err != nil {
			b.Fatal(err)
		}
	}
}
