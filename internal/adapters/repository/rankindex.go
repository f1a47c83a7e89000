package repository

import (
	"context"
	"math"
	"sync"

	"github.com/okian/gridelo/pkg/metrics"
)

// Treap-backed index over current ratings.
//
// Ordering: rating DESC, then entity id ASC, so an in-order walk yields
// the ranking from best to worst. Ratings are compared in fixed point
// to keep the ordering stable across replays.

// ratingScale gives six decimal places, far below the smallest delta a
// single update can produce.
const ratingScale = 1_000_000

type ratingFP int64

func toFixedPoint(x float64) ratingFP {
	if math.IsNaN(x) {
		return 0
	}
	scaled := x * ratingScale
	if scaled > float64(math.MaxInt64) {
		return ratingFP(math.MaxInt64)
	}
	if scaled < float64(math.MinInt64) {
		return ratingFP(math.MinInt64)
	}
	return ratingFP(math.Round(scaled))
}

func toFloat(x ratingFP) float64 {
	return float64(x) / ratingScale
}

// Entry is one row of a current-rating ranking.
type Entry struct {
	Rank     int
	EntityID string
	Rating   float64
}

type rnode struct {
	id     string
	rating ratingFP
	prio   uint64
	left   *rnode
	right  *rnode
	size   int
}

func rsize(n *rnode) int {
	if n == nil {
		return 0
	}
	return n.size
}

func rfix(n *rnode) {
	if n != nil {
		n.size = 1 + rsize(n.left) + rsize(n.right)
	}
}

// ranksBefore reports whether (aRating, aID) appears before
// (bRating, bID) in the ranking.
func ranksBefore(aRating ratingFP, aID string, bRating ratingFP, bID string) bool {
	if aRating != bRating {
		return aRating > bRating
	}
	return aID < bID
}

func rotateRight(y *rnode) *rnode {
	x := y.left
	y.left = x.right
	x.right = y
	rfix(y)
	rfix(x)
	return x
}

func rotateLeft(x *rnode) *rnode {
	y := x.right
	x.right = y.left
	y.left = x
	rfix(x)
	rfix(y)
	return y
}

// ratingPriority derives a deterministic heap priority from the rating
// so identical inputs always build the identical structure.
func ratingPriority(r ratingFP) uint64 {
	const offset = uint64(1) << 63
	return uint64(r) + offset
}

func rinsert(n *rnode, id string, rating ratingFP) *rnode {
	if n == nil {
		return &rnode{id: id, rating: rating, prio: ratingPriority(rating), size: 1}
	}
	if ranksBefore(rating, id, n.rating, n.id) {
		n.left = rinsert(n.left, id, rating)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = rinsert(n.right, id, rating)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	rfix(n)
	return n
}

func rdelete(n *rnode, id string, rating ratingFP) *rnode {
	if n == nil {
		return nil
	}
	if rating == n.rating && id == n.id {
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = rdelete(n.right, id, rating)
		} else {
			n = rotateLeft(n)
			n.left = rdelete(n.left, id, rating)
		}
	} else if ranksBefore(rating, id, n.rating, n.id) {
		n.left = rdelete(n.left, id, rating)
	} else {
		n.right = rdelete(n.right, id, rating)
	}
	rfix(n)
	return n
}

// collectTop walks the treap in rank order, stopping at limit entries.
func collectTop(n *rnode, limit int, out *[]Entry) {
	if n == nil || len(*out) >= limit {
		return
	}
	collectTop(n.left, limit, out)
	if len(*out) < limit {
		*out = append(*out, Entry{EntityID: n.id, Rating: toFloat(n.rating)})
	}
	if len(*out) < limit {
		collectTop(n.right, limit, out)
	}
}

// positionOf returns the zero-based in-order position of (rating, id).
func positionOf(n *rnode, id string, rating ratingFP) int {
	pos := 0
	for n != nil {
		if rating == n.rating && id == n.id {
			return pos + rsize(n.left)
		}
		if ranksBefore(rating, id, n.rating, n.id) {
			n = n.left
		} else {
			pos += rsize(n.left) + 1
			n = n.right
		}
	}
	return -1
}

// RankIndex maintains the live ranking of current ratings during and
// after a replay. Updates replace the previous rating, in either
// direction.
type RankIndex struct {
	mu   sync.RWMutex
	root *rnode
	byID map[string]ratingFP
}

// NewRankIndex constructs an empty rank index.
func NewRankIndex(opts ...IndexOption) *RankIndex {
	idx := &RankIndex{}
	cfg := indexConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	idx.byID = make(map[string]ratingFP, cfg.capacityHint)
	return idx
}

// Set stores the current rating for an entity, replacing any previous
// value. O(log n) expected.
func (idx *RankIndex) Set(_ context.Context, entityID string, rating float64) {
	fp := toFixedPoint(rating)

	idx.mu.Lock()
	defer idx.mu.Unlock()

	if old, ok := idx.byID[entityID]; ok {
		if old == fp {
			return
		}
		idx.root = rdelete(idx.root, entityID, old)
	}
	idx.byID[entityID] = fp
	idx.root = rinsert(idx.root, entityID, fp)
}

// Rank returns the entry for an entity with its standing rank. Entities
// with equal ratings share a rank. O(n) on ties, O(log n) otherwise.
func (idx *RankIndex) Rank(_ context.Context, entityID string) (Entry, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	fp, ok := idx.byID[entityID]
	if !ok {
		metrics.RecordErrorByComponent("rankindex", "not_found")
		return Entry{}, ErrUnknownEntity
	}

	pos := positionOf(idx.root, entityID, fp)
	head := make([]Entry, 0, pos+1)
	collectTop(idx.root, pos+1, &head)
	assignRanks(head)
	return head[pos], nil
}

// TopN returns the best n entries, rating desc with entity id as the
// tie-break. Tied ratings share a rank.
func (idx *RankIndex) TopN(_ context.Context, n int) ([]Entry, error) {
	if n < 1 {
		metrics.RecordErrorByComponent("rankindex", "invalid_limit")
		return nil, ErrInvalidLimit
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]Entry, 0, n)
	collectTop(idx.root, n, &out)
	assignRanks(out)
	return out, nil
}

// Count returns the number of entities tracked.
func (idx *RankIndex) Count(_ context.Context) int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.byID)
}

// assignRanks numbers entries in order, giving equal ratings the same
// rank and counting each following distinct rating one rank later.
func assignRanks(entries []Entry) {
	for i := range entries {
		switch {
		case i == 0:
			entries[i].Rank = 1
		case entries[i].Rating == entries[i-1].Rating:
			entries[i].Rank = entries[i-1].Rank
		default:
			entries[i].Rank = entries[i-1].Rank + 1
		}
	}
}
