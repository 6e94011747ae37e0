// Package topk selects the highest-scoring influence rows of a source.
//
// Select streams the source through a bounded min-heap, so memory stays
// proportional to k however large the file is. Rows with equal scores keep
// their input order, which makes the output byte-for-byte reproducible.
package topk

import (
	"cmp"
	"container/heap"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/agenthands/influence/internal/core/model"
	"github.com/agenthands/influence/internal/core/record"
)

// ctxCheckInterval is how many rows are read between cancellation checks.
const ctxCheckInterval = 4096

// Result is the outcome of a selection.
type Result struct {
	// Header is the source header; writing it back with the Raw field of
	// every record reproduces the selected rows exactly.
	Header  []string
	Records []model.ScoredEdge
	// Rows counts the data rows read, valid or not.
	Rows    int
	Skipped int
}

type Option func(*options)

type options struct {
	onSkip func(*record.RowError)
}

// WithSkipHandler registers a callback for every malformed row dropped.
func WithSkipHandler(fn func(*record.RowError)) Option {
	return func(o *options) {
		o.onSkip = fn
	}
}

// Select returns the k highest-scoring valid rows of src in descending
// score order.
func Select(ctx context.Context, src record.Source, k int, opts ...Option) (*Result, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", model.ErrInvalidArgument, k)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	r, err := record.NewReader(src)
	if err != nil {
		return nil, err
	}
	r.OnSkip = o.onSkip

	h := make(boundedHeap, 0, min(k, 1024))
	for seq := 0; ; seq++ {
		if seq%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		edge, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		e := ranked{edge: edge, seq: seq}
		switch {
		case len(h) < k:
			heap.Push(&h, e)
		case worse(h[0], e):
			h[0] = e
			heap.Fix(&h, 0)
		}
	}

	return &Result{
		Header:  r.Header(),
		Records: h.sorted(),
		Rows:    r.Rows(),
		Skipped: r.Skipped(),
	}, nil
}

// SelectAll is the in-memory variant: a stable full sort of records,
// truncated to k. It gives the same answer as Select on the same rows.
func SelectAll(records []model.ScoredEdge, k int) ([]model.ScoredEdge, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", model.ErrInvalidArgument, k)
	}
	out := slices.Clone(records)
	slices.SortStableFunc(out, func(a, b model.ScoredEdge) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

type ranked struct {
	edge model.ScoredEdge
	seq  int
}

// worse reports whether a ranks below b: lower score, or the same score
// seen later in the input.
func worse(a, b ranked) bool {
	if a.edge.Score != b.edge.Score {
		return a.edge.Score < b.edge.Score
	}
	return a.seq > b.seq
}

// boundedHeap keeps the entry to evict next at the root.
type boundedHeap []ranked

func (h boundedHeap) Len() int           { return len(h) }
func (h boundedHeap) Less(i, j int) bool { return worse(h[i], h[j]) }
func (h boundedHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *boundedHeap) Push(x any) {
	*h = append(*h, x.(ranked))
}

func (h *boundedHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

func (h boundedHeap) sorted() []model.ScoredEdge {
	entries := slices.Clone([]ranked(h))
	slices.SortFunc(entries, func(a, b ranked) int {
		if c := cmp.Compare(b.edge.Score, a.edge.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
	out := make([]model.ScoredEdge, len(entries))
	for i, e := range entries {
		out[i] = e.edge
	}
	return out
}
