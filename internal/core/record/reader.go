package record

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/agenthands/influence/internal/core/model"
)

// Source yields raw rows of a delimited file. Next returns io.EOF after the
// last row. A row the source itself could not decode is reported with an
// error wrapping model.ErrMalformedRecord; the source must stay usable after it.
type Source interface {
	Header() []string
	Next() ([]string, error)
}

// Reader validates rows from a Source, skipping and counting malformed ones.
type Reader struct {
	src     Source
	schema  *Schema
	rows    int
	skipped int

	// OnSkip, when set, is called for every skipped row.
	OnSkip func(*RowError)
}

func NewReader(src Source) (*Reader, error) {
	schema, err := NewSchema(src.Header())
	if err != nil {
		return nil, err
	}
	return &Reader{src: src, schema: schema}, nil
}

func (r *Reader) Header() []string {
	return r.schema.Header()
}

// Next returns the next valid edge, or io.EOF once the source is drained.
// Read failures other than malformed rows wrap model.ErrSourceUnavailable.
func (r *Reader) Next() (model.ScoredEdge, error) {
	for {
		row, err := r.src.Next()
		if errors.Is(err, io.EOF) {
			return model.ScoredEdge{}, io.EOF
		}
		if err != nil && !errors.Is(err, model.ErrMalformedRecord) {
			if errors.Is(err, model.ErrSourceUnavailable) {
				return model.ScoredEdge{}, err
			}
			return model.ScoredEdge{}, fmt.Errorf("%w: %w", model.ErrSourceUnavailable, err)
		}
		r.rows++
		if err != nil {
			r.skip(&RowError{Position: r.rows, Err: err})
			continue
		}

		edge, err := r.schema.Parse(row, r.rows)
		if err != nil {
			var rowErr *RowError
			if errors.As(err, &rowErr) {
				r.skip(rowErr)
				continue
			}
			return model.ScoredEdge{}, err
		}
		return edge, nil
	}
}

func (r *Reader) skip(err *RowError) {
	r.skipped++
	if r.OnSkip != nil {
		r.OnSkip(err)
	}
}

// Rows is the number of data rows consumed so far, valid or not.
func (r *Reader) Rows() int {
	return r.rows
}

// Skipped is the number of malformed rows dropped so far.
func (r *Reader) Skipped() int {
	return r.skipped
}

// ReadAll drains the reader, stopping early once limit edges were collected
// (limit <= 0 means no limit).
func ReadAll(ctx context.Context, r *Reader, limit int) ([]model.ScoredEdge, error) {
	var edges []model.ScoredEdge
	for limit <= 0 || len(edges) < limit {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		edge, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		edges = append(edges, edge)
	}
	return edges, nil
}
