package record

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/agenthands/influence/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func row(trainHead, trainTail, score string) []string {
	return []string{
		"CHEBI:1", "drug", "treats", "treats", "MONDO:2", "disease",
		trainHead, trainHead + " label", "rel", "rel label", trainTail, trainTail + " label",
		score,
	}
}

func TestReader_SkipsMissingScore(t *testing.T) {
	var rows [][]string
	for i := 0; i < 10; i++ {
		rows = append(rows, row(fmt.Sprintf("H%d", i), fmt.Sprintf("T%d", i), fmt.Sprintf("0.%d", i)))
	}
	// Row 4 loses its score column entirely.
	rows[4] = rows[4][:12]

	var skipped []*RowError
	r, err := NewReader(NewSliceSource(Columns, rows))
	require.NoError(t, err)
	r.OnSkip = func(e *RowError) { skipped = append(skipped, e) }

	edges, err := ReadAll(context.Background(), r, 0)
	require.NoError(t, err)

	assert.Len(t, edges, 9)
	assert.Equal(t, 1, r.Skipped())
	assert.Equal(t, 10, r.Rows())
	require.Len(t, skipped, 1)
	assert.Equal(t, 5, skipped[0].Position)
	assert.True(t, errors.Is(skipped[0], model.ErrMalformedRecord))
}

func TestReader_RejectsBadScores(t *testing.T) {
	rows := [][]string{
		row("A", "B", "abc"),
		row("A", "B", "NaN"),
		row("A", "B", "+Inf"),
		row("A", "B", ""),
		row("A", "B", "-0.25"),
		row("A", "B", "3.5"),
	}
	r, err := NewReader(NewSliceSource(Columns, rows))
	require.NoError(t, err)

	edges, err := ReadAll(context.Background(), r, 0)
	require.NoError(t, err)
	require.Len(t, edges, 2)
	assert.Equal(t, -0.25, edges[0].Score)
	assert.Equal(t, 3.5, edges[1].Score)
	assert.Equal(t, 4, r.Skipped())
}

func TestReader_EmptyIDIsMalformed(t *testing.T) {
	bad := row("", "B", "0.1")
	r, err := NewReader(NewSliceSource(Columns, [][]string{bad, row("A", "B", "0.2")}))
	require.NoError(t, err)

	edges, err := ReadAll(context.Background(), r, 0)
	require.NoError(t, err)
	assert.Len(t, edges, 1)
	assert.Equal(t, 1, r.Skipped())
}

func TestReader_EmptyLabelIsAllowed(t *testing.T) {
	ok := row("A", "B", "0.1")
	ok[7] = ""
	r, err := NewReader(NewSliceSource(Columns, [][]string{ok}))
	require.NoError(t, err)

	edge, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "", edge.TrainHeadLabel)
}

func TestReader_ReorderedAndExtraColumns(t *testing.T) {
	header := append([]string{"Extra"}, Columns...)
	header[0], header[13] = header[13], header[0] // TracInScore first, Extra last
	src := []string{"0.75"}
	base := row("A", "B", "ignored")
	src = append(src, base[:12]...)
	src = append(src, "x")

	r, err := NewReader(NewSliceSource(header, [][]string{src}))
	require.NoError(t, err)

	edge, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, 0.75, edge.Score)
	assert.Equal(t, "A", edge.TrainHeadID)
	assert.Equal(t, src, edge.Raw)
	assert.Equal(t, 1, edge.Position)

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
}

func TestReader_HeaderWithBOM(t *testing.T) {
	header := append([]string(nil), Columns...)
	header[0] = "\ufeff" + header[0]

	_, err := NewReader(NewSliceSource(header, nil))
	assert.NoError(t, err)
}

func TestReader_MissingColumn(t *testing.T) {
	_, err := NewReader(NewSliceSource(Columns[:12], nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrMalformedHeader))
	assert.Contains(t, err.Error(), ColScore)
}

type failingSource struct {
	rows [][]string
	err  error
}

func (f *failingSource) Header() []string { return Columns }

func (f *failingSource) Next() ([]string, error) {
	if len(f.rows) == 0 {
		return nil, f.err
	}
	r := f.rows[0]
	f.rows = f.rows[1:]
	return r, nil
}

func TestReader_SourceFailure(t *testing.T) {
	src := &failingSource{rows: [][]string{row("A", "B", "0.1")}, err: errors.New("disk gone")}
	r, err := NewReader(src)
	require.NoError(t, err)

	_, err = r.Next()
	require.NoError(t, err)

	_, err = r.Next()
	require.Error(t, err)
	assert.True(t, errors.Is(err, model.ErrSourceUnavailable))
	assert.Contains(t, err.Error(), "disk gone")
}

func TestReader_SourceMalformedRowIsSkipped(t *testing.T) {
	src := &failingSource{err: fmt.Errorf("%w: bare quote", model.ErrMalformedRecord)}
	r, err := NewReader(src)
	require.NoError(t, err)

	// The fake keeps failing, so stop it after the first skip.
	r.OnSkip = func(*RowError) { src.err = io.EOF }

	_, err = r.Next()
	assert.Equal(t, io.EOF, err)
	assert.Equal(t, 1, r.Skipped())
}

func TestReadAll_Limit(t *testing.T) {
	rows := [][]string{row("A", "B", "0.3"), row("B", "C", "0.2"), row("C", "D", "0.1")}
	r, err := NewReader(NewSliceSource(Columns, rows))
	require.NoError(t, err)

	edges, err := ReadAll(context.Background(), r, 2)
	require.NoError(t, err)
	assert.Len(t, edges, 2)
	assert.Equal(t, "A", edges[0].TrainHeadID)
}
