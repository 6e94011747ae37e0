package core

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/agenthands/influence/internal/config"
	"github.com/agenthands/influence/internal/core/model"
	"github.com/agenthands/influence/internal/core/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func influenceRow(testHead, testTail, head, tail, score string) []string {
	return []string{
		testHead, testHead + " label", "biolink:treats", "treats", testTail, testTail + " label",
		head, head + " label", "biolink:related_to", "related to", tail, tail + " label",
		score,
	}
}

func newEngine(d *MockDriver) *Engine {
	return NewEngine(d, zap.NewNop().Sugar(), config.Default().Graph)
}

func TestSelectTop(t *testing.T) {
	e := newEngine(&MockDriver{})
	rows := [][]string{
		influenceRow("d", "x", "a", "b", "0.1"),
		influenceRow("d", "x", "b", "c", "0.9"),
		influenceRow("d", "x", "c", "d", "oops"),
	}

	res, err := e.SelectTop(context.Background(), record.NewSliceSource(record.Columns, rows), 1)
	require.NoError(t, err)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "b", res.Records[0].TrainHeadID)
	assert.Equal(t, 1, res.Skipped)
}

func TestLoadGraph(t *testing.T) {
	d := &MockDriver{
		Order: []string{"top_4_results.csv"},
		Datasets: map[string][][]string{
			"top_4_results.csv": {
				influenceRow("a", "c", "a", "b", "0.9"),
				influenceRow("a", "c", "b", "c", "0.8"),
				{"short", "row"},
				influenceRow("a", "c", "c", "a", "0.7"),
				influenceRow("a", "c", "c", "z", "0.6"),
			},
		},
	}
	e := newEngine(d)

	t.Run("without de-hairing", func(t *testing.T) {
		g, err := e.LoadGraph(context.Background(), "top_4_results.csv", 10, false)
		require.NoError(t, err)
		assert.Len(t, g.Nodes, 4)
		assert.Len(t, g.Edges, 4)
		assert.Equal(t, 1, g.Stats.SkippedRows)
		assert.Equal(t, 1, g.Stats.Components)
		require.NotNil(t, g.Prediction)
		assert.Equal(t, "a", g.Prediction.HeadID)
		assert.Equal(t, 4, g.Prediction.TotalInfluences)
	})

	t.Run("with de-hairing", func(t *testing.T) {
		g, err := e.LoadGraph(context.Background(), "top_4_results.csv", 10, true)
		require.NoError(t, err)
		assert.Len(t, g.Nodes, 3)
		assert.Equal(t, 1, g.Stats.Passes)
		for _, n := range g.Nodes {
			assert.Equal(t, "c", n.Community, n.ID)
		}
	})

	t.Run("max edges limits rows read", func(t *testing.T) {
		g, err := e.LoadGraph(context.Background(), "top_4_results.csv", 2, false)
		require.NoError(t, err)
		assert.Len(t, g.Edges, 2)
		assert.Equal(t, 0, g.Stats.SkippedRows)
	})
}

func TestLoadGraph_InvalidArgumentOpensNothing(t *testing.T) {
	d := &MockDriver{Datasets: map[string][][]string{"x.csv": nil}}
	_, err := newEngine(d).LoadGraph(context.Background(), "x.csv", 0, true)
	assert.True(t, errors.Is(err, model.ErrInvalidArgument))
	assert.Empty(t, d.Opened)
}

func TestLoadGraph_UnknownDataset(t *testing.T) {
	_, err := newEngine(&MockDriver{}).LoadGraph(context.Background(), "nope.csv", 10, false)
	assert.True(t, errors.Is(err, model.ErrDatasetNotFound))
}

func TestStats(t *testing.T) {
	d := &MockDriver{
		Datasets: map[string][][]string{
			"s.csv": {
				influenceRow("a", "b", "x", "y", "0.5"),
				influenceRow("a", "b", "x", "y", "0.4"),
				influenceRow("a", "c", "y", "z", "0.3"),
				influenceRow("a", "c", "y", "z", ""),
			},
		},
	}

	stats, err := newEngine(d).Stats(context.Background(), "s.csv")
	require.NoError(t, err)
	assert.Equal(t, &DatasetStats{TotalRows: 3, SkippedRows: 1, TestEdges: 2, TrainEdges: 2}, stats)
}

func TestDefaultDataset(t *testing.T) {
	e := newEngine(&MockDriver{Order: []string{"b.csv", "a.csv"}})
	ds, err := e.DefaultDataset(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "b.csv", ds.Filename)

	_, err = newEngine(&MockDriver{}).DefaultDataset(context.Background())
	assert.True(t, errors.Is(err, model.ErrDatasetNotFound))

	boom := fmt.Errorf("%w: disk", model.ErrSourceUnavailable)
	_, err = newEngine(&MockDriver{Err: boom}).DefaultDataset(context.Background())
	assert.True(t, errors.Is(err, model.ErrSourceUnavailable))
}

func TestNewEngine_CommunitiesToggle(t *testing.T) {
	cfg := config.Default().Graph
	cfg.DetectCommunities = false
	assert.Nil(t, NewEngine(&MockDriver{}, zap.NewNop().Sugar(), cfg).Communities)

	cfg.DetectCommunities = true
	cfg.LPAIterations = 3
	e := NewEngine(&MockDriver{}, zap.NewNop().Sugar(), cfg)
	require.NotNil(t, e.Communities)
	assert.Equal(t, 3, e.Communities.MaxIterations)
}
