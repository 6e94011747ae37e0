package core

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/agenthands/influence/internal/config"
	"github.com/agenthands/influence/internal/core/community"
	"github.com/agenthands/influence/internal/core/dehair"
	"github.com/agenthands/influence/internal/core/model"
	"github.com/agenthands/influence/internal/core/record"
	"github.com/agenthands/influence/internal/core/topk"
	"github.com/agenthands/influence/internal/driver"
	"go.uber.org/zap"
)

// maxLoggedSkips bounds per-row skip logging; the total is always reported.
const maxLoggedSkips = 5

// Engine ties the selector and the reducer to a dataset driver. It keeps no
// state between calls, so one Engine serves concurrent requests.
type Engine struct {
	Driver driver.DatasetDriver
	Log    *zap.SugaredLogger
	// Communities tags nodes with label-propagation communities; nil disables it.
	Communities *community.LabelPropagationDetector
}

func NewEngine(d driver.DatasetDriver, log *zap.SugaredLogger, cfg config.GraphConfig) *Engine {
	e := &Engine{Driver: d, Log: log}
	if cfg.DetectCommunities {
		lpa := community.NewLabelPropagationDetector()
		if cfg.LPAIterations > 0 {
			lpa.MaxIterations = cfg.LPAIterations
		}
		e.Communities = lpa
	}
	return e
}

// SelectTop returns the k best rows of src.
func (e *Engine) SelectTop(ctx context.Context, src record.Source, k int) (*topk.Result, error) {
	logged := 0
	res, err := topk.Select(ctx, src, k, topk.WithSkipHandler(func(rowErr *record.RowError) {
		if logged < maxLoggedSkips {
			e.Log.Debugf("Skipping malformed %v", rowErr)
		}
		logged++
	}))
	if err != nil {
		return nil, err
	}
	if res.Skipped > 0 {
		e.Log.Warnf("Skipped %d malformed row(s) of %d", res.Skipped, res.Rows)
	}
	return res, nil
}

// BuildGraph reduces rows to the displayed graph and annotates it with
// component and community information.
func (e *Engine) BuildGraph(rows []model.ScoredEdge, maxEdges int, deHair bool) (*model.Graph, error) {
	g, err := dehair.BuildGraph(rows, maxEdges, deHair)
	if err != nil {
		return nil, err
	}
	community.Annotate(g, e.Communities)

	if deHair {
		e.Log.Debugf("De-hairing completed after %d pass(es): %d -> %d nodes",
			g.Stats.Passes, g.Stats.OriginalNodeCount, g.Stats.FinalNodeCount)
	}
	return g, nil
}

// LoadGraph reads the first maxEdges valid rows of a dataset and builds
// their graph. The dataset is expected to be ranked already.
func (e *Engine) LoadGraph(ctx context.Context, dataset string, maxEdges int, deHair bool) (*model.Graph, error) {
	if maxEdges <= 0 {
		return nil, fmt.Errorf("%w: max_edges must be positive, got %d", model.ErrInvalidArgument, maxEdges)
	}

	rows, skipped, err := e.read(ctx, dataset, maxEdges)
	if err != nil {
		return nil, err
	}

	g, err := e.BuildGraph(rows, maxEdges, deHair)
	if err != nil {
		return nil, err
	}
	g.Stats.SkippedRows = skipped
	return g, nil
}

// DatasetStats summarises a whole dataset.
type DatasetStats struct {
	TotalRows   int `json:"total_rows"`
	SkippedRows int `json:"skipped_rows"`
	TestEdges   int `json:"test_edges"`
	TrainEdges  int `json:"train_edges"`
}

// Stats streams a dataset and counts its distinct test and training triples.
func (e *Engine) Stats(ctx context.Context, dataset string) (*DatasetStats, error) {
	src, err := e.Driver.Open(ctx, dataset)
	if err != nil {
		return nil, err
	}
	defer src.Close()

	r, err := record.NewReader(src)
	if err != nil {
		return nil, err
	}

	tests := make(map[model.EdgeKey]struct{})
	trains := make(map[model.EdgeKey]struct{})
	for {
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
		tests[edge.TestKey()] = struct{}{}
		trains[edge.TrainKey()] = struct{}{}
	}

	return &DatasetStats{
		TotalRows:   r.Rows() - r.Skipped(),
		SkippedRows: r.Skipped(),
		TestEdges:   len(tests),
		TrainEdges:  len(trains),
	}, nil
}

// Datasets lists what the driver offers.
func (e *Engine) Datasets(ctx context.Context) ([]driver.Dataset, error) {
	return e.Driver.List(ctx)
}

// DefaultDataset is the first dataset in listing order.
func (e *Engine) DefaultDataset(ctx context.Context) (driver.Dataset, error) {
	datasets, err := e.Driver.List(ctx)
	if err != nil {
		return driver.Dataset{}, err
	}
	if len(datasets) == 0 {
		return driver.Dataset{}, fmt.Errorf("%w: no data files found", model.ErrDatasetNotFound)
	}
	return datasets[0], nil
}

func (e *Engine) read(ctx context.Context, dataset string, limit int) ([]model.ScoredEdge, int, error) {
	src, err := e.Driver.Open(ctx, dataset)
	if err != nil {
		return nil, 0, err
	}
	defer src.Close()

	r, err := record.NewReader(src)
	if err != nil {
		return nil, 0, fmt.Errorf("dataset %s: %w", dataset, err)
	}
	rows, err := record.ReadAll(ctx, r, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("dataset %s: %w", dataset, err)
	}
	if r.Skipped() > 0 {
		e.Log.Warnf("Dataset %s: skipped %d malformed row(s)", dataset, r.Skipped())
	}
	return rows, r.Skipped(), nil
}
