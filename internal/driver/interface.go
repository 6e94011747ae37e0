package driver

import (
	"context"

	"github.com/agenthands/influence/internal/recordio"
)

// Dataset describes one filtered influence file offered for visualization.
type Dataset struct {
	Filename    string `json:"filename"`
	DisplayName string `json:"display_name"`
	Rows        int    `json:"rows"`
}

type DatasetDriver interface {
	List(ctx context.Context) ([]Dataset, error)
	Open(ctx context.Context, name string) (recordio.Reader, error)
	Close(ctx context.Context) error
}
