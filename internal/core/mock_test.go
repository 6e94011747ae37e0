package core

import (
	"context"
	"fmt"

	"github.com/agenthands/influence/internal/core/model"
	"github.com/agenthands/influence/internal/core/record"
	"github.com/agenthands/influence/internal/driver"
	"github.com/agenthands/influence/internal/recordio"
)

type MockDriver struct {
	Datasets map[string][][]string // name -> rows, header excluded
	Order    []string
	Opened   []string
	Err      error
}

type sliceReader struct {
	*record.SliceSource
}

func (sliceReader) Close() error { return nil }

func (m *MockDriver) List(ctx context.Context) ([]driver.Dataset, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []driver.Dataset
	for _, name := range m.Order {
		out = append(out, driver.Dataset{Filename: name, DisplayName: driver.DisplayName(name), Rows: len(m.Datasets[name])})
	}
	return out, nil
}

func (m *MockDriver) Open(ctx context.Context, name string) (recordio.Reader, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	rows, ok := m.Datasets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrDatasetNotFound, name)
	}
	m.Opened = append(m.Opened, name)
	return sliceReader{record.NewSliceSource(record.Columns, rows)}, nil
}

func (m *MockDriver) Close(ctx context.Context) error {
	return nil
}
