// Package recordio reads and writes influence files as rows of strings.
// CSV is the default format; files ending in .xlsx are spreadsheets.
package recordio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/agenthands/influence/internal/core/model"
	"go.uber.org/multierr"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf picks the format from the file extension.
func FormatOf(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FormatXLSX
	}
	return FormatCSV
}

// Reader yields the header once and then data rows. Next returns io.EOF
// after the last row; a row that cannot be decoded is returned as an error
// wrapping model.ErrMalformedRecord and reading may continue.
type Reader interface {
	Header() []string
	Next() ([]string, error)
	Close() error
}

type Writer interface {
	WriteRow(row []string) error
	Close() error
}

// Open opens path for reading and consumes its header row.
func Open(path string) (Reader, error) {
	switch FormatOf(path) {
	case FormatXLSX:
		return openXLSX(path)
	default:
		return openCSV(path)
	}
}

// Create truncates or creates path for writing.
func Create(path string) (Writer, error) {
	switch FormatOf(path) {
	case FormatXLSX:
		return createXLSX(path)
	default:
		return createCSV(path)
	}
}

// WriteEdges writes header followed by the raw fields of every edge, which
// reproduces the source rows exactly.
func WriteEdges(path string, header []string, edges []model.ScoredEdge) (err error) {
	w, err := Create(path)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, w.Close())
	}()

	if err := w.WriteRow(header); err != nil {
		return err
	}
	for _, e := range edges {
		if err := w.WriteRow(e.Raw); err != nil {
			return err
		}
	}
	return nil
}

// CountRows returns the number of data rows in path, decodable or not.
func CountRows(path string) (n int, err error) {
	r, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer func() {
		err = multierr.Append(err, r.Close())
	}()

	for {
		_, err := r.Next()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil && !errors.Is(err, model.ErrMalformedRecord) {
			return n, err
		}
		n++
	}
}

func unavailable(path string, err error) error {
	return fmt.Errorf("%w: %s: %w", model.ErrSourceUnavailable, path, err)
}
