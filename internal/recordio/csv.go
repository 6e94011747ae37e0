package recordio

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/agenthands/influence/internal/core/model"
	"go.uber.org/multierr"
)

type csvReader struct {
	path   string
	file   *os.File
	r      *csv.Reader
	header []string
}

func openCSV(path string) (*csvReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, unavailable(path, err)
	}

	r := csv.NewReader(bufio.NewReaderSize(f, 1<<16))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		_ = f.Close()
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s has no header row", model.ErrMalformedHeader, path)
		}
		return nil, unavailable(path, err)
	}

	return &csvReader{path: path, file: f, r: r, header: header}, nil
}

func (c *csvReader) Header() []string {
	return c.header
}

func (c *csvReader) Next() ([]string, error) {
	row, err := c.r.Read()
	if err == nil {
		return row, nil
	}
	if errors.Is(err, io.EOF) {
		return nil, io.EOF
	}
	var parseErr *csv.ParseError
	if errors.As(err, &parseErr) {
		return nil, fmt.Errorf("%w: %w", model.ErrMalformedRecord, err)
	}
	return nil, unavailable(c.path, err)
}

func (c *csvReader) Close() error {
	return c.file.Close()
}

type csvWriter struct {
	file *os.File
	w    *csv.Writer
}

func createCSV(path string) (*csvWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &csvWriter{file: f, w: csv.NewWriter(f)}, nil
}

func (c *csvWriter) WriteRow(row []string) error {
	return c.w.Write(row)
}

func (c *csvWriter) Close() error {
	c.w.Flush()
	return multierr.Combine(c.w.Error(), c.file.Close())
}
