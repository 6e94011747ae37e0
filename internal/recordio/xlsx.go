package recordio

import (
	"fmt"
	"io"

	"github.com/agenthands/influence/internal/core/model"
	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"
)

// sheetName is the sheet written by this package. Readers take the first
// sheet of the workbook whatever its name.
const sheetName = "influences"

type xlsxReader struct {
	path   string
	file   *excelize.File
	rows   *excelize.Rows
	header []string
}

func openXLSX(path string) (*xlsxReader, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, unavailable(path, err)
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		_ = f.Close()
		return nil, unavailable(path, fmt.Errorf("workbook has no sheets"))
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		_ = f.Close()
		return nil, unavailable(path, err)
	}

	x := &xlsxReader{path: path, file: f, rows: rows}
	header, err := x.Next()
	if err != nil {
		_ = x.Close()
		return nil, err
	}
	x.header = header
	return x, nil
}

func (x *xlsxReader) Header() []string {
	return x.header
}

// Next pads rows to the header width: spreadsheets drop trailing empty cells.
func (x *xlsxReader) Next() ([]string, error) {
	if !x.rows.Next() {
		if err := x.rows.Error(); err != nil {
			return nil, unavailable(x.path, err)
		}
		if x.header == nil {
			return nil, fmt.Errorf("%w: %s has no header row", model.ErrMalformedHeader, x.path)
		}
		return nil, io.EOF
	}
	cols, err := x.rows.Columns()
	if err != nil {
		return nil, unavailable(x.path, err)
	}
	for len(cols) < len(x.header) {
		cols = append(cols, "")
	}
	return cols, nil
}

func (x *xlsxReader) Close() error {
	return multierr.Combine(x.rows.Close(), x.file.Close())
}

type xlsxWriter struct {
	path   string
	file   *excelize.File
	stream *excelize.StreamWriter
	row    int
}

func createXLSX(path string) (*xlsxWriter, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return &xlsxWriter{path: path, file: f, stream: sw}, nil
}

func (x *xlsxWriter) WriteRow(row []string) error {
	x.row++
	cell, err := excelize.CoordinatesToCellName(1, x.row)
	if err != nil {
		return err
	}
	values := make([]interface{}, len(row))
	for i, v := range row {
		values[i] = v
	}
	return x.stream.SetRow(cell, values)
}

func (x *xlsxWriter) Close() error {
	err := x.stream.Flush()
	if err == nil {
		err = x.file.SaveAs(x.path)
	}
	return multierr.Append(err, x.file.Close())
}
