package record

import "io"

// SliceSource serves rows from memory.
type SliceSource struct {
	header []string
	rows   [][]string
	next   int
}

func NewSliceSource(header []string, rows [][]string) *SliceSource {
	return &SliceSource{header: header, rows: rows}
}

func (s *SliceSource) Header() []string {
	return s.header
}

func (s *SliceSource) Next() ([]string, error) {
	if s.next >= len(s.rows) {
		return nil, io.EOF
	}
	row := s.rows[s.next]
	s.next++
	return row, nil
}
