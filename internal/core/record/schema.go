// Package record turns raw influence-file rows into model.ScoredEdge values.
package record

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agenthands/influence/internal/core/model"
)

// Header columns of an influence file, in canonical order.
const (
	ColTestHead       = "TestHead"
	ColTestHeadLabel  = "TestHead_label"
	ColTestRel        = "TestRel"
	ColTestRelLabel   = "TestRel_label"
	ColTestTail       = "TestTail"
	ColTestTailLabel  = "TestTail_label"
	ColTrainHead      = "TrainHead"
	ColTrainHeadLabel = "TrainHead_label"
	ColTrainRel       = "TrainRel"
	ColTrainRelLabel  = "TrainRel_label"
	ColTrainTail      = "TrainTail"
	ColTrainTailLabel = "TrainTail_label"
	ColScore          = "TracInScore"
)

// Columns is the canonical 13-column header.
var Columns = []string{
	ColTestHead, ColTestHeadLabel, ColTestRel, ColTestRelLabel, ColTestTail, ColTestTailLabel,
	ColTrainHead, ColTrainHeadLabel, ColTrainRel, ColTrainRelLabel, ColTrainTail, ColTrainTailLabel,
	ColScore,
}

// required lists the columns that must hold a non-empty value. Labels may be blank.
var required = map[string]bool{
	ColTestHead: true, ColTestRel: true, ColTestTail: true,
	ColTrainHead: true, ColTrainRel: true, ColTrainTail: true,
	ColScore: true,
}

// Schema maps the canonical columns onto positions of a concrete header,
// so files with reordered or extra columns still parse.
type Schema struct {
	header []string
	index  [13]int
	width  int
}

func NewSchema(header []string) (*Schema, error) {
	pos := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := pos[name]; !dup {
			pos[name] = i
		}
	}

	s := &Schema{header: header}
	var missing []string
	for i, col := range Columns {
		p, ok := pos[col]
		if !ok {
			missing = append(missing, col)
			continue
		}
		s.index[i] = p
		if p+1 > s.width {
			s.width = p + 1
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing column(s) %s", model.ErrMalformedHeader, strings.Join(missing, ", "))
	}
	return s, nil
}

// Header returns the header the schema was built from.
func (s *Schema) Header() []string {
	return s.header
}

// Parse converts one row. The returned edge keeps a copy of row in Raw.
func (s *Schema) Parse(row []string, position int) (model.ScoredEdge, error) {
	if len(row) < s.width {
		return model.ScoredEdge{}, &RowError{
			Position: position,
			Err:      fmt.Errorf("row has %d fields, need at least %d", len(row), s.width),
		}
	}

	var f [13]string
	for i, col := range Columns {
		f[i] = row[s.index[i]]
		if required[col] && strings.TrimSpace(f[i]) == "" {
			return model.ScoredEdge{}, &RowError{Position: position, Err: fmt.Errorf("empty %s", col)}
		}
	}

	score, err := ParseScore(f[12])
	if err != nil {
		return model.ScoredEdge{}, &RowError{Position: position, Err: err}
	}

	return model.ScoredEdge{
		TestHeadID:     f[0],
		TestHeadLabel:  f[1],
		TestRelID:      f[2],
		TestRelLabel:   f[3],
		TestTailID:     f[4],
		TestTailLabel:  f[5],
		TrainHeadID:    f[6],
		TrainHeadLabel: f[7],
		TrainRelID:     f[8],
		TrainRelLabel:  f[9],
		TrainTailID:    f[10],
		TrainTailLabel: f[11],
		Score:          score,
		Raw:            append([]string(nil), row...),
		Position:       position,
	}, nil
}

// ParseScore accepts any finite real number. Scores outside [0,1] are valid
// influence values; NaN and infinities are not.
func ParseScore(text string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", ColScore, text)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite %s %q", ColScore, text)
	}
	return v, nil
}

// RowError reports a skipped row. It matches model.ErrMalformedRecord under errors.Is.
type RowError struct {
	Position int
	Err      error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Position, e.Err)
}

func (e *RowError) Unwrap() []error {
	return []error{model.ErrMalformedRecord, e.Err}
}
