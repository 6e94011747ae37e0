package model

import "math"

// ScoredEdge is one influence row: a training edge scored against the
// prediction (test edge) it helped explain.
type ScoredEdge struct {
	TestHeadID     string  `json:"test_head_id"`
	TestHeadLabel  string  `json:"test_head_label"`
	TestRelID      string  `json:"test_rel_id"`
	TestRelLabel   string  `json:"test_rel_label"`
	TestTailID     string  `json:"test_tail_id"`
	TestTailLabel  string  `json:"test_tail_label"`
	TrainHeadID    string  `json:"train_head_id"`
	TrainHeadLabel string  `json:"train_head_label"`
	TrainRelID     string  `json:"train_rel_id"`
	TrainRelLabel  string  `json:"train_rel_label"`
	TrainTailID    string  `json:"train_tail_id"`
	TrainTailLabel string  `json:"train_tail_label"`
	Score          float64 `json:"score"`

	// Raw holds the source row exactly as read, aligned with the source header.
	Raw []string `json:"-"`
	// Position is the 1-based data row index in the source (header excluded).
	Position int `json:"-"`
}

// TrainKey identifies the training triple of the row.
func (e ScoredEdge) TrainKey() EdgeKey {
	return EdgeKey{Head: e.TrainHeadID, Rel: e.TrainRelID, Tail: e.TrainTailID}
}

// TestKey identifies the prediction triple of the row.
func (e ScoredEdge) TestKey() EdgeKey {
	return EdgeKey{Head: e.TestHeadID, Rel: e.TestRelID, Tail: e.TestTailID}
}

// EdgeKey is a directed (head, relation, tail) triple.
type EdgeKey struct {
	Head string
	Rel  string
	Tail string
}

// DisplayEdge is a training edge as drawn. Rows sharing a triple collapse
// into one DisplayEdge; Count says how many rows were stacked onto it.
type DisplayEdge struct {
	Source        string  `json:"source"`
	Target        string  `json:"target"`
	RelationID    string  `json:"relation_id"`
	RelationLabel string  `json:"relation_label"`
	Score         float64 `json:"score"`
	Width         float64 `json:"width"`
	Count         int     `json:"count"`
}

func (e DisplayEdge) Key() EdgeKey {
	return EdgeKey{Head: e.Source, Rel: e.RelationID, Tail: e.Target}
}

// EdgeWidth scales a score to a stroke width, never thinner than 1.
func EdgeWidth(score float64) float64 {
	return math.Max(1, score*10)
}
