// Package dedupe turns influence rows into the initial display graph.
package dedupe

import (
	"github.com/agenthands/influence/internal/core/model"
)

// Build derives the node and edge sets of rows.
//
// Nodes are unique by id and ordered by first appearance (train head, train
// tail, test head, test tail of each row). A node's label is the first
// non-empty label seen for it. A node is a prediction node when it occurs as
// a test head or tail in any row.
//
// Edges are unique by (train head, train relation, train tail). Later rows
// with the same triple are stacked onto the first one: its score is kept and
// Count is incremented. Rows arrive ranked, so the kept score is the highest.
func Build(rows []model.ScoredEdge) ([]model.Node, []model.DisplayEdge) {
	nodeIndex := make(map[string]int)
	var nodes []model.Node

	addNode := func(id, label string, prediction bool) {
		i, ok := nodeIndex[id]
		if !ok {
			i = len(nodes)
			nodeIndex[id] = i
			nodes = append(nodes, model.Node{ID: id, Role: model.RoleTraining})
		}
		if nodes[i].Label == "" {
			nodes[i].Label = label
		}
		if prediction {
			nodes[i].Role = model.RolePrediction
		}
	}

	edgeIndex := make(map[model.EdgeKey]int)
	var edges []model.DisplayEdge

	for _, r := range rows {
		addNode(r.TrainHeadID, r.TrainHeadLabel, false)
		addNode(r.TrainTailID, r.TrainTailLabel, false)
		addNode(r.TestHeadID, r.TestHeadLabel, true)
		addNode(r.TestTailID, r.TestTailLabel, true)

		key := r.TrainKey()
		if i, ok := edgeIndex[key]; ok {
			edges[i].Count++
			continue
		}
		edgeIndex[key] = len(edges)
		edges = append(edges, model.DisplayEdge{
			Source:        r.TrainHeadID,
			Target:        r.TrainTailID,
			RelationID:    r.TrainRelID,
			RelationLabel: r.TrainRelLabel,
			Score:         r.Score,
			Width:         model.EdgeWidth(r.Score),
			Count:         1,
		})
	}

	deg := model.Degrees(edges)
	for i := range nodes {
		nodes[i].Degree = deg[nodes[i].ID]
	}
	return nodes, edges
}
