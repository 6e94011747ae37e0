// Package dehair builds the displayed influence subgraph and optionally
// strips its "hair": nodes hanging off the graph by a single neighbour.
package dehair

import (
	"fmt"

	"github.com/agenthands/influence/internal/core/dedupe"
	"github.com/agenthands/influence/internal/core/model"
)

// BuildGraph takes the first maxEdges rows, in the order given, and turns
// them into a graph. With deHair set, degree-1 nodes are pruned until none
// are left. rows are not modified.
func BuildGraph(rows []model.ScoredEdge, maxEdges int, deHair bool) (*model.Graph, error) {
	if maxEdges <= 0 {
		return nil, fmt.Errorf("%w: max_edges must be positive, got %d", model.ErrInvalidArgument, maxEdges)
	}
	taken := rows[:min(maxEdges, len(rows))]

	nodes, edges := dedupe.Build(taken)
	stats := model.ReductionStats{
		OriginalNodeCount: len(nodes),
		OriginalEdgeCount: len(edges),
		DeHaired:          deHair,
	}

	if deHair {
		nodes, edges, stats.Passes = Prune(nodes, edges)
	}

	stats.FinalNodeCount = len(nodes)
	stats.FinalEdgeCount = len(edges)
	stats.RemovedNodes = stats.OriginalNodeCount - stats.FinalNodeCount
	stats.RemovedEdges = stats.OriginalEdgeCount - stats.FinalEdgeCount

	g := &model.Graph{
		Nodes: nonNil(nodes),
		Edges: nonNil(edges),
		Stats: stats,
	}
	if len(taken) > 0 {
		first := taken[0]
		g.Prediction = &model.PredictionInfo{
			HeadID:          first.TestHeadID,
			HeadLabel:       first.TestHeadLabel,
			TailID:          first.TestTailID,
			TailLabel:       first.TestTailLabel,
			RelationLabel:   first.TestRelLabel,
			TotalInfluences: len(taken),
		}
	}
	return g, nil
}

// Prune removes degree-1 nodes and their edges, pass after pass, until a
// pass finds none or the graph is empty. It returns the surviving nodes and
// edges and the number of passes that removed something.
//
// A node whose degree drops to zero during a pass (a star centre whose
// leaves all went in that pass) is removed in the same pass. Nodes that
// started with degree zero are left alone. Prediction nodes get no special
// treatment.
//
// The input slices are never modified; every pass produces new ones.
func Prune(nodes []model.Node, edges []model.DisplayEdge) ([]model.Node, []model.DisplayEdge, int) {
	passes := 0
	for len(nodes) > 0 {
		nextNodes, nextEdges, removed := prunePass(nodes, edges)
		if removed == 0 {
			break
		}
		nodes, edges = nextNodes, nextEdges
		passes++
	}
	return nodes, edges, passes
}

func prunePass(nodes []model.Node, edges []model.DisplayEdge) ([]model.Node, []model.DisplayEdge, int) {
	before := model.Degrees(edges)

	dropped := make(map[string]bool)
	for _, n := range nodes {
		if before[n.ID] == 1 {
			dropped[n.ID] = true
		}
	}
	if len(dropped) == 0 {
		return nodes, edges, 0
	}

	after := model.Degrees(withoutNodes(edges, dropped))
	for _, n := range nodes {
		if !dropped[n.ID] && before[n.ID] > 0 && after[n.ID] == 0 {
			dropped[n.ID] = true
		}
	}

	keptEdges := withoutNodes(edges, dropped)
	keptNodes := make([]model.Node, 0, len(nodes)-len(dropped))
	for _, n := range nodes {
		if dropped[n.ID] {
			continue
		}
		n.Degree = after[n.ID]
		keptNodes = append(keptNodes, n)
	}
	return keptNodes, keptEdges, len(nodes) - len(keptNodes)
}

func withoutNodes(edges []model.DisplayEdge, dropped map[string]bool) []model.DisplayEdge {
	kept := make([]model.DisplayEdge, 0, len(edges))
	for _, e := range edges {
		if dropped[e.Source] || dropped[e.Target] {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
