package community

import (
	"slices"

	"github.com/agenthands/influence/internal/core/model"
)

// LabelPropagationDetector implements community detection using Label Propagation Algorithm (LPA).
type LabelPropagationDetector struct {
	MaxIterations int
	// MinSize drops smaller communities from the result.
	MinSize int
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{
		MaxIterations: 20,
		MinSize:       2,
	}
}

func (d *LabelPropagationDetector) Detect(nodes []model.Node, edges []model.DisplayEdge) ([][]model.Node, error) {
	labels := d.Labels(nodes, edges)
	if labels == nil {
		return nil, nil
	}

	clusters := make(map[string][]model.Node)
	var order []string
	for _, n := range nodes {
		label := labels[n.ID]
		if _, seen := clusters[label]; !seen {
			order = append(order, label)
		}
		clusters[label] = append(clusters[label], n)
	}

	var communities [][]model.Node
	for _, label := range order {
		if len(clusters[label]) >= d.MinSize {
			communities = append(communities, clusters[label])
		}
	}
	return communities, nil
}

// Labels runs the propagation and returns node id -> community label. The
// label of a community is the id of one of its members.
func (d *LabelPropagationDetector) Labels(nodes []model.Node, edges []model.DisplayEdge) map[string]string {
	if len(nodes) == 0 {
		return nil
	}

	// Parallel edges between two nodes count as a stronger connection.
	adj := adjacency(nodes, edges)

	labels := make(map[string]string, len(nodes))
	for _, n := range nodes {
		labels[n.ID] = n.ID
	}

	for iter := 0; iter < d.MaxIterations; iter++ {
		changeCount := 0

		for _, n := range nodes {
			neighbors := adj[n.ID]
			if len(neighbors) == 0 {
				continue
			}

			labelCounts := make(map[string]int)
			maxCount := 0
			for v, weight := range neighbors {
				label := labels[v]
				labelCounts[label] += weight
				if labelCounts[label] > maxCount {
					maxCount = labelCounts[label]
				}
			}

			// Ties go to the lexicographically largest label.
			var candidates []string
			for label, count := range labelCounts {
				if count == maxCount {
					candidates = append(candidates, label)
				}
			}
			slices.Sort(candidates)
			bestLabel := candidates[len(candidates)-1]

			if labels[n.ID] != bestLabel {
				labels[n.ID] = bestLabel
				changeCount++
			}
		}

		if changeCount == 0 {
			break
		}
	}

	return labels
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
