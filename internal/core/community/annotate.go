package community

import "github.com/agenthands/influence/internal/core/model"

// Annotate records the number of connected components in g's stats and, when
// lpa is non-nil, tags every node of a large enough community with its label.
func Annotate(g *model.Graph, lpa *LabelPropagationDetector) {
	components, _ := NewComponentDetector().Detect(g.Nodes, g.Edges)
	g.Stats.Components = len(components)

	if lpa == nil {
		return
	}
	labels := lpa.Labels(g.Nodes, g.Edges)
	size := make(map[string]int)
	for _, label := range labels {
		size[label]++
	}
	for i := range g.Nodes {
		label := labels[g.Nodes[i].ID]
		if size[label] >= lpa.MinSize {
			g.Nodes[i].Community = label
		} else {
			g.Nodes[i].Community = ""
		}
	}
}
