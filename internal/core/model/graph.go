package model

// ReductionStats describes what de-hairing did to a graph.
type ReductionStats struct {
	OriginalNodeCount int  `json:"original_node_count"`
	OriginalEdgeCount int  `json:"original_edge_count"`
	FinalNodeCount    int  `json:"final_node_count"`
	FinalEdgeCount    int  `json:"final_edge_count"`
	Passes            int  `json:"passes"`
	RemovedNodes      int  `json:"removed_nodes"`
	RemovedEdges      int  `json:"removed_edges"`
	DeHaired          bool `json:"dehaired"`
	Components        int  `json:"components"`
	SkippedRows       int  `json:"skipped_rows"`
}

// PredictionInfo describes the test edge the influences were computed for.
// It is taken from the first row of the selection.
type PredictionInfo struct {
	HeadID          string `json:"head"`
	HeadLabel       string `json:"head_label"`
	TailID          string `json:"tail"`
	TailLabel       string `json:"tail_label"`
	RelationLabel   string `json:"relation"`
	TotalInfluences int    `json:"total_influences"`
}

// Graph is the node/edge set handed to the renderer.
type Graph struct {
	Nodes      []Node          `json:"nodes"`
	Edges      []DisplayEdge   `json:"edges"`
	Stats      ReductionStats  `json:"stats"`
	Prediction *PredictionInfo `json:"prediction_info,omitempty"`
}

// Degrees counts, for every node touched by edges, its distinct neighbours.
// Parallel edges with different relations count once. A self loop makes the
// node its own neighbour, so it adds one.
func Degrees(edges []DisplayEdge) map[string]int {
	neighbours := make(map[string]map[string]struct{})
	touch := func(id string) map[string]struct{} {
		set, ok := neighbours[id]
		if !ok {
			set = make(map[string]struct{})
			neighbours[id] = set
		}
		return set
	}
	for _, e := range edges {
		src, dst := touch(e.Source), touch(e.Target)
		src[e.Target] = struct{}{}
		dst[e.Source] = struct{}{}
	}

	deg := make(map[string]int, len(neighbours))
	for id, set := range neighbours {
		deg[id] = len(set)
	}
	return deg
}
