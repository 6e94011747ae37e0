package community

import (
	"github.com/agenthands/influence/internal/core/model"
)

type CommunityDetector interface {
	Detect(nodes []model.Node, edges []model.DisplayEdge) ([][]model.Node, error)
}

// ComponentDetector groups nodes into connected components.
type ComponentDetector struct {
	// MinSize drops smaller components from the result. Zero keeps all.
	MinSize int
}

func NewComponentDetector() *ComponentDetector {
	return &ComponentDetector{}
}

func (d *ComponentDetector) Detect(nodes []model.Node, edges []model.DisplayEdge) ([][]model.Node, error) {
	adj := adjacency(nodes, edges)
	nodeMap := make(map[string]model.Node, len(nodes))
	for _, n := range nodes {
		nodeMap[n.ID] = n
	}

	visited := make(map[string]bool)
	var components [][]model.Node

	// Walking nodes in slice order keeps component order stable.
	for _, n := range nodes {
		if visited[n.ID] {
			continue
		}
		var ids []string
		d.dfs(n.ID, adj, visited, &ids)
		if len(ids) < d.MinSize {
			continue
		}
		component := make([]model.Node, 0, len(ids))
		for _, id := range ids {
			component = append(component, nodeMap[id])
		}
		components = append(components, component)
	}

	return components, nil
}

func (d *ComponentDetector) dfs(u string, adj map[string]map[string]int, visited map[string]bool, component *[]string) {
	visited[u] = true
	*component = append(*component, u)
	for _, v := range sortedKeys(adj[u]) {
		if !visited[v] {
			d.dfs(v, adj, visited, component)
		}
	}
}

// adjacency builds an undirected neighbour -> edge multiplicity map over the
// given nodes. Self loops and edges leaving the node set are ignored.
func adjacency(nodes []model.Node, edges []model.DisplayEdge) map[string]map[string]int {
	adj := make(map[string]map[string]int, len(nodes))
	for _, n := range nodes {
		adj[n.ID] = make(map[string]int)
	}
	for _, e := range edges {
		if e.Source == e.Target {
			continue
		}
		if _, ok := adj[e.Source]; !ok {
			continue
		}
		if _, ok := adj[e.Target]; !ok {
			continue
		}
		adj[e.Source][e.Target]++
		adj[e.Target][e.Source]++
	}
	return adj
}
