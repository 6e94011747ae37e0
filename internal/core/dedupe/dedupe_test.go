package dedupe

import (
	"testing"

	"github.com/agenthands/influence/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func influence(testHead, testTail, head, rel, tail string, score float64) model.ScoredEdge {
	return model.ScoredEdge{
		TestHeadID: testHead, TestHeadLabel: testHead + "-label", TestRelID: "treats", TestTailID: testTail, TestTailLabel: testTail + "-label",
		TrainHeadID: head, TrainHeadLabel: head + "-label", TrainRelID: rel, TrainRelLabel: rel + "-label",
		TrainTailID: tail, TrainTailLabel: tail + "-label",
		Score: score,
	}
}

func TestBuild_NodesAndRoles(t *testing.T) {
	rows := []model.ScoredEdge{
		influence("drug", "disease", "drug", "interacts", "gene", 0.9),
		influence("drug", "disease", "gene", "causes", "disease", 0.8),
		influence("drug", "disease", "protein", "part_of", "gene", 0.7),
	}

	nodes, edges := Build(rows)

	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	assert.Equal(t, []string{"drug", "gene", "disease", "protein"}, ids)

	byID := make(map[string]model.Node)
	for _, n := range nodes {
		byID[n.ID] = n
	}
	assert.Equal(t, model.RolePrediction, byID["drug"].Role)
	assert.Equal(t, model.RolePrediction, byID["disease"].Role)
	assert.Equal(t, model.RoleTraining, byID["gene"].Role)
	assert.Equal(t, "gene-label", byID["gene"].Label)
	assert.Equal(t, 3, byID["gene"].Degree)
	assert.Equal(t, 1, byID["protein"].Degree)

	assert.Len(t, edges, 3)
}

func TestBuild_TestEntitiesWithoutTrainingEdges(t *testing.T) {
	nodes, edges := Build([]model.ScoredEdge{influence("drug", "disease", "a", "r", "b", 0.5)})

	require.Len(t, nodes, 4)
	assert.Len(t, edges, 1)
	assert.Equal(t, "drug", nodes[2].ID)
	assert.Equal(t, 0, nodes[2].Degree)
	assert.Equal(t, model.RolePrediction, nodes[3].Role)
}

func TestBuild_DuplicateTriplesStack(t *testing.T) {
	rows := []model.ScoredEdge{
		influence("x", "y", "a", "r", "b", 0.9),
		influence("x", "y", "a", "r", "b", 0.4),
		influence("x", "y", "a", "s", "b", 0.3),
	}

	nodes, edges := Build(rows)

	require.Len(t, edges, 2)
	assert.Equal(t, 2, edges[0].Count)
	assert.Equal(t, 0.9, edges[0].Score)
	assert.InDelta(t, 9.0, edges[0].Width, 1e-9)
	assert.Equal(t, "s", edges[1].RelationID)

	// Two relations between a and b are still one neighbour.
	for _, n := range nodes {
		if n.ID == "a" || n.ID == "b" {
			assert.Equal(t, 1, n.Degree, n.ID)
		}
	}
}

func TestBuild_SelfLoopCountsOnce(t *testing.T) {
	nodes, edges := Build([]model.ScoredEdge{
		influence("x", "y", "a", "r", "a", 0.05),
		influence("x", "y", "a", "r", "b", 0.04),
		influence("x", "y", "a", "s", "a", 0.03),
	})

	assert.Len(t, edges, 3)
	assert.Equal(t, 1.0, edges[0].Width)
	assert.Equal(t, "a", nodes[0].ID)
	assert.Equal(t, 2, nodes[0].Degree)
	assert.Equal(t, "b", nodes[3].ID)
	assert.Equal(t, 1, nodes[3].Degree)
}

func TestBuild_Empty(t *testing.T) {
	nodes, edges := Build(nil)
	assert.Empty(t, nodes)
	assert.Empty(t, edges)
}
