package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCentralityEmpty(t *testing.T) {
	assert.Empty(t, Centrality(nil))
	assert.Empty(t, Centrality([]Edge{}))
}

func TestCentralityCycle(t *testing.T) {
	assert := assert.New(t)

	// 3-node cycle converges to uniform 1/3
	edges := []Edge{
		{"a", "b", 1.0},
		{"b", "c", 1.0},
		{"c", "a", 1.0},
	}
	rank := Centrality(edges)
	assert.Len(rank, 3)
	for _, node := range []string{"a", "b", "c"} {
		assert.InDelta(1.0/3.0, rank[node], 1e-4, "node %s", node)
	}

	sum := 0.0
	for _, r := range rank {
		sum += r
	}
	assert.InDelta(1.0, sum, 1e-4)
}

func TestCentralitySink(t *testing.T) {
	assert := assert.New(t)

	// b has no outgoing edges; its mass leaks, so the total falls short
	// of 1.0 but b still outranks a
	rank := Centrality([]Edge{{"a", "b", 1.0}})
	assert.Len(rank, 2)
	assert.Greater(rank["b"], rank["a"])

	sum := rank["a"] + rank["b"]
	assert.Less(sum, 1.0)
	assert.Greater(sum, 0.0)
}

func TestCentralityHub(t *testing.T) {
	// many nodes pointing at one hub make it the clear maximum
	var edges []Edge
	for i := 0; i < 10; i++ {
		edges = append(edges, Edge{fmt.Sprintf("spoke-%d", i), "hub", 1.0})
	}
	rank := Centrality(edges)

	for i := 0; i < 10; i++ {
		assert.Greater(t, rank["hub"], rank[fmt.Sprintf("spoke-%d", i)])
	}
}

func TestCommunitiesEmpty(t *testing.T) {
	assert.Empty(t, Communities(nil))
}

func TestCommunities(t *testing.T) {
	assert := assert.New(t)

	// two components: {a,b,c} connected regardless of direction, {x,y}
	edges := []Edge{
		{"a", "b", 1.0},
		{"c", "b", 1.0},
		{"x", "y", 1.0},
	}
	communities := Communities(edges)
	assert.Len(communities, 5)

	assert.Equal(communities["a"], communities["b"])
	assert.Equal(communities["b"], communities["c"])
	assert.Equal(communities["x"], communities["y"])
	assert.NotEqual(communities["a"], communities["x"])

	// ids are sequential from 0 in discovery order
	assert.Equal(0, communities["a"])
	assert.Equal(1, communities["x"])
}

func TestAnalyze(t *testing.T) {
	assert := assert.New(t)

	res := Analyze(nil)
	assert.Empty(res.Centrality)
	assert.Empty(res.Communities)

	res = Analyze([]Edge{{"a", "b", 1.0}})
	assert.Len(res.Centrality, 2)
	assert.Len(res.Communities, 2)
}
