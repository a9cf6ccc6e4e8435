// Package graph implements the periodic batch analysis over the interaction
// graph: power-iteration centrality and connected-component communities.
// It operates over a snapshot of the full edge set; nothing here touches
// the store directly.
package graph

import "math"

const (
	Damping   = 0.85
	Tolerance = 1e-6
	MaxIters  = 100
)

// Edge is one directed weighted interaction between two authors.
type Edge struct {
	Source string
	Target string
	Weight float64
}

// Result holds the write-back values for one analyzer pass. Authors absent
// from both maps had no edges and keep their previous values.
type Result struct {
	Centrality  map[string]float64
	Communities map[string]int
}

// Analyze runs both passes over the given edge set. An empty edge set
// yields empty maps.
func Analyze(edges []Edge) Result {
	return Result{
		Centrality:  Centrality(edges),
		Communities: Communities(edges),
	}
}

// Centrality runs damped power iteration over the directed weighted graph.
// Every node starts at 1/N; iteration stops when the sum of absolute deltas
// drops below Tolerance or after MaxIters. Nodes with no outgoing edges
// leak their mass, which is acceptable here.
func Centrality(edges []Edge) map[string]float64 {
	if len(edges) == 0 {
		return map[string]float64{}
	}

	type outEdge struct {
		target string
		weight float64
	}
	adj := map[string][]outEdge{}
	nodes := map[string]struct{}{}
	for _, e := range edges {
		nodes[e.Source] = struct{}{}
		nodes[e.Target] = struct{}{}
		adj[e.Source] = append(adj[e.Source], outEdge{e.Target, e.Weight})
	}

	n := float64(len(nodes))
	rank := make(map[string]float64, len(nodes))
	for node := range nodes {
		rank[node] = 1.0 / n
	}

	for i := 0; i < MaxIters; i++ {
		next := make(map[string]float64, len(nodes))
		for node := range nodes {
			next[node] = (1 - Damping) / n
		}
		for source, outs := range adj {
			outDegree := float64(len(outs))
			for _, out := range outs {
				next[out.target] += Damping * rank[source] * out.weight / outDegree
			}
		}

		delta := 0.0
		for node := range nodes {
			delta += math.Abs(next[node] - rank[node])
		}
		rank = next
		if delta < Tolerance {
			break
		}
	}

	return rank
}

// Communities finds connected components treating edges as undirected,
// via breadth-first traversal. Component ids are assigned sequentially
// from 0 in discovery order.
func Communities(edges []Edge) map[string]int {
	if len(edges) == 0 {
		return map[string]int{}
	}

	adj := map[string][]string{}
	order := []string{} // deterministic discovery order
	addNode := func(id string) {
		if _, ok := adj[id]; !ok {
			adj[id] = []string{}
			order = append(order, id)
		}
	}
	for _, e := range edges {
		addNode(e.Source)
		addNode(e.Target)
		adj[e.Source] = append(adj[e.Source], e.Target)
		adj[e.Target] = append(adj[e.Target], e.Source)
	}

	visited := map[string]struct{}{}
	communities := make(map[string]int, len(adj))
	communityID := 0

	for _, start := range order {
		if _, ok := visited[start]; ok {
			continue
		}
		queue := []string{start}
		visited[start] = struct{}{}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			communities[current] = communityID
			for _, neighbor := range adj[current] {
				if _, ok := visited[neighbor]; !ok {
					visited[neighbor] = struct{}{}
					queue = append(queue, neighbor)
				}
			}
		}
		communityID++
	}

	return communities
}
