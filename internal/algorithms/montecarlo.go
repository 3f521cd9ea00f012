package algorithms

import (
	"math/rand/v2"

	"github.com/nodeql/nodeql/internal/graph"
)

// EdgeSampler independently keeps each edge of the given types with
// probability Retention, mirroring the teacher's IndependentEdgeSampler
// but over a deterministic typed multigraph rather than a probabilistic
// one: there is no per-edge probability to sample against, so every edge
// is offered the same retention chance.
type EdgeSampler struct {
	Rand      *rand.Rand
	Retention float64
}

// keep draws once and reports whether the edge currently being offered
// survives, which happens with probability Retention.
func (s *EdgeSampler) keep() bool {
	if s.Rand == nil {
		return rand.Float64() < s.Retention
	}
	return s.Rand.Float64() < s.Retention
}

// ApproximateReachability runs trials independent Monte Carlo samples of
// the subgraph induced by keeping each edge of the given types with
// probability Retention, and returns the fraction of trials in which end
// was reached from start by BFS over the surviving edges. Useful for
// estimating reachability robustness on a large graph where exhaustively
// checking every edge subset is infeasible; exact reachability is
// Reachable.
func (s *EdgeSampler) ApproximateReachability(g graph.Graph, start, end graph.NodeID, types []string, trials int) (float64, error) {
	if _, ok := g.GetNode(start); !ok {
		return 0, Error{Kind: "NodeMissing", Message: "start node " + string(start) + " does not exist"}
	}
	if _, ok := g.GetNode(end); !ok {
		return 0, Error{Kind: "NodeMissing", Message: "end node " + string(end) + " does not exist"}
	}
	if trials <= 0 {
		return 0, Error{Kind: "InvalidArgument", Message: "trials must be positive"}
	}

	hits := 0
	for i := 0; i < trials; i++ {
		if s.reaches(g, start, end, types) {
			hits++
		}
	}
	return float64(hits) / float64(trials), nil
}

func (s *EdgeSampler) reaches(g graph.Graph, start, end graph.NodeID, types []string) bool {
	visited := map[graph.NodeID]bool{start: true}
	queue := []graph.NodeID{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == end {
			return true
		}
		for _, ref := range g.OutFrom(current, types...) {
			if visited[ref.Other] || !s.keep() {
				continue
			}
			visited[ref.Other] = true
			queue = append(queue, ref.Other)
		}
	}
	return false
}
