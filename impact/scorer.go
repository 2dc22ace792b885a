package impact

import (
	"github.com/viant/impactor/graph"
)

// Factors holds the raw inputs that produced a score.
type Factors struct {
	LOC             int `json:"loc"`
	FanOut          int `json:"fanOut"`
	FanIn           int `json:"fanIn"`
	DependencyDepth int `json:"dependencyDepth"`
}

// Score is the derived impact rating of a node; it is computed on demand and
// never stored on the graph.
type Score struct {
	Value   float64 `json:"score"`
	Level   Level   `json:"level"`
	Factors Factors `json:"factors"`
}

// Scorer rates the blast radius of individual nodes from the graph's
// adjacency. It only reads the graph.
type Scorer struct {
	graph  *graph.Graph
	policy Policy
}

// NewScorer creates a scorer over the given graph.
func NewScorer(g *graph.Graph, policy Policy) *Scorer {
	return &Scorer{graph: g, policy: policy}
}

// Score computes the impact rating for the node with the given id.
func (s *Scorer) Score(id string) (*Score, error) {
	node := s.graph.GetNode(id)
	if node == nil {
		return nil, &graph.NodeNotFoundError{ID: id}
	}
	factors := Factors{
		LOC:             node.LOC,
		FanOut:          len(node.Dependencies),
		FanIn:           len(node.Dependents),
		DependencyDepth: s.dependencyDepth(id),
	}
	value := float64(factors.LOC)*s.policy.LOCWeight +
		float64(factors.FanOut)*s.policy.FanOutWeight +
		float64(factors.FanIn)*s.policy.FanInWeight +
		float64(factors.DependencyDepth)*s.policy.DepthWeight
	return &Score{Value: value, Level: s.policy.Level(value), Factors: factors}, nil
}

// dependencyDepth returns the longest dependency chain reachable from id,
// marking nodes visited once globally per call so cycles terminate. With
// diamonds or cycles the result is a lower bound on the true longest path;
// exact longest path is intractable on general graphs, so termination and
// near-linear cost win over exactness here.
func (s *Scorer) dependencyDepth(id string) int {
	visited := map[string]bool{}
	return s.walkDepth(id, visited)
}

func (s *Scorer) walkDepth(id string, visited map[string]bool) int {
	visited[id] = true
	depth := 0
	for _, dep := range s.graph.GetDependencies(id) {
		if visited[dep] {
			continue
		}
		if candidate := s.walkDepth(dep, visited) + 1; candidate > depth {
			depth = candidate
		}
	}
	return depth
}
