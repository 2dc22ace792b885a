package impact

import (
	"sort"

	"github.com/viant/impactor/graph"
)

// Simulation predicts every category of breakage removing a node would cause.
// It is advisory output only: producing one never mutates the graph.
type Simulation struct {
	NodeID                  string   `json:"nodeId"`
	AffectedNodes           []string `json:"affectedNodes"`
	OrphanedNodes           []string `json:"orphanedNodes"`
	BrokenEndpoints         []string `json:"brokenEndpoints"`
	ServicesWithoutProvider []string `json:"servicesWithoutProvider"`
	Impact                  *Score   `json:"impactScore"`
}

// Simulator answers "what breaks if this node is deleted" against the current
// graph state.
type Simulator struct {
	graph  *graph.Graph
	scorer *Scorer
}

// NewSimulator creates a simulator sharing the scorer's policy.
func NewSimulator(g *graph.Graph, policy Policy) *Simulator {
	return &Simulator{graph: g, scorer: NewScorer(g, policy)}
}

// Simulate reports the consequences of removing the node with the given id.
// The node must exist; the impact score reflects the pre-removal graph.
func (s *Simulator) Simulate(id string) (*Simulation, error) {
	node := s.graph.GetNode(id)
	if node == nil {
		return nil, &graph.NodeNotFoundError{ID: id}
	}
	impact, err := s.scorer.Score(id)
	if err != nil {
		return nil, err
	}
	simulation := &Simulation{
		NodeID:        id,
		AffectedNodes: s.graph.GetDependents(id),
		Impact:        impact,
	}

	// dependencies that would lose their only referrer
	for _, depID := range s.graph.GetDependencies(id) {
		dependents := s.graph.GetDependents(depID)
		if len(dependents) == 1 && dependents[0] == id {
			simulation.OrphanedNodes = append(simulation.OrphanedNodes, depID)
		}
	}

	for _, dependentID := range simulation.AffectedNodes {
		dependent := s.graph.GetNode(dependentID)
		if dependent == nil {
			continue
		}
		// the removed node itself is handled below so a self-loop does not
		// list an endpoint twice
		if dependent.Type == graph.TypeEndpoint && dependentID != id {
			simulation.BrokenEndpoints = append(simulation.BrokenEndpoints, dependentID)
		}
		if node.Type == graph.TypeProvider && dependent.Type == graph.TypeService {
			simulation.ServicesWithoutProvider = append(simulation.ServicesWithoutProvider, dependentID)
		}
	}
	if node.Type == graph.TypeEndpoint {
		simulation.BrokenEndpoints = append(simulation.BrokenEndpoints, id)
	}
	sort.Strings(simulation.BrokenEndpoints)
	return simulation, nil
}
