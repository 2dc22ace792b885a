package graph

// Stats summarizes graph shape for reporting.
type Stats struct {
	TotalNodes int            `json:"totalNodes"`
	TotalEdges int            `json:"totalEdges"`
	NodeTypes  map[string]int `json:"nodeTypes"`
}

// Stats returns node/edge totals and a per-type node histogram.
func (g *Graph) Stats() *Stats {
	stats := &Stats{
		TotalNodes: len(g.nodes),
		TotalEdges: len(g.edges),
		NodeTypes:  make(map[string]int),
	}
	for _, node := range g.nodes {
		stats.NodeTypes[node.Type]++
	}
	return stats
}
