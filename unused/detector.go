// Package unused flags graph elements that nothing in the analyzed source
// structurally references. Detection is heuristic: it works off whatever
// nodes and edges the extractors supplied, with no symbol resolution.
package unused

import (
	"sort"

	"github.com/viant/impactor/graph"
)

// Config controls detection behaviour.
type Config struct {
	// EntryPointTypes lists node types that are valid with zero incoming
	// edges: they are invoked externally (routes, endpoints) rather than
	// referenced internally.
	EntryPointTypes []string
	// Tag, when set, marks matched nodes with metadata["unused"] = true.
	// Tagging is idempotent; it is the only graph mutation this package does.
	Tag bool
}

// DefaultConfig returns the stock entry-point exemptions with tagging off.
func DefaultConfig() Config {
	return Config{
		EntryPointTypes: []string{
			graph.TypeRoute,
			graph.TypeEndpoint,
			"api_endpoint",
			"external_call",
		},
	}
}

// Result aggregates one full-graph detection pass.
type Result struct {
	UnusedNodes         []string `json:"unusedNodes"`
	DeadServices        []string `json:"deadServices"`
	DeadEndpoints       []string `json:"deadEndpoints"`
	UnreferencedExports []string `json:"unreferencedExports"`
	TotalScanned        int      `json:"totalScanned"`
}

// Detector sweeps the whole graph in linear passes rather than issuing
// per-node adjacency queries.
type Detector struct {
	graph  *graph.Graph
	config Config
}

// New creates a detector over the given graph.
func New(g *graph.Graph, config Config) *Detector {
	if len(config.EntryPointTypes) == 0 {
		config.EntryPointTypes = DefaultConfig().EntryPointTypes
	}
	return &Detector{graph: g, config: config}
}

// Analyze runs the unused sweep and the specialized dead-element sweeps.
func (d *Detector) Analyze() *Result {
	result := &Result{TotalScanned: d.graph.Size()}

	incoming := map[string]int{}
	for _, edge := range d.graph.AllEdges() {
		incoming[edge.To]++
	}

	entryPoints := map[string]bool{}
	for _, nodeType := range d.config.EntryPointTypes {
		entryPoints[nodeType] = true
	}

	for _, node := range d.graph.SortedNodes() {
		if incoming[node.ID] > 0 || entryPoints[node.Type] {
			continue
		}
		result.UnusedNodes = append(result.UnusedNodes, node.ID)
	}

	result.DeadServices = d.deadServices()
	result.DeadEndpoints = d.deadEndpoints()
	result.UnreferencedExports = d.unreferencedExports()

	if d.config.Tag {
		d.tag(result.UnusedNodes)
	}
	return result
}

// deadServices reports services no other element injects or depends on.
func (d *Detector) deadServices() []string {
	wired := map[string]int{}
	for _, edge := range d.graph.AllEdges() {
		if edge.Type == graph.EdgeInjects || edge.Type == graph.EdgeDependsOn {
			wired[edge.To]++
		}
	}
	var result []string
	for _, node := range d.graph.SortedNodes() {
		if node.Type == graph.TypeService && wired[node.ID] == 0 {
			result = append(result, node.ID)
		}
	}
	return result
}

// deadEndpoints reports routes/endpoints that no routing or exposure edge targets.
func (d *Detector) deadEndpoints() []string {
	routed := map[string]bool{}
	for _, edge := range d.graph.AllEdges() {
		if edge.Type == graph.EdgeRouteToController || edge.Type == graph.EdgeExposes {
			routed[edge.To] = true
		}
	}
	var result []string
	for _, node := range d.graph.SortedNodes() {
		if (node.Type == graph.TypeRoute || node.Type == graph.TypeEndpoint) && !routed[node.ID] {
			result = append(result, node.ID)
		}
	}
	return result
}

// unreferencedExports reports export/function nodes whose id is absent from
// every edge's "imports" metadata list. This is a name-based heuristic: it
// can both over- and under-report (e.g. name collisions across files) and is
// intentionally not a resolved-symbol check.
func (d *Detector) unreferencedExports() []string {
	imported := map[string]bool{}
	for _, edge := range d.graph.AllEdges() {
		for _, name := range importedNames(edge.Metadata) {
			imported[name] = true
		}
	}
	var result []string
	for _, node := range d.graph.SortedNodes() {
		if node.Type != graph.TypeExport && node.Type != graph.TypeFunction {
			continue
		}
		if !imported[node.ID] {
			result = append(result, node.ID)
		}
	}
	return result
}

func (d *Detector) tag(ids []string) {
	for _, id := range ids {
		node := d.graph.GetNode(id)
		if node == nil {
			continue
		}
		if node.Metadata == nil {
			node.Metadata = map[string]interface{}{}
		}
		node.Metadata["unused"] = true
	}
}

// importedNames extracts the "imports" name list from edge metadata,
// tolerating both []string and decoded-JSON []interface{} shapes.
func importedNames(metadata map[string]interface{}) []string {
	value, ok := metadata["imports"]
	if !ok {
		return nil
	}
	var names []string
	switch actual := value.(type) {
	case []string:
		names = append(names, actual...)
	case []interface{}:
		for _, item := range actual {
			if name, ok := item.(string); ok {
				names = append(names, name)
			}
		}
	case string:
		names = append(names, actual)
	}
	sort.Strings(names)
	return names
}
