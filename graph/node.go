package graph

// Node types contributed by extractors. The Type field is an open tag: extractors
// may introduce categories beyond this list without any change to the core.
const (
	TypeFile     = "file"
	TypeFunction = "function"
	TypeClass    = "class"
	TypeEndpoint = "endpoint"
	TypeRoute    = "route"
	TypeService  = "service"
	TypeProvider = "provider"
	TypeImport   = "import"
	TypeExport   = "export"
)

// Edge types
const (
	EdgeImports           = "imports"
	EdgeExports           = "exports"
	EdgeCalls             = "calls"
	EdgeExtends           = "extends"
	EdgeImplements        = "implements"
	EdgeDependsOn         = "depends_on"
	EdgeInjects           = "injects"
	EdgeDefines           = "defines"
	EdgeAccesses          = "accesses"
	EdgeExposes           = "exposes"
	EdgeRouteToController = "route_to_controller"
	EdgeRepositoryEntity  = "repository_entity"
	EdgeUsesDecorator     = "uses_decorator"
	EdgeUsesEntity        = "uses_entity"
)

// Node represents a structural element of a source tree (a file, function,
// class, endpoint, service, ...) identified by a run-unique ID.
type Node struct {
	ID       string                 `json:"id"`
	Type     string                 `json:"type"`
	Name     string                 `json:"name"`
	FilePath string                 `json:"filePath"`
	Line     int                    `json:"line"`
	Column   int                    `json:"column"`
	LOC      int                    `json:"loc"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`

	// Dependencies holds ids this node points to; Dependents holds ids pointing
	// to this node. Both are maintained by Graph.AddEdge and mirror the edge set.
	Dependencies map[string]bool `json:"-"`
	Dependents   map[string]bool `json:"-"`
}

// Edge represents a directed structural relationship between two nodes.
type Edge struct {
	From     string                 `json:"from"`
	To       string                 `json:"to"`
	Type     string                 `json:"type"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Key returns a run-stable identifier for the edge, usable as a cache edge key.
func (e *Edge) Key() string {
	return e.From + "|" + e.Type + "|" + e.To
}
