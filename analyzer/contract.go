package analyzer

import (
	"github.com/viant/impactor/graph"
)

// File is the unit of work handed to extractors. Discovery and ignore-rule
// filtering happen upstream; by the time a File reaches the analyzer it is
// meant to be analyzed.
type File struct {
	RelativePath string
	Extension    string
	Content      []byte
}

// Extractor turns one file's content into graph contributions. Implementations
// live outside this module (per language / per framework); the analyzer only
// consumes this contract.
//
// An extractor must reference only node ids it produces itself or ids it is
// guaranteed exist (e.g. the synthetic file node it creates for the analyzed
// file). A parse failure is an error return, never a panic; the analyzer
// treats it as a zero contribution for that file.
type Extractor interface {
	// Supports reports whether the extractor handles the given file extension.
	Supports(extension string) bool
	// Extract produces zero or more nodes and edges for the file.
	Extract(file File) ([]*graph.Node, []*graph.Edge, error)
}
