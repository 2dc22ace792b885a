package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNode(id, nodeType string) *Node {
	return &Node{ID: id, Type: nodeType, Name: id, FilePath: id + ".ts", LOC: 1}
}

func TestGraph_AddEdge(t *testing.T) {
	testCases := []struct {
		description string
		nodes       []string
		from        string
		to          string
		expectErr   string
	}{
		{
			description: "both endpoints present",
			nodes:       []string{"a", "b"},
			from:        "a",
			to:          "b",
		},
		{
			description: "missing target",
			nodes:       []string{"x"},
			from:        "x",
			to:          "y",
			expectErr:   `node "y" not found`,
		},
		{
			description: "missing source",
			nodes:       []string{"y"},
			from:        "x",
			to:          "y",
			expectErr:   `node "x" not found`,
		},
	}

	for _, testCase := range testCases {
		g := New()
		for _, id := range testCase.nodes {
			g.AddNode(newNode(id, TypeFunction))
		}
		err := g.AddEdge(testCase.from, testCase.to, EdgeCalls, nil)
		if testCase.expectErr != "" {
			require.Error(t, err, testCase.description)
			assert.EqualError(t, err, testCase.expectErr, testCase.description)
			assert.True(t, IsNodeNotFound(err), testCase.description)
			// failed insertion must leave no partial state behind
			assert.Empty(t, g.AllEdges(), testCase.description)
			for _, node := range g.AllNodes() {
				assert.Empty(t, node.Dependencies, testCase.description)
				assert.Empty(t, node.Dependents, testCase.description)
			}
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.Equal(t, []string{"b"}, g.GetDependencies("a"), testCase.description)
		assert.Equal(t, []string{"a"}, g.GetDependents("b"), testCase.description)
	}
}

func TestGraph_MirrorInvariant(t *testing.T) {
	g := New()
	for _, id := range []string{"a", "b", "c", "d"} {
		g.AddNode(newNode(id, TypeFunction))
	}
	require.NoError(t, g.AddEdge("a", "b", EdgeCalls, nil))
	require.NoError(t, g.AddEdge("a", "c", EdgeImports, nil))
	require.NoError(t, g.AddEdge("b", "c", EdgeCalls, nil))
	require.NoError(t, g.AddEdge("c", "d", EdgeDependsOn, nil))

	for _, edge := range g.AllEdges() {
		assert.True(t, g.GetNode(edge.From).Dependencies[edge.To], edge.Key())
		assert.True(t, g.GetNode(edge.To).Dependents[edge.From], edge.Key())
	}
	for _, node := range g.AllNodes() {
		for id := range node.Dependencies {
			assert.NotNil(t, g.GetNode(id))
		}
		for id := range node.Dependents {
			assert.NotNil(t, g.GetNode(id))
		}
	}

	var keys []string
	for _, edge := range g.SortedEdges() {
		keys = append(keys, edge.Key())
	}
	assert.Equal(t, []string{"a|calls|b", "a|imports|c", "b|calls|c", "c|depends_on|d"}, keys)
}

func TestGraph_AddNodeDiscardsCallerAdjacency(t *testing.T) {
	g := New()
	g.AddNode(&Node{ID: "a", Type: TypeFunction, Dependencies: map[string]bool{"ghost": true}})
	// adjacency is derived from edges only, never taken from the caller
	assert.Empty(t, g.GetDependencies("a"))
	assert.Empty(t, g.GetDependents("a"))

	g.AddNode(newNode("b", TypeFunction))
	require.NoError(t, g.AddEdge("a", "b", EdgeCalls, nil))
	g.AddNode(&Node{ID: "a", Type: TypeClass, Dependents: map[string]bool{"phantom": true}})
	// a replacement keeps edge-backed adjacency and nothing else
	assert.Equal(t, []string{"b"}, g.GetDependencies("a"))
	assert.Empty(t, g.GetDependents("a"))
}

func TestGraph_AddNodeOverwrite(t *testing.T) {
	g := New()
	g.AddNode(newNode("a", TypeFunction))
	g.AddNode(newNode("b", TypeFunction))
	require.NoError(t, g.AddEdge("a", "b", EdgeCalls, nil))

	// re-adding an existing id replaces attributes but keeps recorded adjacency
	replacement := &Node{ID: "a", Type: TypeClass, Name: "A", LOC: 42}
	g.AddNode(replacement)

	node := g.GetNode("a")
	assert.Equal(t, TypeClass, node.Type)
	assert.Equal(t, 42, node.LOC)
	assert.Equal(t, []string{"b"}, g.GetDependencies("a"))
	assert.Equal(t, []string{"a"}, g.GetDependents("b"))
	assert.Equal(t, 2, g.Size())
	assert.Len(t, g.AllEdges(), 1)
}

func TestGraph_UnknownQueries(t *testing.T) {
	g := New()
	assert.Nil(t, g.GetNode("ghost"))
	assert.Empty(t, g.GetDependencies("ghost"))
	assert.Empty(t, g.GetDependents("ghost"))
}

func TestGraph_SortedNodes(t *testing.T) {
	g := New()
	for _, id := range []string{"c", "a", "b"} {
		g.AddNode(newNode(id, TypeFunction))
	}
	var insertion, sorted []string
	for _, node := range g.AllNodes() {
		insertion = append(insertion, node.ID)
	}
	for _, node := range g.SortedNodes() {
		sorted = append(sorted, node.ID)
	}
	assert.Equal(t, []string{"c", "a", "b"}, insertion)
	assert.Equal(t, []string{"a", "b", "c"}, sorted)
}

func TestGraph_Stats(t *testing.T) {
	g := New()
	g.AddNode(newNode("f1", TypeFile))
	g.AddNode(newNode("fn1", TypeFunction))
	g.AddNode(newNode("fn2", TypeFunction))
	require.NoError(t, g.AddEdge("f1", "fn1", EdgeDefines, nil))

	stats := g.Stats()
	assert.Equal(t, 3, stats.TotalNodes)
	assert.Equal(t, 1, stats.TotalEdges)
	assert.Equal(t, map[string]int{TypeFile: 1, TypeFunction: 2}, stats.NodeTypes)
}
