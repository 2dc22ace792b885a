// Package analyzer orchestrates an analysis pass: it fans file extraction out
// across workers, merges their contributions into a single graph, and derives
// stats and unused-element findings. Extraction is the only parallel phase;
// everything graph-related is single-threaded by design.
package analyzer

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/viant/impactor/cache"
	"github.com/viant/impactor/graph"
	"github.com/viant/impactor/impact"
	"github.com/viant/impactor/unused"
)

// Analyzer drives one analysis pass over a set of files.
type Analyzer struct {
	extractors   []Extractor
	workers      int
	chunkTimeout time.Duration
	cache        *cache.Cache
	policy       impact.Policy
	unusedConfig unused.Config
	logger       *slog.Logger
}

// New creates an analyzer; register extractors with WithExtractors.
func New(options ...Option) *Analyzer {
	analyzer := &Analyzer{
		workers:      runtime.NumCPU(),
		policy:       impact.DefaultPolicy(),
		unusedConfig: unused.DefaultConfig(),
		logger:       slog.Default(),
	}
	for _, option := range options {
		option(analyzer)
	}
	return analyzer
}

// Stats describes one analysis pass.
type Stats struct {
	TotalNodes         int            `json:"totalNodes"`
	TotalEdges         int            `json:"totalEdges"`
	NodeTypes          map[string]int `json:"nodeTypes"`
	AverageImpactScore float64        `json:"averageImpactScore"`
	ExtractedFiles     int            `json:"extractedFiles"`
	SkippedFiles       int            `json:"skippedFiles"`
	FailedFiles        int            `json:"failedFiles"`
	FailedChunks       int            `json:"failedChunks"`
}

// Result is the outcome of an analysis pass.
type Result struct {
	Graph  *graph.Graph   `json:"-"`
	Stats  *Stats         `json:"stats"`
	Unused *unused.Result `json:"unused"`
}

type fileContribution struct {
	nodeIDs  []string
	edgeKeys []string
}

type chunkResult struct {
	nodes         []*graph.Node
	edges         []*graph.Edge
	contributions map[string]*fileContribution
	extracted     int
	failed        int
	timedOut      bool
}

// Analyze runs a full pass: cache consultation, parallel extraction,
// sequential merge, stats and unused detection, cache update. A run always
// produces a graph and stats even under partial extraction failures; only a
// structural contract violation during merge (an edge naming a node that was
// never added) is a hard failure.
func (a *Analyzer) Analyze(ctx context.Context, files []File) (*Result, error) {
	stats := &Stats{}
	pending := a.consultCache(ctx, files, stats)

	chunks := a.chunk(pending)
	results := make([]*chunkResult, len(chunks))
	wait := sync.WaitGroup{}
	for i := range chunks {
		wait.Add(1)
		go func(index int) {
			defer wait.Done()
			results[index] = a.extractChunk(ctx, chunks[index])
		}(i)
	}
	wait.Wait()

	// single-writer merge: the graph has no internal locking, so worker
	// output is replayed one chunk at a time
	g := graph.New()
	content := contentByPath(files)
	for _, result := range results {
		if result.timedOut {
			stats.FailedChunks++
			continue
		}
		for _, node := range result.nodes {
			g.AddNode(node)
		}
		stats.ExtractedFiles += result.extracted
		stats.FailedFiles += result.failed
		if a.cache != nil {
			for path, contribution := range result.contributions {
				a.cache.Update(path, content[path], contribution.nodeIDs, contribution.edgeKeys)
			}
		}
	}
	// edges replay after every chunk's nodes so an edge may target a node
	// guaranteed by another file (e.g. a synthetic file node)
	for _, result := range results {
		if result.timedOut {
			continue
		}
		for _, edge := range result.edges {
			if err := g.AddEdge(edge.From, edge.To, edge.Type, edge.Metadata); err != nil {
				return nil, fmt.Errorf("failed to merge extractor output: %w", err)
			}
		}
	}

	a.persistCache(ctx)
	a.finishStats(g, stats)
	return &Result{
		Graph:  g,
		Stats:  stats,
		Unused: unused.New(g, a.unusedConfig).Analyze(),
	}, nil
}

// consultCache loads the cache document and narrows the file set to changed
// files. Cache trouble degrades to a full pass, never a failure.
func (a *Analyzer) consultCache(ctx context.Context, files []File, stats *Stats) []File {
	if a.cache == nil {
		return files
	}
	if err := a.cache.Load(ctx); err != nil {
		a.logger.Warn("cache unreadable, re-analyzing everything", "url", a.cache.URL, "error", err)
	}
	current := contentByPath(files)
	changed := map[string]bool{}
	for _, path := range a.cache.ChangedFiles(current) {
		if _, ok := current[path]; !ok {
			// stored entry for a file no longer present
			a.cache.Remove(path)
			continue
		}
		changed[path] = true
	}
	var pending []File
	for _, f := range files {
		if changed[f.RelativePath] {
			pending = append(pending, f)
			continue
		}
		stats.SkippedFiles++
	}
	return pending
}

func (a *Analyzer) persistCache(ctx context.Context) {
	if a.cache == nil {
		return
	}
	if err := a.cache.Save(ctx); err != nil {
		a.logger.Warn("cache not persisted, next run re-analyzes everything", "url", a.cache.URL, "error", err)
	}
}

func (a *Analyzer) finishStats(g *graph.Graph, stats *Stats) {
	shape := g.Stats()
	stats.TotalNodes = shape.TotalNodes
	stats.TotalEdges = shape.TotalEdges
	stats.NodeTypes = shape.NodeTypes
	scorer := impact.NewScorer(g, a.policy)
	total := 0.0
	for _, node := range g.AllNodes() {
		score, err := scorer.Score(node.ID)
		if err != nil {
			continue
		}
		total += score.Value
	}
	if stats.TotalNodes > 0 {
		stats.AverageImpactScore = total / float64(stats.TotalNodes)
	}
}

// chunk splits files into at most a.workers contiguous disjoint subsets.
func (a *Analyzer) chunk(files []File) [][]File {
	if len(files) == 0 {
		return nil
	}
	workers := a.workers
	if workers > len(files) {
		workers = len(files)
	}
	size := (len(files) + workers - 1) / workers
	var chunks [][]File
	for start := 0; start < len(files); start += size {
		end := start + size
		if end > len(files) {
			end = len(files)
		}
		chunks = append(chunks, files[start:end])
	}
	return chunks
}

// extractChunk runs one worker's extraction, bounded by the chunk timeout. A
// chunk that overruns contributes nothing and is not retried; its extractor
// goroutine is abandoned since no cancellation is propagated mid-extraction.
func (a *Analyzer) extractChunk(ctx context.Context, files []File) *chunkResult {
	if a.chunkTimeout <= 0 {
		return a.runChunk(files)
	}
	done := make(chan *chunkResult, 1)
	go func() {
		done <- a.runChunk(files)
	}()
	select {
	case result := <-done:
		return result
	case <-time.After(a.chunkTimeout):
		a.logger.Warn("extraction chunk timed out", "files", len(files), "timeout", a.chunkTimeout)
		return &chunkResult{timedOut: true}
	case <-ctx.Done():
		return &chunkResult{timedOut: true}
	}
}

// runChunk extracts a disjoint subset of files into worker-local node/edge
// lists; it touches no shared state.
func (a *Analyzer) runChunk(files []File) *chunkResult {
	result := &chunkResult{contributions: map[string]*fileContribution{}}
	for _, f := range files {
		var fileNodes []*graph.Node
		var fileEdges []*graph.Edge
		failed := false
		for _, extractor := range a.extractors {
			if !extractor.Supports(f.Extension) {
				continue
			}
			nodes, edges, err := a.extract(extractor, f)
			if err != nil {
				a.logger.Warn("extraction failed", "file", f.RelativePath, "error", err)
				failed = true
				break
			}
			fileNodes = append(fileNodes, nodes...)
			fileEdges = append(fileEdges, edges...)
		}
		if failed {
			// a failing file contributes nothing at all
			result.failed++
			continue
		}
		contribution := &fileContribution{}
		for _, node := range fileNodes {
			result.nodes = append(result.nodes, node)
			contribution.nodeIDs = append(contribution.nodeIDs, node.ID)
		}
		for _, edge := range fileEdges {
			result.edges = append(result.edges, edge)
			contribution.edgeKeys = append(contribution.edgeKeys, edge.Key())
		}
		result.extracted++
		result.contributions[f.RelativePath] = contribution
	}
	return result
}

// extract shields the pass from a misbehaving collaborator: a panicking
// extractor yields a per-file error instead of taking the run down.
func (a *Analyzer) extract(extractor Extractor, f File) (nodes []*graph.Node, edges []*graph.Edge, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extractor panicked on %s: %v", f.RelativePath, r)
		}
	}()
	return extractor.Extract(f)
}

func contentByPath(files []File) map[string][]byte {
	result := make(map[string][]byte, len(files))
	for _, f := range files {
		result[f.RelativePath] = f.Content
	}
	return result
}
