package analyzer

import (
	"log/slog"
	"time"

	"github.com/viant/impactor/cache"
	"github.com/viant/impactor/impact"
	"github.com/viant/impactor/unused"
)

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithExtractors registers extractor collaborators; files are offered to each
// registered extractor that supports their extension.
func WithExtractors(extractors ...Extractor) Option {
	return func(a *Analyzer) {
		a.extractors = append(a.extractors, extractors...)
	}
}

// WithWorkers sets the number of parallel extraction workers.
func WithWorkers(workers int) Option {
	return func(a *Analyzer) {
		if workers > 0 {
			a.workers = workers
		}
	}
}

// WithCache enables incremental analysis backed by the given cache.
func WithCache(c *cache.Cache) Option {
	return func(a *Analyzer) {
		a.cache = c
	}
}

// WithPolicy sets the impact scoring policy.
func WithPolicy(policy impact.Policy) Option {
	return func(a *Analyzer) {
		a.policy = policy
	}
}

// WithUnusedConfig sets the unused-detection configuration.
func WithUnusedConfig(config unused.Config) Option {
	return func(a *Analyzer) {
		a.unusedConfig = config
	}
}

// WithLogger sets the structured logger used for non-fatal degradations
// (extraction failures, cache I/O problems).
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// WithChunkTimeout bounds how long one worker chunk may run. A chunk that
// exceeds the bound contributes zero nodes and edges and is counted as
// failed; it is not retried.
func WithChunkTimeout(timeout time.Duration) Option {
	return func(a *Analyzer) {
		a.chunkTimeout = timeout
	}
}
