package impact

import (
	"context"
	"fmt"

	"github.com/viant/afs"
	"gopkg.in/yaml.v3"
)

// Level is a qualitative impact rating.
type Level string

const (
	LevelLow      Level = "Low"
	LevelMedium   Level = "Medium"
	LevelHigh     Level = "High"
	LevelCritical Level = "Critical"
)

// Policy holds the scoring weights and level thresholds. These are tuning
// knobs, not part of the algorithm: callers may retune them without touching
// the scorer.
type Policy struct {
	LOCWeight    float64 `yaml:"locWeight" json:"locWeight"`
	FanOutWeight float64 `yaml:"fanOutWeight" json:"fanOutWeight"`
	FanInWeight  float64 `yaml:"fanInWeight" json:"fanInWeight"`
	DepthWeight  float64 `yaml:"depthWeight" json:"depthWeight"`

	MediumThreshold   float64 `yaml:"mediumThreshold" json:"mediumThreshold"`
	HighThreshold     float64 `yaml:"highThreshold" json:"highThreshold"`
	CriticalThreshold float64 `yaml:"criticalThreshold" json:"criticalThreshold"`
}

// DefaultPolicy returns the stock weights and thresholds.
func DefaultPolicy() Policy {
	return Policy{
		LOCWeight:         0.4,
		FanOutWeight:      3,
		FanInWeight:       2,
		DepthWeight:       2,
		MediumThreshold:   10,
		HighThreshold:     50,
		CriticalThreshold: 100,
	}
}

// Level maps a score value onto its qualitative level.
func (p Policy) Level(score float64) Level {
	switch {
	case score >= p.CriticalThreshold:
		return LevelCritical
	case score >= p.HighThreshold:
		return LevelHigh
	case score >= p.MediumThreshold:
		return LevelMedium
	}
	return LevelLow
}

// LoadPolicy reads a YAML policy document from the given location. Fields
// absent from the document keep their default values.
func LoadPolicy(ctx context.Context, URL string) (Policy, error) {
	policy := DefaultPolicy()
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return policy, fmt.Errorf("failed to load policy %s: %w", URL, err)
	}
	if err = yaml.Unmarshal(data, &policy); err != nil {
		return policy, fmt.Errorf("failed to parse policy %s: %w", URL, err)
	}
	return policy, nil
}
