package analyzer

import (
	"fmt"
	"strings"

	"github.com/ppiankov/morphcorp/internal/cache"
	"github.com/ppiankov/morphcorp/internal/model"
)

// New creates the analyzer selected by config.Kind
func New(config model.AnalyzerConfig) (Analyzer, error) {
	switch strings.ToLower(config.Kind) {
	case "mystem":
		return NewMystem(config.MystemPath, config.Timeout, config.BatchSize), nil

	case "service", "pymorphy":
		s, err := NewService(ServiceConfig{
			BaseURL:           config.ServiceURL,
			Timeout:           config.Timeout,
			RequestsPerSecond: config.RequestsPerSecond,
			Burst:             config.Burst,
			BatchSize:         config.BatchSize,
			Proxy:             config.Proxy,
		})
		if err != nil {
			return nil, fmt.Errorf("service analyzer: %w", err)
		}
		return s, nil

	default:
		return nil, fmt.Errorf("unknown analyzer: %s (supported: mystem, service)", config.Kind)
	}
}

// NewFromConfig creates the configured analyzer, wrapped with the layered
// analysis cache when caching is enabled.
func NewFromConfig(config *model.Config) (Analyzer, error) {
	a, err := New(config.Analyzer)
	if err != nil {
		return nil, err
	}

	if !config.Cache.Enabled {
		return a, nil
	}

	c := cache.NewLayeredCache(config.Cache.MemoryTTL, config.Cache.Dir, config.Cache.DiskTTL)
	return NewCached(a, c, 0), nil
}
