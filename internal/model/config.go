package model

import (
	"runtime"
	"time"
)

// Config is the complete morphcorp configuration.
type Config struct {
	Corpus      CorpusConfig      `yaml:"corpus" mapstructure:"corpus"`
	Text        TextConfig        `yaml:"text" mapstructure:"text"`
	Analyzer    AnalyzerConfig    `yaml:"analyzer" mapstructure:"analyzer"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Pipeline    PipelineConfig    `yaml:"pipeline" mapstructure:"pipeline"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
	Log         LogConfig         `yaml:"log" mapstructure:"log"`
}

// CorpusConfig locates the document directory.
type CorpusConfig struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// TextConfig controls segmentation.
type TextConfig struct {
	Language       string   `yaml:"language" mapstructure:"language"`
	Terminators    string   `yaml:"terminators" mapstructure:"terminators"`
	Abbreviations  []string `yaml:"abbreviations" mapstructure:"abbreviations"`
	SplitOnNewline bool     `yaml:"split_on_newline" mapstructure:"split_on_newline"`
	StripMarkup    bool     `yaml:"strip_markup" mapstructure:"strip_markup"`
}

// AnalyzerConfig selects and configures the external morphological analyzer.
type AnalyzerConfig struct {
	// Kind is "mystem" (flat tag strings) or "service" (OpenCorpora tags over HTTP).
	Kind              string        `yaml:"kind" mapstructure:"kind"`
	MystemPath        string        `yaml:"mystem_path" mapstructure:"mystem_path"`
	ServiceURL        string        `yaml:"service_url" mapstructure:"service_url"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
	BatchSize         int           `yaml:"batch_size" mapstructure:"batch_size"`
	Proxy             string        `yaml:"proxy" mapstructure:"proxy"` // service only; empty uses HTTP(S)_PROXY
}

// CacheConfig controls the analysis cache.
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig sizes the document worker pool.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// PipelineConfig controls failure handling.
type PipelineConfig struct {
	// FailFast aborts a stage on the first failed document instead of
	// reporting partial success.
	FailFast bool `yaml:"fail_fast" mapstructure:"fail_fast"`
}

// OutputConfig controls user-facing output.
type OutputConfig struct {
	Verbose   bool `yaml:"verbose" mapstructure:"verbose"`
	Progress  bool `yaml:"progress" mapstructure:"progress"`
	Visualize bool `yaml:"visualize" mapstructure:"visualize"`
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Corpus: CorpusConfig{
			Dir: "./tmp/articles",
		},
		Text: TextConfig{
			Language:       "ru",
			Terminators:    ".!?…",
			SplitOnNewline: true,
			StripMarkup:    true,
		},
		Analyzer: AnalyzerConfig{
			Kind:              "mystem",
			MystemPath:        "mystem",
			ServiceURL:        "http://localhost:8090",
			Timeout:           60 * time.Second,
			RequestsPerSecond: 10,
			Burst:             5,
			BatchSize:         500,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "~/.morphcorp/cache",
			MemoryTTL: time.Hour,
			DiskTTL:   30 * 24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			Workers: runtime.NumCPU(),
		},
		Pipeline: PipelineConfig{
			FailFast: false,
		},
		Output: OutputConfig{
			Verbose:   false,
			Progress:  true,
			Visualize: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
