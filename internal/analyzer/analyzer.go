// Package analyzer is the boundary to external morphological analyzers.
// The analyzers themselves (the mystem binary, a pymorphy-style HTTP
// service) run out of process; this package only talks to them.
package analyzer

import (
	"context"
	"errors"

	"github.com/ppiankov/morphcorp/internal/tagconv"
)

// ErrUnavailable is returned when the configured analyzer cannot be reached.
var ErrUnavailable = errors.New("analyzer unavailable")

// Analyzer analyzes words in batches.
type Analyzer interface {
	// Name identifies the analyzer; it is part of cache keys.
	Name() string

	// Tagset is the native tag representation the analyzer produces.
	Tagset() tagconv.Tagset

	// Analyze returns exactly one Analysis per input word, in order.
	// Words the analyzer does not recognize get an Analysis without a tag.
	Analyze(ctx context.Context, words []string) ([]Analysis, error)

	// Available returns nil when the analyzer can serve requests.
	Available(ctx context.Context) error
}

// Analysis is the result for a single word.
type Analysis struct {
	Text  string
	Lemma string
	Tag   tagconv.Tag
}

// Found reports whether the analyzer recognized the word.
func (a Analysis) Found() bool {
	return a.Tag != nil && a.Tag.String() != ""
}

// chunk splits words into batches of at most size (size <= 0 means one batch).
func chunk(words []string, size int) [][]string {
	if size <= 0 || len(words) <= size {
		return [][]string{words}
	}
	var out [][]string
	for len(words) > size {
		out = append(out, words[:size])
		words = words[size:]
	}
	return append(out, words)
}
