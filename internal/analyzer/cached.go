package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/morphcorp/internal/cache"
	"github.com/ppiankov/morphcorp/internal/tagconv"
)

// Cached memoizes word analyses of another analyzer. Unrecognized words
// are cached too.
type Cached struct {
	inner Analyzer
	cache cache.Cache
	ttl   time.Duration
}

type cachedAnalysis struct {
	Lemma string `json:"lemma,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

// NewCached wraps inner with c. A zero ttl uses the cache default.
func NewCached(inner Analyzer, c cache.Cache, ttl time.Duration) *Cached {
	return &Cached{inner: inner, cache: c, ttl: ttl}
}

// Name returns the wrapped analyzer's name
func (c *Cached) Name() string { return c.inner.Name() }

// Tagset returns the wrapped analyzer's tagset
func (c *Cached) Tagset() tagconv.Tagset { return c.inner.Tagset() }

// Available delegates to the wrapped analyzer
func (c *Cached) Available(ctx context.Context) error { return c.inner.Available(ctx) }

// Analyze serves hits from the cache and sends the distinct misses to the
// wrapped analyzer in a single call.
func (c *Cached) Analyze(ctx context.Context, words []string) ([]Analysis, error) {
	out := make([]Analysis, len(words))

	var misses []string
	missAt := make(map[string][]int)
	for i, w := range words {
		if a, ok := c.lookup(w); ok {
			out[i] = a
			continue
		}
		if _, queued := missAt[w]; !queued {
			misses = append(misses, w)
		}
		missAt[w] = append(missAt[w], i)
	}

	if len(misses) == 0 {
		return out, nil
	}

	fresh, err := c.inner.Analyze(ctx, misses)
	if err != nil {
		return nil, err
	}
	if len(fresh) != len(misses) {
		return nil, fmt.Errorf("%s: got %d analyses for %d words", c.inner.Name(), len(fresh), len(misses))
	}

	for i, w := range misses {
		a := fresh[i]
		c.store(w, a)
		for _, at := range missAt[w] {
			out[at] = a
		}
	}
	return out, nil
}

func (c *Cached) key(word string) string {
	return cache.Key(c.inner.Name(), string(c.inner.Tagset()), word)
}

func (c *Cached) lookup(word string) (Analysis, bool) {
	data, ok := c.cache.Get(c.key(word))
	if !ok {
		return Analysis{}, false
	}

	var entry cachedAnalysis
	if err := json.Unmarshal(data, &entry); err != nil {
		return Analysis{}, false
	}

	a := Analysis{Text: word}
	if entry.Tag != "" {
		tag, err := tagconv.Decode(c.inner.Tagset(), entry.Tag)
		if err != nil {
			return Analysis{}, false
		}
		a.Lemma = entry.Lemma
		a.Tag = tag
	}
	return a, true
}

func (c *Cached) store(word string, a Analysis) {
	entry := cachedAnalysis{}
	if a.Found() {
		entry.Lemma = a.Lemma
		entry.Tag = a.Tag.String()
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	// A failed cache write only costs a future re-analysis.
	_ = c.cache.Set(c.key(word), data, c.ttl)
}
