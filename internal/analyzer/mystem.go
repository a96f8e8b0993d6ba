package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/ppiankov/morphcorp/internal/tagconv"
)

// mystemArgs: one word per line in and out, grammemes, disambiguation, JSON.
var mystemArgs = []string{"-n", "-i", "-d", "--format", "json"}

// Mystem runs the Yandex mystem binary as a subprocess.
type Mystem struct {
	path      string
	timeout   time.Duration
	batchSize int
}

// NewMystem creates a client for the mystem binary at path (looked up in
// PATH when it has no separator).
func NewMystem(path string, timeout time.Duration, batchSize int) *Mystem {
	if path == "" {
		path = "mystem"
	}
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &Mystem{path: path, timeout: timeout, batchSize: batchSize}
}

// Name returns the analyzer name
func (m *Mystem) Name() string {
	return "mystem"
}

// Tagset returns the flat Mystem tagset
func (m *Mystem) Tagset() tagconv.Tagset {
	return tagconv.TagsetMystem
}

// Available checks that the binary can be found
func (m *Mystem) Available(ctx context.Context) error {
	if _, err := exec.LookPath(m.path); err != nil {
		return fmt.Errorf("%w: mystem binary %q: %v", ErrUnavailable, m.path, err)
	}
	return nil
}

// Analyze runs mystem over words
func (m *Mystem) Analyze(ctx context.Context, words []string) ([]Analysis, error) {
	if len(words) == 0 {
		return []Analysis{}, nil
	}

	out := make([]Analysis, 0, len(words))
	for _, batch := range chunk(words, m.batchSize) {
		res, err := m.run(ctx, batch)
		if err != nil {
			return nil, err
		}
		out = append(out, res...)
	}
	return out, nil
}

func (m *Mystem) run(ctx context.Context, words []string) ([]Analysis, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, m.path, mystemArgs...)
	cmd.Stdin = strings.NewReader(strings.Join(words, "\n") + "\n")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("mystem: %w", ctx.Err())
		}
		return nil, fmt.Errorf("mystem: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return decodeMystem(&stdout, words)
}

type mystemItem struct {
	Text     string `json:"text"`
	Analysis []struct {
		Lex string `json:"lex"`
		Gr  string `json:"gr"`
	} `json:"analysis"`
}

// decodeMystem aligns the mystem JSON stream with the input words. mystem
// may emit a word as several items (e.g. "abc123" as "abc" and "123") or
// wrap items in arrays; items are consumed until their text covers the
// word, and the first analyzed item wins.
func decodeMystem(r io.Reader, words []string) ([]Analysis, error) {
	items, err := readMystemItems(r)
	if err != nil {
		return nil, err
	}

	out := make([]Analysis, len(words))
	next := 0
	for i, word := range words {
		out[i] = Analysis{Text: word}
		want := len([]rune(strings.TrimSpace(word)))
		if want == 0 {
			continue
		}
		covered := 0
		for next < len(items) && covered < want {
			item := items[next]
			next++
			covered += len([]rune(item.Text))
			if !out[i].Found() && len(item.Analysis) > 0 && item.Analysis[0].Gr != "" {
				out[i].Lemma = item.Analysis[0].Lex
				out[i].Tag = tagconv.MystemTag(item.Analysis[0].Gr)
			}
		}
	}
	return out, nil
}

// readMystemItems flattens the output into word items, dropping the
// whitespace items mystem emits for line breaks.
func readMystemItems(r io.Reader) ([]mystemItem, error) {
	dec := json.NewDecoder(r)
	var items []mystemItem
	for {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decode mystem output: %w", err)
		}

		var batch []mystemItem
		raw = bytes.TrimSpace(raw)
		if len(raw) > 0 && raw[0] == '[' {
			if err := json.Unmarshal(raw, &batch); err != nil {
				return nil, fmt.Errorf("decode mystem output: %w", err)
			}
		} else {
			var item mystemItem
			if err := json.Unmarshal(raw, &item); err != nil {
				return nil, fmt.Errorf("decode mystem output: %w", err)
			}
			batch = []mystemItem{item}
		}

		for _, item := range batch {
			if strings.TrimSpace(item.Text) == "" {
				continue
			}
			items = append(items, item)
		}
	}
	return items, nil
}
