// Package frequency counts part-of-speech labels in the morphological
// annotation of each document and records them in its metadata.
package frequency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ppiankov/morphcorp/internal/conllu"
	"github.com/ppiankov/morphcorp/internal/corpus"
	"github.com/ppiankov/morphcorp/internal/logger"
	"github.com/ppiankov/morphcorp/internal/model"
	"github.com/ppiankov/morphcorp/internal/store"
	"github.com/ppiankov/morphcorp/internal/ud"
	"github.com/ppiankov/morphcorp/internal/visualize"
	"github.com/ppiankov/morphcorp/internal/worker"
)

// ErrEmptyArtifact is returned when the raw text or the morphological
// annotation of a document is missing or zero-length.
var ErrEmptyArtifact = errors.New("empty artifact")

// CountFrequencies counts the taxonomy labels over all tokens. Every
// taxonomy label is present in the result, with zero when absent; other
// labels are ignored.
func CountFrequencies(sentences []model.Sentence) map[string]int {
	counts := make(map[string]int, len(ud.FrequencyTaxonomy))
	for _, label := range ud.FrequencyTaxonomy {
		counts[label] = 0
	}

	for _, s := range sentences {
		for _, t := range s.Tokens() {
			m, ok := t.Morphology()
			if !ok || !ud.InTaxonomy(m.POS) {
				continue
			}
			counts[m.POS]++
		}
	}
	return counts
}

// Options configure an aggregation run.
type Options struct {
	Workers  int
	FailFast bool
	RunID    string
	Logger   *slog.Logger

	// OnDocument is called once per finished document, from a single goroutine
	OnDocument func(id int, err error)
}

// Aggregator runs the frequency stage over a corpus.
type Aggregator struct {
	corpus     *corpus.Manager
	store      store.Repository
	visualizer visualize.Visualizer
	opts       Options
	logger     *slog.Logger
}

// New creates an aggregator. v may be nil to skip charts.
func New(c *corpus.Manager, s store.Repository, v visualize.Visualizer, opts Options) *Aggregator {
	l := opts.Logger
	if l == nil {
		l = logger.Discard()
	}
	return &Aggregator{corpus: c, store: s, visualizer: v, opts: opts, logger: l}
}

// Run processes every document, isolating failures unless FailFast is set.
func (a *Aggregator) Run(ctx context.Context) (*model.RunReport, error) {
	report := &model.RunReport{
		Stage:     model.StageFrequency,
		RunID:     a.opts.RunID,
		StartedAt: time.Now().UTC(),
	}
	a.logger.Info("stage started", "stage", report.Stage, "documents", a.corpus.Len(), "ud_tables", ud.TablesVersion)

	batch := worker.NewBatchProcessor(a.opts.Workers, a.opts.FailFast)
	batch.OnDone(func(r *worker.DocumentResult) {
		if r.Error != nil && !errors.Is(r.Error, worker.ErrAborted) {
			a.logger.Warn("document failed", "stage", report.Stage, "id", r.ID, "error", r.Error)
		}
		if a.opts.OnDocument != nil {
			a.opts.OnDocument(r.ID, r.Error)
		}
	})

	results, err := batch.ProcessDocuments(ctx, a.corpus.IDs(), func(ctx context.Context, id int) error {
		article, ok := a.corpus.Article(id)
		if !ok {
			return fmt.Errorf("document %d not in corpus", id)
		}
		return a.Process(ctx, article)
	})

	report.Documents = worker.Outcomes(results, nil)
	report.Duration = time.Since(report.StartedAt)

	a.logger.Info("stage finished", "stage", report.Stage,
		"ok", report.Count(model.StatusOK),
		"failed", report.Count(model.StatusFailed),
		"skipped", report.Count(model.StatusSkipped),
		"duration", report.Duration)

	return report, err
}

// Process counts the frequencies of one article, merges them into its
// metadata, persists it and hands the counts to the visualizer.
func (a *Aggregator) Process(ctx context.Context, article *model.Article) error {
	id := article.ID

	if err := a.requireContent(id, "raw text", func() (int64, error) { return a.store.RawSize(id) }); err != nil {
		return err
	}
	if err := a.requireContent(id, string(model.ArtifactMorphologicalConllu), func() (int64, error) {
		return a.store.ArtifactSize(id, model.ArtifactMorphologicalConllu)
	}); err != nil {
		return err
	}

	text, err := a.store.ReadArtifact(id, model.ArtifactMorphologicalConllu)
	if err != nil {
		return err
	}
	sentences, err := conllu.ParseString(text)
	if err != nil {
		return fmt.Errorf("parse annotation: %w", err)
	}
	counts := CountFrequencies(sentences)

	// Merge into the meta file as it is on disk now, so fields written by
	// other tools since the corpus was loaded survive.
	meta, found, err := a.store.ReadMeta(id)
	if err != nil {
		return err
	}
	if !found {
		meta = article.Meta
	}
	meta.ID = id
	if meta.Topics == nil {
		meta.Topics = []string{}
	}
	meta.POSFrequencies = counts

	if err := a.store.WriteMeta(meta); err != nil {
		return fmt.Errorf("write meta: %w", err)
	}
	article.Meta = meta
	article.SetSentences(sentences)

	if a.visualizer != nil {
		path, err := a.visualizer.Visualize(ctx, id, counts)
		if err != nil {
			return fmt.Errorf("visualize: %w", err)
		}
		a.logger.Debug("chart written", "id", id, "path", path)
	}
	return nil
}

func (a *Aggregator) requireContent(id int, what string, size func() (int64, error)) error {
	n, err := size()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: document %d has no %s", ErrEmptyArtifact, id, what)
		}
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: document %d has zero-length %s", ErrEmptyArtifact, id, what)
	}
	return nil
}
