// Package pipeline annotates every document of a corpus. The basic tier
// segments and tokenizes; the advanced tier additionally tags each token
// through an external analyzer.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/ppiankov/morphcorp/internal/conllu"
	"github.com/ppiankov/morphcorp/internal/corpus"
	"github.com/ppiankov/morphcorp/internal/logger"
	"github.com/ppiankov/morphcorp/internal/model"
	"github.com/ppiankov/morphcorp/internal/store"
	"github.com/ppiankov/morphcorp/internal/textproc"
	"github.com/ppiankov/morphcorp/internal/ud"
	"github.com/ppiankov/morphcorp/internal/worker"
)

// Options configure a pipeline run.
type Options struct {
	Segmenter   textproc.SegmenterConfig
	StripMarkup bool
	Workers     int
	FailFast    bool
	RunID       string
	Logger      *slog.Logger

	// OnDocument is called once per finished document, from a single goroutine
	OnDocument func(id int, err error)
}

// OptionsFromConfig maps the configuration onto pipeline options.
func OptionsFromConfig(cfg *model.Config) Options {
	return Options{
		Segmenter: textproc.SegmenterConfig{
			Language:       cfg.Text.Language,
			Terminators:    cfg.Text.Terminators,
			Abbreviations:  cfg.Text.Abbreviations,
			SplitOnNewline: cfg.Text.SplitOnNewline,
		},
		StripMarkup: cfg.Text.StripMarkup,
		Workers:     cfg.Concurrency.Workers,
		FailFast:    cfg.Pipeline.FailFast,
	}
}

// Pipeline drives one annotation tier over a corpus.
type Pipeline struct {
	corpus    *corpus.Manager
	store     store.Writer
	segmenter *textproc.Segmenter
	tagger    *Tagger
	opts      Options
	logger    *slog.Logger
}

// NewBasic creates the segmentation-only tier, which writes cleaned text.
func NewBasic(c *corpus.Manager, w store.Writer, opts Options) (*Pipeline, error) {
	return newPipeline(c, w, nil, opts)
}

// NewAdvanced creates the tagging tier, which writes morphological CONLL-U.
func NewAdvanced(c *corpus.Manager, w store.Writer, tagger *Tagger, opts Options) (*Pipeline, error) {
	if tagger == nil || tagger.Analyzer == nil || tagger.Converter == nil {
		return nil, errors.New("advanced pipeline requires an analyzer and a tag converter")
	}
	return newPipeline(c, w, tagger, opts)
}

func newPipeline(c *corpus.Manager, w store.Writer, tagger *Tagger, opts Options) (*Pipeline, error) {
	if opts.Segmenter.Terminators == "" && opts.Segmenter.Language == "" {
		opts.Segmenter = textproc.DefaultSegmenterConfig()
	}
	seg, err := textproc.NewSegmenter(opts.Segmenter)
	if err != nil {
		return nil, fmt.Errorf("segmenter: %w", err)
	}

	l := opts.Logger
	if l == nil {
		l = logger.Discard()
	}

	return &Pipeline{
		corpus:    c,
		store:     w,
		segmenter: seg,
		tagger:    tagger,
		opts:      opts,
		logger:    l,
	}, nil
}

// Stage returns the tier this pipeline runs.
func (p *Pipeline) Stage() model.Stage {
	if p.tagger != nil {
		return model.StageAdvanced
	}
	return model.StageBasic
}

// Artifact returns the artifact type the tier writes.
func (p *Pipeline) Artifact() model.ArtifactType {
	if p.tagger != nil {
		return model.ArtifactMorphologicalConllu
	}
	return model.ArtifactCleaned
}

// Run processes every document. Failed documents are recorded in the
// report; the returned error is set only when the run stopped early
// (fail-fast or cancellation).
func (p *Pipeline) Run(ctx context.Context) (*model.RunReport, error) {
	report := &model.RunReport{
		Stage:     p.Stage(),
		RunID:     p.opts.RunID,
		StartedAt: time.Now().UTC(),
	}
	p.logger.Info("stage started", "stage", report.Stage, "documents", p.corpus.Len(), "workers", p.opts.Workers,
		"ud_tables", ud.TablesVersion)

	batch := worker.NewBatchProcessor(p.opts.Workers, p.opts.FailFast)
	batch.OnDone(func(r *worker.DocumentResult) {
		if r.Error != nil && !errors.Is(r.Error, worker.ErrAborted) {
			p.logger.Warn("document failed", "stage", report.Stage, "id", r.ID, "error", r.Error)
		} else if r.Error == nil {
			p.logger.Debug("document done", "stage", report.Stage, "id", r.ID, "duration", r.Duration)
		}
		if p.opts.OnDocument != nil {
			p.opts.OnDocument(r.ID, r.Error)
		}
	})

	results, err := batch.ProcessDocuments(ctx, p.corpus.IDs(), p.processDocument)

	report.Documents = worker.Outcomes(results, func(id int) string {
		return p.store.ArtifactPath(id, p.Artifact())
	})
	report.Duration = time.Since(report.StartedAt)

	p.logger.Info("stage finished", "stage", report.Stage,
		"ok", report.Count(model.StatusOK),
		"failed", report.Count(model.StatusFailed),
		"skipped", report.Count(model.StatusSkipped),
		"duration", report.Duration)

	return report, err
}

func (p *Pipeline) processDocument(ctx context.Context, id int) error {
	a, ok := p.corpus.Article(id)
	if !ok {
		return fmt.Errorf("document %d not in corpus", id)
	}
	return p.Process(ctx, a)
}

// Process annotates a single article, attaches the result and writes the
// tier's artifact.
func (p *Pipeline) Process(ctx context.Context, a *model.Article) error {
	sentences, err := p.Annotate(ctx, a)
	if err != nil {
		return err
	}
	a.SetSentences(sentences)

	var text string
	if p.tagger != nil {
		text = conllu.Format(sentences, conllu.Options{IncludeFeatures: true})
	} else {
		text = a.CleanedText()
	}

	if err := p.store.WriteArtifact(a.ID, p.Artifact(), text); err != nil {
		return fmt.Errorf("write %s: %w", p.Artifact(), err)
	}
	return nil
}
