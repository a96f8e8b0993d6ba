package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/morphcorp/internal/analyzer"
	"github.com/ppiankov/morphcorp/internal/corpus"
	"github.com/ppiankov/morphcorp/internal/model"
	"github.com/ppiankov/morphcorp/internal/pipeline"
)

var (
	tier       string
	keepMarkup bool
	analyzerID string
)

var annotateCmd = &cobra.Command{
	Use:   "annotate [dir]",
	Short: "Segment, tokenize and tag every document of a corpus",
	Long: `Annotate runs one pipeline tier over every document:

  basic      sentences and tokens only, writes <id>_cleaned.txt
  advanced   adds lemma, UD part of speech and features from the analyzer,
             writes <id>_morphological_conllu.conllu

Re-running overwrites previous artifacts.

Example:
  morphcorp annotate ./tmp/articles
  morphcorp annotate --tier basic ./tmp/articles
  morphcorp annotate --analyzer service ./tmp/articles`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)

	annotateCmd.Flags().StringVar(&tier, "tier", "advanced", "pipeline tier (basic, advanced)")
	annotateCmd.Flags().BoolVar(&keepMarkup, "keep-markup", false, "do not strip residual HTML from raw text")
	annotateCmd.Flags().StringVar(&analyzerID, "analyzer", "", "override analyzer.kind (mystem, service)")
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	s, err := newSession(args)
	if err != nil {
		return err
	}
	if keepMarkup {
		s.cfg.Text.StripMarkup = false
	}
	if analyzerID != "" {
		s.cfg.Analyzer.Kind = analyzerID
	}

	ctx, cancel := signalContext()
	defer cancel()

	c, err := s.openCorpus()
	if err != nil {
		return err
	}

	var report *model.RunReport
	switch tier {
	case "basic":
		report, err = s.annotateBasic(ctx, c)
	case "advanced":
		report, err = s.annotateAdvanced(ctx, c)
	default:
		return fmt.Errorf("unknown tier: %s (supported: basic, advanced)", tier)
	}
	if err != nil {
		return err
	}
	return failedErr(report)
}

func (s *session) pipelineOptions() pipeline.Options {
	opts := pipeline.OptionsFromConfig(s.cfg)
	opts.RunID = s.runID
	opts.Logger = s.logger
	return opts
}

func (s *session) annotateBasic(ctx context.Context, c *corpus.Manager) (*model.RunReport, error) {
	printHeader("Basic annotation",
		fmt.Sprintf("Corpus:     %s", s.cfg.Corpus.Dir),
		fmt.Sprintf("Documents:  %d", c.Len()),
		fmt.Sprintf("Workers:    %d", s.cfg.Concurrency.Workers),
	)

	return s.runStage(ctx, model.StageBasic, c.Len(), func(ctx context.Context, onDocument func(int, error)) (*model.RunReport, error) {
		opts := s.pipelineOptions()
		opts.OnDocument = onDocument
		p, err := pipeline.NewBasic(c, s.store, opts)
		if err != nil {
			return nil, err
		}
		return p.Run(ctx)
	})
}

// newTagger builds the configured analyzer and checks it can be reached
// before any document is touched.
func (s *session) newTagger(ctx context.Context) (*pipeline.Tagger, error) {
	a, err := analyzer.NewFromConfig(s.cfg)
	if err != nil {
		return nil, err
	}
	if err := a.Available(ctx); err != nil {
		return nil, fmt.Errorf("analyzer %s: %w", a.Name(), err)
	}
	s.logger.Info("analyzer ready", "analyzer", a.Name(), "tagset", a.Tagset(), "cache", s.cfg.Cache.Enabled)
	return pipeline.NewTagger(a)
}

func (s *session) annotateAdvanced(ctx context.Context, c *corpus.Manager) (*model.RunReport, error) {
	tagger, err := s.newTagger(ctx)
	if err != nil {
		return nil, err
	}

	printHeader("Morphological annotation",
		fmt.Sprintf("Corpus:     %s", s.cfg.Corpus.Dir),
		fmt.Sprintf("Documents:  %d", c.Len()),
		fmt.Sprintf("Analyzer:   %s", tagger.Analyzer.Name()),
		fmt.Sprintf("Workers:    %d", s.cfg.Concurrency.Workers),
	)

	return s.runStage(ctx, model.StageAdvanced, c.Len(), func(ctx context.Context, onDocument func(int, error)) (*model.RunReport, error) {
		opts := s.pipelineOptions()
		opts.OnDocument = onDocument
		p, err := pipeline.NewAdvanced(c, s.store, tagger, opts)
		if err != nil {
			return nil, err
		}
		return p.Run(ctx)
	})
}
