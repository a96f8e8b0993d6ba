package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ppiankov/morphcorp/internal/corpus"
	"github.com/ppiankov/morphcorp/internal/frequency"
	"github.com/ppiankov/morphcorp/internal/model"
	"github.com/ppiankov/morphcorp/internal/visualize"
)

var noVisualize bool

var frequencyCmd = &cobra.Command{
	Use:   "frequency [dir]",
	Short: "Count parts of speech per document",
	Long: `Frequency reads <id>_morphological_conllu.conllu of every document,
counts the UD parts of speech (NOUN, ADJ, ADV, VERB, NUM, ADP, CCONJ, X,
PUNCT), stores the counts under pos_frequencies in <id>_meta.json and
writes a chart to <id>_pos_frequencies.md.

Run 'morphcorp annotate' first.

Example:
  morphcorp frequency ./tmp/articles
  morphcorp frequency --no-visualize ./tmp/articles`,
	Args: cobra.MaximumNArgs(1),
	RunE: runFrequency,
}

func init() {
	rootCmd.AddCommand(frequencyCmd)

	frequencyCmd.Flags().BoolVar(&noVisualize, "no-visualize", false, "do not write per-document charts")
}

func runFrequency(cmd *cobra.Command, args []string) error {
	s, err := newSession(args)
	if err != nil {
		return err
	}
	if noVisualize {
		s.cfg.Output.Visualize = false
	}

	ctx, cancel := signalContext()
	defer cancel()

	c, err := s.openCorpus()
	if err != nil {
		return err
	}

	report, err := s.aggregate(ctx, c)
	if err != nil {
		return err
	}
	return failedErr(report)
}

func (s *session) aggregate(ctx context.Context, c *corpus.Manager) (*model.RunReport, error) {
	var v visualize.Visualizer
	if s.cfg.Output.Visualize {
		v = visualize.NewMarkdown(s.store, 0)
	}

	printHeader("POS frequencies",
		fmt.Sprintf("Corpus:     %s", s.cfg.Corpus.Dir),
		fmt.Sprintf("Documents:  %d", c.Len()),
		fmt.Sprintf("Charts:     %t", v != nil),
	)

	return s.runStage(ctx, model.StageFrequency, c.Len(), func(ctx context.Context, onDocument func(int, error)) (*model.RunReport, error) {
		agg := frequency.New(c, s.store, v, frequency.Options{
			Workers:    s.cfg.Concurrency.Workers,
			FailFast:   s.cfg.Pipeline.FailFast,
			RunID:      s.runID,
			Logger:     s.logger,
			OnDocument: onDocument,
		})
		return agg.Run(ctx)
	})
}
