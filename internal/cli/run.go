package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/morphcorp/internal/model"
)

var withBasic bool

var runCmd = &cobra.Command{
	Use:   "run [dir]",
	Short: "Validate, annotate and count a corpus in one go",
	Long: `Run chains the stages over one corpus directory:

  1. validate the directory
  2. (optional, --with-basic) basic annotation, <id>_cleaned.txt
  3. morphological annotation, <id>_morphological_conllu.conllu
  4. POS frequencies into <id>_meta.json and charts

Documents that fail a stage are reported and the run continues; with
--fail-fast the first failure stops it.

Example:
  morphcorp run ./tmp/articles
  morphcorp run --with-basic --workers 8 ./tmp/articles`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAll,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolVar(&withBasic, "with-basic", false, "also write cleaned text")
	runCmd.Flags().BoolVar(&noVisualize, "no-visualize", false, "do not write per-document charts")
}

func runAll(cmd *cobra.Command, args []string) error {
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
	fmt.Fprintf(os.Stderr, "✓ %s: %d documents\n", s.cfg.Corpus.Dir, c.Len())

	var reports []*model.RunReport

	if withBasic {
		report, err := s.annotateBasic(ctx, c)
		if err != nil {
			return err
		}
		reports = append(reports, report)
	}

	report, err := s.annotateAdvanced(ctx, c)
	if err != nil {
		return err
	}
	reports = append(reports, report)

	report, err = s.aggregate(ctx, c)
	if err != nil {
		return err
	}
	reports = append(reports, report)

	printHeader("Run complete")
	var errs []error
	for _, r := range reports {
		fmt.Fprintf(os.Stderr, "  %s\n", r.Summary())
		errs = append(errs, failedErr(r))
	}
	fmt.Fprintf(os.Stderr, "\n")
	return errors.Join(errs...)
}
