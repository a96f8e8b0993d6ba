package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ppiankov/morphcorp/internal/corpus"
	"github.com/ppiankov/morphcorp/internal/logger"
	"github.com/ppiankov/morphcorp/internal/model"
	"github.com/ppiankov/morphcorp/internal/store"
)

// session carries what every stage command needs: the effective
// configuration, a logger tagged with this invocation's run id and the
// file store of the corpus directory.
type session struct {
	cfg    *model.Config
	runID  string
	logger *slog.Logger
	store  *store.FileStore
}

// newSession loads the configuration. A positional directory argument
// overrides corpus.dir.
func newSession(args []string) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if len(args) > 0 {
		cfg.Corpus.Dir = args[0]
	}

	runID := logger.NewRunID()
	return &session{
		cfg:    cfg,
		runID:  runID,
		logger: logger.New(os.Stderr, cfg.Log, runID),
		store:  store.NewFileStore(cfg.Corpus.Dir),
	}, nil
}

// openCorpus validates and loads the corpus directory.
func (s *session) openCorpus() (*corpus.Manager, error) {
	c, err := corpus.New(s.cfg.Corpus.Dir, s.store)
	if err != nil {
		return nil, fmt.Errorf("load corpus: %w", err)
	}
	s.logger.Info("corpus loaded", "dir", s.cfg.Corpus.Dir, "documents", c.Len())
	return c, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// stageFunc runs one stage, reporting each finished document to onDocument.
type stageFunc func(ctx context.Context, onDocument func(id int, err error)) (*model.RunReport, error)

// runStage runs fn behind a progress bar and prints its report. Failed
// documents do not make runStage fail; the caller inspects the report.
func (s *session) runStage(ctx context.Context, stage model.Stage, total int, fn stageFunc) (*model.RunReport, error) {
	bar := newProgress(s.cfg.Output.Progress, stage, total)
	report, err := fn(ctx, bar.Incr)
	bar.Stop()

	if report != nil {
		printReport(report, s.cfg.Output.Verbose)
	}
	if err != nil {
		return report, fmt.Errorf("%s stage: %w", stage, err)
	}
	return report, nil
}

func printHeader(title string, lines ...string) {
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  %s\n", title)
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	for _, l := range lines {
		fmt.Fprintf(os.Stderr, "  %s\n", l)
	}
	if len(lines) > 0 {
		fmt.Fprintf(os.Stderr, "\n")
	}
}

func printReport(report *model.RunReport, verbose bool) {
	for _, d := range report.Documents {
		switch d.Status {
		case model.StatusFailed:
			fmt.Fprintf(os.Stderr, "✗ document %d: %s\n", d.ID, d.Error)
		case model.StatusSkipped:
			if verbose {
				fmt.Fprintf(os.Stderr, "- document %d: skipped\n", d.ID)
			}
		default:
			if verbose {
				fmt.Fprintf(os.Stderr, "✓ document %d → %s\n", d.ID, d.Artifact)
			}
		}
	}
	fmt.Fprintf(os.Stderr, "%s\n", report.Summary())
}

// failedErr turns partial failure into a non-zero exit.
func failedErr(report *model.RunReport) error {
	if report == nil || report.OK() {
		return nil
	}
	return fmt.Errorf("%s: %d of %d documents did not complete",
		report.Stage, len(report.Documents)-report.Count(model.StatusOK), len(report.Documents))
}
