package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/morphcorp/internal/corpus"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check that a directory is a well-formed corpus",
	Long: `Validate checks the corpus directory without modifying it:
- the directory exists and contains <id>_raw.txt files
- raw ids are exactly 1..N with no gaps or duplicates
- no raw file is empty
- meta files, when present, match the raw ids one to one

Example:
  morphcorp validate ./tmp/articles`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	s, err := newSession(args)
	if err != nil {
		return err
	}

	if err := corpus.Validate(s.cfg.Corpus.Dir, s.store); err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		return err
	}

	listing, err := s.store.List()
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ %s: %d documents, %d meta files\n", s.cfg.Corpus.Dir, len(listing.Raw), len(listing.Meta))
	return nil
}
