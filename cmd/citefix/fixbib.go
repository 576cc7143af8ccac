package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/citefix/internal/bibfile"
	"github.com/pdiddy/citefix/internal/bibkey"
	"github.com/pdiddy/citefix/internal/rewrite"
	"github.com/pdiddy/citefix/pkg/types"
)

var fixbibFlagKeys = map[string]string{
	"keep-keys": "bib.keep_keys",
	"strategy":  "bib.strategy",
}

var fixbibCmd = &cobra.Command{
	Use:   "fixbib FILE",
	Short: "Rewrite BibTeX keys to AuthorYear and split colliding keys",
	Long: `Fixbib gives every entry in FILE a key made of its first author's surname
and year (e.g. Sigurdsson2015), then splits keys shared by several entries.

The journal strategy appends the initials of each entry's journal
(Smith2014-JoN); entries that still collide are numbered from the shared key
(Smith2014-0, Smith2014-1). The digit strategy numbers directly. An entry
without an author, year or (under the journal strategy) journal stops the run
and nothing is written.`,
	Args: cobra.ExactArgs(1),
	RunE: runFixbib,
}

func init() {
	fixbibCmd.Flags().StringP("output", "o", "", "output file (default FILE-fixed.bib)")
	fixbibCmd.Flags().Bool("keep-keys", false, "keep existing keys and only split collisions")
	fixbibCmd.Flags().String("strategy", "", "collision strategy: journal or digit (default journal)")

	rootCmd.AddCommand(fixbibCmd)
}

func runFixbib(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, fixbibFlagKeys); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := checkStrategy(cfg.Bib.Strategy); err != nil {
		return err
	}

	in := args[0]
	outPath, _ := cmd.Flags().GetString("output")
	if outPath == "" {
		outPath = rewrite.OutputPath(in)
	}

	bib, err := bibfile.Load(in, false)
	if err != nil {
		return err
	}

	renames, err := bibkey.Fix(bib, bibkey.Options{
		Strategy: cfg.Bib.Strategy,
		KeepKeys: cfg.Bib.KeepKeys,
	})
	if err != nil {
		return err
	}
	for _, r := range renames {
		fmt.Fprintf(os.Stdout, "renamed: %s -> %s (%s)\n", r.Old, r.New, r.Phase)
	}

	if err := bibfile.Save(outPath, bib); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "\nDone. %d entries, %d keys changed, written to %s\n", bib.Len(), len(renames), outPath)
	return nil
}

// checkStrategy rejects collision strategies other than journal and digit.
func checkStrategy(s types.CollisionStrategy) error {
	switch s {
	case types.StrategyJournal, types.StrategyDigit:
		return nil
	default:
		return fmt.Errorf("unknown collision strategy %q (want journal or digit)", s)
	}
}
