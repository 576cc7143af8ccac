package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/pdiddy/citefix/internal/bibfile"
	"github.com/pdiddy/citefix/internal/mention"
	"github.com/pdiddy/citefix/internal/resolve"
	"github.com/pdiddy/citefix/internal/rewrite"
	"github.com/pdiddy/citefix/pkg/types"
)

var citeFlagKeys = map[string]string{
	"ambiguity":       "cite.ambiguity",
	"macro":           "cite.macro",
	"pattern":         "cite.pattern",
	"fold-diacritics": "cite.fold_diacritics",
}

var citeCmd = &cobra.Command{
	Use:   "cite FILE",
	Short: "Replace author-year citations with \\cite{} commands",
	Long: `Cite finds author-year citations in FILE ("Vertes 2006",
"Sigurdsson & Duvarci 2015", "Varela et al 2014") and replaces them with
\cite{} commands.

Without --bib the key is the lead author followed by the year. With --bib
each citation is looked up by year and author surnames; citations missing
from the bibliography are reported and left as text. When a citation matches
several entries, --ambiguity decides: prompt asks on the terminal, first
takes the first match, fail stops, and auto prompts only when stdin is a
terminal.

Output goes to FILE with "-fixed" inserted before the extension unless
--output is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runCite,
}

func init() {
	citeCmd.Flags().StringP("bib", "b", "", "BibTeX file to resolve keys against")
	citeCmd.Flags().StringP("output", "o", "", "output file (default FILE-fixed.EXT)")
	citeCmd.Flags().String("report", "", "write a resolution report (.yaml or .json)")
	citeCmd.Flags().String("ambiguity", "", "ambiguous matches: auto, prompt, first, fail (default auto)")
	citeCmd.Flags().String("macro", "", "LaTeX citation macro (default cite)")
	citeCmd.Flags().String("pattern", "", "regular expression overriding the citation pattern")
	citeCmd.Flags().Bool("fold-diacritics", false, "ignore accents when comparing surnames")

	rootCmd.AddCommand(citeCmd)
}

func runCite(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, citeFlagKeys); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	bibPath, _ := cmd.Flags().GetString("bib")
	outPath, _ := cmd.Flags().GetString("output")
	reportPath, _ := cmd.Flags().GetString("report")

	matcher, err := mention.New(cfg.Cite.Pattern)
	if err != nil {
		return err
	}

	var bib *types.Bibliography
	if bibPath != "" {
		bib, err = bibfile.Load(bibPath, false)
		if err != nil {
			return err
		}
	}

	chooser, err := newChooser(cfg.Cite.Ambiguity, os.Stdin, os.Stdout)
	if err != nil {
		return err
	}
	opts := rewrite.Options{
		Matcher: matcher,
		Resolver: resolve.New(
			resolve.WithChooser(chooser),
			resolve.WithFoldDiacritics(cfg.Cite.FoldDiacritics),
		),
		Macro:    cfg.Cite.Macro,
		Progress: os.Stdout,
	}

	in := args[0]
	if outPath == "" {
		outPath = rewrite.OutputPath(in)
	}
	res, err := rewrite.RewriteFile(in, outPath, bib, opts)
	if err != nil {
		return err
	}

	if reportPath != "" {
		if err := rewrite.WriteReport(reportPath, rewrite.NewReport(in, outPath, res)); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", reportPath)
	}
	return nil
}

// newChooser maps an ambiguity policy to a Chooser. Prompts read from in and
// write to out.
func newChooser(policy types.AmbiguityPolicy, in *os.File, out io.Writer) (resolve.Chooser, error) {
	switch policy {
	case types.AmbiguityAuto, "":
		if term.IsTerminal(int(in.Fd())) {
			return resolve.NewPromptChooser(in, out), nil
		}
		return resolve.FailChooser{}, nil
	case types.AmbiguityPrompt:
		return resolve.NewPromptChooser(in, out), nil
	case types.AmbiguityFirst:
		return resolve.FirstChooser{}, nil
	case types.AmbiguityFail:
		return resolve.FailChooser{}, nil
	default:
		return nil, fmt.Errorf("unknown ambiguity policy %q (want auto, prompt, first or fail)", policy)
	}
}
