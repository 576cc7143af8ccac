// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rewrite replaces author-year citations in a document with LaTeX
// citation macros, resolving keys against an optional bibliography.
package rewrite

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/citefix/internal/mention"
	"github.com/pdiddy/citefix/internal/resolve"
	"github.com/pdiddy/citefix/pkg/types"
)

// Options configures a rewrite. Zero values select the default mention
// pattern, a resolver that fails on ambiguity, the \cite macro, and no
// progress output.
type Options struct {
	Matcher  *mention.Matcher
	Resolver *resolve.Resolver
	Macro    string
	Progress io.Writer
}

func (o Options) withDefaults() Options {
	if o.Matcher == nil {
		o.Matcher = mention.Default()
	}
	if o.Resolver == nil {
		o.Resolver = resolve.New()
	}
	if o.Macro == "" {
		o.Macro = "cite"
	}
	if o.Progress == nil {
		o.Progress = io.Discard
	}
	return o
}

// Result is the outcome of rewriting one document.
type Result struct {
	// Text is the rewritten document.
	Text string

	// Results holds one resolution per mention, in document order.
	Results []types.ResolutionResult

	// Unresolved holds the distinct results left unchanged.
	Unresolved []types.ResolutionResult

	// Fixed counts distinct citations replaced by a macro; Unchanged counts
	// distinct citations left as text because they are not in the
	// bibliography.
	Fixed     int
	Unchanged int
}

// Rewrite finds every mention in text and replaces it with a citation
// macro. Without a bibliography (bib == nil) every mention is replaced using
// its raw key. With one, each mention is resolved; mentions not found in the
// bibliography are reported and left unchanged.
//
// Replacement is a literal substitution of every occurrence of the mention
// text, not only the matched span, so identical text elsewhere in the
// document is replaced too.
func Rewrite(text string, bib *types.Bibliography, opts Options) (Result, error) {
	opts = opts.withDefaults()
	res := Result{Text: text}

	for m := range opts.Matcher.Mentions(text) {
		var rr types.ResolutionResult
		if bib == nil {
			rr = types.ResolutionResult{Mention: m, Key: m.Key()}
		} else {
			var err error
			rr, err = opts.Resolver.Resolve(m, bib)
			if err != nil {
				return Result{}, err
			}
		}
		res.Results = append(res.Results, rr)
	}

	type pair struct{ original, key string }
	seen := make(map[pair]bool)
	for _, rr := range res.Results {
		p := pair{rr.Mention.Original, rr.Key}
		if seen[p] {
			continue
		}
		seen[p] = true

		if bib != nil && !rr.InBibliography {
			fmt.Fprintf(opts.Progress, "%s not found in bibliography. Skipping citation %s\n", rr.Key, rr.Mention.Original)
			res.Unresolved = append(res.Unresolved, rr)
			res.Unchanged++
			continue
		}
		res.Text = strings.ReplaceAll(res.Text, rr.Mention.Original, rr.Tex(opts.Macro))
		fmt.Fprintf(opts.Progress, "fixed:   %s -> %s\n", rr.Mention.Original, rr.Tex(opts.Macro))
		res.Fixed++
	}
	return res, nil
}

// OutputPath derives the default output path by inserting "-fixed" before
// the extension: "paper.txt" -> "paper-fixed.txt".
func OutputPath(in string) string {
	ext := filepath.Ext(in)
	return strings.TrimSuffix(in, ext) + "-fixed" + ext
}

// RewriteFile rewrites the document at inPath and writes the result to
// outPath, or to OutputPath(inPath) when outPath is empty. Nothing is
// written when resolution fails.
func RewriteFile(inPath, outPath string, bib *types.Bibliography, opts Options) (Result, error) {
	opts = opts.withDefaults()

	data, err := os.ReadFile(inPath)
	if err != nil {
		return Result{}, fmt.Errorf("reading %s: %w", inPath, err)
	}

	res, err := Rewrite(string(data), bib, opts)
	if err != nil {
		return Result{}, err
	}
	if len(res.Results) == 0 {
		fmt.Fprintln(opts.Progress, "No citations found to edit.")
	}

	if outPath == "" {
		outPath = OutputPath(inPath)
	}
	if err := os.WriteFile(outPath, []byte(res.Text), 0o644); err != nil {
		return Result{}, fmt.Errorf("writing %s: %w", outPath, err)
	}

	fmt.Fprintf(opts.Progress, "Done. %d citations fixed. %d citations unchanged\n", res.Fixed, res.Unchanged)
	return res, nil
}
