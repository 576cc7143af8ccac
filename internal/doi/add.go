// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package doi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/citefix/internal/bibfile"
	"github.com/pdiddy/citefix/internal/bibkey"
	"github.com/pdiddy/citefix/pkg/types"
)

// BatchResult holds the outcome of adding references to a bibliography.
type BatchResult struct {
	Added    int
	Skipped  int
	NotFound int
	Failed   int
	Keys     []string
}

// Total returns the number of identifiers processed.
func (r BatchResult) Total() int {
	return r.Added + r.Skipped + r.NotFound + r.Failed
}

// HasFailures reports whether any identifier was not added for a reason
// other than already being present.
func (r BatchResult) HasFailures() bool {
	return r.NotFound > 0 || r.Failed > 0
}

// AddReferences looks each identifier up, gives the entry an AuthorYear key,
// appends it to the bibliography at bibPath (created when missing), resolves
// key collisions and saves the file. DOIs already present in the
// bibliography are skipped. Individual lookup failures are reported on w and
// counted; the file is written only when at least one entry was added.
func (c *Client) AddReferences(ctx context.Context, bibPath string, ids []string, w io.Writer) (BatchResult, error) {
	var result BatchResult

	bib, err := bibfile.Load(bibPath, true)
	if err != nil {
		return result, err
	}
	present := make(map[string]bool)
	for _, e := range bib.Entries {
		if d, ok := e.Field("doi"); ok {
			present[strings.ToLower(d)] = true
		}
	}

	var added []*types.Entry
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		doi, err := Normalize(id)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", id, err)
			result.Failed++
			continue
		}
		if present[strings.ToLower(doi)] {
			fmt.Fprintf(w, "skipped: %s (already in bibliography)\n", doi)
			result.Skipped++
			continue
		}

		e, err := c.Lookup(ctx, doi)
		switch {
		case errors.Is(err, ErrNotFound):
			fmt.Fprintf(w, "missing: %s (no reference found)\n", doi)
			result.NotFound++
			continue
		case err != nil:
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			fmt.Fprintf(w, "failed:  %s (%v)\n", doi, err)
			result.Failed++
			continue
		}

		key, err := KeyFor(e)
		if err != nil {
			fmt.Fprintf(w, "failed:  %s (%v)\n", doi, err)
			result.Failed++
			continue
		}
		e.Key = key
		bib.Add(e)
		added = append(added, e)
		present[strings.ToLower(doi)] = true
		result.Added++
	}

	if result.Added == 0 {
		fmt.Fprintf(w, "\nNothing added to %s (%d not found, %d failed)\n", bibPath, result.NotFound, result.Failed)
		return result, nil
	}

	renames, err := bibkey.Disambiguate(bib, bibkey.Options{Strategy: c.strategy})
	if err != nil {
		return result, fmt.Errorf("resolving key collisions: %w", err)
	}
	for _, r := range renames {
		fmt.Fprintf(w, "renamed: %s -> %s\n", r.Old, r.New)
	}
	for _, e := range added {
		doi, _ := e.Field("doi")
		fmt.Fprintf(w, "added:   %s -> %s\n", doi, e.Key)
		result.Keys = append(result.Keys, e.Key)
	}

	if err := bibfile.Save(bibPath, bib); err != nil {
		return result, err
	}

	fmt.Fprintf(w, "\nSummary: %d added, %d skipped, %d not found, %d failed (total: %d)\n",
		result.Added, result.Skipped, result.NotFound, result.Failed, result.Total())
	return result, nil
}
