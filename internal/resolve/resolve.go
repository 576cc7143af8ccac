// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package resolve maps citation mentions to bibliography keys by year and
// author surnames, and settles ambiguous matches through a Chooser.
package resolve

import (
	"fmt"

	"github.com/pdiddy/citefix/internal/latex"
	"github.com/pdiddy/citefix/pkg/types"
)

// Resolver looks mentions up in a bibliography. Choices made by the Chooser
// are remembered per mention text, so a citation repeated in a document is
// only decided once. A Resolver is not safe for concurrent use.
type Resolver struct {
	chooser Chooser
	fold    bool
	chosen  map[string]string
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithChooser sets the decision-maker for ambiguous mentions. Without one,
// ambiguous mentions fail with ErrAmbiguous.
func WithChooser(c Chooser) Option {
	return func(r *Resolver) {
		r.chooser = c
	}
}

// WithFoldDiacritics makes surname comparison ignore Unicode accents.
func WithFoldDiacritics(fold bool) Option {
	return func(r *Resolver) {
		r.fold = fold
	}
}

// New creates a Resolver.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		chooser: FailChooser{},
		chosen:  make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.chooser == nil {
		r.chooser = FailChooser{}
	}
	return r
}

// Candidates returns the keys of entries consistent with the mention, in
// bibliography order. An entry is kept when its year equals the mention's
// year, its author count fits the mention's arity (exactly 1 or 2, or at
// least 3 for "et al"), and every surname of the mention is among its
// surnames.
func (r *Resolver) Candidates(m types.Mention, bib *types.Bibliography) []string {
	if bib == nil {
		return nil
	}
	want := make([]string, len(m.Authors))
	for i, a := range m.Authors {
		want[i] = r.normalize(a)
	}

	var keys []string
	for _, e := range bib.Entries {
		if e.Year() != m.Year {
			continue
		}
		surnames := latex.Surnames(e.Author())
		if !arityFits(m.Arity, len(surnames)) {
			continue
		}
		have := make(map[string]bool, len(surnames))
		for _, s := range surnames {
			have[r.normalize(s)] = true
		}
		if containsAll(have, want) {
			keys = append(keys, e.Key)
		}
	}
	return keys
}

// Resolve picks the citation key for a mention. No candidates yields the
// mention's raw key marked as absent from the bibliography; one candidate is
// used directly; several are handed to the Chooser.
func (r *Resolver) Resolve(m types.Mention, bib *types.Bibliography) (types.ResolutionResult, error) {
	res := types.ResolutionResult{
		Mention:    m,
		Candidates: r.Candidates(m, bib),
	}

	switch len(res.Candidates) {
	case 0:
		res.Key = m.Key()
		return res, nil
	case 1:
		res.Key = res.Candidates[0]
	default:
		key, err := r.choose(m, res.Candidates)
		if err != nil {
			return res, err
		}
		res.Key = key
	}
	res.InBibliography = true
	return res, nil
}

func (r *Resolver) choose(m types.Mention, candidates []string) (string, error) {
	if key, ok := r.chosen[m.Original]; ok && contains(candidates, key) {
		return key, nil
	}
	key, err := r.chooser.Choose(m, candidates)
	if err != nil {
		return "", fmt.Errorf("resolving %q: %w", m.Original, err)
	}
	if !contains(candidates, key) {
		return "", fmt.Errorf("resolving %q: chooser returned %q: %w", m.Original, key, ErrNoChoice)
	}
	r.chosen[m.Original] = key
	return key, nil
}

func (r *Resolver) normalize(s string) string {
	s = latex.Normalize(s)
	if r.fold {
		s = latex.FoldDiacritics(s)
	}
	return s
}

func arityFits(a types.Arity, n int) bool {
	if a == types.ArityEtAl {
		return n >= 3
	}
	return n == int(a)
}

func containsAll(have map[string]bool, want []string) bool {
	for _, w := range want {
		if !have[w] {
			return false
		}
	}
	return true
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
