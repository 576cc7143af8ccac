// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibkey normalizes bibliography keys to the AuthorYear scheme and
// renames colliding keys until every key is unique.
package bibkey

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/citefix/internal/latex"
	"github.com/pdiddy/citefix/pkg/types"
)

// ErrMissingField is returned when an entry lacks a field needed to build
// its key.
var ErrMissingField = errors.New("missing required field")

// Options controls Fix and Disambiguate.
type Options struct {
	// Strategy is the first disambiguation phase. The zero value means
	// journal, followed by digit for whatever still collides.
	Strategy types.CollisionStrategy

	// KeepKeys makes Fix skip rekeying.
	KeepKeys bool
}

// Fix rekeys every entry to AuthorYear (unless opts.KeepKeys) and then
// resolves collisions. The bibliography is changed in place only when no
// error occurs.
func Fix(bib *types.Bibliography, opts Options) ([]types.Rename, error) {
	work := bib.Clone()
	var renames []types.Rename
	if !opts.KeepKeys {
		r, err := Rekey(work)
		if err != nil {
			return nil, err
		}
		renames = append(renames, r...)
	}
	r, err := Disambiguate(work, opts)
	if err != nil {
		return nil, err
	}
	bib.Entries = work.Entries
	return append(renames, r...), nil
}

// Rekey sets every key to the first author's surname followed by the year,
// e.g. "Sigurdsson2015". Keys that already have that form are untouched.
func Rekey(bib *types.Bibliography) ([]types.Rename, error) {
	keys := make([]string, len(bib.Entries))
	for i, e := range bib.Entries {
		k, err := AuthorYear(e)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}

	var renames []types.Rename
	for i, e := range bib.Entries {
		if e.Key == keys[i] {
			continue
		}
		renames = append(renames, types.Rename{Old: e.Key, New: keys[i], Phase: types.PhaseRekey})
		e.Key = keys[i]
	}
	return renames, nil
}

// AuthorYear builds the AuthorYear key of an entry.
func AuthorYear(e *types.Entry) (string, error) {
	surnames := latex.Surnames(e.Author())
	if len(surnames) == 0 || surnames[0] == "" {
		return "", fmt.Errorf("entry %q: %w: author", e.Key, ErrMissingField)
	}
	year := e.Year()
	if year == "" {
		return "", fmt.Errorf("entry %q: %w: year", e.Key, ErrMissingField)
	}
	return stripKeyChars(surnames[0]) + year, nil
}

// stripKeyChars drops characters that cannot appear in a citation key.
func stripKeyChars(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r), strings.ContainsRune(`{}\,"#%~`, r):
			return -1
		}
		return r
	}, s)
}

// Disambiguate renames entries that share a key. Phases run in order:
//
//   - journal: each member of a colliding group K becomes K-<initials of its
//     journal name>;
//   - digit: members of groups that still collide become K-0, K-1, ... in
//     bibliography order, where K is the key they had before the journal
//     phase.
//
// Entries outside any collision keep their key. A bibliography with unique
// keys is returned unchanged, so running Disambiguate twice is the same as
// running it once. A colliding entry without a journal field fails the
// journal phase with ErrMissingField and leaves bib unchanged.
func Disambiguate(bib *types.Bibliography, opts Options) ([]types.Rename, error) {
	phases := []types.CollisionStrategy{types.StrategyJournal, types.StrategyDigit}
	if opts.Strategy == types.StrategyDigit {
		phases = phases[1:]
	}

	// base is the key each entry had before the first phase; touched marks
	// entries renamed by an earlier phase.
	base := make(map[*types.Entry]string, len(bib.Entries))
	touched := make(map[*types.Entry]bool)
	for _, e := range bib.Entries {
		base[e] = e.Key
	}

	var renames []types.Rename
	for _, phase := range phases {
		groups := collisions(bib)
		if len(groups) == 0 {
			break
		}

		var (
			step []types.Rename
			err  error
		)
		switch phase {
		case types.StrategyJournal:
			step, err = journalPhase(groups, touched)
		case types.StrategyDigit:
			step = digitPhase(bib, groups, base, touched)
		default:
			err = fmt.Errorf("unknown collision strategy %q", phase)
		}
		if err != nil {
			undo(bib, base)
			return nil, err
		}
		renames = append(renames, step...)
	}
	return renames, nil
}

// collisions groups entries by key and returns the groups with more than one
// member, ordered by the first appearance of their key.
func collisions(bib *types.Bibliography) [][]*types.Entry {
	byKey := make(map[string][]*types.Entry)
	var order []string
	for _, e := range bib.Entries {
		if _, seen := byKey[e.Key]; !seen {
			order = append(order, e.Key)
		}
		byKey[e.Key] = append(byKey[e.Key], e)
	}
	var groups [][]*types.Entry
	for _, k := range order {
		if len(byKey[k]) > 1 {
			groups = append(groups, byKey[k])
		}
	}
	return groups
}

func journalPhase(groups [][]*types.Entry, touched map[*types.Entry]bool) ([]types.Rename, error) {
	// Validate every member before renaming anything.
	for _, g := range groups {
		for _, e := range g {
			if _, ok := e.Journal(); !ok {
				return nil, fmt.Errorf("entry %q: %w: journal", e.Key, ErrMissingField)
			}
		}
	}

	var renames []types.Rename
	for _, g := range groups {
		for _, e := range g {
			journal, _ := e.Journal()
			newKey := e.Key + "-" + Initialism(journal)
			renames = append(renames, types.Rename{Old: e.Key, New: newKey, Phase: types.PhaseJournal})
			e.Key = newKey
			touched[e] = true
		}
	}
	return renames, nil
}

func digitPhase(bib *types.Bibliography, groups [][]*types.Entry, base map[*types.Entry]string, touched map[*types.Entry]bool) []types.Rename {
	taken := make(map[string]int, len(bib.Entries))
	for _, e := range bib.Entries {
		taken[e.Key]++
	}
	next := make(map[string]int)

	var renames []types.Rename
	for _, g := range groups {
		members := make([]*types.Entry, 0, len(g))
		for _, e := range g {
			if touched[e] {
				members = append(members, e)
			}
		}
		if len(members) == 0 {
			members = g
		}
		// An entry no earlier phase renamed keeps its key; only the
		// entries that landed on it are numbered.
		for _, e := range members {
			k := base[e]
			newKey := k + "-" + strconv.Itoa(next[k])
			for taken[newKey] > 0 {
				next[k]++
				newKey = k + "-" + strconv.Itoa(next[k])
			}
			next[k]++
			taken[e.Key]--
			taken[newKey]++
			renames = append(renames, types.Rename{Old: e.Key, New: newKey, Phase: types.PhaseDigit})
			e.Key = newKey
			touched[e] = true
		}
	}
	return renames
}

func undo(bib *types.Bibliography, base map[*types.Entry]string) {
	for _, e := range bib.Entries {
		e.Key = base[e]
	}
}

// Initialism returns the first letter or digit of every whitespace-separated
// word, case preserved: "Journal of Neuroscience" -> "JoN". Leading
// punctuation such as braces is skipped, so "{Nature} Neuroscience" gives "NN".
func Initialism(s string) string {
	var b strings.Builder
	for _, word := range strings.Fields(s) {
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				b.WriteRune(r)
				break
			}
		}
	}
	return b.String()
}
