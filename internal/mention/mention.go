// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package mention finds author-year citations such as "Vertes 2006",
// "Varela et al 2014" and "Sigurdsson & Duvarci 2015" in free text.
package mention

import (
	"fmt"
	"iter"
	"regexp"
	"strings"

	"github.com/pdiddy/citefix/internal/latex"
	"github.com/pdiddy/citefix/pkg/types"
)

// DefaultPattern recognizes three shapes, tried in this order at each
// position: "Surname YYYY", "Surname et al[.] YYYY" and
// "Surname1 & Surname2 YYYY". Surnames start with an upper-case letter and
// may carry LaTeX escapes.
const DefaultPattern = `(?:(?P<name1>\p{Lu}[^0-9\s(),]*)` +
	`|(?P<name2>\p{Lu}[^0-9\s()]*)(?:\set\sal[.]*)` +
	`|(?P<name3>\p{Lu}[^0-9\s()]*)(?:\s&\s(?P<second>[^\s()]+)))` +
	`\s(?P<year>\d{4})`

// Named groups understood in patterns. Only "year" is required; without
// name groups the authors are read from the shape of the matched text.
const (
	yearGroup   = "year"
	singleGroup = "name1"
	etAlGroup   = "name2"
	pairGroup   = "name3"
	secondGroup = "second"
)

var (
	trailingYearRe = regexp.MustCompile(`(\d{4})\D*$`)
	twoAuthorRe    = regexp.MustCompile(`(\S+)\s+&\s+(\S+)`)
	etAlRe         = regexp.MustCompile(`\set\sal\b`)
)

// Matcher extracts mentions with a compiled pattern. A Matcher is safe for
// concurrent use.
type Matcher struct {
	re     *regexp.Regexp
	groups map[string]int
}

// New compiles pattern into a Matcher. An empty pattern selects
// DefaultPattern.
func New(pattern string) (*Matcher, error) {
	if pattern == "" {
		pattern = DefaultPattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling mention pattern: %w", err)
	}
	groups := make(map[string]int)
	for _, name := range []string{yearGroup, singleGroup, etAlGroup, pairGroup, secondGroup} {
		if i := re.SubexpIndex(name); i > 0 {
			groups[name] = i
		}
	}
	return &Matcher{re: re, groups: groups}, nil
}

// Default returns a Matcher for DefaultPattern.
func Default() *Matcher {
	m, err := New(DefaultPattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Pattern returns the source text of the matcher's pattern.
func (m *Matcher) Pattern() string {
	return m.re.String()
}

// Mentions returns the mentions in text from left to right. Matches never
// overlap: once a span is consumed it is not scanned again. Matches that do
// not yield both a year and an author are skipped.
func (m *Matcher) Mentions(text string) iter.Seq[types.Mention] {
	return func(yield func(types.Mention) bool) {
		for _, loc := range m.re.FindAllStringSubmatchIndex(text, -1) {
			mention, ok := m.parse(text, loc)
			if !ok {
				continue
			}
			if !yield(mention) {
				return
			}
		}
	}
}

// Find collects every mention in text.
func (m *Matcher) Find(text string) []types.Mention {
	var out []types.Mention
	for mention := range m.Mentions(text) {
		out = append(out, mention)
	}
	return out
}

func (m *Matcher) parse(text string, loc []int) (types.Mention, bool) {
	start, end := loc[0], loc[1]
	original := text[start:end]

	year, ok := m.group(text, loc, yearGroup)
	if !ok {
		if ym := trailingYearRe.FindStringSubmatch(original); ym != nil {
			year = ym[1]
		}
	}
	if len(year) != 4 {
		return types.Mention{}, false
	}

	lead, authors, arity := m.groupAuthors(text, loc)
	if lead == "" {
		lead, authors, arity = splitAuthors(original)
	}
	if lead == "" {
		return types.Mention{}, false
	}

	return types.Mention{
		Original: original,
		Start:    start,
		End:      end,
		Year:     year,
		Authors:  authors,
		Arity:    arity,
		Lead:     lead,
	}, true
}

// group returns the text of a named group when the pattern has it and it
// participated in the match.
func (m *Matcher) group(text string, loc []int, name string) (string, bool) {
	i, ok := m.groups[name]
	if !ok || loc[2*i] < 0 {
		return "", false
	}
	return text[loc[2*i]:loc[2*i+1]], true
}

// groupAuthors reads the authors from the name groups of the default pattern
// shape. It returns an empty lead when no name group matched.
func (m *Matcher) groupAuthors(text string, loc []int) (lead string, authors []string, arity types.Arity) {
	if name, ok := m.group(text, loc, singleGroup); ok && name != "" {
		return name, []string{latex.Normalize(name)}, types.ArityOne
	}
	if name, ok := m.group(text, loc, etAlGroup); ok && name != "" {
		return name, []string{latex.Normalize(name)}, types.ArityEtAl
	}
	if name, ok := m.group(text, loc, pairGroup); ok && name != "" {
		second, ok := m.group(text, loc, secondGroup)
		if !ok || second == "" {
			return "", nil, 0
		}
		return name, []string{latex.Normalize(name), latex.Normalize(second)}, types.ArityTwo
	}
	return "", nil, 0
}

// splitAuthors reads the author part of a matched mention from its shape:
// "A & B" names two authors, "A et al" is a lead author of three or more,
// anything else is a single author. The lead is returned as written; authors
// are normalized.
func splitAuthors(original string) (lead string, authors []string, arity types.Arity) {
	flat := strings.Join(strings.Fields(original), " ")

	if strings.Contains(flat, "&") {
		if pm := twoAuthorRe.FindStringSubmatch(flat); pm != nil {
			return pm[1], []string{latex.Normalize(pm[1]), latex.Normalize(pm[2])}, types.ArityTwo
		}
		return "", nil, 0
	}

	fields := strings.Fields(flat)
	if len(fields) < 2 {
		return "", nil, 0
	}
	lead = fields[0]
	if etAlRe.MatchString(flat) {
		return lead, []string{latex.Normalize(lead)}, types.ArityEtAl
	}
	return lead, []string{latex.Normalize(lead)}, types.ArityOne
}
