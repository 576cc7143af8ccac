// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// Arity is the author-count class of a citation mention.
type Arity int

const (
	// ArityOne is a single-author mention ("Vertes 2006").
	ArityOne Arity = 1
	// ArityTwo is a two-author mention ("Sigurdsson & Duvarci 2015").
	ArityTwo Arity = 2
	// ArityEtAl is an "et al" mention and means three or more authors.
	ArityEtAl Arity = 3
)

func (a Arity) String() string {
	switch a {
	case ArityOne:
		return "1"
	case ArityTwo:
		return "2"
	case ArityEtAl:
		return "3+"
	default:
		return "unknown"
	}
}

// MarshalText encodes the arity as "1", "2" or "3+" in reports.
func (a Arity) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText decodes an arity written by MarshalText.
func (a *Arity) UnmarshalText(text []byte) error {
	switch string(text) {
	case "1":
		*a = ArityOne
	case "2":
		*a = ArityTwo
	case "3+":
		*a = ArityEtAl
	default:
		return fmt.Errorf("unknown arity %q", text)
	}
	return nil
}

// Mention is an author-year citation found in free text.
type Mention struct {
	// Original is the matched text, exactly as it appears in the document.
	Original string `json:"original" yaml:"original"`

	// Start and End are byte offsets of the match in the document.
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`

	// Year is the four-digit year.
	Year string `json:"year" yaml:"year"`

	// Authors holds the normalized surnames named in the mention: one for
	// single-author and "et al" mentions, two for "&" mentions.
	Authors []string `json:"authors" yaml:"authors"`

	// Arity is the author-count class.
	Arity Arity `json:"arity" yaml:"arity"`

	// Lead is the lead author exactly as written, used for the raw key.
	Lead string `json:"-" yaml:"-"`
}

// Key returns the raw citation key: the lead author as written followed by
// the year (e.g. "Varela2014").
func (m Mention) Key() string {
	return m.Lead + m.Year
}

// ResolutionResult is the outcome of resolving one mention.
type ResolutionResult struct {
	Mention Mention `json:"mention" yaml:"mention"`

	// Candidates lists matching bibliography keys in bibliography order.
	Candidates []string `json:"candidates" yaml:"candidates"`

	// Key is the chosen citation key. It is the raw key when there were no
	// candidates.
	Key string `json:"key" yaml:"key"`

	// InBibliography is true when Key names a bibliography entry.
	InBibliography bool `json:"in_bibliography" yaml:"in_bibliography"`
}

// Tex returns the LaTeX macro for the result, e.g. \cite{Varela2014}.
func (r ResolutionResult) Tex(macro string) string {
	if macro == "" {
		macro = "cite"
	}
	return `\` + macro + "{" + r.Key + "}"
}
