// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package latex turns LaTeX-escaped author names into plain surnames that
// can be compared across in-text citations and bibliography records.
package latex

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Accent commands: the symbol accents (\' \` \^ \" \~ \= \.) and the letter
// accents (\u \v \H \c \d \b \k \r \t).
const (
	symbolAccent = "['`^\"~=.]"
	anyAccent    = `(?:['` + "`" + `^"~=.]|[uvHcdbkrt])`
	baseLetter   = `(\\[ij]|[\p{L}\p{N}])`
)

// accentPatterns are applied in order; the braced forms come first so the
// group braces around an accent are removed together with it.
var accentPatterns = []*regexp.Regexp{
	// {\'{e}}  {\v{c}}  {\'{\i}}
	regexp.MustCompile(`\{\\` + anyAccent + `\{` + baseLetter + `\}\}`),
	// {\'e}
	regexp.MustCompile(`\{\\` + symbolAccent + baseLetter + `\}`),
	// \'{e}  \v{c}
	regexp.MustCompile(`\\` + anyAccent + `\{` + baseLetter + `\}`),
	// \'e
	regexp.MustCompile(`\\` + symbolAccent + baseLetter),
}

var quoteReplacer = strings.NewReplacer(
	`{\textquotesingle}`, "_",
	`\textquotesingle{}`, "_",
	`\textquotesingle`, "_",
	"'", "_",
)

// Normalize replaces LaTeX accent escapes with their bare base letter and
// turns apostrophes (literal or \textquotesingle) into underscores, so
// "O{\textquotesingle}Keefe" and "O'Keefe" both become "O_Keefe" and
// "Sigurdsson" is left alone. Normalize is idempotent.
func Normalize(s string) string {
	if !strings.ContainsAny(s, `\'`) {
		return s
	}
	for {
		out := s
		for _, re := range accentPatterns {
			out = re.ReplaceAllStringFunc(out, func(m string) string {
				sub := re.FindStringSubmatch(m)
				return strings.TrimPrefix(sub[1], `\`)
			})
		}
		out = quoteReplacer.Replace(out)
		if out == s {
			return s
		}
		s = out
	}
}

// FoldDiacritics strips Unicode combining marks ("Pérez" -> "Perez").
func FoldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
