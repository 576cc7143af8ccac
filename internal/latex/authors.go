// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import "strings"

// authorSeparator joins names in a bibliography author field.
const authorSeparator = " and "

// Surnames extracts normalized surnames from an "and"-joined author list such
// as "Sigurdsson, J. and Duvarci, S.". One surname is returned per segment,
// in input order, without deduplication.
func Surnames(authors string) []string {
	if strings.TrimSpace(authors) == "" {
		return nil
	}
	segments := strings.Split(authors, authorSeparator)
	out := make([]string, 0, len(segments))
	for _, seg := range segments {
		out = append(out, Surname(seg))
	}
	return out
}

// Surname returns the normalized surname of one author: the text before the
// first comma ("Duvarci, S.") or, without a comma, the last
// whitespace-delimited token ("Sotiris Duvarci").
func Surname(name string) string {
	name = strings.TrimSpace(name)
	if i := strings.Index(name, ","); i >= 0 {
		return Normalize(strings.TrimSpace(name[:i]))
	}
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return Normalize(fields[len(fields)-1])
}
