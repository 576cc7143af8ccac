// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/citefix/internal/mention"
	"github.com/pdiddy/citefix/pkg/types"
)

func entry(key, author, year string) *types.Entry {
	return &types.Entry{
		Type: "article",
		Key:  key,
		Fields: []types.Field{
			{Name: "author", Value: author},
			{Name: "year", Value: year},
		},
	}
}

func sampleBib() *types.Bibliography {
	return &types.Bibliography{Entries: []*types.Entry{
		entry("Varela2014", "Varela, C. and Kumar, S. and Yang, J. Y. and Wilson, M. A.", "2014"),
		entry("VarelaSolo2014", "Varela, C.", "2014"),
		entry("Sigurdsson2015", "Sigurdsson, J. and Duvarci, S.", "2015"),
		entry("Duvarci2015", "Duvarci, S. and Pare, D. and Sigurdsson, J.", "2015"),
		entry("Vertes2006", "Vertes, R. P.", "2006"),
		entry("Gomez2010", `G{\'{o}}mez, A.`, "2010"),
		entry("NoAuthor2010", "", "2010"),
	}}
}

func mustMention(t *testing.T, text string) types.Mention {
	t.Helper()
	ms := mention.Default().Find(text)
	require.Len(t, ms, 1, "expected one mention in %q", text)
	return ms[0]
}

func TestCandidates(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"et al requires at least three authors", "Varela et al 2014", []string{"Varela2014"}},
		{"single author requires exactly one", "Varela 2014", []string{"VarelaSolo2014"}},
		{"two authors require exactly two", "Sigurdsson & Duvarci 2015", []string{"Sigurdsson2015"}},
		{"two-author order does not matter", "Duvarci & Sigurdsson 2015", []string{"Sigurdsson2015"}},
		{"et al matches any member", "Sigurdsson et al 2015", []string{"Duvarci2015"}},
		{"year must match exactly", "Vertes 2007", nil},
		{"surname must match", "Smith 2006", nil},
		{"escaped surname in record", "Gomez 2010", []string{"Gomez2010"}},
	}
	r := New()
	bib := sampleBib()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Candidates(mustMention(t, tt.text), bib))
		})
	}
}

func TestCandidatesNilBibliography(t *testing.T) {
	assert.Nil(t, New().Candidates(mustMention(t, "Vertes 2006"), nil))
}

func TestCandidatesFoldDiacritics(t *testing.T) {
	bib := sampleBib()
	m := mustMention(t, "Gómez 2010")

	assert.Empty(t, New().Candidates(m, bib))
	assert.Equal(t, []string{"Gomez2010"}, New(WithFoldDiacritics(true)).Candidates(m, bib))
}

func TestResolveSingleCandidateUsesEntryKey(t *testing.T) {
	bib := &types.Bibliography{Entries: []*types.Entry{
		entry("varela-replay", "Varela, C. and Kumar, S. and Wilson, M. A.", "2014"),
	}}
	res, err := New().Resolve(mustMention(t, "As shown by Varela et al 2014, ..."), bib)
	require.NoError(t, err)
	assert.Equal(t, "varela-replay", res.Key)
	assert.True(t, res.InBibliography)
	assert.Equal(t, []string{"varela-replay"}, res.Candidates)
}

func TestResolveNoCandidatesUsesRawKey(t *testing.T) {
	res, err := New().Resolve(mustMention(t, "Vertes 2007"), sampleBib())
	require.NoError(t, err)
	assert.Equal(t, "Vertes2007", res.Key)
	assert.False(t, res.InBibliography)
	assert.Empty(t, res.Candidates)
}

func ambiguousBib() *types.Bibliography {
	return &types.Bibliography{Entries: []*types.Entry{
		entry("Smith2014a", "Smith, J.", "2014"),
		entry("Smith2014b", "Smith, K.", "2014"),
	}}
}

func TestResolveAmbiguousFailsWithoutChooser(t *testing.T) {
	_, err := New().Resolve(mustMention(t, "Smith 2014"), ambiguousBib())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrAmbiguous))
	assert.Contains(t, err.Error(), "Smith2014a, Smith2014b")
}

func TestResolveAmbiguousFirstChooser(t *testing.T) {
	res, err := New(WithChooser(FirstChooser{})).Resolve(mustMention(t, "Smith 2014"), ambiguousBib())
	require.NoError(t, err)
	assert.Equal(t, "Smith2014a", res.Key)
	assert.Equal(t, []string{"Smith2014a", "Smith2014b"}, res.Candidates)
}

func TestResolveRejectsKeyOutsideCandidates(t *testing.T) {
	c := ChooserFunc(func(types.Mention, []string) (string, error) { return "Other", nil })
	_, err := New(WithChooser(c)).Resolve(mustMention(t, "Smith 2014"), ambiguousBib())
	assert.True(t, errors.Is(err, ErrNoChoice))
}

func TestResolveRemembersChoicePerMentionText(t *testing.T) {
	calls := 0
	c := ChooserFunc(func(_ types.Mention, cands []string) (string, error) {
		calls++
		return cands[1], nil
	})
	r := New(WithChooser(c))
	bib := ambiguousBib()
	m := mustMention(t, "Smith 2014")

	for i := 0; i < 3; i++ {
		res, err := r.Resolve(m, bib)
		require.NoError(t, err)
		assert.Equal(t, "Smith2014b", res.Key)
	}
	assert.Equal(t, 1, calls)
}

func TestPromptChooser(t *testing.T) {
	var out bytes.Buffer
	p := NewPromptChooser(strings.NewReader("x\n7\n1\n"), &out)

	key, err := p.Choose(types.Mention{Original: "Smith 2014"}, []string{"Smith2014a", "Smith2014b"})
	require.NoError(t, err)
	assert.Equal(t, "Smith2014b", key)
	assert.Equal(t, 3, strings.Count(out.String(), "Select One >> "))
	assert.Contains(t, out.String(), "Multiple matches found for citation Smith 2014")
	assert.Contains(t, out.String(), "0) Smith2014a\n1) Smith2014b\n")
}

func TestPromptChooserInputExhausted(t *testing.T) {
	var out bytes.Buffer
	p := NewPromptChooser(strings.NewReader("nope\n"), &out)

	_, err := p.Choose(types.Mention{Original: "Smith 2014"}, []string{"a", "b"})
	assert.True(t, errors.Is(err, ErrNoChoice))
}
