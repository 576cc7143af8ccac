// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citefix/internal/resolve"
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

func TestRewriteNoMentionsIsIdentity(t *testing.T) {
	inputs := []string{
		"",
		"No citations here.",
		"lowercase varela 2014 is not a citation",
		"A year alone (2014) is not a citation either.",
	}
	for _, in := range inputs {
		res, err := Rewrite(in, nil, Options{})
		require.NoError(t, err)
		assert.Equal(t, in, res.Text)
		assert.Empty(t, res.Results)
		assert.Zero(t, res.Fixed)
	}
}

func TestRewriteWithoutBibliography(t *testing.T) {
	res, err := Rewrite("As shown by Varela et al 2014, rhythms align.", nil, Options{})
	require.NoError(t, err)

	require.Len(t, res.Results, 1)
	m := res.Results[0].Mention
	assert.Equal(t, "Varela et al 2014", m.Original)
	assert.Equal(t, []string{"Varela"}, m.Authors)
	assert.Equal(t, "2014", m.Year)
	assert.Equal(t, types.ArityEtAl, m.Arity)

	assert.Equal(t, `As shown by \cite{Varela2014}, rhythms align.`, res.Text)
	assert.Equal(t, 1, res.Fixed)
	assert.Zero(t, res.Unchanged)
}

func TestRewriteResolvesAgainstBibliography(t *testing.T) {
	bib := &types.Bibliography{Entries: []*types.Entry{
		entry("varela_thalamus", "Varela, C. and Kumar, S. and Yang, J. Y.", "2014"),
		entry("Vertes2006", "Vertes, R. P.", "2006"),
	}}

	res, err := Rewrite("See Varela et al 2014 and Vertes 2006.", bib, Options{})
	require.NoError(t, err)

	assert.Equal(t, `See \cite{varela_thalamus} and \cite{Vertes2006}.`, res.Text)
	assert.Equal(t, 2, res.Fixed)
	assert.Empty(t, res.Unresolved)
}

func TestRewriteLeavesUnresolvedUnchanged(t *testing.T) {
	bib := &types.Bibliography{Entries: []*types.Entry{
		entry("Vertes2006", "Vertes, R. P.", "2006"),
	}}
	var progress bytes.Buffer

	res, err := Rewrite("Smith 1999 and Vertes 2006.", bib, Options{Progress: &progress})
	require.NoError(t, err)

	assert.Equal(t, `Smith 1999 and \cite{Vertes2006}.`, res.Text)
	assert.Equal(t, 1, res.Fixed)
	assert.Equal(t, 1, res.Unchanged)
	require.Len(t, res.Unresolved, 1)
	assert.Equal(t, "Smith1999", res.Unresolved[0].Key)
	assert.Contains(t, progress.String(), "Smith1999 not found in bibliography")
}

func TestRewriteDeduplicatesRepeatedMentions(t *testing.T) {
	res, err := Rewrite("Vertes 2006 found it. Later, Vertes 2006 confirmed it.", nil, Options{})
	require.NoError(t, err)

	assert.Len(t, res.Results, 2)
	assert.Equal(t, 1, res.Fixed)
	assert.Equal(t, `\cite{Vertes2006} found it. Later, \cite{Vertes2006} confirmed it.`, res.Text)
}

// Substitution replaces the mention text everywhere, including inside a
// longer citation that happens to contain it.
func TestRewriteSubstitutesGlobally(t *testing.T) {
	text := "Smith 2010 argued, unlike Jones & Smith 2010."
	res, err := Rewrite(text, nil, Options{})
	require.NoError(t, err)

	require.Len(t, res.Results, 2)
	assert.Equal(t, "Jones & Smith 2010", res.Results[1].Mention.Original)
	assert.Equal(t, `\cite{Smith2010} argued, unlike Jones & \cite{Smith2010}.`, res.Text)
}

func TestRewriteMacro(t *testing.T) {
	res, err := Rewrite("Vertes 2006", nil, Options{Macro: "citep"})
	require.NoError(t, err)
	assert.Equal(t, `\citep{Vertes2006}`, res.Text)
}

func TestRewriteAmbiguity(t *testing.T) {
	bib := &types.Bibliography{Entries: []*types.Entry{
		entry("Vertes2006a", "Vertes, R. P.", "2006"),
		entry("Vertes2006b", "Vertes, R. P.", "2006"),
	}}

	_, err := Rewrite("Vertes 2006", bib, Options{})
	assert.True(t, errors.Is(err, resolve.ErrAmbiguous))

	res, err := Rewrite("Vertes 2006", bib, Options{
		Resolver: resolve.New(resolve.WithChooser(resolve.FirstChooser{})),
	})
	require.NoError(t, err)
	assert.Equal(t, `\cite{Vertes2006a}`, res.Text)
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"paper.txt", "paper-fixed.txt"},
		{"dir/draft.tex", "dir/draft-fixed.tex"},
		{"notes", "notes-fixed"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutputPath(tt.in))
	}
}

func TestRewriteFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "paper.txt")
	require.NoError(t, os.WriteFile(in, []byte("Per Vertes 2006."), 0o644))
	var progress bytes.Buffer

	res, err := RewriteFile(in, "", nil, Options{Progress: &progress})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Fixed)

	out, err := os.ReadFile(filepath.Join(dir, "paper-fixed.txt"))
	require.NoError(t, err)
	assert.Equal(t, `Per \cite{Vertes2006}.`, string(out))
	assert.Contains(t, progress.String(), "Done. 1 citations fixed. 0 citations unchanged")
}

func TestRewriteFileNotWrittenOnError(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "paper.txt")
	out := filepath.Join(dir, "out.txt")
	require.NoError(t, os.WriteFile(in, []byte("Vertes 2006"), 0o644))
	bib := &types.Bibliography{Entries: []*types.Entry{
		entry("A", "Vertes, R. P.", "2006"),
		entry("B", "Vertes, R. P.", "2006"),
	}}

	_, err := RewriteFile(in, out, bib, Options{})
	require.Error(t, err)
	assert.NoFileExists(t, out)
}

func TestWriteReport(t *testing.T) {
	res, err := Rewrite("Vertes 2006 and Sigurdsson & Duvarci 2015.", nil, Options{})
	require.NoError(t, err)
	r := NewReport("in.txt", "out.txt", res)
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "report.yaml")
	require.NoError(t, WriteReport(yamlPath, r))
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML map[string]any
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Equal(t, 2, fromYAML["fixed"])
	assert.Contains(t, string(data), "arity: \"2\"")

	jsonPath := filepath.Join(dir, "report.json")
	require.NoError(t, WriteReport(jsonPath, r))
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON Report
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, "in.txt", fromJSON.Input)
	require.Len(t, fromJSON.Citations, 2)
	assert.Equal(t, "Sigurdsson2015", fromJSON.Citations[1].Key)
}
