// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bibfile

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBib = `@article{Smith2014,
  author = {Smith, J.},
  title = {Place cells},
  journal = {Cell},
  year = {2014}
}

@article{Smith2014,
  author = {Smith, K. and Jones, L.},
  title = {Grid cells},
  journal = {Nature Neuroscience},
  year = {2014}
}

@article{Sigurdsson2015,
  author = {Sigurdsson, J. and Duvarci, S.},
  title = {Hippocampal-prefrontal interactions},
  journal = {Frontiers in Systems Neuroscience},
  year = {2015}
}
`

func TestParse(t *testing.T) {
	bib, err := Parse(strings.NewReader(sampleBib))
	require.NoError(t, err)

	assert.Equal(t, []string{"Smith2014", "Smith2014", "Sigurdsson2015"}, bib.Keys())

	last := bib.Entries[2]
	assert.Equal(t, "article", last.Type)
	assert.Equal(t, "Sigurdsson, J. and Duvarci, S.", last.Author())
	assert.Equal(t, "2015", last.Year())
	journal, ok := last.Journal()
	assert.True(t, ok)
	assert.Equal(t, "Frontiers in Systems Neuroscience", journal)

	// Known fields come first in a fixed order.
	require.GreaterOrEqual(t, len(last.Fields), 4)
	assert.Equal(t, "author", last.Fields[0].Name)
	assert.Equal(t, "title", last.Fields[1].Name)
}

func TestWriteRoundTrip(t *testing.T) {
	bib, err := Parse(strings.NewReader(sampleBib))
	require.NoError(t, err)
	bib.Entries[0].Key = "Smith2014-C"
	bib.Entries[1].Key = "Smith2014-NN"

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, bib))

	again, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Smith2014-C", "Smith2014-NN", "Sigurdsson2015"}, again.Keys())
	assert.Equal(t, "Smith, K. and Jones, L.", again.Entries[1].Author())
}

func TestLoadMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.bib")

	bib, err := Load(path, true)
	require.NoError(t, err)
	assert.Equal(t, 0, bib.Len())

	_, err = Load(path, false)
	assert.Error(t, err)
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out", "refs.bib")

	bib, err := Parse(strings.NewReader(sampleBib))
	require.NoError(t, err)
	require.NoError(t, Save(path, bib))

	loaded, err := Load(path, false)
	require.NoError(t, err)
	assert.Equal(t, bib.Keys(), loaded.Keys())

	// No temp files are left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
