// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bibfile reads and writes BibTeX files. Parsing and formatting are
// delegated to github.com/nickng/bibtex; this package only converts between
// that representation and types.Bibliography.
package bibfile

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nickng/bibtex"

	"github.com/pdiddy/citefix/pkg/types"
)

// fieldOrder lists the fields placed first, in this order, in parsed
// entries. Remaining fields follow alphabetically. The order on disk is
// whatever nickng/bibtex chooses when formatting.
var fieldOrder = []string{
	"author", "title", "journal", "booktitle", "year", "month",
	"volume", "number", "pages", "publisher", "doi", "url",
}

// Parse reads BibTeX from r. Entries keep their file order, including
// entries that share a key.
func Parse(r io.Reader) (*types.Bibliography, error) {
	parsed, err := bibtex.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing bibtex: %w", err)
	}
	bib := &types.Bibliography{}
	for _, be := range parsed.Entries {
		bib.Add(fromBibEntry(be))
	}
	return bib, nil
}

// Load reads the BibTeX file at path. When allowMissing is true a missing
// file yields an empty bibliography.
func Load(path string, allowMissing bool) (*types.Bibliography, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && os.IsNotExist(err) {
			return &types.Bibliography{}, nil
		}
		return nil, fmt.Errorf("reading bibliography %s: %w", path, err)
	}
	bib, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return bib, nil
}

// Write formats bib as BibTeX to w.
func Write(w io.Writer, bib *types.Bibliography) error {
	out := bibtex.NewBibTex()
	for _, e := range bib.Entries {
		out.AddEntry(toBibEntry(e))
	}
	_, err := io.WriteString(w, out.PrettyString())
	return err
}

// Save writes bib to path through a temporary file in the same directory,
// so a failed write never leaves a truncated bibliography behind.
func Save(path string, bib *types.Bibliography) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}

	tmpFile, err := os.CreateTemp(dir, ".bibfile-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()

	writeErr := Write(tmpFile, bib)
	closeErr := tmpFile.Close()
	if writeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing bibliography: %w", writeErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func fromBibEntry(be *bibtex.BibEntry) *types.Entry {
	e := &types.Entry{
		Type: strings.ToLower(be.Type),
		Key:  strings.TrimSpace(be.CiteName),
	}
	names := make([]string, 0, len(be.Fields))
	for name := range be.Fields {
		names = append(names, name)
	}
	sort.SliceStable(names, func(i, j int) bool {
		ri, rj := rank(names[i]), rank(names[j])
		if ri != rj {
			return ri < rj
		}
		return strings.ToLower(names[i]) < strings.ToLower(names[j])
	})
	for _, name := range names {
		value := be.Fields[name]
		if value == nil {
			continue
		}
		e.Fields = append(e.Fields, types.Field{
			Name:  strings.ToLower(name),
			Value: strings.TrimSpace(value.String()),
		})
	}
	return e
}

func toBibEntry(e *types.Entry) *bibtex.BibEntry {
	be := bibtex.NewBibEntry(e.Type, e.Key)
	for _, f := range e.Fields {
		be.AddField(f.Name, bibtex.NewBibConst(f.Value))
	}
	return be
}

func rank(name string) int {
	for i, n := range fieldOrder {
		if strings.EqualFold(n, name) {
			return i
		}
	}
	return len(fieldOrder)
}
