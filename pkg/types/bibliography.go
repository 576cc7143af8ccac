// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data structures for citefix: bibliography
// entries, citation mentions, resolution results, and command configuration.
package types

import "strings"

// Field is one name/value pair of a bibliography record. Values are stored
// without their outer delimiters (braces or quotes).
type Field struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Entry is a single bibliography record. Fields keep their file order so that
// everything citefix does not interpret is written back unchanged.
type Entry struct {
	// Type is the record type without the leading '@' (e.g. "article").
	Type string `json:"type" yaml:"type"`

	// Key is the citation key used in \cite{...}.
	Key string `json:"key" yaml:"key"`

	// Fields holds the record fields in source order.
	Fields []Field `json:"fields" yaml:"fields"`
}

// Field returns the value of the named field and whether it is present.
// Field names are matched case-insensitively.
func (e *Entry) Field(name string) (string, bool) {
	for _, f := range e.Fields {
		if strings.EqualFold(f.Name, name) {
			return f.Value, true
		}
	}
	return "", false
}

// SetField replaces the value of the named field, appending it when absent.
func (e *Entry) SetField(name, value string) {
	for i, f := range e.Fields {
		if strings.EqualFold(f.Name, name) {
			e.Fields[i].Value = value
			return
		}
	}
	e.Fields = append(e.Fields, Field{Name: name, Value: value})
}

// Author returns the raw "and"-joined author field.
func (e *Entry) Author() string {
	v, _ := e.Field("author")
	return v
}

// Year returns the trimmed year field.
func (e *Entry) Year() string {
	v, _ := e.Field("year")
	return strings.TrimSpace(v)
}

// Journal returns the journal field and whether it is present and non-empty.
func (e *Entry) Journal() (string, bool) {
	v, ok := e.Field("journal")
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	c := &Entry{Type: e.Type, Key: e.Key}
	c.Fields = append([]Field(nil), e.Fields...)
	return c
}

// Bibliography is an ordered collection of entries. Keys are unique in any
// bibliography handed to a caller; duplicates exist only transiently, between
// loading or appending and key disambiguation.
type Bibliography struct {
	Entries []*Entry `json:"entries" yaml:"entries"`
}

// Len returns the number of entries.
func (b *Bibliography) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Entries)
}

// Add appends an entry.
func (b *Bibliography) Add(e *Entry) {
	b.Entries = append(b.Entries, e)
}

// Keys returns the entry keys in bibliography order.
func (b *Bibliography) Keys() []string {
	if b == nil {
		return nil
	}
	keys := make([]string, len(b.Entries))
	for i, e := range b.Entries {
		keys[i] = e.Key
	}
	return keys
}

// Clone returns a deep copy of the bibliography.
func (b *Bibliography) Clone() *Bibliography {
	if b == nil {
		return nil
	}
	c := &Bibliography{Entries: make([]*Entry, len(b.Entries))}
	for i, e := range b.Entries {
		c.Entries[i] = e.Clone()
	}
	return c
}

// RenamePhase names the step that changed a key.
type RenamePhase string

const (
	PhaseRekey   RenamePhase = "rekey"
	PhaseJournal RenamePhase = "journal"
	PhaseDigit   RenamePhase = "digit"
)

// Rename records a single key change.
type Rename struct {
	Old   string      `json:"old" yaml:"old"`
	New   string      `json:"new" yaml:"new"`
	Phase RenamePhase `json:"phase" yaml:"phase"`
}
