// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSurnames(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"comma form", "Sigurdsson, J. and Duvarci, S.", []string{"Sigurdsson", "Duvarci"}},
		{"single author", "Vertes, R. P.", []string{"Vertes"}},
		{"given name first", "Sotiris Duvarci and Jan Sigurdsson", []string{"Duvarci", "Sigurdsson"}},
		{"mixed forms", "Varela, C. and Flavia Kumar and Wilson, M. A.", []string{"Varela", "Kumar", "Wilson"}},
		{"accented surname", `G{\'{o}}mez, A. and O'Neil, B.`, []string{"Gomez", "O_Neil"}},
		{"duplicates kept", "Smith, J. and Smith, K.", []string{"Smith", "Smith"}},
		{"bare surname", "Vertes", []string{"Vertes"}},
		{"empty", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Surnames(tt.input))
		})
	}
}

func TestSurname(t *testing.T) {
	assert.Equal(t, "Duvarci", Surname("  Duvarci, S.  "))
	assert.Equal(t, "Duvarci", Surname("Sotiris Duvarci"))
	assert.Equal(t, "", Surname("   "))
}
