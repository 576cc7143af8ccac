// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package latex

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain surname unchanged", "Sigurdsson", "Sigurdsson"},
		{"empty string", "", ""},
		{"braced acute", `G{\'{o}}mez`, "Gomez"},
		{"braced capital", `{\'{O}}rsted`, "Orsted"},
		{"braced umlaut", `M{\"{u}}ller`, "Muller"},
		{"braced caron", `{\v{C}}apek`, "Capek"},
		{"braced dotless i", `Mart{\'{\i}}nez`, "Martinez"},
		{"short braced form", `Fran{\c{c}}ois`, "Francois"},
		{"inner-only form", `{\'e}mile`, "emile"},
		{"bare braced form", `P\'{e}rez`, "Perez"},
		{"bare form", `P\'erez`, "Perez"},
		{"textquotesingle", `O{\textquotesingle}Keefe`, "O_Keefe"},
		{"literal apostrophe", "O'Keefe", "O_Keefe"},
		{"several escapes", `G{\"{o}}d{\'{e}}l`, "Godel"},
		{"nested escape", `{\'{\'{e}}}`, "e"},
		{"no recognized escape keeps backslash", `\alpha`, `\alpha`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"Varela",
		`G{\'{o}}mez`,
		`O{\textquotesingle}Keefe`,
		"O'Keefe",
		`{\'{\'{e}}}`,
		`\'{}`,
		`Fran{\c{c}}ois and M{\"u}ller`,
		"Pérez",
		`\"'`,
		"\\`'x",
		"c\\`'textquotesinglei",
		`\'{\textquotesingle}`,
		`\"\textquotesingle{}e`,
	}
	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent on %q: once %q, twice %q", in, once, twice)
		}
	}
}

func TestFoldDiacritics(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Pérez", "Perez"},
		{"Müller", "Muller"},
		{"Ørsted", "Ørsted"},
		{"Smith", "Smith"},
	}
	for _, tt := range tests {
		if got := FoldDiacritics(tt.input); got != tt.want {
			t.Errorf("FoldDiacritics(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
