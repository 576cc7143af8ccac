// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by commands that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "citefix/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// AmbiguityPolicy selects how the cite command settles a mention that matches
// several bibliography entries.
type AmbiguityPolicy string

const (
	// AmbiguityAuto prompts when stdin is a terminal and fails otherwise.
	AmbiguityAuto   AmbiguityPolicy = "auto"
	AmbiguityPrompt AmbiguityPolicy = "prompt"
	AmbiguityFirst  AmbiguityPolicy = "first"
	AmbiguityFail   AmbiguityPolicy = "fail"
)

// CiteConfig holds settings for converting in-text citations.
type CiteConfig struct {
	// Pattern overrides the built-in mention pattern. Empty means default.
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty" mapstructure:"pattern"`

	// Macro is the LaTeX macro name written around keys (default "cite").
	Macro string `json:"macro" yaml:"macro" mapstructure:"macro"`

	// Ambiguity selects the decision policy for multi-candidate mentions.
	Ambiguity AmbiguityPolicy `json:"ambiguity" yaml:"ambiguity" mapstructure:"ambiguity"`

	// FoldDiacritics makes surname comparison ignore Unicode accents.
	FoldDiacritics bool `json:"fold_diacritics" yaml:"fold_diacritics" mapstructure:"fold_diacritics"`
}

// CollisionStrategy names the first phase used to split colliding keys.
type CollisionStrategy string

const (
	StrategyJournal CollisionStrategy = "journal"
	StrategyDigit   CollisionStrategy = "digit"
)

// BibConfig holds settings for normalizing bibliography keys.
type BibConfig struct {
	// Strategy is the first disambiguation phase: journal (then digit) or digit.
	Strategy CollisionStrategy `json:"strategy" yaml:"strategy" mapstructure:"strategy"`

	// KeepKeys skips the AuthorYear rekeying and only resolves collisions.
	KeepKeys bool `json:"keep_keys" yaml:"keep_keys" mapstructure:"keep_keys"`
}

// LookupConfig holds settings for fetching references by DOI.
type LookupConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Mailto is a contact address appended to the User-Agent, as the
	// DOI registration agencies ask of automated clients.
	Mailto string `json:"mailto,omitempty" yaml:"mailto,omitempty" mapstructure:"mailto"`

	// Rate is the maximum number of lookups per second (default 2).
	Rate float64 `json:"rate" yaml:"rate" mapstructure:"rate"`

	// CacheDir holds the SQLite reference cache. Empty disables caching.
	CacheDir string `json:"cache_dir,omitempty" yaml:"cache_dir,omitempty" mapstructure:"cache_dir"`
}

// Config groups the settings of every command.
type Config struct {
	Cite   CiteConfig   `json:"cite" yaml:"cite" mapstructure:"cite"`
	Bib    BibConfig    `json:"bib" yaml:"bib" mapstructure:"bib"`
	Lookup LookupConfig `json:"lookup" yaml:"lookup" mapstructure:"lookup"`
}

// DefaultConfig returns the settings used when no config file, environment
// variable, or flag overrides them.
func DefaultConfig() Config {
	return Config{
		Cite: CiteConfig{
			Macro:     "cite",
			Ambiguity: AmbiguityAuto,
		},
		Bib: BibConfig{
			Strategy: StrategyJournal,
		},
		Lookup: LookupConfig{
			HTTPConfig: HTTPConfig{
				Timeout:   30 * time.Second,
				UserAgent: "citefix/0.1",
			},
			Rate: 2,
		},
	}
}
