// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rewrite

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/citefix/pkg/types"
)

// Report summarizes a rewrite for export.
type Report struct {
	Input     string                   `json:"input" yaml:"input"`
	Output    string                   `json:"output" yaml:"output"`
	Fixed     int                      `json:"fixed" yaml:"fixed"`
	Unchanged int                      `json:"unchanged" yaml:"unchanged"`
	Citations []types.ResolutionResult `json:"citations" yaml:"citations"`
}

// NewReport builds a Report from a rewrite result.
func NewReport(input, output string, res Result) Report {
	return Report{
		Input:     input,
		Output:    output,
		Fixed:     res.Fixed,
		Unchanged: res.Unchanged,
		Citations: res.Results,
	}
}

// WriteReport writes r to path as JSON when path ends in .json and as YAML
// otherwise.
func WriteReport(path string, r Report) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(r, "", "  ")
	default:
		data, err = yaml.Marshal(r)
	}
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
