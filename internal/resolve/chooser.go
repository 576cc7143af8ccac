// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package resolve

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pdiddy/citefix/pkg/types"
)

var (
	// ErrAmbiguous is returned when a mention matches several entries and no
	// decision-maker is allowed to pick one.
	ErrAmbiguous = errors.New("ambiguous citation")

	// ErrNoChoice is returned when a decision-maker gives no usable answer.
	ErrNoChoice = errors.New("no candidate chosen")
)

// Chooser selects exactly one key from an ordered candidate list.
type Chooser interface {
	Choose(m types.Mention, candidates []string) (string, error)
}

// ChooserFunc adapts a function to the Chooser interface.
type ChooserFunc func(m types.Mention, candidates []string) (string, error)

// Choose calls f.
func (f ChooserFunc) Choose(m types.Mention, candidates []string) (string, error) {
	return f(m, candidates)
}

// FirstChooser always picks the first candidate.
type FirstChooser struct{}

// Choose returns candidates[0].
func (FirstChooser) Choose(_ types.Mention, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return "", ErrNoChoice
	}
	return candidates[0], nil
}

// FailChooser never picks; every ambiguous mention is an error.
type FailChooser struct{}

// Choose returns ErrAmbiguous listing the candidates.
func (FailChooser) Choose(_ types.Mention, candidates []string) (string, error) {
	return "", fmt.Errorf("%w: candidates %s", ErrAmbiguous, strings.Join(candidates, ", "))
}

// PromptChooser asks an operator to pick a candidate by number. It prints
// the numbered list to Out and reads one line at a time from In until a
// valid index is entered.
type PromptChooser struct {
	in  *bufio.Scanner
	out io.Writer
}

// NewPromptChooser creates a PromptChooser reading answers from in.
func NewPromptChooser(in io.Reader, out io.Writer) *PromptChooser {
	return &PromptChooser{in: bufio.NewScanner(in), out: out}
}

// Choose prompts until the answer is a valid candidate number. It fails
// with ErrNoChoice when input runs out.
func (p *PromptChooser) Choose(m types.Mention, candidates []string) (string, error) {
	for {
		fmt.Fprintf(p.out, "Multiple matches found for citation %s\n Please select from the list below:\n", m.Original)
		for i, c := range candidates {
			fmt.Fprintf(p.out, "%d) %s\n", i, c)
		}
		fmt.Fprint(p.out, "Select One >> ")

		if !p.in.Scan() {
			fmt.Fprintln(p.out)
			if err := p.in.Err(); err != nil {
				return "", fmt.Errorf("reading choice: %w", err)
			}
			return "", ErrNoChoice
		}
		n, err := strconv.Atoi(strings.TrimSpace(p.in.Text()))
		if err == nil && n >= 0 && n < len(candidates) {
			return candidates[n], nil
		}
	}
}
