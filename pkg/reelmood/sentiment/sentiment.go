package sentiment

import (
	"context"
	"fmt"
	"strings"

	"github.com/cognicore/reelmood/pkg/reelmood/internalerr"
)

// Label is the normalized sentiment class.
type Label string

const (
	Positive Label = "POSITIVE"
	Negative Label = "NEGATIVE"
	Neutral  Label = "NEUTRAL"
)

// DefaultMaxLength is the longest input (in runes) the backends accept.
const DefaultMaxLength = 512

// Compound thresholds for the lexicon backend.
const (
	PositiveThreshold = 0.05
	NegativeThreshold = -0.05
)

// Result is the uniform output of every backend.
// Score is always in [0, 1].
type Result struct {
	Label Label   `json:"label"`
	Score float64 `json:"score"`
}

// Backend scores text and maps the native output into a Result.
type Backend interface {
	Name() string
	Normalize(ctx context.Context, text string) (Result, error)
}

// Normalizer is the entry point used by callers. It does not truncate:
// callers pass text through Truncate first.
type Normalizer struct {
	backend   Backend
	maxLength int
}

// NewNormalizer wraps backend. maxLength <= 0 selects DefaultMaxLength.
func NewNormalizer(backend Backend, maxLength int) (*Normalizer, error) {
	if backend == nil {
		return nil, fmt.Errorf("sentiment: nil backend: %w", internalerr.ErrBackendUnavailable)
	}
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Normalizer{backend: backend, maxLength: maxLength}, nil
}

// Backend returns the name of the wrapped backend.
func (n *Normalizer) Backend() string {
	return n.backend.Name()
}

// MaxLength is the longest input in runes the backend supports.
func (n *Normalizer) MaxLength() int {
	return n.maxLength
}

// Truncate cuts text to MaxLength runes.
func (n *Normalizer) Truncate(text string) string {
	return TruncateRunes(text, n.maxLength)
}

// Normalize scores text and returns a label with a confidence in [0, 1].
func (n *Normalizer) Normalize(ctx context.Context, text string) (Result, error) {
	if text == "" {
		return Result{}, fmt.Errorf("sentiment: empty text: %w", internalerr.ErrInvalidInput)
	}
	res, err := n.backend.Normalize(ctx, text)
	if err != nil {
		return Result{}, fmt.Errorf("%s: %w", n.backend.Name(), err)
	}
	if !(res.Score >= 0 && res.Score <= 1) {
		return Result{}, fmt.Errorf("%s: score %.4f outside [0,1]", n.backend.Name(), res.Score)
	}
	return res, nil
}

// FromCompound maps a compound polarity in [-1, 1] to a Result.
//
// POSITIVE and NEGATIVE scores start at 0.525 while NEUTRAL is pinned at 0.5,
// so the score jumps at both thresholds. The jump is intentional.
func FromCompound(compound float64) Result {
	switch {
	case compound >= PositiveThreshold:
		return Result{Label: Positive, Score: (compound + 1) / 2}
	case compound <= NegativeThreshold:
		return Result{Label: Negative, Score: (1 - compound) / 2}
	default:
		return Result{Label: Neutral, Score: 0.5}
	}
}

// TruncateRunes returns at most n runes of s.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// ParseLabel maps a backend label to a binary Label. Classifier backends never
// produce Neutral.
func ParseLabel(raw string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "positive", "pos", "label_1":
		return Positive, nil
	case "negative", "neg", "label_0":
		return Negative, nil
	}
	return "", fmt.Errorf("unknown label %q", raw)
}
