package batch

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/reelmood/pkg/reelmood/sentiment"
)

// DefaultChunkSize is the number of texts scored between progress reports.
const DefaultChunkSize = 100

// Blank is the result recorded for rows with no text. Such rows never reach
// the backend.
var Blank = sentiment.Result{Label: sentiment.Neutral, Score: 0.5}

// Progress reports how many texts of a batch have been scored.
type Progress struct {
	Done  int
	Total int
}

// Scorer runs a Normalizer over a collection of texts in fixed-size chunks.
// The results do not depend on the chunk size.
type Scorer struct {
	normalizer *sentiment.Normalizer
	chunkSize  int
	cleanHTML  bool
	onProgress func(Progress)
	logger     *zap.Logger
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithChunkSize sets the chunk size. Non-positive values keep the default.
func WithChunkSize(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.chunkSize = n
		}
	}
}

// WithProgress registers a callback invoked after every chunk.
func WithProgress(fn func(Progress)) Option {
	return func(s *Scorer) { s.onProgress = fn }
}

// WithHTMLCleanup toggles markup stripping before scoring. On by default.
func WithHTMLCleanup(enabled bool) Option {
	return func(s *Scorer) { s.cleanHTML = enabled }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Scorer) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScorer creates a batch scorer over n.
func NewScorer(n *sentiment.Normalizer, opts ...Option) *Scorer {
	s := &Scorer{
		normalizer: n,
		chunkSize:  DefaultChunkSize,
		cleanHTML:  true,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.Named("batch")
	return s
}

// ChunkSize returns the configured chunk size.
func (s *Scorer) ChunkSize() int { return s.chunkSize }

// Run scores texts in order. Each text is cleaned and truncated to the
// normalizer's maximum length first; blank rows get Blank. The first failure
// aborts the batch and no results are returned; the error names the failing
// row (0-based).
func (s *Scorer) Run(ctx context.Context, texts []string) ([]sentiment.Result, error) {
	results := make([]sentiment.Result, len(texts))
	total := len(texts)

	for start := 0; start < total; start += s.chunkSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		end := min(start+s.chunkSize, total)
		for i := start; i < end; i++ {
			text := s.prepare(texts[i])
			if strings.TrimSpace(text) == "" {
				results[i] = Blank
				continue
			}
			res, err := s.normalizer.Normalize(ctx, text)
			if err != nil {
				s.logger.Warn("Batch aborted",
					zap.Int("row", i),
					zap.Int("total", total),
					zap.Error(err))
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			results[i] = res
		}

		s.logger.Debug("Chunk scored", zap.Int("done", end), zap.Int("total", total))
		if s.onProgress != nil {
			s.onProgress(Progress{Done: end, Total: total})
		}
	}

	return results, nil
}

// prepare cleans and truncates text. Markup that cleans away to nothing is
// scored as written.
func (s *Scorer) prepare(text string) string {
	if s.cleanHTML {
		if cleaned := CleanText(text); cleaned != "" {
			text = cleaned
		} else {
			text = strings.Join(strings.Fields(text), " ")
		}
	}
	return s.normalizer.Truncate(text)
}
