package sentiment

import (
	"github.com/jonreiter/govader"
)

// VaderScorer scores text with the full VADER lexicon and rule set.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVaderScorer creates a VADER scorer. The lexicon is loaded once.
func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// PolarityScores implements Scorer.
func (v *VaderScorer) PolarityScores(text string) Scores {
	s := v.analyzer.PolarityScores(text)
	return Scores{
		Neg:      s.Negative,
		Neu:      s.Neutral,
		Pos:      s.Positive,
		Compound: s.Compound,
	}
}
