package batch

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/cognicore/reelmood/pkg/reelmood/sentiment"
)

// Summary aggregates the results of a batch.
type Summary struct {
	Total          int
	Counts         map[sentiment.Label]int
	MeanConfidence float64
	StdConfidence  float64
	MinConfidence  float64
	MaxConfidence  float64
}

// Summarize computes label counts and confidence statistics.
func Summarize(results []sentiment.Result) Summary {
	sum := Summary{
		Total:  len(results),
		Counts: make(map[sentiment.Label]int, 3),
	}
	if len(results) == 0 {
		return sum
	}

	scores := make([]float64, len(results))
	sum.MinConfidence, sum.MaxConfidence = results[0].Score, results[0].Score
	for i, r := range results {
		sum.Counts[r.Label]++
		scores[i] = r.Score
		sum.MinConfidence = min(sum.MinConfidence, r.Score)
		sum.MaxConfidence = max(sum.MaxConfidence, r.Score)
	}

	if len(scores) > 1 {
		sum.MeanConfidence, sum.StdConfidence = stat.MeanStdDev(scores, nil)
	} else {
		sum.MeanConfidence = stat.Mean(scores, nil)
	}
	return sum
}

// Share returns the fraction of results with label.
func (s Summary) Share(label sentiment.Label) float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Counts[label]) / float64(s.Total)
}

// String renders the summary on one line.
func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d texts:", s.Total)
	for _, l := range []sentiment.Label{sentiment.Positive, sentiment.Negative, sentiment.Neutral} {
		fmt.Fprintf(&b, " %s=%d (%.1f%%)", l, s.Counts[l], 100*s.Share(l))
	}
	fmt.Fprintf(&b, " confidence mean=%.3f sd=%.3f", s.MeanConfidence, s.StdConfidence)
	return b.String()
}
