package sentiment

import (
	"context"
	"fmt"
)

// LexiconBackend adapts a Scorer's compound polarity to a Result.
type LexiconBackend struct {
	scorer Scorer
}

// NewLexiconBackend wraps scorer. A nil scorer selects VADER.
func NewLexiconBackend(scorer Scorer) *LexiconBackend {
	if scorer == nil {
		scorer = NewVaderScorer()
	}
	return &LexiconBackend{scorer: scorer}
}

// Name implements Backend.
func (b *LexiconBackend) Name() string { return "lexicon" }

// Normalize implements Backend.
func (b *LexiconBackend) Normalize(_ context.Context, text string) (Result, error) {
	return FromCompound(b.scorer.PolarityScores(text).Compound), nil
}

// Prediction is the native output of a classifier: a binary label and the
// classifier's own confidence.
type Prediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classifier is an external pretrained classification model or service.
type Classifier interface {
	Classify(ctx context.Context, text string) (Prediction, error)
}

// ClassifierBackend passes a Classifier's label and confidence through.
type ClassifierBackend struct {
	classifier Classifier
}

// NewClassifierBackend wraps classifier.
func NewClassifierBackend(classifier Classifier) *ClassifierBackend {
	return &ClassifierBackend{classifier: classifier}
}

// Name implements Backend.
func (b *ClassifierBackend) Name() string { return "classifier" }

// Normalize implements Backend.
func (b *ClassifierBackend) Normalize(ctx context.Context, text string) (Result, error) {
	pred, err := b.classifier.Classify(ctx, text)
	if err != nil {
		return Result{}, fmt.Errorf("classify: %w", err)
	}
	label, err := ParseLabel(pred.Label)
	if err != nil {
		return Result{}, err
	}
	if !(pred.Score >= 0 && pred.Score <= 1) {
		return Result{}, fmt.Errorf("classifier score %.4f outside [0,1]", pred.Score)
	}
	return Result{Label: label, Score: pred.Score}, nil
}
