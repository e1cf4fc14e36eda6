package config

import (
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cognicore/reelmood/internal/llm"
	"github.com/cognicore/reelmood/pkg/reelmood/intent"
	"github.com/cognicore/reelmood/pkg/reelmood/internalerr"
	"github.com/cognicore/reelmood/pkg/reelmood/kb"
	"github.com/cognicore/reelmood/pkg/reelmood/respond"
	"github.com/cognicore/reelmood/pkg/reelmood/sentiment"
)

// Loader constructs components from a Config
type Loader struct {
	Config     *Config
	Logger     *zap.Logger
	HTTPClient *http.Client // optional, used by the classifier and dialogue clients
}

// Components holds all constructed components
type Components struct {
	KnowledgeBase *kb.KnowledgeBase
	Matcher       *intent.Matcher
	Generator     *respond.Generator
	Responder     respond.Responder

	// Normalizer is nil when sentiment is disabled; SentimentErr says why.
	Normalizer   *sentiment.Normalizer
	SentimentErr error

	// DialogueErr is set when dialogue mode was requested but could not start.
	DialogueErr error
}

// Load builds the components. Only a broken knowledge base is fatal: a
// sentiment backend that cannot start disables sentiment, and a dialogue
// backend that cannot start falls back to rule-based replies.
func (l *Loader) Load() (*Components, error) {
	cfg := l.Config
	if cfg == nil {
		cfg = Default()
	}
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	comp := &Components{}

	// Knowledge base
	if cfg.KnowledgeBasePath != "" {
		base, err := kb.LoadFromYAML(cfg.KnowledgeBasePath)
		if err != nil {
			return nil, fmt.Errorf("load knowledge base: %w", err)
		}
		comp.KnowledgeBase = base
	} else {
		comp.KnowledgeBase = kb.Default()
	}

	comp.Matcher = intent.NewDefaultMatcher(comp.KnowledgeBase)
	comp.Generator = respond.NewGenerator(comp.KnowledgeBase)
	comp.Responder = respond.NewRuleResponder(comp.Generator)

	// Sentiment
	if !cfg.Sentiment.Disabled {
		n, err := l.buildNormalizer(cfg.Sentiment)
		if err != nil {
			comp.SentimentErr = fmt.Errorf("%w: %v", internalerr.ErrBackendUnavailable, err)
			logger.Warn("Sentiment disabled", zap.Error(err))
		} else {
			comp.Normalizer = n
		}
	} else {
		comp.SentimentErr = fmt.Errorf("%w: disabled by configuration", internalerr.ErrBackendUnavailable)
	}

	// Dialogue
	if cfg.Chat.Mode == ChatDialogue {
		d := cfg.Chat.Dialogue
		dialogue, err := llm.NewDialogue(llm.DialogueConfig{
			Provider:     d.Provider,
			Endpoint:     d.Endpoint,
			Model:        d.Model,
			APIKey:       d.APIKey,
			SystemPrompt: d.SystemPrompt,
			MaxTokens:    d.MaxTokens,
			HTTPClient:   l.HTTPClient,
		}, logger)
		if err != nil {
			comp.DialogueErr = fmt.Errorf("%w: %v", internalerr.ErrBackendUnavailable, err)
			logger.Warn("Dialogue backend unavailable, using rule-based replies", zap.Error(err))
		} else {
			dr := respond.NewDialogueResponder(dialogue, comp.Generator, logger)
			dr.SetHistoryLimit(d.HistoryLimit)
			comp.Responder = dr
		}
	}

	return comp, nil
}

func (l *Loader) buildNormalizer(cfg SentimentConfig) (*sentiment.Normalizer, error) {
	var backend sentiment.Backend

	switch cfg.Backend {
	case BackendClassifier:
		if cfg.ClassifierURL == "" {
			return nil, fmt.Errorf("classifier_url is required for the classifier backend")
		}
		client := l.HTTPClient
		if client == nil && cfg.TimeoutSeconds > 0 {
			client = &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
		}
		backend = sentiment.NewClassifierBackend(&llm.Classifier{
			Endpoint:   cfg.ClassifierURL,
			APIKey:     cfg.ClassifierKey,
			HTTPClient: client,
		})
	default:
		// A custom lexicon switches to the in-tree analyzer, which merges it
		// over the built-in word list. Otherwise VADER scores.
		var scorer sentiment.Scorer
		if cfg.LexiconPath != "" {
			lex, err := sentiment.LoadLexiconYAML(cfg.LexiconPath)
			if err != nil {
				return nil, err
			}
			scorer = sentiment.NewAnalyzer(lex)
		}
		backend = sentiment.NewLexiconBackend(scorer)
	}

	return sentiment.NewNormalizer(backend, cfg.MaxLength)
}
