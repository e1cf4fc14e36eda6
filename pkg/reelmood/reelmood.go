package reelmood

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/reelmood/internal/logging"
	"github.com/cognicore/reelmood/pkg/reelmood/config"
	"github.com/cognicore/reelmood/pkg/reelmood/intent"
	"github.com/cognicore/reelmood/pkg/reelmood/internalerr"
	"github.com/cognicore/reelmood/pkg/reelmood/respond"
	"github.com/cognicore/reelmood/pkg/reelmood/sentiment"
	"github.com/cognicore/reelmood/pkg/reelmood/session"
)

// Engine is the movie chat and sentiment facade
type Engine struct {
	matcher      *intent.Matcher
	responder    respond.Responder
	normalizer   *sentiment.Normalizer
	sentimentErr error
	annotate     bool
	logger       *zap.Logger
}

// Options configures an Engine instance
type Options struct {
	Matcher   *intent.Matcher
	Responder respond.Responder

	// Normalizer may be nil, in which case Analyze reports SentimentErr.
	Normalizer   *sentiment.Normalizer
	SentimentErr error

	// AnnotateChat attaches the sentiment of the user text to each chat turn.
	AnnotateChat bool
	Logger       *zap.Logger
}

// New creates an Engine with the given dependencies. Missing matcher and
// responder fall back to the built-in rule tables.
func New(opts Options) *Engine {
	e := &Engine{
		matcher:      opts.Matcher,
		responder:    opts.Responder,
		normalizer:   opts.Normalizer,
		sentimentErr: opts.SentimentErr,
		annotate:     opts.AnnotateChat,
		logger:       opts.Logger,
	}
	if e.matcher == nil {
		e.matcher = intent.NewDefaultMatcher(nil)
	}
	if e.responder == nil {
		e.responder = respond.NewRuleResponder(nil)
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.normalizer == nil && e.sentimentErr == nil {
		e.sentimentErr = fmt.Errorf("%w: no sentiment backend configured", internalerr.ErrBackendUnavailable)
	}
	return e
}

// FromComponents creates an Engine over loaded components.
func FromComponents(comp *config.Components, annotate bool, logger *zap.Logger) *Engine {
	return New(Options{
		Matcher:      comp.Matcher,
		Responder:    comp.Responder,
		Normalizer:   comp.Normalizer,
		SentimentErr: comp.SentimentErr,
		AnnotateChat: annotate,
		Logger:       logger,
	})
}

// SentimentErr reports why sentiment analysis is unavailable, or nil.
func (e *Engine) SentimentErr() error {
	if e.normalizer != nil {
		return nil
	}
	return e.sentimentErr
}

// Sentiment scores text without touching any session.
func (e *Engine) Sentiment(ctx context.Context, text string) (sentiment.Result, error) {
	if strings.TrimSpace(text) == "" {
		return sentiment.Result{}, fmt.Errorf("empty text: %w", internalerr.ErrInvalidInput)
	}
	if e.normalizer == nil {
		return sentiment.Result{}, e.sentimentErr
	}
	return e.normalizer.Normalize(ctx, e.normalizer.Truncate(text))
}

// Analyze scores text and records the result in the session's analysis
// history.
func (e *Engine) Analyze(ctx context.Context, sess *session.Session, text string) (session.AnalysisTurn, error) {
	res, err := e.Sentiment(ctx, text)
	if err != nil {
		return session.AnalysisTurn{}, err
	}

	turn := sess.AppendAnalysis(session.AnalysisTurn{
		Text:  text,
		Label: res.Label,
		Score: res.Score,
	})
	e.logger.Debug("Analyzed text",
		zap.String("session", sess.ID.String()),
		zap.String("text", logging.TruncateString(text, 80)),
		zap.String("label", string(res.Label)),
		zap.Float64("score", res.Score))
	return turn, nil
}

// Chat answers one user message and records the exchange in the session.
func (e *Engine) Chat(ctx context.Context, sess *session.Session, text string) (session.ChatTurn, error) {
	if strings.TrimSpace(text) == "" {
		return session.ChatTurn{}, fmt.Errorf("empty message: %w", internalerr.ErrInvalidInput)
	}

	in := e.matcher.Match(text)
	reply := e.responder.Respond(ctx, respond.Request{
		Intent:    in,
		Utterance: text,
		History:   history(sess.ListChat()),
	})

	turn := session.ChatTurn{
		UserText: text,
		BotText:  reply,
		Intent:   in,
	}
	if e.annotate && e.normalizer != nil {
		res, err := e.normalizer.Normalize(ctx, e.normalizer.Truncate(text))
		if err != nil {
			// The reply stands without annotation.
			e.logger.Warn("Chat sentiment failed", zap.Error(err))
		} else {
			turn.Sentiment = &res
		}
	}

	stored := sess.AppendChat(turn)
	e.logger.Debug("Chat turn",
		zap.String("session", sess.ID.String()),
		zap.String("intent", string(in)))
	return stored, nil
}

func history(turns []session.ChatTurn) []respond.Exchange {
	if len(turns) == 0 {
		return nil
	}
	out := make([]respond.Exchange, len(turns))
	for i, t := range turns {
		out[i] = respond.Exchange{User: t.UserText, Bot: t.BotText}
	}
	return out
}
