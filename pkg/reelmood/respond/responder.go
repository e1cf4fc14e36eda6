package respond

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/reelmood/pkg/reelmood/intent"
)

// DefaultHistoryLimit is the number of prior exchanges handed to a dialogue
// backend.
const DefaultHistoryLimit = 5

// Exchange is one prior user/bot pair of a conversation.
type Exchange struct {
	User string
	Bot  string
}

// Request carries everything a Responder may use to produce a reply.
type Request struct {
	Intent    intent.Intent
	Utterance string
	History   []Exchange
}

// Responder produces the bot reply for a chat turn. Implementations never fail
// and always return non-empty text.
type Responder interface {
	Respond(ctx context.Context, req Request) string
}

// RuleResponder adapts a Generator to the Responder interface.
type RuleResponder struct {
	gen *Generator
}

// NewRuleResponder wraps gen. A nil gen selects NewGenerator(nil).
func NewRuleResponder(gen *Generator) *RuleResponder {
	if gen == nil {
		gen = NewGenerator(nil)
	}
	return &RuleResponder{gen: gen}
}

// Respond implements Responder.
func (r *RuleResponder) Respond(_ context.Context, req Request) string {
	return r.gen.Respond(req.Intent, req.Utterance)
}

// Dialogue is a generative dialogue model.
type Dialogue interface {
	Name() string
	Generate(ctx context.Context, prompt string, history []Exchange) (string, error)
}

// DialogueResponder asks a dialogue model for the reply and falls back to
// the rule-based generator when the model fails or returns nothing.
type DialogueResponder struct {
	dialogue     Dialogue
	fallback     *Generator
	historyLimit int
	logger       *zap.Logger
}

// NewDialogueResponder wraps dialogue. fallback and logger may be nil.
func NewDialogueResponder(dialogue Dialogue, fallback *Generator, logger *zap.Logger) *DialogueResponder {
	if fallback == nil {
		fallback = NewGenerator(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DialogueResponder{
		dialogue:     dialogue,
		fallback:     fallback,
		historyLimit: DefaultHistoryLimit,
		logger:       logger.Named("dialogue"),
	}
}

// SetHistoryLimit bounds how many prior exchanges are sent to the model.
// Zero sends none.
func (d *DialogueResponder) SetHistoryLimit(n int) {
	if n < 0 {
		n = 0
	}
	d.historyLimit = n
}

// Respond implements Responder.
func (d *DialogueResponder) Respond(ctx context.Context, req Request) string {
	history := req.History
	if len(history) > d.historyLimit {
		history = history[len(history)-d.historyLimit:]
	}

	reply, err := d.dialogue.Generate(ctx, req.Utterance, history)
	if err != nil {
		d.logger.Warn("Dialogue generation failed, using rule-based reply",
			zap.String("backend", d.dialogue.Name()),
			zap.Error(err))
		return d.fallback.Respond(req.Intent, req.Utterance)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		d.logger.Debug("Dialogue returned empty reply, using rule-based reply",
			zap.String("backend", d.dialogue.Name()))
		return d.fallback.Respond(req.Intent, req.Utterance)
	}
	return reply
}
