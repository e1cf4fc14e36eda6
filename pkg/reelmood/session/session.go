package session

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/cognicore/reelmood/pkg/reelmood/intent"
	"github.com/cognicore/reelmood/pkg/reelmood/sentiment"
)

const (
	// AnalysisCapacity bounds the analysis history; the oldest entry is evicted first.
	AnalysisCapacity = 10
	// DisplayLength is the number of characters of analysed text kept for display.
	DisplayLength = 100
)

// ChatTurn is one user/bot exchange. Turns are never mutated after append.
type ChatTurn struct {
	ID        string            `json:"id"`
	UserText  string            `json:"user_text"`
	BotText   string            `json:"bot_text"`
	Intent    intent.Intent     `json:"intent"`
	Sentiment *sentiment.Result `json:"sentiment,omitempty"`
	At        time.Time         `json:"at"`
}

// AnalysisTurn is one sentiment analysis kept for display.
type AnalysisTurn struct {
	ID    string          `json:"id"`
	Text  string          `json:"text"`
	Label sentiment.Label `json:"label"`
	Score float64         `json:"score"`
	At    time.Time       `json:"at"`
}

// Session is the per-user conversation and analysis history. All methods are
// safe for concurrent use and preserve append order.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu       sync.Mutex
	chat     []ChatTurn
	analysis []AnalysisTurn
	entropy  *ulid.MonotonicEntropy
	now      func() time.Time
}

// New creates an empty session with a random ID.
func New() *Session {
	return newSession(time.Now)
}

func newSession(now func() time.Time) *Session {
	return &Session{
		ID:        uuid.New(),
		CreatedAt: now(),
		entropy:   ulid.Monotonic(rand.Reader, 0),
		now:       now,
	}
}

// AppendChat stores a chat turn, filling in ID and timestamp, and returns the
// stored turn.
func (s *Session) AppendChat(turn ChatTurn) ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn.ID, turn.At = s.stamp(turn.At)
	if turn.Sentiment != nil {
		res := *turn.Sentiment
		turn.Sentiment = &res
	}
	s.chat = append(s.chat, turn)
	return turn
}

// AppendAnalysis stores an analysis result, truncating its text for display.
// When the history is full the oldest entry is dropped.
func (s *Session) AppendAnalysis(turn AnalysisTurn) AnalysisTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	turn.ID, turn.At = s.stamp(turn.At)
	turn.Text = DisplayText(turn.Text)
	if len(s.analysis) >= AnalysisCapacity {
		s.analysis = append(s.analysis[:0], s.analysis[len(s.analysis)-AnalysisCapacity+1:]...)
	}
	s.analysis = append(s.analysis, turn)
	return turn
}

// ClearChat removes all chat turns.
func (s *Session) ClearChat() {
	s.mu.Lock()
	s.chat = nil
	s.mu.Unlock()
}

// ClearAnalysis removes all analysis entries.
func (s *Session) ClearAnalysis() {
	s.mu.Lock()
	s.analysis = nil
	s.mu.Unlock()
}

// ListChat returns a copy of the chat turns, oldest first.
func (s *Session) ListChat() []ChatTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]ChatTurn, len(s.chat))
	copy(out, s.chat)
	return out
}

// ListAnalysis returns a copy of the analysis entries, oldest first.
func (s *Session) ListAnalysis() []AnalysisTurn {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]AnalysisTurn, len(s.analysis))
	copy(out, s.analysis)
	return out
}

// stamp returns a fresh monotonic ID and the turn time. Caller holds s.mu.
func (s *Session) stamp(at time.Time) (string, time.Time) {
	if at.IsZero() {
		at = s.now()
	}
	id, err := ulid.New(ulid.Timestamp(at), s.entropy)
	if err != nil {
		// at is outside the ULID time range; the turn keeps it but the ID
		// is taken from the clock.
		id, err = ulid.New(ulid.Timestamp(s.now()), s.entropy)
		if err != nil {
			id = ulid.Make()
		}
	}
	return id.String(), at
}

// DisplayText truncates text to DisplayLength characters, marking the cut
// with "...".
func DisplayText(text string) string {
	runes := []rune(text)
	if len(runes) <= DisplayLength {
		return text
	}
	return string(runes[:DisplayLength]) + "..."
}
