package intent

import (
	"regexp"
	"strings"

	"github.com/cognicore/reelmood/pkg/reelmood/kb"
)

// Intent is the conversational purpose of an utterance
type Intent string

const (
	Greeting  Intent = "greeting"
	HowAreYou Intent = "how_are_you"
	Thank     Intent = "thank"
	Bye       Intent = "bye"
	Recommend Intent = "recommend"
	Opinion   Intent = "opinion"
	Director  Intent = "director"
	Actor     Intent = "actor"
	Best      Intent = "best"
	Worst     Intent = "worst"
	Default   Intent = "default"
)

// Priority lists the matched intents in evaluation order. Default is not
// listed; it is the result when nothing matches.
var Priority = []Intent{
	Greeting, HowAreYou, Thank, Bye, Recommend, Opinion, Director, Actor, Best, Worst,
}

// Rule pairs an intent with the pattern that selects it
type Rule struct {
	Intent  Intent
	Pattern *regexp.Regexp
}

// Match is the result of parsing an utterance
type Match struct {
	Intent   Intent
	Entities []kb.Entity
}

// Genre returns the genre entity, if any.
func (m Match) Genre() (string, bool) {
	return m.entity(kb.GenreEntity)
}

// Director returns the director entity, if any.
func (m Match) Director() (string, bool) {
	return m.entity(kb.DirectorEntity)
}

// Actor returns the actor entity, if any.
func (m Match) Actor() (string, bool) {
	return m.entity(kb.ActorEntity)
}

func (m Match) entity(kind kb.EntityKind) (string, bool) {
	for _, e := range m.Entities {
		if e.Kind == kind {
			return e.Value, true
		}
	}
	return "", false
}

// Matcher evaluates an ordered rule table. It is immutable after construction
// and safe for concurrent use.
type Matcher struct {
	rules []Rule
	base  *kb.KnowledgeBase
}

// NewMatcher creates a matcher over rules, evaluated in slice order. base is
// used for entity extraction in Parse and may be nil.
func NewMatcher(rules []Rule, base *kb.KnowledgeBase) *Matcher {
	return &Matcher{
		rules: append([]Rule(nil), rules...),
		base:  base,
	}
}

// NewDefaultMatcher creates a matcher with DefaultRules(base).
func NewDefaultMatcher(base *kb.KnowledgeBase) *Matcher {
	if base == nil {
		base = kb.Default()
	}
	return NewMatcher(DefaultRules(base), base)
}

// Match returns the intent of the first rule whose pattern matches the
// utterance, or Default.
func (m *Matcher) Match(utterance string) Intent {
	for _, r := range m.rules {
		if r.Pattern.MatchString(utterance) {
			return r.Intent
		}
	}
	return Default
}

// Parse matches the utterance and extracts knowledge-base entities from it
func (m *Matcher) Parse(utterance string) Match {
	match := Match{Intent: m.Match(utterance)}
	if m.base != nil {
		match.Entities = m.base.ExtractEntities(utterance)
	}
	return match
}

// Rules returns a copy of the rule table
func (m *Matcher) Rules() []Rule {
	return append([]Rule(nil), m.rules...)
}

var keywords = map[Intent][]string{
	Greeting:  {"hello", "hi", "hey", "greetings", "howdy", "good morning", "good afternoon", "good evening"},
	HowAreYou: {"how are you", "how are u", "how's it going", "how is it going", "how do you do", "how have you been"},
	Thank:     {"thanks", "thank you", "thank", "thx", "cheers"},
	Bye:       {"bye", "goodbye", "good night", "see you", "see ya", "farewell"},
	Recommend: {"recommend", "recommendation", "recommendations", "suggest", "suggestion", "suggestions", "what should i watch"},
	Opinion:   {"what do you think", "your opinion", "thoughts on", "do you like", "favorite", "favourite"},
	Director:  {"director", "directors", "directed", "filmmaker"},
	Actor:     {"actor", "actors", "actress", "actresses", "starring", "cast"},
	Best:      {"best", "greatest", "top rated"},
	Worst:     {"worst", "overrated", "awful"},
}

// DefaultRules returns the built-in rule table in priority order. The
// director and actor rules also fire on any name listed in base.
func DefaultRules(base *kb.KnowledgeBase) []Rule {
	rules := make([]Rule, 0, len(Priority))
	for _, in := range Priority {
		words := keywords[in]
		if base != nil {
			switch in {
			case Director:
				words = append(append([]string(nil), words...), base.Directors()...)
			case Actor:
				words = append(append([]string(nil), words...), base.Actors()...)
			}
		}
		rules = append(rules, Rule{Intent: in, Pattern: WordPattern(words...)})
	}
	return rules
}

// WordPattern compiles a case-insensitive pattern matching any of words as
// whole words.
func WordPattern(words ...string) *regexp.Regexp {
	alts := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.TrimSpace(w); w != "" {
			alts = append(alts, regexp.QuoteMeta(strings.ToLower(w)))
		}
	}
	if len(alts) == 0 {
		// matches nothing
		return regexp.MustCompile(`[^\x00-\x{10FFFF}]`)
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`)
}
