package respond

import (
	"fmt"
	"math/rand"

	"github.com/cognicore/reelmood/pkg/reelmood/intent"
	"github.com/cognicore/reelmood/pkg/reelmood/kb"
)

// Source supplies the uniform random choices behind reply selection.
type Source interface {
	// IntN returns a value in [0, n).
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.Intn(n) }

// Entity reply templates.
const (
	recommendTemplate = "If you're in the mood for %s, you should watch %s. It's a great pick!"
	bestTemplate      = "The best %s movie? I'd have to say %s."
	directorTemplate  = "%s is a brilliant director! Their films are always worth watching."
	actorTemplate     = "%s is a fantastic actor. I always enjoy their performances!"
)

// Generator selects replies for matched intents using the knowledge base and
// fixed reply pools.
type Generator struct {
	base  *kb.KnowledgeBase
	pools map[intent.Intent][]string
	rng   Source
}

// Option configures a Generator.
type Option func(*Generator)

// WithSource replaces the random source. Tests use it to make selection
// deterministic.
func WithSource(src Source) Option {
	return func(g *Generator) {
		if src != nil {
			g.rng = src
		}
	}
}

// WithPool replaces the reply pool for one intent. Empty pools are ignored.
func WithPool(in intent.Intent, replies []string) Option {
	return func(g *Generator) {
		if len(replies) > 0 {
			g.pools[in] = append([]string(nil), replies...)
		}
	}
}

// NewGenerator creates a generator over base. A nil base selects kb.Default.
func NewGenerator(base *kb.KnowledgeBase, opts ...Option) *Generator {
	if base == nil {
		base = kb.Default()
	}
	g := &Generator{
		base:  base,
		pools: make(map[intent.Intent][]string, len(defaultPools)),
		rng:   globalSource{},
	}
	for in, pool := range defaultPools {
		g.pools[in] = pool
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Respond returns a non-empty reply for the intent matched on utterance.
func (g *Generator) Respond(in intent.Intent, utterance string) string {
	switch in {
	case intent.Recommend:
		if genre, ok := g.base.FindGenre(utterance); ok {
			titles := g.base.MoviesForGenre(genre)
			return fmt.Sprintf(recommendTemplate, genre, titles[g.rng.IntN(len(titles))])
		}
	case intent.Best:
		if genre, ok := g.base.FindGenre(utterance); ok {
			best, _ := g.base.BestInGenre(genre)
			return fmt.Sprintf(bestTemplate, genre, best)
		}
	case intent.Director:
		if name, ok := g.base.FindDirector(utterance); ok {
			return fmt.Sprintf(directorTemplate, name)
		}
	case intent.Actor:
		if name, ok := g.base.FindActor(utterance); ok {
			return fmt.Sprintf(actorTemplate, name)
		}
	}
	return g.pick(in)
}

func (g *Generator) pick(in intent.Intent) string {
	pool, ok := g.pools[in]
	if !ok {
		pool = g.pools[intent.Default]
	}
	return pool[g.rng.IntN(len(pool))]
}

var defaultPools = map[intent.Intent][]string{
	intent.Greeting: {
		"Hello! Want to talk about movies?",
		"Hi there! Seen anything good lately?",
		"Hey! I'm always happy to chat about films.",
		"Greetings, fellow movie fan!",
	},
	intent.HowAreYou: {
		"I'm doing great, thanks for asking! Ready to talk movies?",
		"Pretty good! I just finished rewatching a classic.",
		"I'm well. What have you been watching?",
	},
	intent.Thank: {
		"You're welcome!",
		"Happy to help. Enjoy the movie!",
		"Anytime! Let me know how you like it.",
	},
	intent.Bye: {
		"Goodbye! Enjoy your next movie.",
		"See you later! Happy watching.",
		"Bye! Come back for more recommendations.",
	},
	intent.Recommend: {
		"I'd be happy to recommend something. What genre are you in the mood for?",
		"Sure! Do you prefer action, comedy, drama or something else?",
		"Tell me a genre you like and I'll suggest a movie.",
	},
	intent.Opinion: {
		"I think it's a really interesting film. What did you think of it?",
		"It has its fans and its critics. I enjoyed it!",
		"Movies are so personal. What did you like about it?",
		"I have a soft spot for that one.",
	},
	intent.Director: {
		"There are so many great directors. Who's your favorite?",
		"Directors shape everything about a film. Which one do you have in mind?",
		"I love talking about directors! Tell me who you're thinking of.",
	},
	intent.Actor: {
		"A great performance can carry a whole movie. Who's your favorite actor?",
		"There are so many talented actors. Which one do you like?",
		"Actors bring the story to life. Who are you thinking of?",
	},
	intent.Best: {
		"The best movie is a matter of taste. Which genre should I pick from?",
		"That's a tough call! Tell me a genre and I'll name the best one.",
		"Everyone has a different favorite. What genre do you like?",
	},
	intent.Worst: {
		"I try not to dwell on bad movies, but some are so bad they're fun!",
		"Every movie has an audience somewhere.",
		"Let's talk about the good ones instead!",
	},
	intent.Default: {
		"Interesting! Tell me more.",
		"I'm not sure I follow. Want a movie recommendation?",
		"Let's talk about movies! What genre do you like?",
		"Hmm, I'm best at chatting about films. Ask me for a recommendation!",
	},
}
