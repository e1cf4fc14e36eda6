package sentiment

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Booster increments applied to the word following an intensifier or dampener.
const (
	BoostIncrement = 0.293
	BoostDecrement = -0.293
)

// Lexicon holds word valences (roughly -4..4), booster strengths and negation
// words. It is built once and only read afterwards.
type Lexicon struct {
	words     map[string]float64
	boosters  map[string]float64
	negations map[string]struct{}
}

// lexiconFile is the YAML layout accepted by LoadLexiconYAML.
//
//	words:
//	  superb: 3.1
//	boosters:
//	  mega: 0.293
//	negations: [aint]
type lexiconFile struct {
	Words     map[string]float64 `yaml:"words"`
	Boosters  map[string]float64 `yaml:"boosters"`
	Negations []string           `yaml:"negations"`
}

// NewLexicon creates an empty lexicon.
func NewLexicon() *Lexicon {
	return &Lexicon{
		words:     make(map[string]float64),
		boosters:  make(map[string]float64),
		negations: make(map[string]struct{}),
	}
}

// DefaultLexicon returns the built-in English lexicon.
func DefaultLexicon() *Lexicon {
	lex := NewLexicon()
	for w, v := range defaultWords {
		lex.words[w] = v
	}
	for _, w := range incrementWords {
		lex.boosters[w] = BoostIncrement
	}
	for _, w := range decrementWords {
		lex.boosters[w] = BoostDecrement
	}
	for _, w := range negationWords {
		lex.negations[w] = struct{}{}
	}
	return lex
}

// LoadLexiconYAML returns the default lexicon merged with the entries in path.
func LoadLexiconYAML(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}

	var file lexiconFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse lexicon: %w", err)
	}

	lex := DefaultLexicon()
	for w, v := range file.Words {
		lex.words[strings.ToLower(w)] = v
	}
	for w, v := range file.Boosters {
		lex.boosters[strings.ToLower(w)] = v
	}
	for _, w := range file.Negations {
		lex.negations[strings.ToLower(w)] = struct{}{}
	}
	return lex, nil
}

// Valence returns the valence of a lower-cased word, or 0.
func (l *Lexicon) Valence(word string) float64 {
	return l.words[word]
}

// Has reports whether word carries a valence.
func (l *Lexicon) Has(word string) bool {
	_, ok := l.words[word]
	return ok
}

// Booster returns the booster strength of word, or 0.
func (l *Lexicon) Booster(word string) float64 {
	return l.boosters[word]
}

// IsNegation reports whether word negates what follows it.
func (l *Lexicon) IsNegation(word string) bool {
	if _, ok := l.negations[word]; ok {
		return true
	}
	return strings.HasSuffix(word, "n't")
}

// Size returns the number of valence entries.
func (l *Lexicon) Size() int {
	return len(l.words)
}

var incrementWords = []string{
	"absolutely", "amazingly", "awfully", "completely", "considerably", "decidedly",
	"deeply", "enormously", "entirely", "especially", "exceptionally", "extremely",
	"fabulously", "fully", "greatly", "highly", "hugely", "incredibly", "intensely",
	"majorly", "more", "most", "particularly", "purely", "quite", "really",
	"remarkably", "so", "substantially", "thoroughly", "totally", "tremendously",
	"truly", "unbelievably", "utterly", "very",
}

var decrementWords = []string{
	"almost", "barely", "hardly", "kinda", "less", "little", "marginally",
	"occasionally", "partly", "scarcely", "slightly", "somewhat", "sorta",
}

var negationWords = []string{
	"aint", "arent", "cannot", "cant", "couldnt", "didnt", "doesnt", "dont", "hadnt",
	"hasnt", "havent", "isnt", "mightnt", "mustnt", "neither", "never", "no", "nobody",
	"none", "nope", "nor", "not", "nothing", "nowhere", "shouldnt", "wasnt", "werent",
	"without", "wont", "wouldnt",
}

var defaultWords = map[string]float64{
	// positive
	"amazing": 2.8, "amused": 2.1, "appreciate": 1.7, "awesome": 3.1, "beautiful": 2.9,
	"best": 3.2, "better": 1.9, "brilliant": 2.8, "captivating": 2.5, "charming": 2.8,
	"clever": 2.0, "cool": 1.3, "delight": 2.9, "delightful": 2.8, "enjoy": 2.2,
	"enjoyable": 1.9, "enjoyed": 2.3, "entertaining": 1.9, "epic": 2.1, "excellent": 3.2,
	"excited": 1.4, "exciting": 2.2, "fantastic": 2.6, "favorite": 2.0, "fine": 0.8,
	"fun": 2.3, "funny": 1.9, "glad": 2.0, "good": 1.9, "gorgeous": 3.0,
	"great": 3.1, "happy": 2.7, "hilarious": 1.7, "impressive": 2.3, "inspiring": 2.6,
	"interesting": 1.7, "like": 2.0, "liked": 1.8, "lovely": 2.8, "love": 3.2,
	"loved": 2.9, "magnificent": 3.4, "masterpiece": 3.1, "nice": 1.8, "ok": 0.9,
	"okay": 0.9, "outstanding": 3.0, "perfect": 2.7, "pleasant": 2.3, "powerful": 1.8,
	"recommend": 1.5, "stunning": 2.5, "superb": 3.1, "sweet": 2.0, "thank": 1.5,
	"thanks": 1.9, "thrilling": 2.3, "touching": 1.8, "win": 2.8, "wonderful": 2.7,
	"worth": 0.9, "wow": 2.8,
	// negative
	"angry": -2.3, "annoying": -1.8, "awful": -2.0, "bad": -2.5, "bland": -1.2,
	"boring": -1.3, "broken": -2.1, "confusing": -1.3, "crap": -1.6, "cringe": -1.9,
	"disappointed": -1.9, "disappointing": -2.2, "disappointment": -2.3, "dislike": -1.6,
	"dreadful": -2.5, "dull": -1.7, "fail": -2.5, "failed": -2.3, "garbage": -2.0,
	"hate": -2.7, "hated": -3.2, "horrible": -2.5, "lame": -1.8, "mediocre": -1.0,
	"mess": -1.5, "messy": -1.2, "miserable": -2.5, "nonsense": -1.7, "pathetic": -2.7,
	"painful": -1.9, "pointless": -1.9, "poor": -2.1, "sad": -2.1, "scary": -2.2,
	"silly": -0.9, "slow": -0.8, "stupid": -2.4, "terrible": -2.1, "tedious": -1.9,
	"ugly": -2.3, "unwatchable": -2.8, "upset": -1.6, "waste": -1.8, "wasted": -2.2,
	"weak": -1.9, "worse": -2.1, "worst": -3.1, "wrong": -2.1,
}
