package sentiment

import (
	"math"
	"strings"
	"unicode"
)

// Heuristic constants for the lexicon scorer.
const (
	capsIncrement    = 0.733
	negationScalar   = -0.74
	exclaimIncrement = 0.292
	maxExclaims      = 4
	questionSmall    = 0.18
	questionLarge    = 0.96
	maxQuestions     = 3
	normalizeAlpha   = 15.0
	negationWindow   = 3
	butBeforeWeight  = 0.5
	butAfterWeight   = 1.5
)

// Scores is the native output of a lexicon scorer. Compound is in [-1, 1];
// Neg, Neu and Pos are proportions summing to 1 (or all 0).
type Scores struct {
	Neg      float64
	Neu      float64
	Pos      float64
	Compound float64
}

// Scorer computes polarity scores from text.
type Scorer interface {
	PolarityScores(text string) Scores
}

// Analyzer is the lexicon-and-rules polarity scorer.
type Analyzer struct {
	lexicon *Lexicon
}

// NewAnalyzer creates an analyzer over lex. A nil lexicon selects DefaultLexicon.
func NewAnalyzer(lex *Lexicon) *Analyzer {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Analyzer{lexicon: lex}
}

// PolarityScores computes the compound and proportional scores of text.
func (a *Analyzer) PolarityScores(text string) Scores {
	words := splitWords(text)
	if len(words) == 0 {
		return Scores{}
	}

	lower := make([]string, len(words))
	for i, w := range words {
		lower[i] = strings.ToLower(w)
	}
	capDiff := hasCapDifferential(words)

	valences := make([]float64, len(words))
	for i := range words {
		valences[i] = a.wordValence(words, lower, i, capDiff)
	}
	applyButRule(lower, valences)

	return scoreValences(valences, punctuationEmphasis(text))
}

// wordValence returns the adjusted valence of the word at position i.
func (a *Analyzer) wordValence(words, lower []string, i int, capDiff bool) float64 {
	word := lower[i]
	if a.lexicon.Booster(word) != 0 {
		return 0
	}
	if word == "kind" && i+1 < len(lower) && lower[i+1] == "of" {
		return 0
	}

	valence := a.lexicon.Valence(word)
	if valence == 0 {
		return 0
	}

	if capDiff && isUpper(words[i]) {
		if valence > 0 {
			valence += capsIncrement
		} else {
			valence -= capsIncrement
		}
	}

	for back := 1; back <= negationWindow; back++ {
		j := i - back
		if j < 0 {
			break
		}
		if !a.lexicon.Has(lower[j]) {
			boost := a.boost(words[j], lower[j], valence, capDiff)
			switch back {
			case 2:
				boost *= 0.95
			case 3:
				boost *= 0.9
			}
			valence += boost
		}
		if a.lexicon.IsNegation(lower[j]) {
			valence *= negationScalar
		}
	}

	return valence
}

// boost returns the increment a booster word contributes to valence.
func (a *Analyzer) boost(word, lowerWord string, valence float64, capDiff bool) float64 {
	scalar := a.lexicon.Booster(lowerWord)
	if scalar == 0 {
		return 0
	}
	if valence < 0 {
		scalar = -scalar
	}
	if capDiff && isUpper(word) {
		if valence > 0 {
			scalar += capsIncrement
		} else {
			scalar -= capsIncrement
		}
	}
	return scalar
}

// applyButRule damps sentiment before "but" and amplifies it after.
func applyButRule(lower []string, valences []float64) {
	idx := -1
	for i, w := range lower {
		if w == "but" {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	for i := range valences {
		switch {
		case i < idx:
			valences[i] *= butBeforeWeight
		case i > idx:
			valences[i] *= butAfterWeight
		}
	}
}

// punctuationEmphasis returns the amplifier from '!' and '?' marks.
func punctuationEmphasis(text string) float64 {
	exclaims := strings.Count(text, "!")
	if exclaims > maxExclaims {
		exclaims = maxExclaims
	}
	emphasis := float64(exclaims) * exclaimIncrement

	questions := strings.Count(text, "?")
	if questions > 1 {
		if questions <= maxQuestions {
			emphasis += float64(questions) * questionSmall
		} else {
			emphasis += questionLarge
		}
	}
	return emphasis
}

func scoreValences(valences []float64, emphasis float64) Scores {
	var sum, pos, neg float64
	neu := 0
	for _, v := range valences {
		sum += v
		switch {
		case v > 0:
			pos += v + 1
		case v < 0:
			neg += v - 1
		default:
			neu++
		}
	}
	if pos == 0 && neg == 0 {
		return Scores{Neu: 1}
	}

	if sum > 0 {
		sum += emphasis
	} else if sum < 0 {
		sum -= emphasis
	}
	if pos > math.Abs(neg) {
		pos += emphasis
	} else if pos < math.Abs(neg) {
		neg -= emphasis
	}

	total := pos + math.Abs(neg) + float64(neu)
	return Scores{
		Neg:      math.Abs(neg / total),
		Neu:      float64(neu) / total,
		Pos:      pos / total,
		Compound: normalize(sum),
	}
}

// normalize squashes an unbounded sum into [-1, 1].
func normalize(sum float64) float64 {
	n := sum / math.Sqrt(sum*sum+normalizeAlpha)
	return math.Max(-1, math.Min(1, n))
}

// splitWords splits on whitespace and strips surrounding punctuation.
// Inner apostrophes are kept so contractions like "isn't" survive.
func splitWords(text string) []string {
	fields := strings.Fields(apostrophes.Replace(text))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return unicode.IsPunct(r) || unicode.IsSymbol(r)
		})
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

var apostrophes = strings.NewReplacer("\u2019", "'", "\u2018", "'")

// hasCapDifferential reports whether some, but not all, words are upper-case.
func hasCapDifferential(words []string) bool {
	upper := 0
	for _, w := range words {
		if isUpper(w) {
			upper++
		}
	}
	return upper > 0 && upper < len(words)
}

// isUpper reports whether w has at least two letters and all of them are upper-case.
func isUpper(w string) bool {
	letters := 0
	for _, r := range w {
		if unicode.IsLetter(r) {
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		}
	}
	return letters > 1
}
