package kb

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/reelmood/pkg/reelmood/internalerr"
)

// EntityKind names the closed list an entity was drawn from.
type EntityKind string

const (
	GenreEntity    EntityKind = "genre"
	DirectorEntity EntityKind = "director"
	ActorEntity    EntityKind = "actor"
)

// Entity is a knowledge-base value found in an utterance.
type Entity struct {
	Kind  EntityKind
	Value string
}

// Genre is one genre with its aliases and canonical titles. The first title is
// the best in the genre.
type Genre struct {
	Name    string   `yaml:"name"`
	Aliases []string `yaml:"aliases"`
	Titles  []string `yaml:"titles"`
}

// KnowledgeBase holds the static movie tables. It has no mutation API and is
// safe to share between goroutines.
type KnowledgeBase struct {
	genres    []genreEntry
	byName    map[string]int
	directors []string
	actors    []string
}

type genreEntry struct {
	name    string
	titles  []string
	pattern *regexp.Regexp
}

// New builds a knowledge base. Genre order is significant: FindGenre reports
// the first genre in this order that the text mentions.
func New(genres []Genre, directors, actors []string) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{
		byName:    make(map[string]int, len(genres)),
		directors: cleanNames(directors),
		actors:    cleanNames(actors),
	}

	for _, g := range genres {
		name := strings.ToLower(strings.TrimSpace(g.Name))
		if name == "" {
			return nil, fmt.Errorf("genre without name: %w", internalerr.ErrInvalidConfig)
		}
		if _, dup := kb.byName[name]; dup {
			return nil, fmt.Errorf("duplicate genre %q: %w", name, internalerr.ErrInvalidConfig)
		}
		titles := cleanNames(g.Titles)
		if len(titles) == 0 {
			return nil, fmt.Errorf("genre %q has no titles: %w", name, internalerr.ErrInvalidConfig)
		}

		kb.byName[name] = len(kb.genres)
		kb.genres = append(kb.genres, genreEntry{
			name:    name,
			titles:  titles,
			pattern: aliasPattern(name, g.Aliases),
		})
	}

	return kb, nil
}

// Default returns the built-in knowledge base.
func Default() *KnowledgeBase {
	kb, err := New(defaultGenres, defaultDirectors, defaultActors)
	if err != nil {
		panic(err)
	}
	return kb
}

// LoadFromYAML loads a knowledge base from a YAML file.
//
// Expected format:
//
//	genres:
//	  - name: action
//	    aliases: [action]
//	    titles: [Die Hard, John Wick]
//	directors: [Christopher Nolan]
//	actors: [Tom Hanks]
func LoadFromYAML(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file struct {
		Genres    []Genre  `yaml:"genres"`
		Directors []string `yaml:"directors"`
		Actors    []string `yaml:"actors"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, err
	}

	return New(file.Genres, file.Directors, file.Actors)
}

// Genres returns the genre names in order.
func (kb *KnowledgeBase) Genres() []string {
	names := make([]string, len(kb.genres))
	for i, g := range kb.genres {
		names[i] = g.name
	}
	return names
}

// Directors returns the director names in order.
func (kb *KnowledgeBase) Directors() []string {
	return append([]string(nil), kb.directors...)
}

// Actors returns the actor names in order.
func (kb *KnowledgeBase) Actors() []string {
	return append([]string(nil), kb.actors...)
}

// MoviesForGenre returns the ordered titles of genre, or nil when the genre is
// unknown. Matching is case-insensitive and accepts aliases ("science fiction").
func (kb *KnowledgeBase) MoviesForGenre(genre string) []string {
	name := strings.ToLower(strings.TrimSpace(genre))
	if name == "" {
		return nil
	}
	idx, ok := kb.byName[name]
	if !ok {
		found, hit := kb.FindGenre(name)
		if !hit {
			return nil
		}
		idx = kb.byName[found]
	}
	return append([]string(nil), kb.genres[idx].titles...)
}

// BestInGenre returns the designated best title of genre.
func (kb *KnowledgeBase) BestInGenre(genre string) (string, bool) {
	titles := kb.MoviesForGenre(genre)
	if len(titles) == 0 {
		return "", false
	}
	return titles[0], true
}

// IsDirector reports whether name and a listed director contain one another,
// ignoring case. "nolan" and "I love Christopher Nolan" both match.
func (kb *KnowledgeBase) IsDirector(name string) bool {
	return containsName(kb.directors, name)
}

// IsActor is IsDirector for the actor list.
func (kb *KnowledgeBase) IsActor(name string) bool {
	return containsName(kb.actors, name)
}

// FindGenre returns the first genre, in knowledge-base order, mentioned in text.
func (kb *KnowledgeBase) FindGenre(text string) (string, bool) {
	for _, g := range kb.genres {
		if g.pattern.MatchString(text) {
			return g.name, true
		}
	}
	return "", false
}

// FindDirector returns the first listed director whose full name appears in text.
func (kb *KnowledgeBase) FindDirector(text string) (string, bool) {
	return findName(kb.directors, text)
}

// FindActor returns the first listed actor whose full name appears in text.
func (kb *KnowledgeBase) FindActor(text string) (string, bool) {
	return findName(kb.actors, text)
}

// ExtractEntities finds the first genre, director and actor mentioned in text.
func (kb *KnowledgeBase) ExtractEntities(text string) []Entity {
	var entities []Entity
	if g, ok := kb.FindGenre(text); ok {
		entities = append(entities, Entity{Kind: GenreEntity, Value: g})
	}
	if d, ok := kb.FindDirector(text); ok {
		entities = append(entities, Entity{Kind: DirectorEntity, Value: d})
	}
	if a, ok := kb.FindActor(text); ok {
		entities = append(entities, Entity{Kind: ActorEntity, Value: a})
	}
	return entities
}

func findName(names []string, text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, n := range names {
		if strings.Contains(lower, strings.ToLower(n)) {
			return n, true
		}
	}
	return "", false
}

func containsName(names []string, name string) bool {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return false
	}
	for _, n := range names {
		ln := strings.ToLower(n)
		if strings.Contains(ln, name) || strings.Contains(name, ln) {
			return true
		}
	}
	return false
}

// aliasPattern compiles a case-insensitive whole-word pattern over the genre
// name and its aliases.
func aliasPattern(name string, aliases []string) *regexp.Regexp {
	alts := []string{regexp.QuoteMeta(name)}
	for _, a := range aliases {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" && a != name {
			alts = append(alts, regexp.QuoteMeta(a))
		}
	}
	return regexp.MustCompile(`(?i)\b(?:` + strings.Join(alts, "|") + `)\b`)
}

func cleanNames(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
