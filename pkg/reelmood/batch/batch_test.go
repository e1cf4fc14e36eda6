package batch

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/reelmood/pkg/reelmood/internalerr"
	"github.com/cognicore/reelmood/pkg/reelmood/sentiment"
)

func newNormalizer(t *testing.T, b sentiment.Backend, maxLen int) *sentiment.Normalizer {
	t.Helper()
	n, err := sentiment.NewNormalizer(b, maxLen)
	require.NoError(t, err)
	return n
}

// failingBackend fails on one specific text and records every input.
type failingBackend struct {
	failOn string
	seen   []string
}

func (f *failingBackend) Name() string { return "failing" }

func (f *failingBackend) Normalize(_ context.Context, text string) (sentiment.Result, error) {
	f.seen = append(f.seen, text)
	if text == f.failOn {
		return sentiment.Result{}, errors.New("backend exploded")
	}
	return sentiment.Result{Label: sentiment.Positive, Score: 0.9}, nil
}

func sampleTexts(n int) []string {
	base := []string{
		"This movie was absolutely fantastic!",
		"I'm so disappointed with this product.",
		"The movie starts at eight.",
		"Great acting<br /><br />but a terrible plot.",
		"Not bad at all",
	}
	texts := make([]string, n)
	for i := range texts {
		texts[i] = base[i%len(base)]
	}
	return texts
}

func TestRunChunkSizeInvariance(t *testing.T) {
	n := newNormalizer(t, sentiment.NewLexiconBackend(nil), 0)
	texts := sampleTexts(23)

	want, err := NewScorer(n, WithChunkSize(1)).Run(context.Background(), texts)
	require.NoError(t, err)
	require.Len(t, want, len(texts))

	for _, size := range []int{2, 7, 23, 100} {
		got, err := NewScorer(n, WithChunkSize(size)).Run(context.Background(), texts)
		require.NoError(t, err)
		assert.Equal(t, want, got, "chunk size %d", size)
	}
}

func TestRunProgress(t *testing.T) {
	n := newNormalizer(t, sentiment.NewLexiconBackend(nil), 0)

	var reports []Progress
	s := NewScorer(n, WithChunkSize(10), WithProgress(func(p Progress) { reports = append(reports, p) }))
	_, err := s.Run(context.Background(), sampleTexts(25))
	require.NoError(t, err)

	assert.Equal(t, []Progress{{10, 25}, {20, 25}, {25, 25}}, reports)
}

func TestRunAbortsOnFirstError(t *testing.T) {
	texts := []string{"one", "two", "three", "four"}
	backend := &failingBackend{failOn: "three"}
	n := newNormalizer(t, backend, 0)

	results, err := NewScorer(n, WithChunkSize(2)).Run(context.Background(), texts)
	require.Error(t, err)
	assert.Nil(t, results, "no partial results on failure")
	assert.Contains(t, err.Error(), "row 2")
	assert.Equal(t, []string{"one", "two", "three"}, backend.seen, "processing stops at the failing row")
}

func TestRunBlankAndMarkupOnlyRows(t *testing.T) {
	table, err := ReadTable(strings.NewReader("id,text\n1,Great movie\n2,\n3,<br /><br />\n4,   \n"), DefaultTextColumn)
	require.NoError(t, err)

	backend := &failingBackend{}
	n := newNormalizer(t, backend, 0)
	results, err := NewScorer(n).Run(context.Background(), table.Texts())
	require.NoError(t, err)
	require.Len(t, results, 4)

	assert.Equal(t, sentiment.Positive, results[0].Label)
	assert.Equal(t, Blank, results[1])
	assert.Equal(t, sentiment.Positive, results[2].Label, "markup-only row is scored as written")
	assert.Equal(t, Blank, results[3])
	assert.Equal(t, []string{"Great movie", "<br /><br />"}, backend.seen)
}

func TestRunTruncatesAndCleans(t *testing.T) {
	backend := &failingBackend{}
	n := newNormalizer(t, backend, 10)

	_, err := NewScorer(n).Run(context.Background(), []string{"<p>abcdefghijklmnop</p>", "short"})
	require.NoError(t, err)
	assert.Equal(t, []string{"abcdefghij", "short"}, backend.seen)

	backend.seen = nil
	_, err = NewScorer(n, WithHTMLCleanup(false)).Run(context.Background(), []string{"<b>x</b>"})
	require.NoError(t, err)
	assert.Equal(t, []string{"<b>x</b>"}, backend.seen)
}

func TestRunCanceled(t *testing.T) {
	n := newNormalizer(t, sentiment.NewLexiconBackend(nil), 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewScorer(n).Run(ctx, sampleTexts(3))
	require.ErrorIs(t, err, context.Canceled)
}

func TestRunEmpty(t *testing.T) {
	n := newNormalizer(t, sentiment.NewLexiconBackend(nil), 0)
	results, err := NewScorer(n).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestReadTable(t *testing.T) {
	input := "\ufeffid,Text,rating\n1,Loved it,5\n2,\"Bad, very bad\",1\n"
	tbl, err := ReadTable(strings.NewReader(input), "text")
	require.NoError(t, err)

	assert.Equal(t, "Text", tbl.Column())
	assert.Equal(t, []string{"id", "Text", "rating"}, tbl.Header)
	assert.Equal(t, []string{"Loved it", "Bad, very bad"}, tbl.Texts())
}

func TestReadTableMissingColumn(t *testing.T) {
	_, err := ReadTable(strings.NewReader("id,review\n1,hello\n"), "text")
	require.ErrorIs(t, err, ErrMissingColumn)
	require.ErrorIs(t, err, internalerr.ErrInvalidInput)

	_, err = ReadTable(strings.NewReader(""), "")
	require.ErrorIs(t, err, ErrMissingColumn)
}

func TestReadTableRaggedRows(t *testing.T) {
	_, err := ReadTable(strings.NewReader("id,text\n1,ok\n2\n"), "text")
	require.ErrorIs(t, err, internalerr.ErrInvalidInput)
}

func TestAugmentAndWrite(t *testing.T) {
	tbl, err := ReadTable(strings.NewReader("id,text\n1,good\n2,bad\n"), "")
	require.NoError(t, err)

	err = tbl.Augment([]sentiment.Result{{Label: sentiment.Positive, Score: 0.75}})
	require.Error(t, err, "result count must match rows")

	require.NoError(t, tbl.Augment([]sentiment.Result{
		{Label: sentiment.Positive, Score: 0.75},
		{Label: sentiment.Negative, Score: 0.8125},
	}))

	var buf bytes.Buffer
	require.NoError(t, tbl.Write(&buf))
	want := "id,text,sentiment,confidence\n1,good,POSITIVE,0.7500\n2,bad,NEGATIVE,0.8125\n"
	assert.Equal(t, want, buf.String())
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain   text\n here", "plain text here"},
		{"Great<br /><br />fun", "Great fun"},
		{"<p>One</p><p>Two</p>", "One Two"},
		{"Tom &amp; Jerry", "Tom & Jerry"},
		{"<script>alert(1)</script>Safe", "Safe"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanText(tt.in), "input %q", tt.in)
	}
}

func TestSummarize(t *testing.T) {
	results := []sentiment.Result{
		{Label: sentiment.Positive, Score: 1.0},
		{Label: sentiment.Negative, Score: 0.5},
		{Label: sentiment.Positive, Score: 0.75},
		{Label: sentiment.Neutral, Score: 0.5},
	}
	s := Summarize(results)

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Counts[sentiment.Positive])
	assert.Equal(t, 1, s.Counts[sentiment.Negative])
	assert.InDelta(t, 0.6875, s.MeanConfidence, 1e-9)
	assert.InDelta(t, 0.2394, s.StdConfidence, 1e-4)
	assert.Equal(t, 0.5, s.MinConfidence)
	assert.Equal(t, 1.0, s.MaxConfidence)
	assert.InDelta(t, 0.5, s.Share(sentiment.Positive), 1e-9)
	assert.Contains(t, s.String(), "POSITIVE=2 (50.0%)")
}

func TestSummarizeSmall(t *testing.T) {
	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Total)
	assert.Zero(t, empty.Share(sentiment.Positive))

	one := Summarize([]sentiment.Result{{Label: sentiment.Negative, Score: 0.6}})
	assert.Equal(t, 0.6, one.MeanConfidence)
	assert.Zero(t, one.StdConfidence)
	assert.True(t, strings.HasPrefix(one.String(), "1 texts:"), one.String())
}

func TestFixtureFile(t *testing.T) {
	f, err := os.Open("../../../testdata/batch/reviews.csv")
	require.NoError(t, err)
	defer f.Close()

	table, err := ReadTable(f, DefaultTextColumn)
	require.NoError(t, err)
	require.Len(t, table.Texts(), 4)

	n := newNormalizer(t, sentiment.NewLexiconBackend(nil), 0)
	results, err := NewScorer(n).Run(context.Background(), table.Texts())
	require.NoError(t, err)

	assert.Equal(t, sentiment.Positive, results[0].Label)
	assert.Equal(t, sentiment.Negative, results[1].Label)
	assert.Equal(t, sentiment.Neutral, results[2].Label)

	summary := Summarize(results)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.Counts[sentiment.Neutral])
}
