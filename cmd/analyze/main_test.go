package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/cognicore/reelmood/pkg/reelmood"
	"github.com/cognicore/reelmood/pkg/reelmood/config"
	"github.com/cognicore/reelmood/pkg/reelmood/internalerr"
	"github.com/cognicore/reelmood/pkg/reelmood/sentiment"
)

func TestAnalyze(t *testing.T) {
	comp, err := (&config.Loader{}).Load()
	if err != nil {
		t.Fatalf("load components: %v", err)
	}
	engine := reelmood.FromComponents(comp, false, nil)

	tests := []struct {
		text string
		want sentiment.Label
	}{
		{"I love this movie, it's wonderful!", sentiment.Positive},
		{"The plot was boring and the acting terrible.", sentiment.Negative},
		{"The film is 120 minutes long.", sentiment.Neutral},
	}
	for _, tt := range tests {
		res, err := analyze(context.Background(), engine, tt.text)
		if err != nil {
			t.Fatalf("analyze(%q): %v", tt.text, err)
		}
		if res.Label != tt.want {
			t.Errorf("analyze(%q) = %s, want %s", tt.text, res.Label, tt.want)
		}
	}

	if _, err := analyze(context.Background(), engine, " "); !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAnalyzeUnavailable(t *testing.T) {
	_, err := analyze(context.Background(), reelmood.New(reelmood.Options{}), "great")
	if !errors.Is(err, internalerr.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestPrintResult(t *testing.T) {
	res := sentiment.Result{Label: sentiment.Positive, Score: 0.9}

	var buf bytes.Buffer
	if err := printResult(&buf, res, false); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "POSITIVE (90.00%)\n" {
		t.Errorf("text output = %q", buf.String())
	}

	buf.Reset()
	if err := printResult(&buf, res, true); err != nil {
		t.Fatal(err)
	}
	want := "{\n  \"label\": \"POSITIVE\",\n  \"score\": 0.9\n}\n"
	if buf.String() != want {
		t.Errorf("json output = %q", buf.String())
	}
}
