package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/cognicore/reelmood/pkg/reelmood/internalerr"
	"github.com/cognicore/reelmood/pkg/reelmood/respond"
	"github.com/cognicore/reelmood/pkg/reelmood/sentiment"
)

type roundTrip func(*http.Request) *http.Response

func (rt roundTrip) RoundTrip(req *http.Request) (*http.Response, error) {
	return rt(req), nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestClassifyNested(t *testing.T) {
	client := &Classifier{
		Endpoint: "https://inference.test/models/sst2",
		APIKey:   "secret",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				if got := req.Header.Get("Authorization"); got != "Bearer secret" {
					t.Fatalf("unexpected auth header %q", got)
				}
				body, _ := io.ReadAll(req.Body)
				var payload map[string]string
				if err := json.Unmarshal(body, &payload); err != nil || payload["inputs"] != "I loved it" {
					t.Fatalf("unexpected payload %s", body)
				}
				return jsonResponse(200, `[[{"label":"NEGATIVE","score":0.02},{"label":"POSITIVE","score":0.98}]]`)
			}),
		},
	}

	pred, err := client.Classify(context.Background(), "I loved it")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if pred.Label != "POSITIVE" || pred.Score != 0.98 {
		t.Fatalf("unexpected prediction %+v", pred)
	}
}

func TestClassifyFlat(t *testing.T) {
	client := &Classifier{
		Endpoint: "https://inference.test/models/sst2",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				if req.Header.Get("Authorization") != "" {
					t.Fatalf("no auth header expected without key")
				}
				return jsonResponse(200, `[{"label":"LABEL_0","score":0.7},{"label":"LABEL_1","score":0.3}]`)
			}),
		},
	}

	pred, err := client.Classify(context.Background(), "meh")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if pred.Label != "LABEL_0" {
		t.Fatalf("unexpected prediction %+v", pred)
	}
}

func TestClassifyErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"api error", 503, `{"error":"Model is currently loading"}`},
		{"bad status", 500, `oops`},
		{"error body with 200", 200, `{"error":"bad input"}`},
		{"empty list", 200, `[]`},
		{"garbage", 200, `"hello"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &Classifier{
				Endpoint: "https://inference.test/models/sst2",
				HTTPClient: &http.Client{
					Transport: roundTrip(func(req *http.Request) *http.Response {
						return jsonResponse(tt.status, tt.body)
					}),
				},
			}
			if _, err := client.Classify(context.Background(), "x"); err == nil {
				t.Fatal("expected error")
			}
		})
	}

	if _, err := (&Classifier{}).Classify(context.Background(), "x"); err == nil {
		t.Fatal("expected error without endpoint")
	}
}

func TestClassifierAsBackend(t *testing.T) {
	client := &Classifier{
		Endpoint: "https://inference.test/models/sst2",
		HTTPClient: &http.Client{
			Transport: roundTrip(func(req *http.Request) *http.Response {
				return jsonResponse(200, `[[{"label":"NEGATIVE","score":0.91}]]`)
			}),
		},
	}

	res, err := sentiment.NewClassifierBackend(client).Normalize(context.Background(), "awful")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if res.Label != sentiment.Negative || res.Score != 0.91 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestOpenAIDialogue(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"Try Heat."}}],"usage":{"prompt_tokens":5,"completion_tokens":3,"total_tokens":8}}`)
	}))
	defer server.Close()

	d, err := NewDialogue(DialogueConfig{Provider: "OpenAI", Endpoint: server.URL + "/v1/", Model: "gpt-test"}, nil)
	if err != nil {
		t.Fatalf("NewDialogue: %v", err)
	}
	if d.Name() != ProviderOpenAI {
		t.Fatalf("unexpected provider %s", d.Name())
	}

	history := []respond.Exchange{{User: "hi", Bot: "hello!"}}
	reply, err := d.Generate(context.Background(), "any heist movies?", history)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if reply != "Try Heat." {
		t.Fatalf("unexpected reply %q", reply)
	}

	if got.Model != "gpt-test" {
		t.Errorf("unexpected model %q", got.Model)
	}
	roles := make([]string, len(got.Messages))
	for i, m := range got.Messages {
		roles[i] = m.Role
	}
	if strings.Join(roles, ",") != "system,user,assistant,user" {
		t.Errorf("unexpected roles %v", roles)
	}
	if got.Messages[len(got.Messages)-1].Content != "any heist movies?" {
		t.Errorf("prompt should be the last message")
	}
}

func TestOpenAIDialogueError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		io.WriteString(w, `{"error":{"message":"slow down","type":"rate_limit"}}`)
	}))
	defer server.Close()

	d := NewOpenAIDialogue(DialogueConfig{Endpoint: server.URL, Model: "gpt-test"}, zap.NewNop())
	if _, err := d.Generate(context.Background(), "hi", nil); err == nil {
		t.Fatal("expected error")
	}
}

func TestAnthropicDialogue(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		System   string `json:"system"`
		Messages []struct {
			Role string `json:"role"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/messages") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "key" {
			t.Errorf("missing api key header")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"id":"m1","type":"message","role":"assistant","model":"claude-test","content":[{"type":"text","text":"Watch Alien."}],"stop_reason":"end_turn","usage":{"input_tokens":4,"output_tokens":3}}`)
	}))
	defer server.Close()

	d, err := NewDialogue(DialogueConfig{Provider: ProviderAnthropic, Endpoint: server.URL, Model: "claude-test", APIKey: "key"}, nil)
	if err != nil {
		t.Fatalf("NewDialogue: %v", err)
	}

	reply, err := d.Generate(context.Background(), "scary space movie?", []respond.Exchange{{User: "hi", Bot: "hey"}})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if reply != "Watch Alien." {
		t.Fatalf("unexpected reply %q", reply)
	}
	if got.Model != "claude-test" || got.System != DefaultSystemPrompt {
		t.Errorf("unexpected request model=%q system=%q", got.Model, got.System)
	}
	if len(got.Messages) != 3 || got.Messages[1].Role != "assistant" {
		t.Errorf("unexpected messages %+v", got.Messages)
	}
}

func TestNewDialogueValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  DialogueConfig
	}{
		{"missing model", DialogueConfig{Provider: ProviderOpenAI}},
		{"unknown provider", DialogueConfig{Provider: "dialogpt", Model: "m"}},
		{"anthropic without key", DialogueConfig{Provider: ProviderAnthropic, Model: "m"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewDialogue(tt.cfg, nil)
			if !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
