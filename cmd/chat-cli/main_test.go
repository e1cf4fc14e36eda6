package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/cognicore/reelmood/pkg/reelmood"
	"github.com/cognicore/reelmood/pkg/reelmood/config"
	"github.com/cognicore/reelmood/pkg/reelmood/session"
)

func newEngine(t *testing.T) *reelmood.Engine {
	t.Helper()
	comp, err := (&config.Loader{}).Load()
	if err != nil {
		t.Fatalf("load components: %v", err)
	}
	return reelmood.FromComponents(comp, false, nil)
}

func newTestChat(t *testing.T) *chat {
	t.Helper()
	return newChat(newEngine(t), session.NewStore())
}

func TestREPLConversation(t *testing.T) {
	c := newTestChat(t)
	input := strings.Join([]string{
		"What is the best animation movie?",
		"",
		"/analyze This film was a wonderful surprise!",
		"/history",
		"/quit",
		"hello",
	}, "\n")

	var out bytes.Buffer
	c.repl(context.Background(), strings.NewReader(input), &out)

	got := out.String()
	if !strings.Contains(got, "Spirited Away") {
		t.Errorf("expected best animation title in output:\n%s", got)
	}
	if !strings.Contains(got, "POSITIVE") {
		t.Errorf("expected analysis label in output:\n%s", got)
	}
	if !strings.Contains(got, "You: What is the best animation movie?") {
		t.Errorf("expected chat history in output:\n%s", got)
	}

	// /quit stops the loop before "hello".
	if n := len(c.sess.ListChat()); n != 1 {
		t.Errorf("chat turns = %d, want 1", n)
	}
	if n := len(c.sess.ListAnalysis()); n != 1 {
		t.Errorf("analysis turns = %d, want 1", n)
	}
}

func TestHandleClear(t *testing.T) {
	c := newTestChat(t)
	ctx := context.Background()
	var out bytes.Buffer

	if err := c.handle(ctx, "hi", &out); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if err := c.handle(ctx, "/clear", &out); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(c.sess.ListChat()) != 0 {
		t.Error("history should be empty after /clear")
	}

	out.Reset()
	printHistory(c.sess, &out)
	if !strings.Contains(out.String(), "No history yet.") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestHandleNewSession(t *testing.T) {
	store := session.NewStore()
	c := newChat(newEngine(t), store)
	ctx := context.Background()
	var out bytes.Buffer

	first := c.sess.ID
	if err := c.handle(ctx, "hello", &out); err != nil {
		t.Fatalf("chat: %v", err)
	}
	if err := c.handle(ctx, "/new", &out); err != nil {
		t.Fatalf("new: %v", err)
	}
	if c.sess.ID == first || len(c.sess.ListChat()) != 0 {
		t.Error("expected a fresh session")
	}
	if store.Len() != 1 {
		t.Errorf("store should hold only the current session, has %d", store.Len())
	}
	if _, err := store.Get(first); err == nil {
		t.Error("old session should be deleted")
	}
}

func TestHandleErrors(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer

	if err := newTestChat(t).handle(ctx, "/analyze", &out); err == nil {
		t.Error("expected error for empty analyze text")
	}

	noSentiment := newChat(reelmood.New(reelmood.Options{}), session.NewStore())
	err := noSentiment.handle(ctx, "/analyze great", &out)
	if err == nil || !strings.Contains(err.Error(), "unavailable") {
		t.Errorf("expected unavailable error, got %v", err)
	}
	if err := noSentiment.handle(ctx, "thanks!", &out); err != nil {
		t.Errorf("chat should work without sentiment: %v", err)
	}
}
