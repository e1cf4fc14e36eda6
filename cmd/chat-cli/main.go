package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/cognicore/reelmood/internal/app"
	"github.com/cognicore/reelmood/pkg/reelmood"
	"github.com/cognicore/reelmood/pkg/reelmood/internalerr"
	"github.com/cognicore/reelmood/pkg/reelmood/session"
)

func main() {
	var (
		configPath = flag.String("config", "", "Config file (optional, environment only when empty)")
		envFile    = flag.String("env", "", "Environment file (default .env when present)")
		message    = flag.String("message", "", "One-shot message (non-interactive mode)")
		annotate   = flag.Bool("annotate", false, "Show the sentiment of each message")
	)
	flag.Parse()

	a, err := app.Setup(*configPath, *envFile)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	if *annotate {
		a.Config.Chat.AnnotateSentiment = true
	}
	if a.Components.DialogueErr != nil {
		fmt.Fprintln(os.Stderr, "Dialogue backend unavailable, using rule-based replies:", a.Components.DialogueErr)
	}

	c := newChat(a.Engine(), session.NewStore())
	ctx := context.Background()

	// One-shot mode
	if *message != "" {
		if err := c.handle(ctx, *message, os.Stdout); err != nil && !errors.Is(err, errQuit) {
			log.Fatal(err)
		}
		return
	}

	// Interactive mode
	fmt.Println("===========================================")
	fmt.Println("  Reelmood Chat")
	fmt.Println("  Movie talk and sentiment")
	fmt.Println("===========================================")
	fmt.Println()
	fmt.Println("Commands: /analyze <text>, /history, /clear, /new, /quit")
	fmt.Println("Type a message (Ctrl+D to exit):")
	fmt.Println()

	c.repl(ctx, os.Stdin, os.Stdout)

	fmt.Println("\nGoodbye!")
}

var errQuit = errors.New("quit")

// chat holds the REPL state: the engine and the current session.
type chat struct {
	engine *reelmood.Engine
	store  *session.Store
	sess   *session.Session
}

func newChat(engine *reelmood.Engine, store *session.Store) *chat {
	return &chat{engine: engine, store: store, sess: store.Create()}
}

func (c *chat) repl(ctx context.Context, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		err := c.handle(ctx, line, out)
		if errors.Is(err, errQuit) {
			return
		}
		if err != nil {
			fmt.Fprintln(out, "Error:", err)
		}
	}
}

func (c *chat) handle(ctx context.Context, line string, out io.Writer) error {
	cmd, arg, _ := strings.Cut(line, " ")
	switch cmd {
	case "/quit", "/exit":
		return errQuit
	case "/clear":
		c.sess.ClearChat()
		c.sess.ClearAnalysis()
		fmt.Fprintln(out, "History cleared.")
		return nil
	case "/new":
		if err := c.store.Delete(c.sess.ID); err != nil {
			return err
		}
		c.sess = c.store.Create()
		fmt.Fprintln(out, "Started session", c.sess.ID)
		return nil
	case "/history":
		printHistory(c.sess, out)
		return nil
	case "/analyze":
		turn, err := c.engine.Analyze(ctx, c.sess, arg)
		if errors.Is(err, internalerr.ErrBackendUnavailable) {
			return fmt.Errorf("sentiment analysis is unavailable: %w", err)
		}
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
		fmt.Fprintf(out, "%s (%.2f%%)\n", turn.Label, turn.Score*100)
		return nil
	}

	turn, err := c.engine.Chat(ctx, c.sess, line)
	if err != nil {
		return fmt.Errorf("chat: %w", err)
	}
	fmt.Fprintln(out, turn.BotText)
	if turn.Sentiment != nil {
		fmt.Fprintf(out, "  [%s %.2f]\n", turn.Sentiment.Label, turn.Sentiment.Score)
	}
	return nil
}

func printHistory(sess *session.Session, out io.Writer) {
	chat := sess.ListChat()
	analysis := sess.ListAnalysis()
	if len(chat) == 0 && len(analysis) == 0 {
		fmt.Fprintln(out, "No history yet.")
		return
	}

	if len(chat) > 0 {
		fmt.Fprintln(out, "Chat:")
		for _, t := range chat {
			fmt.Fprintf(out, "  You: %s\n", t.UserText)
			fmt.Fprintf(out, "  Bot: %s\n", t.BotText)
		}
	}
	if len(analysis) > 0 {
		fmt.Fprintln(out, "Recent analyses:")
		for _, t := range analysis {
			fmt.Fprintf(out, "  %s %s (%.2f%%)\n", t.At.Format("15:04:05"), t.Label, t.Score*100)
			fmt.Fprintf(out, "    %s\n", t.Text)
		}
	}
}
