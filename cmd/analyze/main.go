package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/cognicore/reelmood/internal/app"
	"github.com/cognicore/reelmood/pkg/reelmood"
	"github.com/cognicore/reelmood/pkg/reelmood/sentiment"
)

func main() {
	configPath := flag.String("config", "", "Config file (optional, environment only when empty)")
	envFile := flag.String("env", "", "Environment file (default .env when present)")
	asJSON := flag.Bool("json", false, "Print the result as JSON")
	flag.Parse()

	text := strings.Join(flag.Args(), " ")
	if text == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			log.Fatalf("read stdin: %v", err)
		}
		text = string(data)
	}

	a, err := app.Setup(*configPath, *envFile)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	res, err := analyze(context.Background(), a.Engine(), text)
	if err != nil {
		log.Fatal(err)
	}
	if err := printResult(os.Stdout, res, *asJSON); err != nil {
		log.Fatal(err)
	}
}

func analyze(ctx context.Context, engine *reelmood.Engine, text string) (sentiment.Result, error) {
	if err := engine.SentimentErr(); err != nil {
		return sentiment.Result{}, fmt.Errorf("sentiment analysis is unavailable: %w", err)
	}
	return engine.Sentiment(ctx, text)
}

func printResult(w io.Writer, res sentiment.Result, asJSON bool) error {
	if !asJSON {
		_, err := fmt.Fprintf(w, "%s (%.2f%%)\n", res.Label, res.Score*100)
		return err
	}
	out := struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}{Label: string(res.Label), Score: res.Score}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
