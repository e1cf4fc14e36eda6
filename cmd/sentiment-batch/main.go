package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/cognicore/reelmood/internal/app"
	"github.com/cognicore/reelmood/internal/watch"
	"github.com/cognicore/reelmood/pkg/reelmood/batch"
)

const scoredSuffix = ".scored.csv"

func main() {
	var (
		configPath = flag.String("config", "", "Config file (optional, environment only when empty)")
		envFile    = flag.String("env", "", "Environment file (default .env when present)")
		inPath     = flag.String("in", "", "Input CSV file")
		outPath    = flag.String("out", "", "Output CSV file (default <in>"+scoredSuffix+")")
		column     = flag.String("column", "", "Text column (default from config)")
		chunk      = flag.Int("chunk", 0, "Rows per chunk (default from config)")
		watchDir   = flag.String("watch", "", "Score every CSV dropped into this directory until interrupted")
		raw        = flag.Bool("raw", false, "Do not strip HTML markup from texts")
	)
	flag.Parse()

	a, err := app.Setup(*configPath, *envFile)
	if err != nil {
		log.Fatal(err)
	}
	defer a.Close()

	if a.Components.Normalizer == nil {
		log.Fatalf("sentiment analysis is unavailable: %v", a.Components.SentimentErr)
	}

	cfg := a.Config.Batch
	if *column != "" {
		cfg.Column = *column
	}
	if *chunk > 0 {
		cfg.ChunkSize = *chunk
	}
	if *watchDir == "" {
		*watchDir = cfg.InboxDir
	}

	job := &job{
		column: cfg.Column,
		logger: a.Logger,
		scorer: batch.NewScorer(a.Components.Normalizer,
			batch.WithChunkSize(cfg.ChunkSize),
			batch.WithHTMLCleanup(!*raw),
			batch.WithLogger(a.Logger),
			batch.WithProgress(func(p batch.Progress) {
				fmt.Fprintf(os.Stderr, "\rScored %d/%d", p.Done, p.Total)
				if p.Done == p.Total {
					fmt.Fprintln(os.Stderr)
				}
			}),
		),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch {
	case *inPath != "":
		summary, err := job.processFile(ctx, *inPath, *outPath)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(summary)
	case *watchDir != "":
		if err := job.watch(ctx, *watchDir); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatal("--in or --watch required")
	}
}

type job struct {
	scorer *batch.Scorer
	column string
	logger *zap.Logger
}

// processFile scores one CSV and writes the augmented copy to outPath.
func (j *job) processFile(ctx context.Context, inPath, outPath string) (batch.Summary, error) {
	if outPath == "" {
		outPath = scoredPath(inPath)
	}

	in, err := os.Open(inPath)
	if err != nil {
		return batch.Summary{}, fmt.Errorf("open input: %w", err)
	}
	table, err := batch.ReadTable(in, j.column)
	in.Close()
	if err != nil {
		return batch.Summary{}, fmt.Errorf("%s: %w", inPath, err)
	}

	results, err := j.scorer.Run(ctx, table.Texts())
	if err != nil {
		return batch.Summary{}, fmt.Errorf("%s: %w", inPath, err)
	}
	if err := table.Augment(results); err != nil {
		return batch.Summary{}, err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return batch.Summary{}, fmt.Errorf("create output: %w", err)
	}
	if err := table.Write(out); err != nil {
		out.Close()
		return batch.Summary{}, fmt.Errorf("write %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return batch.Summary{}, fmt.Errorf("close %s: %w", outPath, err)
	}

	j.logger.Info("Scored file",
		zap.String("input", inPath),
		zap.String("output", outPath),
		zap.Int("rows", len(results)))
	return batch.Summarize(results), nil
}

// watch scores CSV files as they appear in dir until ctx is done.
func (j *job) watch(ctx context.Context, dir string) error {
	w, err := watch.New(j.logger, ".csv")
	if err != nil {
		return err
	}
	defer w.Close()

	events, err := w.Watch(ctx, dir)
	if err != nil {
		return err
	}
	fmt.Printf("Watching %s for CSV files (Ctrl+C to stop)\n", dir)

	for ev := range events {
		if strings.HasSuffix(ev.Path, scoredSuffix) {
			continue
		}
		summary, err := j.processFile(ctx, ev.Path, "")
		if err != nil {
			j.logger.Error("Batch failed", zap.String("path", ev.Path), zap.Error(err))
			continue
		}
		fmt.Printf("%s: %s\n", filepath.Base(ev.Path), summary)
	}
	return nil
}

func scoredPath(inPath string) string {
	return strings.TrimSuffix(inPath, filepath.Ext(inPath)) + scoredSuffix
}
