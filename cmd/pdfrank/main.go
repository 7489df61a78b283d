// Command pdfrank is the command-line front end: single-document
// outline extraction, batch directories, and persona analysis.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dmars/pdfrank/internal/batch"
	"github.com/dmars/pdfrank/internal/config"
	"github.com/dmars/pdfrank/internal/embed"
	"github.com/dmars/pdfrank/internal/outline"
	"github.com/dmars/pdfrank/internal/persona"
	"github.com/dmars/pdfrank/internal/source"
)

func main() {
	app := &cli.App{
		Name:  "pdfrank",
		Usage: "extract document outlines and rank sections against a persona",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "quiet", Usage: "only log errors"},
		},
		Before: func(c *cli.Context) error {
			source.PDFFallbackPdftotext = config.Load().PDFFallbackPdftotext
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "extract",
				Usage:     "extract the outline of a single document",
				ArgsUsage: "<file>",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "write JSON result to this file instead of stdout"},
				},
				Action: extractAction,
			},
			{
				Name:  "batch",
				Usage: "extract outlines for every supported file in a directory",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "input-dir", Required: true},
					&cli.StringFlag{Name: "output-dir", Required: true},
					&cli.IntFlag{Name: "workers", Value: 4},
				},
				Action: batchAction,
			},
			{
				Name:  "analyze",
				Usage: "rank sections of 3-10 documents against a persona",
				Flags: []cli.Flag{
					&cli.StringSliceFlag{Name: "doc", Usage: "document path (repeat 3-10 times)", Required: true},
					&cli.StringFlag{Name: "persona", Usage: "persona description", Required: true},
					&cli.StringFlag{Name: "job", Usage: "job to be done", Required: true},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}},
				},
				Action: analyzeAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelInfo
	if c.Bool("quiet") {
		level = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func extractAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one file argument is required")
	}
	path := c.Args().First()
	log := newLogger(c)

	start := time.Now()
	src, err := source.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	o, err := outline.Extract(src, path)
	if err != nil {
		// An empty document still carries a usable minimal outline.
		if o == nil {
			return err
		}
		log.Warn("document empty", "file", path, "error", err)
	}

	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal outline: %w", err)
	}

	if out := c.String("output"); out != "" {
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Info("results saved", "file", out)
	} else {
		fmt.Println(string(data))
	}

	log.Info("outline extracted",
		"file", path,
		"title", o.Title,
		"sections", len(o.Headings),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func batchAction(c *cli.Context) error {
	log := newLogger(c)

	runner := batch.NewRunner(log, c.Int("workers"), time.Hour)
	run := &batch.Run{
		ID:        "cli",
		InputDir:  c.String("input-dir"),
		OutputDir: c.String("output-dir"),
		Status:    batch.StatusRunning,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := runner.Process(c.Context, run); err != nil {
		return err
	}

	snap := run.Snapshot()
	fmt.Printf("processed %d files: %d succeeded, %d failed\n",
		snap.Progress.Total, snap.Progress.Succeeded, snap.Progress.Failed)
	for _, e := range snap.Progress.Errors {
		fmt.Println("  !", e)
	}
	if snap.Status == batch.StatusFailed {
		return fmt.Errorf("batch run failed")
	}
	return nil
}

func analyzeAction(c *cli.Context) error {
	log := newLogger(c)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	embedder, closeFn, err := buildEmbedder(c.Context, cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	analyzer := persona.NewAnalyzer(embedder, log, cfg.WorkerCount)
	report, err := analyzer.Analyze(c.Context, c.StringSlice("doc"), c.String("persona"), c.String("job"))
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	if out := c.String("output"); out != "" {
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		log.Info("results saved", "file", out)
	} else {
		fmt.Println(string(data))
	}

	log.Info("analysis complete",
		"documents", len(c.StringSlice("doc")),
		"sections", len(report.ExtractedSections),
		"insights", len(report.SubSectionAnalyses),
	)
	return nil
}

// buildEmbedder mirrors the server wiring: one backend per process,
// env-configured.
func buildEmbedder(ctx context.Context, cfg config.Config) (embed.Embedder, func(), error) {
	var (
		e       embed.Embedder
		closeFn = func() {}
	)

	switch cfg.EmbedBackend {
	case config.BackendOllama:
		c := embed.NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel)
		e, closeFn = c, c.Close
	case config.BackendGemini:
		g, err := embed.NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, err
		}
		e, closeFn = g, func() { g.Close() }
	default:
		e = embed.NewHashEmbedder(cfg.EmbedDim)
	}

	if cfg.EmbedSerialize {
		e = embed.Locked(e)
	}
	return e, closeFn, nil
}
