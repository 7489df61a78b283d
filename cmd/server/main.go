package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmars/pdfrank/internal/api"
	"github.com/dmars/pdfrank/internal/batch"
	"github.com/dmars/pdfrank/internal/config"
	"github.com/dmars/pdfrank/internal/embed"
	"github.com/dmars/pdfrank/internal/persona"
	"github.com/dmars/pdfrank/internal/source"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source.PDFFallbackPdftotext = cfg.PDFFallbackPdftotext

	// The embedding backend loads once and is shared read-only after.
	embedder, stats, model, closeEmbedder, err := buildEmbedder(ctx, cfg)
	if err != nil {
		log.Error("embedding backend init failed", "backend", cfg.EmbedBackend, "error", err)
		os.Exit(1)
	}

	analyzer := persona.NewAnalyzer(embedder, log, cfg.WorkerCount)
	runner := batch.NewRunner(log, cfg.WorkerCount, cfg.RunTTL)
	runner.StartCleanup(ctx, 5*time.Minute)

	srv := api.NewServer(analyzer, runner, stats, model, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		closeEmbedder()
	}()

	log.Info("starting pdfrank", "port", cfg.Port, "embed_backend", cfg.EmbedBackend)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}

// buildEmbedder constructs the configured backend, optionally wrapped
// so that non-reentrant backends serialize concurrent inference.
func buildEmbedder(ctx context.Context, cfg config.Config) (embed.Embedder, *embed.Stats, string, func(), error) {
	var (
		e       embed.Embedder
		stats   *embed.Stats
		model   string
		closeFn = func() {}
	)

	switch cfg.EmbedBackend {
	case config.BackendOllama:
		c := embed.NewOllamaClient(cfg.OllamaURL, cfg.OllamaModel)
		e, stats, model = c, c.Stats, c.Model()
		closeFn = c.Close
	case config.BackendGemini:
		g, err := embed.NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, nil, "", nil, err
		}
		e, stats, model = g, g.Stats, g.Model()
		closeFn = func() { g.Close() }
	default:
		e, model = embed.NewHashEmbedder(cfg.EmbedDim), config.BackendHash
	}

	if cfg.EmbedSerialize {
		e = embed.Locked(e)
	}
	return e, stats, model, closeFn, nil
}
