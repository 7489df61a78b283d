// Package batch runs outline extraction over a directory of documents,
// writing one <name>.outline.json per readable input.
package batch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dmars/pdfrank/internal/outline"
	"github.com/dmars/pdfrank/internal/source"
)

// Runner processes batch-directory extractions.
type Runner struct {
	store       *RunStore
	log         *slog.Logger
	concurrency int
}

func NewRunner(log *slog.Logger, concurrency int, ttl time.Duration) *Runner {
	if concurrency <= 0 {
		concurrency = 4
	}
	return &Runner{
		store:       NewRunStore(ttl),
		log:         log,
		concurrency: concurrency,
	}
}

// Store exposes the run registry for status queries.
func (r *Runner) Store() *RunStore { return r.store }

// StartCleanup evicts expired runs on a fixed cadence until ctx is
// done. Long-lived processes call this once at startup; one-shot
// callers can skip it.
func (r *Runner) StartCleanup(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.store.Cleanup()
			}
		}
	}()
}

// Submit registers a run and processes it in the background.
func (r *Runner) Submit(ctx context.Context, inputDir, outputDir string) *Run {
	run := &Run{
		ID:        uuid.NewString(),
		InputDir:  inputDir,
		OutputDir: outputDir,
		Status:    StatusRunning,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	r.store.Put(run)
	go func() {
		if err := r.Process(ctx, run); err != nil {
			r.log.Error("batch run failed", "run_id", run.ID, "error", err)
		}
	}()
	return run
}

// Process extracts an outline for every supported file in the run's
// input directory. Per-file failures are recorded and skipped; the run
// fails outright only when the directories themselves are unusable.
func (r *Runner) Process(ctx context.Context, run *Run) error {
	log := r.log.With("run_id", run.ID, "input_dir", run.InputDir)

	entries, err := os.ReadDir(run.InputDir)
	if err != nil {
		run.setStatus(StatusFailed)
		run.addFailure(err.Error())
		return fmt.Errorf("read input dir: %w", err)
	}
	if err := os.MkdirAll(run.OutputDir, 0o755); err != nil {
		run.setStatus(StatusFailed)
		run.addFailure(err.Error())
		return fmt.Errorf("create output dir: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !source.IsSupportedExtension(entry.Name()) {
			continue
		}
		files = append(files, entry.Name())
	}
	run.setTotal(len(files))
	log.Info("batch run started", "files", len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for _, name := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				run.addFailure(fmt.Sprintf("%s: %s", name, err))
				return nil
			}
			if err := r.processFile(run, name); err != nil {
				log.Warn("file skipped", "file", name, "error", err)
				run.addFailure(fmt.Sprintf("%s: %s", name, err))
				return nil
			}
			run.addSuccess()
			return nil
		})
	}
	g.Wait()

	snap := run.Snapshot()
	switch {
	case snap.Progress.Failed == 0:
		run.setStatus(StatusCompleted)
	case snap.Progress.Succeeded > 0:
		run.setStatus(StatusPartial)
	default:
		run.setStatus(StatusFailed)
	}
	log.Info("batch run finished", "succeeded", snap.Progress.Succeeded, "failed", snap.Progress.Failed)
	return nil
}

func (r *Runner) processFile(run *Run, name string) error {
	src, err := source.Open(filepath.Join(run.InputDir, name))
	if err != nil {
		return err
	}
	defer src.Close()

	o, err := outline.Extract(src, name)
	if err != nil && !errors.Is(err, outline.ErrEmptyDocument) {
		return err
	}
	// Empty documents still produce a minimal outline worth writing.

	data, err := json.MarshalIndent(o, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal outline: %w", err)
	}
	outPath := filepath.Join(run.OutputDir, name+".outline.json")
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write outline: %w", err)
	}
	return nil
}
