package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmars/pdfrank/internal/batch"
	"github.com/dmars/pdfrank/internal/outline"
	"github.com/dmars/pdfrank/internal/persona"
	"github.com/dmars/pdfrank/internal/source"
)

// handleOutline extracts the outline of one uploaded document.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	if !source.IsSupportedExtension(filename) {
		jsonError(w, fmt.Sprintf("unsupported file type: %s", filepath.Ext(filename)), http.StatusBadRequest)
		return
	}

	// source.Open dispatches on extension, so the temp file keeps it.
	tmp, err := os.CreateTemp("", "pdfrank-upload-*"+filepath.Ext(filename))
	if err != nil {
		jsonError(w, "failed to buffer upload", http.StatusInternalServerError)
		return
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	n, err := io.Copy(tmp, io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	tmp.Close()
	if err != nil {
		jsonError(w, "failed to read file", http.StatusInternalServerError)
		return
	}
	if n > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("file exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	start := time.Now()
	src, err := source.Open(tmpPath)
	if err != nil {
		s.writeOutlineError(w, filename, err)
		return
	}
	defer src.Close()

	result, err := outline.Extract(src, filename)
	if err != nil {
		s.writeOutlineError(w, filename, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success":            true,
		"processing_time_ms": time.Since(start).Milliseconds(),
		"result":             result,
	})
}

// writeOutlineError maps extraction failures for a single requested
// document onto processing errors.
func (s *Server) writeOutlineError(w http.ResponseWriter, filename string, err error) {
	var readErr *source.ReadError
	switch {
	case errors.As(err, &readErr), errors.Is(err, outline.ErrEmptyDocument):
		s.log.Warn("outline extraction failed", "file", filename, "error", err)
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		s.log.Error("outline extraction failed", "file", filename, "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

type personaRequest struct {
	PersonaDescription string   `json:"persona_description"`
	JobToBeDone        string   `json:"job_to_be_done"`
	Documents          []string `json:"documents"`
}

// handlePersona runs persona-driven analysis over 3-10 documents.
func (s *Server) handlePersona(w http.ResponseWriter, r *http.Request) {
	var req personaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	report, err := s.analyzer.Analyze(r.Context(), req.Documents, req.PersonaDescription, req.JobToBeDone)
	if err != nil {
		var invalid *persona.InvalidInputError
		if errors.As(err, &invalid) {
			jsonError(w, invalid.Error(), http.StatusBadRequest)
			return
		}
		s.log.Error("persona analysis failed", "error", err)
		jsonError(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"success":            true,
		"processing_time_ms": report.Metadata.ProcessingTimeMs,
		"result":             report,
	})
}

type batchRequest struct {
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`
}

// handleBatch starts a background batch extraction over a directory.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.InputDir == "" {
		req.InputDir = s.cfg.BatchInputDir
	}
	if req.OutputDir == "" {
		req.OutputDir = s.cfg.BatchOutputDir
	}

	// Detached from the request context: the run outlives this request.
	run := s.batch.Submit(context.Background(), req.InputDir, req.OutputDir)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"run_id":   run.ID,
		"status":   batch.StatusRunning,
		"poll_url": fmt.Sprintf("/api/batch/%s/status", run.ID),
	})
}

func (s *Server) handleBatchStatus(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	run := s.batch.Store().Get(runID)
	if run == nil {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run.Snapshot())
}

func (s *Server) handleEmbedStats(w http.ResponseWriter, r *http.Request) {
	if s.embedStats == nil {
		jsonError(w, "embed stats unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"model": s.embedModel,
		"stats": s.embedStats.Snapshot(),
	})
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." {
		name = "unnamed"
	}
	return name
}
