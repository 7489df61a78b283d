package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Embedding backends.
const (
	BackendHash   = "hash"
	BackendOllama = "ollama"
	BackendGemini = "gemini"
)

type Config struct {
	Port string

	// Auth (optional: empty disables the bearer check)
	APIKey string

	// CORS
	CORSOrigins []string

	// Embedding backend
	EmbedBackend   string
	EmbedDim       int
	EmbedSerialize bool
	OllamaURL      string
	OllamaModel    string
	GeminiAPIKey   string
	GeminiModel    string

	// Worker pool
	WorkerCount int

	// Upload limits
	MaxUploadBytes int64

	// Batch processing
	BatchInputDir  string
	BatchOutputDir string
	RunTTL         time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8000"),

		APIKey: os.Getenv("PDFRANK_API_KEY"),

		CORSOrigins: envList("CORS_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"}),

		EmbedBackend:   envOr("EMBED_BACKEND", BackendHash),
		EmbedDim:       envInt("EMBED_DIM", 256),
		EmbedSerialize: envBool("EMBED_SERIALIZE", false),
		OllamaURL:      envOr("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:    envOr("OLLAMA_MODEL", "nomic-embed-text"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		GeminiModel:    envOr("GEMINI_EMBED_MODEL", "gemini-embedding-001"),

		WorkerCount: envInt("WORKER_COUNT", 4),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		BatchInputDir:  envOr("BATCH_INPUT_DIR", "/app/input"),
		BatchOutputDir: envOr("BATCH_OUTPUT_DIR", "/app/output"),
		RunTTL:         envDuration("RUN_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.EmbedDim <= 0 {
		cfg.EmbedDim = 256
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.RunTTL <= 0 {
		cfg.RunTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	switch c.EmbedBackend {
	case BackendHash, BackendOllama:
	case BackendGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required for the gemini backend")
		}
	default:
		return fmt.Errorf("unknown embed backend %q (want hash, ollama or gemini)", c.EmbedBackend)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
