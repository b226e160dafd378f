package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Chunkstore connection
	ChunkstoreURL    string
	ChunkstoreAPIKey string

	// Auth
	ServiceAPIKey string

	// Role annotation
	AnthropicAPIKey string
	AnthropicModel  string
	AnnotateRoles   bool
	RolesFile       string
	RolesChapter    int

	// Worker pool
	WorkerCount           int
	MaxQueueSize          int
	MaxConcurrentAnnotate int
	MaxConcurrentStore    int

	// Upload limits
	MaxUploadBytes int64

	// Section extraction defaults
	IncludePreamble      bool
	FoldLines            bool
	FallbackUnstructured bool

	// Job state
	JobTTL time.Duration

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		ChunkstoreURL:    envOr("CHUNKSTORE_URL", "http://localhost:8080"),
		ChunkstoreAPIKey: os.Getenv("CHUNKSTORE_API_KEY"),

		ServiceAPIKey: os.Getenv("SECTIONIZE_API_KEY"),

		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		AnnotateRoles:   envBool("ANNOTATE_ROLES", false),
		RolesFile:       os.Getenv("ROLES_FILE"),
		RolesChapter:    envInt("ROLES_CHAPTER", 2),

		WorkerCount:           envInt("WORKER_COUNT", 4),
		MaxQueueSize:          envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentAnnotate: envInt("MAX_CONCURRENT_ANNOTATE", 5),
		MaxConcurrentStore:    envInt("MAX_CONCURRENT_STORE", 10),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		IncludePreamble:      envBool("INCLUDE_PREAMBLE", false),
		FoldLines:            envBool("FOLD_LINES", false),
		FallbackUnstructured: envBool("FALLBACK_UNSTRUCTURED", false),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentAnnotate <= 0 {
		cfg.MaxConcurrentAnnotate = 5
	}
	if cfg.MaxConcurrentStore <= 0 {
		cfg.MaxConcurrentStore = 10
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.ChunkstoreAPIKey == "" {
		return fmt.Errorf("CHUNKSTORE_API_KEY is required")
	}
	if c.ServiceAPIKey == "" {
		return fmt.Errorf("SECTIONIZE_API_KEY is required")
	}
	if c.AnnotateRoles && c.AnthropicAPIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required when ANNOTATE_ROLES is set")
	}
	if c.AnnotateRoles && c.RolesFile == "" {
		return fmt.Errorf("ROLES_FILE is required when ANNOTATE_ROLES is set")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
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
