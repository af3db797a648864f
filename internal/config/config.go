package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LLM providers.
const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderNone   = "none"
)

// Vector backends.
const (
	VectorMemory = "memory"
	VectorQdrant = "qdrant"
)

// Session backends.
const (
	SessionMemory = "memory"
	SessionSQLite = "sqlite"
	SessionRedis  = "redis"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort   string
	LogLevel  string
	LogFormat string

	CorpusDir         string
	CategoryGuidePath string
	// EmbeddingDim is the expected vector size. Zero takes it from the corpus.
	EmbeddingDim int

	LLMProvider        string
	LLMBaseURL         string
	LLMAPIKey          string
	LLMModelName       string
	EmbeddingBaseURL   string
	EmbeddingModelName string
	GeminiAPIKey       string
	OracleTimeout      time.Duration
	OracleRPM          int

	VectorBackend    string
	QdrantURL        string
	QdrantCollection string

	SessionBackend string
	SessionTTL     time.Duration
	DBPath         string
	RedisURL       string
	RedisPassword  string
	RedisDB        int

	OrgAnswerChars int
	LinksTopK      int

	OTLPEndpoint string
	ServiceName  string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or a parent, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		APIPort:            getEnv("API_PORT", "9000"),
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
		CorpusDir:          getEnv("CORPUS_DIR", "./data/corpus"),
		CategoryGuidePath:  getEnv("CATEGORY_GUIDE_PATH", ""),
		LLMProvider:        strings.ToLower(getEnv("LLM_PROVIDER", ProviderOpenAI)),
		LLMBaseURL:         getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMAPIKey:          getEnv("LLM_API_KEY", ""),
		LLMModelName:       getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "granite-embedding-278m-multilingual"),
		GeminiAPIKey:       getEnv("GEMINI_API_KEY", ""),
		VectorBackend:      strings.ToLower(getEnv("VECTOR_BACKEND", VectorMemory)),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "consumer_corpus"),
		SessionBackend:     strings.ToLower(getEnv("SESSION_BACKEND", SessionMemory)),
		DBPath:             getEnv("DB_PATH", "./data/consumer-assistant.db"),
		RedisURL:           getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		OTLPEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		ServiceName:        getEnv("OTEL_SERVICE_NAME", "consumer-assistant"),
	}

	if cfg.EmbeddingDim, err = getInt("EMBEDDING_DIM", 0, 0); err != nil {
		return nil, err
	}
	if cfg.OracleRPM, err = getInt("ORACLE_RPM", 60, 0); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0, 0); err != nil {
		return nil, err
	}
	if cfg.OrgAnswerChars, err = getInt("ORG_ANSWER_CHARS", 800, 1); err != nil {
		return nil, err
	}
	if cfg.LinksTopK, err = getInt("LINKS_TOP_K", 30, 1); err != nil {
		return nil, err
	}
	if cfg.OracleTimeout, err = getDuration("ORACLE_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDuration("SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Create the data directory for the SQLite file
	if cfg.SessionBackend == SessionSQLite {
		dataDir := filepath.Dir(cfg.DBPath)
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.LLMProvider {
	case ProviderOpenAI, ProviderNone:
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	default:
		return fmt.Errorf("LLM_PROVIDER must be one of openai, gemini, none (got %q)", c.LLMProvider)
	}

	switch c.VectorBackend {
	case VectorMemory, VectorQdrant:
	default:
		return fmt.Errorf("VECTOR_BACKEND must be one of memory, qdrant (got %q)", c.VectorBackend)
	}

	switch c.SessionBackend {
	case SessionMemory, SessionSQLite, SessionRedis:
	default:
		return fmt.Errorf("SESSION_BACKEND must be one of memory, sqlite, redis (got %q)", c.SessionBackend)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json (got %q)", c.LogFormat)
	}

	if c.CorpusDir == "" {
		return fmt.Errorf("CORPUS_DIR is required")
	}
	return nil
}

// SemanticEnabled reports whether an embedding provider is configured.
func (c *Config) SemanticEnabled() bool {
	return c.LLMProvider != ProviderNone
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt parses an integer environment variable no smaller than minValue.
func getInt(key string, defaultValue, minValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if v < minValue {
		return 0, fmt.Errorf("%s must be at least %d", key, minValue)
	}
	return v, nil
}

// getDuration parses a duration such as "15s" or "30m".
func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}
