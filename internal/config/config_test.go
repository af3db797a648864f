package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// setEnv sets an environment variable, ignoring errors (for test setup)
func setEnv(key, value string) {
	_ = os.Setenv(key, value)
}

// unsetEnv unsets an environment variable, ignoring errors (for test cleanup)
func unsetEnv(key string) {
	_ = os.Unsetenv(key)
}

var envVars = []string{
	"API_PORT", "LOG_LEVEL", "LOG_FORMAT", "CORPUS_DIR", "CATEGORY_GUIDE_PATH", "EMBEDDING_DIM",
	"LLM_PROVIDER", "LLM_BASE_URL", "LLM_API_KEY", "LLM_MODEL",
	"EMBEDDING_BASE_URL", "EMBEDDING_MODEL_NAME", "GEMINI_API_KEY", "ORACLE_TIMEOUT", "ORACLE_RPM",
	"VECTOR_BACKEND", "QDRANT_URL", "QDRANT_COLLECTION",
	"SESSION_BACKEND", "SESSION_TTL", "DB_PATH", "REDIS_URL", "REDIS_PASSWORD", "REDIS_DB",
	"ORG_ANSWER_CHARS", "LINKS_TOP_K", "OTEL_EXPORTER_OTLP_ENDPOINT", "OTEL_SERVICE_NAME",
}

// isolateEnv clears every config variable and runs the test from an empty directory
// so no .env file is picked up.
func isolateEnv(t *testing.T) {
	t.Helper()
	originalEnv := make(map[string]string)
	for _, key := range envVars {
		originalEnv[key] = os.Getenv(key)
		unsetEnv(key)
	}
	originalWd, _ := os.Getwd()
	_ = os.Chdir(t.TempDir())
	t.Cleanup(func() {
		_ = os.Chdir(originalWd)
		for key, value := range originalEnv {
			if value != "" {
				setEnv(key, value)
			} else {
				unsetEnv(key)
			}
		}
	})
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name:     "default values",
			setupEnv: func(t *testing.T) {},
			checkConfig: func(cfg *Config) bool {
				return cfg.APIPort == "9000" &&
					cfg.LogLevel == "info" &&
					cfg.LogFormat == "text" &&
					cfg.CorpusDir == "./data/corpus" &&
					cfg.EmbeddingDim == 0 &&
					cfg.LLMProvider == ProviderOpenAI &&
					cfg.LLMBaseURL == "http://localhost:8080" &&
					cfg.LLMModelName == "Llama-3.1-8B-Instruct" &&
					cfg.EmbeddingBaseURL == "http://localhost:8081" &&
					cfg.EmbeddingModelName == "granite-embedding-278m-multilingual" &&
					cfg.OracleTimeout == 15*time.Second &&
					cfg.OracleRPM == 60 &&
					cfg.VectorBackend == VectorMemory &&
					cfg.QdrantCollection == "consumer_corpus" &&
					cfg.SessionBackend == SessionMemory &&
					cfg.SessionTTL == 30*time.Minute &&
					cfg.OrgAnswerChars == 800 &&
					cfg.LinksTopK == 30 &&
					cfg.ServiceName == "consumer-assistant" &&
					cfg.SemanticEnabled()
			},
		},
		{
			name: "custom values",
			setupEnv: func(t *testing.T) {
				setEnv("API_PORT", "8088")
				setEnv("LOG_LEVEL", "DEBUG")
				setEnv("LOG_FORMAT", "json")
				setEnv("EMBEDDING_DIM", "768")
				setEnv("ORACLE_TIMEOUT", "5s")
				setEnv("SESSION_TTL", "2h")
				setEnv("VECTOR_BACKEND", "Qdrant")
				setEnv("SESSION_BACKEND", "redis")
				setEnv("REDIS_DB", "3")
				setEnv("LINKS_TOP_K", "10")
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.APIPort == "8088" &&
					cfg.LogLevel == "debug" &&
					cfg.LogFormat == "json" &&
					cfg.EmbeddingDim == 768 &&
					cfg.OracleTimeout == 5*time.Second &&
					cfg.SessionTTL == 2*time.Hour &&
					cfg.VectorBackend == VectorQdrant &&
					cfg.SessionBackend == SessionRedis &&
					cfg.RedisDB == 3 &&
					cfg.LinksTopK == 10
			},
		},
		{
			name: "gemini with key",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_PROVIDER", "gemini")
				setEnv("GEMINI_API_KEY", "key")
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.LLMProvider == ProviderGemini && cfg.GeminiAPIKey == "key"
			},
		},
		{
			name: "no provider disables semantic retrieval",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_PROVIDER", "none")
			},
			checkConfig: func(cfg *Config) bool {
				return !cfg.SemanticEnabled()
			},
		},
		{
			name: "gemini without key",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_PROVIDER", "gemini")
			},
			wantErr: true,
		},
		{
			name: "unknown provider",
			setupEnv: func(t *testing.T) {
				setEnv("LLM_PROVIDER", "anthropic")
			},
			wantErr: true,
		},
		{
			name: "unknown vector backend",
			setupEnv: func(t *testing.T) {
				setEnv("VECTOR_BACKEND", "faiss")
			},
			wantErr: true,
		},
		{
			name: "unknown session backend",
			setupEnv: func(t *testing.T) {
				setEnv("SESSION_BACKEND", "postgres")
			},
			wantErr: true,
		},
		{
			name: "unknown log format",
			setupEnv: func(t *testing.T) {
				setEnv("LOG_FORMAT", "xml")
			},
			wantErr: true,
		},
		{
			name: "invalid EMBEDDING_DIM",
			setupEnv: func(t *testing.T) {
				setEnv("EMBEDDING_DIM", "invalid")
			},
			wantErr: true,
		},
		{
			name: "negative EMBEDDING_DIM",
			setupEnv: func(t *testing.T) {
				setEnv("EMBEDDING_DIM", "-1")
			},
			wantErr: true,
		},
		{
			name: "zero LINKS_TOP_K",
			setupEnv: func(t *testing.T) {
				setEnv("LINKS_TOP_K", "0")
			},
			wantErr: true,
		},
		{
			name: "invalid ORACLE_TIMEOUT",
			setupEnv: func(t *testing.T) {
				setEnv("ORACLE_TIMEOUT", "fifteen")
			},
			wantErr: true,
		},
		{
			name: "negative SESSION_TTL",
			setupEnv: func(t *testing.T) {
				setEnv("SESSION_TTL", "-1m")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateEnv(t)
			tt.setupEnv(t)

			cfg, err := Load()

			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Errorf("Load() unexpected error: %v", err)
				return
			}

			if cfg == nil {
				t.Fatal("Load() returned nil config")
			}

			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config validation failed: %+v", cfg)
			}
		})
	}
}

func TestLoad_ReadsDotEnvFromParent(t *testing.T) {
	isolateEnv(t)

	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".env"), []byte("API_PORT=7070\nLINKS_TOP_K=12\n"), 0644); err != nil {
		t.Fatalf("write .env: %v", err)
	}
	nested := filepath.Join(root, "cmd", "api")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Chdir(nested); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		unsetEnv("API_PORT")
		unsetEnv("LINKS_TOP_K")
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.APIPort != "7070" || cfg.LinksTopK != 12 {
		t.Errorf("Load() APIPort = %q, LinksTopK = %d, want values from .env", cfg.APIPort, cfg.LinksTopK)
	}
}

func TestLoad_CreatesDataDirectory(t *testing.T) {
	isolateEnv(t)

	// Use a temporary directory for testing
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test", "db.db")

	setEnv("SESSION_BACKEND", "sqlite")
	setEnv("DB_PATH", dbPath)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	// Check that directory was created
	dir := filepath.Dir(dbPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Errorf("Load() should create data directory: %v", err)
	}

	if cfg.DBPath != dbPath {
		t.Errorf("Load() DBPath = %v, want %v", cfg.DBPath, dbPath)
	}
}

func TestGetEnv(t *testing.T) {
	originalValue := os.Getenv("TEST_ENV_VAR")
	defer func() {
		if originalValue != "" {
			setEnv("TEST_ENV_VAR", originalValue)
		} else {
			unsetEnv("TEST_ENV_VAR")
		}
	}()

	tests := []struct {
		name         string
		setupEnv     func()
		key          string
		defaultValue string
		want         string
	}{
		{
			name: "env var set",
			setupEnv: func() {
				setEnv("TEST_ENV_VAR", "set-value")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "set-value",
		},
		{
			name: "env var not set",
			setupEnv: func() {
				unsetEnv("TEST_ENV_VAR")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "default",
		},
		{
			name: "empty env var uses default",
			setupEnv: func() {
				setEnv("TEST_ENV_VAR", "")
			},
			key:          "TEST_ENV_VAR",
			defaultValue: "default",
			want:         "default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupEnv()
			got := getEnv(tt.key, tt.defaultValue)
			if got != tt.want {
				t.Errorf("getEnv(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.want)
			}
		})
	}
}
