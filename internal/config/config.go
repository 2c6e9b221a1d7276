package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL          string
	LLMModelName        string
	LLMAPIKey           string
	LLMTimeout          time.Duration
	LLMMaxRetries       int
	LLMRetryBackoff     time.Duration
	EmbeddingBaseURL    string
	EmbeddingModelName  string
	EmbeddingVectorSize int
	QdrantURL           string
	QdrantCollection    string
	CorpusPath          string
	DBPath              string
	SessionStore        string
	StopwordSource      string
	DefaultLanguage     string
	LexicalWeight       float64
	VectorWeight        float64
	ClarificationMargin float64
	VectorTopK          int
	MaxResults          int
	APIPort             string
	LogLevel            string
	LogFormat           string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load() // Try current directory

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
		LLMBaseURL:         getEnv("LLM_BASE_URL", "http://localhost:8080"),
		LLMModelName:       getEnv("LLM_MODEL", "Llama-3.1-8B-Instruct"),
		LLMAPIKey:          getEnv("LLM_API_KEY", "dummy-key"),
		EmbeddingBaseURL:   getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "granite-embedding-278m-multilingual"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "rne_documents"),
		CorpusPath:         getEnv("CORPUS_PATH", "./data/rne_corpus.json"),
		DBPath:             getEnv("DB_PATH", "./data/rne-assistant.db"),
		SessionStore:       getEnv("SESSION_STORE", "memory"),
		StopwordSource:     getEnv("STOPWORD_SOURCE", "lexicon"),
		DefaultLanguage:    getEnv("DEFAULT_LANGUAGE", "fr"),
		APIPort:            getEnv("API_PORT", "9000"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	if cfg.SessionStore != "memory" && cfg.SessionStore != "sqlite" {
		return nil, fmt.Errorf("SESSION_STORE must be memory or sqlite, got %q", cfg.SessionStore)
	}
	if cfg.StopwordSource != "lexicon" && cfg.StopwordSource != "builtin" {
		return nil, fmt.Errorf("STOPWORD_SOURCE must be lexicon or builtin, got %q", cfg.StopwordSource)
	}

	// This must match the output vector size of the embeddings model. If the
	// vector size changes, the Qdrant collection must be recreated.
	vectorSizeStr := getEnv("EMBEDDING_VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("EMBEDDING_VECTOR_SIZE must be greater than 0")
	}
	cfg.EmbeddingVectorSize = vectorSize

	cfg.LLMTimeout, err = getDuration("LLM_TIMEOUT", 60*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.LLMRetryBackoff, err = getDuration("LLM_RETRY_BACKOFF", 500*time.Millisecond)
	if err != nil {
		return nil, err
	}
	cfg.LLMMaxRetries, err = getInt("LLM_MAX_RETRIES", 2)
	if err != nil {
		return nil, err
	}

	cfg.LexicalWeight, err = getFloat("LEXICAL_WEIGHT", 0.5)
	if err != nil {
		return nil, err
	}
	cfg.VectorWeight, err = getFloat("VECTOR_WEIGHT", 0.5)
	if err != nil {
		return nil, err
	}
	cfg.ClarificationMargin, err = getFloat("CLARIFICATION_MARGIN", 0.1)
	if err != nil {
		return nil, err
	}
	cfg.VectorTopK, err = getInt("VECTOR_TOP_K", 20)
	if err != nil {
		return nil, err
	}
	cfg.MaxResults, err = getInt("MAX_RESULTS", 5)
	if err != nil {
		return nil, err
	}

	if cfg.LexicalWeight < 0 || cfg.VectorWeight < 0 || cfg.LexicalWeight+cfg.VectorWeight == 0 {
		return nil, fmt.Errorf("LEXICAL_WEIGHT and VECTOR_WEIGHT must be non-negative and not both zero")
	}

	// Create ./data directory if it doesn't exist (for the DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid number: %w", key, err)
	}
	return f, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid duration: %w", key, err)
	}
	return d, nil
}
