package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/supportqa/internal/domain"
)

// Config holds the supportqa server configuration.
type Config struct {
	HTTP       HTTPConfig       `yaml:"http"`
	Database   DatabaseConfig   `yaml:"database"`
	Embedding  EmbeddingConfig  `yaml:"embedding"`
	Generation GenerationConfig `yaml:"generation"`
	Auth       AuthConfig       `yaml:"auth"`
	Index      IndexConfig      `yaml:"index"`
	Knowledge  KnowledgeConfig  `yaml:"knowledge"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Driver           string   `yaml:"driver"` // valkey, redis (default: redis)
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	DB               int      `yaml:"db"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// IndexConfig holds vector index settings.
type IndexConfig struct {
	Collection      string `yaml:"collection"`
	Algorithm       string `yaml:"algorithm"` // HNSW, FLAT
	HNSWM           int    `yaml:"hnsw_m"`
	HNSWEFConstruct int    `yaml:"hnsw_ef_construction"`
}

// EmbeddingConfig holds embedding provider and vectorizer settings.
type EmbeddingConfig struct {
	Provider            string `yaml:"provider"`
	APIKey              string `yaml:"api_key"`
	BaseURL             string `yaml:"base_url"`
	Model               string `yaml:"model"`
	Dimensions          int    `yaml:"dimensions"`
	DocumentInstruction string `yaml:"document_instruction"`
	QueryInstruction    string `yaml:"query_instruction"`
	BatchSize           int    `yaml:"batch_size"`
	CacheTTLHours       int    `yaml:"cache_ttl_hours"` // 0 keeps cached vectors forever
}

// GenerationConfig holds chat completion settings.
type GenerationConfig struct {
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
	MaxTokens   int     `yaml:"max_tokens"`
}

// KnowledgeConfig holds knowledge base settings.
type KnowledgeConfig struct {
	CSVPath       string `yaml:"csv_path"` // loaded on start when the index is empty
	MaxUploadMB   int    `yaml:"max_upload_mb"`
	AdjacencyPath string `yaml:"adjacency_path"` // YAML override of the built-in table
	// AdjacencyDefaultFallback lets contexts without a table use the default one.
	AdjacencyDefaultFallback bool `yaml:"adjacency_default_fallback"`
}

// RetrievalConfig holds search and answer composition settings.
type RetrievalConfig struct {
	TopK              int  `yaml:"top_k"`
	ContextDocs       int  `yaml:"context_docs"`
	RelatedCandidates int  `yaml:"related_candidates"`
	MaxRelated        int  `yaml:"max_related"`
	MaxQueryRunes     int  `yaml:"max_query_runes"`
	LLMSuggestions    bool `yaml:"llm_suggestions"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML config data, expanding ${VAR} references, applying defaults and validating.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.Driver == "" {
		c.Database.Driver = "redis"
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Index.Collection == "" {
		c.Index.Collection = "knowledge"
	}
	if c.Index.Algorithm == "" {
		c.Index.Algorithm = "HNSW"
	}
	if c.Index.HNSWM <= 0 {
		c.Index.HNSWM = 16
	}
	if c.Index.HNSWEFConstruct <= 0 {
		c.Index.HNSWEFConstruct = 200
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 1536
	}
	if c.Generation.Model == "" {
		c.Generation.Model = "gpt-4o-mini"
	}
	if c.Knowledge.MaxUploadMB <= 0 {
		c.Knowledge.MaxUploadMB = 10
	}
	if c.Retrieval.TopK <= 0 {
		c.Retrieval.TopK = 6
	}
	if c.Retrieval.ContextDocs <= 0 {
		c.Retrieval.ContextDocs = 4
	}
	if c.Retrieval.RelatedCandidates <= 0 {
		c.Retrieval.RelatedCandidates = 7
	}
	if c.Retrieval.MaxRelated <= 0 {
		c.Retrieval.MaxRelated = 3
	}
	if c.Retrieval.MaxQueryRunes <= 0 {
		c.Retrieval.MaxQueryRunes = 1000
	}
}

// Validate checks the configuration for correctness.
// Missing provider credentials wrap domain.ErrConfiguration.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	switch c.Database.Driver {
	case "redis", "valkey":
	default:
		return fmt.Errorf("database.driver must be \"redis\" or \"valkey\", got %q", c.Database.Driver)
	}
	switch strings.ToUpper(c.Index.Algorithm) {
	case "HNSW", "FLAT":
	default:
		return fmt.Errorf("index.algorithm must be \"HNSW\" or \"FLAT\", got %q", c.Index.Algorithm)
	}
	if c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding.api_key is required: %w", domain.ErrConfiguration)
	}
	if c.Generation.APIKey == "" {
		return fmt.Errorf("generation.api_key is required: %w", domain.ErrConfiguration)
	}
	if c.Generation.Temperature < 0 || c.Generation.Temperature > 2 {
		return fmt.Errorf("generation.temperature must be between 0 and 2, got %v", c.Generation.Temperature)
	}
	if c.Retrieval.ContextDocs > c.Retrieval.TopK {
		return fmt.Errorf("retrieval.context_docs (%d) must not exceed retrieval.top_k (%d)",
			c.Retrieval.ContextDocs, c.Retrieval.TopK)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
