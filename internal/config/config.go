package config

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the cvdex configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Index     IndexConfig     `yaml:"index"`
	Analysis  AnalysisConfig  `yaml:"analysis"`
	Auth      AuthConfig      `yaml:"auth"`
	Logging   LoggingConfig   `yaml:"logging"`
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
	WriteTimeoutSec int `yaml:"write_timeout_sec"` // covers a whole synchronous analysis run
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds Redis connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Username         string   `yaml:"username"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
}

// EmbeddingConfig holds the embedding provider settings.
type EmbeddingConfig struct {
	Provider         string `yaml:"provider"` // metrics label only
	APIKey           string `yaml:"api_key"`
	BaseURL          string `yaml:"base_url"`
	Model            string `yaml:"model"`
	Dimensions       int    `yaml:"dimensions"`
	QueryInstruction string `yaml:"query_instruction"`
	CacheTTLHours    int    `yaml:"cache_ttl_hours"` // 0 = no cache expiry
	BatchSize        int    `yaml:"batch_size"`
	// Attempts per request when the provider answers 429; 1 disables retries.
	RetryAttempts int `yaml:"retry_attempts"`
}

// LLMConfig holds the chat completion provider settings.
type LLMConfig struct {
	Provider          string  `yaml:"provider"`
	APIKey            string  `yaml:"api_key"`
	BaseURL           string  `yaml:"base_url"`
	Model             string  `yaml:"model"`
	Temperature       float32 `yaml:"temperature"`
	MaxTokens         int     `yaml:"max_tokens"`
	RequestTimeoutSec int     `yaml:"request_timeout_sec"`
}

// IndexConfig holds ingestion and HNSW index settings.
type IndexConfig struct {
	SourceDir       string `yaml:"source_dir"`
	ChunkSize       int    `yaml:"chunk_size"`
	ChunkOverlap    int    `yaml:"chunk_overlap"`
	HNSWM           int    `yaml:"hnsw_m"`
	HNSWEFConstruct int    `yaml:"hnsw_ef_construction"`
	MaxFiles        int    `yaml:"max_files"` // 0 = no limit
}

// AnalysisConfig holds retrieval and orchestration settings.
type AnalysisConfig struct {
	TopK             int     `yaml:"top_k"`
	SimilarityCutoff float64 `yaml:"similarity_cutoff"`
	Concurrency      int     `yaml:"concurrency"`
}

// RequestTimeout returns the per-call LLM timeout.
func (c LLMConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

// CacheTTL returns the embedding cache expiry.
func (c EmbeddingConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLHours) * time.Hour
}

// ConfigPathEnv names a config file that overrides the per-environment lookup.
const ConfigPathEnv = "CVDEX_CONFIG"

// Load reads config/<env>.yaml, or the file named by CVDEX_CONFIG.
func Load(env string) (Config, error) {
	if path := os.Getenv(ConfigPathEnv); path != "" {
		return LoadFile(path)
	}
	return LoadFile(findConfigPath(env))
}

// LoadFile reads a YAML file, expands ${VAR} references, applies defaults and validates.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", configPath, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(expandEnvVars(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", configPath, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}

// LoadDotEnv loads variables from the .env files that exist; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// GetEnv returns ENV, defaulting to "local".
func GetEnv() string {
	return cmp.Or(os.Getenv("ENV"), "local")
}

// positive replaces a non-positive *v with def.
func positive(v *int, def int) {
	if *v <= 0 {
		*v = def
	}
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	positive(&c.HTTP.Port, 8080)
	positive(&c.HTTP.ReadTimeoutSec, 10)
	positive(&c.HTTP.WriteTimeoutSec, 600) // a synchronous run over the whole directory
	positive(&c.HTTP.ShutdownSec, 10)

	positive(&c.Database.ReadinessTimeout, 10)
	c.Database.KeyPrefix = cmp.Or(c.Database.KeyPrefix, "cvdex:")

	c.Embedding.Provider = cmp.Or(c.Embedding.Provider, "openai")
	positive(&c.Embedding.BatchSize, 64)
	positive(&c.Embedding.RetryAttempts, 3)

	c.LLM.Provider = cmp.Or(c.LLM.Provider, "openai")
	positive(&c.LLM.RequestTimeoutSec, 60)

	c.Index.SourceDir = cmp.Or(c.Index.SourceDir, "data")
	positive(&c.Index.ChunkSize, 512)
	if c.Index.ChunkOverlap == 0 {
		c.Index.ChunkOverlap = 100
	}
	positive(&c.Index.HNSWM, 16)
	positive(&c.Index.HNSWEFConstruct, 200)

	positive(&c.Analysis.TopK, 2)
	positive(&c.Analysis.Concurrency, 1)

	// unset ${VAR} entries expand to empty strings and must not become valid keys
	keys := make([]string, 0, len(c.Auth.APIKeys))
	for _, k := range c.Auth.APIKeys {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	c.Auth.APIKeys = keys
}

// Validate reports every invalid field at once, joined.
func (c *Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf(format, args...))
		}
	}

	check(c.HTTP.Port > 0 && c.HTTP.Port <= 65535, "http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	check(len(c.Database.Addrs) > 0, "database.addrs is required")
	check(c.Embedding.Model != "", "embedding.model is required")
	check(c.Embedding.Dimensions > 0, "embedding.dimensions must be positive, got %d", c.Embedding.Dimensions)
	check(c.LLM.Model != "", "llm.model is required")
	check(c.LLM.Temperature >= 0 && c.LLM.Temperature <= 2,
		"llm.temperature must be in [0, 2], got %g", c.LLM.Temperature)
	check(c.Index.ChunkOverlap >= 0 && c.Index.ChunkOverlap < c.Index.ChunkSize,
		"index.chunk_overlap must be in [0, %d), got %d", c.Index.ChunkSize, c.Index.ChunkOverlap)
	check(c.Index.MaxFiles >= 0, "index.max_files must not be negative, got %d", c.Index.MaxFiles)
	check(c.Analysis.SimilarityCutoff >= 0 && c.Analysis.SimilarityCutoff <= 1,
		"analysis.similarity_cutoff must be in [0, 1], got %g", c.Analysis.SimilarityCutoff)

	return errors.Join(errs...)
}

// findConfigPath prefers ./config/<env>.yaml, then the repository's config dir.
func findConfigPath(env string) string {
	name := env + ".yaml"
	local := filepath.Join("config", name)
	if fileExists(local) {
		return local
	}
	_, self, _, _ := runtime.Caller(0)
	root := filepath.Dir(filepath.Dir(filepath.Dir(self))) // internal/config -> repository root
	if p := filepath.Join(root, "config", name); fileExists(p) {
		return p
	}
	return local
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars substitutes ${VAR} and ${VAR:-default}. An empty variable takes the default.
func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		name, def, hasDefault := strings.Cut(string(match[2:len(match)-1]), ":-")
		if v := os.Getenv(name); v != "" || !hasDefault {
			return []byte(v)
		}
		return []byte(def)
	})
}
