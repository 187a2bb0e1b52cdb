// Package config loads CityGuide configuration from YAML files with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tutar/city-guide-sub000/internal/errors"
)

// Config represents the complete CityGuide configuration.
type Config struct {
	Version    int              `yaml:"version"`
	Paths      PathsConfig      `yaml:"paths"`
	Search     SearchConfig     `yaml:"search"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Ingest     IngestConfig     `yaml:"ingest"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// PathsConfig configures where data lives on disk.
type PathsConfig struct {
	// DataDir holds the catalog database and index files.
	DataDir string `yaml:"data_dir"`
	// CorpusDir holds the JSON corpus files to ingest.
	CorpusDir string `yaml:"corpus_dir"`
}

// SearchConfig configures lexical scoring, fusion, and result shaping.
type SearchConfig struct {
	// K1 is the BM25 term frequency saturation parameter.
	K1 float64 `yaml:"k1"`
	// B is the BM25 length normalization parameter.
	B float64 `yaml:"b"`

	// RRFConstant is the rank fusion smoothing parameter (k).
	// 60 is the standard from the original RRF paper.
	RRFConstant int `yaml:"rrf_constant"`

	// LexicalWeight and DenseWeight scale each path's RRF contribution.
	LexicalWeight float64 `yaml:"lexical_weight"`
	DenseWeight   float64 `yaml:"dense_weight"`

	// DefaultLimit is used when a request does not specify one.
	DefaultLimit int `yaml:"default_limit"`
	// MaxLimit caps the number of results per request.
	MaxLimit int `yaml:"max_limit"`

	// DenseTimeout bounds the embedding plus vector search leg
	// (duration string, e.g. "5s").
	DenseTimeout string `yaml:"dense_timeout"`

	// CacheSize is the number of query results to keep in memory.
	CacheSize int `yaml:"cache_size"`
	// CacheTTL expires cached query results (duration string, e.g. "5m").
	CacheTTL string `yaml:"cache_ttl"`
}

// DenseTimeoutDuration parses DenseTimeout, falling back to 5s.
func (s SearchConfig) DenseTimeoutDuration() time.Duration {
	return parseDuration(s.DenseTimeout, 5*time.Second)
}

// CacheTTLDuration parses CacheTTL, falling back to 5m.
func (s SearchConfig) CacheTTLDuration() time.Duration {
	return parseDuration(s.CacheTTL, 5*time.Minute)
}

// EmbeddingsConfig configures the embedding provider.
type EmbeddingsConfig struct {
	// Provider selects the embedder: "openai" or "static".
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	// Dimensions must match the vector index. 0 means provider default.
	Dimensions int `yaml:"dimensions"`
	BatchSize  int `yaml:"batch_size"`
	CacheSize  int `yaml:"cache_size"`
}

// IngestConfig configures corpus loading.
type IngestConfig struct {
	// WatchDebounce coalesces bursts of file events into one reload
	// (duration string, e.g. "500ms").
	WatchDebounce string `yaml:"watch_debounce"`
}

// WatchDebounceDuration parses WatchDebounce, falling back to 500ms.
func (i IngestConfig) WatchDebounceDuration() time.Duration {
	return parseDuration(i.WatchDebounce, 500*time.Millisecond)
}

// parseDuration parses a duration string, returning def when empty
// or invalid.
func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	FilePath  string `yaml:"file_path"`
	MaxSizeMB int    `yaml:"max_size_mb"`
	MaxFiles  int    `yaml:"max_files"`
}

// NewConfig returns a Config populated with defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Paths: PathsConfig{
			DataDir:   defaultDataDir(),
			CorpusDir: "corpus",
		},
		Search: SearchConfig{
			K1:            1.5,
			B:             0.75,
			RRFConstant:   60,
			LexicalWeight: 1.0,
			DenseWeight:   1.0,
			DefaultLimit:  10,
			MaxLimit:      100,
			DenseTimeout:  "5s",
			CacheSize:     256,
			CacheTTL:      "5m",
		},
		Embeddings: EmbeddingsConfig{
			Provider:  "static",
			BatchSize: 32,
			CacheSize: 1000,
		},
		Ingest: IngestConfig{
			WatchDebounce: "500ms",
		},
		Logging: LoggingConfig{
			Level:     "info",
			MaxSizeMB: 10,
			MaxFiles:  5,
		},
	}
}

// defaultDataDir returns the default data directory (~/.cityguide/data).
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".cityguide", "data")
	}
	return filepath.Join(home, ".cityguide", "data")
}

// Load loads configuration with increasing precedence:
//  1. Hardcoded defaults
//  2. cityguide.yaml (or .yml) in dir
//  3. Environment variables (CITYGUIDE_*)
func Load(dir string) (*Config, error) {
	cfg := NewConfig()

	if err := cfg.loadFromFile(dir); err != nil {
		return nil, err
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile loads cityguide.yaml or cityguide.yml from dir.
// A missing file is fine, defaults apply.
func (c *Config) loadFromFile(dir string) error {
	for _, name := range []string{"cityguide.yaml", "cityguide.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return c.loadYAML(path)
		}
	}
	return nil
}

// loadYAML loads and merges configuration from a YAML file.
func (c *Config) loadYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.New(errors.ErrCodeConfigNotFound,
			fmt.Sprintf("failed to read config file %s", path), err)
	}

	var parsed Config
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("failed to parse config file %s", path), err)
	}

	c.mergeWith(&parsed)
	return nil
}

// mergeWith merges non-zero values from other into c.
func (c *Config) mergeWith(other *Config) {
	if other.Version != 0 {
		c.Version = other.Version
	}

	if other.Paths.DataDir != "" {
		c.Paths.DataDir = other.Paths.DataDir
	}
	if other.Paths.CorpusDir != "" {
		c.Paths.CorpusDir = other.Paths.CorpusDir
	}

	if other.Search.K1 != 0 {
		c.Search.K1 = other.Search.K1
	}
	if other.Search.B != 0 {
		c.Search.B = other.Search.B
	}
	if other.Search.RRFConstant != 0 {
		c.Search.RRFConstant = other.Search.RRFConstant
	}
	if other.Search.LexicalWeight != 0 {
		c.Search.LexicalWeight = other.Search.LexicalWeight
	}
	if other.Search.DenseWeight != 0 {
		c.Search.DenseWeight = other.Search.DenseWeight
	}
	if other.Search.DefaultLimit != 0 {
		c.Search.DefaultLimit = other.Search.DefaultLimit
	}
	if other.Search.MaxLimit != 0 {
		c.Search.MaxLimit = other.Search.MaxLimit
	}
	if other.Search.DenseTimeout != "" {
		c.Search.DenseTimeout = other.Search.DenseTimeout
	}
	if other.Search.CacheSize != 0 {
		c.Search.CacheSize = other.Search.CacheSize
	}
	if other.Search.CacheTTL != "" {
		c.Search.CacheTTL = other.Search.CacheTTL
	}

	if other.Embeddings.Provider != "" {
		c.Embeddings.Provider = other.Embeddings.Provider
	}
	if other.Embeddings.Model != "" {
		c.Embeddings.Model = other.Embeddings.Model
	}
	if other.Embeddings.BaseURL != "" {
		c.Embeddings.BaseURL = other.Embeddings.BaseURL
	}
	if other.Embeddings.Dimensions != 0 {
		c.Embeddings.Dimensions = other.Embeddings.Dimensions
	}
	if other.Embeddings.BatchSize != 0 {
		c.Embeddings.BatchSize = other.Embeddings.BatchSize
	}
	if other.Embeddings.CacheSize != 0 {
		c.Embeddings.CacheSize = other.Embeddings.CacheSize
	}

	if other.Ingest.WatchDebounce != "" {
		c.Ingest.WatchDebounce = other.Ingest.WatchDebounce
	}

	if other.Logging.Level != "" {
		c.Logging.Level = other.Logging.Level
	}
	if other.Logging.FilePath != "" {
		c.Logging.FilePath = other.Logging.FilePath
	}
	if other.Logging.MaxSizeMB != 0 {
		c.Logging.MaxSizeMB = other.Logging.MaxSizeMB
	}
	if other.Logging.MaxFiles != 0 {
		c.Logging.MaxFiles = other.Logging.MaxFiles
	}
}

// applyEnvOverrides applies CITYGUIDE_* environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CITYGUIDE_DATA_DIR"); v != "" {
		c.Paths.DataDir = v
	}
	if v := os.Getenv("CITYGUIDE_CORPUS_DIR"); v != "" {
		c.Paths.CorpusDir = v
	}
	if v := os.Getenv("CITYGUIDE_RRF_CONSTANT"); v != "" {
		if k, err := strconv.Atoi(v); err == nil && k > 0 {
			c.Search.RRFConstant = k
		}
	}
	if v := os.Getenv("CITYGUIDE_LEXICAL_WEIGHT"); v != "" {
		if w, err := strconv.ParseFloat(v, 64); err == nil && w >= 0 {
			c.Search.LexicalWeight = w
		}
	}
	if v := os.Getenv("CITYGUIDE_DENSE_WEIGHT"); v != "" {
		if w, err := strconv.ParseFloat(v, 64); err == nil && w >= 0 {
			c.Search.DenseWeight = w
		}
	}
	if v := os.Getenv("CITYGUIDE_EMBEDDINGS_PROVIDER"); v != "" {
		c.Embeddings.Provider = v
	}
	if v := os.Getenv("CITYGUIDE_EMBEDDINGS_MODEL"); v != "" {
		c.Embeddings.Model = v
	}
	if v := os.Getenv("CITYGUIDE_EMBEDDINGS_BASE_URL"); v != "" {
		c.Embeddings.BaseURL = v
	}
	if v := os.Getenv("CITYGUIDE_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// APIKey returns the embedding API key. Keys live in the environment
// only, never in config files.
func (c *Config) APIKey() string {
	return os.Getenv("CITYGUIDE_OPENAI_API_KEY")
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Search.K1 < 0 {
		return errors.ConfigError(fmt.Sprintf("search.k1 must be >= 0, got %v", c.Search.K1), nil)
	}
	if c.Search.B < 0 || c.Search.B > 1 {
		return errors.ConfigError(fmt.Sprintf("search.b must be in [0, 1], got %v", c.Search.B), nil)
	}
	if c.Search.RRFConstant <= 0 {
		return errors.ConfigError(fmt.Sprintf("search.rrf_constant must be > 0, got %d", c.Search.RRFConstant), nil)
	}
	if c.Search.LexicalWeight < 0 || c.Search.DenseWeight < 0 {
		return errors.ConfigError("search weights must be >= 0", nil)
	}
	if c.Search.DefaultLimit <= 0 {
		return errors.ConfigError(fmt.Sprintf("search.default_limit must be > 0, got %d", c.Search.DefaultLimit), nil)
	}
	if c.Search.MaxLimit < c.Search.DefaultLimit {
		return errors.ConfigError(fmt.Sprintf("search.max_limit (%d) must be >= search.default_limit (%d)",
			c.Search.MaxLimit, c.Search.DefaultLimit), nil)
	}
	if p := c.Embeddings.Provider; p != "" && p != "openai" && p != "static" {
		return errors.ConfigError(fmt.Sprintf("embeddings.provider must be openai or static, got %q", p), nil)
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = "info"
	}
	return nil
}
