package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the searchd API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Ranking   RankingConfig   `yaml:"ranking"`
	Suggest   SuggestConfig   `yaml:"suggest"`
	Promo     PromoConfig     `yaml:"promo"`
	Compose   ComposeConfig   `yaml:"compose"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds index backend connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"`
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	// Cache stores query embeddings in the database so repeated queries
	// skip the provider call.
	Cache bool `yaml:"cache"`
}

// CatalogConfig holds product index and retrieval settings.
type CatalogConfig struct {
	IndexName string `yaml:"index_name"`
	KeyPrefix string `yaml:"key_prefix"`
	// Overfetch is how many candidates retrieval pulls for the reranker,
	// deliberately larger than any page size. Larger improves reranking
	// quality, costs latency linearly.
	Overfetch       int `yaml:"overfetch"`
	DefaultPageSize int `yaml:"default_page_size"`
	MaxPageSize     int `yaml:"max_page_size"`
	HNSWM           int `yaml:"hnsw_m"`
	HNSWEFConstruct int `yaml:"hnsw_ef_construction"`
}

// RankingConfig holds the classifier and vectorizer artifact paths.
// Both must be present for learning-to-rank; otherwise the service falls
// back to semantic ordering at startup.
type RankingConfig struct {
	ModelPath      string `yaml:"model_path"`
	VocabularyPath string `yaml:"vocabulary_path"`
}

// SuggestConfig holds autosuggest settings.
type SuggestConfig struct {
	// Mode selects the fusion pipeline: "blended" (queries, categories,
	// products, brands) or "basic" (queries + products only).
	Mode        string `yaml:"mode"`
	DictPrefix  string `yaml:"dict_prefix"`
	Limit       int    `yaml:"limit"`
	QueryCap    int    `yaml:"query_cap"`
	ProductCap  int    `yaml:"product_cap"`
	CategoryCap int    `yaml:"category_cap"`
	BrandCap    int    `yaml:"brand_cap"`
}

// PromoConfig holds the promotional-item store paths.
type PromoConfig struct {
	AdsPath     string `yaml:"ads_path"`
	BannersPath string `yaml:"banners_path"`
}

// ComposeConfig holds page-composition data: ad slot positions and the
// category-to-layout map. Kept as configuration so tests can override them.
type ComposeConfig struct {
	AdSlots []int             `yaml:"ad_slots"`
	Layouts map[string]string `yaml:"layouts"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
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

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
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
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Catalog.IndexName == "" {
		c.Catalog.IndexName = "products:idx"
	}
	if c.Catalog.KeyPrefix == "" {
		c.Catalog.KeyPrefix = "product:"
	}
	if c.Catalog.Overfetch <= 0 {
		c.Catalog.Overfetch = 100
	}
	if c.Catalog.DefaultPageSize <= 0 {
		c.Catalog.DefaultPageSize = 20
	}
	if c.Catalog.MaxPageSize <= 0 {
		c.Catalog.MaxPageSize = 50
	}
	if c.Catalog.HNSWM <= 0 {
		c.Catalog.HNSWM = 32
	}
	if c.Catalog.HNSWEFConstruct <= 0 {
		c.Catalog.HNSWEFConstruct = 400
	}
	if c.Suggest.Mode == "" {
		c.Suggest.Mode = "blended"
	}
	if c.Suggest.DictPrefix == "" {
		c.Suggest.DictPrefix = "suggest:"
	}
	if c.Suggest.Limit <= 0 {
		c.Suggest.Limit = 15
	}
	if c.Suggest.QueryCap <= 0 {
		c.Suggest.QueryCap = 4
	}
	if c.Suggest.ProductCap <= 0 {
		c.Suggest.ProductCap = 3
	}
	if c.Suggest.CategoryCap <= 0 {
		c.Suggest.CategoryCap = 2
	}
	if c.Suggest.BrandCap <= 0 {
		c.Suggest.BrandCap = 1
	}
	if len(c.Compose.AdSlots) == 0 {
		c.Compose.AdSlots = []int{3, 9}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding.dimensions must be positive, got %d", c.Embedding.Dimensions)
	}
	switch c.Suggest.Mode {
	case "blended", "basic":
		// ok
	default:
		return fmt.Errorf("suggest.mode must be \"blended\" or \"basic\", got %q", c.Suggest.Mode)
	}
	for _, slot := range c.Compose.AdSlots {
		if slot < 1 {
			return fmt.Errorf("compose.ad_slots entries must be >= 1 (slot 0 is reserved for the banner), got %d", slot)
		}
	}
	for cat, layout := range c.Compose.Layouts {
		if layout != "grid" && layout != "list" {
			return fmt.Errorf("compose.layouts.%s must be \"grid\" or \"list\", got %q", cat, layout)
		}
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
