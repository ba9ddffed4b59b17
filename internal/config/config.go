package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/satyacheck/internal/logger"
)

const (
	configPathEnv  = "CONFIG_PATH"
	defaultPath    = "config.yaml"
	aiAPIKeyEnv    = "AI_API_KEY"
	aiBaseURLEnv   = "AI_BASE_URL"
	dbDriverEnv    = "DATABASE_DRIVER"
	dbHostEnv      = "DATABASE_HOST"
	dbPasswordEnv  = "DATABASE_PASSWORD"
	redisAddrEnv   = "REDIS_ADDRESS"
	serverPortEnv  = "SERVER_PORT"
	logLevelEnv    = "LOG_LEVEL"
	minioAccessEnv = "MINIO_ACCESS_KEY"
	minioSecretEnv = "MINIO_SECRET_KEY"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Minio    MinioConfig    `yaml:"minio"`
	Redis    RedisConfig    `yaml:"redis"`
	AI       AIConfig       `yaml:"ai"`
	Models   ModelsConfig   `yaml:"models"`
	Fetcher  FetcherConfig  `yaml:"fetcher"`
	Cache    CacheConfig    `yaml:"cache"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Bulk     BulkConfig     `yaml:"bulk"`
	Logging  logger.Config  `yaml:"logging"`
}

type ServerConfig struct {
	Port           int               `yaml:"port"`
	ReadTimeout    time.Duration     `yaml:"readTimeout"`
	WriteTimeout   time.Duration     `yaml:"writeTimeout"`
	AllowedOrigins []string          `yaml:"allowedOrigins"`
	// APIKeys maps client name to key. Empty disables auth.
	APIKeys   map[string]string `yaml:"apiKeys"`
	RateLimit int               `yaml:"rateLimit"`
}

type DatabaseConfig struct {
	// Driver is mysql, postgres or empty (persistence disabled).
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslMode"`
}

type MinioConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Endpoint   string `yaml:"endpoint"`
	AccessKey  string `yaml:"accessKey"`
	SecretKey  string `yaml:"secretKey"`
	BucketName string `yaml:"bucketName"`
	Region     string `yaml:"region"`
	UseSSL     bool   `yaml:"useSSL"`
}

type RedisConfig struct {
	// Address empty means in-process caches only.
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AIConfig struct {
	APIKey string `yaml:"apiKey"`
	// BaseURL is an OpenAI-compatible chat endpoint.
	BaseURL string `yaml:"baseURL"`
	// CatalogURL lists models with their supported generation methods.
	CatalogURL        string        `yaml:"catalogURL"`
	Timeout           time.Duration `yaml:"timeout"`
	MaxTokens         int           `yaml:"maxTokens"`
	RequestsPerSecond float64       `yaml:"requestsPerSecond"`
	Burst             int           `yaml:"burst"`
}

type ModelsConfig struct {
	AutoDiscovery bool          `yaml:"autoDiscovery"`
	CacheTTL      time.Duration `yaml:"cacheTTL"`
	Timeout       time.Duration `yaml:"timeout"`
	Fallback      string        `yaml:"fallback"`
	Preferred     []string      `yaml:"preferred"`
	Patterns      []string      `yaml:"patterns"`
	Excluded      []string      `yaml:"excluded"`
}

type FetcherConfig struct {
	UserAgent        string        `yaml:"userAgent"`
	Timeout          time.Duration `yaml:"timeout"`
	MaxBodyBytes     int64         `yaml:"maxBodyBytes"`
	MinContentLength int           `yaml:"minContentLength"`
	MaxBodyText      int           `yaml:"maxBodyText"`
}

type CacheConfig struct {
	DefaultTTL     time.Duration `yaml:"defaultTTL"`
	FactCheckTTL   time.Duration `yaml:"factCheckTTL"`
	TranslationTTL time.Duration `yaml:"translationTTL"`
	MaxEntries     int           `yaml:"maxEntries"`
	LocalDir       string        `yaml:"localDir"`
	LocalMaxBytes  int64         `yaml:"localMaxBytes"`
	LocalTTL       time.Duration `yaml:"localTTL"`
}

type AnalysisConfig struct {
	// NLPLanguages gates entity and sentiment enrichment.
	NLPLanguages      []string `yaml:"nlpLanguages"`
	ReliableThreshold float64  `yaml:"reliableThreshold"`
	VerifyThreshold   float64  `yaml:"verifyThreshold"`
}

type BulkConfig struct {
	MaxConcurrency int           `yaml:"maxConcurrency"`
	MaxItems       int           `yaml:"maxItems"`
	ItemTimeout    time.Duration `yaml:"itemTimeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			ReadTimeout:    15 * time.Second,
			WriteTimeout:   120 * time.Second,
			AllowedOrigins: []string{"*"},
			RateLimit:      60,
		},
		Database: DatabaseConfig{Port: 3306, SSLMode: "disable"},
		Minio:    MinioConfig{BucketName: "satyacheck-batches", Region: "us-east-1"},
		AI: AIConfig{
			BaseURL:           "https://generativelanguage.googleapis.com/v1beta/openai",
			CatalogURL:        "https://generativelanguage.googleapis.com/v1beta/models",
			Timeout:           60 * time.Second,
			MaxTokens:         2048,
			RequestsPerSecond: 5,
			Burst:             5,
		},
		Models: ModelsConfig{
			AutoDiscovery: true,
			CacheTTL:      24 * time.Hour,
			Timeout:       10 * time.Second,
			Fallback:      "gemini-2.5-flash",
			Preferred: []string{
				"gemini-2.5-flash",
				"gemini-flash-latest",
				"gemini-2.5-pro",
				"gemini-pro-latest",
				"gemini-2.0-flash",
				"gemini-1.5-flash",
				"gemini-1.5-pro",
			},
			Patterns: []string{
				`gemini-.*-flash`,
				`gemini-.*-pro`,
				`gemini-2\.[0-9]+-.*`,
				`gemini-.*`,
			},
			Excluded: []string{
				"gemini-pro",
				"gemini-1.5-flash",
				"text-bison-001",
				"embedding-gecko-001",
				"embedding-001",
				"text-embedding-004",
			},
		},
		Fetcher: FetcherConfig{
			UserAgent:        "SatyaCheck/1.0 Content Analyzer",
			Timeout:          15 * time.Second,
			MaxBodyBytes:     5 << 20,
			MinContentLength: 200,
			MaxBodyText:      10000,
		},
		Cache: CacheConfig{
			DefaultTTL:     10 * time.Minute,
			FactCheckTTL:   24 * time.Hour,
			TranslationTTL: 7 * 24 * time.Hour,
			MaxEntries:     500,
			LocalDir:       ".satyacheck/cache",
			LocalMaxBytes:  50 << 20,
			LocalTTL:       24 * time.Hour,
		},
		Analysis: AnalysisConfig{
			NLPLanguages:      []string{"en"},
			ReliableThreshold: 0.8,
			VerifyThreshold:   0.6,
		},
		Bulk: BulkConfig{
			MaxConcurrency: 8,
			MaxItems:       100,
			ItemTimeout:    2 * time.Minute,
		},
		Logging: logger.Config{Level: "info"},
	}
}

// Path returns CONFIG_PATH or config.yaml.
func Path() string {
	if v := os.Getenv(configPathEnv); v != "" {
		return v
	}
	return defaultPath
}

// Load reads path over the defaults, applies env overrides and validates.
// A missing file at the default path is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && path == defaultPath:
	default:
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	cfg.applyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	setString(&c.AI.APIKey, aiAPIKeyEnv)
	setString(&c.AI.BaseURL, aiBaseURLEnv)
	setString(&c.Database.Driver, dbDriverEnv)
	setString(&c.Database.Host, dbHostEnv)
	setString(&c.Database.Password, dbPasswordEnv)
	setString(&c.Redis.Address, redisAddrEnv)
	setString(&c.Logging.Level, logLevelEnv)
	setString(&c.Minio.AccessKey, minioAccessEnv)
	setString(&c.Minio.SecretKey, minioSecretEnv)
	if v := os.Getenv(serverPortEnv); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
}

func setString(dst *string, env string) {
	if v := strings.TrimSpace(os.Getenv(env)); v != "" {
		*dst = v
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "", "mysql", "postgres":
	default:
		return fmt.Errorf("database.driver %q: want mysql, postgres or empty", c.Database.Driver)
	}
	if c.Models.Fallback == "" {
		return errors.New("models.fallback is required")
	}
	if c.Bulk.MaxConcurrency <= 0 {
		return errors.New("bulk.maxConcurrency must be positive")
	}
	if c.Analysis.VerifyThreshold > c.Analysis.ReliableThreshold {
		return errors.New("analysis.verifyThreshold must not exceed reliableThreshold")
	}
	if c.Cache.LocalMaxBytes <= 0 {
		return errors.New("cache.localMaxBytes must be positive")
	}
	return nil
}

// MySQLDSN builds the go-sql-driver DSN.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// PostgresDSN builds a lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
