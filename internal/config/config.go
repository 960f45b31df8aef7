package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const defaultConfigFile = "fintrack.toml"

// Config holds application configuration
type Config struct {
	Env string

	// Server
	Port string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// JWT
	JWTSecret        string
	JWTExpirationDur time.Duration

	// CORSOrigins lists browser origins allowed to call the API.
	CORSOrigins []string

	// PipelineAPIKey guards the scheduled-job endpoints. Empty disables them.
	PipelineAPIKey string

	// DefaultCurrency is applied to transactions that do not name one.
	DefaultCurrency string

	Parser ParserConfig
	LLM    LLMConfig
}

// ParserConfig overrides the keyword tables used to guess a category for
// natural-language entries. Empty tables keep the built-in defaults.
type ParserConfig struct {
	ExpenseRules []CategoryRule `toml:"expense_rules"`
	IncomeRules  []CategoryRule `toml:"income_rules"`
}

// CategoryRule maps description keywords to a category. Rules are matched
// in file order.
type CategoryRule struct {
	Category string   `toml:"category"`
	Keywords []string `toml:"keywords"`
}

// LLMConfig configures the optional OpenAI-compatible fallback parser.
type LLMConfig struct {
	Enabled bool
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// fileConfig is the on-disk TOML layout.
type fileConfig struct {
	DefaultCurrency string       `toml:"default_currency"`
	Parser          ParserConfig `toml:"parser"`
	LLM             struct {
		Enabled bool   `toml:"enabled"`
		BaseURL string `toml:"base_url"`
		APIKey  string `toml:"api_key"`
		Model   string `toml:"model"`
		Timeout string `toml:"timeout"`
	} `toml:"llm"`
}

var appConfig *Config

// Load reads configuration from .env, the environment and the optional TOML
// file named by CONFIG_FILE (default fintrack.toml). Environment variables
// win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "fintrack"),
		DBPassword: getEnv("DB_PASSWORD", "fintrack"),
		DBName:     getEnv("DB_NAME", "fintrack"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		JWTSecret:      getEnv("JWT_SECRET", "fallback-secret-key-for-dev-only"),
		PipelineAPIKey: os.Getenv("PIPELINE_API_KEY"),

		DefaultCurrency: "INR",
		LLM: LLMConfig{
			Model:   "llama3.1",
			Timeout: 20 * time.Second,
		},
	}

	expStr := getEnv("JWT_EXPIRES_IN", "15m")
	expDur, err := time.ParseDuration(expStr)
	if err != nil {
		log.Printf("Warning: invalid JWT_EXPIRES_IN value '%s', falling back to 15m\n", expStr)
		expDur = 15 * time.Minute
	}
	config.JWTExpirationDur = expDur

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				config.CORSOrigins = append(config.CORSOrigins, o)
			}
		}
	}

	path, explicit := os.LookupEnv("CONFIG_FILE")
	if !explicit {
		path = defaultConfigFile
	}
	if err := applyFile(config, path); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	applyEnvOverrides(config)

	appConfig = config
	return config, nil
}

// Get returns the loaded configuration, loading it on first use.
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

func applyFile(config *Config, path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if fc.DefaultCurrency != "" {
		config.DefaultCurrency = strings.ToUpper(fc.DefaultCurrency)
	}
	config.Parser = fc.Parser

	config.LLM.Enabled = fc.LLM.Enabled
	if fc.LLM.BaseURL != "" {
		config.LLM.BaseURL = fc.LLM.BaseURL
	}
	if fc.LLM.APIKey != "" {
		config.LLM.APIKey = fc.LLM.APIKey
	}
	if fc.LLM.Model != "" {
		config.LLM.Model = fc.LLM.Model
	}
	if fc.LLM.Timeout != "" {
		d, err := time.ParseDuration(fc.LLM.Timeout)
		if err != nil {
			return fmt.Errorf("invalid llm.timeout %q: %w", fc.LLM.Timeout, err)
		}
		config.LLM.Timeout = d
	}
	return nil
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("DEFAULT_CURRENCY"); v != "" {
		config.DefaultCurrency = strings.ToUpper(v)
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		config.LLM.BaseURL = v
		config.LLM.Enabled = true
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		config.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		config.LLM.Model = v
	}
	// Without a base url the client targets the hosted OpenAI endpoint, which
	// needs a key.
	if config.LLM.BaseURL == "" && config.LLM.APIKey == "" {
		config.LLM.Enabled = false
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
