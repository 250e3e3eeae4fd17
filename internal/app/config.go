package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"speedrun_pbs/internal/config"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	envPrefix     = "SPEEDRUN_"
	configFileEnv = "SPEEDRUN_CONFIG"
)

// ErrInvalidConfig is returned when a loaded configuration fails validation
var ErrInvalidConfig = errors.New("invalid config")

// Config holds application configuration
type Config struct {
	APIBaseURL         string        `koanf:"api_base_url"`
	RequestTimeout     time.Duration `koanf:"request_timeout"`
	HistoryPageSize    int           `koanf:"history_page_size"`
	HistoryConcurrency int           `koanf:"history_concurrency"`
	HistoryCacheTTL    time.Duration `koanf:"history_cache_ttl"`
	SpreadsheetID      string        `koanf:"spreadsheet_id"`
	CredentialsFile    string        `koanf:"credentials_file"`
	DeployURL          string        `koanf:"deploy_url"`
	DeployKeyPath      string        `koanf:"deploy_key_path"`
	ListenAddr         string        `koanf:"listen_addr"`
}

// DefaultConfig returns the configuration used when nothing overrides it
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:         config.DefaultFetchConfig.BaseURL,
		RequestTimeout:     config.DefaultFetchConfig.Timeout,
		HistoryPageSize:    config.DefaultFetchConfig.HistoryPageSize,
		HistoryConcurrency: config.DefaultFetchConfig.HistoryConcurrency,
		HistoryCacheTTL:    config.DefaultFetchConfig.HistoryCacheTTL,
		CredentialsFile:    "credentials.json",
		DeployKeyPath:      "deploy.pem",
		ListenAddr:         ":8080",
	}
}

// Fetch returns the upstream fetch settings
func (c *Config) Fetch() config.FetchConfig {
	return config.FetchConfig{
		BaseURL:            c.APIBaseURL,
		Timeout:            c.RequestTimeout,
		HistoryPageSize:    c.HistoryPageSize,
		HistoryConcurrency: c.HistoryConcurrency,
		HistoryCacheTTL:    c.HistoryCacheTTL,
	}
}

// SetupEnvironment loads .env file and configures zerolog output and log level.
func SetupEnvironment() {
	// Load .env file if it exists
	err := godotenv.Load()

	if os.Getenv("ENV") == "production" {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = log.Output(os.Stderr)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	levelStr := strings.ToLower(os.Getenv("LOGLEVEL"))
	switch levelStr {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	case "panic":
		zerolog.SetGlobalLevel(zerolog.PanicLevel)
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	case "":
		if os.Getenv("ENV") == "production" {
			zerolog.SetGlobalLevel(zerolog.WarnLevel)
		} else {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
		}
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		log.Warn().Msgf("Unknown LOGLEVEL '%s', defaulting to info.", levelStr)
	}

	// wait until now to report on the .env file so we have the chance to set up logging first
	if err == nil {
		log.Debug().Msg("Loaded environment variables from .env file.")
	} else {
		log.Debug().Msg("No .env file found or error loading .env file; proceeding with existing environment variables.")
	}
}

// LoadConfig builds a Config by layering defaults, an optional YAML file
// named by SPEEDRUN_CONFIG, and SPEEDRUN_* environment variables.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(configFileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	// SPEEDRUN_HISTORY_PAGE_SIZE -> history_page_size
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		if s == configFileEnv {
			return ""
		}
		return strings.ToLower(strings.TrimPrefix(s, envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	cfg := DefaultConfig()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the clients cannot work with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.APIBaseURL) == "" {
		return fmt.Errorf("%w: api_base_url must not be empty", ErrInvalidConfig)
	}
	if c.HistoryPageSize < 1 || c.HistoryPageSize > config.MaxHistoryPageSize {
		return fmt.Errorf("%w: history_page_size must be between 1 and %d, got %d",
			ErrInvalidConfig, config.MaxHistoryPageSize, c.HistoryPageSize)
	}
	if c.HistoryConcurrency < 1 {
		return fmt.Errorf("%w: history_concurrency must be at least 1, got %d", ErrInvalidConfig, c.HistoryConcurrency)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request_timeout must be positive", ErrInvalidConfig)
	}
	return nil
}
