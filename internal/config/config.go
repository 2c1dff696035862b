package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"SERVER_PORT" validate:"required,numeric"`
		Mode            string `yaml:"mode" env:"SERVER_MODE" validate:"oneof=development production test"`
		ShutdownTimeout string `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" validate:"duration"`
	} `yaml:"server"`

	// Backend is the records service every page is fetched from
	Backend struct {
		BaseURL string `yaml:"base_url" env:"BACKEND_BASE_URL" validate:"required,url"`
		Timeout string `yaml:"timeout" env:"BACKEND_TIMEOUT" validate:"duration"`
	} `yaml:"backend"`

	Console struct {
		FormDefaultYear int    `yaml:"form_default_year" env:"CONSOLE_FORM_DEFAULT_YEAR" validate:"min=2021,max=2026"`
		InitRetryDelay  string `yaml:"init_retry_delay" env:"CONSOLE_INIT_RETRY_DELAY" validate:"duration"`
		InitMinInterval string `yaml:"init_min_interval" env:"CONSOLE_INIT_MIN_INTERVAL" validate:"duration"`
		SubmissionTTL   string `yaml:"submission_ttl" env:"CONSOLE_SUBMISSION_TTL" validate:"duration"`
	} `yaml:"console"`

	// Confirm signs pending updates parked behind the impact confirmation
	Confirm struct {
		Secret string `yaml:"secret" env:"CONFIRM_SECRET" validate:"required,min=16"`
		TTL    string `yaml:"ttl" env:"CONFIRM_TTL" validate:"duration"`
		Issuer string `yaml:"issuer" env:"CONFIRM_ISSUER"`
	} `yaml:"confirm"`

	// Redis is optional; submissions are tracked in memory without it
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB" validate:"min=0"`
	} `yaml:"redis"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL" validate:"oneof=debug info warn error fatal"`
		Format string `yaml:"format" env:"LOG_FORMAT" validate:"oneof=json pretty"`
	} `yaml:"logging"`

	envApplied envOverrides
}

// LoadConfig loads configuration from a file, a .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env never overrides variables already present in the environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "3000"
	config.Server.Mode = "development"
	config.Server.ShutdownTimeout = "10s"

	config.Backend.BaseURL = "http://localhost:8080"
	config.Backend.Timeout = "10s"

	config.Console.FormDefaultYear = 2026
	config.Console.InitRetryDelay = "1s"
	config.Console.InitMinInterval = "5s"
	config.Console.SubmissionTTL = "10m"

	config.Confirm.TTL = "10m"
	config.Confirm.Issuer = "erpconsole"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	applied, err := processStructFields(config)
	if err != nil {
		return err
	}
	config.envApplied = applied
	return nil
}

// EnvOverrides lists the environment variables that overrode file values
func (c *Config) EnvOverrides() []string {
	return append([]string(nil), c.envApplied...)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("duration", func(fl validator.FieldLevel) bool {
		_, err := time.ParseDuration(fl.Field().String())
		return err == nil
	})
	return v
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if err := validate.Struct(config); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return errors.New(strings.Join(msgs, "; "))
		}
		return err
	}
	return nil
}

// BackendTimeout returns the per-request timeout for backend calls
func (c *Config) BackendTimeout() time.Duration {
	return mustDuration(c.Backend.Timeout, 10*time.Second)
}

// ShutdownTimeout returns the graceful shutdown window
func (c *Config) ShutdownTimeout() time.Duration {
	return mustDuration(c.Server.ShutdownTimeout, 10*time.Second)
}

// InitRetryDelay returns the wait between table creation and the refetch
func (c *Config) InitRetryDelay() time.Duration {
	return mustDuration(c.Console.InitRetryDelay, time.Second)
}

// InitMinInterval returns the minimum spacing between init requests
func (c *Config) InitMinInterval() time.Duration {
	return mustDuration(c.Console.InitMinInterval, 5*time.Second)
}

// SubmissionTTL returns how long a used submission id is remembered
func (c *Config) SubmissionTTL() time.Duration {
	return mustDuration(c.Console.SubmissionTTL, 10*time.Minute)
}

// ConfirmTTL returns the lifetime of a pending-update confirmation token
func (c *Config) ConfirmTTL() time.Duration {
	return mustDuration(c.Confirm.TTL, 10*time.Minute)
}

// durations are validated on load, the fallback only covers hand-built configs
func mustDuration(s string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
