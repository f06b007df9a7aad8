package config

import (
	stderrors "errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/toyz/usersapi/internal/errors"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no path is given
const DefaultFile = "usersapi.yml"

// DotEnvFile supplies environment overrides that are not set in the process
// environment
const DotEnvFile = ".env"

// Supported web adapters
var Adapters = []string{"gin", "echo", "fiber", "chi"}

// Config holds application configuration
type Config struct {
	Port            int           `yaml:"port"`
	Adapter         string        `yaml:"adapter"`
	DatabasePath    string        `yaml:"databasePath"`
	Environment     string        `yaml:"environment"`
	LogLevel        string        `yaml:"logLevel"`
	LogFormat       string        `yaml:"logFormat"`
	DefaultLogLimit int           `yaml:"defaultLogLimit"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Port:            8080,
		Adapter:         "gin",
		DatabasePath:    "users.db",
		Environment:     "development",
		LogLevel:        "info",
		LogFormat:       "text",
		DefaultLogLimit: 50,
		ShutdownTimeout: 30 * time.Second,
	}
}

// IsDevelopment reports whether internal failure details may be exposed
func (c *Config) IsDevelopment() bool {
	return !strings.EqualFold(c.Environment, "production")
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Load reads defaults, then the YAML file at path, then environment
// overrides (process environment first, then DotEnvFile), and validates the
// result. An empty path reads DefaultFile if it exists; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	file, required := path, true
	if file == "" {
		file, required = DefaultFile, false
	}

	data, err := os.ReadFile(file)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.WrapConfigurationError(file, "parse", err)
		}
	case stderrors.Is(err, fs.ErrNotExist) && !required:
	default:
		return nil, errors.WrapConfigurationError(file, "read", err)
	}

	dotenv, err := godotenv.Read(DotEnvFile)
	if err != nil && !stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.WrapConfigurationError(DotEnvFile, "read", err)
	}
	getenv := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}

	if err := cfg.applyEnv(getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return errors.NewConfigurationError("PORT", "must be an integer")
		}
		c.Port = p
	}
	if v := getenv("DATABASE_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := getenv("APP_ENV"); v != "" {
		c.Environment = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := getenv("ADAPTER"); v != "" {
		c.Adapter = v
	}
	return nil
}

// Validate checks every field
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return errors.NewConfigurationError("port", "must be between 1 and 65535")
	}
	if !isAdapter(c.Adapter) {
		return errors.NewConfigurationError("adapter", "must be one of "+strings.Join(Adapters, ", "))
	}
	if c.DatabasePath == "" {
		return errors.NewConfigurationError("databasePath", "is required")
	}
	if c.DefaultLogLimit < 1 {
		return errors.NewConfigurationError("defaultLogLimit", "must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.NewConfigurationError("shutdownTimeout", "must be positive")
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return errors.NewConfigurationError("logFormat", "must be text or json")
	}
	return nil
}

func isAdapter(name string) bool {
	for _, a := range Adapters {
		if a == name {
			return true
		}
	}
	return false
}
