package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"kronosphere/internal/logger"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile is read from the working directory when KRONOS_CONFIG is unset.
	DefaultFile = "kronosphere.yaml"

	// DotenvFile is read from the working directory when present.
	DotenvFile = ".env"

	EnvConfigFile  = "KRONOS_CONFIG"
	EnvDataDir     = "KRONOS_DATA_DIR"
	EnvDatabaseURL = "KRONOS_DATABASE_URL"
	EnvJSONLogs    = "KRONOS_JSON_LOGS"
	EnvLogLevel    = "LOG_LEVEL"
	EnvDebug       = "DEBUG"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// Config stores runtime configuration.
type Config struct {
	AppID        string `yaml:"app_id"`
	AppName      string `yaml:"app_name"`
	DataDir      string `yaml:"data_dir"`
	DatabaseURL  string `yaml:"database_url"`
	LogLevel     string `yaml:"log_level"`
	JSONLogs     bool   `yaml:"json_logs"`
	WindowWidth  int    `yaml:"window_width"`
	WindowHeight int    `yaml:"window_height"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		AppID:        "io.kronosphere.journal",
		AppName:      "Kronosphere",
		DataDir:      ".",
		DatabaseURL:  "sqlite:kronosphere.db",
		LogLevel:     "info",
		WindowWidth:  1100,
		WindowHeight: 760,
	}
}

// Load layers defaults, the YAML file, .env and the process environment,
// later sources winning.
func Load() (*Config, error) {
	cfg := Default()

	path := os.Getenv(EnvConfigFile)
	required := path != ""
	if path == "" {
		path = DefaultFile
	}
	if err := cfg.mergeFile(path, required); err != nil {
		return nil, err
	}

	dotenv, err := readDotenv(DotenvFile)
	if err != nil {
		return nil, err
	}

	if err := cfg.mergeEnv(lookup(dotenv)); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string, required bool) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return nil
		}
		return fmt.Errorf("open config %s: %w", path, err)
	}
	defer f.Close()

	return c.decode(f, path)
}

func (c *Config) decode(r io.Reader, name string) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", name, err)
	}
	return nil
}

func readDotenv(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	return values, nil
}

// lookup reads the process environment first and falls back to dotenv.
// An empty value counts as unset in both.
func lookup(dotenv map[string]string) func(string) string {
	return func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}
}

func (c *Config) mergeEnv(getenv func(string) string) error {
	if v := getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := getenv(EnvDatabaseURL); v != "" {
		c.DatabaseURL = v
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if v := getenv(EnvJSONLogs); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidConfig, EnvJSONLogs, v)
		}
		c.JSONLogs = b
	}
	if getenv(EnvDebug) == "1" {
		c.LogLevel = "debug"
	}
	return nil
}

func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.AppID) == "":
		return fmt.Errorf("%w: app_id is empty", ErrInvalidConfig)
	case strings.TrimSpace(c.DatabaseURL) == "":
		return fmt.Errorf("%w: database_url is empty", ErrInvalidConfig)
	case c.WindowWidth <= 0 || c.WindowHeight <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.WindowWidth, c.WindowHeight)
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
