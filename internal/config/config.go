package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/vango-dev/routetree/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "routetree.json"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "ROUTETREE_"

	// DefaultRoutesFile is the default route configuration file.
	DefaultRoutesFile = "routes.json"

	// DefaultInspectorPort is the default inspector port.
	DefaultInspectorPort = 7070

	// DefaultInspectorHost is the default inspector host.
	DefaultInspectorHost = "localhost"

	// DefaultCacheSize is the default number of deferred configurations
	// kept between navigations.
	DefaultCacheSize = 128
)

// Config represents the complete routetree.json configuration.
type Config struct {
	// Routes contains route configuration sources.
	Routes RoutesConfig `json:"routes" envPrefix:"ROUTES_"`

	// RootComponent is the component of the root route.
	RootComponent string `json:"rootComponent,omitempty" env:"ROOT_COMPONENT"`

	// Inspector contains inspector server settings.
	Inspector InspectorConfig `json:"inspector" envPrefix:"INSPECTOR_"`

	// Log contains logging settings.
	Log LogConfig `json:"log" envPrefix:"LOG_"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// RoutesConfig says where route configurations come from.
type RoutesConfig struct {
	// File is the top-level route configuration (JSON or YAML).
	File string `json:"file,omitempty" env:"FILE"`

	// Dir holds deferred child configurations, one file per key.
	Dir string `json:"dir,omitempty" env:"DIR"`

	// S3 loads deferred child configurations from a bucket instead of Dir.
	S3 S3Config `json:"s3,omitempty" envPrefix:"S3_"`

	// CacheSize bounds the deferred configuration cache.
	CacheSize int `json:"cacheSize,omitempty" env:"CACHE_SIZE"`
}

// S3Config locates deferred configurations in S3.
type S3Config struct {
	Bucket string `json:"bucket,omitempty" env:"BUCKET"`
	Prefix string `json:"prefix,omitempty" env:"PREFIX"`
	Region string `json:"region,omitempty" env:"REGION"`
}

// InspectorConfig contains inspector server settings.
type InspectorConfig struct {
	Host string `json:"host,omitempty" env:"HOST"`
	Port int    `json:"port,omitempty" env:"PORT"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `json:"level,omitempty" env:"LEVEL"`

	// Format is text or json.
	Format string `json:"format,omitempty" env:"FORMAT"`
}

// New creates a new Config with default values.
func New() *Config {
	c := &Config{}
	c.applyDefaults()
	return c
}

// Load reads routetree.json from dir, then applies overrides from the
// environment and from dir/.env.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path, then applies
// overrides from the environment and from the .env file next to it.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("R121").
				WithDetail("No " + ConfigFileName + " found at " + path).
				WithSuggestion("Run 'routetree init' to create one")
		}
		return nil, errors.New("R120").Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("R120").
			WithDetail("Failed to parse " + ConfigFileName + ": " + err.Error()).
			WithSuggestion("Check that " + ConfigFileName + " is valid JSON")
	}
	cfg.configPath = path

	dotenv := filepath.Join(filepath.Dir(path), ".env")
	if err := cfg.ApplyEnv(dotenv); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from ROUTETREE_* variables. Values from the
// given .env files are used where the process environment has none; files
// that do not exist are skipped.
func (c *Config) ApplyEnv(dotenvFiles ...string) error {
	vars := make(map[string]string)
	for _, file := range dotenvFiles {
		values, err := godotenv.Read(file)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.New("R120").
				WithDetail("Failed to read " + file).
				Wrap(err)
		}
		for k, v := range values {
			if _, ok := vars[k]; !ok {
				vars[k] = v
			}
		}
	}
	for k, v := range env.ToMap(os.Environ()) {
		vars[k] = v
	}

	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix, Environment: vars}); err != nil {
		return errors.New("R120").
			WithDetail("Invalid environment override").
			Wrap(err)
	}
	return nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryCLI, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("R120").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("R120").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

func (c *Config) applyDefaults() {
	if c.Routes.File == "" {
		c.Routes.File = DefaultRoutesFile
	}
	if c.Routes.CacheSize == 0 {
		c.Routes.CacheSize = DefaultCacheSize
	}
	if c.Inspector.Host == "" {
		c.Inspector.Host = DefaultInspectorHost
	}
	if c.Inspector.Port == 0 {
		c.Inspector.Port = DefaultInspectorPort
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Inspector.Port < 0 || c.Inspector.Port > 65535 {
		return errors.New("R120").
			WithDetail("inspector.port must be between 0 and 65535")
	}
	if c.Routes.CacheSize < 0 {
		return errors.New("R120").
			WithDetail("routes.cacheSize must not be negative")
	}
	if c.Routes.S3.Bucket == "" && (c.Routes.S3.Prefix != "" || c.Routes.S3.Region != "") {
		return errors.New("R120").
			WithDetail("routes.s3 needs a bucket")
	}
	if c.Routes.S3.Bucket != "" && c.Routes.Dir != "" {
		return errors.New("R120").
			WithDetail("routes.dir and routes.s3 are mutually exclusive")
	}
	if _, ok := levels[strings.ToLower(c.Log.Level)]; !ok {
		return errors.New("R120").
			WithDetailf("log.level %q is not one of debug, info, warn, error", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("R120").
			WithDetailf("log.format %q is not one of text, json", c.Log.Format)
	}
	return nil
}

// RoutesPath returns the absolute path to the route configuration file.
func (c *Config) RoutesPath() string {
	return c.resolve(c.Routes.File)
}

// RoutesDir returns the absolute path to the deferred configuration
// directory, or "" when none is configured.
func (c *Config) RoutesDir() string {
	if c.Routes.Dir == "" {
		return ""
	}
	return c.resolve(c.Routes.Dir)
}

func (c *Config) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// InspectorAddress returns the address the inspector listens on.
func (c *Config) InspectorAddress() string {
	return c.Inspector.Host + ":" + strconv.Itoa(c.Inspector.Port)
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	return levels[strings.ToLower(c.Log.Level)]
}

// NewLogger creates a logger writing to w with the configured level and
// format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel()}
	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}

// FindProjectRoot walks up directories to find the directory containing
// routetree.json.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("R121").
				WithDetail("No " + ConfigFileName + " found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'routetree init' to create one")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the nearest routetree.json
// at or above the working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
