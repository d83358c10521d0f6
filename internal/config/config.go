package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/summon-dev/summon/internal/errors"
)

const (
	// ConfigFileName is the name of the JSON configuration file.
	ConfigFileName = "summon.json"

	// YAMLConfigFileName is the name of the YAML configuration file. It is
	// used when no JSON file exists.
	YAMLConfigFileName = "summon.yaml"

	// DefaultPort is the default server port.
	DefaultPort = 3000

	// DefaultHost is the default server host.
	DefaultHost = "localhost"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CachePebble = "pebble"
	CacheS3     = "s3"
)

// Config represents the complete summon.json configuration.
type Config struct {
	// Name is the application name, used as the tracing service name.
	Name string `json:"name,omitempty" yaml:"name,omitempty" env:"SUMMON_NAME"`

	// Server contains HTTP server configuration.
	Server ServerConfig `json:"server" yaml:"server"`

	// Render contains server rendering configuration.
	Render RenderConfig `json:"render" yaml:"render"`

	// Cache contains page cache configuration.
	Cache CacheConfig `json:"cache" yaml:"cache"`

	// Metrics contains Prometheus configuration.
	Metrics MetricsConfig `json:"metrics" yaml:"metrics"`

	// Tracing contains OpenTelemetry configuration.
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`

	// Log contains logging configuration.
	Log LogConfig `json:"log" yaml:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Host is the host to bind to.
	Host string `json:"host,omitempty" yaml:"host,omitempty" env:"SUMMON_HOST"`

	// Port is the port to listen on.
	Port int `json:"port,omitempty" yaml:"port,omitempty" env:"SUMMON_PORT"`

	// ReadTimeout bounds reading a request (e.g., "10s").
	ReadTimeout string `json:"readTimeout,omitempty" yaml:"readTimeout,omitempty" env:"SUMMON_READ_TIMEOUT"`

	// WriteTimeout bounds writing a response.
	WriteTimeout string `json:"writeTimeout,omitempty" yaml:"writeTimeout,omitempty" env:"SUMMON_WRITE_TIMEOUT"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout string `json:"shutdownTimeout,omitempty" yaml:"shutdownTimeout,omitempty" env:"SUMMON_SHUTDOWN_TIMEOUT"`

	// Live enables websocket sessions that recompose pages on events.
	Live bool `json:"live,omitempty" yaml:"live,omitempty" env:"SUMMON_LIVE"`

	// MaxSessions caps concurrent live sessions. Zero means no limit.
	MaxSessions int `json:"maxSessions,omitempty" yaml:"maxSessions,omitempty" env:"SUMMON_MAX_SESSIONS"`
}

// RenderConfig contains server rendering settings.
type RenderConfig struct {
	// Hydrate embeds the initial state script in every page.
	Hydrate bool `json:"hydrate,omitempty" yaml:"hydrate,omitempty" env:"SUMMON_HYDRATE"`

	// Pretty indents page markup. Development only.
	Pretty bool `json:"pretty,omitempty" yaml:"pretty,omitempty" env:"SUMMON_PRETTY"`

	// Lang is the document language.
	Lang string `json:"lang,omitempty" yaml:"lang,omitempty" env:"SUMMON_LANG"`

	// ClientScript is the src of the client runtime script, if any.
	ClientScript string `json:"clientScript,omitempty" yaml:"clientScript,omitempty" env:"SUMMON_CLIENT_SCRIPT"`
}

// CacheConfig contains page cache settings.
type CacheConfig struct {
	// Backend is one of "none", "memory", "pebble" or "s3".
	Backend string `json:"backend,omitempty" yaml:"backend,omitempty" env:"SUMMON_CACHE_BACKEND"`

	// TTL is the lifetime of cached pages (e.g., "5m"). Empty means no
	// expiry.
	TTL string `json:"ttl,omitempty" yaml:"ttl,omitempty" env:"SUMMON_CACHE_TTL"`

	// Dir is the pebble database directory.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty" env:"SUMMON_CACHE_DIR"`

	// Bucket is the S3 bucket.
	Bucket string `json:"bucket,omitempty" yaml:"bucket,omitempty" env:"SUMMON_CACHE_BUCKET"`

	// Prefix is the S3 key prefix.
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty" env:"SUMMON_CACHE_PREFIX"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes metrics.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty" env:"SUMMON_METRICS"`

	// Path is the metrics endpoint.
	Path string `json:"path,omitempty" yaml:"path,omitempty" env:"SUMMON_METRICS_PATH"`
}

// TracingConfig contains OpenTelemetry settings.
type TracingConfig struct {
	// Enabled installs a tracer provider.
	Enabled bool `json:"enabled,omitempty" yaml:"enabled,omitempty" env:"SUMMON_TRACING"`

	// SampleRatio is the fraction of traces sampled, in [0, 1].
	SampleRatio float64 `json:"sampleRatio,omitempty" yaml:"sampleRatio,omitempty" env:"SUMMON_TRACE_SAMPLE_RATIO"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of "debug", "info", "warn" or "error".
	Level string `json:"level,omitempty" yaml:"level,omitempty" env:"SUMMON_LOG_LEVEL"`

	// Format is "text" or "json".
	Format string `json:"format,omitempty" yaml:"format,omitempty" env:"SUMMON_LOG_FORMAT"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{Name: "summon"}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from dir. It looks for summon.json, then
// summon.yaml. A directory without either yields the defaults.
func Load(dir string) (*Config, error) {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName, "summon.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile reads configuration from the specified file path. Files ending
// in .yaml or .yml are parsed as YAML, everything else as JSON.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("E051").
			WithDetail("Cannot read " + path).
			Wrap(err)
	}

	cfg := &Config{Name: "summon"}
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return nil, errors.New("E051").
			WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error()).
			WithSuggestion("Check the file's syntax")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	return cfg, nil
}

// LoadWithEnv loads configuration from dir, applies SUMMON_* environment
// overrides and validates the result.
func LoadWithEnv(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from SUMMON_* environment variables. Unset
// variables leave the field unchanged.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return errors.New("E050").
			WithDetail("Invalid environment override").
			Wrap(err)
	}
	c.applyDefaults()
	return nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path, as YAML when the
// path ends in .yaml or .yml.
func (c *Config) SaveTo(path string) error {
	var data []byte
	var err error
	if isYAML(path) {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
		// Add newline at end of file
		data = append(data, '\n')
	}
	if err != nil {
		return errors.New("E051").Wrap(err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E051").Wrap(err)
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

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	// Server
	if c.Server.Host == "" {
		c.Server.Host = DefaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ReadTimeout == "" {
		c.Server.ReadTimeout = "10s"
	}
	if c.Server.WriteTimeout == "" {
		c.Server.WriteTimeout = "30s"
	}
	if c.Server.ShutdownTimeout == "" {
		c.Server.ShutdownTimeout = "15s"
	}

	// Render
	if c.Render.Lang == "" {
		c.Render.Lang = "en"
	}

	// Cache
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheNone
	}
	c.Cache.Backend = strings.ToLower(c.Cache.Backend)
	if c.Cache.Backend == CachePebble && c.Cache.Dir == "" {
		c.Cache.Dir = ".summon/cache"
	}

	// Metrics
	if c.Metrics.Path == "" {
		c.Metrics.Path = "/metrics"
	}

	// Tracing
	if c.Tracing.SampleRatio == 0 {
		c.Tracing.SampleRatio = 1
	}

	// Log
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	invalid := func(detail string) error {
		return errors.New("E050").WithDetail(detail)
	}

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return invalid("Port must be between 0 and 65535")
	}
	for name, v := range map[string]string{
		"server.readTimeout":     c.Server.ReadTimeout,
		"server.writeTimeout":    c.Server.WriteTimeout,
		"server.shutdownTimeout": c.Server.ShutdownTimeout,
		"cache.ttl":              c.Cache.TTL,
	} {
		if v == "" {
			continue
		}
		if d, err := time.ParseDuration(v); err != nil || d < 0 {
			return invalid(name + " must be a non-negative duration such as \"30s\", got " + strconv.Quote(v))
		}
	}
	if c.Server.MaxSessions < 0 {
		return invalid("server.maxSessions must not be negative")
	}

	switch c.Cache.Backend {
	case CacheNone, CacheMemory, CachePebble:
	case CacheS3:
		if c.Cache.Bucket == "" {
			return errors.New("E050").
				WithDetail("cache.bucket is required for the s3 backend").
				WithSuggestion("Set cache.bucket or SUMMON_CACHE_BUCKET")
		}
	default:
		return invalid("cache.backend must be one of none, memory, pebble, s3; got " + strconv.Quote(c.Cache.Backend))
	}

	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return invalid("tracing.sampleRatio must be between 0 and 1")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level must be one of debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format must be text or json")
	}
	if !strings.HasPrefix(c.Metrics.Path, "/") {
		return invalid("metrics.path must start with /")
	}
	return nil
}

// Address returns the address string for the server.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// URL returns the base URL of the server.
func (c *Config) URL() string {
	return "http://" + c.Address()
}

// ReadTimeout returns the parsed server read timeout.
func (c *Config) ReadTimeout() time.Duration { return duration(c.Server.ReadTimeout) }

// WriteTimeout returns the parsed server write timeout.
func (c *Config) WriteTimeout() time.Duration { return duration(c.Server.WriteTimeout) }

// ShutdownTimeout returns the parsed graceful shutdown timeout.
func (c *Config) ShutdownTimeout() time.Duration { return duration(c.Server.ShutdownTimeout) }

// CacheTTL returns the parsed cache TTL. Zero means no expiry.
func (c *Config) CacheTTL() time.Duration { return duration(c.Cache.TTL) }

// CacheDir returns the absolute path to the pebble cache directory.
func (c *Config) CacheDir() string {
	if filepath.IsAbs(c.Cache.Dir) {
		return c.Cache.Dir
	}
	return filepath.Join(c.Dir(), c.Cache.Dir)
}

func duration(v string) time.Duration {
	d, _ := time.ParseDuration(v)
	return d
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName, "summon.yml"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing a config file, or an error if not found.
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
			return "", errors.New("E051").
				WithDetail("No summon.json or summon.yaml found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'summon init' to create one")
		}
		dir = parent
	}
}
