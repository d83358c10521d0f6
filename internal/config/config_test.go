package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	summonerr "github.com/summon-dev/summon/internal/errors"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Server.Port != DefaultPort {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, DefaultPort)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, DefaultHost)
	}
	if cfg.Cache.Backend != CacheNone {
		t.Errorf("Cache.Backend = %q, want %q", cfg.Cache.Backend, CacheNone)
	}
	if cfg.Metrics.Path != "/metrics" {
		t.Errorf("Metrics.Path = %q", cfg.Metrics.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Address() != "localhost:3000" {
		t.Errorf("Address() = %q", cfg.Address())
	}
}

func TestLoadJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configJSON := `{
  "name": "shop",
  "server": {
    "host": "0.0.0.0",
    "port": 8080,
    "live": true
  },
  "render": {
    "hydrate": true
  },
  "cache": {
    "backend": "Pebble",
    "ttl": "5m"
  }
}
`
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Name != "shop" {
		t.Errorf("Name = %q", cfg.Name)
	}
	if cfg.Address() != "0.0.0.0:8080" {
		t.Errorf("Address() = %q", cfg.Address())
	}
	if !cfg.Server.Live || !cfg.Render.Hydrate {
		t.Error("boolean fields not loaded")
	}
	if cfg.Cache.Backend != CachePebble {
		t.Errorf("Cache.Backend = %q, want pebble", cfg.Cache.Backend)
	}
	if cfg.CacheTTL() != 5*time.Minute {
		t.Errorf("CacheTTL() = %v", cfg.CacheTTL())
	}
	if cfg.CacheDir() != filepath.Join(tmpDir, ".summon/cache") {
		t.Errorf("CacheDir() = %q", cfg.CacheDir())
	}
	if cfg.Path() != filepath.Join(tmpDir, ConfigFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configYAML := `name: blog
server:
  port: 9090
log:
  level: debug
  format: json
`
	if err := os.WriteFile(filepath.Join(tmpDir, YAMLConfigFileName), []byte(configYAML), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Name != "blog" || cfg.Server.Port != 9090 {
		t.Errorf("loaded %q on %d", cfg.Name, cfg.Server.Port)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Server.Host != DefaultHost {
		t.Errorf("defaults not applied: host %q", cfg.Server.Host)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(tmpDir)
	var se *summonerr.SummonError
	if !errors.As(err, &se) || se.Code != "E051" {
		t.Errorf("Load() error = %v, want E051", err)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("SUMMON_PORT", "4000")
	t.Setenv("SUMMON_LIVE", "true")
	t.Setenv("SUMMON_CACHE_BACKEND", "S3")
	t.Setenv("SUMMON_CACHE_BUCKET", "pages")
	t.Setenv("SUMMON_LOG_FORMAT", "json")

	cfg := New()
	cfg.Server.Host = "example.test"
	if err := cfg.ApplyEnv(); err != nil {
		t.Fatal(err)
	}

	if cfg.Server.Port != 4000 || !cfg.Server.Live {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.Host != "example.test" {
		t.Errorf("unset variable overwrote Host: %q", cfg.Server.Host)
	}
	if cfg.Cache.Backend != CacheS3 || cfg.Cache.Bucket != "pages" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q", cfg.Log.Format)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv("SUMMON_PORT", "not-a-number")
	err := New().ApplyEnv()
	var se *summonerr.SummonError
	if !errors.As(err, &se) || se.Code != "E050" {
		t.Errorf("ApplyEnv() error = %v, want E050", err)
	}
}

func TestLoadWithEnv(t *testing.T) {
	tmpDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(tmpDir, ConfigFileName), []byte(`{"server":{"port":8080}}`), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SUMMON_PORT", "8181")

	cfg, err := LoadWithEnv(tmpDir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Port != 8181 {
		t.Errorf("Server.Port = %d, want the environment value", cfg.Server.Port)
	}

	t.Setenv("SUMMON_CACHE_BACKEND", "redis")
	if _, err := LoadWithEnv(tmpDir); err == nil {
		t.Error("LoadWithEnv accepted an unknown cache backend")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, "Port"},
		{"bad timeout", func(c *Config) { c.Server.ReadTimeout = "soon" }, "server.readTimeout"},
		{"negative ttl", func(c *Config) { c.Cache.TTL = "-1s" }, "cache.ttl"},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "redis" }, "cache.backend"},
		{"s3 without bucket", func(c *Config) { c.Cache.Backend = CacheS3 }, "cache.bucket"},
		{"s3 with bucket", func(c *Config) { c.Cache.Backend = CacheS3; c.Cache.Bucket = "b" }, ""},
		{"sample ratio", func(c *Config) { c.Tracing.SampleRatio = 2 }, "sampleRatio"},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"metrics path", func(c *Config) { c.Metrics.Path = "metrics" }, "metrics.path"},
		{"negative sessions", func(c *Config) { c.Server.MaxSessions = -1 }, "maxSessions"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() = %v", err)
				}
				return
			}
			var se *summonerr.SummonError
			if !errors.As(err, &se) || se.Code != "E050" {
				t.Fatalf("Validate() = %v, want E050", err)
			}
			if !strings.Contains(se.Detail, tt.wantErr) {
				t.Errorf("Detail = %q, want mention of %q", se.Detail, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{ConfigFileName, YAMLConfigFileName} {
		t.Run(name, func(t *testing.T) {
			tmpDir := t.TempDir()
			cfg := New()
			cfg.Name = "roundtrip"
			cfg.Server.Port = 7070
			path := filepath.Join(tmpDir, name)
			if err := cfg.SaveTo(path); err != nil {
				t.Fatal(err)
			}

			loaded, err := LoadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if loaded.Name != "roundtrip" || loaded.Server.Port != 7070 {
				t.Errorf("loaded %+v", loaded)
			}
		})
	}
}

func TestSaveWithoutPath(t *testing.T) {
	if err := New().Save(); err == nil {
		t.Error("Save() without a path succeeded")
	}
}

func TestFindProjectRoot(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, YAMLConfigFileName), []byte("name: x\n"), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := filepath.Abs(root)
	if got != want {
		t.Errorf("FindProjectRoot() = %q, want %q", got, want)
	}
	if !Exists(root) || Exists(nested) {
		t.Error("Exists() wrong")
	}
}
