// Package config reads nah-machine settings from viper (flags, NAH_* env, config file).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable key.
const EnvPrefix = "NAH"

// Config is the resolved application configuration.
type Config struct {
	Store   StoreConfig
	Gateway GatewayConfig
	Gemini  GeminiConfig
	Catalog CatalogConfig
	Server  ServerConfig
	Log     LogConfig
}

type StoreConfig struct {
	Driver    string
	Path      string
	Key       string
	RedisAddr string
	RedisDB   int
}

type GatewayConfig struct {
	Source    string // catalog or remote
	RemoteURL string
	Timeout   time.Duration
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type CatalogConfig struct {
	Professional bool
}

type ServerConfig struct {
	Listen       string
	AllowOrigins []string
}

type LogConfig struct {
	Mode  string
	Level string
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "")
	v.SetDefault("store.key", "nah-machine-storage")
	v.SetDefault("store.redis_addr", "localhost:6379")
	v.SetDefault("store.redis_db", 0)

	v.SetDefault("gateway.source", "catalog")
	v.SetDefault("gateway.remote_url", "https://naas.isalman.dev/no")
	v.SetDefault("gateway.timeout", 10*time.Second)

	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	v.SetDefault("gemini.timeout", 30*time.Second)

	v.SetDefault("catalog.professional", false)

	v.SetDefault("server.listen", "127.0.0.1:8080")
	v.SetDefault("server.allow_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})

	v.SetDefault("log.mode", "dev")
	v.SetDefault("log.level", "info")
}

// BindEnv enables NAH_* environment variables on v. GEMINI_API_KEY is also
// honoured for the api key.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("gemini.api_key", EnvPrefix+"_GEMINI_API_KEY", "GEMINI_API_KEY")
}

// ReadFile merges a config file into v. Empty path is a no-op.
func ReadFile(v *viper.Viper, path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	v.SetConfigFile(ExpandHome(path))
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// FromViper resolves a Config from v.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Store: StoreConfig{
			Driver:    strings.ToLower(strings.TrimSpace(v.GetString("store.driver"))),
			Path:      v.GetString("store.path"),
			Key:       v.GetString("store.key"),
			RedisAddr: v.GetString("store.redis_addr"),
			RedisDB:   v.GetInt("store.redis_db"),
		},
		Gateway: GatewayConfig{
			Source:    strings.ToLower(strings.TrimSpace(v.GetString("gateway.source"))),
			RemoteURL: v.GetString("gateway.remote_url"),
			Timeout:   v.GetDuration("gateway.timeout"),
		},
		Gemini: GeminiConfig{
			APIKey:  strings.TrimSpace(v.GetString("gemini.api_key")),
			Model:   v.GetString("gemini.model"),
			BaseURL: v.GetString("gemini.base_url"),
			Timeout: v.GetDuration("gemini.timeout"),
		},
		Catalog: CatalogConfig{
			Professional: v.GetBool("catalog.professional"),
		},
		Server: ServerConfig{
			Listen:       v.GetString("server.listen"),
			AllowOrigins: splitList(v.GetStringSlice("server.allow_origins")),
		},
		Log: LogConfig{
			Mode:  v.GetString("log.mode"),
			Level: v.GetString("log.level"),
		},
	}

	switch cfg.Gateway.Source {
	case "catalog", "remote":
	default:
		return cfg, fmt.Errorf("unknown gateway.source %q (use catalog or remote)", cfg.Gateway.Source)
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = DefaultStorePath(cfg.Store.Driver)
	}
	cfg.Store.Path = ExpandHome(cfg.Store.Path)
	return cfg, nil
}

// splitList flattens comma-separated entries, so NAH_SERVER_ALLOW_ORIGINS=a,b
// yields two values. Blank entries are dropped.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// DefaultStorePath returns the per-user default location for a file-backed driver.
func DefaultStorePath(driver string) string {
	home, _ := os.UserHomeDir()
	name := "state.db"
	if driver == "file" || driver == "json" {
		name = "state.json"
	}
	return filepath.Join(home, ".nah-machine", name)
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}
