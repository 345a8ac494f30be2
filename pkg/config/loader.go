package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/mongomap/mongomap/pkg/observability/logger"
	"github.com/mongomap/mongomap/pkg/server/router/factory"
)

// Loader reads configuration from defaults, an optional config file, and
// environment variables, in increasing order of precedence.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a Loader with the MONGOMAP_ environment prefix.
func NewLoader() *Loader {
	v := viper.New()
	v.SetEnvPrefix("MONGOMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// Load reads configuration. path names an explicit config file; when empty,
// config.yaml in the working directory is used if present. A missing file is
// not an error, environment variables alone can configure the gateway.
func (l *Loader) Load(path string) (Config, error) {
	defaults := DefaultConfig()

	l.v.SetDefault("router_type", defaults.RouterType)
	l.v.SetDefault("service.name", defaults.Service.Name)
	l.v.SetDefault("service.environment", defaults.Service.Environment)
	l.v.SetDefault("http.port", defaults.HTTP.Port)
	l.v.SetDefault("http.read_timeout", defaults.HTTP.ReadTimeout)
	l.v.SetDefault("http.write_timeout", defaults.HTTP.WriteTimeout)
	l.v.SetDefault("http.idle_timeout", defaults.HTTP.IdleTimeout)
	l.v.SetDefault("mongo.url", defaults.Mongo.URL)
	l.v.SetDefault("mongo.database", defaults.Mongo.Database)
	l.v.SetDefault("mongo.connect_timeout", defaults.Mongo.ConnectTimeout)
	l.v.SetDefault("mongo.operation_timeout", defaults.Mongo.OperationTimeout)
	l.v.SetDefault("log.level", defaults.Log.Level)
	l.v.SetDefault("log.format", defaults.Log.Format)

	if path != "" {
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	} else {
		l.v.SetConfigName("config")
		l.v.SetConfigType("yaml")
		l.v.AddConfigPath(".")
		if err := l.v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks a Config for values the gateway cannot start with.
func Validate(cfg Config) error {
	if cfg.HTTP.Port < 1 || cfg.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", cfg.HTTP.Port)
	}
	if cfg.Mongo.URL == "" {
		return fmt.Errorf("mongo.url must not be empty")
	}
	if cfg.Mongo.Database == "" {
		return fmt.Errorf("mongo.database must not be empty")
	}
	if _, err := logger.ParseLogLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if _, err := logger.ParseLogFormat(cfg.Log.Format); err != nil {
		return fmt.Errorf("log.format: %w", err)
	}

	supported := false
	for _, t := range factory.SupportedTypes() {
		if t == cfg.RouterType {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("router_type %q is not supported (supported: %s)",
			cfg.RouterType, strings.Join(factory.SupportedTypes(), ", "))
	}

	seen := make(map[string]struct{}, len(cfg.Routes))
	for i, rt := range cfg.Routes {
		if rt.Collection == "" {
			return fmt.Errorf("routes[%d]: collection must not be empty", i)
		}
		if rt.Path == "" || !strings.HasPrefix(rt.Path, "/") {
			return fmt.Errorf("routes[%d]: path must start with /, got %q", i, rt.Path)
		}
		if _, dup := seen[rt.Path]; dup {
			return fmt.Errorf("routes[%d]: duplicate path %q", i, rt.Path)
		}
		seen[rt.Path] = struct{}{}
	}
	return nil
}
