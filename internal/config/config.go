package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Diff  Diff  `mapstructure:"diff"`
	Redis Redis `mapstructure:"redis"`
	Repos Repos `mapstructure:"repos"`
	Log   Log   `mapstructure:"log"`
}

// Diff selects the word diff backend ("dmp" or "naive") and where segment
// sets are kept between compare and apply when no Redis URL is set.
type Diff struct {
	Backend  string `mapstructure:"backend"`
	StoreDir string `mapstructure:"store_dir"`
}

// Redis holds segment-set cache configuration. An empty URL keeps segment
// sets as files under diff.store_dir.
type Redis struct {
	URL string        `mapstructure:"url"`
	TTL time.Duration `mapstructure:"ttl"`
}

// Repos holds the document version repositories.
type Repos struct {
	Dir    string `mapstructure:"dir"`
	Branch string `mapstructure:"branch"`
	Author string `mapstructure:"author"`
}

type Log struct {
	Level string `mapstructure:"level"`
}

func Defaults() Config {
	return Config{
		Diff:  Diff{Backend: "dmp", StoreDir: "./data/diffs"},
		Redis: Redis{URL: "", TTL: 24 * time.Hour},
		Repos: Repos{Dir: "./data/repos", Branch: "main", Author: "Redline"},
		Log:   Log{Level: "warn"},
	}
}

// Load reads the optional config file at path (or ./redline.yaml,
// ./config/redline.yaml) and applies REDLINE_* environment overrides on top
// of Defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Defaults()
	v := viper.New()

	v.SetDefault("diff.backend", cfg.Diff.Backend)
	v.SetDefault("diff.store_dir", cfg.Diff.StoreDir)
	v.SetDefault("redis.url", cfg.Redis.URL)
	v.SetDefault("redis.ttl", cfg.Redis.TTL)
	v.SetDefault("repos.dir", cfg.Repos.Dir)
	v.SetDefault("repos.branch", cfg.Repos.Branch)
	v.SetDefault("repos.author", cfg.Repos.Author)
	v.SetDefault("log.level", cfg.Log.Level)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("redline")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// REDLINE_REDIS_URL -> redis.url
	v.SetEnvPrefix("REDLINE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SlogLevel maps the configured level name onto a slog.Level.
func (l Log) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(l.Level)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
