package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from file, environment and defaults.
type Config struct {
	Env      string   `mapstructure:"env"`       // production selects JSON logs
	LogLevel string   `mapstructure:"log_level"` // zap level name
	Content  Content  `mapstructure:"content"`
	Session  Session  `mapstructure:"session"`
	Redis    Redis    `mapstructure:"redis"`
	Postgres Postgres `mapstructure:"postgres"`
}

// Content locates quiz data on disk.
type Content struct {
	DataDir   string `mapstructure:"data_dir"`   // one question set per topic
	ConfigDir string `mapstructure:"config_dir"` // holds topics.{json,yaml}
	CacheSize int    `mapstructure:"cache_size"` // parsed documents kept in memory
}

// Session tunes the quiz engine.
type Session struct {
	CountPolicy string `mapstructure:"count_policy"` // clamp or reject
	Seed        int64  `mapstructure:"seed"`         // 0 seeds from the clock
}

// Redis enables the shared document cache when Addr is set.
type Redis struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// Postgres switches the content source to the database when URL is set.
type Postgres struct {
	URL string `mapstructure:"url"`
}

// Load reads configuration from path (optional) and QUIZ_* environment variables.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	v.SetDefault("env", "local")
	v.SetDefault("log_level", "warn")
	v.SetDefault("content.data_dir", "./data")
	v.SetDefault("content.config_dir", "./config")
	v.SetDefault("content.cache_size", 32)
	v.SetDefault("session.count_policy", "clamp")
	v.SetDefault("session.seed", 0)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", "10m")
	v.SetDefault("postgres.url", "")

	v.SetEnvPrefix("quiz")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("error loading config file: %w", err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the application cannot run with.
func (c Config) Validate() error {
	switch strings.ToLower(c.Session.CountPolicy) {
	case "clamp", "reject":
	default:
		return fmt.Errorf("config: session.count_policy must be clamp or reject, got %q", c.Session.CountPolicy)
	}
	if c.Content.CacheSize <= 0 {
		return fmt.Errorf("config: content.cache_size must be positive, got %d", c.Content.CacheSize)
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("config: redis.ttl must not be negative")
	}
	return nil
}
