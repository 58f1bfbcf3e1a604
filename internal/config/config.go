package config

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	APIPort int `mapstructure:"apiPort"`

	Database struct {
		Type            string `mapstructure:"type"` // "postgres" or "sqlite"
		Host            string `mapstructure:"host"`
		Port            string `mapstructure:"port"`
		User            string `mapstructure:"user"`
		Password        string `mapstructure:"password"`
		Name            string `mapstructure:"name"`
		SSLMode         string `mapstructure:"sslMode"`
		Path            string `mapstructure:"path"` // sqlite only
		MaxConns        int    `mapstructure:"maxConns"`
		MaxIdle         int    `mapstructure:"maxIdle"`
		ConnMaxLifetime string `mapstructure:"connMaxLifetime"`
	} `mapstructure:"database"`

	Session struct {
		CookieName string `mapstructure:"cookieName"`
		TTL        string `mapstructure:"ttl"`
		Secure     bool   `mapstructure:"secure"`
	} `mapstructure:"session"`

	Auth struct {
		TokenSecret string `mapstructure:"tokenSecret"`
		TokenTTL    string `mapstructure:"tokenTTL"`
	} `mapstructure:"auth"`

	Mail struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		From     string `mapstructure:"from"`
	} `mapstructure:"mail"`

	Storage struct {
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
		Bucket    string `mapstructure:"bucket"`
		AccessKey string `mapstructure:"accessKey"`
		SecretKey string `mapstructure:"secretKey"`
		Folder    string `mapstructure:"folder"`
	} `mapstructure:"storage"`

	Cleanup struct {
		Interval    string `mapstructure:"interval"`
		MaxAttempts int    `mapstructure:"maxAttempts"`
		BatchSize   int    `mapstructure:"batchSize"`
	} `mapstructure:"cleanup"`
}

// SessionTTL returns the configured session lifetime.
func (c *Config) SessionTTL() time.Duration {
	return parseDurationOr(c.Session.TTL, 7*24*time.Hour)
}

// TokenTTL returns the configured API token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return parseDurationOr(c.Auth.TokenTTL, 30*24*time.Hour)
}

// CleanupInterval returns how often the asset cleanup worker wakes up.
func (c *Config) CleanupInterval() time.Duration {
	return parseDurationOr(c.Cleanup.Interval, time.Minute)
}

func parseDurationOr(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

// LoadConfig loads the configuration from file and environment variables.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if !notFound && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		log.Printf("Warning: Could not read config file: %s. Using defaults or environment variables.", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.APIPort == 0 {
		cfg.APIPort = 8080
		log.Println("apiPort not specified, using default 8080")
	}

	if cfg.Database.Type == "" {
		cfg.Database.Type = "sqlite"
		log.Println("Database type not specified, defaulting to sqlite")
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "/data/artbucket.db"
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = 10
	}
	if cfg.Database.MaxIdle == 0 {
		cfg.Database.MaxIdle = 5
	}

	if cfg.Session.CookieName == "" {
		cfg.Session.CookieName = "session"
	}
	if cfg.Auth.TokenSecret == "" {
		log.Println("Warning: auth.tokenSecret not set, API tokens will be signed with an empty secret")
	}

	if cfg.Storage.Folder == "" {
		cfg.Storage.Folder = "artbucket"
	}
	if cfg.Cleanup.MaxAttempts == 0 {
		cfg.Cleanup.MaxAttempts = 5
	}
	if cfg.Cleanup.BatchSize == 0 {
		cfg.Cleanup.BatchSize = 20
	}

	return &cfg, nil
}
