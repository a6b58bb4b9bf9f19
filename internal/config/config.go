package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	S3          S3Config          `mapstructure:"s3"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Log         LogConfig         `mapstructure:"log"`
	Schedule    ScheduleConfig    `mapstructure:"schedule"`
	Progression ProgressionConfig `mapstructure:"progression"`
	Cache       CacheConfig       `mapstructure:"cache"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
	// Transactions wraps routine creation in a multi-document transaction.
	// Requires a replica set; disable for a standalone mongod.
	Transactions bool `mapstructure:"transactions"`
}

// S3Config configures archiving of imported routine text. An empty BucketName
// disables archiving.
type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	FormatJSON bool   `mapstructure:"format_json"`
	File       string `mapstructure:"file"`
	ToStdout   bool   `mapstructure:"to_stdout"`
}

type ScheduleConfig struct {
	// Timezone decides which calendar day "now" falls on.
	Timezone     string `mapstructure:"timezone"`
	HorizonWeeks int    `mapstructure:"horizon_weeks"`
}

type ProgressionConfig struct {
	MaxAttempts int `mapstructure:"max_attempts"`
}

type CacheConfig struct {
	SizeMB      int           `mapstructure:"size_mb"`
	DayCountTTL time.Duration `mapstructure:"day_count_ttl"`
}

// Location resolves the schedule timezone.
func (c ScheduleConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "fitness_coach")
	v.SetDefault("database.transactions", true)
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format_json", false)
	v.SetDefault("log.file", "")
	v.SetDefault("log.to_stdout", true)
	v.SetDefault("schedule.timezone", "UTC")
	v.SetDefault("schedule.horizon_weeks", 4)
	v.SetDefault("progression.max_attempts", 5)
	v.SetDefault("cache.size_mb", 16)
	v.SetDefault("cache.day_count_ttl", "10m")
	// Registered so AutomaticEnv can override keys without a default.
	for _, key := range []string{"s3.endpoint", "s3.region", "s3.access_key_id", "s3.secret_access_key", "s3.bucket_name"} {
		v.SetDefault(key, "")
	}

	// A missing config file is fine; defaults and env vars still apply.
	if err = v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return config, err
		}
	}

	// Duration strings ("60m", "1h") decode straight into time.Duration fields.
	if err = v.Unmarshal(&config); err != nil {
		return config, err
	}
	if config.Schedule.HorizonWeeks <= 0 {
		return config, fmt.Errorf("schedule.horizon_weeks must be positive, got %d", config.Schedule.HorizonWeeks)
	}
	return config, nil
}
