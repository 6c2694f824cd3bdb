package util

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	AllowedOrigins     []string      `mapstructure:"ALLOWED_ORIGINS"`
	DatabaseURL        string        `mapstructure:"DATABASE_URL"`
	HTTPServerAddress  string        `mapstructure:"HTTP_SERVER_ADDRESS"`
	RedisServerAddress string        `mapstructure:"REDIS_SERVER_ADDRESS"`
	WorldCitiesPath    string        `mapstructure:"WORLD_CITIES_PATH"`
	StreamBufferSize   int           `mapstructure:"STREAM_BUFFER_SIZE"`
	GeoCacheDuration   time.Duration `mapstructure:"GEO_CACHE_DURATION"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	// Set defaults for non-sensitive config
	viper.SetDefault("ALLOWED_ORIGINS", []string{"http://localhost:3000"})
	viper.SetDefault("HTTP_SERVER_ADDRESS", "0.0.0.0:8080")
	viper.SetDefault("WORLD_CITIES_PATH", "./data/worldcities.csv")
	viper.SetDefault("STREAM_BUFFER_SIZE", 8)
	viper.SetDefault("GEO_CACHE_DURATION", "24h")

	// Prefer environment variables over config file
	viper.AutomaticEnv()

	// Load config file
	viper.SetConfigFile(path)
	if err = viper.ReadInConfig(); err != nil {
		return
	}

	// Unmarshal config into struct
	err = viper.UnmarshalExact(&config)
	if err != nil {
		return
	}

	// Validate required configuration
	err = validateConfig(config)
	return
}

func validateConfig(config Config) error {
	if config.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if config.StreamBufferSize <= 0 {
		return fmt.Errorf("STREAM_BUFFER_SIZE must be greater than 0")
	}
	// REDIS_SERVER_ADDRESS để trống cũng được: khi đó geo cache bị tắt

	return nil
}
