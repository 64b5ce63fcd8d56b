// Package config loads the service configuration from file and environment.
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "deskhub/internal/shared/config"
)

type Config struct {
	Server   sharedConfig.ServerConfig   `mapstructure:"server"`
	Logger   sharedConfig.LoggerConfig   `mapstructure:"logger"`
	Redis    sharedConfig.RedisConfig    `mapstructure:"redis"`
	Helpdesk sharedConfig.HelpdeskConfig `mapstructure:"helpdesk"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configuration from ./configs/config.yaml with DESKHUB_* env
// overrides, applies defaults, and validates the helpdesk section.
func Load(env string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./configs")
	viper.AddConfigPath("../configs")
	viper.AddConfigPath("../../configs")

	viper.SetEnvPrefix("DESKHUB")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if env != "" && env != "default" {
		viper.Set("server.mode", env)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Helpdesk.Validate(); err != nil {
		return nil, fmt.Errorf("invalid helpdesk config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &config
	appConfigMu.Unlock()

	return &config, nil
}

// Get returns the loaded configuration.
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.add_source", false)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("helpdesk.backend_timeout", "15s")
	viper.SetDefault("helpdesk.cache_ttl", "10m")
	viper.SetDefault("helpdesk.refresh_interval", "3m")
	viper.SetDefault("helpdesk.idle_refresh_limit", 5)
	viper.SetDefault("helpdesk.soap.url", "")
	viper.SetDefault("helpdesk.soap.namespace", "urn:servicedesk")
}
