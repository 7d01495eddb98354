package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	VAPID    VAPIDConfig
	Push     PushConfig
	Fallback FallbackConfig
	Cron     CronConfig
	Throttle ThrottleConfig
}

type ServerConfig struct {
	Port           int `mapstructure:"port"`
	TimeoutSeconds int `mapstructure:"timeoutSeconds"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

// VAPIDConfig holds the key pair that authenticates this server to push
// services, plus the contact address push services may use to reach the
// operator.
type VAPIDConfig struct {
	PublicKey  string `mapstructure:"public_key"`
	PrivateKey string `mapstructure:"private_key"`
	Subscriber string `mapstructure:"subscriber"`
}

type PushConfig struct {
	Timeout    time.Duration `mapstructure:"timeout"`
	TTLSeconds int           `mapstructure:"ttl_seconds"`
}

type FallbackConfig struct {
	DrainMaxAge time.Duration `mapstructure:"drain_max_age"`
	Retention   time.Duration `mapstructure:"retention"`
}

// CronConfig holds the shared secret that scheduled/cron-triggered endpoints
// must present as a bearer token.
type CronConfig struct {
	Secret string `mapstructure:"secret"`
}

type ThrottleConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	Window  time.Duration `mapstructure:"window"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.AutomaticEnv()

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("push.timeout", 10*time.Second)
	viper.SetDefault("push.ttl_seconds", 86400)
	viper.SetDefault("fallback.drain_max_age", time.Minute)
	viper.SetDefault("fallback.retention", time.Hour)
	viper.SetDefault("throttle.enabled", false)
	viper.SetDefault("throttle.window", time.Hour)

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.VAPID.PublicKey == "" || config.VAPID.PrivateKey == "" {
		return nil, fmt.Errorf("vapid key pair is required")
	}

	return &config, nil
}
