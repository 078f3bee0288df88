package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// LoadConfig reads the YAML file at path (optional) and overlays environment
// variables, e.g. MONITOR_TIMEOUT or AUTH_HEARTBEAT_SECRET.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	// default first
	setDefaults(v)

	// File Config
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Env Config
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read File, a missing file leaves defaults + env
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Validate
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("service_name", "lightwatch")
	v.SetDefault("port", 8080)

	v.SetDefault("monitor.timeout", "5m")
	v.SetDefault("monitor.check_interval", "30s")
	v.SetDefault("monitor.timezone", "Europe/Kyiv")

	v.SetDefault("auth.heartbeat_secret", "")
	v.SetDefault("auth.heartbeat_secret_hash", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.expiry_min", 60*24*30)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.base_url", "https://api.telegram.org")
	v.SetDefault("telegram.timeout", "10s")

	v.SetDefault("alert.workers", 1)
	v.SetDefault("alert.queue_size", 16)

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "lightwatch.db")
	v.SetDefault("store.timeout", "3s")

	v.SetDefault("redis.url", "redis://localhost:6379/0")
	v.SetDefault("redis.key", "lightwatch:state")

	v.SetDefault("db.url", "")
	v.SetDefault("db.max_open_conns", 4)
	v.SetDefault("db.min_idle_conns", 1)
	v.SetDefault("db.conn_max_lifetime", "1h")
	v.SetDefault("db.conn_max_idle_time", "30m")

	v.SetDefault("rabbitmq.enabled", false)
	v.SetDefault("rabbitmq.broker_link", "")
	v.SetDefault("rabbitmq.exchange_name", "lightwatch")
	v.SetDefault("rabbitmq.exchange_type", "topic")
	v.SetDefault("rabbitmq.routing_key", "light.transition")
}

func validateConfig(cfg any) error {

	validate := validator.New()

	if err := validate.Struct(cfg); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			return formatValidationErrors(ve)
		}
		return err
	}
	return nil
}

func formatValidationErrors(ve validator.ValidationErrors) error {
	var sb strings.Builder
	sb.WriteString("config validation failed:\n")

	for _, fe := range ve {
		fmt.Fprintf(&sb, "- field '%s' failed on '%s'\n", fe.Namespace(), fe.Tag())
	}
	return errors.New(sb.String())
}
