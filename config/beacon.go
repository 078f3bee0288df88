package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type BeaconConfig struct {
	Env      string        `mapstructure:"-"`
	URL      string        `mapstructure:"url" validate:"required,url"`
	Token    string        `mapstructure:"token" validate:"required"`
	Interval time.Duration `mapstructure:"interval" validate:"gt=0"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// LoadBeaconConfig reads the "beacon" section of the file at path, env
// overrides use the BEACON_ prefix (BEACON_URL, BEACON_TOKEN).
func LoadBeaconConfig(path string) (*BeaconConfig, error) {
	v := viper.New()

	v.SetDefault("env", "development")
	v.SetDefault("beacon.url", "http://localhost:8080")
	v.SetDefault("beacon.token", "")
	v.SetDefault("beacon.interval", "60s")
	v.SetDefault("beacon.timeout", "10s")

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("stat config: %w", err)
	}

	var file struct {
		Env    string       `mapstructure:"env"`
		Beacon BeaconConfig `mapstructure:"beacon"`
	}
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg := file.Beacon
	cfg.Env = file.Env

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
