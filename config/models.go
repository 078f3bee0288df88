package config

import "time"

type MonitorConfig struct {
	Timeout       time.Duration `mapstructure:"timeout" validate:"required,gt=0"`
	CheckInterval time.Duration `mapstructure:"check_interval" validate:"required,gt=0,ltfield=Timeout"` // must stay below timeout
	Timezone      string        `mapstructure:"timezone" validate:"required"`
}

type AuthConfig struct {
	HeartbeatSecret     string `mapstructure:"heartbeat_secret" validate:"required_without=HeartbeatSecretHash"`
	HeartbeatSecretHash string `mapstructure:"heartbeat_secret_hash"`
	JWTSecret           string `mapstructure:"jwt_secret" validate:"required,min=16"`
	ExpiryMin           int    `mapstructure:"expiry_min" validate:"gt=0"`
}

type TelegramConfig struct {
	Token   string        `mapstructure:"token"`
	ChatID  string        `mapstructure:"chat_id" validate:"required_with=Token"`
	BaseURL string        `mapstructure:"base_url" validate:"required,url"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type AlertConfig struct {
	Workers   int `mapstructure:"workers" validate:"gte=1"`
	QueueSize int `mapstructure:"queue_size" validate:"gte=1"`
}

type StoreConfig struct {
	Driver  string        `mapstructure:"driver" validate:"oneof=sqlite redis postgres"`
	Path    string        `mapstructure:"path" validate:"required_if=Driver sqlite"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
	Key string `mapstructure:"key"`
}

type DBConfig struct {
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int32         `mapstructure:"max_open_conns"`
	MinIdleConns    int32         `mapstructure:"min_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

type RabbitMQConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	BrokerLink   string `mapstructure:"broker_link" validate:"required_if=Enabled true"`
	ExchangeName string `mapstructure:"exchange_name"`
	ExchangeType string `mapstructure:"exchange_type"`
	RoutingKey   string `mapstructure:"routing_key"`
}

type Config struct {
	Port        int            `mapstructure:"port" validate:"gt=0,lte=65535"`
	Env         string         `mapstructure:"env"`
	ServiceName string         `mapstructure:"service_name"`
	Monitor     MonitorConfig  `mapstructure:"monitor"`
	Auth        AuthConfig     `mapstructure:"auth"`
	Telegram    TelegramConfig `mapstructure:"telegram"`
	Alert       AlertConfig    `mapstructure:"alert"`
	Store       StoreConfig    `mapstructure:"store"`
	Redis       RedisConfig    `mapstructure:"redis"`
	DB          DBConfig       `mapstructure:"db"`
	RabbitMQ    RabbitMQConfig `mapstructure:"rabbitmq"`
}
