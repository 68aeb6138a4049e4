package config

import (
	"github.com/maxviazov/scrollwindow/internal/logger"
)

type Config struct {
	App      AppConfig           `mapstructure:"app"`
	Logger   logger.LoggerConfig `mapstructure:"logger" validate:"-"`
	Postgres PostgresConfig      `mapstructure:"postgres"`
	Scroll   ScrollConfig        `mapstructure:"scroll"`
}

type AppConfig struct {
	Name    string `mapstructure:"name" validate:"required"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env" validate:"oneof=dev test staging prod"`
	Port    int    `mapstructure:"port" validate:"min=1,max=65535"`
	// Storage selects the journal backend; memory needs no postgres secrets.
	Storage         string `mapstructure:"storage" validate:"oneof=postgres memory"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" validate:"min=0"`
}

type PostgresConfig struct {
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"db"`
	SSLMode           string `mapstructure:"sslmode" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	MaxConns          int32  `mapstructure:"max_conns" validate:"min=0"`
	MinConns          int32  `mapstructure:"min_conns" validate:"min=0"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
}

// ScrollConfig bounds the window sizes clients may request.
type ScrollConfig struct {
	DefaultLimit int `mapstructure:"default_limit" validate:"min=1"`
	MaxLimit     int `mapstructure:"max_limit" validate:"min=1,gtefield=DefaultLimit"`
}
