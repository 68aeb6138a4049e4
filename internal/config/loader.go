package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// ErrMissingSecret is returned when postgres storage is selected but its credentials are absent.
var ErrMissingSecret = errors.New("missing required secret")

func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()
	setDefaults(v)

	// AutomaticEnv only covers keys viper already knows; secrets never live in YAML.
	for _, key := range []string{"postgres.user", "postgres.password", "postgres.db"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	var config Config
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("config file not found: %w", err)
	}
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "scrollwindow")
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.storage", "postgres")
	v.SetDefault("app.shutdown_timeout", 10)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("scroll.default_limit", 50)
	v.SetDefault("scroll.max_limit", 500)
}

// Validate checks field rules and, for postgres storage, that the secrets came in.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation error: %w", err)
	}
	if c.App.Storage != "postgres" {
		return nil
	}
	var missing []string
	if c.Postgres.User == "" {
		missing = append(missing, "APP_POSTGRES_USER")
	}
	if c.Postgres.Password == "" {
		missing = append(missing, "APP_POSTGRES_PASSWORD")
	}
	if c.Postgres.DBName == "" {
		missing = append(missing, "APP_POSTGRES_DB")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSecret, strings.Join(missing, ", "))
	}
	return nil
}
