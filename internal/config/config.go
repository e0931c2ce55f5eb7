package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Ledgerly"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"ledgerly"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Import struct {
		// CategoryRulesFile points to a YAML file with ordered category
		// rules. When empty the built-in rule table is used.
		CategoryRulesFile string `envconfig:"IMPORT_CATEGORY_RULES_FILE"`

		LargeAmountThreshold float64 `envconfig:"IMPORT_LARGE_AMOUNT_THRESHOLD" default:"10000"`
		MaxDescriptionLength int     `envconfig:"IMPORT_MAX_DESCRIPTION_LENGTH" default:"255"`
		DateFormat           string  `envconfig:"IMPORT_DATE_FORMAT" default:"2006-01-02"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:5173"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
