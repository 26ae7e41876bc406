package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"RetailDash"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	Data struct {
		// File is resolved relative to the working directory, like the
		// dashboard it replaces.
		File         string  `envconfig:"DATA_FILE" default:"online_retail_II(Year 2010-2011).csv"`
		ProfitMargin float64 `envconfig:"PROFIT_MARGIN" default:"0.2"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
