package config

import "github.com/caarlos0/env/v11"

type OpsConfig struct {
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`
}

func LoadOps() (OpsConfig, error) {
	var cfg OpsConfig
	err := env.Parse(&cfg)
	return cfg, err
}
