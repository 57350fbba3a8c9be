package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/taskchat/pkg/log"
)

type HTTPConfig struct {
	Addr string `env:"HTTP_ADDR" envDefault:":8000"`
	// Shared secret checked on the reporting endpoints (X-API-Key header).
	APIKey string `env:"API_KEY,required,notEmpty"`

	ShutdownTimeoutSec int `env:"HTTP_SHUTDOWN_TIMEOUT_SEC" envDefault:"10"`
}

func NewHTTPConfig(ctx context.Context) *HTTPConfig {
	c := &HTTPConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse HTTP config")
	}
	return c
}
