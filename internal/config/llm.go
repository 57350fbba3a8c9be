package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/taskchat/pkg/log"
)

// LLMConfig carries provider selection plus per-call-kind timeouts.
// Routing calls are cheap classification and get the shortest budget;
// composition reads whole result sets and gets the longest.
type LLMConfig struct {
	Model string `env:"LLM_MODEL" envDefault:"gemini-1.5-flash"`

	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiBaseURL string `env:"GEMINI_BASE_URL" envDefault:"https://generativelanguage.googleapis.com"`

	OpenAIAPIKey     string `env:"OPENAI_API_KEY"`
	OpenRouterAPIKey string `env:"OPENROUTER_API_KEY"`
	OllamaBaseURL    string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey     string `env:"OLLAMA_API_KEY"`

	CustomBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`

	RouteTimeoutSec      int `env:"LLM_ROUTE_TIMEOUT_SEC" envDefault:"15"`
	ComposeTimeoutSec    int `env:"LLM_COMPOSE_TIMEOUT_SEC" envDefault:"45"`
	SynthesizeTimeoutSec int `env:"LLM_SYNTHESIZE_TIMEOUT_SEC" envDefault:"30"`

	// ContextTurns bounds how many prior turns feed the routing prompt.
	ContextTurns int `env:"LLM_CONTEXT_TURNS" envDefault:"3"`
	// DumpTokenBudget caps the serialized dataset handed to analyze-all.
	DumpTokenBudget int `env:"LLM_DUMP_TOKEN_BUDGET" envDefault:"6000"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}

func (c LLMConfig) RouteTimeout() time.Duration {
	return time.Duration(c.RouteTimeoutSec) * time.Second
}

func (c LLMConfig) ComposeTimeout() time.Duration {
	return time.Duration(c.ComposeTimeoutSec) * time.Second
}

func (c LLMConfig) SynthesizeTimeout() time.Duration {
	return time.Duration(c.SynthesizeTimeoutSec) * time.Second
}
