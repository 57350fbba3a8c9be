package assistant

import (
	"context"

	"github.com/sandevgo/taskchat/internal/config"
	"github.com/sandevgo/taskchat/internal/core"
	"github.com/sandevgo/taskchat/pkg/log"
)

// Router classifies an incoming message into one retrieval strategy.
// Routing is total: whatever the model or transport does, the result is
// one of the known strategies, with converse as the terminal fallback.
type Router struct {
	ai  core.AIProvider
	cfg *config.LLMConfig
}

func NewRouter(ai core.AIProvider, cfg *config.LLMConfig) *Router {
	return &Router{ai: ai, cfg: cfg}
}

// Decide runs one schema-constrained model call over the message plus a
// bounded window of prior turns. A function selection is validated and
// coerced; a plain-text reply falls back to freeform name matching; any
// error maps to converse.
func (r *Router) Decide(ctx context.Context, message string, recent []core.ConversationTurn) core.RoutingDecision {
	logger := log.FromCtx(ctx)

	ctx, cancel := context.WithTimeout(ctx, r.cfg.RouteTimeout())
	defer cancel()

	messages := []core.Message{{Role: core.RoleSystem, Content: routerSystemPrompt}}
	if ctxText := formatContext(recent); ctxText != "" {
		messages = append(messages, core.Message{Role: core.RoleSystem, Content: ctxText})
	}
	messages = append(messages, core.Message{Role: core.RoleUser, Content: message})

	resp, err := r.ai.Chat(ctx, messages, routingTools)
	if err != nil {
		logger.Warn().Err(err).Msg("routing call failed, falling back to converse")
		return core.Converse()
	}

	if len(resp.ToolCalls) > 0 {
		decision, err := decisionFromToolCall(resp.ToolCalls[0])
		if err != nil {
			logger.Warn().Err(err).Msg("model selected unknown strategy, falling back to converse")
			return core.Converse()
		}
		logger.Debug().Str("strategy", string(decision.Strategy)).Msg("routed via tool call")
		return decision
	}

	// No function selection; treat the text as a freeform strategy answer.
	decision := matchFreeform(resp.Content)
	logger.Debug().Str("strategy", string(decision.Strategy)).Msg("routed via freeform match")
	return decision
}
