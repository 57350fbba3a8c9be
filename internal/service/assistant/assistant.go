package assistant

import (
	"context"
	"time"

	"github.com/sandevgo/taskchat/internal/config"
	"github.com/sandevgo/taskchat/internal/core"
	"github.com/sandevgo/taskchat/pkg/log"
)

// Assistant runs the full turn pipeline: recall context, route the
// message to a strategy, retrieve, compose, persist. It never returns
// an error for a turn; every failure path degrades to a composed
// fallback so the caller always has something to show.
type Assistant struct {
	router     *Router
	composer   *Composer
	history    core.HistoryRepository
	activities core.ActivityRepository
	cfg        *config.LLMConfig
	now        func() time.Time
}

func New(ai core.AIProvider, history core.HistoryRepository, activities core.ActivityRepository, cfg *config.LLMConfig) *Assistant {
	return &Assistant{
		router:     NewRouter(ai, cfg),
		composer:   NewComposer(ai, cfg),
		history:    history,
		activities: activities,
		cfg:        cfg,
		now:        time.Now,
	}
}

// Respond handles one user message for a session and returns the answer
// together with the full post-turn history.
func (a *Assistant) Respond(ctx context.Context, sessionID, message string) (string, []core.ConversationTurn) {
	logger := log.FromCtx(ctx)

	recent, err := a.history.Recent(ctx, sessionID, a.cfg.ContextTurns)
	if err != nil {
		logger.Warn().Err(err).Str("session", sessionID).Msg("failed to load recent turns, routing without context")
		recent = nil
	}

	decision := a.router.Decide(ctx, message, recent)
	answer := a.execute(ctx, decision, message, recent)

	if err := a.history.Append(ctx, sessionID, message, answer); err != nil {
		// The answer still goes out; only continuity suffers.
		logger.Error().Err(err).Str("session", sessionID).Msg("failed to persist conversation turn")
	}

	full, err := a.history.Read(ctx, sessionID)
	if err != nil {
		logger.Warn().Err(err).Str("session", sessionID).Msg("failed to read session history")
		full = []core.ConversationTurn{{SessionID: sessionID, UserMessage: message, AIResponse: answer}}
	}
	return answer, full
}

// History returns all persisted turns for a session, oldest first.
func (a *Assistant) History(ctx context.Context, sessionID string) ([]core.ConversationTurn, error) {
	return a.history.Read(ctx, sessionID)
}

func (a *Assistant) execute(ctx context.Context, d core.RoutingDecision, message string, recent []core.ConversationTurn) string {
	logger := log.FromCtx(ctx)
	logger.Info().Str("strategy", string(d.Strategy)).Msg("executing strategy")

	switch d.Strategy {
	case core.StrategySearch:
		records, err := a.activities.Search(ctx, d.Search)
		if err != nil {
			logger.Error().Err(err).Msg("activity search failed, composing over empty results")
			records = nil
		}
		return a.composer.ComposeResults(ctx, message, records, recent)

	case core.StrategyListUsers:
		names, err := a.activities.ListAssignees(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("assignee listing failed, composing over empty results")
			names = nil
		}
		return a.composer.ComposeAssignees(ctx, message, names, recent)

	case core.StrategyAnalyzeAll:
		records, err := a.activities.DumpAll(ctx)
		if err != nil {
			logger.Error().Err(err).Msg("dataset dump failed, composing over empty results")
			records = nil
		}
		return a.composer.ComposeAnalysis(ctx, message, records, a.now(), recent)

	default:
		return a.composer.Converse(ctx, message, recent)
	}
}
