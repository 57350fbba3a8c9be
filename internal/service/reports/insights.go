package reports

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/sandevgo/taskchat/internal/core"
	"github.com/sandevgo/taskchat/pkg/log"
)

// NoInsights is returned when the insights pass fails or has nothing
// to say. Insights are decoration on top of the query result; their
// failure never fails the request.
const NoInsights = "No insights for this query results"

// maxInsightRows caps how many result rows feed the insights prompt.
const maxInsightRows = 300

const insightsSystemPrompt = `You are a data analyst. Given a question and the
rows a query returned for it, write 1-3 short sentences of insight: trends,
totals, outliers. Plain text only. If the rows carry no signal, reply with
exactly "` + NoInsights + `".`

func (s *Service) insights(ctx context.Context, prompt string, rows []map[string]any) string {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SynthesizeTimeout())
	defer cancel()

	capped := rows
	if len(capped) > maxInsightRows {
		capped = capped[:maxInsightRows]
	}
	data, err := json.Marshal(capped)
	if err != nil {
		return NoInsights
	}

	resp, err := s.ai.Chat(ctx, []core.Message{
		{Role: core.RoleSystem, Content: insightsSystemPrompt},
		{Role: core.RoleUser, Content: "Question: " + prompt + "\n\nRows:\n" + string(data)},
	}, nil)
	if err != nil || strings.TrimSpace(resp.Content) == "" {
		log.FromCtx(ctx).Warn().Err(err).Msg("insights pass failed")
		return NoInsights
	}
	return strings.TrimSpace(resp.Content)
}
