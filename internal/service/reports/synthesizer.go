package reports

import (
	"context"
	"fmt"
	"strings"

	"github.com/sandevgo/taskchat/internal/config"
	"github.com/sandevgo/taskchat/internal/core"
	"github.com/sandevgo/taskchat/internal/providers/llm"
)

// insufficientSentinel is the exact phrase the synthesis prompt tells
// the model to answer with when the question cannot be mapped onto the
// schema.
const insufficientSentinel = "Not enough information"

const synthesisSystemPrompt = `You translate analytics questions into a single
SQLite SELECT query over this schema:

  workspaces(id, name, slug, created_at, last_updated_at)
  embed_configs(id, workspace_id, created_at)
  embed_users(session_id, name, email, created_at)
  embed_chats(id, prompt, response, session_id, embed_id, created_at)

embed_users rows with a non-empty email are leads. embed_chats joins
embed_users on session_id and reaches a workspace through
embed_configs (embed_chats.embed_id -> embed_configs.id ->
embed_configs.workspace_id).

Respond with a JSON object: {"query": "<one SELECT statement>", "confidence": <0..1>}.
The query must be exactly one SELECT, no other statement kinds, no semicolons.
If the question cannot be answered from this schema, respond with the exact
text "` + insufficientSentinel + `" instead of JSON.`

// SynthesizedQuery is a model-proposed read query with advisory
// confidence. Confidence never gates execution; callers may apply
// their own threshold policy.
type SynthesizedQuery struct {
	Query      string  `json:"query"`
	Confidence float64 `json:"confidence"`
}

// Synthesizer turns a free-text analytics prompt into a candidate
// query. It only proposes; safety validation happens in the caller.
type Synthesizer struct {
	ai  core.AIProvider
	cfg *config.LLMConfig
}

func NewSynthesizer(ai core.AIProvider, cfg *config.LLMConfig) *Synthesizer {
	return &Synthesizer{ai: ai, cfg: cfg}
}

// Synthesize asks the model for a query. The workspace name, when set,
// is advisory prompt context only; it must not be relied on for tenant
// isolation. Returns ErrInsufficientInfo when the model declines.
func (s *Synthesizer) Synthesize(ctx context.Context, prompt, workspace string) (SynthesizedQuery, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.SynthesizeTimeout())
	defer cancel()

	user := prompt
	if workspace != "" {
		user = fmt.Sprintf("Scope the query to the workspace named %q.\n\n%s", workspace, prompt)
	}

	resp, err := s.ai.Chat(ctx, []core.Message{
		{Role: core.RoleSystem, Content: synthesisSystemPrompt},
		{Role: core.RoleUser, Content: user},
	}, nil)
	if err != nil {
		return SynthesizedQuery{}, fmt.Errorf("synthesis call: %w", err)
	}

	content := strings.TrimSpace(resp.Content)
	if strings.Contains(strings.ToLower(content), strings.ToLower(insufficientSentinel)) {
		return SynthesizedQuery{}, ErrInsufficientInfo
	}

	return llm.ExtractJSON(content, func(q SynthesizedQuery) error {
		if strings.TrimSpace(q.Query) == "" {
			return fmt.Errorf("empty query field")
		}
		if q.Confidence < 0 || q.Confidence > 1 {
			return fmt.Errorf("confidence %v out of range", q.Confidence)
		}
		return nil
	})
}
