package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/taskchat/internal/config"
	"github.com/sandevgo/taskchat/internal/core"
	"github.com/sandevgo/taskchat/internal/providers/llm"
	"github.com/sandevgo/taskchat/pkg/conv"
	"github.com/sandevgo/taskchat/pkg/log"
)

// FallbackAnswer is returned whenever the composition call fails. The
// user always gets some response; model failures never escape this
// package.
const FallbackAnswer = "Sorry, I ran into a problem while answering that. Please try again."

// Composer produces the final user-visible text from retrieval results
// (or their absence) and the original question.
type Composer struct {
	ai        core.AIProvider
	cfg       *config.LLMConfig
	tokenizer *tiktoken.Tiktoken
}

func NewComposer(ai core.AIProvider, cfg *config.LLMConfig) *Composer {
	// Token budgeting degrades to a byte estimate when the encoding
	// is not available (e.g. no cache and no network).
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		enc = nil
	}
	return &Composer{ai: ai, cfg: cfg, tokenizer: enc}
}

// ComposeResults answers a question grounded on filtered records. Empty
// results are composed too; the prompt contract covers the phrasing.
func (c *Composer) ComposeResults(ctx context.Context, question string, records []core.ActivityRecord, recent []core.ConversationTurn) string {
	data := formatRecords(records)
	return c.composeHTML(ctx, composerSystemPrompt, question, data, recent)
}

// ComposeAssignees answers a question about the known user list.
func (c *Composer) ComposeAssignees(ctx context.Context, question string, names []string, recent []core.ConversationTurn) string {
	return c.composeHTML(ctx, composerSystemPrompt, question, formatAssignees(names), recent)
}

// ComposeAnalysis answers over the full dataset dump, token-budgeted,
// with the current date included for relative-time reasoning.
func (c *Composer) ComposeAnalysis(ctx context.Context, question string, records []core.ActivityRecord, now time.Time, recent []core.ConversationTurn) string {
	data := c.budget(formatRecords(records))
	data = fmt.Sprintf("Current date: %s\n\n%s", now.Format(time.DateOnly), data)
	return c.composeHTML(ctx, analysisSystemPrompt, question, data, recent)
}

// Converse handles the no-retrieval strategy with the persona prompt.
func (c *Composer) Converse(ctx context.Context, message string, recent []core.ConversationTurn) string {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ComposeTimeout())
	defer cancel()

	messages := []core.Message{{Role: core.RoleSystem, Content: personaSystemPrompt}}
	if ctxText := formatContext(recent); ctxText != "" {
		messages = append(messages, core.Message{Role: core.RoleSystem, Content: ctxText})
	}
	messages = append(messages, core.Message{Role: core.RoleUser, Content: message})

	resp, err := c.ai.Chat(ctx, messages, nil)
	if err != nil || strings.TrimSpace(resp.Content) == "" {
		log.FromCtx(ctx).Error().Err(err).Msg("converse call failed, using fallback answer")
		return FallbackAnswer
	}
	return strings.TrimSpace(resp.Content)
}

func (c *Composer) composeHTML(ctx context.Context, system, question, data string, recent []core.ConversationTurn) string {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ComposeTimeout())
	defer cancel()

	messages := []core.Message{{Role: core.RoleSystem, Content: system}}
	if ctxText := formatContext(recent); ctxText != "" {
		messages = append(messages, core.Message{Role: core.RoleSystem, Content: ctxText})
	}
	messages = append(messages, core.Message{
		Role:    core.RoleUser,
		Content: fmt.Sprintf("Data:\n%s\n\nQuestion: %s", data, question),
	})

	resp, err := c.ai.Chat(ctx, messages, nil)
	if err != nil || strings.TrimSpace(resp.Content) == "" {
		log.FromCtx(ctx).Error().Err(err).Msg("compose call failed, using fallback answer")
		return FallbackAnswer
	}

	answer := llm.StripCodeFences(resp.Content)
	return conv.MarkdownToChatHTML([]byte(answer))
}

// budget trims the serialized dataset to the configured token budget,
// dropping whole lines from the end. Large datasets are a documented
// limitation of the dump strategy; this keeps the prompt bounded.
func (c *Composer) budget(data string) string {
	limit := c.cfg.DumpTokenBudget
	if limit <= 0 || c.countTokens(data) <= limit {
		return data
	}

	lines := strings.Split(data, "\n")
	total := 0
	for i, line := range lines {
		n := c.countTokens(line) + 1
		if total+n > limit {
			return strings.Join(lines[:i], "\n") + "\n(... truncated ...)"
		}
		total += n
	}
	return data
}

func (c *Composer) countTokens(s string) int {
	if c.tokenizer == nil {
		// Rough bytes-per-token estimate when no encoding is loaded.
		return len(s) / 4
	}
	return len(c.tokenizer.Encode(s, nil, nil))
}
