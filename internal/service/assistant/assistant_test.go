package assistant

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sandevgo/taskchat/internal/config"
	"github.com/sandevgo/taskchat/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	chat func(ctx context.Context, messages []core.Message, tools []core.Tool) (core.Message, error)
}

func (s *stubProvider) Chat(ctx context.Context, messages []core.Message, tools []core.Tool) (core.Message, error) {
	return s.chat(ctx, messages, tools)
}

// routeThenCompose answers the first call (routing, tools present) with
// the given message and every later call with composed text.
func routeThenCompose(routed core.Message, composed string) *stubProvider {
	return &stubProvider{chat: func(_ context.Context, _ []core.Message, tools []core.Tool) (core.Message, error) {
		if len(tools) > 0 {
			return routed, nil
		}
		return core.Message{Role: core.RoleAssistant, Content: composed}, nil
	}}
}

func toolCallMessage(strategy core.Strategy, args string) core.Message {
	return core.Message{
		Role: core.RoleAssistant,
		ToolCalls: []core.ToolCall{{
			ID:       "call_0",
			Type:     "function",
			Function: core.FunctionCall{Name: string(strategy), Arguments: args},
		}},
	}
}

type memHistory struct {
	turns     []core.ConversationTurn
	appendErr error
	readErr   error
}

func (m *memHistory) Append(_ context.Context, sessionID, user, ai string) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.turns = append(m.turns, core.ConversationTurn{SessionID: sessionID, UserMessage: user, AIResponse: ai})
	return nil
}

func (m *memHistory) Read(_ context.Context, sessionID string) ([]core.ConversationTurn, error) {
	if m.readErr != nil {
		return nil, m.readErr
	}
	var out []core.ConversationTurn
	for _, t := range m.turns {
		if t.SessionID == sessionID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *memHistory) Recent(ctx context.Context, sessionID string, n int) ([]core.ConversationTurn, error) {
	all, err := m.Read(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(all) > n {
		all = all[len(all)-n:]
	}
	return all, nil
}

type stubActivities struct {
	records   []core.ActivityRecord
	assignees []string
	err       error

	lastFilter core.ActivityFilter
	dumped     bool
}

func (s *stubActivities) Search(_ context.Context, f core.ActivityFilter) ([]core.ActivityRecord, error) {
	s.lastFilter = f
	return s.records, s.err
}

func (s *stubActivities) ListAssignees(context.Context) ([]string, error) {
	return s.assignees, s.err
}

func (s *stubActivities) DumpAll(context.Context) ([]core.ActivityRecord, error) {
	s.dumped = true
	return s.records, s.err
}

func testLLMConfig() *config.LLMConfig {
	return &config.LLMConfig{
		RouteTimeoutSec:      5,
		ComposeTimeoutSec:    5,
		SynthesizeTimeoutSec: 5,
		ContextTurns:         3,
		DumpTokenBudget:      2000,
	}
}

func newTestAssistant(ai core.AIProvider, hist core.HistoryRepository, acts core.ActivityRepository) *Assistant {
	a := New(ai, hist, acts, testLLMConfig())
	a.now = func() time.Time { return time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC) }
	return a
}

func TestRespond_SearchFlow(t *testing.T) {
	ai := routeThenCompose(
		toolCallMessage(core.StrategySearch, `{"assignee":"Alice","status":"done"}`),
		"Alice finished **two** activities.",
	)
	hist := &memHistory{}
	acts := &stubActivities{records: []core.ActivityRecord{{
		Activity: "Write docs", Task: "Launch", Assignee: "Alice",
		StartDate: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		Status:    core.StatusDone,
	}}}

	a := newTestAssistant(ai, hist, acts)
	answer, history := a.Respond(context.Background(), "s1", "what has Alice finished?")

	assert.Contains(t, answer, "<strong>two</strong>")
	assert.Equal(t, "Alice", acts.lastFilter.Assignee)
	assert.Equal(t, core.StatusDone, acts.lastFilter.Status)

	require.Len(t, history, 1)
	assert.Equal(t, "what has Alice finished?", history[0].UserMessage)
	assert.Equal(t, answer, history[0].AIResponse)
}

func TestRespond_ListUsersFlow(t *testing.T) {
	ai := routeThenCompose(toolCallMessage(core.StrategyListUsers, ""), "The team is Alice and Bob.")
	a := newTestAssistant(ai, &memHistory{}, &stubActivities{assignees: []string{"Alice", "Bob"}})

	answer, _ := a.Respond(context.Background(), "s1", "who is on the team?")
	assert.Contains(t, answer, "Alice and Bob")
}

func TestRespond_AnalyzeAllFlow(t *testing.T) {
	ai := routeThenCompose(toolCallMessage(core.StrategyAnalyzeAll, ""), "Most work lands in March.")
	acts := &stubActivities{}
	a := newTestAssistant(ai, &memHistory{}, acts)

	answer, _ := a.Respond(context.Background(), "s1", "when are we busiest?")
	assert.Contains(t, answer, "Most work lands in March.")
	assert.True(t, acts.dumped)
}

func TestRespond_ConverseFlow(t *testing.T) {
	ai := routeThenCompose(toolCallMessage(core.StrategyConverse, ""), "Hello! How can I help?")
	a := newTestAssistant(ai, &memHistory{}, &stubActivities{})

	answer, _ := a.Respond(context.Background(), "s1", "hi there")
	assert.Equal(t, "Hello! How can I help?", answer)
}

func TestRespond_RoutingErrorFallsBackToConverse(t *testing.T) {
	calls := 0
	ai := &stubProvider{chat: func(_ context.Context, _ []core.Message, tools []core.Tool) (core.Message, error) {
		calls++
		if len(tools) > 0 {
			return core.Message{}, errors.New("boom")
		}
		return core.Message{Content: "Still here."}, nil
	}}
	a := newTestAssistant(ai, &memHistory{}, &stubActivities{})

	answer, _ := a.Respond(context.Background(), "s1", "anything")
	assert.Equal(t, "Still here.", answer)
	assert.Equal(t, 2, calls)
}

func TestRespond_TotalModelFailureStillAnswers(t *testing.T) {
	ai := &stubProvider{chat: func(context.Context, []core.Message, []core.Tool) (core.Message, error) {
		return core.Message{}, errors.New("provider down")
	}}
	a := newTestAssistant(ai, &memHistory{}, &stubActivities{})

	answer, _ := a.Respond(context.Background(), "s1", "anything at all")
	assert.Equal(t, FallbackAnswer, answer)
}

func TestRespond_RetrievalErrorStillAnswers(t *testing.T) {
	ai := routeThenCompose(toolCallMessage(core.StrategySearch, "{}"), "Nothing matched your question.")
	a := newTestAssistant(ai, &memHistory{}, &stubActivities{err: errors.New("db locked")})

	answer, _ := a.Respond(context.Background(), "s1", "show activities")
	assert.Contains(t, answer, "Nothing matched")
}

func TestRespond_PersistFailureDoesNotBlockAnswer(t *testing.T) {
	ai := routeThenCompose(toolCallMessage(core.StrategyConverse, ""), "Hi!")
	hist := &memHistory{appendErr: errors.New("disk full")}
	a := newTestAssistant(ai, hist, &stubActivities{})

	answer, history := a.Respond(context.Background(), "s1", "hello")
	assert.Equal(t, "Hi!", answer)
	// Read after a failed append still yields the current turn.
	require.Len(t, history, 1)
	assert.Equal(t, "Hi!", history[0].AIResponse)
}

func TestRespond_FreeformTextRouting(t *testing.T) {
	ai := &stubProvider{chat: func(_ context.Context, _ []core.Message, tools []core.Tool) (core.Message, error) {
		if len(tools) > 0 {
			return core.Message{Content: "I think list_users fits best."}, nil
		}
		return core.Message{Content: "Alice and Bob."}, nil
	}}
	a := newTestAssistant(ai, &memHistory{}, &stubActivities{assignees: []string{"Alice", "Bob"}})

	answer, _ := a.Respond(context.Background(), "s1", "who works here?")
	assert.Contains(t, answer, "Alice and Bob")
}

func TestRespond_UsesRecentContext(t *testing.T) {
	var sawContext bool
	ai := &stubProvider{chat: func(_ context.Context, messages []core.Message, tools []core.Tool) (core.Message, error) {
		for _, m := range messages {
			if strings.Contains(m.Content, "Recent conversation:") {
				sawContext = true
			}
		}
		if len(tools) > 0 {
			return toolCallMessage(core.StrategyConverse, ""), nil
		}
		return core.Message{Content: "Sure."}, nil
	}}
	hist := &memHistory{}
	require.NoError(t, hist.Append(context.Background(), "s1", "earlier question", "earlier answer"))

	a := newTestAssistant(ai, hist, &stubActivities{})
	a.Respond(context.Background(), "s1", "follow-up")
	assert.True(t, sawContext)
}

func TestComposer_FailureReturnsFallback(t *testing.T) {
	ai := &stubProvider{chat: func(context.Context, []core.Message, []core.Tool) (core.Message, error) {
		return core.Message{}, errors.New("unreachable")
	}}
	c := NewComposer(ai, testLLMConfig())

	answer := c.ComposeResults(context.Background(), "q", nil, nil)
	assert.Equal(t, FallbackAnswer, answer)

	answer = c.Converse(context.Background(), "hi", nil)
	assert.Equal(t, FallbackAnswer, answer)
}

func TestComposer_StripsFencesAndRendersHTML(t *testing.T) {
	ai := &stubProvider{chat: func(context.Context, []core.Message, []core.Tool) (core.Message, error) {
		return core.Message{Content: "```html\n<table><tr><td>Alice</td></tr></table>\n```"}, nil
	}}
	c := NewComposer(ai, testLLMConfig())

	answer := c.ComposeResults(context.Background(), "q", nil, nil)
	assert.Contains(t, answer, "<table>")
	assert.NotContains(t, answer, "```")
}

func TestComposer_BudgetTruncatesDump(t *testing.T) {
	cfg := testLLMConfig()
	cfg.DumpTokenBudget = 20
	c := &Composer{cfg: cfg}

	long := strings.Repeat("activity line with several words\n", 50)
	out := c.budget(long)
	assert.Less(t, len(out), len(long))
	assert.Contains(t, out, "truncated")
}
