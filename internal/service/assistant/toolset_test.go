package assistant

import (
	"testing"

	"github.com/sandevgo/taskchat/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func searchCall(args string) core.ToolCall {
	return core.ToolCall{
		ID:   "call_0",
		Type: "function",
		Function: core.FunctionCall{
			Name:      string(core.StrategySearch),
			Arguments: args,
		},
	}
}

func TestDecisionFromToolCall_SearchWithFilters(t *testing.T) {
	d, err := decisionFromToolCall(searchCall(`{"assignee":"Alice","status":"done","task_name":"Launch","month":"03"}`))
	require.NoError(t, err)

	assert.Equal(t, core.StrategySearch, d.Strategy)
	assert.Equal(t, "Alice", d.Search.Assignee)
	assert.Equal(t, core.StatusDone, d.Search.Status)
	assert.Equal(t, "Launch", d.Search.TaskName)
	assert.Equal(t, "03", d.Search.Month)
}

func TestDecisionFromToolCall_UnknownStrategy(t *testing.T) {
	_, err := decisionFromToolCall(core.ToolCall{
		Function: core.FunctionCall{Name: "delete_everything"},
	})
	assert.Error(t, err)
}

func TestDecisionFromToolCall_DropsInvalidArguments(t *testing.T) {
	d, err := decisionFromToolCall(searchCall(`{"status":"finished","month":"13","assignee":42}`))
	require.NoError(t, err)

	assert.Equal(t, core.StrategySearch, d.Strategy)
	assert.True(t, d.Search.Empty())
}

func TestDecisionFromToolCall_BrokenArgumentsStillRoute(t *testing.T) {
	d, err := decisionFromToolCall(searchCall(`{not json`))
	require.NoError(t, err)

	assert.Equal(t, core.StrategySearch, d.Strategy)
	assert.True(t, d.Search.Empty())
}

func TestDecisionFromToolCall_NoArgsForSimpleStrategies(t *testing.T) {
	d, err := decisionFromToolCall(core.ToolCall{
		Function: core.FunctionCall{Name: string(core.StrategyListUsers), Arguments: `{"assignee":"Bob"}`},
	})
	require.NoError(t, err)

	assert.Equal(t, core.StrategyListUsers, d.Strategy)
	assert.True(t, d.Search.Empty())
}

func TestMatchFreeform(t *testing.T) {
	tests := []struct {
		name string
		text string
		want core.Strategy
	}{
		{"exact", "list_users", core.StrategyListUsers},
		{"case insensitive", "Strategy: LIST_USERS", core.StrategyListUsers},
		{"embedded in prose", "I would use analyze_all_data here.", core.StrategyAnalyzeAll},
		{"precedence when several mentioned", "search_activities or general_conversation", core.StrategySearch},
		{"no match falls back", "I cannot decide", core.StrategyConverse},
		{"empty falls back", "", core.StrategyConverse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, matchFreeform(tt.text).Strategy)
		})
	}
}

func TestValidMonth(t *testing.T) {
	for _, m := range []string{"01", "06", "12"} {
		assert.True(t, validMonth(m), m)
	}
	for _, m := range []string{"", "1", "00", "13", "ab", "1x"} {
		assert.False(t, validMonth(m), m)
	}
}
