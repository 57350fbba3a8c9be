package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sandevgo/taskchat/internal/core"
)

// routingTools is the declarative strategy list handed to the model:
// one function per strategy, parameter schemas on the ones that take
// arguments.
var routingTools = []core.Tool{
	{
		Type: "function",
		Function: core.Function{
			Name:        string(core.StrategySearch),
			Description: "Search activities filtered by assignee, status, task name and/or month. All filters optional.",
			Parameters: json.RawMessage(`{
				"type": "object",
				"properties": {
					"assignee": {"type": "string", "description": "Name (or part of a name) of the assigned user"},
					"status": {"type": "string", "enum": ["todo", "in-progress", "done"]},
					"task_name": {"type": "string", "description": "Name (or part) of the parent task"},
					"month": {"type": "string", "description": "Two-digit month 01-12"}
				}
			}`),
		},
	},
	{
		Type: "function",
		Function: core.Function{
			Name:        string(core.StrategyListUsers),
			Description: "List every known user in the task tracker.",
			Parameters:  json.RawMessage(`{"type": "object", "properties": {}}`),
		},
	},
	{
		Type: "function",
		Function: core.Function{
			Name:        string(core.StrategyAnalyzeAll),
			Description: "Answer analytical or summary questions over the full activity dataset.",
			Parameters:  json.RawMessage(`{"type": "object", "properties": {}}`),
		},
	},
	{
		Type: "function",
		Function: core.Function{
			Name:        string(core.StrategyConverse),
			Description: "Respond conversationally without touching any data.",
			Parameters:  json.RawMessage(`{"type": "object", "properties": {}}`),
		},
	},
}

// decisionFromToolCall turns the model's function selection into a
// RoutingDecision. The selection is untrusted input: the name is checked
// against the known set, arguments are coerced to their declared types
// and unknown or invalid ones are dropped.
func decisionFromToolCall(tc core.ToolCall) (core.RoutingDecision, error) {
	strategy, ok := parseStrategy(tc.Function.Name)
	if !ok {
		return core.RoutingDecision{}, fmt.Errorf("unknown strategy %q", tc.Function.Name)
	}

	decision := core.RoutingDecision{Strategy: strategy}
	if strategy != core.StrategySearch {
		return decision, nil
	}

	var raw map[string]any
	if tc.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &raw); err != nil {
			// Arguments are optional; a broken payload still routes.
			return decision, nil
		}
	}

	if v, ok := stringArg(raw, "assignee"); ok {
		decision.Search.Assignee = v
	}
	if v, ok := stringArg(raw, "status"); ok {
		if status, valid := core.ParseActivityStatus(v); valid {
			decision.Search.Status = status
		}
	}
	if v, ok := stringArg(raw, "task_name"); ok {
		decision.Search.TaskName = v
	}
	if v, ok := stringArg(raw, "month"); ok && validMonth(v) {
		decision.Search.Month = v
	}
	return decision, nil
}

// matchFreeform resolves a plain-text model answer against the known
// strategy names, case-insensitively, in fixed precedence order.
func matchFreeform(text string) core.RoutingDecision {
	lowered := strings.ToLower(text)
	for _, strategy := range core.KnownStrategies {
		if strings.Contains(lowered, string(strategy)) {
			return core.RoutingDecision{Strategy: strategy}
		}
	}
	return core.Converse()
}

func parseStrategy(name string) (core.Strategy, bool) {
	for _, s := range core.KnownStrategies {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}

func stringArg(args map[string]any, key string) (string, bool) {
	v, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok && s != ""
}

func validMonth(m string) bool {
	if len(m) != 2 {
		return false
	}
	return m >= "01" && m <= "12" && m[0] >= '0' && m[0] <= '1' && m[1] >= '0' && m[1] <= '9'
}
