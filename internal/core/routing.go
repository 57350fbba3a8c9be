package core

// Strategy is the retrieval strategy selected for an incoming message.
type Strategy string

const (
	StrategySearch     Strategy = "search_activities"
	StrategyListUsers  Strategy = "list_users"
	StrategyAnalyzeAll Strategy = "analyze_all_data"
	StrategyConverse   Strategy = "general_conversation"
)

// KnownStrategies lists every strategy in freeform-match precedence order.
// More specific names come first so that a model answer mentioning several
// resolves deterministically.
var KnownStrategies = []Strategy{
	StrategySearch,
	StrategyListUsers,
	StrategyAnalyzeAll,
	StrategyConverse,
}

// RoutingDecision is the outcome of intent classification. Exactly one
// strategy is set; SearchParams is only meaningful for StrategySearch.
// Decisions are transient and never persisted.
type RoutingDecision struct {
	Strategy Strategy
	Search   ActivityFilter
}

// Converse is the total fallback decision: any routing failure maps here.
func Converse() RoutingDecision {
	return RoutingDecision{Strategy: StrategyConverse}
}
