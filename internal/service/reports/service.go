package reports

import (
	"context"
	"fmt"

	"github.com/sandevgo/taskchat/internal/config"
	"github.com/sandevgo/taskchat/internal/core"
	"github.com/sandevgo/taskchat/pkg/log"
)

// SmartQueryResult is the full payload of one smart query: the query
// the model proposed, its advisory confidence, the rows it returned
// and a short model-written commentary on them.
type SmartQueryResult struct {
	Query      string           `json:"query"`
	Confidence float64          `json:"confidence"`
	Result     []map[string]any `json:"result"`
	Insights   string           `json:"insights"`
}

// Service covers the reporting surface: smart queries over the
// reporting schema plus the fixed chat/workspace reads feeding the
// report endpoints.
type Service struct {
	ai    core.AIProvider
	repo  core.ReportRepository
	synth *Synthesizer
	cfg   *config.LLMConfig
}

func NewService(ai core.AIProvider, repo core.ReportRepository, cfg *config.LLMConfig) *Service {
	return &Service{ai: ai, repo: repo, synth: NewSynthesizer(ai, cfg), cfg: cfg}
}

// SmartQuery runs the synthesize→validate→execute→insights chain.
// Errors keep their type so the transport can pick a status code:
// ErrInsufficientInfo and ErrUnsafeQuery are client-shaped, anything
// else is an execution failure.
func (s *Service) SmartQuery(ctx context.Context, prompt, workspace string) (SmartQueryResult, error) {
	logger := log.FromCtx(ctx)

	sq, err := s.synth.Synthesize(ctx, prompt, workspace)
	if err != nil {
		return SmartQueryResult{}, err
	}
	logger.Debug().Str("query", sq.Query).Float64("confidence", sq.Confidence).Msg("query synthesized")

	if err := ValidateReadQuery(sq.Query); err != nil {
		logger.Warn().Err(err).Str("query", sq.Query).Msg("synthesized query rejected")
		return SmartQueryResult{}, err
	}

	rows, err := s.repo.ExecuteReadQuery(ctx, sq.Query)
	if err != nil {
		return SmartQueryResult{}, fmt.Errorf("executing synthesized query: %w", err)
	}

	return SmartQueryResult{
		Query:      sq.Query,
		Confidence: sq.Confidence,
		Result:     rows,
		Insights:   s.insights(ctx, prompt, rows),
	}, nil
}

// Chats returns workspace chat interactions matching the filter.
func (s *Service) Chats(ctx context.Context, f core.ChatFilter) ([]core.WorkspaceChat, error) {
	return s.repo.WorkspaceChats(ctx, f)
}

// Workspaces lists all reporting workspaces.
func (s *Service) Workspaces(ctx context.Context) ([]core.Workspace, error) {
	return s.repo.Workspaces(ctx)
}
