package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sandevgo/taskchat/internal/config"
	"github.com/sandevgo/taskchat/internal/core"
	"github.com/sandevgo/taskchat/internal/service/reports"
	"github.com/sandevgo/taskchat/pkg/log"
)

// ChatService is the assistant surface the transport depends on.
type ChatService interface {
	Respond(ctx context.Context, sessionID, message string) (string, []core.ConversationTurn)
	History(ctx context.Context, sessionID string) ([]core.ConversationTurn, error)
}

// ReportService is the reporting surface the transport depends on.
type ReportService interface {
	SmartQuery(ctx context.Context, prompt, workspace string) (reports.SmartQueryResult, error)
	Chats(ctx context.Context, f core.ChatFilter) ([]core.WorkspaceChat, error)
	Workspaces(ctx context.Context) ([]core.Workspace, error)
}

// Server hosts the JSON API. It plugs into the srv lifecycle: Start
// blocks on ListenAndServe, Shutdown drains with the configured
// timeout.
type Server struct {
	httpSrv *http.Server
	cfg     *config.HTTPConfig
}

func NewServer(ctx context.Context, cfg *config.HTTPConfig, chat ChatService, reporting ReportService) *Server {
	h := &handlers{chat: chat, reports: reporting}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthcheck", h.healthcheck)
	mux.HandleFunc("POST /chat", h.postChat)
	mux.HandleFunc("GET /history/{session_id}", h.getHistory)

	protected := withAPIKey(cfg.APIKey)
	mux.Handle("POST /helper/smart_query", protected(http.HandlerFunc(h.postSmartQuery)))
	mux.Handle("GET /relatories/chats", protected(http.HandlerFunc(h.getChats)))
	mux.Handle("GET /relatories/export/chats", protected(http.HandlerFunc(h.exportChats)))
	mux.Handle("GET /relatories/workspaces", protected(http.HandlerFunc(h.getWorkspaces)))

	handler := withCORS(withRequestLog(log.FromCtx(ctx), mux))

	return &Server{
		httpSrv: &http.Server{
			Addr:              cfg.Addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		},
		cfg: cfg,
	}
}

func (s *Server) Start(ctx context.Context) error {
	log.FromCtx(ctx).Info().Str("addr", s.httpSrv.Addr).Msg("http server listening")
	if err := s.httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	timeout := time.Duration(s.cfg.ShutdownTimeoutSec) * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()
	return s.httpSrv.Shutdown(shutdownCtx)
}
