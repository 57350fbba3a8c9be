package httpapi

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sandevgo/taskchat/internal/core"
	"github.com/sandevgo/taskchat/internal/service/reports"
	"github.com/sandevgo/taskchat/pkg/conv"
	"github.com/sandevgo/taskchat/pkg/log"
)

type smartQueryRequest struct {
	Prompt    string `json:"prompt"`
	Workspace string `json:"workspace"`
}

func (h *handlers) postSmartQuery(w http.ResponseWriter, r *http.Request) {
	var req smartQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	res, err := h.reports.SmartQuery(r.Context(), req.Prompt, req.Workspace)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, res)
	case errors.Is(err, reports.ErrInsufficientInfo), errors.Is(err, reports.ErrUnsafeQuery):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.FromCtx(r.Context()).Error().Err(err).Msg("smart query failed")
		writeError(w, http.StatusInternalServerError, "query execution failed")
	}
}

func chatFilterFromQuery(r *http.Request) core.ChatFilter {
	q := r.URL.Query()
	return core.ChatFilter{
		Workspace: q.Get("workspace"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
		OnlyLeads: q.Get("only_leads") == "true",
	}
}

func (h *handlers) getChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.reports.Chats(r.Context(), chatFilterFromQuery(r))
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Msg("chat report failed")
		writeError(w, http.StatusInternalServerError, "failed to load chats")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"chats": chats})
}

func (h *handlers) exportChats(w http.ResponseWriter, r *http.Request) {
	chats, err := h.reports.Chats(r.Context(), chatFilterFromQuery(r))
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Msg("chat export failed")
		writeError(w, http.StatusInternalServerError, "failed to load chats")
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="chats.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"session_id", "created_at", "name", "email", "prompt", "response", "workspace"})
	for _, c := range chats {
		created := ""
		if c.CreatedAt != nil {
			created = c.CreatedAt.Format("2006-01-02 15:04:05")
		}
		// Stored responses are chat HTML; flatten them for the sheet.
		_ = cw.Write([]string{
			c.SessionID, created, c.Name, c.Email,
			c.Prompt, conv.HTMLToPlainText(c.Response), c.WorkspaceName,
		})
	}
	cw.Flush()
}

func (h *handlers) getWorkspaces(w http.ResponseWriter, r *http.Request) {
	workspaces, err := h.reports.Workspaces(r.Context())
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Msg("workspace report failed")
		writeError(w, http.StatusInternalServerError, "failed to load workspaces")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workspaces": workspaces})
}
