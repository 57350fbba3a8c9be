package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/sandevgo/taskchat/internal/core"
	"github.com/sandevgo/taskchat/pkg/log"
)

type handlers struct {
	chat    ChatService
	reports ReportService
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Answer  string     `json:"answer"`
	History [][]string `json:"history"`
}

func (h *handlers) healthcheck(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "live"})
}

func (h *handlers) postChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Message == "" || req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "message and session_id are required")
		return
	}

	answer, history := h.chat.Respond(r.Context(), req.SessionID, req.Message)
	writeJSON(w, http.StatusOK, chatResponse{Answer: answer, History: historyPairs(history)})
}

func (h *handlers) getHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("session_id")
	history, err := h.chat.History(r.Context(), sessionID)
	if err != nil {
		log.FromCtx(r.Context()).Error().Err(err).Str("session", sessionID).Msg("history read failed")
		writeError(w, http.StatusInternalServerError, "failed to read history")
		return
	}
	writeJSON(w, http.StatusOK, map[string][][]string{"history": historyPairs(history)})
}

// historyPairs flattens turns into [user_message, ai_response] pairs,
// the shape the chat frontend renders.
func historyPairs(turns []core.ConversationTurn) [][]string {
	pairs := make([][]string, 0, len(turns))
	for _, t := range turns {
		pairs = append(pairs, []string{t.UserMessage, t.AIResponse})
	}
	return pairs
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
