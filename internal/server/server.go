// Package server is the HTTP boundary over the mentor core.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/xaenox/study-buddy/internal/mentor"
	"go.uber.org/zap"
)

type Handler struct {
	mentor *mentor.Mentor
	logger *zap.Logger
}

func NewHandler(m *mentor.Mentor, logger *zap.Logger) *Handler {
	return &Handler{
		mentor: m,
		logger: logger,
	}
}

func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)

	r.Get("/", h.handleRoot)
	r.Post("/chat", h.handleChat)
	r.Post("/set-name", h.handleSetName)
	return r
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type nameRequest struct {
	Name      string `json:"name"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Study Buddy API running"})
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SessionID == "" {
		req.SessionID = "user_" + uuid.New().String()[:8]
	}

	reply, err := h.mentor.HandleMessage(r.Context(), req.SessionID, req.Message)
	if err != nil {
		h.logger.Error("Failed to handle message",
			zap.Error(err),
			zap.String("session_id", req.SessionID))
		writeError(w, http.StatusInternalServerError, "failed to handle message")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, SessionID: req.SessionID})
}

func (h *Handler) handleSetName(w http.ResponseWriter, r *http.Request) {
	var req nameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.SessionID == "" {
		req.SessionID = "user_" + uuid.New().String()[:8]
	}

	reply, err := h.mentor.SetName(r.Context(), req.SessionID, req.Name)
	if err != nil {
		h.logger.Error("Failed to set name",
			zap.Error(err),
			zap.String("session_id", req.SessionID))
		writeError(w, http.StatusInternalServerError, "failed to set name")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, SessionID: req.SessionID})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
