// Package server is the HTTP boundary: multipart voice-command processing,
// text-only chat, session management and operational introspection.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/aura-assist/aura-backend/internal/config"
	"github.com/aura-assist/aura-backend/internal/httputil"
	"github.com/aura-assist/aura-backend/internal/media"
	"github.com/aura-assist/aura-backend/internal/pipeline"
	"github.com/aura-assist/aura-backend/internal/session"
	"github.com/aura-assist/aura-backend/internal/telemetry"
	"github.com/aura-assist/aura-backend/internal/types"
)

// ProcessResponse is the caller-facing result of one pipeline run.
type ProcessResponse struct {
	Success           bool               `json:"success"`
	Transcript        string             `json:"transcript,omitempty"`
	Intent            string             `json:"intent,omitempty"`
	ActionPlan        []types.ActionStep `json:"action_plan"`
	ResponseAvailable bool               `json:"response_available"`
	ResponseText      string             `json:"response_text,omitempty"`
	ErrorMessage      string             `json:"error_message,omitempty"`
	SessionID         string             `json:"session_id"`
	ProcessingTime    float64            `json:"processing_time"`
}

// ChatResponse is the text-only chat result.
type ChatResponse struct {
	Success   bool   `json:"success"`
	Response  string `json:"response"`
	Intent    string `json:"intent,omitempty"`
	SessionID string `json:"session_id"`
}

type chatRequest struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id,omitempty"`
}

// Handler serves the HTTP API.
type Handler struct {
	orchestrator *pipeline.Orchestrator
	store        session.Store
	monitor      *telemetry.Monitor
	serverCfg    func() config.ServerConfig
	logger       *slog.Logger
}

func NewHandler(o *pipeline.Orchestrator, store session.Store, monitor *telemetry.Monitor, serverCfg func() config.ServerConfig) *Handler {
	return &Handler{
		orchestrator: o,
		store:        store,
		monitor:      monitor,
		serverCfg:    serverCfg,
		logger:       slog.Default().With("component", "server"),
	}
}

// Process handles the main multipart voice-command endpoint.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	reqID := w.Header().Get("X-Request-ID")
	cfg := h.serverCfg()

	if err := r.ParseMultipartForm(cfg.MaxAudioBytes + cfg.MaxImageBytes); err != nil {
		httputil.WriteBadRequestError(w, reqID, "Invalid multipart form")
		return
	}

	sessionID := r.FormValue("session_id")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	audio, err := readFormFile(r, "audio")
	if err != nil {
		httputil.WriteBadRequestError(w, reqID, "Audio file is required")
		return
	}
	if err := media.ValidateAudio(audio, cfg.MaxAudioBytes); err != nil {
		if errors.Is(err, media.ErrPayloadTooLarge) {
			httputil.WritePayloadTooLargeError(w, reqID, "Audio payload too large")
			return
		}
		httputil.WriteBadRequestError(w, reqID, "Invalid audio format")
		return
	}

	var screenshot []byte
	if raw, err := readFormFile(r, "screenshot"); err == nil && len(raw) > 0 {
		screenshot, err = media.PrepareScreenshot(raw, cfg.MaxImageBytes)
		if err != nil {
			if errors.Is(err, media.ErrPayloadTooLarge) {
				httputil.WritePayloadTooLargeError(w, reqID, "Screenshot payload too large")
				return
			}
			httputil.WriteBadRequestError(w, reqID, "Invalid image format")
			return
		}
	}

	h.logger.Info("processing request",
		"session_id", sessionID,
		"audio_bytes", len(audio),
		"screenshot_bytes", len(screenshot))

	record := h.orchestrator.Run(r.Context(), types.RequestRecord{
		SessionID:     sessionID,
		UITree:        r.FormValue("ui_tree"),
		HasAudio:      true,
		HasScreenshot: len(screenshot) > 0,
		Audio:         audio,
		Screenshot:    screenshot,
	})

	resp := ProcessResponse{
		Success:           record.Error == "",
		Transcript:        record.Transcript,
		Intent:            record.Intent,
		ActionPlan:        record.ActionPlan,
		ResponseAvailable: record.TTSAudioAvailable,
		ResponseText:      record.ResponseText,
		ErrorMessage:      record.Error,
		SessionID:         sessionID,
		ProcessingTime:    time.Since(start).Seconds(),
	}
	if resp.ActionPlan == nil {
		resp.ActionPlan = []types.ActionStep{}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Chat handles the text-only endpoint for callers without audio.
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteBadRequestError(w, reqID, "Invalid JSON body")
		return
	}
	if req.Text == "" {
		httputil.WriteBadRequestError(w, reqID, "text is required")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	record := h.orchestrator.Run(r.Context(), types.RequestRecord{
		SessionID:  sessionID,
		Transcript: req.Text,
	})

	response := record.ResponseText
	if response == "" {
		response = "No response generated"
	}
	writeJSON(w, http.StatusOK, ChatResponse{
		Success:   record.Error == "",
		Response:  response,
		Intent:    record.Intent,
		SessionID: sessionID,
	})
}

// GraphInfo returns the static pipeline description.
func (h *Handler) GraphInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.orchestrator.Info())
}

// SessionHistory returns the last checkpoint for a session.
func (h *Handler) SessionHistory(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")
	sessionID := chi.URLParam(r, "id")

	record, err := h.store.Get(r.Context(), pipeline.ThreadKey(sessionID))
	if errors.Is(err, session.ErrNotFound) {
		writeJSON(w, http.StatusOK, map[string]any{
			"session_id": sessionID,
			"history":    []any{},
		})
		return
	}
	if err != nil {
		h.logger.Error("history retrieval failed", "session_id", sessionID, "error", err)
		httputil.WriteInternalError(w, reqID, "Failed to retrieve session history")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"history":    []types.RequestRecord{record},
	})
}

// ClearSession deletes a session's checkpoint.
func (h *Handler) ClearSession(w http.ResponseWriter, r *http.Request) {
	reqID := w.Header().Get("X-Request-ID")
	sessionID := chi.URLParam(r, "id")

	if err := h.store.Delete(r.Context(), pipeline.ThreadKey(sessionID)); err != nil {
		h.logger.Error("session clear failed", "session_id", sessionID, "error", err)
		httputil.WriteInternalError(w, reqID, "Failed to clear session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Session " + sessionID + " cleared",
		"success": true,
	})
}

// Health reports service status plus the graph description.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"services": map[string]string{
			"stt": "operational",
			"llm": "operational",
			"vlm": "operational",
			"tts": "operational",
		},
		"graph_info": h.orchestrator.Info(),
	})
}

// Stats returns the performance monitor summary.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.monitor.Summarize())
}

func readFormFile(r *http.Request, field string) ([]byte, error) {
	file, _, err := r.FormFile(field)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
