package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/macrochain/macrochain/internal/report"
	"github.com/macrochain/macrochain/internal/research"
	"github.com/macrochain/macrochain/pkg/logger"
)

// StreamHandler serves research runs over a websocket: the client sends one
// analyze request and receives per-phase progress events followed by the
// final document.
type StreamHandler struct {
	pipeline *research.Pipeline
	upgrader websocket.Upgrader
	logger   *logger.Logger
}

// NewStreamHandler creates a new stream handler.
func NewStreamHandler(pipeline *research.Pipeline, log *logger.Logger) *StreamHandler {
	return &StreamHandler{
		pipeline: pipeline,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		logger: log,
	}
}

// StreamEvent is one message pushed to the client. Type is "phase" for
// progress events, "result" for the final document, "error" for failures.
type StreamEvent struct {
	Type     string                 `json:"type"`
	Phase    research.Phase         `json:"phase,omitempty"`
	Finding  *research.PhaseFinding `json:"finding,omitempty"`
	Document *report.Document       `json:"document,omitempty"`
	Error    string                 `json:"error,omitempty"`
}

// Stream upgrades the connection and runs one analyze request.
// GET /api/research/stream
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}
	defer conn.Close()

	var req AnalyzeRequest
	if err := conn.ReadJSON(&req); err != nil {
		_ = conn.WriteJSON(StreamEvent{Type: "error", Error: "Invalid request message"})
		return
	}

	result, err := h.pipeline.ExecuteWithProgress(r.Context(), req.Query, req.Assets,
		func(phase research.Phase, finding research.PhaseFinding) {
			_ = conn.WriteJSON(StreamEvent{Type: "phase", Phase: phase, Finding: &finding})
		})
	if err != nil {
		msg := "Research pipeline failed"
		if errors.Is(err, research.ErrInvalidQuery) {
			msg = "Query must not be empty"
		}
		_ = conn.WriteJSON(StreamEvent{Type: "error", Error: msg})
		return
	}

	doc := report.Format(result)
	if err := conn.WriteJSON(StreamEvent{Type: "result", Document: &doc}); err != nil {
		h.logger.WithError(err).Warn("Failed to write final stream event")
	}
}
