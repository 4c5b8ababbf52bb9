// Package server exposes the workflow over HTTP. The service is stateless:
// chat_id is echoed back for the client's benefit and never used to retrieve
// prior history.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dyike/ScoutGo/internal/agents"
	"github.com/dyike/ScoutGo/internal/dataflows"
	"github.com/dyike/ScoutGo/internal/logger"
	"github.com/dyike/ScoutGo/internal/workflow"
)

// Runner is what the server needs from the orchestrator.
type Runner interface {
	Run(ctx context.Context, message string) (*workflow.Result, error)
}

// ChatRequest is the inbound message envelope.
type ChatRequest struct {
	Message string `json:"message"`
	ChatID  string `json:"chat_id,omitempty"`
}

// ChatResponse is the reply envelope.
type ChatResponse struct {
	Reply  string `json:"reply"`
	ChatID string `json:"chat_id"`
}

// Server handles the chat and health endpoints.
type Server struct {
	runner Runner
}

// New creates a server around an orchestrator.
func New(runner Runner) *Server {
	return &Server{runner: runner}
}

// Handler builds the route mux.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	return mux
}

// ListenAndServe blocks serving HTTP on addr.
func (s *Server) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Log.Infof("listening on %s", addr)
	return srv.ListenAndServe()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "message is required"})
		return
	}

	chatID := strings.TrimSpace(req.ChatID)
	if chatID == "" {
		chatID = "local"
	}

	result, err := s.runner.Run(r.Context(), req.Message)
	if err != nil {
		// Full chain goes to the log only. Adapter errors wrap raw provider
		// response bodies, so the caller gets a sanitized message.
		logger.Log.Errorf("workflow failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": clientErrorMessage(err)})
		return
	}

	// Domain rejection arrives here as a normal result: fixed refusal text
	// with success semantics.
	writeJSON(w, http.StatusOK, ChatResponse{Reply: result.Document, ChatID: chatID})
}

// clientErrorMessage maps a workflow failure to a human-readable message
// that names the failed step but carries none of the wrapped detail.
func clientErrorMessage(err error) string {
	var stepErr *agents.StepOutputError
	if errors.As(err, &stepErr) {
		return fmt.Sprintf("%s produced no valid structured output", stepErr.Step)
	}
	var searchErr *dataflows.SearchError
	if errors.As(err, &searchErr) {
		return "web search failed"
	}
	var avErr *dataflows.AlphaVantageError
	if errors.As(err, &avErr) {
		return "financial data lookup failed"
	}
	return "workflow failed"
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
