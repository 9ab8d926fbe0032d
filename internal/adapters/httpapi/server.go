// Package httpapi exposes the treatment engine over HTTP. A single
// session endpoint dispatches on the "action" field so web clients can
// drive a whole session through one URL.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	mindshift "github.com/mindshifting/mindshift"
	"github.com/mindshifting/mindshift/internal/presentation/graph"
	"github.com/mindshifting/mindshift/pkg/domain"
)

// Server wires HTTP routes to the engine.
type Server struct {
	engine *mindshift.Engine
	logger *slog.Logger
}

// NewHandler creates the HTTP handler for the engine.
func NewHandler(engine *mindshift.Engine, logger *slog.Logger) http.Handler {
	s := &Server{engine: engine, logger: logger}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/sessions/{sessionID}", s.sessionAction)
		r.Get("/sessions/{sessionID}", s.getSession)
		r.Get("/graph", s.getGraph)
	})

	return r
}

// actionRequest is the body of POST /v1/sessions/{sessionID}.
type actionRequest struct {
	Action     string `json:"action"` // start | continue | undo
	UserID     string `json:"user_id"`
	FirstName  string `json:"first_name,omitempty"`
	Input      string `json:"input,omitempty"`
	UndoToStep string `json:"undo_to_step,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) sessionAction(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var body actionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.UserID == "" {
		writeError(w, http.StatusBadRequest, "user_id is required")
		return
	}

	ctx := r.Context()
	switch body.Action {
	case "start":
		result, err := s.engine.Start(ctx, sessionID, body.UserID, body.FirstName)
		if err != nil {
			s.writeEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, result)

	case "continue":
		result, err := s.engine.Continue(ctx, sessionID, body.UserID, body.Input)
		if err != nil {
			s.writeEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)

	case "undo":
		result, err := s.engine.Undo(ctx, sessionID, body.UserID, domain.Step(body.UndoToStep))
		if err != nil {
			s.writeEngineError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, result)

	default:
		writeError(w, http.StatusBadRequest, "unknown action: "+body.Action)
	}
}

// sessionView is the read model for GET /v1/sessions/{sessionID}.
// The transcript and undo history stay private to the engine.
type sessionView struct {
	SessionID   string               `json:"session_id"`
	CurrentStep domain.Step          `json:"current_step"`
	WorkType    domain.WorkType      `json:"work_type,omitempty"`
	Method      domain.Method        `json:"method,omitempty"`
	Status      domain.SessionStatus `json:"status"`
	Stats       domain.Stats         `json:"stats"`
}

func (s *Server) getSession(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	state, err := s.engine.State(r.Context(), sessionID)
	if err != nil {
		s.writeEngineError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, sessionView{
		SessionID:   state.SessionID,
		CurrentStep: state.CurrentStep,
		WorkType:    state.WorkType,
		Method:      state.Method,
		Status:      state.Status,
		Stats:       state.Stats,
	})
}

func (s *Server) getGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/vnd.mermaid")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(graph.GenerateMermaid(s.engine.Table(), nil)))
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session not found")
	case errors.Is(err, domain.ErrSessionExists):
		writeError(w, http.StatusConflict, "session already exists")
	case errors.Is(err, domain.ErrSessionClosed):
		writeError(w, http.StatusConflict, "session already completed")
	case errors.Is(err, domain.ErrRevisionConflict):
		writeError(w, http.StatusConflict, "concurrent update, retry")
	default:
		s.logger.Error("request failed",
			"path", r.URL.Path,
			"err", err,
		)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
