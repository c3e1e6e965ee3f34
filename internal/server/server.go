// Package server exposes hold'em tables over HTTP and WebSocket. Each
// table is a Session resolved through the Registry; handlers translate
// requests into engine calls and engine errors into status codes.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/cardroom/holdem/internal/game"
	"github.com/cardroom/holdem/internal/gameid"
)

// Server routes game requests to sessions.
type Server struct {
	registry *Registry
	upgrader websocket.Upgrader
	logger   *log.Logger
}

// NewServer creates a server over the given registry.
func NewServer(registry *Registry, logger *log.Logger) *Server {
	return &Server{
		registry: registry,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browsers talk to the server cross-origin in development.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.WithPrefix("server"),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /games", s.handleCreateGame)
	mux.HandleFunc("POST /games/{id}/start", s.handleStartHand)
	mux.HandleFunc("POST /games/{id}/actions", s.handleAction)
	mux.HandleFunc("GET /games/{id}/state", s.handleState)
	mux.HandleFunc("GET /ws/{id}", s.handleWebSocket)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := s.registry.Create(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, CreateGameResponse{ID: session.ID})
}

func (s *Server) handleStartHand(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	if err := session.StartHand(r.Context()); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot(r.URL.Query().Get("player")))
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Player == "" || req.Action == "" {
		writeError(w, http.StatusBadRequest, "player and action are required")
		return
	}

	if err := session.Act(r.Context(), req.Player, req.Action, req.Amount); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot(req.Player))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot(r.URL.Query().Get("player")))
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "error", err)
		return
	}

	client := NewConnection(conn, r.URL.Query().Get("player"), s.logger)
	client.Start()
	session.AddWatcher(client)

	go func() {
		<-client.Done()
		session.RemoveWatcher(client)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// session resolves the {id} path segment, writing the error response when
// the game does not exist.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	id := r.PathValue("id")
	if err := gameid.Validate(id); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	session, ok := s.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "game not found")
		return nil, false
	}
	return session, true
}

// statusFor maps engine errors to HTTP statuses. Illegal actions are the
// client's fault; everything else is a conflict with current table state.
func statusFor(err error) int {
	switch {
	case errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrHandNotStarted),
		errors.Is(err, game.ErrHandInProgress),
		errors.Is(err, game.ErrHandComplete),
		errors.Is(err, game.ErrNotEnoughPlayers):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
