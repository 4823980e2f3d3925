// Package server binds the table registry to an HTTP control surface: JSON
// endpoints for the table operations and a websocket push stream for
// subscriptions.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/cardroom/holdemd/internal/engine"
	"github.com/cardroom/holdemd/internal/table"
)

// Server exposes the control surface over HTTP
type Server struct {
	addr       string
	adminToken string
	registry   *table.Registry
	upgrader   websocket.Upgrader
	logger     *log.Logger
	httpSrv    *http.Server
}

// NewServer wires the registry behind the HTTP mux
func NewServer(addr, adminToken string, registry *table.Registry, logger *log.Logger) *Server {
	s := &Server{
		addr:       addr,
		adminToken: adminToken,
		registry:   registry,
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		logger: logger.WithPrefix("http"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /tables", s.handleCreateTable)
	mux.HandleFunc("GET /tables", s.handleListTables)
	mux.HandleFunc("DELETE /tables/{id}", s.handleDestroyTable)
	mux.HandleFunc("POST /tables/{id}/join", s.handleJoin)
	mux.HandleFunc("POST /tables/{id}/leave", s.handleLeave)
	mux.HandleFunc("POST /tables/{id}/start", s.handleStart)
	mux.HandleFunc("POST /tables/{id}/act", s.handleAct)
	mux.HandleFunc("GET /tables/{id}/state", s.handleState)
	mux.HandleFunc("GET /tables/{id}/god", s.handleGodState)
	mux.HandleFunc("POST /tables/{id}/reconnect", s.handleReconnect)
	mux.HandleFunc("GET /tables/{id}/ws", s.handleWebSocket)
	mux.HandleFunc("GET /health", s.handleHealth)

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, for tests against httptest servers
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// Run serves until the context is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("listening", "addr", s.addr)
		if err := s.httpSrv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		err := s.httpSrv.Shutdown(shutdownCtx)
		s.registry.Close()
		return err
	})

	return g.Wait()
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*table.Actor, bool) {
	actor, ok := s.registry.Get(r.PathValue("id"))
	if !ok {
		s.writeError(w, table.ErrTableNotFound)
		return nil, false
	}
	return actor, true
}

func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	var req createTableRequest
	if !s.decode(w, r, &req) {
		return
	}
	actor, err := s.registry.Create(engine.Config{
		SmallBlind: req.SmallBlind,
		BigBlind:   req.BigBlind,
		Ante:       req.Ante,
		MaxSeats:   req.MaxSeats,
	})
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_config", Reason: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusCreated, createTableResponse{TableID: actor.ID})
}

func (s *Server) handleListTables(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, listTablesResponse{Tables: s.registry.IDs()})
}

func (s *Server) handleDestroyTable(w http.ResponseWriter, r *http.Request) {
	if err := s.registry.Destroy(r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req joinRequest
	if !s.decode(w, r, &req) {
		return
	}
	seat, err := actor.Join(req.Name, req.Chips)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, joinResponse{Seat: seat})
}

func (s *Server) handleLeave(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req seatRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := actor.Leave(req.Seat); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, okResponse{OK: true})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.lookup(w, r)
	if !ok {
		return
	}
	snap, err := actor.StartHand()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleAct(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req actRequest
	if !s.decode(w, r, &req) {
		return
	}
	actionType, err := engine.ParseActionType(req.Action)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_action", Reason: err.Error()})
		return
	}
	snap, err := actor.Act(req.Seat, engine.Action{Type: actionType, Amount: req.Amount})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.lookup(w, r)
	if !ok {
		return
	}
	seat, ok := s.parseSeat(w, r, -1)
	if !ok {
		return
	}
	snap, err := actor.State(seat)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleGodState(w http.ResponseWriter, r *http.Request) {
	if s.adminToken == "" || r.Header.Get("X-Admin-Token") != s.adminToken {
		s.writeJSON(w, http.StatusForbidden, errorResponse{Error: "forbidden"})
		return
	}
	actor, ok := s.lookup(w, r)
	if !ok {
		return
	}
	snap, err := actor.GodState()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleReconnect(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.lookup(w, r)
	if !ok {
		return
	}
	var req seatRequest
	if !s.decode(w, r, &req) {
		return
	}
	if err := actor.Reconnect(req.Seat); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// handleWebSocket upgrades the connection and streams personalized
// snapshots until the client goes away or the table closes.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.lookup(w, r)
	if !ok {
		return
	}
	seat, ok := s.parseSeat(w, r, -1)
	if !ok {
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	sub, err := actor.Subscribe(seat)
	if err != nil {
		_ = conn.Close()
		return
	}
	s.logger.Info("subscriber attached", "table", actor.ID, "seat", seat)

	// A seated subscriber connecting counts as presence: clear any
	// pending auto-fold deadline.
	if seat >= 0 {
		_ = actor.Reconnect(seat)
	}

	// Reader goroutine only detects the client closing.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				_ = actor.Unsubscribe(sub)
				return
			}
		}
	}()

	for snap := range sub.Updates() {
		if err := conn.WriteJSON(snap); err != nil {
			_ = actor.Unsubscribe(sub)
			break
		}
	}
	_ = conn.Close()
	s.logger.Info("subscriber detached", "table", actor.ID, "seat", seat)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// parseSeat reads the optional ?seat=N query parameter
func (s *Server) parseSeat(w http.ResponseWriter, r *http.Request, def int) (int, bool) {
	raw := r.URL.Query().Get("seat")
	if raw == "" {
		return def, true
	}
	seat, err := strconv.Atoi(raw)
	if err != nil || seat < 0 {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_seat"})
		return 0, false
	}
	return seat, true
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_json", Reason: err.Error()})
		return false
	}
	return true
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, body := errorStatus(err)
	s.writeJSON(w, status, body)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}
