// Package api provides a read-only HTTP observer for a running
// simulation. The handlers serve value snapshots published by the
// driver's tick callback; nothing here can mutate engine state.
package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/talgya/contagion/internal/agents"
	"github.com/talgya/contagion/internal/engine"
)

// Status is the top-level state snapshot served to observers.
type Status struct {
	Tick     int                  `json:"tick"`
	Running  bool                 `json:"running"`
	Counts   agents.Counts        `json:"counts"`
	Contacts engine.ContactTotals `json:"contacts"`
}

// GridView is the lattice snapshot served to observers.
type GridView struct {
	Width  int                 `json:"width"`
	Height int                 `json:"height"`
	Agents []engine.AgentState `json:"agents"`
}

// Server serves the latest published snapshot over HTTP.
type Server struct {
	Port int

	mu     sync.RWMutex
	status Status
	grid   GridView
}

// Publish stores a fresh snapshot. Call it from the driver's OnTick so
// observers always see a consistent post-tick state.
func (s *Server) Publish(sim *engine.Simulation) {
	status := Status{
		Tick:     sim.Tick(),
		Running:  sim.Running(),
		Counts:   sim.Counts(),
		Contacts: sim.Contacts(),
	}
	t := sim.Grid()
	grid := GridView{Width: t.Width, Height: t.Height, Agents: sim.Snapshot()}

	s.mu.Lock()
	s.status = status
	s.grid = grid
	s.mu.Unlock()
}

// Handler returns the observer route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/status", s.handleStatus)
	mux.HandleFunc("/api/v1/counts", s.handleCounts)
	mux.HandleFunc("/api/v1/contacts", s.handleContacts)
	mux.HandleFunc("/api/v1/grid", s.handleGrid)
	return mux
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	mux := s.Handler()
	addr := fmt.Sprintf(":%d", s.Port)
	slog.Info("observer API starting", "addr", addr)

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			slog.Error("observer API error", "error", err)
		}
	}()
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	status := s.status
	s.mu.RUnlock()
	writeJSON(w, status)
}

func (s *Server) handleCounts(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	counts := s.status.Counts
	s.mu.RUnlock()
	writeJSON(w, counts)
}

func (s *Server) handleContacts(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	contacts := s.status.Contacts
	s.mu.RUnlock()
	writeJSON(w, contacts)
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	grid := s.grid
	s.mu.RUnlock()
	writeJSON(w, grid)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}
