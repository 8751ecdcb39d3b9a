package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/krakowski/BombermanVR/internal/engine"
	"github.com/krakowski/BombermanVR/pkg/logger"
)

const inspectTimeout = 2 * time.Second

// DebugHandler exposes the internal state of the arena.
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/map", h.handleMap)
	mux.HandleFunc("/debug/pools", h.handlePools)
	mux.HandleFunc("/debug/players", h.handlePlayers)
}

// /debug/map - the grid with crates, bombs and players drawn in
func (h *DebugHandler) handleMap(w http.ResponseWriter, r *http.Request) {
	var dump engine.MapDump
	h.inspect(w, r, func(i *engine.Instance) { dump = i.DumpMap() }, func() any { return dump })
}

// /debug/pools - ring usage per entity type
func (h *DebugHandler) handlePools(w http.ResponseWriter, r *http.Request) {
	var stats any
	h.inspect(w, r, func(i *engine.Instance) { stats = i.PoolStats() }, func() any { return stats })
}

func (h *DebugHandler) handlePlayers(w http.ResponseWriter, r *http.Request) {
	var players any
	h.inspect(w, r, func(i *engine.Instance) { players = i.PlayerDump() }, func() any { return players })
}

// inspect runs read on the instance goroutine and writes what result
// returns afterwards.
func (h *DebugHandler) inspect(w http.ResponseWriter, r *http.Request, read func(*engine.Instance), result func() any) {
	ctx, cancel := context.WithTimeout(r.Context(), inspectTimeout)
	defer cancel()

	if err := h.Service.Inspect(ctx, read); err != nil {
		http.Error(w, "arena is not responding", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, result())
}

func writeJSON(w http.ResponseWriter, data any) {
	// Local debug pages are served from other origins.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	if data == nil {
		if _, err := w.Write([]byte("[]")); err != nil {
			logger.Log.WithError(err).Debug("debug write failed")
		}
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Debug("debug write failed")
	}
}
