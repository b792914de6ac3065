// Package board pushes table changes to everyone watching a cafe.
package board

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/models"
)

// Hub tracks viewer connections per cafe.
type Hub struct {
	mu     sync.RWMutex
	cafes  map[string]map[*Connection]struct{}
	logger *zap.Logger
}

// NewHub builds an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		cafes:  make(map[string]map[*Connection]struct{}),
		logger: logger,
	}
}

// Add registers a connection.
func (h *Hub) Add(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	viewers, ok := h.cafes[conn.CafeID()]
	if !ok {
		viewers = make(map[*Connection]struct{})
		h.cafes[conn.CafeID()] = viewers
	}
	viewers[conn] = struct{}{}
}

// Remove unregisters a connection.
func (h *Hub) Remove(conn *Connection) {
	h.mu.Lock()
	defer h.mu.Unlock()
	viewers := h.cafes[conn.CafeID()]
	delete(viewers, conn)
	if len(viewers) == 0 {
		delete(h.cafes, conn.CafeID())
	}
}

// Viewers returns how many connections watch cafeID.
func (h *Hub) Viewers(cafeID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.cafes[cafeID])
}

// Deliver sends event to the viewers of its cafe.
func (h *Hub) Deliver(event models.BoardEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Warn("failed to encode board event", zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.cafes[event.CafeID] {
		conn.Send(data)
	}
}

// TableChanged delivers event locally. Used when no relay is configured.
func (h *Hub) TableChanged(_ context.Context, event models.BoardEvent) {
	h.Deliver(event)
}
