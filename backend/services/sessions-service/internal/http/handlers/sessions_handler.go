package handlers

import (
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/models"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/service"
)

// SessionsHandler exposes the table lifecycle.
type SessionsHandler struct {
	svc    *service.SessionsService
	logger *zap.Logger
}

// NewSessionsHandler builds handler set.
func NewSessionsHandler(svc *service.SessionsService, logger *zap.Logger) *SessionsHandler {
	return &SessionsHandler{svc: svc, logger: logger}
}

type startRequest struct {
	TableID string `json:"table_id"`
	Players int    `json:"initial_players"`
}

type playersRequest struct {
	SessionID string `json:"session_id"`
	Players   int    `json:"new_player_count"`
}

type paymentRequest struct {
	SessionID string               `json:"session_id"`
	Amount    decimal.Decimal      `json:"amount"`
	Method    models.PaymentMethod `json:"payment_method"`
}

// Start handles POST /sessions/start.
func (h *SessionsHandler) Start(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	var req startRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	session, err := h.svc.StartSession(r.Context(), actor, req.TableID, req.Players)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// Players handles POST /sessions/players.
func (h *SessionsHandler) Players(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	var req playersRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	session, err := h.svc.UpdatePlayerCount(r.Context(), actor, req.SessionID, req.Players)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// End handles POST /sessions/{id}/end.
func (h *SessionsHandler) End(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	bill, err := h.svc.EndSession(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, bill)
}

// Get handles GET /sessions/{id}.
func (h *SessionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	detail, err := h.svc.Session(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

// Pay handles POST /payments.
func (h *SessionsHandler) Pay(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	var req paymentRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	payment, err := h.svc.LogPayment(r.Context(), actor, req.SessionID, req.Amount, req.Method)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, payment)
}

// PaymentsToday handles GET /payments.
func (h *SessionsHandler) PaymentsToday(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	payments, err := h.svc.PaymentsToday(r.Context(), actor)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"payments": payments})
}

// Dashboard handles GET /dashboard.
func (h *SessionsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor, err := actorFrom(r)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	dashboard, err := h.svc.Dashboard(r.Context(), actor)
	if err != nil {
		writeServiceError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

// NewHealthHandler returns GET /health handler.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
