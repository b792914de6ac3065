package handlers

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/api-gateway/internal/clients"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/api-gateway/internal/http/middleware"
)

// AuthHandlers proxies auth-service endpoints.
type AuthHandlers struct {
	client *clients.AuthClient
	logger *zap.Logger
}

// NewAuthHandlers returns handler struct.
func NewAuthHandlers(client *clients.AuthClient, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{client: client, logger: logger}
}

// Register handles POST /api/auth/register.
func (h *AuthHandlers) Register(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, errs.KindInvalidInput, "invalid body")
		return
	}
	resp, err := h.client.Register(r.Context(), body)
	if err != nil {
		h.logger.Error("register proxy failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, errs.KindUnknown, "auth service unavailable")
		return
	}
	writeUpstream(w, resp)
}

// Login handles POST /api/auth/login.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, errs.KindInvalidInput, "invalid body")
		return
	}
	resp, err := h.client.Login(r.Context(), body)
	if err != nil {
		h.logger.Error("login proxy failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, errs.KindUnknown, "auth service unavailable")
		return
	}
	writeUpstream(w, resp)
}

// AssumeRole handles POST /api/auth/assume-role/{cafe_id}.
func (h *AuthHandlers) AssumeRole(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, errs.KindInvalidCredential, "unauthorized")
		return
	}
	resp, err := h.client.AssumeRole(r.Context(), claims, r.PathValue("cafe_id"))
	if err != nil {
		h.logger.Error("assume-role proxy failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, errs.KindUnknown, "auth service unavailable")
		return
	}
	writeUpstream(w, resp)
}
