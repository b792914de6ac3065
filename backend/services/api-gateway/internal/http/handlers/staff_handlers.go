package handlers

import (
	"context"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/token"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/api-gateway/internal/clients"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/api-gateway/internal/http/middleware"
)

// StaffHandlers proxies sessions-service endpoints for staff credentials.
type StaffHandlers struct {
	client *clients.SessionsClient
	logger *zap.Logger
}

// NewStaffHandlers returns handler.
func NewStaffHandlers(client *clients.SessionsClient, logger *zap.Logger) *StaffHandlers {
	return &StaffHandlers{client: client, logger: logger}
}

type upstreamCall func(ctx context.Context, claims *token.Claims, r *http.Request, body []byte) (*clients.Response, error)

func (h *StaffHandlers) proxy(withBody bool, call upstreamCall) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, errs.KindInvalidCredential, "unauthorized")
			return
		}
		var body []byte
		if withBody {
			var err error
			body, err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				writeError(w, http.StatusBadRequest, errs.KindInvalidInput, "invalid body")
				return
			}
		}
		resp, err := call(r.Context(), claims, r, body)
		if err != nil {
			h.logger.Error("sessions proxy failed", zap.String("path", r.URL.Path), zap.Error(err))
			writeError(w, http.StatusBadGateway, errs.KindUnknown, "sessions service unavailable")
			return
		}
		writeUpstream(w, resp)
	}
}

// Dashboard handles GET /api/staff/dashboard.
func (h *StaffHandlers) Dashboard() http.HandlerFunc {
	return h.proxy(false, func(ctx context.Context, c *token.Claims, _ *http.Request, _ []byte) (*clients.Response, error) {
		return h.client.Dashboard(ctx, c)
	})
}

// Start handles POST /api/staff/sessions/start.
func (h *StaffHandlers) Start() http.HandlerFunc {
	return h.proxy(true, func(ctx context.Context, c *token.Claims, _ *http.Request, body []byte) (*clients.Response, error) {
		return h.client.Start(ctx, c, body)
	})
}

// Players handles POST /api/staff/sessions/players.
func (h *StaffHandlers) Players() http.HandlerFunc {
	return h.proxy(true, func(ctx context.Context, c *token.Claims, _ *http.Request, body []byte) (*clients.Response, error) {
		return h.client.Players(ctx, c, body)
	})
}

// End handles POST /api/staff/sessions/{id}/end.
func (h *StaffHandlers) End() http.HandlerFunc {
	return h.proxy(false, func(ctx context.Context, c *token.Claims, r *http.Request, _ []byte) (*clients.Response, error) {
		return h.client.End(ctx, c, r.PathValue("id"))
	})
}

// Session handles GET /api/staff/sessions/{id}.
func (h *StaffHandlers) Session() http.HandlerFunc {
	return h.proxy(false, func(ctx context.Context, c *token.Claims, r *http.Request, _ []byte) (*clients.Response, error) {
		return h.client.Session(ctx, c, r.PathValue("id"))
	})
}

// Pay handles POST /api/staff/payments.
func (h *StaffHandlers) Pay() http.HandlerFunc {
	return h.proxy(true, func(ctx context.Context, c *token.Claims, _ *http.Request, body []byte) (*clients.Response, error) {
		return h.client.Pay(ctx, c, body)
	})
}

// PaymentsToday handles GET /api/staff/payments.
func (h *StaffHandlers) PaymentsToday() http.HandlerFunc {
	return h.proxy(false, func(ctx context.Context, c *token.Claims, _ *http.Request, _ []byte) (*clients.Response, error) {
		return h.client.PaymentsToday(ctx, c)
	})
}
