package httpserver

import (
	"net/http"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/httpx"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/token"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/api-gateway/internal/http/handlers"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/api-gateway/internal/http/middleware"
)

// RouterDeps collects handler dependencies.
type RouterDeps struct {
	AuthHandlers  *handlers.AuthHandlers
	StaffHandlers *handlers.StaffHandlers
	HealthHandler http.HandlerFunc
	Auth          func(http.Handler) http.Handler
	LoginLimiter  func(http.Handler) http.Handler
}

// NewRouter wires HTTP routes with middleware.
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", httpx.Method(http.MethodGet, deps.HealthHandler))

	mux.Handle("/api/auth/register", httpx.Method(http.MethodPost, http.HandlerFunc(deps.AuthHandlers.Register)))
	login := http.Handler(http.HandlerFunc(deps.AuthHandlers.Login))
	if deps.LoginLimiter != nil {
		login = deps.LoginLimiter(login)
	}
	mux.Handle("/api/auth/login", httpx.Method(http.MethodPost, login))

	owner := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, deps.Auth, middleware.RequireRole(token.RoleOwner))
	}
	staff := func(handler http.HandlerFunc) http.Handler {
		return middleware.Chain(handler, deps.Auth, middleware.RequireRole(token.RoleStaff))
	}

	mux.Handle("/api/auth/assume-role/{cafe_id}", httpx.Method(http.MethodPost, owner(deps.AuthHandlers.AssumeRole)))

	s := deps.StaffHandlers
	mux.Handle("/api/staff/dashboard", httpx.Method(http.MethodGet, staff(s.Dashboard())))
	mux.Handle("/api/staff/sessions/start", httpx.Method(http.MethodPost, staff(s.Start())))
	mux.Handle("/api/staff/sessions/players", httpx.Method(http.MethodPost, staff(s.Players())))
	mux.Handle("/api/staff/sessions/{id}/end", httpx.Method(http.MethodPost, staff(s.End())))
	mux.Handle("/api/staff/sessions/{id}", httpx.Method(http.MethodGet, staff(s.Session())))
	mux.Handle("POST /api/staff/payments", staff(s.Pay()))
	mux.Handle("GET /api/staff/payments", staff(s.PaymentsToday()))

	return mux
}
