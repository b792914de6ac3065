package httpserver

import (
	"net/http"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/httpx"
)

// Routes aggregates handlers for HTTP server.
type Routes struct {
	Register   http.HandlerFunc
	Login      http.HandlerFunc
	AssumeRole http.HandlerFunc
	Health     http.HandlerFunc
}

// NewRouter wires all HTTP routes.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if routes.Register != nil {
		mux.Handle("/auth/register", httpx.Method(http.MethodPost, routes.Register))
	}
	if routes.Login != nil {
		mux.Handle("/auth/login", httpx.Method(http.MethodPost, routes.Login))
	}
	if routes.AssumeRole != nil {
		mux.Handle("/auth/assume-role/{cafe_id}", httpx.Method(http.MethodPost, routes.AssumeRole))
	}
	if routes.Health != nil {
		mux.Handle("/health", httpx.Method(http.MethodGet, routes.Health))
	}
	return mux
}
