package httpserver

import (
	"net/http"
	"sort"
	"strings"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/httpx"
)

// Routes groups handlers.
type Routes struct {
	SessionStart   http.HandlerFunc
	SessionPlayers http.HandlerFunc
	SessionEnd     http.HandlerFunc
	SessionGet     http.HandlerFunc
	PaymentCreate  http.HandlerFunc
	PaymentsToday  http.HandlerFunc
	Dashboard      http.HandlerFunc
	Board          http.HandlerFunc
	Health         http.HandlerFunc
}

// NewRouter registers endpoints.
func NewRouter(routes Routes) http.Handler {
	mux := http.NewServeMux()
	if routes.SessionStart != nil {
		mux.Handle("/sessions/start", httpx.Method(http.MethodPost, routes.SessionStart))
	}
	if routes.SessionPlayers != nil {
		mux.Handle("/sessions/players", httpx.Method(http.MethodPost, routes.SessionPlayers))
	}
	if routes.SessionEnd != nil {
		mux.Handle("/sessions/{id}/end", httpx.Method(http.MethodPost, routes.SessionEnd))
	}
	if routes.SessionGet != nil {
		mux.Handle("/sessions/{id}", httpx.Method(http.MethodGet, routes.SessionGet))
	}
	if routes.PaymentCreate != nil || routes.PaymentsToday != nil {
		mux.Handle("/payments", byMethod(map[string]http.HandlerFunc{
			http.MethodPost: routes.PaymentCreate,
			http.MethodGet:  routes.PaymentsToday,
		}))
	}
	if routes.Dashboard != nil {
		mux.Handle("/dashboard", httpx.Method(http.MethodGet, routes.Dashboard))
	}
	if routes.Board != nil {
		mux.Handle("/board/ws", httpx.Method(http.MethodGet, routes.Board))
	}
	if routes.Health != nil {
		mux.Handle("/health", httpx.Method(http.MethodGet, routes.Health))
	}
	return mux
}

// byMethod serves one path with a handler per method; nil entries are not allowed.
func byMethod(handlers map[string]http.HandlerFunc) http.HandlerFunc {
	methods := make([]string, 0, len(handlers))
	for m, h := range handlers {
		if h != nil {
			methods = append(methods, m)
		}
	}
	sort.Strings(methods)
	allowed := strings.Join(methods, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		if h := handlers[r.Method]; h != nil {
			h(w, r)
			return
		}
		w.Header().Set("Allow", allowed)
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
