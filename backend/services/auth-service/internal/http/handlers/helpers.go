package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
)

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code errs.Kind, message string) {
	writeJSON(w, status, map[string]string{"error": message, "code": string(code)})
}

func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	kind := errs.KindOf(err)
	if kind == errs.KindUnknown {
		logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, kind, "internal error")
		return
	}
	writeError(w, errs.HTTPStatus(kind), kind, errs.Message(err))
}

// NewHealthHandler returns GET /health handler.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "auth-service"})
	}
}
