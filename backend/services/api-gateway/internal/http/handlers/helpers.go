package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/api-gateway/internal/clients"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeUpstream(w http.ResponseWriter, resp *clients.Response) {
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(resp.Status)
	if resp.Body != nil {
		_, _ = w.Write(resp.Body)
	}
}

func writeError(w http.ResponseWriter, status int, code errs.Kind, message string) {
	writeJSON(w, status, map[string]string{"error": message, "code": string(code)})
}

// NewHealthHandler returns GET /health handler.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
