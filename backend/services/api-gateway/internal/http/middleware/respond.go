package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
)

func reject(w http.ResponseWriter, kind errs.Kind, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(errs.HTTPStatus(kind))
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": string(kind)})
}
