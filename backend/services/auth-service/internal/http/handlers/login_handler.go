package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/token"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/auth-service/internal/service"
)

// NewLoginHandler handles POST /auth/login.
func NewLoginHandler(authService *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	type request struct {
		Mobile string `json:"mobile_no"`
		PIN    string `json:"pin"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, errs.KindInvalidInput, "invalid JSON body")
			return
		}

		res, err := authService.Login(r.Context(), req.Mobile, req.PIN)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}

// NewAssumeRoleHandler handles POST /auth/assume-role/{cafe_id}. The caller's identity comes
// from the headers the gateway sets after verifying the owner bearer.
func NewAssumeRoleHandler(authService *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		subject := r.Header.Get(token.HeaderSubject)
		if subject == "" {
			writeError(w, http.StatusUnauthorized, errs.KindInvalidCredential, "missing subject")
			return
		}
		if r.Header.Get(token.HeaderRole) != token.RoleOwner {
			writeError(w, http.StatusForbidden, errs.KindNotAuthorized, "only owners can assume a staff role")
			return
		}

		res, err := authService.AssumeRole(r.Context(), subject, r.PathValue("cafe_id"))
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, res)
	}
}
