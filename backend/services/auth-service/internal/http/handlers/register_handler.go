package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/auth-service/internal/service"
)

// NewRegisterHandler handles POST /auth/register.
func NewRegisterHandler(authService *service.AuthService, logger *zap.Logger) http.HandlerFunc {
	type request struct {
		Name   string `json:"owner_name"`
		Mobile string `json:"mobile_no"`
		PIN    string `json:"pin"`
	}
	type response struct {
		ID      string `json:"id"`
		Mobile  string `json:"mobile_no"`
		Message string `json:"message"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, errs.KindInvalidInput, "invalid JSON body")
			return
		}

		owner, err := authService.Register(r.Context(), req.Name, req.Mobile, req.PIN)
		if err != nil {
			writeServiceError(w, logger, err)
			return
		}

		writeJSON(w, http.StatusCreated, response{
			ID:      owner.ID,
			Mobile:  owner.Mobile,
			Message: "owner registered successfully",
		})
	}
}
