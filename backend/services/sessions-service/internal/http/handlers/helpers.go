package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/token"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/service"
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

// actorFrom reads the identity the gateway forwarded. Only staff-scoped requests reach the
// lifecycle; owners must assume a staff role first.
func actorFrom(r *http.Request) (service.Actor, error) {
	const op = "http.actor"

	subject := strings.TrimSpace(r.Header.Get(token.HeaderSubject))
	if subject == "" {
		return service.Actor{}, errs.E(errs.KindInvalidCredential, op, "missing subject")
	}
	if r.Header.Get(token.HeaderRole) != token.RoleStaff {
		return service.Actor{}, errs.E(errs.KindNotAuthorized, op, "staff role required")
	}
	cafeID := strings.TrimSpace(r.Header.Get(token.HeaderCafeID))
	if cafeID == "" {
		return service.Actor{}, errs.E(errs.KindNotAuthorized, op, "no cafe in scope")
	}
	return service.Actor{
		Subject:     subject,
		CafeID:      cafeID,
		ActingOwner: r.Header.Get(token.HeaderActingOwner) == "true",
	}, nil
}

const maxBodyBytes = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errs.E(errs.KindInvalidInput, "http.decode", "request body too large")
		}
		return errs.E(errs.KindInvalidInput, "http.decode", "invalid json")
	}
	return nil
}
