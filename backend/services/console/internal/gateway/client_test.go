package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
)

func TestIssueStaffTokenSendsOwnerBearer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/auth/assume-role/cafe-1", r.URL.Path)
		assert.Equal(t, "Bearer owner-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"access_token":"staff-token","token_type":"bearer"}`))
	}))
	defer srv.Close()

	got, err := NewClient(srv.URL, time.Second).IssueStaffToken(context.Background(), "owner-token", "cafe-1")
	require.NoError(t, err)
	assert.Equal(t, "staff-token", got)
}

func TestErrorRepliesKeepTheirKind(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":"owner does not administer this cafe","code":"NOT_AUTHORIZED"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).IssueStaffToken(context.Background(), "owner-token", "cafe-9")
	require.Error(t, err)
	assert.Equal(t, errs.KindNotAuthorized, errs.KindOf(err))
	assert.Equal(t, "owner does not administer this cafe", errs.Message(err))
}

func TestErrorWithoutBodyFallsBackToStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Dashboard(context.Background(), "x")
	assert.Equal(t, errs.KindInvalidCredential, errs.KindOf(err))
}

func TestPayEncodesDecimalAmount(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "162.5", body["amount"])
		assert.Equal(t, "Online", body["payment_method"])
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"p-1","session_id":"s-1","amount":"162.5","method":"Online","minutes_played":75}`))
	}))
	defer srv.Close()

	p, err := NewClient(srv.URL, time.Second).Pay(context.Background(), "staff", "s-1", decimal.RequireFromString("162.50"), "Online")
	require.NoError(t, err)
	assert.True(t, p.Amount.Equal(decimal.RequireFromString("162.5")))
	assert.EqualValues(t, 75, p.MinutesPlayed)
}

func TestUnreachableGatewayIsUnknown(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := NewClient(addr, time.Second).Login(context.Background(), "9000000001", "4821")
	require.Error(t, err)
	assert.Equal(t, errs.KindUnknown, errs.KindOf(err))
}
