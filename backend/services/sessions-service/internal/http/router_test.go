package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/token"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/http/handlers"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/models"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/pricing"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/repository"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/service"
)

type apiFixture struct {
	handler http.Handler
	now     time.Time
}

func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := repository.NewMemoryStore()
	store.PutCafe("cafe-1", models.StrategyProRata)
	store.PutTable(models.Table{ID: "t-1", CafeID: "cafe-1", Name: "Pool 1", Type: models.TablePool})
	store.PutRule(models.PricingRule{
		CafeID:           "cafe-1",
		TableType:        models.TablePool,
		HalfHourPrice:    decimal.NewNullDecimal(decimal.NewFromInt(100)),
		HourPrice:        decimal.NewNullDecimal(decimal.NewFromInt(150)),
		ExtraPlayerPrice: decimal.NewNullDecimal(decimal.NewFromInt(20)),
	})

	f := &apiFixture{now: time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)}
	svc := service.NewSessionsService(store, pricing.NewCatalog(store, nil, zap.NewNop()), zap.NewNop(),
		service.WithClock(func() time.Time { return f.now }))
	h := handlers.NewSessionsHandler(svc, zap.NewNop())
	f.handler = NewRouter(Routes{
		SessionStart:   h.Start,
		SessionPlayers: h.Players,
		SessionEnd:     h.End,
		SessionGet:     h.Get,
		PaymentCreate:  h.Pay,
		PaymentsToday:  h.PaymentsToday,
		Dashboard:      h.Dashboard,
		Health:         handlers.NewHealthHandler(),
	})
	return f
}

func staffHeaders(req *http.Request) {
	req.Header.Set(token.HeaderSubject, "9000000002")
	req.Header.Set(token.HeaderRole, token.RoleStaff)
	req.Header.Set(token.HeaderCafeID, "cafe-1")
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}, headers func(*http.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if headers != nil {
		headers(req)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	decode(t, rec, &body)
	return body["code"]
}

func TestSessionLifecycleOverHTTP(t *testing.T) {
	f := newAPI(t)

	rec := f.do(t, http.MethodPost, "/sessions/start", map[string]interface{}{"table_id": "t-1", "initial_players": 3}, staffHeaders)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var session models.Session
	decode(t, rec, &session)
	assert.Equal(t, models.SessionActive, session.Status)

	rec = f.do(t, http.MethodPost, "/sessions/start", map[string]interface{}{"table_id": "t-1", "initial_players": 2}, staffHeaders)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_STATE", errorCode(t, rec))

	f.now = f.now.Add(47 * time.Minute)
	rec = f.do(t, http.MethodPost, "/sessions/"+session.ID+"/end", nil, staffHeaders)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var bill models.Bill
	decode(t, rec, &bill)
	assert.True(t, bill.TotalDue.Equal(decimal.RequireFromString("162.50")), bill.TotalDue.String())

	rec = f.do(t, http.MethodPost, "/payments", map[string]interface{}{"session_id": session.ID, "amount": "162.51", "payment_method": "Cash"}, staffHeaders)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "AMOUNT_MISMATCH", errorCode(t, rec))

	rec = f.do(t, http.MethodPost, "/payments", map[string]interface{}{"session_id": session.ID, "amount": "162.50", "payment_method": "Cash"}, staffHeaders)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(t, http.MethodGet, "/payments", nil, staffHeaders)
	require.Equal(t, http.StatusOK, rec.Code)
	var payments struct {
		Payments []models.PaymentEntry `json:"payments"`
	}
	decode(t, rec, &payments)
	require.Len(t, payments.Payments, 1)
	assert.Equal(t, "Pool 1", payments.Payments[0].TableName)

	rec = f.do(t, http.MethodGet, "/dashboard", nil, staffHeaders)
	require.Equal(t, http.StatusOK, rec.Code)
	var dashboard service.Dashboard
	decode(t, rec, &dashboard)
	require.Len(t, dashboard.Tables, 1)
	assert.Equal(t, models.TableAvailable, dashboard.Tables[0].Status)

	rec = f.do(t, http.MethodGet, "/sessions/"+session.ID, nil, staffHeaders)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail service.SessionDetail
	decode(t, rec, &detail)
	assert.Equal(t, models.SessionClosed, detail.Session.Status)
	require.Len(t, detail.PlayerChanges, 1)
	assert.Equal(t, 3, detail.PlayerChanges[0].Players)
}

func TestRequestsNeedAStaffIdentity(t *testing.T) {
	f := newAPI(t)

	rec := f.do(t, http.MethodGet, "/dashboard", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIAL", errorCode(t, rec))

	rec = f.do(t, http.MethodGet, "/dashboard", nil, func(r *http.Request) {
		r.Header.Set(token.HeaderSubject, "9000000001")
		r.Header.Set(token.HeaderRole, token.RoleOwner)
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "NOT_AUTHORIZED", errorCode(t, rec))
}

func TestBadRequestsOverHTTP(t *testing.T) {
	f := newAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/sessions/start", bytes.NewBufferString("{"))
	staffHeaders(req)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/sessions/start", map[string]interface{}{"table_id": "t-1", "initial_players": 0}, staffHeaders)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_INPUT", errorCode(t, rec))

	rec = f.do(t, http.MethodGet, "/sessions/missing", nil, staffHeaders)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, http.MethodPut, "/payments", nil, staffHeaders)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))

	rec = f.do(t, http.MethodGet, "/sessions/start", nil, staffHeaders)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	rec = f.do(t, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOversizedBodyIsRejected(t *testing.T) {
	f := newAPI(t)

	body := map[string]interface{}{"table_id": strings.Repeat("t", 2<<20), "initial_players": 2}
	rec := f.do(t, http.MethodPost, "/sessions/start", body, staffHeaders)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var reply map[string]string
	decode(t, rec, &reply)
	assert.Equal(t, "INVALID_INPUT", reply["code"])
	assert.Equal(t, "request body too large", reply["error"])
}
