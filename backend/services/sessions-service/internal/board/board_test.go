package board

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/token"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/models"
)

type fixture struct {
	hub    *Hub
	tokens *token.Service
	srv    *httptest.Server
}

func setup(t *testing.T) *fixture {
	t.Helper()
	hub := NewHub(zap.NewNop())
	tokens := token.NewService("board-secret", time.Hour, time.Hour)
	server := NewServer(hub, tokens, time.Second, zap.NewNop())
	srv := httptest.NewServer(http.HandlerFunc(server.HandleWS))
	t.Cleanup(srv.Close)
	return &fixture{hub: hub, tokens: tokens, srv: srv}
}

func (f *fixture) dial(t *testing.T, raw string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(f.srv.URL, "http") + "/board/ws?token=" + raw
	return websocket.DefaultDialer.Dial(url, nil)
}

func (f *fixture) viewer(t *testing.T, mobile, cafeID string) *websocket.Conn {
	t.Helper()
	raw, err := f.tokens.IssueStaff(mobile, cafeID)
	require.NoError(t, err)
	conn, _, err := f.dial(t, raw)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 10*time.Millisecond)
}

func TestBoardDeliversOnlyToTheEventsCafe(t *testing.T) {
	f := setup(t)
	mine := f.viewer(t, "9000000001", "cafe-1")
	other := f.viewer(t, "9000000002", "cafe-2")
	waitFor(t, func() bool { return f.hub.Viewers("cafe-1") == 1 && f.hub.Viewers("cafe-2") == 1 })

	f.hub.TableChanged(context.Background(), models.BoardEvent{
		CafeID:    "cafe-1",
		TableID:   "t-1",
		Status:    models.TableInUse,
		SessionID: "s-1",
		Session:   models.SessionActive,
		Players:   3,
		At:        time.Date(2025, 6, 10, 19, 30, 0, 0, time.UTC),
	})

	require.NoError(t, mine.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := mine.ReadMessage()
	require.NoError(t, err)
	var got models.BoardEvent
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "t-1", got.TableID)
	assert.Equal(t, models.TableInUse, got.Status)
	assert.Equal(t, 3, got.Players)

	require.NoError(t, other.SetReadDeadline(time.Now().Add(100*time.Millisecond)))
	_, _, err = other.ReadMessage()
	require.Error(t, err)
}

func TestBoardForgetsClosedViewers(t *testing.T) {
	f := setup(t)
	conn := f.viewer(t, "9000000001", "cafe-1")
	waitFor(t, func() bool { return f.hub.Viewers("cafe-1") == 1 })

	require.NoError(t, conn.Close())
	waitFor(t, func() bool { return f.hub.Viewers("cafe-1") == 0 })
}

func TestBoardRejectsBadCredentials(t *testing.T) {
	f := setup(t)

	_, resp, err := f.dial(t, "not-a-token")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	_, resp, err = f.dial(t, "")
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	owner, err := f.tokens.IssueOwner("9000000009")
	require.NoError(t, err)
	_, resp, err = f.dial(t, owner)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Zero(t, f.hub.Viewers("cafe-1"))
}
