package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/token"
)

// SessionsClient proxies calls to sessions-service as the verified staff identity.
type SessionsClient struct {
	base *BaseClient
}

// NewSessionsClient returns client.
func NewSessionsClient(baseURL string, httpClient HTTPDoer) *SessionsClient {
	return &SessionsClient{base: NewBaseClient(baseURL, httpClient)}
}

// Dashboard fetches the cafe dashboard.
func (c *SessionsClient) Dashboard(ctx context.Context, claims *token.Claims) (*Response, error) {
	return c.base.Do(ctx, http.MethodGet, "/dashboard", nil, IdentityHeaders(claims))
}

// Start starts a session.
func (c *SessionsClient) Start(ctx context.Context, claims *token.Claims, body []byte) (*Response, error) {
	return c.base.Do(ctx, http.MethodPost, "/sessions/start", body, IdentityHeaders(claims))
}

// Players changes the player count of a session.
func (c *SessionsClient) Players(ctx context.Context, claims *token.Claims, body []byte) (*Response, error) {
	return c.base.Do(ctx, http.MethodPost, "/sessions/players", body, IdentityHeaders(claims))
}

// End ends a session and returns its bill.
func (c *SessionsClient) End(ctx context.Context, claims *token.Claims, sessionID string) (*Response, error) {
	return c.base.Do(ctx, http.MethodPost, "/sessions/"+url.PathEscape(sessionID)+"/end", nil, IdentityHeaders(claims))
}

// Session fetches one session with its player history.
func (c *SessionsClient) Session(ctx context.Context, claims *token.Claims, sessionID string) (*Response, error) {
	return c.base.Do(ctx, http.MethodGet, "/sessions/"+url.PathEscape(sessionID), nil, IdentityHeaders(claims))
}

// Pay logs a payment.
func (c *SessionsClient) Pay(ctx context.Context, claims *token.Claims, body []byte) (*Response, error) {
	return c.base.Do(ctx, http.MethodPost, "/payments", body, IdentityHeaders(claims))
}

// PaymentsToday lists today's payments of the caller.
func (c *SessionsClient) PaymentsToday(ctx context.Context, claims *token.Claims) (*Response, error) {
	return c.base.Do(ctx, http.MethodGet, "/payments", nil, IdentityHeaders(claims))
}
