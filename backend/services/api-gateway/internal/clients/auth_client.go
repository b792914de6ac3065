package clients

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/token"
)

// AuthClient proxies auth-service endpoints.
type AuthClient struct {
	base *BaseClient
}

// NewAuthClient returns client.
func NewAuthClient(baseURL string, httpClient HTTPDoer) *AuthClient {
	return &AuthClient{base: NewBaseClient(baseURL, httpClient)}
}

// Register forwards owner registration payload.
func (c *AuthClient) Register(ctx context.Context, body []byte) (*Response, error) {
	return c.base.Do(ctx, http.MethodPost, "/auth/register", body, nil)
}

// Login forwards login payload.
func (c *AuthClient) Login(ctx context.Context, body []byte) (*Response, error) {
	return c.base.Do(ctx, http.MethodPost, "/auth/login", body, nil)
}

// AssumeRole asks for a staff credential on cafeID on behalf of the verified owner.
func (c *AuthClient) AssumeRole(ctx context.Context, claims *token.Claims, cafeID string) (*Response, error) {
	return c.base.Do(ctx, http.MethodPost, "/auth/assume-role/"+url.PathEscape(cafeID), nil, IdentityHeaders(claims))
}
