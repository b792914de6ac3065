// Package token issues and decodes the bearer credentials shared by all services.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
)

// Roles carried in the role claim.
const (
	RoleOwner = "owner"
	RoleStaff = "staff"
)

// Claims represents the JWT payload used across services.
// Subject holds the mobile number of the authenticated person.
type Claims struct {
	Role    string `json:"role"`
	CafeID  string `json:"cafe_id,omitempty"`
	IsOwner bool   `json:"is_owner,omitempty"`
	jwt.RegisteredClaims
}

// Expiry returns the expiry timestamp or the zero time.
func (c *Claims) Expiry() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

func (c *Claims) validate() error {
	if strings.TrimSpace(c.Subject) == "" {
		return errors.New("missing subject")
	}
	switch c.Role {
	case RoleOwner:
	case RoleStaff:
		if strings.TrimSpace(c.CafeID) == "" {
			return errors.New("staff token without cafe scope")
		}
	default:
		return errors.New("unknown role")
	}
	return nil
}

// Service handles JWT creation and validation.
type Service struct {
	secret         []byte
	expiresIn      time.Duration
	staffExpiresIn time.Duration
	now            func() time.Time
}

// NewService returns a configured token service. staffExpiresIn bounds impersonation tokens.
func NewService(secret string, expiresIn, staffExpiresIn time.Duration) *Service {
	if expiresIn <= 0 {
		expiresIn = 24 * time.Hour
	}
	if staffExpiresIn <= 0 {
		staffExpiresIn = expiresIn
	}
	return &Service{
		secret:         []byte(secret),
		expiresIn:      expiresIn,
		staffExpiresIn: staffExpiresIn,
		now:            time.Now,
	}
}

// WithClock overrides the time source.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// IssueOwner issues a token for an owner.
func (s *Service) IssueOwner(mobile string) (string, error) {
	return s.sign(Claims{Role: RoleOwner}, mobile, s.expiresIn)
}

// IssueStaff issues a token for a staff member scoped to their cafe.
func (s *Service) IssueStaff(mobile, cafeID string) (string, error) {
	return s.sign(Claims{Role: RoleStaff, CafeID: cafeID}, mobile, s.expiresIn)
}

// IssueImpersonation issues a staff-scoped token for an owner acting on one of their cafes.
func (s *Service) IssueImpersonation(ownerMobile, cafeID string) (string, error) {
	return s.sign(Claims{Role: RoleStaff, CafeID: cafeID, IsOwner: true}, ownerMobile, s.staffExpiresIn)
}

func (s *Service) sign(claims Claims, subject string, ttl time.Duration) (string, error) {
	now := s.now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	if err := claims.validate(); err != nil {
		return "", errs.Wrap(errs.KindInvalidInput, "token.issue", err)
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(s.secret)
}

// Decode verifies signature and expiry and returns the claims.
func (s *Service) Decode(raw string) (*Claims, error) {
	const op = "token.decode"

	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(strings.TrimSpace(raw), claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errs.Wrap(errs.KindExpired, op, err)
		}
		return nil, errs.Wrap(errs.KindInvalidCredential, op, err)
	}
	if !tok.Valid {
		return nil, errs.E(errs.KindInvalidCredential, op, "token is not valid")
	}
	if err := claims.validate(); err != nil {
		return nil, errs.Wrap(errs.KindInvalidCredential, op, err)
	}
	return claims, nil
}

// UnverifiedDecoder reads claims without checking the signature. Clients that only hold
// tokens handed to them by the gateway use it; expiry is left to the caller.
type UnverifiedDecoder struct{}

// Decode parses the token payload.
func (UnverifiedDecoder) Decode(raw string) (*Claims, error) {
	const op = "token.decode"

	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(raw), claims); err != nil {
		return nil, errs.Wrap(errs.KindInvalidCredential, op, err)
	}
	if claims.ExpiresAt == nil {
		return nil, errs.E(errs.KindInvalidCredential, op, "token has no expiry")
	}
	if err := claims.validate(); err != nil {
		return nil, errs.Wrap(errs.KindInvalidCredential, op, err)
	}
	return claims, nil
}

// Headers the gateway sets on upstream requests once the bearer is verified.
const (
	HeaderSubject     = "X-Subject"
	HeaderRole        = "X-Role"
	HeaderCafeID      = "X-Cafe-ID"
	HeaderActingOwner = "X-Acting-Owner"
)
