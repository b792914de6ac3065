// Package identity tracks who the caller is acting as. An owner may temporarily act as staff
// of one cafe; while that lasts the owner credential stays parked in its own slot and is
// restored on switch back.
package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/token"
)

// State is the authentication state of a Context.
type State int

const (
	Anonymous State = iota
	AuthenticatedOwner
	AuthenticatedStaff
	AuthenticatedOwnerAsStaff
)

func (s State) String() string {
	switch s {
	case AuthenticatedOwner:
		return "owner"
	case AuthenticatedStaff:
		return "staff"
	case AuthenticatedOwnerAsStaff:
		return "owner-as-staff"
	default:
		return "anonymous"
	}
}

// Verifier decodes a bearer credential. Signature and shape checks happen there.
type Verifier interface {
	Decode(raw string) (*token.Claims, error)
}

// Issuer exchanges an owner credential for a staff credential scoped to cafeID.
// It fails with errs.KindNotAuthorized when the owner does not administer the cafe.
type Issuer interface {
	IssueStaffToken(ctx context.Context, ownerToken, cafeID string) (string, error)
}

// Identity is the acting identity derived from the active credential.
type Identity struct {
	Subject         string
	Role            string
	CafeID          string
	IsImpersonating bool
	ExpiresAt       time.Time
}

// Snapshot is a comparable view of a Context.
type Snapshot struct {
	State       State
	Identity    Identity
	ActiveToken string
}

type credential struct {
	raw    string
	claims *token.Claims
}

// Context holds the active and parked credential slots for one caller.
type Context struct {
	mu       sync.Mutex
	verifier Verifier
	issuer   Issuer
	now      func() time.Time

	state  State
	active *credential
	parked *credential
}

// New returns an anonymous Context.
func New(verifier Verifier, issuer Issuer) *Context {
	return &Context{verifier: verifier, issuer: issuer, now: time.Now}
}

// WithClock overrides the time source used for expiry checks.
func (c *Context) WithClock(now func() time.Time) *Context {
	c.now = now
	return c
}

// Login installs raw as the active credential. Any previous identity, parked credential
// included, is discarded whether or not the new credential is accepted.
func (c *Context) Login(raw string) (Identity, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clear()
	cred, err := c.decode("identity.login", raw)
	if err != nil {
		return Identity{}, err
	}

	c.active = cred
	if cred.claims.Role == token.RoleOwner {
		c.state = AuthenticatedOwner
	} else {
		c.state = AuthenticatedStaff
	}
	return c.identity(), nil
}

// AssumeStaffRole parks the owner credential and activates a staff credential for cafeID.
// The lock is not held while the issuer runs; if the identity changed meanwhile the issued
// credential is dropped.
func (c *Context) AssumeStaffRole(ctx context.Context, cafeID string) (Identity, error) {
	const op = "identity.assume_staff_role"

	owner, err := c.ownerForAssume(op)
	if err != nil {
		return Identity{}, err
	}
	cafeID = strings.TrimSpace(cafeID)
	if cafeID == "" {
		return Identity{}, errs.E(errs.KindInvalidInput, op, "cafe id is required")
	}

	raw, err := c.issuer.IssueStaffToken(ctx, owner.raw, cafeID)
	if err != nil {
		if errs.KindOf(err) == errs.KindUnknown {
			err = errs.Wrap(errs.KindUnknown, op, err)
		}
		return Identity{}, err
	}

	staff, err := c.decode(op, raw)
	if err != nil {
		return Identity{}, err
	}
	if staff.claims.Role != token.RoleStaff || staff.claims.CafeID != cafeID || staff.claims.Subject != owner.claims.Subject {
		return Identity{}, errs.E(errs.KindInvalidCredential, op, "issued credential does not match the request")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != AuthenticatedOwner || c.active != owner {
		return Identity{}, errs.E(errs.KindInvalidState, op, "identity changed while acting as staff was requested")
	}
	c.parked = c.active
	c.active = staff
	c.state = AuthenticatedOwnerAsStaff
	return c.identity(), nil
}

func (c *Context) ownerForAssume(op string) (*credential, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case AuthenticatedOwner:
	case AuthenticatedOwnerAsStaff:
		return nil, errs.E(errs.KindAlreadyImpersonating, op, "already acting as staff; switch back first")
	default:
		return nil, errs.E(errs.KindInvalidState, op, "only an owner can act as staff")
	}
	if !c.active.claims.Expiry().After(c.now()) {
		c.clear()
		return nil, errs.E(errs.KindExpired, op, "owner credential expired")
	}
	return c.active, nil
}

// SwitchBackToOwner restores the parked owner credential. When the parked slot is empty
// or its credential has expired the Context logs out instead.
func (c *Context) SwitchBackToOwner() (Identity, error) {
	const op = "identity.switch_back"

	c.mu.Lock()
	defer c.mu.Unlock()

	switch {
	case c.state == AuthenticatedOwnerAsStaff:
	case c.state == AuthenticatedStaff && c.active.claims.IsOwner:
		// Impersonation credential installed without its owner counterpart.
		c.clear()
		return Identity{}, errs.E(errs.KindInvalidState, op, "no parked owner credential; logged out")
	default:
		return Identity{}, errs.E(errs.KindInvalidState, op, "not acting as staff")
	}

	if c.parked == nil {
		c.clear()
		return Identity{}, errs.E(errs.KindInvalidState, op, "no parked owner credential; logged out")
	}
	if !c.parked.claims.Expiry().After(c.now()) {
		c.clear()
		return Identity{}, errs.E(errs.KindExpired, op, "owner credential expired; logged out")
	}

	c.active = c.parked
	c.parked = nil
	c.state = AuthenticatedOwner
	return c.identity(), nil
}

// Logout clears both credential slots.
func (c *Context) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clear()
}

// State returns the current state.
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Identity returns the acting identity; ok is false when anonymous.
func (c *Context) Identity() (Identity, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Anonymous {
		return Identity{}, false
	}
	return c.identity(), true
}

// Bearer returns the active credential for outgoing requests.
func (c *Context) Bearer() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Anonymous {
		return "", errs.E(errs.KindInvalidCredential, "identity.bearer", "not logged in")
	}
	return c.active.raw, nil
}

// Snapshot returns the comparable state of the Context.
func (c *Context) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	snap := Snapshot{State: c.state}
	if c.state != Anonymous {
		snap.Identity = c.identity()
		snap.ActiveToken = c.active.raw
	}
	return snap
}

// HasParked reports whether an owner credential is parked.
func (c *Context) HasParked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.parked != nil
}

func (c *Context) decode(op, raw string) (*credential, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errs.E(errs.KindInvalidCredential, op, "empty credential")
	}
	claims, err := c.verifier.Decode(raw)
	if err != nil {
		if errs.Is(err, errs.KindExpired) || errs.Is(err, errs.KindInvalidCredential) {
			return nil, err
		}
		return nil, errs.Wrap(errs.KindInvalidCredential, op, err)
	}
	if !claims.Expiry().After(c.now()) {
		return nil, errs.E(errs.KindExpired, op, "credential expired")
	}
	return &credential{raw: raw, claims: claims}, nil
}

func (c *Context) identity() Identity {
	claims := c.active.claims
	return Identity{
		Subject:         claims.Subject,
		Role:            claims.Role,
		CafeID:          claims.CafeID,
		IsImpersonating: c.state == AuthenticatedOwnerAsStaff,
		ExpiresAt:       claims.Expiry(),
	}
}

func (c *Context) clear() {
	c.state = Anonymous
	c.active = nil
	c.parked = nil
}
