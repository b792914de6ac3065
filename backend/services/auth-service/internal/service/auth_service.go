package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/token"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/auth-service/internal/models"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/auth-service/internal/pin"
)

const badLogin = "incorrect mobile number or PIN"

// AccountRepository defines storage contract used by the service.
type AccountRepository interface {
	CreateOwner(ctx context.Context, owner *models.Owner) error
	OwnerByMobile(ctx context.Context, mobile string) (*models.Owner, error)
	StaffByMobile(ctx context.Context, mobile string) (*models.Staff, error)
	OwnsCafe(ctx context.Context, ownerID, cafeID string) (bool, error)
}

// Issuer signs credentials.
type Issuer interface {
	IssueOwner(mobile string) (string, error)
	IssueStaff(mobile, cafeID string) (string, error)
	IssueImpersonation(ownerMobile, cafeID string) (string, error)
}

// LoginResult is a signed credential and what it grants.
type LoginResult struct {
	Token  string `json:"access_token"`
	Type   string `json:"token_type"`
	Role   string `json:"role"`
	CafeID string `json:"cafe_id,omitempty"`
}

// AuthService contains registration, login and role assumption.
type AuthService struct {
	repo   AccountRepository
	hasher pin.Hasher
	issuer Issuer
	logger *zap.Logger
}

// NewAuthService builds AuthService.
func NewAuthService(repo AccountRepository, hasher pin.Hasher, issuer Issuer, logger *zap.Logger) *AuthService {
	return &AuthService{
		repo:   repo,
		hasher: hasher,
		issuer: issuer,
		logger: logger,
	}
}

// Register creates an owner account.
func (s *AuthService) Register(ctx context.Context, name, mobile, rawPIN string) (*models.Owner, error) {
	const op = "auth.register"

	name = strings.TrimSpace(name)
	mobile = strings.TrimSpace(mobile)
	if name == "" || mobile == "" {
		return nil, errs.E(errs.KindInvalidInput, op, "name and mobile number are required")
	}

	hash, err := s.hasher.Hash(rawPIN)
	if err != nil {
		return nil, err
	}
	owner := &models.Owner{Name: name, Mobile: mobile, PINHash: hash}
	if err := s.repo.CreateOwner(ctx, owner); err != nil {
		if errs.KindOf(err) != errs.KindUnknown {
			return nil, err
		}
		return nil, errs.Wrap(errs.KindUnknown, op, err)
	}

	s.logger.Info("owner registered", zap.String("owner_id", owner.ID))
	return owner, nil
}

// Login authenticates by mobile number and PIN. Owners are matched before staff.
func (s *AuthService) Login(ctx context.Context, mobile, rawPIN string) (*LoginResult, error) {
	const op = "auth.login"

	mobile = strings.TrimSpace(mobile)
	if mobile == "" || rawPIN == "" {
		return nil, errs.E(errs.KindInvalidInput, op, "mobile number and PIN are required")
	}

	owner, err := s.repo.OwnerByMobile(ctx, mobile)
	switch {
	case err == nil:
		if err := s.hasher.Compare(owner.PINHash, rawPIN); err != nil {
			return nil, errs.E(errs.KindInvalidCredential, op, badLogin)
		}
		signed, err := s.issuer.IssueOwner(owner.Mobile)
		if err != nil {
			return nil, errs.Wrap(errs.KindUnknown, op, err)
		}
		s.logger.Info("owner logged in", zap.String("owner_id", owner.ID))
		return &LoginResult{Token: signed, Type: "bearer", Role: token.RoleOwner}, nil
	case !errs.Is(err, errs.KindNotFound):
		return nil, errs.Wrap(errs.KindUnknown, op, err)
	}

	staff, err := s.repo.StaffByMobile(ctx, mobile)
	if errs.Is(err, errs.KindNotFound) {
		return nil, errs.E(errs.KindInvalidCredential, op, badLogin)
	}
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, op, err)
	}
	if err := s.hasher.Compare(staff.PINHash, rawPIN); err != nil {
		return nil, errs.E(errs.KindInvalidCredential, op, badLogin)
	}
	signed, err := s.issuer.IssueStaff(staff.Mobile, staff.CafeID)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, op, err)
	}
	s.logger.Info("staff logged in", zap.String("staff_id", staff.ID), zap.String("cafe_id", staff.CafeID))
	return &LoginResult{Token: signed, Type: "bearer", Role: token.RoleStaff, CafeID: staff.CafeID}, nil
}

// AssumeRole issues a staff credential for a cafe the owner administers.
func (s *AuthService) AssumeRole(ctx context.Context, ownerMobile, cafeID string) (*LoginResult, error) {
	const op = "auth.assume_role"

	cafeID = strings.TrimSpace(cafeID)
	if cafeID == "" {
		return nil, errs.E(errs.KindInvalidInput, op, "cafe id is required")
	}
	owner, err := s.repo.OwnerByMobile(ctx, ownerMobile)
	if errs.Is(err, errs.KindNotFound) {
		return nil, errs.E(errs.KindNotAuthorized, op, "only owners can assume a staff role")
	}
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, op, err)
	}

	owns, err := s.repo.OwnsCafe(ctx, owner.ID, cafeID)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, op, err)
	}
	if !owns {
		return nil, errs.E(errs.KindNotAuthorized, op, "cafe not found or not owned by you")
	}

	signed, err := s.issuer.IssueImpersonation(owner.Mobile, cafeID)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, op, err)
	}
	s.logger.Info("owner assumed staff role", zap.String("owner_id", owner.ID), zap.String("cafe_id", cafeID))
	return &LoginResult{Token: signed, Type: "bearer", Role: token.RoleStaff, CafeID: cafeID}, nil
}
