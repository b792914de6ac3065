package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/token"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/auth-service/internal/models"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/auth-service/internal/pin"
)

type memAccounts struct {
	mu     sync.Mutex
	owners map[string]*models.Owner
	staff  map[string]*models.Staff
	cafes  map[string]string
	fail   error
}

func newMemAccounts() *memAccounts {
	return &memAccounts{
		owners: make(map[string]*models.Owner),
		staff:  make(map[string]*models.Staff),
		cafes:  make(map[string]string),
	}
}

func (m *memAccounts) CreateOwner(_ context.Context, owner *models.Owner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.owners[owner.Mobile]; ok {
		return errs.E(errs.KindInvalidState, "accounts.create_owner", "mobile number already registered")
	}
	owner.ID = "owner-" + owner.Mobile
	owner.CreatedAt = time.Now()
	stored := *owner
	m.owners[owner.Mobile] = &stored
	return nil
}

func (m *memAccounts) OwnerByMobile(_ context.Context, mobile string) (*models.Owner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	owner, ok := m.owners[mobile]
	if !ok {
		return nil, errs.E(errs.KindNotFound, "accounts.owner", "owner not found")
	}
	return owner, nil
}

func (m *memAccounts) StaffByMobile(_ context.Context, mobile string) (*models.Staff, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	staff, ok := m.staff[mobile]
	if !ok {
		return nil, errs.E(errs.KindNotFound, "accounts.staff", "staff not found")
	}
	return staff, nil
}

func (m *memAccounts) OwnsCafe(_ context.Context, ownerID, cafeID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cafes[cafeID] == ownerID, nil
}

type authFixture struct {
	svc    *AuthService
	repo   *memAccounts
	hasher *pin.BcryptHasher
	tokens *token.Service
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	repo := newMemAccounts()
	hasher := pin.NewBcryptHasher(bcrypt.MinCost)
	tokens := token.NewService("auth-secret", 24*time.Hour, 12*time.Hour)
	return &authFixture{
		svc:    NewAuthService(repo, hasher, tokens, zap.NewNop()),
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
	}
}

func (f *authFixture) addStaff(t *testing.T, mobile, cafeID, rawPIN string) {
	t.Helper()
	hash, err := f.hasher.Hash(rawPIN)
	require.NoError(t, err)
	f.repo.staff[mobile] = &models.Staff{ID: "staff-" + mobile, CafeID: cafeID, Name: "Ravi", Mobile: mobile, PINHash: hash}
}

func TestRegisterAndLoginOwner(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	owner, err := f.svc.Register(ctx, "Asha", "9000000001", "4821")
	require.NoError(t, err)
	assert.NotEmpty(t, owner.ID)

	_, err = f.svc.Register(ctx, "Asha", "9000000001", "4821")
	assert.Equal(t, errs.KindInvalidState, errs.KindOf(err))

	res, err := f.svc.Login(ctx, "9000000001", "4821")
	require.NoError(t, err)
	assert.Equal(t, token.RoleOwner, res.Role)
	assert.Equal(t, "bearer", res.Type)

	claims, err := f.tokens.Decode(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "9000000001", claims.Subject)
	assert.Equal(t, token.RoleOwner, claims.Role)
	assert.Empty(t, claims.CafeID)
}

func TestRegisterValidation(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, "", "9000000001", "4821")
	assert.Equal(t, errs.KindInvalidInput, errs.KindOf(err))
	_, err = f.svc.Register(ctx, "Asha", "9000000001", "12")
	assert.Equal(t, errs.KindInvalidInput, errs.KindOf(err))
}

func TestLoginStaff(t *testing.T) {
	f := newAuthFixture(t)
	f.addStaff(t, "9000000002", "cafe-1", "1111")

	res, err := f.svc.Login(context.Background(), "9000000002", "1111")
	require.NoError(t, err)
	assert.Equal(t, token.RoleStaff, res.Role)
	assert.Equal(t, "cafe-1", res.CafeID)

	claims, err := f.tokens.Decode(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "cafe-1", claims.CafeID)
	assert.False(t, claims.IsOwner)
}

func TestLoginOwnerWinsOverStaffWithSameMobile(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	_, err := f.svc.Register(ctx, "Asha", "9000000001", "4821")
	require.NoError(t, err)
	f.addStaff(t, "9000000001", "cafe-1", "1111")

	res, err := f.svc.Login(ctx, "9000000001", "4821")
	require.NoError(t, err)
	assert.Equal(t, token.RoleOwner, res.Role)

	_, err = f.svc.Login(ctx, "9000000001", "1111")
	assert.Equal(t, errs.KindInvalidCredential, errs.KindOf(err))
}

func TestLoginFailures(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	f.addStaff(t, "9000000002", "cafe-1", "1111")

	_, err := f.svc.Login(ctx, "9000000002", "2222")
	assert.Equal(t, errs.KindInvalidCredential, errs.KindOf(err))
	_, err = f.svc.Login(ctx, "9999999999", "1111")
	assert.Equal(t, errs.KindInvalidCredential, errs.KindOf(err))
	_, err = f.svc.Login(ctx, "", "1111")
	assert.Equal(t, errs.KindInvalidInput, errs.KindOf(err))

	f.repo.fail = errors.New("connection refused")
	_, err = f.svc.Login(ctx, "9000000002", "1111")
	assert.Equal(t, errs.KindUnknown, errs.KindOf(err))
}

func TestAssumeRole(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()
	owner, err := f.svc.Register(ctx, "Asha", "9000000001", "4821")
	require.NoError(t, err)
	f.repo.cafes["cafe-1"] = owner.ID
	f.repo.cafes["cafe-2"] = "someone-else"

	res, err := f.svc.AssumeRole(ctx, "9000000001", "cafe-1")
	require.NoError(t, err)
	assert.Equal(t, token.RoleStaff, res.Role)
	claims, err := f.tokens.Decode(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "9000000001", claims.Subject)
	assert.Equal(t, "cafe-1", claims.CafeID)
	assert.True(t, claims.IsOwner)

	_, err = f.svc.AssumeRole(ctx, "9000000001", "cafe-2")
	assert.Equal(t, errs.KindNotAuthorized, errs.KindOf(err))
	_, err = f.svc.AssumeRole(ctx, "9000000001", "cafe-404")
	assert.Equal(t, errs.KindNotAuthorized, errs.KindOf(err))
	_, err = f.svc.AssumeRole(ctx, "9000000002", "cafe-1")
	assert.Equal(t, errs.KindNotAuthorized, errs.KindOf(err))
	_, err = f.svc.AssumeRole(ctx, "9000000001", " ")
	assert.Equal(t, errs.KindInvalidInput, errs.KindOf(err))
}
