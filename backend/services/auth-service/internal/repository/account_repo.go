package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/auth-service/internal/models"
)

const uniqueViolation = "23505"

// AccountRepository reads owners, staff and cafe ownership.
type AccountRepository struct {
	db *sql.DB
}

// NewAccountRepository returns repository instance.
func NewAccountRepository(db *sql.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

// CreateOwner inserts a new owner.
func (r *AccountRepository) CreateOwner(ctx context.Context, owner *models.Owner) error {
	owner.Mobile = strings.TrimSpace(owner.Mobile)
	const query = `
		INSERT INTO owners (name, mobile_no, pin_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, owner.Name, owner.Mobile, owner.PINHash).
		Scan(&owner.ID, &owner.CreatedAt)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return errs.E(errs.KindInvalidState, "accounts.create_owner", "mobile number already registered")
	}
	return err
}

// OwnerByMobile fetches an owner by mobile number.
func (r *AccountRepository) OwnerByMobile(ctx context.Context, mobile string) (*models.Owner, error) {
	const query = `
		SELECT id, name, mobile_no, pin_hash, created_at
		FROM owners
		WHERE mobile_no = $1
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, strings.TrimSpace(mobile))
	var owner models.Owner
	if err := row.Scan(&owner.ID, &owner.Name, &owner.Mobile, &owner.PINHash, &owner.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.E(errs.KindNotFound, "accounts.owner", "owner not found")
		}
		return nil, err
	}
	return &owner, nil
}

// StaffByMobile fetches a staff member by mobile number.
func (r *AccountRepository) StaffByMobile(ctx context.Context, mobile string) (*models.Staff, error) {
	const query = `
		SELECT id, cafe_id, name, mobile_no, pin_hash
		FROM staff
		WHERE mobile_no = $1
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, strings.TrimSpace(mobile))
	var staff models.Staff
	if err := row.Scan(&staff.ID, &staff.CafeID, &staff.Name, &staff.Mobile, &staff.PINHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errs.E(errs.KindNotFound, "accounts.staff", "staff not found")
		}
		return nil, err
	}
	return &staff, nil
}

// OwnsCafe reports whether ownerID administers cafeID.
func (r *AccountRepository) OwnsCafe(ctx context.Context, ownerID, cafeID string) (bool, error) {
	// Ids are UUID columns; any other text cannot name a cafe.
	if _, err := uuid.Parse(cafeID); err != nil {
		return false, nil
	}
	if _, err := uuid.Parse(ownerID); err != nil {
		return false, nil
	}
	const query = `SELECT EXISTS (SELECT 1 FROM cafes WHERE id = $1 AND owner_id = $2)`
	var owns bool
	if err := r.db.QueryRowContext(ctx, query, cafeID, ownerID).Scan(&owns); err != nil {
		return false, err
	}
	return owns, nil
}
