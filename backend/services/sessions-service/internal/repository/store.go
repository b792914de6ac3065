package repository

import (
	"context"
	"time"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/models"
)

// Store is the single authority for table, session and payment state.
// Reads outside WithinTx return the latest committed values.
type Store interface {
	GetTable(ctx context.Context, id string) (*models.Table, error)
	GetSession(ctx context.Context, id string) (*models.Session, error)
	ListTables(ctx context.Context, cafeID string) ([]models.Table, error)
	PlayerChanges(ctx context.Context, sessionID string) ([]models.PlayerChange, error)
	PaymentsSince(ctx context.Context, startedBy string, since time.Time) ([]models.PaymentEntry, error)
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx groups the writes of one lifecycle transition. Nothing written through it is
// visible until fn returns nil and the commit succeeds.
type Tx interface {
	// LockTable loads the table and its occupancy, holding the row until commit.
	LockTable(ctx context.Context, id string) (*models.Table, error)
	// LockSession loads the session, holding the row until commit.
	LockSession(ctx context.Context, id string) (*models.Session, error)
	// SaveTable persists the table status derived from its occupancy, but only while the
	// stored status still equals expect. A mismatch fails with errs.KindConflict.
	SaveTable(ctx context.Context, table *models.Table, expect models.TableStatus) error
	SaveSession(ctx context.Context, session *models.Session) error
	AddPlayerChange(ctx context.Context, change models.PlayerChange) error
	SavePayment(ctx context.Context, payment *models.Payment) error
}

// PricingSource reads pricing rules.
type PricingSource interface {
	GetRule(ctx context.Context, cafeID string, tableType models.TableType) (*models.PricingRule, error)
	ListRules(ctx context.Context, cafeID string) ([]models.PricingRule, error)
}
