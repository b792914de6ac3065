package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/billing"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/models"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/repository"
)

const defaultOperationTimeout = 5 * time.Second

// Actor is the staff identity a request runs as.
type Actor struct {
	Subject     string
	CafeID      string
	ActingOwner bool
}

// Pricing resolves pricing rules.
type Pricing interface {
	Lookup(ctx context.Context, cafeID string, tableType models.TableType) (*models.PricingRule, bool, error)
	List(ctx context.Context, cafeID string) ([]models.PricingRule, error)
}

// Notifier is told about every committed table change.
type Notifier interface {
	TableChanged(ctx context.Context, event models.BoardEvent)
}

// Option customizes SessionsService.
type Option func(*SessionsService)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *SessionsService) { s.now = now }
}

// WithNotifier sets the board notifier.
func WithNotifier(n Notifier) Option {
	return func(s *SessionsService) { s.notifier = n }
}

// WithOperationTimeout bounds each lifecycle operation, lock wait included.
func WithOperationTimeout(d time.Duration) Option {
	return func(s *SessionsService) {
		if d > 0 {
			s.opTimeout = d
		}
	}
}

// SessionsService runs the table/session state machine.
type SessionsService struct {
	store     repository.Store
	pricing   Pricing
	notifier  Notifier
	locks     *tableLocks
	now       func() time.Time
	opTimeout time.Duration
	logger    *zap.Logger
}

// NewSessionsService builds service.
func NewSessionsService(store repository.Store, pricing Pricing, logger *zap.Logger, opts ...Option) *SessionsService {
	s := &SessionsService{
		store:     store,
		pricing:   pricing,
		locks:     newTableLocks(),
		now:       time.Now,
		opTimeout: defaultOperationTimeout,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StartSession opens a session on an available table.
func (s *SessionsService) StartSession(ctx context.Context, actor Actor, tableID string, players int) (*models.Session, error) {
	const op = "lifecycle.start"

	if players < 1 {
		return nil, errs.E(errs.KindInvalidInput, op, "initial player count must be at least 1")
	}
	if strings.TrimSpace(tableID) == "" {
		return nil, errs.E(errs.KindInvalidInput, op, "table id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()
	unlock, err := s.locks.lock(ctx, tableID)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, op, err)
	}
	defer unlock()

	var (
		session *models.Session
		table   *models.Table
	)
	err = s.store.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		if table, err = tx.LockTable(ctx, tableID); err != nil {
			return err
		}
		if err := authorize(op, actor, table.CafeID); err != nil {
			return err
		}
		if _, vacant := table.Occupancy.(models.Vacant); !vacant {
			return errs.E(errs.KindInvalidState, op, "table is not available")
		}

		now := s.now().UTC()
		session = &models.Session{
			ID:          uuid.NewString(),
			TableID:     table.ID,
			CafeID:      table.CafeID,
			StartedBy:   actor.Subject,
			ActingOwner: actor.ActingOwner,
			Status:      models.SessionActive,
			Players:     players,
			StartTime:   now,
		}
		if err := tx.SaveSession(ctx, session); err != nil {
			return err
		}
		if err := tx.AddPlayerChange(ctx, playerChange(session.ID, players, now)); err != nil {
			return err
		}
		table.Occupancy = models.Playing{Session: *session}
		return tx.SaveTable(ctx, table, models.TableAvailable)
	})
	if err != nil {
		return nil, s.fail(op, err)
	}

	s.logger.Info("session started",
		zap.String("table_id", table.ID),
		zap.String("session_id", session.ID),
		zap.String("cafe_id", table.CafeID),
		zap.Int("players", players),
		zap.Bool("acting_owner", actor.ActingOwner),
	)
	s.notify(ctx, table)
	return session, nil
}

// UpdatePlayerCount sets the player count of an active session.
func (s *SessionsService) UpdatePlayerCount(ctx context.Context, actor Actor, sessionID string, players int) (*models.Session, error) {
	const op = "lifecycle.update_players"

	if players < 1 {
		return nil, errs.E(errs.KindInvalidInput, op, "player count must be at least 1")
	}

	var session *models.Session
	table, err := s.inTableTx(ctx, op, actor, sessionID, func(ctx context.Context, tx repository.Tx, table *models.Table, current *models.Session) error {
		if current.Status != models.SessionActive {
			return errs.E(errs.KindInvalidState, op, "session is not active")
		}
		current.Players = players
		if err := tx.SaveSession(ctx, current); err != nil {
			return err
		}
		session = current
		table.Occupancy = models.Playing{Session: *current}
		return tx.AddPlayerChange(ctx, playerChange(current.ID, players, s.now().UTC()))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("player count updated",
		zap.String("table_id", session.TableID),
		zap.String("session_id", session.ID),
		zap.Int("players", players),
	)
	s.notify(ctx, table)
	return session, nil
}

// EndSession stops the clock and freezes the bill. Ending an already ended session returns
// the bill frozen the first time.
func (s *SessionsService) EndSession(ctx context.Context, actor Actor, sessionID string) (*models.Bill, error) {
	const op = "lifecycle.end"

	var (
		bill   *models.Bill
		frozen bool
	)
	table, err := s.inTableTx(ctx, op, actor, sessionID, func(ctx context.Context, tx repository.Tx, table *models.Table, current *models.Session) error {
		switch current.Status {
		case models.SessionEnded:
			bill, frozen = current.Bill, true
			return nil
		case models.SessionActive:
		default:
			return errs.E(errs.KindInvalidState, op, "session is not active")
		}

		rule, found, err := s.pricing.Lookup(ctx, table.CafeID, table.Type)
		if err != nil {
			return err
		}
		if !found {
			return errs.E(errs.KindPricingNotConfigured, op, fmt.Sprintf("no pricing configured for %s tables", table.Type))
		}

		end := s.now().UTC()
		if bill, err = billing.Compute(*current, *rule, end); err != nil {
			return err
		}
		current.Status = models.SessionEnded
		current.EndTime = &end
		current.Bill = bill
		if err := tx.SaveSession(ctx, current); err != nil {
			return err
		}
		table.Occupancy = models.AwaitingPayment{Session: *current, Bill: *bill}
		return tx.SaveTable(ctx, table, models.TableInUse)
	})
	if err != nil {
		return nil, err
	}
	if frozen {
		return bill, nil
	}

	s.logger.Info("session ended",
		zap.String("table_id", table.ID),
		zap.String("session_id", sessionID),
		zap.Int64("minutes", bill.TotalMinutes),
		zap.String("total_due", bill.TotalDue.StringFixed(2)),
		zap.Strings("warnings", bill.Warnings),
	)
	s.notify(ctx, table)
	return bill, nil
}

// LogPayment settles an ended session and frees its table.
func (s *SessionsService) LogPayment(ctx context.Context, actor Actor, sessionID string, amount decimal.Decimal, method models.PaymentMethod) (*models.Payment, error) {
	const op = "lifecycle.pay"

	if !method.Valid() {
		return nil, errs.E(errs.KindInvalidInput, op, "payment method must be Cash or Online")
	}
	if amount.IsNegative() {
		return nil, errs.E(errs.KindInvalidInput, op, "amount must not be negative")
	}

	var payment *models.Payment
	table, err := s.inTableTx(ctx, op, actor, sessionID, func(ctx context.Context, tx repository.Tx, table *models.Table, current *models.Session) error {
		switch current.Status {
		case models.SessionEnded:
		case models.SessionActive:
			return errs.E(errs.KindInvalidState, op, "session has not ended")
		default:
			return errs.E(errs.KindInvalidState, op, "session has already been paid")
		}
		if current.Bill == nil {
			return fmt.Errorf("%w: session %s ended without a bill", models.ErrIntegrity, current.ID)
		}
		total := current.Bill.TotalDue.Round(2)
		if !amount.Round(2).Equal(total) {
			return errs.E(errs.KindAmountMismatch, op,
				fmt.Sprintf("amount %s does not match bill total %s", amount.StringFixed(2), total.StringFixed(2)))
		}

		payment = &models.Payment{
			ID:            uuid.NewString(),
			SessionID:     current.ID,
			Amount:        total,
			Method:        method,
			MinutesPlayed: current.Bill.TotalMinutes,
			RecordedBy:    actor.Subject,
			PaidAt:        s.now().UTC(),
		}
		if err := tx.SavePayment(ctx, payment); err != nil {
			return err
		}
		current.Status = models.SessionClosed
		if err := tx.SaveSession(ctx, current); err != nil {
			return err
		}
		table.Occupancy = models.Vacant{}
		return tx.SaveTable(ctx, table, models.TableInUse)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("payment logged",
		zap.String("table_id", table.ID),
		zap.String("session_id", sessionID),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.String("method", string(method)),
	)
	s.notify(ctx, table)
	return payment, nil
}

// inTableTx resolves the session's table, takes the table lock and runs fn in a
// transaction with the table and session rows locked, in that order. fn receives the
// operation context, bounded by the operation timeout.
func (s *SessionsService) inTableTx(
	ctx context.Context,
	op string,
	actor Actor,
	sessionID string,
	fn func(ctx context.Context, tx repository.Tx, table *models.Table, session *models.Session) error,
) (*models.Table, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, errs.E(errs.KindInvalidInput, op, "session id is required")
	}

	ctx, cancel := context.WithTimeout(ctx, s.opTimeout)
	defer cancel()

	known, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, s.fail(op, err)
	}
	if err := authorize(op, actor, known.CafeID); err != nil {
		return nil, err
	}

	unlock, err := s.locks.lock(ctx, known.TableID)
	if err != nil {
		return nil, errs.Wrap(errs.KindUnknown, op, err)
	}
	defer unlock()

	var table *models.Table
	err = s.store.WithinTx(ctx, func(tx repository.Tx) error {
		var err error
		if table, err = tx.LockTable(ctx, known.TableID); err != nil {
			return err
		}
		session, err := tx.LockSession(ctx, sessionID)
		if err != nil {
			return err
		}
		return fn(ctx, tx, table, session)
	})
	if err != nil {
		return nil, s.fail(op, err)
	}
	return table, nil
}

// fail normalizes errors leaving a transition. A lost compare-and-swap means another
// transition got to the table first.
func (s *SessionsService) fail(op string, err error) error {
	switch errs.KindOf(err) {
	case errs.KindConflict:
		return errs.E(errs.KindInvalidState, op, "table changed concurrently; reload and retry")
	case errs.KindUnknown:
		s.logger.Error("lifecycle operation failed", zap.String("op", op), zap.Error(err))
		return errs.Wrap(errs.KindUnknown, op, err)
	default:
		return err
	}
}

func (s *SessionsService) notify(ctx context.Context, table *models.Table) {
	if s.notifier == nil {
		return
	}
	event := models.BoardEvent{
		CafeID:  table.CafeID,
		TableID: table.ID,
		Status:  table.Status(),
		At:      s.now().UTC(),
	}
	switch occ := table.Occupancy.(type) {
	case models.Playing:
		event.SessionID = occ.Session.ID
		event.Session = occ.Session.Status
		event.Players = occ.Session.Players
	case models.AwaitingPayment:
		total := occ.Bill.TotalDue
		event.SessionID = occ.Session.ID
		event.Session = occ.Session.Status
		event.Players = occ.Session.Players
		event.TotalDue = &total
	}
	s.notifier.TableChanged(context.WithoutCancel(ctx), event)
}

func authorize(op string, actor Actor, cafeID string) error {
	if actor.CafeID == "" || actor.CafeID != cafeID {
		return errs.E(errs.KindNotAuthorized, op, "table belongs to another cafe")
	}
	return nil
}

func playerChange(sessionID string, players int, at time.Time) models.PlayerChange {
	return models.PlayerChange{ID: uuid.NewString(), SessionID: sessionID, Players: players, ChangedAt: at}
}
