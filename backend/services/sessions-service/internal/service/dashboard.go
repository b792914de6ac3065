package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/models"
)

// TableView is one row of the staff dashboard.
type TableView struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Type      models.TableType   `json:"table_type"`
	Status    models.TableStatus `json:"status"`
	SessionID string             `json:"current_session_id,omitempty"`
	StartTime *time.Time         `json:"start_time,omitempty"`
	Elapsed   string             `json:"elapsed_time,omitempty"`
	Players   int                `json:"current_players,omitempty"`
	Bill      *models.Bill       `json:"bill,omitempty"`
}

// Dashboard is the live state of one cafe.
type Dashboard struct {
	CafeID  string               `json:"cafe_id"`
	Tables  []TableView          `json:"tables"`
	Pricing []models.PricingRule `json:"pricing_rules"`
}

// SessionDetail is a session with its player count history.
type SessionDetail struct {
	Session       *models.Session       `json:"session"`
	PlayerChanges []models.PlayerChange `json:"player_changes"`
}

// Dashboard returns the actor's cafe tables, ordered by name, with their pricing.
func (s *SessionsService) Dashboard(ctx context.Context, actor Actor) (*Dashboard, error) {
	const op = "dashboard.get"

	if actor.CafeID == "" {
		return nil, errs.E(errs.KindNotAuthorized, op, "no cafe in scope")
	}
	tables, err := s.store.ListTables(ctx, actor.CafeID)
	if err != nil {
		return nil, s.fail(op, err)
	}
	rules, err := s.pricing.List(ctx, actor.CafeID)
	if err != nil {
		return nil, s.fail(op, err)
	}

	now := s.now().UTC()
	views := make([]TableView, 0, len(tables))
	for i := range tables {
		t := &tables[i]
		view := TableView{ID: t.ID, Name: t.Name, Type: t.Type, Status: t.Status()}
		switch occ := t.Occupancy.(type) {
		case models.Playing:
			start := occ.Session.StartTime
			view.SessionID = occ.Session.ID
			view.StartTime = &start
			view.Elapsed = formatElapsed(now.Sub(start))
			view.Players = occ.Session.Players
		case models.AwaitingPayment:
			start := occ.Session.StartTime
			bill := occ.Bill
			view.SessionID = occ.Session.ID
			view.StartTime = &start
			view.Elapsed = formatElapsed(bill.EndTime.Sub(start))
			view.Players = occ.Session.Players
			view.Bill = &bill
		}
		views = append(views, view)
	}

	if rules == nil {
		rules = []models.PricingRule{}
	}
	return &Dashboard{CafeID: actor.CafeID, Tables: views, Pricing: rules}, nil
}

// Session returns a session of the actor's cafe with its player history.
func (s *SessionsService) Session(ctx context.Context, actor Actor, sessionID string) (*SessionDetail, error) {
	const op = "sessions.get"

	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, s.fail(op, err)
	}
	if err := authorize(op, actor, session.CafeID); err != nil {
		return nil, err
	}
	changes, err := s.store.PlayerChanges(ctx, sessionID)
	if err != nil {
		return nil, s.fail(op, err)
	}
	if changes == nil {
		changes = []models.PlayerChange{}
	}
	return &SessionDetail{Session: session, PlayerChanges: changes}, nil
}

// PaymentsToday lists payments taken today on sessions the actor started, newest first.
// The day boundary follows the clock's location.
func (s *SessionsService) PaymentsToday(ctx context.Context, actor Actor) ([]models.PaymentEntry, error) {
	const op = "payments.today"

	if actor.Subject == "" {
		return nil, errs.E(errs.KindNotAuthorized, op, "no subject in scope")
	}
	now := s.now()
	y, m, d := now.Date()
	since := time.Date(y, m, d, 0, 0, 0, 0, now.Location())

	payments, err := s.store.PaymentsSince(ctx, actor.Subject, since)
	if err != nil {
		return nil, s.fail(op, err)
	}
	if payments == nil {
		payments = []models.PaymentEntry{}
	}
	return payments, nil
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs%3600)/60, secs%60)
}
