package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/models"
)

const uniqueViolation = "23505"

func (t *pgTx) SavePayment(ctx context.Context, payment *models.Payment) error {
	const query = `
		INSERT INTO payments (id, session_id, amount, method, minutes_played, recorded_by, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := t.tx.ExecContext(ctx, query,
		payment.ID,
		payment.SessionID,
		payment.Amount,
		payment.Method,
		payment.MinutesPlayed,
		payment.RecordedBy,
		payment.PaidAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return errs.E(errs.KindInvalidState, "store.save_payment", "session has already been paid")
	}
	return err
}

// PaymentsSince returns payments for sessions started by startedBy, newest first.
func (r *PostgresStore) PaymentsSince(ctx context.Context, startedBy string, since time.Time) ([]models.PaymentEntry, error) {
	const query = `
		SELECT p.id, p.session_id, p.amount, p.method, p.minutes_played, p.recorded_by, p.paid_at,
		       t.id, t.name
		FROM payments p
		JOIN game_sessions s ON s.id = p.session_id
		JOIN billiard_tables t ON t.id = s.table_id
		WHERE s.started_by = $1 AND p.paid_at >= $2
		ORDER BY p.paid_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query, startedBy, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []models.PaymentEntry
	for rows.Next() {
		var p models.PaymentEntry
		if err := rows.Scan(
			&p.ID,
			&p.SessionID,
			&p.Amount,
			&p.Method,
			&p.MinutesPlayed,
			&p.RecordedBy,
			&p.PaidAt,
			&p.TableID,
			&p.TableName,
		); err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return payments, nil
}
