package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how the customer settled the bill.
type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "Cash"
	PaymentOnline PaymentMethod = "Online"
)

// Valid reports whether m is an accepted method.
func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentOnline
}

// Payment settles exactly one ended session.
type Payment struct {
	ID            string          `db:"id" json:"id"`
	SessionID     string          `db:"session_id" json:"session_id"`
	Amount        decimal.Decimal `db:"amount" json:"amount"`
	Method        PaymentMethod   `db:"method" json:"method"`
	MinutesPlayed int64           `db:"minutes_played" json:"minutes_played"`
	RecordedBy    string          `db:"recorded_by" json:"recorded_by"`
	PaidAt        time.Time       `db:"paid_at" json:"paid_at"`
}

// PaymentEntry is a payment joined with its table, as listed to staff.
type PaymentEntry struct {
	Payment
	TableID   string `db:"table_id" json:"table_id"`
	TableName string `db:"table_name" json:"table_name"`
}
