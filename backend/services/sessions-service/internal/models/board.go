package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BoardEvent tells viewers of a cafe that one table changed.
type BoardEvent struct {
	CafeID    string           `json:"cafe_id"`
	TableID   string           `json:"table_id"`
	Status    TableStatus      `json:"status"`
	SessionID string           `json:"session_id,omitempty"`
	Session   SessionStatus    `json:"session_status,omitempty"`
	Players   int              `json:"players,omitempty"`
	TotalDue  *decimal.Decimal `json:"total_due,omitempty"`
	At        time.Time        `json:"at"`
}
