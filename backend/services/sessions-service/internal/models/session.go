package models

import "time"

// SessionStatus tracks a session from start to payment.
type SessionStatus string

const (
	SessionActive SessionStatus = "Active"
	SessionEnded  SessionStatus = "Ended"
	SessionClosed SessionStatus = "Closed"
)

// Session represents one continuous occupancy of a table.
type Session struct {
	ID          string        `db:"id" json:"id"`
	TableID     string        `db:"table_id" json:"table_id"`
	CafeID      string        `db:"cafe_id" json:"cafe_id"`
	StartedBy   string        `db:"started_by" json:"started_by"`
	ActingOwner bool          `db:"acting_owner" json:"acting_owner"`
	Status      SessionStatus `db:"status" json:"status"`
	Players     int           `db:"players" json:"players"`
	StartTime   time.Time     `db:"start_time" json:"start_time"`
	EndTime     *time.Time    `db:"end_time" json:"end_time,omitempty"`
	Bill        *Bill         `db:"bill" json:"bill,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

// PlayerChange records the player count set at a point in the session.
type PlayerChange struct {
	ID        string    `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"session_id"`
	Players   int       `db:"players" json:"players"`
	ChangedAt time.Time `db:"changed_at" json:"changed_at"`
}
