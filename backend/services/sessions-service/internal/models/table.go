package models

import (
	"errors"
	"fmt"
)

// TableType is the kind of game a table is priced for.
type TableType string

const (
	TablePool    TableType = "8-Ball Pool"
	TableSnooker TableType = "Snooker"
)

// Valid reports whether t names a known table type.
func (t TableType) Valid() bool {
	return t == TablePool || t == TableSnooker
}

// TableStatus is the persisted status column of a table.
type TableStatus string

const (
	TableAvailable TableStatus = "Available"
	TableInUse     TableStatus = "InUse"
)

// Occupancy is what is currently happening on a table: Vacant, Playing or AwaitingPayment.
type Occupancy interface {
	isOccupancy()
}

// Vacant means the table is free to start a session.
type Vacant struct{}

// Playing means a session is running on the table.
type Playing struct {
	Session Session
}

// AwaitingPayment means the session has ended with a frozen bill that is not yet paid.
type AwaitingPayment struct {
	Session Session
	Bill    Bill
}

func (Vacant) isOccupancy()          {}
func (Playing) isOccupancy()         {}
func (AwaitingPayment) isOccupancy() {}

// ErrIntegrity reports stored rows that cannot form a valid Occupancy.
var ErrIntegrity = errors.New("table occupancy integrity violation")

// OccupancyOf derives the occupancy of a table from its non-terminal session, if any.
func OccupancyOf(session *Session) (Occupancy, error) {
	if session == nil {
		return Vacant{}, nil
	}
	switch session.Status {
	case SessionActive:
		return Playing{Session: *session}, nil
	case SessionEnded:
		if session.Bill == nil {
			return nil, fmt.Errorf("%w: session %s ended without a bill", ErrIntegrity, session.ID)
		}
		return AwaitingPayment{Session: *session, Bill: *session.Bill}, nil
	default:
		return nil, fmt.Errorf("%w: session %s is %s but still holds the table", ErrIntegrity, session.ID, session.Status)
	}
}

// Table is a physical billiards table.
type Table struct {
	ID        string    `db:"id" json:"id"`
	CafeID    string    `db:"cafe_id" json:"cafe_id"`
	Name      string    `db:"name" json:"name"`
	Type      TableType `db:"table_type" json:"table_type"`
	Occupancy Occupancy `json:"-"`
}

// Status maps the occupancy onto the persisted status column.
func (t *Table) Status() TableStatus {
	switch t.Occupancy.(type) {
	case Playing, AwaitingPayment:
		return TableInUse
	default:
		return TableAvailable
	}
}

// Session returns the session holding the table, if any.
func (t *Table) Session() (*Session, bool) {
	switch occ := t.Occupancy.(type) {
	case Playing:
		return &occ.Session, true
	case AwaitingPayment:
		return &occ.Session, true
	default:
		return nil, false
	}
}
