package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bill is the frozen, itemized result of ending a session.
type Bill struct {
	SessionID         string          `json:"session_id"`
	Strategy          Strategy        `json:"strategy"`
	TotalMinutes      int64           `json:"total_minutes"`
	BaseCharge        decimal.Decimal `json:"base_charge"`
	OvertimeMinutes   int64           `json:"overtime_minutes"`
	PerMinuteRate     decimal.Decimal `json:"per_minute_rate"`
	OvertimeCharge    decimal.Decimal `json:"overtime_charge"`
	TimeBasedCost     decimal.Decimal `json:"time_based_cost"`
	FinalPlayers      int             `json:"final_players"`
	ExtraPlayers      int             `json:"extra_players"`
	ExtraPlayerCharge decimal.Decimal `json:"extra_player_charge"`
	TotalDue          decimal.Decimal `json:"total_due"`
	Warnings          []string        `json:"warnings,omitempty"`
	StartTime         time.Time       `json:"start_time"`
	EndTime           time.Time       `json:"end_time"`
}
