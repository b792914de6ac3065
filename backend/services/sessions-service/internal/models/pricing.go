package models

import "github.com/shopspring/decimal"

// Strategy selects how elapsed time is converted into a charge.
type Strategy string

const (
	StrategyProRata   Strategy = "Pro_Rata"
	StrategyPerMinute Strategy = "Per_Minute"
	StrategyFixedHour Strategy = "Fixed_Hour"
)

// Valid reports whether s names a known strategy.
func (s Strategy) Valid() bool {
	switch s {
	case StrategyProRata, StrategyPerMinute, StrategyFixedHour:
		return true
	}
	return false
}

// PricingRule is the price list for one table type in one cafe. Unset prices are
// represented by an invalid NullDecimal.
type PricingRule struct {
	CafeID           string              `db:"cafe_id" json:"cafe_id"`
	TableType        TableType           `db:"table_type" json:"table_type"`
	HourPrice        decimal.NullDecimal `db:"hour_price" json:"hour_price"`
	HalfHourPrice    decimal.NullDecimal `db:"half_hour_price" json:"half_hour_price"`
	ExtraPlayerPrice decimal.NullDecimal `db:"extra_player_price" json:"extra_player_price"`
	Strategy         Strategy            `db:"billing_strategy" json:"strategy"`
}
