// Package billing turns an ended session and a pricing rule into a frozen Bill.
// Compute is pure: it reads no clock and touches no storage.
package billing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/models"
)

const (
	// BasePlayers is the number of players included in the table price.
	BasePlayers = 2
	// MinimumMinutes is covered by the flat half-hour charge.
	MinimumMinutes = 30

	op = "billing.compute"
)

var sixty = decimal.NewFromInt(60)

// Compute bills session as if it ended at end, using rule.
func Compute(session models.Session, rule models.PricingRule, end time.Time) (*models.Bill, error) {
	elapsed := end.Sub(session.StartTime)
	if elapsed <= 0 {
		return nil, errs.E(errs.KindInvalidInput, op, "session end must be after its start")
	}
	if session.Players < 1 {
		return nil, errs.E(errs.KindInvalidInput, op, "player count must be at least 1")
	}

	strategy := rule.Strategy
	if strategy == "" {
		strategy = models.StrategyProRata
	}

	bill := &models.Bill{
		SessionID:         session.ID,
		Strategy:          strategy,
		TotalMinutes:      ceilMinutes(elapsed),
		BaseCharge:        decimal.Zero,
		PerMinuteRate:     decimal.Zero,
		OvertimeCharge:    decimal.Zero,
		ExtraPlayerCharge: decimal.Zero,
		FinalPlayers:      session.Players,
		StartTime:         session.StartTime,
		EndTime:           end,
	}
	if rule.HourPrice.Valid {
		bill.PerMinuteRate = rule.HourPrice.Decimal.Div(sixty).Round(4)
	}

	var err error
	switch strategy {
	case models.StrategyProRata:
		err = proRata(bill, rule)
	case models.StrategyPerMinute:
		err = perMinute(bill, rule)
	case models.StrategyFixedHour:
		err = fixedHour(bill, rule)
	default:
		err = errs.E(errs.KindPricingNotConfigured, op, fmt.Sprintf("unknown billing strategy %q", strategy))
	}
	if err != nil {
		return nil, err
	}

	extraPlayers(bill, rule)
	bill.TotalDue = bill.TimeBasedCost.Add(bill.ExtraPlayerCharge).Round(2)
	return bill, nil
}

// proRata charges the half-hour price flat and every minute past thirty at hourPrice/60.
func proRata(bill *models.Bill, rule models.PricingRule) error {
	if !rule.HalfHourPrice.Valid {
		return errs.E(errs.KindPricingNotConfigured, op, "half-hour price is not set")
	}
	bill.BaseCharge = rule.HalfHourPrice.Decimal.Round(2)

	if bill.TotalMinutes > MinimumMinutes {
		if !rule.HourPrice.Valid {
			return errs.E(errs.KindPricingNotConfigured, op, "hourly price is not set")
		}
		bill.OvertimeMinutes = bill.TotalMinutes - MinimumMinutes
		bill.OvertimeCharge = minutesAt(rule.HourPrice.Decimal, bill.OvertimeMinutes)
	}
	bill.TimeBasedCost = bill.BaseCharge.Add(bill.OvertimeCharge)
	return nil
}

// perMinute charges every minute at hourPrice/60 with no base.
func perMinute(bill *models.Bill, rule models.PricingRule) error {
	if !rule.HourPrice.Valid {
		return errs.E(errs.KindPricingNotConfigured, op, "hourly price is not set")
	}
	bill.OvertimeMinutes = bill.TotalMinutes
	bill.OvertimeCharge = minutesAt(rule.HourPrice.Decimal, bill.TotalMinutes)
	bill.TimeBasedCost = bill.OvertimeCharge
	return nil
}

// fixedHour charges the half-hour price for short games, otherwise every started hour.
func fixedHour(bill *models.Bill, rule models.PricingRule) error {
	if bill.TotalMinutes <= MinimumMinutes && rule.HalfHourPrice.Valid {
		bill.BaseCharge = rule.HalfHourPrice.Decimal.Round(2)
	} else {
		if !rule.HourPrice.Valid {
			return errs.E(errs.KindPricingNotConfigured, op, "hourly price is not set")
		}
		hours := (bill.TotalMinutes + 59) / 60
		if hours < 1 {
			hours = 1
		}
		bill.BaseCharge = rule.HourPrice.Decimal.Mul(decimal.NewFromInt(hours)).Round(2)
	}
	bill.TimeBasedCost = bill.BaseCharge
	return nil
}

func extraPlayers(bill *models.Bill, rule models.PricingRule) {
	if !rule.ExtraPlayerPrice.Valid {
		bill.Warnings = append(bill.Warnings, fmt.Sprintf("%s: extra-player price is not set, charged 0", errs.KindPricingIncomplete))
	}
	extra := bill.FinalPlayers - BasePlayers
	if extra <= 0 {
		return
	}
	bill.ExtraPlayers = extra
	if rule.ExtraPlayerPrice.Valid {
		bill.ExtraPlayerCharge = rule.ExtraPlayerPrice.Decimal.Mul(decimal.NewFromInt(int64(extra))).Round(2)
	}
}

func minutesAt(hourPrice decimal.Decimal, minutes int64) decimal.Decimal {
	return hourPrice.Mul(decimal.NewFromInt(minutes)).Div(sixty).Round(2)
}

func ceilMinutes(d time.Duration) int64 {
	return int64((d + time.Minute - 1) / time.Minute)
}
