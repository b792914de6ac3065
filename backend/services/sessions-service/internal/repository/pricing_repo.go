package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/libs/errs"
	"github.com/Himanshu-Yadav-0/BilliardsOne/backend/services/sessions-service/internal/models"
)

// PricingRepository handles pricing rule lookups. The billing strategy comes from the cafe.
type PricingRepository struct {
	db *sql.DB
}

// NewPricingRepository returns repository.
func NewPricingRepository(db *sql.DB) *PricingRepository {
	return &PricingRepository{db: db}
}

// GetRule returns the rule for one table type of a cafe.
func (r *PricingRepository) GetRule(ctx context.Context, cafeID string, tableType models.TableType) (*models.PricingRule, error) {
	if !isID(cafeID) {
		return nil, errs.E(errs.KindNotFound, "pricing.get_rule", "pricing rule not found")
	}
	const query = `
		SELECT p.cafe_id, p.table_type, p.hour_price, p.half_hour_price, p.extra_player_price, c.billing_strategy
		FROM pricing p
		JOIN cafes c ON c.id = p.cafe_id
		WHERE p.cafe_id = $1 AND p.table_type = $2
	`
	var rule models.PricingRule
	err := r.db.QueryRowContext(ctx, query, cafeID, tableType).Scan(
		&rule.CafeID,
		&rule.TableType,
		&rule.HourPrice,
		&rule.HalfHourPrice,
		&rule.ExtraPlayerPrice,
		&rule.Strategy,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errs.E(errs.KindNotFound, "pricing.get_rule", "pricing rule not found")
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// ListRules returns every rule configured for a cafe.
func (r *PricingRepository) ListRules(ctx context.Context, cafeID string) ([]models.PricingRule, error) {
	if !isID(cafeID) {
		return nil, nil
	}
	const query = `
		SELECT p.cafe_id, p.table_type, p.hour_price, p.half_hour_price, p.extra_player_price, c.billing_strategy
		FROM pricing p
		JOIN cafes c ON c.id = p.cafe_id
		WHERE p.cafe_id = $1
		ORDER BY p.table_type
	`
	rows, err := r.db.QueryContext(ctx, query, cafeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []models.PricingRule
	for rows.Next() {
		var rule models.PricingRule
		if err := rows.Scan(
			&rule.CafeID,
			&rule.TableType,
			&rule.HourPrice,
			&rule.HalfHourPrice,
			&rule.ExtraPlayerPrice,
			&rule.Strategy,
		); err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return rules, nil
}
