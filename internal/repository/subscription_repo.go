package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aklilumengesha/Battery-Swap/internal/models"
)

// Sentinel errors for the subscription tables.
var (
	ErrPlanNotFound         = errors.New("subscription plan not found")
	ErrSubscriptionNotFound = errors.New("no active subscription found")
)

// SubscriptionRepository handles plans and user subscriptions.
type SubscriptionRepository struct {
	db *sql.DB
}

// NewSubscriptionRepository returns a repository instance.
func NewSubscriptionRepository(db *sql.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// ListActivePlans returns purchasable plans ordered by price.
func (r *SubscriptionRepository) ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	const query = `
		SELECT id, name, price, swap_limit_per_month, priority_support, is_active
		FROM subscription_plans
		WHERE is_active = TRUE
		ORDER BY price
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]models.SubscriptionPlan, 0)
	for rows.Next() {
		var p models.SubscriptionPlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.SwapLimitPerMonth, &p.PrioritySupport, &p.IsActive); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// GetPlan fetches one active plan.
func (r *SubscriptionRepository) GetPlan(ctx context.Context, id int64) (*models.SubscriptionPlan, error) {
	const query = `
		SELECT id, name, price, swap_limit_per_month, priority_support, is_active
		FROM subscription_plans
		WHERE id = $1 AND is_active = TRUE
		LIMIT 1
	`
	var p models.SubscriptionPlan
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&p.ID, &p.Name, &p.Price, &p.SwapLimitPerMonth, &p.PrioritySupport, &p.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create deactivates any previous subscription and inserts the new one.
func (r *SubscriptionRepository) Create(ctx context.Context, userID, planID int64, start, end time.Time) (*models.UserSubscription, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const deactivate = `UPDATE user_subscriptions SET is_active = FALSE WHERE user_id = $1 AND is_active = TRUE`
	if _, err := tx.ExecContext(ctx, deactivate, userID); err != nil {
		return nil, err
	}

	const insert = `
		INSERT INTO user_subscriptions (user_id, plan_id, start_date, end_date, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
		RETURNING id
	`
	sub := &models.UserSubscription{
		UserID:    userID,
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
	}
	if err := tx.QueryRowContext(ctx, insert, userID, planID, start, end).Scan(&sub.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	plan, err := r.GetPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	sub.Plan = *plan
	return sub, nil
}

// GetActiveByUser returns the user's current unexpired subscription.
func (r *SubscriptionRepository) GetActiveByUser(ctx context.Context, userID int64, now time.Time) (*models.UserSubscription, error) {
	const query = `
		SELECT us.id, us.user_id, us.start_date, us.end_date, us.is_active,
		       p.id, p.name, p.price, p.swap_limit_per_month, p.priority_support, p.is_active
		FROM user_subscriptions us
		JOIN subscription_plans p ON p.id = us.plan_id
		WHERE us.user_id = $1 AND us.is_active = TRUE AND us.end_date > $2
		ORDER BY us.start_date DESC
		LIMIT 1
	`
	var sub models.UserSubscription
	err := r.db.QueryRowContext(ctx, query, userID, now).Scan(
		&sub.ID, &sub.UserID, &sub.StartDate, &sub.EndDate, &sub.IsActive,
		&sub.Plan.ID, &sub.Plan.Name, &sub.Plan.Price, &sub.Plan.SwapLimitPerMonth,
		&sub.Plan.PrioritySupport, &sub.Plan.IsActive,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}
