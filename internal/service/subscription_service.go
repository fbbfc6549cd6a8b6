package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/aklilumengesha/Battery-Swap/internal/models"
	"github.com/aklilumengesha/Battery-Swap/internal/repository"
)

// Subscription failure modes; Error() text is the user-facing message.
var (
	ErrNoSubscription   = errors.New("No active subscription found. Please subscribe to a plan to continue.")
	ErrSwapLimitReached = errors.New("monthly swap limit reached")
	ErrInvalidDuration  = errors.New("subscription duration must be between 1 and 12 months")
)

// SubscriptionStore is the storage contract for plans and subscriptions.
type SubscriptionStore interface {
	ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error)
	GetPlan(ctx context.Context, id int64) (*models.SubscriptionPlan, error)
	Create(ctx context.Context, userID, planID int64, start, end time.Time) (*models.UserSubscription, error)
	GetActiveByUser(ctx context.Context, userID int64, now time.Time) (*models.UserSubscription, error)
}

// SwapCounter counts paid bookings inside the current month.
type SwapCounter interface {
	CountPaidSince(ctx context.Context, userID int64, cutoff time.Time) (int, error)
}

// SubscriptionService enforces plan limits on the booking flow.
type SubscriptionService struct {
	store  SubscriptionStore
	swaps  SwapCounter
	logger *zap.Logger
	now    func() time.Time
}

// NewSubscriptionService builds the service.
func NewSubscriptionService(store SubscriptionStore, swaps SwapCounter, logger *zap.Logger) *SubscriptionService {
	return &SubscriptionService{
		store:  store,
		swaps:  swaps,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Plans lists purchasable plans.
func (s *SubscriptionService) Plans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	return s.store.ListActivePlans(ctx)
}

// Subscribe activates a plan for durationMonths, replacing any previous
// subscription.
func (s *SubscriptionService) Subscribe(ctx context.Context, userID, planID int64, durationMonths int) (*models.UserSubscription, error) {
	if durationMonths < 1 || durationMonths > 12 {
		return nil, ErrInvalidDuration
	}
	if _, err := s.store.GetPlan(ctx, planID); err != nil {
		return nil, err
	}

	start := s.now()
	end := start.AddDate(0, durationMonths, 0)
	sub, err := s.store.Create(ctx, userID, planID, start, end)
	if err != nil {
		return nil, err
	}

	s.logger.Info("subscription created",
		zap.Int64("user_id", userID),
		zap.Int64("plan_id", planID),
		zap.Int("months", durationMonths),
	)
	return sub, nil
}

// MySubscription returns the user's active subscription.
func (s *SubscriptionService) MySubscription(ctx context.Context, userID int64) (*models.UserSubscription, error) {
	return s.store.GetActiveByUser(ctx, userID, s.now())
}

// CanCreateOrder checks the active subscription and its monthly allowance.
// A nil return means the booking may proceed.
func (s *SubscriptionService) CanCreateOrder(ctx context.Context, userID int64) error {
	now := s.now()
	sub, err := s.store.GetActiveByUser(ctx, userID, now)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return ErrNoSubscription
		}
		return err
	}
	if sub.Expired(now) {
		return ErrNoSubscription
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	used, err := s.swaps.CountPaidSince(ctx, userID, monthStart)
	if err != nil {
		return err
	}
	if used >= sub.Plan.SwapLimitPerMonth {
		return fmt.Errorf("%w (%d/%d)", ErrSwapLimitReached, used, sub.Plan.SwapLimitPerMonth)
	}
	return nil
}

// Status summarizes the subscription for profile views.
type Status struct {
	HasSubscription bool      `json:"has_subscription"`
	PlanName        string    `json:"plan_name,omitempty"`
	SwapLimit       int       `json:"swap_limit"`
	SwapsUsed       int       `json:"swaps_used"`
	SwapsRemaining  int       `json:"swaps_remaining"`
	PrioritySupport bool      `json:"priority_support"`
	EndDate         time.Time `json:"end_date,omitempty"`
}

// GetStatus reports allowance usage for the current month.
func (s *SubscriptionService) GetStatus(ctx context.Context, userID int64) (Status, error) {
	now := s.now()
	sub, err := s.store.GetActiveByUser(ctx, userID, now)
	if err != nil {
		if errors.Is(err, repository.ErrSubscriptionNotFound) {
			return Status{}, nil
		}
		return Status{}, err
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	used, err := s.swaps.CountPaidSince(ctx, userID, monthStart)
	if err != nil {
		return Status{}, err
	}

	remaining := sub.Plan.SwapLimitPerMonth - used
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		HasSubscription: true,
		PlanName:        sub.Plan.Name,
		SwapLimit:       sub.Plan.SwapLimitPerMonth,
		SwapsUsed:       used,
		SwapsRemaining:  remaining,
		PrioritySupport: sub.Plan.PrioritySupport,
		EndDate:         sub.EndDate,
	}, nil
}
