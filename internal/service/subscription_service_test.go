package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aklilumengesha/Battery-Swap/internal/models"
	"github.com/aklilumengesha/Battery-Swap/internal/repository"
)

type fakeSubscriptionStore struct {
	plans  map[int64]models.SubscriptionPlan
	active *models.UserSubscription
}

func (f *fakeSubscriptionStore) ListActivePlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	out := make([]models.SubscriptionPlan, 0, len(f.plans))
	for _, p := range f.plans {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeSubscriptionStore) GetPlan(ctx context.Context, id int64) (*models.SubscriptionPlan, error) {
	if p, ok := f.plans[id]; ok {
		return &p, nil
	}
	return nil, repository.ErrPlanNotFound
}

func (f *fakeSubscriptionStore) Create(ctx context.Context, userID, planID int64, start, end time.Time) (*models.UserSubscription, error) {
	sub := &models.UserSubscription{
		ID:        1,
		UserID:    userID,
		Plan:      f.plans[planID],
		StartDate: start,
		EndDate:   end,
		IsActive:  true,
	}
	f.active = sub
	return sub, nil
}

func (f *fakeSubscriptionStore) GetActiveByUser(ctx context.Context, userID int64, now time.Time) (*models.UserSubscription, error) {
	if f.active == nil || !f.active.EndDate.After(now) {
		return nil, repository.ErrSubscriptionNotFound
	}
	return f.active, nil
}

type fakeSwapCounter struct{ count int }

func (f fakeSwapCounter) CountPaidSince(ctx context.Context, userID int64, cutoff time.Time) (int, error) {
	return f.count, nil
}

func basicPlan() models.SubscriptionPlan {
	return models.SubscriptionPlan{ID: 1, Name: "Basic", Price: 499, SwapLimitPerMonth: 10, IsActive: true}
}

func newSubscriptionFixture(used int) (*SubscriptionService, *fakeSubscriptionStore) {
	store := &fakeSubscriptionStore{plans: map[int64]models.SubscriptionPlan{1: basicPlan()}}
	svc := NewSubscriptionService(store, fakeSwapCounter{count: used}, zap.NewNop())
	return svc, store
}

func TestSubscriptionService_Subscribe(t *testing.T) {
	svc, store := newSubscriptionFixture(0)

	sub, err := svc.Subscribe(context.Background(), 1, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, "Basic", sub.Plan.Name)
	assert.Equal(t, sub.StartDate.AddDate(0, 3, 0), sub.EndDate)
	assert.Same(t, sub, store.active)
}

func TestSubscriptionService_Subscribe_InvalidDuration(t *testing.T) {
	svc, _ := newSubscriptionFixture(0)

	for _, months := range []int{0, -1, 13} {
		_, err := svc.Subscribe(context.Background(), 1, 1, months)
		assert.ErrorIs(t, err, ErrInvalidDuration)
	}
}

func TestSubscriptionService_Subscribe_UnknownPlan(t *testing.T) {
	svc, _ := newSubscriptionFixture(0)
	_, err := svc.Subscribe(context.Background(), 1, 99, 1)
	assert.ErrorIs(t, err, repository.ErrPlanNotFound)
}

func TestSubscriptionService_CanCreateOrder(t *testing.T) {
	svc, store := newSubscriptionFixture(3)

	// No subscription yet.
	err := svc.CanCreateOrder(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNoSubscription)

	_, err = svc.Subscribe(context.Background(), 1, 1, 1)
	require.NoError(t, err)

	// 3 of 10 swaps used this month.
	assert.NoError(t, svc.CanCreateOrder(context.Background(), 1))

	// Expired subscriptions do not count.
	store.active.EndDate = time.Now().UTC().Add(-time.Hour)
	assert.ErrorIs(t, svc.CanCreateOrder(context.Background(), 1), ErrNoSubscription)
}

func TestSubscriptionService_CanCreateOrder_LimitReached(t *testing.T) {
	svc, _ := newSubscriptionFixture(10)

	_, err := svc.Subscribe(context.Background(), 1, 1, 1)
	require.NoError(t, err)

	err = svc.CanCreateOrder(context.Background(), 1)
	assert.ErrorIs(t, err, ErrSwapLimitReached)
	assert.Contains(t, err.Error(), "10/10")
}

func TestSubscriptionService_GetStatus(t *testing.T) {
	svc, _ := newSubscriptionFixture(4)

	status, err := svc.GetStatus(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, status.HasSubscription)

	_, err = svc.Subscribe(context.Background(), 1, 1, 1)
	require.NoError(t, err)

	status, err = svc.GetStatus(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, status.HasSubscription)
	assert.Equal(t, 4, status.SwapsUsed)
	assert.Equal(t, 6, status.SwapsRemaining)
}
