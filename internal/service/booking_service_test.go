package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aklilumengesha/Battery-Swap/internal/models"
	"github.com/aklilumengesha/Battery-Swap/internal/ws"
)

type fakeBookingStore struct {
	created  []models.Booking
	bookings map[int64]*models.Booking
}

func (f *fakeBookingStore) Create(ctx context.Context, userID, stationID, batteryID int64, bookedTime, expiryTime time.Time) (*models.Booking, error) {
	booking := models.Booking{
		ID:         int64(len(f.created) + 1),
		UserID:     userID,
		Station:    models.BookingStation{ID: stationID, Name: "Fort Kochi Swap Point"},
		Battery:    models.BookingBattery{ID: batteryID, Price: 120, CompanyName: "VoltCell"},
		BookedTime: bookedTime,
		ExpiryTime: expiryTime,
		IsPaid:     true,
	}
	f.created = append(f.created, booking)
	return &booking, nil
}

func (f *fakeBookingStore) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	return f.created, nil
}

func (f *fakeBookingStore) GetByID(ctx context.Context, id, userID int64) (*models.Booking, error) {
	if b, ok := f.bookings[id]; ok {
		return b, nil
	}
	return nil, assertionErr("not found")
}

func (f *fakeBookingStore) MarkCollected(ctx context.Context, id, userID int64) (*models.Booking, error) {
	b, ok := f.bookings[id]
	if !ok {
		return nil, assertionErr("not found")
	}
	b.IsCollected = true
	return b, nil
}

type assertionErr string

func (e assertionErr) Error() string { return string(e) }

type fakeGate struct{ err error }

func (f fakeGate) CanCreateOrder(ctx context.Context, userID int64) error { return f.err }

type fakeInventory struct{ available, booked int }

func (f fakeInventory) CountBatteries(ctx context.Context, stationID int64) (int, int, error) {
	return f.available, f.booked, nil
}

type recordingHub struct{ updates []ws.InventoryUpdate }

func (r *recordingHub) Broadcast(update ws.InventoryUpdate) { r.updates = append(r.updates, update) }

type recordingCache struct{ invalidations int }

func (r *recordingCache) InvalidateAll(ctx context.Context) error {
	r.invalidations++
	return nil
}

func newBookingFixture(gateErr error) (*BookingService, *fakeBookingStore, *recordingHub, *recordingCache) {
	store := &fakeBookingStore{bookings: map[int64]*models.Booking{}}
	hub := &recordingHub{}
	cache := &recordingCache{}
	svc := NewBookingService(store, fakeGate{err: gateErr}, fakeInventory{available: 3, booked: 2}, hub, cache, zap.NewNop())
	return svc, store, hub, cache
}

func TestBookingService_Book(t *testing.T) {
	svc, store, hub, cache := newBookingFixture(nil)

	booking, err := svc.Book(context.Background(), 1, 10, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), booking.ID)
	assert.Equal(t, int64(10), booking.Station.ID)
	assert.True(t, booking.IsPaid)
	assert.Equal(t, booking.BookedTime.Add(time.Hour), booking.ExpiryTime)
	require.Len(t, store.created, 1)

	// A successful booking must mark station results stale and broadcast
	// the inventory change.
	assert.Equal(t, 1, cache.invalidations)
	require.Len(t, hub.updates, 1)
	assert.Equal(t, ws.ActionBook, hub.updates[0].Action)
	assert.Equal(t, 3, hub.updates[0].AvailableBatteries)
	assert.Equal(t, 5, hub.updates[0].TotalBatteries)
}

func TestBookingService_Book_MissingSelection(t *testing.T) {
	svc, store, _, cache := newBookingFixture(nil)

	_, err := svc.Book(context.Background(), 1, 0, 100)
	assert.ErrorIs(t, err, ErrMissingSelection)

	_, err = svc.Book(context.Background(), 1, 10, 0)
	assert.ErrorIs(t, err, ErrMissingSelection)

	assert.Empty(t, store.created)
	assert.Zero(t, cache.invalidations)
}

func TestBookingService_Book_GateRejects(t *testing.T) {
	svc, store, hub, _ := newBookingFixture(ErrNoSubscription)

	_, err := svc.Book(context.Background(), 1, 10, 100)
	assert.ErrorIs(t, err, ErrNoSubscription)
	assert.Empty(t, store.created)
	assert.Empty(t, hub.updates)
}

func TestBookingService_Collect(t *testing.T) {
	svc, store, hub, cache := newBookingFixture(nil)
	store.bookings[7] = &models.Booking{
		ID:      7,
		UserID:  1,
		Station: models.BookingStation{ID: 10, Name: "Fort Kochi Swap Point"},
	}

	booking, err := svc.Collect(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.True(t, booking.IsCollected)
	assert.Equal(t, 1, cache.invalidations)
	require.Len(t, hub.updates, 1)
	assert.Equal(t, ws.ActionCollect, hub.updates[0].Action)
}
