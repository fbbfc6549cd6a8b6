package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/aklilumengesha/Battery-Swap/internal/models"
	"github.com/aklilumengesha/Battery-Swap/internal/ws"
)

// Booking window before an uncollected battery is released.
const bookingWindow = time.Hour

// ErrMissingSelection rejects booking commands before storage access.
var ErrMissingSelection = errors.New("bookings: station and battery are required")

// BookingStore is the storage contract for orders.
type BookingStore interface {
	Create(ctx context.Context, userID, stationID, batteryID int64, bookedTime, expiryTime time.Time) (*models.Booking, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Booking, error)
	GetByID(ctx context.Context, id, userID int64) (*models.Booking, error)
	MarkCollected(ctx context.Context, id, userID int64) (*models.Booking, error)
}

// OrderGate decides whether a user may create another order.
type OrderGate interface {
	CanCreateOrder(ctx context.Context, userID int64) error
}

// InventoryCounter reads per-station battery counts for broadcasts.
type InventoryCounter interface {
	CountBatteries(ctx context.Context, stationID int64) (available, booked int, err error)
}

// Broadcaster pushes inventory updates to websocket subscribers.
type Broadcaster interface {
	Broadcast(update ws.InventoryUpdate)
}

// CacheInvalidator marks cached station results stale.
type CacheInvalidator interface {
	InvalidateAll(ctx context.Context) error
}

// BookingService creates and tracks battery reservations.
type BookingService struct {
	store     BookingStore
	gate      OrderGate
	inventory InventoryCounter
	hub       Broadcaster
	cache     CacheInvalidator
	logger    *zap.Logger
	now       func() time.Time
}

// NewBookingService builds the service. hub and cache may be nil.
func NewBookingService(store BookingStore, gate OrderGate, inventory InventoryCounter, hub Broadcaster, cache CacheInvalidator, logger *zap.Logger) *BookingService {
	return &BookingService{
		store:     store,
		gate:      gate,
		inventory: inventory,
		hub:       hub,
		cache:     cache,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Book reserves a battery at a station. The subscription gate runs first;
// on success the station cache is invalidated and the new inventory is
// broadcast, because availability changed for every nearby lookup.
func (s *BookingService) Book(ctx context.Context, userID, stationID, batteryID int64) (*models.Booking, error) {
	if stationID == 0 || batteryID == 0 {
		return nil, ErrMissingSelection
	}

	if err := s.gate.CanCreateOrder(ctx, userID); err != nil {
		return nil, err
	}

	bookedTime := s.now()
	booking, err := s.store.Create(ctx, userID, stationID, batteryID, bookedTime, bookedTime.Add(bookingWindow))
	if err != nil {
		return nil, err
	}

	s.logger.Info("battery booked",
		zap.Int64("user_id", userID),
		zap.Int64("station_id", stationID),
		zap.Int64("battery_id", batteryID),
		zap.Int64("order_id", booking.ID),
	)

	s.afterInventoryChange(ctx, booking.Station, ws.ActionBook)
	return booking, nil
}

// List returns the user's booking history.
func (s *BookingService) List(ctx context.Context, userID int64) ([]models.Booking, error) {
	return s.store.ListByUser(ctx, userID)
}

// Get returns one booking owned by the user.
func (s *BookingService) Get(ctx context.Context, id, userID int64) (*models.Booking, error) {
	return s.store.GetByID(ctx, id, userID)
}

// Collect marks the battery as handed over and releases the swapped-out
// unit back into the station's pool.
func (s *BookingService) Collect(ctx context.Context, id, userID int64) (*models.Booking, error) {
	booking, err := s.store.MarkCollected(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("battery collected", zap.Int64("user_id", userID), zap.Int64("order_id", id))
	s.afterInventoryChange(ctx, booking.Station, ws.ActionCollect)
	return booking, nil
}

func (s *BookingService) afterInventoryChange(ctx context.Context, station models.BookingStation, action string) {
	if s.cache != nil {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			s.logger.Warn("failed to invalidate station cache", zap.Error(err))
		}
	}

	if s.hub == nil {
		return
	}
	available, booked, err := s.inventory.CountBatteries(ctx, station.ID)
	if err != nil {
		s.logger.Warn("failed to count station batteries", zap.Int64("station_id", station.ID), zap.Error(err))
		return
	}
	s.hub.Broadcast(ws.InventoryUpdate{
		StationID:          station.ID,
		StationName:        station.Name,
		AvailableBatteries: available,
		BookedBatteries:    booked,
		TotalBatteries:     available + booked,
		Action:             action,
	})
}
