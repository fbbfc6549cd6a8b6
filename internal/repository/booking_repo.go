package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aklilumengesha/Battery-Swap/internal/models"
)

// Sentinel errors raised while creating or mutating bookings.
var (
	ErrBookingNotFound    = errors.New("booking not found")
	ErrBatteryUnavailable = errors.New("battery is no longer available")
)

// BookingRepository handles the orders table and battery status transitions.
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository returns a repository instance.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Create reserves the battery and inserts the order in one transaction.
// The battery row is locked so two concurrent bookings cannot both win.
func (r *BookingRepository) Create(ctx context.Context, userID, stationID, batteryID int64, bookedTime, expiryTime time.Time) (*models.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const lockBattery = `
		SELECT b.price, b.company_name, s.name
		FROM batteries b
		JOIN stations s ON s.id = b.station_id
		WHERE b.id = $1 AND b.station_id = $2 AND b.status = $3
		FOR UPDATE OF b
	`
	var price float64
	var companyName, stationName string
	err = tx.QueryRowContext(ctx, lockBattery, batteryID, stationID, models.BatteryStatusAvailable).
		Scan(&price, &companyName, &stationName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBatteryUnavailable
		}
		return nil, err
	}

	const markBooked = `UPDATE batteries SET status = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, markBooked, models.BatteryStatusBooked, batteryID); err != nil {
		return nil, err
	}

	booking := &models.Booking{
		UserID:     userID,
		Station:    models.BookingStation{ID: stationID, Name: stationName},
		Battery:    models.BookingBattery{ID: batteryID, Price: price, CompanyName: companyName},
		BookedTime: bookedTime,
		ExpiryTime: expiryTime,
		IsPaid:     true,
	}

	const insertOrder = `
		INSERT INTO orders (user_id, station_id, battery_id, booked_time, expiry_time, is_paid, is_collected)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE)
		RETURNING id
	`
	if err := tx.QueryRowContext(ctx, insertOrder,
		userID, stationID, batteryID, bookedTime, expiryTime, booking.IsPaid,
	).Scan(&booking.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return booking, nil
}

const bookingColumns = `
	o.id, o.user_id, o.booked_time, o.expiry_time, o.is_paid, o.is_collected,
	s.id, s.name,
	b.id, b.price, b.company_name
`

// ListByUser returns the user's bookings, newest first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	const query = `
		SELECT ` + bookingColumns + `
		FROM orders o
		JOIN stations s ON s.id = o.station_id
		JOIN batteries b ON b.id = o.battery_id
		WHERE o.user_id = $1
		ORDER BY o.booked_time DESC
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]models.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *booking)
	}
	return bookings, rows.Err()
}

// GetByID fetches one booking owned by the given user.
func (r *BookingRepository) GetByID(ctx context.Context, id, userID int64) (*models.Booking, error) {
	const query = `
		SELECT ` + bookingColumns + `
		FROM orders o
		JOIN stations s ON s.id = o.station_id
		JOIN batteries b ON b.id = o.battery_id
		WHERE o.id = $1 AND o.user_id = $2
		LIMIT 1
	`
	rows, err := r.db.QueryContext(ctx, query, id, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrBookingNotFound
	}
	return scanBooking(rows)
}

// MarkCollected flips the collected flag and releases the battery back to
// the available pool at the station (the swapped-out unit takes its place).
func (r *BookingRepository) MarkCollected(ctx context.Context, id, userID int64) (*models.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	const update = `
		UPDATE orders SET is_collected = TRUE
		WHERE id = $1 AND user_id = $2 AND is_collected = FALSE
		RETURNING battery_id
	`
	var batteryID int64
	if err := tx.QueryRowContext(ctx, update, id, userID).Scan(&batteryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	const release = `UPDATE batteries SET status = $1 WHERE id = $2`
	if _, err := tx.ExecContext(ctx, release, models.BatteryStatusAvailable, batteryID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id, userID)
}

// CountPaidSince counts the user's paid bookings created at or after the cutoff.
func (r *BookingRepository) CountPaidSince(ctx context.Context, userID int64, cutoff time.Time) (int, error) {
	const query = `
		SELECT COUNT(*)
		FROM orders
		WHERE user_id = $1 AND is_paid = TRUE AND booked_time >= $2
	`
	var count int
	err := r.db.QueryRowContext(ctx, query, userID, cutoff).Scan(&count)
	return count, err
}

func scanBooking(rows *sql.Rows) (*models.Booking, error) {
	var b models.Booking
	if err := rows.Scan(
		&b.ID, &b.UserID, &b.BookedTime, &b.ExpiryTime, &b.IsPaid, &b.IsCollected,
		&b.Station.ID, &b.Station.Name,
		&b.Battery.ID, &b.Battery.Price, &b.Battery.CompanyName,
	); err != nil {
		return nil, err
	}
	return &b, nil
}
