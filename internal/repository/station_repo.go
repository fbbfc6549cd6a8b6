package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aklilumengesha/Battery-Swap/internal/models"
)

// ErrStationNotFound represents missing station rows.
var ErrStationNotFound = errors.New("station not found")

// StationRepository reads stations and their battery stock.
type StationRepository struct {
	db *sql.DB
}

// NewStationRepository returns a repository instance.
func NewStationRepository(db *sql.DB) *StationRepository {
	return &StationRepository{db: db}
}

// ListWithAvailable returns every station that currently stocks at least one
// available battery compatible with the given vehicle, batteries included.
func (r *StationRepository) ListWithAvailable(ctx context.Context, vehicleID int64) ([]models.Station, error) {
	const query = `
		SELECT s.id, s.name, s.address, s.latitude, s.longitude,
		       b.id, b.price, b.company_name, b.vehicle_id, v.name, b.status
		FROM stations s
		JOIN batteries b ON b.station_id = s.id
		JOIN vehicles v ON v.id = b.vehicle_id
		WHERE b.status = $1 AND b.vehicle_id = $2
		ORDER BY s.id, b.price
	`
	rows, err := r.db.QueryContext(ctx, query, models.BatteryStatusAvailable, vehicleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectStations(rows)
}

// GetByID fetches one station with its available batteries.
func (r *StationRepository) GetByID(ctx context.Context, id int64) (*models.Station, error) {
	const query = `
		SELECT s.id, s.name, s.address, s.latitude, s.longitude,
		       b.id, b.price, b.company_name, b.vehicle_id, v.name, b.status
		FROM stations s
		LEFT JOIN batteries b ON b.station_id = s.id AND b.status = $2
		LEFT JOIN vehicles v ON v.id = b.vehicle_id
		WHERE s.id = $1
		ORDER BY b.price
	`
	rows, err := r.db.QueryContext(ctx, query, id, models.BatteryStatusAvailable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stations, err := collectStationsNullable(rows)
	if err != nil {
		return nil, err
	}
	if len(stations) == 0 {
		return nil, ErrStationNotFound
	}
	return &stations[0], nil
}

// CountBatteries returns available and booked counts for a station.
func (r *StationRepository) CountBatteries(ctx context.Context, stationID int64) (available, booked int, err error) {
	const query = `
		SELECT
			COUNT(*) FILTER (WHERE status = $2),
			COUNT(*) FILTER (WHERE status = $3)
		FROM batteries
		WHERE station_id = $1
	`
	err = r.db.QueryRowContext(ctx, query, stationID,
		models.BatteryStatusAvailable, models.BatteryStatusBooked,
	).Scan(&available, &booked)
	return available, booked, err
}

func collectStations(rows *sql.Rows) ([]models.Station, error) {
	stations := make([]models.Station, 0)
	index := make(map[int64]int)

	for rows.Next() {
		var s models.Station
		var b models.Battery
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Address, &s.Latitude, &s.Longitude,
			&b.ID, &b.Price, &b.CompanyName, &b.VehicleID, &b.VehicleName, &b.Status,
		); err != nil {
			return nil, err
		}

		pos, ok := index[s.ID]
		if !ok {
			s.Batteries = []models.Battery{}
			stations = append(stations, s)
			pos = len(stations) - 1
			index[s.ID] = pos
		}
		stations[pos].Batteries = append(stations[pos].Batteries, b)
	}
	return stations, rows.Err()
}

func collectStationsNullable(rows *sql.Rows) ([]models.Station, error) {
	stations := make([]models.Station, 0)
	index := make(map[int64]int)

	for rows.Next() {
		var s models.Station
		var batteryID, vehicleID sql.NullInt64
		var price sql.NullFloat64
		var companyName, vehicleName, status sql.NullString
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Address, &s.Latitude, &s.Longitude,
			&batteryID, &price, &companyName, &vehicleID, &vehicleName, &status,
		); err != nil {
			return nil, err
		}

		pos, ok := index[s.ID]
		if !ok {
			s.Batteries = []models.Battery{}
			stations = append(stations, s)
			pos = len(stations) - 1
			index[s.ID] = pos
		}
		if batteryID.Valid {
			stations[pos].Batteries = append(stations[pos].Batteries, models.Battery{
				ID:          batteryID.Int64,
				Price:       price.Float64,
				CompanyName: companyName.String,
				VehicleID:   vehicleID.Int64,
				VehicleName: vehicleName.String,
				Status:      status.String,
			})
		}
	}
	return stations, rows.Err()
}
