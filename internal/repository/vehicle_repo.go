package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aklilumengesha/Battery-Swap/internal/models"
)

// VehicleRepository reads the supported vehicle catalogue.
type VehicleRepository struct {
	db *sql.DB
}

// NewVehicleRepository returns a repository instance.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

// List returns all vehicles ordered by name.
func (r *VehicleRepository) List(ctx context.Context) ([]models.Vehicle, error) {
	const query = `SELECT id, name FROM vehicles ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := make([]models.Vehicle, 0)
	for rows.Next() {
		var v models.Vehicle
		if err := rows.Scan(&v.ID, &v.Name); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

// GetByID fetches one vehicle.
func (r *VehicleRepository) GetByID(ctx context.Context, id int64) (*models.Vehicle, error) {
	const query = `SELECT id, name FROM vehicles WHERE id = $1 LIMIT 1`
	var v models.Vehicle
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return &v, nil
}
