package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/aklilumengesha/Battery-Swap/internal/models"
)

// Sentinel errors for missing rows.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrConsumerNotFound = errors.New("consumer profile not found")
	ErrVehicleNotFound  = errors.New("vehicle not found")
)

// UserRepository handles the users and consumers tables.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository returns a repository instance.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user and, for consumers, the vehicle link.
func (r *UserRepository) Create(ctx context.Context, user *models.User, vehicleID int64) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insertUser = `
		INSERT INTO users (name, email, phone, password_hash, user_type)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	if err := tx.QueryRowContext(ctx, insertUser,
		user.Name, user.Email, user.Phone, user.PasswordHash, user.UserType,
	).Scan(&user.ID, &user.CreatedAt); err != nil {
		return err
	}

	if user.UserType == models.UserTypeConsumer {
		const insertConsumer = `INSERT INTO consumers (user_id, vehicle_id) VALUES ($1, $2)`
		if _, err := tx.ExecContext(ctx, insertConsumer, user.ID, vehicleID); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	const query = `
		SELECT id, name, email, phone, password_hash, user_type, created_at
		FROM users
		WHERE email = $1
		LIMIT 1
	`
	row := r.db.QueryRowContext(ctx, query, strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row)
}

// GetByID fetches a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	const query = `
		SELECT id, name, email, phone, password_hash, user_type, created_at
		FROM users
		WHERE id = $1
		LIMIT 1
	`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var phone sql.NullString
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &phone, &user.PasswordHash, &user.UserType, &user.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	user.Phone = phone.String
	return &user, nil
}

// GetConsumerProfile joins the consumer row with its vehicle.
func (r *UserRepository) GetConsumerProfile(ctx context.Context, userID int64) (*models.ConsumerProfile, error) {
	const query = `
		SELECT u.id, u.name, COALESCE(u.phone, ''), v.id, v.name
		FROM consumers c
		JOIN users u ON u.id = c.user_id
		JOIN vehicles v ON v.id = c.vehicle_id
		WHERE c.user_id = $1
		LIMIT 1
	`
	var profile models.ConsumerProfile
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&profile.UserID, &profile.Name, &profile.Phone,
		&profile.Vehicle.ID, &profile.Vehicle.Name,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrConsumerNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// UpdateConsumerProfile writes the editable profile fields.
func (r *UserRepository) UpdateConsumerProfile(ctx context.Context, userID int64, name, phone string, vehicleID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE users SET name = $1, phone = $2 WHERE id = $3`, name, phone, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrConsumerNotFound
	}

	res, err = tx.ExecContext(ctx, `UPDATE consumers SET vehicle_id = $1 WHERE user_id = $2`, vehicleID, userID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return ErrVehicleNotFound
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrConsumerNotFound
	}

	return tx.Commit()
}

// DeleteConsumer removes the consumer row and the owning user.
func (r *UserRepository) DeleteConsumer(ctx context.Context, userID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM consumers WHERE user_id = $1`, userID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrConsumerNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID); err != nil {
		return err
	}

	return tx.Commit()
}

// GetConsumerVehicleID returns the vehicle registered for a consumer.
func (r *UserRepository) GetConsumerVehicleID(ctx context.Context, userID int64) (int64, error) {
	const query = `SELECT vehicle_id FROM consumers WHERE user_id = $1 LIMIT 1`
	var vehicleID int64
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&vehicleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrConsumerNotFound
		}
		return 0, err
	}
	return vehicleID, nil
}

func isForeignKeyViolation(err error) bool {
	// pgx surfaces SQLSTATE 23503 in the error text via the stdlib driver.
	return err != nil && strings.Contains(err.Error(), "23503")
}
