package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gym_crm_backend/internal/models"
)

// GymRepository defines the interface for gym (tenant) database operations.
type GymRepository interface {
	CreateGym(executor SQLExecutor, gym *models.Gym) (int64, error)
	GetGymByID(id int64) (*models.Gym, error)
	GetGyms(page, pageSize int) ([]models.Gym, int, error)
	UpdateGymName(executor SQLExecutor, id int64, name string) error
}

type gymRepository struct {
	db *sql.DB
}

// NewGymRepository creates a new instance of GymRepository.
func NewGymRepository(db *sql.DB) GymRepository {
	return &gymRepository{db: db}
}

// CreateGym inserts a new gym.
func (r *gymRepository) CreateGym(executor SQLExecutor, gym *models.Gym) (int64, error) {
	query := `INSERT INTO gyms (name, address, phone, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`

	currentTime := time.Now()
	gym.CreatedAt = currentTime
	gym.UpdatedAt = currentTime

	err := executor.QueryRow(query, gym.Name, gym.Address, gym.Phone, gym.CreatedAt, gym.UpdatedAt).Scan(&gym.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating gym: %v", ErrDatabaseError, err)
	}
	return gym.ID, nil
}

// GetGymByID retrieves a gym by its ID.
func (r *gymRepository) GetGymByID(id int64) (*models.Gym, error) {
	gym := &models.Gym{}
	query := `SELECT id, name, address, phone, created_at, updated_at FROM gyms WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&gym.ID, &gym.Name, &gym.Address, &gym.Phone, &gym.CreatedAt, &gym.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting gym by ID %d: %v", ErrDatabaseError, id, err)
	}
	return gym, nil
}

// GetGyms lists gyms with pagination, for the super admin.
func (r *gymRepository) GetGyms(page, pageSize int) ([]models.Gym, int, error) {
	gyms := []models.Gym{}
	totalCount := 0

	query := `SELECT id, name, address, phone, created_at, updated_at, COUNT(*) OVER() as total_count
	          FROM gyms ORDER BY name ASC LIMIT $1 OFFSET $2`
	offset := 0
	if page > 0 && pageSize > 0 {
		offset = (page - 1) * pageSize
	}
	rows, err := r.db.Query(query, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying gyms: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var gym models.Gym
		if err := rows.Scan(&gym.ID, &gym.Name, &gym.Address, &gym.Phone,
			&gym.CreatedAt, &gym.UpdatedAt, &totalCount); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning gym: %v", ErrDatabaseError, err)
		}
		gyms = append(gyms, gym)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating gym rows: %v", ErrDatabaseError, err)
	}
	if len(gyms) == 0 {
		totalCount = 0
	}
	return gyms, totalCount, nil
}

// UpdateGymName writes the authoritative gym name. This is the critical write
// of the rename approval flow; it always runs inside the approval transaction.
func (r *gymRepository) UpdateGymName(executor SQLExecutor, id int64, name string) error {
	result, err := executor.Exec(`UPDATE gyms SET name = $1, updated_at = $2 WHERE id = $3`, name, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: renaming gym ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for renaming gym ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
