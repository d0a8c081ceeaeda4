package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gym_crm_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// PlanRepository defines the interface for plan-related database operations.
type PlanRepository interface {
	CreatePlan(executor SQLExecutor, plan *models.Plan) (int64, error)
	GetPlanByID(id int64) (*models.Plan, error)
	GetPlansByGym(gymID int64) ([]models.Plan, error)
	UpdatePlan(executor SQLExecutor, plan *models.Plan) error
	DeletePlan(executor SQLExecutor, id int64) error
}

type planRepository struct {
	db *sql.DB
}

// NewPlanRepository creates a new instance of PlanRepository.
func NewPlanRepository(db *sql.DB) PlanRepository {
	return &planRepository{db: db}
}

// CreatePlan inserts a new plan.
func (r *planRepository) CreatePlan(executor SQLExecutor, plan *models.Plan) (int64, error) {
	query := `INSERT INTO plans (gym_id, name, price, duration_days, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          RETURNING id`

	currentTime := time.Now()
	plan.CreatedAt = currentTime
	plan.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		plan.GymID, plan.Name, plan.Price, plan.DurationDays, plan.CreatedAt, plan.UpdatedAt,
	).Scan(&plan.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating plan: %v", ErrDatabaseError, err)
	}
	return plan.ID, nil
}

// GetPlanByID retrieves a plan by its ID.
func (r *planRepository) GetPlanByID(id int64) (*models.Plan, error) {
	plan := &models.Plan{}
	query := `SELECT id, gym_id, name, price, duration_days, created_at, updated_at
	          FROM plans WHERE id = $1`
	err := r.db.QueryRow(query, id).Scan(
		&plan.ID, &plan.GymID, &plan.Name, &plan.Price, &plan.DurationDays,
		&plan.CreatedAt, &plan.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting plan by ID %d: %v", ErrDatabaseError, id, err)
	}
	return plan, nil
}

// GetPlansByGym lists a gym's plans ordered by price.
func (r *planRepository) GetPlansByGym(gymID int64) ([]models.Plan, error) {
	query := `SELECT id, gym_id, name, price, duration_days, created_at, updated_at
	          FROM plans WHERE gym_id = $1 ORDER BY price ASC`
	rows, err := r.db.Query(query, gymID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying plans for gym %d: %v", ErrDatabaseError, gymID, err)
	}
	defer rows.Close()

	plans := []models.Plan{}
	for rows.Next() {
		var plan models.Plan
		if err := rows.Scan(&plan.ID, &plan.GymID, &plan.Name, &plan.Price, &plan.DurationDays,
			&plan.CreatedAt, &plan.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning plan: %v", ErrDatabaseError, err)
		}
		plans = append(plans, plan)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating plan rows: %v", ErrDatabaseError, err)
	}
	return plans, nil
}

// UpdatePlan updates a plan's fields. Existing subscription snapshots keep the
// price/duration that was current when they were created.
func (r *planRepository) UpdatePlan(executor SQLExecutor, plan *models.Plan) error {
	query := `UPDATE plans SET name = $1, price = $2, duration_days = $3, updated_at = $4 WHERE id = $5`
	plan.UpdatedAt = time.Now()
	result, err := executor.Exec(query, plan.Name, plan.Price, plan.DurationDays, plan.UpdatedAt, plan.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return fmt.Errorf("%w: updating plan ID %d: %v", ErrDatabaseError, plan.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for updating plan ID %d: %v", ErrDatabaseError, plan.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePlan removes a plan. Fails with a foreign key violation when any
// subscription snapshot references it.
func (r *planRepository) DeletePlan(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM plans WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // foreign_key_violation
			return fmt.Errorf("%w: plan ID %d is referenced by subscriptions (constraint: %s)", ErrDatabaseError, id, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting plan ID %d: %v", ErrDatabaseError, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting plan ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
