package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gym_crm_backend/internal/models"
)

// ChangeRequestRepository stores cross-tenant change requests. Status updates
// carry a `WHERE status = 'pending'` guard so a request that already reached a
// terminal state can never transition again, even if two admins race.
type ChangeRequestRepository interface {
	CreateRequest(executor SQLExecutor, request *models.ChangeRequest) error
	GetRequestByID(id string) (*models.ChangeRequest, error)
	GetRequests(status *string, page, pageSize int) ([]models.ChangeRequest, int, error)
	GetRequestsByUser(fromUserID int64) ([]models.ChangeRequest, error)
	MarkApproved(executor SQLExecutor, id string, processedAt time.Time) error
	MarkRejected(executor SQLExecutor, id string, reason string, processedAt time.Time) error
	CountPendingByGym(gymID int64) (int, error)
}

type changeRequestRepository struct {
	db *sql.DB
}

// NewChangeRequestRepository creates a new instance of ChangeRequestRepository.
func NewChangeRequestRepository(db *sql.DB) ChangeRequestRepository {
	return &changeRequestRepository{db: db}
}

const requestColumns = `id, request_type, from_user_id, from_gym_id, from_gym_name,
	old_name, new_name, reason, status, rejection_reason, created_at, processed_at`

// CreateRequest inserts a new pending request. The ID is generated by the caller.
func (r *changeRequestRepository) CreateRequest(executor SQLExecutor, request *models.ChangeRequest) error {
	query := `INSERT INTO change_requests
	            (id, request_type, from_user_id, from_gym_id, from_gym_name, old_name, new_name, reason, status, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now()
	}
	_, err := executor.Exec(query,
		request.ID, request.RequestType, request.FromUserID, request.FromGymID, request.FromGymName,
		request.OldName, request.NewName, request.Reason, request.Status, request.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("%w: creating change request: %v", ErrDatabaseError, err)
	}
	return nil
}

func scanRequest(s interface{ Scan(...interface{}) error }, req *models.ChangeRequest) error {
	var processedAt sql.NullTime
	err := s.Scan(
		&req.ID, &req.RequestType, &req.FromUserID, &req.FromGymID, &req.FromGymName,
		&req.OldName, &req.NewName, &req.Reason, &req.Status, &req.RejectionReason,
		&req.CreatedAt, &processedAt,
	)
	if err != nil {
		return err
	}
	if processedAt.Valid {
		req.ProcessedAt = &processedAt.Time
	}
	return nil
}

// GetRequestByID retrieves a request by its ID.
func (r *changeRequestRepository) GetRequestByID(id string) (*models.ChangeRequest, error) {
	req := &models.ChangeRequest{}
	query := `SELECT ` + requestColumns + ` FROM change_requests WHERE id = $1`
	if err := scanRequest(r.db.QueryRow(query, id), req); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting change request %s: %v", ErrDatabaseError, id, err)
	}
	return req, nil
}

// GetRequests lists requests across all tenants (super-admin view), optionally
// filtered by status, newest first.
func (r *changeRequestRepository) GetRequests(status *string, page, pageSize int) ([]models.ChangeRequest, int, error) {
	requests := []models.ChangeRequest{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT ` + requestColumns + `, COUNT(*) OVER() as total_count FROM change_requests`)

	args := []interface{}{}
	argCount := 1
	if status != nil && *status != "" {
		queryBuilder.WriteString(fmt.Sprintf(" WHERE status = $%d", argCount))
		args = append(args, *status)
		argCount++
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")
	if pageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, pageSize)
		argCount++
		if page > 0 {
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, (page-1)*pageSize)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying change requests: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var req models.ChangeRequest
		var processedAt sql.NullTime
		if err := rows.Scan(
			&req.ID, &req.RequestType, &req.FromUserID, &req.FromGymID, &req.FromGymName,
			&req.OldName, &req.NewName, &req.Reason, &req.Status, &req.RejectionReason,
			&req.CreatedAt, &processedAt, &totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning change request: %v", ErrDatabaseError, err)
		}
		if processedAt.Valid {
			req.ProcessedAt = &processedAt.Time
		}
		requests = append(requests, req)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating change request rows: %v", ErrDatabaseError, err)
	}
	if len(requests) == 0 {
		totalCount = 0
	}
	return requests, totalCount, nil
}

// GetRequestsByUser lists a submitter's own requests across all statuses,
// newest first. Ordering happens in the query, not client-side.
func (r *changeRequestRepository) GetRequestsByUser(fromUserID int64) ([]models.ChangeRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM change_requests WHERE from_user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(query, fromUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying change requests for user %d: %v", ErrDatabaseError, fromUserID, err)
	}
	defer rows.Close()

	requests := []models.ChangeRequest{}
	for rows.Next() {
		var req models.ChangeRequest
		if err := scanRequest(rows, &req); err != nil {
			return nil, fmt.Errorf("%w: scanning change request: %v", ErrDatabaseError, err)
		}
		requests = append(requests, req)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating change request rows: %v", ErrDatabaseError, err)
	}
	return requests, nil
}

// MarkApproved flips a pending request to approved. Returns ErrNotFound when
// the request does not exist or is no longer pending.
func (r *changeRequestRepository) MarkApproved(executor SQLExecutor, id string, processedAt time.Time) error {
	query := `UPDATE change_requests SET status = $1, processed_at = $2 WHERE id = $3 AND status = $4`
	result, err := executor.Exec(query, models.RequestStatusApproved, processedAt, id, models.RequestStatusPending)
	if err != nil {
		return fmt.Errorf("%w: approving change request %s: %v", ErrDatabaseError, id, err)
	}
	return checkRequestRowsAffected(result, id)
}

// MarkRejected flips a pending request to rejected with a reason. Returns
// ErrNotFound when the request does not exist or is no longer pending.
func (r *changeRequestRepository) MarkRejected(executor SQLExecutor, id string, reason string, processedAt time.Time) error {
	query := `UPDATE change_requests SET status = $1, rejection_reason = $2, processed_at = $3 WHERE id = $4 AND status = $5`
	result, err := executor.Exec(query, models.RequestStatusRejected, reason, processedAt, id, models.RequestStatusPending)
	if err != nil {
		return fmt.Errorf("%w: rejecting change request %s: %v", ErrDatabaseError, id, err)
	}
	return checkRequestRowsAffected(result, id)
}

// CountPendingByGym counts a gym's unprocessed requests, for the dashboard.
func (r *changeRequestRepository) CountPendingByGym(gymID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM change_requests WHERE from_gym_id = $1 AND status = $2`
	if err := r.db.QueryRow(query, gymID, models.RequestStatusPending).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting pending requests for gym %d: %v", ErrDatabaseError, gymID, err)
	}
	return count, nil
}

func checkRequestRowsAffected(result sql.Result, id string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for change request %s: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
