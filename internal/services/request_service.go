package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gym_crm_backend/internal/metrics"
	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/repositories"
	"gym_crm_backend/pkg/utils"

	"github.com/google/uuid"
)

// --- Service-specific Errors ---
var (
	ErrRequestNotFound         = errors.New("change request not found")
	ErrRequestAlreadyProcessed = errors.New("change request has already been processed")
	ErrRejectionReasonRequired = errors.New("a rejection reason is required")
)

// --- DTOs ---
type SubmitRenameRequest struct {
	NewName string  `json:"new_name" binding:"required"`
	Reason  *string `json:"reason"`
}

type RequestListResponse struct {
	Requests   []models.ChangeRequest `json:"requests"`
	TotalCount int                    `json:"total_count"`
	Page       int                    `json:"page"`
	PageSize   int                    `json:"page_size"`
}

// RequestService runs the gym rename approval workflow. Requests move
// pending -> approved or pending -> rejected, and a processed request never
// transitions again.
type RequestService interface {
	SubmitRenameRequest(userID int64, req SubmitRenameRequest) (*models.ChangeRequest, error)
	GetRequest(id string) (*models.ChangeRequest, error)
	GetRequests(status *string, page, pageSize int) (*RequestListResponse, error)
	GetMyRequests(userID int64) ([]models.ChangeRequest, error)
	ApproveRequest(id string) (*models.ChangeRequest, error)
	RejectRequest(id string, reason string) (*models.ChangeRequest, error)
}

type requestService struct {
	requestRepo repositories.ChangeRequestRepository
	gymRepo     repositories.GymRepository
	userRepo    repositories.UserRepository
	db          *sql.DB // For managing transactions
}

// NewRequestService creates a new instance of RequestService.
func NewRequestService(
	rr repositories.ChangeRequestRepository,
	gr repositories.GymRepository,
	ur repositories.UserRepository,
	db *sql.DB,
) RequestService {
	return &requestService{
		requestRepo: rr,
		gymRepo:     gr,
		userRepo:    ur,
		db:          db,
	}
}

// SubmitRenameRequest files a pending rename request on behalf of a gym owner.
// The current gym name is snapshotted into the request so reviewers see what
// the name was at submission time.
func (s *requestService) SubmitRenameRequest(userID int64, req SubmitRenameRequest) (*models.ChangeRequest, error) {
	if req.NewName == "" {
		return nil, fmt.Errorf("%w: new gym name cannot be empty", ErrValidation)
	}

	user, err := s.userRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load submitting user: %w", err)
	}
	if user.GymID == nil {
		return nil, fmt.Errorf("%w: user is not attached to a gym", ErrValidation)
	}

	gym, err := s.gymRepo.GetGymByID(*user.GymID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrGymNotFound
		}
		return nil, fmt.Errorf("failed to load gym: %w", err)
	}
	if req.NewName == gym.Name {
		return nil, fmt.Errorf("%w: new name matches the current gym name", ErrValidation)
	}

	request := &models.ChangeRequest{
		ID:          uuid.New().String(),
		RequestType: models.RequestTypeGymRename,
		FromUserID:  user.ID,
		FromGymID:   gym.ID,
		FromGymName: gym.Name,
		OldName:     gym.Name,
		NewName:     req.NewName,
		Reason:      req.Reason,
		Status:      models.RequestStatusPending,
		CreatedAt:   time.Now(),
	}
	if err := s.requestRepo.CreateRequest(s.db, request); err != nil {
		return nil, fmt.Errorf("failed to create change request: %w", err)
	}

	metrics.RecordRequestSubmitted(request.RequestType)
	return request, nil
}

func (s *requestService) GetRequest(id string) (*models.ChangeRequest, error) {
	request, err := s.requestRepo.GetRequestByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get change request: %w", err)
	}
	return request, nil
}

// GetRequests is the super-admin review queue, optionally filtered by status.
func (s *requestService) GetRequests(status *string, page, pageSize int) (*RequestListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	requests, totalCount, err := s.requestRepo.GetRequests(status, page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list change requests: %w", err)
	}
	return &RequestListResponse{
		Requests:   requests,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// GetMyRequests lists the submitter's own requests, newest first.
func (s *requestService) GetMyRequests(userID int64) ([]models.ChangeRequest, error) {
	requests, err := s.requestRepo.GetRequestsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user change requests: %w", err)
	}
	return requests, nil
}

// ApproveRequest renames the gym and flips the request to approved in a single
// transaction; either both writes land or neither does. The denormalized
// gym_name on user accounts is refreshed after commit as a best-effort cache
// update: if it fails the rename still stands, and the stale cache is logged
// rather than surfaced to the caller.
func (s *requestService) ApproveRequest(id string) (*models.ChangeRequest, error) {
	request, err := s.getPendingRequest(id)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	processedAt := time.Now()
	if err := s.gymRepo.UpdateGymName(tx, request.FromGymID, request.NewName); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrGymNotFound
		}
		return nil, fmt.Errorf("failed to rename gym: %w", err)
	}
	if err := s.requestRepo.MarkApproved(tx, request.ID, processedAt); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// Lost a race with another reviewer.
			return nil, ErrRequestAlreadyProcessed
		}
		return nil, fmt.Errorf("failed to mark request approved: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit approval: %w", err)
	}

	if err := s.userRepo.UpdateCachedGymName(s.db, request.FromGymID, request.NewName); err != nil {
		utils.LogError(err, fmt.Sprintf("cached gym name refresh failed for gym %d after approving request %s", request.FromGymID, request.ID))
	}

	metrics.RecordRequestProcessed(request.RequestType, models.RequestStatusApproved)
	return s.GetRequest(request.ID)
}

// RejectRequest flips a pending request to rejected. A reason is mandatory.
func (s *requestService) RejectRequest(id string, reason string) (*models.ChangeRequest, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: %s", ErrValidation, ErrRejectionReasonRequired)
	}

	request, err := s.getPendingRequest(id)
	if err != nil {
		return nil, err
	}

	if err := s.requestRepo.MarkRejected(s.db, request.ID, reason, time.Now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrRequestAlreadyProcessed
		}
		return nil, fmt.Errorf("failed to mark request rejected: %w", err)
	}

	metrics.RecordRequestProcessed(request.RequestType, models.RequestStatusRejected)
	return s.GetRequest(request.ID)
}

func (s *requestService) getPendingRequest(id string) (*models.ChangeRequest, error) {
	request, err := s.GetRequest(id)
	if err != nil {
		return nil, err
	}
	if request.Status != models.RequestStatusPending {
		return nil, ErrRequestAlreadyProcessed
	}
	return request, nil
}
