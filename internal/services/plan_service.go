package services

import (
	"database/sql"
	"errors"
	"fmt"

	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/repositories"
)

// --- Service-specific Errors ---
var (
	ErrPlanNameExists = errors.New("a plan with this name already exists for this gym")
	ErrPlanInUse      = errors.New("plan is referenced by existing subscriptions")
)

// --- DTOs ---
type CreatePlanRequest struct {
	Name         string  `json:"name" binding:"required"`
	Price        float64 `json:"price" binding:"required"`
	DurationDays int     `json:"duration_days" binding:"required"`
}

type UpdatePlanRequest struct {
	Name         *string  `json:"name"`
	Price        *float64 `json:"price"`
	DurationDays *int     `json:"duration_days"`
}

// PlanService manages a gym's membership plans. Plan edits never rewrite
// existing subscription snapshots; members keep the terms they signed up under.
type PlanService interface {
	CreatePlan(gymID int64, req CreatePlanRequest) (*models.Plan, error)
	GetPlan(gymID, planID int64) (*models.Plan, error)
	GetPlans(gymID int64) ([]models.Plan, error)
	UpdatePlan(gymID, planID int64, req UpdatePlanRequest) (*models.Plan, error)
	DeletePlan(gymID, planID int64) error
}

type planService struct {
	planRepo repositories.PlanRepository
	db       *sql.DB
}

// NewPlanService creates a new instance of PlanService.
func NewPlanService(pr repositories.PlanRepository, db *sql.DB) PlanService {
	return &planService{planRepo: pr, db: db}
}

func (s *planService) CreatePlan(gymID int64, req CreatePlanRequest) (*models.Plan, error) {
	if err := validatePlanFields(req.Name, req.Price, req.DurationDays); err != nil {
		return nil, err
	}

	plan := &models.Plan{
		GymID:        gymID,
		Name:         req.Name,
		Price:        req.Price,
		DurationDays: req.DurationDays,
	}
	if _, err := s.planRepo.CreatePlan(s.db, plan); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrPlanNameExists
		}
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}
	return plan, nil
}

func (s *planService) GetPlan(gymID, planID int64) (*models.Plan, error) {
	return s.getScopedPlan(gymID, planID)
}

func (s *planService) GetPlans(gymID int64) ([]models.Plan, error) {
	plans, err := s.planRepo.GetPlansByGym(gymID)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	return plans, nil
}

func (s *planService) UpdatePlan(gymID, planID int64, req UpdatePlanRequest) (*models.Plan, error) {
	plan, err := s.getScopedPlan(gymID, planID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		plan.Name = *req.Name
	}
	if req.Price != nil {
		plan.Price = *req.Price
	}
	if req.DurationDays != nil {
		plan.DurationDays = *req.DurationDays
	}
	if err := validatePlanFields(plan.Name, plan.Price, plan.DurationDays); err != nil {
		return nil, err
	}

	if err := s.planRepo.UpdatePlan(s.db, plan); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrPlanNameExists
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to update plan: %w", err)
	}
	return plan, nil
}

func (s *planService) DeletePlan(gymID, planID int64) error {
	if _, err := s.getScopedPlan(gymID, planID); err != nil {
		return err
	}
	if err := s.planRepo.DeletePlan(s.db, planID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrPlanNotFound
		}
		if errors.Is(err, repositories.ErrDatabaseError) {
			// FK violations from subscription snapshots surface here.
			return fmt.Errorf("%w: %v", ErrPlanInUse, err)
		}
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return nil
}

// getScopedPlan hides plans belonging to other gyms behind ErrPlanNotFound.
func (s *planService) getScopedPlan(gymID, planID int64) (*models.Plan, error) {
	plan, err := s.planRepo.GetPlanByID(planID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to get plan by ID: %w", err)
	}
	if plan.GymID != gymID {
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

func validatePlanFields(name string, price float64, durationDays int) error {
	if name == "" {
		return fmt.Errorf("%w: plan name cannot be empty", ErrValidation)
	}
	if price < 0 {
		return fmt.Errorf("%w: plan price cannot be negative", ErrValidation)
	}
	if durationDays <= 0 {
		return fmt.Errorf("%w: plan duration must be at least one day", ErrValidation)
	}
	return nil
}
