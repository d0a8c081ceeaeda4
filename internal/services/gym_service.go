package services

import (
	"errors"
	"fmt"

	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/repositories"
)

type GymListResponse struct {
	Gyms       []models.Gym `json:"gyms"`
	TotalCount int          `json:"total_count"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
}

// GymService is the super-admin view over tenants. Gym renames go through the
// request approval workflow, never through a direct update here.
type GymService interface {
	GetGym(id int64) (*models.Gym, error)
	GetGyms(page, pageSize int) (*GymListResponse, error)
}

type gymService struct {
	gymRepo repositories.GymRepository
}

// NewGymService creates a new instance of GymService.
func NewGymService(gr repositories.GymRepository) GymService {
	return &gymService{gymRepo: gr}
}

func (s *gymService) GetGym(id int64) (*models.Gym, error) {
	gym, err := s.gymRepo.GetGymByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrGymNotFound
		}
		return nil, fmt.Errorf("failed to get gym: %w", err)
	}
	return gym, nil
}

func (s *gymService) GetGyms(page, pageSize int) (*GymListResponse, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	gyms, totalCount, err := s.gymRepo.GetGyms(page, pageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list gyms: %w", err)
	}
	return &GymListResponse{
		Gyms:       gyms,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}
