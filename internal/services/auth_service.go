package services

import (
	"database/sql"
	"errors"
	"fmt"

	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/repositories"
	"gym_crm_backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// --- Service-specific Errors ---
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrGymNotFound        = errors.New("gym not found")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameExists     = errors.New("username already taken")
	ErrUserInactive       = errors.New("user account is inactive")
)

const minPasswordLength = 8

// --- DTOs ---
type RegisterGymRequest struct {
	GymName    string  `json:"gym_name" binding:"required"`
	GymAddress *string `json:"gym_address"`
	GymPhone   *string `json:"gym_phone"`
	Username   string  `json:"username" binding:"required"`
	Password   string  `json:"password" binding:"required"`
	Email      string  `json:"email" binding:"required,email"`
	FullName   string  `json:"full_name" binding:"required"`
}

type CreateStaffRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

// AuthService manages accounts and sessions. Registration creates a gym and
// its owner account together; staff accounts are created by the owner inside
// their own gym.
type AuthService interface {
	RegisterGym(req RegisterGymRequest) (*LoginResponse, error)
	CreateStaff(ownerGymID int64, req CreateStaffRequest) (*models.User, error)
	Login(req LoginRequest) (*LoginResponse, error)
	RefreshToken(refreshTokenString string) (*LoginResponse, error)
	GetUserProfile(userID int64) (*models.User, error)
}

type authService struct {
	userRepo repositories.UserRepository
	gymRepo  repositories.GymRepository
	db       *sql.DB // For managing transactions
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(ur repositories.UserRepository, gr repositories.GymRepository, db *sql.DB) AuthService {
	return &authService{
		userRepo: ur,
		gymRepo:  gr,
		db:       db,
	}
}

// RegisterGym provisions a new tenant: the gym record and its owner account
// are created in one transaction, so a gym never exists without an owner.
func (s *authService) RegisterGym(req RegisterGymRequest) (*LoginResponse, error) {
	if utils.IsEmpty(req.GymName) {
		return nil, fmt.Errorf("%w: gym name cannot be empty", ErrValidation)
	}
	if err := validateAccountFields(req.Username, req.Password, req.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	gym := &models.Gym{
		Name:    req.GymName,
		Address: req.GymAddress,
		Phone:   req.GymPhone,
	}
	if _, err := s.gymRepo.CreateGym(tx, gym); err != nil {
		return nil, fmt.Errorf("failed to create gym: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    utils.NewNullString(req.Email),
		FullName: utils.NewNullString(req.FullName),
		Role:     models.RoleOwner,
		GymID:    &gym.ID,
		GymName:  &gym.Name,
		IsActive: true,
	}
	userID, err := s.userRepo.CreateUser(tx, user, string(hashedPassword))
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to create owner account: %w", err)
	}
	user.ID = userID

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit registration: %w", err)
	}

	return s.buildSession(user)
}

// CreateStaff adds a staff account scoped to the owner's gym.
func (s *authService) CreateStaff(ownerGymID int64, req CreateStaffRequest) (*models.User, error) {
	if err := validateAccountFields(req.Username, req.Password, req.Email); err != nil {
		return nil, err
	}

	gym, err := s.gymRepo.GetGymByID(ownerGymID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrGymNotFound
		}
		return nil, fmt.Errorf("failed to load gym: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: req.Username,
		Email:    utils.NewNullString(req.Email),
		FullName: utils.NewNullString(req.FullName),
		Role:     models.RoleStaff,
		GymID:    &gym.ID,
		GymName:  &gym.Name,
		IsActive: true,
	}
	userID, err := s.userRepo.CreateUser(s.db, user, string(hashedPassword))
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to create staff account: %w", err)
	}
	user.ID = userID
	return user, nil
}

// Login verifies credentials and issues a token pair.
func (s *authService) Login(req LoginRequest) (*LoginResponse, error) {
	user, hashedPassword, err := s.userRepo.FindUserByUsername(req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return s.buildSession(user)
}

// RefreshToken validates a refresh token and issues a fresh token pair. The
// user is reloaded so revoked or deactivated accounts stop refreshing.
func (s *authService) RefreshToken(refreshTokenString string) (*LoginResponse, error) {
	claims, err := utils.ValidateToken(refreshTokenString)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredentials, err)
	}

	user, err := s.userRepo.FindUserByID(claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}
	return s.buildSession(user)
}

func (s *authService) GetUserProfile(userID int64) (*models.User, error) {
	user, err := s.userRepo.FindUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *authService) buildSession(user *models.User) (*LoginResponse, error) {
	accessToken, err := utils.GenerateAccessToken(user.ID, user.Username, user.Role, user.GymID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refreshToken, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func validateAccountFields(username, password, email string) error {
	if utils.IsEmpty(username) {
		return fmt.Errorf("%w: username cannot be empty", ErrValidation)
	}
	if !utils.IsValidPasswordLength(password, minPasswordLength) {
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLength)
	}
	if !utils.IsValidEmail(email) {
		return fmt.Errorf("%w: invalid email address", ErrValidation)
	}
	return nil
}
