package services

import (
	"testing"

	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthServiceFixture(t *testing.T) (AuthService, *MockUserRepository, *MockGymRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	userRepo := new(MockUserRepository)
	gymRepo := new(MockGymRepository)
	service := NewAuthService(userRepo, gymRepo, db)
	return service, userRepo, gymRepo, dbMock
}

func TestRegisterGym(t *testing.T) {
	service, userRepo, gymRepo, dbMock := newAuthServiceFixture(t)

	dbMock.ExpectBegin()
	dbMock.ExpectCommit()

	gymRepo.On("CreateGym", mock.Anything, mock.MatchedBy(func(g *models.Gym) bool {
		return g.Name == "Iron Temple"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Gym).ID = 10
	}).Return(int64(10), nil)

	// Optional profile fields are stored as pointers; empty strings become NULL.
	userRepo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "owner1" &&
			u.Role == models.RoleOwner &&
			u.GymID != nil && *u.GymID == 10 &&
			u.Email != nil && *u.Email == "owner@example.com" &&
			u.FullName != nil && *u.FullName == "Alex Owner" &&
			u.IsActive
	}), mock.AnythingOfType("string")).Return(int64(4), nil)

	session, err := service.RegisterGym(RegisterGymRequest{
		GymName:  "Iron Temple",
		Username: "owner1",
		Password: "long-enough-pass",
		Email:    "owner@example.com",
		FullName: "Alex Owner",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.NotEmpty(t, session.RefreshToken)
	assert.Equal(t, int64(4), session.User.ID)
	require.NotNil(t, session.User.Email)
	assert.Equal(t, "owner@example.com", *session.User.Email)
	userRepo.AssertExpectations(t)
	gymRepo.AssertExpectations(t)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestRegisterGym_DuplicateUsernameRollsBack(t *testing.T) {
	service, userRepo, gymRepo, dbMock := newAuthServiceFixture(t)

	dbMock.ExpectBegin()
	dbMock.ExpectRollback()

	gymRepo.On("CreateGym", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		args.Get(1).(*models.Gym).ID = 10
	}).Return(int64(10), nil)
	userRepo.On("CreateUser", mock.Anything, mock.Anything, mock.AnythingOfType("string")).
		Return(int64(0), repositories.ErrDuplicateKey)

	_, err := service.RegisterGym(RegisterGymRequest{
		GymName:  "Iron Temple",
		Username: "owner1",
		Password: "long-enough-pass",
		Email:    "owner@example.com",
		FullName: "Alex Owner",
	})
	assert.ErrorIs(t, err, ErrUsernameExists)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestCreateStaff(t *testing.T) {
	service, userRepo, gymRepo, _ := newAuthServiceFixture(t)

	gymRepo.On("GetGymByID", int64(10)).Return(&models.Gym{ID: 10, Name: "Iron Temple"}, nil)
	userRepo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
		return u.Username == "staff1" &&
			u.Role == models.RoleStaff &&
			u.GymID != nil && *u.GymID == 10 &&
			u.Email != nil && *u.Email == "staff@example.com" &&
			u.FullName != nil && *u.FullName == "Sam Staff"
	}), mock.AnythingOfType("string")).Return(int64(5), nil)

	user, err := service.CreateStaff(10, CreateStaffRequest{
		Username: "staff1",
		Password: "long-enough-pass",
		Email:    "staff@example.com",
		FullName: "Sam Staff",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), user.ID)
	assert.Equal(t, models.RoleStaff, user.Role)
	userRepo.AssertExpectations(t)
}

func TestCreateStaff_PasswordTooShort(t *testing.T) {
	service, userRepo, _, _ := newAuthServiceFixture(t)

	_, err := service.CreateStaff(10, CreateStaffRequest{
		Username: "staff1",
		Password: "short",
		Email:    "staff@example.com",
		FullName: "Sam Staff",
	})
	assert.ErrorIs(t, err, ErrValidation)
	userRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
}
