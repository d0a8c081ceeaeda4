package services

import (
	"errors"
	"testing"
	"time"

	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newRequestServiceFixture(t *testing.T) (RequestService, *MockChangeRequestRepository, *MockGymRepository, *MockUserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	requestRepo := new(MockChangeRequestRepository)
	gymRepo := new(MockGymRepository)
	userRepo := new(MockUserRepository)
	service := NewRequestService(requestRepo, gymRepo, userRepo, db)
	return service, requestRepo, gymRepo, userRepo, dbMock
}

func pendingRequest(id string) *models.ChangeRequest {
	return &models.ChangeRequest{
		ID:          id,
		RequestType: models.RequestTypeGymRename,
		FromUserID:  4,
		FromGymID:   10,
		FromGymName: "Iron Temple",
		OldName:     "Iron Temple",
		NewName:     "Iron Palace",
		Status:      models.RequestStatusPending,
		CreatedAt:   time.Now().Add(-time.Hour),
	}
}

func TestSubmitRenameRequest(t *testing.T) {
	service, requestRepo, gymRepo, userRepo, _ := newRequestServiceFixture(t)

	gymID := int64(10)
	userRepo.On("FindUserByID", int64(4)).Return(&models.User{ID: 4, Role: models.RoleOwner, GymID: &gymID}, nil)
	gymRepo.On("GetGymByID", gymID).Return(&models.Gym{ID: gymID, Name: "Iron Temple"}, nil)
	requestRepo.On("CreateRequest", mock.Anything, mock.MatchedBy(func(r *models.ChangeRequest) bool {
		return r.ID != "" && r.Status == models.RequestStatusPending &&
			r.OldName == "Iron Temple" && r.NewName == "Iron Palace" && r.FromGymID == gymID
	})).Return(nil)

	request, err := service.SubmitRenameRequest(4, SubmitRenameRequest{NewName: "Iron Palace"})
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, request.Status)
	assert.Equal(t, "Iron Temple", request.FromGymName)
	requestRepo.AssertExpectations(t)
}

func TestSubmitRenameRequest_SameNameRejected(t *testing.T) {
	service, _, gymRepo, userRepo, _ := newRequestServiceFixture(t)

	gymID := int64(10)
	userRepo.On("FindUserByID", int64(4)).Return(&models.User{ID: 4, GymID: &gymID}, nil)
	gymRepo.On("GetGymByID", gymID).Return(&models.Gym{ID: gymID, Name: "Iron Temple"}, nil)

	_, err := service.SubmitRenameRequest(4, SubmitRenameRequest{NewName: "Iron Temple"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestApproveRequest(t *testing.T) {
	service, requestRepo, gymRepo, userRepo, dbMock := newRequestServiceFixture(t)

	req := pendingRequest("req-1")
	approved := *req
	approved.Status = models.RequestStatusApproved
	requestRepo.On("GetRequestByID", "req-1").Return(req, nil).Once()

	dbMock.ExpectBegin()
	gymRepo.On("UpdateGymName", mock.Anything, int64(10), "Iron Palace").Return(nil)
	requestRepo.On("MarkApproved", mock.Anything, "req-1", mock.Anything).Return(nil)
	dbMock.ExpectCommit()

	userRepo.On("UpdateCachedGymName", mock.Anything, int64(10), "Iron Palace").Return(nil)
	requestRepo.On("GetRequestByID", "req-1").Return(&approved, nil)

	result, err := service.ApproveRequest("req-1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, result.Status)
	assert.NoError(t, dbMock.ExpectationsWereMet())
	gymRepo.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}

func TestApproveRequest_CacheFailureDoesNotFailApproval(t *testing.T) {
	service, requestRepo, gymRepo, userRepo, dbMock := newRequestServiceFixture(t)

	req := pendingRequest("req-1")
	approved := *req
	approved.Status = models.RequestStatusApproved
	requestRepo.On("GetRequestByID", "req-1").Return(req, nil).Once()

	dbMock.ExpectBegin()
	gymRepo.On("UpdateGymName", mock.Anything, int64(10), "Iron Palace").Return(nil)
	requestRepo.On("MarkApproved", mock.Anything, "req-1", mock.Anything).Return(nil)
	dbMock.ExpectCommit()

	// The denormalized user cache update is best-effort: its failure is logged
	// and swallowed, never surfaced.
	userRepo.On("UpdateCachedGymName", mock.Anything, int64(10), "Iron Palace").Return(errors.New("connection reset"))
	requestRepo.On("GetRequestByID", "req-1").Return(&approved, nil)

	result, err := service.ApproveRequest("req-1")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusApproved, result.Status)
}

func TestApproveRequest_AlreadyProcessed(t *testing.T) {
	service, requestRepo, _, _, _ := newRequestServiceFixture(t)

	req := pendingRequest("req-1")
	req.Status = models.RequestStatusRejected
	requestRepo.On("GetRequestByID", "req-1").Return(req, nil)

	_, err := service.ApproveRequest("req-1")
	assert.ErrorIs(t, err, ErrRequestAlreadyProcessed)
}

func TestApproveRequest_LosesRaceToAnotherReviewer(t *testing.T) {
	service, requestRepo, gymRepo, _, dbMock := newRequestServiceFixture(t)

	req := pendingRequest("req-1")
	requestRepo.On("GetRequestByID", "req-1").Return(req, nil)

	dbMock.ExpectBegin()
	gymRepo.On("UpdateGymName", mock.Anything, int64(10), "Iron Palace").Return(nil)
	// The pending-status guard in the repository reports no rows updated.
	requestRepo.On("MarkApproved", mock.Anything, "req-1", mock.Anything).Return(repositories.ErrNotFound)
	dbMock.ExpectRollback()

	_, err := service.ApproveRequest("req-1")
	assert.ErrorIs(t, err, ErrRequestAlreadyProcessed)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestRejectRequest(t *testing.T) {
	service, requestRepo, _, _, _ := newRequestServiceFixture(t)

	req := pendingRequest("req-1")
	rejected := *req
	rejected.Status = models.RequestStatusRejected
	requestRepo.On("GetRequestByID", "req-1").Return(req, nil).Once()
	requestRepo.On("MarkRejected", mock.Anything, "req-1", "duplicate name", mock.Anything).Return(nil)
	requestRepo.On("GetRequestByID", "req-1").Return(&rejected, nil)

	result, err := service.RejectRequest("req-1", "duplicate name")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusRejected, result.Status)
}

func TestRejectRequest_ReasonRequired(t *testing.T) {
	service, requestRepo, _, _, _ := newRequestServiceFixture(t)

	_, err := service.RejectRequest("req-1", "")
	assert.ErrorIs(t, err, ErrValidation)
	requestRepo.AssertNotCalled(t, "MarkRejected", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGetRequest_NotFound(t *testing.T) {
	service, requestRepo, _, _, _ := newRequestServiceFixture(t)

	requestRepo.On("GetRequestByID", "missing").Return(nil, repositories.ErrNotFound)

	_, err := service.GetRequest("missing")
	assert.ErrorIs(t, err, ErrRequestNotFound)
}
