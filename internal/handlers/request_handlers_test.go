package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gym_crm_backend/internal/middleware"
	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockRequestService is a mock implementation of services.RequestService.
type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) SubmitRenameRequest(userID int64, req services.SubmitRenameRequest) (*models.ChangeRequest, error) {
	args := m.Called(userID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChangeRequest), args.Error(1)
}

func (m *MockRequestService) GetRequest(id string) (*models.ChangeRequest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChangeRequest), args.Error(1)
}

func (m *MockRequestService) GetRequests(status *string, page, pageSize int) (*services.RequestListResponse, error) {
	args := m.Called(status, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.RequestListResponse), args.Error(1)
}

func (m *MockRequestService) GetMyRequests(userID int64) ([]models.ChangeRequest, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChangeRequest), args.Error(1)
}

func (m *MockRequestService) ApproveRequest(id string) (*models.ChangeRequest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChangeRequest), args.Error(1)
}

func (m *MockRequestService) RejectRequest(id string, reason string) (*models.ChangeRequest, error) {
	args := m.Called(id, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChangeRequest), args.Error(1)
}

func newRequestTestRouter(service services.RequestService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewRequestHandler(service)

	engine := gin.New()
	engine.POST("/requests/rename", func(c *gin.Context) {
		c.Set(middleware.ContextUserID, int64(4))
		handler.SubmitRenameRequest(c)
	})
	engine.POST("/admin/requests/:id/approve", handler.ApproveRequest)
	engine.POST("/admin/requests/:id/reject", handler.RejectRequest)
	return engine
}

func TestSubmitRenameRequestHandler(t *testing.T) {
	mockService := new(MockRequestService)
	engine := newRequestTestRouter(mockService)

	mockService.On("SubmitRenameRequest", int64(4), mock.MatchedBy(func(r services.SubmitRenameRequest) bool {
		return r.NewName == "Iron Palace"
	})).Return(&models.ChangeRequest{ID: "req-1", Status: models.RequestStatusPending}, nil)

	body := strings.NewReader(`{"new_name": "Iron Palace"}`)
	req := httptest.NewRequest(http.MethodPost, "/requests/rename", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "pending")
}

func TestSubmitRenameRequestHandler_MissingName(t *testing.T) {
	mockService := new(MockRequestService)
	engine := newRequestTestRouter(mockService)

	req := httptest.NewRequest(http.MethodPost, "/requests/rename", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "SubmitRenameRequest", mock.Anything, mock.Anything)
}

func TestApproveRequestHandler_AlreadyProcessed(t *testing.T) {
	mockService := new(MockRequestService)
	engine := newRequestTestRouter(mockService)

	mockService.On("ApproveRequest", "req-1").Return(nil, services.ErrRequestAlreadyProcessed)

	req := httptest.NewRequest(http.MethodPost, "/admin/requests/req-1/approve", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRejectRequestHandler_RequiresReason(t *testing.T) {
	mockService := new(MockRequestService)
	engine := newRequestTestRouter(mockService)

	req := httptest.NewRequest(http.MethodPost, "/admin/requests/req-1/reject", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "RejectRequest", mock.Anything, mock.Anything)
}

func TestRejectRequestHandler(t *testing.T) {
	mockService := new(MockRequestService)
	engine := newRequestTestRouter(mockService)

	mockService.On("RejectRequest", "req-1", "duplicate name").
		Return(&models.ChangeRequest{ID: "req-1", Status: models.RequestStatusRejected}, nil)

	body := strings.NewReader(`{"reason": "duplicate name"}`)
	req := httptest.NewRequest(http.MethodPost, "/admin/requests/req-1/reject", body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "rejected")
}
