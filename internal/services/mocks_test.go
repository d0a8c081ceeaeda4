package services

import (
	"time"

	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/repositories"

	"github.com/stretchr/testify/mock"
)

// MockMemberRepository is a mock implementation of repositories.MemberRepository.
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) CreateMember(executor repositories.SQLExecutor, member *models.Member) (int64, error) {
	args := m.Called(executor, member)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) GetMemberByID(id int64) (*models.Member, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) GetMembers(filters repositories.MemberFilters) ([]models.Member, int, error) {
	args := m.Called(filters)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Member), args.Int(1), args.Error(2)
}

func (m *MockMemberRepository) GetAllByGym(gymID int64) ([]models.Member, error) {
	args := m.Called(gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Member), args.Error(1)
}

func (m *MockMemberRepository) UpdateMemberDetails(executor repositories.SQLExecutor, member *models.Member) error {
	args := m.Called(executor, member)
	return args.Error(0)
}

func (m *MockMemberRepository) ApplyLedger(executor repositories.SQLExecutor, memberID int64, outstandingBalance, totalPaid float64, insuranceStatus string) error {
	args := m.Called(executor, memberID, outstandingBalance, totalPaid, insuranceStatus)
	return args.Error(0)
}

func (m *MockMemberRepository) IncrementOutstanding(executor repositories.SQLExecutor, memberID int64, amount float64) error {
	args := m.Called(executor, memberID, amount)
	return args.Error(0)
}

func (m *MockMemberRepository) SoftDeleteMember(executor repositories.SQLExecutor, id int64, deletedAt time.Time) error {
	args := m.Called(executor, id, deletedAt)
	return args.Error(0)
}

func (m *MockMemberRepository) RestoreMember(executor repositories.SQLExecutor, id int64) error {
	args := m.Called(executor, id)
	return args.Error(0)
}

func (m *MockMemberRepository) HardDeleteMember(executor repositories.SQLExecutor, id int64) error {
	args := m.Called(executor, id)
	return args.Error(0)
}

func (m *MockMemberRepository) CreateSubscription(executor repositories.SQLExecutor, sub *models.Subscription) (int64, error) {
	args := m.Called(executor, sub)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) GetSubscriptionsByMemberID(memberID int64) ([]models.Subscription, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}

func (m *MockMemberRepository) CreateWarning(executor repositories.SQLExecutor, warning *models.Warning) (int64, error) {
	args := m.Called(executor, warning)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMemberRepository) GetWarningsByMemberID(memberID int64) ([]models.Warning, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Warning), args.Error(1)
}

func (m *MockMemberRepository) SumOutstandingBalance(gymID int64) (float64, error) {
	args := m.Called(gymID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockMemberRepository) CountInsuredMembers(gymID int64) (int, error) {
	args := m.Called(gymID)
	return args.Int(0), args.Error(1)
}

// MockPaymentRepository is a mock implementation of repositories.PaymentRepository.
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) CreatePayment(executor repositories.SQLExecutor, payment *models.Payment) (int64, error) {
	args := m.Called(executor, payment)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPaymentRepository) GetPaymentsByMemberID(memberID int64) ([]models.Payment, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Payment), args.Error(1)
}

func (m *MockPaymentRepository) SumAmountInPeriod(gymID int64, start, end time.Time) (float64, error) {
	args := m.Called(gymID, start, end)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockPaymentRepository) SumAmountByTypeInPeriod(gymID int64, paymentType string, start, end time.Time) (float64, error) {
	args := m.Called(gymID, paymentType, start, end)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockPaymentRepository) SumAmountAllTime(gymID int64) (float64, error) {
	args := m.Called(gymID)
	return args.Get(0).(float64), args.Error(1)
}

func (m *MockPaymentRepository) SumAmountByType(gymID int64, paymentType string) (float64, error) {
	args := m.Called(gymID, paymentType)
	return args.Get(0).(float64), args.Error(1)
}

// MockPlanRepository is a mock implementation of repositories.PlanRepository.
type MockPlanRepository struct {
	mock.Mock
}

func (m *MockPlanRepository) CreatePlan(executor repositories.SQLExecutor, plan *models.Plan) (int64, error) {
	args := m.Called(executor, plan)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPlanRepository) GetPlanByID(id int64) (*models.Plan, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Plan), args.Error(1)
}

func (m *MockPlanRepository) GetPlansByGym(gymID int64) ([]models.Plan, error) {
	args := m.Called(gymID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Plan), args.Error(1)
}

func (m *MockPlanRepository) UpdatePlan(executor repositories.SQLExecutor, plan *models.Plan) error {
	args := m.Called(executor, plan)
	return args.Error(0)
}

func (m *MockPlanRepository) DeletePlan(executor repositories.SQLExecutor, id int64) error {
	args := m.Called(executor, id)
	return args.Error(0)
}

// MockCounterRepository is a mock implementation of repositories.CounterRepository.
type MockCounterRepository struct {
	mock.Mock
}

func (m *MockCounterRepository) NextMemberID(executor repositories.SQLExecutor, gymID int64) (int64, error) {
	args := m.Called(executor, gymID)
	return args.Get(0).(int64), args.Error(1)
}

// MockChangeRequestRepository is a mock implementation of repositories.ChangeRequestRepository.
type MockChangeRequestRepository struct {
	mock.Mock
}

func (m *MockChangeRequestRepository) CreateRequest(executor repositories.SQLExecutor, request *models.ChangeRequest) error {
	args := m.Called(executor, request)
	return args.Error(0)
}

func (m *MockChangeRequestRepository) GetRequestByID(id string) (*models.ChangeRequest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ChangeRequest), args.Error(1)
}

func (m *MockChangeRequestRepository) GetRequests(status *string, page, pageSize int) ([]models.ChangeRequest, int, error) {
	args := m.Called(status, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.ChangeRequest), args.Int(1), args.Error(2)
}

func (m *MockChangeRequestRepository) GetRequestsByUser(fromUserID int64) ([]models.ChangeRequest, error) {
	args := m.Called(fromUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChangeRequest), args.Error(1)
}

func (m *MockChangeRequestRepository) MarkApproved(executor repositories.SQLExecutor, id string, processedAt time.Time) error {
	args := m.Called(executor, id, processedAt)
	return args.Error(0)
}

func (m *MockChangeRequestRepository) MarkRejected(executor repositories.SQLExecutor, id string, reason string, processedAt time.Time) error {
	args := m.Called(executor, id, reason, processedAt)
	return args.Error(0)
}

func (m *MockChangeRequestRepository) CountPendingByGym(gymID int64) (int, error) {
	args := m.Called(gymID)
	return args.Int(0), args.Error(1)
}

// MockGymRepository is a mock implementation of repositories.GymRepository.
type MockGymRepository struct {
	mock.Mock
}

func (m *MockGymRepository) CreateGym(executor repositories.SQLExecutor, gym *models.Gym) (int64, error) {
	args := m.Called(executor, gym)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGymRepository) GetGymByID(id int64) (*models.Gym, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gym), args.Error(1)
}

func (m *MockGymRepository) GetGyms(page, pageSize int) ([]models.Gym, int, error) {
	args := m.Called(page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]models.Gym), args.Int(1), args.Error(2)
}

func (m *MockGymRepository) UpdateGymName(executor repositories.SQLExecutor, id int64, name string) error {
	args := m.Called(executor, id, name)
	return args.Error(0)
}

// MockUserRepository is a mock implementation of repositories.UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(executor repositories.SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	args := m.Called(executor, user, hashedPassword)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) FindUserByUsername(username string) (*models.User, string, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*models.User), args.String(1), args.Error(2)
}

func (m *MockUserRepository) FindUserByID(userID int64) (*models.User, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateCachedGymName(executor repositories.SQLExecutor, gymID int64, gymName string) error {
	args := m.Called(executor, gymID, gymName)
	return args.Error(0)
}
