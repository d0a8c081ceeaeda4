package services

import (
	"testing"

	"gym_crm_backend/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestMember(id, gymID int64) *models.Member {
	return &models.Member{
		ID:                 id,
		GymID:              gymID,
		MemberID:           7,
		FirstName:          "Aisha",
		LastName:           "Diallo",
		Phone:              "+221770000000",
		InsuranceStatus:    models.InsuranceNone,
		OutstandingBalance: 100,
		TotalPaid:          50,
	}
}

func TestRecordPayment_FullOutstanding(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	memberRepo := new(MockMemberRepository)
	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(memberRepo, paymentRepo, db)

	member := newTestMember(1, 10)
	memberRepo.On("GetMemberByID", int64(1)).Return(member, nil)

	dbMock.ExpectBegin()
	paymentRepo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p *models.Payment) bool {
		return p.PaymentType == models.PaymentDebt && p.Amount == 100
	})).Return(int64(1), nil)
	memberRepo.On("ApplyLedger", mock.Anything, int64(1), 0.0, 150.0, models.InsuranceNone).Return(nil)
	dbMock.ExpectCommit()

	result, err := service.RecordPayment(10, 1, RecordPaymentRequest{PayFullOutstanding: true})
	require.NoError(t, err)
	assert.Equal(t, 100.0, result.DebtPortion)
	assert.Equal(t, 0.0, result.InsurancePortion)
	assert.Equal(t, 100.0, result.TotalPaid)
	assert.Len(t, result.Payments, 1)

	assert.NoError(t, dbMock.ExpectationsWereMet())
	memberRepo.AssertExpectations(t)
	paymentRepo.AssertExpectations(t)
}

func TestRecordPayment_CustomAmountClampedToOutstanding(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	memberRepo := new(MockMemberRepository)
	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(memberRepo, paymentRepo, db)

	member := newTestMember(1, 10)
	member.OutstandingBalance = 50
	memberRepo.On("GetMemberByID", int64(1)).Return(member, nil)

	dbMock.ExpectBegin()
	paymentRepo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p *models.Payment) bool {
		return p.PaymentType == models.PaymentDebt && p.Amount == 50
	})).Return(int64(1), nil)
	memberRepo.On("ApplyLedger", mock.Anything, int64(1), 0.0, 100.0, models.InsuranceNone).Return(nil)
	dbMock.ExpectCommit()

	amount := 80.0
	result, err := service.RecordPayment(10, 1, RecordPaymentRequest{CustomAmount: &amount})
	require.NoError(t, err)
	// Overpayment is clamped, not rejected: the balance never goes negative.
	assert.Equal(t, 50.0, result.DebtPortion)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestRecordPayment_InsuranceActivation(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	memberRepo := new(MockMemberRepository)
	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(memberRepo, paymentRepo, db)

	member := newTestMember(1, 10)
	member.OutstandingBalance = 0
	member.InsuranceFee = 30
	memberRepo.On("GetMemberByID", int64(1)).Return(member, nil)

	dbMock.ExpectBegin()
	paymentRepo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p *models.Payment) bool {
		return p.PaymentType == models.PaymentInsurance && p.Amount == 30
	})).Return(int64(1), nil)
	memberRepo.On("ApplyLedger", mock.Anything, int64(1), 0.0, 80.0, models.InsuranceActive).Return(nil)
	dbMock.ExpectCommit()

	result, err := service.RecordPayment(10, 1, RecordPaymentRequest{IncludeInsurance: true})
	require.NoError(t, err)
	assert.Equal(t, 30.0, result.InsurancePortion)
	assert.NoError(t, dbMock.ExpectationsWereMet())
}

func TestRecordPayment_InsuranceDefaultFee(t *testing.T) {
	db, dbMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	memberRepo := new(MockMemberRepository)
	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(memberRepo, paymentRepo, db)

	member := newTestMember(1, 10)
	member.OutstandingBalance = 0
	member.InsuranceFee = 0 // No explicit fee on record
	memberRepo.On("GetMemberByID", int64(1)).Return(member, nil)

	dbMock.ExpectBegin()
	paymentRepo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p *models.Payment) bool {
		return p.PaymentType == models.PaymentInsurance && p.Amount == DefaultInsuranceFee
	})).Return(int64(1), nil)
	memberRepo.On("ApplyLedger", mock.Anything, int64(1), 0.0, 50.0+DefaultInsuranceFee, models.InsuranceActive).Return(nil)
	dbMock.ExpectCommit()

	result, err := service.RecordPayment(10, 1, RecordPaymentRequest{IncludeInsurance: true})
	require.NoError(t, err)
	assert.Equal(t, DefaultInsuranceFee, result.InsurancePortion)
}

func TestRecordPayment_InsuranceSkippedWhenAlreadyActive(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	memberRepo := new(MockMemberRepository)
	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(memberRepo, paymentRepo, db)

	member := newTestMember(1, 10)
	member.OutstandingBalance = 0
	member.InsuranceStatus = models.InsuranceActive
	memberRepo.On("GetMemberByID", int64(1)).Return(member, nil)

	// Insurance already active and nothing outstanding: the request resolves
	// to a zero total and must be rejected before any write.
	_, err = service.RecordPayment(10, 1, RecordPaymentRequest{IncludeInsurance: true})
	assert.ErrorIs(t, err, ErrValidation)
	paymentRepo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
}

func TestRecordPayment_NothingToPay(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	memberRepo := new(MockMemberRepository)
	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(memberRepo, paymentRepo, db)

	member := newTestMember(1, 10)
	member.OutstandingBalance = 0
	memberRepo.On("GetMemberByID", int64(1)).Return(member, nil)

	_, err = service.RecordPayment(10, 1, RecordPaymentRequest{PayFullOutstanding: true})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecordPayment_NegativeAmountRejected(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	memberRepo := new(MockMemberRepository)
	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(memberRepo, paymentRepo, db)

	memberRepo.On("GetMemberByID", int64(1)).Return(newTestMember(1, 10), nil)

	amount := -5.0
	_, err = service.RecordPayment(10, 1, RecordPaymentRequest{CustomAmount: &amount})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRecordPayment_DeletedMember(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	memberRepo := new(MockMemberRepository)
	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(memberRepo, paymentRepo, db)

	member := newTestMember(1, 10)
	member.IsDeleted = true
	memberRepo.On("GetMemberByID", int64(1)).Return(member, nil)

	_, err = service.RecordPayment(10, 1, RecordPaymentRequest{PayFullOutstanding: true})
	assert.ErrorIs(t, err, ErrMemberDeleted)
}

func TestRecordPayment_CrossTenantMemberHidden(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	memberRepo := new(MockMemberRepository)
	paymentRepo := new(MockPaymentRepository)
	service := NewPaymentService(memberRepo, paymentRepo, db)

	memberRepo.On("GetMemberByID", int64(1)).Return(newTestMember(1, 99), nil)

	_, err = service.RecordPayment(10, 1, RecordPaymentRequest{PayFullOutstanding: true})
	assert.ErrorIs(t, err, ErrMemberNotFound)
}
