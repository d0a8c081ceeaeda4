package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"gym_crm_backend/internal/metrics"
	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/repositories"
)

// DefaultInsuranceFee is charged when a member record carries no explicit fee.
const DefaultInsuranceFee = 50.0

// ErrNothingToPay is returned when a payment request resolves to a zero total.
var ErrNothingToPay = errors.New("nothing to pay")

// RecordPaymentRequest describes a payment against a member's ledger.
// CustomAmount beyond the outstanding balance is clamped, never rejected, so
// callers cannot accidentally drive the balance negative.
type RecordPaymentRequest struct {
	PayFullOutstanding bool     `json:"pay_full_outstanding"`
	CustomAmount       *float64 `json:"custom_amount"`
	IncludeInsurance   bool     `json:"include_insurance"`
}

// PaymentResult reports what was actually charged after clamping.
type PaymentResult struct {
	Member           *models.Member   `json:"member"`
	Payments         []models.Payment `json:"payments"`
	DebtPortion      float64          `json:"debt_portion"`
	InsurancePortion float64          `json:"insurance_portion"`
	TotalPaid        float64          `json:"total_paid"`
}

// --- PaymentService Interface ---
type PaymentService interface {
	RecordPayment(gymID, memberID int64, req RecordPaymentRequest) (*PaymentResult, error)
	GetMemberPayments(gymID, memberID int64) ([]models.Payment, error)
}

// --- paymentService Implementation ---
type paymentService struct {
	memberRepo  repositories.MemberRepository
	paymentRepo repositories.PaymentRepository
	db          *sql.DB // For managing transactions
}

// NewPaymentService creates a new instance of PaymentService.
func NewPaymentService(mr repositories.MemberRepository, pr repositories.PaymentRepository, db *sql.DB) PaymentService {
	return &paymentService{
		memberRepo:  mr,
		paymentRepo: pr,
		db:          db,
	}
}

// RecordPayment splits a payment between outstanding debt and an optional
// insurance fee, then applies the ledger entries and the derived member fields
// as one transaction. A concurrent reader never observes a payment row without
// the matching balance reduction.
func (s *paymentService) RecordPayment(gymID, memberID int64, req RecordPaymentRequest) (*PaymentResult, error) {
	member, err := s.loadMember(gymID, memberID)
	if err != nil {
		return nil, err
	}
	if member.IsDeleted {
		return nil, ErrMemberDeleted
	}

	debtPortion := 0.0
	if req.PayFullOutstanding {
		debtPortion = member.OutstandingBalance
	} else if req.CustomAmount != nil {
		if *req.CustomAmount < 0 {
			return nil, fmt.Errorf("%w: payment amount cannot be negative", ErrValidation)
		}
		debtPortion = math.Min(*req.CustomAmount, member.OutstandingBalance)
	}

	insurancePortion := 0.0
	if req.IncludeInsurance && member.InsuranceStatus != models.InsuranceActive {
		insurancePortion = member.InsuranceFee
		if insurancePortion <= 0 {
			insurancePortion = DefaultInsuranceFee
		}
	}

	totalPayment := debtPortion + insurancePortion
	if totalPayment <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, ErrNothingToPay)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now()
	recorded := []models.Payment{}

	if debtPortion > 0 {
		note := fmt.Sprintf("Debt payment of %.2f (balance %.2f -> %.2f)",
			debtPortion, member.OutstandingBalance, member.OutstandingBalance-debtPortion)
		payment := models.Payment{
			MemberID:    member.ID,
			GymID:       gymID,
			Amount:      debtPortion,
			PaymentType: models.PaymentDebt,
			PaymentDate: now,
			Note:        &note,
		}
		if _, err := s.paymentRepo.CreatePayment(tx, &payment); err != nil {
			return nil, fmt.Errorf("failed to record debt payment: %w", err)
		}
		recorded = append(recorded, payment)
	}

	if insurancePortion > 0 {
		note := fmt.Sprintf("Insurance fee of %.2f", insurancePortion)
		payment := models.Payment{
			MemberID:    member.ID,
			GymID:       gymID,
			Amount:      insurancePortion,
			PaymentType: models.PaymentInsurance,
			PaymentDate: now,
			Note:        &note,
		}
		if _, err := s.paymentRepo.CreatePayment(tx, &payment); err != nil {
			return nil, fmt.Errorf("failed to record insurance payment: %w", err)
		}
		recorded = append(recorded, payment)
	}

	newBalance := member.OutstandingBalance - debtPortion
	newTotalPaid := member.TotalPaid + totalPayment
	insuranceStatus := member.InsuranceStatus
	if insurancePortion > 0 {
		insuranceStatus = models.InsuranceActive
	}
	if err := s.memberRepo.ApplyLedger(tx, member.ID, newBalance, newTotalPaid, insuranceStatus); err != nil {
		return nil, fmt.Errorf("failed to apply ledger update: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit payment: %w", err)
	}

	for _, p := range recorded {
		metrics.RecordPayment(p.PaymentType, p.Amount)
	}

	updated, err := s.loadMember(gymID, memberID)
	if err != nil {
		return nil, err
	}
	return &PaymentResult{
		Member:           updated,
		Payments:         recorded,
		DebtPortion:      debtPortion,
		InsurancePortion: insurancePortion,
		TotalPaid:        totalPayment,
	}, nil
}

func (s *paymentService) GetMemberPayments(gymID, memberID int64) ([]models.Payment, error) {
	member, err := s.loadMember(gymID, memberID)
	if err != nil {
		return nil, err
	}
	payments, err := s.paymentRepo.GetPaymentsByMemberID(member.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	return payments, nil
}

func (s *paymentService) loadMember(gymID, memberID int64) (*models.Member, error) {
	member, err := s.memberRepo.GetMemberByID(memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member by ID: %w", err)
	}
	if member.GymID != gymID {
		return nil, ErrMemberNotFound
	}
	member.Status = CalculateMemberStatus(member.CurrentSubscription, time.Now())
	return member, nil
}
