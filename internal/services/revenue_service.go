package services

import (
	"fmt"
	"time"

	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/repositories"
)

// RevenueService provides read-only, always-recomputed views over the payment
// ledger. Nothing here mutates state or caches results; every figure is a
// fresh fold over the stored ledger.
//
// Insurance revenue is the exact sum of INSURANCE_PAYMENT entries. The
// insured-member count is reported alongside it but is never multiplied into
// a revenue figure: status-times-fee is an estimate, not ledger truth.
type RevenueService interface {
	TotalOutstanding(gymID int64) (float64, error)
	RevenueInPeriod(gymID int64, start, end time.Time) (*models.RevenueReport, error)
	MonthlyRevenue(gymID int64, year int, month time.Month) (*models.RevenueReport, error)
	YearlyRevenue(gymID int64, year int) (*models.RevenueReport, error)
	DashboardSummary(gymID int64) (*models.DashboardSummary, error)
}

type revenueService struct {
	memberRepo  repositories.MemberRepository
	paymentRepo repositories.PaymentRepository
	requestRepo repositories.ChangeRequestRepository
}

// NewRevenueService creates a new instance of RevenueService.
func NewRevenueService(
	mr repositories.MemberRepository,
	pr repositories.PaymentRepository,
	rr repositories.ChangeRequestRepository,
) RevenueService {
	return &revenueService{
		memberRepo:  mr,
		paymentRepo: pr,
		requestRepo: rr,
	}
}

func (s *revenueService) TotalOutstanding(gymID int64) (float64, error) {
	total, err := s.memberRepo.SumOutstandingBalance(gymID)
	if err != nil {
		return 0, fmt.Errorf("failed to sum outstanding balance: %w", err)
	}
	return total, nil
}

// RevenueInPeriod sums payments with start <= date < end, with a per-type
// breakdown.
func (s *revenueService) RevenueInPeriod(gymID int64, start, end time.Time) (*models.RevenueReport, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("%w: period end must be after start", ErrValidation)
	}

	total, err := s.paymentRepo.SumAmountInPeriod(gymID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to sum period revenue: %w", err)
	}
	debt, err := s.paymentRepo.SumAmountByTypeInPeriod(gymID, models.PaymentDebt, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to sum debt payments: %w", err)
	}
	initial, err := s.paymentRepo.SumAmountByTypeInPeriod(gymID, models.PaymentInitialRegistration, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to sum registration payments: %w", err)
	}
	insurance, err := s.paymentRepo.SumAmountByTypeInPeriod(gymID, models.PaymentInsurance, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to sum insurance payments: %w", err)
	}

	return &models.RevenueReport{
		Start:            start.Format("2006-01-02"),
		End:              end.Format("2006-01-02"),
		Total:            total,
		DebtPayments:     debt,
		InitialPayments:  initial,
		InsuranceRevenue: insurance,
	}, nil
}

func (s *revenueService) MonthlyRevenue(gymID int64, year int, month time.Month) (*models.RevenueReport, error) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	return s.RevenueInPeriod(gymID, start, start.AddDate(0, 1, 0))
}

func (s *revenueService) YearlyRevenue(gymID int64, year int) (*models.RevenueReport, error) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.Local)
	return s.RevenueInPeriod(gymID, start, start.AddDate(1, 0, 0))
}

// DashboardSummary folds over the gym's members and ledger for the dashboard.
// Member statuses are derived on the fly from current subscriptions.
func (s *revenueService) DashboardSummary(gymID int64) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{}
	now := time.Now()

	members, err := s.memberRepo.GetAllByGym(gymID)
	if err != nil {
		return nil, fmt.Errorf("failed to load members for dashboard: %w", err)
	}
	summary.TotalMembers = len(members)
	for i := range members {
		switch CalculateMemberStatus(members[i].CurrentSubscription, now) {
		case models.MemberStatusActive:
			summary.ActiveMembers++
		case models.MemberStatusExpiring:
			summary.ExpiringMembers++
		default:
			summary.ExpiredMembers++
		}
	}

	if summary.TotalOutstanding, err = s.memberRepo.SumOutstandingBalance(gymID); err != nil {
		return nil, fmt.Errorf("failed to sum outstanding balance: %w", err)
	}

	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if summary.RevenueThisMonth, err = s.paymentRepo.SumAmountInPeriod(gymID, startOfMonth, startOfMonth.AddDate(0, 1, 0)); err != nil {
		return nil, fmt.Errorf("failed to sum monthly revenue: %w", err)
	}
	startOfYear := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	if summary.RevenueThisYear, err = s.paymentRepo.SumAmountInPeriod(gymID, startOfYear, startOfYear.AddDate(1, 0, 0)); err != nil {
		return nil, fmt.Errorf("failed to sum yearly revenue: %w", err)
	}
	if summary.RevenueAllTime, err = s.paymentRepo.SumAmountAllTime(gymID); err != nil {
		return nil, fmt.Errorf("failed to sum all-time revenue: %w", err)
	}
	if summary.InsuranceRevenue, err = s.paymentRepo.SumAmountByType(gymID, models.PaymentInsurance); err != nil {
		return nil, fmt.Errorf("failed to sum insurance revenue: %w", err)
	}
	if summary.InsuredMemberCount, err = s.memberRepo.CountInsuredMembers(gymID); err != nil {
		return nil, fmt.Errorf("failed to count insured members: %w", err)
	}
	if summary.PendingRequestCount, err = s.requestRepo.CountPendingByGym(gymID); err != nil {
		return nil, fmt.Errorf("failed to count pending requests: %w", err)
	}

	return summary, nil
}
