package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gym_crm_backend/internal/metrics"
	"gym_crm_backend/internal/models"
	"gym_crm_backend/internal/repositories"
)

// --- Custom Service Errors for Member ---
var (
	ErrMemberNotFound    = errors.New("member not found")
	ErrMemberDeleted     = errors.New("member is deleted")
	ErrMemberNotDeleted  = errors.New("member is not deleted")
	ErrPlanNotFound      = errors.New("plan not found")
	ErrValidation        = errors.New("validation error")
	ErrMemberPhoneExists = errors.New("phone number already registered for this gym")
)

// --- Member DTOs ---

// CreateMemberRequest registers a member together with their initial
// subscription and registration payment.
type CreateMemberRequest struct {
	FirstName         string   `json:"first_name" binding:"required"`
	LastName          string   `json:"last_name" binding:"required"`
	Phone             string   `json:"phone" binding:"required"`
	Email             *string  `json:"email"`
	CniID             *string  `json:"cni_id"`
	PlanID            int64    `json:"plan_id" binding:"required"`
	StartDate         *string  `json:"start_date"` // Format YYYY-MM-DD, defaults to today
	InsuranceIncluded bool     `json:"insurance_included"`
	InsuranceFee      float64  `json:"insurance_fee"`
	PayFullAmount     bool     `json:"pay_full_amount"`
	AmountPaidNow     *float64 `json:"amount_paid_now"`
}

// UpdateMemberRequest updates contact/identity fields. Ledger fields are not
// updatable through this path.
type UpdateMemberRequest struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Phone     *string `json:"phone"`
	Email     *string `json:"email"`
	CniID     *string `json:"cni_id"`
}

// AddSubscriptionRequest renews a member onto a plan. Renewal only adds debt;
// paying it down is a separate, explicit payment operation.
type AddSubscriptionRequest struct {
	PlanID    int64   `json:"plan_id" binding:"required"`
	StartDate *string `json:"start_date"` // Format YYYY-MM-DD, defaults to today
}

// AddWarningRequest records a warning against a member.
type AddWarningRequest struct {
	Message string `json:"message" binding:"required"`
}

// MemberDetail is the full read model for a single member.
type MemberDetail struct {
	Member              *models.Member        `json:"member"`
	SubscriptionHistory []models.Subscription `json:"subscription_history"`
	Payments            []models.Payment      `json:"payments"`
	Warnings            []models.Warning      `json:"warnings"`
}

// --- MemberService Interface ---
type MemberService interface {
	CreateMember(gymID int64, req CreateMemberRequest) (*models.Member, error)
	GetMemberByID(gymID, memberID int64) (*MemberDetail, error)
	GetMembers(gymID int64, page, pageSize int, searchTerm *string, onlyDeleted bool) ([]models.Member, int, error)
	UpdateMember(gymID, memberID int64, req UpdateMemberRequest) (*models.Member, error)
	AddSubscription(gymID, memberID int64, req AddSubscriptionRequest) (*models.Member, error)
	AddWarning(gymID, memberID int64, req AddWarningRequest, addedBy string) (*models.Warning, error)
	SoftDeleteMember(gymID, memberID int64) error
	RestoreMember(gymID, memberID int64) error
	HardDeleteMember(gymID, memberID int64) error
}

// --- memberService Implementation ---
type memberService struct {
	memberRepo  repositories.MemberRepository
	paymentRepo repositories.PaymentRepository
	planRepo    repositories.PlanRepository
	counterRepo repositories.CounterRepository
	db          *sql.DB // For managing transactions
}

// NewMemberService creates a new instance of MemberService.
func NewMemberService(
	mr repositories.MemberRepository,
	pr repositories.PaymentRepository,
	plr repositories.PlanRepository,
	cr repositories.CounterRepository,
	db *sql.DB,
) MemberService {
	return &memberService{
		memberRepo:  mr,
		paymentRepo: pr,
		planRepo:    plr,
		counterRepo: cr,
		db:          db,
	}
}

func parseStartDate(startDate *string) (time.Time, error) {
	if startDate == nil || strings.TrimSpace(*startDate) == "" {
		return time.Now(), nil
	}
	parsed, err := time.Parse("2006-01-02", *startDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid start date, please use YYYY-MM-DD", ErrValidation)
	}
	return parsed, nil
}

// resolvePlan fetches a plan, scoped to the gym, and validates it can back a
// subscription snapshot.
func (s *memberService) resolvePlan(gymID, planID int64) (*models.Plan, error) {
	plan, err := s.planRepo.GetPlanByID(planID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, fmt.Errorf("failed to fetch plan %d: %w", planID, err)
	}
	if plan.GymID != gymID {
		return nil, ErrPlanNotFound
	}
	if plan.DurationDays <= 0 {
		return nil, fmt.Errorf("%w: plan duration must be positive", ErrValidation)
	}
	return plan, nil
}

// snapshotFromPlan builds the immutable subscription snapshot. The plan's
// price and duration are copied so later plan edits never rewrite history.
func snapshotFromPlan(memberID int64, plan *models.Plan, startDate time.Time) models.Subscription {
	return models.Subscription{
		MemberID:  memberID,
		PlanID:    plan.ID,
		PlanName:  plan.Name,
		Price:     plan.Price,
		StartDate: startDate,
		EndDate:   startDate.AddDate(0, 0, plan.DurationDays),
	}
}

// CreateMember registers a member: allocates the per-gym member number,
// creates the member row, the initial subscription snapshot and the
// INITIAL_REGISTRATION payment, all in one transaction. If any step fails the
// whole registration rolls back, including the allocated number.
func (s *memberService) CreateMember(gymID int64, req CreateMemberRequest) (*models.Member, error) {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, fmt.Errorf("%w: first and last name are required", ErrValidation)
	}
	if strings.TrimSpace(req.Phone) == "" {
		return nil, fmt.Errorf("%w: phone number is required", ErrValidation)
	}

	plan, err := s.resolvePlan(gymID, req.PlanID)
	if err != nil {
		return nil, err
	}
	startDate, err := parseStartDate(req.StartDate)
	if err != nil {
		return nil, err
	}

	insuranceFee := 0.0
	if req.InsuranceIncluded {
		insuranceFee = req.InsuranceFee
		if insuranceFee <= 0 {
			insuranceFee = DefaultInsuranceFee
		}
	}
	totalPrice := plan.Price + insuranceFee

	amountPaid := totalPrice
	if !req.PayFullAmount {
		if req.AmountPaidNow == nil {
			return nil, fmt.Errorf("%w: amount paid now is required unless paying in full", ErrValidation)
		}
		amountPaid = *req.AmountPaidNow
		if amountPaid <= 0 || amountPaid > totalPrice {
			return nil, fmt.Errorf("%w: amount paid must be greater than zero and at most %.2f", ErrValidation, totalPrice)
		}
	}

	insuranceStatus := models.InsuranceNone
	if req.InsuranceIncluded {
		insuranceStatus = models.InsuranceActive
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	memberNumber, err := s.counterRepo.NextMemberID(tx, gymID)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate member number: %w", err)
	}

	member := models.Member{
		GymID:              gymID,
		MemberID:           memberNumber,
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Phone:              req.Phone,
		Email:              req.Email,
		CniID:              req.CniID,
		InsuranceStatus:    insuranceStatus,
		InsuranceFee:       insuranceFee,
		OutstandingBalance: totalPrice - amountPaid,
		TotalPaid:          amountPaid,
	}
	memberID, err := s.memberRepo.CreateMember(tx, &member)
	if err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("failed to create member due to duplicate data: %w", err)
		}
		return nil, fmt.Errorf("failed to create member record: %w", err)
	}

	sub := snapshotFromPlan(memberID, plan, startDate)
	if _, err := s.memberRepo.CreateSubscription(tx, &sub); err != nil {
		return nil, fmt.Errorf("failed to create initial subscription: %w", err)
	}

	note := fmt.Sprintf("Registration: %s (%.2f)", plan.Name, amountPaid)
	payment := models.Payment{
		MemberID:    memberID,
		GymID:       gymID,
		Amount:      amountPaid,
		PaymentType: models.PaymentInitialRegistration,
		PaymentDate: time.Now(),
		Note:        &note,
	}
	if _, err := s.paymentRepo.CreatePayment(tx, &payment); err != nil {
		return nil, fmt.Errorf("failed to record registration payment: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit member creation: %w", err)
	}

	metrics.RecordMemberCreated()
	metrics.RecordPayment(payment.PaymentType, payment.Amount)

	return s.getScopedMember(gymID, memberID)
}

// getScopedMember loads a member, hides other tenants' members, and attaches
// the derived status.
func (s *memberService) getScopedMember(gymID, memberID int64) (*models.Member, error) {
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

func (s *memberService) GetMemberByID(gymID, memberID int64) (*MemberDetail, error) {
	member, err := s.getScopedMember(gymID, memberID)
	if err != nil {
		return nil, err
	}

	history, err := s.memberRepo.GetSubscriptionsByMemberID(member.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription history: %w", err)
	}
	payments, err := s.paymentRepo.GetPaymentsByMemberID(member.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get payments: %w", err)
	}
	warnings, err := s.memberRepo.GetWarningsByMemberID(member.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get warnings: %w", err)
	}

	return &MemberDetail{
		Member:              member,
		SubscriptionHistory: history,
		Payments:            payments,
		Warnings:            warnings,
	}, nil
}

func (s *memberService) GetMembers(gymID int64, page, pageSize int, searchTerm *string, onlyDeleted bool) ([]models.Member, int, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	members, totalCount, err := s.memberRepo.GetMembers(repositories.MemberFilters{
		GymID:       gymID,
		SearchTerm:  searchTerm,
		OnlyDeleted: onlyDeleted,
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get members: %w", err)
	}

	now := time.Now()
	for i := range members {
		members[i].Status = CalculateMemberStatus(members[i].CurrentSubscription, now)
	}
	return members, totalCount, nil
}

func (s *memberService) UpdateMember(gymID, memberID int64, req UpdateMemberRequest) (*models.Member, error) {
	member, err := s.getScopedMember(gymID, memberID)
	if err != nil {
		return nil, err
	}
	if member.IsDeleted {
		return nil, ErrMemberDeleted
	}

	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			return nil, fmt.Errorf("%w: first name cannot be empty", ErrValidation)
		}
		member.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		if strings.TrimSpace(*req.LastName) == "" {
			return nil, fmt.Errorf("%w: last name cannot be empty", ErrValidation)
		}
		member.LastName = *req.LastName
	}
	if req.Phone != nil {
		if strings.TrimSpace(*req.Phone) == "" {
			return nil, fmt.Errorf("%w: phone number cannot be empty", ErrValidation)
		}
		member.Phone = *req.Phone
	}
	if req.Email != nil {
		member.Email = req.Email
	}
	if req.CniID != nil {
		member.CniID = req.CniID
	}

	if err := s.memberRepo.UpdateMemberDetails(s.db, member); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to update member: %w", err)
	}
	return s.getScopedMember(gymID, memberID)
}

// AddSubscription appends a new snapshot and adds the plan price as fresh
// debt. It deliberately records no payment: renewing and paying are separate
// operations.
func (s *memberService) AddSubscription(gymID, memberID int64, req AddSubscriptionRequest) (*models.Member, error) {
	member, err := s.getScopedMember(gymID, memberID)
	if err != nil {
		return nil, err
	}
	if member.IsDeleted {
		return nil, ErrMemberDeleted
	}

	plan, err := s.resolvePlan(gymID, req.PlanID)
	if err != nil {
		return nil, err
	}
	startDate, err := parseStartDate(req.StartDate)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	sub := snapshotFromPlan(member.ID, plan, startDate)
	if _, err := s.memberRepo.CreateSubscription(tx, &sub); err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}
	if err := s.memberRepo.IncrementOutstanding(tx, member.ID, plan.Price); err != nil {
		return nil, fmt.Errorf("failed to add subscription debt: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit subscription renewal: %w", err)
	}
	return s.getScopedMember(gymID, memberID)
}

func (s *memberService) AddWarning(gymID, memberID int64, req AddWarningRequest, addedBy string) (*models.Warning, error) {
	member, err := s.getScopedMember(gymID, memberID)
	if err != nil {
		return nil, err
	}
	if member.IsDeleted {
		return nil, ErrMemberDeleted
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("%w: warning message cannot be empty", ErrValidation)
	}

	warning := models.Warning{
		MemberID: member.ID,
		Message:  req.Message,
		AddedBy:  addedBy,
	}
	if _, err := s.memberRepo.CreateWarning(s.db, &warning); err != nil {
		return nil, fmt.Errorf("failed to create warning: %w", err)
	}
	return &warning, nil
}

// SoftDeleteMember hides the member from active views. The full ledger is
// preserved and the member number is never reused.
func (s *memberService) SoftDeleteMember(gymID, memberID int64) error {
	member, err := s.getScopedMember(gymID, memberID)
	if err != nil {
		return err
	}
	if member.IsDeleted {
		return ErrMemberDeleted
	}
	if err := s.memberRepo.SoftDeleteMember(s.db, member.ID, time.Now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to soft-delete member: %w", err)
	}
	return nil
}

// RestoreMember clears the soft-delete markers without touching the ledger.
func (s *memberService) RestoreMember(gymID, memberID int64) error {
	member, err := s.getScopedMember(gymID, memberID)
	if err != nil {
		return err
	}
	if !member.IsDeleted {
		return ErrMemberNotDeleted
	}
	if err := s.memberRepo.RestoreMember(s.db, member.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to restore member: %w", err)
	}
	return nil
}

// HardDeleteMember permanently purges a member. Only soft-deleted members can
// be purged; the operation is irreversible.
func (s *memberService) HardDeleteMember(gymID, memberID int64) error {
	member, err := s.getScopedMember(gymID, memberID)
	if err != nil {
		return err
	}
	if !member.IsDeleted {
		return ErrMemberNotDeleted
	}
	if err := s.memberRepo.HardDeleteMember(s.db, member.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to hard-delete member: %w", err)
	}
	return nil
}
