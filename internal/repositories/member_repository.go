package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gym_crm_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// MemberFilters narrows member list queries.
type MemberFilters struct {
	GymID       int64
	SearchTerm  *string
	OnlyDeleted bool
	Page        int
	PageSize    int
}

// MemberRepository defines the interface for member-related database operations.
// Ledger fields (outstanding_balance, total_paid, insurance_status) are only
// ever written through ApplyLedger/IncrementOutstanding so that services can
// pair them with the payment/subscription rows inside one transaction.
type MemberRepository interface {
	CreateMember(executor SQLExecutor, member *models.Member) (int64, error)
	GetMemberByID(id int64) (*models.Member, error)
	GetMembers(filters MemberFilters) ([]models.Member, int, error)
	GetAllByGym(gymID int64) ([]models.Member, error)
	UpdateMemberDetails(executor SQLExecutor, member *models.Member) error
	ApplyLedger(executor SQLExecutor, memberID int64, outstandingBalance, totalPaid float64, insuranceStatus string) error
	IncrementOutstanding(executor SQLExecutor, memberID int64, amount float64) error
	SoftDeleteMember(executor SQLExecutor, id int64, deletedAt time.Time) error
	RestoreMember(executor SQLExecutor, id int64) error
	HardDeleteMember(executor SQLExecutor, id int64) error
	CreateSubscription(executor SQLExecutor, sub *models.Subscription) (int64, error)
	GetSubscriptionsByMemberID(memberID int64) ([]models.Subscription, error)
	CreateWarning(executor SQLExecutor, warning *models.Warning) (int64, error)
	GetWarningsByMemberID(memberID int64) ([]models.Warning, error)
	SumOutstandingBalance(gymID int64) (float64, error)
	CountInsuredMembers(gymID int64) (int, error)
}

type memberRepository struct {
	db *sql.DB
}

// NewMemberRepository creates a new instance of MemberRepository.
func NewMemberRepository(db *sql.DB) MemberRepository {
	return &memberRepository{db: db}
}

const memberColumns = `id, gym_id, member_id, first_name, last_name, phone, email, cni_id,
	insurance_status, insurance_fee, outstanding_balance, total_paid,
	is_deleted, deleted_at, created_at, updated_at`

// CreateMember inserts a new member row. member.MemberID must already hold a
// number from the counter allocator; the unique (gym_id, member_id) constraint
// backstops the allocator.
func (r *memberRepository) CreateMember(executor SQLExecutor, member *models.Member) (int64, error) {
	query := `INSERT INTO members (gym_id, member_id, first_name, last_name, phone, email, cni_id,
	            insurance_status, insurance_fee, outstanding_balance, total_paid, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	          RETURNING id`

	currentTime := time.Now()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = currentTime
	}
	member.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		member.GymID, member.MemberID, member.FirstName, member.LastName, member.Phone,
		member.Email, member.CniID, member.InsuranceStatus, member.InsuranceFee,
		member.OutstandingBalance, member.TotalPaid, member.CreatedAt, member.UpdatedAt,
	).Scan(&member.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			if pqErr.Code.Name() == "unique_violation" {
				return 0, fmt.Errorf("%w: %s (constraint: %s)", ErrDuplicateKey, pqErr.Message, pqErr.Constraint)
			}
		}
		return 0, fmt.Errorf("%w: creating member: %v", ErrDatabaseError, err)
	}
	return member.ID, nil
}

func scanMember(s interface{ Scan(...interface{}) error }, member *models.Member) error {
	var deletedAt sql.NullTime
	err := s.Scan(
		&member.ID, &member.GymID, &member.MemberID, &member.FirstName, &member.LastName,
		&member.Phone, &member.Email, &member.CniID, &member.InsuranceStatus, &member.InsuranceFee,
		&member.OutstandingBalance, &member.TotalPaid, &member.IsDeleted, &deletedAt,
		&member.CreatedAt, &member.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if deletedAt.Valid {
		member.DeletedAt = &deletedAt.Time
	}
	return nil
}

// GetMemberByID retrieves a member with their current subscription snapshot
// (the newest row in member_subscriptions).
func (r *memberRepository) GetMemberByID(id int64) (*models.Member, error) {
	member := &models.Member{}
	query := `SELECT ` + memberColumns + ` FROM members WHERE id = $1`

	if err := scanMember(r.db.QueryRow(query, id), member); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting member by ID %d: %v", ErrDatabaseError, id, err)
	}

	sub, err := r.getCurrentSubscription(id)
	if err != nil {
		return nil, err
	}
	member.CurrentSubscription = sub
	return member, nil
}

func (r *memberRepository) getCurrentSubscription(memberID int64) (*models.Subscription, error) {
	sub := &models.Subscription{}
	query := `SELECT id, member_id, plan_id, plan_name, price, start_date, end_date, created_at
	          FROM member_subscriptions WHERE member_id = $1 ORDER BY id DESC LIMIT 1`
	err := r.db.QueryRow(query, memberID).Scan(
		&sub.ID, &sub.MemberID, &sub.PlanID, &sub.PlanName, &sub.Price,
		&sub.StartDate, &sub.EndDate, &sub.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: getting current subscription for member %d: %v", ErrDatabaseError, memberID, err)
	}
	return sub, nil
}

// GetMembers retrieves a gym's members with pagination and optional search.
// Soft-deleted members are hidden unless OnlyDeleted is set.
func (r *memberRepository) GetMembers(filters MemberFilters) ([]models.Member, int, error) {
	members := []models.Member{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT m.id, m.gym_id, m.member_id, m.first_name, m.last_name, m.phone,
		m.email, m.cni_id, m.insurance_status, m.insurance_fee, m.outstanding_balance, m.total_paid,
		m.is_deleted, m.deleted_at, m.created_at, m.updated_at,
		s.id, s.plan_id, s.plan_name, s.price, s.start_date, s.end_date,
		COUNT(*) OVER() as total_count
		FROM members m
		LEFT JOIN LATERAL (
			SELECT id, plan_id, plan_name, price, start_date, end_date
			FROM member_subscriptions WHERE member_id = m.id ORDER BY id DESC LIMIT 1
		) s ON TRUE`)

	conditions := []string{"m.gym_id = $1", "m.is_deleted = $2"}
	args := []interface{}{filters.GymID, filters.OnlyDeleted}
	argCount := 3

	if filters.SearchTerm != nil && *filters.SearchTerm != "" {
		searchPattern := "%" + strings.ToLower(*filters.SearchTerm) + "%"
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(m.first_name) ILIKE $%d OR LOWER(m.last_name) ILIKE $%d OR LOWER(m.phone) ILIKE $%d OR CAST(m.member_id AS TEXT) ILIKE $%d)",
			argCount, argCount, argCount, argCount))
		args = append(args, searchPattern)
		argCount++
	}

	queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	queryBuilder.WriteString(" ORDER BY m.member_id ASC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCount))
		args = append(args, filters.PageSize)
		argCount++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCount))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying members: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var member models.Member
		var deletedAt sql.NullTime
		var subID, planID sql.NullInt64
		var planName sql.NullString
		var price sql.NullFloat64
		var startDate, endDate sql.NullTime

		if err := rows.Scan(
			&member.ID, &member.GymID, &member.MemberID, &member.FirstName, &member.LastName,
			&member.Phone, &member.Email, &member.CniID, &member.InsuranceStatus, &member.InsuranceFee,
			&member.OutstandingBalance, &member.TotalPaid, &member.IsDeleted, &deletedAt,
			&member.CreatedAt, &member.UpdatedAt,
			&subID, &planID, &planName, &price, &startDate, &endDate,
			&totalCount,
		); err != nil {
			return nil, 0, fmt.Errorf("%w: scanning member: %v", ErrDatabaseError, err)
		}
		if deletedAt.Valid {
			member.DeletedAt = &deletedAt.Time
		}
		if subID.Valid {
			member.CurrentSubscription = &models.Subscription{
				ID:        subID.Int64,
				MemberID:  member.ID,
				PlanID:    planID.Int64,
				PlanName:  planName.String,
				Price:     price.Float64,
				StartDate: startDate.Time,
				EndDate:   endDate.Time,
			}
		}
		members = append(members, member)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating member rows: %v", ErrDatabaseError, err)
	}
	if len(members) == 0 {
		totalCount = 0
	}

	return members, totalCount, nil
}

// GetAllByGym returns every non-deleted member of a gym with their current
// subscription, for dashboard folds. No pagination.
func (r *memberRepository) GetAllByGym(gymID int64) ([]models.Member, error) {
	members, _, err := r.GetMembers(MemberFilters{GymID: gymID})
	return members, err
}

// UpdateMemberDetails updates contact/identity fields only. Ledger fields are
// deliberately excluded; they change through ApplyLedger.
func (r *memberRepository) UpdateMemberDetails(executor SQLExecutor, member *models.Member) error {
	query := `UPDATE members SET
	            first_name = $1, last_name = $2, phone = $3, email = $4, cni_id = $5, updated_at = $6
	          WHERE id = $7`

	member.UpdatedAt = time.Now()
	result, err := executor.Exec(query,
		member.FirstName, member.LastName, member.Phone, member.Email, member.CniID,
		member.UpdatedAt, member.ID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating member ID %d: %v", ErrDatabaseError, member.ID, err)
	}
	return checkRowsAffected(result, member.ID)
}

// ApplyLedger writes the derived ledger fields in one statement. Callers pair
// it with the payment rows that justify the new values inside one transaction.
func (r *memberRepository) ApplyLedger(executor SQLExecutor, memberID int64, outstandingBalance, totalPaid float64, insuranceStatus string) error {
	query := `UPDATE members SET outstanding_balance = $1, total_paid = $2, insurance_status = $3, updated_at = $4
	          WHERE id = $5`
	result, err := executor.Exec(query, outstandingBalance, totalPaid, insuranceStatus, time.Now(), memberID)
	if err != nil {
		return fmt.Errorf("%w: applying ledger for member ID %d: %v", ErrDatabaseError, memberID, err)
	}
	return checkRowsAffected(result, memberID)
}

// IncrementOutstanding adds fresh debt to a member, used when a new
// subscription snapshot is appended. Renewal never records a payment.
func (r *memberRepository) IncrementOutstanding(executor SQLExecutor, memberID int64, amount float64) error {
	query := `UPDATE members SET outstanding_balance = outstanding_balance + $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, amount, time.Now(), memberID)
	if err != nil {
		return fmt.Errorf("%w: incrementing outstanding balance for member ID %d: %v", ErrDatabaseError, memberID, err)
	}
	return checkRowsAffected(result, memberID)
}

// SoftDeleteMember hides a member from active views. The ledger is untouched.
func (r *memberRepository) SoftDeleteMember(executor SQLExecutor, id int64, deletedAt time.Time) error {
	query := `UPDATE members SET is_deleted = TRUE, deleted_at = $1, updated_at = $1 WHERE id = $2`
	result, err := executor.Exec(query, deletedAt, id)
	if err != nil {
		return fmt.Errorf("%w: soft-deleting member ID %d: %v", ErrDatabaseError, id, err)
	}
	return checkRowsAffected(result, id)
}

// RestoreMember clears the soft-delete markers. The ledger is untouched.
func (r *memberRepository) RestoreMember(executor SQLExecutor, id int64) error {
	query := `UPDATE members SET is_deleted = FALSE, deleted_at = NULL, updated_at = $1 WHERE id = $2`
	result, err := executor.Exec(query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("%w: restoring member ID %d: %v", ErrDatabaseError, id, err)
	}
	return checkRowsAffected(result, id)
}

// HardDeleteMember permanently removes a member and, via ON DELETE CASCADE,
// their subscriptions, payments and warnings. Irreversible.
func (r *memberRepository) HardDeleteMember(executor SQLExecutor, id int64) error {
	result, err := executor.Exec(`DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: hard-deleting member ID %d: %v", ErrDatabaseError, id, err)
	}
	return checkRowsAffected(result, id)
}

// CreateSubscription appends an immutable snapshot row. Snapshots are never
// updated or deleted individually.
func (r *memberRepository) CreateSubscription(executor SQLExecutor, sub *models.Subscription) (int64, error) {
	query := `INSERT INTO member_subscriptions (member_id, plan_id, plan_name, price, start_date, end_date, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	err := executor.QueryRow(query,
		sub.MemberID, sub.PlanID, sub.PlanName, sub.Price, sub.StartDate, sub.EndDate, sub.CreatedAt,
	).Scan(&sub.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating subscription for member %d: %v", ErrDatabaseError, sub.MemberID, err)
	}
	return sub.ID, nil
}

// GetSubscriptionsByMemberID returns the full history, oldest first. The last
// element is the current subscription.
func (r *memberRepository) GetSubscriptionsByMemberID(memberID int64) ([]models.Subscription, error) {
	query := `SELECT id, member_id, plan_id, plan_name, price, start_date, end_date, created_at
	          FROM member_subscriptions WHERE member_id = $1 ORDER BY id ASC`
	rows, err := r.db.Query(query, memberID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying subscriptions for member %d: %v", ErrDatabaseError, memberID, err)
	}
	defer rows.Close()

	subs := []models.Subscription{}
	for rows.Next() {
		var sub models.Subscription
		if err := rows.Scan(&sub.ID, &sub.MemberID, &sub.PlanID, &sub.PlanName, &sub.Price,
			&sub.StartDate, &sub.EndDate, &sub.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning subscription: %v", ErrDatabaseError, err)
		}
		subs = append(subs, sub)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating subscription rows: %v", ErrDatabaseError, err)
	}
	return subs, nil
}

// CreateWarning appends a warning entry.
func (r *memberRepository) CreateWarning(executor SQLExecutor, warning *models.Warning) (int64, error) {
	query := `INSERT INTO member_warnings (member_id, message, added_by, created_at)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	if warning.CreatedAt.IsZero() {
		warning.CreatedAt = time.Now()
	}
	err := executor.QueryRow(query, warning.MemberID, warning.Message, warning.AddedBy, warning.CreatedAt).Scan(&warning.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating warning for member %d: %v", ErrDatabaseError, warning.MemberID, err)
	}
	return warning.ID, nil
}

// GetWarningsByMemberID returns a member's warnings, newest first.
func (r *memberRepository) GetWarningsByMemberID(memberID int64) ([]models.Warning, error) {
	query := `SELECT id, member_id, message, added_by, created_at
	          FROM member_warnings WHERE member_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.Query(query, memberID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying warnings for member %d: %v", ErrDatabaseError, memberID, err)
	}
	defer rows.Close()

	warnings := []models.Warning{}
	for rows.Next() {
		var w models.Warning
		if err := rows.Scan(&w.ID, &w.MemberID, &w.Message, &w.AddedBy, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning warning: %v", ErrDatabaseError, err)
		}
		warnings = append(warnings, w)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating warning rows: %v", ErrDatabaseError, err)
	}
	return warnings, nil
}

// SumOutstandingBalance totals the outstanding balance across a gym's
// non-deleted members.
func (r *memberRepository) SumOutstandingBalance(gymID int64) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(outstanding_balance), 0) FROM members WHERE gym_id = $1 AND is_deleted = FALSE`
	if err := r.db.QueryRow(query, gymID).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: summing outstanding balance for gym %d: %v", ErrDatabaseError, gymID, err)
	}
	return total, nil
}

// CountInsuredMembers counts non-deleted members with active insurance.
func (r *memberRepository) CountInsuredMembers(gymID int64) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM members WHERE gym_id = $1 AND is_deleted = FALSE AND insurance_status = $2`
	if err := r.db.QueryRow(query, gymID, models.InsuranceActive).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: counting insured members for gym %d: %v", ErrDatabaseError, gymID, err)
	}
	return count, nil
}

func checkRowsAffected(result sql.Result, id int64) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for member ID %d: %v", ErrDatabaseError, id, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
