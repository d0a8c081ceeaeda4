package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"gym_crm_backend/internal/models"
)

// PaymentRepository records append-only ledger entries and answers revenue
// queries. Payments are never updated or deleted (hard member deletion removes
// them via the FK cascade, nothing else does).
type PaymentRepository interface {
	CreatePayment(executor SQLExecutor, payment *models.Payment) (int64, error)
	GetPaymentsByMemberID(memberID int64) ([]models.Payment, error)
	SumAmountInPeriod(gymID int64, start, end time.Time) (float64, error)
	SumAmountByTypeInPeriod(gymID int64, paymentType string, start, end time.Time) (float64, error)
	SumAmountAllTime(gymID int64) (float64, error)
	SumAmountByType(gymID int64, paymentType string) (float64, error)
}

type paymentRepository struct {
	db *sql.DB
}

// NewPaymentRepository creates a new instance of PaymentRepository.
func NewPaymentRepository(db *sql.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

// CreatePayment appends one ledger entry.
func (r *paymentRepository) CreatePayment(executor SQLExecutor, payment *models.Payment) (int64, error) {
	query := `INSERT INTO payments (member_id, gym_id, amount, payment_type, payment_date, note, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          RETURNING id`

	if payment.PaymentDate.IsZero() {
		payment.PaymentDate = time.Now()
	}
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		payment.MemberID, payment.GymID, payment.Amount, payment.PaymentType,
		payment.PaymentDate, payment.Note, payment.CreatedAt,
	).Scan(&payment.ID)
	if err != nil {
		return 0, fmt.Errorf("%w: creating payment for member %d: %v", ErrDatabaseError, payment.MemberID, err)
	}
	return payment.ID, nil
}

// GetPaymentsByMemberID returns a member's ledger entries, newest first.
func (r *paymentRepository) GetPaymentsByMemberID(memberID int64) ([]models.Payment, error) {
	query := `SELECT id, member_id, gym_id, amount, payment_type, payment_date, note, created_at
	          FROM payments WHERE member_id = $1 ORDER BY payment_date DESC, id DESC`
	rows, err := r.db.Query(query, memberID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying payments for member %d: %v", ErrDatabaseError, memberID, err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.MemberID, &p.GymID, &p.Amount, &p.PaymentType,
			&p.PaymentDate, &p.Note, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: scanning payment: %v", ErrDatabaseError, err)
		}
		payments = append(payments, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating payment rows: %v", ErrDatabaseError, err)
	}
	return payments, nil
}

// SumAmountInPeriod totals payments with start <= payment_date < end.
func (r *paymentRepository) SumAmountInPeriod(gymID int64, start, end time.Time) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments
	          WHERE gym_id = $1 AND payment_date >= $2 AND payment_date < $3`
	if err := r.db.QueryRow(query, gymID, start, end).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: summing payments for gym %d: %v", ErrDatabaseError, gymID, err)
	}
	return total, nil
}

// SumAmountByTypeInPeriod totals one payment type with start <= payment_date < end.
func (r *paymentRepository) SumAmountByTypeInPeriod(gymID int64, paymentType string, start, end time.Time) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments
	          WHERE gym_id = $1 AND payment_type = $2 AND payment_date >= $3 AND payment_date < $4`
	if err := r.db.QueryRow(query, gymID, paymentType, start, end).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: summing %s payments for gym %d: %v", ErrDatabaseError, paymentType, gymID, err)
	}
	return total, nil
}

// SumAmountAllTime totals every payment a gym has ever recorded.
func (r *paymentRepository) SumAmountAllTime(gymID int64) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE gym_id = $1`
	if err := r.db.QueryRow(query, gymID).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: summing all payments for gym %d: %v", ErrDatabaseError, gymID, err)
	}
	return total, nil
}

// SumAmountByType totals one payment type across all time. Used for the
// ledger-accurate insurance revenue figure.
func (r *paymentRepository) SumAmountByType(gymID int64, paymentType string) (float64, error) {
	var total float64
	query := `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE gym_id = $1 AND payment_type = $2`
	if err := r.db.QueryRow(query, gymID, paymentType).Scan(&total); err != nil {
		return 0, fmt.Errorf("%w: summing %s payments for gym %d: %v", ErrDatabaseError, paymentType, gymID, err)
	}
	return total, nil
}
