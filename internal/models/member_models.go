package models

import "time"

// Member lifecycle statuses, derived from the current subscription's end date.
// Never persisted; recomputed on every read.
const (
	MemberStatusActive   = "active"
	MemberStatusExpiring = "expiring"
	MemberStatusExpired  = "expired"
)

// Insurance statuses for a member.
const (
	InsuranceActive = "active"
	InsuranceNone   = "none"
)

// Payment types recorded in the ledger.
const (
	PaymentInitialRegistration = "INITIAL_REGISTRATION"
	PaymentDebt                = "DEBT_PAYMENT"
	PaymentInsurance           = "INSURANCE_PAYMENT"
)

// Member represents a gym member and their ledger-derived fields.
// OutstandingBalance and TotalPaid are maintained atomically with the
// payments rows that justify them.
type Member struct {
	ID                  int64         `json:"id" db:"id"`
	GymID               int64         `json:"gym_id" db:"gym_id"`
	MemberID            int64         `json:"member_id" db:"member_id"` // per-gym sequential, never reused
	FirstName           string        `json:"first_name" db:"first_name"`
	LastName            string        `json:"last_name" db:"last_name"`
	Phone               string        `json:"phone" db:"phone"`
	Email               *string       `json:"email,omitempty" db:"email"`
	CniID               *string       `json:"cni_id,omitempty" db:"cni_id"`
	InsuranceStatus     string        `json:"insurance_status" db:"insurance_status"`
	InsuranceFee        float64       `json:"insurance_fee" db:"insurance_fee"`
	OutstandingBalance  float64       `json:"outstanding_balance" db:"outstanding_balance"`
	TotalPaid           float64       `json:"total_paid" db:"total_paid"`
	IsDeleted           bool          `json:"is_deleted" db:"is_deleted"`
	DeletedAt           *time.Time    `json:"deleted_at,omitempty" db:"deleted_at"`
	CreatedAt           time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time     `json:"updated_at" db:"updated_at"`
	CurrentSubscription *Subscription `json:"current_subscription,omitempty"`
	Status              string        `json:"status,omitempty"` // derived, see MemberStatus* constants
}

// Subscription is an immutable snapshot of a plan taken when the subscription
// starts. Later plan edits never change existing snapshots.
type Subscription struct {
	ID        int64     `json:"id" db:"id"`
	MemberID  int64     `json:"member_id" db:"member_id"`
	PlanID    int64     `json:"plan_id" db:"plan_id"`
	PlanName  string    `json:"plan_name" db:"plan_name"`
	Price     float64   `json:"price" db:"price"`
	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Payment is one append-only ledger entry. Entries are never edited or removed.
type Payment struct {
	ID          int64     `json:"id" db:"id"`
	MemberID    int64     `json:"member_id" db:"member_id"`
	GymID       int64     `json:"gym_id" db:"gym_id"`
	Amount      float64   `json:"amount" db:"amount"`
	PaymentType string    `json:"payment_type" db:"payment_type"`
	PaymentDate time.Time `json:"payment_date" db:"payment_date"`
	Note        *string   `json:"note,omitempty" db:"note"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Warning is a staff-recorded note against a member. Append-only.
type Warning struct {
	ID        int64     `json:"id" db:"id"`
	MemberID  int64     `json:"member_id" db:"member_id"`
	Message   string    `json:"message" db:"message"`
	AddedBy   string    `json:"added_by" db:"added_by"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
