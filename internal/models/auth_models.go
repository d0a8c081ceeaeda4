package models

import "time"

// User roles. Roles are flat strings carried in the JWT; there is no role table.
const (
	RoleSuperAdmin = "super_admin"
	RoleOwner      = "owner"
	RoleStaff      = "staff"
)

// User represents a staff account. Owners and staff belong to exactly one gym;
// the super admin has no gym. GymName is a cached copy of the gym's name,
// refreshed best-effort when a rename request is approved.
type User struct {
	ID           int64     `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Email        *string   `json:"email,omitempty" db:"email"`
	FullName     *string   `json:"full_name,omitempty" db:"full_name"`
	Role         string    `json:"role" db:"role"`
	GymID        *int64    `json:"gym_id,omitempty" db:"gym_id"`
	GymName      *string   `json:"gym_name,omitempty" db:"gym_name"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
