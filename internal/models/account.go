package models

import (
	"time"

	"github.com/google/uuid"
)

// Account is a registered user of the platform. Roles live in a separate
// table so one account can act as client and mechanic at once.
type Account struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	LastName     string     `db:"last_name" json:"last_name"`
	FirstName    string     `db:"first_name" json:"first_name"`
	MiddleName   *string    `db:"middle_name" json:"middle_name,omitempty"`
	Email        string     `db:"email" json:"email"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	ContactNo    *string    `db:"contact_no" json:"contact_no,omitempty"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	IsVerified   bool       `db:"is_verified" json:"is_verified"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// AccountRole is one held role of an account.
type AccountRole struct {
	ID          uuid.UUID `db:"id" json:"id"`
	AccountID   uuid.UUID `db:"account_id" json:"account_id"`
	Role        string    `db:"role" json:"role"`
	AppointedAt time.Time `db:"appointed_at" json:"appointed_at"`
}
