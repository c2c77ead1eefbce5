package models

import (
	"time"
)

// Account status values. Registration creates an unverified account,
// email verification moves it to active, only an administrator moves
// it to blocked.
const (
	StatusUnverified = "unverified"
	StatusActive     = "active"
	StatusBlocked    = "blocked"
)

// ValidStatus reports whether s is one of the known account statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusUnverified, StatusActive, StatusBlocked:
		return true
	}
	return false
}

type User struct {
	ID                int64
	Name              string
	Email             string
	PasswordHash      string
	Status            string
	VerificationToken *string    // non-nil only while status is unverified
	RegistrationTime  time.Time
	LastLoginTime     *time.Time // nil until the first successful login
}

// UserSummary is the outward-facing projection of a user row. It never
// carries the password hash or the verification token.
type UserSummary struct {
	ID               int64      `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email"`
	Status           string     `json:"status"`
	RegistrationTime time.Time  `json:"registration_time"`
	LastLoginTime    *time.Time `json:"last_login_time"`
}
