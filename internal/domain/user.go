package domain

import (
	"fmt"
	"strings"
	"time"
)

// UserStatus represents lifecycle states for a resident account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusDisabled  UserStatus = "disabled"
)

// ParseUserStatus validates a status string.
func ParseUserStatus(raw string) (UserStatus, error) {
	status := UserStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch status {
	case UserStatusActive, UserStatusSuspended, UserStatusDisabled:
		return status, nil
	}
	return "", fmt.Errorf("unknown user status %q", raw)
}

// Blocked reports whether the status forbids resident operations.
func (s UserStatus) Blocked() bool {
	return s == UserStatusSuspended || s == UserStatusDisabled
}

// UnmarshalText defaults missing or legacy "undefined" values to active.
func (s *UserStatus) UnmarshalText(text []byte) error {
	raw := strings.TrimSpace(string(text))
	if raw == "" || raw == "undefined" {
		*s = UserStatusActive
		return nil
	}
	parsed, err := ParseUserStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// User is a registered resident.
type User struct {
	ID           string     `json:"id"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	PasswordHash string     `json:"password_hash"`
	Address      string     `json:"address"`
	Barangay     string     `json:"barangay,omitempty"`
	City         string     `json:"city,omitempty"`
	Province     string     `json:"province,omitempty"`
	ZipCode      string     `json:"zip_code,omitempty"`
	BirthDate    *time.Time `json:"birth_date,omitempty"`
	Gender       string     `json:"gender,omitempty"`
	Status       UserStatus `json:"status"`
	ProfileImage *string    `json:"profile_image,omitempty"`
	RegisteredAt time.Time  `json:"registered_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
