package dto

import (
	"time"

	"github.com/spec-kit/docrequest-service/internal/domain"
)

// UserLoginRequest payload for resident login.
type UserLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminLoginRequest payload for administrator login.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UserResponse is the public shape of an account. The password hash never leaves the service.
type UserResponse struct {
	ID           string            `json:"id"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	FullName     string            `json:"full_name"`
	Email        string            `json:"email"`
	Phone        string            `json:"phone"`
	Address      string            `json:"address"`
	Barangay     string            `json:"barangay,omitempty"`
	City         string            `json:"city,omitempty"`
	Province     string            `json:"province,omitempty"`
	ZipCode      string            `json:"zip_code,omitempty"`
	BirthDate    *time.Time        `json:"birth_date,omitempty"`
	Gender       string            `json:"gender,omitempty"`
	Status       domain.UserStatus `json:"status"`
	ProfileImage *string           `json:"profile_image,omitempty"`
	RegisteredAt time.Time         `json:"registered_at"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		FullName:     u.FullName(),
		Email:        u.Email,
		Phone:        u.Phone,
		Address:      u.Address,
		Barangay:     u.Barangay,
		City:         u.City,
		Province:     u.Province,
		ZipCode:      u.ZipCode,
		BirthDate:    u.BirthDate,
		Gender:       u.Gender,
		Status:       u.Status,
		ProfileImage: u.ProfileImage,
		RegisteredAt: u.RegisteredAt,
	}
}

// NewUserResponses maps a slice of users.
func NewUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}

// StatusRequest carries a new status for users or personnel.
type StatusRequest struct {
	Status string `json:"status"`
}

// ProfileImageRequest sets or clears the profile image reference.
type ProfileImageRequest struct {
	ProfileImage *string `json:"profile_image"`
}
