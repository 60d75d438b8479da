package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/docrequest-service/internal/domain"
	"github.com/spec-kit/docrequest-service/internal/repository"
	"github.com/spec-kit/docrequest-service/pkg/util"
)

// AdminSubjectID is the subject carried by administrator sessions.
const AdminSubjectID = "admin"

const minimumAge = 18

// CredentialHasher hashes and verifies resident passwords.
type CredentialHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}

// AdminCredentials is the configured administrator login.
type AdminCredentials struct {
	Username string
	Password string
}

// IdentityService resolves sessions into actors and owns resident accounts.
type IdentityService struct {
	users  repository.UserRepository
	hasher CredentialHasher
	admin  AdminCredentials
	logger *zap.Logger
	now    Clock
}

// IdentityDependencies bundles collaborators for the identity service.
type IdentityDependencies struct {
	UserRepo repository.UserRepository
	Hasher   CredentialHasher
	Admin    AdminCredentials
	Logger   *zap.Logger
	Now      Clock
}

// NewIdentityService constructs the service.
func NewIdentityService(deps IdentityDependencies) *IdentityService {
	return &IdentityService{
		users:  deps.UserRepo,
		hasher: deps.Hasher,
		admin:  deps.Admin,
		logger: loggerOrNop(deps.Logger),
		now:    clockOrDefault(deps.Now),
	}
}

// ResolveActor turns a session into an actor carrying the account's current status.
func (s *IdentityService) ResolveActor(ctx context.Context, session *domain.Session) (*domain.Actor, error) {
	if !session.Valid() {
		return nil, util.NewUnauthenticated("no valid session")
	}
	if session.Role == domain.RoleAdmin {
		return &domain.Actor{ID: session.SubjectID, Role: domain.RoleAdmin, Status: domain.UserStatusActive, Name: "Administrator"}, nil
	}

	user, err := s.users.GetByID(ctx, session.SubjectID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, util.NewUnauthenticated("session user no longer exists")
	}
	if err != nil {
		return nil, err
	}
	status := user.Status
	if status == "" {
		status = domain.UserStatusActive
	}
	return &domain.Actor{ID: user.ID, Role: domain.RoleResident, Status: status, Name: user.FullName()}, nil
}

// RequireResident re-reads the account on every call so status changes made
// after login are observed.
func (s *IdentityService) RequireResident(ctx context.Context, session *domain.Session) (*domain.Actor, error) {
	if session.Valid() && session.Role != domain.RoleResident {
		return nil, util.NewUnauthenticated("resident session required")
	}
	actor, err := s.ResolveActor(ctx, session)
	if err != nil {
		return nil, err
	}
	if actor.Status.Blocked() {
		return nil, util.NewAccountDisabled(string(actor.Status))
	}
	return actor, nil
}

// RequireAdmin fails unless the session belongs to an administrator.
func (s *IdentityService) RequireAdmin(ctx context.Context, session *domain.Session) (*domain.Actor, error) {
	if !session.Valid() || session.Role != domain.RoleAdmin {
		return nil, util.NewUnauthenticated("admin session required")
	}
	return s.ResolveActor(ctx, session)
}

// RegisterInput describes a resident sign-up.
type RegisterInput struct {
	FirstName       string     `json:"first_name" validate:"notblank"`
	LastName        string     `json:"last_name" validate:"notblank"`
	Email           string     `json:"email" validate:"required,email"`
	Phone           string     `json:"phone" validate:"required,phone"`
	Address         string     `json:"address" validate:"notblank"`
	Barangay        string     `json:"barangay"`
	City            string     `json:"city"`
	Province        string     `json:"province"`
	ZipCode         string     `json:"zip_code"`
	BirthDate       *time.Time `json:"birth_date"`
	Gender          string     `json:"gender"`
	Password        string     `json:"password" validate:"required,min=6"`
	ConfirmPassword string     `json:"confirm_password" validate:"required,eqfield=Password"`
}

// Register creates an active resident account.
func (s *IdentityService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := util.ValidateStruct(input); err != nil {
		return nil, err
	}
	now := s.now()
	if input.BirthDate != nil && ageAt(*input.BirthDate, now) < minimumAge {
		return nil, util.NewValidationError("validation failed", map[string]any{"birth_date": "must be at least 18 years old"})
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, util.NewInternalError(err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Email:        input.Email,
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		Address:      strings.TrimSpace(input.Address),
		Barangay:     strings.TrimSpace(input.Barangay),
		City:         strings.TrimSpace(input.City),
		Province:     strings.TrimSpace(input.Province),
		ZipCode:      strings.TrimSpace(input.ZipCode),
		BirthDate:    input.BirthDate,
		Gender:       strings.TrimSpace(input.Gender),
		Status:       domain.UserStatusActive,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, util.NewConflict("email already registered", map[string]any{"email": user.Email})
		}
		return nil, err
	}
	s.logger.Info("resident registered", zap.String("user_id", user.ID))
	return user, nil
}

// Login verifies resident credentials. Blocked accounts cannot sign in.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*domain.User, *domain.Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil, util.NewUnauthenticated("invalid credentials")
	}
	if err != nil {
		return nil, nil, err
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, nil, util.NewUnauthenticated("invalid credentials")
	}
	if user.Status.Blocked() {
		return nil, nil, util.NewAccountDisabled(string(user.Status))
	}
	return user, &domain.Session{SubjectID: user.ID, Role: domain.RoleResident}, nil
}

// AdminLogin checks the configured administrator credentials.
func (s *IdentityService) AdminLogin(username, password string) (*domain.Session, error) {
	if s.admin.Username == "" || s.admin.Password == "" {
		return nil, util.NewUnauthenticated("admin login disabled")
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.admin.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	if !userOK || !passOK {
		return nil, util.NewUnauthenticated("invalid credentials")
	}
	return &domain.Session{SubjectID: AdminSubjectID, Role: domain.RoleAdmin}, nil
}

// ProfileInput carries optional profile changes; nil fields are left untouched.
type ProfileInput struct {
	FirstName       *string    `json:"first_name"`
	LastName        *string    `json:"last_name"`
	Email           *string    `json:"email"`
	Phone           *string    `json:"phone"`
	Address         *string    `json:"address"`
	Barangay        *string    `json:"barangay"`
	City            *string    `json:"city"`
	Province        *string    `json:"province"`
	ZipCode         *string    `json:"zip_code"`
	BirthDate       *time.Time `json:"birth_date"`
	Gender          *string    `json:"gender"`
	CurrentPassword string     `json:"current_password"`
	NewPassword     string     `json:"new_password"`
}

// Me returns the resident's own account.
func (s *IdentityService) Me(ctx context.Context, session *domain.Session) (*domain.User, error) {
	actor, err := s.RequireResident(ctx, session)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, notFound(err, "user", map[string]any{"user_id": actor.ID})
	}
	return user, nil
}

// UpdateProfile applies profile edits. A password change requires the current password.
func (s *IdentityService) UpdateProfile(ctx context.Context, session *domain.Session, input ProfileInput) (*domain.User, error) {
	actor, err := s.RequireResident(ctx, session)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	requireText := func(name string, v *string) {
		if v != nil && strings.TrimSpace(*v) == "" {
			fields[name] = "is required"
		}
	}
	requireText("first_name", input.FirstName)
	requireText("last_name", input.LastName)
	requireText("address", input.Address)
	if input.Email != nil && !util.ValidEmail(strings.TrimSpace(*input.Email)) {
		fields["email"] = "is invalid"
	}
	if input.Phone != nil && !util.ValidPhone(strings.TrimSpace(*input.Phone)) {
		fields["phone"] = "is invalid"
	}
	if input.BirthDate != nil && ageAt(*input.BirthDate, s.now()) < minimumAge {
		fields["birth_date"] = "must be at least 18 years old"
	}
	if input.NewPassword != "" && len(input.NewPassword) < 6 {
		fields["new_password"] = "is invalid"
	}
	if len(fields) > 0 {
		return nil, util.NewValidationError("validation failed", fields)
	}

	if input.Email != nil {
		email := strings.TrimSpace(*input.Email)
		existing, err := s.users.GetByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != actor.ID:
			return nil, util.NewConflict("email already registered", map[string]any{"email": email})
		case err != nil && !errors.Is(err, repository.ErrNotFound):
			return nil, err
		}
	}

	var newHash string
	if input.NewPassword != "" {
		current, err := s.users.GetByID(ctx, actor.ID)
		if err != nil {
			return nil, notFound(err, "user", map[string]any{"user_id": actor.ID})
		}
		if err := s.hasher.Compare(current.PasswordHash, input.CurrentPassword); err != nil {
			return nil, util.NewValidationError("validation failed", map[string]any{"current_password": "is incorrect"})
		}
		if newHash, err = s.hasher.Hash(input.NewPassword); err != nil {
			return nil, util.NewInternalError(err)
		}
	}

	updated, err := s.users.Update(ctx, actor.ID, func(u *domain.User) error {
		assignTrimmed(&u.FirstName, input.FirstName)
		assignTrimmed(&u.LastName, input.LastName)
		assignTrimmed(&u.Email, input.Email)
		assignTrimmed(&u.Phone, input.Phone)
		assignTrimmed(&u.Address, input.Address)
		assignTrimmed(&u.Barangay, input.Barangay)
		assignTrimmed(&u.City, input.City)
		assignTrimmed(&u.Province, input.Province)
		assignTrimmed(&u.ZipCode, input.ZipCode)
		assignTrimmed(&u.Gender, input.Gender)
		if input.BirthDate != nil {
			u.BirthDate = input.BirthDate
		}
		if newHash != "" {
			u.PasswordHash = newHash
		}
		u.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, notFound(err, "user", map[string]any{"user_id": actor.ID})
	}
	return updated, nil
}

// SetProfileImage stores an opaque image reference; an empty reference clears it.
func (s *IdentityService) SetProfileImage(ctx context.Context, session *domain.Session, reference string) (*domain.User, error) {
	actor, err := s.RequireResident(ctx, session)
	if err != nil {
		return nil, err
	}
	reference = strings.TrimSpace(reference)
	updated, err := s.users.Update(ctx, actor.ID, func(u *domain.User) error {
		if reference == "" {
			u.ProfileImage = nil
		} else {
			u.ProfileImage = &reference
		}
		u.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, notFound(err, "user", map[string]any{"user_id": actor.ID})
	}
	return updated, nil
}

func assignTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}

func ageAt(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}
