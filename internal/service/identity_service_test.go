package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/docrequest-service/internal/domain"
	"github.com/spec-kit/docrequest-service/pkg/util"
)

func TestRegisterCreatesActiveResident(t *testing.T) {
	f := newFixture(t)
	user, err := f.identity.Register(context.Background(), registerInput("Ana", " ana@example.com "))
	require.NoError(t, err)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.Equal(t, domain.UserStatusActive, user.Status)
	assert.Equal(t, "hashed:secret1", user.PasswordHash)
	assert.Equal(t, f.now, user.RegisteredAt)
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	mismatch := registerInput("Ana", "ana@example.com")
	mismatch.ConfirmPassword = "other"
	_, err := f.identity.Register(ctx, mismatch)
	require.True(t, util.HasCode(err, util.CodeValidation))
	assert.Contains(t, util.ToDomainError(err).Details, "confirm_password")

	badPhone := registerInput("Ana", "ana@example.com")
	badPhone.Phone = "abc"
	_, err = f.identity.Register(ctx, badPhone)
	require.True(t, util.HasCode(err, util.CodeValidation))
	assert.Contains(t, util.ToDomainError(err).Details, "phone")

	minor := registerInput("Ana", "ana@example.com")
	birth := time.Date(2007, 6, 16, 0, 0, 0, 0, time.UTC)
	minor.BirthDate = &birth
	_, err = f.identity.Register(ctx, minor)
	require.True(t, util.HasCode(err, util.CodeValidation))
	assert.Contains(t, util.ToDomainError(err).Details, "birth_date")

	adult := registerInput("Ana", "ana@example.com")
	birthday := time.Date(2006, 6, 15, 0, 0, 0, 0, time.UTC)
	adult.BirthDate = &birthday
	_, err = f.identity.Register(ctx, adult)
	require.NoError(t, err)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.resident(t, "Ana", "ana@example.com")

	_, err := f.identity.Register(context.Background(), registerInput("Ann", "ANA@example.com"))
	assert.True(t, util.HasCode(err, util.CodeConflict))
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	user, _ := f.resident(t, "Ana", "ana@example.com")

	got, session, err := f.identity.Login(ctx, "Ana@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, domain.Session{SubjectID: user.ID, Role: domain.RoleResident}, *session)

	_, _, err = f.identity.Login(ctx, "ana@example.com", "wrong")
	assert.True(t, util.HasCode(err, util.CodeUnauthenticated))

	_, _, err = f.identity.Login(ctx, "nobody@example.com", "secret1")
	assert.True(t, util.HasCode(err, util.CodeUnauthenticated))

	_, err = f.accounts.SetUserStatus(ctx, adminSession, user.ID, domain.UserStatusSuspended)
	require.NoError(t, err)
	_, _, err = f.identity.Login(ctx, "ana@example.com", "secret1")
	assert.True(t, util.HasCode(err, util.CodeAccountDisabled))
}

func TestAdminLogin(t *testing.T) {
	f := newFixture(t)

	session, err := f.identity.AdminLogin("admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, session.Role)
	assert.Equal(t, AdminSubjectID, session.SubjectID)

	_, err = f.identity.AdminLogin("admin", "nope")
	assert.True(t, util.HasCode(err, util.CodeUnauthenticated))

	disabled := NewIdentityService(IdentityDependencies{UserRepo: f.userRepo, Hasher: plainHasher{}})
	_, err = disabled.AdminLogin("", "")
	assert.True(t, util.HasCode(err, util.CodeUnauthenticated))
}

func TestRequireRoles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, session := f.resident(t, "Ana", "ana@example.com")

	_, err := f.identity.RequireAdmin(ctx, session)
	assert.True(t, util.HasCode(err, util.CodeUnauthenticated))

	_, err = f.identity.RequireResident(ctx, adminSession)
	assert.True(t, util.HasCode(err, util.CodeUnauthenticated))

	_, err = f.identity.RequireResident(ctx, &domain.Session{SubjectID: "gone", Role: domain.RoleResident})
	assert.True(t, util.HasCode(err, util.CodeUnauthenticated))

	actor, err := f.identity.RequireResident(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, "Ana Reyes", actor.Name)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, session := f.resident(t, "Ana", "ana@example.com")
	f.resident(t, "Ben", "ben@example.com")

	updated, err := f.identity.UpdateProfile(ctx, session, ProfileInput{City: strPtr(" Quezon City ")})
	require.NoError(t, err)
	assert.Equal(t, "Quezon City", updated.City)
	assert.Equal(t, "Ana", updated.FirstName)

	_, err = f.identity.UpdateProfile(ctx, session, ProfileInput{FirstName: strPtr("  ")})
	assert.True(t, util.HasCode(err, util.CodeValidation))

	_, err = f.identity.UpdateProfile(ctx, session, ProfileInput{Email: strPtr("ben@example.com")})
	assert.True(t, util.HasCode(err, util.CodeConflict))

	_, err = f.identity.UpdateProfile(ctx, session, ProfileInput{CurrentPassword: "wrong", NewPassword: "secret2"})
	assert.True(t, util.HasCode(err, util.CodeValidation))

	_, err = f.identity.UpdateProfile(ctx, session, ProfileInput{CurrentPassword: "secret1", NewPassword: "secret2"})
	require.NoError(t, err)
	_, _, err = f.identity.Login(ctx, "ana@example.com", "secret2")
	assert.NoError(t, err)
}

func TestSetProfileImage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, session := f.resident(t, "Ana", "ana@example.com")

	user, err := f.identity.SetProfileImage(ctx, session, "avatars/ana.png")
	require.NoError(t, err)
	require.NotNil(t, user.ProfileImage)
	assert.Equal(t, "avatars/ana.png", *user.ProfileImage)

	user, err = f.identity.SetProfileImage(ctx, session, "")
	require.NoError(t, err)
	assert.Nil(t, user.ProfileImage)
}

func TestAgeAt(t *testing.T) {
	now := time.Date(2024, 2, 28, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 17, ageAt(time.Date(2006, 3, 1, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 18, ageAt(time.Date(2006, 2, 28, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 19, ageAt(time.Date(2004, 2, 29, 0, 0, 0, 0, time.UTC), now))
}
