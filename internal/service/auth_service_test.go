package service

import (
	"context"
	"testing"
	"time"

	"github.com/tarun8668/fit-pal-gemini-ai/internal/domain"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret"

func newAuthFixture() (AuthService, *fakeUserRepo) {
	repo := newFakeUserRepo()
	clock := &domain.FixedClock{At: time.Now()}
	return NewAuthService(repo, clock, testJWTSecret, time.Hour), repo
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	svc, repo := newAuthFixture()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Asha", " Asha@Example.com ", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Empty(t, user.PasswordHash)
	assert.NotEqual(t, "correct-horse", repo.users["asha@example.com"].PasswordHash)

	token, loggedIn, err := svc.Login(ctx, "ASHA@example.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testJWTSecret), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, user.ID.Hex(), claims.UserID)

	me, err := svc.Me(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Asha", me.Name)
	assert.Empty(t, me.PasswordHash)
}

func TestAuthService_RegisterDuplicate(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Asha", "asha@example.com", "correct-horse")
	require.NoError(t, err)
	_, err = svc.Register(ctx, "Other", "ASHA@example.com", "another-pass")
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestAuthService_RegisterValidation(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	for _, tc := range []struct{ name, email, password string }{
		{"", "a@example.com", "long-enough"},
		{"A", "not-an-email", "long-enough"},
		{"A", "a@example.com", "short"},
	} {
		_, err := svc.Register(ctx, tc.name, tc.email, tc.password)
		assert.ErrorIs(t, err, ErrInvalidRegistration, "%+v", tc)
	}
}

func TestAuthService_LoginFailures(t *testing.T) {
	svc, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Asha", "asha@example.com", "correct-horse")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "asha@example.com", "wrong-horse")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = svc.Login(ctx, "nobody@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
	_, _, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}
