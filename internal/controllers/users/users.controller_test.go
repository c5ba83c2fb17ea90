package userController

import (
	"context"
	"net/http"
	"testing"
	"time"

	"healthtrack/config"
	"healthtrack/internal/apperrors"
	"healthtrack/internal/database"
	. "healthtrack/internal/models"
	"healthtrack/internal/repositories"
	"healthtrack/internal/utils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newController(t *testing.T) *UserController {
	t.Helper()
	db, err := database.New(config.Config{DatabaseDbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return New(
		repositories.New(db),
		repositories.NewMemorySession(),
		utils.NewTokenManager("test-secret", time.Hour),
	)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	uc := newController(t)

	user, err := uc.Register(ctx, RegisterRequest{Name: "Alice", Email: "alice@x.com", Password: "pw123"})
	require.NoError(t, err)
	assert.Equal(t, RolePatient, user.Role)
	assert.NotEqual(t, "pw123", user.PasswordHash)
	assert.True(t, utils.CheckPasswordHash("pw123", user.PasswordHash))

	loggedIn, token, err := uc.Login(ctx, LoginRequest{Email: "alice@x.com", Password: "pw123"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token)

	authorized, claims, err := uc.Authorize(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authorized.ID)
	assert.Equal(t, string(RolePatient), claims.Role)
}

func TestRegister_DuplicateEmailIgnoresCase(t *testing.T) {
	ctx := context.Background()
	uc := newController(t)

	_, err := uc.Register(ctx, RegisterRequest{Name: "A", Email: "A@x.com", Password: "pw"})
	require.NoError(t, err)

	_, err = uc.Register(ctx, RegisterRequest{Name: "B", Email: "a@x.com", Password: "pw"})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	status, notice := apperrors.Present(err)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "Email already registered", notice)

	doctors, err := uc.ListDoctors(ctx)
	require.NoError(t, err)
	assert.Empty(t, doctors)
}

func TestRegister_Validation(t *testing.T) {
	uc := newController(t)

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"missing name", RegisterRequest{Email: "a@x.com", Password: "pw"}},
		{"missing email", RegisterRequest{Name: "A", Password: "pw"}},
		{"missing password", RegisterRequest{Name: "A", Email: "a@x.com"}},
		{"malformed email", RegisterRequest{Name: "A", Email: "ax.com", Password: "pw"}},
		{"admin role", RegisterRequest{Name: "A", Email: "a@x.com", Password: "pw", Role: "admin"}},
		{"unknown role", RegisterRequest{Name: "A", Email: "a@x.com", Password: "pw", Role: "nurse"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Register(context.Background(), tt.req)
			assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
		})
	}
}

func TestRegister_Doctor(t *testing.T) {
	ctx := context.Background()
	uc := newController(t)

	doctor, err := uc.Register(ctx, RegisterRequest{Name: "Dr. Who", Email: "who@x.com", Password: "pw", Role: "Doctor"})
	require.NoError(t, err)
	assert.Equal(t, RoleDoctor, doctor.Role)

	doctors, err := uc.ListDoctors(ctx)
	require.NoError(t, err)
	require.Len(t, doctors, 1)
	assert.Equal(t, doctor.ID, doctors[0].ID)
}

func TestAuthenticate_GenericFailure(t *testing.T) {
	ctx := context.Background()
	uc := newController(t)
	_, err := uc.Register(ctx, RegisterRequest{Name: "Alice", Email: "alice@x.com", Password: "pw123"})
	require.NoError(t, err)

	_, wrongPassword := uc.Authenticate(ctx, "alice@x.com", "nope")
	_, unknownEmail := uc.Authenticate(ctx, "bob@x.com", "pw123")

	for _, err := range []error{wrongPassword, unknownEmail} {
		status, notice := apperrors.Present(err)
		assert.Equal(t, http.StatusUnauthorized, status)
		assert.Equal(t, "Invalid credentials.", notice)
	}

	user, err := uc.Authenticate(ctx, " ALICE@x.com", "pw123")
	require.NoError(t, err)
	assert.Equal(t, "alice@x.com", user.Email)
}

func TestLogout_RevokesSession(t *testing.T) {
	ctx := context.Background()
	uc := newController(t)
	_, err := uc.Register(ctx, RegisterRequest{Name: "Alice", Email: "alice@x.com", Password: "pw123"})
	require.NoError(t, err)

	_, token, err := uc.Login(ctx, LoginRequest{Email: "alice@x.com", Password: "pw123"})
	require.NoError(t, err)
	_, claims, err := uc.Authorize(ctx, token)
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx, claims))

	_, _, err = uc.Authorize(ctx, token)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))

	assert.NoError(t, uc.Logout(ctx, nil))
}

func TestAuthorize_RejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	uc := newController(t)

	_, _, err := uc.Authorize(ctx, "")
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))

	_, _, err = uc.Authorize(ctx, "not-a-token")
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))

	other := utils.NewTokenManager("other-secret", time.Hour)
	forged, _, err := other.Generate(1, "patient")
	require.NoError(t, err)
	_, _, err = uc.Authorize(ctx, forged)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err))

	orphan, _, err := uc.tokens.Generate(999, "patient")
	require.NoError(t, err)
	_, _, err = uc.Authorize(ctx, orphan)
	assert.Equal(t, apperrors.KindUnauthenticated, apperrors.KindOf(err), "deleted users lose their session")
}

func TestAuthorize_RejectsNonNumericSubject(t *testing.T) {
	ctx := context.Background()
	uc := newController(t)

	_, err := uc.Register(ctx, RegisterRequest{Name: "Alice", Email: "alice@x.com", Password: "pw123"})
	require.NoError(t, err)

	now := time.Now()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &utils.Claims{
		Role: "patient",
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        "session-1",
			Subject:   "alice",
			Issuer:    "healthtrack",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	user, claims, err := uc.Authorize(ctx, signed)
	assert.Nil(t, user)
	assert.Nil(t, claims)
	status, notice := apperrors.Present(err)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, sessionExpiredNotice, notice)
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	uc := newController(t)

	_, err := uc.GetByID(ctx, 1)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))

	user, err := uc.Register(ctx, RegisterRequest{Name: "Alice", Email: "alice@x.com", Password: "pw123"})
	require.NoError(t, err)
	found, err := uc.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", found.Name)
}
