package userController

import (
	"context"
	"errors"
	"strings"
	"time"

	"healthtrack/internal/apperrors"
	"healthtrack/internal/logger"
	. "healthtrack/internal/models"
	"healthtrack/internal/repositories"
	"healthtrack/internal/utils"
)

const (
	invalidCredentialsNotice = "Invalid credentials."
	sessionExpiredNotice     = "Please log in to continue."
)

type UserController struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	tokens      *utils.TokenManager
	log         logger.Logger
}

func New(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	tokens *utils.TokenManager,
) *UserController {
	return &UserController{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		tokens:      tokens,
		log:         logger.New("UserController"),
	}
}

// Register creates a patient or doctor account. Admin accounts are only
// created by the initialize command.
func (uc *UserController) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	log := uc.log.Function("Register")

	name := strings.TrimSpace(req.Name)
	email := NormalizeEmail(req.Email)
	if name == "" || email == "" || req.Password == "" {
		return nil, apperrors.Validation("Name, email and password are required.")
	}
	if !strings.Contains(email, "@") {
		return nil, apperrors.Validation("Please enter a valid email address.")
	}

	role := Role(strings.ToLower(strings.TrimSpace(req.Role)))
	if role == "" {
		role = RolePatient
	}
	if role != RolePatient && role != RoleDoctor {
		return nil, apperrors.Validation("Invalid role.")
	}

	exists, err := uc.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, log.Err("failed to check email", err)
	}
	if exists {
		return nil, apperrors.Duplicate("Email already registered")
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, log.Err("failed to hash password", err)
	}

	user := &User{Name: name, Email: email, PasswordHash: hash, Role: role}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.Duplicate("Email already registered")
		}
		return nil, log.Err("failed to create user", err)
	}

	log.Info("User registered", "userID", user.ID, "role", user.Role)
	return user, nil
}

// Authenticate checks credentials. Unknown email and wrong password fail
// the same way.
func (uc *UserController) Authenticate(ctx context.Context, email, password string) (*User, error) {
	log := uc.log.Function("Authenticate")

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.Unauthenticated(invalidCredentialsNotice)
		}
		return nil, log.Err("failed to look up user", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.Unauthenticated(invalidCredentialsNotice)
	}

	return user, nil
}

// Login authenticates and issues a session token.
func (uc *UserController) Login(ctx context.Context, req LoginRequest) (*User, string, error) {
	log := uc.log.Function("Login")

	user, err := uc.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, "", err
	}

	token, _, err := uc.tokens.Generate(user.ID, string(user.Role))
	if err != nil {
		return nil, "", log.Err("failed to issue session token", err, "userID", user.ID)
	}

	log.Info("User logged in", "userID", user.ID)
	return user, token, nil
}

// Authorize resolves a session token to its user. Expired, malformed and
// revoked tokens are all reported as unauthenticated.
func (uc *UserController) Authorize(ctx context.Context, token string) (*User, *utils.Claims, error) {
	log := uc.log.Function("Authorize")

	if token == "" {
		return nil, nil, apperrors.Unauthenticated(sessionExpiredNotice)
	}

	claims, err := uc.tokens.Validate(token)
	if err != nil {
		log.Debug("Rejected session token", "error", err)
		return nil, nil, apperrors.Unauthenticated(sessionExpiredNotice)
	}

	revoked, err := uc.sessionRepo.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, nil, log.Err("failed to check session revocation", err)
	}
	if revoked {
		return nil, nil, apperrors.Unauthenticated(sessionExpiredNotice)
	}

	userID, err := claims.UserID()
	if err != nil {
		log.Debug("Rejected session subject", "error", err)
		return nil, nil, apperrors.Unauthenticated(sessionExpiredNotice)
	}
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, apperrors.Unauthenticated(sessionExpiredNotice)
		}
		return nil, nil, log.Err("failed to load session user", err, "userID", userID)
	}

	return user, claims, nil
}

// Logout revokes the session for the rest of its lifetime.
func (uc *UserController) Logout(ctx context.Context, claims *utils.Claims) error {
	log := uc.log.Function("Logout")

	if claims == nil || claims.ID == "" {
		return nil
	}

	ttl := uc.tokens.TTL()
	if claims.ExpiresAt != nil {
		ttl = time.Until(claims.ExpiresAt.Time)
	}
	if ttl <= 0 {
		return nil
	}

	if err := uc.sessionRepo.Revoke(ctx, claims.ID, ttl); err != nil {
		return log.Err("failed to revoke session", err, "sessionID", claims.ID)
	}

	return nil
}

func (uc *UserController) GetByID(ctx context.Context, id int) (*User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFound("User not found.")
		}
		return nil, uc.log.Function("GetByID").Err("failed to get user", err, "id", id)
	}
	return user, nil
}

func (uc *UserController) ListDoctors(ctx context.Context) ([]User, error) {
	doctors, err := uc.userRepo.ListByRole(ctx, RoleDoctor)
	if err != nil {
		return nil, uc.log.Function("ListDoctors").Err("failed to list doctors", err)
	}
	return doctors, nil
}
