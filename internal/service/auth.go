// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes the database
//
// Services accept primitives and small input structs, never *http.Request,
// and return domain errors (apperror), never status codes. The handler
// translates both directions.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sabdelkhalek/studyplanner/internal/apperror"
	"github.com/sabdelkhalek/studyplanner/internal/auth"
	"github.com/sabdelkhalek/studyplanner/internal/model"
	"github.com/sabdelkhalek/studyplanner/internal/repository"
)

// MinPasswordLength is the minimum accepted password length, enforced at
// registration and at password change.
const MinPasswordLength = 6

// loginFailedMessage is the single message returned for EVERY login failure:
// missing fields, unknown email, wrong password. Differentiating them would
// let an attacker probe which emails are registered.
const loginFailedMessage = "incorrect email or password"

// AuthService handles registration, login, token refresh, and profile
// management.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users      repository.UserRepository → read/write user records
//   - tokens     *auth.TokenService        → issue/verify JWTs
//   - passwords  *auth.PasswordService     → bcrypt hashing
//   - logger     *slog.Logger              → structured logging
//
// The service holds no cross-request state, so one instance serves all
// requests concurrently.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Called from the composition root in server.go.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user with a freshly issued token pair, so the
// handler can respond in one step.
type AuthResult struct {
	User         *model.User
	AccessToken  string
	RefreshToken string
}

// RegisterInput carries the registration fields. GivenName, Level, and
// Language are optional; Language defaults to "fr".
type RegisterInput struct {
	Name      string
	GivenName string
	Email     string
	Password  string
	Level     string
	Language  string
}

// Register creates a new account and issues its first token pair.
//
// Validation: name, email, and password are required; the password must be
// at least MinPasswordLength characters. A taken email fails with a
// Conflict error — the GetByEmail pre-check gives a clean error message in
// the common case, and the UNIQUE constraint in the repository catches the
// race when two registrations with the same email run concurrently. Both
// paths return the same Conflict.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, apperror.ValidationFailed("", "name, email and password are required")
	}
	if len(in.Password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	// Pre-check: friendlier than surfacing a constraint violation, but the
	// constraint remains the guarantee.
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, apperror.Conflict("a user with this email already exists")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking email: %w", err)
	}

	hash, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	language := in.Language
	if language == "" {
		language = "fr"
	}

	user := &model.User{
		Name:         in.Name,
		GivenName:    strings.TrimSpace(in.GivenName),
		Email:        in.Email,
		PasswordHash: hash,
		Level:        strings.TrimSpace(in.Level),
		Language:     language,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			// Lost the race against a concurrent registration
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)

	return s.issueTokens(user)
}

// Login authenticates by email and password and issues a fresh token pair.
// Previously issued tokens stay valid — there is no server-side session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, apperror.Unauthorized(loginFailedMessage)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized(loginFailedMessage)
		}
		return nil, fmt.Errorf("service/auth: looking up user: %w", err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, apperror.Unauthorized(loginFailedMessage)
	}

	s.logger.Info("user logged in", slog.Int64("userID", user.ID))

	return s.issueTokens(user)
}

// RefreshAccessToken mints a new access token for a user whose refresh
// token already passed the middleware. Refresh tokens are not rotated.
func (s *AuthService) RefreshAccessToken(ctx context.Context, userID int64) (string, error) {
	// The subject must still exist — a deleted account's refresh token
	// should stop working even without a revocation list.
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return "", apperror.Unauthorized("valid authentication required")
		}
		return "", fmt.Errorf("service/auth: looking up user %d: %w", userID, err)
	}

	token, err := s.tokens.IssueAccess(userID)
	if err != nil {
		return "", fmt.Errorf("service/auth: issuing access token: %w", err)
	}
	return token, nil
}

// GetUserByID returns the user for the given internal ID. Numeric-string
// IDs from JWT subjects are parsed at the token boundary, so the service
// works in int64 only.
func (s *AuthService) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ProfileUpdate lists the fields a user may change about themselves.
// Nil means "leave unchanged". Email and password are deliberately not
// here — email is immutable, passwords go through ChangePassword.
type ProfileUpdate struct {
	Name      *string
	GivenName *string
	Level     *string
	Language  *string
}

// UpdateProfile applies the whitelisted fields and returns the updated user.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperror.ValidationFailed("name", "name must not be empty")
		}
		user.Name = name
	}
	if update.GivenName != nil {
		user.GivenName = strings.TrimSpace(*update.GivenName)
	}
	if update.Level != nil {
		user.Level = strings.TrimSpace(*update.Level)
	}
	if update.Language != nil {
		user.Language = strings.TrimSpace(*update.Language)
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: updating profile of user %d: %w", userID, err)
	}

	s.logger.Info("profile updated", slog.Int64("userID", userID))

	return user, nil
}

// ChangePassword verifies the old password and stores a hash of the new one.
// Outstanding tokens are NOT invalidated — they age out on their own.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.passwords.Verify(user.PasswordHash, oldPassword); err != nil {
		return apperror.Unauthorized("old password is incorrect")
	}

	if len(newPassword) < MinPasswordLength {
		return apperror.ValidationFailed("new_password",
			fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("service/auth: hashing new password: %w", err)
	}
	user.PasswordHash = hash

	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("service/auth: saving new password for user %d: %w", userID, err)
	}

	s.logger.Info("password changed", slog.Int64("userID", userID))

	return nil
}

func (s *AuthService) issueTokens(user *model.User) (*AuthResult, error) {
	access, err := s.tokens.IssueAccess(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing access token: %w", err)
	}
	refresh, err := s.tokens.IssueRefresh(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing refresh token: %w", err)
	}

	return &AuthResult{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}
