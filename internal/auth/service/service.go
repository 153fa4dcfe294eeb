// Package service implements account registration and login.
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"convosell_backend/internal/auth/repository"
	"convosell_backend/internal/auth/token"
	"convosell_backend/internal/events"
	"convosell_backend/platform/apperr"
	"convosell_backend/platform/logger"
)

// Service implements signup, login, and profile lookup.
type Service struct {
	repo   *repository.Repository
	issuer *token.Issuer
	bus    events.Bus
	log    *logger.Logger
}

// New creates the auth service.
func New(repo *repository.Repository, issuer *token.Issuer, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, issuer: issuer, bus: bus, log: log}
}

// AuthResult is the outcome of a successful signup or login.
type AuthResult struct {
	User        *repository.User
	AccessToken string
}

// SignUp registers a new account and returns an access token.
func (s *Service) SignUp(ctx context.Context, email, password, fullName string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to hash password", err)
	}

	user, err := s.repo.Create(ctx, email, string(hash), strings.TrimSpace(fullName))
	if err != nil {
		return nil, err
	}

	accessToken, _, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to issue token", err)
	}

	s.log.AuthEvent("signup", user.Email, true, "")
	s.bus.Publish(ctx, events.UserSignedUp{
		BaseEvent: events.NewBaseEvent(),
		UserID:    user.ID,
		Email:     user.Email,
	})

	return &AuthResult{User: user, AccessToken: accessToken}, nil
}

// Login authenticates an account by email and password.
// Unknown email and wrong password return the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		s.log.AuthEvent("login", email, false, "unknown email")
		return nil, apperr.Unauthorized("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.AuthEvent("login", email, false, "wrong password")
		return nil, apperr.Unauthorized("invalid email or password")
	}

	accessToken, _, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "failed to issue token", err)
	}

	s.log.AuthEvent("login", email, true, "")
	return &AuthResult{User: user, AccessToken: accessToken}, nil
}

// Me returns the profile of the authenticated user.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*repository.User, error) {
	return s.repo.GetByID(ctx, userID)
}

// Verification is the outcome of a token check.
type Verification struct {
	Valid  bool
	UserID uuid.UUID
	Email  string
	Reason string
}

// Verify checks a raw access token without requiring authentication, so
// clients can validate stored tokens before making other requests. An
// invalid token is reported in the result, not as an error.
func (s *Service) Verify(tokenString string) *Verification {
	claims, err := s.issuer.Parse(tokenString)
	if err != nil {
		return &Verification{Valid: false, Reason: "invalid or expired token"}
	}
	return &Verification{Valid: true, UserID: claims.UserID, Email: claims.Email}
}
