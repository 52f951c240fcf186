package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Fingel/fastastro/internal/auth"
	"github.com/Fingel/fastastro/internal/config"
	"github.com/Fingel/fastastro/internal/email"
	"github.com/Fingel/fastastro/internal/logger"
	"github.com/Fingel/fastastro/internal/models"
	"github.com/Fingel/fastastro/internal/repositories"
	"github.com/Fingel/fastastro/internal/services/dto"
	"github.com/Fingel/fastastro/pkg/apperrors"
)

// AuthService implements registration, login and the email-driven
// account flows (verification, password reset).
type AuthService struct {
	users      repositories.UserRepository
	tokens     *auth.TokenService
	dispatcher *email.Dispatcher
	cfg        *config.Config
}

func NewAuthService(users repositories.UserRepository, tokens *auth.TokenService, dispatcher *email.Dispatcher, cfg *config.Config) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		dispatcher: dispatcher,
		cfg:        cfg,
	}
}

// Register creates an inactive-verification user and sends the
// confirmation mail. Duplicate emails are rejected before any mail
// is enqueued.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserResponse, error) {
	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		HashedPassword: hashed,
		IsActive:       true,
	}
	if err := s.users.Create(user); err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrDuplicateValue("email", req.Email)
		}
		return nil, apperrors.InternalError(err)
	}

	s.sendVerificationEmail(ctx, user)

	logger.CtxInfo(ctx, "user registered", "email", user.Email)
	return dto.NewUserResponse(user), nil
}

// Login checks the credentials and returns a session token. Every
// failure mode maps to the same credentials error.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.users.FindByEmail(req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	ok, err := auth.CheckPasswordHash(req.Password, user.HashedPassword)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	if !ok || !user.IsActive {
		return nil, apperrors.ErrInvalidCredentials
	}

	ttl := time.Duration(s.cfg.JWT.TTLMinutes) * time.Minute
	token, err := s.tokens.Issue(map[string]interface{}{"sub": user.Email}, ttl)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "user logged in", "email", user.Email)
	return &dto.TokenResponse{AccessToken: token, TokenType: "Bearer"}, nil
}

// GetCurrentUser resolves the bearer subject to a user record.
func (s *AuthService) GetCurrentUser(ctx context.Context, userEmail string) (*dto.UserResponse, error) {
	user, err := s.currentUser(userEmail)
	if err != nil {
		return nil, err
	}
	return dto.NewUserResponse(user), nil
}

// UpdateProfile applies a sparse update: only non-nil fields change.
// Changing the email resets verification and triggers a fresh
// confirmation mail.
func (s *AuthService) UpdateProfile(ctx context.Context, userEmail string, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.currentUser(userEmail)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	emailChanged := false
	if req.Email != nil && *req.Email != user.Email {
		fields["email"] = *req.Email
		fields["email_verified"] = false
		emailChanged = true
	}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if len(fields) == 0 {
		return dto.NewUserResponse(user), nil
	}

	updated, err := s.users.UpdateFields(user.ID, fields)
	if err != nil {
		if errors.Is(err, repositories.ErrUserAlreadyExists) {
			return nil, apperrors.ErrDuplicateValue("email", *req.Email)
		}
		return nil, apperrors.InternalError(err)
	}

	if emailChanged {
		s.sendVerificationEmail(ctx, updated)
	}

	logger.CtxInfo(ctx, "profile updated", "email", updated.Email)
	return dto.NewUserResponse(updated), nil
}

// ChangePassword replaces the password after re-checking the current one.
func (s *AuthService) ChangePassword(ctx context.Context, userEmail string, req *dto.ChangePasswordRequest) error {
	user, err := s.currentUser(userEmail)
	if err != nil {
		return err
	}

	ok, err := auth.CheckPasswordHash(req.CurrentPassword, user.HashedPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if !ok {
		return apperrors.ErrInvalidCredentials
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.users.SetPassword(user.ID, hashed); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "password changed", "email", user.Email)
	return nil
}

// ConfirmEmail validates a verification token and marks the account
// verified. Repeated confirmation with the same token is a no-op.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) error {
	user, err := s.userFromActionToken(token, auth.ScopeVerifyEmail)
	if err != nil {
		return err
	}

	if user.EmailVerified {
		return nil
	}
	if err := s.users.SetEmailVerified(user.ID); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "email confirmed", "email", user.Email)
	return nil
}

// RequestPasswordReset enqueues a reset mail for verified accounts.
// Unknown or unverified addresses succeed silently so the endpoint
// does not leak which emails exist.
func (s *AuthService) RequestPasswordReset(ctx context.Context, req *dto.PasswordResetRequest) error {
	user, err := s.users.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			logger.CtxInfo(ctx, "password reset requested for unknown email", "email", req.Email)
			return nil
		}
		return apperrors.InternalError(err)
	}
	if !user.EmailVerified {
		logger.CtxInfo(ctx, "password reset requested for unverified email", "email", req.Email)
		return nil
	}

	token, err := s.tokens.Issue(map[string]interface{}{
		"sub":   user.Email,
		"scope": auth.ScopePasswordReset,
	}, auth.ActionTokenTTL)
	if err != nil {
		return apperrors.InternalError(err)
	}

	s.dispatcher.Enqueue(email.Message{
		To:      user.Email,
		From:    s.cfg.Email.FromAddress,
		Subject: "Your password reset request",
		Body: fmt.Sprintf(
			"Hello %s,\n\nA password reset was requested for your account. "+
				"Use this token to set a new password:\n\n%s\n\n"+
				"If you did not request a reset, you can ignore this message.\n",
			user.FirstName, token),
	})

	logger.CtxInfo(ctx, "password reset mail enqueued", "email", user.Email)
	return nil
}

// ConfirmPasswordReset validates a reset token and sets the new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, req *dto.PasswordResetConfirm) error {
	user, err := s.userFromActionToken(req.Token, auth.ScopePasswordReset)
	if err != nil {
		return err
	}
	if !user.EmailVerified {
		return apperrors.ErrInvalidToken
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.users.SetPassword(user.ID, hashed); err != nil {
		return apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "password reset completed", "email", user.Email)
	return nil
}

func (s *AuthService) currentUser(userEmail string) (*models.User, error) {
	user, err := s.users.FindByEmail(userEmail)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.NewUnauthorizedError("Not authenticated")
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

// userFromActionToken parses an action token, checks its scope and
// resolves the subject. All failures collapse into the same token
// error so callers cannot distinguish expired from forged from
// dangling tokens.
func (s *AuthService) userFromActionToken(token, wantScope string) (*models.User, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if auth.Scope(claims) != wantScope {
		return nil, apperrors.ErrInvalidToken
	}
	subject := auth.Subject(claims)
	if subject == "" {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.users.FindByEmail(subject)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}
	return user, nil
}

func (s *AuthService) sendVerificationEmail(ctx context.Context, user *models.User) {
	token, err := s.tokens.Issue(map[string]interface{}{
		"sub":   user.Email,
		"scope": auth.ScopeVerifyEmail,
	}, auth.ActionTokenTTL)
	if err != nil {
		logger.CtxWithError(ctx, "failed to issue verification token", err, "email", user.Email)
		return
	}

	s.dispatcher.Enqueue(email.Message{
		To:      user.Email,
		From:    s.cfg.Email.FromAddress,
		Subject: "Please verify your email address",
		Body: fmt.Sprintf(
			"Hello %s,\n\nPlease verify your email address by visiting:\n\n"+
				"%s/auth/confirm_email?token=%s\n",
			user.FirstName, s.cfg.SiteURL, token),
	})
}
