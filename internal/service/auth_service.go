package service

import (
	"context"
	"log/slog"
	"time"

	"go-rest-auth-starter/internal/domain"
	"go-rest-auth-starter/internal/repository"
	"go-rest-auth-starter/internal/security"
)

// AuthService implements registration, credential verification and the two
// opaque-token consume flows. Reset and verify deliberately collapse every
// internal failure into one authentication-flavored error; the real cause
// is logged before the collapse.
type AuthService struct {
	users        repository.UserRepository
	verification *VerificationTokenService
	email        *EmailService
	resetTTL     time.Duration
	verifyTTL    time.Duration
	logger       *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	verification *VerificationTokenService,
	email *EmailService,
	resetTTL, verifyTTL time.Duration,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:        users,
		verification: verification,
		email:        email,
		resetTTL:     resetTTL,
		verifyTTL:    verifyTTL,
		logger:       logger,
	}
}

func (s *AuthService) Register(_ context.Context, name, email, password string) (*domain.User, error) {
	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		IsActive:     true,
	}
	if err := s.users.Create(user); err != nil {
		if err == repository.ErrDuplicateEmail {
			return nil, NewValidation("Email already taken")
		}
		return nil, err
	}
	return user, nil
}

// Login resolves credentials to a user. Unknown email and wrong password
// fail identically, and the unknown-email path still runs a bcrypt
// comparison so the two cannot be told apart by error or timing.
func (s *AuthService) Login(_ context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		security.CheckDummyPassword(password)
		return nil, NewUnauthenticated("Incorrect email or password")
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		return nil, NewUnauthenticated("Incorrect email or password")
	}
	return user, nil
}

// ForgotPassword issues a reset token and mails the link. Unknown emails
// surface as NotFound: the upstream API does not mask account existence
// here, and that behavior is preserved.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if err == repository.ErrUserNotFound {
			return NewNotFound("No users found with this email")
		}
		return err
	}
	token, err := s.verification.Issue(ctx, user, domain.TokenKindResetPassword, s.resetTTL)
	if err != nil {
		return err
	}
	s.email.SendResetPasswordEmail(ctx, user.Email, token)
	return nil
}

func (s *AuthService) ResetPassword(ctx context.Context, tokenValue, newPassword string) error {
	if err := s.resetPassword(ctx, tokenValue, newPassword); err != nil {
		s.logger.Error("password reset failed", "error", err)
		return NewUnauthenticated("Password reset failed")
	}
	return nil
}

func (s *AuthService) resetPassword(ctx context.Context, tokenValue, newPassword string) error {
	token, err := s.verification.Verify(ctx, tokenValue, domain.TokenKindResetPassword)
	if err != nil {
		return err
	}
	user, err := s.users.FindByID(token.UserID)
	if err != nil {
		return err
	}
	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(user); err != nil {
		return err
	}
	return s.verification.DeleteAll(ctx, user.ID, domain.TokenKindResetPassword)
}

func (s *AuthService) SendVerificationEmail(ctx context.Context, user *domain.User) error {
	token, err := s.verification.Issue(ctx, user, domain.TokenKindVerifyEmail, s.verifyTTL)
	if err != nil {
		return err
	}
	s.email.SendVerificationEmail(ctx, user.Email, token)
	return nil
}

func (s *AuthService) VerifyEmail(ctx context.Context, tokenValue string) error {
	if err := s.verifyEmail(ctx, tokenValue); err != nil {
		s.logger.Error("email verification failed", "error", err)
		return NewUnauthenticated("Email verification failed")
	}
	return nil
}

func (s *AuthService) verifyEmail(ctx context.Context, tokenValue string) error {
	token, err := s.verification.Verify(ctx, tokenValue, domain.TokenKindVerifyEmail)
	if err != nil {
		return err
	}
	user, err := s.users.FindByID(token.UserID)
	if err != nil {
		return err
	}
	user.IsEmailVerified = true
	if err := s.users.Update(user); err != nil {
		return err
	}
	return s.verification.DeleteAll(ctx, user.ID, domain.TokenKindVerifyEmail)
}
