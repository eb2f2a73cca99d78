package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-rest-auth-starter/internal/domain"
	"go-rest-auth-starter/internal/repository"
	"go-rest-auth-starter/internal/security"
)

// VerificationTokenService issues and checks the stored opaque tokens used
// by the password-reset and email-verification flows. Verify resolves a
// token without consuming it; deleting the user's outstanding tokens after
// the associated action is the caller's job (DeleteAll).
type VerificationTokenService struct {
	tokens repository.VerificationTokenRepository
}

func NewVerificationTokenService(tokens repository.VerificationTokenRepository) *VerificationTokenService {
	return &VerificationTokenService{tokens: tokens}
}

func (s *VerificationTokenService) Issue(_ context.Context, user *domain.User, kind string, ttl time.Duration) (string, error) {
	value, err := security.NewOpaqueToken()
	if err != nil {
		return "", err
	}
	err = s.tokens.Create(&domain.VerificationToken{
		Token:     value,
		UserID:    user.ID,
		Kind:      kind,
		ExpiresAt: time.Now().Add(ttl),
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *VerificationTokenService) Verify(_ context.Context, value, kind string) (*domain.VerificationToken, error) {
	token, err := s.tokens.FindByValueAndKind(value, kind)
	if err != nil {
		if err == repository.ErrTokenNotFound {
			return nil, NewNotFound("Token not found")
		}
		return nil, err
	}
	if token.ExpiresAt.Before(time.Now()) {
		return nil, NewInvalid("Token expired")
	}
	return token, nil
}

// DeleteAll removes every token of the given kind for the user, so that
// consuming one reset link invalidates all other outstanding ones.
func (s *VerificationTokenService) DeleteAll(_ context.Context, userID uuid.UUID, kind string) error {
	_, err := s.tokens.DeleteByUserAndKind(userID, kind)
	return err
}
