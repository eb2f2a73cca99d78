package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"go-rest-auth-starter/internal/domain"
	"go-rest-auth-starter/internal/repository"
	"go-rest-auth-starter/internal/security"
)

type TokenDetail struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type TokenPair struct {
	Access  TokenDetail `json:"access"`
	Refresh TokenDetail `json:"refresh"`
}

// TokenService owns the session-token lifecycle: stateless signed pairs,
// rotation on refresh, blacklist on logout and rotation. A refresh token is
// usable exactly once; the conditional blacklist insert decides the winner
// when two refreshes race on the same token.
type TokenService struct {
	jwtMgr     *security.JWTManager
	blacklist  TokenBlacklist
	users      repository.UserRepository
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewTokenService(jwtMgr *security.JWTManager, blacklist TokenBlacklist, users repository.UserRepository, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		jwtMgr:     jwtMgr,
		blacklist:  blacklist,
		users:      users,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *TokenService) Issue(user *domain.User) (*TokenPair, error) {
	access, err := s.jwtMgr.SignAccessToken(user.ID, user.Role, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.jwtMgr.SignRefreshToken(user.ID, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	return &TokenPair{
		Access:  TokenDetail{Token: access, Expires: now.Add(s.accessTTL)},
		Refresh: TokenDetail{Token: refresh, Expires: now.Add(s.refreshTTL)},
	}, nil
}

// Refresh rotates a refresh token: the presented token is blacklisted and a
// brand-new pair is issued. Invalid, expired, blacklisted and orphaned
// tokens all fail the same way.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtMgr.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, NewUnauthenticated("Please authenticate")
	}
	revoked, err := s.blacklist.Contains(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, NewUnauthenticated("Please authenticate")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, NewUnauthenticated("Please authenticate")
	}
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, NewUnauthenticated("Please authenticate")
	}
	inserted, err := s.blacklist.Add(ctx, claims.ID, userID, "rotated", claims.ExpiresAt.Time)
	if err != nil {
		return nil, err
	}
	if !inserted {
		// Lost the rotation race or replayed after rotation.
		return nil, NewUnauthenticated("Please authenticate")
	}
	return s.Issue(user)
}

// Logout blacklists the presented refresh token. An unparsable token maps
// to NotFound, mirroring the upstream contract of treating a garbled token
// as an absent one.
func (s *TokenService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.jwtMgr.ParseRefreshToken(refreshToken)
	if err != nil {
		return NewNotFound("Not found")
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return NewNotFound("Not found")
	}
	if _, err := s.blacklist.Add(ctx, claims.ID, userID, "logout", claims.ExpiresAt.Time); err != nil {
		return err
	}
	return nil
}
