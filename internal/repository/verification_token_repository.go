package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"go-rest-auth-starter/internal/domain"
	"go-rest-auth-starter/internal/observability"
)

var ErrTokenNotFound = errors.New("token not found")

type VerificationTokenRepository interface {
	Create(token *domain.VerificationToken) error
	FindByValueAndKind(value, kind string) (*domain.VerificationToken, error)
	DeleteByUserAndKind(userID uuid.UUID, kind string) (int64, error)
}

type GormVerificationTokenRepository struct{ db *gorm.DB }

func NewVerificationTokenRepository(db *gorm.DB) VerificationTokenRepository {
	return &GormVerificationTokenRepository{db: db}
}

func (r *GormVerificationTokenRepository) Create(token *domain.VerificationToken) error {
	err := r.db.Create(token).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "verification_token", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "verification_token", "create", "success")
	return nil
}

func (r *GormVerificationTokenRepository) FindByValueAndKind(value, kind string) (*domain.VerificationToken, error) {
	var t domain.VerificationToken
	err := r.db.Where("token = ? AND kind = ? AND blacklisted = ?", value, kind, false).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "verification_token", "find_by_value_and_kind", "not_found")
			return nil, ErrTokenNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "verification_token", "find_by_value_and_kind", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "verification_token", "find_by_value_and_kind", "success")
	return &t, nil
}

func (r *GormVerificationTokenRepository) DeleteByUserAndKind(userID uuid.UUID, kind string) (int64, error) {
	res := r.db.Where("user_id = ? AND kind = ?", userID, kind).Delete(&domain.VerificationToken{})
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "verification_token", "delete_by_user_and_kind", "error")
		return res.RowsAffected, res.Error
	}
	observability.RecordRepositoryOperation(context.Background(), "verification_token", "delete_by_user_and_kind", "success")
	return res.RowsAffected, nil
}
