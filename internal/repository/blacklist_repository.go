package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-rest-auth-starter/internal/domain"
	"go-rest-auth-starter/internal/observability"
)

// BlacklistRepository is the persisted set of revoked refresh-token ids.
// Add is a conditional insert on the jti: when two rotations race on the
// same token, exactly one insert wins.
type BlacklistRepository interface {
	Add(entry *domain.RevokedToken) (bool, error)
	Contains(tokenID string) (bool, error)
	CleanupExpired() (int64, error)
}

type GormBlacklistRepository struct{ db *gorm.DB }

func NewBlacklistRepository(db *gorm.DB) BlacklistRepository {
	return &GormBlacklistRepository{db: db}
}

func (r *GormBlacklistRepository) Add(entry *domain.RevokedToken) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token_id"}},
		DoNothing: true,
	}).Create(entry)
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "blacklist", "add", "error")
		return false, res.Error
	}
	observability.RecordRepositoryOperation(context.Background(), "blacklist", "add", "success")
	return res.RowsAffected > 0, nil
}

func (r *GormBlacklistRepository) Contains(tokenID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.RevokedToken{}).
		Where("token_id = ?", tokenID).
		Count(&count).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "blacklist", "contains", "error")
		return false, err
	}
	observability.RecordRepositoryOperation(context.Background(), "blacklist", "contains", "success")
	return count > 0, nil
}

func (r *GormBlacklistRepository) CleanupExpired() (int64, error) {
	res := r.db.Where("expires_at <= ?", time.Now()).Delete(&domain.RevokedToken{})
	if res.Error != nil {
		observability.RecordRepositoryOperation(context.Background(), "blacklist", "cleanup_expired", "error")
		return res.RowsAffected, res.Error
	}
	observability.RecordRepositoryOperation(context.Background(), "blacklist", "cleanup_expired", "success")
	return res.RowsAffected, nil
}
