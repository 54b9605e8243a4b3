package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/umeloans/lead-capture/internal/entity"
)

type VerificationRepository struct {
	DB *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) *VerificationRepository {
	return &VerificationRepository{DB: db}
}

func (r *VerificationRepository) Create(ctx context.Context, v *entity.Verification) error {
	return mapError(r.DB.WithContext(ctx).Omit("Lead").Create(v).Error)
}

func (r *VerificationRepository) FindOpenByLead(ctx context.Context, leadID string, notBefore time.Time) ([]*entity.Verification, error) {
	var out []*entity.Verification
	err := r.DB.WithContext(ctx).
		Where("lead_id = ? AND verified_at IS NULL AND expires_at > ?", leadID, notBefore).
		Order("created_at DESC").
		Find(&out).Error
	return out, mapError(err)
}

// MarkVerified stamps a still-unverified row. Losing a race against a
// concurrent verification of the same row yields ErrOTPInvalid.
func (r *VerificationRepository) MarkVerified(ctx context.Context, id string, at time.Time) error {
	res := r.DB.WithContext(ctx).
		Model(&entity.Verification{}).
		Where("id = ? AND verified_at IS NULL", id).
		Update("verified_at", at)
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return entity.ErrOTPInvalid
	}
	return nil
}

func (r *VerificationRepository) ExpireOpen(ctx context.Context, leadID string, at time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&entity.Verification{}).
		Where("lead_id = ? AND verified_at IS NULL AND expires_at > ?", leadID, at).
		Update("expires_at", at)
	return res.RowsAffected, mapError(res.Error)
}

func (r *VerificationRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.Verification, error) {
	var out []*entity.Verification
	err := r.DB.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at").
		Find(&out).Error
	return out, mapError(err)
}
