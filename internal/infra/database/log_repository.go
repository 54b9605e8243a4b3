package database

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/umeloans/lead-capture/internal/entity"
)

type LogRepository struct {
	DB *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{DB: db}
}

func (r *LogRepository) Create(ctx context.Context, l *entity.Log) error {
	return mapError(r.DB.WithContext(ctx).Omit("Lead").Create(l).Error)
}

func (r *LogRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.Log, error) {
	var out []*entity.Log
	err := r.DB.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at").
		Find(&out).Error
	return out, mapError(err)
}

func (r *LogRepository) CountSince(ctx context.Context, leadID, system string, status entity.LogStatus, since time.Time) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&entity.Log{}).
		Where("lead_id = ? AND system = ? AND status = ? AND created_at >= ?", leadID, system, status, since).
		Count(&n).Error
	return n, mapError(err)
}

type LeadMetadataRepository struct {
	DB *gorm.DB
}

func NewLeadMetadataRepository(db *gorm.DB) *LeadMetadataRepository {
	return &LeadMetadataRepository{DB: db}
}

func (r *LeadMetadataRepository) Create(ctx context.Context, m *entity.LeadMetadata) error {
	return mapError(r.DB.WithContext(ctx).Omit("Lead").Create(m).Error)
}

func (r *LeadMetadataRepository) ListByLead(ctx context.Context, leadID string) ([]*entity.LeadMetadata, error) {
	var out []*entity.LeadMetadata
	err := r.DB.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at").
		Find(&out).Error
	return out, mapError(err)
}
