package database

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/umeloans/lead-capture/internal/entity"
)

type LeadRepository struct {
	DB *gorm.DB
}

func NewLeadRepository(db *gorm.DB) *LeadRepository {
	return &LeadRepository{DB: db}
}

// Upsert inserts the lead or overwrites the applicant fields of the row with
// the same email. funnel_stage and created_at of an existing row are kept.
func (r *LeadRepository) Upsert(ctx context.Context, lead *entity.Lead) error {
	err := r.DB.WithContext(ctx).
		Clauses(
			clause.OnConflict{
				Columns: []clause.Column{{Name: "email"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"fname", "mname", "lname", "phone", "dob", "state",
					"postcode", "loan_amount", "loan_type", "status", "updated_at",
				}),
			},
			clause.Returning{Columns: []clause.Column{
				{Name: "id"}, {Name: "funnel_stage"}, {Name: "created_at"}, {Name: "updated_at"},
			}},
		).
		Create(lead).Error
	return mapError(err)
}

func (r *LeadRepository) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	var lead entity.Lead
	if err := r.DB.WithContext(ctx).First(&lead, "id = ?", id).Error; err != nil {
		return nil, mapError(err)
	}
	return &lead, nil
}

func (r *LeadRepository) UpdateStage(ctx context.Context, id string, status entity.LeadStatus, stage entity.FunnelStage) error {
	res := r.DB.WithContext(ctx).
		Model(&entity.Lead{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       status,
			"funnel_stage": stage,
			"updated_at":   time.Now().UTC(),
		})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return entity.ErrLeadNotFound
	}
	return nil
}
