package usecase

import (
	"context"

	"github.com/umeloans/lead-capture/internal/entity"
)

type GetLeadUseCase struct {
	Store entity.Store
}

func NewGetLeadUseCase(store entity.Store) *GetLeadUseCase {
	return &GetLeadUseCase{Store: store}
}

func (uc *GetLeadUseCase) Execute(ctx context.Context, id string) (*entity.LeadDetails, error) {
	lead, err := findLead(ctx, uc.Store, id)
	if err != nil {
		return nil, err
	}

	metadata, err := uc.Store.Metadata().ListByLead(ctx, lead.ID)
	if err != nil {
		return nil, newDatabaseError("failed to load lead metadata", err)
	}
	verifications, err := uc.Store.Verifications().ListByLead(ctx, lead.ID)
	if err != nil {
		return nil, newDatabaseError("failed to load verifications", err)
	}
	logs, err := uc.Store.Logs().ListByLead(ctx, lead.ID)
	if err != nil {
		return nil, newDatabaseError("failed to load logs", err)
	}

	return &entity.LeadDetails{
		Lead:          lead,
		Metadata:      metadata,
		Verifications: verifications,
		Logs:          logs,
	}, nil
}
