package entity

import (
	"context"
	"time"
)

type LeadRepositoryInterface interface {
	// Upsert inserts lead, or updates the row that already holds lead.Email.
	// On return lead carries the persisted ID, FunnelStage and timestamps.
	Upsert(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	UpdateStage(ctx context.Context, id string, status LeadStatus, stage FunnelStage) error
}

type LeadMetadataRepositoryInterface interface {
	Create(ctx context.Context, m *LeadMetadata) error
	ListByLead(ctx context.Context, leadID string) ([]*LeadMetadata, error)
}

type VerificationRepositoryInterface interface {
	Create(ctx context.Context, v *Verification) error
	// FindOpenByLead returns the unverified rows of a lead that expire after
	// notBefore, newest first.
	FindOpenByLead(ctx context.Context, leadID string, notBefore time.Time) ([]*Verification, error)
	MarkVerified(ctx context.Context, id string, at time.Time) error
	// ExpireOpen pulls the expiry of every still-active row of a lead back to at.
	ExpireOpen(ctx context.Context, leadID string, at time.Time) (int64, error)
	ListByLead(ctx context.Context, leadID string) ([]*Verification, error)
}

type LogRepositoryInterface interface {
	Create(ctx context.Context, l *Log) error
	ListByLead(ctx context.Context, leadID string) ([]*Log, error)
	// CountSince counts the rows of a lead for system and status created at
	// or after since.
	CountSince(ctx context.Context, leadID, system string, status LogStatus, since time.Time) (int64, error)
}

// Store groups the repositories so several writes can share a transaction.
type Store interface {
	Leads() LeadRepositoryInterface
	Metadata() LeadMetadataRepositoryInterface
	Verifications() VerificationRepositoryInterface
	Logs() LogRepositoryInterface
	// WithinTransaction runs fn against a transaction-scoped Store. The
	// transaction commits when fn returns nil and rolls back otherwise.
	WithinTransaction(ctx context.Context, fn func(tx Store) error) error
}
