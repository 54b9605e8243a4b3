package database

import (
	"context"

	"gorm.io/gorm"

	"github.com/umeloans/lead-capture/internal/entity"
)

// Store hands out repositories bound to one gorm handle, either the pool or
// a running transaction.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Leads() entity.LeadRepositoryInterface {
	return NewLeadRepository(s.db)
}

func (s *Store) Metadata() entity.LeadMetadataRepositoryInterface {
	return NewLeadMetadataRepository(s.db)
}

func (s *Store) Verifications() entity.VerificationRepositoryInterface {
	return NewVerificationRepository(s.db)
}

func (s *Store) Logs() entity.LogRepositoryInterface {
	return NewLogRepository(s.db)
}

func (s *Store) WithinTransaction(ctx context.Context, fn func(tx entity.Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Ping checks the underlying pool.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
