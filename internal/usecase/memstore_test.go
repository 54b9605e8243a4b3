package usecase

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/umeloans/lead-capture/internal/entity"
	"github.com/umeloans/lead-capture/internal/infra/integration/salesforce"
)

// memStore is an in-memory entity.Store. Transactions snapshot the state and
// restore it when fn fails.
type memStore struct {
	mu            *sync.Mutex
	leads         map[string]*entity.Lead
	metadata      []*entity.LeadMetadata
	verifications []*entity.Verification
	logs          []*entity.Log

	failLogs bool
	failTx   error
}

func newMemStore() *memStore {
	return &memStore{mu: &sync.Mutex{}, leads: map[string]*entity.Lead{}}
}

func (s *memStore) Leads() entity.LeadRepositoryInterface                 { return memLeads{s} }
func (s *memStore) Metadata() entity.LeadMetadataRepositoryInterface      { return memMetadata{s} }
func (s *memStore) Verifications() entity.VerificationRepositoryInterface { return memVerifications{s} }
func (s *memStore) Logs() entity.LogRepositoryInterface                   { return memLogs{s} }

func (s *memStore) WithinTransaction(ctx context.Context, fn func(tx entity.Store) error) error {
	if s.failTx != nil {
		return s.failTx
	}
	s.mu.Lock()
	leads := make(map[string]*entity.Lead, len(s.leads))
	for k, v := range s.leads {
		cp := *v
		leads[k] = &cp
	}
	metadata := append([]*entity.LeadMetadata(nil), s.metadata...)
	verifications := make([]*entity.Verification, 0, len(s.verifications))
	for _, v := range s.verifications {
		cp := *v
		verifications = append(verifications, &cp)
	}
	logs := append([]*entity.Log(nil), s.logs...)
	s.mu.Unlock()

	if err := fn(s); err != nil {
		s.mu.Lock()
		s.leads, s.metadata, s.verifications, s.logs = leads, metadata, verifications, logs
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *memStore) logsFor(leadID, system string) []*entity.Log {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*entity.Log
	for _, l := range s.logs {
		if l.LeadID == leadID && l.System == system {
			out = append(out, l)
		}
	}
	return out
}

func (s *memStore) leadByEmail(email string) *entity.Lead {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.leads {
		if l.Email == email {
			return l
		}
	}
	return nil
}

type memLeads struct{ s *memStore }

func (r memLeads) Upsert(ctx context.Context, lead *entity.Lead) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.leads {
		if existing.Email != lead.Email {
			continue
		}
		lead.ID = existing.ID
		lead.FunnelStage = existing.FunnelStage
		lead.CreatedAt = existing.CreatedAt
		lead.UpdatedAt = time.Now()
		cp := *lead
		r.s.leads[lead.ID] = &cp
		return nil
	}
	lead.CreatedAt = time.Now()
	lead.UpdatedAt = lead.CreatedAt
	cp := *lead
	r.s.leads[lead.ID] = &cp
	return nil
}

func (r memLeads) FindByID(ctx context.Context, id string) (*entity.Lead, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.leads[id]
	if !ok {
		return nil, entity.ErrLeadNotFound
	}
	cp := *l
	return &cp, nil
}

func (r memLeads) UpdateStage(ctx context.Context, id string, status entity.LeadStatus, stage entity.FunnelStage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	l, ok := r.s.leads[id]
	if !ok {
		return entity.ErrLeadNotFound
	}
	l.Status = status
	l.FunnelStage = stage
	return nil
}

type memMetadata struct{ s *memStore }

func (r memMetadata) Create(ctx context.Context, m *entity.LeadMetadata) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.metadata = append(r.s.metadata, m)
	return nil
}

func (r memMetadata) ListByLead(ctx context.Context, leadID string) ([]*entity.LeadMetadata, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.LeadMetadata
	for _, m := range r.s.metadata {
		if m.LeadID == leadID {
			out = append(out, m)
		}
	}
	return out, nil
}

type memVerifications struct{ s *memStore }

func (r memVerifications) Create(ctx context.Context, v *entity.Verification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *v
	r.s.verifications = append(r.s.verifications, &cp)
	return nil
}

func (r memVerifications) FindOpenByLead(ctx context.Context, leadID string, notBefore time.Time) ([]*entity.Verification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Verification
	for _, v := range r.s.verifications {
		if v.LeadID == leadID && v.VerifiedAt == nil && v.ExpiresAt.After(notBefore) {
			cp := *v
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r memVerifications) MarkVerified(ctx context.Context, id string, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, v := range r.s.verifications {
		if v.ID == id {
			t := at
			v.VerifiedAt = &t
			return nil
		}
	}
	return errors.New("verification not found")
}

func (r memVerifications) ExpireOpen(ctx context.Context, leadID string, at time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, v := range r.s.verifications {
		if v.LeadID == leadID && v.Active(at) {
			v.ExpiresAt = at
			n++
		}
	}
	return n, nil
}

func (r memVerifications) ListByLead(ctx context.Context, leadID string) ([]*entity.Verification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Verification
	for _, v := range r.s.verifications {
		if v.LeadID == leadID {
			out = append(out, v)
		}
	}
	return out, nil
}

type memLogs struct{ s *memStore }

func (r memLogs) Create(ctx context.Context, l *entity.Log) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failLogs {
		return errors.New("log table unavailable")
	}
	r.s.logs = append(r.s.logs, l)
	return nil
}

func (r memLogs) ListByLead(ctx context.Context, leadID string) ([]*entity.Log, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Log
	for _, l := range r.s.logs {
		if l.LeadID == leadID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r memLogs) CountSince(ctx context.Context, leadID, system string, status entity.LogStatus, since time.Time) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, l := range r.s.logs {
		if l.LeadID == leadID && l.System == system && l.Status == status && !l.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// MockMailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendOTP(to, name, code string, ttl time.Duration) error {
	args := m.Called(to, name, code, ttl)
	return args.Error(0)
}

// MockDispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Dispatch(ctx context.Context, payload salesforce.LeadPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}

// MockCRM
type MockCRM struct {
	mock.Mock
}

func (m *MockCRM) PushLead(ctx context.Context, payload salesforce.LeadPayload) (int, error) {
	args := m.Called(ctx, payload)
	return args.Int(0), args.Error(1)
}

// MockTokens
type MockTokens struct {
	mock.Mock
}

func (m *MockTokens) Issue(leadID string) (string, error) {
	args := m.Called(leadID)
	return args.String(0), args.Error(1)
}
