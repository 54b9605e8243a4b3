package usecase

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/umeloans/lead-capture/internal/entity"
	"github.com/umeloans/lead-capture/internal/infra/integration/salesforce"
)

// SyncLeadUseCase pushes one lead to the CRM and records the outcome in the
// integration log. CRM failures never surface to the applicant.
type SyncLeadUseCase struct {
	Store  entity.Store
	CRM    CRMClient
	Logger *logrus.Logger
	// OnFailure, when set, is called with the integration system name after
	// every failed push.
	OnFailure func(system string)
	Now       func() time.Time
}

func NewSyncLeadUseCase(store entity.Store, crm CRMClient, logger *logrus.Logger) *SyncLeadUseCase {
	return &SyncLeadUseCase{
		Store:  store,
		CRM:    crm,
		Logger: logger,
		Now:    time.Now,
	}
}

// Execute records the outcome of one push and returns the push error, if any.
func (uc *SyncLeadUseCase) Execute(ctx context.Context, payload salesforce.LeadPayload) error {
	code, err := uc.CRM.PushLead(ctx, payload)
	now := uc.Now()

	if err == nil {
		recordLog(ctx, uc.Store, uc.Logger,
			newLog(payload.LeadID, entity.SystemSalesforce, entity.LogStatusSuccess, code, "", now))
		return nil
	}

	msg := fmt.Sprintf("HTTP %d", code)
	if code == 0 {
		code = http.StatusInternalServerError
		msg = "Network error or API unavailable"
	}

	uc.Logger.WithError(err).WithFields(logrus.Fields{
		"lead_id": payload.LeadID,
		"status":  code,
	}).Warn("CRM sync failed")
	recordLog(ctx, uc.Store, uc.Logger,
		newLog(payload.LeadID, entity.SystemSalesforce, entity.LogStatusFailed, code, msg, now))

	if uc.OnFailure != nil {
		uc.OnFailure(entity.SystemSalesforce)
	}
	return err
}

type leadSyncer interface {
	Execute(ctx context.Context, payload salesforce.LeadPayload) error
}

// DirectDispatcher runs the CRM sync in a goroutine of the current process.
// The sync outlives the request that triggered it but is bounded by Timeout.
type DirectDispatcher struct {
	Sync    leadSyncer
	Timeout time.Duration

	wg sync.WaitGroup
}

func NewDirectDispatcher(syncer leadSyncer, timeout time.Duration) *DirectDispatcher {
	return &DirectDispatcher{Sync: syncer, Timeout: timeout}
}

func (d *DirectDispatcher) Dispatch(ctx context.Context, payload salesforce.LeadPayload) error {
	ctx = context.WithoutCancel(ctx)
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if d.Timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.Timeout)
			defer cancel()
		}
		// Outcome is already recorded by the syncer.
		_ = d.Sync.Execute(ctx, payload)
	}()
	return nil
}

// Wait blocks until every dispatched sync has finished.
func (d *DirectDispatcher) Wait() {
	d.wg.Wait()
}
