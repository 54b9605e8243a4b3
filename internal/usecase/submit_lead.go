package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/umeloans/lead-capture/internal/entity"
	"github.com/umeloans/lead-capture/internal/infra/integration/salesforce"
)

type SubmitLeadUseCase struct {
	Store      entity.Store
	OTP        *OTPIssuer
	Mailer     OTPSender
	Dispatcher LeadSyncDispatcher
	Logger     *logrus.Logger
	// Production hides the OTP from responses and logs.
	Production bool
	Now        func() time.Time
}

func NewSubmitLeadUseCase(
	store entity.Store,
	otp *OTPIssuer,
	mailer OTPSender,
	dispatcher LeadSyncDispatcher,
	logger *logrus.Logger,
	production bool,
) *SubmitLeadUseCase {
	return &SubmitLeadUseCase{
		Store:      store,
		OTP:        otp,
		Mailer:     mailer,
		Dispatcher: dispatcher,
		Logger:     logger,
		Production: production,
		Now:        time.Now,
	}
}

func (uc *SubmitLeadUseCase) Execute(ctx context.Context, input SubmitLeadInput, meta RequestMetadata) (*SubmitLeadOutput, error) {
	now := uc.Now()

	parsed, verrs := validateSubmitLeadInput(input, now)
	if len(verrs) > 0 {
		return nil, newValidationError(verrs)
	}

	lead := toLead(input, parsed)
	lead.ID = uuid.NewString()

	verification, code, err := uc.OTP.Issue("", now)
	if err != nil {
		return nil, &TechnicalError{Code: CodeOTPIssue, Message: "failed to issue OTP", Err: err}
	}

	err = uc.Store.WithinTransaction(ctx, func(tx entity.Store) error {
		if err := tx.Leads().Upsert(ctx, lead); err != nil {
			return fmt.Errorf("upsert lead: %w", err)
		}
		if err := tx.Metadata().Create(ctx, newMetadata(lead.ID, meta, now)); err != nil {
			return fmt.Errorf("create lead metadata: %w", err)
		}
		verification.LeadID = lead.ID
		if _, err := tx.Verifications().ExpireOpen(ctx, lead.ID, now); err != nil {
			return fmt.Errorf("expire previous verifications: %w", err)
		}
		if err := tx.Verifications().Create(ctx, verification); err != nil {
			return fmt.Errorf("create verification: %w", err)
		}
		return tx.Logs().Create(ctx, newLog(lead.ID, entity.SystemLeadCapture, entity.LogStatusSuccess, http.StatusOK, "", now))
	})
	if err != nil {
		return nil, newDatabaseError("failed to persist lead", err)
	}

	uc.Logger.WithFields(logrus.Fields{
		"lead_id": lead.ID,
		"stage":   lead.FunnelStage,
	}).Info("Lead captured")

	deliverOTP(ctx, uc.Store, uc.Mailer, uc.Logger, lead, code, uc.OTP.TTL, uc.Production, now)

	if uc.Dispatcher != nil {
		payload := salesforce.NewLeadPayload(lead, input.LoanType)
		if err := uc.Dispatcher.Dispatch(ctx, payload); err != nil {
			uc.Logger.WithError(err).WithField("lead_id", lead.ID).Error("Failed to dispatch CRM sync")
			recordLog(ctx, uc.Store, uc.Logger,
				newLog(lead.ID, entity.SystemSalesforce, entity.LogStatusFailed, http.StatusInternalServerError, "Sync dispatch failed", uc.Now()))
		}
	}

	out := &SubmitLeadOutput{
		Success: true,
		LeadID:  lead.ID,
		Message: msgSubmitted,
	}
	if !uc.Production {
		out.OTP = code
	}
	return out, nil
}

func newMetadata(leadID string, meta RequestMetadata, now time.Time) *entity.LeadMetadata {
	m := &entity.LeadMetadata{
		ID:        uuid.NewString(),
		LeadID:    leadID,
		IPAddress: meta.IPAddress,
		PagePath:  entity.LoanApplicationPagePath,
		CreatedAt: now,
	}
	if m.IPAddress == "" {
		m.IPAddress = "unknown"
	}
	if meta.UserAgent != "" {
		ua := meta.UserAgent
		m.UserAgent = &ua
	}
	if meta.Referrer != "" {
		ref := meta.Referrer
		m.ReferrerURL = &ref
	}
	return m
}

func newLog(leadID, system string, status entity.LogStatus, code int, errMsg string, now time.Time) *entity.Log {
	l := &entity.Log{
		ID:           uuid.NewString(),
		LeadID:       leadID,
		System:       system,
		Status:       status,
		ResponseCode: &code,
		CreatedAt:    now,
	}
	if errMsg != "" {
		l.ErrorMessage = &errMsg
	}
	return l
}

// recordLog writes an audit row outside any transaction. A failure to
// record is logged and otherwise ignored.
func recordLog(ctx context.Context, store entity.Store, logger *logrus.Logger, l *entity.Log) {
	if err := store.Logs().Create(ctx, l); err != nil {
		logger.WithError(err).WithFields(logrus.Fields{
			"lead_id": l.LeadID,
			"system":  l.System,
		}).Error("Failed to record integration log")
	}
}

// deliverOTP emails the code when a mailer is configured. Delivery is best
// effort: the lead and its verification are already committed.
func deliverOTP(
	ctx context.Context,
	store entity.Store,
	mailer OTPSender,
	logger *logrus.Logger,
	lead *entity.Lead,
	code string,
	ttl time.Duration,
	production bool,
	now time.Time,
) {
	if !production {
		logger.WithFields(logrus.Fields{
			"lead_id": lead.ID,
			"email":   lead.Email,
			"otp":     code,
		}).Debug("OTP generated (development only)")
	}
	if mailer == nil {
		return
	}

	if err := mailer.SendOTP(lead.Email, lead.FName, code, ttl); err != nil {
		logger.WithError(err).WithField("lead_id", lead.ID).Warn("Failed to email OTP")
		recordLog(ctx, store, logger,
			newLog(lead.ID, entity.SystemOTPEmail, entity.LogStatusFailed, http.StatusBadGateway, "OTP email delivery failed", now))
		return
	}
	recordLog(ctx, store, logger,
		newLog(lead.ID, entity.SystemOTPEmail, entity.LogStatusSuccess, http.StatusOK, "", now))
}
