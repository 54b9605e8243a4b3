package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/umeloans/lead-capture/internal/entity"
)

type VerifyOTPUseCase struct {
	Store  entity.Store
	OTP    *OTPIssuer
	Tokens ApplicationTokenIssuer
	// MaxAttempts caps the failed checks against the newest code of a lead.
	// Zero disables the cap.
	MaxAttempts int
	Logger      *logrus.Logger
	Now         func() time.Time
}

func NewVerifyOTPUseCase(store entity.Store, otp *OTPIssuer, tokens ApplicationTokenIssuer, maxAttempts int, logger *logrus.Logger) *VerifyOTPUseCase {
	return &VerifyOTPUseCase{
		Store:       store,
		OTP:         otp,
		Tokens:      tokens,
		MaxAttempts: maxAttempts,
		Logger:      logger,
		Now:         time.Now,
	}
}

func (uc *VerifyOTPUseCase) Execute(ctx context.Context, input VerifyOTPInput) (*VerifyOTPOutput, error) {
	input = input.normalize()
	if input.LeadID == "" || input.OTP == "" {
		return nil, &DomainError{Code: CodeValidation, Message: "Lead ID and OTP are required"}
	}

	lead, err := findLead(ctx, uc.Store, input.LeadID)
	if err != nil {
		return nil, err
	}

	now := uc.Now()
	open, err := uc.Store.Verifications().FindOpenByLead(ctx, lead.ID, now.Add(-uc.OTP.TTL))
	if err != nil {
		return nil, newDatabaseError("failed to load verifications", err)
	}

	if len(open) > 0 && uc.MaxAttempts > 0 {
		failed, err := uc.Store.Logs().CountSince(ctx, lead.ID, entity.SystemOTPVerification, entity.LogStatusFailed, open[0].CreatedAt)
		if err != nil {
			return nil, newDatabaseError("failed to count verification attempts", err)
		}
		if failed >= int64(uc.MaxAttempts) {
			uc.reject(ctx, lead.ID, "Too many attempts", http.StatusTooManyRequests, now)
			return nil, &DomainError{Code: CodeOTPAttempts, Message: "Too many incorrect attempts. Please request a new code.", Err: entity.ErrOTPAttempts}
		}
	}

	match := uc.OTP.Match(open, input.OTP)
	if match == nil {
		uc.reject(ctx, lead.ID, "Invalid OTP", http.StatusBadRequest, now)
		return nil, &DomainError{Code: CodeOTPInvalid, Message: "Invalid OTP code", Err: entity.ErrOTPInvalid}
	}
	if match.Expired(now) {
		uc.reject(ctx, lead.ID, "OTP expired", http.StatusBadRequest, now)
		return nil, &DomainError{Code: CodeOTPExpired, Message: "OTP has expired. Please request a new one.", Err: entity.ErrOTPExpired}
	}

	err = uc.Store.WithinTransaction(ctx, func(tx entity.Store) error {
		if err := tx.Verifications().MarkVerified(ctx, match.ID, now); err != nil {
			return fmt.Errorf("mark verification: %w", err)
		}
		if err := tx.Leads().UpdateStage(ctx, lead.ID, entity.LeadStatusVerified, entity.FunnelStageApplicant); err != nil {
			return fmt.Errorf("advance lead: %w", err)
		}
		return tx.Logs().Create(ctx, newLog(lead.ID, entity.SystemOTPVerification, entity.LogStatusSuccess, http.StatusOK, "", now))
	})
	if errors.Is(err, entity.ErrOTPInvalid) {
		return nil, &DomainError{Code: CodeOTPInvalid, Message: "Invalid OTP code", Err: err}
	}
	if err != nil {
		return nil, newDatabaseError("failed to complete verification", err)
	}

	uc.Logger.WithField("lead_id", lead.ID).Info("Lead verified")

	out := &VerifyOTPOutput{
		Success: true,
		Message: msgVerified,
		Lead: LeadSummary{
			ID:    lead.ID,
			Name:  lead.FullName(),
			Email: lead.Email,
		},
	}
	if uc.Tokens != nil {
		token, err := uc.Tokens.Issue(lead.ID)
		if err != nil {
			// The lead is verified either way; the token only gates read access.
			uc.Logger.WithError(err).WithField("lead_id", lead.ID).Error("Failed to issue application token")
		} else {
			out.ApplicationToken = token
		}
	}
	return out, nil
}

func (uc *VerifyOTPUseCase) reject(ctx context.Context, leadID, reason string, status int, now time.Time) {
	uc.Logger.WithFields(logrus.Fields{
		"lead_id": leadID,
		"reason":  reason,
	}).Info("OTP verification rejected")
	recordLog(ctx, uc.Store, uc.Logger,
		newLog(leadID, entity.SystemOTPVerification, entity.LogStatusFailed, status, reason, now))
}

// findLead loads a lead and turns a missing row into a LEAD_NOT_FOUND error.
func findLead(ctx context.Context, store entity.Store, id string) (*entity.Lead, error) {
	lead, err := store.Leads().FindByID(ctx, id)
	if errors.Is(err, entity.ErrLeadNotFound) {
		return nil, &DomainError{Code: CodeLeadNotFound, Message: "Lead not found", Err: err}
	}
	if err != nil {
		return nil, newDatabaseError("failed to load lead", err)
	}
	return lead, nil
}
