package usecase

import (
	"context"
	"time"

	"github.com/umeloans/lead-capture/internal/infra/integration/salesforce"
)

type CRMClient interface {
	PushLead(ctx context.Context, payload salesforce.LeadPayload) (int, error)
}

// LeadSyncDispatcher hands a lead to the CRM sync off the request path.
type LeadSyncDispatcher interface {
	Dispatch(ctx context.Context, payload salesforce.LeadPayload) error
}

type OTPSender interface {
	SendOTP(to, name, code string, ttl time.Duration) error
}

type ApplicationTokenIssuer interface {
	Issue(leadID string) (string, error)
}
