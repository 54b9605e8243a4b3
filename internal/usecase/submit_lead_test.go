package usecase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/umeloans/lead-capture/internal/entity"
	"github.com/umeloans/lead-capture/internal/infra/integration/salesforce"
)

var fixedNow = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func testIssuer() *OTPIssuer {
	return NewOTPIssuer(6, 10*time.Minute, bcrypt.MinCost)
}

func validInput() SubmitLeadInput {
	return SubmitLeadInput{
		LoanAmount: "25000",
		LoanType:   "personal",
		FName:      "Jane",
		LName:      "Citizen",
		Email:      "Jane.Citizen@Example.com",
		Phone:      "+61 400 000 000",
		DOB:        "1990-04-20",
		State:      "nsw",
		Postcode:   "2000",
	}
}

func newSubmit(store *memStore, mailer OTPSender, dispatcher LeadSyncDispatcher) *SubmitLeadUseCase {
	uc := NewSubmitLeadUseCase(store, testIssuer(), mailer, dispatcher, testLogger(), false)
	uc.Now = func() time.Time { return fixedNow }
	return uc
}

// TestSubmitLeadSuccess - persists the lead, its metadata, one verification and a capture log
func TestSubmitLeadSuccess(t *testing.T) {
	store := newMemStore()
	dispatcher := new(MockDispatcher)
	dispatcher.On("Dispatch", mock.Anything, mock.MatchedBy(func(p salesforce.LeadPayload) bool {
		return p.Email == "jane.citizen@example.com" && p.LoanType == "personal" && p.LoanAmount == 25000
	})).Return(nil).Once()

	uc := newSubmit(store, nil, dispatcher)
	out, err := uc.Execute(context.Background(), validInput(), RequestMetadata{
		IPAddress: "203.0.113.7",
		UserAgent: "Mozilla/5.0",
	})

	require.NoError(t, err)
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.LeadID)
	assert.Len(t, out.OTP, 6)
	assert.Equal(t, msgSubmitted, out.Message)

	lead := store.leadByEmail("jane.citizen@example.com")
	require.NotNil(t, lead)
	assert.Equal(t, out.LeadID, lead.ID)
	assert.Equal(t, entity.LoanTypePersonal, lead.LoanType)
	assert.Equal(t, entity.LeadStatusSubmitted, lead.Status)
	assert.Equal(t, entity.FunnelStageLead, lead.FunnelStage)
	assert.Equal(t, "NSW", lead.State)
	assert.Equal(t, 2000, lead.Postcode)

	require.Len(t, store.metadata, 1)
	assert.Equal(t, "203.0.113.7", store.metadata[0].IPAddress)
	assert.Equal(t, entity.LoanApplicationPagePath, store.metadata[0].PagePath)
	assert.Nil(t, store.metadata[0].ReferrerURL)

	require.Len(t, store.verifications, 1)
	v := store.verifications[0]
	assert.Equal(t, fixedNow.Add(10*time.Minute), v.ExpiresAt)
	assert.NotEqual(t, out.OTP, v.TokenHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(v.TokenHash), []byte(out.OTP)))

	assert.Len(t, store.logsFor(lead.ID, entity.SystemLeadCapture), 1)
	dispatcher.AssertExpectations(t)
}

// TestSubmitLeadHidesOTPInProduction - the code never leaves the server in production
func TestSubmitLeadHidesOTPInProduction(t *testing.T) {
	store := newMemStore()
	uc := newSubmit(store, nil, nil)
	uc.Production = true

	out, err := uc.Execute(context.Background(), validInput(), RequestMetadata{})

	require.NoError(t, err)
	assert.Empty(t, out.OTP)
	assert.Equal(t, "unknown", store.metadata[0].IPAddress)
}

// TestSubmitLeadUpsertsByEmail - a second submission with the same email updates the same lead
func TestSubmitLeadUpsertsByEmail(t *testing.T) {
	store := newMemStore()
	uc := newSubmit(store, nil, nil)

	first, err := uc.Execute(context.Background(), validInput(), RequestMetadata{})
	require.NoError(t, err)

	store.leads[first.LeadID].FunnelStage = entity.FunnelStageApplicant

	in := validInput()
	in.Email = "jane.citizen@example.com"
	in.LoanAmount = "40000"
	second, err := uc.Execute(context.Background(), in, RequestMetadata{})
	require.NoError(t, err)

	assert.Equal(t, first.LeadID, second.LeadID)
	assert.Len(t, store.leads, 1)
	lead := store.leads[first.LeadID]
	assert.Equal(t, 40000.0, lead.LoanAmount)
	assert.Equal(t, entity.FunnelStageApplicant, lead.FunnelStage)
	assert.Len(t, store.metadata, 2)
	assert.Len(t, store.verifications, 2)
}

// TestSubmitLeadSupersedesEarlierCode - resubmitting leaves only the newest code active
func TestSubmitLeadSupersedesEarlierCode(t *testing.T) {
	store := newMemStore()
	uc := newSubmit(store, nil, nil)

	first, err := uc.Execute(context.Background(), validInput(), RequestMetadata{})
	require.NoError(t, err)

	resubmitAt := fixedNow.Add(3 * time.Minute)
	uc.Now = func() time.Time { return resubmitAt }
	second, err := uc.Execute(context.Background(), validInput(), RequestMetadata{})
	require.NoError(t, err)
	require.Equal(t, first.LeadID, second.LeadID)

	require.Len(t, store.verifications, 2)
	assert.False(t, store.verifications[0].Active(resubmitAt))
	assert.True(t, store.verifications[1].Active(resubmitAt))

	verify := newVerify(store, nil, resubmitAt.Add(time.Minute))
	if first.OTP != second.OTP {
		_, err = verify.Execute(context.Background(), VerifyOTPInput{LeadID: first.LeadID, OTP: first.OTP})
		assert.Equal(t, CodeOTPExpired, domainCode(t, err))
	}

	_, err = verify.Execute(context.Background(), VerifyOTPInput{LeadID: first.LeadID, OTP: second.OTP})
	assert.NoError(t, err)
}

// TestSubmitLeadValidation - invalid submissions are rejected before anything is written
func TestSubmitLeadValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SubmitLeadInput)
		field   string
		message string
	}{
		{"zero amount", func(in *SubmitLeadInput) { in.LoanAmount = "0" }, "loanAmount", "Invalid loan amount"},
		{"negative amount", func(in *SubmitLeadInput) { in.LoanAmount = "-10" }, "loanAmount", "Invalid loan amount"},
		{"non numeric amount", func(in *SubmitLeadInput) { in.LoanAmount = "lots" }, "loanAmount", "Invalid loan amount"},
		{"postcode too low", func(in *SubmitLeadInput) { in.Postcode = "199" }, "postcode", "Invalid postcode"},
		{"postcode too high", func(in *SubmitLeadInput) { in.Postcode = "10000" }, "postcode", "Invalid postcode"},
		{"underage", func(in *SubmitLeadInput) { in.DOB = "2008-01-01" }, "dob", "Must be at least 18 years old"},
		{"bad dob", func(in *SubmitLeadInput) { in.DOB = "20/04/1990" }, "dob", "Invalid date of birth"},
		{"bad email", func(in *SubmitLeadInput) { in.Email = "not-an-email" }, "email", "Invalid email address"},
		{"missing phone", func(in *SubmitLeadInput) { in.Phone = "  " }, "phone", "Missing required field: phone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMemStore()
			uc := newSubmit(store, nil, nil)
			in := validInput()
			tt.mutate(&in)

			out, err := uc.Execute(context.Background(), in, RequestMetadata{})

			assert.Nil(t, out)
			var de *DomainError
			require.True(t, errors.As(err, &de))
			assert.Equal(t, CodeValidation, de.Code)
			assert.Equal(t, tt.message, de.Message)
			require.NotEmpty(t, de.Details)
			assert.Equal(t, tt.field, de.Details[0].Field)
			assert.Empty(t, store.leads)
		})
	}
}

// TestSubmitLeadTransactionFailure - a failed transaction surfaces as a technical error
func TestSubmitLeadTransactionFailure(t *testing.T) {
	store := newMemStore()
	store.failTx = errors.New("connection reset")
	dispatcher := new(MockDispatcher)

	uc := newSubmit(store, nil, dispatcher)
	_, err := uc.Execute(context.Background(), validInput(), RequestMetadata{})

	assert.True(t, IsTechnicalError(err))
	assert.False(t, IsDomainError(err))
	dispatcher.AssertNotCalled(t, "Dispatch", mock.Anything, mock.Anything)
}

// TestSubmitLeadMailerFailureIsNotFatal - an email failure is logged and the submission still succeeds
func TestSubmitLeadMailerFailureIsNotFatal(t *testing.T) {
	store := newMemStore()
	mailer := new(MockMailer)
	mailer.On("SendOTP", "jane.citizen@example.com", "Jane", mock.AnythingOfType("string"), 10*time.Minute).
		Return(errors.New("smtp: 421")).Once()

	uc := newSubmit(store, mailer, nil)
	out, err := uc.Execute(context.Background(), validInput(), RequestMetadata{})

	require.NoError(t, err)
	logs := store.logsFor(out.LeadID, entity.SystemOTPEmail)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.LogStatusFailed, logs[0].Status)
	assert.Equal(t, 502, *logs[0].ResponseCode)
	mailer.AssertExpectations(t)
}

// TestSubmitLeadDispatchFailureIsLogged - a dispatch failure leaves a FAILED salesforce log
func TestSubmitLeadDispatchFailureIsLogged(t *testing.T) {
	store := newMemStore()
	dispatcher := new(MockDispatcher)
	dispatcher.On("Dispatch", mock.Anything, mock.Anything).Return(errors.New("channel closed"))

	uc := newSubmit(store, nil, dispatcher)
	out, err := uc.Execute(context.Background(), validInput(), RequestMetadata{})

	require.NoError(t, err)
	logs := store.logsFor(out.LeadID, entity.SystemSalesforce)
	require.Len(t, logs, 1)
	assert.Equal(t, entity.LogStatusFailed, logs[0].Status)
	assert.Equal(t, "Sync dispatch failed", *logs[0].ErrorMessage)
}
