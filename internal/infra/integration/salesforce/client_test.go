package salesforce

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestPushLeadSendsWrappedPayload(t *testing.T) {
	var got createLeadRequest
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret-token", time.Second, testLogger())
	code, err := c.PushLead(context.Background(), LeadPayload{
		LeadID:     "lead-1",
		Email:      "jane@example.com",
		FirstName:  "Jane",
		LastName:   "Citizen",
		Phone:      "0412 345 678",
		LoanAmount: 15000,
		LoanType:   "personal",
	})

	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "Bearer secret-token", auth)
	assert.Equal(t, "lead-1", got.Data.LeadID)
	assert.Equal(t, 15000.0, got.Data.LoanAmount)
	assert.Equal(t, "personal", got.Data.LoanType)
}

func TestPushLeadWithoutTokenOmitsAuthorization(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	code, err := NewClient(srv.URL, "", time.Second, testLogger()).PushLead(context.Background(), LeadPayload{LeadID: "x"})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, code)
}

func TestPushLeadNon2xxReturnsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	code, err := NewClient(srv.URL, "", time.Second, testLogger()).PushLead(context.Background(), LeadPayload{LeadID: "x"})

	require.Error(t, err)
	assert.Equal(t, http.StatusBadGateway, code)
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.StatusCode)
}

func TestPushLeadTransportErrorHasNoStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	code, err := NewClient(url, "", time.Second, testLogger()).PushLead(context.Background(), LeadPayload{LeadID: "x"})
	require.Error(t, err)
	assert.Zero(t, code)
}
