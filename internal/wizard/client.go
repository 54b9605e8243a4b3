package wizard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Backend is the part of the lead capture API the wizard talks to.
type Backend interface {
	Submit(ctx context.Context, data map[string]string) (*SubmitResult, error)
	Verify(ctx context.Context, leadID, otp string) (*VerifyResult, error)
	Resend(ctx context.Context, leadID string) (*ResendResult, error)
}

type SubmitResult struct {
	Success bool   `json:"success"`
	LeadID  string `json:"leadId"`
	Message string `json:"message"`
	OTP     string `json:"otp,omitempty"`
}

type VerifyResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Lead    struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"lead"`
	ApplicationToken string `json:"applicationToken,omitempty"`
}

type ResendResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OTP     string `json:"otp,omitempty"`
}

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api returned status %d", e.StatusCode)
	}
	return e.Message
}

type Client struct {
	baseURL string
	http    *http.Client
	logger  *logrus.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// Submit posts the loan and personal details. Only fields of the first two
// steps are sent.
func (c *Client) Submit(ctx context.Context, data map[string]string) (*SubmitResult, error) {
	body := make(map[string]string)
	for _, id := range []int{StepLoanDetails, StepPersonalDetails} {
		step, _ := StepByID(id)
		for _, f := range step.Fields {
			if v, ok := data[f]; ok {
				body[f] = v
			}
		}
	}

	var out SubmitResult
	if err := c.do(ctx, http.MethodPost, "/api/loan-application", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Verify(ctx context.Context, leadID, otp string) (*VerifyResult, error) {
	var out VerifyResult
	err := c.do(ctx, http.MethodPost, "/api/verify-otp", map[string]string{"leadId": leadID, "otp": otp}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Resend(ctx context.Context, leadID string) (*ResendResult, error) {
	var out ResendResult
	if err := c.do(ctx, http.MethodPut, "/api/verify-otp", map[string]string{"leadId": leadID}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	c.logger.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
	}).Debug("API call")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{StatusCode: resp.StatusCode, Code: apiErr.Code, Message: apiErr.Error}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
