package salesforce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// StatusError is returned when the CRM answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("crm rejected lead (status %d)", e.StatusCode)
}

type Client struct {
	url    string
	token  string
	http   *http.Client
	logger *logrus.Logger
}

func NewClient(url, token string, timeout time.Duration, logger *logrus.Logger) *Client {
	return &Client{
		url:    url,
		token:  token,
		http:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

func (c *Client) Configured() bool {
	return c.url != ""
}

// PushLead posts the lead to the CRM and returns the HTTP status it answered
// with. The status is 0 when no response was received.
func (c *Client) PushLead(ctx context.Context, payload LeadPayload) (int, error) {
	body, err := json.Marshal(createLeadRequest{Data: payload})
	if err != nil {
		return 0, fmt.Errorf("marshal crm lead: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build crm request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("crm request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.WithFields(logrus.Fields{
			"lead_id": payload.LeadID,
			"status":  resp.StatusCode,
			"body":    string(raw),
		}).Warn("CRM rejected lead")
		return resp.StatusCode, &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}

	c.logger.WithFields(logrus.Fields{
		"lead_id": payload.LeadID,
		"status":  resp.StatusCode,
	}).Info("Lead pushed to CRM")
	return resp.StatusCode, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}
