package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"ArthaOnboard/internal/core/ports"

	"github.com/rs/zerolog"
)

// Client dispatches transactional email through an HTTP mail API.
// Dispatch failure degrades to a warning upstream; it never blocks
// completion of onboarding.
type Client struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
	log        zerolog.Logger
}

var _ ports.Mailer = (*Client)(nil)

// NewClient creates a new mail dispatch adapter.
func NewClient(baseURL, apiKey, from string, baseLogger *zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		from:       from,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		log:        baseLogger.With().Str("component", "mailer").Logger(),
	}
}

type sendPayload struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send dispatches one email and returns an error on any failure.
func (c *Client) Send(ctx context.Context, to, subject, htmlBody string) error {
	body, err := json.Marshal(sendPayload{
		From:    c.from,
		To:      []string{to},
		Subject: subject,
		HTML:    htmlBody,
	})
	if err != nil {
		return fmt.Errorf("failed to encode mail payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build mail request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("to", to).Msg("Mail dispatch failed")
		return fmt.Errorf("mail service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.log.Warn().Int("status", resp.StatusCode).Str("to", to).Msg("Mail service returned non-success status")
		return fmt.Errorf("mail service returned status %d: %s", resp.StatusCode, string(detail))
	}

	c.log.Info().Str("to", to).Str("subject", subject).Msg("Email dispatched")
	return nil
}
