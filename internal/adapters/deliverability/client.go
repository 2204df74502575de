package deliverability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ArthaOnboard/internal/core/ports"

	"github.com/rs/zerolog"
)

// Client calls the external email/phone validation API. The service is
// best-effort: callers apply the fail-open policy when it errors.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
}

var _ ports.DeliverabilityChecker = (*Client)(nil)

// NewClient creates a new deliverability client adapter.
func NewClient(baseURL, apiKey string, baseLogger *zerolog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        baseLogger.With().Str("component", "deliverability").Logger(),
	}
}

type verdictEnvelope struct {
	Deliverable bool   `json:"deliverable"`
	Reason      string `json:"reason"`
}

// CheckEmail asks the validation API whether the address is deliverable.
func (c *Client) CheckEmail(ctx context.Context, address string) (*ports.DeliverabilityVerdict, error) {
	return c.check(ctx, "/v1/email", address)
}

// CheckPhone asks the validation API whether the number is reachable
// and assigned to a known country plan.
func (c *Client) CheckPhone(ctx context.Context, number string) (*ports.DeliverabilityVerdict, error) {
	return c.check(ctx, "/v1/phone", number)
}

func (c *Client) check(ctx context.Context, path, value string) (*ports.DeliverabilityVerdict, error) {
	endpoint := fmt.Sprintf("%s%s?value=%s", c.baseURL, path, url.QueryEscape(value))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build deliverability request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("Deliverability request failed")
		return nil, fmt.Errorf("deliverability service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("Deliverability service returned non-success status")
		return nil, fmt.Errorf("deliverability service returned status %d: %s", resp.StatusCode, string(body))
	}

	var envelope verdictEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode deliverability response: %w", err)
	}
	return &ports.DeliverabilityVerdict{Valid: envelope.Deliverable, Reason: envelope.Reason}, nil
}
