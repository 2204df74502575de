package aigateway

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

// Client talks to an OpenAI-compatible chat-completions gateway. It
// implements the completion, document-verification and
// face-verification ports.
type Client struct {
	baseURL     string
	apiKey      string
	chatModel   string
	visionModel string
	httpClient  *http.Client
	log         zerolog.Logger
}

var _ ports.CompletionClient = (*Client)(nil)
var _ ports.DocumentVerifier = (*Client)(nil)
var _ ports.FaceVerifier = (*Client)(nil)

// NewClient creates a new gateway client adapter.
func NewClient(baseURL, apiKey, chatModel, visionModel string, baseLogger *zerolog.Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		chatModel:   chatModel,
		visionModel: visionModel,
		httpClient:  &http.Client{Timeout: 120 * time.Second},
		log:         baseLogger.With().Str("component", "ai_gateway").Logger(),
	}
}

// --- Wire types (OpenAI chat-completions shape) ---

type wireMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type completionPayload struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

type completionEnvelope struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func buildWireMessages(messages []ports.Message) []wireMessage {
	out := make([]wireMessage, 0, len(messages))
	for _, m := range messages {
		if len(m.Images) == 0 {
			out = append(out, wireMessage{Role: string(m.Role), Content: m.Content})
			continue
		}
		parts := []contentPart{{Type: "text", Text: m.Content}}
		for _, uri := range m.Images {
			parts = append(parts, contentPart{Type: "image_url", ImageURL: &imageURL{URL: uri}})
		}
		out = append(out, wireMessage{Role: string(m.Role), Content: parts})
	}
	return out
}

// post sends the payload and maps transport or HTTP failures to a
// typed GatewayError. The caller owns the response body on success.
func (c *Client) post(ctx context.Context, payload completionPayload) (*http.Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode completion payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Msg("Gateway request failed")
		return nil, &ports.GatewayError{Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		c.log.Error().Int("status", resp.StatusCode).Str("model", payload.Model).Msg("Gateway returned non-success status")
		return nil, &ports.GatewayError{StatusCode: resp.StatusCode, Message: string(detail)}
	}
	return resp, nil
}

// Complete performs a non-streaming completion call.
func (c *Client) Complete(ctx context.Context, req ports.CompletionRequest) (string, error) {
	payload := completionPayload{
		Model:       c.modelFor(req),
		Messages:    buildWireMessages(req.Messages),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	resp, err := c.post(ctx, payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var envelope completionEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if len(envelope.Choices) == 0 {
		return "", fmt.Errorf("completion response contained no choices")
	}
	return envelope.Choices[0].Message.Content, nil
}

// CompleteStream performs a streaming call and feeds incremental text
// deltas to onDelta as they arrive, returning the accumulated reply.
func (c *Client) CompleteStream(ctx context.Context, req ports.CompletionRequest, onDelta func(delta string) error) (string, error) {
	payload := completionPayload{
		Model:       c.modelFor(req),
		Messages:    buildWireMessages(req.Messages),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
		Stream:      true,
	}

	resp, err := c.post(ctx, payload)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var full bytes.Buffer
	reader := newStreamReader(resp.Body)
	for {
		record, err := reader.Next()
		if err == io.EOF || record == streamDoneSentinel {
			break
		}
		if err != nil {
			return full.String(), fmt.Errorf("failed reading completion stream: %w", err)
		}

		delta, ok := decodeDelta(record)
		if !ok {
			// A complete but malformed record: skip it, the stream
			// itself is still healthy.
			c.log.Warn().Str("record", record).Msg("Skipping malformed stream record")
			continue
		}
		if delta == "" {
			continue
		}

		full.WriteString(delta)
		if onDelta != nil {
			if err := onDelta(delta); err != nil {
				return full.String(), err
			}
		}
	}
	return full.String(), nil
}

func (c *Client) modelFor(req ports.CompletionRequest) string {
	if req.Model != "" {
		return req.Model
	}
	for _, m := range req.Messages {
		if len(m.Images) > 0 {
			return c.visionModel
		}
	}
	return c.chatModel
}

type deltaEnvelope struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

func decodeDelta(record string) (string, bool) {
	var envelope deltaEnvelope
	if err := json.Unmarshal([]byte(record), &envelope); err != nil {
		return "", false
	}
	if len(envelope.Choices) == 0 {
		return "", true
	}
	return envelope.Choices[0].Delta.Content, true
}
