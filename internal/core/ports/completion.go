package ports

import (
	"context"
	"fmt"
)

// Role tags a message sent to the completion capability.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role-tagged entry of a completion request. Images are
// attached as data URIs alongside the text content.
type Message struct {
	Role    Role
	Content string
	Images  []string
}

// CompletionRequest is a single call to the generative capability.
type CompletionRequest struct {
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// CompletionClient is the outbound port to the LLM gateway.
type CompletionClient interface {
	// Complete performs a non-streaming call and returns the full
	// assistant reply.
	Complete(ctx context.Context, req CompletionRequest) (string, error)

	// CompleteStream performs a streaming call, invoking onDelta for
	// every incremental text chunk, and returns the accumulated reply.
	// A non-nil error from onDelta aborts the stream.
	CompleteStream(ctx context.Context, req CompletionRequest, onDelta func(delta string) error) (string, error)
}

// GatewayError is a typed failure from the completion/verification
// capability: a non-success HTTP status or a transport fault. It is
// distinct from a parse failure on a successful response, which
// degrades to a nil result instead.
type GatewayError struct {
	StatusCode int // 0 for transport-level failures
	Message    string
}

func (e *GatewayError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("ai gateway unreachable: %s", e.Message)
	}
	return fmt.Sprintf("ai gateway returned status %d: %s", e.StatusCode, e.Message)
}
