package alerts

import (
	"context"
	"fmt"
	"strings"

	"ArthaOnboard/internal/core/ports"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

// ReviewNotifier forwards flagged-document verdicts to a private ops
// Telegram channel so a human can look at suspicious uploads. It is
// strictly best-effort: onboarding itself never waits on it.
type ReviewNotifier struct {
	api       *tgbotapi.BotAPI
	channelID int64
	log       zerolog.Logger
}

var _ ports.AlertNotifier = (*ReviewNotifier)(nil)

// NewReviewNotifier creates the notifier, or (nil, nil) when no bot
// token is configured — alerting is an optional capability.
func NewReviewNotifier(botToken string, channelID int64, baseLogger *zerolog.Logger) (*ReviewNotifier, error) {
	if botToken == "" {
		return nil, nil
	}
	api, err := tgbotapi.NewBotAPI(botToken)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize alert bot: %w", err)
	}
	return &ReviewNotifier{
		api:       api,
		channelID: channelID,
		log:       baseLogger.With().Str("component", "review_notifier").Logger(),
	}, nil
}

// NotifySuspiciousDocument posts a plain-text alert to the ops channel.
func (n *ReviewNotifier) NotifySuspiciousDocument(ctx context.Context, event ports.DocumentFlaggedEvent) error {
	var b strings.Builder
	fmt.Fprintf(&b, "Document flagged during onboarding\n")
	fmt.Fprintf(&b, "Session: %s\n", event.SessionID)
	fmt.Fprintf(&b, "Type: %s\n", event.DocumentType)
	fmt.Fprintf(&b, "Verdict: %s\n", event.Verdict)
	if event.Reason != "" {
		fmt.Fprintf(&b, "Reason: %s\n", event.Reason)
	}
	if len(event.RiskFlags) > 0 {
		fmt.Fprintf(&b, "Flags: %s\n", strings.Join(event.RiskFlags, ", "))
	}

	msg := tgbotapi.NewMessage(n.channelID, b.String())
	if _, err := n.api.Send(msg); err != nil {
		n.log.Error().Err(err).Str("session_id", event.SessionID.String()).Msg("Failed to post review alert")
		return err
	}
	n.log.Info().Str("session_id", event.SessionID.String()).Str("verdict", string(event.Verdict)).Msg("Review alert posted")
	return nil
}

// Subscribe wires the notifier to the event bus topic. Safe to call on
// a nil notifier; the subscription is simply skipped.
func (n *ReviewNotifier) Subscribe(bus ports.EventBus) {
	if n == nil {
		return
	}
	bus.Subscribe(ports.TopicDocumentFlagged, func(ctx context.Context, event ports.Event) error {
		payload, ok := event.Data.(ports.DocumentFlaggedEvent)
		if !ok {
			n.log.Warn().Str("topic", event.Topic).Msg("Unexpected event payload type")
			return nil
		}
		return n.NotifySuspiciousDocument(ctx, payload)
	})
}
