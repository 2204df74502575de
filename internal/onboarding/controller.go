package onboarding

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"ArthaOnboard/internal/core/domain"
	"ArthaOnboard/internal/core/ports"
	"ArthaOnboard/internal/shared/validate"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	minMonthlyIncome = 500

	greetingMessage = "Hi, I'm Aria from Artha Bank! I can open your account in a few minutes, right here in chat. To start: what do you do for a living — salaried, freelancer, business owner, or student?"
)

// Controller owns the per-session onboarding state machine. It is the
// only component that mutates a session, and at most one request per
// session is in flight at a time (enforced by the store's busy flag).
type Controller struct {
	store          ports.SessionStore
	completion     ports.CompletionClient
	documents      ports.DocumentVerifier
	faces          ports.FaceVerifier
	deliverability ports.DeliverabilityChecker
	mailer         ports.Mailer
	qr             ports.QRDecoder
	bus            ports.EventBus
	log            zerolog.Logger
}

// NewController wires the state machine to its collaborators.
func NewController(
	store ports.SessionStore,
	completion ports.CompletionClient,
	documents ports.DocumentVerifier,
	faces ports.FaceVerifier,
	deliverability ports.DeliverabilityChecker,
	mailer ports.Mailer,
	qrDecoder ports.QRDecoder,
	bus ports.EventBus,
	baseLogger *zerolog.Logger,
) *Controller {
	return &Controller{
		store:          store,
		completion:     completion,
		documents:      documents,
		faces:          faces,
		deliverability: deliverability,
		mailer:         mailer,
		qr:             qrDecoder,
		bus:            bus,
		log:            baseLogger.With().Str("component", "onboarding_controller").Logger(),
	}
}

// TurnResult is what one user action produced: the assistant reply and
// the session state after the transition.
type TurnResult struct {
	Reply   string
	Session *domain.Session
}

// StartSession creates a fresh session seeded with the greeting.
func (c *Controller) StartSession(ctx context.Context) (*domain.Session, string, error) {
	session, err := c.store.Create(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create session: %w", err)
	}

	session.Transcript = append(session.Transcript, domain.TranscriptEntry{
		Role:    domain.RoleAssistant,
		Content: greetingMessage,
	})
	if err := c.store.Release(ctx, session); err != nil {
		return nil, "", err
	}
	return session, greetingMessage, nil
}

// CloseSession destroys the session. Any late-arriving result for it
// is dropped by the store.
func (c *Controller) CloseSession(ctx context.Context, id uuid.UUID) error {
	return c.store.Delete(ctx, id)
}

// HandleText routes one free-text user message through the state
// machine. When onDelta is non-nil, assistant prose is streamed through
// it as it arrives from the gateway.
func (c *Controller) HandleText(ctx context.Context, id uuid.UUID, text string, onDelta func(delta string) error) (*TurnResult, error) {
	session, err := c.store.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.store.Release(ctx, session) }()

	log := c.log.With().Str("session_id", id.String()).Str("step", string(session.Step)).Logger()

	switch session.Step {
	case domain.StepDone:
		return c.reply(session, "Your onboarding is already complete. Visit any Artha Bank branch or the app for anything else!"), nil

	case domain.StepAwaitingFace:
		// Free text is blocked until a capture result arrives.
		return c.reply(session, "Please finish the face verification in the camera view first. If the camera didn't open, tap the verification button again."), nil

	case domain.StepAwaitingIncome:
		return c.handleIncome(session, text), nil

	case domain.StepAwaitingEmail:
		return c.handleEmail(ctx, session, text), nil

	default:
		return c.handleChat(ctx, log, session, text, onDelta)
	}
}

// handleChat is the default free-conversation path: detect employment,
// ask the model for the next utterance, then apply its phase marker.
func (c *Controller) handleChat(ctx context.Context, log zerolog.Logger, session *domain.Session, text string, onDelta func(delta string) error) (*TurnResult, error) {
	if session.EmploymentType == "" {
		if employment := detectEmployment(text); employment != "" {
			session.EmploymentType = employment
			log.Info().Str("employment", employment).Msg("Employment type detected")
		}
	}

	session.Transcript = append(session.Transcript, domain.TranscriptEntry{Role: domain.RoleUser, Content: text})

	req := ports.CompletionRequest{Messages: c.buildMessages(session)}
	var raw string
	var err error
	if onDelta != nil {
		// Deltas pass through the marker filter so the control protocol
		// never reaches the client mid-stream.
		filter := newMarkerStreamFilter(onDelta)
		raw, err = c.completion.CompleteStream(ctx, req, filter.push)
		if err == nil {
			err = filter.flush()
		}
	} else {
		raw, err = c.completion.Complete(ctx, req)
	}
	if err != nil {
		// Drop the failed turn from the transcript so a retry replays it.
		session.Transcript = session.Transcript[:len(session.Transcript)-1]
		return nil, err
	}

	visible, phase := extractPhase(raw)

	switch phase {
	case PhaseCollectIncome:
		// Students never provide income; ignore a stray marker.
		if !session.IsStudent() && !session.IncomeRecorded() {
			session.Step = domain.StepAwaitingIncome
		}
	case PhaseFaceCheck:
		if !session.FaceVerified {
			session.Step = domain.StepAwaitingFace
		}
	case PhaseCollectEmail:
		if session.Finalized {
			session.Step = domain.StepAwaitingEmail
		}
	default:
		// Marker missing: fall back to scanning the assistant prose.
		if !session.IsStudent() && !session.IncomeRecorded() && matchesAny(visible, incomeTriggerPhrases) {
			session.Step = domain.StepAwaitingIncome
		} else if !session.FaceVerified && matchesAny(visible, faceTriggerPhrases) {
			session.Step = domain.StepAwaitingFace
		}
	}

	if session.ReadyToFinalize() {
		visible = visible + "\n\n" + c.finalize(session)
	}

	// Recorded after finalization so the transcript's assistant turn
	// carries the account details the user actually saw.
	return c.appendReply(session, visible), nil
}

var nonAmountChars = regexp.MustCompile(`[^0-9.]`)

// handleIncome parses the awaited income amount locally, with no model
// round-trip. Amounts below the floor are re-prompted.
func (c *Controller) handleIncome(session *domain.Session, text string) *TurnResult {
	session.Transcript = append(session.Transcript, domain.TranscriptEntry{Role: domain.RoleUser, Content: text})

	cleaned := nonAmountChars.ReplaceAllString(text, "")
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || amount < minMonthlyIncome {
		return c.appendReply(session, fmt.Sprintf("That doesn't look like a valid monthly income. Please enter the amount in INR, at least ₹%d — for example, 25000.", minMonthlyIncome))
	}

	session.MonthlyIncome = &amount
	session.Step = domain.StepChat

	risk := domain.ScoreRisk(domain.RiskInputs{
		MonthlyIncome:     amount,
		EmploymentType:    session.EmploymentType,
		DocumentsVerified: session.DocumentsVerified,
		FaceVerified:      session.FaceVerified,
	})
	session.Risk = &risk

	reply := fmt.Sprintf("Noted — ₹%.0f per month.\n\n%s", amount, risk.Explanation)
	if session.ReadyToFinalize() {
		reply = reply + "\n\n" + c.finalize(session)
	} else if !session.FaceVerified {
		reply += "\n\nNext up is a quick face verification — tap the camera button when you're ready."
		session.Step = domain.StepAwaitingFace
	}
	return c.appendReply(session, reply)
}

// HandleDocument processes an uploaded document image. Uploads are
// accepted in any step and interleave with the conversation.
func (c *Controller) HandleDocument(ctx context.Context, id uuid.UUID, image []byte, mediaType string) (*TurnResult, error) {
	session, err := c.store.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.store.Release(ctx, session) }()

	log := c.log.With().Str("session_id", id.String()).Logger()

	qrPayload := ""
	if c.qr != nil {
		if payload, err := c.qr.Decode(image); err == nil {
			qrPayload = payload
		} else {
			log.Debug().Err(err).Msg("No QR payload in document image")
		}
	}
	panNumber := extractPANCandidate(qrPayload)

	result, err := c.documents.VerifyDocument(ctx, image, mediaType, qrPayload, panNumber)
	if err != nil {
		// A capability failure is not a pass.
		log.Error().Err(err).Msg("Document verification call failed")
		return c.appendReply(session, "⚠️ I couldn't verify that document right now — the verification service is unavailable. Please try uploading it again in a moment."), nil
	}

	session.DocumentsVerified = true

	var reply string
	switch {
	case result == nil:
		// Unparseable verdict: proceed cautiously.
		log.Warn().Msg("Document verdict could not be parsed; proceeding cautiously")
		reply = "Thanks, I've received your document. I couldn't complete the full authenticity analysis, so it may be reviewed again later, but we can continue."
	case result.Flagged():
		if c.bus != nil {
			_ = c.bus.Publish(ctx, ports.TopicDocumentFlagged, ports.DocumentFlaggedEvent{
				SessionID:    session.ID,
				DocumentType: result.DocumentType,
				Verdict:      result.OverallVerdict,
				Reason:       result.Reason,
				RiskFlags:    result.RiskFlags,
			})
		}
		reply = fmt.Sprintf("⚠️ Your %s was received, but our checks flagged it as %s: %s. We'll continue for now, and our team may ask for a clearer copy.",
			orDefault(result.DocumentType, "document"), strings.ToLower(string(result.OverallVerdict)), result.Reason)
	default:
		reply = fmt.Sprintf("Your %s checks out — verdict %s with %.0f%% confidence.",
			orDefault(result.DocumentType, "document"), result.OverallVerdict, result.ConfidenceScore)
		if name := resultName(result); name != "" {
			reply += fmt.Sprintf(" Nice to meet you, %s!", name)
		}
	}

	if session.ReadyToFinalize() {
		reply = reply + "\n\n" + c.finalize(session)
	}
	return c.appendReply(session, reply), nil
}

// HandleFaceCapture processes the capture-flow result. Success returns
// the session to free chat (or straight into finalization); failure
// keeps it in the retry loop with the adapter's reason surfaced.
func (c *Controller) HandleFaceCapture(ctx context.Context, id uuid.UUID, live []byte, liveType string, reference []byte, refType string) (*TurnResult, error) {
	session, err := c.store.Acquire(ctx, id)
	if err != nil {
		return nil, err
	}
	defer func() { _ = c.store.Release(ctx, session) }()

	if session.Step != domain.StepAwaitingFace {
		return c.appendReply(session, "There's no face verification pending right now."), nil
	}

	result, err := c.faces.VerifyFace(ctx, live, liveType, reference, refType)
	if err != nil {
		c.log.Error().Err(err).Str("session_id", id.String()).Msg("Face verification call failed")
		return c.appendReply(session, "⚠️ Face verification is unavailable right now. Please try the capture again in a moment."), nil
	}

	if result != nil && !result.Passed() {
		reason := orDefault(result.Reason, "The capture didn't pass our liveness check.")
		return c.appendReply(session, "⚠️ "+reason+" Let's try once more — make sure your face is well lit and fills the frame."), nil
	}

	// Nil result means the verdict was unparseable; the fail-open
	// stance lets verification proceed with a caution.
	session.FaceVerified = true
	session.Step = domain.StepChat

	reply := "Face verification complete — you're all set on identity checks!"
	if result == nil {
		reply = "Face capture received. The automated check couldn't produce a full verdict, so we'll proceed and may re-verify later."
	}
	if session.ReadyToFinalize() {
		reply = reply + "\n\n" + c.finalize(session)
	}
	return c.appendReply(session, reply), nil
}

// handleEmail runs the optional final step: the literal token "skip"
// completes immediately, anything else must be a valid address.
func (c *Controller) handleEmail(ctx context.Context, session *domain.Session, text string) *TurnResult {
	session.Transcript = append(session.Transcript, domain.TranscriptEntry{Role: domain.RoleUser, Content: text})
	input := strings.TrimSpace(text)

	if strings.EqualFold(input, "skip") {
		session.Step = domain.StepDone
		return c.appendReply(session, "No problem — your account details are shown above. Welcome to Artha Bank! 🎊")
	}

	if !validate.Email(input) {
		return c.appendReply(session, "That doesn't look like a valid email address. Please enter one like name@example.com, or type \"skip\".")
	}

	// Deliverability is best-effort: a definitive negative re-prompts,
	// an infrastructure failure never blocks.
	if c.deliverability != nil {
		verdict, err := c.deliverability.CheckEmail(ctx, input)
		if err == nil && verdict != nil && !verdict.Valid {
			reason := orDefault(verdict.Reason, "the address appears undeliverable")
			return c.appendReply(session, fmt.Sprintf("Hmm, %s. Double-check the address, or type \"skip\".", reason))
		}
	}

	session.Step = domain.StepDone
	if err := c.mailer.Send(ctx, input, "Your Artha Bank account details", accountEmailBody(session)); err != nil {
		// Fail-open: dispatch failure never blocks completion.
		c.log.Warn().Err(err).Str("session_id", session.ID.String()).Msg("Account email dispatch failed")
		return c.appendReply(session, "⚠️ I couldn't send the email just now, but your account is fully active and the details are shown above. Welcome to Artha Bank! 🎊")
	}
	return c.appendReply(session, fmt.Sprintf("Done! I've emailed your account details to %s. Welcome to Artha Bank! 🎊", input))
}

// finalize assigns account details exactly once and moves the session
// into the optional email step.
func (c *Controller) finalize(session *domain.Session) string {
	if !finalizeAccount(session) {
		return ""
	}
	c.log.Info().
		Str("session_id", session.ID.String()).
		Str("account_type", session.AccountType).
		Str("ifsc", session.IFSC).
		Msg("Account finalized")

	session.Step = domain.StepAwaitingEmail

	summary := accountSummaryMessage(session)
	if session.IsStudent() {
		summary = studentRiskNarrative + "\n\n" + summary
	}
	return summary
}

func (c *Controller) buildMessages(session *domain.Session) []ports.Message {
	messages := make([]ports.Message, 0, len(session.Transcript)+2)
	messages = append(messages,
		ports.Message{Role: ports.RoleSystem, Content: systemPrompt},
		ports.Message{Role: ports.RoleSystem, Content: stateContextNote(session)},
	)
	for _, entry := range session.Transcript {
		messages = append(messages, ports.Message{Role: ports.Role(entry.Role), Content: entry.Content})
	}
	return messages
}

// reply returns a canned assistant reply without touching the transcript.
func (c *Controller) reply(session *domain.Session, text string) *TurnResult {
	return &TurnResult{Reply: text, Session: session.Clone()}
}

// appendReply records the assistant reply on the transcript and wraps
// it in a TurnResult.
func (c *Controller) appendReply(session *domain.Session, text string) *TurnResult {
	session.Transcript = append(session.Transcript, domain.TranscriptEntry{Role: domain.RoleAssistant, Content: text})
	return &TurnResult{Reply: text, Session: session.Clone()}
}

var panCandidateRegex = regexp.MustCompile(`[A-Z]{5}[0-9]{4}[A-Z]`)

// extractPANCandidate pulls a PAN-shaped token out of a decoded QR
// payload so the verification prompt can cross-check it.
func extractPANCandidate(qrPayload string) string {
	if qrPayload == "" {
		return ""
	}
	candidate := panCandidateRegex.FindString(strings.ToUpper(qrPayload))
	if candidate == "" {
		return ""
	}
	if v := validate.PAN(candidate); !v.Valid {
		return ""
	}
	return candidate
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func resultName(result *domain.DocumentVerificationResult) string {
	return strings.TrimSpace(result.ExtractedData.Name)
}
