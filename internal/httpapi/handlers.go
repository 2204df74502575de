package httpapi

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"ArthaOnboard/internal/core/domain"
	"ArthaOnboard/internal/core/ports"
	"ArthaOnboard/internal/onboarding"
	"ArthaOnboard/internal/shared/config"
	"ArthaOnboard/internal/shared/validate"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Handler serves the single multiplexed assistant endpoint. The body
// key present in the request selects which internal operation runs.
type Handler struct {
	cfg            *config.Config
	controller     *onboarding.Controller
	documents      ports.DocumentVerifier
	faces          ports.FaceVerifier
	deliverability ports.DeliverabilityChecker
	mailer         ports.Mailer
	log            zerolog.Logger
}

// NewHandler wires the endpoint to the engine and the direct adapters.
func NewHandler(
	cfg *config.Config,
	controller *onboarding.Controller,
	documents ports.DocumentVerifier,
	faces ports.FaceVerifier,
	deliverability ports.DeliverabilityChecker,
	mailer ports.Mailer,
	baseLogger *zerolog.Logger,
) *Handler {
	return &Handler{
		cfg:            cfg,
		controller:     controller,
		documents:      documents,
		faces:          faces,
		deliverability: deliverability,
		mailer:         mailer,
		log:            baseLogger.With().Str("component", "assistant_handler").Logger(),
	}
}

// --- Request shapes ---

type riskDataPayload struct {
	MonthlyIncome     float64 `json:"monthlyIncome"`
	EmploymentType    string  `json:"employmentType"`
	DocumentsVerified bool    `json:"documentsVerified"`
	FaceVerified      bool    `json:"faceVerified"`
}

type documentVerifyPayload struct {
	ImageBase64 string `json:"imageBase64"`
	MediaType   string `json:"mediaType"`
	QRPayload   string `json:"qrPayload"`
	PANNumber   string `json:"panNumber"`
}

type faceVerifyPayload struct {
	LiveImageBase64      string `json:"liveImageBase64"`
	LiveMediaType        string `json:"liveMediaType"`
	ReferenceImageBase64 string `json:"referenceImageBase64"`
	ReferenceMediaType   string `json:"referenceMediaType"`
}

type sendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type sessionOpPayload struct {
	Op string `json:"op"` // create | close
}

type transcriptMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type assistantRequest struct {
	RiskData           *riskDataPayload       `json:"riskData"`
	DocumentVerifyMode *documentVerifyPayload `json:"documentVerifyMode"`
	FaceVerifyMode     *faceVerifyPayload     `json:"faceVerifyMode"`
	SendEmail          *sendEmailPayload      `json:"sendEmail"`
	ValidateEmailReq   *string                `json:"validateEmailReq"`
	ValidatePhoneReq   *string                `json:"validatePhoneReq"`
	SessionOp          *sessionOpPayload      `json:"sessionOp"`

	// Default chat mode.
	SessionID string              `json:"sessionId"`
	Message   string              `json:"message"`
	Messages  []transcriptMessage `json:"messages"`
	Stream    bool                `json:"stream"`
}

// Assistant is the single POST entry point.
func (h *Handler) Assistant(c *gin.Context) {
	var req assistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	switch {
	case req.RiskData != nil:
		h.handleRiskData(c, req.RiskData)
	case req.DocumentVerifyMode != nil:
		h.handleDocumentVerify(c, &req)
	case req.FaceVerifyMode != nil:
		h.handleFaceVerify(c, &req)
	case req.SendEmail != nil:
		h.handleSendEmail(c, req.SendEmail)
	case req.ValidateEmailReq != nil:
		h.handleValidateEmail(c, *req.ValidateEmailReq)
	case req.ValidatePhoneReq != nil:
		h.handleValidatePhone(c, *req.ValidatePhoneReq)
	case req.SessionOp != nil:
		h.handleSessionOp(c, &req)
	default:
		h.handleChat(c, &req)
	}
}

// handleRiskData scores the supplied inputs directly; the risk model
// is pure, so this never fails.
func (h *Handler) handleRiskData(c *gin.Context, payload *riskDataPayload) {
	result := domain.ScoreRisk(domain.RiskInputs{
		MonthlyIncome:     payload.MonthlyIncome,
		EmploymentType:    payload.EmploymentType,
		DocumentsVerified: payload.DocumentsVerified,
		FaceVerified:      payload.FaceVerified,
	})
	c.JSON(http.StatusOK, result)
}

func (h *Handler) handleDocumentVerify(c *gin.Context, req *assistantRequest) {
	if !h.requireGateway(c) {
		return
	}
	payload := req.DocumentVerifyMode
	image, err := base64.StdEncoding.DecodeString(payload.ImageBase64)
	if err != nil || len(image) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "imageBase64 is missing or not valid base64"})
		return
	}

	// With a session, the upload flows through the state machine;
	// without one, this is a direct verification RPC.
	if req.SessionID != "" {
		id, ok := h.parseSessionID(c, req.SessionID)
		if !ok {
			return
		}
		turn, err := h.controller.HandleDocument(c.Request.Context(), id, image, payload.MediaType)
		if err != nil {
			h.writeError(c, err)
			return
		}
		h.writeTurn(c, turn)
		return
	}

	result, err := h.documents.VerifyDocument(c.Request.Context(), image, payload.MediaType, payload.QRPayload, payload.PANNumber)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if result == nil {
		// Parse degradation on a successful upstream reply.
		c.JSON(http.StatusOK, gin.H{"result": nil, "warning": "verification reply could not be parsed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

func (h *Handler) handleFaceVerify(c *gin.Context, req *assistantRequest) {
	if !h.requireGateway(c) {
		return
	}
	payload := req.FaceVerifyMode
	live, err := base64.StdEncoding.DecodeString(payload.LiveImageBase64)
	if err != nil || len(live) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "liveImageBase64 is missing or not valid base64"})
		return
	}
	var reference []byte
	if payload.ReferenceImageBase64 != "" {
		reference, err = base64.StdEncoding.DecodeString(payload.ReferenceImageBase64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "referenceImageBase64 is not valid base64"})
			return
		}
	}

	if req.SessionID != "" {
		id, ok := h.parseSessionID(c, req.SessionID)
		if !ok {
			return
		}
		turn, err := h.controller.HandleFaceCapture(c.Request.Context(), id, live, payload.LiveMediaType, reference, payload.ReferenceMediaType)
		if err != nil {
			h.writeError(c, err)
			return
		}
		h.writeTurn(c, turn)
		return
	}

	result, err := h.faces.VerifyFace(c.Request.Context(), live, payload.LiveMediaType, reference, payload.ReferenceMediaType)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if result == nil {
		c.JSON(http.StatusOK, gin.H{"result": nil, "warning": "verification reply could not be parsed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": result})
}

// handleSendEmail reports dispatch failure in the body rather than the
// status: email is fail-open and must never look like a hard error.
func (h *Handler) handleSendEmail(c *gin.Context, payload *sendEmailPayload) {
	if !validate.Email(payload.To) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recipient address is not a valid email"})
		return
	}
	if err := h.mailer.Send(c.Request.Context(), payload.To, payload.Subject, payload.HTML); err != nil {
		c.JSON(http.StatusOK, gin.H{"sent": false, "warning": "email dispatch failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": true})
}

// handleValidateEmail runs the local format check, then the best-effort
// deliverability lookup. Lookup infrastructure failure is fail-open.
func (h *Handler) handleValidateEmail(c *gin.Context, address string) {
	if !validate.Email(address) {
		c.JSON(http.StatusOK, gin.H{"valid": false, "reason": "address does not match the expected name@domain.tld shape"})
		return
	}
	if h.deliverability != nil {
		verdict, err := h.deliverability.CheckEmail(c.Request.Context(), address)
		if err == nil && verdict != nil {
			c.JSON(http.StatusOK, gin.H{"valid": verdict.Valid, "reason": verdict.Reason})
			return
		}
		if err != nil {
			h.log.Warn().Err(err).Msg("Email deliverability lookup failed; falling back to format check")
		}
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "reason": "format ok; deliverability not checked"})
}

func (h *Handler) handleValidatePhone(c *gin.Context, number string) {
	normalized, ok := validate.NormalizePhone(number)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"valid": false, "reason": "number is not reducible to digits"})
		return
	}
	if h.deliverability != nil {
		verdict, err := h.deliverability.CheckPhone(c.Request.Context(), normalized)
		if err == nil && verdict != nil {
			c.JSON(http.StatusOK, gin.H{"valid": verdict.Valid, "reason": verdict.Reason, "normalized": normalized})
			return
		}
		if err != nil {
			h.log.Warn().Err(err).Msg("Phone deliverability lookup failed; falling back to format check")
		}
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "reason": "format ok; deliverability not checked", "normalized": normalized})
}

func (h *Handler) handleSessionOp(c *gin.Context, req *assistantRequest) {
	switch req.SessionOp.Op {
	case "create":
		session, greeting, err := h.controller.StartSession(c.Request.Context())
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"sessionId": session.ID.String(),
			"message":   greeting,
			"session":   sessionSnapshot(session),
		})
	case "close":
		id, ok := h.parseSessionID(c, req.SessionID)
		if !ok {
			return
		}
		if err := h.controller.CloseSession(c.Request.Context(), id); err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"closed": true})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionOp.op must be create or close"})
	}
}

// handleChat runs one conversational turn, streaming deltas when asked.
func (h *Handler) handleChat(c *gin.Context, req *assistantRequest) {
	if !h.requireGateway(c) {
		return
	}
	id, ok := h.parseSessionID(c, req.SessionID)
	if !ok {
		return
	}

	text := req.Message
	if text == "" {
		// Compatibility with clients that post the whole transcript.
		for i := len(req.Messages) - 1; i >= 0; i-- {
			if req.Messages[i].Role == "user" {
				text = req.Messages[i].Content
				break
			}
		}
	}
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no user message found in request"})
		return
	}

	if !req.Stream {
		turn, err := h.controller.HandleText(c.Request.Context(), id, text, nil)
		if err != nil {
			h.writeError(c, err)
			return
		}
		h.writeTurn(c, turn)
		return
	}

	h.streamChat(c, id, text)
}

// streamChat forwards gateway deltas as server-sent events, then closes
// with a final state record and the done sentinel. The event stream is
// only committed once there is something to send, so errors raised
// before the first delta still map onto proper status codes.
func (h *Handler) streamChat(c *gin.Context, id uuid.UUID, text string) {
	streaming := false
	writeEvent := func(v any) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		if !streaming {
			streaming = true
			c.Header("Content-Type", "text/event-stream")
			c.Header("Cache-Control", "no-cache")
			c.Header("Connection", "keep-alive")
		}
		if _, err := fmt.Fprintf(c.Writer, "data: %s\n\n", data); err != nil {
			return err
		}
		c.Writer.Flush()
		return nil
	}

	turn, err := h.controller.HandleText(c.Request.Context(), id, text, func(delta string) error {
		return writeEvent(gin.H{"delta": delta})
	})
	if err != nil {
		if !streaming {
			h.writeError(c, err)
			return
		}
		_ = writeEvent(gin.H{"error": errorMessage(err)})
		fmt.Fprint(c.Writer, "data: [DONE]\n\n")
		c.Writer.Flush()
		return
	}

	_ = writeEvent(gin.H{
		"done":    true,
		"reply":   turn.Reply,
		"step":    turn.Session.Step,
		"session": sessionSnapshot(turn.Session),
	})
	fmt.Fprint(c.Writer, "data: [DONE]\n\n")
	c.Writer.Flush()
}

// --- Helpers ---

// requireGateway enforces the configuration error class: a missing
// gateway secret is a generic 500, never a detailed message.
func (h *Handler) requireGateway(c *gin.Context) bool {
	if h.cfg.GatewayConfigured() {
		return true
	}
	h.log.Error().Msg("AI gateway API key is not configured")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "configuration error"})
	return false
}

func (h *Handler) parseSessionID(c *gin.Context, raw string) (uuid.UUID, bool) {
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is not a valid UUID"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) writeTurn(c *gin.Context, turn *onboarding.TurnResult) {
	c.JSON(http.StatusOK, gin.H{
		"reply":   turn.Reply,
		"step":    turn.Session.Step,
		"session": sessionSnapshot(turn.Session),
	})
}

// writeError maps engine errors onto the response taxonomy: upstream
// statuses pass through where meaningful, everything else is generic.
func (h *Handler) writeError(c *gin.Context, err error) {
	var gwErr *ports.GatewayError
	switch {
	case errors.As(err, &gwErr):
		switch gwErr.StatusCode {
		case http.StatusTooManyRequests:
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded, please retry shortly"})
		case http.StatusPaymentRequired:
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "upstream quota exhausted"})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": "AI service error"})
		}
	case errors.Is(err, ports.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, ports.ErrSessionBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "a request for this session is already in flight"})
	default:
		h.log.Error().Err(err).Msg("Unhandled engine error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func errorMessage(err error) string {
	var gwErr *ports.GatewayError
	if errors.As(err, &gwErr) {
		return "AI service error"
	}
	return "internal error"
}

type sessionView struct {
	ID                string                `json:"id"`
	Step              domain.OnboardingStep `json:"step"`
	EmploymentType    string                `json:"employmentType,omitempty"`
	MonthlyIncome     *float64              `json:"monthlyIncome,omitempty"`
	DocumentsVerified bool                  `json:"documentsVerified"`
	FaceVerified      bool                  `json:"faceVerified"`
	Risk              *domain.RiskResult    `json:"risk,omitempty"`
	AccountNumber     string                `json:"accountNumber,omitempty"`
	IFSC              string                `json:"ifsc,omitempty"`
	AccountType       string                `json:"accountType,omitempty"`
	Finalized         bool                  `json:"finalized"`
}

func sessionSnapshot(s *domain.Session) sessionView {
	return sessionView{
		ID:                s.ID.String(),
		Step:              s.Step,
		EmploymentType:    s.EmploymentType,
		MonthlyIncome:     s.MonthlyIncome,
		DocumentsVerified: s.DocumentsVerified,
		FaceVerified:      s.FaceVerified,
		Risk:              s.Risk,
		AccountNumber:     s.AccountNumber,
		IFSC:              s.IFSC,
		AccountType:       s.AccountType,
		Finalized:         s.Finalized,
	}
}
