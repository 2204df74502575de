package aigateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"ArthaOnboard/internal/core/domain"
	"ArthaOnboard/internal/core/ports"
)

const documentSchemaHint = `{"documentType": string, "isAuthentic": bool, "confidenceScore": number 0-100, "tamperedAreas": [string], "formatValid": bool, "securityFeatures": {"detected": [string], "missing": [string]}, "extractedData": {"name": string, "idNumber": string, "dob": string, "gender": string}, "qrConsistent": bool or null, "riskFlags": [string], "overallVerdict": "GENUINE"|"SUSPICIOUS"|"LIKELY_FAKE", "reason": string}`

// VerifyDocument asks the vision capability for a forensic verdict on
// one document image. A transport/HTTP failure surfaces as an error; a
// reply that cannot be parsed degrades to (nil, nil) so the caller can
// proceed cautiously.
func (c *Client) VerifyDocument(ctx context.Context, image []byte, mediaType, qrPayload, panNumber string) (*domain.DocumentVerificationResult, error) {
	var b strings.Builder
	b.WriteString("Analyse the attached identity document image.\n")
	b.WriteString("1. Classify the document type (Aadhaar card, PAN card, passport, driving licence, voter ID, or other).\n")
	b.WriteString("2. Flag any tampering indicators: font inconsistencies, photo substitution, digital editing artefacts, misaligned fields.\n")
	b.WriteString("3. Validate the layout and expected security features (hologram, ghost image, micro text, emblem placement).\n")
	if qrPayload != "" {
		fmt.Fprintf(&b, "4. Cross-check the decoded QR payload against the printed fields and set qrConsistent accordingly. QR payload: %s\n", qrPayload)
	} else {
		b.WriteString("4. No QR payload was decoded; set qrConsistent to null.\n")
	}
	if panNumber != "" {
		fmt.Fprintf(&b, "5. The PAN read from this document is %s; verify it matches the printed number.\n", panNumber)
	}
	b.WriteString("Respond with ONLY a strict JSON object, no prose, matching exactly this shape: ")
	b.WriteString(documentSchemaHint)

	raw, err := c.Complete(ctx, ports.CompletionRequest{
		Model: c.visionModel,
		Messages: []ports.Message{
			{Role: ports.RoleSystem, Content: "You are a meticulous document forensics analyst for a bank's onboarding system."},
			{Role: ports.RoleUser, Content: b.String(), Images: []string{dataURI(image, mediaType)}},
		},
	})
	if err != nil {
		return nil, err
	}

	blob, ok := extractJSON(raw)
	if !ok {
		c.log.Warn().Msg("Document verification reply contained no JSON object")
		return nil, nil
	}
	var result domain.DocumentVerificationResult
	if err := json.Unmarshal([]byte(blob), &result); err != nil {
		c.log.Warn().Err(err).Msg("Document verification reply was not valid JSON")
		return nil, nil
	}
	return &result, nil
}

// VerifyFace runs the liveness + match prompt. Absent liveness or match
// fields default to true; only an explicit false gates progress.
func (c *Client) VerifyFace(ctx context.Context, live []byte, liveType string, reference []byte, refType string) (*domain.FaceVerificationResult, error) {
	images := []string{dataURI(live, liveType)}
	instruction := "The attached image is a live face capture. Judge liveness: is this a live subject rather than a photo of a screen, a printout, or a mask?"
	if len(reference) > 0 {
		images = append(images, dataURI(reference, refType))
		instruction += " The second image is the face from the applicant's identity document; judge whether both show the same person."
	} else {
		instruction += " No reference document face is available; set match to null."
	}
	instruction += ` Respond with ONLY a strict JSON object: {"liveness": bool, "match": bool or null, "reason": string}`

	raw, err := c.Complete(ctx, ports.CompletionRequest{
		Model: c.visionModel,
		Messages: []ports.Message{
			{Role: ports.RoleSystem, Content: "You are a face liveness and identity matching analyst."},
			{Role: ports.RoleUser, Content: instruction, Images: images},
		},
	})
	if err != nil {
		return nil, err
	}

	blob, ok := extractJSON(raw)
	if !ok {
		c.log.Warn().Msg("Face verification reply contained no JSON object")
		return nil, nil
	}
	var parsed struct {
		Liveness *bool  `json:"liveness"`
		Match    *bool  `json:"match"`
		Reason   string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(blob), &parsed); err != nil {
		c.log.Warn().Err(err).Msg("Face verification reply was not valid JSON")
		return nil, nil
	}

	result := &domain.FaceVerificationResult{
		Liveness: true, // fail-open: only an explicit false flips it
		Match:    parsed.Match,
		Reason:   parsed.Reason,
	}
	if parsed.Liveness != nil {
		result.Liveness = *parsed.Liveness
	}
	return result, nil
}

func dataURI(data []byte, mediaType string) string {
	return "data:" + mediaType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// extractJSON returns the first balanced {...} block of a possibly
// prose-wrapped reply, honouring string literals and escapes.
func extractJSON(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
