package ports

import (
	"context"

	"ArthaOnboard/internal/core/domain"
)

// DocumentVerifier sends a document image to the vision capability and
// parses its structured verdict.
//
// A (nil, nil) return means the capability answered but its reply could
// not be parsed; callers degrade gracefully rather than fail. A non-nil
// error is a transport or upstream HTTP failure (see GatewayError).
type DocumentVerifier interface {
	VerifyDocument(ctx context.Context, image []byte, mediaType, qrPayload, panNumber string) (*domain.DocumentVerificationResult, error)
}

// FaceVerifier runs the liveness + match prompt over a live capture and
// an optional reference document face. Same degradation contract as
// DocumentVerifier.
type FaceVerifier interface {
	VerifyFace(ctx context.Context, live []byte, liveType string, reference []byte, refType string) (*domain.FaceVerificationResult, error)
}

// QRDecoder extracts the payload of a QR code embedded in a document
// image, when one is present.
type QRDecoder interface {
	Decode(image []byte) (string, error)
}
