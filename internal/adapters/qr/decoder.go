package qr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"ArthaOnboard/internal/core/ports"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/rs/zerolog"
)

// Decoder extracts QR payloads from uploaded document images. Most
// Indian identity documents carry a QR with the printed fields, which
// the verification prompt cross-checks against the visible text.
type Decoder struct {
	log zerolog.Logger
}

var _ ports.QRDecoder = (*Decoder)(nil)

// NewDecoder creates a new QR decoder adapter.
func NewDecoder(baseLogger *zerolog.Logger) *Decoder {
	return &Decoder{log: baseLogger.With().Str("component", "qr_decoder").Logger()}
}

// Decode returns the text payload of the first QR code found in the
// image, or an error when none is decodable.
func (d *Decoder) Decode(data []byte) (string, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to create binary bitmap: %w", err)
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		return "", fmt.Errorf("no QR code found: %w", err)
	}

	d.log.Debug().Int("payload_len", len(result.GetText())).Msg("QR code decoded")
	return result.GetText(), nil
}
