// Package qr renders the admission artifact encoded into every booking
// QR code.
package qr

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const imageSize = 512

// Payload is the compact admission payload scanned at the door.
type Payload struct {
	BookingID uuid.UUID `json:"bookingId"`
	EventID   uuid.UUID `json:"eventId"`
	UserID    uuid.UUID `json:"userId"`
	Date      string    `json:"date"`
}

// ObjectPath is the deterministic blob path for a booking's QR image.
// Redelivered create events overwrite the same object instead of
// duplicating it.
func ObjectPath(bookingID uuid.UUID) string {
	return fmt.Sprintf("qrcodes/%s.png", bookingID)
}

// EncodePNG renders the payload as a PNG QR image.
func EncodePNG(payload Payload) ([]byte, error) {
	content, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	png, err := qrcode.Encode(string(content), qrcode.Medium, imageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr image: %w", err)
	}

	return png, nil
}
