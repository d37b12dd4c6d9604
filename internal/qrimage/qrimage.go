// internal/qrimage/qrimage.go

// Package qrimage renders a QR code record into a scannable PNG. The
// encoded content is the record's JSON serialization, so a scanner app can
// read the public layer offline.
package qrimage

import (
	"encoding/base64"
	"encoding/json"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/qrtrace/qrtrace-api/internal/models"
)

// DefaultSize is the rendered image edge length in pixels.
const DefaultSize = 300

// RenderPNG encodes the record as a QR code PNG.
func RenderPNG(qrCode *models.QRCode, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}

	content, err := json.Marshal(qrCode)
	if err != nil {
		return nil, err
	}

	return qrcode.Encode(string(content), qrcode.Medium, size)
}

// EncodeBase64 wraps a rendered PNG for inline JSON delivery.
func EncodeBase64(png []byte) string {
	return base64.StdEncoding.EncodeToString(png)
}
