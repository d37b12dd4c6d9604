// internal/qrimage/qrimage_test.go
package qrimage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrtrace/qrtrace-api/internal/models"
)

func TestRenderPNG(t *testing.T) {
	record := &models.QRCode{
		ProductID:    "P1",
		ProductName:  "Widget",
		Manufacturer: "Acme",
		SerialNumber: "AB12CD34",
	}

	png, err := RenderPNG(record, 0)
	require.NoError(t, err)

	assert.Equal(t, []byte("\x89PNG"), png[:4])
}

func TestEncodeBase64(t *testing.T) {
	assert.Equal(t, "cG5n", EncodeBase64([]byte("png")))
}
