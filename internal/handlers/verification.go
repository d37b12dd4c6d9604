// internal/handlers/verification.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qrtrace/qrtrace-api/internal/services"
	"github.com/qrtrace/qrtrace-api/internal/utils"
)

type VerificationHandler struct {
	qrCodeService *services.QRCodeService
}

func NewVerificationHandler(qrCodeService *services.QRCodeService) *VerificationHandler {
	return &VerificationHandler{
		qrCodeService: qrCodeService,
	}
}

type verifyBySerialRequest struct {
	SerialNumber string `json:"serialNumber" validate:"required,serial"`
}

// POST /v1/verify/serial
func (h *VerificationHandler) VerifyBySerial(c *gin.Context) {
	var req verifyBySerialRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Serial number is required", nil)
		return
	}

	req.SerialNumber = strings.TrimSpace(req.SerialNumber)
	if err := utils.ValidateStruct(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid serial number", utils.GetValidationErrors(err))
		return
	}

	qrCode, err := h.qrCodeService.Verify(req.SerialNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, qrCode)
}
