// internal/handlers/qrcode.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/qrtrace/qrtrace-api/internal/qrimage"
	"github.com/qrtrace/qrtrace-api/internal/services"
	"github.com/qrtrace/qrtrace-api/internal/utils"
)

type QRCodeHandler struct {
	qrCodeService  *services.QRCodeService
	storageService *services.StorageService
	imageSize      int
}

func NewQRCodeHandler(qrCodeService *services.QRCodeService, storageService *services.StorageService, imageSize int) *QRCodeHandler {
	if imageSize <= 0 {
		imageSize = qrimage.DefaultSize
	}
	return &QRCodeHandler{
		qrCodeService:  qrCodeService,
		storageService: storageService,
		imageSize:      imageSize,
	}
}

// POST /v1/qrcodes
func (h *QRCodeHandler) CreateQRCode(c *gin.Context) {
	var req services.CreateQRCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", nil)
		return
	}

	qrCode, err := h.qrCodeService.Create(&req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, qrCode)
}

// GET /v1/qrcodes/:serialNumber
func (h *QRCodeHandler) GetQRCode(c *gin.Context) {
	serialNumber := c.Param("serialNumber")

	qrCode, err := h.qrCodeService.GetBySerial(serialNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, qrCode)
}

// GET /v1/qrcodes/:serialNumber/history
func (h *QRCodeHandler) GetQRCodeHistory(c *gin.Context) {
	serialNumber := c.Param("serialNumber")
	params := utils.GetPaginationParams(c)

	events, err := h.qrCodeService.History(serialNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	start, end := params.SliceBounds(len(events))
	result := utils.CreatePaginationResult(events[start:end], int64(len(events)), params)
	utils.SetPaginationHeaders(c, result)
	utils.SuccessResponseWithMeta(c, result.Data, gin.H{
		"pagination": gin.H{
			"page":        result.Page,
			"limit":       result.Limit,
			"total":       result.Total,
			"total_pages": result.TotalPages,
		},
	})
}

// GET /v1/qrcodes/:serialNumber/qr-image
func (h *QRCodeHandler) GenerateQRImage(c *gin.Context) {
	serialNumber := c.Param("serialNumber")

	qrCode, err := h.qrCodeService.GetBySerial(serialNumber)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	png, err := qrimage.RenderPNG(qrCode, h.imageSize)
	if err != nil {
		logrus.WithError(err).WithField("serial_number", serialNumber).Error("Failed to render QR image")
		utils.InternalErrorResponse(c, "Failed to generate QR image")
		return
	}

	response := gin.H{
		"qrImage":      qrimage.EncodeBase64(png),
		"serialNumber": serialNumber,
	}

	if h.storageService != nil && h.storageService.Enabled() {
		upload, err := h.storageService.StoreQRImage(serialNumber, png)
		if err != nil {
			logrus.WithError(err).WithField("serial_number", serialNumber).Warn("Failed to store QR image")
		} else {
			response["url"] = upload.URL
		}
	}

	utils.SuccessResponse(c, response)
}
