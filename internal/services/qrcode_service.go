// internal/services/qrcode_service.go
package services

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/qrtrace/qrtrace-api/internal/apperrors"
	"github.com/qrtrace/qrtrace-api/internal/models"
	"github.com/qrtrace/qrtrace-api/internal/serial"
	"github.com/qrtrace/qrtrace-api/internal/store"
	"github.com/qrtrace/qrtrace-api/internal/utils"
)

// Serial generation retries this many times against the store's unique
// index before giving up with a conflict.
const maxSerialAttempts = 5

// Shelf life applied to every record at creation.
const expiryMonths = 12

// QRCodeService owns the record lifecycle: creation with serial and
// fingerprint derivation, lookup, and verification with its audit trail.
// All durable state lives in the injected stores.
type QRCodeService struct {
	qrCodes  store.QRCodeStore
	tracking store.TrackingStore
}

func NewQRCodeService(qrCodes store.QRCodeStore, tracking store.TrackingStore) *QRCodeService {
	return &QRCodeService{
		qrCodes:  qrCodes,
		tracking: tracking,
	}
}

// Request payloads mirror the three-layer wire contract consumed by the
// manufacturer frontend, hence the camelCase field names.

type CreateQRCodeRequest struct {
	BaseInfo    BaseLayerInfo    `json:"baseInfo" validate:"required"`
	AuthInfo    AuthLayerInfo    `json:"authInfo" validate:"required"`
	PrivateInfo PrivateLayerInfo `json:"privateInfo" validate:"required"`
}

type BaseLayerInfo struct {
	ProductID       string `json:"productId" validate:"required"`
	ProductName     string `json:"productName" validate:"required"`
	ProductCategory string `json:"productCategory"`
	Manufacturer    string `json:"manufacturer" validate:"required"`
}

type AuthLayerInfo struct {
	AuthType string            `json:"authType" validate:"required"`
	AuthData map[string]string `json:"authData"`
}

type PrivateLayerInfo struct {
	Manufacturer   ManufacturerInfo  `json:"manufacturer" validate:"required"`
	AdditionalData map[string]string `json:"additionalData"`
}

type ManufacturerInfo struct {
	FacilityID     string `json:"facilityId" validate:"required"`
	ProductionLine string `json:"productionLine" validate:"required"`
	BatchNumber    string `json:"batchNumber" validate:"required"`
}

// Create builds and persists a new identity record. The serial number is
// regenerated on uniqueness conflicts up to maxSerialAttempts; the CREATED
// tracking event is best-effort and never fails the operation.
func (s *QRCodeService) Create(req *CreateQRCodeRequest) (*models.QRCode, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, apperrors.NewValidation("validation failed", utils.GetValidationErrors(err))
	}

	now := time.Now()
	qrCode := &models.QRCode{
		ProductID:         req.BaseInfo.ProductID,
		ProductName:       req.BaseInfo.ProductName,
		ProductCategory:   req.BaseInfo.ProductCategory,
		Manufacturer:      req.BaseInfo.Manufacturer,
		ManufacturingDate: now,
		ExpiryDate:        now.AddDate(0, expiryMonths, 0),
		AuthHash:          serial.Fingerprint(req.AuthInfo.AuthType, req.AuthInfo.AuthData),
		Authenticated:     true,
		ManufacturerData: models.ManufacturerData{
			FacilityID:     req.PrivateInfo.Manufacturer.FacilityID,
			ProductionLine: req.PrivateInfo.Manufacturer.ProductionLine,
			BatchNumber:    req.PrivateInfo.Manufacturer.BatchNumber,
			QualityData:    models.StringMap(req.PrivateInfo.AdditionalData),
		},
	}

	var err error
	for attempt := 0; attempt < maxSerialAttempts; attempt++ {
		qrCode.SerialNumber = serial.Generate()
		err = s.qrCodes.Create(qrCode)
		if err == nil {
			break
		}
		var conflict *apperrors.ConflictError
		if !errors.As(err, &conflict) {
			return nil, err
		}
		logrus.WithFields(logrus.Fields{
			"serial_number": qrCode.SerialNumber,
			"attempt":       attempt + 1,
		}).Warn("Serial number collision, regenerating")
	}
	if err != nil {
		return nil, err
	}

	s.appendEvent(&models.TrackingEvent{
		QRCodeID:  qrCode.ID,
		Timestamp: time.Now(),
		Action:    models.TrackingActionCreated,
		Location:  models.ActorTypeSystem,
		Actor: models.ActorInfo{
			Type: models.ActorTypeSystem,
			ID:   models.ActorIDGenerator,
		},
		Metadata: models.StringMap{
			"productId":    req.BaseInfo.ProductID,
			"manufacturer": req.BaseInfo.Manufacturer,
		},
	})

	logrus.WithFields(logrus.Fields{
		"qr_code_id":    qrCode.ID,
		"serial_number": qrCode.SerialNumber,
		"product_id":    qrCode.ProductID,
	}).Info("QR code created")

	return qrCode, nil
}

// GetBySerial returns the record for a serial number. Read-only: no
// tracking event is written for plain lookups.
func (s *QRCodeService) GetBySerial(serialNumber string) (*models.QRCode, error) {
	return s.qrCodes.GetBySerial(serialNumber)
}

// Verify checks the record's authenticated flag and appends a VERIFIED
// tracking event. The returned record carries no history; callers wanting
// the audit trail use History.
func (s *QRCodeService) Verify(serialNumber string) (*models.QRCode, error) {
	qrCode, err := s.qrCodes.GetBySerial(serialNumber)
	if err != nil {
		return nil, err
	}

	if !qrCode.Authenticated {
		return nil, apperrors.NewUnauthenticated(serialNumber)
	}

	// Expired products still verify; the caller sees the expiry date.
	if qrCode.IsExpired(time.Now()) {
		logrus.WithFields(logrus.Fields{
			"serial_number": serialNumber,
			"expiry_date":   qrCode.ExpiryDate,
		}).Warn("Verified an expired product")
	}

	s.appendEvent(&models.TrackingEvent{
		QRCodeID:  qrCode.ID,
		Timestamp: time.Now(),
		Action:    models.TrackingActionVerified,
		Location:  models.ActorTypeSystem,
		Actor: models.ActorInfo{
			Type: models.ActorTypeUser,
			ID:   models.ActorIDAnonymous,
		},
		Metadata: models.StringMap{
			"verificationMethod": models.VerificationMethodSerial,
			"serialNumber":       serialNumber,
		},
	})

	qrCode.History = nil
	return qrCode, nil
}

// History returns the record's tracking events, newest first.
func (s *QRCodeService) History(serialNumber string) ([]models.TrackingEvent, error) {
	qrCode, err := s.qrCodes.GetBySerial(serialNumber)
	if err != nil {
		return nil, err
	}
	return s.tracking.ListByQRCode(qrCode.ID)
}

// appendEvent writes a tracking event, logging but swallowing failures: a
// persisted record stays valid even when its audit entry could not be
// written.
func (s *QRCodeService) appendEvent(event *models.TrackingEvent) {
	if err := s.tracking.Append(event); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"qr_code_id": event.QRCodeID,
			"action":     event.Action,
		}).Warn("Failed to append tracking event")
	}
}
