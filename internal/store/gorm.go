// internal/store/gorm.go
package store

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/qrtrace/qrtrace-api/internal/apperrors"
	"github.com/qrtrace/qrtrace-api/internal/models"
)

// GormQRCodeStore backs QRCodeStore with PostgreSQL. The unique index on
// serial_number enforces the uniqueness contract; duplicate writes surface
// as gorm.ErrDuplicatedKey (TranslateError is enabled on the connection).
type GormQRCodeStore struct {
	db *gorm.DB
}

func NewGormQRCodeStore(db *gorm.DB) *GormQRCodeStore {
	return &GormQRCodeStore{db: db}
}

func (s *GormQRCodeStore) Create(qrCode *models.QRCode) error {
	if err := s.db.Create(qrCode).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.NewConflict("qr code", qrCode.SerialNumber)
		}
		return apperrors.NewPersistence("qr code create", err)
	}
	return nil
}

func (s *GormQRCodeStore) GetBySerial(serialNumber string) (*models.QRCode, error) {
	var qrCode models.QRCode
	if err := s.db.Where("serial_number = ?", serialNumber).First(&qrCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("qr code", serialNumber)
		}
		return nil, apperrors.NewPersistence("qr code lookup", err)
	}
	return &qrCode, nil
}

// GormTrackingStore backs TrackingStore with PostgreSQL. Rows are only ever
// inserted; there is no update or delete path.
type GormTrackingStore struct {
	db *gorm.DB
}

func NewGormTrackingStore(db *gorm.DB) *GormTrackingStore {
	return &GormTrackingStore{db: db}
}

func (s *GormTrackingStore) Append(event *models.TrackingEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := s.db.Create(event).Error; err != nil {
		return apperrors.NewPersistence("tracking event append", err)
	}
	return nil
}

func (s *GormTrackingStore) ListByQRCode(qrCodeID uuid.UUID) ([]models.TrackingEvent, error) {
	var events []models.TrackingEvent
	if err := s.db.Where("qr_code_id = ?", qrCodeID).
		Order("timestamp DESC").
		Find(&events).Error; err != nil {
		return nil, apperrors.NewPersistence("tracking event list", err)
	}
	return events, nil
}

// GormUserStore backs UserStore with PostgreSQL.
type GormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) *GormUserStore {
	return &GormUserStore{db: db}
}

func (s *GormUserStore) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user", email)
		}
		return nil, apperrors.NewPersistence("user lookup", err)
	}
	return &user, nil
}

func (s *GormUserStore) GetByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFound("user", id.String())
		}
		return nil, apperrors.NewPersistence("user lookup", err)
	}
	return &user, nil
}

func (s *GormUserStore) RecordLogin(id uuid.UUID) error {
	now := time.Now()
	if err := s.db.Model(&models.User{}).Where("id = ?", id).
		Update("last_login_at", &now).Error; err != nil {
		return apperrors.NewPersistence("user login update", err)
	}
	return nil
}
