// internal/store/store.go

// Package store defines the durable storage contracts the lifecycle service
// depends on, plus the GORM-backed and in-memory implementations. Any
// backend satisfying the uniqueness and append-only contracts can stand in.
package store

import (
	"github.com/google/uuid"

	"github.com/qrtrace/qrtrace-api/internal/models"
)

// QRCodeStore persists identity records keyed by a globally unique serial
// number. Create must fail with *apperrors.ConflictError when the serial is
// already taken.
type QRCodeStore interface {
	Create(qrCode *models.QRCode) error
	GetBySerial(serialNumber string) (*models.QRCode, error)
}

// TrackingStore is append-only storage for audit events. ListByQRCode
// returns events newest first.
type TrackingStore interface {
	Append(event *models.TrackingEvent) error
	ListByQRCode(qrCodeID uuid.UUID) ([]models.TrackingEvent, error)
}

// UserStore looks up manufacturer accounts for authentication.
type UserStore interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id uuid.UUID) (*models.User, error)
	RecordLogin(id uuid.UUID) error
}
