// internal/store/memory.go
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/qrtrace/qrtrace-api/internal/apperrors"
	"github.com/qrtrace/qrtrace-api/internal/models"
)

// MemoryQRCodeStore is an in-memory QRCodeStore used by unit tests. It
// honors the same uniqueness contract as the PostgreSQL implementation.
type MemoryQRCodeStore struct {
	mu       sync.RWMutex
	bySerial map[string]*models.QRCode
}

func NewMemoryQRCodeStore() *MemoryQRCodeStore {
	return &MemoryQRCodeStore{bySerial: make(map[string]*models.QRCode)}
}

func (s *MemoryQRCodeStore) Create(qrCode *models.QRCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bySerial[qrCode.SerialNumber]; exists {
		return apperrors.NewConflict("qr code", qrCode.SerialNumber)
	}

	if qrCode.ID == uuid.Nil {
		qrCode.ID = uuid.New()
	}
	now := time.Now()
	qrCode.CreatedAt = now
	qrCode.UpdatedAt = now

	stored := *qrCode
	s.bySerial[qrCode.SerialNumber] = &stored
	return nil
}

func (s *MemoryQRCodeStore) GetBySerial(serialNumber string) (*models.QRCode, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	qrCode, exists := s.bySerial[serialNumber]
	if !exists {
		return nil, apperrors.NewNotFound("qr code", serialNumber)
	}
	copied := *qrCode
	return &copied, nil
}

// Count reports the number of stored records.
func (s *MemoryQRCodeStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.bySerial)
}

// MemoryTrackingStore is an in-memory append-only TrackingStore for tests.
type MemoryTrackingStore struct {
	mu     sync.RWMutex
	events []models.TrackingEvent
}

func NewMemoryTrackingStore() *MemoryTrackingStore {
	return &MemoryTrackingStore{}
}

func (s *MemoryTrackingStore) Append(event *models.TrackingEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	s.events = append(s.events, *event)
	return nil
}

func (s *MemoryTrackingStore) ListByQRCode(qrCodeID uuid.UUID) ([]models.TrackingEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []models.TrackingEvent
	for _, e := range s.events {
		if e.QRCodeID == qrCodeID {
			matched = append(matched, e)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Timestamp.After(matched[j].Timestamp)
	})
	return matched, nil
}

// MemoryUserStore is an in-memory UserStore for tests.
type MemoryUserStore struct {
	mu      sync.RWMutex
	byEmail map[string]*models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{byEmail: make(map[string]*models.User)}
}

// Add registers a user, assigning an id when missing.
func (s *MemoryUserStore) Add(user *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	stored := *user
	s.byEmail[user.Email] = &stored
}

func (s *MemoryUserStore) GetByEmail(email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, exists := s.byEmail[email]
	if !exists {
		return nil, apperrors.NewNotFound("user", email)
	}
	copied := *user
	return &copied, nil
}

func (s *MemoryUserStore) GetByID(id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.byEmail {
		if user.ID == id {
			copied := *user
			return &copied, nil
		}
	}
	return nil, apperrors.NewNotFound("user", id.String())
}

func (s *MemoryUserStore) RecordLogin(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.byEmail {
		if user.ID == id {
			now := time.Now()
			user.LastLoginAt = &now
			return nil
		}
	}
	return apperrors.NewNotFound("user", id.String())
}
