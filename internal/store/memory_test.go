// internal/store/memory_test.go
package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrtrace/qrtrace-api/internal/apperrors"
	"github.com/qrtrace/qrtrace-api/internal/models"
)

func TestMemoryQRCodeStoreUniqueSerial(t *testing.T) {
	s := NewMemoryQRCodeStore()

	first := &models.QRCode{SerialNumber: "AB12CD34", ProductID: "P1"}
	require.NoError(t, s.Create(first))
	assert.NotEqual(t, uuid.Nil, first.ID)

	dup := &models.QRCode{SerialNumber: "AB12CD34", ProductID: "P2"}
	err := s.Create(dup)
	require.Error(t, err)

	var conflict *apperrors.ConflictError
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, "AB12CD34", conflict.Key)
	assert.Equal(t, 1, s.Count())
}

func TestMemoryQRCodeStoreGetBySerial(t *testing.T) {
	s := NewMemoryQRCodeStore()
	require.NoError(t, s.Create(&models.QRCode{SerialNumber: "AB12CD34", ProductID: "P1"}))

	got, err := s.GetBySerial("AB12CD34")
	require.NoError(t, err)
	assert.Equal(t, "P1", got.ProductID)

	_, err = s.GetBySerial("ZZZZZZZZ")
	var notFound *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestMemoryTrackingStoreOrdering(t *testing.T) {
	s := NewMemoryTrackingStore()
	recordID := uuid.New()
	base := time.Now()

	for i, action := range []string{"CREATED", "VERIFIED", "VERIFIED"} {
		require.NoError(t, s.Append(&models.TrackingEvent{
			QRCodeID:  recordID,
			Timestamp: base.Add(time.Duration(i) * time.Second),
			Action:    action,
		}))
	}
	// Event for an unrelated record must not leak into the listing.
	require.NoError(t, s.Append(&models.TrackingEvent{
		QRCodeID: uuid.New(),
		Action:   "CREATED",
	}))

	events, err := s.ListByQRCode(recordID)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, "VERIFIED", events[0].Action)
	assert.Equal(t, "CREATED", events[2].Action)
	assert.True(t, events[0].Timestamp.After(events[2].Timestamp))
}

func TestMemoryUserStore(t *testing.T) {
	s := NewMemoryUserStore()
	user := &models.User{Username: "acme", Email: "ops@acme.test", Role: models.UserRoleManufacturer}
	s.Add(user)

	got, err := s.GetByEmail("ops@acme.test")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Nil(t, got.LastLoginAt)

	require.NoError(t, s.RecordLogin(user.ID))
	got, err = s.GetByID(user.ID)
	require.NoError(t, err)
	assert.NotNil(t, got.LastLoginAt)
}
