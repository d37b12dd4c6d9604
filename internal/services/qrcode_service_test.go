// internal/services/qrcode_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/qrtrace/qrtrace-api/internal/apperrors"
	"github.com/qrtrace/qrtrace-api/internal/models"
	"github.com/qrtrace/qrtrace-api/internal/store"
)

type QRCodeServiceTestSuite struct {
	suite.Suite
	qrCodes  *store.MemoryQRCodeStore
	tracking *store.MemoryTrackingStore
	service  *QRCodeService
}

func (suite *QRCodeServiceTestSuite) SetupTest() {
	suite.qrCodes = store.NewMemoryQRCodeStore()
	suite.tracking = store.NewMemoryTrackingStore()
	suite.service = NewQRCodeService(suite.qrCodes, suite.tracking)
}

func validCreateRequest() *CreateQRCodeRequest {
	return &CreateQRCodeRequest{
		BaseInfo: BaseLayerInfo{
			ProductID:       "P1",
			ProductName:     "Widget",
			ProductCategory: "hardware",
			Manufacturer:    "Acme",
		},
		AuthInfo: AuthLayerInfo{
			AuthType: "QR",
			AuthData: map[string]string{"k": "v"},
		},
		PrivateInfo: PrivateLayerInfo{
			Manufacturer: ManufacturerInfo{
				FacilityID:     "F-01",
				ProductionLine: "L-2",
				BatchNumber:    "B-2024-117",
			},
			AdditionalData: map[string]string{"inspector": "QA-4"},
		},
	}
}

func (suite *QRCodeServiceTestSuite) TestCreatePopulatesAllLayers() {
	before := time.Now()
	qrCode, err := suite.service.Create(validCreateRequest())
	after := time.Now()

	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "P1", qrCode.ProductID)
	assert.Equal(suite.T(), "Widget", qrCode.ProductName)
	assert.Equal(suite.T(), "Acme", qrCode.Manufacturer)

	assert.Len(suite.T(), qrCode.SerialNumber, 8)
	assert.Len(suite.T(), qrCode.AuthHash, 64)
	assert.True(suite.T(), qrCode.Authenticated)
	assert.Empty(suite.T(), qrCode.History)

	assert.Equal(suite.T(), "F-01", qrCode.ManufacturerData.FacilityID)
	assert.Equal(suite.T(), "L-2", qrCode.ManufacturerData.ProductionLine)
	assert.Equal(suite.T(), "B-2024-117", qrCode.ManufacturerData.BatchNumber)
	assert.Equal(suite.T(), "QA-4", qrCode.ManufacturerData.QualityData["inspector"])

	assert.False(suite.T(), qrCode.ManufacturingDate.Before(before))
	assert.False(suite.T(), qrCode.ManufacturingDate.After(after))
}

func (suite *QRCodeServiceTestSuite) TestCreateExpiryIsTwelveMonths() {
	qrCode, err := suite.service.Create(validCreateRequest())
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), qrCode.ManufacturingDate.AddDate(0, 12, 0), qrCode.ExpiryDate)
}

func (suite *QRCodeServiceTestSuite) TestCreateSerialsAreUnique() {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		qrCode, err := suite.service.Create(validCreateRequest())
		require.NoError(suite.T(), err)
		assert.False(suite.T(), seen[qrCode.SerialNumber])
		seen[qrCode.SerialNumber] = true
	}
	assert.Equal(suite.T(), 50, suite.qrCodes.Count())
}

func (suite *QRCodeServiceTestSuite) TestCreateWritesCreatedEvent() {
	qrCode, err := suite.service.Create(validCreateRequest())
	require.NoError(suite.T(), err)

	events, err := suite.tracking.ListByQRCode(qrCode.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), events, 1)

	event := events[0]
	assert.Equal(suite.T(), models.TrackingActionCreated, event.Action)
	assert.Equal(suite.T(), models.ActorTypeSystem, event.Actor.Type)
	assert.Equal(suite.T(), models.ActorIDGenerator, event.Actor.ID)
	assert.Equal(suite.T(), "P1", event.Metadata["productId"])
	assert.Equal(suite.T(), "Acme", event.Metadata["manufacturer"])
}

func (suite *QRCodeServiceTestSuite) TestCreateValidation() {
	req := validCreateRequest()
	req.BaseInfo.ProductName = ""
	req.PrivateInfo.Manufacturer.BatchNumber = ""

	_, err := suite.service.Create(req)
	require.Error(suite.T(), err)

	var validation *apperrors.ValidationError
	require.ErrorAs(suite.T(), err, &validation)
	assert.Equal(suite.T(), 0, suite.qrCodes.Count())
}

func (suite *QRCodeServiceTestSuite) TestGetBySerial() {
	created, err := suite.service.Create(validCreateRequest())
	require.NoError(suite.T(), err)

	got, err := suite.service.GetBySerial(created.SerialNumber)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), created.ID, got.ID)

	// Plain lookup must not add tracking events.
	events, err := suite.tracking.ListByQRCode(created.ID)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), events, 1)
}

func (suite *QRCodeServiceTestSuite) TestGetBySerialNotFound() {
	_, err := suite.service.GetBySerial("ZZZZZZZZ")

	var notFound *apperrors.NotFoundError
	require.ErrorAs(suite.T(), err, &notFound)
}

func (suite *QRCodeServiceTestSuite) TestVerifyReturnsRecordAndAppendsEvent() {
	created, err := suite.service.Create(validCreateRequest())
	require.NoError(suite.T(), err)

	verified, err := suite.service.Verify(created.SerialNumber)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), created.ID, verified.ID)
	assert.Equal(suite.T(), created.SerialNumber, verified.SerialNumber)
	assert.Equal(suite.T(), created.AuthHash, verified.AuthHash)
	assert.Empty(suite.T(), verified.History)

	events, err := suite.tracking.ListByQRCode(created.ID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), events, 2)

	// Descending order puts the verification first.
	assert.Equal(suite.T(), models.TrackingActionVerified, events[0].Action)
	assert.Equal(suite.T(), models.ActorTypeUser, events[0].Actor.Type)
	assert.Equal(suite.T(), models.ActorIDAnonymous, events[0].Actor.ID)
	assert.Equal(suite.T(), models.VerificationMethodSerial, events[0].Metadata["verificationMethod"])
	assert.Equal(suite.T(), created.SerialNumber, events[0].Metadata["serialNumber"])
	assert.Equal(suite.T(), models.TrackingActionCreated, events[1].Action)
}

func (suite *QRCodeServiceTestSuite) TestVerifyIsNotIdempotent() {
	created, err := suite.service.Create(validCreateRequest())
	require.NoError(suite.T(), err)

	_, err = suite.service.Verify(created.SerialNumber)
	require.NoError(suite.T(), err)
	_, err = suite.service.Verify(created.SerialNumber)
	require.NoError(suite.T(), err)

	events, err := suite.tracking.ListByQRCode(created.ID)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), events, 3) // CREATED + 2x VERIFIED
}

func (suite *QRCodeServiceTestSuite) TestVerifyNotFound() {
	_, err := suite.service.Verify("ZZZZZZZZ")

	var notFound *apperrors.NotFoundError
	require.ErrorAs(suite.T(), err, &notFound)
}

func (suite *QRCodeServiceTestSuite) TestVerifyUnauthenticated() {
	record := &models.QRCode{
		SerialNumber:  "AB12CD34",
		ProductID:     "P9",
		Authenticated: false,
	}
	require.NoError(suite.T(), suite.qrCodes.Create(record))

	_, err := suite.service.Verify("AB12CD34")

	var unauthenticated *apperrors.UnauthenticatedError
	require.ErrorAs(suite.T(), err, &unauthenticated)
	assert.Equal(suite.T(), "AB12CD34", unauthenticated.SerialNumber)

	// A refused verification writes no event.
	events, listErr := suite.tracking.ListByQRCode(record.ID)
	require.NoError(suite.T(), listErr)
	assert.Empty(suite.T(), events)
}

func (suite *QRCodeServiceTestSuite) TestHistory() {
	created, err := suite.service.Create(validCreateRequest())
	require.NoError(suite.T(), err)
	_, err = suite.service.Verify(created.SerialNumber)
	require.NoError(suite.T(), err)

	events, err := suite.service.History(created.SerialNumber)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), events, 2)
	assert.Equal(suite.T(), models.TrackingActionVerified, events[0].Action)
}

func (suite *QRCodeServiceTestSuite) TestEventWriteFailureDoesNotFailCreate() {
	failing := &failingTrackingStore{}
	service := NewQRCodeService(suite.qrCodes, failing)

	qrCode, err := service.Create(validCreateRequest())
	require.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), qrCode.SerialNumber)
}

func TestQRCodeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(QRCodeServiceTestSuite))
}

// conflictingQRCodeStore forces the first n creates to collide, exercising
// the bounded retry loop.
type conflictingQRCodeStore struct {
	*store.MemoryQRCodeStore
	remaining int
}

func (s *conflictingQRCodeStore) Create(qrCode *models.QRCode) error {
	if s.remaining > 0 {
		s.remaining--
		return apperrors.NewConflict("qr code", qrCode.SerialNumber)
	}
	return s.MemoryQRCodeStore.Create(qrCode)
}

func TestCreateRetriesSerialOnConflict(t *testing.T) {
	qrCodes := &conflictingQRCodeStore{MemoryQRCodeStore: store.NewMemoryQRCodeStore(), remaining: 3}
	service := NewQRCodeService(qrCodes, store.NewMemoryTrackingStore())

	qrCode, err := service.Create(validCreateRequest())
	require.NoError(t, err)
	assert.Len(t, qrCode.SerialNumber, 8)
}

func TestCreateGivesUpAfterBoundedRetries(t *testing.T) {
	qrCodes := &conflictingQRCodeStore{MemoryQRCodeStore: store.NewMemoryQRCodeStore(), remaining: maxSerialAttempts}
	tracking := store.NewMemoryTrackingStore()
	service := NewQRCodeService(qrCodes, tracking)

	_, err := service.Create(validCreateRequest())
	require.Error(t, err)

	var conflict *apperrors.ConflictError
	assert.ErrorAs(t, err, &conflict)
}

type failingTrackingStore struct{}

func (s *failingTrackingStore) Append(event *models.TrackingEvent) error {
	return apperrors.NewPersistence("tracking event append", assert.AnError)
}

func (s *failingTrackingStore) ListByQRCode(qrCodeID uuid.UUID) ([]models.TrackingEvent, error) {
	return nil, nil
}
