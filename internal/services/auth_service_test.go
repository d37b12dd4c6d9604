// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrtrace/qrtrace-api/internal/apperrors"
	"github.com/qrtrace/qrtrace-api/internal/config"
	"github.com/qrtrace/qrtrace-api/internal/models"
	"github.com/qrtrace/qrtrace-api/internal/store"
	"github.com/qrtrace/qrtrace-api/internal/utils"
)

func testAuthService(t *testing.T) (*AuthService, *store.MemoryUserStore, *models.User) {
	t.Helper()
	utils.SetJWTSecret("test-secret")

	users := store.NewMemoryUserStore()
	user := &models.User{
		Username: "acme-ops",
		Email:    "ops@acme.test",
		Role:     models.UserRoleManufacturer,
		Status:   models.UserStatusActive,
	}
	require.NoError(t, user.SetPassword("FactoryFloor#7"))
	users.Add(user)

	cfg := &config.Config{JWT: config.JWTConfig{AccessTokenTTL: 24}}
	return NewAuthService(users, cfg), users, user
}

func TestLoginSuccess(t *testing.T) {
	service, _, user := testAuthService(t)

	resp, err := service.Login(&LoginRequest{Email: "ops@acme.test", Password: "FactoryFloor#7"})
	require.NoError(t, err)

	assert.Equal(t, user.ID, resp.User.ID)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 24*3600, resp.ExpiresIn)

	claims, err := utils.ValidateJWT(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, string(models.UserRoleManufacturer), claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	service, _, _ := testAuthService(t)

	_, err := service.Login(&LoginRequest{Email: "ops@acme.test", Password: "wrong"})

	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestLoginUnknownEmail(t *testing.T) {
	service, _, _ := testAuthService(t)

	_, err := service.Login(&LoginRequest{Email: "nobody@acme.test", Password: "whatever"})

	// Unknown accounts fail the same way as bad passwords.
	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "invalid email or password", validation.Message)
}

func TestLoginSuspendedAccount(t *testing.T) {
	service, users, _ := testAuthService(t)

	suspended := &models.User{
		Username: "dormant",
		Email:    "dormant@acme.test",
		Role:     models.UserRoleManufacturer,
		Status:   models.UserStatusSuspended,
	}
	require.NoError(t, suspended.SetPassword("FactoryFloor#7"))
	users.Add(suspended)

	_, err := service.Login(&LoginRequest{Email: "dormant@acme.test", Password: "FactoryFloor#7"})

	var validation *apperrors.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestLoginRecordsLoginTime(t *testing.T) {
	service, users, user := testAuthService(t)

	_, err := service.Login(&LoginRequest{Email: "ops@acme.test", Password: "FactoryFloor#7"})
	require.NoError(t, err)

	stored, err := users.GetByID(user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}
