// internal/middleware/auth_test.go
package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qrtrace/qrtrace-api/internal/models"
	"github.com/qrtrace/qrtrace-api/internal/store"
	"github.com/qrtrace/qrtrace-api/internal/utils"
)

func authTestRouter(users store.UserStore) *gin.Engine {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	protected := r.Group("", AuthRequired())
	protected.GET("/whoami", func(c *gin.Context) {
		userID, _ := utils.GetUserIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})
	protected.POST("/issue",
		PermissionRequired(users, models.PermissionQRCodeCreate),
		func(c *gin.Context) {
			c.Status(http.StatusCreated)
		})
	return r
}

func doRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRequired(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	r := authTestRouter(store.NewMemoryUserStore())

	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "GET", "/whoami", "").Code)

	token, err := utils.GenerateJWT(uuid.New(), "acme-ops", "manufacturer", 1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, doRequest(r, "GET", "/whoami", token).Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(r, "GET", "/whoami", "garbage").Code)
}

func TestPermissionRequired(t *testing.T) {
	utils.SetJWTSecret("test-secret")
	users := store.NewMemoryUserStore()
	r := authTestRouter(users)

	granted := &models.User{
		Username:    "line-lead",
		Email:       "lead@acme.test",
		Role:        models.UserRoleManufacturer,
		Permissions: pq.StringArray{models.PermissionQRCodeCreate},
	}
	users.Add(granted)

	readOnly := &models.User{
		Username:    "auditor",
		Email:       "auditor@acme.test",
		Role:        models.UserRoleManufacturer,
		Permissions: pq.StringArray{models.PermissionQRCodeRead},
	}
	users.Add(readOnly)

	grantedToken, err := utils.GenerateJWT(granted.ID, granted.Username, string(granted.Role), 1)
	require.NoError(t, err)
	readOnlyToken, err := utils.GenerateJWT(readOnly.ID, readOnly.Username, string(readOnly.Role), 1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, doRequest(r, "POST", "/issue", grantedToken).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(r, "POST", "/issue", readOnlyToken).Code)
}
