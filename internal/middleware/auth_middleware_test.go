package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gym_crm_backend/internal/models"
	"gym_crm_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/protected", AuthMiddleware(), func(c *gin.Context) {
		gymID, _ := GymIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"gym_id": gymID})
	})
	engine.GET("/owner-only", AuthMiddleware(), RoleAuthMiddleware(models.RoleOwner), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	engine.GET("/scoped", AuthMiddleware(), RequireGymScope(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	engine := newAuthTestRouter()
	w := doRequest(t, engine, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	engine := newAuthTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	engine := newAuthTestRouter()
	w := doRequest(t, engine, "/protected", "not-a-token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidTokenSetsContext(t *testing.T) {
	engine := newAuthTestRouter()

	gymID := int64(10)
	token, err := utils.GenerateAccessToken(4, "owner1", models.RoleOwner, &gymID)
	require.NoError(t, err)

	w := doRequest(t, engine, "/protected", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"gym_id":10`)
}

func TestRoleAuthMiddleware(t *testing.T) {
	engine := newAuthTestRouter()

	gymID := int64(10)
	ownerToken, err := utils.GenerateAccessToken(4, "owner1", models.RoleOwner, &gymID)
	require.NoError(t, err)
	staffToken, err := utils.GenerateAccessToken(5, "staff1", models.RoleStaff, &gymID)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doRequest(t, engine, "/owner-only", ownerToken).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(t, engine, "/owner-only", staffToken).Code)
}

func TestRequireGymScope_RejectsSuperAdmin(t *testing.T) {
	engine := newAuthTestRouter()

	gymID := int64(10)
	scopedToken, err := utils.GenerateAccessToken(4, "owner1", models.RoleOwner, &gymID)
	require.NoError(t, err)
	// Super-admin tokens carry no gym claim.
	adminToken, err := utils.GenerateAccessToken(1, "root", models.RoleSuperAdmin, nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doRequest(t, engine, "/scoped", scopedToken).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(t, engine, "/scoped", adminToken).Code)
}
