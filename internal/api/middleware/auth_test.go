package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kh4lidmd/portfolio-backend/internal/models"
	"github.com/kh4lidmd/portfolio-backend/internal/services"
	"github.com/kh4lidmd/portfolio-backend/internal/storage"
)

type singleAdminStore struct {
	storage.Store
	admin models.AdminUser
}

func (s *singleAdminStore) GetAdminByID(id string) (models.AdminUser, bool) {
	if id != s.admin.ID {
		return models.AdminUser{}, false
	}
	return s.admin, true
}

func newAuthRouter(t *testing.T) (*gin.Engine, *services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	auth := services.NewAuthService(&singleAdminStore{admin: models.AdminUser{ID: "admin-1"}}, "test-secret", 60)
	r := gin.New()
	r.GET("/protected", RequireAuth(auth), func(c *gin.Context) {
		id, _ := AdminIDFromContext(c)
		c.JSON(http.StatusOK, gin.H{"admin_id": id})
	})
	return r, auth
}

func TestRequireAuthMissingHeader(t *testing.T) {
	r, _ := newAuthRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	r, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "token abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthBadToken(t *testing.T) {
	r, _ := newAuthRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthValidToken(t *testing.T) {
	r, auth := newAuthRouter(t)

	token, err := auth.IssueToken("admin-1")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "admin-1")
}
