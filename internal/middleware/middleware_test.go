package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/alumni-hub-api/internal/models"
	"github.com/campuslink/alumni-hub-api/internal/service"
)

const testSecret = "middleware-test-secret"

func newAuthServiceForTest() *service.AuthService {
	return service.NewAuthService(nil, nil, nil, nil, service.AuthConfig{
		AccessTokenSecret: testSecret,
		AccessTokenExpiry: time.Minute,
		Issuer:            "alumni-hub-test",
	})
}

func signToken(t *testing.T, role models.UserRole) string {
	t.Helper()
	claims := &models.JWTClaims{
		UserID:   "user-1",
		Role:     role,
		Email:    "user@example.com",
		Verified: true,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func performRequest(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTRejectsMissingAndMalformedHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(newAuthServiceForTest()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusUnauthorized, performRequest(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, performRequest(r, "Basic abc").Code)
	assert.Equal(t, http.StatusUnauthorized, performRequest(r, "Bearer not-a-token").Code)
}

func TestJWTStoresClaimsOnContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(newAuthServiceForTest()), func(c *gin.Context) {
		claims := c.MustGet(ContextUserKey).(*models.JWTClaims)
		c.String(http.StatusOK, claims.UserID)
	})

	rec := performRequest(r, "Bearer "+signToken(t, models.RoleAlumni))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", rec.Body.String())
}

func TestOptionalJWTPassesThroughWithoutToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", OptionalJWT(newAuthServiceForTest()), func(c *gin.Context) {
		_, exists := c.Get(ContextUserKey)
		if exists {
			c.Status(http.StatusOK)
			return
		}
		c.Status(http.StatusNoContent)
	})

	assert.Equal(t, http.StatusNoContent, performRequest(r, "").Code)
	assert.Equal(t, http.StatusNoContent, performRequest(r, "Bearer garbage").Code)
	assert.Equal(t, http.StatusOK, performRequest(r, "Bearer "+signToken(t, models.RoleAlumni)).Code)
}

func TestRequireRolesEnforcesRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(newAuthServiceForTest()), RequireRoles(models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusForbidden, performRequest(r, "Bearer "+signToken(t, models.RoleAlumni)).Code)
	assert.Equal(t, http.StatusOK, performRequest(r, "Bearer "+signToken(t, models.RoleAdmin)).Code)
}

func TestResponseMetaRecordsCacheHit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(WithResponseMeta())
	r.GET("/protected", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta := ExtractMeta(c)
		assert.Equal(t, true, meta["cache_hit"])
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, performRequest(r, "").Code)
}
