package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/rhamilton21/rememora-web/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret string, userID uint) string {
	t.Helper()
	claims := &models.JwtCustomClaims{
		UserID: userID,
		Email:  "alice@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func runMiddleware(mw echo.MiddlewareFunc, authHeader string) (echo.Context, error) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	c := e.NewContext(req, httptest.NewRecorder())
	err := mw(func(c echo.Context) error { return nil })(c)
	return c, err
}

func TestJWTAuthUsesConfiguredSecret(t *testing.T) {
	token := signToken(t, "configured-secret", 7)

	c, err := runMiddleware(JWTAuthMiddleware("configured-secret"), "Bearer "+token)
	require.NoError(t, err)

	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	require.True(t, ok)
	assert.Equal(t, uint(7), claims.UserID)
}

func TestJWTAuthRejectsWrongSecret(t *testing.T) {
	token := signToken(t, "some-other-secret", 7)

	_, err := runMiddleware(JWTAuthMiddleware("configured-secret"), "Bearer "+token)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	_, err := runMiddleware(JWTAuthMiddleware("configured-secret"), "")
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestOptionalJWTAuthAllowsAnonymous(t *testing.T) {
	c, err := runMiddleware(OptionalJWTAuthMiddleware("configured-secret"), "")
	require.NoError(t, err)
	assert.Nil(t, c.Get("user"))
}

func TestOptionalJWTAuthSetsClaimsWhenPresent(t *testing.T) {
	token := signToken(t, "configured-secret", 7)

	c, err := runMiddleware(OptionalJWTAuthMiddleware("configured-secret"), "Bearer "+token)
	require.NoError(t, err)

	claims, ok := c.Get("user").(*models.JwtCustomClaims)
	require.True(t, ok)
	assert.Equal(t, uint(7), claims.UserID)
}

func TestOptionalJWTAuthRejectsInvalidToken(t *testing.T) {
	// A present-but-bad token is an error, not a silent downgrade to
	// anonymous.
	_, err := runMiddleware(OptionalJWTAuthMiddleware("configured-secret"), "Bearer not-a-token")
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
