package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-tracker/api/models"
)

func (s *HandlerTestSuite) TestRegisterReturnsUserAndValidToken() {
	id, token := s.register("Alice", "alice@example.com", "hunter2")

	verified, err := s.issuer.Verify(token)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), id, verified)
}

func (s *HandlerTestSuite) TestRegisterSetsSessionCookie() {
	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Alice", "email": "alice@example.com", "password": "hunter2",
	})
	require.Equal(s.T(), http.StatusCreated, w.Code)

	cookie := w.Header().Get("Set-Cookie")
	assert.Contains(s.T(), cookie, "token=")
	assert.Contains(s.T(), cookie, "HttpOnly")
	assert.Contains(s.T(), strings.ToLower(cookie), "samesite=lax")
}

func (s *HandlerTestSuite) TestRegisterMissingFields() {
	for _, body := range []gin.H{
		{"email": "a@example.com", "password": "x"},
		{"name": "A", "password": "x"},
		{"name": "A", "email": "a@example.com"},
		{},
	} {
		w := s.do(http.MethodPost, "/api/auth/register", "", body)
		assert.Equal(s.T(), http.StatusBadRequest, w.Code, "body %v", body)
	}
	assert.Empty(s.T(), s.users.users)
}

func (s *HandlerTestSuite) TestRegisterDuplicateEmail() {
	s.register("Alice", "alice@example.com", "hunter2")

	w := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Other", "email": "alice@example.com", "password": "different",
	})
	assert.Equal(s.T(), http.StatusConflict, w.Code)
	assert.Len(s.T(), s.users.users, 1)
}

func (s *HandlerTestSuite) TestLoginSuccess() {
	id, _ := s.register("Alice", "alice@example.com", "hunter2")

	w := s.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "hunter2",
	})
	require.Equal(s.T(), http.StatusOK, w.Code)

	var body map[string]any
	s.decode(w, &body)
	assert.Equal(s.T(), id, body["id"])
	assert.Equal(s.T(), "Alice", body["name"])

	verified, err := s.issuer.Verify(body["token"].(string))
	require.NoError(s.T(), err)
	assert.Equal(s.T(), id, verified)
}

func (s *HandlerTestSuite) TestLoginFailuresAreIndistinguishable() {
	s.register("Alice", "alice@example.com", "hunter2")

	wrongPassword := s.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "wrong",
	})
	unknownEmail := s.do(http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "nobody@example.com", "password": "hunter2",
	})

	assert.Equal(s.T(), http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(s.T(), http.StatusUnauthorized, unknownEmail.Code)
	assert.Equal(s.T(), wrongPassword.Body.String(), unknownEmail.Body.String())
}

func (s *HandlerTestSuite) TestMe() {
	_, token := s.register("Alice", "alice@example.com", "hunter2")

	w := s.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(s.T(), http.StatusOK, w.Code)

	var body map[string]any
	s.decode(w, &body)
	assert.Equal(s.T(), "Alice", body["name"])
	assert.Equal(s.T(), "alice@example.com", body["email"])
	assert.NotContains(s.T(), body, "password")
}

func (s *HandlerTestSuite) TestMeUnknownUser() {
	// Token for a user that no longer resolves.
	token, err := s.issuer.Mint("507f1f77bcf86cd799439011")
	require.NoError(s.T(), err)

	w := s.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(s.T(), http.StatusNotFound, w.Code)
}

func (s *HandlerTestSuite) TestMeRequiresAuth() {
	w := s.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}

func (s *HandlerTestSuite) TestAuthViaCookie() {
	_, token := s.register("Alice", "alice@example.com", "hunter2")

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusOK, w.Code)
}

func (s *HandlerTestSuite) TestLogoutClearsCookieButTokenStaysValid() {
	_, token := s.register("Alice", "alice@example.com", "hunter2")

	w := s.do(http.MethodPost, "/api/auth/logout", "", nil)
	require.Equal(s.T(), http.StatusOK, w.Code)
	assert.Contains(s.T(), w.Header().Get("Set-Cookie"), "token=;")

	// Stateless sessions: the bearer copy still works until expiry.
	me := s.do(http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(s.T(), http.StatusOK, me.Code)
}

func (s *HandlerTestSuite) TestExpiredTokenRejected() {
	id, _ := s.register("Alice", "alice@example.com", "hunter2")

	// Hand-craft a token that expired an hour ago, signed with the
	// suite's secret.
	claims := models.SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
		UserID: id,
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(s.T(), err)

	w := s.do(http.MethodGet, "/api/auth/me", expired, nil)
	assert.Equal(s.T(), http.StatusUnauthorized, w.Code)
}
