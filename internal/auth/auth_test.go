package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"hostel-service/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	adminEmail    = "warden@hostel.test"
	adminPassword = "correct-horse"
	secret        = "test-secret"
)

type loginCounter struct {
	ok, failed int
}

func (l *loginCounter) RecordLogin(_ context.Context, success bool) {
	if success {
		l.ok++
	} else {
		l.failed++
	}
}

func newService(t *testing.T) *Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.MinCost)
	require.NoError(t, err)
	return NewService(
		Admin{Email: adminEmail, PasswordHash: string(hash)},
		NewTokens(secret, "hostel-service", 15*time.Minute),
	)
}

func newRouter(t *testing.T, counter *loginCounter) (*gin.Engine, *Tokens) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := newService(t)
	router := gin.New()
	NewHandler(svc, logger.Discard(), counter, false).RegisterRoutes(router)

	api := router.Group("/api", RequireForWrites(svc.tokens, logger.Discard()))
	api.GET("/rooms", func(c *gin.Context) { c.Status(http.StatusOK) })
	api.POST("/rooms", func(c *gin.Context) {
		email, _ := Email(c.Request.Context())
		c.String(http.StatusCreated, email)
	})
	return router, svc.tokens
}

func postJSON(router http.Handler, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTokens_IssueAndParse(t *testing.T) {
	tokens := NewTokens(secret, "hostel-service", time.Minute)

	raw, exp, err := tokens.Issue(adminEmail)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Minute), exp, 5*time.Second)

	claims, err := tokens.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, adminEmail, claims.Email)
}

func TestTokens_RejectsForeignAndExpired(t *testing.T) {
	tokens := NewTokens(secret, "hostel-service", time.Minute)

	foreign, _, err := NewTokens("other-secret", "hostel-service", time.Minute).Issue(adminEmail)
	require.NoError(t, err)
	_, err = tokens.Parse(foreign)
	assert.ErrorIs(t, err, ErrInvalidToken)

	otherIssuer, _, err := NewTokens(secret, "someone-else", time.Minute).Issue(adminEmail)
	require.NoError(t, err)
	_, err = tokens.Parse(otherIssuer)
	assert.ErrorIs(t, err, ErrInvalidToken)

	raw, _, err := tokens.Issue(adminEmail)
	require.NoError(t, err)
	tokens.now = func() time.Time { return time.Now().Add(time.Hour) }
	_, err = tokens.Parse(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Login(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	resp, err := svc.Login(ctx, LoginRequest{Email: "WARDEN@hostel.test", Password: adminPassword})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)

	_, err = svc.Login(ctx, LoginRequest{Email: adminEmail, Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "someone@hostel.test", Password: adminPassword})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestHandler_Login(t *testing.T) {
	counter := &loginCounter{}
	router, _ := newRouter(t, counter)

	t.Run("success sets cookie", func(t *testing.T) {
		w := postJSON(router, "/auth/login", LoginRequest{Email: adminEmail, Password: adminPassword})

		assert.Equal(t, http.StatusOK, w.Code)
		var resp LoginResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEmpty(t, resp.AccessToken)

		var found bool
		for _, c := range w.Result().Cookies() {
			if c.Name == cookieName {
				found = true
				assert.Equal(t, resp.AccessToken, c.Value)
				assert.True(t, c.HttpOnly)
			}
		}
		assert.True(t, found, "token cookie should be set")
	})

	t.Run("wrong password", func(t *testing.T) {
		w := postJSON(router, "/auth/login", LoginRequest{Email: adminEmail, Password: "nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		w := postJSON(router, "/auth/login", map[string]string{"email": adminEmail})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	assert.Equal(t, 1, counter.ok)
	assert.Equal(t, 1, counter.failed)
}

func TestHandler_Logout(t *testing.T) {
	router, _ := newRouter(t, &loginCounter{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}

func TestRequireForWrites(t *testing.T) {
	router, tokens := newRouter(t, &loginCounter{})
	token, _, err := tokens.Issue(adminEmail)
	require.NoError(t, err)

	t.Run("reads are open", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rooms", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("write without token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/rooms", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("write with bearer token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/rooms", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, adminEmail, w.Body.String())
	})

	t.Run("write with cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/rooms", nil)
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("write with garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/rooms", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
