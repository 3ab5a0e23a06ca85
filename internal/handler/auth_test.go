package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sakif/snippetbin/internal/auth"
	"github.com/sakif/snippetbin/internal/model"
)

func TestAuthHandler_Register(t *testing.T) {
	t.Run("creates account and sets session cookie", func(t *testing.T) {
		router := newTestRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/auth/register",
			strings.NewReader(`{"username":"alice","email":"alice@example.com","password":"correct-horse"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var user model.User
		err := json.NewDecoder(rr.Body).Decode(&user)
		assert.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
		assert.NotEmpty(t, user.ID)

		var session *http.Cookie
		for _, c := range rr.Result().Cookies() {
			if c.Name == auth.SessionCookie {
				session = c
			}
		}
		if assert.NotNil(t, session, "expected a session cookie") {
			assert.NotEmpty(t, session.Value)
			assert.True(t, session.HttpOnly)
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		router := newTestRouter(t)
		registerUser(t, router, "alice")

		req := httptest.NewRequest(http.MethodPost, "/auth/register",
			strings.NewReader(`{"username":"alice","email":"other@example.com","password":"correct-horse"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("short password", func(t *testing.T) {
		router := newTestRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/auth/register",
			strings.NewReader(`{"username":"alice","email":"alice@example.com","password":"short"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("invalid JSON body", func(t *testing.T) {
		router := newTestRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(`{"username":`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestAuthHandler_Login(t *testing.T) {
	t.Run("valid credentials", func(t *testing.T) {
		router := newTestRouter(t)
		registerUser(t, router, "alice")

		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"username":"alice","password":"correct-horse"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		found := false
		for _, c := range rr.Result().Cookies() {
			if c.Name == auth.SessionCookie && c.Value != "" {
				found = true
			}
		}
		assert.True(t, found, "expected a session cookie")
	})

	t.Run("wrong password", func(t *testing.T) {
		router := newTestRouter(t)
		registerUser(t, router, "alice")

		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"username":"alice","password":"wrong-password"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("unknown username", func(t *testing.T) {
		router := newTestRouter(t)

		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"username":"nobody","password":"correct-horse"}`))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)

	// The cookie is expired, not just emptied.
	var session *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.SessionCookie {
			session = c
		}
	}
	if assert.NotNil(t, session) {
		assert.Empty(t, session.Value)
		assert.Less(t, session.MaxAge, 0)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	t.Run("returns own profile", func(t *testing.T) {
		router := newTestRouter(t)
		session := registerUser(t, router, "alice")

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.AddCookie(session)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var user model.User
		err := json.NewDecoder(rr.Body).Decode(&user)
		assert.NoError(t, err)
		assert.Equal(t, "alice", user.Username)
	})

	t.Run("anonymous request", func(t *testing.T) {
		router := newTestRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		router := newTestRouter(t)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		req.AddCookie(&http.Cookie{Name: auth.SessionCookie, Value: "not-a-jwt"})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestAuthHandler_DeleteMe(t *testing.T) {
	router := newTestRouter(t)
	session := registerUser(t, router, "alice")
	created := createSnippet(t, router, session, `{"code":"x = 1"}`)

	req := httptest.NewRequest(http.MethodDelete, "/api/me", nil)
	req.AddCookie(session)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)

	// The account's snippets went with it.
	getReq := httptest.NewRequest(http.MethodGet, "/api/snippets/"+created.ID, nil)
	getRR := httptest.NewRecorder()
	router.ServeHTTP(getRR, getReq)
	assert.Equal(t, http.StatusNotFound, getRR.Code)

	// And so did the login.
	loginReq := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"username":"alice","password":"correct-horse"}`))
	loginRR := httptest.NewRecorder()
	router.ServeHTTP(loginRR, loginReq)
	assert.Equal(t, http.StatusUnauthorized, loginRR.Code)
}
