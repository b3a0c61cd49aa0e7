package controllers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	r, _, _ := newTestServer(t)

	first, _ := registerUser(t, r, "alice")
	assert.Equal(t, "admin", first["role"])
	assert.Equal(t, true, first["isApproved"])

	second, _ := registerUser(t, r, "bob")
	assert.Equal(t, "user", second["role"])
	assert.Equal(t, false, second["isApproved"])
}

func TestRegisterDuplicateUsername(t *testing.T) {
	r, _, _ := newTestServer(t)
	registerUser(t, r, "alice")

	w := doRequest(t, r, http.MethodPost, "/api/register", registerPayload("alice"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	r, _, _ := newTestServer(t)

	payload := registerPayload("alice")
	payload["password"] = "short"
	w := doRequest(t, r, http.MethodPost, "/api/register", payload, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	payload = registerPayload("alice")
	payload["email"] = "not-an-email"
	w = doRequest(t, r, http.MethodPost, "/api/register", payload, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegisterNeverLeaksPasswordHash(t *testing.T) {
	r, _, _ := newTestServer(t)
	body, _ := registerUser(t, r, "alice")
	_, present := body["password"]
	assert.False(t, present)
}

func TestLoginAndMe(t *testing.T) {
	r, _, _ := newTestServer(t)
	registerUser(t, r, "alice")

	w := doRequest(t, r, http.MethodPost, "/api/login", map[string]any{
		"username": "alice",
		"password": "secret123",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cookie := sessionCookie(t, w)

	w = doRequest(t, r, http.MethodGet, "/api/user", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "alice", decodeBody(t, w)["username"])
}

func TestLoginWrongPassword(t *testing.T) {
	r, _, _ := newTestServer(t)
	registerUser(t, r, "alice")

	w := doRequest(t, r, http.MethodPost, "/api/login", map[string]any{
		"username": "alice",
		"password": "wrongpass",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := doRequest(t, r, http.MethodPost, "/api/login", map[string]any{
		"username": "ghost",
		"password": "secret123",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLoginInactiveApprovedAccountRejected(t *testing.T) {
	r, store, _ := newTestServer(t)
	registerUser(t, r, "admin")
	registerUser(t, r, "bob")

	bob, err := store.GetUserByUsername("bob")
	require.NoError(t, err)
	bob.IsApproved = true
	bob.IsActive = false
	require.NoError(t, store.UpdateUser(bob))

	w := doRequest(t, r, http.MethodPost, "/api/login", map[string]any{
		"username": "bob",
		"password": "secret123",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutDestroysSession(t *testing.T) {
	r, _, _ := newTestServer(t)
	_, cookie := registerUser(t, r, "alice")

	w := doRequest(t, r, http.MethodPost, "/api/logout", nil, cookie)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/user", nil, cookie)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMeWithoutSession(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := doRequest(t, r, http.MethodGet, "/api/user", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPasswordResetFlow(t *testing.T) {
	r, store, _ := newTestServer(t)
	registerUser(t, r, "alice")

	w := doRequest(t, r, http.MethodPost, "/api/forgot-password", map[string]any{
		"email": "alice@example.com",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Delivery is the mailer's job; the token lands on the user row.
	alice, err := store.GetUserByUsername("alice")
	require.NoError(t, err)
	require.NotNil(t, alice.ResetToken)
	require.NotNil(t, alice.ResetTokenExpiry)
	token := *alice.ResetToken

	w = doRequest(t, r, http.MethodPost, "/api/reset-password", map[string]any{
		"token":    token,
		"password": "newsecret456",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Old password no longer works, the new one does.
	w = doRequest(t, r, http.MethodPost, "/api/login", map[string]any{
		"username": "alice",
		"password": "secret123",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(t, r, http.MethodPost, "/api/login", map[string]any{
		"username": "alice",
		"password": "newsecret456",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// The token is single use.
	w = doRequest(t, r, http.MethodPost, "/api/reset-password", map[string]any{
		"token":    token,
		"password": "anothersecret",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestForgotPasswordUnknownEmailStillOK(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := doRequest(t, r, http.MethodPost, "/api/forgot-password", map[string]any{
		"email": "nobody@example.com",
	}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResetPasswordGarbageToken(t *testing.T) {
	r, _, _ := newTestServer(t)

	w := doRequest(t, r, http.MethodPost, "/api/reset-password", map[string]any{
		"token":    "garbage",
		"password": "newsecret456",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
