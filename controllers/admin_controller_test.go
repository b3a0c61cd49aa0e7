package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminUserManagement(t *testing.T) {
	r, _, _ := newTestServer(t)

	_, admin := registerUser(t, r, "organizer")
	memberBody, _ := registerUser(t, r, "member")
	memberID := int(memberBody["id"].(float64))

	w := doRequest(t, r, http.MethodGet, "/api/admin/users", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	var users []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	assert.Len(t, users, 2)

	// Approve
	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/admin/users/%d/approve", memberID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["isApproved"])

	// Promote and demote
	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/admin/users/%d/role", memberID),
		map[string]any{"role": "admin"}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "admin", decodeBody(t, w)["role"])

	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/admin/users/%d/role", memberID),
		map[string]any{"role": "superuser"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Toggle active twice and land back where we started.
	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/admin/users/%d/toggle-active", memberID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, decodeBody(t, w)["isActive"])

	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/admin/users/%d/toggle-active", memberID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["isActive"])

	// Unknown user
	w = doRequest(t, r, http.MethodPost, "/api/admin/users/999/approve", nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminRoutesForbiddenForMembers(t *testing.T) {
	r, _, _ := newTestServer(t)

	registerUser(t, r, "organizer")
	_, member := registerUser(t, r, "member")

	w := doRequest(t, r, http.MethodGet, "/api/admin/users", nil, member)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/admin/site-settings", nil, member)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestParticipantPaymentStatus(t *testing.T) {
	r, _, _ := newTestServer(t)

	_, admin := registerUser(t, r, "organizer")
	w := doRequest(t, r, http.MethodPost, "/api/events", eventPayload(), admin)
	require.Equal(t, http.StatusCreated, w.Code)
	eventID := int(decodeBody(t, w)["id"].(float64))

	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/events/%d/participate", eventID),
		map[string]any{"status": "attending"}, admin)
	require.Equal(t, http.StatusCreated, w.Code)
	participantID := int(decodeBody(t, w)["id"].(float64))

	paymentURL := fmt.Sprintf("/api/admin/events/%d/participants/%d/payment", eventID, participantID)
	w = doRequest(t, r, http.MethodPut, paymentURL, map[string]any{"status": "paid"}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "paid", decodeBody(t, w)["paymentStatus"])

	w = doRequest(t, r, http.MethodPut, paymentURL, map[string]any{"status": "overdue"}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSiteSettings(t *testing.T) {
	r, _, _ := newTestServer(t)
	_, admin := registerUser(t, r, "organizer")

	// Seeded defaults.
	w := doRequest(t, r, http.MethodGet, "/api/admin/site-settings", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	defaults := decodeBody(t, w)
	assert.Equal(t, "#4F45E4", defaults["primaryColor"])
	assert.Equal(t, "#171717", defaults["secondaryColor"])

	// Partial update leaves the untouched color alone.
	w = doRequest(t, r, http.MethodPut, "/api/admin/site-settings", map[string]any{
		"primaryColor": "#FF0000",
		"logoUrl":      "https://cdn.example.com/logo.png",
	}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	updated := decodeBody(t, w)
	assert.Equal(t, "#FF0000", updated["primaryColor"])
	assert.Equal(t, "#171717", updated["secondaryColor"])
	assert.Equal(t, "https://cdn.example.com/logo.png", updated["logoUrl"])

	// Malformed colors are rejected before anything is written.
	for _, bad := range []string{"red", "#FFF", "#GGGGGG", "FF0000"} {
		w = doRequest(t, r, http.MethodPut, "/api/admin/site-settings",
			map[string]any{"primaryColor": bad}, admin)
		assert.Equal(t, http.StatusBadRequest, w.Code, "color %q should be rejected", bad)
	}

	w = doRequest(t, r, http.MethodGet, "/api/admin/site-settings", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "#FF0000", decodeBody(t, w)["primaryColor"])
}
