package controllers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Walks the whole membership flow: the first user becomes admin and creates
// an event, a second user registers, is blocked until approved, then joins
// and gets approved.
func TestParticipationFlow(t *testing.T) {
	r, _, _ := newTestServer(t)

	adminBody, admin := registerUser(t, r, "organizer")
	require.Equal(t, "admin", adminBody["role"])

	w := doRequest(t, r, http.MethodPost, "/api/events", eventPayload(), admin)
	require.Equal(t, http.StatusCreated, w.Code)
	eventID := int(decodeBody(t, w)["id"].(float64))

	memberBody, member := registerUser(t, r, "member")
	require.Equal(t, false, memberBody["isApproved"])
	memberID := int(memberBody["id"].(float64))

	// Unapproved account cannot request participation.
	participateURL := fmt.Sprintf("/api/events/%d/participate", eventID)
	w = doRequest(t, r, http.MethodPost, participateURL, map[string]any{
		"status": "attending",
	}, member)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Admin approves the account, unblocking participation.
	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/admin/users/%d/approve", memberID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodPost, participateURL, map[string]any{
		"status":        "attending",
		"roomType":      "double",
		"roomOccupancy": 2,
	}, member)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	participant := decodeBody(t, w)
	participantID := int(participant["id"].(float64))
	assert.Equal(t, false, participant["isApproved"])
	assert.Equal(t, "pending", participant["paymentStatus"])

	// A second request for the same event is rejected.
	w = doRequest(t, r, http.MethodPost, participateURL, map[string]any{
		"status": "attending",
	}, member)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Admin approval flips the flag.
	approveURL := fmt.Sprintf("/api/admin/events/%d/participants/%d/approve", eventID, participantID)
	w = doRequest(t, r, http.MethodPost, approveURL, nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["isApproved"])
}

func TestParticipationEditAndReject(t *testing.T) {
	r, _, _ := newTestServer(t)

	_, admin := registerUser(t, r, "organizer")
	w := doRequest(t, r, http.MethodPost, "/api/events", eventPayload(), admin)
	require.Equal(t, http.StatusCreated, w.Code)
	eventID := int(decodeBody(t, w)["id"].(float64))

	memberBody, member := registerUser(t, r, "member")
	memberID := int(memberBody["id"].(float64))
	doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/admin/users/%d/approve", memberID), nil, admin)

	participateURL := fmt.Sprintf("/api/events/%d/participate", eventID)
	w = doRequest(t, r, http.MethodPost, participateURL, map[string]any{
		"status":        "attending",
		"roomType":      "double",
		"roomOccupancy": 2,
	}, member)
	require.Equal(t, http.StatusCreated, w.Code)
	participantID := int(decodeBody(t, w)["id"].(float64))

	doRequest(t, r, http.MethodPost,
		fmt.Sprintf("/api/admin/events/%d/participants/%d/approve", eventID, participantID), nil, admin)

	// Editing an approved participation stashes the prior values and drops
	// the approval.
	w = doRequest(t, r, http.MethodPut, participateURL, map[string]any{
		"roomType":      "single",
		"roomOccupancy": 1,
	}, member)
	require.Equal(t, http.StatusOK, w.Code)
	edited := decodeBody(t, w)
	assert.Equal(t, false, edited["isApproved"])
	assert.Equal(t, "single", edited["roomType"])

	old, ok := edited["oldValues"].(map[string]any)
	require.True(t, ok, "oldValues should hold the prior approved values")
	assert.Equal(t, "double", old["roomType"])
	assert.Equal(t, float64(2), old["roomOccupancy"])
	assert.Equal(t, true, old["isApproved"])

	// Rejection restores the stashed values exactly and clears the snapshot.
	w = doRequest(t, r, http.MethodPost,
		fmt.Sprintf("/api/admin/events/%d/participants/%d/reject", eventID, participantID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	restored := decodeBody(t, w)
	assert.Equal(t, "double", restored["roomType"])
	assert.Equal(t, float64(2), restored["roomOccupancy"])
	assert.Equal(t, true, restored["isApproved"])
	assert.Nil(t, restored["oldValues"])

	// Rejecting again fails: there is nothing to roll back.
	w = doRequest(t, r, http.MethodPost,
		fmt.Sprintf("/api/admin/events/%d/participants/%d/reject", eventID, participantID), nil, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParticipationValidation(t *testing.T) {
	r, _, _ := newTestServer(t)
	_, admin := registerUser(t, r, "organizer")

	w := doRequest(t, r, http.MethodPost, "/api/events", eventPayload(), admin)
	require.Equal(t, http.StatusCreated, w.Code)
	eventID := int(decodeBody(t, w)["id"].(float64))
	participateURL := fmt.Sprintf("/api/events/%d/participate", eventID)

	// Bad status enum.
	w = doRequest(t, r, http.MethodPost, participateURL, map[string]any{
		"status": "perhaps",
	}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Occupancy out of range.
	w = doRequest(t, r, http.MethodPost, participateURL, map[string]any{
		"status":        "attending",
		"roomType":      "quad",
		"roomOccupancy": 5,
	}, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown event.
	w = doRequest(t, r, http.MethodPost, "/api/events/999/participate", map[string]any{
		"status": "attending",
	}, admin)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestParticipantVisibilityByRole(t *testing.T) {
	r, _, _ := newTestServer(t)

	_, admin := registerUser(t, r, "organizer")
	w := doRequest(t, r, http.MethodPost, "/api/events", eventPayload(), admin)
	require.Equal(t, http.StatusCreated, w.Code)
	eventID := int(decodeBody(t, w)["id"].(float64))

	memberBody, member := registerUser(t, r, "member")
	memberID := int(memberBody["id"].(float64))
	doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/admin/users/%d/approve", memberID), nil, admin)

	participateURL := fmt.Sprintf("/api/events/%d/participate", eventID)
	w = doRequest(t, r, http.MethodPost, participateURL, map[string]any{"status": "attending"}, member)
	require.Equal(t, http.StatusCreated, w.Code)

	listURL := fmt.Sprintf("/api/events/%d/participants", eventID)

	// Regular users only see approved participants; nothing is approved yet.
	w = doRequest(t, r, http.MethodGet, listURL, nil, member)
	require.Equal(t, http.StatusOK, w.Code)
	var visible []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &visible))
	assert.Empty(t, visible)

	// Admins see every request with the user's contact details embedded.
	w = doRequest(t, r, http.MethodGet, listURL, nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	var all []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &all))
	require.Len(t, all, 1)
	user, ok := all[0]["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "member@example.com", user["email"])
}

func TestMyParticipations(t *testing.T) {
	r, _, _ := newTestServer(t)

	_, admin := registerUser(t, r, "organizer")
	w := doRequest(t, r, http.MethodPost, "/api/events", eventPayload(), admin)
	require.Equal(t, http.StatusCreated, w.Code)
	eventID := int(decodeBody(t, w)["id"].(float64))

	w = doRequest(t, r, http.MethodPost, fmt.Sprintf("/api/events/%d/participate", eventID),
		map[string]any{"status": "maybe"}, admin)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doRequest(t, r, http.MethodGet, "/api/user/participations", nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	event, ok := list[0]["event"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Ski Trip", event["title"])

	w = doRequest(t, r, http.MethodGet, fmt.Sprintf("/api/events/%d/my-participation", eventID), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "maybe", decodeBody(t, w)["status"])
}
