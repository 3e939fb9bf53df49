package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddReminderReturnsParentLead(t *testing.T) {
	var gotBody ReminderRequest
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/leads/reminder/42", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		parentLead(t, w)
	})

	due := time.Date(2026, 9, 1, 10, 30, 0, 0, time.UTC)
	lead, err := c.AddReminder(context.Background(), "42", ReminderRequest{Date: due, Message: "site visit"})
	require.NoError(t, err)

	assert.True(t, gotBody.Date.Equal(due))
	assert.Equal(t, "site visit", gotBody.Message)
	assert.Equal(t, "42", lead.ID)
	require.Len(t, lead.Reminders, 1)
}

func TestEditReminderPath(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/leads/reminder/42/r1", r.URL.Path)
		parentLead(t, w)
	})

	_, err := c.EditReminder(context.Background(), "42", "r1", ReminderRequest{Message: "moved"})
	require.NoError(t, err)
}

func TestDeleteReminderPath(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/api/leads/reminder/42/r1", r.URL.Path)
		parentLead(t, w)
	})

	lead, err := c.DeleteReminder(context.Background(), "42", "r1")
	require.NoError(t, err)
	assert.Equal(t, "42", lead.ID)
}

func TestListReminders(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/leads/reminder/42", r.URL.Path)
		writeJSON(t, w, []map[string]any{
			{"_id": "r1", "date": "2026-09-01T10:30:00Z", "message": "site visit", "notified": true},
		})
	})

	reminders, err := c.ListReminders(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "r1", reminders[0].ID)
	assert.True(t, reminders[0].Notified)
}

func TestReminderOpErrorType(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(t, w, map[string]string{"error": "reminder gone"})
	})

	_, err := c.AddReminder(context.Background(), "42", ReminderRequest{Message: "x"})
	var re *ReminderOpError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, "reminder gone", re.Message())
}
