package api

import (
	"context"
	"net/http"
	"time"
)

// ReminderRequest carries the fields of a new or edited reminder.
type ReminderRequest struct {
	Date    time.Time `json:"date"`
	Message string    `json:"message"`
}

// ListReminders returns the reminder collection of one lead.
func (c *Client) ListReminders(ctx context.Context, leadID string) ([]Reminder, error) {
	var reminders []Reminder
	if err := c.do(ctx, http.MethodGet, "/leads/reminder/"+leadID, nil, &reminders); err != nil {
		return nil, &ReminderOpError{asCall(err)}
	}
	return reminders, nil
}

// AddReminder schedules a follow-up on a lead and returns the updated lead.
func (c *Client) AddReminder(ctx context.Context, leadID string, req ReminderRequest) (Lead, error) {
	var lead Lead
	if err := c.do(ctx, http.MethodPost, "/leads/reminder/"+leadID, req, &lead); err != nil {
		return Lead{}, &ReminderOpError{asCall(err)}
	}
	return lead, nil
}

// EditReminder rewrites one reminder and returns the updated lead.
func (c *Client) EditReminder(ctx context.Context, leadID, reminderID string, req ReminderRequest) (Lead, error) {
	var lead Lead
	if err := c.do(ctx, http.MethodPut, "/leads/reminder/"+leadID+"/"+reminderID, req, &lead); err != nil {
		return Lead{}, &ReminderOpError{asCall(err)}
	}
	return lead, nil
}

// DeleteReminder removes one reminder and returns the updated lead.
func (c *Client) DeleteReminder(ctx context.Context, leadID, reminderID string) (Lead, error) {
	var lead Lead
	if err := c.do(ctx, http.MethodDelete, "/leads/reminder/"+leadID+"/"+reminderID, nil, &lead); err != nil {
		return Lead{}, &ReminderOpError{asCall(err)}
	}
	return lead, nil
}
