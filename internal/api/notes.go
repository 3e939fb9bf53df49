package api

import (
	"context"
	"net/http"
)

// NoteRequest carries the text of a new or edited note.
type NoteRequest struct {
	Text string `json:"text"`
}

// AddNote attaches a note to a lead and returns the updated lead. The server
// is authoritative for the note collection; the client never computes it.
func (c *Client) AddNote(ctx context.Context, leadID string, req NoteRequest) (Lead, error) {
	var lead Lead
	if err := c.do(ctx, http.MethodPost, "/leads/note/"+leadID, req, &lead); err != nil {
		return Lead{}, &NoteOpError{asCall(err)}
	}
	return lead, nil
}

// EditNote rewrites one note and returns the updated lead.
func (c *Client) EditNote(ctx context.Context, leadID, noteID string, req NoteRequest) (Lead, error) {
	var lead Lead
	if err := c.do(ctx, http.MethodPut, "/leads/note/"+leadID+"/"+noteID, req, &lead); err != nil {
		return Lead{}, &NoteOpError{asCall(err)}
	}
	return lead, nil
}

// DeleteNote removes one note and returns the updated lead.
func (c *Client) DeleteNote(ctx context.Context, leadID, noteID string) (Lead, error) {
	var lead Lead
	if err := c.do(ctx, http.MethodDelete, "/leads/note/"+leadID+"/"+noteID, nil, &lead); err != nil {
		return Lead{}, &NoteOpError{asCall(err)}
	}
	return lead, nil
}
