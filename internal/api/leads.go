package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Score values recognized by the service.
const (
	ScoreHot  = "Hot"
	ScoreWarm = "Warm"
	ScoreCold = "Cold"
)

// Priority values derived from budget.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Stages lists the fixed sales pipeline in order.
func Stages() []string {
	return []string{
		"New Lead",
		"Qualified",
		"Property Matching",
		"Contacted",
		"Visit Scheduled",
		"Negotiation",
		"Closing",
		"Post-Sale",
	}
}

// Budget tolerates both numeric and string encodings from the service.
type Budget string

// UnmarshalJSON accepts a JSON string or number.
func (b *Budget) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*b = Budget(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*b = Budget(n.String())
	return nil
}

// Note is a free-text annotation attached to a lead.
type Note struct {
	ID        string    `json:"_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Reminder is a scheduled follow-up attached to a lead.
type Reminder struct {
	ID       string    `json:"_id"`
	Date     time.Time `json:"date"`
	Message  string    `json:"message"`
	Notified bool      `json:"notified"`
}

// Lead is a prospective customer record. The service owns it; clients hold
// cached copies only.
type Lead struct {
	ID        string     `json:"_id"`
	Name      string     `json:"name"`
	Budget    Budget     `json:"budget,omitempty"`
	Location  string     `json:"location,omitempty"`
	Score     string     `json:"score,omitempty"`
	Stage     string     `json:"stage,omitempty"`
	Priority  string     `json:"priority,omitempty"`
	Notes     []Note     `json:"notes,omitempty"`
	Reminders []Reminder `json:"reminders,omitempty"`
}

// LeadRequest carries the writable top-level fields of a lead. Identity and
// the note/reminder sub-collections are never sent on this path.
type LeadRequest struct {
	Name     string `json:"name"`
	Budget   string `json:"budget,omitempty"`
	Location string `json:"location,omitempty"`
	Score    string `json:"score,omitempty"`
	Stage    string `json:"stage,omitempty"`
	Priority string `json:"priority,omitempty"`
}

// Filters narrows a lead fetch. Zero value means the unfiltered list.
type Filters struct {
	Name     string
	Score    string
	Stage    string
	Priority string
	Page     int
}

// Active reports whether any criterion is set: strings count when non-blank
// after trimming, the page number counts whenever it is present.
func (f Filters) Active() bool {
	for _, v := range []string{f.Name, f.Score, f.Stage, f.Priority} {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return f.Page > 0
}

// Encode serializes the non-empty criteria as URL query parameters.
func (f Filters) Encode() string {
	values := url.Values{}
	set := func(key, v string) {
		if strings.TrimSpace(v) != "" {
			values.Set(key, v)
		}
	}
	set("name", f.Name)
	set("score", f.Score)
	set("stage", f.Stage)
	set("priority", f.Priority)
	if f.Page > 0 {
		values.Set("page", strconv.Itoa(f.Page))
	}
	return values.Encode()
}

// FetchResult is the normalized outcome of a lead fetch.
type FetchResult struct {
	Records    []Lead
	HasFilters bool
	Total      int
	Page       int
	Pages      int
}

// FetchLeads lists leads, using the search endpoint when any filter is active.
func (c *Client) FetchLeads(ctx context.Context, filters Filters) (FetchResult, error) {
	path := "/leads"
	hasFilters := filters.Active()
	if hasFilters {
		path = "/leads/search?" + filters.Encode()
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return FetchResult{}, &FetchError{asCall(err)}
	}

	result, err := decodeLeadList(raw)
	if err != nil {
		return FetchResult{}, &FetchError{callError{Err: err}}
	}
	result.HasFilters = hasFilters
	c.logger.Debug().Int("count", len(result.Records)).Bool("filtered", hasFilters).Msg("fetched leads")
	return result, nil
}

// GetLead fetches a single lead with its embedded notes and reminders.
func (c *Client) GetLead(ctx context.Context, id string) (Lead, error) {
	var lead Lead
	if err := c.do(ctx, http.MethodGet, "/leads/"+id, nil, &lead); err != nil {
		ce := asCall(err)
		if ce.Status == http.StatusNotFound {
			return Lead{}, &NotFoundError{ID: id, callError: ce}
		}
		return Lead{}, &FetchError{ce}
	}
	return lead, nil
}

// CreateLead posts a new lead. Name validation is the caller's concern.
func (c *Client) CreateLead(ctx context.Context, req LeadRequest) (Lead, error) {
	var lead Lead
	if err := c.do(ctx, http.MethodPost, "/leads", req, &lead); err != nil {
		return Lead{}, &CreateError{asCall(err)}
	}
	return lead, nil
}

// UpdateLead rewrites a lead's top-level scalar fields.
func (c *Client) UpdateLead(ctx context.Context, id string, req LeadRequest) (Lead, error) {
	var lead Lead
	if err := c.do(ctx, http.MethodPut, "/leads/"+id, req, &lead); err != nil {
		return Lead{}, &UpdateError{asCall(err)}
	}
	return lead, nil
}

// DeleteLead removes a lead by id.
func (c *Client) DeleteLead(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/leads/"+id, nil, nil); err != nil {
		return &DeleteError{asCall(err)}
	}
	return nil
}

// UpdatableFields extracts the writable scalar fields of a lead, stripping
// identity and the note/reminder sub-collections.
func UpdatableFields(lead Lead) LeadRequest {
	return LeadRequest{
		Name:     lead.Name,
		Budget:   string(lead.Budget),
		Location: lead.Location,
		Score:    lead.Score,
		Stage:    lead.Stage,
		Priority: lead.Priority,
	}
}

// decodeLeadList normalizes the list response. The documented contract is an
// envelope {leads, total, page, pages}; bare arrays and the legacy docs/data
// keys are a compatibility shim for older server builds.
func decodeLeadList(raw json.RawMessage) (FetchResult, error) {
	var bare []Lead
	if err := json.Unmarshal(raw, &bare); err == nil {
		return FetchResult{
			Records: bare,
			Total:   len(bare),
			Page:    1,
			Pages:   1,
		}, nil
	}

	var envelope struct {
		Leads []Lead `json:"leads"`
		Docs  []Lead `json:"docs"`
		Data  []Lead `json:"data"`
		Total int    `json:"total"`
		Page  int    `json:"page"`
		Pages int    `json:"pages"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return FetchResult{}, err
	}

	records := envelope.Leads
	if records == nil {
		records = envelope.Docs
	}
	if records == nil {
		records = envelope.Data
	}
	if records == nil {
		records = []Lead{}
	}

	result := FetchResult{
		Records: records,
		Total:   envelope.Total,
		Page:    envelope.Page,
		Pages:   envelope.Pages,
	}
	if result.Total == 0 {
		result.Total = len(records)
	}
	if result.Page == 0 {
		result.Page = 1
	}
	if result.Pages == 0 {
		result.Pages = 1
	}
	return result, nil
}
