// Package store caches lead data for the UI. It holds two views of the
// collection: the active (possibly filtered/paginated) list and the full
// unfiltered list. Both are mutated only through fold operations, so a lead
// present in both views always has the same representation in each.
package store

import "leadterm/internal/api"

// Store is the single source of truth for cached leads and request status.
// It is not safe for concurrent use; all folds run on the UI event loop.
type Store struct {
	items    []api.Lead
	allItems []api.Lead
	loading  bool
	err      error

	// Pagination metadata describes items only.
	total int
	page  int
	pages int

	// fetchSeq stamps issued fetches so a slow response that was overtaken
	// by a newer fetch is discarded instead of clobbering fresh data.
	fetchSeq uint64
}

// New returns an empty store.
func New() *Store {
	return &Store{page: 1, pages: 1}
}

// BeginFetch marks a fetch in flight and returns its sequence stamp.
func (s *Store) BeginFetch() uint64 {
	s.loading = true
	s.err = nil
	s.fetchSeq++
	return s.fetchSeq
}

// ApplyFetch folds a fetch resolution. The active list and pagination
// metadata always follow the response; the full list is refreshed only by an
// unfiltered fetch. Resolutions older than the newest issued fetch are
// dropped and ApplyFetch reports false.
func (s *Store) ApplyFetch(seq uint64, res api.FetchResult) bool {
	if seq != s.fetchSeq {
		return false
	}
	s.loading = false
	s.items = res.Records
	s.total = res.Total
	s.page = res.Page
	s.pages = res.Pages
	if !res.HasFilters {
		// Copy so later in-place folds on one view cannot reach the other.
		s.allItems = append([]api.Lead(nil), res.Records...)
	}
	return true
}

// FailFetch records a fetch failure, keeping the previous data on display.
func (s *Store) FailFetch(seq uint64, err error) bool {
	if seq != s.fetchSeq {
		return false
	}
	s.loading = false
	s.err = err
	return true
}

// ApplyCreate appends a newly created lead to both views.
func (s *Store) ApplyCreate(lead api.Lead) {
	s.items = append(s.items, lead)
	s.allItems = append(s.allItems, lead)
}

// ApplyDelete removes the lead with the given id from both views. Deleting
// an id that is not cached is a no-op.
func (s *Store) ApplyDelete(id string) {
	s.items = removeLead(s.items, id)
	s.allItems = removeLead(s.allItems, id)
}

// ApplyLead replaces the cached lead matching the given lead's id in both
// views. A view that does not contain the lead is left unchanged.
func (s *Store) ApplyLead(lead api.Lead) {
	replaceLead(s.items, lead)
	replaceLead(s.allItems, lead)
}

// Items returns the active view.
func (s *Store) Items() []api.Lead { return s.items }

// AllItems returns the unfiltered full collection.
func (s *Store) AllItems() []api.Lead { return s.allItems }

// Loading reports whether a fetch is in flight.
func (s *Store) Loading() bool { return s.loading }

// Err returns the latest fetch failure, nil after a fetch starts or succeeds.
func (s *Store) Err() error { return s.err }

// Total returns the server-reported size of the active view's result set.
func (s *Store) Total() int { return s.total }

// Page returns the current page of the active view.
func (s *Store) Page() int { return s.page }

// Pages returns the page count of the active view.
func (s *Store) Pages() int { return s.pages }

// Find looks a lead up by id, preferring the active view.
func (s *Store) Find(id string) (api.Lead, bool) {
	for _, list := range [][]api.Lead{s.items, s.allItems} {
		for i := range list {
			if list[i].ID == id {
				return list[i], true
			}
		}
	}
	return api.Lead{}, false
}

func removeLead(list []api.Lead, id string) []api.Lead {
	out := make([]api.Lead, 0, len(list))
	for _, lead := range list {
		if lead.ID != id {
			out = append(out, lead)
		}
	}
	return out
}

func replaceLead(list []api.Lead, lead api.Lead) {
	for i := range list {
		if list[i].ID == lead.ID {
			list[i] = lead
		}
	}
}
