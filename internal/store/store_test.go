package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadterm/internal/api"
)

func lead(id, name string) api.Lead {
	return api.Lead{ID: id, Name: name}
}

func unfiltered(leads ...api.Lead) api.FetchResult {
	return api.FetchResult{Records: leads, Total: len(leads), Page: 1, Pages: 1}
}

func filtered(leads ...api.Lead) api.FetchResult {
	return api.FetchResult{Records: leads, HasFilters: true, Total: len(leads), Page: 1, Pages: 1}
}

func TestApplyFetchUnfilteredRefreshesBothViews(t *testing.T) {
	s := New()
	seq := s.BeginFetch()

	require.True(t, s.ApplyFetch(seq, unfiltered(lead("1", "Asha"), lead("2", "Ben"))))

	assert.Len(t, s.Items(), 2)
	assert.Len(t, s.AllItems(), 2)
	assert.False(t, s.Loading())
	assert.NoError(t, s.Err())
}

func TestApplyFetchFilteredLeavesFullCollectionAlone(t *testing.T) {
	s := New()
	require.True(t, s.ApplyFetch(s.BeginFetch(), unfiltered(lead("1", "Asha"), lead("2", "Ben"))))

	require.True(t, s.ApplyFetch(s.BeginFetch(), filtered(lead("1", "Asha"))))

	assert.Len(t, s.Items(), 1)
	assert.Len(t, s.AllItems(), 2, "filtered fetch must not narrow the full collection")
}

func TestApplyFetchDiscardsStaleResolution(t *testing.T) {
	s := New()
	stale := s.BeginFetch()
	newest := s.BeginFetch()

	require.True(t, s.ApplyFetch(newest, filtered(lead("1", "Asha"))))
	assert.False(t, s.ApplyFetch(stale, unfiltered(lead("9", "Old"))))

	require.Len(t, s.Items(), 1)
	assert.Equal(t, "Asha", s.Items()[0].Name)
}

func TestFailFetchKeepsPreviousData(t *testing.T) {
	s := New()
	require.True(t, s.ApplyFetch(s.BeginFetch(), unfiltered(lead("1", "Asha"))))

	seq := s.BeginFetch()
	assert.True(t, s.Loading())
	require.True(t, s.FailFetch(seq, errors.New("boom")))

	assert.False(t, s.Loading())
	assert.EqualError(t, s.Err(), "boom")
	assert.Len(t, s.Items(), 1, "failure must not clear cached data")
}

func TestBeginFetchClearsError(t *testing.T) {
	s := New()
	seq := s.BeginFetch()
	require.True(t, s.FailFetch(seq, errors.New("boom")))

	s.BeginFetch()
	assert.NoError(t, s.Err())
}

func TestApplyCreateAppendsToBothViews(t *testing.T) {
	s := New()
	require.True(t, s.ApplyFetch(s.BeginFetch(), unfiltered(lead("1", "Asha"))))

	s.ApplyCreate(lead("2", "Ben"))

	assert.Len(t, s.Items(), 2)
	assert.Len(t, s.AllItems(), 2)
}

func TestApplyDeleteRemovesFromBothViews(t *testing.T) {
	s := New()
	require.True(t, s.ApplyFetch(s.BeginFetch(), unfiltered(lead("1", "Asha"), lead("2", "Ben"))))

	s.ApplyDelete("1")
	assert.Len(t, s.Items(), 1)
	assert.Len(t, s.AllItems(), 1)

	// Unknown id is a no-op, not an error.
	s.ApplyDelete("missing")
	assert.Len(t, s.Items(), 1)
	assert.Len(t, s.AllItems(), 1)
}

func TestApplyDeleteOnFilteredViewKeepsViewsIndependent(t *testing.T) {
	s := New()
	require.True(t, s.ApplyFetch(s.BeginFetch(), unfiltered(lead("1", "Asha"), lead("2", "Ben"), lead("3", "Cara"))))
	require.True(t, s.ApplyFetch(s.BeginFetch(), filtered(lead("2", "Ben"))))

	s.ApplyDelete("2")

	assert.Empty(t, s.Items())
	require.Len(t, s.AllItems(), 2)
	assert.Equal(t, "Asha", s.AllItems()[0].Name)
	assert.Equal(t, "Cara", s.AllItems()[1].Name)
}

func TestApplyLeadReplacesInPlaceWithoutInsertion(t *testing.T) {
	s := New()
	require.True(t, s.ApplyFetch(s.BeginFetch(), unfiltered(lead("1", "Asha"), lead("2", "Ben"))))
	require.True(t, s.ApplyFetch(s.BeginFetch(), filtered(lead("2", "Ben"))))

	updated := lead("2", "Benjamin")
	updated.Score = api.ScoreHot
	s.ApplyLead(updated)

	got, ok := s.Find("2")
	require.True(t, ok)
	assert.Equal(t, "Benjamin", got.Name)
	full, ok2 := findIn(s.AllItems(), "2")
	require.True(t, ok2)
	assert.Equal(t, "Benjamin", full.Name, "both views must agree on a shared lead")

	// A lead absent from a view is not inserted into it.
	s.ApplyLead(lead("99", "Ghost"))
	_, found := s.Find("99")
	assert.False(t, found)
}

func TestPaginationDescribesActiveViewOnly(t *testing.T) {
	s := New()
	require.True(t, s.ApplyFetch(s.BeginFetch(), unfiltered(lead("1", "Asha"), lead("2", "Ben"))))

	res := api.FetchResult{Records: []api.Lead{lead("1", "Asha")}, HasFilters: true, Total: 14, Page: 2, Pages: 3}
	require.True(t, s.ApplyFetch(s.BeginFetch(), res))

	assert.Equal(t, 14, s.Total())
	assert.Equal(t, 2, s.Page())
	assert.Equal(t, 3, s.Pages())
	assert.Len(t, s.AllItems(), 2)
}

// Mirrors a full session: load, filter, create, delete, clear.
func TestFilterCreateDeleteScenario(t *testing.T) {
	s := New()
	require.True(t, s.ApplyFetch(s.BeginFetch(), unfiltered(lead("1", "Asha"), lead("2", "Ben"), lead("3", "Cara"))))

	require.True(t, s.ApplyFetch(s.BeginFetch(), filtered(lead("2", "Ben"))))
	s.ApplyCreate(lead("4", "Dev"))
	s.ApplyDelete("2")

	assert.Len(t, s.Items(), 1)
	assert.Len(t, s.AllItems(), 3)

	// Clearing filters refetches everything; the server now knows 4 and not 2.
	require.True(t, s.ApplyFetch(s.BeginFetch(), unfiltered(lead("1", "Asha"), lead("3", "Cara"), lead("4", "Dev"))))
	assert.Len(t, s.Items(), 3)
	assert.Len(t, s.AllItems(), 3)
}

func findIn(list []api.Lead, id string) (api.Lead, bool) {
	for _, l := range list {
		if l.ID == id {
			return l, true
		}
	}
	return api.Lead{}, false
}
