package importer

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"leadterm/internal/api"
)

type fakeCreator struct {
	requests []api.LeadRequest
	failOn   map[string]error
	nextID   int
}

func (f *fakeCreator) CreateLead(_ context.Context, req api.LeadRequest) (api.Lead, error) {
	f.requests = append(f.requests, req)
	if err, ok := f.failOn[req.Name]; ok {
		return api.Lead{}, err
	}
	f.nextID++
	return api.Lead{
		ID:       string(rune('a' + f.nextID - 1)),
		Name:     req.Name,
		Budget:   api.Budget(req.Budget),
		Score:    req.Score,
		Priority: req.Priority,
	}, nil
}

func workbook(t *testing.T, rows [][]any) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, cells := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &cells))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

func TestRunImportsRowsInOrder(t *testing.T) {
	creator := &fakeCreator{}
	pipeline := New(creator, zerolog.Nop())
	buf := workbook(t, [][]any{
		{"Name", "Budget", "Score"},
		{"Asha", "600000", "hot"},
		{"Ben", "50000", ""},
	})

	report := pipeline.Run(context.Background(), buf)

	assert.Equal(t, Success, report.State)
	assert.Equal(t, 2, report.Created)
	assert.Zero(t, report.Skipped)
	assert.Zero(t, report.Failed)
	require.Len(t, creator.requests, 2)
	assert.Equal(t, "Asha", creator.requests[0].Name)
	assert.Equal(t, api.ScoreHot, creator.requests[0].Score)
	assert.Equal(t, api.PriorityHigh, creator.requests[0].Priority)
	assert.Equal(t, "Ben", creator.requests[1].Name)
}

func TestRunSkipsNamelessRows(t *testing.T) {
	creator := &fakeCreator{}
	pipeline := New(creator, zerolog.Nop())
	buf := workbook(t, [][]any{
		{"Name", "Budget"},
		{"   ", "100"},
		{"Asha", "600000"},
		{"", ""},
	})

	report := pipeline.Run(context.Background(), buf)

	assert.Equal(t, Success, report.State)
	assert.Equal(t, 1, report.Created)
	assert.Equal(t, 2, report.Skipped)
	require.Len(t, creator.requests, 1)
	assert.Equal(t, "Asha", creator.requests[0].Name)
}

func TestRunContinuesPastFailedRows(t *testing.T) {
	creator := &fakeCreator{failOn: map[string]error{"Ben": errors.New("service says no")}}
	pipeline := New(creator, zerolog.Nop())
	buf := workbook(t, [][]any{
		{"Name"},
		{"Asha"},
		{"Ben"},
		{"Cara"},
	})

	report := pipeline.Run(context.Background(), buf)

	assert.Equal(t, Failed, report.State, "any failed row makes the run Failed")
	assert.Equal(t, 2, report.Created)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "row 3")
	assert.Contains(t, report.Errors[0], "service says no")
	require.Len(t, report.Leads, 2, "successful creates are kept, no rollback")
	assert.Equal(t, "Asha", report.Leads[0].Name)
	assert.Equal(t, "Cara", report.Leads[1].Name)
}

func TestRunAbortsOnDecodeFailure(t *testing.T) {
	creator := &fakeCreator{}
	pipeline := New(creator, zerolog.Nop())

	report := pipeline.Run(context.Background(), bytes.NewReader([]byte("garbage")))

	assert.Equal(t, Failed, report.State)
	assert.Zero(t, report.Created)
	assert.Empty(t, creator.requests)
	assert.NotEmpty(t, report.Errors)
}

func TestRunAbortsWhenCancelled(t *testing.T) {
	creator := &fakeCreator{}
	pipeline := New(creator, zerolog.Nop())
	buf := workbook(t, [][]any{
		{"Name"},
		{"Asha"},
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	report := pipeline.Run(ctx, buf)

	assert.Equal(t, Failed, report.State)
	assert.Empty(t, creator.requests)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "importing", Importing.String())
	assert.Equal(t, "success", Success.String())
	assert.Equal(t, "failed", Failed.String())
}
