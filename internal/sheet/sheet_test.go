package sheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"leadterm/internal/api"
)

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

func TestReadRows(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Name", "Budget", "Location", "Score", "Stage"},
		{"Asha", "600000", "Pune", "hot", "Qualified"},
		{"", "100", "Delhi", "", ""},
	})

	rows, err := ReadRows(buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Asha", rows[0]["name"])
	assert.Equal(t, "hot", rows[0]["score"])
	assert.Equal(t, "Delhi", rows[1]["location"])
	assert.Empty(t, rows[1]["name"])
}

func TestReadRowsHeadersAreCaseInsensitive(t *testing.T) {
	buf := workbook(t, [][]any{
		{"NAME", "budget"},
		{"Ben", "50000"},
	})

	rows, err := ReadRows(buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ben", rows[0]["name"])
	assert.Equal(t, "50000", rows[0]["budget"])
}

func TestReadRowsMissingNameColumn(t *testing.T) {
	buf := workbook(t, [][]any{
		{"Budget", "Location"},
		{"100", "Pune"},
	})

	_, err := ReadRows(buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Name")
}

func TestReadRowsRejectsGarbage(t *testing.T) {
	_, err := ReadRows(bytes.NewReader([]byte("not an xlsx file")))
	assert.Error(t, err)
}

func TestWriteLeadsRoundTrip(t *testing.T) {
	leads := []api.Lead{
		{
			ID: "1", Name: "Asha", Budget: "600000", Location: "Pune",
			Score: api.ScoreHot, Stage: "Qualified", Priority: api.PriorityHigh,
			Notes: []api.Note{{ID: "n1", Text: "call back"}},
		},
		{ID: "2", Name: "Ben"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteLeads(&buf, leads))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	cells, err := f.GetRows("Leads")
	require.NoError(t, err)
	require.Len(t, cells, 3)
	assert.Equal(t, "Name", cells[0][0])
	assert.Equal(t, "Asha", cells[1][0])
	assert.Equal(t, "Hot", cells[1][3])
	assert.Equal(t, "1", cells[1][6], "note count column")
	assert.Equal(t, "Ben", cells[2][0])
}

func TestWriteTemplate(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf))

	// The template must itself pass import validation.
	rows, err := ReadRows(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Empty(t, rows)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()
	cells, err := f.GetRows("Template")
	require.NoError(t, err)
	require.Len(t, cells, 1)
	assert.Equal(t, TemplateColumns, cells[0])
}
