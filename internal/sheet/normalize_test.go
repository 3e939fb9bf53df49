package sheet

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"leadterm/internal/api"
)

func TestNormalizeScore(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"HOT ", api.ScoreHot},
		{"hot", api.ScoreHot},
		{"slightly warm", api.ScoreWarm},
		{"Warm", api.ScoreWarm},
		{"frozen/cold", api.ScoreCold},
		{"COLD", api.ScoreCold},
		{"lukewarm-ish-xyz", api.ScoreWarm},
		{"tepid", ""},
		{"", ""},
		{"   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeScore(tt.raw))
		})
	}
}

func TestDerivePriority(t *testing.T) {
	tests := []struct {
		budget string
		want   string
	}{
		{"₹6,00,000", api.PriorityHigh},
		{"500000", api.PriorityHigh},
		{"250000", api.PriorityMedium},
		{"200000", api.PriorityMedium},
		{"50000", api.PriorityLow},
		{"0", api.PriorityLow},
		{"", api.PriorityMedium},
		{"abc", api.PriorityMedium},
		{"$1.2", api.PriorityLow},
	}
	for _, tt := range tests {
		t.Run(tt.budget, func(t *testing.T) {
			assert.Equal(t, tt.want, DerivePriority(tt.budget))
		})
	}
}

func TestMapRow(t *testing.T) {
	row := Row{
		"name":     "  Asha Rao ",
		"budget":   " ₹6,00,000 ",
		"location": " Pune ",
		"score":    "very hot",
		"stage":    " Qualified ",
	}

	req := row.MapRow()

	assert.Equal(t, "Asha Rao", req.Name)
	assert.Equal(t, "₹6,00,000", req.Budget)
	assert.Equal(t, "Pune", req.Location)
	assert.Equal(t, api.ScoreHot, req.Score)
	assert.Equal(t, "Qualified", req.Stage)
	assert.Equal(t, api.PriorityHigh, req.Priority)
}

func TestMapRowMissingColumns(t *testing.T) {
	req := Row{"name": "Ben"}.MapRow()

	assert.Equal(t, "Ben", req.Name)
	assert.Empty(t, req.Budget)
	assert.Empty(t, req.Score)
	assert.Equal(t, api.PriorityMedium, req.Priority, "no budget still yields a priority")
}
