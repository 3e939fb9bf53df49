// Package sheet reads and writes the xlsx files used for bulk lead import and
// export, and normalizes raw row data into lead requests.
package sheet

import (
	"strconv"
	"strings"

	"leadterm/internal/api"
)

// NormalizeScore maps free-form score text onto the canonical values.
// Unrecognized input is dropped, not rejected.
func NormalizeScore(raw string) string {
	clean := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case strings.Contains(clean, "hot"):
		return api.ScoreHot
	case strings.Contains(clean, "warm"):
		return api.ScoreWarm
	case strings.Contains(clean, "cold"):
		return api.ScoreCold
	default:
		return ""
	}
}

// DerivePriority classifies a budget into High/Medium/Low, ignoring currency
// symbols and separators. It mirrors the server's own derivation so imported
// rows display a sensible value before the server recomputes it.
func DerivePriority(budget string) string {
	digits := strings.Builder{}
	for _, r := range budget {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	amount, err := strconv.Atoi(digits.String())
	if err != nil {
		return api.PriorityMedium
	}
	switch {
	case amount >= 500000:
		return api.PriorityHigh
	case amount >= 200000:
		return api.PriorityMedium
	default:
		return api.PriorityLow
	}
}

// Row is one spreadsheet row keyed by lowercased header cell.
type Row map[string]string

// MapRow normalizes a raw row into a lead creation request. A request with an
// empty name must not be submitted; that is the import skip rule.
func (r Row) MapRow() api.LeadRequest {
	budget := strings.TrimSpace(r["budget"])
	return api.LeadRequest{
		Name:     strings.TrimSpace(r["name"]),
		Budget:   budget,
		Location: strings.TrimSpace(r["location"]),
		Score:    NormalizeScore(r["score"]),
		Stage:    strings.TrimSpace(r["stage"]),
		Priority: DerivePriority(budget),
	}
}
