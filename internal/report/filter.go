// Package report applies the user-selected case filters and derives the
// report totals and the CSV export.
package report

import (
	"time"

	"github.com/assistravel/casedesk/internal/domain"
)

// Filter tokens as submitted by the report screen.
const (
	StatusAll = "todos"

	WindowAll     = "todos"
	WindowWeek    = "semana"
	WindowMonth   = "mes"
	WindowQuarter = "trimestre"
	WindowYear    = "año"
)

// Filters are the two report predicates. They combine with AND: a case must
// pass the status filter and fall inside the time window.
type Filters struct {
	Status     string
	TimeWindow string
}

func windowDays(window string) (int, bool) {
	switch window {
	case WindowWeek:
		return 7, true
	case WindowMonth:
		return 30, true
	case WindowQuarter:
		return 90, true
	case WindowYear:
		return 365, true
	}
	return 0, false
}

// Match reports whether the case passes both predicates at the given
// reference time. The window boundary is inclusive: a case started exactly
// windowDays ago still passes.
func (f Filters) Match(c *domain.Case, now time.Time) bool {
	if f.Status != StatusAll && string(c.InternalStatus) != f.Status {
		return false
	}
	if f.TimeWindow != WindowAll {
		days, known := windowDays(f.TimeWindow)
		if !known {
			return true
		}
		diffDays := now.Sub(c.StartDate).Hours() / 24
		return diffDays <= float64(days)
	}
	return true
}

// Apply returns the filtered subset in the collection's order.
func Apply(cases []domain.Case, f Filters, now time.Time) []domain.Case {
	filtered := make([]domain.Case, 0, len(cases))
	for i := range cases {
		if f.Match(&cases[i], now) {
			filtered = append(filtered, cases[i])
		}
	}
	return filtered
}

// Summary are the report aggregates over a filtered subset. Cases without
// an invoice or without a fee/cost contribute zero.
type Summary struct {
	TotalCases    int     `json:"totalCasos"`
	ActiveCases   int     `json:"casosActivos"`
	TotalFees     float64 `json:"totalFees"`
	TotalUSDCosts float64 `json:"totalCostosUSD"`
}

// Summarize computes the report aggregates for the filtered subset.
func Summarize(filtered []domain.Case) Summary {
	summary := Summary{TotalCases: len(filtered)}
	for i := range filtered {
		c := &filtered[i]
		if c.InternalStatus == domain.StatusActivo {
			summary.ActiveCases++
		}
		summary.TotalFees += c.EffectiveFee()
		summary.TotalUSDCosts += c.EffectiveCostUSD()
	}
	return summary
}
