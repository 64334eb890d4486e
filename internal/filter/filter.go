// Package filter narrows a record set by the transient criteria the filter
// bar exposes: a date range, a record type and a category.
package filter

import (
	"jizhang/internal/core"
	"jizhang/internal/daterange"
)

// All is the sentinel meaning "no constraint" for the type and category
// dimensions.
const All = "all"

// Spec is transient UI state, never persisted. A nil DateRange, or one with
// either bound unset, places no date constraint.
type Spec struct {
	DateRange *daterange.Range
	Type      string
	Category  string
}

// NewSpec returns the all-pass spec.
func NewSpec() Spec {
	return Spec{Type: All, Category: All}
}

// Apply returns the order-preserving subsequence of records matching the
// spec. The three predicates are conjunctive; there is no fuzzy matching.
func Apply(records []core.Record, spec Spec) []core.Record {
	out := make([]core.Record, 0, len(records))
	for _, r := range records {
		if spec.matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func (s Spec) matches(r core.Record) bool {
	if s.DateRange != nil && !s.DateRange.Contains(r.Date) {
		return false
	}
	if s.Type != All && s.Type != string(r.Type) {
		return false
	}
	if s.Category != All && s.Category != r.Category {
		return false
	}
	return true
}
