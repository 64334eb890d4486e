package core

import "time"

const dayKeyLayout = "2006-01-02"

// Totals is the income/expense/balance summary of a record set. Balance is
// always recomputed, never stored.
type Totals struct {
	Income  float64
	Expense float64
	Balance float64
}

// DayKey truncates a timestamp to its UTC calendar day. Grouping and the
// calendar picker both key days this way, so records never shift buckets
// near midnight.
func DayKey(t time.Time) string {
	return t.UTC().Format(dayKeyLayout)
}

// GroupRecordsByDate partitions records by the UTC calendar day of their
// date. Every record lands in exactly one group; input order is preserved
// within a group. Callers that want newest-first sort the keys themselves.
func GroupRecordsByDate(records []Record) map[string][]Record {
	groups := make(map[string][]Record)
	for _, r := range records {
		key := DayKey(r.Date)
		groups[key] = append(groups[key], r)
	}
	return groups
}

// CalculateTotals sums a record set in one pass. Income-typed records
// accumulate income, everything else expense. An NaN amount propagates into
// the sums rather than being silently zeroed.
func CalculateTotals(records []Record) Totals {
	var t Totals
	for _, r := range records {
		if r.Type == Income {
			t.Income += r.Amount
		} else {
			t.Expense += r.Amount
		}
	}
	t.Balance = t.Income - t.Expense
	return t
}
