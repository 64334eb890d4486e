package core

import "sort"

// CategorySlice is one pie-chart wedge: a category's share of the total for
// one record type.
type CategorySlice struct {
	Category Category
	Amount   float64
	Percent  float64 // share of the type total, 0-100
}

// Breakdown sums records of one type per category and resolves display
// labels through the category set; a dangling reference becomes the
// unknown-category placeholder. Slices are sorted by amount descending,
// first-seen order breaking ties.
func Breakdown(records []Record, cats CategorySet, t RecordType) []CategorySlice {
	sums := make(map[string]float64)
	var order []string
	for _, r := range records {
		if r.Type != t {
			continue
		}
		if _, seen := sums[r.Category]; !seen {
			order = append(order, r.Category)
		}
		sums[r.Category] += r.Amount
	}

	var total float64
	for _, amount := range sums {
		total += amount
	}

	slices := make([]CategorySlice, 0, len(order))
	for _, id := range order {
		s := CategorySlice{
			Category: cats.Resolve(t, id),
			Amount:   sums[id],
		}
		if total != 0 {
			s.Percent = s.Amount / total * 100
		}
		slices = append(slices, s)
	}

	sort.SliceStable(slices, func(i, j int) bool {
		return slices[i].Amount > slices[j].Amount
	})
	return slices
}
