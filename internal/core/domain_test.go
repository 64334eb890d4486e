package core

import (
	"math"
	"testing"
	"time"
)

func validRecord() Record {
	return Record{
		Type:     Expense,
		Amount:   12.5,
		Category: "food",
		Note:     "午餐",
		Date:     time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestRecordValidate(t *testing.T) {
	if err := validRecord().Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Record)
		want   error
	}{
		{"bad type", func(r *Record) { r.Type = "transfer" }, ErrInvalidType},
		{"negative amount", func(r *Record) { r.Amount = -1 }, ErrInvalidAmount},
		{"nan amount", func(r *Record) { r.Amount = math.NaN() }, ErrInvalidAmount},
		{"empty category", func(r *Record) { r.Category = "  " }, ErrEmptyCategory},
		{"zero date", func(r *Record) { r.Date = time.Time{} }, ErrZeroDate},
	}
	for _, tc := range cases {
		r := validRecord()
		tc.mutate(&r)
		if err := r.Validate(); err != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestCategoryValidate(t *testing.T) {
	good := Category{ID: "food", Label: "餐饮", Icon: "food"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Category{Label: "餐饮"}).Validate(); err != ErrEmptyID {
		t.Fatalf("expected ErrEmptyID, got %v", err)
	}
	if err := (Category{ID: "food"}).Validate(); err != ErrEmptyLabel {
		t.Fatalf("expected ErrEmptyLabel, got %v", err)
	}
}

func TestCategoryDeletable(t *testing.T) {
	if (Category{ID: "food", Origin: OriginBuiltin}).Deletable() {
		t.Fatal("built-in category must not be deletable")
	}
	if !(Category{ID: "custom_1700000000000", Origin: OriginCustom}).Deletable() {
		t.Fatal("custom category must be deletable")
	}
}

func TestCategorySetResolve(t *testing.T) {
	cats := CategorySet{
		Expense: []Category{{ID: "food", Label: "餐饮", Icon: "food"}},
		Income:  []Category{{ID: "salary", Label: "工资", Icon: "cash"}},
	}

	if got := cats.Resolve(Expense, "food"); got.Label != "餐饮" {
		t.Fatalf("expected 餐饮, got %q", got.Label)
	}
	if got := cats.Resolve(Income, "salary"); got.Label != "工资" {
		t.Fatalf("expected 工资, got %q", got.Label)
	}

	// Dangling reference degrades to the placeholder, keeping the id.
	got := cats.Resolve(Expense, "custom_1700000000000")
	if got.Label != UnknownCategoryLabel || got.Icon != UnknownCategoryIcon {
		t.Fatalf("expected unknown placeholder, got %+v", got)
	}
	if got.ID != "custom_1700000000000" {
		t.Fatalf("placeholder must keep the id, got %q", got.ID)
	}
}

func TestIDGeneration(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	if got := NewRecordID(now); got != "1700000000000" {
		t.Fatalf("expected 1700000000000, got %q", got)
	}
	if got := NewCustomCategoryID(now); got != "custom_1700000000000" {
		t.Fatalf("expected custom_1700000000000, got %q", got)
	}
}
