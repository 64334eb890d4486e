package store

import (
	"strings"
	"time"

	"jizhang/internal/core"
)

// DefaultCategories returns the built-in category lists. They are never
// persisted on their own; the categories blob only exists once the user has
// customized something.
func DefaultCategories() core.CategorySet {
	return core.CategorySet{
		Expense: []core.Category{
			{ID: "food", Label: "餐饮", Icon: "food", Origin: core.OriginBuiltin},
			{ID: "transport", Label: "交通", Icon: "train", Origin: core.OriginBuiltin},
			{ID: "shopping", Label: "购物", Icon: "shopping", Origin: core.OriginBuiltin},
			{ID: "entertainment", Label: "娱乐", Icon: "gamepad-variant", Origin: core.OriginBuiltin},
			{ID: "housing", Label: "居住", Icon: "home", Origin: core.OriginBuiltin},
			{ID: "other_expense", Label: "其他", Icon: "dots-horizontal", Origin: core.OriginBuiltin},
		},
		Income: []core.Category{
			{ID: "salary", Label: "工资", Icon: "cash", Origin: core.OriginBuiltin},
			{ID: "bonus", Label: "奖金", Icon: "gift", Origin: core.OriginBuiltin},
			{ID: "investment", Label: "投资", Icon: "chart-line", Origin: core.OriginBuiltin},
			{ID: "other_income", Label: "其他", Icon: "dots-horizontal", Origin: core.OriginBuiltin},
		},
	}
}

// sampleRecords is the first-run seed data.
func sampleRecords(now time.Time) []core.Record {
	return []core.Record{
		{ID: "1", Type: core.Expense, Amount: 100, Category: "food", Note: "午餐", Date: now},
		{ID: "2", Type: core.Income, Amount: 5000, Category: "salary", Note: "工资", Date: now},
	}
}

// normalizeOrigins backfills the origin field on category blobs written
// before it existed, using the custom_ id prefix once, here, and nowhere
// else.
func normalizeOrigins(cats core.CategorySet) core.CategorySet {
	normalize := func(list []core.Category) []core.Category {
		out := make([]core.Category, len(list))
		for i, c := range list {
			if c.Origin == "" {
				if strings.HasPrefix(c.ID, "custom_") {
					c.Origin = core.OriginCustom
				} else {
					c.Origin = core.OriginBuiltin
				}
			}
			out[i] = c
		}
		return out
	}
	return core.CategorySet{
		Expense: normalize(cats.Expense),
		Income:  normalize(cats.Income),
	}
}
