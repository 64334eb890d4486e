// Package core holds the record/category domain model and the pure
// aggregation and formatting helpers built on it.
//
// This file renders amounts and dates the way the zh-CN display layer
// expects them: currency with the ¥ symbol, grouped thousands and two
// decimals, and long calendar dates like 2024年3月15日.
package core

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var moneyPrinter = message.NewPrinter(language.SimplifiedChinese)

// FormatMoney renders an amount as localized CNY text. Negative amounts get
// the locale's negative sign; the +/- income/expense prefixes shown in lists
// are the caller's concern.
func FormatMoney(amount float64) string {
	return moneyPrinter.Sprintf("¥%v",
		number.Decimal(amount, number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}

// FormatDate renders a timestamp as a long Chinese calendar date.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%d年%d月%d日", t.Year(), int(t.Month()), t.Day())
}

// ParseDate accepts the two date shapes the rest of the system produces:
// full RFC 3339 timestamps (the persisted form) and plain 2006-01-02 days.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(dayKeyLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}
