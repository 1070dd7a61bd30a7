package service

import (
	"context"
	"strconv"
	"time"

	"adetta/internal/dto"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// timeNow is swapped in tests to pin "today".
var timeNow = time.Now

// runTx runs fn in one transaction bound to ctx. A returned error rolls it back.
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.WithContext(ctx).Transaction(fn)
}

// today is the current calendar date at UTC midnight.
func today() time.Time {
	now := timeNow()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// parseDate reads a YYYY-MM-DD field. Empty means today.
func parseDate(field, s string) (time.Time, error) {
	if s == "" {
		return today(), nil
	}
	t, err := time.Parse(dto.DateLayout, s)
	if err != nil {
		return time.Time{}, invalid(field, "expected YYYY-MM-DD")
	}
	return t.UTC(), nil
}

func formatDate(t time.Time) string { return t.Format(dto.DateLayout) }

func formatTimestamp(t time.Time) string { return t.UTC().Format(time.RFC3339) }

// periodSince resolves "30", "90", "365" or "all" to a start date.
// Empty defaults to 30 days; "all" returns nil.
func periodSince(period string) (*time.Time, string, error) {
	if period == "" {
		period = "30"
	}
	if period == "all" {
		return nil, period, nil
	}
	switch period {
	case "30", "90", "365":
	default:
		return nil, "", invalid("period", "expected 30, 90, 365 or all")
	}
	days, _ := strconv.Atoi(period)
	since := today().AddDate(0, 0, -days)
	return &since, period, nil
}

// checkAmount rejects non-positive amounts and more than two decimal places.
func checkAmount(field string, v decimal.Decimal) error {
	if !v.IsPositive() {
		return invalid(field, "must be greater than zero")
	}
	if !v.Equal(v.Round(2)) {
		return invalid(field, "at most two decimal places")
	}
	return nil
}

// checkPrice is checkAmount allowing zero: a product may exist without a price.
func checkPrice(field string, v decimal.Decimal) error {
	if v.IsNegative() {
		return invalid(field, "must not be negative")
	}
	if !v.Equal(v.Round(2)) {
		return invalid(field, "at most two decimal places")
	}
	return nil
}

func uintKey(id uint) string { return strconv.FormatUint(uint64(id), 10) }
