package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ParseDecimal parses a German-formatted number such as "1.234,56" or "-12,50".
// Dots are thousands separators and the comma is the decimal separator.
func ParseDecimal(s string) (decimal.Decimal, error) {
	norm := strings.ReplaceAll(strings.TrimSpace(s), ".", "")
	norm = strings.Replace(norm, ",", ".", 1)
	d, err := decimal.NewFromString(norm)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: amount %q: %v", ErrFormat, s, err)
	}
	return d, nil
}

// ParseDate parses "dd.mm.yy" or "dd.mm.yyyy". Two-digit years are read as
// 2000+yy, so the short form only covers 2000-2099.
func ParseDate(s string) (time.Time, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("%w: date %q: expected dd.mm.yy", ErrFormat, s)
	}

	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return time.Time{}, fmt.Errorf("%w: date %q: bad component %q", ErrFormat, s, p)
		}
		nums[i] = n
	}
	day, month, year := nums[0], nums[1], nums[2]
	if len(parts[2]) <= 2 {
		year += 2000
	}
	if year > 9999 {
		return time.Time{}, fmt.Errorf("%w: date %q: year out of range", ErrFormat, s)
	}

	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes 31.02 into March; reject instead.
	if t.Day() != day || int(t.Month()) != month || t.Year() != year {
		return time.Time{}, fmt.Errorf("%w: date %q: no such day", ErrFormat, s)
	}
	return t, nil
}

// ToMinorUnits scales d by 100 and rounds half away from zero. Amounts that
// do not fit in an int64 are a format error.
func ToMinorUnits(d decimal.Decimal) (int64, error) {
	scaled := d.Mul(hundred).Round(0)
	if !scaled.BigInt().IsInt64() {
		return 0, fmt.Errorf("%w: amount %s out of range", ErrFormat, d)
	}
	return scaled.IntPart(), nil
}
