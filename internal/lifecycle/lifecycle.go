// Package lifecycle derives expiry and remaining-validity values from a record's
// creation time. Nothing here is persisted or cached.
package lifecycle

import "time"

const day = 24 * time.Hour

// WarnDays is the remaining-days threshold at or below which a certificate is
// shown as expiring.
const WarnDays = 7

// ExpiryDate returns createdAt plus one calendar month, computed in UTC with
// time.AddDate semantics: the month is incremented and an out-of-range day
// rolls forward into the following month (2024-01-31 -> 2024-03-02,
// 2023-01-31 -> 2023-03-03).
func ExpiryDate(createdAt time.Time) time.Time {
	return createdAt.UTC().AddDate(0, 1, 0)
}

// DaysLeft returns ceil((ExpiryDate(createdAt) - now) / 24h). The result is
// negative once the record has expired.
func DaysLeft(createdAt, now time.Time) int {
	d := ExpiryDate(createdAt).Sub(now)
	days := d / day
	// integer division truncates toward zero, which is already the ceiling for d < 0
	if d%day > 0 {
		days++
	}
	return int(days)
}

// Validity is a derived display label; it never blocks edits.
type Validity string

const (
	Valid    Validity = "valid"
	Expiring Validity = "expiring"
	Expired  Validity = "expired"
)

// ValidityOf maps a days-left value to its label.
func ValidityOf(daysLeft int) Validity {
	switch {
	case daysLeft > WarnDays:
		return Valid
	case daysLeft > 0:
		return Expiring
	default:
		return Expired
	}
}

// Palette is the pair of colors used to render a validity label.
type Palette struct {
	Foreground string
	Background string
}

// PaletteOf returns green for comfortably valid records and orange otherwise.
func PaletteOf(v Validity) Palette {
	if v == Valid {
		return Palette{Foreground: "#2E7D32", Background: "#E8F5E9"}
	}
	return Palette{Foreground: "#EF6C00", Background: "#FFF3E0"}
}
