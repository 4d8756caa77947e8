package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func utc(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestExpiryDate_MonthRollover(t *testing.T) {
	t.Parallel()
	cases := []struct {
		created, want time.Time
	}{
		{utc(2024, 1, 31, 0, 0), utc(2024, 3, 2, 0, 0)}, // leap February has 29 days
		{utc(2023, 1, 31, 0, 0), utc(2023, 3, 3, 0, 0)},
		{utc(2024, 1, 15, 10, 30), utc(2024, 2, 15, 10, 30)},
		{utc(2024, 12, 31, 23, 59), utc(2025, 1, 31, 23, 59)},
		{utc(2024, 3, 31, 0, 0), utc(2024, 5, 1, 0, 0)},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ExpiryDate(tc.created), tc.created.String())
	}
}

func TestExpiryDate_ComputedInUTC(t *testing.T) {
	t.Parallel()
	msk := time.FixedZone("MSK", 3*60*60)
	// 2024-02-01 01:00 MSK is 2024-01-31 22:00 UTC
	created := time.Date(2024, 2, 1, 1, 0, 0, 0, msk)
	require.Equal(t, utc(2024, 3, 2, 22, 0), ExpiryDate(created))
}

func TestDaysLeft_Ceiling(t *testing.T) {
	t.Parallel()
	created := utc(2024, 1, 1, 0, 0) // expires 2024-02-01 00:00

	require.Equal(t, 31, DaysLeft(created, created))
	require.Equal(t, 1, DaysLeft(created, utc(2024, 1, 31, 0, 0)))
	require.Equal(t, 1, DaysLeft(created, utc(2024, 1, 31, 23, 59)))
	require.Equal(t, 0, DaysLeft(created, utc(2024, 2, 1, 0, 0)))
	require.Equal(t, 0, DaysLeft(created, utc(2024, 2, 1, 12, 0)))
	require.Equal(t, -1, DaysLeft(created, utc(2024, 2, 2, 0, 0)))
	require.Equal(t, -1, DaysLeft(created, utc(2024, 2, 2, 6, 0)))
}

func TestDaysLeft_MonotonicAsNowAdvances(t *testing.T) {
	t.Parallel()
	created := utc(2024, 1, 31, 0, 0)
	prev := DaysLeft(created, created.Add(-48*time.Hour))
	for now := created.Add(-47 * time.Hour); now.Before(created.AddDate(0, 3, 0)); now = now.Add(97 * time.Minute) {
		got := DaysLeft(created, now)
		if got > prev {
			t.Fatalf("DaysLeft increased at %s: %d > %d", now, got, prev)
		}
		prev = got
	}
}

func TestValidityOf(t *testing.T) {
	t.Parallel()
	require.Equal(t, Valid, ValidityOf(8))
	require.Equal(t, Expiring, ValidityOf(7))
	require.Equal(t, Expiring, ValidityOf(1))
	require.Equal(t, Expired, ValidityOf(0))
	require.Equal(t, Expired, ValidityOf(-3))

	require.Equal(t, "#2E7D32", PaletteOf(Valid).Foreground)
	require.Equal(t, "#EF6C00", PaletteOf(Expiring).Foreground)
	require.Equal(t, "#FFF3E0", PaletteOf(Expired).Background)
}

func TestCalculator_NotCached(t *testing.T) {
	t.Parallel()
	now := utc(2024, 1, 1, 0, 0)
	calc := NewCalculator(ClockFunc(func() time.Time { return now }))
	created := utc(2024, 1, 1, 0, 0)

	require.Equal(t, 31, calc.DaysLeft(created))
	require.Equal(t, Valid, calc.Validity(created))

	now = utc(2024, 1, 28, 0, 0)
	require.Equal(t, 4, calc.DaysLeft(created))
	require.Equal(t, Expiring, calc.Validity(created))
	require.Equal(t, utc(2024, 2, 1, 0, 0), calc.Expiry(created))
}
