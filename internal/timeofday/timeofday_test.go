package timeofday

import (
	"errors"
	"math"
	"testing"

	"github.com/paradise-yatra/data-management-system-sub003/internal/domain"
)

func TestParseFormatRoundTrip(t *testing.T) {
	for h := 0; h < 24; h++ {
		for m := 0; m < 60; m++ {
			s := FormatClock(h*60 + m)

			got, err := ParseClock(s)
			if err != nil {
				t.Fatalf("ParseClock(%q) unexpected error: %v", s, err)
			}
			if back := FormatClock(got); back != s {
				t.Fatalf("round trip %q -> %d -> %q", s, got, back)
			}
		}
	}
}

func TestParseClockRejectsMalformed(t *testing.T) {
	inputs := []string{"", "9:00", "09:0", "24:00", "23:60", "0900", "09:00:00", " 09:00", "ab:cd", "-1:00"}

	for _, in := range inputs {
		if _, err := ParseClock(in); !errors.Is(err, domain.ErrInvalidTimeFormat) {
			t.Errorf("ParseClock(%q) err = %v, want ErrInvalidTimeFormat", in, err)
		}
	}
}

func TestFormatClockClamps(t *testing.T) {
	cases := map[int]string{
		-30:  "00:00",
		0:    "00:00",
		545:  "09:05",
		1439: "23:59",
		2000: "23:59",
	}

	for in, want := range cases {
		if got := FormatClock(in); got != want {
			t.Errorf("FormatClock(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatClockFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{math.NaN(), "00:00"},
		{-5.5, "00:00"},
		{61.9, "01:01"},
		{1e9, "23:59"},
	}

	for _, tc := range cases {
		if got := FormatClockFloat(tc.in); got != tc.want {
			t.Errorf("FormatClockFloat(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResolveWeekday(t *testing.T) {
	cases := []struct {
		date     string
		timezone string
		want     string
	}{
		{"2026-03-01", "Asia/Kolkata", "SUNDAY"},
		{"2026-03-02", "UTC", "MONDAY"},
		// 20:00 UTC Saturday is already Sunday in Kolkata.
		{"2026-02-28T20:00:00Z", "Asia/Kolkata", "SUNDAY"},
		// Unknown zone falls back to the UTC weekday.
		{"2026-02-28T20:00:00Z", "Mars/Olympus_Mons", "SATURDAY"},
	}

	for _, tc := range cases {
		got, err := ResolveWeekday(tc.date, tc.timezone)
		if err != nil {
			t.Fatalf("ResolveWeekday(%q, %q) unexpected error: %v", tc.date, tc.timezone, err)
		}
		if got != tc.want {
			t.Errorf("ResolveWeekday(%q, %q) = %q, want %q", tc.date, tc.timezone, got, tc.want)
		}
	}
}

func TestResolveWeekdayInvalidDate(t *testing.T) {
	if _, err := ResolveWeekday("not-a-date", "UTC"); !errors.Is(err, domain.ErrInvalidDate) {
		t.Fatalf("err = %v, want ErrInvalidDate", err)
	}
}
