package date

import (
	"testing"
	"time"
)

func TestParseLayouts(t *testing.T) {
	tests := []struct {
		layout string
		in     string
		want   string
	}{
		{LayoutEtoro, "02/01/2023 15:04:05", "2023-01-02T15:04:05Z"},
		{LayoutIG, "02-01-2023 15:04:05", "2023-01-02T15:04:05Z"},
		{LayoutIGUTC, "2023-01-02T15:04:05", "2023-01-02T15:04:05Z"},
		{LayoutSchwab, "01/02/2023", "2023-01-02T00:00:00Z"},
		{LayoutIbkr, "2023-01-02", "2023-01-02T00:00:00Z"},
		{LayoutDayOnly, "2023-01-02", "2023-01-02T00:00:00Z"},
	}
	for _, tc := range tests {
		got, err := Parse(tc.layout, tc.in)
		if err != nil {
			t.Errorf("Parse(%q, %q): %v", tc.layout, tc.in, err)
			continue
		}
		if got.Format(time.RFC3339) != tc.want {
			t.Errorf("Parse(%q, %q) = %s, want %s", tc.layout, tc.in, got.Format(time.RFC3339), tc.want)
		}
		if got.Location() != time.UTC {
			t.Errorf("Parse(%q, %q) not pinned to UTC", tc.layout, tc.in)
		}
	}
}

func TestParseInvalid(t *testing.T) {
	if _, err := Parse(LayoutIG, "2023-01-02 15:04:05"); err == nil {
		t.Fatal("want error for wrong layout")
	}
}

func TestAlmostEqual(t *testing.T) {
	a := MustParse(LayoutIGUTC, "2023-01-02T15:04:05")
	tests := []struct {
		b    time.Time
		want bool
	}{
		{a, true},
		{a.Add(time.Second), true},
		{a.Add(-time.Second), true},
		{a.Add(2 * time.Second), false},
		{a.Add(-2 * time.Second), false},
	}
	for _, tc := range tests {
		if got := AlmostEqual(a, tc.b, time.Second); got != tc.want {
			t.Errorf("AlmostEqual(%s, %s) = %v, want %v", a, tc.b, got, tc.want)
		}
	}
}
