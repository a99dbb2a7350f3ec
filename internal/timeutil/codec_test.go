package timeutil

import "testing"

func TestParseShortForm(t *testing.T) {
	got, err := Parse("2023-10-12 20:15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Date != "2023-10-12 20:15:00" {
		t.Errorf("Date = %q, want %q", got.Date, "2023-10-12 20:15:00")
	}
	want := int64(1697141700)
	if got.Epoch != want {
		t.Errorf("Epoch = %d, want %d", got.Epoch, want)
	}
}

func TestParseLongForm(t *testing.T) {
	got, err := Parse("2023-10-12 20:15:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Date != "2023-10-12 20:15:30" {
		t.Errorf("Date = %q, want unchanged long form", got.Date)
	}
}

func TestParseRejectsBadLength(t *testing.T) {
	if _, err := Parse("2023-10-12"); err == nil {
		t.Error("expected error for short string, got nil")
	}
}

func TestParseRejectsBadSeparators(t *testing.T) {
	if _, err := Parse("2023/10-12 20:15"); err == nil {
		t.Error("expected error for bad separator, got nil")
	}
}

func TestParseRejectsImpossibleCalendarDate(t *testing.T) {
	// Nov has 30 days; Feb 31 doesn't exist either.
	if _, err := Parse("2023-11-31 00:00"); err == nil {
		t.Error("expected error for Nov 31, got nil")
	}
	if _, err := Parse("2023-02-31 00:00"); err == nil {
		t.Error("expected error for Feb 31, got nil")
	}
}

func TestSameCalendarYear(t *testing.T) {
	a, _ := Parse("2023-01-01 00:00")
	b, _ := Parse("2023-12-31 23:59:59")
	c, _ := Parse("2024-01-01 00:00")

	if !SameCalendarYear(a.Epoch, b.Epoch) {
		t.Error("expected 2023-01-01 and 2023-12-31 to be the same calendar year")
	}
	if SameCalendarYear(a.Epoch, c.Epoch) {
		t.Error("expected 2023-01-01 and 2024-01-01 to differ in calendar year")
	}
}
