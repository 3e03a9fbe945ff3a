package service

import "testing"

func TestBuildDailySpec(t *testing.T) {
	spec, err := buildDailySpec("21:30")
	if err != nil {
		t.Fatalf("valid time: %v", err)
	}
	if spec != "0 30 21 * * *" {
		t.Fatalf("unexpected spec %q", spec)
	}

	for _, bad := range []string{"", "21", "24:00", "12:60", "ab:cd"} {
		if _, err := buildDailySpec(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestHoursHelpers(t *testing.T) {
	hours := WorkingHours{Start: 8, End: 10}
	slots := hours.Slots()
	want := []string{"08:00", "09:00", "10:00"}
	if len(slots) != len(want) {
		t.Fatalf("expected %d slots, got %d", len(want), len(slots))
	}
	for i := range want {
		if slots[i] != want[i] {
			t.Fatalf("slot %d: got %q want %q", i, slots[i], want[i])
		}
	}
	if hours.Contains(7) || !hours.Contains(8) || !hours.Contains(10) || hours.Contains(11) {
		t.Fatalf("window bounds must be inclusive")
	}
}
