package reminder

import (
	"testing"
	"time"
)

func TestParseRelative(t *testing.T) {
	cases := []struct {
		text string
		want time.Duration
		ok   bool
	}{
		{"in 10 minutes", 10 * time.Minute, true},
		{"5 secs", 5 * time.Second, true},
		{"after 2 hours", 2 * time.Hour, true},
		{"in 1 hr", time.Hour, true},
		{"90 seconds", 90 * time.Second, true},
		{"3 mins", 3 * time.Minute, true},
		{"at 9 PM", 0, false},
		{"sometime soon", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, _, ok := ParseRelative(tc.text)
		if ok != tc.ok {
			t.Errorf("ParseRelative(%q) ok = %v, want %v", tc.text, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("ParseRelative(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestParseAbsoluteRollsToTomorrow(t *testing.T) {
	// Current time 10 PM; "9 PM" has passed, so the target is tomorrow 21:00.
	now := time.Date(2025, 3, 10, 22, 0, 0, 0, time.Local)

	delay, target, _, ok := ParseAbsolute("9 PM", now)
	if !ok {
		t.Fatal("expected parse to succeed")
	}
	want := time.Date(2025, 3, 11, 21, 0, 0, 0, time.Local)
	if !target.Equal(want) {
		t.Errorf("target = %v, want %v", target, want)
	}
	if delay != 23*time.Hour {
		t.Errorf("delay = %v, want 23h", delay)
	}
}

func TestParseAbsoluteForms(t *testing.T) {
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.Local)

	cases := []struct {
		text     string
		wantHour int
		wantMin  int
		ok       bool
	}{
		{"9 AM", 9, 0, true},
		{"9:30", 9, 30, true},
		{"12 AM", 0, 0, true},  // midnight, rolls to tomorrow
		{"12 PM", 12, 0, true}, // noon
		{"21", 21, 0, true},    // 24-hour without meridiem
		{"9:75", 0, 0, false},
		{"no time here", 0, 0, false},
	}
	for _, tc := range cases {
		_, target, _, ok := ParseAbsolute(tc.text, now)
		if ok != tc.ok {
			t.Errorf("ParseAbsolute(%q) ok = %v, want %v", tc.text, ok, tc.ok)
			continue
		}
		if !ok {
			continue
		}
		if target.Hour() != tc.wantHour || target.Minute() != tc.wantMin {
			t.Errorf("ParseAbsolute(%q) = %02d:%02d, want %02d:%02d",
				tc.text, target.Hour(), target.Minute(), tc.wantHour, tc.wantMin)
		}
		if target.Before(now) {
			t.Errorf("ParseAbsolute(%q) produced a past target %v", tc.text, target)
		}
	}
}

func TestDeriveMessage(t *testing.T) {
	cases := []struct {
		payload, matched, want string
	}{
		{"reminder call mom in 10 minutes", "in 10 minutes", "call mom"},
		{"take medicine at 9 PM", "9 PM", "take medicine"},
		{"reminder water plants and feed cat after 2 hours", "after 2 hours", "water plants feed cat"},
	}
	for _, tc := range cases {
		if got := deriveMessage(tc.payload, tc.matched); got != tc.want {
			t.Errorf("deriveMessage(%q) = %q, want %q", tc.payload, got, tc.want)
		}
	}
}
