// Package reminder parses natural-language time expressions and schedules
// deferred notifications backed by the persistent reminder list.
package reminder

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	relativePattern = regexp.MustCompile(`(?i)(?:after|in)?\s*(\d+)\s*(seconds?|secs?|minutes?|mins?|hours?|hrs?)`)
	clockPattern    = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s?(AM|PM)?\b`)
	reminderWord    = regexp.MustCompile(`(?i)reminder`)
	connectorWord   = regexp.MustCompile(`(?i)\b(at|and)\b`)
	spaces          = regexp.MustCompile(`\s+`)
)

// ParseRelative extracts a "<N> (seconds|minutes|hours)" expression,
// optionally preceded by "after" or "in". Returns the delay, the matched
// substring, and whether a match was found.
func ParseRelative(text string) (time.Duration, string, bool) {
	m := relativePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	unit := strings.ToLower(m[2])
	switch {
	case strings.HasPrefix(unit, "sec"):
		return time.Duration(n) * time.Second, m[0], true
	case strings.HasPrefix(unit, "min"):
		return time.Duration(n) * time.Minute, m[0], true
	case strings.HasPrefix(unit, "hour"), strings.HasPrefix(unit, "hr"):
		return time.Duration(n) * time.Hour, m[0], true
	}
	return 0, "", false
}

// ParseAbsolute extracts a clock-time expression ("9", "9:30", "9 PM").
// Without a meridiem the hour is read as 24-hour time. A time-of-day that has
// already passed rolls to the same time tomorrow. Returns the delay until the
// target, the target timestamp, and the matched substring.
func ParseAbsolute(text string, now time.Time) (time.Duration, time.Time, string, bool) {
	m := clockPattern.FindStringSubmatch(text)
	if m == nil {
		return 0, time.Time{}, "", false
	}

	hour, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, time.Time{}, "", false
	}
	minute := 0
	if m[2] != "" {
		minute, err = strconv.Atoi(m[2])
		if err != nil {
			return 0, time.Time{}, "", false
		}
	}

	switch strings.ToUpper(m[3]) {
	case "PM":
		if hour != 12 {
			hour += 12
		}
	case "AM":
		if hour == 12 {
			hour = 0
		}
	}
	if hour > 23 || minute > 59 {
		return 0, time.Time{}, "", false
	}

	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if target.Before(now) {
		target = target.Add(24 * time.Hour)
	}
	return target.Sub(now), target, m[0], true
}

// deriveMessage strips the literal word "reminder", the matched scheduling
// expression, and leftover connector words from the payload, leaving the
// notification message.
func deriveMessage(payload, matched string) string {
	msg := reminderWord.ReplaceAllString(payload, "")
	if matched != "" {
		msg = strings.Replace(msg, matched, "", 1)
	}
	msg = connectorWord.ReplaceAllString(msg, "")
	return strings.TrimSpace(spaces.ReplaceAllString(msg, " "))
}
