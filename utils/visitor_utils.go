package utils

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

//
// ===========================================================
//  ENV UTILITIES
// ===========================================================
//

// EnvOrDefault returns ENV value or fallback default.
func EnvOrDefault(key, def string) string {
	v := os.Getenv(key)
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

//
// ===========================================================
//  MOBILE VALIDATION
// ===========================================================
//

var mobileRe = regexp.MustCompile(`^[0-9]{10}$`)

// IsValidMobile checks the kiosk's 10-digit mobile number format.
func IsValidMobile(mobile string) bool {
	return mobileRe.MatchString(mobile)
}

//
// ===========================================================
//  VISIT DURATION FORMATTING
// ===========================================================
//

// Durations are reported at minute granularity; seconds are dropped.
// Two renderings exist: a long one for the checkout confirmation
// ("2 hours 5 minutes") and a short one for listings ("2h 5m").
// Sub-minute visits get a sentinel instead of "0h 0m".

func splitDuration(d time.Duration) (hours, minutes int) {
	if d < 0 {
		d = 0
	}
	total := int(d.Minutes())
	return total / 60, total % 60
}

// FormatDurationLong renders a completed visit for the checkout response.
func FormatDurationLong(d time.Duration) string {
	hours, minutes := splitDuration(d)

	var parts []string
	if hours > 0 {
		unit := "hour"
		if hours > 1 {
			unit = "hours"
		}
		parts = append(parts, fmt.Sprintf("%d %s", hours, unit))
	}
	if minutes > 0 {
		unit := "minute"
		if minutes > 1 {
			unit = "minutes"
		}
		parts = append(parts, fmt.Sprintf("%d %s", minutes, unit))
	}
	if len(parts) == 0 {
		return "Less than a minute"
	}
	return strings.Join(parts, " ")
}

// FormatDurationShort renders a visit duration for listings and exports.
func FormatDurationShort(d time.Duration) string {
	hours, minutes := splitDuration(d)

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if len(parts) == 0 {
		return "<1m"
	}
	return strings.Join(parts, " ")
}
