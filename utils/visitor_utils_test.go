package utils

import (
	"testing"
	"time"
)

func TestIsValidMobile(t *testing.T) {
	tests := []struct {
		mobile string
		want   bool
	}{
		{"9876543210", true},
		{"0000000000", true},
		{"12345", false},
		{"12345678901", false},
		{"abcdefghij", false},
		{"98765 4321", false},
		{"+919876543", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidMobile(tt.mobile); got != tt.want {
			t.Errorf("IsValidMobile(%q) = %v, want %v", tt.mobile, got, tt.want)
		}
	}
}

func TestFormatDurationLong(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "Less than a minute"},
		{45 * time.Second, "Less than a minute"},
		{-5 * time.Minute, "Less than a minute"},
		{time.Minute, "1 minute"},
		{5 * time.Minute, "5 minutes"},
		{time.Hour, "1 hour"},
		{2 * time.Hour, "2 hours"},
		{time.Hour + time.Minute, "1 hour 1 minute"},
		{2*time.Hour + 5*time.Minute, "2 hours 5 minutes"},
		{25*time.Hour + 59*time.Minute, "25 hours 59 minutes"},
		{time.Hour + 30*time.Second, "1 hour"},
	}
	for _, tt := range tests {
		if got := FormatDurationLong(tt.d); got != tt.want {
			t.Errorf("FormatDurationLong(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatDurationShort(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "<1m"},
		{30 * time.Second, "<1m"},
		{-time.Minute, "<1m"},
		{5 * time.Minute, "5m"},
		{time.Hour, "1h"},
		{2*time.Hour + 5*time.Minute, "2h 5m"},
		{26 * time.Hour, "26h"},
	}
	for _, tt := range tests {
		if got := FormatDurationShort(tt.d); got != tt.want {
			t.Errorf("FormatDurationShort(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestEnvOrDefault(t *testing.T) {
	t.Setenv("VISITOR_TEST_KEY", "set")
	if got := EnvOrDefault("VISITOR_TEST_KEY", "fallback"); got != "set" {
		t.Errorf("got %q, want set", got)
	}
	t.Setenv("VISITOR_TEST_KEY", "   ")
	if got := EnvOrDefault("VISITOR_TEST_KEY", "fallback"); got != "fallback" {
		t.Errorf("blank value: got %q, want fallback", got)
	}
	if got := EnvOrDefault("VISITOR_TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("missing key: got %q, want fallback", got)
	}
}
