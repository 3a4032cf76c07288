package tui

import (
	"strings"
	"testing"
	"time"
)

func TestFormatTimeLeft(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "Ended"},
		{-time.Minute, "Ended"},
		{45 * time.Second, "45s"},
		{5*time.Minute + 3*time.Second, "5m 03s"},
		{time.Hour + 3*time.Minute + 20*time.Second, "1h 03m 20s"},
		{52*time.Hour + 10*time.Minute, "2d 4h 10m"},
		{999 * time.Millisecond, "0s"},
	}
	for _, tt := range tests {
		if got := formatTimeLeft(tt.d); got != tt.want {
			t.Errorf("formatTimeLeft(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{0, "£0"},
		{950, "£950"},
		{1000, "£1,000"},
		{25500, "£25,500"},
		{1234567, "£1,234,567"},
		{1000.5, "£1,000.50"},
		{999.99, "£999.99"},
		{999.999, "£1,000"},
		{0.5, "£0.50"},
	}
	for _, tt := range tests {
		if got := formatMoney(tt.amount); got != tt.want {
			t.Errorf("formatMoney(%v) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestEditRune(t *testing.T) {
	if got := editRune("abc", "d"); got != "abcd" {
		t.Errorf("append = %q", got)
	}
	if got := editRune("abc", "backspace"); got != "ab" {
		t.Errorf("backspace = %q", got)
	}
	if got := editRune("", "backspace"); got != "" {
		t.Errorf("backspace on empty = %q", got)
	}
	if got := editRune("café", "backspace"); got != "caf" {
		t.Errorf("rune-aware backspace = %q", got)
	}
	if got := editRune("abc", "enter"); got != "abc" {
		t.Errorf("non-printable key = %q", got)
	}
	full := strings.Repeat("x", maxInputLen)
	if got := editRune(full, "y"); got != full {
		t.Error("input grew past the rune cap")
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "a\nb\nc\nd\n"
	if got := truncateToHeight(s, 2); got != "a\nb\n" {
		t.Errorf("truncateToHeight = %q", got)
	}
	if got := truncateToHeight(s, 10); got != s {
		t.Errorf("short content changed: %q", got)
	}
	if got := truncateToHeight(s, 0); got != s {
		t.Errorf("zero max changed content: %q", got)
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("hello", 10); got != "hello" {
		t.Errorf("short string changed: %q", got)
	}
	if got := truncStr("hello world", 8); got != "hello w…" {
		t.Errorf("truncStr = %q", got)
	}
}
