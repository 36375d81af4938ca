package util

import "testing"

func TestParseIntDefault(t *testing.T) {
	if got := ParseIntDefault("12", 0); got != 12 {
		t.Fatalf("got %d, want 12", got)
	}
	if got := ParseIntDefault("", 7); got != 7 {
		t.Fatalf("empty string should fall back, got %d", got)
	}
	if got := ParseIntDefault("nope", 7); got != 7 {
		t.Fatalf("invalid string should fall back, got %d", got)
	}
}
