package main

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"line one\nline two", 50, "line one line two"},
		{"abcdefghij", 8, "abcde..."},
		{"journée épuisante", 10, "journée..."},
		{"😀😀😀😀😀😀", 5, "😀😀..."},
	}
	for _, tt := range tests {
		got := truncate(tt.in, tt.max)
		if got != tt.want {
			t.Fatalf("truncate(%q, %d)=%q, want %q", tt.in, tt.max, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Fatalf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.max)
		}
	}
}

func TestTruncateLongAccentedText(t *testing.T) {
	in := strings.Repeat("é", 60)
	got := truncate(in, 50)
	if utf8.RuneCountInString(got) != 50 || !utf8.ValidString(got) {
		t.Fatalf("truncate gave %d runes: %q", utf8.RuneCountInString(got), got)
	}
}

func TestTrendArrow(t *testing.T) {
	if trendArrow(1) != "up" || trendArrow(-1) != "down" || trendArrow(0) != "flat" {
		t.Fatalf("unexpected arrows")
	}
}
