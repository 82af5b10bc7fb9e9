package services

import (
	"testing"
	"time"
)

func TestRenderNumberFormat(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		format string
		seq    int
		want   string
	}{
		{"BM-{#####}", 6, "BM-00006"},
		{"BM-{#####}", 42, "BM-00042"},
		{"FS-{YYYY}-{####}", 7, "FS-2024-0007"},
		{"C{YY}/{###}", 5, "C24/005"},
		{"{####}", 12345, "12345"}, // wider than the pad, never truncated
		{"PLAIN", 3, "PLAIN3"},     // no placeholder: number appended
		{"X-{FOO}-{##}", 1, "X-{FOO}-01"},
		{"X-{##", 9, "X-{##9"}, // unterminated brace stays literal
	}

	for _, tc := range cases {
		got := renderNumberFormat(parseNumberFormat(tc.format), tc.seq, now)
		if got != tc.want {
			t.Errorf("render %q seq %d: got %q, want %q", tc.format, tc.seq, got, tc.want)
		}
	}
}

func TestParseNumberFormatLiteralHashOutsideBraces(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	got := renderNumberFormat(parseNumberFormat("A#B-{##}"), 4, now)
	if got != "A#B-04" {
		t.Fatalf("got %q, want %q", got, "A#B-04")
	}
}
