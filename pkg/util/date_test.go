package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUpstreamLayouts(t *testing.T) {
	cases := map[string]time.Time{
		"2024-10-10":          time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC),
		"2024-10-10 15:30:00": time.Date(2024, 10, 10, 15, 30, 0, 0, time.UTC),
		"2024-10-10 15:30":    time.Date(2024, 10, 10, 15, 30, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, ok := ParseTime(in)
		if !ok {
			t.Fatalf("%q: expected ok", in)
		}
		if !got.Equal(want) {
			t.Fatalf("%q: got %v want %v", in, got, want)
		}
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestParseTimeRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "yesterday", "2024-13-45", "-5"} {
		if _, ok := ParseTime(in); ok {
			t.Fatalf("%q: expected failure", in)
		}
	}
}

func TestParseTimeDefault(t *testing.T) {
	def := time.Date(2024, 10, 10, 10, 10, 10, 0, time.UTC)
	got := ParseTimeDefault("", def)
	if !got.Equal(def) {
		t.Fatalf("expected default")
	}
}
