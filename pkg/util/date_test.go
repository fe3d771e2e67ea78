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
	if got.Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeOffsetConvertsToUTC(t *testing.T) {
	got, ok := ParseTime("2024-01-02 09:30:00-05:00")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC)
	if !got.Equal(want) || got.Location() != time.UTC {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestParseTimeDateOnly(t *testing.T) {
	got, ok := ParseTime("2024-01-01")
	if !ok {
		t.Fatalf("expected ok")
	}
	if !got.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected time %v", got)
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

func TestParseTimeGarbage(t *testing.T) {
	if _, ok := ParseTime("not a date"); ok {
		t.Fatalf("expected failure")
	}
}

func TestUnixFloat(t *testing.T) {
	got, ok := UnixFloat(1704067200.5)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != 1704067200 || got.Nanosecond() != 500000000 {
		t.Fatalf("unexpected time %v", got)
	}
	if _, ok := UnixFloat(-1); ok {
		t.Fatalf("expected failure for negative")
	}
}
