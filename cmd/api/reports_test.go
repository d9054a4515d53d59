package main

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestParseWindowAbsent(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/businesses/1/report", nil)

	window, err := parseWindow(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window != nil {
		t.Fatalf("expected nil window when no bounds given, got %+v", window)
	}
}

func TestParseWindowRFC3339(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/businesses/1/report?from=2025-06-01T00:00:00Z&to=2025-06-30T23:59:59Z", nil)

	window, err := parseWindow(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	wantStart := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	if !window.Start.Equal(wantStart) {
		t.Fatalf("Start = %s, want %s", window.Start, wantStart)
	}
	wantEnd := time.Date(2025, 6, 30, 23, 59, 59, 0, time.UTC)
	if !window.End.Equal(wantEnd) {
		t.Fatalf("End = %s, want %s", window.End, wantEnd)
	}
}

func TestParseWindowDateOnlyToCoversWholeDay(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/businesses/1/report?from=2025-06-01&to=2025-06-30", nil)

	window, err := parseWindow(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lastInstant := time.Date(2025, 6, 30, 23, 59, 59, 999999999, time.UTC)
	if !window.Contains(lastInstant) {
		t.Fatal("a bare to-date must include the whole closing day")
	}
	nextDay := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	if window.Contains(nextDay) {
		t.Fatal("the day after the to-date must be outside the window")
	}
}

func TestParseWindowFromOnlyEndsNow(t *testing.T) {
	r := httptest.NewRequest("GET", "/v1/businesses/1/report?from=2025-06-01", nil)

	window, err := parseWindow(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if window.End.IsZero() {
		t.Fatal("from without to must default End to the current time")
	}
	if window.End.Before(window.Start) {
		t.Fatalf("defaulted End %s precedes Start %s", window.End, window.Start)
	}
}

func TestParseWindowRejectsGarbageAndInversion(t *testing.T) {
	for _, query := range []string{
		"?from=notadate",
		"?to=2025-13-45",
		"?from=2025-06-30&to=2025-06-01",
	} {
		r := httptest.NewRequest("GET", "/v1/businesses/1/report"+query, nil)
		if _, err := parseWindow(r); err == nil {
			t.Fatalf("expected error for %q", query)
		}
	}
}
