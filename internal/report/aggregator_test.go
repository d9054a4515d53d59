package report

import (
	"context"
	"errors"
	"testing"
	"time"
)

var day = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestRatingSummaryNoReviews(t *testing.T) {
	store := defaultCatalog()
	engine := NewEngine(store)

	summary, err := engine.BuildRatingSummary(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("BuildRatingSummary error: %v", err)
	}
	if summary.Total != 0 {
		t.Fatalf("expected total 0, got %d", summary.Total)
	}
	if summary.Average != 0 {
		t.Fatalf("expected average 0, got %v", summary.Average)
	}
	for _, b := range summary.Distribution {
		if b.Count != 0 {
			t.Fatalf("expected empty bucket for value %d, got %d", b.Value, b.Count)
		}
	}
}

func TestRatingSummaryDistribution(t *testing.T) {
	store := defaultCatalog()
	store.addReview(1, 5, "", false, day)
	store.addReview(2, 3, "", false, day)
	store.addReview(3, 5, "", false, day)
	store.addSelection(1, 10, 5, nil)
	store.addSelection(2, 10, 3, nil)
	store.addSelection(3, 10, 5, nil)

	engine := NewEngine(store)
	summary, err := engine.BuildRatingSummary(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("BuildRatingSummary error: %v", err)
	}

	counts := map[int]int{}
	total := 0
	for _, b := range summary.Distribution {
		counts[b.Value] = b.Count
		total += b.Count
	}
	if counts[5] != 2 || counts[3] != 1 {
		t.Fatalf("unexpected distribution: %+v", summary.Distribution)
	}
	// conservation: buckets sum to the number of distinct selections
	if total != summary.Total || total != 3 {
		t.Fatalf("expected 3 selections across buckets, got %d (total %d)", total, summary.Total)
	}
	want := float64(5*2+3*1) / 3
	if summary.Average != want {
		t.Fatalf("expected average %v, got %v", want, summary.Average)
	}
}

func TestRatingSummaryDeduplicatesPerQuestion(t *testing.T) {
	store := defaultCatalog()
	store.addReview(1, 5, "", false, day)
	// duplicate rows for the same (review, question) count once
	store.addSelection(1, 10, 5, nil)
	store.addSelection(1, 10, 5, tagRef(100))

	engine := NewEngine(store)
	summary, err := engine.BuildRatingSummary(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("BuildRatingSummary error: %v", err)
	}
	if summary.Total != 1 {
		t.Fatalf("expected 1 distinct selection, got %d", summary.Total)
	}
}

func TestGuestReviewsExcluded(t *testing.T) {
	store := defaultCatalog()
	store.addReview(1, 5, "great", true, day)
	store.addSelection(1, 10, 5, nil)

	engine := NewEngine(store)
	summary, err := engine.BuildRatingSummary(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("BuildRatingSummary error: %v", err)
	}
	if summary.Total != 0 || summary.Average != 0 {
		t.Fatalf("guest review leaked into aggregate: %+v", summary)
	}
}

func TestWindowInclusiveBothEnds(t *testing.T) {
	store := defaultCatalog()
	start := day
	end := day.Add(48 * time.Hour)
	store.addReview(1, 5, "", false, start)
	store.addReview(2, 4, "", false, end)
	store.addReview(3, 3, "", false, end.Add(time.Second))
	store.addSelection(1, 10, 5, nil)
	store.addSelection(2, 10, 4, nil)
	store.addSelection(3, 10, 3, nil)

	engine := NewEngine(store)
	summary, err := engine.BuildRatingSummary(context.Background(), 1, &Window{Start: start, End: end})
	if err != nil {
		t.Fatalf("BuildRatingSummary error: %v", err)
	}
	if summary.Total != 2 {
		t.Fatalf("expected boundary reviews included and later one excluded, got total %d", summary.Total)
	}
}

func TestInvalidWindowRejectedBeforeQueries(t *testing.T) {
	store := defaultCatalog()
	engine := NewEngine(store)

	w := &Window{Start: day, End: day.Add(-time.Hour)}
	_, err := engine.BuildRatingSummary(context.Background(), 1, w)
	if !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
	if len(store.calls) != 0 {
		t.Fatalf("expected no store calls, got %v", store.calls)
	}
}

func TestUnknownBusiness(t *testing.T) {
	store := defaultCatalog()
	engine := NewEngine(store)

	_, err := engine.BuildRatingSummary(context.Background(), 99, nil)
	if !errors.Is(err, ErrBusinessNotFound) {
		t.Fatalf("expected ErrBusinessNotFound, got %v", err)
	}
}
