package report

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBuildReportScenario(t *testing.T) {
	store := defaultCatalog()
	store.addReview(1, 5, "excellent service", false, day)
	store.addReview(2, 3, "", false, day)
	store.addSelection(1, 10, 5, tagRef(100))
	store.addSelection(2, 10, 3, nil)

	engine := NewEngine(store)
	rep, err := engine.BuildReport(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("BuildReport error: %v", err)
	}

	if rep.Overall.Total != 2 {
		t.Fatalf("expected 2 overall selections, got %d", rep.Overall.Total)
	}
	if rep.Overall.TotalRating != 4.0 {
		t.Fatalf("expected overall rating 4.0, got %v", rep.Overall.TotalRating)
	}
	if len(rep.Overall.Comments) != 1 || rep.Overall.Comments[0].Body != "excellent service" {
		t.Fatalf("unexpected comments: %+v", rep.Overall.Comments)
	}
	if len(rep.Questions) != 1 || rep.Questions[0].Rating != 4.0 {
		t.Fatalf("unexpected question breakdowns: %+v", rep.Questions)
	}
}

func TestBuildReportNoQuestions(t *testing.T) {
	store := defaultCatalog()
	store.questions = nil

	engine := NewEngine(store)
	rep, err := engine.BuildReport(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("BuildReport error: %v", err)
	}
	if len(rep.Questions) != 0 {
		t.Fatalf("expected empty questions, got %+v", rep.Questions)
	}
	if rep.Questions == nil {
		t.Fatal("questions should be an empty slice, not nil")
	}
}

func TestBuildReportWindowed(t *testing.T) {
	store := defaultCatalog()
	inWindow := day
	outOfWindow := day.AddDate(0, -2, 0)
	store.addReview(1, 5, "recent", false, inWindow)
	store.addReview(2, 1, "old", false, outOfWindow)
	store.addSelection(1, 10, 5, nil)
	store.addSelection(2, 10, 1, nil)

	engine := NewEngine(store)
	w := &Window{Start: day.AddDate(0, -1, 0), End: day.AddDate(0, 1, 0)}
	rep, err := engine.BuildReport(context.Background(), 1, w)
	if err != nil {
		t.Fatalf("BuildReport error: %v", err)
	}
	if rep.Overall.Total != 1 {
		t.Fatalf("expected only the in-window selection, got %d", rep.Overall.Total)
	}
	if len(rep.Overall.Comments) != 1 || rep.Overall.Comments[0].Body != "recent" {
		t.Fatalf("window leaked into comments: %+v", rep.Overall.Comments)
	}
}

func TestBuildReportStoreFailureAbortsWhole(t *testing.T) {
	store := defaultCatalog()
	store.failCounts = true

	engine := NewEngine(store)
	rep, err := engine.BuildReport(context.Background(), 1, nil)
	if !errors.Is(err, errStoreDown) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
	if rep != nil {
		t.Fatalf("expected no partial report, got %+v", rep)
	}
}

func TestBuildReportMemoizesCounts(t *testing.T) {
	store := defaultCatalog()
	store.addReview(1, 5, "", false, day)
	store.addSelection(1, 10, 5, tagRef(100))

	engine := NewEngine(store)
	if _, err := engine.BuildReport(context.Background(), 1, nil); err != nil {
		t.Fatalf("BuildReport error: %v", err)
	}

	// distribution: one query per star (5). breakdown: one total per
	// associated star (2) and one triple per permitted tag (3). The
	// per-tag gate re-reads of the star totals hit the cache, so the
	// store only ever sees distinct filters.
	if got := store.calls["CountSelections"]; got != 10 {
		t.Fatalf("expected 10 distinct count queries, got %d", got)
	}
}

func TestWindowContains(t *testing.T) {
	w := &Window{Start: day, End: day.Add(time.Hour)}
	if !w.Contains(day) || !w.Contains(day.Add(time.Hour)) {
		t.Fatal("window ends must be inclusive")
	}
	if w.Contains(day.Add(time.Hour + time.Nanosecond)) {
		t.Fatal("instant past the end must be excluded")
	}
	var all *Window
	if !all.Contains(day.AddDate(-10, 0, 0)) {
		t.Fatal("nil window must contain everything")
	}
}
