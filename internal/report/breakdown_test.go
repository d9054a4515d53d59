package report

import (
	"context"
	"testing"
)

func buildSingleQuestion(t *testing.T, store *stubStore) QuestionBreakdown {
	t.Helper()
	engine := NewEngine(store)
	rep, err := engine.BuildReport(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("BuildReport error: %v", err)
	}
	if len(rep.Questions) != 1 {
		t.Fatalf("expected 1 question breakdown, got %d", len(rep.Questions))
	}
	return rep.Questions[0]
}

func TestBreakdownStarsAndRating(t *testing.T) {
	store := defaultCatalog()
	store.addReview(1, 5, "", false, day)
	store.addReview(2, 3, "", false, day)
	store.addSelection(1, 10, 5, tagRef(100))
	store.addSelection(2, 10, 3, nil)

	qb := buildSingleQuestion(t, store)

	got := map[int64]int{}
	for _, sb := range qb.Stars {
		got[sb.Star.ID] = sb.StarsCount
	}
	if got[5] != 1 || got[3] != 1 {
		t.Fatalf("unexpected star counts: %v", got)
	}
	if qb.Rating != 4.0 {
		t.Fatalf("expected rating 4.0, got %v", qb.Rating)
	}
	if len(qb.TagsRating) != 1 || qb.TagsRating[0].ID != 100 {
		t.Fatalf("expected tags_rating [100], got %+v", qb.TagsRating)
	}
}

func TestBreakdownDoubleGate(t *testing.T) {
	store := defaultCatalog()
	store.addReview(1, 5, "", false, day)
	// tag 100 selected, tag 101 never selected on star 5
	store.addSelection(1, 10, 5, tagRef(100))

	qb := buildSingleQuestion(t, store)

	for _, sb := range qb.Stars {
		if sb.Star.ID != 5 {
			if len(sb.TagRatings) != 0 {
				t.Fatalf("star %d has stray tags: %+v", sb.Star.ID, sb.TagRatings)
			}
			continue
		}
		if len(sb.TagRatings) != 1 || sb.TagRatings[0].ID != 100 {
			t.Fatalf("expected only tag 100 on star 5, got %+v", sb.TagRatings)
		}
	}
}

func TestBreakdownTagsRatingDeduplicated(t *testing.T) {
	store := defaultCatalog()
	// offer the same tag on two stars of the question
	store.assocs[10] = []StarTag{
		{Star: store.stars[4], Tag: Tag{ID: 100, Label: "friendly"}},
		{Star: store.stars[2], Tag: Tag{ID: 100, Label: "friendly"}},
	}
	store.addReview(1, 5, "", false, day)
	store.addReview(2, 3, "", false, day)
	store.addSelection(1, 10, 5, tagRef(100))
	store.addSelection(2, 10, 3, tagRef(100))

	qb := buildSingleQuestion(t, store)

	if len(qb.TagsRating) != 1 {
		t.Fatalf("expected deduplicated tags_rating, got %+v", qb.TagsRating)
	}
	// but the tag still shows under both stars
	for _, sb := range qb.Stars {
		if sb.StarsCount > 0 && len(sb.TagRatings) != 1 {
			t.Fatalf("star %d missing tag: %+v", sb.Star.ID, sb.TagRatings)
		}
	}
}

func TestBreakdownQuestionWithoutAssociations(t *testing.T) {
	store := defaultCatalog()
	store.assocs[10] = nil
	store.addReview(1, 5, "", false, day)
	store.addSelection(1, 10, 5, nil)

	qb := buildSingleQuestion(t, store)

	if len(qb.Stars) != 0 {
		t.Fatalf("expected empty stars list, got %+v", qb.Stars)
	}
	if len(qb.TagsRating) != 0 {
		t.Fatalf("expected empty tags_rating, got %+v", qb.TagsRating)
	}
	if qb.Rating != 0 {
		t.Fatalf("expected rating 0, got %v", qb.Rating)
	}
}

func TestBreakdownRatingMatchesFinalCounts(t *testing.T) {
	store := defaultCatalog()
	store.addReview(1, 5, "", false, day)
	store.addReview(2, 5, "", false, day)
	store.addReview(3, 3, "", false, day)
	store.addReview(4, 1, "", false, day)
	store.assocs[10] = append(store.assocs[10], StarTag{Star: store.stars[0], Tag: Tag{ID: 103, Label: "rude"}})
	store.addSelection(1, 10, 5, nil)
	store.addSelection(2, 10, 5, nil)
	store.addSelection(3, 10, 3, nil)
	store.addSelection(4, 10, 1, tagRef(103))

	qb := buildSingleQuestion(t, store)

	// no stale running-total leakage: the rating equals the weighted
	// mean recomputed from the final per-star counts
	var weighted, total int
	for _, sb := range qb.Stars {
		weighted += sb.StarsCount * sb.Star.Value
		total += sb.StarsCount
	}
	want := float64(weighted) / float64(total)
	if qb.Rating != want {
		t.Fatalf("expected rating %v, got %v", want, qb.Rating)
	}
}
