package report

import (
	"context"
	"fmt"
)

// BuildReport assembles the full report for a business: overall
// distribution and average, the commented-review listing, and one
// breakdown per non-default question. The read is all-or-nothing: the
// first store failure aborts it and nothing partial is returned.
func (e *Engine) BuildReport(ctx context.Context, businessID int64, w *Window) (*Report, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}

	exists, err := e.store.BusinessExists(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("check business %d: %w", businessID, err)
	}
	if !exists {
		return nil, ErrBusinessNotFound
	}

	counts := newCountCache(e.store)

	dist, total, average, err := e.distribution(ctx, counts, businessID, w)
	if err != nil {
		return nil, err
	}

	comments, err := e.store.ListCommentedReviews(ctx, businessID, w)
	if err != nil {
		return nil, fmt.Errorf("list commented reviews: %w", err)
	}
	if comments == nil {
		comments = []Comment{}
	}

	questions, err := e.store.ListNonDefaultQuestions(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	breakdowns := make([]QuestionBreakdown, 0, len(questions))
	for _, q := range questions {
		qb, err := e.breakdownQuestion(ctx, counts, businessID, q, w)
		if err != nil {
			return nil, err
		}
		breakdowns = append(breakdowns, qb)
	}

	return &Report{
		BusinessID: businessID,
		Window:     w,
		Overall: Overall{
			Distribution: dist,
			Total:        total,
			TotalRating:  average,
			Comments:     comments,
		},
		Questions: breakdowns,
	}, nil
}

// countCache memoizes CountSelections within a single report build. The
// breakdown re-reads the same (question, star) total once per permitted
// tag, and the overall distribution repeats per-star counts; without the
// cache a report costs O(questions × stars × tags) round-trips.
type countCache struct {
	store Store
	seen  map[selectionKey]int
}

// selectionKey flattens a filter's optional ids; 0 means unset. The
// business id and window are fixed for the lifetime of one cache, so
// they stay out of the key.
type selectionKey struct {
	questionID int64
	starID     int64
	tagID      int64
}

func newCountCache(store Store) *countCache {
	return &countCache{store: store, seen: make(map[selectionKey]int)}
}

func (c *countCache) count(ctx context.Context, f SelectionFilter) (int, error) {
	key := selectionKey{}
	if f.QuestionID != nil {
		key.questionID = *f.QuestionID
	}
	if f.StarID != nil {
		key.starID = *f.StarID
	}
	if f.TagID != nil {
		key.tagID = *f.TagID
	}

	if n, ok := c.seen[key]; ok {
		return n, nil
	}

	n, err := c.store.CountSelections(ctx, f)
	if err != nil {
		return 0, err
	}
	c.seen[key] = n
	return n, nil
}
